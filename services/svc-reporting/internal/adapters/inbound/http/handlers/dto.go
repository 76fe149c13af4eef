package handlers

import (
	"encoding/json"

	"github.com/architeacher/reporting/services/svc-reporting/internal/domain/model"
)

type (
	emailDTO struct {
		ID         *int64 `json:"id"`
		Address    string `json:"address"`
		EmployeeID *int64 `json:"employeeId"`
	}

	// emailPatchDTO distinguishes an absent employeeId from an explicit null,
	// which unlinks the employee.
	emailPatchDTO struct {
		ID         *int64          `json:"id"`
		Address    *string         `json:"address"`
		EmployeeID optional[int64] `json:"employeeId"`
	}

	employeeDTO struct {
		ID        *int64   `json:"id"`
		FirstName string   `json:"firstName"`
		LastName  string   `json:"lastName"`
		Salary    *float64 `json:"salary"`
		Active    bool     `json:"active"`
	}

	employeePatchDTO struct {
		ID        *int64   `json:"id"`
		FirstName *string  `json:"firstName"`
		LastName  *string  `json:"lastName"`
		Salary    *float64 `json:"salary"`
		Active    *bool    `json:"active"`
	}

	// optional records whether a JSON member was present and whether it was null.
	optional[T any] struct {
		Set   bool
		Null  bool
		Value T
	}
)

func (o *optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true

	if string(data) == "null" {
		o.Null = true

		return nil
	}

	return json.Unmarshal(data, &o.Value)
}

func toEmailDTO(email *model.Email) emailDTO {
	return emailDTO{
		ID:         model.Ptr(email.ID),
		Address:    email.Address,
		EmployeeID: email.EmployeeID,
	}
}

func toEmailDTOs(emails []*model.Email) []emailDTO {
	dtos := make([]emailDTO, 0, len(emails))

	for _, email := range emails {
		dtos = append(dtos, toEmailDTO(email))
	}

	return dtos
}

func (d emailDTO) toModel() *model.Email {
	email := &model.Email{Address: d.Address, EmployeeID: d.EmployeeID}
	if d.ID != nil {
		email.ID = *d.ID
	}

	return email
}

func (d emailPatchDTO) toPatch() model.EmailPatch {
	patch := model.EmailPatch{Address: d.Address}

	switch {
	case d.EmployeeID.Set && d.EmployeeID.Null:
		patch.ClearEmployee = true
	case d.EmployeeID.Set:
		patch.EmployeeID = model.Ptr(d.EmployeeID.Value)
	}

	return patch
}

func toEmployeeDTO(employee *model.Employee) employeeDTO {
	return employeeDTO{
		ID:        model.Ptr(employee.ID),
		FirstName: employee.FirstName,
		LastName:  employee.LastName,
		Salary:    employee.Salary,
		Active:    employee.Active,
	}
}

func toEmployeeDTOs(employees []*model.Employee) []employeeDTO {
	dtos := make([]employeeDTO, 0, len(employees))

	for _, employee := range employees {
		dtos = append(dtos, toEmployeeDTO(employee))
	}

	return dtos
}

func (d employeeDTO) toModel() *model.Employee {
	employee := &model.Employee{
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Salary:    d.Salary,
		Active:    d.Active,
	}

	if d.ID != nil {
		employee.ID = *d.ID
	}

	return employee
}

func (d employeePatchDTO) toPatch() model.EmployeePatch {
	return model.EmployeePatch{
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Salary:    d.Salary,
		Active:    d.Active,
	}
}
