package model

import "strings"

const (
	EmployeeFieldID        = "id"
	EmployeeFieldFirstName = "firstName"
	EmployeeFieldLastName  = "lastName"
	EmployeeFieldSalary    = "salary"
	EmployeeFieldActive    = "active"
)

type Employee struct {
	ID        int64
	FirstName string
	LastName  string
	Salary    *float64
	Active    bool
}

type EmployeePatch struct {
	FirstName *string
	LastName  *string
	Salary    *float64
	Active    *bool
}

func NewEmployee(firstName, lastName string, salary *float64, active bool) (*Employee, error) {
	employee := &Employee{
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Salary:    clonePtr(salary),
		Active:    active,
	}

	if err := employee.Validate(); err != nil {
		return nil, err
	}

	return employee, nil
}

func (e *Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

func (e *Employee) Validate() error {
	errs := NewValidationErrors()

	if e.FirstName == "" {
		errs.Add(EmployeeFieldFirstName, "firstName is required", "REQUIRED")
	}

	if e.LastName == "" {
		errs.Add(EmployeeFieldLastName, "lastName is required", "REQUIRED")
	}

	if e.Salary != nil && *e.Salary < 0 {
		errs.Add(EmployeeFieldSalary, "salary must not be negative", "INVALID_VALUE")
	}

	if errs.HasErrors() {
		return errs
	}

	return nil
}

func (e *Employee) Apply(patch EmployeePatch) error {
	if patch.FirstName != nil {
		e.FirstName = strings.TrimSpace(*patch.FirstName)
	}

	if patch.LastName != nil {
		e.LastName = strings.TrimSpace(*patch.LastName)
	}

	if patch.Salary != nil {
		e.Salary = clonePtr(patch.Salary)
	}

	if patch.Active != nil {
		e.Active = *patch.Active
	}

	return e.Validate()
}

func (e *Employee) Clone() *Employee {
	return &Employee{
		ID:        e.ID,
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Salary:    clonePtr(e.Salary),
		Active:    e.Active,
	}
}
