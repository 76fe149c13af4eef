package model

import "strings"

const (
	RelationEmployee = "employee"

	EmailFieldID         = "id"
	EmailFieldAddress    = "address"
	EmailFieldEmployeeID = "employeeId"
)

type Email struct {
	ID         int64
	Address    string
	EmployeeID *int64
}

// EmailPatch carries the fields a partial update may change. Nil fields are
// left untouched; ClearEmployee unlinks the referenced employee.
type EmailPatch struct {
	Address       *string
	EmployeeID    *int64
	ClearEmployee bool
}

func NewEmail(address string, employeeID *int64) (*Email, error) {
	email := &Email{
		Address:    strings.TrimSpace(address),
		EmployeeID: clonePtr(employeeID),
	}

	if err := email.Validate(); err != nil {
		return nil, err
	}

	return email, nil
}

func (e *Email) Validate() error {
	errs := NewValidationErrors()

	if e.Address == "" {
		errs.Add(EmailFieldAddress, "address is required", "REQUIRED")
	}

	if e.EmployeeID != nil && *e.EmployeeID <= 0 {
		errs.Add(EmailFieldEmployeeID, "employeeId must be positive", "INVALID_VALUE")
	}

	if errs.HasErrors() {
		return errs
	}

	return nil
}

func (e *Email) Apply(patch EmailPatch) error {
	if patch.Address != nil {
		e.Address = strings.TrimSpace(*patch.Address)
	}

	if patch.ClearEmployee {
		e.EmployeeID = nil
	} else if patch.EmployeeID != nil {
		e.EmployeeID = clonePtr(patch.EmployeeID)
	}

	return e.Validate()
}

func (e *Email) Clone() *Email {
	return &Email{
		ID:         e.ID,
		Address:    e.Address,
		EmployeeID: clonePtr(e.EmployeeID),
	}
}
