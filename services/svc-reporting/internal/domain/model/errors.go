package model

import "errors"

var (
	ErrEmailNotFound           = errors.New("email not found")
	ErrEmployeeNotFound        = errors.New("employee not found")
	ErrEmployeeReferenced      = errors.New("employee is referenced by emails")
	ErrInvalidID               = errors.New("invalid ID")
	ErrIDMismatch              = errors.New("ID in path does not match ID in body")
	ErrIDAlreadySet            = errors.New("a new entity cannot already have an ID")
	ErrInvalidFilter           = errors.New("invalid filter parameter")
	ErrInvalidPageRequest      = errors.New("invalid page request")
	ErrUnsupportedReportFormat = errors.New("unsupported report format")
	ErrDatabaseConnection      = errors.New("database connection error")
	ErrDatabaseQuery           = errors.New("database query error")
)

type ValidationError struct {
	Field   string
	Message string
	Code    string
}

type ValidationErrors struct {
	Errors []ValidationError
}

func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return "validation failed"
	}

	return v.Errors[0].Message
}

func (v *ValidationErrors) Add(field, message, code string) {
	v.Errors = append(v.Errors, ValidationError{
		Field:   field,
		Message: message,
		Code:    code,
	})
}

func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make([]ValidationError, 0),
	}
}
