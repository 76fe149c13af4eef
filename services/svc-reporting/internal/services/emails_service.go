package services

import (
	"context"
	"errors"

	"github.com/architeacher/reporting/services/svc-reporting/internal/domain/model"
	"github.com/architeacher/reporting/services/svc-reporting/internal/ports"
)

type EmailsService struct {
	emails    ports.EmailRepository
	employees ports.EmployeeRepository
}

var _ ports.EmailsService = (*EmailsService)(nil)

func NewEmailsService(emails ports.EmailRepository, employees ports.EmployeeRepository) *EmailsService {
	return &EmailsService{emails: emails, employees: employees}
}

func (s *EmailsService) CreateEmail(ctx context.Context, email *model.Email) (*model.Email, error) {
	if email.ID != 0 {
		return nil, model.ErrIDAlreadySet
	}

	if err := email.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkEmployee(ctx, email.EmployeeID); err != nil {
		return nil, err
	}

	if err := s.emails.Save(ctx, email); err != nil {
		return nil, unknownEmployee(err)
	}

	return email, nil
}

func (s *EmailsService) UpdateEmail(ctx context.Context, id int64, email *model.Email) (*model.Email, error) {
	if email.ID == 0 {
		return nil, model.ErrInvalidID
	}

	if email.ID != id {
		return nil, model.ErrIDMismatch
	}

	if err := email.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.emails.FindByID(ctx, id); err != nil {
		return nil, err
	}

	if err := s.checkEmployee(ctx, email.EmployeeID); err != nil {
		return nil, err
	}

	if err := s.emails.Update(ctx, email); err != nil {
		return nil, unknownEmployee(err)
	}

	return email, nil
}

func (s *EmailsService) PatchEmail(ctx context.Context, id int64, patch model.EmailPatch) (*model.Email, error) {
	email, err := s.emails.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := email.Apply(patch); err != nil {
		return nil, err
	}

	if err := s.checkEmployee(ctx, email.EmployeeID); err != nil {
		return nil, err
	}

	if err := s.emails.Update(ctx, email); err != nil {
		return nil, unknownEmployee(err)
	}

	return email, nil
}

func (s *EmailsService) GetEmail(ctx context.Context, id int64) (*model.Email, error) {
	return s.emails.FindByID(ctx, id)
}

func (s *EmailsService) FindEmails(ctx context.Context, criteria model.Criteria) (*model.Page[*model.Email], error) {
	return s.emails.FindPage(ctx, criteria)
}

func (s *EmailsService) CountEmails(ctx context.Context, criteria model.Criteria) (int64, error) {
	return s.emails.Count(ctx, criteria)
}

func (s *EmailsService) DeleteEmail(ctx context.Context, id int64) error {
	return s.emails.Delete(ctx, id)
}

// checkEmployee rejects a reference to an employee that does not exist.
func (s *EmailsService) checkEmployee(ctx context.Context, employeeID *int64) error {
	if employeeID == nil {
		return nil
	}

	_, err := s.employees.FindByID(ctx, *employeeID)

	return unknownEmployee(err)
}

// unknownEmployee turns a dangling employee reference into a validation
// error on the employeeId attribute.
func unknownEmployee(err error) error {
	if !errors.Is(err, model.ErrEmployeeNotFound) {
		return err
	}

	errs := model.NewValidationErrors()
	errs.Add(model.EmailFieldEmployeeID, "employeeId references an unknown employee", "UNKNOWN_REFERENCE")

	return errs
}
