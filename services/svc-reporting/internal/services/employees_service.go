package services

import (
	"context"

	"github.com/architeacher/reporting/services/svc-reporting/internal/domain/model"
	"github.com/architeacher/reporting/services/svc-reporting/internal/ports"
)

type EmployeesService struct {
	repo ports.EmployeeRepository
}

var _ ports.EmployeesService = (*EmployeesService)(nil)

func NewEmployeesService(repo ports.EmployeeRepository) *EmployeesService {
	return &EmployeesService{repo: repo}
}

func (s *EmployeesService) CreateEmployee(ctx context.Context, employee *model.Employee) (*model.Employee, error) {
	if employee.ID != 0 {
		return nil, model.ErrIDAlreadySet
	}

	if err := employee.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, employee); err != nil {
		return nil, err
	}

	return employee, nil
}

func (s *EmployeesService) UpdateEmployee(ctx context.Context, id int64, employee *model.Employee) (*model.Employee, error) {
	if employee.ID == 0 {
		return nil, model.ErrInvalidID
	}

	if employee.ID != id {
		return nil, model.ErrIDMismatch
	}

	if err := employee.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, employee); err != nil {
		return nil, err
	}

	return employee, nil
}

func (s *EmployeesService) PatchEmployee(ctx context.Context, id int64, patch model.EmployeePatch) (*model.Employee, error) {
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := employee.Apply(patch); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, employee); err != nil {
		return nil, err
	}

	return employee, nil
}

func (s *EmployeesService) GetEmployee(ctx context.Context, id int64) (*model.Employee, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *EmployeesService) FindEmployees(ctx context.Context, criteria model.Criteria) (*model.Page[*model.Employee], error) {
	return s.repo.FindPage(ctx, criteria)
}

func (s *EmployeesService) CountEmployees(ctx context.Context, criteria model.Criteria) (int64, error) {
	return s.repo.Count(ctx, criteria)
}

// DeleteEmployee fails with model.ErrEmployeeReferenced while emails still
// point at the employee.
func (s *EmployeesService) DeleteEmployee(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
