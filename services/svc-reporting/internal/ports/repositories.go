//go:generate go tool github.com/maxbrunsfeld/counterfeiter/v6 -generate

package ports

//counterfeiter:generate -o ../mocks/email_repository.go . EmailRepository
//counterfeiter:generate -o ../mocks/employee_repository.go . EmployeeRepository

import (
	"context"

	"github.com/architeacher/reporting/services/svc-reporting/internal/domain/model"
)

type (
	// CriteriaFinder executes criteria against a store. Every read runs in a
	// read-only scope; FindPage reads the window and the total from the same
	// snapshot.
	CriteriaFinder[T any] interface {
		// FindAll returns every match of criteria, ignoring its window.
		FindAll(ctx context.Context, criteria model.Criteria) ([]T, error)

		// FindPage returns the window selected by criteria plus the total
		// number of matches.
		FindPage(ctx context.Context, criteria model.Criteria) (*model.Page[T], error)

		// Count returns the number of matches of criteria.
		Count(ctx context.Context, criteria model.Criteria) (int64, error)
	}

	EmailRepository interface {
		CriteriaFinder[*model.Email]

		// Save stores a new email and assigns its ID.
		Save(ctx context.Context, email *model.Email) error

		// Update replaces a stored email.
		Update(ctx context.Context, email *model.Email) error

		FindByID(ctx context.Context, id int64) (*model.Email, error)

		Delete(ctx context.Context, id int64) error
	}

	EmployeeRepository interface {
		CriteriaFinder[*model.Employee]

		// Save stores a new employee and assigns its ID.
		Save(ctx context.Context, employee *model.Employee) error

		// Update replaces a stored employee.
		Update(ctx context.Context, employee *model.Employee) error

		FindByID(ctx context.Context, id int64) (*model.Employee, error)

		// Delete fails with model.ErrEmployeeReferenced while emails still
		// reference the employee.
		Delete(ctx context.Context, id int64) error
	}
)
