//go:generate go tool github.com/maxbrunsfeld/counterfeiter/v6 -generate

package ports

//counterfeiter:generate -o ../mocks/emails_service.go . EmailsService
//counterfeiter:generate -o ../mocks/employees_service.go . EmployeesService
//counterfeiter:generate -o ../mocks/reports_service.go . ReportsService

import (
	"context"

	"github.com/architeacher/reporting/services/svc-reporting/internal/domain/model"
)

type (
	// EmailsService defines the business operations on emails.
	EmailsService interface {
		CreateEmail(ctx context.Context, email *model.Email) (*model.Email, error)

		// UpdateEmail replaces the email stored under id.
		UpdateEmail(ctx context.Context, id int64, email *model.Email) (*model.Email, error)

		// PatchEmail merges the non-nil fields of patch into the stored email.
		PatchEmail(ctx context.Context, id int64, patch model.EmailPatch) (*model.Email, error)

		GetEmail(ctx context.Context, id int64) (*model.Email, error)

		FindEmails(ctx context.Context, criteria model.Criteria) (*model.Page[*model.Email], error)

		CountEmails(ctx context.Context, criteria model.Criteria) (int64, error)

		DeleteEmail(ctx context.Context, id int64) error
	}

	// EmployeesService defines the business operations on employees.
	EmployeesService interface {
		CreateEmployee(ctx context.Context, employee *model.Employee) (*model.Employee, error)

		UpdateEmployee(ctx context.Context, id int64, employee *model.Employee) (*model.Employee, error)

		PatchEmployee(ctx context.Context, id int64, patch model.EmployeePatch) (*model.Employee, error)

		GetEmployee(ctx context.Context, id int64) (*model.Employee, error)

		FindEmployees(ctx context.Context, criteria model.Criteria) (*model.Page[*model.Employee], error)

		CountEmployees(ctx context.Context, criteria model.Criteria) (int64, error)

		DeleteEmployee(ctx context.Context, id int64) error
	}

	// ReportsService assembles employee reports.
	ReportsService interface {
		GenerateReport(ctx context.Context, request model.ReportRequest) (*model.Report, error)
	}
)
