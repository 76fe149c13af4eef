package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/architeacher/reporting/services/svc-reporting/internal/domain/model"
	"github.com/architeacher/reporting/services/svc-reporting/internal/ports"
)

const emailLookupBatch = 1000

type ReportsService struct {
	employees ports.EmployeeRepository
	emails    ports.EmailRepository
	now       func() time.Time
}

var _ ports.ReportsService = (*ReportsService)(nil)

func NewReportsService(employees ports.EmployeeRepository, emails ports.EmailRepository) *ReportsService {
	return &ReportsService{
		employees: employees,
		emails:    emails,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// GenerateReport lists the employees selected by request together with the
// addresses of their emails, in the requested order.
func (s *ReportsService) GenerateReport(ctx context.Context, request model.ReportRequest) (*model.Report, error) {
	if request.MinSalary < 0 {
		return nil, fmt.Errorf("%w: minSalary must not be negative", model.ErrInvalidFilter)
	}

	title := strings.TrimSpace(request.Title)
	if title == "" {
		title = model.DefaultReportTitle
	}

	employees, err := s.employees.FindAll(ctx, request.Criteria())
	if err != nil {
		return nil, err
	}

	addresses, err := s.addressesByEmployee(ctx, employees)
	if err != nil {
		return nil, err
	}

	rows := make([]model.ReportRow, 0, len(employees))

	for _, employee := range employees {
		rows = append(rows, model.ReportRow{
			EmployeeID: employee.ID,
			FirstName:  employee.FirstName,
			LastName:   employee.LastName,
			Salary:     employee.Salary,
			Active:     employee.Active,
			Emails:     addresses[employee.ID],
		})
	}

	return &model.Report{
		Title:       title,
		MinSalary:   request.MinSalary,
		GeneratedAt: s.now(),
		Rows:        rows,
	}, nil
}

// addressesByEmployee loads the emails of employees in batches of
// emailLookupBatch ids, keeping each IN list well below the bind parameter
// limit of the database.
func (s *ReportsService) addressesByEmployee(ctx context.Context, employees []*model.Employee) (map[int64][]string, error) {
	addresses := make(map[int64][]string, len(employees))

	for batch := range slices.Chunk(employees, emailLookupBatch) {
		ids := make([]int64, 0, len(batch))
		for _, employee := range batch {
			ids = append(ids, employee.ID)
		}

		criteria := model.EmailQuery(
			&model.EmailCriteria{EmployeeID: model.LongFilter{Filter: model.Filter[int64]{In: ids}}},
			model.UnpagedRequest(model.SortField{Field: model.EmailFieldAddress, Direction: model.SortAsc}),
		)

		emails, err := s.emails.FindAll(ctx, criteria)
		if err != nil {
			return nil, err
		}

		for _, email := range emails {
			if email.EmployeeID == nil {
				continue
			}

			addresses[*email.EmployeeID] = append(addresses[*email.EmployeeID], email.Address)
		}
	}

	return addresses, nil
}
