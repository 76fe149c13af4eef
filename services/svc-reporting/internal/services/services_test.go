package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/architeacher/reporting/pkg/logger"
	"github.com/architeacher/reporting/services/svc-reporting/internal/adapters/repos/memory"
	"github.com/architeacher/reporting/services/svc-reporting/internal/domain/model"
	"github.com/architeacher/reporting/services/svc-reporting/internal/ports"
	"github.com/architeacher/reporting/services/svc-reporting/internal/services"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store     *memory.Store
	emails    *services.EmailsService
	employees *services.EmployeesService
	reports   *services.ReportsService
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	store := memory.NewStore(logger.NewTestLogger())

	return fixture{
		store:     store,
		emails:    services.NewEmailsService(store.Emails(), store.Employees()),
		employees: services.NewEmployeesService(store.Employees()),
		reports:   services.NewReportsService(store.Employees(), store.Emails()),
	}
}

func (f fixture) employee(t *testing.T, first, last string, salary *float64) *model.Employee {
	t.Helper()

	employee, err := f.employees.CreateEmployee(context.Background(), &model.Employee{
		FirstName: first,
		LastName:  last,
		Salary:    salary,
		Active:    true,
	})
	require.NoError(t, err)

	return employee
}

func requireValidationField(t *testing.T, err error, field string) {
	t.Helper()

	var validationErrs *model.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
	require.Equal(t, field, validationErrs.Errors[0].Field)
}

func TestEmailsService_CreateEmail(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		email       func(employeeID int64) *model.Email
		expectedErr error
		invalidAttr string
	}{
		{
			name: "creates email with employee",
			email: func(employeeID int64) *model.Email {
				return &model.Email{Address: "ada@analytical.io", EmployeeID: &employeeID}
			},
		},
		{
			name: "creates email without employee",
			email: func(int64) *model.Email {
				return &model.Email{Address: "info@analytical.io"}
			},
		},
		{
			name: "rejects preset id",
			email: func(int64) *model.Email {
				return &model.Email{ID: 5, Address: "ada@analytical.io"}
			},
			expectedErr: model.ErrIDAlreadySet,
		},
		{
			name: "rejects blank address",
			email: func(int64) *model.Email {
				return &model.Email{Address: " "}
			},
			invalidAttr: model.EmailFieldAddress,
		},
		{
			name: "rejects unknown employee",
			email: func(employeeID int64) *model.Email {
				unknown := employeeID + 100

				return &model.Email{Address: "ghost@nowhere.io", EmployeeID: &unknown}
			},
			invalidAttr: model.EmailFieldEmployeeID,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			employee := f.employee(t, "Ada", "Lovelace", nil)

			created, err := f.emails.CreateEmail(context.Background(), tc.email(employee.ID))

			switch {
			case tc.expectedErr != nil:
				require.ErrorIs(t, err, tc.expectedErr)
			case tc.invalidAttr != "":
				requireValidationField(t, err, tc.invalidAttr)
			default:
				require.NoError(t, err)
				require.Positive(t, created.ID)

				stored, err := f.emails.GetEmail(context.Background(), created.ID)
				require.NoError(t, err)
				require.Equal(t, created, stored)
			}
		})
	}
}

func TestEmailsService_UpdateEmail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	created, err := f.emails.CreateEmail(ctx, &model.Email{Address: "ada@analytical.io"})
	require.NoError(t, err)

	_, err = f.emails.UpdateEmail(ctx, created.ID, &model.Email{Address: "x@y.io"})
	require.ErrorIs(t, err, model.ErrInvalidID)

	_, err = f.emails.UpdateEmail(ctx, created.ID+1, &model.Email{ID: created.ID, Address: "x@y.io"})
	require.ErrorIs(t, err, model.ErrIDMismatch)

	_, err = f.emails.UpdateEmail(ctx, 99, &model.Email{ID: 99, Address: "x@y.io"})
	require.ErrorIs(t, err, model.ErrEmailNotFound)

	updated, err := f.emails.UpdateEmail(ctx, created.ID, &model.Email{ID: created.ID, Address: "lovelace@analytical.io"})
	require.NoError(t, err)
	require.Equal(t, "lovelace@analytical.io", updated.Address)
}

func TestEmailsService_PatchEmail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	employee := f.employee(t, "Ada", "Lovelace", nil)

	created, err := f.emails.CreateEmail(ctx, &model.Email{Address: "ada@analytical.io", EmployeeID: &employee.ID})
	require.NoError(t, err)

	patched, err := f.emails.PatchEmail(ctx, created.ID, model.EmailPatch{Address: model.Ptr("lovelace@analytical.io")})
	require.NoError(t, err)
	require.Equal(t, "lovelace@analytical.io", patched.Address)
	require.Equal(t, employee.ID, *patched.EmployeeID)

	patched, err = f.emails.PatchEmail(ctx, created.ID, model.EmailPatch{ClearEmployee: true})
	require.NoError(t, err)
	require.Nil(t, patched.EmployeeID)

	_, err = f.emails.PatchEmail(ctx, created.ID, model.EmailPatch{EmployeeID: model.Ptr(int64(404))})
	requireValidationField(t, err, model.EmailFieldEmployeeID)

	_, err = f.emails.PatchEmail(ctx, 404, model.EmailPatch{})
	require.ErrorIs(t, err, model.ErrEmailNotFound)
}

func TestEmailsService_FindAndCount(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	for _, address := range []string{"a@x.io", "b@x.io", "c@y.io"} {
		_, err := f.emails.CreateEmail(ctx, &model.Email{Address: address})
		require.NoError(t, err)
	}

	filter := &model.EmailCriteria{Address: model.StringFilter{Contains: model.Ptr("x.io")}}

	page, err := f.emails.FindEmails(ctx, model.EmailQuery(filter, model.PageRequest{Size: 1}))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, uint64(2), page.TotalElements)

	count, err := f.emails.CountEmails(ctx, model.EmailQuery(filter, model.UnpagedRequest()))
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	require.NoError(t, f.emails.DeleteEmail(ctx, page.Items[0].ID))
	require.ErrorIs(t, f.emails.DeleteEmail(ctx, page.Items[0].ID), model.ErrEmailNotFound)
}

func TestEmployeesService_Lifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	_, err := f.employees.CreateEmployee(ctx, &model.Employee{FirstName: "Ada"})
	requireValidationField(t, err, model.EmployeeFieldLastName)

	employee := f.employee(t, "Ada", "Lovelace", model.Ptr(20000.0))

	_, err = f.employees.UpdateEmployee(ctx, employee.ID+1, &model.Employee{ID: employee.ID, FirstName: "A", LastName: "L"})
	require.ErrorIs(t, err, model.ErrIDMismatch)

	updated, err := f.employees.UpdateEmployee(ctx, employee.ID, &model.Employee{ID: employee.ID, FirstName: "Augusta", LastName: "King"})
	require.NoError(t, err)
	require.Nil(t, updated.Salary)

	patched, err := f.employees.PatchEmployee(ctx, employee.ID, model.EmployeePatch{Salary: model.Ptr(-1.0)})
	requireValidationField(t, err, model.EmployeeFieldSalary)
	require.Nil(t, patched)

	_, err = f.emails.CreateEmail(ctx, &model.Email{Address: "ada@analytical.io", EmployeeID: &employee.ID})
	require.NoError(t, err)

	require.ErrorIs(t, f.employees.DeleteEmployee(ctx, employee.ID), model.ErrEmployeeReferenced)

	count, err := f.employees.CountEmployees(ctx, model.EmployeeQuery(nil, model.UnpagedRequest()))
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestReportsService_GenerateReport(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	ada := f.employee(t, "Ada", "Lovelace", model.Ptr(20000.0))
	alan := f.employee(t, "Alan", "Turing", model.Ptr(15000.0))
	f.employee(t, "Grace", "Hopper", model.Ptr(12000.0))
	f.employee(t, "Unpaid", "Intern", nil)

	for _, email := range []*model.Email{
		{Address: "z.ada@analytical.io", EmployeeID: &ada.ID},
		{Address: "ada@analytical.io", EmployeeID: &ada.ID},
		{Address: "orphan@nowhere.io"},
	} {
		_, err := f.emails.CreateEmail(ctx, email)
		require.NoError(t, err)
	}

	report, err := f.reports.GenerateReport(ctx, model.ReportRequest{MinSalary: model.DefaultReportMinSalary})
	require.NoError(t, err)

	require.Equal(t, model.DefaultReportTitle, report.Title)
	require.Len(t, report.Rows, 2)
	require.Equal(t, ada.ID, report.Rows[0].EmployeeID)
	require.Equal(t, []string{"ada@analytical.io", "z.ada@analytical.io"}, report.Rows[0].Emails)
	require.Equal(t, alan.ID, report.Rows[1].EmployeeID)
	require.Empty(t, report.Rows[1].Emails)
	require.False(t, report.GeneratedAt.IsZero())

	filtered, err := f.reports.GenerateReport(ctx, model.ReportRequest{
		Title:     "Turing only",
		MinSalary: 0,
		Employees: &model.EmployeeCriteria{LastName: model.StringFilter{Filter: model.Filter[string]{Equals: model.Ptr("Turing")}}},
	})
	require.NoError(t, err)
	require.Equal(t, "Turing only", filtered.Title)
	require.Len(t, filtered.Rows, 1)

	_, err = f.reports.GenerateReport(ctx, model.ReportRequest{MinSalary: -1})
	require.ErrorIs(t, err, model.ErrInvalidFilter)
}

// batchRecordingEmails records the size of every employeeId IN list the
// report asks for.
type batchRecordingEmails struct {
	ports.EmailRepository
	batches []int
}

func (r *batchRecordingEmails) FindAll(ctx context.Context, criteria model.Criteria) ([]*model.Email, error) {
	r.batches = append(r.batches, inListSize(criteria.Spec()))

	return r.EmailRepository.FindAll(ctx, criteria)
}

func inListSize(spec model.Specification) int {
	if spec == nil {
		return 0
	}

	if spec.Operator() == model.SpecOpIn {
		values, _ := spec.Value().([]any)

		return len(values)
	}

	for _, child := range spec.Children() {
		if size := inListSize(child); size > 0 {
			return size
		}
	}

	return 0
}

func TestReportsService_GenerateReport_BatchesEmailLookups(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewStore(logger.NewTestLogger())
	emails := &batchRecordingEmails{EmailRepository: store.Emails()}
	reports := services.NewReportsService(store.Employees(), emails)

	total := 2*services.EmailLookupBatch + 1
	ids := make([]int64, 0, total)

	for i := range total {
		employee := &model.Employee{
			FirstName: fmt.Sprintf("Employee%05d", i),
			LastName:  "Payroll",
			Salary:    model.Ptr(20000.0),
		}
		require.NoError(t, store.Employees().Save(ctx, employee))
		ids = append(ids, employee.ID)
	}

	first, last := ids[0], ids[total-1]
	for _, email := range []*model.Email{
		{Address: "first@payroll.io", EmployeeID: &first},
		{Address: "last@payroll.io", EmployeeID: &last},
	} {
		require.NoError(t, store.Emails().Save(ctx, email))
	}

	report, err := reports.GenerateReport(ctx, model.ReportRequest{MinSalary: model.DefaultReportMinSalary})
	require.NoError(t, err)

	require.Equal(t, []int{services.EmailLookupBatch, services.EmailLookupBatch, 1}, emails.batches)
	require.Len(t, report.Rows, total)
	require.Equal(t, []string{"first@payroll.io"}, report.Rows[0].Emails)
	require.Equal(t, []string{"last@payroll.io"}, report.Rows[total-1].Emails)
	require.Empty(t, report.Rows[1].Emails)
}
