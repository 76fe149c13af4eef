package repos_test

import (
	"errors"
	"regexp"
	"testing"

	"github.com/architeacher/reporting/services/svc-reporting/internal/adapters/repos"
	"github.com/architeacher/reporting/services/svc-reporting/internal/domain/model"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

const employeeSelect = `SELECT employee.id, employee.first_name, employee.last_name, employee.salary, employee.active FROM employee`

var employeeColumns = []string{"id", "first_name", "last_name", "salary", "active"}

func salary(v float64) *float64 {
	return &v
}

func TestEmployeesRepository_FindAll(t *testing.T) {
	criteria := model.EmployeeQuery(&model.EmployeeCriteria{
		Salary: model.DoubleFilter{GreaterThanOrEqual: model.Ptr(15000.0)},
		Active: model.BooleanFilter{Equals: model.Ptr(true)},
	}, model.UnpagedRequest(model.SortField{Field: model.EmployeeFieldLastName, Direction: model.SortDesc}))

	runRepoTest(t, newEmployeesRepository, func(mock pgxmock.PgxPoolIface) {
		mock.ExpectBeginTx(readOnlyTx)
		mock.ExpectQuery(regexp.QuoteMeta(employeeSelect +
			` WHERE (employee.salary >= $1 AND employee.active = $2) ORDER BY employee.last_name DESC, employee.id ASC`)).
			WithArgs(15000.0, true).
			WillReturnRows(pgxmock.NewRows(employeeColumns).
				AddRow(int64(2), "Ada", "Lovelace", salary(20000), true).
				AddRow(int64(1), "Alan", "Turing", salary(15000), true))
		mock.ExpectCommit()
	}, func(t *testing.T, repo *repos.EmployeesRepository) {
		employees, err := repo.FindAll(t.Context(), criteria)
		require.NoError(t, err)
		require.Equal(t, []*model.Employee{
			{ID: 2, FirstName: "Ada", LastName: "Lovelace", Salary: salary(20000), Active: true},
			{ID: 1, FirstName: "Alan", LastName: "Turing", Salary: salary(15000), Active: true},
		}, employees)
	})
}

func TestEmployeesRepository_FindPage(t *testing.T) {
	criteria := model.EmployeeQuery(&model.EmployeeCriteria{
		FirstName: model.StringFilter{Contains: model.Ptr("a")},
	}, model.PageRequest{Page: 0, Size: 1})

	runRepoTest(t, newEmployeesRepository, func(mock pgxmock.PgxPoolIface) {
		mock.ExpectBeginTx(readOnlyTx)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(employee.id) FROM employee WHERE employee.first_name ILIKE $1`)).
			WithArgs("%a%").
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(2)))
		mock.ExpectQuery(regexp.QuoteMeta(employeeSelect +
			` WHERE employee.first_name ILIKE $1 ORDER BY employee.id ASC LIMIT 1 OFFSET 0`)).
			WithArgs("%a%").
			WillReturnRows(pgxmock.NewRows(employeeColumns).
				AddRow(int64(1), "Alan", "Turing", (*float64)(nil), false))
		mock.ExpectCommit()
	}, func(t *testing.T, repo *repos.EmployeesRepository) {
		page, err := repo.FindPage(t.Context(), criteria)
		require.NoError(t, err)
		require.Equal(t, uint64(2), page.TotalElements)
		require.Equal(t, uint(2), page.TotalPages)
		require.True(t, page.HasNext())
		require.Len(t, page.Items, 1)
		require.Nil(t, page.Items[0].Salary)
	})
}

func TestEmployeesRepository_Count(t *testing.T) {
	runRepoTest(t, newEmployeesRepository, func(mock pgxmock.PgxPoolIface) {
		mock.ExpectBeginTx(readOnlyTx)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(employee.id) FROM employee`)).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(12)))
		mock.ExpectCommit()
	}, func(t *testing.T, repo *repos.EmployeesRepository) {
		count, err := repo.Count(t.Context(), model.EmployeeQuery(nil, model.DefaultPageRequest()))
		require.NoError(t, err)
		require.Equal(t, int64(12), count)
	})
}

func TestEmployeesRepository_Save(t *testing.T) {
	employee := &model.Employee{FirstName: "Grace", LastName: "Hopper", Salary: salary(30000), Active: true}

	runRepoTest(t, newEmployeesRepository, func(mock pgxmock.PgxPoolIface) {
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO employee (first_name,last_name,salary,active) VALUES ($1,$2,$3,$4) RETURNING id`)).
			WithArgs("Grace", "Hopper", employee.Salary, true).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)))
	}, func(t *testing.T, repo *repos.EmployeesRepository) {
		require.NoError(t, repo.Save(t.Context(), employee))
		require.Equal(t, int64(3), employee.ID)
	})
}

func TestEmployeesRepository_Update(t *testing.T) {
	employee := &model.Employee{ID: 3, FirstName: "Grace", LastName: "Hopper", Active: false}

	runRepoTest(t, newEmployeesRepository, func(mock pgxmock.PgxPoolIface) {
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE employee SET first_name = $1, last_name = $2, salary = $3, active = $4 WHERE id = $5`)).
			WithArgs("Grace", "Hopper", employee.Salary, false, int64(3)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	}, func(t *testing.T, repo *repos.EmployeesRepository) {
		require.ErrorIs(t, repo.Update(t.Context(), employee), model.ErrEmployeeNotFound)
	})
}

func TestEmployeesRepository_Delete(t *testing.T) {
	t.Parallel()

	const query = `DELETE FROM employee WHERE id = $1`

	cases := []struct {
		name        string
		result      pgconn.CommandTag
		err         error
		expectedErr error
	}{
		{name: "deleted", result: pgxmock.NewResult("DELETE", 1)},
		{name: "not found", result: pgxmock.NewResult("DELETE", 0), expectedErr: model.ErrEmployeeNotFound},
		{name: "still referenced", err: &pgconn.PgError{Code: "23503"}, expectedErr: model.ErrEmployeeReferenced},
		{name: "database error", err: errors.New("boom"), expectedErr: model.ErrDatabaseQuery},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setup := func(mock pgxmock.PgxPoolIface) {
				expectation := mock.ExpectExec(regexp.QuoteMeta(query)).WithArgs(int64(8))
				if tc.err != nil {
					expectation.WillReturnError(tc.err)

					return
				}

				expectation.WillReturnResult(tc.result)
			}

			runRepoTest(t, newEmployeesRepository, setup, func(t *testing.T, repo *repos.EmployeesRepository) {
				err := repo.Delete(t.Context(), 8)

				if tc.expectedErr != nil {
					require.ErrorIs(t, err, tc.expectedErr)

					return
				}

				require.NoError(t, err)
			})
		})
	}
}
