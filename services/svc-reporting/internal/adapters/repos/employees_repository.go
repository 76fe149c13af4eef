package repos

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/architeacher/reporting/pkg/logger"
	"github.com/architeacher/reporting/services/svc-reporting/internal/domain/model"
)

type (
	// EmployeesRepository handles employee persistence operations.
	EmployeesRepository struct {
		criteriaReader[employeeRow, *model.Employee]
	}

	employeeRow struct {
		ID        int64    `db:"id"`
		FirstName string   `db:"first_name"`
		LastName  string   `db:"last_name"`
		Salary    *float64 `db:"salary"`
		Active    bool     `db:"active"`
	}
)

func NewEmployeesRepository(pool PoolOps, scanner Scanner, log logger.Logger) *EmployeesRepository {
	return &EmployeesRepository{
		criteriaReader: criteriaReader[employeeRow, *model.Employee]{
			pool:       pool,
			scanner:    scanner,
			translator: NewCriteriaTranslator(employeeSchema, &log),
			schema:     employeeSchema,
			columns: []string{
				"employee.id", "employee.first_name", "employee.last_name", "employee.salary", "employee.active",
			},
			convert: employeeRow.toModel,
			logger:  log,
		},
	}
}

func (r *EmployeesRepository) FindAll(ctx context.Context, criteria model.Criteria) ([]*model.Employee, error) {
	return r.findAll(ctx, criteria)
}

func (r *EmployeesRepository) FindPage(ctx context.Context, criteria model.Criteria) (*model.Page[*model.Employee], error) {
	return r.findPage(ctx, criteria)
}

func (r *EmployeesRepository) Count(ctx context.Context, criteria model.Criteria) (int64, error) {
	return r.count(ctx, criteria)
}

func (r *EmployeesRepository) FindByID(ctx context.Context, id int64) (*model.Employee, error) {
	return r.findOne(ctx, id, model.ErrEmployeeNotFound)
}

func (r *EmployeesRepository) Save(ctx context.Context, employee *model.Employee) error {
	query, args, err := psql.Insert(employeeTable).
		Columns("first_name", "last_name", "salary", "active").
		Values(employee.FirstName, employee.LastName, employee.Salary, employee.Active).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&employee.ID); err != nil {
		return fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	return nil
}

func (r *EmployeesRepository) Update(ctx context.Context, employee *model.Employee) error {
	query, args, err := psql.Update(employeeTable).
		Set("first_name", employee.FirstName).
		Set("last_name", employee.LastName).
		Set("salary", employee.Salary).
		Set("active", employee.Active).
		Where(sq.Eq{"id": employee.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrEmployeeNotFound
	}

	return nil
}

func (r *EmployeesRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := psql.Delete(employeeTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.ErrEmployeeReferenced
		}

		return fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrEmployeeNotFound
	}

	return nil
}

func (r *EmployeesRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (row employeeRow) toModel() *model.Employee {
	return &model.Employee{
		ID:        row.ID,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Salary:    row.Salary,
		Active:    row.Active,
	}
}
