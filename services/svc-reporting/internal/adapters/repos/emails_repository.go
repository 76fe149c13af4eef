package repos

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/architeacher/reporting/pkg/logger"
	"github.com/architeacher/reporting/services/svc-reporting/internal/domain/model"
)

type (
	// EmailsRepository handles email persistence operations.
	EmailsRepository struct {
		criteriaReader[emailRow, *model.Email]
	}

	emailRow struct {
		ID         int64  `db:"id"`
		Address    string `db:"address"`
		EmployeeID *int64 `db:"employee_id"`
	}
)

// NewEmailsRepository creates a new EmailsRepository with the given dependencies.
func NewEmailsRepository(pool PoolOps, scanner Scanner, log logger.Logger) *EmailsRepository {
	return &EmailsRepository{
		criteriaReader: criteriaReader[emailRow, *model.Email]{
			pool:       pool,
			scanner:    scanner,
			translator: NewCriteriaTranslator(emailSchema, &log),
			schema:     emailSchema,
			columns:    []string{"email.id", "email.address", "email.employee_id"},
			convert:    emailRow.toModel,
			logger:     log,
		},
	}
}

func (r *EmailsRepository) FindAll(ctx context.Context, criteria model.Criteria) ([]*model.Email, error) {
	return r.findAll(ctx, criteria)
}

func (r *EmailsRepository) FindPage(ctx context.Context, criteria model.Criteria) (*model.Page[*model.Email], error) {
	return r.findPage(ctx, criteria)
}

func (r *EmailsRepository) Count(ctx context.Context, criteria model.Criteria) (int64, error) {
	return r.count(ctx, criteria)
}

func (r *EmailsRepository) FindByID(ctx context.Context, id int64) (*model.Email, error) {
	return r.findOne(ctx, id, model.ErrEmailNotFound)
}

func (r *EmailsRepository) Save(ctx context.Context, email *model.Email) error {
	query, args, err := psql.Insert(emailTable).
		Columns("address", "employee_id").
		Values(email.Address, email.EmployeeID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&email.ID); err != nil {
		if isForeignKeyViolation(err) {
			return model.ErrEmployeeNotFound
		}

		return fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	return nil
}

func (r *EmailsRepository) Update(ctx context.Context, email *model.Email) error {
	query, args, err := psql.Update(emailTable).
		Set("address", email.Address).
		Set("employee_id", email.EmployeeID).
		Where(sq.Eq{"id": email.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.ErrEmployeeNotFound
		}

		return fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrEmailNotFound
	}

	return nil
}

func (r *EmailsRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := psql.Delete(emailTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrEmailNotFound
	}

	return nil
}

func (r *EmailsRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (row emailRow) toModel() *model.Email {
	return &model.Email{
		ID:         row.ID,
		Address:    row.Address,
		EmployeeID: row.EmployeeID,
	}
}
