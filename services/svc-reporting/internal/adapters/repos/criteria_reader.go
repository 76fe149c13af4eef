package repos

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/architeacher/reporting/pkg/logger"
	"github.com/architeacher/reporting/services/svc-reporting/internal/domain/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const foreignKeyViolation = "23503"

var (
	psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	readOnlyTxOptions = pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	}
)

type (
	// PoolOps defines the interface for database operations.
	// This allows injecting mock implementations for testing.
	PoolOps interface {
		QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
		Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
		Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
		BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
		Ping(ctx context.Context) error
	}

	// criteriaReader runs criteria against one table. R is the scanned row
	// type and T the domain type it converts to.
	criteriaReader[R any, T any] struct {
		pool       PoolOps
		scanner    Scanner
		translator *CriteriaTranslator
		schema     *TableSchema
		columns    []string
		convert    func(R) T
		logger     logger.Logger
	}
)

func (q criteriaReader[R, T]) selectBuilder(distinct bool) sq.SelectBuilder {
	builder := psql.Select(q.columns...).From(q.schema.Table)
	if distinct {
		builder = builder.Distinct()
	}

	return builder
}

func (q criteriaReader[R, T]) countBuilder(distinct bool) sq.SelectBuilder {
	idColumn, _ := q.schema.Column(q.schema.DefaultSort)

	if distinct {
		return psql.Select(fmt.Sprintf("COUNT(DISTINCT %s)", idColumn)).From(q.schema.Table)
	}

	return psql.Select(fmt.Sprintf("COUNT(%s)", idColumn)).From(q.schema.Table)
}

func (q criteriaReader[R, T]) findAll(ctx context.Context, criteria model.Criteria) ([]T, error) {
	var items []T

	err := q.inReadOnlyTx(ctx, func(tx pgx.Tx) error {
		var err error

		items, err = q.queryWindow(ctx, tx, criteria.Unpaged())

		return err
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (q criteriaReader[R, T]) findPage(ctx context.Context, criteria model.Criteria) (*model.Page[T], error) {
	var (
		items []T
		total int64
	)

	err := q.inReadOnlyTx(ctx, func(tx pgx.Tx) error {
		var err error

		if !criteria.HasPagination() {
			items, err = q.queryWindow(ctx, tx, criteria)
			total = int64(len(items))

			return err
		}

		total, err = q.queryCount(ctx, tx, criteria)
		if err != nil || uint64(total) <= criteria.Offset() {
			return err
		}

		items, err = q.queryWindow(ctx, tx, criteria)

		return err
	})
	if err != nil {
		return nil, err
	}

	return model.NewPage(items, criteria, uint64(total)), nil
}

func (q criteriaReader[R, T]) count(ctx context.Context, criteria model.Criteria) (int64, error) {
	var total int64

	err := q.inReadOnlyTx(ctx, func(tx pgx.Tx) error {
		var err error

		total, err = q.queryCount(ctx, tx, criteria)

		return err
	})
	if err != nil {
		return 0, err
	}

	return total, nil
}

func (q criteriaReader[R, T]) findOne(ctx context.Context, id int64, notFound error) (T, error) {
	var zero T

	idColumn, _ := q.schema.Column(q.schema.DefaultSort)

	query, args, err := q.selectBuilder(false).
		Where(sq.Eq{idColumn: id}).
		Limit(1).
		ToSql()
	if err != nil {
		return zero, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := q.pool.Query(ctx, query, args...)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}
	defer rows.Close()

	var row R
	if err := q.scanner.ScanOne(&row, rows); err != nil {
		if q.scanner.IsNotFound(err) {
			return zero, notFound
		}

		return zero, fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	return q.convert(row), nil
}

func (q criteriaReader[R, T]) queryWindow(ctx context.Context, tx pgx.Tx, criteria model.Criteria) ([]T, error) {
	builder, err := q.translator.ApplyToSelect(q.selectBuilder(criteria.IsDistinct()), criteria)
	if err != nil {
		return nil, err
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}
	defer rows.Close()

	var scanned []R
	if err := q.scanner.ScanAll(&scanned, rows); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	items := make([]T, 0, len(scanned))
	for index := range scanned {
		items = append(items, q.convert(scanned[index]))
	}

	return items, nil
}

func (q criteriaReader[R, T]) queryCount(ctx context.Context, tx pgx.Tx, criteria model.Criteria) (int64, error) {
	builder, err := q.translator.ApplyConditionsOnly(q.countBuilder(criteria.IsDistinct()), criteria)
	if err != nil {
		return 0, err
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := tx.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	return total, nil
}

// inReadOnlyTx runs fn inside a read-only repeatable-read transaction so that
// every statement of fn observes the same snapshot.
func (q criteriaReader[R, T]) inReadOnlyTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := q.pool.BeginTx(ctx, readOnlyTxOptions)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrDatabaseConnection, err)
	}

	if err := fn(tx); err != nil {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
			q.logger.Warn().Err(rollbackErr).Str("table", q.schema.Table).Msg("failed to roll back read-only transaction")
		}

		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	return nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}
