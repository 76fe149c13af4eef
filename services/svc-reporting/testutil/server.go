// Package testutil starts the PostgreSQL container integration tests run
// against.
package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/architeacher/reporting/pkg/logger"
	infraPostgres "github.com/architeacher/reporting/services/svc-reporting/internal/infrastructure/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	postgresImage    = "postgres:18-alpine"
	postgresDatabase = "reporting_test"
	postgresUsername = "test"
	postgresPassword = "test"
)

// Database is a migrated PostgreSQL instance running in a container.
type Database struct {
	Pool          *pgxpool.Pool
	Container     *postgres.PostgresContainer
	containerCtx  context.Context
	containerStop context.CancelFunc
}

// Option configures a Database.
type Option func(*options)

type options struct {
	image          string
	startupTimeout time.Duration
}

// WithImage overrides the PostgreSQL image.
func WithImage(image string) Option {
	return func(o *options) {
		o.image = image
	}
}

// StartPostgres runs a PostgreSQL container and applies the service migrations.
func StartPostgres(ctx context.Context, opts ...Option) (*Database, error) {
	cfg := &options{
		image:          postgresImage,
		startupTimeout: 60 * time.Second,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	containerCtx, containerStop := context.WithTimeout(ctx, 5*time.Minute)

	container, err := postgres.Run(containerCtx,
		cfg.image,
		postgres.WithDatabase(postgresDatabase),
		postgres.WithUsername(postgresUsername),
		postgres.WithPassword(postgresPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(cfg.startupTimeout),
		),
	)
	if err != nil {
		containerStop()

		return nil, fmt.Errorf("starting postgres container: %w", err)
	}

	db := &Database{
		Container:     container,
		containerCtx:  containerCtx,
		containerStop: containerStop,
	}

	connStr, err := container.ConnectionString(containerCtx, "sslmode=disable")
	if err != nil {
		db.Close()

		return nil, fmt.Errorf("getting connection string: %w", err)
	}

	db.Pool, err = pgxpool.New(containerCtx, connStr)
	if err != nil {
		db.Close()

		return nil, fmt.Errorf("creating database pool: %w", err)
	}

	if err := infraPostgres.Migrate(containerCtx, db.Pool, logger.NewTestLogger()); err != nil {
		db.Close()

		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

// Truncate removes every row and restarts the id sequences.
func (d *Database) Truncate(ctx context.Context) error {
	_, err := d.Pool.Exec(ctx, "TRUNCATE TABLE email, employee RESTART IDENTITY CASCADE")
	if err != nil {
		return fmt.Errorf("truncating tables: %w", err)
	}

	return nil
}

func (d *Database) Close() {
	if d.Pool != nil {
		d.Pool.Close()
	}

	if d.Container != nil {
		_ = d.Container.Terminate(d.containerCtx)
	}

	d.containerStop()
}
