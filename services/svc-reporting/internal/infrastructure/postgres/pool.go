package postgres

import (
	"context"
	"fmt"

	"github.com/architeacher/reporting/pkg/logger"
	"github.com/architeacher/reporting/services/svc-reporting/internal/config"
	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool connects to Postgres and retries the first ping with exponential
// backoff so the service survives a database that starts after it.
func NewPool(ctx context.Context, cfg config.Database, retry config.Backoff, log logger.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolConfig.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = retry.BaseDelay
	expBackoff.Multiplier = retry.Multiplier
	expBackoff.RandomizationFactor = retry.Jitter
	expBackoff.MaxInterval = retry.MaxDelay

	attempt := 0

	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		attempt++

		if err := pool.Ping(ctx); err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt).
				Str("host", cfg.Host).
				Msg("database not reachable yet")

			return struct{}{}, err
		}

		return struct{}{}, nil
	},
		backoff.WithBackOff(expBackoff),
		backoff.WithMaxElapsedTime(retry.MaxElapsedTime),
	)
	if err != nil {
		pool.Close()

		return nil, fmt.Errorf("pinging database: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Str("database", cfg.Database).
		Int("attempts", attempt).
		Msg("connected to database")

	return pool, nil
}
