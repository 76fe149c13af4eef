package runtime

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/architeacher/reporting/pkg/circuitbreaker"
	"github.com/architeacher/reporting/pkg/logger"
	"github.com/architeacher/reporting/pkg/metrics/noop"
	"github.com/architeacher/reporting/pkg/metrics/prometheus"
	"github.com/architeacher/reporting/services/svc-reporting/internal/adapters/exporters"
	inboundhttp "github.com/architeacher/reporting/services/svc-reporting/internal/adapters/inbound/http"
	"github.com/architeacher/reporting/services/svc-reporting/internal/adapters/repos"
	"github.com/architeacher/reporting/services/svc-reporting/internal/adapters/repos/memory"
	"github.com/architeacher/reporting/services/svc-reporting/internal/config"
	"github.com/architeacher/reporting/services/svc-reporting/internal/infrastructure"
	infraPostgres "github.com/architeacher/reporting/services/svc-reporting/internal/infrastructure/postgres"
	"github.com/architeacher/reporting/services/svc-reporting/internal/services"
	"github.com/architeacher/reporting/services/svc-reporting/internal/usecases"
	"github.com/hashicorp/vault/api"
	"github.com/throttled/throttled/v2/store/memstore"
	"go.opentelemetry.io/otel/attribute"
)

func defaultOptions(ctx context.Context) []DependencyOption {
	return []DependencyOption{
		WithConfig(),
		WithSecretsRepository(),
		WithConfigLoader(ctx),
		WithLogger(),
		WithMetrics(),
		WithTracing(ctx),
		WithDatabase(ctx),
		WithCache(),
		WithServices(),
		WithApplication(),
		WithExporters(),
		WithHTTPServer(),
	}
}

func WithConfig() DependencyOption {
	return func(d *dependencies) error {
		cfg, err := config.Init()
		if err != nil {
			return fmt.Errorf("initializing configuration: %w", err)
		}

		d.config = cfg

		return nil
	}
}

func WithSecretsRepository() DependencyOption {
	return func(d *dependencies) error {
		if !d.config.SecretsStorage.Enabled {
			return nil
		}

		vaultConfig := api.DefaultConfig()
		vaultConfig.Address = d.config.SecretsStorage.Address
		vaultConfig.Timeout = d.config.SecretsStorage.Timeout
		vaultConfig.MaxRetries = int(d.config.SecretsStorage.MaxRetries)

		if d.config.SecretsStorage.TLSSkipVerify {
			vaultConfig.HttpClient.Transport = &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			}
		}

		client, err := api.NewClient(vaultConfig)
		if err != nil {
			return fmt.Errorf("creating Vault client: %w", err)
		}

		if d.config.SecretsStorage.Namespace != "" {
			client.SetNamespace(d.config.SecretsStorage.Namespace)
		}

		d.repos.secretsRepo = repos.NewVaultRepository(client)

		return nil
	}
}

// WithConfigLoader overlays Vault secrets on the environment configuration
// before anything connects with it.
func WithConfigLoader(ctx context.Context) DependencyOption {
	return func(d *dependencies) error {
		if d.repos.secretsRepo == nil {
			return nil
		}

		loader := config.NewLoader(d.config, d.repos.secretsRepo, 0)

		version, err := loader.Load(ctx, d.repos.secretsRepo, d.config)
		if err != nil {
			return fmt.Errorf("loading secrets from Vault: %w", err)
		}

		d.configLoader = config.NewLoader(d.config, d.repos.secretsRepo, version)

		return nil
	}
}

func WithLogger() DependencyOption {
	return func(d *dependencies) error {
		d.infra.logger = logger.New(d.config.Logging.Level, d.config.Logging.Format).
			WithService(d.config.App.ServiceName, d.config.App.ServiceVersion)

		return nil
	}
}

func WithMetrics() DependencyOption {
	return func(d *dependencies) error {
		if !d.config.Telemetry.Metrics.Enabled {
			d.infra.metricsClient = noop.NewMetricsClient()

			return nil
		}

		client := prometheus.NewClient(d.config.Telemetry.Metrics.Namespace)
		d.infra.metricsClient = client
		d.onShutdown("metrics", client.Shutdown)

		return nil
	}
}

func WithTracing(ctx context.Context) DependencyOption {
	return func(d *dependencies) error {
		if !d.config.Telemetry.Enabled || !d.config.Telemetry.Traces.Enabled {
			d.infra.tracerProvider = infrastructure.NewNoopTracerProvider()

			return nil
		}

		tp, shutdown, err := infrastructure.NewTracerProvider(ctx, d.config.App, d.config.Telemetry,
			attribute.String("db.system", d.config.Database.Driver),
		)
		if err != nil {
			return fmt.Errorf("initializing tracer: %w", err)
		}

		d.infra.tracerProvider = tp
		d.onShutdown("tracer", shutdown)

		return nil
	}
}

// WithDatabase selects the storage behind both repositories. Postgres
// repositories are guarded by one shared circuit breaker.
func WithDatabase(ctx context.Context) DependencyOption {
	return func(d *dependencies) error {
		if d.config.Database.Driver == config.DatabaseDriverMemory {
			store := memory.NewStore(d.infra.logger)

			d.repos.emails = store.Emails()
			d.repos.employees = store.Employees()
			d.repos.databaseHealth = store

			d.infra.logger.Warn().Msg("using the in-memory store, data is lost on restart")

			return nil
		}

		pool, err := infraPostgres.NewPool(ctx, d.config.Database, d.config.Backoff, d.infra.logger)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}

		d.infra.dbPool = pool
		d.onShutdown("database", func(context.Context) error {
			pool.Close()

			return nil
		})

		if d.config.Database.MigrateOnStart {
			if err := infraPostgres.Migrate(ctx, pool, d.infra.logger); err != nil {
				return fmt.Errorf("migrating database: %w", err)
			}
		}

		scanner := repos.NewPgxScanner()
		emails := repos.NewEmailsRepository(pool, scanner, d.infra.logger)
		employees := repos.NewEmployeesRepository(pool, scanner, d.infra.logger)

		breaker := circuitbreaker.New[any](circuitbreaker.Config{
			Name:             "postgres",
			Enabled:          d.config.CircuitBreaker.Enabled,
			MaxRequests:      uint(d.config.CircuitBreaker.MaxRequests),
			Interval:         d.config.CircuitBreaker.Interval,
			Timeout:          d.config.CircuitBreaker.Timeout,
			FailureThreshold: uint(d.config.CircuitBreaker.FailureThreshold),
			IsSuccessful:     repos.IsBreakerSuccess,
			OnStateChange: func(name, from, to string) {
				d.infra.logger.Warn().
					Str("breaker", name).
					Str("from", from).
					Str("to", to).
					Msg("circuit breaker state changed")
			},
		})

		d.repos.emails = repos.NewCircuitBreakerEmailRepository(emails, breaker)
		d.repos.employees = repos.NewCircuitBreakerEmployeeRepository(employees, breaker)
		d.repos.databaseHealth = emails

		return nil
	}
}

// WithCache connects KeyDB for query caching, idempotency and distributed
// rate limiting. Without it, rate limiting falls back to a per-process store
// and the other two are off.
func WithCache() DependencyOption {
	return func(d *dependencies) error {
		if !d.config.Cache.Enabled {
			store, err := memstore.NewCtx(int(d.config.ThrottledRateLimiting.MaxKeys))
			if err != nil {
				return fmt.Errorf("creating in-memory rate limit store: %w", err)
			}

			d.repos.rateLimitStore = store

			return nil
		}

		client := infrastructure.NewKeyDBClient(d.config.Cache, d.infra.logger)
		d.infra.cacheClient = client
		d.onShutdown("keydb", func(context.Context) error {
			return client.Close()
		})

		d.repos.rateLimitStore = repos.NewRateLimitStore(client)
		d.repos.idempotencyRepo = repos.NewIdempotencyRepository(client)

		if d.config.QueryCache.Enabled {
			scope := d.config.QueryCache.KeyScope
			d.repos.emailsCache = repos.NewQueryCacheRepository(client, scope, "emails", d.infra.logger)
			d.repos.employeesCache = repos.NewQueryCacheRepository(client, scope, "employees", d.infra.logger)
		}

		return nil
	}
}

func WithServices() DependencyOption {
	return func(d *dependencies) error {
		d.services.emails = services.NewEmailsService(d.repos.emails, d.repos.employees)
		d.services.employees = services.NewEmployeesService(d.repos.employees)
		d.services.reports = services.NewReportsService(d.repos.employees, d.repos.emails)

		return nil
	}
}

func WithApplication() DependencyOption {
	return func(d *dependencies) error {
		deps := usecases.Dependencies{
			EmailsService:    d.services.emails,
			EmployeesService: d.services.employees,
			ReportsService:   d.services.reports,
			DatabaseName:     d.config.Database.Driver,
			DatabaseHealth:   d.repos.databaseHealth,
			EmailsCache:      d.repos.emailsCache,
			EmployeesCache:   d.repos.employeesCache,
			QueryCache:       d.config.QueryCache,
		}

		// A nil *KeydbClient inside the interface would read as a configured
		// cache.
		if d.infra.cacheClient != nil {
			deps.CacheHealth = d.infra.cacheClient
		}

		d.app = usecases.NewApplication(deps, d.infra.logger, d.infra.metricsClient, d.infra.tracerProvider)

		return nil
	}
}

func WithExporters() DependencyOption {
	return func(d *dependencies) error {
		registry, err := exporters.NewDefaultRegistry()
		if err != nil {
			return fmt.Errorf("creating report exporters: %w", err)
		}

		d.exporters = registry

		return nil
	}
}

func WithHTTPServer() DependencyOption {
	return func(d *dependencies) error {
		router, err := inboundhttp.NewRouter(inboundhttp.RouterConfig{
			App:              d.app,
			Exporters:        d.exporters,
			Config:           d.config,
			Logger:           d.infra.logger,
			MetricsClient:    d.infra.metricsClient,
			TracerProvider:   d.infra.tracerProvider,
			RateLimitStore:   d.repos.rateLimitStore,
			IdempotencyCache: d.repos.idempotencyRepo,
		})
		if err != nil {
			return fmt.Errorf("creating router: %w", err)
		}

		d.infra.httpServer = &http.Server{
			Addr:              net.JoinHostPort(d.config.HTTPServer.Host, strconv.FormatUint(uint64(d.config.HTTPServer.Port), 10)),
			Handler:           router,
			ReadTimeout:       d.config.HTTPServer.ReadTimeout,
			ReadHeaderTimeout: d.config.HTTPServer.ReadTimeout,
			WriteTimeout:      d.config.HTTPServer.WriteTimeout,
			IdleTimeout:       d.config.HTTPServer.IdleTimeout,
		}

		return nil
	}
}
