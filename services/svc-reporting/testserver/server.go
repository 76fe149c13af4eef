// Package testserver serves the full HTTP API backed by PostgreSQL for
// integration testing.
package testserver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/architeacher/reporting/pkg/circuitbreaker"
	"github.com/architeacher/reporting/pkg/logger"
	"github.com/architeacher/reporting/pkg/metrics/noop"
	"github.com/architeacher/reporting/services/svc-reporting/internal/adapters/exporters"
	inboundhttp "github.com/architeacher/reporting/services/svc-reporting/internal/adapters/inbound/http"
	"github.com/architeacher/reporting/services/svc-reporting/internal/adapters/repos"
	"github.com/architeacher/reporting/services/svc-reporting/internal/config"
	"github.com/architeacher/reporting/services/svc-reporting/internal/infrastructure"
	"github.com/architeacher/reporting/services/svc-reporting/internal/services"
	"github.com/architeacher/reporting/services/svc-reporting/internal/usecases"
	"github.com/architeacher/reporting/services/svc-reporting/testutil"
)

// TestServer runs the HTTP API on a loopback listener.
type TestServer struct {
	HTTPServer *httptest.Server
	Database   *testutil.Database
	client     *http.Client
}

// New starts PostgreSQL and serves the API against it.
func New(ctx context.Context) (*TestServer, error) {
	db, err := testutil.StartPostgres(ctx)
	if err != nil {
		return nil, err
	}

	handler, err := newHandler(db)
	if err != nil {
		db.Close()

		return nil, err
	}

	return &TestServer{
		HTTPServer: httptest.NewServer(handler),
		Database:   db,
		client:     &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func newHandler(db *testutil.Database) (http.Handler, error) {
	log := logger.NewTestLogger()
	metricsClient := noop.NewMetricsClient()
	tracerProvider := infrastructure.NewNoopTracerProvider()

	settings := &config.ServiceConfig{
		App: config.App{ServiceName: "svc-reporting", APIVersion: "v1"},
		HTTPServer: config.HTTPServer{
			RequestTimeout:  10 * time.Second,
			AllowedOrigins:  []string{"*"},
			ValidateRequest: true,
		},
		Report: config.Report{
			DefaultTitle:     "Employee Report",
			DefaultMinSalary: 15000,
		},
	}

	breaker := circuitbreaker.New[any](circuitbreaker.Config{
		Name:             "postgres",
		Enabled:          true,
		FailureThreshold: 5,
		Timeout:          time.Second,
		IsSuccessful:     repos.IsBreakerSuccess,
	})

	scanner := repos.NewPgxScanner()
	emailsRepo := repos.NewEmailsRepository(db.Pool, scanner, log)
	emails := repos.NewCircuitBreakerEmailRepository(emailsRepo, breaker)
	employees := repos.NewCircuitBreakerEmployeeRepository(repos.NewEmployeesRepository(db.Pool, scanner, log), breaker)

	app := usecases.NewApplication(
		usecases.Dependencies{
			EmailsService:    services.NewEmailsService(emails, employees),
			EmployeesService: services.NewEmployeesService(employees),
			ReportsService:   services.NewReportsService(employees, emails),
			DatabaseName:     config.DatabaseDriverPostgres,
			DatabaseHealth:   emailsRepo,
		},
		log,
		metricsClient,
		tracerProvider,
	)

	registry, err := exporters.NewDefaultRegistry()
	if err != nil {
		return nil, fmt.Errorf("creating exporters: %w", err)
	}

	return inboundhttp.NewRouter(inboundhttp.RouterConfig{
		App:            app,
		Exporters:      registry,
		Config:         settings,
		Logger:         log,
		MetricsClient:  metricsClient,
		TracerProvider: tracerProvider,
	})
}

// Do sends a request to path, relative to the server root.
func (s *TestServer) Do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.HTTPServer.URL+path, body)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return s.client.Do(req)
}

func (s *TestServer) Reset(ctx context.Context) error {
	return s.Database.Truncate(ctx)
}

func (s *TestServer) Close() {
	s.HTTPServer.Close()
	s.Database.Close()
}
