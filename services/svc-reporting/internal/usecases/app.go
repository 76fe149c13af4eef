package usecases

import (
	"github.com/architeacher/reporting/pkg/decorator"
	"github.com/architeacher/reporting/pkg/logger"
	"github.com/architeacher/reporting/pkg/metrics"
	"github.com/architeacher/reporting/services/svc-reporting/internal/adapters/repos"
	"github.com/architeacher/reporting/services/svc-reporting/internal/config"
	"github.com/architeacher/reporting/services/svc-reporting/internal/domain/model"
	"github.com/architeacher/reporting/services/svc-reporting/internal/ports"
	"github.com/architeacher/reporting/services/svc-reporting/internal/usecases/commands"
	"github.com/architeacher/reporting/services/svc-reporting/internal/usecases/queries"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	Commands struct {
		CreateEmail    commands.CreateEmailCommandHandler
		UpdateEmail    commands.UpdateEmailCommandHandler
		PatchEmail     commands.PatchEmailCommandHandler
		DeleteEmail    commands.DeleteEmailCommandHandler
		CreateEmployee commands.CreateEmployeeCommandHandler
		UpdateEmployee commands.UpdateEmployeeCommandHandler
		PatchEmployee  commands.PatchEmployeeCommandHandler
		DeleteEmployee commands.DeleteEmployeeCommandHandler
	}

	Queries struct {
		GetEmail          queries.GetEmailQueryHandler
		FindEmails        queries.FindEmailsQueryHandler
		CountEmails       queries.CountEmailsQueryHandler
		GetEmployee       queries.GetEmployeeQueryHandler
		FindEmployees     queries.FindEmployeesQueryHandler
		CountEmployees    queries.CountEmployeesQueryHandler
		GenerateReport    queries.GenerateReportQueryHandler
		FetchLiveness     queries.FetchLivenessQueryHandler
		FetchReadiness    queries.FetchReadinessQueryHandler
		FetchHealthReport queries.FetchHealthReportQueryHandler
	}

	Application struct {
		Commands Commands
		Queries  Queries
	}

	// Dependencies lists what the application is assembled from. Nil caches
	// disable query caching for their entity.
	Dependencies struct {
		EmailsService    ports.EmailsService
		EmployeesService ports.EmployeesService
		ReportsService   ports.ReportsService

		DatabaseName   string
		DatabaseHealth ports.DatabaseHealthChecker
		CacheHealth    ports.CacheHealthChecker

		EmailsCache    ports.QueryCache
		EmployeesCache ports.QueryCache
		QueryCache     config.QueryCache
	}
)

func NewApplication(
	deps Dependencies,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) *Application {
	itemCache := decorator.CacheConfig{Enabled: deps.QueryCache.Enabled, TTL: deps.QueryCache.ItemTTL}
	listCache := decorator.CacheConfig{Enabled: deps.QueryCache.Enabled, TTL: deps.QueryCache.ListTTL}

	emailsSvc, employeesSvc := deps.EmailsService, deps.EmployeesService
	emailsCache, employeesCache := invalidator(deps.EmailsCache), invalidator(deps.EmployeesCache)

	return &Application{
		Commands: Commands{
			CreateEmail:    commands.NewCreateEmailCommandHandler(emailsSvc, log, metricsClient, tracerProvider, emailsCache),
			UpdateEmail:    commands.NewUpdateEmailCommandHandler(emailsSvc, log, metricsClient, tracerProvider, emailsCache),
			PatchEmail:     commands.NewPatchEmailCommandHandler(emailsSvc, log, metricsClient, tracerProvider, emailsCache),
			DeleteEmail:    commands.NewDeleteEmailCommandHandler(emailsSvc, log, metricsClient, tracerProvider, emailsCache),
			CreateEmployee: commands.NewCreateEmployeeCommandHandler(employeesSvc, log, metricsClient, tracerProvider, employeesCache),
			UpdateEmployee: commands.NewUpdateEmployeeCommandHandler(employeesSvc, log, metricsClient, tracerProvider, employeesCache),
			PatchEmployee:  commands.NewPatchEmployeeCommandHandler(employeesSvc, log, metricsClient, tracerProvider, employeesCache),
			DeleteEmployee: commands.NewDeleteEmployeeCommandHandler(employeesSvc, log, metricsClient, tracerProvider, employeesCache),
		},
		Queries: Queries{
			GetEmail: queries.NewGetEmailQueryHandler(
				emailsSvc,
				queryCache[queries.GetEmailQuery, *model.Email](deps.EmailsCache, "get"),
				itemCache, log, metricsClient, tracerProvider,
			),
			FindEmails: queries.NewFindEmailsQueryHandler(
				emailsSvc,
				queryCache[queries.FindEmailsQuery, *model.Page[*model.Email]](deps.EmailsCache, "find"),
				listCache, log, metricsClient, tracerProvider,
			),
			CountEmails: queries.NewCountEmailsQueryHandler(
				emailsSvc,
				queryCache[queries.CountEmailsQuery, int64](deps.EmailsCache, "count"),
				listCache, log, metricsClient, tracerProvider,
			),
			GetEmployee: queries.NewGetEmployeeQueryHandler(
				employeesSvc,
				queryCache[queries.GetEmployeeQuery, *model.Employee](deps.EmployeesCache, "get"),
				itemCache, log, metricsClient, tracerProvider,
			),
			FindEmployees: queries.NewFindEmployeesQueryHandler(
				employeesSvc,
				queryCache[queries.FindEmployeesQuery, *model.Page[*model.Employee]](deps.EmployeesCache, "find"),
				listCache, log, metricsClient, tracerProvider,
			),
			CountEmployees: queries.NewCountEmployeesQueryHandler(
				employeesSvc,
				queryCache[queries.CountEmployeesQuery, int64](deps.EmployeesCache, "count"),
				listCache, log, metricsClient, tracerProvider,
			),
			GenerateReport: queries.NewGenerateReportQueryHandler(deps.ReportsService, log, metricsClient, tracerProvider),
			FetchLiveness:  queries.NewFetchLivenessQueryHandler(log, metricsClient, tracerProvider),
			FetchReadiness: queries.NewFetchReadinessQueryHandler(deps.DatabaseName, deps.DatabaseHealth, log, metricsClient, tracerProvider),
			FetchHealthReport: queries.NewFetchHealthReportQueryHandler(
				deps.DatabaseName,
				deps.DatabaseHealth,
				deps.CacheHealth,
				log,
				metricsClient,
				tracerProvider,
			),
		},
	}
}

func queryCache[Q any, R any](cache ports.QueryCache, name string) decorator.Cache[Q, R] {
	if cache == nil {
		return nil
	}

	return repos.NewQueryCacheAdapter[Q, R](cache, name)
}

func invalidator(cache ports.QueryCache) decorator.Invalidator {
	if cache == nil {
		return nil
	}

	return cache
}
