package handlers

import (
	"net/http"
	"strconv"

	"github.com/architeacher/reporting/pkg/logger"
	"github.com/architeacher/reporting/pkg/metrics"
	"github.com/architeacher/reporting/services/svc-reporting/internal/adapters/inbound/http/middleware"
	"github.com/architeacher/reporting/services/svc-reporting/internal/config"
	"github.com/architeacher/reporting/services/svc-reporting/internal/ports"
	"github.com/architeacher/reporting/services/svc-reporting/internal/usecases"
	"github.com/go-chi/chi/v5"
)

const (
	BaseURL = "/api"

	pathIDParam = "id"
)

type Handler struct {
	app           *usecases.Application
	exporters     ports.ReportExporters
	report        config.Report
	metricsClient metrics.Client
	log           logger.Logger
}

func NewHandler(
	app *usecases.Application,
	exporters ports.ReportExporters,
	report config.Report,
	metricsClient metrics.Client,
	log logger.Logger,
) *Handler {
	return &Handler{
		app:           app,
		exporters:     exporters,
		report:        report,
		metricsClient: metricsClient,
		log:           log.WithComponent("http"),
	}
}

// APIRoutes mounts the resource endpoints; the router serves them under BaseURL.
func (h *Handler) APIRoutes(r chi.Router) {
	r.Route("/emails", func(r chi.Router) {
		r.Get("/", h.FindEmails)
		r.Post("/", h.CreateEmail)
		r.Get("/count", h.CountEmails)
		r.Get("/{id}", h.GetEmail)
		r.Put("/{id}", h.UpdateEmail)
		r.Patch("/{id}", h.PatchEmail)
		r.Delete("/{id}", h.DeleteEmail)
	})

	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.FindEmployees)
		r.Post("/", h.CreateEmployee)
		r.Get("/count", h.CountEmployees)
		r.Get("/{id}", h.GetEmployee)
		r.Put("/{id}", h.UpdateEmployee)
		r.Patch("/{id}", h.PatchEmployee)
		r.Delete("/{id}", h.DeleteEmployee)
	})

	r.Get("/generate-report", h.GenerateReport)
}

// OperationalRoutes mounts health checks and the metrics endpoint.
func (h *Handler) OperationalRoutes(r chi.Router) {
	r.Get("/health", h.HealthCheck)
	r.Get("/health/live", h.LivenessCheck)
	r.Get("/health/ready", h.ReadinessCheck)
	r.Handle("/metrics", h.metricsClient.Handler())
}

// pathID parses the {id} segment and answers 400 when it is not a positive
// integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, pathIDParam), 10, 64)
	if err != nil || id <= 0 {
		middleware.WriteError(w, http.StatusBadRequest, codeInvalidID, msgInvalidID)

		return 0, false
	}

	return id, true
}
