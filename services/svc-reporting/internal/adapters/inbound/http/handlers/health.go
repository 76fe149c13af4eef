package handlers

import (
	"net/http"

	"github.com/architeacher/reporting/services/svc-reporting/internal/usecases/queries"
)

func (h *Handler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	result, err := h.app.Queries.FetchLiveness.Execute(r.Context(), queries.FetchLivenessQuery{})
	if err != nil {
		writeJSONResponse(w, http.StatusServiceUnavailable, queries.LivenessResult{Status: "down"})

		return
	}

	writeJSONResponse(w, http.StatusOK, result)
}

func (h *Handler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	result, err := h.app.Queries.FetchReadiness.Execute(r.Context(), queries.FetchReadinessQuery{})
	if err != nil || !result.Ready {
		writeJSONResponse(w, http.StatusServiceUnavailable, queries.ReadinessResult{Status: "unavailable"})

		return
	}

	writeJSONResponse(w, http.StatusOK, result)
}

// HealthCheck answers 200 while the database is reachable, even when the
// cache is down and the report says degraded.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	result, err := h.app.Queries.FetchHealthReport.Execute(r.Context(), queries.FetchHealthReportQuery{})
	if err != nil {
		writeJSONResponse(w, http.StatusServiceUnavailable, map[string]string{"status": queries.HealthStatusUnhealthy})

		return
	}

	status := http.StatusOK
	if result.Status == queries.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}

	writeJSONResponse(w, status, result)
}
