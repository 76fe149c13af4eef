package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/architeacher/reporting/pkg/circuitbreaker"
	"github.com/architeacher/reporting/pkg/logger"
	"github.com/architeacher/reporting/services/svc-reporting/internal/adapters/inbound/http/middleware"
	"github.com/architeacher/reporting/services/svc-reporting/internal/domain/model"
)

const (
	contentTypeHeader = "Content-Type"
	applicationJSON   = "application/json"

	codeNotFound                = "NOT_FOUND"
	codeConflict                = "CONFLICT"
	codeValidationFailed        = "VALIDATION_FAILED"
	codeIDExists                = "ID_EXISTS"
	codeIDNull                  = "ID_NULL"
	codeInvalidID               = "INVALID_ID"
	codeIDInvalid               = "ID_INVALID"
	codeInvalidJSON             = "INVALID_JSON"
	codeInvalidFilter           = "INVALID_FILTER"
	codeInvalidPageRequest      = "INVALID_PAGE_REQUEST"
	codeUnsupportedReportFormat = "UNSUPPORTED_REPORT_FORMAT"
	codeServiceUnavailable      = "SERVICE_UNAVAILABLE"

	msgInvalidRequestBody = "invalid request body"
	msgInternalError      = "internal server error"
	msgInvalidID          = "id must be a positive integer"
)

type fieldErrorDTO struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func writeJSONResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set(contentTypeHeader, applicationJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeDomainError maps an error returned by a use case to its HTTP form.
// Unexpected errors are logged and reported without their detail.
func writeDomainError(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	var validationErrs *model.ValidationErrors

	switch {
	case errors.As(err, &validationErrs):
		details := make([]fieldErrorDTO, 0, len(validationErrs.Errors))
		for _, fieldErr := range validationErrs.Errors {
			details = append(details, fieldErrorDTO(fieldErr))
		}

		middleware.WriteErrorWithDetails(w, http.StatusBadRequest, codeValidationFailed, validationErrs.Error(), details)
	case errors.Is(err, model.ErrEmailNotFound), errors.Is(err, model.ErrEmployeeNotFound):
		middleware.WriteError(w, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, model.ErrEmployeeReferenced):
		middleware.WriteError(w, http.StatusConflict, codeConflict, err.Error())
	case errors.Is(err, model.ErrIDAlreadySet):
		middleware.WriteError(w, http.StatusBadRequest, codeIDExists, err.Error())
	case errors.Is(err, model.ErrInvalidID):
		middleware.WriteError(w, http.StatusBadRequest, codeIDNull, err.Error())
	case errors.Is(err, model.ErrIDMismatch):
		middleware.WriteError(w, http.StatusBadRequest, codeIDInvalid, err.Error())
	case errors.Is(err, model.ErrInvalidFilter):
		middleware.WriteError(w, http.StatusBadRequest, codeInvalidFilter, err.Error())
	case errors.Is(err, model.ErrInvalidPageRequest):
		middleware.WriteError(w, http.StatusBadRequest, codeInvalidPageRequest, err.Error())
	case errors.Is(err, model.ErrUnsupportedReportFormat):
		middleware.WriteError(w, http.StatusUnsupportedMediaType, codeUnsupportedReportFormat, err.Error())
	case errors.Is(err, circuitbreaker.ErrCircuitOpen),
		errors.Is(err, circuitbreaker.ErrTooManyRequests),
		errors.Is(err, model.ErrDatabaseConnection):
		reqLog := log.WithContext(r.Context())
		reqLog.Warn().Err(err).Msg("database unavailable")
		middleware.WriteError(w, http.StatusServiceUnavailable, codeServiceUnavailable, "database temporarily unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		middleware.WriteError(w, http.StatusGatewayTimeout, middleware.CodeRequestTimeout, "request timed out")
	default:
		reqLog := log.WithContext(r.Context())
		reqLog.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		middleware.WriteError(w, http.StatusInternalServerError, middleware.CodeInternalError, msgInternalError)
	}
}

func writeInvalidBody(w http.ResponseWriter) {
	middleware.WriteError(w, http.StatusBadRequest, codeInvalidJSON, msgInvalidRequestBody)
}
