package handlers

import (
	"bytes"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/architeacher/reporting/services/svc-reporting/internal/domain/model"
	"github.com/architeacher/reporting/services/svc-reporting/internal/usecases/queries"
	"github.com/oapi-codegen/runtime"
)

const (
	paramFormat    = "format"
	paramTitle     = "title"
	paramMinSalary = "minSalary"
)

// GenerateReport lists the employees earning at least minSalary, optionally
// narrowed by employee filters, with their email addresses.
func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	request, err := h.bindReportRequest(r)
	if err != nil {
		writeDomainError(w, r, h.log, err)

		return
	}

	exporter, err := h.exporters.Get(request.Format)
	if err != nil {
		writeDomainError(w, r, h.log, err)

		return
	}

	report, err := h.app.Queries.GenerateReport.Execute(r.Context(), queries.GenerateReportQuery{Request: request})
	if err != nil {
		writeDomainError(w, r, h.log, err)

		return
	}

	var body bytes.Buffer
	if err := exporter.Export(&body, report); err != nil {
		writeDomainError(w, r, h.log, fmt.Errorf("exporting %s report: %w", request.Format, err))

		return
	}

	disposition := "attachment"
	if request.Format == model.ReportFormatHTML {
		disposition = "inline"
	}

	w.Header().Set(contentTypeHeader, request.Format.ContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{
		"filename": request.Format.FileName(report.Title),
	}))
	w.WriteHeader(http.StatusOK)
	_, _ = body.WriteTo(w)
}

func (h *Handler) bindReportRequest(r *http.Request) (model.ReportRequest, error) {
	query := r.URL.Query()

	request := model.ReportRequest{
		Title:     h.report.DefaultTitle,
		MinSalary: h.report.DefaultMinSalary,
	}

	format, err := model.ParseReportFormat(query.Get(paramFormat))
	if err != nil {
		return request, err
	}

	request.Format = format

	if title := strings.TrimSpace(query.Get(paramTitle)); title != "" {
		request.Title = title
	}

	var minSalary *float64
	if err := runtime.BindQueryParameter("form", true, false, paramMinSalary, query, &minSalary); err != nil {
		return request, fmt.Errorf("%w: %s: %v", model.ErrInvalidFilter, paramMinSalary, err)
	}

	if minSalary != nil {
		if nonFinite(*minSalary) {
			return request, fmt.Errorf("%w: %s: %v", model.ErrInvalidFilter, paramMinSalary, errNonFinite)
		}

		if *minSalary < 0 {
			return request, fmt.Errorf("%w: %s must not be negative", model.ErrInvalidFilter, paramMinSalary)
		}

		request.MinSalary = *minSalary
	}

	request.Employees, err = bindEmployeeCriteria(query)
	if err != nil {
		return request, err
	}

	request.Sort, err = bindSort(query)
	if err != nil {
		return request, err
	}

	return request, nil
}
