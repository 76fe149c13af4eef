package exporters

import (
	"fmt"

	"github.com/architeacher/reporting/services/svc-reporting/internal/domain/model"
	"github.com/architeacher/reporting/services/svc-reporting/internal/ports"
)

// Registry resolves the exporter for a report format.
type Registry struct {
	exporters map[model.ReportFormat]ports.ReportExporter
}

func NewRegistry(exporters ...ports.ReportExporter) *Registry {
	registry := &Registry{exporters: make(map[model.ReportFormat]ports.ReportExporter, len(exporters))}

	for _, exporter := range exporters {
		registry.exporters[exporter.Format()] = exporter
	}

	return registry
}

// NewDefaultRegistry registers every built-in exporter.
func NewDefaultRegistry() (*Registry, error) {
	html, err := NewHTMLExporter()
	if err != nil {
		return nil, err
	}

	return NewRegistry(NewCSVExporter(), html, NewJSONExporter(), NewXLSXExporter()), nil
}

func (r *Registry) Get(format model.ReportFormat) (ports.ReportExporter, error) {
	exporter, ok := r.exporters[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnsupportedReportFormat, format)
	}

	return exporter, nil
}
