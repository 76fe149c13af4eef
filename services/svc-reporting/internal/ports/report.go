package ports

import (
	"io"

	"github.com/architeacher/reporting/services/svc-reporting/internal/domain/model"
)

type (
	// ReportExporter renders a report in a single output format.
	ReportExporter interface {
		Format() model.ReportFormat
		Export(w io.Writer, report *model.Report) error
	}

	// ReportExporters resolves the exporter registered for a format.
	ReportExporters interface {
		Get(format model.ReportFormat) (ReportExporter, error)
	}
)
