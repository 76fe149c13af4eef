package exporters

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/architeacher/reporting/services/svc-reporting/internal/domain/model"
)

//go:embed templates/report.html.tmpl
var templateFiles embed.FS

type HTMLExporter struct {
	tmpl *template.Template
}

func NewHTMLExporter() (*HTMLExporter, error) {
	tmpl, err := template.New("report.html.tmpl").
		Funcs(template.FuncMap{
			"salary": formatSalary,
			"join":   strings.Join,
		}).
		ParseFS(templateFiles, "templates/report.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing report template: %w", err)
	}

	return &HTMLExporter{tmpl: tmpl}, nil
}

func (*HTMLExporter) Format() model.ReportFormat {
	return model.ReportFormatHTML
}

func (e *HTMLExporter) Export(w io.Writer, report *model.Report) error {
	return e.tmpl.Execute(w, report)
}
