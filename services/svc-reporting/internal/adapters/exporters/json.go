package exporters

import (
	"encoding/json"
	"io"
	"time"

	"github.com/architeacher/reporting/services/svc-reporting/internal/domain/model"
)

type (
	JSONExporter struct{}

	jsonReport struct {
		Title       string          `json:"title"`
		MinSalary   float64         `json:"minSalary"`
		GeneratedAt time.Time       `json:"generatedAt"`
		Employees   []jsonReportRow `json:"employees"`
	}

	jsonReportRow struct {
		ID        int64    `json:"id"`
		FirstName string   `json:"firstName"`
		LastName  string   `json:"lastName"`
		Salary    *float64 `json:"salary"`
		Active    bool     `json:"active"`
		Emails    []string `json:"emails"`
	}
)

func NewJSONExporter() JSONExporter {
	return JSONExporter{}
}

func (JSONExporter) Format() model.ReportFormat {
	return model.ReportFormatJSON
}

func (JSONExporter) Export(w io.Writer, report *model.Report) error {
	out := jsonReport{
		Title:       report.Title,
		MinSalary:   report.MinSalary,
		GeneratedAt: report.GeneratedAt,
		Employees:   make([]jsonReportRow, 0, len(report.Rows)),
	}

	for _, row := range report.Rows {
		emails := row.Emails
		if emails == nil {
			emails = []string{}
		}

		out.Employees = append(out.Employees, jsonReportRow{
			ID:        row.EmployeeID,
			FirstName: row.FirstName,
			LastName:  row.LastName,
			Salary:    row.Salary,
			Active:    row.Active,
			Emails:    emails,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(out)
}
