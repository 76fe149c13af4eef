package exporters_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/architeacher/reporting/services/svc-reporting/internal/adapters/exporters"
	"github.com/architeacher/reporting/services/svc-reporting/internal/domain/model"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleReport() *model.Report {
	return &model.Report{
		Title:       "Payroll <Q3>",
		MinSalary:   15000,
		GeneratedAt: time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC),
		Rows: []model.ReportRow{
			{
				EmployeeID: 1,
				FirstName:  "Ada",
				LastName:   "Lovelace",
				Salary:     model.Ptr(20000.5),
				Active:     true,
				Emails:     []string{"ada@analytical.io", "ada, backup@analytical.io"},
			},
			{
				EmployeeID: 2,
				FirstName:  "Alan",
				LastName:   "Turing",
			},
		},
	}
}

func TestCSVExporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, exporters.NewCSVExporter().Export(&buf, sampleReport()))

	expected := "id,first_name,last_name,salary,active,emails\n" +
		"1,Ada,Lovelace,20000.50,true,\"ada@analytical.io;ada, backup@analytical.io\"\n" +
		"2,Alan,Turing,,false,\n"
	require.Equal(t, expected, buf.String())
}

func TestJSONExporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, exporters.NewJSONExporter().Export(&buf, sampleReport()))

	var decoded struct {
		Title     string `json:"title"`
		Employees []struct {
			ID     int64    `json:"id"`
			Salary *float64 `json:"salary"`
			Emails []string `json:"emails"`
		} `json:"employees"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	require.Equal(t, "Payroll <Q3>", decoded.Title)
	require.Len(t, decoded.Employees, 2)
	require.Nil(t, decoded.Employees[1].Salary)
	require.NotNil(t, decoded.Employees[1].Emails)
	require.Empty(t, decoded.Employees[1].Emails)
}

func TestHTMLExporter(t *testing.T) {
	t.Parallel()

	exporter, err := exporters.NewHTMLExporter()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, exporter.Export(&buf, sampleReport()))

	html := buf.String()
	require.Contains(t, html, "<title>Payroll &lt;Q3&gt;</title>")
	require.Contains(t, html, "<td>20000.50</td>")
	require.Contains(t, html, "ada@analytical.io, ada, backup@analytical.io")
	require.Contains(t, html, "2026-10-01 09:30:00 UTC")

	buf.Reset()
	require.NoError(t, exporter.Export(&buf, &model.Report{Title: "Empty"}))
	require.Contains(t, buf.String(), "No employees match.")
}

func TestXLSXExporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, exporters.NewXLSXExporter().Export(&buf, sampleReport()))

	book, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = book.Close() })

	require.Equal(t, []string{"Report"}, book.GetSheetList())

	rows, err := book.GetRows("Report")
	require.NoError(t, err)
	require.Len(t, rows, 6)

	require.Equal(t, []string{"Payroll <Q3>"}, rows[0])
	require.Equal(t, []string{"generated_at", "2026-10-01 09:30:00 UTC"}, rows[1])
	require.Equal(t, []string{"min_salary", "15000"}, rows[2])
	require.Equal(t, []string{"id", "first_name", "last_name", "salary", "active", "emails"}, rows[3])
	require.Equal(t, []string{"1", "Ada", "Lovelace", "20000.5", "true", "ada@analytical.io; ada, backup@analytical.io"}, rows[4])
	require.Equal(t, []string{"2", "Alan", "Turing", "", "false"}, rows[5])

	salary, err := book.GetCellType("Report", "D5")
	require.NoError(t, err)
	require.NotEqual(t, excelize.CellTypeSharedString, salary)

	style, err := book.GetCellStyle("Report", "A4")
	require.NoError(t, err)
	require.NotZero(t, style)
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	registry, err := exporters.NewDefaultRegistry()
	require.NoError(t, err)

	for _, format := range []model.ReportFormat{
		model.ReportFormatCSV,
		model.ReportFormatHTML,
		model.ReportFormatJSON,
		model.ReportFormatXLSX,
	} {
		exporter, err := registry.Get(format)
		require.NoError(t, err)
		require.Equal(t, format, exporter.Format())
	}

	_, err = registry.Get(model.ReportFormatPDF)
	require.ErrorIs(t, err, model.ErrUnsupportedReportFormat)
}
