package model

import (
	"fmt"
	"strings"
	"time"
)

type ReportFormat string

const (
	ReportFormatCSV  ReportFormat = "csv"
	ReportFormatHTML ReportFormat = "html"
	ReportFormatJSON ReportFormat = "json"
	ReportFormatPDF  ReportFormat = "pdf"
	ReportFormatXLSX ReportFormat = "xlsx"

	DefaultReportTitle     = "Employee Report"
	DefaultReportMinSalary = 15000.0
)

type (
	// ReportRequest selects the employees listed in a report: those matching
	// Employees whose salary is at least MinSalary.
	ReportRequest struct {
		Title     string
		MinSalary float64
		Format    ReportFormat
		Employees *EmployeeCriteria
		Sort      []SortField
	}

	ReportRow struct {
		EmployeeID int64
		FirstName  string
		LastName   string
		Salary     *float64
		Active     bool
		Emails     []string
	}

	Report struct {
		Title       string
		MinSalary   float64
		GeneratedAt time.Time
		Rows        []ReportRow
	}
)

func ParseReportFormat(value string) (ReportFormat, error) {
	format := ReportFormat(strings.ToLower(strings.TrimSpace(value)))

	switch format {
	case "":
		return ReportFormatCSV, nil
	case ReportFormatCSV, ReportFormatHTML, ReportFormatJSON, ReportFormatXLSX:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedReportFormat, value)
	}
}

func (f ReportFormat) ContentType() string {
	switch f {
	case ReportFormatHTML:
		return "text/html; charset=utf-8"
	case ReportFormatJSON:
		return "application/json"
	case ReportFormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

func (f ReportFormat) FileName(title string) string {
	name := strings.ToLower(strings.Join(strings.Fields(title), "-"))
	if name == "" {
		name = "report"
	}

	return name + "." + string(f)
}

// Criteria returns the employee query a report is built from, defaulting to
// first-name order.
func (r ReportRequest) Criteria() Criteria {
	sort := r.Sort
	if len(sort) == 0 {
		sort = []SortField{{Field: EmployeeFieldFirstName, Direction: SortAsc}}
	}

	return NewCriteria().
		WhereSpec(r.Employees.Specification()).
		WhereSpec(Gte(EmployeeFieldSalary, r.MinSalary)).
		WithPageRequest(UnpagedRequest(sort...)).
		Build()
}
