package exporters

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/architeacher/reporting/services/svc-reporting/internal/domain/model"
)

var csvHeader = []string{"id", "first_name", "last_name", "salary", "active", "emails"}

type CSVExporter struct{}

func NewCSVExporter() CSVExporter {
	return CSVExporter{}
}

func (CSVExporter) Format() model.ReportFormat {
	return model.ReportFormatCSV
}

// Export writes one line per employee; the emails column joins addresses
// with ';'. A missing salary is an empty cell.
func (CSVExporter) Export(w io.Writer, report *model.Report) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, row := range report.Rows {
		record := []string{
			strconv.FormatInt(row.EmployeeID, 10),
			row.FirstName,
			row.LastName,
			formatSalary(row.Salary),
			strconv.FormatBool(row.Active),
			strings.Join(row.Emails, ";"),
		}

		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing csv row %d: %w", row.EmployeeID, err)
		}
	}

	writer.Flush()

	return writer.Error()
}

func formatSalary(salary *float64) string {
	if salary == nil {
		return ""
	}

	return strconv.FormatFloat(*salary, 'f', 2, 64)
}
