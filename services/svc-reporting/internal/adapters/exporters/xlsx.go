package exporters

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/architeacher/reporting/services/svc-reporting/internal/domain/model"
	"github.com/xuri/excelize/v2"
)

const (
	xlsxSheet     = "Report"
	xlsxHeaderRow = 4
)

type XLSXExporter struct{}

func NewXLSXExporter() XLSXExporter {
	return XLSXExporter{}
}

func (XLSXExporter) Format() model.ReportFormat {
	return model.ReportFormatXLSX
}

// Export writes a single sheet: title, generation time and salary threshold
// on the first rows, then a bold header and one row per employee. Salaries
// are numeric cells; a missing salary is left blank.
func (XLSXExporter) Export(w io.Writer, report *model.Report) error {
	book := excelize.NewFile()
	defer func() { _ = book.Close() }()

	if err := book.SetSheetName(book.GetSheetName(0), xlsxSheet); err != nil {
		return fmt.Errorf("naming xlsx sheet: %w", err)
	}

	preamble := [][]any{
		{report.Title},
		{"generated_at", report.GeneratedAt.UTC().Format(time.DateTime + " MST")},
		{"min_salary", report.MinSalary},
	}

	for i, row := range preamble {
		if err := setRow(book, i+1, row); err != nil {
			return err
		}
	}

	header := make([]any, 0, len(csvHeader))
	for _, column := range csvHeader {
		header = append(header, column)
	}

	if err := setRow(book, xlsxHeaderRow, header); err != nil {
		return err
	}

	if err := boldRow(book, xlsxHeaderRow, len(header)); err != nil {
		return err
	}

	for i, row := range report.Rows {
		var salary any
		if row.Salary != nil {
			salary = *row.Salary
		}

		record := []any{
			row.EmployeeID,
			row.FirstName,
			row.LastName,
			salary,
			strconv.FormatBool(row.Active),
			strings.Join(row.Emails, "; "),
		}

		if err := setRow(book, xlsxHeaderRow+1+i, record); err != nil {
			return fmt.Errorf("writing xlsx row %d: %w", row.EmployeeID, err)
		}
	}

	if _, err := book.WriteTo(w); err != nil {
		return fmt.Errorf("writing xlsx workbook: %w", err)
	}

	return nil
}

func setRow(book *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}

	return book.SetSheetRow(xlsxSheet, cell, &values)
}

func boldRow(book *excelize.File, row, columns int) error {
	style, err := book.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating xlsx header style: %w", err)
	}

	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}

	last, err := excelize.CoordinatesToCellName(columns, row)
	if err != nil {
		return err
	}

	return book.SetCellStyle(xlsxSheet, first, last, style)
}
