// Package export renders monthly summaries as XLSX workbooks.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"budgetapp/internal/core"
	"budgetapp/internal/summary"
)

const (
	summarySheet = "Summary"
	alertsSheet  = "Alerts"
)

// ContentType is the media type of the workbooks produced here.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var summaryHeaders = []string{"Category", "Spent", "Limit", "Remaining", "Percentage", "Status"}

// SummaryXLSX returns a workbook with the summary's categories and totals on
// one sheet and its alerts on another.
func SummaryXLSX(s core.MonthlySummary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// NewFile starts with "Sheet1"; rename it rather than leaving it empty.
	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}
	if _, err := f.NewSheet(alertsSheet); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}
	index, _ := f.GetSheetIndex(summarySheet)
	f.SetActiveSheet(index)

	write := func(sheet string, col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	write(summarySheet, 1, 1, "Month")
	write(summarySheet, 2, 1, s.Month)
	for i, h := range summaryHeaders {
		write(summarySheet, i+1, 3, h)
	}

	row := 4
	for _, c := range s.Categories {
		write(summarySheet, 1, row, c.Name)
		write(summarySheet, 2, row, c.Spent)
		write(summarySheet, 3, row, optional(c.Limit))
		write(summarySheet, 4, row, optional(c.Remaining))
		write(summarySheet, 5, row, optional(c.Percentage))
		write(summarySheet, 6, row, string(c.Status))
		row++
	}

	row++
	for _, total := range []struct {
		label string
		value float64
	}{
		{"Total income", s.TotalIncome},
		{"Total spent", s.TotalSpent},
		{"Total budget limit", s.TotalBudgetLimit},
		{"Net", s.Net},
	} {
		write(summarySheet, 1, row, total.label)
		write(summarySheet, 2, row, total.value)
		row++
	}

	for i, h := range []string{"Category", "Severity", "Message"} {
		write(alertsSheet, i+1, 1, h)
	}
	for i, a := range summary.AlertsFor(s) {
		write(alertsSheet, 1, i+2, a.Category)
		write(alertsSheet, 2, i+2, string(a.Severity))
		write(alertsSheet, 3, i+2, a.Message)
	}

	_ = f.SetColWidth(summarySheet, "A", "A", 22) // category
	_ = f.SetColWidth(summarySheet, "B", "E", 14) // amounts
	_ = f.SetColWidth(summarySheet, "F", "F", 16) // status
	_ = f.SetColWidth(alertsSheet, "C", "C", 48)  // message

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// optional leaves the cell empty for nil figures.
func optional(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
