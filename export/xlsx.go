// Package export renders payroll summaries as Excel workbooks for HR
// distribution. Two sheets: a payslip breakdown and the per-day
// attendance detail behind it.
package export

import (
	"fmt"
	"io"

	"github.com/warp/payroll-engine/engine"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet    = "Payroll"
	attendanceSheet = "Attendance"
)

// PayrollWorkbook builds an in-memory workbook from a computed summary.
// Callers write it out with WriteTo or SaveAs.
func PayrollWorkbook(employee engine.Employee, summary engine.PayrollSummary) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(summarySheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if _, err := f.NewSheet(attendanceSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	// Drop the default sheet; excelize always creates "Sheet1".
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	if err := writeSummarySheet(f, employee, summary); err != nil {
		return nil, err
	}
	if err := writeAttendanceSheet(f, summary); err != nil {
		return nil, err
	}
	return f, nil
}

// WritePayroll streams the workbook to w (e.g. an HTTP response).
func WritePayroll(w io.Writer, employee engine.Employee, summary engine.PayrollSummary) error {
	f, err := PayrollWorkbook(employee, summary)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func writeSummarySheet(f *excelize.File, employee engine.Employee, summary engine.PayrollSummary) error {
	rows := [][]any{
		{"Employee", employee.Name},
		{"Employee ID", string(employee.ID)},
		{"Period start", summary.Period.Start.String()},
		{"Period end", summary.Period.End.String()},
		{},
		{"Description", "Type", "Amount"},
	}
	for _, item := range summary.LineItems {
		rows = append(rows, []any{item.Description, string(item.Type), int64(item.Amount)})
	}
	rows = append(rows,
		[]any{},
		[]any{"Allowance total", "", int64(summary.AllowanceTotal)},
		[]any{"Deduction total", "", int64(summary.DeductionTotal)},
		[]any{"Take-home pay", "", int64(summary.TakeHomePay)},
	)
	if summary.Shortfall > 0 {
		rows = append(rows, []any{"Shortfall (clamped to zero)", "", int64(summary.Shortfall)})
	}

	return writeRows(f, summarySheet, rows)
}

func writeAttendanceSheet(f *excelize.File, summary engine.PayrollSummary) error {
	rows := [][]any{
		{"Date", "Status", "Late minutes", "Worked minutes"},
	}
	for _, day := range summary.Days {
		worked := any("")
		if day.WorkedMinutes != nil {
			worked = *day.WorkedMinutes
		}
		rows = append(rows, []any{day.Date.String(), string(day.Status), day.LateMinutes, worked})
	}
	rows = append(rows,
		[]any{},
		[]any{"Absent days", summary.AbsentDays},
		[]any{"Total late minutes", summary.TotalLateMinutes},
	)
	return writeRows(f, attendanceSheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}
