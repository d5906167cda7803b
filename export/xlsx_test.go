package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/export"
)

func sampleSummary() (engine.Employee, engine.PayrollSummary) {
	employee := engine.Employee{
		ID:         "emp-1",
		CompanyID:  "co-1",
		Name:       "Adi Nugroho",
		BaseSalary: 5_000_000,
		HireDate:   engine.NewDate(2024, time.January, 15),
	}
	worked := 550
	summary := engine.PayrollSummary{
		EmployeeID: "emp-1",
		Period: engine.Period{
			Start: engine.NewDate(2025, time.June, 2),
			End:   engine.NewDate(2025, time.June, 6),
		},
		BaseSalary:       5_000_000,
		TotalLateMinutes: 100,
		AllowanceTotal:   500_000,
		DeductionTotal:   300_000,
		TakeHomePay:      5_200_000,
		LineItems: []engine.PayrollLineItem{
			{Description: "Base salary", Type: engine.LineBaseSalary, Amount: 5_000_000},
			{Description: "Transport", Type: engine.LineAllowance, Amount: 500_000},
			{Description: "Lateness", Type: engine.LineDeduction, Amount: 300_000},
		},
		Days: []engine.DayClassification{
			{Date: engine.NewDate(2025, time.June, 2), Status: engine.StatusPresent, WorkedMinutes: &worked},
			{Date: engine.NewDate(2025, time.June, 3), Status: engine.StatusLate, IsLate: true, LateMinutes: 100, WorkedMinutes: &worked},
			{Date: engine.NewDate(2025, time.June, 4), Status: engine.StatusAbsent},
		},
	}
	return employee, summary
}

func cellValue(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell)
	if err != nil {
		t.Fatalf("read %s!%s: %v", sheet, cell, err)
	}
	return v
}

func TestPayrollWorkbook_Sheets(t *testing.T) {
	// GIVEN: A computed summary
	// WHEN: Building the workbook
	// THEN: It holds exactly the payslip and attendance sheets

	employee, summary := sampleSummary()
	f, err := export.PayrollWorkbook(employee, summary)
	if err != nil {
		t.Fatalf("build workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 {
		t.Fatalf("expected Payroll and Attendance sheets, got %v", sheets)
	}
	for _, name := range sheets {
		if name != "Payroll" && name != "Attendance" {
			t.Errorf("unexpected sheet %q", name)
		}
	}
}

func TestPayrollWorkbook_SummaryCells(t *testing.T) {
	employee, summary := sampleSummary()
	f, err := export.PayrollWorkbook(employee, summary)
	if err != nil {
		t.Fatalf("build workbook: %v", err)
	}
	defer f.Close()

	if got := cellValue(t, f, "Payroll", "B1"); got != "Adi Nugroho" {
		t.Errorf("B1: expected employee name, got %q", got)
	}
	if got := cellValue(t, f, "Payroll", "B3"); got != "2025-06-02" {
		t.Errorf("B3: expected period start, got %q", got)
	}
	// Header row, then the three line items starting at row 7.
	if got := cellValue(t, f, "Payroll", "A7"); got != "Base salary" {
		t.Errorf("A7: expected first line item, got %q", got)
	}
	if got := cellValue(t, f, "Payroll", "C9"); got != "300000" {
		t.Errorf("C9: expected deduction amount, got %q", got)
	}
	if got := cellValue(t, f, "Payroll", "C13"); got != "5200000" {
		t.Errorf("C13: expected take-home pay, got %q", got)
	}
}

func TestPayrollWorkbook_AttendanceCells(t *testing.T) {
	employee, summary := sampleSummary()
	f, err := export.PayrollWorkbook(employee, summary)
	if err != nil {
		t.Fatalf("build workbook: %v", err)
	}
	defer f.Close()

	if got := cellValue(t, f, "Attendance", "B3"); got != string(engine.StatusLate) {
		t.Errorf("B3: expected LATE row, got %q", got)
	}
	if got := cellValue(t, f, "Attendance", "C3"); got != "100" {
		t.Errorf("C3: expected late minutes, got %q", got)
	}
	// The absent day has no worked minutes, so its cell stays empty.
	if got := cellValue(t, f, "Attendance", "D4"); got != "" {
		t.Errorf("D4: expected empty worked minutes, got %q", got)
	}
}

func TestPayrollWorkbook_ShortfallRow(t *testing.T) {
	employee, summary := sampleSummary()
	summary.TakeHomePay = 0
	summary.Shortfall = 200_000

	f, err := export.PayrollWorkbook(employee, summary)
	if err != nil {
		t.Fatalf("build workbook: %v", err)
	}
	defer f.Close()

	if got := cellValue(t, f, "Payroll", "A14"); got != "Shortfall (clamped to zero)" {
		t.Errorf("A14: expected shortfall row, got %q", got)
	}
}

func TestWritePayroll_StreamsValidWorkbook(t *testing.T) {
	employee, summary := sampleSummary()

	var buf bytes.Buffer
	if err := export.WritePayroll(&buf, employee, summary); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()
	if got := cellValue(t, f, "Payroll", "B2"); got != "emp-1" {
		t.Errorf("B2: expected employee ID, got %q", got)
	}
}
