/*
payroll.go - Period aggregation into a PayrollSummary

PURPOSE:
  Orchestrates the whole pipeline for a period:

    dates in [start, end] -> Calendar -> Classify -> AttendanceRollup
      -> EvaluateAllowances / EvaluateDeductions
      -> take_home_pay = max(0, base + allowances - deductions)

  Deterministic and idempotent: identical inputs always yield an
  identical summary. No hidden state, no randomness, no wall-clock reads;
  the caller supplies the period.

TAKE-HOME FLOOR:
  When deductions exceed base + allowances the result clamps to zero and
  the shortfall is surfaced as a warning field on the summary. That is a
  business outcome, not an error.
*/
package engine

// =============================================================================
// LINE ITEMS & SUMMARY
// =============================================================================

type LineItemType string

const (
	LineBaseSalary LineItemType = "BASE_SALARY"
	LineAllowance  LineItemType = "ALLOWANCE"
	LineDeduction  LineItemType = "DEDUCTION"
)

// PayrollLineItem is one row of the take-home breakdown. Deductions carry
// positive magnitudes and are subtracted by the aggregator; amounts are
// never negative, which keeps display logic uniform.
type PayrollLineItem struct {
	Description string
	Type        LineItemType
	Amount      Money
}

// PayrollSummary is the per-period result that crosses the boundary into
// the UI/transport layer.
type PayrollSummary struct {
	EmployeeID EmployeeID
	Period     Period

	BaseSalary Money

	AbsentDays       int
	TotalLateMinutes int

	AllowanceTotal Money
	DeductionTotal Money
	LineItems      []PayrollLineItem

	// TakeHomePay = max(0, BaseSalary + AllowanceTotal - DeductionTotal).
	TakeHomePay Money

	// Shortfall is the amount by which deductions exceeded base +
	// allowances when TakeHomePay was floored at zero. Zero otherwise.
	Shortfall Money

	// Days is the per-day classification detail behind the rollup.
	Days []DayClassification
}

// SummaryInput is the fully-materialized snapshot a computation runs
// over. The caller fetches it once; the engine never re-fetches.
type SummaryInput struct {
	EmployeeID     EmployeeID
	Period         Period
	BaseSalary     Money
	Events         []AttendanceEvent
	Leaves         []LeaveApplication
	Holidays       []Holiday
	Settings       AttendanceSettings
	AllowanceRules []AllowanceRule
	DeductionRules []DeductionRule
}

// =============================================================================
// AGGREGATOR
// =============================================================================

// ComputeSummary runs the full pipeline for one employee and period.
func ComputeSummary(in SummaryInput) (PayrollSummary, error) {
	if err := in.Period.Validate(); err != nil {
		return PayrollSummary{}, err
	}
	if err := in.Settings.Validate(); err != nil {
		return PayrollSummary{}, err
	}
	if err := ValidateRules(in.AllowanceRules, in.DeductionRules); err != nil {
		return PayrollSummary{}, err
	}

	calendar := NewCalendar(in.Settings.Workweek, in.Holidays)
	byDate := groupEventsByDate(in.Events, in.Settings)

	summary := PayrollSummary{
		EmployeeID: in.EmployeeID,
		Period:     in.Period,
		BaseSalary: in.BaseSalary,
	}

	var rollup AttendanceRollup
	for _, date := range in.Period.Days() {
		working := calendar.IsWorkingDay(date)
		dc := Classify(date, byDate[date], in.Leaves, in.Settings, working)
		summary.Days = append(summary.Days, dc)
		accumulate(&rollup, dc, working)
	}

	summary.AbsentDays = rollup.AbsentDays
	summary.TotalLateMinutes = rollup.TotalLateMinutes

	allowances := EvaluateAllowances(in.BaseSalary, in.AllowanceRules)
	deductions := EvaluateDeductions(in.BaseSalary, rollup, in.DeductionRules)
	summary.AllowanceTotal = allowances.Total
	summary.DeductionTotal = deductions.Total

	summary.LineItems = append(summary.LineItems, PayrollLineItem{
		Description: "Base salary",
		Type:        LineBaseSalary,
		Amount:      in.BaseSalary,
	})
	summary.LineItems = append(summary.LineItems, allowances.Items...)
	summary.LineItems = append(summary.LineItems, deductions.Items...)

	takeHome := in.BaseSalary + allowances.Total - deductions.Total
	if takeHome < 0 {
		summary.Shortfall = -takeHome
		takeHome = 0
	}
	summary.TakeHomePay = takeHome

	return summary, nil
}

// ComputeRollup classifies the period without evaluating rules. Used by
// callers that only need attendance figures.
func ComputeRollup(period Period, events []AttendanceEvent, leaves []LeaveApplication, holidays []Holiday, settings AttendanceSettings) (AttendanceRollup, []DayClassification, error) {
	if err := period.Validate(); err != nil {
		return AttendanceRollup{}, nil, err
	}
	if err := settings.Validate(); err != nil {
		return AttendanceRollup{}, nil, err
	}

	calendar := NewCalendar(settings.Workweek, holidays)
	byDate := groupEventsByDate(events, settings)

	var rollup AttendanceRollup
	var days []DayClassification
	for _, date := range period.Days() {
		working := calendar.IsWorkingDay(date)
		dc := Classify(date, byDate[date], leaves, settings, working)
		days = append(days, dc)
		accumulate(&rollup, dc, working)
	}
	return rollup, days, nil
}

func accumulate(rollup *AttendanceRollup, dc DayClassification, working bool) {
	if working {
		rollup.WorkingDays++
	}
	switch dc.Status {
	case StatusPresent:
		rollup.PresentDays++
	case StatusLate:
		rollup.PresentDays++
		rollup.LateDays++
	case StatusAbsent:
		rollup.AbsentDays++
	case StatusLeave:
		if dc.UnpaidLeave {
			rollup.UnpaidLeaveDays++
		}
	case StatusSick:
		if dc.UnpaidLeave {
			rollup.UnpaidSickDays++
		}
	case StatusUnmarked:
		// neutral day, nothing to count
	}
	rollup.TotalLateMinutes += dc.LateMinutes
}

// groupEventsByDate buckets events by their calendar date in the company
// timezone.
func groupEventsByDate(events []AttendanceEvent, settings AttendanceSettings) map[Date][]AttendanceEvent {
	byDate := make(map[Date][]AttendanceEvent, len(events))
	for _, e := range events {
		d := DateOf(e.At, settings.location())
		byDate[d] = append(byDate[d], e)
	}
	return byDate
}
