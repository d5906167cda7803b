package engine

import "time"

// =============================================================================
// PERIOD - The boundary every payroll computation runs over
// =============================================================================

// Period is an inclusive date range [Start, End]. Payroll is always
// computed for a period, never at a point in time.
type Period struct {
	Start Date
	End   Date
}

// Validate rejects a malformed period (end before start, zero bounds).
func (p Period) Validate() error {
	if p.Start.IsZero() || p.End.IsZero() || p.End.Before(p.Start) {
		return ErrInvalidPeriod
	}
	return nil
}

// Contains reports whether d falls within [Start, End].
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Days enumerates every date in the period, in order.
func (p Period) Days() []Date {
	var days []Date
	for current := p.Start; current.BeforeOrEqual(p.End); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// PayrollPeriodEnding returns the period that ends on the configured
// payroll day-of-month containing (or most recently preceding) the given
// date: (previous payday, payday]. A payday past the end of a short month
// clamps to that month's last day.
func PayrollPeriodEnding(asOf Date, payrollDayOfMonth int) Period {
	end := clampDay(asOf.Year, asOf.Month, payrollDayOfMonth)
	if end.After(asOf) {
		prev := asOf.AddMonths(-1)
		end = clampDay(prev.Year, prev.Month, payrollDayOfMonth)
	}
	prevMonth := end.AddMonths(-1)
	start := clampDay(prevMonth.Year, prevMonth.Month, payrollDayOfMonth).AddDays(1)
	return Period{Start: start, End: end}
}

func clampDay(year int, month time.Month, day int) Date {
	last := NewDate(year, month+1, 1).AddDays(-1)
	if day >= last.Day {
		return last
	}
	return NewDate(year, month, day)
}
