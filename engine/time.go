package engine

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Calendar date in the company's configured timezone
// =============================================================================

// Date is a calendar date (no time-of-day). Attendance timestamps are
// timezone-aware instants; the company timezone decides which Date an
// instant belongs to.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDate(year int, month time.Month, day int) Date {
	// Normalize through time.Date so Feb 30 etc. roll over consistently.
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// DateOf returns the calendar date of an instant in the given location.
func DateOf(t time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return Date{Year: local.Year(), Month: local.Month(), Day: local.Day()}
}

// ParseDate parses "2006-01-02".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

func (d Date) time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Comparison
func (d Date) Before(other Date) bool        { return d.time().Before(other.time()) }
func (d Date) After(other Date) bool         { return d.time().After(other.time()) }
func (d Date) Equal(other Date) bool         { return d == other }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic
func (d Date) AddDays(n int) Date {
	t := d.time().AddDate(0, 0, n)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func (d Date) AddMonths(n int) Date {
	t := d.time().AddDate(0, n, 0)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Properties
func (d Date) Weekday() time.Weekday { return d.time().Weekday() }
func (d Date) IsZero() bool          { return d == Date{} }
func (d Date) String() string        { return d.time().Format("2006-01-02") }

// At returns the instant at the given clock time on this date, in loc.
func (d Date) At(c ClockTime, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, c.Hour(), c.Minute(), 0, 0, loc)
}

func DaysBetween(from, to Date) int {
	return int(to.time().Sub(from.time()).Hours() / 24)
}

// =============================================================================
// CLOCK TIME - Minutes since midnight
// =============================================================================

// ClockTime is a time-of-day in whole minutes since midnight. Work-start,
// open/close window boundaries and tolerance arithmetic all live here, so
// "is this check-in late" is integer comparison, never float math.
type ClockTime int

func NewClockTime(hour, minute int) ClockTime { return ClockTime(hour*60 + minute) }

// ParseClockTime parses "15:04".
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return NewClockTime(t.Hour(), t.Minute()), nil
}

// ClockTimeOf truncates an instant to its clock time in the given location.
func ClockTimeOf(t time.Time, loc *time.Location) ClockTime {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return NewClockTime(local.Hour(), local.Minute())
}

func (c ClockTime) Hour() int               { return int(c) / 60 }
func (c ClockTime) Minute() int             { return int(c) % 60 }
func (c ClockTime) AddMinutes(n int) ClockTime { return c + ClockTime(n) }
func (c ClockTime) Minutes() int            { return int(c) }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}
