/*
Package engine provides the payroll computation and attendance-eligibility core.

PURPOSE:
  This package contains the pure computation pipeline that turns a raw
  attendance log plus a set of configurable rules into a per-period
  take-home-pay figure with an auditable breakdown, and real-time
  eligibility decisions (can this employee check in/out right now, from
  this location?).

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: An amount in integer minor currency units (no floating point)
  - AttendanceEvent: An immutable check-in/check-out record
  - LeaveApplication: An approved/pending leave or sick request
  - Employee: The payroll subject, with its base salary
  - AttendanceRollup: Per-period attendance counters consumed by rules

DESIGN PRINCIPLES:
  1. Purity: Every computation takes fully-materialized snapshots as
     arguments and returns a fresh result. No I/O, no hidden state.
  2. Precision: Money is int64 minor units; percentage math goes through
     decimal.Decimal and rounds once, at the end.
  3. Immutability: Attendance events are never mutated, only soft-deleted
     through administrative action at the storage layer.
  4. Closed enumerations: Day statuses, event types and deduction types
     are closed sets with exhaustive switches.

SEE ALSO:
  - calendar.go: Working-day resolution (weekday rules + holidays)
  - classify.go: Per-day attendance classification
  - eligibility.go: Check-in/check-out eligibility decisions
  - rules.go: Allowance and deduction rule evaluation
  - payroll.go: Period aggregation into a PayrollSummary
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Integer minor currency units
// =============================================================================

// Money is an amount in minor currency units (e.g. cents, sen).
// All engine arithmetic stays in int64; fractional intermediate values
// (percentages, proration) go through decimal.Decimal and are rounded
// half-up back to whole minor units.
type Money int64

// Decimal returns the amount as a decimal for fractional arithmetic.
func (m Money) Decimal() decimal.Decimal { return decimal.NewFromInt(int64(m)) }

// MoneyFromDecimal rounds a decimal amount half-up to whole minor units.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money(d.Round(0).IntPart())
}

// PercentOf computes pct% of base, rounded half-up to whole minor units.
func PercentOf(base Money, pct decimal.Decimal) Money {
	return MoneyFromDecimal(base.Decimal().Mul(pct).Div(decimal.NewFromInt(100)))
}

func (m Money) IsNegative() bool { return m < 0 }

// =============================================================================
// IDENTIFIERS
// =============================================================================

type CompanyID string
type EmployeeID string

// =============================================================================
// ATTENDANCE EVENT - Immutable check-in/check-out record
// =============================================================================

type EventType string

const (
	EventCheckIn  EventType = "check_in"
	EventCheckOut EventType = "check_out"
)

// GeoPoint is a WGS84 position with the device-reported accuracy.
type GeoPoint struct {
	Latitude       float64
	Longitude      float64
	AccuracyMeters float64
}

// AttendanceEvent records a single check-in or check-out.
// Immutable once recorded: the storage layer offers no update, only an
// administrative soft delete.
type AttendanceEvent struct {
	ID         string
	CompanyID  CompanyID
	EmployeeID EmployeeID
	At         time.Time
	Type       EventType
	Location   *GeoPoint

	// Audit fields
	RecordedBy string
	RecordedAt time.Time
}

// =============================================================================
// LEAVE APPLICATION - Approved applications override ABSENT
// =============================================================================

type LeaveKind string

const (
	LeaveRegular LeaveKind = "LEAVE"
	LeaveSick    LeaveKind = "SICK"
)

// LeaveApplication covers an inclusive date range with leave or sick time.
// Only approved applications override an ABSENT classification; the Paid
// flag decides whether the covered days feed LEAVE/SICK deduction rules.
type LeaveApplication struct {
	ID         string
	CompanyID  CompanyID
	EmployeeID EmployeeID
	Kind       LeaveKind
	Start      Date
	End        Date
	Approved   bool
	Paid       bool
	Reason     string
}

// Covers reports whether the application covers the date (inclusive).
func (l LeaveApplication) Covers(d Date) bool {
	return l.Start.BeforeOrEqual(d) && d.BeforeOrEqual(l.End)
}

// =============================================================================
// EMPLOYEE
// =============================================================================

type Employee struct {
	ID         EmployeeID
	CompanyID  CompanyID
	Name       string
	Email      string
	BaseSalary Money
	HireDate   Date
}

// =============================================================================
// ATTENDANCE ROLLUP - Per-period counters consumed by deduction rules
// =============================================================================

// AttendanceRollup aggregates a period of day classifications into the
// counters the rule engine consumes. Unpaid leave/sick counters only
// include days covered by applications with Paid=false; paid leave never
// reaches a deduction rule.
type AttendanceRollup struct {
	WorkingDays      int
	PresentDays      int
	AbsentDays       int
	LateDays         int
	TotalLateMinutes int
	UnpaidLeaveDays  int
	UnpaidSickDays   int
}
