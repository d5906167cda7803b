/*
store.go - Persistence interfaces for the data the engine consumes

PURPOSE:
  Defines the boundary between the pure computation core and storage.
  The engine itself never touches these: the service layer uses them to
  materialize the snapshot (events, settings, rules, holidays, leaves)
  that a computation runs over, then hands that snapshot to the engine.

EVENT LOG CONTRACT:
  The attendance event log is append-only. There is no update; the only
  mutation is an administrative soft delete, which stamps who deleted the
  event and hides it from reads without destroying the record. Appends
  are idempotent by event ID: a retried write of the same ID is rejected
  with ErrDuplicateEvent.

IMPLEMENTATIONS:
  - store/sqlite: production SQLite persistence
  - engine/store: in-memory, for tests and dev
*/
package engine

import (
	"context"
	"time"
)

// EventStore is the append-only attendance event log.
type EventStore interface {
	// AppendEvent persists an event. Returns ErrDuplicateEvent if an
	// event with the same ID already exists.
	AppendEvent(ctx context.Context, e AttendanceEvent) error

	// EventsInRange returns an employee's live (non-deleted) events with
	// At in [from, to), ordered chronologically.
	EventsInRange(ctx context.Context, companyID CompanyID, employeeID EmployeeID, from, to time.Time) ([]AttendanceEvent, error)

	// SoftDeleteEvent hides an event from reads. Administrative action;
	// the record itself is retained.
	SoftDeleteEvent(ctx context.Context, id, deletedBy string) error
}

// HolidayStore owns the company holiday calendar.
type HolidayStore interface {
	SaveHoliday(ctx context.Context, h Holiday) error
	ListHolidays(ctx context.Context, companyID CompanyID) ([]Holiday, error)
	DeleteHoliday(ctx context.Context, id string) error
}

// SettingsStore owns the single per-company settings object. Latest value
// always wins; no historical snapshot is kept.
type SettingsStore interface {
	SaveSettings(ctx context.Context, s AttendanceSettings) error

	// GetSettings returns ErrMissingConfiguration when the company has
	// no settings configured.
	GetSettings(ctx context.Context, companyID CompanyID) (AttendanceSettings, error)
}

// RuleStore owns allowance and deduction rule collections. Save rejects
// rules that fail Validate.
type RuleStore interface {
	SaveAllowanceRule(ctx context.Context, r AllowanceRule, companyID CompanyID) error
	ListAllowanceRules(ctx context.Context, companyID CompanyID) ([]AllowanceRule, error)
	SaveDeductionRule(ctx context.Context, r DeductionRule, companyID CompanyID) error
	ListDeductionRules(ctx context.Context, companyID CompanyID) ([]DeductionRule, error)
	DeleteRule(ctx context.Context, id string) error
}

// LeaveStore owns leave/sick applications.
type LeaveStore interface {
	SaveLeaveApplication(ctx context.Context, l LeaveApplication) error

	// ListLeaveApplications returns a company's applications. An empty
	// employeeID means no employee filter.
	ListLeaveApplications(ctx context.Context, companyID CompanyID, employeeID EmployeeID) ([]LeaveApplication, error)
	ApproveLeaveApplication(ctx context.Context, id string) error
}

// EmployeeStore owns employee records.
type EmployeeStore interface {
	SaveEmployee(ctx context.Context, e Employee) error
	GetEmployee(ctx context.Context, id EmployeeID) (Employee, error)
	ListEmployees(ctx context.Context, companyID CompanyID) ([]Employee, error)
}

// Store is the full persistence surface the service layer wires against.
type Store interface {
	EventStore
	HolidayStore
	SettingsStore
	RuleStore
	LeaveStore
	EmployeeStore
}
