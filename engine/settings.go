package engine

import "time"

// =============================================================================
// ATTENDANCE SETTINGS - One configuration object per company
// =============================================================================

// AttendanceSettings is the single configuration object the whole pipeline
// consumes. Callers fetch ONE immutable snapshot and pass it through every
// computation; the engine never re-fetches mid-period, so a computation is
// reproducible for as long as the caller holds the snapshot.
type AttendanceSettings struct {
	CompanyID CompanyID

	// WorkStart is when the workday nominally begins. A check-in after
	// WorkStart + Tolerance counts as late.
	WorkStart        ClockTime
	ToleranceMinutes int

	// Daily window during which check-in is permitted.
	OpenTime  ClockTime
	CloseTime ClockTime

	// MinimumHoursPerDay gates check-OUT eligibility; it does not change
	// day classification.
	MinimumHoursPerDay int

	Geofence Geofence

	// PayrollDayOfMonth is the day each payroll period ends on.
	PayrollDayOfMonth int

	// Workweek marks which weekdays attendance is expected on.
	Workweek Workweek

	// Location is the company timezone. Nil means UTC.
	Location *time.Location
}

// Geofence is a circular area within which check-in/out must occur when
// enforcement is enabled.
type Geofence struct {
	Enabled      bool
	Center       GeoPoint
	RadiusMeters float64
}

// Workweek marks which weekdays are working days, indexed by time.Weekday.
type Workweek [7]bool

// DefaultWorkweek is Monday through Friday.
func DefaultWorkweek() Workweek {
	var w Workweek
	for d := time.Monday; d <= time.Friday; d++ {
		w[d] = true
	}
	return w
}

func (w Workweek) IsWorkday(d time.Weekday) bool { return w[d] }

func (s AttendanceSettings) location() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.UTC
}

// IsZero reports whether no settings have been configured.
func (s AttendanceSettings) IsZero() bool {
	return s.CompanyID == "" && s.WorkStart == 0 && s.CloseTime == 0 && s.MinimumHoursPerDay == 0
}

// Validate rejects settings a computation cannot run against.
func (s AttendanceSettings) Validate() error {
	if s.IsZero() {
		return ErrMissingConfiguration
	}
	if s.Geofence.Enabled && s.Geofence.RadiusMeters <= 0 {
		return ErrInvalidGeofence
	}
	return nil
}
