/*
eligibility.go - Real-time check-in/check-out eligibility

PURPOSE:
  Decides whether an employee may check in or out right now, from this
  location. Both checks are pure functions of the supplied instant,
  position and settings snapshot; callers MUST re-evaluate on every
  attempt since "now" and position change continuously. No decision may
  be cached across requests.

DENIALS vs ERRORS:
  A denial ({Allowed:false, Reason}) is the normal successful response.
  An error means the evaluator itself was handed malformed input, e.g. a
  negative geofence radius.

GEOFENCE:
  Distance to the configured center is great-circle (haversine). Inside
  means distance <= radius.
*/
package engine

import (
	"fmt"
	"math"
	"time"
)

// =============================================================================
// DECISIONS
// =============================================================================

// CheckInDecision is the eligibility verdict for a check-in attempt.
// RemainingSeconds is the time until the window closes; nil when the
// attempt falls outside the window.
type CheckInDecision struct {
	Allowed          bool
	Reason           string
	RemainingSeconds *int64
}

// CheckOutDecision is the eligibility verdict for a check-out attempt.
type CheckOutDecision struct {
	Allowed bool
	Reason  string
}

// Denial reasons. Stable strings: clients branch on them.
const (
	ReasonBeforeOpenWindow  = "before open window"
	ReasonAfterCloseWindow  = "after close window"
	ReasonAlreadyCheckedIn  = "already checked in"
	ReasonOutsideLocation   = "outside allowed location"
	ReasonLocationRequired  = "location required"
	ReasonNoCheckInRecorded = "no check-in recorded today"
)

// =============================================================================
// CHECK-IN
// =============================================================================

// CanCheckIn decides whether a check-in is permitted at now. position may
// be nil when geofencing is disabled; alreadyCheckedIn is whether a
// check-in is already recorded for today.
func CanCheckIn(now time.Time, settings AttendanceSettings, position *GeoPoint, alreadyCheckedIn bool) (CheckInDecision, error) {
	if settings.Geofence.Enabled && settings.Geofence.RadiusMeters <= 0 {
		return CheckInDecision{}, fmt.Errorf("geofence radius %v: %w", settings.Geofence.RadiusMeters, ErrInvalidGeofence)
	}

	clock := ClockTimeOf(now, settings.location())
	if clock < settings.OpenTime {
		return CheckInDecision{Reason: ReasonBeforeOpenWindow}, nil
	}
	if clock > settings.CloseTime {
		return CheckInDecision{Reason: ReasonAfterCloseWindow}, nil
	}

	if alreadyCheckedIn {
		return CheckInDecision{Reason: ReasonAlreadyCheckedIn}, nil
	}

	if settings.Geofence.Enabled {
		if position == nil {
			return CheckInDecision{Reason: ReasonLocationRequired}, nil
		}
		if HaversineMeters(*position, settings.Geofence.Center) > settings.Geofence.RadiusMeters {
			return CheckInDecision{Reason: ReasonOutsideLocation}, nil
		}
	}

	remaining := secondsUntilClose(now, settings)
	return CheckInDecision{Allowed: true, RemainingSeconds: &remaining}, nil
}

// secondsUntilClose counts from now to the end of the close minute (the
// whole close minute is still inside the window).
func secondsUntilClose(now time.Time, settings AttendanceSettings) int64 {
	loc := settings.location()
	closed := DateOf(now, loc).At(settings.CloseTime.AddMinutes(1), loc)
	remaining := int64(closed.Sub(now).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// =============================================================================
// CHECK-OUT
// =============================================================================

// CanCheckOut decides whether a check-out is permitted: a check-in must
// exist for today and the minimum worked minutes must be met. The shortfall
// is reported in the denial reason.
func CanCheckOut(settings AttendanceSettings, checkedIn bool, workedMinutesSoFar int) CheckOutDecision {
	if !checkedIn {
		return CheckOutDecision{Reason: ReasonNoCheckInRecorded}
	}
	required := settings.MinimumHoursPerDay * 60
	if workedMinutesSoFar < required {
		return CheckOutDecision{
			Reason: fmt.Sprintf("minimum hours not met: %d minutes remaining", required-workedMinutesSoFar),
		}
	}
	return CheckOutDecision{Allowed: true}
}

// =============================================================================
// GREAT-CIRCLE DISTANCE
// =============================================================================

const earthRadiusMeters = 6371000.0

// HaversineMeters returns the great-circle distance between two positions.
func HaversineMeters(a, b GeoPoint) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}
