/*
classify.go - Per-day attendance classification

PURPOSE:
  Turns the raw check-in/check-out events of a single date into a
  DayClassification: the status (PRESENT/LATE/ABSENT/LEAVE/SICK), the
  late-minutes figure deduction rules bill against, and worked minutes.

CLASSIFICATION ORDER:
  1. Approved leave/sick application covering the date wins, regardless
     of event presence.
  2. Non-working days are neutral ("-"), never ABSENT.
  3. No check-in on a working day: ABSENT.
  4. Check-in present: LATE iff check-in is strictly after
     work_start + tolerance, else PRESENT. Worked minutes below the daily
     minimum do NOT change the status; the minimum governs check-out
     eligibility (see eligibility.go), not classification.

LATENESS:
  A check-in at exactly work_start + tolerance is NOT late. When a
  check-in IS late, late-minutes counts from work_start (not from the
  tolerance boundary), floored to whole minutes.

SEE ALSO:
  - calendar.go: The working-day input
  - payroll.go: Aggregates classifications into an AttendanceRollup
*/
package engine

import "time"

// =============================================================================
// DAY STATUS - Closed enumeration
// =============================================================================

type DayStatus string

const (
	StatusPresent  DayStatus = "PRESENT"
	StatusLate     DayStatus = "LATE"
	StatusAbsent   DayStatus = "ABSENT"
	StatusLeave    DayStatus = "LEAVE"
	StatusSick     DayStatus = "SICK"
	StatusUnmarked DayStatus = "-"
)

// DayClassification is the derived attendance verdict for one date.
// Recomputed on demand from events + calendar + settings; never stored
// as authoritative state.
type DayClassification struct {
	Date          Date
	Status        DayStatus
	IsLate        bool
	LateMinutes   int
	WorkedMinutes *int
	AbsentReason  string

	// UnpaidLeave marks LEAVE/SICK days whose covering application is
	// unpaid; only these feed LEAVE/SICK deduction rules.
	UnpaidLeave bool
}

// =============================================================================
// CLASSIFIER
// =============================================================================

// Classify derives the DayClassification for one date. events must be the
// employee's events for that date (any order); leaves the employee's leave
// applications; workingDay the calendar resolution for the date.
func Classify(date Date, events []AttendanceEvent, leaves []LeaveApplication, settings AttendanceSettings, workingDay bool) DayClassification {
	c := DayClassification{Date: date, Status: StatusUnmarked}

	if app := approvedLeaveCovering(date, leaves); app != nil {
		switch app.Kind {
		case LeaveSick:
			c.Status = StatusSick
		default:
			c.Status = StatusLeave
		}
		c.UnpaidLeave = !app.Paid
		return c
	}

	checkIn, checkOut := firstInLastOut(events)

	// Non-working days are neutral: no lateness, no absence. Worked
	// minutes are still reported when both events exist.
	if !workingDay {
		if checkIn != nil && checkOut != nil {
			worked := wholeMinutes(*checkOut, *checkIn)
			c.WorkedMinutes = &worked
		}
		return c
	}

	if checkIn == nil {
		c.Status = StatusAbsent
		c.AbsentReason = "no check-in recorded"
		return c
	}

	inClock := ClockTimeOf(*checkIn, settings.location())
	deadline := settings.WorkStart.AddMinutes(settings.ToleranceMinutes)
	if inClock > deadline {
		c.IsLate = true
		c.LateMinutes = inClock.Minutes() - settings.WorkStart.Minutes()
	}

	if checkOut != nil {
		worked := wholeMinutes(*checkOut, *checkIn)
		c.WorkedMinutes = &worked
	}

	if c.IsLate {
		c.Status = StatusLate
	} else {
		c.Status = StatusPresent
	}
	return c
}

// approvedLeaveCovering returns the first approved application covering d.
// Unapproved applications never override ABSENT.
func approvedLeaveCovering(d Date, leaves []LeaveApplication) *LeaveApplication {
	for i := range leaves {
		if leaves[i].Approved && leaves[i].Covers(d) {
			return &leaves[i]
		}
	}
	return nil
}

// firstInLastOut picks the earliest check-in and latest check-out of the
// day. Duplicate taps from flaky clients collapse to the widest span.
func firstInLastOut(events []AttendanceEvent) (checkIn, checkOut *time.Time) {
	for i := range events {
		e := events[i]
		switch e.Type {
		case EventCheckIn:
			if checkIn == nil || e.At.Before(*checkIn) {
				t := e.At
				checkIn = &t
			}
		case EventCheckOut:
			if checkOut == nil || e.At.After(*checkOut) {
				t := e.At
				checkOut = &t
			}
		}
	}
	return checkIn, checkOut
}

// wholeMinutes floors the span between two instants to whole minutes,
// never negative.
func wholeMinutes(end, start time.Time) int {
	m := int(end.Sub(start).Minutes())
	if m < 0 {
		return 0
	}
	return m
}
