package engine_test

import (
	"testing"
	"time"

	"github.com/warp/payroll-engine/engine"
)

// =============================================================================
// TEST HELPERS
// =============================================================================
// Note: date() is defined in period_test.go. These helpers are shared by
// the classifier, eligibility and payroll tests.

func testSettings() engine.AttendanceSettings {
	return engine.AttendanceSettings{
		CompanyID:          "co-1",
		WorkStart:          engine.NewClockTime(9, 0),
		ToleranceMinutes:   15,
		OpenTime:           engine.NewClockTime(7, 0),
		CloseTime:          engine.NewClockTime(20, 0),
		MinimumHoursPerDay: 8,
		PayrollDayOfMonth:  25,
		Workweek:           engine.DefaultWorkweek(),
	}
}

func at(d engine.Date, hour, minute int) time.Time {
	return d.At(engine.NewClockTime(hour, minute), time.UTC)
}

func checkInAt(d engine.Date, hour, minute int) engine.AttendanceEvent {
	return engine.AttendanceEvent{
		ID:         "in-" + d.String(),
		CompanyID:  "co-1",
		EmployeeID: "emp-1",
		At:         at(d, hour, minute),
		Type:       engine.EventCheckIn,
	}
}

func checkOutAt(d engine.Date, hour, minute int) engine.AttendanceEvent {
	return engine.AttendanceEvent{
		ID:         "out-" + d.String(),
		CompanyID:  "co-1",
		EmployeeID: "emp-1",
		At:         at(d, hour, minute),
		Type:       engine.EventCheckOut,
	}
}

func approvedLeave(kind engine.LeaveKind, from, to engine.Date, paid bool) engine.LeaveApplication {
	return engine.LeaveApplication{
		ID:         "leave-" + from.String(),
		CompanyID:  "co-1",
		EmployeeID: "emp-1",
		Kind:       kind,
		Start:      from,
		End:        to,
		Approved:   true,
		Paid:       paid,
	}
}

// =============================================================================
// CLASSIFIER
// =============================================================================

func TestClassify_OnTimeIsPresent(t *testing.T) {
	// GIVEN: Work starts 09:00 with 15 minutes tolerance
	// WHEN: Check-in at 08:55, check-out at 17:25
	// THEN: PRESENT, not late, 510 worked minutes

	day := date(2025, time.June, 2) // Monday
	events := []engine.AttendanceEvent{checkInAt(day, 8, 55), checkOutAt(day, 17, 25)}

	c := engine.Classify(day, events, nil, testSettings(), true)

	if c.Status != engine.StatusPresent {
		t.Fatalf("expected PRESENT, got %s", c.Status)
	}
	if c.IsLate || c.LateMinutes != 0 {
		t.Errorf("on-time check-in must not be late (late=%v minutes=%d)", c.IsLate, c.LateMinutes)
	}
	if c.WorkedMinutes == nil || *c.WorkedMinutes != 510 {
		t.Errorf("expected 510 worked minutes, got %v", c.WorkedMinutes)
	}
}

func TestClassify_ToleranceBoundaryIsNotLate(t *testing.T) {
	// The tolerance deadline itself is still on time: lateness requires
	// strictly after work_start + tolerance.
	//
	// WHEN: Check-in at exactly 09:15
	// THEN: PRESENT with zero late minutes

	day := date(2025, time.June, 2)
	c := engine.Classify(day, []engine.AttendanceEvent{checkInAt(day, 9, 15)}, nil, testSettings(), true)

	if c.Status != engine.StatusPresent || c.IsLate {
		t.Errorf("09:15 check-in should be on time, got status=%s late=%v", c.Status, c.IsLate)
	}
}

func TestClassify_OneMinutePastToleranceIsLate(t *testing.T) {
	// WHEN: Check-in at 09:16, one minute past the deadline
	// THEN: LATE, and late minutes count from work start (16), not from
	//       the deadline

	day := date(2025, time.June, 2)
	c := engine.Classify(day, []engine.AttendanceEvent{checkInAt(day, 9, 16)}, nil, testSettings(), true)

	if c.Status != engine.StatusLate || !c.IsLate {
		t.Fatalf("expected LATE, got %s", c.Status)
	}
	if c.LateMinutes != 16 {
		t.Errorf("late minutes count from work start: expected 16, got %d", c.LateMinutes)
	}
}

func TestClassify_NoCheckInIsAbsent(t *testing.T) {
	day := date(2025, time.June, 2)
	c := engine.Classify(day, nil, nil, testSettings(), true)

	if c.Status != engine.StatusAbsent {
		t.Fatalf("expected ABSENT, got %s", c.Status)
	}
	if c.AbsentReason == "" {
		t.Error("an absence should carry a reason")
	}
}

func TestClassify_ApprovedLeaveOverridesAbsence(t *testing.T) {
	// GIVEN: An approved paid leave application covering the day
	// WHEN: No events exist
	// THEN: LEAVE, not ABSENT, and not flagged unpaid

	day := date(2025, time.June, 2)
	leaves := []engine.LeaveApplication{approvedLeave(engine.LeaveRegular, day, day, true)}

	c := engine.Classify(day, nil, leaves, testSettings(), true)

	if c.Status != engine.StatusLeave {
		t.Fatalf("expected LEAVE, got %s", c.Status)
	}
	if c.UnpaidLeave {
		t.Error("paid leave must not be flagged unpaid")
	}
}

func TestClassify_UnapprovedLeaveDoesNotOverride(t *testing.T) {
	// A pending application has no effect until approved.

	day := date(2025, time.June, 2)
	leave := approvedLeave(engine.LeaveRegular, day, day, true)
	leave.Approved = false

	c := engine.Classify(day, nil, []engine.LeaveApplication{leave}, testSettings(), true)

	if c.Status != engine.StatusAbsent {
		t.Errorf("unapproved leave should leave the day ABSENT, got %s", c.Status)
	}
}

func TestClassify_ApprovedUnpaidSickDay(t *testing.T) {
	day := date(2025, time.June, 2)
	leaves := []engine.LeaveApplication{approvedLeave(engine.LeaveSick, day, day, false)}

	c := engine.Classify(day, nil, leaves, testSettings(), true)

	if c.Status != engine.StatusSick {
		t.Fatalf("expected SICK, got %s", c.Status)
	}
	if !c.UnpaidLeave {
		t.Error("unpaid sick day should be flagged unpaid")
	}
}

func TestClassify_NonWorkingDayIsNeutral(t *testing.T) {
	// GIVEN: A Saturday
	// WHEN: No events exist
	// THEN: Unmarked, never ABSENT

	day := date(2025, time.June, 7)
	c := engine.Classify(day, nil, nil, testSettings(), false)

	if c.Status != engine.StatusUnmarked {
		t.Errorf("non-working day without events should be unmarked, got %s", c.Status)
	}
}

func TestClassify_WeekendWorkStillReportsMinutes(t *testing.T) {
	// Worked minutes on a non-working day are informational only: no
	// status, no lateness.

	day := date(2025, time.June, 7)
	events := []engine.AttendanceEvent{checkInAt(day, 10, 0), checkOutAt(day, 14, 30)}

	c := engine.Classify(day, events, nil, testSettings(), false)

	if c.Status != engine.StatusUnmarked || c.IsLate {
		t.Errorf("weekend work must stay neutral, got status=%s late=%v", c.Status, c.IsLate)
	}
	if c.WorkedMinutes == nil || *c.WorkedMinutes != 270 {
		t.Errorf("expected 270 worked minutes, got %v", c.WorkedMinutes)
	}
}

func TestClassify_MultipleEventsUseFirstInLastOut(t *testing.T) {
	// GIVEN: Two check-in/out pairs across the day (e.g. a lunch break)
	// THEN: Lateness judges the first check-in; worked minutes span first
	//       in to last out

	day := date(2025, time.June, 2)
	events := []engine.AttendanceEvent{
		checkOutAt(day, 12, 0),
		checkInAt(day, 8, 50),
		checkOutAt(day, 18, 0),
		{ID: "in-2", CompanyID: "co-1", EmployeeID: "emp-1", At: at(day, 13, 0), Type: engine.EventCheckIn},
	}

	c := engine.Classify(day, events, nil, testSettings(), true)

	if c.IsLate {
		t.Error("first check-in at 08:50 is on time")
	}
	if c.WorkedMinutes == nil || *c.WorkedMinutes != 550 {
		t.Errorf("expected 550 minutes (08:50 to 18:00), got %v", c.WorkedMinutes)
	}
}
