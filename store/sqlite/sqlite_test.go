package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testEvent(id string, at time.Time) engine.AttendanceEvent {
	return engine.AttendanceEvent{
		ID:         id,
		CompanyID:  "co-1",
		EmployeeID: "emp-1",
		At:         at,
		Type:       engine.EventCheckIn,
		RecordedBy: "emp-1",
		RecordedAt: at,
	}
}

// =============================================================================
// EVENT LOG
// =============================================================================

func TestSQLite_AppendAndReadEvents(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	base := time.Date(2025, time.June, 2, 8, 55, 0, 0, time.UTC)

	loc := &engine.GeoPoint{Latitude: -6.2, Longitude: 106.8, AccuracyMeters: 12}
	in := testEvent("e1", base)
	in.Location = loc
	require.NoError(t, store.AppendEvent(ctx, in))

	out := testEvent("e2", base.Add(9*time.Hour))
	out.Type = engine.EventCheckOut
	require.NoError(t, store.AppendEvent(ctx, out))

	events, err := store.EventsInRange(ctx, "co-1", "emp-1", base.Add(-time.Hour), base.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "e1", events[0].ID)
	assert.Equal(t, engine.EventCheckIn, events[0].Type)
	assert.True(t, events[0].At.Equal(base))
	require.NotNil(t, events[0].Location)
	assert.InDelta(t, -6.2, events[0].Location.Latitude, 1e-9)

	assert.Equal(t, "e2", events[1].ID)
	assert.Nil(t, events[1].Location)
}

func TestSQLite_DuplicateEventRejected(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	at := time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.AppendEvent(ctx, testEvent("e1", at)))
	err := store.AppendEvent(ctx, testEvent("e1", at.Add(time.Minute)))
	assert.ErrorIs(t, err, engine.ErrDuplicateEvent)
}

func TestSQLite_RangeIsHalfOpen(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	base := time.Date(2025, time.June, 2, 8, 0, 0, 0, time.UTC)

	require.NoError(t, store.AppendEvent(ctx, testEvent("e1", base)))
	require.NoError(t, store.AppendEvent(ctx, testEvent("e2", base.Add(time.Hour))))

	events, err := store.EventsInRange(ctx, "co-1", "emp-1", base, base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "e1", events[0].ID)
}

func TestSQLite_FractionalSecondsOrderAndFilter(t *testing.T) {
	// Timestamps are compared as strings in SQL, so fractional seconds
	// must not change a value's width. An event half a second into the
	// window has to stay inside it and sort after the whole-second one.
	ctx := context.Background()
	store := newTestStore(t)
	base := time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.AppendEvent(ctx, testEvent("e-half", base.Add(500*time.Millisecond))))
	require.NoError(t, store.AppendEvent(ctx, testEvent("e-whole", base)))

	events, err := store.EventsInRange(ctx, "co-1", "emp-1", base, base.Add(time.Second))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "e-whole", events[0].ID)
	assert.Equal(t, "e-half", events[1].ID)
	assert.True(t, events[1].At.Equal(base.Add(500*time.Millisecond)))
}

func TestSQLite_SoftDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	at := time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.AppendEvent(ctx, testEvent("e1", at)))
	require.NoError(t, store.SoftDeleteEvent(ctx, "e1", "admin-1"))

	events, err := store.EventsInRange(ctx, "co-1", "emp-1", at.Add(-time.Hour), at.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, events, "soft-deleted events must not be read back")

	// The ID stays claimed: the log is append-only, not reusable.
	err = store.AppendEvent(ctx, testEvent("e1", at))
	assert.ErrorIs(t, err, engine.ErrDuplicateEvent)

	assert.True(t, engine.IsNotFound(store.SoftDeleteEvent(ctx, "missing", "admin-1")))
}

// =============================================================================
// SETTINGS
// =============================================================================

func TestSQLite_SettingsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.GetSettings(ctx, "co-1")
	assert.ErrorIs(t, err, engine.ErrMissingConfiguration)

	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	var ww engine.Workweek
	for d := time.Monday; d <= time.Saturday; d++ {
		ww[d] = true
	}
	want := engine.AttendanceSettings{
		CompanyID:          "co-1",
		WorkStart:          engine.NewClockTime(8, 30),
		ToleranceMinutes:   10,
		OpenTime:           engine.NewClockTime(6, 0),
		CloseTime:          engine.NewClockTime(21, 0),
		MinimumHoursPerDay: 7,
		Geofence: engine.Geofence{
			Enabled:      true,
			Center:       engine.GeoPoint{Latitude: -6.2, Longitude: 106.8},
			RadiusMeters: 150,
		},
		PayrollDayOfMonth: 28,
		Workweek:          ww,
		Location:          jakarta,
	}
	require.NoError(t, store.SaveSettings(ctx, want))

	got, err := store.GetSettings(ctx, "co-1")
	require.NoError(t, err)
	assert.Equal(t, want.WorkStart, got.WorkStart)
	assert.Equal(t, want.ToleranceMinutes, got.ToleranceMinutes)
	assert.Equal(t, want.Geofence, got.Geofence)
	assert.Equal(t, want.Workweek, got.Workweek)
	require.NotNil(t, got.Location)
	assert.Equal(t, "Asia/Jakarta", got.Location.String())

	// Latest value wins.
	want.ToleranceMinutes = 20
	require.NoError(t, store.SaveSettings(ctx, want))
	got, err = store.GetSettings(ctx, "co-1")
	require.NoError(t, err)
	assert.Equal(t, 20, got.ToleranceMinutes)
}

// =============================================================================
// RULES
// =============================================================================

func TestSQLite_RulesRoundTripInDefinitionOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	capMinutes := 60

	allowances := []engine.AllowanceRule{
		{ID: "a1", Name: "Transport", Rate: engine.FixedAmount{Amount: 500_000}, Active: true},
		{ID: "a2", Name: "Seniority", Rate: engine.PercentOfBase{Percent: decimal.NewFromFloat(7.5)}, Active: true},
	}
	for _, r := range allowances {
		require.NoError(t, store.SaveAllowanceRule(ctx, r, "co-1"))
	}

	deductions := []engine.DeductionRule{
		{ID: "d1", Name: "Lateness", Type: engine.DeductLate,
			Rate: engine.PerMinute{Rate: 5_000, MaxMinutes: &capMinutes}, Active: true},
		{ID: "d2", Name: "Absence", Type: engine.DeductAbsent,
			Rate: engine.PercentOfBase{Percent: decimal.NewFromInt(2)}, Active: false},
	}
	for _, r := range deductions {
		require.NoError(t, store.SaveDeductionRule(ctx, r, "co-1"))
	}

	gotAllow, err := store.ListAllowanceRules(ctx, "co-1")
	require.NoError(t, err)
	require.Len(t, gotAllow, 2)
	assert.Equal(t, "a1", gotAllow[0].ID)
	pctRate, ok := gotAllow[1].Rate.(engine.PercentOfBase)
	require.True(t, ok)
	assert.True(t, pctRate.Percent.Equal(decimal.NewFromFloat(7.5)),
		"percent must survive the round trip exactly, got %s", pctRate.Percent)

	gotDeduct, err := store.ListDeductionRules(ctx, "co-1")
	require.NoError(t, err)
	require.Len(t, gotDeduct, 2)
	perMin, ok := gotDeduct[0].Rate.(engine.PerMinute)
	require.True(t, ok)
	assert.Equal(t, engine.Money(5_000), perMin.Rate)
	require.NotNil(t, perMin.MaxMinutes)
	assert.Equal(t, 60, *perMin.MaxMinutes)
	assert.False(t, gotDeduct[1].Active)
}

func TestSQLite_RuleUpdateKeepsPosition(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, id := range []string{"a1", "a2", "a3"} {
		rule := engine.AllowanceRule{ID: id, Name: id, Rate: engine.FixedAmount{Amount: 1000}, Active: true}
		require.NoError(t, store.SaveAllowanceRule(ctx, rule, "co-1"))
	}
	updated := engine.AllowanceRule{ID: "a2", Name: "a2", Rate: engine.FixedAmount{Amount: 9999}, Active: true}
	require.NoError(t, store.SaveAllowanceRule(ctx, updated, "co-1"))

	rules, err := store.ListAllowanceRules(ctx, "co-1")
	require.NoError(t, err)
	require.Len(t, rules, 3)
	assert.Equal(t, "a2", rules[1].ID, "an update must not move the rule to the end")
	assert.Equal(t, engine.FixedAmount{Amount: 9999}, rules[1].Rate)
}

func TestSQLite_InvalidRuleRejected(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	bad := engine.AllowanceRule{ID: "a1", Name: "Bad", Rate: engine.PerMinute{Rate: 100}, Active: true}
	err := store.SaveAllowanceRule(ctx, bad, "co-1")
	assert.ErrorIs(t, err, engine.ErrInvalidRuleConfiguration)
}

func TestSQLite_DeleteRule(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	rule := engine.AllowanceRule{ID: "a1", Name: "Transport", Rate: engine.FixedAmount{Amount: 1000}, Active: true}
	require.NoError(t, store.SaveAllowanceRule(ctx, rule, "co-1"))
	require.NoError(t, store.DeleteRule(ctx, "a1"))

	rules, err := store.ListAllowanceRules(ctx, "co-1")
	require.NoError(t, err)
	assert.Empty(t, rules)

	assert.True(t, engine.IsNotFound(store.DeleteRule(ctx, "a1")))
}

// =============================================================================
// HOLIDAYS, LEAVES, EMPLOYEES
// =============================================================================

func TestSQLite_HolidayRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	h := engine.Holiday{
		ID:          "h1",
		CompanyID:   "co-1",
		Start:       engine.NewDate(2025, time.August, 17),
		End:         engine.NewDate(2025, time.August, 18),
		Description: "Independence Day",
	}
	require.NoError(t, store.SaveHoliday(ctx, h))

	holidays, err := store.ListHolidays(ctx, "co-1")
	require.NoError(t, err)
	require.Len(t, holidays, 1)
	assert.Equal(t, h, holidays[0])

	require.NoError(t, store.DeleteHoliday(ctx, "h1"))
	holidays, err = store.ListHolidays(ctx, "co-1")
	require.NoError(t, err)
	assert.Empty(t, holidays)
}

func TestSQLite_LeaveApplicationLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	leave := engine.LeaveApplication{
		ID:         "l1",
		CompanyID:  "co-1",
		EmployeeID: "emp-1",
		Kind:       engine.LeaveSick,
		Start:      engine.NewDate(2025, time.June, 4),
		End:        engine.NewDate(2025, time.June, 5),
		Paid:       false,
		Reason:     "Flu",
	}
	require.NoError(t, store.SaveLeaveApplication(ctx, leave))
	require.NoError(t, store.ApproveLeaveApplication(ctx, "l1"))

	leaves, err := store.ListLeaveApplications(ctx, "co-1", "emp-1")
	require.NoError(t, err)
	require.Len(t, leaves, 1)
	assert.True(t, leaves[0].Approved)
	assert.Equal(t, engine.LeaveSick, leaves[0].Kind)
	assert.Equal(t, "Flu", leaves[0].Reason)

	// Unfiltered listing sees the same application.
	all, err := store.ListLeaveApplications(ctx, "co-1", "")
	require.NoError(t, err)
	assert.Len(t, all, 1)

	assert.True(t, engine.IsNotFound(store.ApproveLeaveApplication(ctx, "missing")))
}

func TestSQLite_EmployeeRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	e := engine.Employee{
		ID:         "emp-1",
		CompanyID:  "co-1",
		Name:       "Adi Nugroho",
		Email:      "adi@example.com",
		BaseSalary: 5_000_000,
		HireDate:   engine.NewDate(2024, time.January, 15),
	}
	require.NoError(t, store.SaveEmployee(ctx, e))

	got, err := store.GetEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, e, got)

	_, err = store.GetEmployee(ctx, "missing")
	assert.True(t, engine.IsNotFound(err))

	list, err := store.ListEmployees(ctx, "co-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
