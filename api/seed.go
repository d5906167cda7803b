/*
seed.go - Demo data loader

PURPOSE:
  Populates the store with a small demo company so the API is explorable
  without manual setup: settings, holidays, rules, employees, a leave
  application, and two weeks of attendance events.

DETERMINISM:
  Seeded IDs are fixed strings derived from the entity, so reseeding is
  safe: duplicate events are skipped, everything else upserts.

SEE ALSO:
  - handlers.go: POST /api/scenarios/seed
*/
package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/engine"
)

// SeedResult reports what the demo loader created.
type SeedResult struct {
	CompanyID string   `json:"company_id"`
	Employees []string `json:"employees"`
	Events    int      `json:"events"`
}

const demoCompany = engine.CompanyID("demo-co")

// Seed loads the demo company as of now.
func Seed(ctx context.Context, store engine.Store, now time.Time) (SeedResult, error) {
	loc, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		loc = time.UTC
	}

	settings := engine.AttendanceSettings{
		CompanyID:          demoCompany,
		WorkStart:          engine.NewClockTime(9, 0),
		ToleranceMinutes:   15,
		OpenTime:           engine.NewClockTime(7, 0),
		CloseTime:          engine.NewClockTime(20, 0),
		MinimumHoursPerDay: 8,
		PayrollDayOfMonth:  25,
		Workweek:           engine.DefaultWorkweek(),
		Location:           loc,
	}
	if err := store.SaveSettings(ctx, settings); err != nil {
		return SeedResult{}, err
	}

	today := engine.DateOf(now, loc)
	holiday := engine.Holiday{
		ID:          "seed-independence-day",
		CompanyID:   demoCompany,
		Start:       engine.NewDate(today.Year, time.August, 17),
		End:         engine.NewDate(today.Year, time.August, 17),
		Description: "Independence Day",
	}
	if err := store.SaveHoliday(ctx, holiday); err != nil {
		return SeedResult{}, err
	}

	if err := seedRules(ctx, store); err != nil {
		return SeedResult{}, err
	}

	employees := []engine.Employee{
		{
			ID:         "emp-adi",
			CompanyID:  demoCompany,
			Name:       "Adi Nugroho",
			Email:      "adi@demo.example",
			BaseSalary: 5_000_000,
			HireDate:   today.AddMonths(-18),
		},
		{
			ID:         "emp-bella",
			CompanyID:  demoCompany,
			Name:       "Bella Hartono",
			Email:      "bella@demo.example",
			BaseSalary: 7_500_000,
			HireDate:   today.AddMonths(-30),
		},
	}
	names := make([]string, 0, len(employees))
	for _, e := range employees {
		if err := store.SaveEmployee(ctx, e); err != nil {
			return SeedResult{}, err
		}
		names = append(names, string(e.ID))
	}

	leave := engine.LeaveApplication{
		ID:         "seed-leave-bella",
		CompanyID:  demoCompany,
		EmployeeID: "emp-bella",
		Kind:       engine.LeaveRegular,
		Start:      today.AddDays(-3),
		End:        today.AddDays(-3),
		Approved:   true,
		Paid:       true,
		Reason:     "Family event",
	}
	if err := store.SaveLeaveApplication(ctx, leave); err != nil {
		return SeedResult{}, err
	}

	events := 0
	calendar := engine.NewCalendar(settings.Workweek, []engine.Holiday{holiday})
	for _, e := range employees {
		n, err := seedEvents(ctx, store, e, settings, calendar, today, loc)
		if err != nil {
			return SeedResult{}, err
		}
		events += n
	}

	return SeedResult{CompanyID: string(demoCompany), Employees: names, Events: events}, nil
}

func seedRules(ctx context.Context, store engine.Store) error {
	capMinutes := 60
	allowances := []engine.AllowanceRule{
		{ID: "seed-allow-transport", Name: "Transport", Rate: engine.FixedAmount{Amount: 500_000}, Active: true},
		{ID: "seed-allow-meal", Name: "Meals", Rate: engine.FixedAmount{Amount: 300_000}, Active: true},
	}
	deductions := []engine.DeductionRule{
		{
			ID: "seed-deduct-late", Name: "Lateness", Type: engine.DeductLate,
			Rate: engine.PerMinute{Rate: 5_000, MaxMinutes: &capMinutes}, Active: true,
		},
		{
			ID: "seed-deduct-absent", Name: "Absence", Type: engine.DeductAbsent,
			Rate: engine.PercentOfBase{Percent: decimal.NewFromInt(2)}, Active: true,
		},
	}
	for _, rule := range allowances {
		if err := store.SaveAllowanceRule(ctx, rule, demoCompany); err != nil {
			return err
		}
	}
	for _, rule := range deductions {
		if err := store.SaveDeductionRule(ctx, rule, demoCompany); err != nil {
			return err
		}
	}
	return nil
}

// seedEvents writes two weeks of history: on time most days, late every
// fourth workday. Duplicate IDs from a prior seed run are skipped.
func seedEvents(ctx context.Context, store engine.Store, e engine.Employee, settings engine.AttendanceSettings, calendar engine.Calendar, today engine.Date, loc *time.Location) (int, error) {
	count := 0
	workdayIdx := 0
	for offset := 14; offset >= 1; offset-- {
		day := today.AddDays(-offset)
		if !calendar.IsWorkingDay(day) {
			continue
		}
		workdayIdx++

		inClock := settings.WorkStart.AddMinutes(-5)
		if workdayIdx%4 == 0 {
			inClock = settings.WorkStart.AddMinutes(settings.ToleranceMinutes + 25)
		}
		pair := []engine.AttendanceEvent{
			{
				ID:         fmt.Sprintf("seed-%s-%s-in", e.ID, day),
				CompanyID:  e.CompanyID,
				EmployeeID: e.ID,
				At:         day.At(inClock, loc),
				Type:       engine.EventCheckIn,
				RecordedBy: string(e.ID),
				RecordedAt: day.At(inClock, loc),
			},
			{
				ID:         fmt.Sprintf("seed-%s-%s-out", e.ID, day),
				CompanyID:  e.CompanyID,
				EmployeeID: e.ID,
				At:         day.At(engine.NewClockTime(18, 0), loc),
				Type:       engine.EventCheckOut,
				RecordedBy: string(e.ID),
				RecordedAt: day.At(engine.NewClockTime(18, 0), loc),
			},
		}
		for _, ev := range pair {
			err := store.AppendEvent(ctx, ev)
			if errors.Is(err, engine.ErrDuplicateEvent) {
				continue
			}
			if err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}
