package factory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/factory"
)

// =============================================================================
// RULE PARSING
// =============================================================================

func TestParseAllowanceRule_Percent(t *testing.T) {
	rule, err := factory.ParseAllowanceRule([]byte(`{
		"id": "a1",
		"name": "Seniority",
		"mode": "percent",
		"percent": 7.5
	}`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	rate, ok := rule.Rate.(engine.PercentOfBase)
	if !ok {
		t.Fatalf("expected PercentOfBase, got %T", rule.Rate)
	}
	if !rate.Percent.Equal(decimal.NewFromFloat(7.5)) {
		t.Errorf("expected 7.5, got %s", rate.Percent)
	}
	if !rule.Active {
		t.Error("active defaults to true when omitted")
	}
}

func TestParseDeductionRule_PerMinuteWithCap(t *testing.T) {
	rule, err := factory.ParseDeductionRule([]byte(`{
		"id": "d1",
		"name": "Lateness",
		"deduction_type": "LATE",
		"mode": "per_minute",
		"per_minute_rate": 5000,
		"max_minutes": 60
	}`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	rate, ok := rule.Rate.(engine.PerMinute)
	if !ok {
		t.Fatalf("expected PerMinute, got %T", rule.Rate)
	}
	if rate.Rate != 5000 || rate.MaxMinutes == nil || *rate.MaxMinutes != 60 {
		t.Errorf("rate mismatch: %+v", rate)
	}
}

func TestParseRule_ContradictoryFieldsRejected(t *testing.T) {
	// A document declaring one mode while carrying another mode's fields
	// is ambiguous and must be rejected, not silently resolved.

	docs := []string{
		`{"name": "X", "mode": "percent", "percent": 5, "fixed_amount": 1000}`,
		`{"name": "X", "mode": "fixed", "fixed_amount": 1000, "percent": 5}`,
		`{"name": "X", "mode": "percent"}`,
		`{"name": "X", "mode": "hourly", "percent": 5}`,
	}
	for _, doc := range docs {
		if _, err := factory.ParseAllowanceRule([]byte(doc)); !errors.Is(err, engine.ErrInvalidRuleConfiguration) {
			t.Errorf("document %s: expected ErrInvalidRuleConfiguration, got %v", doc, err)
		}
	}
}

func TestParseDeductionRule_PerMinuteOutsideLateRejected(t *testing.T) {
	_, err := factory.ParseDeductionRule([]byte(`{
		"name": "Absence",
		"deduction_type": "ABSENT",
		"mode": "per_minute",
		"per_minute_rate": 5000
	}`))
	if !errors.Is(err, engine.ErrInvalidRuleConfiguration) {
		t.Errorf("expected ErrInvalidRuleConfiguration, got %v", err)
	}
}

func TestRuleJSON_RoundTrip(t *testing.T) {
	capMinutes := 30
	original := engine.DeductionRule{
		ID:     "d1",
		Name:   "Lateness",
		Type:   engine.DeductLate,
		Rate:   engine.PerMinute{Rate: 2500, MaxMinutes: &capMinutes},
		Active: false,
	}

	doc := factory.DeductionRuleToJSON(original)
	restored, err := factory.DeductionRuleFromJSON(doc)
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if restored.ID != original.ID || restored.Type != original.Type || restored.Active {
		t.Errorf("round trip mismatch: %+v", restored)
	}
	rate := restored.Rate.(engine.PerMinute)
	if rate.Rate != 2500 || *rate.MaxMinutes != 30 {
		t.Errorf("rate mismatch after round trip: %+v", rate)
	}
}

// =============================================================================
// SETTINGS PARSING
// =============================================================================

func validSettingsDoc() factory.SettingsJSON {
	return factory.SettingsJSON{
		CompanyID:          "co-1",
		WorkStart:          "09:00",
		ToleranceMinutes:   15,
		OpenTime:           "07:00",
		CloseTime:          "20:00",
		MinimumHoursPerDay: 8,
		PayrollDayOfMonth:  25,
	}
}

func TestSettingsFromJSON_Defaults(t *testing.T) {
	// Omitted workweek means Monday-Friday; omitted timezone means UTC.

	settings, err := factory.SettingsFromJSON(validSettingsDoc())
	if err != nil {
		t.Fatalf("conversion failed: %v", err)
	}
	if settings.Workweek != engine.DefaultWorkweek() {
		t.Errorf("expected the default workweek, got %v", settings.Workweek)
	}
	if settings.Location != nil {
		t.Errorf("omitted timezone should leave Location nil (UTC), got %v", settings.Location)
	}
	if settings.WorkStart != engine.NewClockTime(9, 0) {
		t.Errorf("work start: expected 09:00, got %s", settings.WorkStart)
	}
}

func TestSettingsFromJSON_WorkweekAndTimezone(t *testing.T) {
	doc := validSettingsDoc()
	doc.Workweek = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	doc.Timezone = "Asia/Jakarta"

	settings, err := factory.SettingsFromJSON(doc)
	if err != nil {
		t.Fatalf("conversion failed: %v", err)
	}
	if !settings.Workweek.IsWorkday(time.Saturday) {
		t.Error("Saturday should be a workday")
	}
	if settings.Workweek.IsWorkday(time.Sunday) {
		t.Error("Sunday should not be a workday")
	}
	if settings.Location == nil || settings.Location.String() != "Asia/Jakarta" {
		t.Errorf("expected Asia/Jakarta, got %v", settings.Location)
	}
}

func TestSettingsFromJSON_Rejections(t *testing.T) {
	t.Run("unknown weekday", func(t *testing.T) {
		doc := validSettingsDoc()
		doc.Workweek = []string{"Monday"}
		if _, err := factory.SettingsFromJSON(doc); err == nil {
			t.Error("full weekday names are not the wire format; expected an error")
		}
	})

	t.Run("unknown timezone", func(t *testing.T) {
		doc := validSettingsDoc()
		doc.Timezone = "Mars/Olympus"
		if _, err := factory.SettingsFromJSON(doc); err == nil {
			t.Error("expected an error for an unknown timezone")
		}
	})

	t.Run("malformed clock time", func(t *testing.T) {
		doc := validSettingsDoc()
		doc.WorkStart = "9am"
		if _, err := factory.SettingsFromJSON(doc); err == nil {
			t.Error("expected an error for a malformed work_start")
		}
	})

	t.Run("geofence without radius", func(t *testing.T) {
		doc := validSettingsDoc()
		doc.Geofence = factory.GeofenceJSON{Enabled: true, Latitude: -6.2, Longitude: 106.8}
		if _, err := factory.SettingsFromJSON(doc); !errors.Is(err, engine.ErrInvalidGeofence) {
			t.Errorf("expected ErrInvalidGeofence, got %v", err)
		}
	})
}

func TestSettingsToJSON_RoundTrip(t *testing.T) {
	doc := validSettingsDoc()
	doc.Workweek = []string{"Mon", "Tue", "Wed", "Thu", "Fri"}
	doc.Timezone = "UTC"

	settings, err := factory.SettingsFromJSON(doc)
	if err != nil {
		t.Fatalf("conversion failed: %v", err)
	}
	back := factory.SettingsToJSON(settings)

	if back.WorkStart != "09:00" || back.CloseTime != "20:00" {
		t.Errorf("clock times mismatch: %+v", back)
	}
	if len(back.Workweek) != 5 {
		t.Errorf("expected 5 workweek entries, got %v", back.Workweek)
	}
}
