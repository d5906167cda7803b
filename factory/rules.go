/*
Package factory provides JSON to Go configuration conversion.

PURPOSE:
  Converts JSON rule and settings documents into engine types. This
  enables configuration without code changes - HR admins define
  allowance/deduction rules and attendance settings as JSON, and the
  factory creates validated engine structs.

WHY JSON?
  - Non-developers can modify payroll rules
  - Easy integration with admin UI
  - Version control for rule definitions
  - Database/API transport of configurations

JSON SCHEMA (deduction rule):
  {
    "id": "late-per-minute",
    "name": "Late arrival deduction",
    "deduction_type": "LATE",
    "mode": "per_minute",
    "per_minute_rate": 5000,
    "max_minutes": 60,
    "active": true
  }

  Amount modes: "percent" (percent), "fixed" (fixed_amount, minor
  units), "per_minute" (per_minute_rate + optional max_minutes; LATE
  deductions only).

VALIDATION:
  The factory rejects documents whose fields contradict the declared
  mode, then runs the engine's own Validate, so every rule that leaves
  this package is evaluable. Errors unwrap to
  engine.ErrInvalidRuleConfiguration.

SEE ALSO:
  - engine/rules.go: RateSpec variants and rule validation
  - engine/settings.go: AttendanceSettings
*/
package factory

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/engine"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// AllowanceRuleJSON is the wire representation of an allowance rule.
type AllowanceRuleJSON struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Mode        string   `json:"mode"`
	Percent     *float64 `json:"percent,omitempty"`
	FixedAmount *int64   `json:"fixed_amount,omitempty"`
	Active      *bool    `json:"active,omitempty"` // default true
}

// DeductionRuleJSON is the wire representation of a deduction rule.
type DeductionRuleJSON struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	DeductionType string   `json:"deduction_type"`
	Mode          string   `json:"mode"`
	Percent       *float64 `json:"percent,omitempty"`
	FixedAmount   *int64   `json:"fixed_amount,omitempty"`
	PerMinuteRate *int64   `json:"per_minute_rate,omitempty"`
	MaxMinutes    *int     `json:"max_minutes,omitempty"`
	Active        *bool    `json:"active,omitempty"`
}

// SettingsJSON is the wire representation of attendance settings.
type SettingsJSON struct {
	CompanyID          string       `json:"company_id"`
	WorkStart          string       `json:"work_start"`
	ToleranceMinutes   int          `json:"tolerance_minutes"`
	OpenTime           string       `json:"open_time"`
	CloseTime          string       `json:"close_time"`
	MinimumHoursPerDay int          `json:"minimum_hours_per_day"`
	Geofence           GeofenceJSON `json:"geofence"`
	PayrollDayOfMonth  int          `json:"payroll_day_of_month"`
	Workweek           []string     `json:"workweek,omitempty"` // e.g. ["Mon",...,"Fri"]; default Mon-Fri
	Timezone           string       `json:"timezone,omitempty"` // IANA name; default UTC
}

type GeofenceJSON struct {
	Enabled      bool    `json:"enabled"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
}

// =============================================================================
// RULE CONVERSION
// =============================================================================

// ParseAllowanceRule converts a JSON document into a validated rule.
func ParseAllowanceRule(data []byte) (engine.AllowanceRule, error) {
	var doc AllowanceRuleJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return engine.AllowanceRule{}, fmt.Errorf("failed to parse allowance rule: %w", err)
	}
	return AllowanceRuleFromJSON(doc)
}

// AllowanceRuleFromJSON converts an already-decoded document.
func AllowanceRuleFromJSON(doc AllowanceRuleJSON) (engine.AllowanceRule, error) {
	rate, err := rateFromDoc(doc.Name, doc.Mode, doc.Percent, doc.FixedAmount, nil, nil)
	if err != nil {
		return engine.AllowanceRule{}, err
	}
	rule := engine.AllowanceRule{
		ID:     doc.ID,
		Name:   doc.Name,
		Rate:   rate,
		Active: doc.Active == nil || *doc.Active,
	}
	if err := rule.Validate(); err != nil {
		return engine.AllowanceRule{}, err
	}
	return rule, nil
}

// ParseDeductionRule converts a JSON document into a validated rule.
func ParseDeductionRule(data []byte) (engine.DeductionRule, error) {
	var doc DeductionRuleJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return engine.DeductionRule{}, fmt.Errorf("failed to parse deduction rule: %w", err)
	}
	return DeductionRuleFromJSON(doc)
}

// DeductionRuleFromJSON converts an already-decoded document.
func DeductionRuleFromJSON(doc DeductionRuleJSON) (engine.DeductionRule, error) {
	rate, err := rateFromDoc(doc.Name, doc.Mode, doc.Percent, doc.FixedAmount, doc.PerMinuteRate, doc.MaxMinutes)
	if err != nil {
		return engine.DeductionRule{}, err
	}
	rule := engine.DeductionRule{
		ID:     doc.ID,
		Name:   doc.Name,
		Type:   engine.DeductionType(doc.DeductionType),
		Rate:   rate,
		Active: doc.Active == nil || *doc.Active,
	}
	if err := rule.Validate(); err != nil {
		return engine.DeductionRule{}, err
	}
	return rule, nil
}

// rateFromDoc builds the tagged variant from the declared mode and
// rejects documents whose fields contradict it.
func rateFromDoc(name, mode string, percent *float64, fixed, perMinuteRate *int64, maxMinutes *int) (engine.RateSpec, error) {
	switch mode {
	case "percent":
		if percent == nil {
			return nil, &engine.InvalidRuleConfigurationError{RuleName: name, Reason: "mode percent requires percent"}
		}
		if fixed != nil || perMinuteRate != nil {
			return nil, &engine.InvalidRuleConfigurationError{RuleName: name, Reason: "mode percent excludes fixed_amount and per_minute_rate"}
		}
		return engine.PercentOfBase{Percent: decimal.NewFromFloat(*percent)}, nil

	case "fixed":
		if fixed == nil {
			return nil, &engine.InvalidRuleConfigurationError{RuleName: name, Reason: "mode fixed requires fixed_amount"}
		}
		if percent != nil || perMinuteRate != nil {
			return nil, &engine.InvalidRuleConfigurationError{RuleName: name, Reason: "mode fixed excludes percent and per_minute_rate"}
		}
		return engine.FixedAmount{Amount: engine.Money(*fixed)}, nil

	case "per_minute":
		if perMinuteRate == nil {
			return nil, &engine.InvalidRuleConfigurationError{RuleName: name, Reason: "mode per_minute requires per_minute_rate"}
		}
		if percent != nil || fixed != nil {
			return nil, &engine.InvalidRuleConfigurationError{RuleName: name, Reason: "mode per_minute excludes percent and fixed_amount"}
		}
		return engine.PerMinute{Rate: engine.Money(*perMinuteRate), MaxMinutes: maxMinutes}, nil
	}
	return nil, &engine.InvalidRuleConfigurationError{RuleName: name, Reason: fmt.Sprintf("unknown mode %q", mode)}
}

// =============================================================================
// RULE SERIALIZATION - engine -> JSON (API responses, exports)
// =============================================================================

func AllowanceRuleToJSON(r engine.AllowanceRule) AllowanceRuleJSON {
	doc := AllowanceRuleJSON{ID: r.ID, Name: r.Name, Active: boolPtr(r.Active)}
	doc.Mode, doc.Percent, doc.FixedAmount, _, _ = rateToDoc(r.Rate)
	return doc
}

func DeductionRuleToJSON(r engine.DeductionRule) DeductionRuleJSON {
	doc := DeductionRuleJSON{ID: r.ID, Name: r.Name, DeductionType: string(r.Type), Active: boolPtr(r.Active)}
	doc.Mode, doc.Percent, doc.FixedAmount, doc.PerMinuteRate, doc.MaxMinutes = rateToDoc(r.Rate)
	return doc
}

func rateToDoc(rate engine.RateSpec) (mode string, percent *float64, fixed, perMinuteRate *int64, maxMinutes *int) {
	switch spec := rate.(type) {
	case engine.PercentOfBase:
		pct, _ := spec.Percent.Float64()
		return spec.Mode(), &pct, nil, nil, nil
	case engine.FixedAmount:
		amount := int64(spec.Amount)
		return spec.Mode(), nil, &amount, nil, nil
	case engine.PerMinute:
		rateVal := int64(spec.Rate)
		return spec.Mode(), nil, nil, &rateVal, spec.MaxMinutes
	}
	return "", nil, nil, nil, nil
}

func boolPtr(b bool) *bool { return &b }

// =============================================================================
// SETTINGS CONVERSION
// =============================================================================

var weekdayNames = map[string]time.Weekday{
	"Sun": time.Sunday, "Mon": time.Monday, "Tue": time.Tuesday, "Wed": time.Wednesday,
	"Thu": time.Thursday, "Fri": time.Friday, "Sat": time.Saturday,
}

// ParseSettings converts a JSON document into validated settings.
func ParseSettings(data []byte) (engine.AttendanceSettings, error) {
	var doc SettingsJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return engine.AttendanceSettings{}, fmt.Errorf("failed to parse settings: %w", err)
	}
	return SettingsFromJSON(doc)
}

// SettingsFromJSON converts an already-decoded document.
func SettingsFromJSON(doc SettingsJSON) (engine.AttendanceSettings, error) {
	settings := engine.AttendanceSettings{
		CompanyID:          engine.CompanyID(doc.CompanyID),
		ToleranceMinutes:   doc.ToleranceMinutes,
		MinimumHoursPerDay: doc.MinimumHoursPerDay,
		PayrollDayOfMonth:  doc.PayrollDayOfMonth,
		Geofence: engine.Geofence{
			Enabled: doc.Geofence.Enabled,
			Center: engine.GeoPoint{
				Latitude:  doc.Geofence.Latitude,
				Longitude: doc.Geofence.Longitude,
			},
			RadiusMeters: doc.Geofence.RadiusMeters,
		},
	}

	var err error
	if settings.WorkStart, err = engine.ParseClockTime(doc.WorkStart); err != nil {
		return engine.AttendanceSettings{}, err
	}
	if settings.OpenTime, err = engine.ParseClockTime(doc.OpenTime); err != nil {
		return engine.AttendanceSettings{}, err
	}
	if settings.CloseTime, err = engine.ParseClockTime(doc.CloseTime); err != nil {
		return engine.AttendanceSettings{}, err
	}

	if len(doc.Workweek) == 0 {
		settings.Workweek = engine.DefaultWorkweek()
	} else {
		for _, name := range doc.Workweek {
			day, ok := weekdayNames[name]
			if !ok {
				return engine.AttendanceSettings{}, fmt.Errorf("unknown weekday %q", name)
			}
			settings.Workweek[day] = true
		}
	}

	if doc.Timezone != "" {
		loc, err := time.LoadLocation(doc.Timezone)
		if err != nil {
			return engine.AttendanceSettings{}, fmt.Errorf("unknown timezone %q: %w", doc.Timezone, err)
		}
		settings.Location = loc
	}

	if err := settings.Validate(); err != nil {
		return engine.AttendanceSettings{}, err
	}
	return settings, nil
}

// SettingsToJSON renders settings back into the wire shape.
func SettingsToJSON(s engine.AttendanceSettings) SettingsJSON {
	doc := SettingsJSON{
		CompanyID:          string(s.CompanyID),
		WorkStart:          s.WorkStart.String(),
		ToleranceMinutes:   s.ToleranceMinutes,
		OpenTime:           s.OpenTime.String(),
		CloseTime:          s.CloseTime.String(),
		MinimumHoursPerDay: s.MinimumHoursPerDay,
		PayrollDayOfMonth:  s.PayrollDayOfMonth,
		Geofence: GeofenceJSON{
			Enabled:      s.Geofence.Enabled,
			Latitude:     s.Geofence.Center.Latitude,
			Longitude:    s.Geofence.Center.Longitude,
			RadiusMeters: s.Geofence.RadiusMeters,
		},
		Timezone: "UTC",
	}
	if s.Location != nil {
		doc.Timezone = s.Location.String()
	}
	names := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	for i, working := range s.Workweek {
		if working {
			doc.Workweek = append(doc.Workweek, names[i])
		}
	}
	return doc
}
