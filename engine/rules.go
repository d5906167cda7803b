/*
rules.go - Allowance and deduction rule evaluation

PURPOSE:
  Evaluates configurable allowance and deduction rules against a period's
  attendance rollup. Rules silently producing wrong paychecks is the
  failure mode this file exists to prevent: every amount mode is a
  distinct type, validation happens at configuration time, and evaluation
  is a pure fold over the rule list.

AMOUNT MODES (tagged variants, not optional fields):
  PercentOfBase: base_salary * percent / 100
  FixedAmount:   a flat amount in minor units
  PerMinute:     rate per late-minute, optionally capped at MaxMinutes.
                 The cap bounds the MINUTES charged, never the resulting
                 amount directly.

DEDUCTION TYPES:
  LATE:   per-minute mode bills capped late-minutes; flat modes apply
          once if any lateness occurred in the period.
  ABSENT: per-unit amount multiplied by absent days.
  LEAVE / SICK: per-unit amount multiplied by the unpaid leave/sick day
          counts the classifier produced.

VALIDATION:
  Malformed rules (nil rate, negative values, per-minute on a non-LATE
  rule) are rejected with InvalidRuleConfigurationError at validation
  time. Evaluation assumes validated rules and never coerces.

SEE ALSO:
  - payroll.go: Feeds the rollup in and folds results into the summary
  - factory/: JSON -> rule conversion, which calls Validate
*/
package engine

import "github.com/shopspring/decimal"

// =============================================================================
// RATE SPEC - Tagged variant for rule amount modes
// =============================================================================

// RateSpec is the amount mode of a rule. Exactly one concrete variant per
// rule; the type system carries the "exactly one of" invariant the data
// model would otherwise need a runtime check for.
type RateSpec interface {
	// Mode returns the stable mode tag used in configuration documents.
	Mode() string
}

// PercentOfBase pays/charges a percentage of base salary.
type PercentOfBase struct {
	Percent decimal.Decimal
}

func (PercentOfBase) Mode() string { return "percent" }

// FixedAmount pays/charges a flat amount in minor units.
type FixedAmount struct {
	Amount Money
}

func (FixedAmount) Mode() string { return "fixed" }

// PerMinute charges Rate per late-minute. MaxMinutes, when set, caps the
// minutes charged (not the amount). Only valid on LATE deduction rules.
type PerMinute struct {
	Rate       Money
	MaxMinutes *int
}

func (PerMinute) Mode() string { return "per_minute" }

// =============================================================================
// RULES
// =============================================================================

type AllowanceRule struct {
	ID     string
	Name   string
	Rate   RateSpec
	Active bool
}

type DeductionType string

const (
	DeductLate   DeductionType = "LATE"
	DeductAbsent DeductionType = "ABSENT"
	DeductLeave  DeductionType = "LEAVE"
	DeductSick   DeductionType = "SICK"
)

type DeductionRule struct {
	ID     string
	Name   string
	Type   DeductionType
	Rate   RateSpec
	Active bool
}

// =============================================================================
// VALIDATION - Configuration errors are rejected here, never at evaluation
// =============================================================================

func (r AllowanceRule) Validate() error {
	return validateRate(r.Name, r.Rate, false)
}

func (r DeductionRule) Validate() error {
	switch r.Type {
	case DeductLate, DeductAbsent, DeductLeave, DeductSick:
	default:
		return &InvalidRuleConfigurationError{RuleName: r.Name, Reason: "unknown deduction type"}
	}
	return validateRate(r.Name, r.Rate, r.Type == DeductLate)
}

func validateRate(name string, rate RateSpec, perMinuteAllowed bool) error {
	switch spec := rate.(type) {
	case nil:
		return &InvalidRuleConfigurationError{RuleName: name, Reason: "no amount mode set"}
	case PercentOfBase:
		if spec.Percent.IsNegative() {
			return &InvalidRuleConfigurationError{RuleName: name, Reason: "negative percentage"}
		}
	case FixedAmount:
		if spec.Amount.IsNegative() {
			return &InvalidRuleConfigurationError{RuleName: name, Reason: "negative fixed amount"}
		}
	case PerMinute:
		if !perMinuteAllowed {
			return &InvalidRuleConfigurationError{RuleName: name, Reason: "per-minute mode is only valid for LATE deductions"}
		}
		if spec.Rate.IsNegative() {
			return &InvalidRuleConfigurationError{RuleName: name, Reason: "negative per-minute rate"}
		}
		if spec.MaxMinutes != nil && *spec.MaxMinutes < 0 {
			return &InvalidRuleConfigurationError{RuleName: name, Reason: "negative minute cap"}
		}
	default:
		return &InvalidRuleConfigurationError{RuleName: name, Reason: "unknown amount mode"}
	}
	return nil
}

// ValidateRules validates a full configuration in one pass.
func ValidateRules(allowances []AllowanceRule, deductions []DeductionRule) error {
	for _, r := range allowances {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	for _, r := range deductions {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// EVALUATION
// =============================================================================

// RuleResult is the outcome of evaluating one rule family: a non-negative
// total and line items in rule definition order. Duplicate rule names are
// legal and produce separate line items.
type RuleResult struct {
	Total Money
	Items []PayrollLineItem
}

// EvaluateAllowances evaluates active allowance rules against base salary.
func EvaluateAllowances(baseSalary Money, rules []AllowanceRule) RuleResult {
	var result RuleResult
	for _, r := range rules {
		if !r.Active {
			continue
		}
		var amount Money
		switch spec := r.Rate.(type) {
		case PercentOfBase:
			amount = PercentOf(baseSalary, spec.Percent)
		case FixedAmount:
			amount = spec.Amount
		default:
			continue // unreachable for validated rules
		}
		result.Total += amount
		result.Items = append(result.Items, PayrollLineItem{
			Description: r.Name,
			Type:        LineAllowance,
			Amount:      amount,
		})
	}
	return result
}

// EvaluateDeductions evaluates active deduction rules against the period's
// attendance rollup. Deduction amounts are positive magnitudes; the
// aggregator subtracts them.
func EvaluateDeductions(baseSalary Money, rollup AttendanceRollup, rules []DeductionRule) RuleResult {
	var result RuleResult
	for _, r := range rules {
		if !r.Active {
			continue
		}
		amount := deductionAmount(baseSalary, rollup, r)
		if amount == 0 {
			continue
		}
		result.Total += amount
		result.Items = append(result.Items, PayrollLineItem{
			Description: r.Name,
			Type:        LineDeduction,
			Amount:      amount,
		})
	}
	return result
}

func deductionAmount(baseSalary Money, rollup AttendanceRollup, r DeductionRule) Money {
	switch r.Type {
	case DeductLate:
		return lateAmount(baseSalary, rollup.TotalLateMinutes, r.Rate)
	case DeductAbsent:
		return Money(rollup.AbsentDays) * perUnitAmount(baseSalary, r.Rate)
	case DeductLeave:
		return Money(rollup.UnpaidLeaveDays) * perUnitAmount(baseSalary, r.Rate)
	case DeductSick:
		return Money(rollup.UnpaidSickDays) * perUnitAmount(baseSalary, r.Rate)
	}
	return 0
}

// lateAmount bills lateness. Per-minute mode charges capped minutes; flat
// modes apply once if any lateness occurred.
func lateAmount(baseSalary Money, lateMinutes int, rate RateSpec) Money {
	if lateMinutes <= 0 {
		return 0
	}
	switch spec := rate.(type) {
	case PerMinute:
		charged := lateMinutes
		if spec.MaxMinutes != nil && charged > *spec.MaxMinutes {
			charged = *spec.MaxMinutes
		}
		return Money(charged) * spec.Rate
	default:
		return perUnitAmount(baseSalary, rate)
	}
}

func perUnitAmount(baseSalary Money, rate RateSpec) Money {
	switch spec := rate.(type) {
	case PercentOfBase:
		return PercentOf(baseSalary, spec.Percent)
	case FixedAmount:
		return spec.Amount
	}
	return 0
}
