/*
errors.go - Centralized error types for the payroll engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Outer layers (api, factory, store) wrap these with additional context.

ERROR CATEGORIES:
  1. Configuration errors - Invalid rules or settings, rejected at
     validation time, never silently coerced.
  2. Input errors - Malformed periods, missing settings, malformed
     eligibility input (e.g. a negative geofence radius).
  3. Storage errors - Not-found and duplicate-write conditions surfaced
     by Store implementations.

NOTE:
  An eligibility denial is NOT an error. {allowed:false, reason} is the
  normal successful response shape; errors mean the evaluator itself was
  given malformed input.

USAGE:
  if errors.Is(err, engine.ErrInvalidRuleConfiguration) { ... }

  var cfgErr *engine.InvalidRuleConfigurationError
  if errors.As(err, &cfgErr) { log.Println(cfgErr.RuleName) }
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRuleConfiguration is returned when an allowance or
	// deduction rule is malformed (no rate, negative rate, per-minute
	// mode on a non-LATE rule).
	ErrInvalidRuleConfiguration = errors.New("invalid rule configuration")

	// ErrMissingConfiguration is returned when no attendance settings
	// are configured for the company.
	ErrMissingConfiguration = errors.New("missing attendance configuration")

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrInvalidGeofence is returned when eligibility input is malformed,
	// e.g. a negative radius. Distinct from a policy denial.
	ErrInvalidGeofence = errors.New("invalid geofence configuration")

	// ErrNotFound is returned by stores when a referenced record doesn't exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEvent is returned when an attendance event with the same
	// ID already exists. Expected behavior for client retries.
	ErrDuplicateEvent = errors.New("duplicate attendance event")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidRuleConfigurationError identifies which rule is malformed and why.
type InvalidRuleConfigurationError struct {
	RuleName string
	Reason   string
}

func (e *InvalidRuleConfigurationError) Error() string {
	return fmt.Sprintf("invalid rule configuration %q: %s", e.RuleName, e.Reason)
}

func (e *InvalidRuleConfigurationError) Unwrap() error {
	return ErrInvalidRuleConfiguration
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRuleConfiguration) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidGeofence) ||
		errors.Is(err, ErrDuplicateEvent)
}

// IsNotFound returns true if the error indicates a missing record or
// missing configuration.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrMissingConfiguration)
}
