/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Employee:
    EmployeeDTO, CreateEmployeeRequest

  Attendance:
    CheckRequest, CheckDecisionDTO, AttendanceEventDTO, ClassificationDTO

  Payroll:
    PayrollSummaryDTO, LineItemDTO

  Configuration:
    factory.SettingsJSON, factory.AllowanceRuleJSON, factory.DeductionRuleJSON
    are used directly as the wire format for settings and rules.

  Leave:
    LeaveApplicationDTO, CreateLeaveRequest

VALIDATION:
  Request bodies carry go-playground/validator struct tags; handlers run
  them through a shared *validator.Validate before touching the store.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/rules.go: JSON documents for settings and rules
*/
package api

import (
	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/factory"
)

// =============================================================================
// COMMON
// =============================================================================

// ErrorResponse is the JSON body for all error statuses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID         string `json:"id"`
	CompanyID  string `json:"company_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	BaseSalary int64  `json:"base_salary"`
	HireDate   string `json:"hire_date"`
}

// CreateEmployeeRequest is the request to create an employee.
type CreateEmployeeRequest struct {
	ID         string `json:"id"`
	CompanyID  string `json:"company_id" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"omitempty,email"`
	BaseSalary int64  `json:"base_salary" validate:"gte=0"`
	HireDate   string `json:"hire_date" validate:"required"`
}

func employeeToDTO(e engine.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:         string(e.ID),
		CompanyID:  string(e.CompanyID),
		Name:       e.Name,
		Email:      e.Email,
		BaseSalary: int64(e.BaseSalary),
		HireDate:   e.HireDate.String(),
	}
}

// =============================================================================
// ATTENDANCE
// =============================================================================

// CheckRequest is the body for both check-in and check-out attempts.
// Latitude/Longitude are optional; companies without geofencing accept
// position-less attempts.
type CheckRequest struct {
	CompanyID  string   `json:"company_id" validate:"required"`
	EmployeeID string   `json:"employee_id" validate:"required"`
	Latitude   *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude  *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Accuracy   float64  `json:"accuracy_meters" validate:"gte=0"`

	// At overrides the attempt timestamp (RFC 3339). Empty means now.
	// Intended for backfills and demos, not normal clients.
	At string `json:"at,omitempty"`
}

func (r CheckRequest) position() *engine.GeoPoint {
	if r.Latitude == nil || r.Longitude == nil {
		return nil
	}
	return &engine.GeoPoint{
		Latitude:       *r.Latitude,
		Longitude:      *r.Longitude,
		AccuracyMeters: r.Accuracy,
	}
}

// CheckDecisionDTO reports the eligibility verdict for an attempt. Event
// is set only when the attempt was allowed and recorded.
type CheckDecisionDTO struct {
	Allowed          bool                `json:"allowed"`
	Reason           string              `json:"reason,omitempty"`
	RemainingSeconds *int64              `json:"remaining_seconds,omitempty"`
	Event            *AttendanceEventDTO `json:"event,omitempty"`
}

// AttendanceEventDTO represents a recorded check-in/check-out.
type AttendanceEventDTO struct {
	ID         string   `json:"id"`
	CompanyID  string   `json:"company_id"`
	EmployeeID string   `json:"employee_id"`
	At         string   `json:"at"`
	Type       string   `json:"type"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	RecordedBy string   `json:"recorded_by,omitempty"`
}

func eventToDTO(e engine.AttendanceEvent) AttendanceEventDTO {
	dto := AttendanceEventDTO{
		ID:         e.ID,
		CompanyID:  string(e.CompanyID),
		EmployeeID: string(e.EmployeeID),
		At:         e.At.Format(timeFormat),
		Type:       string(e.Type),
		RecordedBy: e.RecordedBy,
	}
	if e.Location != nil {
		lat, lng := e.Location.Latitude, e.Location.Longitude
		dto.Latitude, dto.Longitude = &lat, &lng
	}
	return dto
}

// ClassificationDTO is one day of the attendance report.
type ClassificationDTO struct {
	Date          string `json:"date"`
	Status        string `json:"status"`
	IsLate        bool   `json:"is_late"`
	LateMinutes   int    `json:"late_minutes"`
	WorkedMinutes *int   `json:"worked_minutes,omitempty"`
	AbsentReason  string `json:"absent_reason,omitempty"`
	UnpaidLeave   bool   `json:"unpaid_leave,omitempty"`
}

func classificationToDTO(dc engine.DayClassification) ClassificationDTO {
	return ClassificationDTO{
		Date:          dc.Date.String(),
		Status:        string(dc.Status),
		IsLate:        dc.IsLate,
		LateMinutes:   dc.LateMinutes,
		WorkedMinutes: dc.WorkedMinutes,
		AbsentReason:  dc.AbsentReason,
		UnpaidLeave:   dc.UnpaidLeave,
	}
}

// =============================================================================
// PAYROLL
// =============================================================================

// LineItemDTO is one payslip line.
type LineItemDTO struct {
	Description string `json:"description"`
	Type        string `json:"type"`
	Amount      int64  `json:"amount"`
}

// PayrollSummaryDTO is the payslip for one employee and period.
type PayrollSummaryDTO struct {
	EmployeeID       string              `json:"employee_id"`
	PeriodStart      string              `json:"period_start"`
	PeriodEnd        string              `json:"period_end"`
	BaseSalary       int64               `json:"base_salary"`
	AbsentDays       int                 `json:"absent_days"`
	TotalLateMinutes int                 `json:"total_late_minutes"`
	AllowanceTotal   int64               `json:"allowance_total"`
	DeductionTotal   int64               `json:"deduction_total"`
	TakeHomePay      int64               `json:"take_home_pay"`
	Shortfall        int64               `json:"shortfall,omitempty"`
	LineItems        []LineItemDTO       `json:"line_items"`
	Days             []ClassificationDTO `json:"days"`
}

func summaryToDTO(s engine.PayrollSummary) PayrollSummaryDTO {
	items := make([]LineItemDTO, 0, len(s.LineItems))
	for _, li := range s.LineItems {
		items = append(items, LineItemDTO{
			Description: li.Description,
			Type:        string(li.Type),
			Amount:      int64(li.Amount),
		})
	}
	days := make([]ClassificationDTO, 0, len(s.Days))
	for _, dc := range s.Days {
		days = append(days, classificationToDTO(dc))
	}
	return PayrollSummaryDTO{
		EmployeeID:       string(s.EmployeeID),
		PeriodStart:      s.Period.Start.String(),
		PeriodEnd:        s.Period.End.String(),
		BaseSalary:       int64(s.BaseSalary),
		AbsentDays:       s.AbsentDays,
		TotalLateMinutes: s.TotalLateMinutes,
		AllowanceTotal:   int64(s.AllowanceTotal),
		DeductionTotal:   int64(s.DeductionTotal),
		TakeHomePay:      int64(s.TakeHomePay),
		Shortfall:        int64(s.Shortfall),
		LineItems:        items,
		Days:             days,
	}
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// HolidayDTO represents a holiday range in API responses.
type HolidayDTO struct {
	ID          string `json:"id"`
	CompanyID   string `json:"company_id"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Description string `json:"description,omitempty"`
}

// CreateHolidayRequest is the request to add a holiday. End defaults to
// Start for single-day holidays.
type CreateHolidayRequest struct {
	ID          string `json:"id"`
	CompanyID   string `json:"company_id" validate:"required"`
	Start       string `json:"start" validate:"required"`
	End         string `json:"end"`
	Description string `json:"description"`
}

func holidayToDTO(h engine.Holiday) HolidayDTO {
	return HolidayDTO{
		ID:          h.ID,
		CompanyID:   string(h.CompanyID),
		Start:       h.Start.String(),
		End:         h.End.String(),
		Description: h.Description,
	}
}

// =============================================================================
// RULES
// =============================================================================

// CreateAllowanceRuleRequest wraps an allowance rule document with the
// company it belongs to.
type CreateAllowanceRuleRequest struct {
	CompanyID string                    `json:"company_id" validate:"required"`
	Rule      factory.AllowanceRuleJSON `json:"rule"`
}

// CreateDeductionRuleRequest wraps a deduction rule document with the
// company it belongs to.
type CreateDeductionRuleRequest struct {
	CompanyID string                    `json:"company_id" validate:"required"`
	Rule      factory.DeductionRuleJSON `json:"rule"`
}

// =============================================================================
// LEAVE APPLICATIONS
// =============================================================================

// LeaveApplicationDTO represents a leave/sick application.
type LeaveApplicationDTO struct {
	ID         string `json:"id"`
	CompanyID  string `json:"company_id"`
	EmployeeID string `json:"employee_id"`
	Kind       string `json:"kind"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Approved   bool   `json:"approved"`
	Paid       bool   `json:"paid"`
	Reason     string `json:"reason,omitempty"`
}

// CreateLeaveRequest is the request to file a leave/sick application.
// Applications start unapproved; approval is a separate call.
type CreateLeaveRequest struct {
	ID         string `json:"id"`
	CompanyID  string `json:"company_id" validate:"required"`
	EmployeeID string `json:"employee_id" validate:"required"`
	Kind       string `json:"kind" validate:"required,oneof=LEAVE SICK"`
	Start      string `json:"start" validate:"required"`
	End        string `json:"end"`
	Paid       bool   `json:"paid"`
	Reason     string `json:"reason"`
}

func leaveToDTO(l engine.LeaveApplication) LeaveApplicationDTO {
	return LeaveApplicationDTO{
		ID:         l.ID,
		CompanyID:  string(l.CompanyID),
		EmployeeID: string(l.EmployeeID),
		Kind:       string(l.Kind),
		Start:      l.Start.String(),
		End:        l.End.String(),
		Approved:   l.Approved,
		Paid:       l.Paid,
		Reason:     l.Reason,
	}
}
