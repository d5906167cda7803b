/*
handlers.go - HTTP API handlers for the payroll/attendance engine

PURPOSE:
  Exposes the payroll and attendance engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Attendance:
    POST   /api/attendance/check-in        Record a check-in (eligibility enforced)
    POST   /api/attendance/check-out       Record a check-out (eligibility enforced)
    GET    /api/attendance/eligibility     Dry-run check-in decision
    DELETE /api/attendance/events/{id}     Soft-delete an event (admin)

  Employees:
    GET    /api/employees                  List employees for a company
    POST   /api/employees                  Create/update employee
    GET    /api/employees/{id}             Get employee details
    GET    /api/employees/{id}/classifications  Per-day attendance report
    GET    /api/employees/{id}/payroll     Payroll summary for a period
    GET    /api/employees/{id}/payroll/export   Payroll summary as .xlsx

  Configuration:
    GET/PUT   /api/settings                Company attendance settings
    GET/POST  /api/holidays                Company holidays
    DELETE    /api/holidays/{id}
    GET/POST  /api/rules/allowances        Allowance rules
    GET/POST  /api/rules/deductions        Deduction rules
    DELETE    /api/rules/{id}

  Leave:
    GET/POST  /api/leave-applications
    POST      /api/leave-applications/{id}/approve

  Scenarios:
    POST   /api/scenarios/seed             Load demo data

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input (go-playground/validator tags on request DTOs)
  3. Materialize the snapshot the engine needs from the store
  4. Call domain logic (eligibility, classifier, aggregator)
  5. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, missing configuration
  - 404: Resource not found
  - 409: Eligibility denial, duplicate event
  - 500: Internal errors
  A denied check-in/out is NOT an internal error: it comes back as 409
  with the decision body so clients can show the reason.

SEE ALSO:
  - dto.go: Request/response data structures
  - seed.go: Demo data loader
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/export"
	"github.com/warp/payroll-engine/factory"
)

const timeFormat = time.RFC3339

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store engine.Store

	validate *validator.Validate

	// now is the clock; swapped out in tests.
	now func() time.Time
}

// NewHandler creates a new handler backed by the given store.
func NewHandler(store engine.Store) *Handler {
	return &Handler{
		Store:    store,
		validate: validator.New(),
		now:      time.Now,
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeEngineError maps domain errors onto HTTP statuses.
func writeEngineError(w http.ResponseWriter, message string, err error) {
	switch {
	case engine.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case engine.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

// decodeValid decodes the body into dst and runs validation tags.
func (h *Handler) decodeValid(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return h.validate.Struct(dst)
}

func locationOf(s engine.AttendanceSettings) *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.UTC
}

// eventsOnDay fetches an employee's live events for one calendar day in
// the company timezone.
func (h *Handler) eventsOnDay(r *http.Request, s engine.AttendanceSettings, employeeID engine.EmployeeID, day engine.Date) ([]engine.AttendanceEvent, error) {
	loc := locationOf(s)
	from := day.At(0, loc)
	to := day.AddDays(1).At(0, loc)
	return h.Store.EventsInRange(r.Context(), s.CompanyID, employeeID, from, to)
}

func hasEventOfType(events []engine.AttendanceEvent, t engine.EventType) bool {
	for _, e := range events {
		if e.Type == t {
			return true
		}
	}
	return false
}

// attemptTime resolves the timestamp of a check attempt. An explicit At
// wins over the wall clock.
func (h *Handler) attemptTime(at string) (time.Time, error) {
	if at == "" {
		return h.now(), nil
	}
	return time.Parse(timeFormat, at)
}

// =============================================================================
// ATTENDANCE HANDLERS
// =============================================================================

// CheckIn records a check-in if the eligibility evaluator allows it.
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	settings, err := h.Store.GetSettings(r.Context(), engine.CompanyID(req.CompanyID))
	if err != nil {
		writeEngineError(w, "Failed to load settings", err)
		return
	}
	now, err := h.attemptTime(req.At)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid at timestamp (use RFC 3339)", err)
		return
	}

	employeeID := engine.EmployeeID(req.EmployeeID)
	today, err := h.eventsOnDay(r, settings, employeeID, engine.DateOf(now, locationOf(settings)))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load events", err)
		return
	}

	decision, err := engine.CanCheckIn(now, settings, req.position(), hasEventOfType(today, engine.EventCheckIn))
	if err != nil {
		writeEngineError(w, "Eligibility check failed", err)
		return
	}
	if !decision.Allowed {
		writeJSON(w, http.StatusConflict, CheckDecisionDTO{
			Allowed:          false,
			Reason:           decision.Reason,
			RemainingSeconds: decision.RemainingSeconds,
		})
		return
	}

	event := engine.AttendanceEvent{
		ID:         uuid.NewString(),
		CompanyID:  settings.CompanyID,
		EmployeeID: employeeID,
		At:         now,
		Type:       engine.EventCheckIn,
		Location:   req.position(),
		RecordedBy: req.EmployeeID,
		RecordedAt: h.now().UTC(),
	}
	if err := h.Store.AppendEvent(r.Context(), event); err != nil {
		writeEngineError(w, "Failed to record check-in", err)
		return
	}

	dto := eventToDTO(event)
	writeJSON(w, http.StatusCreated, CheckDecisionDTO{
		Allowed:          true,
		RemainingSeconds: decision.RemainingSeconds,
		Event:            &dto,
	})
}

// CheckOut records a check-out if the eligibility evaluator allows it.
func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	settings, err := h.Store.GetSettings(r.Context(), engine.CompanyID(req.CompanyID))
	if err != nil {
		writeEngineError(w, "Failed to load settings", err)
		return
	}
	now, err := h.attemptTime(req.At)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid at timestamp (use RFC 3339)", err)
		return
	}

	employeeID := engine.EmployeeID(req.EmployeeID)
	today, err := h.eventsOnDay(r, settings, employeeID, engine.DateOf(now, locationOf(settings)))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load events", err)
		return
	}

	checkedIn := hasEventOfType(today, engine.EventCheckIn)
	worked := 0
	for _, e := range today {
		if e.Type == engine.EventCheckIn {
			// A backfilled at earlier than the check-in must not
			// produce a negative span.
			if worked = int(now.Sub(e.At).Minutes()); worked < 0 {
				worked = 0
			}
			break
		}
	}

	decision := engine.CanCheckOut(settings, checkedIn, worked)
	if !decision.Allowed {
		writeJSON(w, http.StatusConflict, CheckDecisionDTO{
			Allowed: false,
			Reason:  decision.Reason,
		})
		return
	}

	event := engine.AttendanceEvent{
		ID:         uuid.NewString(),
		CompanyID:  settings.CompanyID,
		EmployeeID: employeeID,
		At:         now,
		Type:       engine.EventCheckOut,
		Location:   req.position(),
		RecordedBy: req.EmployeeID,
		RecordedAt: h.now().UTC(),
	}
	if err := h.Store.AppendEvent(r.Context(), event); err != nil {
		writeEngineError(w, "Failed to record check-out", err)
		return
	}

	dto := eventToDTO(event)
	writeJSON(w, http.StatusCreated, CheckDecisionDTO{Allowed: true, Event: &dto})
}

// CheckInEligibility is the dry-run variant of CheckIn: same decision,
// nothing recorded.
func (h *Handler) CheckInEligibility(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	companyID := engine.CompanyID(q.Get("company_id"))
	employeeID := engine.EmployeeID(q.Get("employee_id"))
	if companyID == "" || employeeID == "" {
		writeError(w, http.StatusBadRequest, "company_id and employee_id are required", nil)
		return
	}

	settings, err := h.Store.GetSettings(r.Context(), companyID)
	if err != nil {
		writeEngineError(w, "Failed to load settings", err)
		return
	}

	var position *engine.GeoPoint
	if q.Get("latitude") != "" && q.Get("longitude") != "" {
		var p engine.GeoPoint
		if _, err := fmt.Sscanf(q.Get("latitude"), "%f", &p.Latitude); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid latitude", err)
			return
		}
		if _, err := fmt.Sscanf(q.Get("longitude"), "%f", &p.Longitude); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid longitude", err)
			return
		}
		position = &p
	}

	now := h.now()
	today, err := h.eventsOnDay(r, settings, employeeID, engine.DateOf(now, locationOf(settings)))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load events", err)
		return
	}

	decision, err := engine.CanCheckIn(now, settings, position, hasEventOfType(today, engine.EventCheckIn))
	if err != nil {
		writeEngineError(w, "Eligibility check failed", err)
		return
	}
	writeJSON(w, http.StatusOK, CheckDecisionDTO{
		Allowed:          decision.Allowed,
		Reason:           decision.Reason,
		RemainingSeconds: decision.RemainingSeconds,
	})
}

// DeleteEvent soft-deletes an attendance event. The record survives with
// an audit stamp; it just stops feeding computations.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	deletedBy := r.URL.Query().Get("deleted_by")
	if deletedBy == "" {
		writeError(w, http.StatusBadRequest, "deleted_by is required", nil)
		return
	}
	if err := h.Store.SoftDeleteEvent(r.Context(), id, deletedBy); err != nil {
		writeEngineError(w, "Failed to delete event", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees for a company.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	companyID := engine.CompanyID(r.URL.Query().Get("company_id"))
	if companyID == "" {
		writeError(w, http.StatusBadRequest, "company_id is required", nil)
		return
	}
	employees, err := h.Store.ListEmployees(r.Context(), companyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}
	dtos := make([]EmployeeDTO, 0, len(employees))
	for _, e := range employees {
		dtos = append(dtos, employeeToDTO(e))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEmployee creates or updates an employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	hireDate, err := engine.ParseDate(req.HireDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid hire_date format (use YYYY-MM-DD)", err)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	employee := engine.Employee{
		ID:         engine.EmployeeID(req.ID),
		CompanyID:  engine.CompanyID(req.CompanyID),
		Name:       req.Name,
		Email:      req.Email,
		BaseSalary: engine.Money(req.BaseSalary),
		HireDate:   hireDate,
	}
	if err := h.Store.SaveEmployee(r.Context(), employee); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, employeeToDTO(employee))
}

// GetEmployee returns one employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := engine.EmployeeID(chi.URLParam(r, "id"))
	employee, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeEngineError(w, "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, employeeToDTO(employee))
}

// GetClassifications returns the per-day attendance report for a period.
func (h *Handler) GetClassifications(w http.ResponseWriter, r *http.Request) {
	employee, err := h.Store.GetEmployee(r.Context(), engine.EmployeeID(chi.URLParam(r, "id")))
	if err != nil {
		writeEngineError(w, "Failed to get employee", err)
		return
	}
	period, err := parsePeriod(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period (use from=YYYY-MM-DD&to=YYYY-MM-DD)", err)
		return
	}

	snap, err := h.materialize(r, employee, period)
	if err != nil {
		writeEngineError(w, "Failed to load attendance data", err)
		return
	}
	rollup, days, err := engine.ComputeRollup(period, snap.Events, snap.Leaves, snap.Holidays, snap.Settings)
	if err != nil {
		writeEngineError(w, "Failed to classify attendance", err)
		return
	}

	dtos := make([]ClassificationDTO, 0, len(days))
	for _, dc := range days {
		dtos = append(dtos, classificationToDTO(dc))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"employee_id":        string(employee.ID),
		"period_start":       period.Start.String(),
		"period_end":         period.End.String(),
		"days":               dtos,
		"working_days":       rollup.WorkingDays,
		"present_days":       rollup.PresentDays,
		"absent_days":        rollup.AbsentDays,
		"late_days":          rollup.LateDays,
		"total_late_minutes": rollup.TotalLateMinutes,
	})
}

// GetPayroll returns the payroll summary for a period. Without from/to
// query params, the period is the one ending on the company's configured
// payroll day, as of today.
func (h *Handler) GetPayroll(w http.ResponseWriter, r *http.Request) {
	_, summary, err := h.computePayroll(r)
	if err != nil {
		writeEngineError(w, "Failed to compute payroll", err)
		return
	}
	writeJSON(w, http.StatusOK, summaryToDTO(summary))
}

// ExportPayroll streams the payroll summary as an .xlsx workbook.
func (h *Handler) ExportPayroll(w http.ResponseWriter, r *http.Request) {
	employee, summary, err := h.computePayroll(r)
	if err != nil {
		writeEngineError(w, "Failed to compute payroll", err)
		return
	}
	filename := fmt.Sprintf("payroll-%s-%s.xlsx", employee.ID, summary.Period.End.String())
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := export.WritePayroll(w, employee, summary); err != nil {
		// Headers are gone at this point; nothing useful left to send.
		return
	}
}

// snapshot is everything a payroll/classification run needs, fetched once.
type snapshot struct {
	Settings engine.AttendanceSettings
	Events   []engine.AttendanceEvent
	Leaves   []engine.LeaveApplication
	Holidays []engine.Holiday
}

func (h *Handler) materialize(r *http.Request, employee engine.Employee, period engine.Period) (snapshot, error) {
	ctx := r.Context()
	settings, err := h.Store.GetSettings(ctx, employee.CompanyID)
	if err != nil {
		return snapshot{}, err
	}
	loc := locationOf(settings)
	events, err := h.Store.EventsInRange(ctx, employee.CompanyID, employee.ID,
		period.Start.At(0, loc), period.End.AddDays(1).At(0, loc))
	if err != nil {
		return snapshot{}, err
	}
	leaves, err := h.Store.ListLeaveApplications(ctx, employee.CompanyID, employee.ID)
	if err != nil {
		return snapshot{}, err
	}
	holidays, err := h.Store.ListHolidays(ctx, employee.CompanyID)
	if err != nil {
		return snapshot{}, err
	}
	return snapshot{Settings: settings, Events: events, Leaves: leaves, Holidays: holidays}, nil
}

func (h *Handler) computePayroll(r *http.Request) (engine.Employee, engine.PayrollSummary, error) {
	employee, err := h.Store.GetEmployee(r.Context(), engine.EmployeeID(chi.URLParam(r, "id")))
	if err != nil {
		return engine.Employee{}, engine.PayrollSummary{}, err
	}
	settings, err := h.Store.GetSettings(r.Context(), employee.CompanyID)
	if err != nil {
		return engine.Employee{}, engine.PayrollSummary{}, err
	}

	var period engine.Period
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if from == "" && to == "" {
		today := engine.DateOf(h.now(), locationOf(settings))
		period = engine.PayrollPeriodEnding(today, settings.PayrollDayOfMonth)
	} else {
		period, err = parsePeriod(from, to)
		if err != nil {
			return engine.Employee{}, engine.PayrollSummary{}, fmt.Errorf("%w: %v", engine.ErrInvalidPeriod, err)
		}
	}

	snap, err := h.materialize(r, employee, period)
	if err != nil {
		return engine.Employee{}, engine.PayrollSummary{}, err
	}
	allowances, err := h.Store.ListAllowanceRules(r.Context(), employee.CompanyID)
	if err != nil {
		return engine.Employee{}, engine.PayrollSummary{}, err
	}
	deductions, err := h.Store.ListDeductionRules(r.Context(), employee.CompanyID)
	if err != nil {
		return engine.Employee{}, engine.PayrollSummary{}, err
	}

	summary, err := engine.ComputeSummary(engine.SummaryInput{
		EmployeeID:     employee.ID,
		Period:         period,
		BaseSalary:     employee.BaseSalary,
		Events:         snap.Events,
		Leaves:         snap.Leaves,
		Holidays:       snap.Holidays,
		Settings:       snap.Settings,
		AllowanceRules: allowances,
		DeductionRules: deductions,
	})
	if err != nil {
		return engine.Employee{}, engine.PayrollSummary{}, err
	}
	return employee, summary, nil
}

func parsePeriod(from, to string) (engine.Period, error) {
	start, err := engine.ParseDate(from)
	if err != nil {
		return engine.Period{}, err
	}
	end, err := engine.ParseDate(to)
	if err != nil {
		return engine.Period{}, err
	}
	p := engine.Period{Start: start, End: end}
	return p, p.Validate()
}

// =============================================================================
// CONFIGURATION HANDLERS
// =============================================================================

// GetSettings returns a company's attendance settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	companyID := engine.CompanyID(r.URL.Query().Get("company_id"))
	if companyID == "" {
		writeError(w, http.StatusBadRequest, "company_id is required", nil)
		return
	}
	settings, err := h.Store.GetSettings(r.Context(), companyID)
	if err != nil {
		writeEngineError(w, "Failed to get settings", err)
		return
	}
	writeJSON(w, http.StatusOK, factory.SettingsToJSON(settings))
}

// PutSettings replaces a company's attendance settings. Latest value
// wins; prior computations are unaffected.
func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	var doc factory.SettingsJSON
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	settings, err := factory.SettingsFromJSON(doc)
	if err != nil {
		writeEngineError(w, "Invalid settings", err)
		return
	}
	if err := h.Store.SaveSettings(r.Context(), settings); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save settings", err)
		return
	}
	writeJSON(w, http.StatusOK, factory.SettingsToJSON(settings))
}

// ListHolidays returns a company's holidays.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	companyID := engine.CompanyID(r.URL.Query().Get("company_id"))
	if companyID == "" {
		writeError(w, http.StatusBadRequest, "company_id is required", nil)
		return
	}
	holidays, err := h.Store.ListHolidays(r.Context(), companyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list holidays", err)
		return
	}
	dtos := make([]HolidayDTO, 0, len(holidays))
	for _, hol := range holidays {
		dtos = append(dtos, holidayToDTO(hol))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday adds a holiday range.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	start, err := engine.ParseDate(req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start date (use YYYY-MM-DD)", err)
		return
	}
	end := start
	if req.End != "" {
		if end, err = engine.ParseDate(req.End); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end date (use YYYY-MM-DD)", err)
			return
		}
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "end must not be before start", nil)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	holiday := engine.Holiday{
		ID:          req.ID,
		CompanyID:   engine.CompanyID(req.CompanyID),
		Start:       start,
		End:         end,
		Description: req.Description,
	}
	if err := h.Store.SaveHoliday(r.Context(), holiday); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save holiday", err)
		return
	}
	writeJSON(w, http.StatusCreated, holidayToDTO(holiday))
}

// DeleteHoliday removes a holiday.
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeleteHoliday(r.Context(), id); err != nil {
		writeEngineError(w, "Failed to delete holiday", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// =============================================================================
// RULE HANDLERS
// =============================================================================

// ListAllowanceRules returns a company's allowance rules in definition
// order.
func (h *Handler) ListAllowanceRules(w http.ResponseWriter, r *http.Request) {
	companyID := engine.CompanyID(r.URL.Query().Get("company_id"))
	if companyID == "" {
		writeError(w, http.StatusBadRequest, "company_id is required", nil)
		return
	}
	rules, err := h.Store.ListAllowanceRules(r.Context(), companyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list allowance rules", err)
		return
	}
	docs := make([]factory.AllowanceRuleJSON, 0, len(rules))
	for _, rule := range rules {
		docs = append(docs, factory.AllowanceRuleToJSON(rule))
	}
	writeJSON(w, http.StatusOK, docs)
}

// CreateAllowanceRule adds an allowance rule.
func (h *Handler) CreateAllowanceRule(w http.ResponseWriter, r *http.Request) {
	var req CreateAllowanceRuleRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Rule.ID == "" {
		req.Rule.ID = uuid.NewString()
	}
	rule, err := factory.AllowanceRuleFromJSON(req.Rule)
	if err != nil {
		writeEngineError(w, "Invalid allowance rule", err)
		return
	}
	if err := h.Store.SaveAllowanceRule(r.Context(), rule, engine.CompanyID(req.CompanyID)); err != nil {
		writeEngineError(w, "Failed to save allowance rule", err)
		return
	}
	writeJSON(w, http.StatusCreated, factory.AllowanceRuleToJSON(rule))
}

// ListDeductionRules returns a company's deduction rules in definition
// order.
func (h *Handler) ListDeductionRules(w http.ResponseWriter, r *http.Request) {
	companyID := engine.CompanyID(r.URL.Query().Get("company_id"))
	if companyID == "" {
		writeError(w, http.StatusBadRequest, "company_id is required", nil)
		return
	}
	rules, err := h.Store.ListDeductionRules(r.Context(), companyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list deduction rules", err)
		return
	}
	docs := make([]factory.DeductionRuleJSON, 0, len(rules))
	for _, rule := range rules {
		docs = append(docs, factory.DeductionRuleToJSON(rule))
	}
	writeJSON(w, http.StatusOK, docs)
}

// CreateDeductionRule adds a deduction rule.
func (h *Handler) CreateDeductionRule(w http.ResponseWriter, r *http.Request) {
	var req CreateDeductionRuleRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Rule.ID == "" {
		req.Rule.ID = uuid.NewString()
	}
	rule, err := factory.DeductionRuleFromJSON(req.Rule)
	if err != nil {
		writeEngineError(w, "Invalid deduction rule", err)
		return
	}
	if err := h.Store.SaveDeductionRule(r.Context(), rule, engine.CompanyID(req.CompanyID)); err != nil {
		writeEngineError(w, "Failed to save deduction rule", err)
		return
	}
	writeJSON(w, http.StatusCreated, factory.DeductionRuleToJSON(rule))
}

// DeleteRule removes an allowance or deduction rule by ID.
func (h *Handler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeleteRule(r.Context(), id); err != nil {
		writeEngineError(w, "Failed to delete rule", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// =============================================================================
// LEAVE HANDLERS
// =============================================================================

// ListLeaveApplications returns leave applications, optionally filtered
// by employee.
func (h *Handler) ListLeaveApplications(w http.ResponseWriter, r *http.Request) {
	companyID := engine.CompanyID(r.URL.Query().Get("company_id"))
	if companyID == "" {
		writeError(w, http.StatusBadRequest, "company_id is required", nil)
		return
	}
	employeeID := engine.EmployeeID(r.URL.Query().Get("employee_id"))
	leaves, err := h.Store.ListLeaveApplications(r.Context(), companyID, employeeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list leave applications", err)
		return
	}
	dtos := make([]LeaveApplicationDTO, 0, len(leaves))
	for _, l := range leaves {
		dtos = append(dtos, leaveToDTO(l))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateLeaveApplication files a leave/sick application. It starts
// unapproved and has no effect on classification until approved.
func (h *Handler) CreateLeaveApplication(w http.ResponseWriter, r *http.Request) {
	var req CreateLeaveRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	start, err := engine.ParseDate(req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start date (use YYYY-MM-DD)", err)
		return
	}
	end := start
	if req.End != "" {
		if end, err = engine.ParseDate(req.End); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end date (use YYYY-MM-DD)", err)
			return
		}
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "end must not be before start", nil)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	leave := engine.LeaveApplication{
		ID:         req.ID,
		CompanyID:  engine.CompanyID(req.CompanyID),
		EmployeeID: engine.EmployeeID(req.EmployeeID),
		Kind:       engine.LeaveKind(req.Kind),
		Start:      start,
		End:        end,
		Paid:       req.Paid,
		Reason:     req.Reason,
	}
	if err := h.Store.SaveLeaveApplication(r.Context(), leave); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save leave application", err)
		return
	}
	writeJSON(w, http.StatusCreated, leaveToDTO(leave))
}

// ApproveLeaveApplication marks an application approved.
func (h *Handler) ApproveLeaveApplication(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.ApproveLeaveApplication(r.Context(), id); err != nil {
		writeEngineError(w, "Failed to approve leave application", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"approved": id})
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// LoadDemo seeds the store with a demo company.
func (h *Handler) LoadDemo(w http.ResponseWriter, r *http.Request) {
	result, err := Seed(r.Context(), h.Store, h.now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load demo data", err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}
