/*
Package sqlite provides the SQLite-backed implementation of engine.Store.

PURPOSE:
  Persists everything the computation core consumes: the append-only
  attendance event log, company holidays, attendance settings, allowance
  and deduction rules, leave applications, and employees. In production
  the same patterns apply to PostgreSQL - only minor SQL dialect
  differences.

APPEND-ONLY ENFORCEMENT:
  The attendance_events table has no UPDATE path except the soft-delete
  columns. Event rows are never rewritten; an administrative soft delete
  stamps deleted_at/deleted_by and hides the row from reads.

KEY TABLES:
  attendance_events:   Immutable check-in/check-out log (soft delete)
  holidays:            Company holiday date ranges
  attendance_settings: One row per company, latest value wins
  allowance_rules:     Allowance configuration, rowid = definition order
  deduction_rules:     Deduction configuration, rowid = definition order
  leave_applications:  Leave/sick requests with approval flag
  employees:           Payroll subjects with base salary

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - engine/store.go: Interface definitions
  - engine/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/engine"
)

// timestampFormat is RFC 3339 with fixed-width nanoseconds. Event
// timestamps are range-filtered and ordered as strings in SQL, which is
// only correct when every value has the same width; RFC3339Nano trims
// trailing fractional zeros and breaks that ordering.
const timestampFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Store implements engine.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ engine.Store = (*Store)(nil)

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	-- Attendance events (append-only log, soft delete only)
	CREATE TABLE IF NOT EXISTS attendance_events (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		at TEXT NOT NULL,
		event_type TEXT NOT NULL,
		latitude REAL,
		longitude REAL,
		accuracy_meters REAL,
		recorded_by TEXT,
		recorded_at TEXT NOT NULL,
		deleted_at TEXT,
		deleted_by TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_events_employee_at
		ON attendance_events(company_id, employee_id, at);

	-- Company holidays (inclusive date ranges)
	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		description TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_company
		ON holidays(company_id);

	-- Attendance settings (single row per company, latest wins)
	CREATE TABLE IF NOT EXISTS attendance_settings (
		company_id TEXT PRIMARY KEY,
		work_start TEXT NOT NULL,
		tolerance_minutes INTEGER NOT NULL,
		open_time TEXT NOT NULL,
		close_time TEXT NOT NULL,
		minimum_hours_per_day INTEGER NOT NULL,
		geofence_enabled INTEGER NOT NULL,
		geofence_lat REAL NOT NULL,
		geofence_lng REAL NOT NULL,
		geofence_radius_m REAL NOT NULL,
		payroll_day_of_month INTEGER NOT NULL,
		workweek TEXT NOT NULL,
		timezone TEXT NOT NULL
	);

	-- Allowance rules (rowid preserves definition order)
	CREATE TABLE IF NOT EXISTS allowance_rules (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		name TEXT NOT NULL,
		mode TEXT NOT NULL,
		percent TEXT,
		fixed_amount INTEGER,
		active INTEGER NOT NULL
	);

	-- Deduction rules (rowid preserves definition order)
	CREATE TABLE IF NOT EXISTS deduction_rules (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		name TEXT NOT NULL,
		deduction_type TEXT NOT NULL,
		mode TEXT NOT NULL,
		percent TEXT,
		fixed_amount INTEGER,
		per_minute_rate INTEGER,
		max_minutes INTEGER,
		active INTEGER NOT NULL
	);

	-- Leave applications
	CREATE TABLE IF NOT EXISTS leave_applications (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		approved INTEGER NOT NULL,
		paid INTEGER NOT NULL,
		reason TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_leaves_employee
		ON leave_applications(company_id, employee_id);

	-- Employees
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		name TEXT NOT NULL,
		email TEXT,
		base_salary INTEGER NOT NULL,
		hire_date TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EVENTS
// =============================================================================

func (s *Store) AppendEvent(ctx context.Context, e engine.AttendanceEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var lat, lng, acc sql.NullFloat64
	if e.Location != nil {
		lat = sql.NullFloat64{Float64: e.Location.Latitude, Valid: true}
		lng = sql.NullFloat64{Float64: e.Location.Longitude, Valid: true}
		acc = sql.NullFloat64{Float64: e.Location.AccuracyMeters, Valid: true}
	}
	recordedAt := e.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attendance_events
			(id, company_id, employee_id, at, event_type, latitude, longitude, accuracy_meters, recorded_by, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, string(e.CompanyID), string(e.EmployeeID),
		e.At.UTC().Format(timestampFormat), string(e.Type),
		lat, lng, acc, e.RecordedBy, recordedAt.UTC().Format(timestampFormat),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return engine.ErrDuplicateEvent
	}
	return err
}

func (s *Store) EventsInRange(ctx context.Context, companyID engine.CompanyID, employeeID engine.EmployeeID, from, to time.Time) ([]engine.AttendanceEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, company_id, employee_id, at, event_type, latitude, longitude, accuracy_meters, recorded_by, recorded_at
		FROM attendance_events
		WHERE company_id = ? AND employee_id = ? AND at >= ? AND at < ? AND deleted_at IS NULL
		ORDER BY at ASC`,
		string(companyID), string(employeeID),
		from.UTC().Format(timestampFormat), to.UTC().Format(timestampFormat),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []engine.AttendanceEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *Store) SoftDeleteEvent(ctx context.Context, id, deletedBy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `
		UPDATE attendance_events
		SET deleted_at = ?, deleted_by = ?
		WHERE id = ? AND deleted_at IS NULL`,
		time.Now().UTC().Format(timestampFormat), deletedBy, id,
	)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return engine.ErrNotFound
	}
	return nil
}

func scanEvent(rows *sql.Rows) (engine.AttendanceEvent, error) {
	var (
		e             engine.AttendanceEvent
		companyID     string
		employeeID    string
		atStr         string
		eventType     string
		lat, lng, acc sql.NullFloat64
		recordedBy    sql.NullString
		recordedAtStr string
	)
	if err := rows.Scan(&e.ID, &companyID, &employeeID, &atStr, &eventType, &lat, &lng, &acc, &recordedBy, &recordedAtStr); err != nil {
		return engine.AttendanceEvent{}, err
	}

	e.CompanyID = engine.CompanyID(companyID)
	e.EmployeeID = engine.EmployeeID(employeeID)
	e.Type = engine.EventType(eventType)
	e.RecordedBy = recordedBy.String

	at, err := time.Parse(time.RFC3339Nano, atStr)
	if err != nil {
		return engine.AttendanceEvent{}, fmt.Errorf("corrupt event timestamp %q: %w", atStr, err)
	}
	e.At = at
	if recordedAt, err := time.Parse(time.RFC3339Nano, recordedAtStr); err == nil {
		e.RecordedAt = recordedAt
	}

	if lat.Valid && lng.Valid {
		e.Location = &engine.GeoPoint{
			Latitude:       lat.Float64,
			Longitude:      lng.Float64,
			AccuracyMeters: acc.Float64,
		}
	}
	return e, nil
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (s *Store) SaveHoliday(ctx context.Context, h engine.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO holidays (id, company_id, start_date, end_date, description)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			description = excluded.description`,
		h.ID, string(h.CompanyID), h.Start.String(), h.End.String(), h.Description,
	)
	return err
}

func (s *Store) ListHolidays(ctx context.Context, companyID engine.CompanyID) ([]engine.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, company_id, start_date, end_date, description
		FROM holidays WHERE company_id = ? ORDER BY start_date ASC`,
		string(companyID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []engine.Holiday
	for rows.Next() {
		var (
			h                engine.Holiday
			company          string
			startStr, endStr string
			desc             sql.NullString
		)
		if err := rows.Scan(&h.ID, &company, &startStr, &endStr, &desc); err != nil {
			return nil, err
		}
		h.CompanyID = engine.CompanyID(company)
		h.Description = desc.String
		if h.Start, err = engine.ParseDate(startStr); err != nil {
			return nil, err
		}
		if h.End, err = engine.ParseDate(endStr); err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteByID(ctx, "holidays", id)
}

// =============================================================================
// SETTINGS
// =============================================================================

func (s *Store) SaveSettings(ctx context.Context, settings engine.AttendanceSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tz := "UTC"
	if settings.Location != nil {
		tz = settings.Location.String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attendance_settings
			(company_id, work_start, tolerance_minutes, open_time, close_time,
			 minimum_hours_per_day, geofence_enabled, geofence_lat, geofence_lng,
			 geofence_radius_m, payroll_day_of_month, workweek, timezone)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(company_id) DO UPDATE SET
			work_start = excluded.work_start,
			tolerance_minutes = excluded.tolerance_minutes,
			open_time = excluded.open_time,
			close_time = excluded.close_time,
			minimum_hours_per_day = excluded.minimum_hours_per_day,
			geofence_enabled = excluded.geofence_enabled,
			geofence_lat = excluded.geofence_lat,
			geofence_lng = excluded.geofence_lng,
			geofence_radius_m = excluded.geofence_radius_m,
			payroll_day_of_month = excluded.payroll_day_of_month,
			workweek = excluded.workweek,
			timezone = excluded.timezone`,
		string(settings.CompanyID), settings.WorkStart.String(), settings.ToleranceMinutes,
		settings.OpenTime.String(), settings.CloseTime.String(), settings.MinimumHoursPerDay,
		boolInt(settings.Geofence.Enabled), settings.Geofence.Center.Latitude,
		settings.Geofence.Center.Longitude, settings.Geofence.RadiusMeters,
		settings.PayrollDayOfMonth, encodeWorkweek(settings.Workweek), tz,
	)
	return err
}

func (s *Store) GetSettings(ctx context.Context, companyID engine.CompanyID) (engine.AttendanceSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT company_id, work_start, tolerance_minutes, open_time, close_time,
		       minimum_hours_per_day, geofence_enabled, geofence_lat, geofence_lng,
		       geofence_radius_m, payroll_day_of_month, workweek, timezone
		FROM attendance_settings WHERE company_id = ?`,
		string(companyID),
	)

	var (
		settings                       engine.AttendanceSettings
		company                        string
		workStart, openTime, closeTime string
		enabled                        int
		workweek, tz                   string
	)
	err := row.Scan(&company, &workStart, &settings.ToleranceMinutes, &openTime, &closeTime,
		&settings.MinimumHoursPerDay, &enabled,
		&settings.Geofence.Center.Latitude, &settings.Geofence.Center.Longitude,
		&settings.Geofence.RadiusMeters, &settings.PayrollDayOfMonth, &workweek, &tz)
	if err == sql.ErrNoRows {
		return engine.AttendanceSettings{}, engine.ErrMissingConfiguration
	}
	if err != nil {
		return engine.AttendanceSettings{}, err
	}

	settings.CompanyID = engine.CompanyID(company)
	settings.Geofence.Enabled = enabled != 0
	settings.Workweek = decodeWorkweek(workweek)
	if settings.WorkStart, err = engine.ParseClockTime(workStart); err != nil {
		return engine.AttendanceSettings{}, err
	}
	if settings.OpenTime, err = engine.ParseClockTime(openTime); err != nil {
		return engine.AttendanceSettings{}, err
	}
	if settings.CloseTime, err = engine.ParseClockTime(closeTime); err != nil {
		return engine.AttendanceSettings{}, err
	}
	if loc, locErr := time.LoadLocation(tz); locErr == nil {
		settings.Location = loc
	}
	return settings, nil
}

// encodeWorkweek packs the workweek into "0111110" (Sunday first).
func encodeWorkweek(w engine.Workweek) string {
	buf := make([]byte, 7)
	for i := 0; i < 7; i++ {
		if w[i] {
			buf[i] = '1'
		} else {
			buf[i] = '0'
		}
	}
	return string(buf)
}

func decodeWorkweek(s string) engine.Workweek {
	var w engine.Workweek
	for i := 0; i < 7 && i < len(s); i++ {
		w[i] = s[i] == '1'
	}
	return w
}

// =============================================================================
// RULES
// =============================================================================

func (s *Store) SaveAllowanceRule(ctx context.Context, r engine.AllowanceRule, companyID engine.CompanyID) error {
	if err := r.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	mode, percent, fixed, _, _ := encodeRate(r.Rate)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO allowance_rules (id, company_id, name, mode, percent, fixed_amount, active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			mode = excluded.mode,
			percent = excluded.percent,
			fixed_amount = excluded.fixed_amount,
			active = excluded.active`,
		r.ID, string(companyID), r.Name, mode, percent, fixed, boolInt(r.Active),
	)
	return err
}

func (s *Store) ListAllowanceRules(ctx context.Context, companyID engine.CompanyID) ([]engine.AllowanceRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, mode, percent, fixed_amount, active
		FROM allowance_rules WHERE company_id = ? ORDER BY rowid ASC`,
		string(companyID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []engine.AllowanceRule
	for rows.Next() {
		var (
			r       engine.AllowanceRule
			mode    string
			percent sql.NullString
			fixed   sql.NullInt64
			active  int
		)
		if err := rows.Scan(&r.ID, &r.Name, &mode, &percent, &fixed, &active); err != nil {
			return nil, err
		}
		r.Active = active != 0
		if r.Rate, err = decodeRate(mode, percent, fixed, sql.NullInt64{}, sql.NullInt64{}); err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

func (s *Store) SaveDeductionRule(ctx context.Context, r engine.DeductionRule, companyID engine.CompanyID) error {
	if err := r.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	mode, percent, fixed, perMinute, maxMinutes := encodeRate(r.Rate)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO deduction_rules
			(id, company_id, name, deduction_type, mode, percent, fixed_amount, per_minute_rate, max_minutes, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			deduction_type = excluded.deduction_type,
			mode = excluded.mode,
			percent = excluded.percent,
			fixed_amount = excluded.fixed_amount,
			per_minute_rate = excluded.per_minute_rate,
			max_minutes = excluded.max_minutes,
			active = excluded.active`,
		r.ID, string(companyID), r.Name, string(r.Type), mode, percent, fixed, perMinute, maxMinutes, boolInt(r.Active),
	)
	return err
}

func (s *Store) ListDeductionRules(ctx context.Context, companyID engine.CompanyID) ([]engine.DeductionRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, deduction_type, mode, percent, fixed_amount, per_minute_rate, max_minutes, active
		FROM deduction_rules WHERE company_id = ? ORDER BY rowid ASC`,
		string(companyID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []engine.DeductionRule
	for rows.Next() {
		var (
			r                   engine.DeductionRule
			dtype, mode         string
			percent             sql.NullString
			fixed, rate, maxMin sql.NullInt64
			active              int
		)
		if err := rows.Scan(&r.ID, &r.Name, &dtype, &mode, &percent, &fixed, &rate, &maxMin, &active); err != nil {
			return nil, err
		}
		r.Type = engine.DeductionType(dtype)
		r.Active = active != 0
		if r.Rate, err = decodeRate(mode, percent, fixed, rate, maxMin); err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

func (s *Store) DeleteRule(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.deleteByID(ctx, "allowance_rules", id)
	if err == nil {
		return nil
	}
	if err != engine.ErrNotFound {
		return err
	}
	return s.deleteByID(ctx, "deduction_rules", id)
}

// encodeRate flattens a RateSpec into its column values.
func encodeRate(rate engine.RateSpec) (mode string, percent, fixed, perMinute, maxMinutes any) {
	switch spec := rate.(type) {
	case engine.PercentOfBase:
		return spec.Mode(), spec.Percent.String(), nil, nil, nil
	case engine.FixedAmount:
		return spec.Mode(), nil, int64(spec.Amount), nil, nil
	case engine.PerMinute:
		var capVal any
		if spec.MaxMinutes != nil {
			capVal = int64(*spec.MaxMinutes)
		}
		return spec.Mode(), nil, nil, int64(spec.Rate), capVal
	}
	return "", nil, nil, nil, nil
}

func decodeRate(mode string, percent sql.NullString, fixed, perMinute, maxMinutes sql.NullInt64) (engine.RateSpec, error) {
	switch mode {
	case "percent":
		pct, err := decimal.NewFromString(percent.String)
		if err != nil {
			return nil, fmt.Errorf("corrupt percent %q: %w", percent.String, err)
		}
		return engine.PercentOfBase{Percent: pct}, nil
	case "fixed":
		return engine.FixedAmount{Amount: engine.Money(fixed.Int64)}, nil
	case "per_minute":
		spec := engine.PerMinute{Rate: engine.Money(perMinute.Int64)}
		if maxMinutes.Valid {
			capped := int(maxMinutes.Int64)
			spec.MaxMinutes = &capped
		}
		return spec, nil
	}
	return nil, fmt.Errorf("unknown rate mode %q", mode)
}

// =============================================================================
// LEAVE APPLICATIONS
// =============================================================================

func (s *Store) SaveLeaveApplication(ctx context.Context, l engine.LeaveApplication) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leave_applications
			(id, company_id, employee_id, kind, start_date, end_date, approved, paid, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			approved = excluded.approved,
			paid = excluded.paid,
			reason = excluded.reason`,
		l.ID, string(l.CompanyID), string(l.EmployeeID), string(l.Kind),
		l.Start.String(), l.End.String(), boolInt(l.Approved), boolInt(l.Paid), l.Reason,
	)
	return err
}

func (s *Store) ListLeaveApplications(ctx context.Context, companyID engine.CompanyID, employeeID engine.EmployeeID) ([]engine.LeaveApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Empty employeeID means no filter.
	query := `
		SELECT id, company_id, employee_id, kind, start_date, end_date, approved, paid, reason
		FROM leave_applications
		WHERE company_id = ?`
	args := []any{string(companyID)}
	if employeeID != "" {
		query += ` AND employee_id = ?`
		args = append(args, string(employeeID))
	}
	query += ` ORDER BY start_date ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leaves []engine.LeaveApplication
	for rows.Next() {
		var (
			l                       engine.LeaveApplication
			company, employee, kind string
			startStr, endStr        string
			approved, paid          int
			reason                  sql.NullString
		)
		if err := rows.Scan(&l.ID, &company, &employee, &kind, &startStr, &endStr, &approved, &paid, &reason); err != nil {
			return nil, err
		}
		l.CompanyID = engine.CompanyID(company)
		l.EmployeeID = engine.EmployeeID(employee)
		l.Kind = engine.LeaveKind(kind)
		l.Approved = approved != 0
		l.Paid = paid != 0
		l.Reason = reason.String
		if l.Start, err = engine.ParseDate(startStr); err != nil {
			return nil, err
		}
		if l.End, err = engine.ParseDate(endStr); err != nil {
			return nil, err
		}
		leaves = append(leaves, l)
	}
	return leaves, rows.Err()
}

func (s *Store) ApproveLeaveApplication(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `UPDATE leave_applications SET approved = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return engine.ErrNotFound
	}
	return nil
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (s *Store) SaveEmployee(ctx context.Context, e engine.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (id, company_id, name, email, base_salary, hire_date)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			base_salary = excluded.base_salary,
			hire_date = excluded.hire_date`,
		string(e.ID), string(e.CompanyID), e.Name, e.Email, int64(e.BaseSalary), e.HireDate.String(),
	)
	return err
}

func (s *Store) GetEmployee(ctx context.Context, id engine.EmployeeID) (engine.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, company_id, name, email, base_salary, hire_date
		FROM employees WHERE id = ?`, string(id))

	e, err := scanEmployee(row.Scan)
	if err == sql.ErrNoRows {
		return engine.Employee{}, engine.ErrNotFound
	}
	return e, err
}

func (s *Store) ListEmployees(ctx context.Context, companyID engine.CompanyID) ([]engine.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, company_id, name, email, base_salary, hire_date
		FROM employees WHERE company_id = ? ORDER BY id ASC`,
		string(companyID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []engine.Employee
	for rows.Next() {
		e, err := scanEmployee(rows.Scan)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func scanEmployee(scan func(...any) error) (engine.Employee, error) {
	var (
		e           engine.Employee
		id, company string
		email       sql.NullString
		baseSalary  int64
		hireDateStr string
	)
	if err := scan(&id, &company, &e.Name, &email, &baseSalary, &hireDateStr); err != nil {
		return engine.Employee{}, err
	}
	e.ID = engine.EmployeeID(id)
	e.CompanyID = engine.CompanyID(company)
	e.Email = email.String
	e.BaseSalary = engine.Money(baseSalary)
	hireDate, err := engine.ParseDate(hireDateStr)
	if err != nil {
		return engine.Employee{}, err
	}
	e.HireDate = hireDate
	return e, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Store) deleteByID(ctx context.Context, table, id string) error {
	result, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return engine.ErrNotFound
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
