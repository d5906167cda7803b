// Package store provides an in-memory engine.Store implementation for
// tests and development.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/payroll-engine/engine"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	events    []record
	holidays  map[engine.CompanyID][]engine.Holiday
	settings  map[engine.CompanyID]engine.AttendanceSettings
	allowance map[engine.CompanyID][]engine.AllowanceRule
	deduction map[engine.CompanyID][]engine.DeductionRule
	leaves    map[engine.CompanyID][]engine.LeaveApplication
	employees map[engine.EmployeeID]engine.Employee
}

type record struct {
	event   engine.AttendanceEvent
	deleted bool
}

var _ engine.Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		holidays:  make(map[engine.CompanyID][]engine.Holiday),
		settings:  make(map[engine.CompanyID]engine.AttendanceSettings),
		allowance: make(map[engine.CompanyID][]engine.AllowanceRule),
		deduction: make(map[engine.CompanyID][]engine.DeductionRule),
		leaves:    make(map[engine.CompanyID][]engine.LeaveApplication),
		employees: make(map[engine.EmployeeID]engine.Employee),
	}
}

// =============================================================================
// EVENTS - append-only with soft delete
// =============================================================================

func (m *Memory) AppendEvent(_ context.Context, e engine.AttendanceEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.events {
		if r.event.ID == e.ID {
			return engine.ErrDuplicateEvent
		}
	}

	// Binary search keeps the log chronological on insert.
	i := sort.Search(len(m.events), func(i int) bool {
		return m.events[i].event.At.After(e.At)
	})
	m.events = append(m.events, record{})
	copy(m.events[i+1:], m.events[i:])
	m.events[i] = record{event: e}
	return nil
}

func (m *Memory) EventsInRange(_ context.Context, companyID engine.CompanyID, employeeID engine.EmployeeID, from, to time.Time) ([]engine.AttendanceEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []engine.AttendanceEvent
	for _, r := range m.events {
		if r.deleted || r.event.CompanyID != companyID || r.event.EmployeeID != employeeID {
			continue
		}
		if !r.event.At.Before(from) && r.event.At.Before(to) {
			result = append(result, r.event)
		}
	}
	return result, nil
}

func (m *Memory) SoftDeleteEvent(_ context.Context, id, deletedBy string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.events {
		if m.events[i].event.ID == id {
			m.events[i].deleted = true
			return nil
		}
	}
	return engine.ErrNotFound
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (m *Memory) SaveHoliday(_ context.Context, h engine.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.holidays[h.CompanyID] {
		if existing.ID == h.ID {
			m.holidays[h.CompanyID][i] = h
			return nil
		}
	}
	m.holidays[h.CompanyID] = append(m.holidays[h.CompanyID], h)
	return nil
}

func (m *Memory) ListHolidays(_ context.Context, companyID engine.CompanyID) ([]engine.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]engine.Holiday(nil), m.holidays[companyID]...), nil
}

func (m *Memory) DeleteHoliday(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for companyID, hs := range m.holidays {
		for i, h := range hs {
			if h.ID == id {
				m.holidays[companyID] = append(hs[:i], hs[i+1:]...)
				return nil
			}
		}
	}
	return engine.ErrNotFound
}

// =============================================================================
// SETTINGS
// =============================================================================

func (m *Memory) SaveSettings(_ context.Context, s engine.AttendanceSettings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[s.CompanyID] = s
	return nil
}

func (m *Memory) GetSettings(_ context.Context, companyID engine.CompanyID) (engine.AttendanceSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.settings[companyID]
	if !ok {
		return engine.AttendanceSettings{}, engine.ErrMissingConfiguration
	}
	return s, nil
}

// =============================================================================
// RULES - definition order is evaluation order
// =============================================================================

func (m *Memory) SaveAllowanceRule(_ context.Context, r engine.AllowanceRule, companyID engine.CompanyID) error {
	if err := r.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.allowance[companyID] {
		if existing.ID == r.ID {
			m.allowance[companyID][i] = r
			return nil
		}
	}
	m.allowance[companyID] = append(m.allowance[companyID], r)
	return nil
}

func (m *Memory) ListAllowanceRules(_ context.Context, companyID engine.CompanyID) ([]engine.AllowanceRule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]engine.AllowanceRule(nil), m.allowance[companyID]...), nil
}

func (m *Memory) SaveDeductionRule(_ context.Context, r engine.DeductionRule, companyID engine.CompanyID) error {
	if err := r.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.deduction[companyID] {
		if existing.ID == r.ID {
			m.deduction[companyID][i] = r
			return nil
		}
	}
	m.deduction[companyID] = append(m.deduction[companyID], r)
	return nil
}

func (m *Memory) ListDeductionRules(_ context.Context, companyID engine.CompanyID) ([]engine.DeductionRule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]engine.DeductionRule(nil), m.deduction[companyID]...), nil
}

func (m *Memory) DeleteRule(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for companyID, rules := range m.allowance {
		for i, r := range rules {
			if r.ID == id {
				m.allowance[companyID] = append(rules[:i], rules[i+1:]...)
				return nil
			}
		}
	}
	for companyID, rules := range m.deduction {
		for i, r := range rules {
			if r.ID == id {
				m.deduction[companyID] = append(rules[:i], rules[i+1:]...)
				return nil
			}
		}
	}
	return engine.ErrNotFound
}

// =============================================================================
// LEAVE APPLICATIONS
// =============================================================================

func (m *Memory) SaveLeaveApplication(_ context.Context, l engine.LeaveApplication) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.leaves[l.CompanyID] {
		if existing.ID == l.ID {
			m.leaves[l.CompanyID][i] = l
			return nil
		}
	}
	m.leaves[l.CompanyID] = append(m.leaves[l.CompanyID], l)
	return nil
}

func (m *Memory) ListLeaveApplications(_ context.Context, companyID engine.CompanyID, employeeID engine.EmployeeID) ([]engine.LeaveApplication, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []engine.LeaveApplication
	for _, l := range m.leaves[companyID] {
		// Empty employeeID means no filter.
		if employeeID == "" || l.EmployeeID == employeeID {
			result = append(result, l)
		}
	}
	return result, nil
}

func (m *Memory) ApproveLeaveApplication(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for companyID, ls := range m.leaves {
		for i, l := range ls {
			if l.ID == id {
				m.leaves[companyID][i].Approved = true
				return nil
			}
		}
	}
	return engine.ErrNotFound
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (m *Memory) SaveEmployee(_ context.Context, e engine.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[e.ID] = e
	return nil
}

func (m *Memory) GetEmployee(_ context.Context, id engine.EmployeeID) (engine.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.employees[id]
	if !ok {
		return engine.Employee{}, engine.ErrNotFound
	}
	return e, nil
}

func (m *Memory) ListEmployees(_ context.Context, companyID engine.CompanyID) ([]engine.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []engine.Employee
	for _, e := range m.employees {
		if e.CompanyID == companyID {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}
