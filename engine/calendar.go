package engine

// =============================================================================
// CALENDAR - Working-day resolution (weekday rules + company holidays)
// =============================================================================

// Holiday is a company-defined non-working date range, inclusive on both
// ends. Ranges may overlap; overlap is idempotent.
type Holiday struct {
	ID          string
	CompanyID   CompanyID
	Start       Date
	End         Date
	Description string
}

// Contains reports whether d falls inside the holiday range (inclusive).
func (h Holiday) Contains(d Date) bool {
	return h.Start.BeforeOrEqual(d) && d.BeforeOrEqual(h.End)
}

// Calendar resolves whether a date is a working day. Pure function of its
// inputs; no error conditions.
type Calendar struct {
	Workweek Workweek
	Holidays []Holiday
}

// NewCalendar builds a calendar from a workweek and holiday set. A zero
// workweek falls back to Mon-Fri.
func NewCalendar(workweek Workweek, holidays []Holiday) Calendar {
	if workweek == (Workweek{}) {
		workweek = DefaultWorkweek()
	}
	return Calendar{Workweek: workweek, Holidays: holidays}
}

// IsWorkingDay reports whether attendance is expected on d: a weekday per
// the workweek, and not inside any holiday range.
func (c Calendar) IsWorkingDay(d Date) bool {
	if !c.Workweek.IsWorkday(d.Weekday()) {
		return false
	}
	for _, h := range c.Holidays {
		if h.Contains(d) {
			return false
		}
	}
	return true
}
