package schedule

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/titikpos/payroll-backend-go/internal/domain/attendance"
	"github.com/titikpos/payroll-backend-go/internal/domain/employee"
	"github.com/titikpos/payroll-backend-go/internal/domain/outlet"
)

// Resolver determines which weekdays count as expected working days for an
// employee. Missing or malformed outlet configuration is never an error; it
// falls back to a Monday-Friday pattern.
type Resolver struct {
	outletRepo outlet.OutletRepository
}

func NewResolver(outletRepo outlet.OutletRepository) *Resolver {
	return &Resolver{outletRepo: outletRepo}
}

// DefaultWorkingWeekdays is the Monday-Friday fallback pattern.
func DefaultWorkingWeekdays() map[time.Weekday]bool {
	return map[time.Weekday]bool{
		time.Monday:    true,
		time.Tuesday:   true,
		time.Wednesday: true,
		time.Thursday:  true,
		time.Friday:    true,
	}
}

// WorkingWeekdays resolves the working-day pattern for emp. Preference
// order: the employee's primary outlet, then the outlet of the first shift
// in the period, then the default pattern.
func (r *Resolver) WorkingWeekdays(ctx context.Context, emp employee.Employee, shifts []attendance.ShiftRecord) map[time.Weekday]bool {
	if emp.OutletID != nil {
		if days, ok := r.outletPattern(ctx, *emp.OutletID, emp.BusinessID); ok {
			return days
		}
	}

	for _, s := range shifts {
		if s.OutletID == nil {
			continue
		}
		if days, ok := r.outletPattern(ctx, *s.OutletID, emp.BusinessID); ok {
			return days
		}
		break
	}

	return DefaultWorkingWeekdays()
}

func (r *Resolver) outletPattern(ctx context.Context, outletID, businessID string) (map[time.Weekday]bool, bool) {
	o, err := r.outletRepo.GetByID(ctx, outletID, businessID)
	if err != nil {
		return nil, false
	}
	return ParsePattern(o.WorkingDays)
}

// ParsePattern parses a stored weekly pattern: comma-separated weekday
// indices (0=Sunday..6=Saturday), tolerating JSON-array brackets and
// whitespace. Unparsable tokens are skipped; an empty result reports !ok so
// the caller falls back to the default.
func ParsePattern(raw *string) (map[time.Weekday]bool, bool) {
	if raw == nil {
		return nil, false
	}

	s := strings.TrimSpace(*raw)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if s == "" {
		return nil, false
	}

	days := make(map[time.Weekday]bool)
	for _, token := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(token))
		if err != nil || n < 0 || n > 6 {
			continue
		}
		days[time.Weekday(n)] = true
	}
	if len(days) == 0 {
		return nil, false
	}
	return days, true
}

// ExpectedWorkingDates walks every calendar day in [start, end] and returns
// the ones whose weekday is in the pattern.
func ExpectedWorkingDates(start, end time.Time, weekdays map[time.Weekday]bool) []time.Time {
	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if weekdays[d.Weekday()] {
			dates = append(dates, d)
		}
	}
	return dates
}
