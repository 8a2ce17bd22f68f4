package attendance

import (
	"context"
	"time"
)

// ShiftRepository reads shift records written by the attendance capture
// subsystem. This service never writes shifts.
type ShiftRepository interface {
	GetByEmployeePeriod(ctx context.Context, employeeID string, businessID string, start, end time.Time) ([]ShiftRecord, error)
}
