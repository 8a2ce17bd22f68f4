package attendance

import "time"

// ShiftRecord is one attendance event as stored by the capture subsystem.
// Date and time columns are text and frequently dirty (a full datetime in a
// date column, a date prefix on a time column), so the raw strings are kept
// on the entity and normalized by the attendance aggregator.
type ShiftRecord struct {
	ID           string
	BusinessID   string
	OutletID     *string
	EmployeeID   string
	ShiftDate    string  // expected "2006-01-02", may carry a time suffix
	ClockIn      string  // expected "15:04:05", may carry a date prefix
	ClockOut     *string // nil for incomplete shifts
	ScheduledEnd *string // configured end-time, used to estimate a missing clock-out
	Status       ShiftStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

type ShiftStatus string

const (
	ShiftStatusCompleted ShiftStatus = "completed"
	ShiftStatusLate      ShiftStatus = "late"
	ShiftStatusAbsent    ShiftStatus = "absent"
)
