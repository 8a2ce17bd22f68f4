package outlet

import "time"

type Outlet struct {
	ID         string
	BusinessID string
	Name       string
	Address    *string
	// WorkingDays is the stored weekly pattern: comma-separated weekday
	// indices, 0=Sunday..6=Saturday (e.g. "1,2,3,4,5"). Older rows may wrap
	// the list in JSON-array brackets. Nil or unparsable patterns fall back
	// to Monday-Friday at resolution time.
	WorkingDays *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}
