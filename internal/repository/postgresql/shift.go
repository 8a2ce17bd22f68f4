package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/titikpos/payroll-backend-go/internal/domain/attendance"
	"github.com/titikpos/payroll-backend-go/internal/pkg/database"
)

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) attendance.ShiftRepository {
	return &shiftRepository{db: db}
}

func (r *shiftRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, businessID string, start, end time.Time) ([]attendance.ShiftRecord, error) {
	q := GetQuerier(ctx, r.db)

	// shift_date is a text column that sometimes carries a full datetime, so
	// the range filter compares only the first ten characters.
	query := `
		SELECT id, business_id, outlet_id, employee_id, shift_date, clock_in,
			   clock_out, scheduled_end, status, created_at, updated_at, deleted_at
		FROM shifts
		WHERE employee_id = $1 AND business_id = $2
		  AND LEFT(shift_date, 10) BETWEEN $3 AND $4
		  AND deleted_at IS NULL
		ORDER BY shift_date, clock_in
	`

	rows, err := q.Query(ctx, query, employeeID, businessID,
		start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	var shifts []attendance.ShiftRecord
	for rows.Next() {
		var s attendance.ShiftRecord
		err := rows.Scan(
			&s.ID, &s.BusinessID, &s.OutletID, &s.EmployeeID, &s.ShiftDate, &s.ClockIn,
			&s.ClockOut, &s.ScheduledEnd, &s.Status, &s.CreatedAt, &s.UpdatedAt, &s.DeletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}

	return shifts, rows.Err()
}
