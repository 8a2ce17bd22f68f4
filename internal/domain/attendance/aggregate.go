package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Summary is the aggregated attendance picture for one employee over a
// payroll period, after normalization and clock-out recovery.
type Summary struct {
	Shifts []ShiftRecord

	// ActualWorkingDays is the raw shift count, informational only;
	// payroll math uses PresentDays.
	ActualWorkingDays int
	PresentDays       int
	LateCount         int
	AbsentDays        int

	WorkedHours   decimal.Decimal
	OvertimeHours decimal.Decimal

	// LateDates and AbsentDates tag penalty line items back to the calendar
	// days they originate from.
	LateDates   []time.Time
	AbsentDates []time.Time

	IncompleteShifts []IncompleteShift

	// UnattributedShifts are rows whose shift date defeated normalization:
	// they count toward ActualWorkingDays but cannot be placed on the
	// calendar, so they earn no presence or hours. Surfaced so a
	// data-quality gap that pro-rates salary down is visible.
	UnattributedShifts []ShiftRecord
}

// IncompleteShift records a shift that was missing a clock-out and had its
// checkout estimated. Kept on the result for audit; never blocks payroll.
type IncompleteShift struct {
	ShiftID           string
	Date              time.Time
	ClockIn           time.Time
	EstimatedClockOut time.Time
	EstimatedHours    decimal.Decimal
}
