package attendance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/titikpos/payroll-backend-go/internal/domain/attendance"
	"github.com/titikpos/payroll-backend-go/internal/service/schedule"
)

// Monday 2025-03-03 through Sunday 2025-03-09: five expected working days
// under the default Monday-Friday pattern.
var (
	weekStart = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	weekEnd   = time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
)

func strPtr(s string) *string { return &s }

func decEqual(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, actual.Equal(decimal.RequireFromString(expected)),
		"expected %s, got %s", expected, actual.String())
}

func completedShift(id, date, in, out string) attendance.ShiftRecord {
	return attendance.ShiftRecord{
		ID:         id,
		EmployeeID: "emp-1",
		ShiftDate:  date,
		ClockIn:    in,
		ClockOut:   strPtr(out),
		Status:     attendance.ShiftStatusCompleted,
	}
}

func TestSummarize_Classification(t *testing.T) {
	agg := NewAggregator(nil)
	shifts := []attendance.ShiftRecord{
		completedShift("s1", "2025-03-03", "08:00:00", "17:00:00"),
		{ID: "s2", ShiftDate: "2025-03-04", ClockIn: "08:30:00", ClockOut: strPtr("17:00:00"), Status: attendance.ShiftStatusLate},
		{ID: "s3", ShiftDate: "2025-03-05", ClockIn: "", Status: attendance.ShiftStatusAbsent},
	}

	sum := agg.Summarize(shifts, schedule.DefaultWorkingWeekdays(), weekStart, weekEnd)

	assert.Equal(t, 3, sum.ActualWorkingDays)
	assert.Equal(t, 2, sum.PresentDays)
	assert.Equal(t, 1, sum.LateCount)
	// 5 expected - 2 present
	assert.Equal(t, 3, sum.AbsentDays)
	require.Len(t, sum.LateDates, 1)
	assert.Equal(t, "2025-03-04", sum.LateDates[0].Format("2006-01-02"))
	require.Len(t, sum.AbsentDates, 3)
	assert.Equal(t, "2025-03-05", sum.AbsentDates[0].Format("2006-01-02"))
	assert.Equal(t, "2025-03-07", sum.AbsentDates[2].Format("2006-01-02"))
}

func TestSummarize_WorkedAndOvertimeHours(t *testing.T) {
	agg := NewAggregator(nil)
	shifts := []attendance.ShiftRecord{
		completedShift("s1", "2025-03-03", "08:00:00", "16:00:00"), // 8h, no OT
		completedShift("s2", "2025-03-04", "08:00:00", "18:30:00"), // 10.5h, 2.5h OT
	}

	sum := agg.Summarize(shifts, schedule.DefaultWorkingWeekdays(), weekStart, weekEnd)

	decEqual(t, "18.5", sum.WorkedHours)
	decEqual(t, "2.5", sum.OvertimeHours)
	assert.Empty(t, sum.IncompleteShifts)
}

func TestSummarize_OvernightShift(t *testing.T) {
	agg := NewAggregator(nil)
	shifts := []attendance.ShiftRecord{
		completedShift("s1", "2025-03-03", "22:00:00", "06:00:00"),
	}

	sum := agg.Summarize(shifts, schedule.DefaultWorkingWeekdays(), weekStart, weekEnd)

	decEqual(t, "8", sum.WorkedHours)
	decEqual(t, "0", sum.OvertimeHours)
}

func TestSummarize_MissingClockOutUsesScheduledEnd(t *testing.T) {
	agg := NewAggregator(nil)
	shifts := []attendance.ShiftRecord{
		{
			ID:           "s1",
			ShiftDate:    "2025-03-03",
			ClockIn:      "08:00:00",
			ScheduledEnd: strPtr("17:00:00"),
			Status:       attendance.ShiftStatusCompleted,
		},
	}

	sum := agg.Summarize(shifts, schedule.DefaultWorkingWeekdays(), weekStart, weekEnd)

	decEqual(t, "9", sum.WorkedHours)
	decEqual(t, "1", sum.OvertimeHours)
	require.Len(t, sum.IncompleteShifts, 1)
	inc := sum.IncompleteShifts[0]
	assert.Equal(t, "s1", inc.ShiftID)
	assert.Equal(t, "17:00:00", inc.EstimatedClockOut.Format("15:04:05"))
	decEqual(t, "9", inc.EstimatedHours)
}

func TestSummarize_MissingClockOutDefaultsToEightHours(t *testing.T) {
	agg := NewAggregator(nil)
	shifts := []attendance.ShiftRecord{
		{
			ID:        "s1",
			ShiftDate: "2025-03-03",
			ClockIn:   "08:00:00",
			Status:    attendance.ShiftStatusCompleted,
		},
	}

	sum := agg.Summarize(shifts, schedule.DefaultWorkingWeekdays(), weekStart, weekEnd)

	decEqual(t, "8", sum.WorkedHours)
	decEqual(t, "0", sum.OvertimeHours)
	require.Len(t, sum.IncompleteShifts, 1)
	inc := sum.IncompleteShifts[0]
	assert.Equal(t, "16:00:00", inc.EstimatedClockOut.Format("15:04:05"))
	decEqual(t, "8", inc.EstimatedHours)
}

func TestSummarize_NormalizesDirtyDateTimeFields(t *testing.T) {
	agg := NewAggregator(nil)
	shifts := []attendance.ShiftRecord{
		{
			ID:        "s1",
			ShiftDate: "2025-03-03 08:00:00",         // datetime in the date column
			ClockIn:   "2025-03-03 08:00:00",         // date prefix on the time column
			ClockOut:  strPtr("2025-03-03 17:30:00"), // same
			Status:    attendance.ShiftStatusCompleted,
		},
	}

	sum := agg.Summarize(shifts, schedule.DefaultWorkingWeekdays(), weekStart, weekEnd)

	assert.Equal(t, 1, sum.PresentDays)
	decEqual(t, "9.5", sum.WorkedHours)
	decEqual(t, "1.5", sum.OvertimeHours)
}

func TestSummarize_FullAttendanceHasNoAbsence(t *testing.T) {
	agg := NewAggregator(nil)
	var shifts []attendance.ShiftRecord
	for d := 3; d <= 7; d++ {
		date := time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		shifts = append(shifts, completedShift("s"+date, date, "09:00:00", "17:00:00"))
	}

	sum := agg.Summarize(shifts, schedule.DefaultWorkingWeekdays(), weekStart, weekEnd)

	assert.Equal(t, 5, sum.PresentDays)
	assert.Equal(t, 0, sum.AbsentDays)
	assert.Empty(t, sum.AbsentDates)
}

func TestSummarize_NonPresentStatusesAccrueNoHours(t *testing.T) {
	agg := NewAggregator(nil)
	shifts := []attendance.ShiftRecord{
		{ID: "s1", ShiftDate: "2025-03-03", ClockIn: "08:00:00", ClockOut: strPtr("17:00:00"), Status: attendance.ShiftStatusAbsent},
		{ID: "s2", ShiftDate: "2025-03-04", ClockIn: "08:00:00", ClockOut: strPtr("18:00:00"), Status: "scheduled"},
	}

	sum := agg.Summarize(shifts, schedule.DefaultWorkingWeekdays(), weekStart, weekEnd)

	assert.Equal(t, 2, sum.ActualWorkingDays)
	assert.Equal(t, 0, sum.PresentDays)
	decEqual(t, "0", sum.WorkedHours)
	decEqual(t, "0", sum.OvertimeHours)
	assert.Empty(t, sum.IncompleteShifts)
}

func TestSummarize_SurfacesShiftsWithUnreadableDates(t *testing.T) {
	agg := NewAggregator(nil)
	shifts := []attendance.ShiftRecord{
		completedShift("s1", "2025-03-03", "09:00:00", "17:00:00"),
		completedShift("s2", "not a date", "09:00:00", "17:00:00"),
	}

	sum := agg.Summarize(shifts, schedule.DefaultWorkingWeekdays(), weekStart, weekEnd)

	assert.Equal(t, 2, sum.ActualWorkingDays)
	assert.Equal(t, 1, sum.PresentDays)
	decEqual(t, "8", sum.WorkedHours)
	require.Len(t, sum.UnattributedShifts, 1)
	assert.Equal(t, "s2", sum.UnattributedShifts[0].ID)
}

func TestSummarize_WeekendShiftDoesNotMaskWeekdayAbsence(t *testing.T) {
	agg := NewAggregator(nil)
	shifts := []attendance.ShiftRecord{
		completedShift("s1", "2025-03-03", "09:00:00", "17:00:00"),
		completedShift("s2", "2025-03-04", "09:00:00", "17:00:00"),
		completedShift("s3", "2025-03-05", "09:00:00", "17:00:00"),
		completedShift("s4", "2025-03-06", "09:00:00", "17:00:00"),
		completedShift("s5", "2025-03-08", "09:00:00", "17:00:00"), // Saturday
	}

	sum := agg.Summarize(shifts, schedule.DefaultWorkingWeekdays(), weekStart, weekEnd)

	assert.Equal(t, 5, sum.PresentDays)
	// Scalar rule: max(0, expected - present) = 0, so the unmatched Friday
	// does not produce an absent line item either.
	assert.Equal(t, 0, sum.AbsentDays)
	assert.Empty(t, sum.AbsentDates)
}
