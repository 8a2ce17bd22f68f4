package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/titikpos/payroll-backend-go/internal/domain/attendance"
	"github.com/titikpos/payroll-backend-go/internal/pkg/datetime"
	"github.com/titikpos/payroll-backend-go/internal/service/schedule"
)

// standardShiftHours is the per-shift threshold beyond which worked time
// counts as overtime, and the fallback length for estimating a missing
// clock-out.
const standardShiftHours = 8

var (
	standardShiftDec  = decimal.NewFromInt(standardShiftHours)
	minutesPerHourDec = decimal.NewFromInt(60)
	standardShiftSpan = standardShiftHours * time.Hour
)

// Aggregator loads an employee's shifts for a period and derives the
// attendance summary that feeds the compensation calculation.
type Aggregator struct {
	shiftRepo attendance.ShiftRepository
}

func NewAggregator(shiftRepo attendance.ShiftRepository) *Aggregator {
	return &Aggregator{shiftRepo: shiftRepo}
}

func (a *Aggregator) LoadShifts(ctx context.Context, employeeID, businessID string, start, end time.Time) ([]attendance.ShiftRecord, error) {
	shifts, err := a.shiftRepo.GetByEmployeePeriod(ctx, employeeID, businessID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load shifts: %w", err)
	}
	return shifts, nil
}

// Summarize classifies shifts and derives worked/overtime hours. Only
// present shifts (completed or late) accrue hours; absent rows and any other
// status contribute nothing beyond the raw shift count. Shifts missing a
// clock-out get an estimated checkout (scheduled end time, else clock-in
// plus eight hours) and are recorded as incomplete rather than rejected.
// Absent days are the expected working dates with no present shift, capped
// at expected minus present.
func (a *Aggregator) Summarize(shifts []attendance.ShiftRecord, weekdays map[time.Weekday]bool, start, end time.Time) attendance.Summary {
	summary := attendance.Summary{
		Shifts:        shifts,
		WorkedHours:   decimal.Zero,
		OvertimeHours: decimal.Zero,
	}

	presentDates := make(map[string]bool)

	for _, shift := range shifts {
		summary.ActualWorkingDays++

		date, err := datetime.ParseDate(shift.ShiftDate)
		if err != nil {
			// Undatable rows cannot be attributed to a calendar day; they
			// still count as a worked shift above and are surfaced for audit
			// since the unplaced day pro-rates salary down.
			summary.UnattributedShifts = append(summary.UnattributedShifts, shift)
			continue
		}

		present := shift.Status == attendance.ShiftStatusCompleted || shift.Status == attendance.ShiftStatusLate
		if !present {
			continue
		}

		summary.PresentDays++
		presentDates[date.Format("2006-01-02")] = true

		if shift.Status == attendance.ShiftStatusLate {
			summary.LateCount++
			summary.LateDates = append(summary.LateDates, date)
		}

		hours, incomplete, ok := shiftHours(shift, date)
		if !ok {
			continue
		}
		if incomplete != nil {
			summary.IncompleteShifts = append(summary.IncompleteShifts, *incomplete)
		}

		summary.WorkedHours = summary.WorkedHours.Add(hours)
		if over := hours.Sub(standardShiftDec); over.IsPositive() {
			summary.OvertimeHours = summary.OvertimeHours.Add(over)
		}
	}

	expectedDates := schedule.ExpectedWorkingDates(start, end, weekdays)
	if absent := len(expectedDates) - summary.PresentDays; absent > 0 {
		summary.AbsentDays = absent
	}
	for _, d := range expectedDates {
		if !presentDates[d.Format("2006-01-02")] {
			summary.AbsentDates = append(summary.AbsentDates, d)
		}
	}
	// A present shift on a non-working day can make the unmatched-date list
	// longer than the absent count; the scalar wins, extra dates are dropped.
	if len(summary.AbsentDates) > summary.AbsentDays {
		summary.AbsentDates = summary.AbsentDates[:summary.AbsentDays]
	}

	return summary
}

// shiftHours computes elapsed hours for one shift. Returns the incomplete
// record when the clock-out had to be estimated, and ok=false when the
// clock-in itself is unusable.
func shiftHours(shift attendance.ShiftRecord, date time.Time) (decimal.Decimal, *attendance.IncompleteShift, bool) {
	clockInTime, err := datetime.ParseTimeOfDay(shift.ClockIn)
	if err != nil {
		return decimal.Zero, nil, false
	}
	clockIn := datetime.Combine(date, clockInTime)

	if shift.ClockOut != nil {
		if clockOutTime, err := datetime.ParseTimeOfDay(*shift.ClockOut); err == nil {
			clockOut := overnightAware(date, clockInTime, clockOutTime)
			return elapsedHours(clockIn, clockOut), nil, true
		}
	}

	// Missing or unreadable clock-out: estimate from the configured shift
	// end, else assume a standard-length shift.
	estimated := clockIn.Add(standardShiftSpan)
	if shift.ScheduledEnd != nil {
		if endTime, err := datetime.ParseTimeOfDay(*shift.ScheduledEnd); err == nil {
			estimated = overnightAware(date, clockInTime, endTime)
		}
	}

	hours := elapsedHours(clockIn, estimated)
	return hours, &attendance.IncompleteShift{
		ShiftID:           shift.ID,
		Date:              date,
		ClockIn:           clockIn,
		EstimatedClockOut: estimated,
		EstimatedHours:    hours.Round(2),
	}, true
}

// overnightAware anchors endTime on date, rolling to the next day when the
// end time-of-day is numerically earlier than the start time-of-day.
func overnightAware(date, startTime, endTime time.Time) time.Time {
	anchored := datetime.Combine(date, endTime)
	if datetime.MinutesOfDay(endTime) < datetime.MinutesOfDay(startTime) {
		anchored = anchored.AddDate(0, 0, 1)
	}
	return anchored
}

func elapsedHours(from, to time.Time) decimal.Decimal {
	minutes := int64(to.Sub(from) / time.Minute)
	if minutes < 0 {
		minutes = 0
	}
	return decimal.NewFromInt(minutes).Div(minutesPerHourDec)
}
