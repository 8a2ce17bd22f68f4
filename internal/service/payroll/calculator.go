package payroll

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/titikpos/payroll-backend-go/internal/domain/attendance"
	"github.com/titikpos/payroll-backend-go/internal/domain/payroll"
)

const standardShiftHours = 8

// defaultLatePenalty is the flat per-occurrence late penalty applied when no
// override is supplied.
var defaultLatePenalty = decimal.NewFromInt(50000)

var (
	overtimeMultiplier = decimal.RequireFromString("1.5")
	standardShiftDec   = decimal.NewFromInt(standardShiftHours)
)

// CalculationInput bundles everything Calculate needs. It is assembled by
// the payroll service from the schedule resolver, attendance aggregator and
// commission aggregator.
type CalculationInput struct {
	PeriodStart         time.Time
	PeriodEnd           time.Time
	BaseSalary          decimal.Decimal
	ExpectedWorkingDays int
	Attendance          attendance.Summary
	Commission          decimal.Decimal
	Options             payroll.CalculationOptions
}

// Calculate is the deterministic core of the engine: a pure function from
// schedule, attendance, commission and policy options to a compensation
// result. Monetary fields are rounded to 2 decimal places only here, at
// construction; all intermediate arithmetic stays unrounded.
func Calculate(in CalculationInput) payroll.CompensationResult {
	att := in.Attendance
	expected := decimal.NewFromInt(int64(in.ExpectedWorkingDays))

	latePenaltyRate := defaultLatePenalty
	if in.Options.LatePenaltyPerOccurrence != nil {
		latePenaltyRate = *in.Options.LatePenaltyPerOccurrence
	}

	absentPenaltyRate := decimal.Zero
	if in.Options.AbsentPenaltyPerDay != nil {
		absentPenaltyRate = *in.Options.AbsentPenaltyPerDay
	} else if in.BaseSalary.IsPositive() && in.ExpectedWorkingDays > 0 {
		// One day's pro-rated wage.
		absentPenaltyRate = in.BaseSalary.Div(expected)
	}

	overtimeRate := decimal.Zero
	if in.Options.OvertimeRate != nil {
		overtimeRate = *in.Options.OvertimeRate
	} else if in.BaseSalary.IsPositive() && in.ExpectedWorkingDays > 0 {
		// Time and a half on the derived hourly rate.
		hourlyRate := in.BaseSalary.Div(expected.Mul(standardShiftDec))
		overtimeRate = hourlyRate.Mul(overtimeMultiplier)
	}

	// Pro-rate only when there is at least one absence; never upward.
	proRated := in.BaseSalary
	if att.PresentDays < in.ExpectedWorkingDays && in.ExpectedWorkingDays > 0 {
		proRated = in.BaseSalary.Div(expected).Mul(decimal.NewFromInt(int64(att.PresentDays)))
	}

	overtimePay := att.OvertimeHours.Mul(overtimeRate)
	latePenalty := decimal.NewFromInt(int64(att.LateCount)).Mul(latePenaltyRate)
	absentPenalty := decimal.NewFromInt(int64(att.AbsentDays)).Mul(absentPenaltyRate)

	gross := proRated.Add(overtimePay).Add(in.Commission).Add(in.Options.Bonus).Add(in.Options.Allowance)
	deductions := latePenalty.Add(absentPenalty).Add(in.Options.OtherDeductions)

	net := gross.Sub(deductions)
	if net.IsNegative() {
		net = decimal.Zero
	}

	return payroll.CompensationResult{
		PeriodStart: in.PeriodStart,
		PeriodEnd:   in.PeriodEnd,

		ExpectedWorkingDays: in.ExpectedWorkingDays,
		ActualWorkingDays:   att.ActualWorkingDays,
		PresentDays:         att.PresentDays,
		AbsentDays:          att.AbsentDays,
		LateCount:           att.LateCount,

		WorkedHours:   att.WorkedHours.Round(2),
		OvertimeHours: att.OvertimeHours.Round(2),

		BaseSalary:         in.BaseSalary.Round(2),
		ProRatedBaseSalary: proRated.Round(2),
		OvertimePay:        overtimePay.Round(2),
		Commission:         in.Commission.Round(2),
		Bonus:              in.Options.Bonus.Round(2),
		Allowance:          in.Options.Allowance.Round(2),

		LatePenaltyPerOccurrence: latePenaltyRate.Round(2),
		AbsentPenaltyPerDay:      absentPenaltyRate.Round(2),
		OvertimeRate:             overtimeRate.Round(2),

		LatePenalty:     latePenalty.Round(2),
		AbsentPenalty:   absentPenalty.Round(2),
		OtherDeductions: in.Options.OtherDeductions.Round(2),

		GrossSalary:     gross.Round(2),
		TotalDeductions: deductions.Round(2),
		NetSalary:       net.Round(2),

		LateDates:        att.LateDates,
		AbsentDates:      att.AbsentDates,
		IncompleteShifts: att.IncompleteShifts,
	}
}
