package payroll

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/titikpos/payroll-backend-go/internal/domain/attendance"
)

// CalculationOptions carries the per-run policy parameters. Pointer fields
// are overrides; when nil the documented default applies:
//
//   - LatePenaltyPerOccurrence: flat 50,000 per late shift
//   - AbsentPenaltyPerDay:      baseSalary / expectedWorkingDays (zero when
//     either input is zero)
//   - OvertimeRate:             baseSalary / (expectedWorkingDays * 8) * 1.5
//     (zero when inputs are zero)
//
// Bonus, Allowance and OtherDeductions default to zero and are always
// caller-supplied.
type CalculationOptions struct {
	LatePenaltyPerOccurrence *decimal.Decimal
	AbsentPenaltyPerDay      *decimal.Decimal
	OvertimeRate             *decimal.Decimal
	Bonus                    decimal.Decimal
	Allowance                decimal.Decimal
	OtherDeductions          decimal.Decimal
}

// CompensationResult is the computed, not yet persisted, outcome of one
// employee-period calculation. All monetary fields are rounded to 2 decimal
// places at construction; the applied per-unit rates are kept so the
// breakdown stays auditable.
type CompensationResult struct {
	PeriodStart time.Time
	PeriodEnd   time.Time

	ExpectedWorkingDays int
	ActualWorkingDays   int
	PresentDays         int
	AbsentDays          int
	LateCount           int

	WorkedHours   decimal.Decimal
	OvertimeHours decimal.Decimal

	BaseSalary         decimal.Decimal
	ProRatedBaseSalary decimal.Decimal
	OvertimePay        decimal.Decimal
	Commission         decimal.Decimal
	Bonus              decimal.Decimal
	Allowance          decimal.Decimal

	LatePenaltyPerOccurrence decimal.Decimal
	AbsentPenaltyPerDay      decimal.Decimal
	OvertimeRate             decimal.Decimal

	LatePenalty     decimal.Decimal
	AbsentPenalty   decimal.Decimal
	OtherDeductions decimal.Decimal

	GrossSalary     decimal.Decimal
	TotalDeductions decimal.Decimal
	NetSalary       decimal.Decimal

	LateDates        []time.Time
	AbsentDates      []time.Time
	IncompleteShifts []attendance.IncompleteShift
}

type PayrollStatus string

const (
	// PayrollStatusCalculated is the only status this service writes;
	// onward states belong to the approval workflow.
	PayrollStatusCalculated PayrollStatus = "calculated"
)

// PayrollRecord - persisted payroll result, one per (employee, year, month).
type PayrollRecord struct {
	ID            string
	PayrollNumber string
	BusinessID    string
	EmployeeID    string
	PeriodMonth   int
	PeriodYear    int
	PeriodStart   time.Time
	PeriodEnd     time.Time

	ExpectedWorkingDays int
	ActualWorkingDays   int
	PresentDays         int
	AbsentDays          int
	LateCount           int
	WorkedHours         decimal.Decimal
	OvertimeHours       decimal.Decimal

	BaseSalary         decimal.Decimal
	ProRatedBaseSalary decimal.Decimal
	OvertimePay        decimal.Decimal
	Commission         decimal.Decimal
	Bonus              decimal.Decimal
	Allowance          decimal.Decimal
	LatePenalty        decimal.Decimal
	AbsentPenalty      decimal.Decimal
	OtherDeductions    decimal.Decimal
	GrossSalary        decimal.Decimal
	TotalDeductions    decimal.Decimal
	NetSalary          decimal.Decimal

	IncompleteShiftCount int
	Status               PayrollStatus
	CreatedAt            time.Time
	UpdatedAt            time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}

type LineItemCategory string

const (
	LineItemCategoryEarning   LineItemCategory = "earning"
	LineItemCategoryDeduction LineItemCategory = "deduction"
)

type LineItemComponent string

const (
	ComponentBaseSalary     LineItemComponent = "base_salary"
	ComponentOvertime       LineItemComponent = "overtime"
	ComponentCommission     LineItemComponent = "commission"
	ComponentBonus          LineItemComponent = "bonus"
	ComponentAllowance      LineItemComponent = "allowance"
	ComponentLatePenalty    LineItemComponent = "late_penalty"
	ComponentAbsentPenalty  LineItemComponent = "absent_penalty"
	ComponentOtherDeduction LineItemComponent = "other_deduction"
)

// PayrollLineItem - one earning or deduction row under a PayrollRecord.
// Penalty components expand to one row per occurrence/day, tagged with the
// originating date via ReferenceDate. Rows are fully replaced on every
// recalculation, never partially updated.
type PayrollLineItem struct {
	ID              string
	PayrollRecordID string
	Category        LineItemCategory
	Component       LineItemComponent
	Description     string
	Amount          decimal.Decimal
	ReferenceDate   *time.Time
	CreatedAt       time.Time
}
