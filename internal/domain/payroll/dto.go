package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/titikpos/payroll-backend-go/internal/pkg/validator"
)

// ========== REQUESTS ==========

// PolicyOverrides are the optional per-run policy parameters shared by the
// single and batch requests. Absent fields fall back to the computed
// defaults documented on CalculationOptions.
type PolicyOverrides struct {
	LatePenaltyPerOccurrence *decimal.Decimal `json:"late_penalty_per_occurrence,omitempty"`
	AbsentPenaltyPerDay      *decimal.Decimal `json:"absent_penalty_per_day,omitempty"`
	OvertimeRate             *decimal.Decimal `json:"overtime_rate,omitempty"`
	Bonus                    *decimal.Decimal `json:"bonus,omitempty"`
	Allowance                *decimal.Decimal `json:"allowance,omitempty"`
	OtherDeductions          *decimal.Decimal `json:"other_deductions,omitempty"`
}

func (p *PolicyOverrides) validate(errs validator.ValidationErrors) validator.ValidationErrors {
	if p.LatePenaltyPerOccurrence != nil && p.LatePenaltyPerOccurrence.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "late_penalty_per_occurrence", Message: "must be non-negative"})
	}
	if p.AbsentPenaltyPerDay != nil && p.AbsentPenaltyPerDay.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "absent_penalty_per_day", Message: "must be non-negative"})
	}
	if p.OvertimeRate != nil && p.OvertimeRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "overtime_rate", Message: "must be non-negative"})
	}
	if p.Bonus != nil && p.Bonus.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "bonus", Message: "must be non-negative"})
	}
	if p.Allowance != nil && p.Allowance.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "allowance", Message: "must be non-negative"})
	}
	if p.OtherDeductions != nil && p.OtherDeductions.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "other_deductions", Message: "must be non-negative"})
	}
	return errs
}

// Options converts the overrides to CalculationOptions.
func (p *PolicyOverrides) Options() CalculationOptions {
	opts := CalculationOptions{
		LatePenaltyPerOccurrence: p.LatePenaltyPerOccurrence,
		AbsentPenaltyPerDay:      p.AbsentPenaltyPerDay,
		OvertimeRate:             p.OvertimeRate,
	}
	if p.Bonus != nil {
		opts.Bonus = *p.Bonus
	}
	if p.Allowance != nil {
		opts.Allowance = *p.Allowance
	}
	if p.OtherDeductions != nil {
		opts.OtherDeductions = *p.OtherDeductions
	}
	return opts
}

type CalculateEmployeeRequest struct {
	EmployeeID  string `json:"employee_id"`
	PeriodMonth int    `json:"period_month"`
	PeriodYear  int    `json:"period_year"`
	PolicyOverrides
}

func (r *CalculateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if r.PeriodMonth < 1 || r.PeriodMonth > 12 {
		errs = append(errs, validator.ValidationError{Field: "period_month", Message: "must be between 1 and 12"})
	}
	if r.PeriodYear < 2020 {
		errs = append(errs, validator.ValidationError{Field: "period_year", Message: "must be 2020 or later"})
	}
	errs = r.PolicyOverrides.validate(errs)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type GeneratePayrollRequest struct {
	PeriodMonth int `json:"period_month"`
	PeriodYear  int `json:"period_year"`
	PolicyOverrides
}

func (r *GeneratePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.PeriodMonth < 1 || r.PeriodMonth > 12 {
		errs = append(errs, validator.ValidationError{Field: "period_month", Message: "must be between 1 and 12"})
	}
	if r.PeriodYear < 2020 {
		errs = append(errs, validator.ValidationError{Field: "period_year", Message: "must be 2020 or later"})
	}
	errs = r.PolicyOverrides.validate(errs)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayrollFilter struct {
	PeriodMonth *int    `json:"period_month,omitempty"`
	PeriodYear  *int    `json:"period_year,omitempty"`
	EmployeeID  *string `json:"employee_id,omitempty"`
	Page        int     `json:"page"`
	Limit       int     `json:"limit"`
}

// ========== RESPONSES ==========

type PayrollRecordResponse struct {
	ID            string `json:"id"`
	PayrollNumber string `json:"payroll_number"`
	EmployeeID    string `json:"employee_id"`
	EmployeeName  string `json:"employee_name"`
	EmployeeCode  string `json:"employee_code"`
	PeriodMonth   int    `json:"period_month"`
	PeriodYear    int    `json:"period_year"`
	PeriodStart   string `json:"period_start"`
	PeriodEnd     string `json:"period_end"`

	ExpectedWorkingDays int             `json:"expected_working_days"`
	ActualWorkingDays   int             `json:"actual_working_days"`
	PresentDays         int             `json:"present_days"`
	AbsentDays          int             `json:"absent_days"`
	LateCount           int             `json:"late_count"`
	WorkedHours         decimal.Decimal `json:"worked_hours"`
	OvertimeHours       decimal.Decimal `json:"overtime_hours"`

	BaseSalary         decimal.Decimal `json:"base_salary"`
	ProRatedBaseSalary decimal.Decimal `json:"pro_rated_base_salary"`
	OvertimePay        decimal.Decimal `json:"overtime_pay"`
	Commission         decimal.Decimal `json:"commission"`
	Bonus              decimal.Decimal `json:"bonus"`
	Allowance          decimal.Decimal `json:"allowance"`
	LatePenalty        decimal.Decimal `json:"late_penalty"`
	AbsentPenalty      decimal.Decimal `json:"absent_penalty"`
	OtherDeductions    decimal.Decimal `json:"other_deductions"`
	GrossSalary        decimal.Decimal `json:"gross_salary"`
	TotalDeductions    decimal.Decimal `json:"total_deductions"`
	NetSalary          decimal.Decimal `json:"net_salary"`

	IncompleteShiftCount int    `json:"incomplete_shift_count"`
	Status               string `json:"status"`
}

type LineItemResponse struct {
	ID            string          `json:"id"`
	Category      string          `json:"category"`
	Component     string          `json:"component"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	ReferenceDate *string         `json:"reference_date,omitempty"`
}

type IncompleteShiftResponse struct {
	ShiftID           string          `json:"shift_id"`
	Date              string          `json:"date"`
	ClockIn           string          `json:"clock_in"`
	EstimatedClockOut string          `json:"estimated_clock_out"`
	EstimatedHours    decimal.Decimal `json:"estimated_hours"`
}

// PayrollDetailResponse is a record together with its line items, ready for
// display or printing.
type PayrollDetailResponse struct {
	PayrollRecordResponse
	LineItems        []LineItemResponse        `json:"line_items"`
	IncompleteShifts []IncompleteShiftResponse `json:"incomplete_shifts,omitempty"`
}

type ListPayrollRecordResponse struct {
	Data       []PayrollRecordResponse `json:"data"`
	TotalCount int64                   `json:"total_count"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
}

// BatchGenerateResponse aggregates a batch run. Failures are reported only
// in aggregate; per-employee errors are logged, never returned.
type BatchGenerateResponse struct {
	Records        []PayrollRecordResponse `json:"records"`
	GeneratedCount int                     `json:"generated_count"`
	FailedCount    int                     `json:"failed_count"`
}
