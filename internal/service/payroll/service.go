package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
	"github.com/titikpos/payroll-backend-go/internal/domain/employee"
	"github.com/titikpos/payroll-backend-go/internal/domain/payroll"
	attendanceService "github.com/titikpos/payroll-backend-go/internal/service/attendance"
	salesService "github.com/titikpos/payroll-backend-go/internal/service/sales"
	"github.com/titikpos/payroll-backend-go/internal/service/schedule"
)

type PayrollServiceImpl struct {
	payrollRepo   payroll.PayrollRepository
	employeeRepo  employee.EmployeeRepository
	resolver      *schedule.Resolver
	attendanceAgg *attendanceService.Aggregator
	salesAgg      *salesService.Aggregator
	logger        *slog.Logger
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	resolver *schedule.Resolver,
	attendanceAgg *attendanceService.Aggregator,
	salesAgg *salesService.Aggregator,
	logger *slog.Logger,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		payrollRepo:   payrollRepo,
		employeeRepo:  employeeRepo,
		resolver:      resolver,
		attendanceAgg: attendanceAgg,
		salesAgg:      salesAgg,
		logger:        logger,
	}
}

// Helper to get business_id from JWT context
func getBusinessIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	businessID, ok := claims["business_id"].(string)
	if !ok || businessID == "" {
		return "", fmt.Errorf("business_id claim is missing or invalid")
	}

	return businessID, nil
}

func periodBounds(month, year int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

func (s *PayrollServiceImpl) CalculateForEmployee(ctx context.Context, req payroll.CalculateEmployeeRequest) (payroll.PayrollDetailResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollDetailResponse{}, err
	}

	businessID, err := getBusinessIDFromContext(ctx)
	if err != nil {
		return payroll.PayrollDetailResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, businessID)
	if err != nil {
		return payroll.PayrollDetailResponse{}, err
	}

	return s.generateForEmployee(ctx, businessID, emp, req.PeriodMonth, req.PeriodYear, req.Options())
}

// generateForEmployee runs the full pipeline for one employee: schedule
// resolution, attendance aggregation, commission, calculation, then one
// atomic persistence call that replaces any prior result for the period.
func (s *PayrollServiceImpl) generateForEmployee(ctx context.Context, businessID string, emp employee.Employee, month, year int, opts payroll.CalculationOptions) (payroll.PayrollDetailResponse, error) {
	periodStart, periodEnd := periodBounds(month, year)

	shifts, err := s.attendanceAgg.LoadShifts(ctx, emp.ID, businessID, periodStart, periodEnd)
	if err != nil {
		return payroll.PayrollDetailResponse{}, err
	}

	weekdays := s.resolver.WorkingWeekdays(ctx, emp, shifts)
	expectedDates := schedule.ExpectedWorkingDates(periodStart, periodEnd, weekdays)

	summary := s.attendanceAgg.Summarize(shifts, weekdays, periodStart, periodEnd)
	if n := len(summary.UnattributedShifts); n > 0 {
		s.logger.Warn("shifts with unreadable dates excluded from attendance",
			"employee_id", emp.ID,
			"count", n,
		)
	}

	commission, eligibleOrders, err := s.salesAgg.Commission(ctx, emp.ID, businessID, periodStart, periodEnd, emp.CommissionRate)
	if err != nil {
		return payroll.PayrollDetailResponse{}, err
	}

	result := Calculate(CalculationInput{
		PeriodStart:         periodStart,
		PeriodEnd:           periodEnd,
		BaseSalary:          emp.BaseSalary,
		ExpectedWorkingDays: len(expectedDates),
		Attendance:          summary,
		Commission:          commission,
		Options:             opts,
	})

	s.logger.Debug("compensation computed",
		"employee_id", emp.ID,
		"period", fmt.Sprintf("%d-%02d", year, month),
		"present_days", result.PresentDays,
		"absent_days", result.AbsentDays,
		"eligible_orders", eligibleOrders,
		"incomplete_shifts", len(result.IncompleteShifts),
		"net_salary", result.NetSalary.String(),
	)

	record := buildRecord(businessID, emp.ID, month, year, result)
	items := buildLineItems(result)

	persisted, persistedItems, err := s.payrollRepo.ReplacePayroll(ctx, record, items)
	if err != nil {
		return payroll.PayrollDetailResponse{}, fmt.Errorf("failed to persist payroll for employee %s: %w", emp.ID, err)
	}
	if persisted.EmployeeName == nil {
		persisted.EmployeeName = &emp.FullName
	}
	if persisted.EmployeeCode == nil {
		persisted.EmployeeCode = &emp.EmployeeCode
	}

	detail := payroll.PayrollDetailResponse{
		PayrollRecordResponse: mapToRecordResponse(persisted),
		LineItems:             mapToLineItemResponses(persistedItems),
		IncompleteShifts:      mapToIncompleteShiftResponses(result),
	}
	return detail, nil
}

func (s *PayrollServiceImpl) GetRecord(ctx context.Context, id string) (payroll.PayrollDetailResponse, error) {
	businessID, err := getBusinessIDFromContext(ctx)
	if err != nil {
		return payroll.PayrollDetailResponse{}, err
	}

	record, err := s.payrollRepo.GetRecordByID(ctx, id, businessID)
	if err != nil {
		return payroll.PayrollDetailResponse{}, err
	}

	items, err := s.payrollRepo.GetLineItems(ctx, record.ID, businessID)
	if err != nil {
		return payroll.PayrollDetailResponse{}, err
	}

	return payroll.PayrollDetailResponse{
		PayrollRecordResponse: mapToRecordResponse(record),
		LineItems:             mapToLineItemResponses(items),
	}, nil
}

func (s *PayrollServiceImpl) ListRecords(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollRecordResponse, error) {
	businessID, err := getBusinessIDFromContext(ctx)
	if err != nil {
		return payroll.ListPayrollRecordResponse{}, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	records, totalCount, err := s.payrollRepo.ListRecords(ctx, businessID, filter)
	if err != nil {
		return payroll.ListPayrollRecordResponse{}, err
	}

	data := make([]payroll.PayrollRecordResponse, 0, len(records))
	for _, r := range records {
		data = append(data, mapToRecordResponse(r))
	}

	return payroll.ListPayrollRecordResponse{
		Data:       data,
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// ========== RECORD / LINE ITEM CONSTRUCTION ==========

func buildRecord(businessID, employeeID string, month, year int, result payroll.CompensationResult) payroll.PayrollRecord {
	return payroll.PayrollRecord{
		BusinessID:  businessID,
		EmployeeID:  employeeID,
		PeriodMonth: month,
		PeriodYear:  year,
		PeriodStart: result.PeriodStart,
		PeriodEnd:   result.PeriodEnd,

		ExpectedWorkingDays: result.ExpectedWorkingDays,
		ActualWorkingDays:   result.ActualWorkingDays,
		PresentDays:         result.PresentDays,
		AbsentDays:          result.AbsentDays,
		LateCount:           result.LateCount,
		WorkedHours:         result.WorkedHours,
		OvertimeHours:       result.OvertimeHours,

		BaseSalary:         result.BaseSalary,
		ProRatedBaseSalary: result.ProRatedBaseSalary,
		OvertimePay:        result.OvertimePay,
		Commission:         result.Commission,
		Bonus:              result.Bonus,
		Allowance:          result.Allowance,
		LatePenalty:        result.LatePenalty,
		AbsentPenalty:      result.AbsentPenalty,
		OtherDeductions:    result.OtherDeductions,
		GrossSalary:        result.GrossSalary,
		TotalDeductions:    result.TotalDeductions,
		NetSalary:          result.NetSalary,

		IncompleteShiftCount: len(result.IncompleteShifts),
		Status:               payroll.PayrollStatusCalculated,
	}
}

// buildLineItems expands a result into its normalized breakdown: one row per
// non-zero earning or deduction component, with the late and absent
// penalties expanded to one row per occurrence/day tagged with its date.
func buildLineItems(result payroll.CompensationResult) []payroll.PayrollLineItem {
	var items []payroll.PayrollLineItem

	earning := func(component payroll.LineItemComponent, description string, amount decimal.Decimal) {
		if amount.IsZero() {
			return
		}
		items = append(items, payroll.PayrollLineItem{
			Category:    payroll.LineItemCategoryEarning,
			Component:   component,
			Description: description,
			Amount:      amount,
		})
	}

	baseDescription := "Base salary"
	if result.PresentDays < result.ExpectedWorkingDays {
		baseDescription = fmt.Sprintf("Base salary (pro-rated %d/%d days)", result.PresentDays, result.ExpectedWorkingDays)
	}
	earning(payroll.ComponentBaseSalary, baseDescription, result.ProRatedBaseSalary)
	earning(payroll.ComponentOvertime, fmt.Sprintf("Overtime (%s hours)", result.OvertimeHours.String()), result.OvertimePay)
	earning(payroll.ComponentCommission, "Sales commission", result.Commission)
	earning(payroll.ComponentBonus, "Bonus", result.Bonus)
	earning(payroll.ComponentAllowance, "Allowance", result.Allowance)

	items = append(items, expandPenalty(payroll.ComponentLatePenalty, "Late arrival", result.LatePenalty, result.LateDates)...)
	items = append(items, expandPenalty(payroll.ComponentAbsentPenalty, "Absence", result.AbsentPenalty, result.AbsentDates)...)

	if !result.OtherDeductions.IsZero() {
		items = append(items, payroll.PayrollLineItem{
			Category:    payroll.LineItemCategoryDeduction,
			Component:   payroll.ComponentOtherDeduction,
			Description: "Other deductions",
			Amount:      result.OtherDeductions,
		})
	}

	return items
}

// expandPenalty splits a penalty total into per-date rows. The last row
// absorbs the rounding remainder so the rows always sum to the recorded
// scalar exactly.
func expandPenalty(component payroll.LineItemComponent, label string, total decimal.Decimal, dates []time.Time) []payroll.PayrollLineItem {
	n := len(dates)
	if n == 0 || total.IsZero() {
		return nil
	}

	perRow := total.Div(decimal.NewFromInt(int64(n))).Round(2)
	items := make([]payroll.PayrollLineItem, 0, n)
	for i, date := range dates {
		amount := perRow
		if i == n-1 {
			amount = total.Sub(perRow.Mul(decimal.NewFromInt(int64(n - 1))))
		}
		refDate := date
		items = append(items, payroll.PayrollLineItem{
			Category:      payroll.LineItemCategoryDeduction,
			Component:     component,
			Description:   fmt.Sprintf("%s on %s", label, date.Format("2006-01-02")),
			Amount:        amount,
			ReferenceDate: &refDate,
		})
	}
	return items
}

// ========== RESPONSE MAPPING ==========

func mapToRecordResponse(r payroll.PayrollRecord) payroll.PayrollRecordResponse {
	employeeName := ""
	employeeCode := ""
	if r.EmployeeName != nil {
		employeeName = *r.EmployeeName
	}
	if r.EmployeeCode != nil {
		employeeCode = *r.EmployeeCode
	}

	return payroll.PayrollRecordResponse{
		ID:            r.ID,
		PayrollNumber: r.PayrollNumber,
		EmployeeID:    r.EmployeeID,
		EmployeeName:  employeeName,
		EmployeeCode:  employeeCode,
		PeriodMonth:   r.PeriodMonth,
		PeriodYear:    r.PeriodYear,
		PeriodStart:   r.PeriodStart.Format("2006-01-02"),
		PeriodEnd:     r.PeriodEnd.Format("2006-01-02"),

		ExpectedWorkingDays: r.ExpectedWorkingDays,
		ActualWorkingDays:   r.ActualWorkingDays,
		PresentDays:         r.PresentDays,
		AbsentDays:          r.AbsentDays,
		LateCount:           r.LateCount,
		WorkedHours:         r.WorkedHours,
		OvertimeHours:       r.OvertimeHours,

		BaseSalary:         r.BaseSalary,
		ProRatedBaseSalary: r.ProRatedBaseSalary,
		OvertimePay:        r.OvertimePay,
		Commission:         r.Commission,
		Bonus:              r.Bonus,
		Allowance:          r.Allowance,
		LatePenalty:        r.LatePenalty,
		AbsentPenalty:      r.AbsentPenalty,
		OtherDeductions:    r.OtherDeductions,
		GrossSalary:        r.GrossSalary,
		TotalDeductions:    r.TotalDeductions,
		NetSalary:          r.NetSalary,

		IncompleteShiftCount: r.IncompleteShiftCount,
		Status:               string(r.Status),
	}
}

func mapToLineItemResponses(items []payroll.PayrollLineItem) []payroll.LineItemResponse {
	result := make([]payroll.LineItemResponse, 0, len(items))
	for _, item := range items {
		var refDate *string
		if item.ReferenceDate != nil {
			str := item.ReferenceDate.Format("2006-01-02")
			refDate = &str
		}
		result = append(result, payroll.LineItemResponse{
			ID:            item.ID,
			Category:      string(item.Category),
			Component:     string(item.Component),
			Description:   item.Description,
			Amount:        item.Amount,
			ReferenceDate: refDate,
		})
	}
	return result
}

func mapToIncompleteShiftResponses(result payroll.CompensationResult) []payroll.IncompleteShiftResponse {
	if len(result.IncompleteShifts) == 0 {
		return nil
	}
	responses := make([]payroll.IncompleteShiftResponse, 0, len(result.IncompleteShifts))
	for _, inc := range result.IncompleteShifts {
		responses = append(responses, payroll.IncompleteShiftResponse{
			ShiftID:           inc.ShiftID,
			Date:              inc.Date.Format("2006-01-02"),
			ClockIn:           inc.ClockIn.Format("15:04:05"),
			EstimatedClockOut: inc.EstimatedClockOut.Format("2006-01-02 15:04:05"),
			EstimatedHours:    inc.EstimatedHours,
		})
	}
	return responses
}
