package payroll

import (
	"context"

	"github.com/titikpos/payroll-backend-go/internal/domain/payroll"
)

// GenerateForBusiness runs the calculation pipeline for every active employee
// of the authenticated business. Failures are isolated per employee: a bad
// record is logged and counted, never aborts the batch. Only context
// cancellation stops the run early.
func (s *PayrollServiceImpl) GenerateForBusiness(ctx context.Context, req payroll.GeneratePayrollRequest) (payroll.BatchGenerateResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.BatchGenerateResponse{}, err
	}

	businessID, err := getBusinessIDFromContext(ctx)
	if err != nil {
		return payroll.BatchGenerateResponse{}, err
	}

	employees, err := s.employeeRepo.GetActiveByBusinessID(ctx, businessID)
	if err != nil {
		return payroll.BatchGenerateResponse{}, err
	}

	s.logger.Info("starting payroll batch",
		"business_id", businessID,
		"period_month", req.PeriodMonth,
		"period_year", req.PeriodYear,
		"employee_count", len(employees),
	)

	opts := req.Options()
	response := payroll.BatchGenerateResponse{
		Records: make([]payroll.PayrollRecordResponse, 0, len(employees)),
	}

	for _, emp := range employees {
		if err := ctx.Err(); err != nil {
			return response, err
		}

		detail, err := s.generateForEmployee(ctx, businessID, emp, req.PeriodMonth, req.PeriodYear, opts)
		if err != nil {
			s.logger.Error("payroll generation failed for employee",
				"employee_id", emp.ID,
				"employee_code", emp.EmployeeCode,
				"error", err,
			)
			response.FailedCount++
			continue
		}

		response.Records = append(response.Records, detail.PayrollRecordResponse)
		response.GeneratedCount++
	}

	s.logger.Info("payroll batch finished",
		"business_id", businessID,
		"generated", response.GeneratedCount,
		"failed", response.FailedCount,
	)

	return response, nil
}
