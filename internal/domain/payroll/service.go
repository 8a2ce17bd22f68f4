package payroll

import "context"

type PayrollService interface {
	// CalculateForEmployee runs the full pipeline for one employee and
	// persists the result, replacing any prior calculation for the period.
	CalculateForEmployee(ctx context.Context, req CalculateEmployeeRequest) (PayrollDetailResponse, error)

	// GenerateForBusiness runs CalculateForEmployee for every active
	// employee, isolating per-employee failures.
	GenerateForBusiness(ctx context.Context, req GeneratePayrollRequest) (BatchGenerateResponse, error)

	GetRecord(ctx context.Context, id string) (PayrollDetailResponse, error)
	ListRecords(ctx context.Context, filter PayrollFilter) (ListPayrollRecordResponse, error)
}
