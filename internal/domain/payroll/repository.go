package payroll

import "context"

// PayrollRepository defines data access for payroll records and their line
// items. All methods take businessID to prevent cross-business data access.
type PayrollRepository interface {
	GetRecordByID(ctx context.Context, id string, businessID string) (PayrollRecord, error)
	GetRecordByEmployeePeriod(ctx context.Context, employeeID string, month, year int, businessID string) (PayrollRecord, error)
	GetLineItems(ctx context.Context, recordID string, businessID string) ([]PayrollLineItem, error)
	ListRecords(ctx context.Context, businessID string, filter PayrollFilter) ([]PayrollRecord, int64, error)

	// ReplacePayroll is the unit of work for one calculation: inside a single
	// transaction it upserts the record keyed by (employee, year, month),
	// deletes any prior line items and inserts the new set. Either everything
	// is applied or nothing is.
	ReplacePayroll(ctx context.Context, record PayrollRecord, items []PayrollLineItem) (PayrollRecord, []PayrollLineItem, error)
}
