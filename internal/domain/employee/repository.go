package employee

import "context"

// EmployeeRepository defines read access to employee records. All methods
// take businessID to prevent cross-business data access.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string, businessID string) (Employee, error)
	GetActiveByBusinessID(ctx context.Context, businessID string) ([]Employee, error)
}
