package sales

import (
	"context"
	"time"
)

// OrderRepository reads orders for commission attribution. Soft-deleted rows
// are excluded at the query level; eligibility filtering happens in the
// commission aggregator so it stays unit-testable.
type OrderRepository interface {
	GetByEmployeePeriod(ctx context.Context, employeeID string, businessID string, start, end time.Time) ([]Order, error)
}
