package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/titikpos/payroll-backend-go/internal/domain/sales"
)

var oneHundred = decimal.NewFromInt(100)

// Aggregator computes sales commission for an employee over a period.
type Aggregator struct {
	orderRepo sales.OrderRepository
}

func NewAggregator(orderRepo sales.OrderRepository) *Aggregator {
	return &Aggregator{orderRepo: orderRepo}
}

// Commission sums the totals of the employee's commission-eligible orders in
// [start, end] and applies rate as a percentage. A non-positive rate
// short-circuits to zero without touching the store. The eligible order
// count is returned alongside for logging.
func (a *Aggregator) Commission(ctx context.Context, employeeID, businessID string, start, end time.Time, rate decimal.Decimal) (decimal.Decimal, int, error) {
	if !rate.IsPositive() {
		return decimal.Zero, 0, nil
	}

	orders, err := a.orderRepo.GetByEmployeePeriod(ctx, employeeID, businessID, start, end)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("failed to load orders: %w", err)
	}

	total := decimal.Zero
	eligible := 0
	for _, order := range orders {
		if !order.CommissionEligible() {
			continue
		}
		total = total.Add(order.Total)
		eligible++
	}

	return total.Mul(rate).Div(oneHundred), eligible, nil
}
