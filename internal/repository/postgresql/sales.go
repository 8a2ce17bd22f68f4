package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/titikpos/payroll-backend-go/internal/domain/sales"
	"github.com/titikpos/payroll-backend-go/internal/pkg/database"
)

type orderRepository struct {
	db *database.DB
}

func NewOrderRepository(db *database.DB) sales.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, businessID string, start, end time.Time) ([]sales.Order, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, business_id, outlet_id, handled_by, order_number, total,
			   payment_status, status, created_at, deleted_at
		FROM orders
		WHERE handled_by = $1 AND business_id = $2
		  AND created_at >= $3 AND created_at < $4
		  AND deleted_at IS NULL
		ORDER BY created_at
	`

	rows, err := q.Query(ctx, query, employeeID, businessID, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []sales.Order
	for rows.Next() {
		var o sales.Order
		err := rows.Scan(
			&o.ID, &o.BusinessID, &o.OutletID, &o.HandledBy, &o.OrderNumber, &o.Total,
			&o.PaymentStatus, &o.Status, &o.CreatedAt, &o.DeletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}
