package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a sales transaction attributed to the employee who handled it.
// Read-only here; the POS order flow owns these rows.
type Order struct {
	ID            string
	BusinessID    string
	OutletID      *string
	HandledBy     string // employee id
	OrderNumber   string
	Total         decimal.Decimal
	PaymentStatus PaymentStatus
	Status        OrderStatus
	CreatedAt     time.Time
	DeletedAt     *time.Time
}

type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusRefund  PaymentStatus = "refunded"
	PaymentStatusPartial PaymentStatus = "partial"
)

type OrderStatus string

const (
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// CommissionEligible reports whether the order counts toward sales
// commission: settled payment and a non-cancelled lifecycle status.
func (o Order) CommissionEligible() bool {
	if o.PaymentStatus != PaymentStatusPaid {
		return false
	}
	switch o.Status {
	case OrderStatusCompleted, OrderStatusConfirmed, OrderStatusPreparing, OrderStatusReady:
		return true
	}
	return false
}
