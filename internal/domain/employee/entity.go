package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID               string
	BusinessID       string
	OutletID         *string
	FullName         string
	EmployeeCode     string
	PhoneNumber      *string
	BaseSalary       decimal.Decimal
	CommissionRate   decimal.Decimal // percentage, e.g. 2.5 means 2.5%
	EmploymentStatus EmploymentStatus
	HireDate         *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)
