package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/titikpos/payroll-backend-go/internal/domain/outlet"
	"github.com/titikpos/payroll-backend-go/internal/pkg/database"
)

type outletRepository struct {
	db *database.DB
}

func NewOutletRepository(db *database.DB) outlet.OutletRepository {
	return &outletRepository{db: db}
}

func (r *outletRepository) GetByID(ctx context.Context, id string, businessID string) (outlet.Outlet, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, business_id, name, address, working_days, created_at, updated_at, deleted_at
		FROM outlets
		WHERE id = $1 AND business_id = $2 AND deleted_at IS NULL
	`

	var o outlet.Outlet
	err := q.QueryRow(ctx, query, id, businessID).Scan(
		&o.ID, &o.BusinessID, &o.Name, &o.Address, &o.WorkingDays,
		&o.CreatedAt, &o.UpdatedAt, &o.DeletedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return outlet.Outlet{}, outlet.ErrOutletNotFound
		}
		return outlet.Outlet{}, fmt.Errorf("failed to get outlet: %w", err)
	}

	return o, nil
}
