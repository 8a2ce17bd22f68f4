package outlet

import "context"

type OutletRepository interface {
	GetByID(ctx context.Context, id string, businessID string) (Outlet, error)
}
