package repository

import (
	"context"

	"github.com/jhoicas/Restobar-api/internal/domain/entity"
)

// LocationRepository define el puerto de persistencia para Location (DIP).
// No existe Update de Code: es inmutable.
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	GetByCode(ctx context.Context, code string) (*entity.Location, error)
	List(ctx context.Context, includeRetired bool) ([]*entity.Location, error)
	SetLifecycle(ctx context.Context, locationID string, lc entity.Lifecycle) error
}
