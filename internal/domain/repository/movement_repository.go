package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Restobar-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// MovementFilter filtros de queryMovements. LocationID coincide con origen o destino.
type MovementFilter struct {
	ProductID  string
	LocationID string
	Type       entity.MovementType
	From       *time.Time
	To         *time.Time
	Reference  string
	Limit      int
	Offset     int
}

// MovementRepository bitácora append-only: no hay Update ni Delete.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// List ordena por created_at, id ascendente.
	List(ctx context.Context, f MovementFilter) ([]*entity.StockMovement, error)
	Count(ctx context.Context, f MovementFilter) (int, error)
	// SumForPair suma con signo (+destino, -origen) de los movimientos del par.
	SumForPair(ctx context.Context, productID, locationID string) (decimal.Decimal, error)
}
