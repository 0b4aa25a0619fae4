package repository

import (
	"context"

	"github.com/jhoicas/Restobar-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductFilter filtros de listado de productos.
type ProductFilter struct {
	Category       string
	Type           entity.ProductType
	IncludeRetired bool
	Limit          int
	Offset         int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetBy* devuelven (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// FindByName busca por nombre exacto sin distinguir mayúsculas.
	FindByName(ctx context.Context, name string) (*entity.Product, error)
	// Update no modifica Cost (se maneja vía ledger).
	Update(ctx context.Context, product *entity.Product) error
	// UpdateCost actualiza solo el costo del producto (usado por el motor de inventario).
	UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error
	SetLifecycle(ctx context.Context, productID string, lc entity.Lifecycle) error
	List(ctx context.Context, f ProductFilter) ([]*entity.Product, error)
}
