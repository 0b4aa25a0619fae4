package repository

import (
	"context"

	"github.com/jhoicas/Restobar-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// InventoryView fila de consulta de stock (registro + datos del producto y la ubicación).
type InventoryView struct {
	ProductID    string
	SKU          string
	ProductName  string
	Category     string
	LocationID   string
	LocationCode string
	Quantity     decimal.Decimal
	AvgCost      decimal.Decimal
	MinQuantity  decimal.Decimal
}

// InventoryFilter filtros de queryInventory.
type InventoryFilter struct {
	LocationID   string
	Category     string
	LowStockOnly bool // quantity <= min_quantity del producto
	Limit        int
	Offset       int
}

// InventoryRepository puerto del stock por (producto, ubicación).
// Solo el ledger escribe; toda escritura viaja con un movimiento en la misma transacción.
type InventoryRepository interface {
	// Get devuelve el registro o uno vacío (Version 0) si no existe.
	Get(ctx context.Context, productID, locationID string) (*entity.InventoryRecord, error)
	// GetForUpdate como Get pero bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, productID, locationID string) (*entity.InventoryRecord, error)
	// Save inserta (Version 0) o actualiza con control optimista sobre Version.
	// Si otro escritor ganó la carrera devuelve domain.ErrConcurrencyConflict.
	// En éxito deja record.Version con el nuevo valor.
	Save(ctx context.Context, record *entity.InventoryRecord) error
	// SumQuantityByProduct stock total del producto en todas las ubicaciones.
	SumQuantityByProduct(ctx context.Context, productID string) (decimal.Decimal, error)
	List(ctx context.Context, f InventoryFilter) ([]InventoryView, error)
}
