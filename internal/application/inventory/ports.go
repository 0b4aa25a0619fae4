package inventory

import (
	"context"

	"github.com/jhoicas/Restobar-api/internal/domain/repository"
)

// Repos agrupa los repositorios del ledger. El TxRunner entrega una instancia atada a la
// transacción; fuera de ella se usa una instancia atada al pool (solo lecturas de validación).
type Repos struct {
	Movements   repository.MovementRepository
	Inventory   repository.InventoryRepository
	Products    repository.ProductRepository
	Locations   repository.LocationRepository
	Recipes     repository.RecipeRepository
	Orders      repository.OrderRepository
	Tables      repository.TableRepository
	Adjustments repository.AdjustmentRepository
	Transfers   repository.TransferRepository
	SaleEvents  repository.SaleEventRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de inventario: si fn retorna error se hace Rollback.
// El ctx que recibe fn lleva el timeout del evento de negocio.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error
}
