package repository

import (
	"context"

	"github.com/jhoicas/Restobar-api/internal/domain/entity"
)

// OrderRepository puerto de órdenes (cuentas) y sus pagos.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetForUpdate bloquea la cabecera para que dos cajas no cierren la misma cuenta.
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	// Close persiste totales, estado CLOSED, ClosedAt y ClosedBy.
	Close(ctx context.Context, order *entity.Order) error
	CreatePayment(ctx context.Context, payment *entity.Payment) error
}

// TableRepository puerto de mesas.
type TableRepository interface {
	GetByID(ctx context.Context, id string) (*entity.DiningTable, error)
	SetStatus(ctx context.Context, id, status string) error
}
