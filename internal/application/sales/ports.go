package sales

import (
	"context"

	"github.com/jhoicas/Restobar-api/internal/domain/entity"
)

// SaleEventPublisher publica el snapshot comercial de la venta después del commit.
// Un fallo de publicación no revierte la venta: el evento ya quedó persistido.
type SaleEventPublisher interface {
	Publish(ctx context.Context, ev *entity.SaleEvent) error
}
