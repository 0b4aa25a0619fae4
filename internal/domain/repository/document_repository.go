package repository

import (
	"context"

	"github.com/jhoicas/Restobar-api/internal/domain/entity"
)

// AdjustmentRepository guarda el documento de conteo (auditoría de diferencias).
type AdjustmentRepository interface {
	Create(ctx context.Context, adj *entity.StockAdjustment) error
}

// TransferRepository guarda el documento de traslado.
type TransferRepository interface {
	Create(ctx context.Context, tr *entity.StockTransfer) error
}

// SaleEventRepository guarda el snapshot comercial de la venta (escritura única).
type SaleEventRepository interface {
	Create(ctx context.Context, ev *entity.SaleEvent) error
}
