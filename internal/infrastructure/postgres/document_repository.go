package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/Restobar-api/internal/domain"
	"github.com/jhoicas/Restobar-api/internal/domain/entity"
	"github.com/jhoicas/Restobar-api/internal/domain/repository"
)

var (
	_ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)
	_ repository.TransferRepository   = (*TransferRepo)(nil)
	_ repository.SaleEventRepository  = (*SaleEventRepo)(nil)
)

// AdjustmentRepo documentos de conteo.
type AdjustmentRepo struct {
	q Querier
}

// NewAdjustmentRepository construye el adaptador.
func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

// Create guarda el conteo y sus líneas (incluidas las de diferencia cero).
func (r *AdjustmentRepo) Create(ctx context.Context, adj *entity.StockAdjustment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_adjustments (id, location_id, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		adj.ID, adj.LocationID, adj.Note, adj.CreatedBy, adj.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert adjustment: %w", err)
	}
	for _, l := range adj.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO stock_adjustment_lines (adjustment_id, product_id, system_qty, counted_qty, diff)
			VALUES ($1, $2, $3, $4, $5)`,
			adj.ID, l.ProductID, l.SystemQty, l.CountedQty, l.Diff,
		)
		if err != nil {
			return fmt.Errorf("insert adjustment line: %w", err)
		}
	}
	return nil
}

// TransferRepo documentos de traslado.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador.
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

// Create guarda el traslado y sus líneas.
func (r *TransferRepo) Create(ctx context.Context, tr *entity.StockTransfer) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_transfers (id, from_location_id, to_location_id, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		tr.ID, tr.FromLocationID, tr.ToLocationID, tr.Note, tr.CreatedBy, tr.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transfer: %w", err)
	}
	for i, it := range tr.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO stock_transfer_items (transfer_id, position, product_id, quantity, unit_cost)
			VALUES ($1, $2, $3, $4, $5)`,
			tr.ID, i+1, it.ProductID, it.Quantity, it.UnitCost,
		)
		if err != nil {
			return fmt.Errorf("insert transfer item: %w", err)
		}
	}
	return nil
}

// SaleEventRepo snapshot comercial de la venta.
type SaleEventRepo struct {
	q Querier
}

// NewSaleEventRepository construye el adaptador.
func NewSaleEventRepository(q Querier) *SaleEventRepo {
	return &SaleEventRepo{q: q}
}

// Create escribe el evento una sola vez por orden.
func (r *SaleEventRepo) Create(ctx context.Context, ev *entity.SaleEvent) error {
	lines, err := json.Marshal(ev.Lines)
	if err != nil {
		return fmt.Errorf("marshal sale event lines: %w", err)
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO sale_events (id, order_id, lines, subtotal, discount, tax, total, payment_method, opened_at, closed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		ev.ID, ev.OrderID, lines, ev.Subtotal, ev.Discount, ev.Tax, ev.Total,
		ev.PaymentMethod, ev.OpenedAt, ev.ClosedAt, ev.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: evento de venta de la orden %s", domain.ErrDuplicate, ev.OrderID)
		}
		return fmt.Errorf("insert sale event: %w", err)
	}
	return nil
}
