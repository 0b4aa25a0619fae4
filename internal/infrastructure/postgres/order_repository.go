package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Restobar-api/internal/domain"
	"github.com/jhoicas/Restobar-api/internal/domain/entity"
	"github.com/jhoicas/Restobar-api/internal/domain/repository"
)

var (
	_ repository.OrderRepository = (*OrderRepo)(nil)
	_ repository.TableRepository = (*TableRepo)(nil)
)

const orderColumns = `id, table_id, status, discount_pct, tax_rate, subtotal, discount, tax, total, opened_at, closed_at, closed_by`

// OrderRepo cuentas, sus líneas y pagos.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserta la cabecera y las líneas.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `INSERT INTO orders (` + orderColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		o.ID, nullable(o.TableID), o.Status, o.DiscountPct, o.TaxRate,
		o.Subtotal, o.Discount, o.Tax, o.Total, o.OpenedAt, o.ClosedAt, o.ClosedBy,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	for i, it := range o.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO order_items (id, order_id, position, product_id, quantity, unit_price, cancelled)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			it.ID, o.ID, i+1, it.ProductID, it.Quantity, it.UnitPrice, it.Cancelled,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la orden con sus líneas.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetForUpdate bloquea la cabecera para que dos cajas no cierren la misma cuenta.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *OrderRepo) get(ctx context.Context, query, id string) (*entity.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	var o entity.Order
	var tableID *string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &tableID, &o.Status, &o.DiscountPct, &o.TaxRate,
		&o.Subtotal, &o.Discount, &o.Tax, &o.Total, &o.OpenedAt, &o.ClosedAt, &o.ClosedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	o.TableID = deref(tableID)

	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price, cancelled
		FROM order_items WHERE order_id = $1 ORDER BY position`, o.ID)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Cancelled); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	return &o, rows.Err()
}

// Close persiste totales y estado CLOSED. Solo cierra órdenes abiertas.
func (r *OrderRepo) Close(ctx context.Context, o *entity.Order) error {
	query := `
		UPDATE orders SET status = $2, subtotal = $3, discount = $4, tax = $5, total = $6, closed_at = $7, closed_by = $8
		WHERE id = $1 AND status = 'OPEN'`
	tag, err := r.q.Exec(ctx, query, o.ID, o.Status, o.Subtotal, o.Discount, o.Tax, o.Total, o.ClosedAt, o.ClosedBy)
	if err != nil {
		return fmt.Errorf("close order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: la orden %s ya no está abierta", domain.ErrConflict, o.ID)
	}
	return nil
}

// CreatePayment registra el pago.
func (r *OrderRepo) CreatePayment(ctx context.Context, p *entity.Payment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO payments (id, order_id, method, amount, tendered, change_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.OrderID, p.Method, p.Amount, p.Tendered, p.Change, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// TableRepo mesas.
type TableRepo struct {
	q Querier
}

// NewTableRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTableRepository(q Querier) *TableRepo {
	return &TableRepo{q: q}
}

// GetByID obtiene la mesa.
func (r *TableRepo) GetByID(ctx context.Context, id string) (*entity.DiningTable, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	var t entity.DiningTable
	err := r.q.QueryRow(ctx, `SELECT id, name, status FROM dining_tables WHERE id = $1`, id).Scan(&t.ID, &t.Name, &t.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get table: %w", err)
	}
	return &t, nil
}

// SetStatus ocupa o libera la mesa.
func (r *TableRepo) SetStatus(ctx context.Context, id, status string) error {
	tag, err := r.q.Exec(ctx, `UPDATE dining_tables SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set table status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("mesa", id)
	}
	return nil
}
