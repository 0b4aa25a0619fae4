package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Restobar-api/internal/domain"
	"github.com/jhoicas/Restobar-api/internal/domain/entity"
	"github.com/jhoicas/Restobar-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo stock por (producto, ubicación) con control optimista de versión.
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

// Get obtiene el registro o uno vacío (Version 0) si el par aún no existe.
func (r *InventoryRepo) Get(ctx context.Context, productID, locationID string) (*entity.InventoryRecord, error) {
	query := `
		SELECT product_id, location_id, quantity, avg_cost, version, updated_at
		FROM inventory WHERE product_id = $1 AND location_id = $2`
	return r.get(ctx, query, productID, locationID)
}

// GetForUpdate obtiene el registro y bloquea la fila para update (SELECT FOR UPDATE).
func (r *InventoryRepo) GetForUpdate(ctx context.Context, productID, locationID string) (*entity.InventoryRecord, error) {
	query := `
		SELECT product_id, location_id, quantity, avg_cost, version, updated_at
		FROM inventory WHERE product_id = $1 AND location_id = $2
		FOR UPDATE`
	return r.get(ctx, query, productID, locationID)
}

func (r *InventoryRepo) get(ctx context.Context, query, productID, locationID string) (*entity.InventoryRecord, error) {
	var rec entity.InventoryRecord
	err := r.q.QueryRow(ctx, query, productID, locationID).Scan(
		&rec.ProductID, &rec.LocationID, &rec.Quantity, &rec.AvgCost, &rec.Version, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.InventoryRecord{
				ProductID:  productID,
				LocationID: locationID,
				Quantity:   decimal.Zero,
				AvgCost:    decimal.Zero,
			}, nil
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return &rec, nil
}

// Save inserta (Version 0) o actualiza si la versión no cambió desde la lectura.
// Dos inserciones simultáneas del mismo par, o una versión distinta, son ErrConcurrencyConflict.
func (r *InventoryRepo) Save(ctx context.Context, rec *entity.InventoryRecord) error {
	if rec.IsNew() {
		query := `
			INSERT INTO inventory (product_id, location_id, quantity, avg_cost, version, updated_at)
			VALUES ($1, $2, $3, $4, 1, $5)`
		if _, err := r.q.Exec(ctx, query, rec.ProductID, rec.LocationID, rec.Quantity, rec.AvgCost, rec.UpdatedAt); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: inventario %s/%s creado por otra transacción", domain.ErrConcurrencyConflict, rec.ProductID, rec.LocationID)
			}
			return fmt.Errorf("insert inventory: %w", err)
		}
		rec.Version = 1
		return nil
	}

	query := `
		UPDATE inventory SET quantity = $3, avg_cost = $4, version = version + 1, updated_at = $5
		WHERE product_id = $1 AND location_id = $2 AND version = $6
		RETURNING version`
	var version int64
	err := r.q.QueryRow(ctx, query, rec.ProductID, rec.LocationID, rec.Quantity, rec.AvgCost, rec.UpdatedAt, rec.Version).Scan(&version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: inventario %s/%s versión %d", domain.ErrConcurrencyConflict, rec.ProductID, rec.LocationID, rec.Version)
		}
		return fmt.Errorf("update inventory: %w", err)
	}
	rec.Version = version
	return nil
}

// SumQuantityByProduct stock total del producto en todas las ubicaciones.
func (r *InventoryRepo) SumQuantityByProduct(ctx context.Context, productID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(quantity), 0) FROM inventory WHERE product_id = $1`, productID).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum inventory: %w", err)
	}
	return sum, nil
}

// List snapshot de stock con datos de producto y ubicación.
func (r *InventoryRepo) List(ctx context.Context, f repository.InventoryFilter) ([]repository.InventoryView, error) {
	ds := dialect.From(goqu.T("inventory").As("i")).
		Join(goqu.T("products").As("p"), goqu.On(goqu.Ex{"p.id": goqu.I("i.product_id")})).
		Join(goqu.T("locations").As("l"), goqu.On(goqu.Ex{"l.id": goqu.I("i.location_id")})).
		Select(
			"i.product_id", "p.sku", "p.name", "p.category",
			"i.location_id", "l.code", "i.quantity", "i.avg_cost", "p.min_quantity",
		).
		Order(goqu.I("l.code").Asc(), goqu.I("p.sku").Asc())
	if f.LocationID != "" {
		ds = ds.Where(goqu.Ex{"i.location_id": f.LocationID})
	}
	if f.Category != "" {
		ds = ds.Where(goqu.L("lower(p.category) = lower(?)", f.Category))
	}
	if f.LowStockOnly {
		ds = ds.Where(goqu.I("i.quantity").Lte(goqu.I("p.min_quantity")))
	}
	ds = page(ds, f.Limit, f.Offset)
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build inventory list: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()
	var out []repository.InventoryView
	for rows.Next() {
		var v repository.InventoryView
		if err := rows.Scan(
			&v.ProductID, &v.SKU, &v.ProductName, &v.Category,
			&v.LocationID, &v.LocationCode, &v.Quantity, &v.AvgCost, &v.MinQuantity,
		); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
