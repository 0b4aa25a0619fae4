package postgres

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Restobar-api/internal/domain/entity"
	"github.com/jhoicas/Restobar-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo bitácora append-only de movimientos (la tabla además rechaza UPDATE/DELETE por trigger).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create agrega un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, from_location_id, to_location_id, type, quantity,
			unit_cost, total_cost, reference, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, nullable(m.FromLocationID), nullable(m.ToLocationID), string(m.Type), m.Quantity,
		m.UnitCost, m.TotalCost, m.Reference, m.Note, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// List movimientos filtrados, ordenados por created_at e id ascendente.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	ds := filteredMovements(f).
		Select("id", "product_id", "from_location_id", "to_location_id", "type", "quantity",
			"unit_cost", "total_cost", "reference", "note", "created_by", "created_at").
		Order(goqu.C("created_at").Asc(), goqu.C("id").Asc())
	ds = page(ds, f.Limit, f.Offset)
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build movement list: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var out []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Count total de movimientos para el mismo filtro (sin paginación).
func (r *MovementRepo) Count(ctx context.Context, f repository.MovementFilter) (int, error) {
	query, args, err := filteredMovements(f).Select(goqu.COUNT("*")).Prepared(true).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build movement count: %w", err)
	}
	var n int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}

// SumForPair suma con signo: entradas al destino suman, salidas del origen restan.
func (r *MovementRepo) SumForPair(ctx context.Context, productID, locationID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN to_location_id = $2 THEN quantity ELSE 0 END), 0)
		     - COALESCE(SUM(CASE WHEN from_location_id = $2 THEN quantity ELSE 0 END), 0)
		FROM stock_movements
		WHERE product_id = $1 AND (from_location_id = $2 OR to_location_id = $2)`
	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, query, productID, locationID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum movements: %w", err)
	}
	return sum, nil
}

func filteredMovements(f repository.MovementFilter) *goqu.SelectDataset {
	ds := dialect.From("stock_movements")
	if f.ProductID != "" {
		ds = ds.Where(goqu.C("product_id").Eq(f.ProductID))
	}
	if f.LocationID != "" {
		ds = ds.Where(goqu.Or(
			goqu.C("from_location_id").Eq(f.LocationID),
			goqu.C("to_location_id").Eq(f.LocationID),
		))
	}
	if f.Type != "" {
		ds = ds.Where(goqu.C("type").Eq(string(f.Type)))
	}
	if f.Reference != "" {
		ds = ds.Where(goqu.C("reference").Eq(f.Reference))
	}
	if f.From != nil {
		ds = ds.Where(goqu.C("created_at").Gte(*f.From))
	}
	if f.To != nil {
		ds = ds.Where(goqu.C("created_at").Lte(*f.To))
	}
	return ds
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var from, to *string
	var typ string
	err := row.Scan(
		&m.ID, &m.ProductID, &from, &to, &typ, &m.Quantity,
		&m.UnitCost, &m.TotalCost, &m.Reference, &m.Note, &m.CreatedBy, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.FromLocationID = deref(from)
	m.ToLocationID = deref(to)
	m.Type = entity.MovementType(typ)
	return &m, nil
}
