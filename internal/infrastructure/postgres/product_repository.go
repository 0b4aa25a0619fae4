package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Restobar-api/internal/domain"
	"github.com/jhoicas/Restobar-api/internal/domain/entity"
	"github.com/jhoicas/Restobar-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, sku, name, category, unit, secondary_unit, conversion_factor, cost, price, min_quantity, type, lifecycle, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. Cost inicia en 0.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.SKU, p.Name, p.Category, p.Unit, p.SecondaryUnit, p.ConversionFactor,
		p.Cost, p.Price, p.MinQuantity, string(p.Type), string(p.Lifecycle), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID. Un ID que no es UUID no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetBySKU obtiene un producto por SKU.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE sku = $1`, sku)
}

// FindByName busca por nombre exacto sin distinguir mayúsculas; con nombres repetidos gana el menor SKU.
func (r *ProductRepo) FindByName(ctx context.Context, name string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE lower(name) = lower(trim($1)) ORDER BY sku LIMIT 1`, name)
}

func (r *ProductRepo) getOne(ctx context.Context, query string, arg any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update actualiza datos descriptivos. No toca cost, sku ni lifecycle.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET name = $2, category = $3, unit = $4, secondary_unit = $5, conversion_factor = $6,
			price = $7, min_quantity = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Category, p.Unit, p.SecondaryUnit, p.ConversionFactor, p.Price, p.MinQuantity, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("producto", p.ID)
	}
	return nil
}

// UpdateCost actualiza solo el costo (lo usa el ledger).
func (r *ProductRepo) UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE products SET cost = $2, updated_at = now() WHERE id = $1`, productID, cost)
	if err != nil {
		return fmt.Errorf("update product cost: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("producto", productID)
	}
	return nil
}

// SetLifecycle activa o retira el producto.
func (r *ProductRepo) SetLifecycle(ctx context.Context, productID string, lc entity.Lifecycle) error {
	tag, err := r.q.Exec(ctx, `UPDATE products SET lifecycle = $2, updated_at = now() WHERE id = $1`, productID, string(lc))
	if err != nil {
		return fmt.Errorf("set product lifecycle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("producto", productID)
	}
	return nil
}

// List lista productos con filtros opcionales, ordenados por SKU.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	where := goqu.Ex{}
	if f.Type != "" {
		where["type"] = string(f.Type)
	}
	if !f.IncludeRetired {
		where["lifecycle"] = string(entity.LifecycleActive)
	}
	ds := dialect.From("products").
		Select(goqu.L(productColumns)).
		Where(where).
		Order(goqu.C("sku").Asc())
	if f.Category != "" {
		ds = ds.Where(goqu.L("lower(category) = lower(?)", f.Category))
	}
	ds = page(ds, f.Limit, f.Offset)
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build product list: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var typ, lc string
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Category, &p.Unit, &p.SecondaryUnit, &p.ConversionFactor,
		&p.Cost, &p.Price, &p.MinQuantity, &typ, &lc, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Type = entity.ProductType(typ)
	p.Lifecycle = entity.Lifecycle(lc)
	return &p, nil
}
