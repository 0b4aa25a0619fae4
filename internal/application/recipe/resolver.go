package recipe

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Restobar-api/internal/application/inventory"
	"github.com/jhoicas/Restobar-api/internal/domain"
	costs "github.com/jhoicas/Restobar-api/internal/domain/inventory"
)

// Deduction instrucción de descuento: cuánto de qué producto sale de qué ubicación.
type Deduction struct {
	IngredientProductID string
	LocationID          string
	DeductQuantity      decimal.Decimal
	UnitCost            decimal.Decimal
}

// Resolver traduce la venta de un producto de carta a descuentos de inventario.
// Es el único dueño de la tabla categoría -> ubicación por defecto.
type Resolver struct {
	fallback *costs.FallbackTable
}

// NewResolver construye el resolver con la tabla inyectada desde config.
func NewResolver(fallback *costs.FallbackTable) *Resolver {
	return &Resolver{fallback: fallback}
}

// Fallback expone la tabla para documentarla (logs, endpoint de salud).
func (r *Resolver) Fallback() *costs.FallbackTable { return r.fallback }

// Resolve devuelve los descuentos para vender saleQty unidades de productID.
//   - ENTERTAIN: lista vacía.
//   - receta activa con líneas: una instrucción por línea (saleQty * cantidad por unidad) al costo actual del ingrediente.
//   - sin receta o receta vacía: el propio producto en la ubicación por defecto de su categoría.
func (r *Resolver) Resolve(ctx context.Context, repos inventory.Repos, productID string, saleQty decimal.Decimal) ([]Deduction, error) {
	if !saleQty.IsPositive() {
		return nil, domain.Invalid("quantity", "debe ser mayor que cero")
	}
	product, err := repos.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto", productID)
	}
	if !product.TracksStock() {
		return []Deduction{}, nil
	}

	rcp, err := repos.Recipes.GetActiveByMenuProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if rcp == nil || len(rcp.Lines) == 0 {
		locID, err := r.defaultLocation(ctx, repos, product.Category)
		if err != nil {
			return nil, err
		}
		return []Deduction{{
			IngredientProductID: product.ID,
			LocationID:          locID,
			DeductQuantity:      saleQty,
			UnitCost:            product.Cost,
		}}, nil
	}

	out := make([]Deduction, 0, len(rcp.Lines))
	for _, line := range rcp.Lines {
		ing, err := repos.Products.GetByID(ctx, line.IngredientProductID)
		if err != nil {
			return nil, err
		}
		if ing == nil {
			return nil, domain.NotFound("ingrediente", line.IngredientProductID)
		}
		if !ing.TracksStock() {
			continue
		}
		locID := line.LocationID
		if locID == "" {
			if locID, err = r.defaultLocation(ctx, repos, ing.Category); err != nil {
				return nil, err
			}
		}
		out = append(out, Deduction{
			IngredientProductID: ing.ID,
			LocationID:          locID,
			DeductQuantity:      saleQty.Mul(line.QuantityPerUnit),
			UnitCost:            ing.Cost,
		})
	}
	return out, nil
}

// defaultLocation resuelve el código de la tabla a un ID. Si la ubicación de la categoría
// no existe se usa la ubicación por defecto; si tampoco existe es NotFound.
func (r *Resolver) defaultLocation(ctx context.Context, repos inventory.Repos, category string) (string, error) {
	code := r.fallback.LocationCodeFor(category)
	loc, err := repos.Locations.GetByCode(ctx, code)
	if err != nil {
		return "", err
	}
	if loc == nil && code != r.fallback.Default() {
		loc, err = repos.Locations.GetByCode(ctx, r.fallback.Default())
		if err != nil {
			return "", err
		}
	}
	if loc == nil {
		return "", domain.NotFound("ubicación", code)
	}
	return loc.ID, nil
}
