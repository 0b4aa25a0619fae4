package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Restobar-api/internal/application/dto"
	"github.com/jhoicas/Restobar-api/internal/application/inventory"
	"github.com/jhoicas/Restobar-api/internal/application/recipe"
	"github.com/jhoicas/Restobar-api/internal/domain"
	"github.com/jhoicas/Restobar-api/internal/domain/entity"
)

// RecipeUseCase mantiene las recetas (BOM) de los productos de carta.
type RecipeUseCase struct {
	tx       inventory.TxRunner
	repos    inventory.Repos
	resolver *recipe.Resolver
}

// NewRecipeUseCase construye el caso de uso.
func NewRecipeUseCase(tx inventory.TxRunner, repos inventory.Repos, resolver *recipe.Resolver) *RecipeUseCase {
	return &RecipeUseCase{tx: tx, repos: repos, resolver: resolver}
}

// Save crea o reemplaza la receta activa del producto de carta. Líneas vacías = descontar el propio producto.
func (uc *RecipeUseCase) Save(ctx context.Context, in dto.SaveRecipeRequest) (*dto.RecipeResponse, error) {
	if in.MenuProductID == "" {
		return nil, domain.Invalid("menu_product_id", "obligatorio")
	}
	for _, l := range in.Lines {
		if l.IngredientProductID == "" {
			return nil, domain.Invalid("ingredient_product_id", "obligatorio")
		}
		if !l.QuantityPerUnit.IsPositive() {
			return nil, domain.Invalid("quantity_per_unit", "debe ser mayor que cero")
		}
	}

	var out *entity.Recipe
	err := uc.tx.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		menu, err := repos.Products.GetByID(ctx, in.MenuProductID)
		if err != nil {
			return err
		}
		if menu == nil {
			return domain.NotFound("producto", in.MenuProductID)
		}
		for _, l := range in.Lines {
			ing, err := repos.Products.GetByID(ctx, l.IngredientProductID)
			if err != nil {
				return err
			}
			if ing == nil {
				return domain.NotFound("ingrediente", l.IngredientProductID)
			}
			if l.LocationID != "" {
				loc, err := repos.Locations.GetByID(ctx, l.LocationID)
				if err != nil {
					return err
				}
				if loc == nil {
					return domain.NotFound("ubicación", l.LocationID)
				}
			}
		}

		now := time.Now().UTC()
		rcp, err := repos.Recipes.GetActiveByMenuProduct(ctx, in.MenuProductID)
		if err != nil {
			return err
		}
		if rcp == nil {
			rcp = &entity.Recipe{ID: uuid.New().String(), MenuProductID: in.MenuProductID, Lifecycle: entity.LifecycleActive, CreatedAt: now}
		}
		rcp.Name = in.Name
		if rcp.Name == "" {
			rcp.Name = menu.Name
		}
		rcp.UpdatedAt = now
		rcp.Lines = make([]entity.RecipeLine, 0, len(in.Lines))
		for i, l := range in.Lines {
			rcp.Lines = append(rcp.Lines, entity.RecipeLine{
				Position:            i + 1,
				IngredientProductID: l.IngredientProductID,
				LocationID:          l.LocationID,
				QuantityPerUnit:     l.QuantityPerUnit,
				UnitLabel:           l.UnitLabel,
			})
		}
		if err := repos.Recipes.Save(ctx, rcp); err != nil {
			return err
		}
		out = rcp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toRecipeResponse(out), nil
}

// Retire retira la receta; desde ese momento el producto cae en la ubicación por defecto.
func (uc *RecipeUseCase) Retire(ctx context.Context, id string) error {
	rcp, err := uc.repos.Recipes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rcp == nil {
		return domain.NotFound("receta", id)
	}
	return uc.repos.Recipes.SetLifecycle(ctx, id, entity.LifecycleRetired)
}

// Preview muestra qué descontaría la venta de qty unidades, sin escribir nada.
func (uc *RecipeUseCase) Preview(ctx context.Context, productID string, qty decimal.Decimal) ([]dto.DeductionDTO, error) {
	deductions, err := uc.resolver.Resolve(ctx, uc.repos, productID, qty)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DeductionDTO, 0, len(deductions))
	for _, d := range deductions {
		out = append(out, dto.DeductionDTO{
			IngredientProductID: d.IngredientProductID,
			LocationID:          d.LocationID,
			DeductQuantity:      d.DeductQuantity,
			UnitCost:            d.UnitCost,
		})
	}
	return out, nil
}

func toRecipeResponse(r *entity.Recipe) *dto.RecipeResponse {
	lines := make([]dto.RecipeLineRequest, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, dto.RecipeLineRequest{
			IngredientProductID: l.IngredientProductID,
			LocationID:          l.LocationID,
			QuantityPerUnit:     l.QuantityPerUnit,
			UnitLabel:           l.UnitLabel,
		})
	}
	return &dto.RecipeResponse{
		ID:            r.ID,
		MenuProductID: r.MenuProductID,
		Name:          r.Name,
		Lifecycle:     string(r.Lifecycle),
		Lines:         lines,
	}
}
