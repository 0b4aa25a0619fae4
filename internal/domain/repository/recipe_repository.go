package repository

import (
	"context"

	"github.com/jhoicas/Restobar-api/internal/domain/entity"
)

// RecipeRepository puerto de recetas/BOM.
type RecipeRepository interface {
	// GetActiveByMenuProduct devuelve la receta activa del producto de carta, o nil.
	GetActiveByMenuProduct(ctx context.Context, menuProductID string) (*entity.Recipe, error)
	GetByID(ctx context.Context, id string) (*entity.Recipe, error)
	// Save inserta o reemplaza la receta y sus líneas.
	Save(ctx context.Context, recipe *entity.Recipe) error
	SetLifecycle(ctx context.Context, recipeID string, lc entity.Lifecycle) error
}
