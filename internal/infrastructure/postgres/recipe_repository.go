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

var _ repository.RecipeRepository = (*RecipeRepo)(nil)

// RecipeRepo recetas y sus líneas (BOM).
type RecipeRepo struct {
	q Querier
}

// NewRecipeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRecipeRepository(q Querier) *RecipeRepo {
	return &RecipeRepo{q: q}
}

// GetActiveByMenuProduct receta activa del producto de carta, o nil.
func (r *RecipeRepo) GetActiveByMenuProduct(ctx context.Context, menuProductID string) (*entity.Recipe, error) {
	query := `
		SELECT id, menu_product_id, name, lifecycle, created_at, updated_at
		FROM recipes WHERE menu_product_id = $1 AND lifecycle = 'ACTIVE'`
	return r.getOne(ctx, query, menuProductID)
}

// GetByID obtiene una receta (activa o retirada) con sus líneas.
func (r *RecipeRepo) GetByID(ctx context.Context, id string) (*entity.Recipe, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	query := `
		SELECT id, menu_product_id, name, lifecycle, created_at, updated_at
		FROM recipes WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *RecipeRepo) getOne(ctx context.Context, query, arg string) (*entity.Recipe, error) {
	var rc entity.Recipe
	var lc string
	err := r.q.QueryRow(ctx, query, arg).Scan(&rc.ID, &rc.MenuProductID, &rc.Name, &lc, &rc.CreatedAt, &rc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	rc.Lifecycle = entity.Lifecycle(lc)

	rows, err := r.q.Query(ctx, `
		SELECT position, ingredient_product_id, location_id, quantity_per_unit, unit_label
		FROM recipe_lines WHERE recipe_id = $1 ORDER BY position`, rc.ID)
	if err != nil {
		return nil, fmt.Errorf("get recipe lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.RecipeLine
		var loc *string
		if err := rows.Scan(&l.Position, &l.IngredientProductID, &loc, &l.QuantityPerUnit, &l.UnitLabel); err != nil {
			return nil, fmt.Errorf("scan recipe line: %w", err)
		}
		l.LocationID = deref(loc)
		rc.Lines = append(rc.Lines, l)
	}
	return &rc, rows.Err()
}

// Save inserta o actualiza la cabecera y reemplaza todas las líneas.
func (r *RecipeRepo) Save(ctx context.Context, rc *entity.Recipe) error {
	query := `
		INSERT INTO recipes (id, menu_product_id, name, lifecycle, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, lifecycle = EXCLUDED.lifecycle, updated_at = EXCLUDED.updated_at`
	if _, err := r.q.Exec(ctx, query, rc.ID, rc.MenuProductID, rc.Name, string(rc.Lifecycle), rc.CreatedAt, rc.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("upsert recipe: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM recipe_lines WHERE recipe_id = $1`, rc.ID); err != nil {
		return fmt.Errorf("delete recipe lines: %w", err)
	}
	for _, l := range rc.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO recipe_lines (recipe_id, position, ingredient_product_id, location_id, quantity_per_unit, unit_label)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			rc.ID, l.Position, l.IngredientProductID, nullable(l.LocationID), l.QuantityPerUnit, l.UnitLabel,
		)
		if err != nil {
			return fmt.Errorf("insert recipe line: %w", err)
		}
	}
	return nil
}

// SetLifecycle activa o retira la receta.
func (r *RecipeRepo) SetLifecycle(ctx context.Context, recipeID string, lc entity.Lifecycle) error {
	tag, err := r.q.Exec(ctx, `UPDATE recipes SET lifecycle = $2, updated_at = now() WHERE id = $1`, recipeID, string(lc))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("set recipe lifecycle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("receta", recipeID)
	}
	return nil
}
