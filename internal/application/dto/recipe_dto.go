package dto

import "github.com/shopspring/decimal"

// SaveRecipeRequest crea o reemplaza la receta de un producto de carta.
type SaveRecipeRequest struct {
	MenuProductID string              `json:"menu_product_id" validate:"required"`
	Name          string              `json:"name"`
	Lines         []RecipeLineRequest `json:"lines"`
}

// RecipeLineRequest línea del BOM.
type RecipeLineRequest struct {
	IngredientProductID string          `json:"ingredient_product_id"`
	LocationID          string          `json:"location_id"`
	QuantityPerUnit     decimal.Decimal `json:"quantity_per_unit"`
	UnitLabel           string          `json:"unit_label"`
}

// RecipeResponse salida de una receta.
type RecipeResponse struct {
	ID            string              `json:"id"`
	MenuProductID string              `json:"menu_product_id"`
	Name          string              `json:"name"`
	Lifecycle     string              `json:"lifecycle"`
	Lines         []RecipeLineRequest `json:"lines"`
}

// DeductionDTO instrucción de descuento resuelta para una venta (vista previa del BOM).
type DeductionDTO struct {
	IngredientProductID string          `json:"ingredient_product_id"`
	LocationID          string          `json:"location_id"`
	DeductQuantity      decimal.Decimal `json:"deduct_quantity"`
	UnitCost            decimal.Decimal `json:"unit_cost"`
}
