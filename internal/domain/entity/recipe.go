package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe asocia un producto de carta a su lista de materiales (BOM).
// Una receta sin líneas significa "descontar el propio producto".
type Recipe struct {
	ID            string
	MenuProductID string
	Name          string
	Lifecycle     Lifecycle
	Lines         []RecipeLine
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RecipeLine una línea del BOM: cuánto de un ingrediente, y de qué ubicación, por unidad vendida.
type RecipeLine struct {
	Position            int
	IngredientProductID string
	LocationID          string
	QuantityPerUnit     decimal.Decimal
	UnitLabel           string
}
