package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Cost inicia en 0 y solo lo mueve el ledger.
type CreateProductRequest struct {
	SKU              string          `json:"sku" validate:"required,min=1,max=100"`
	Name             string          `json:"name" validate:"required,min=1,max=200"`
	Category         string          `json:"category"`
	Unit             string          `json:"unit" validate:"required"`
	SecondaryUnit    string          `json:"secondary_unit"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
	Price            decimal.Decimal `json:"price"`
	MinQuantity      decimal.Decimal `json:"min_quantity"`
	Type             string          `json:"type" validate:"required"`
}

// UpdateProductRequest entrada para actualizar un producto (sin Cost ni Stock).
type UpdateProductRequest struct {
	Name             *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Category         *string          `json:"category"`
	Price            *decimal.Decimal `json:"price"`
	MinQuantity      *decimal.Decimal `json:"min_quantity"`
	SecondaryUnit    *string          `json:"secondary_unit"`
	ConversionFactor *decimal.Decimal `json:"conversion_factor"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID               string          `json:"id"`
	SKU              string          `json:"sku"`
	Name             string          `json:"name"`
	Category         string          `json:"category"`
	Unit             string          `json:"unit"`
	SecondaryUnit    string          `json:"secondary_unit,omitempty"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
	Cost             decimal.Decimal `json:"cost"`
	Price            decimal.Decimal `json:"price"`
	MinQuantity      decimal.Decimal `json:"min_quantity"`
	Type             string          `json:"type"`
	Lifecycle        string          `json:"lifecycle"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
