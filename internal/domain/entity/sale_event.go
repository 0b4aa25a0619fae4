package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleEvent snapshot inmutable de la transacción comercial (no del efecto en inventario).
// Se escribe una sola vez al cerrar la orden y alimenta la analítica.
type SaleEvent struct {
	ID            string          `json:"id"`
	OrderID       string          `json:"order_id"`
	Lines         []SaleEventLine `json:"lines"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method"`
	OpenedAt      time.Time       `json:"opened_at"`
	ClosedAt      time.Time       `json:"closed_at"`
	CreatedAt     time.Time       `json:"created_at"`
}

// SaleEventLine línea vendida tal como quedó en la cuenta.
type SaleEventLine struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}
