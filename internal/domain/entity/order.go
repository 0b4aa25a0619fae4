package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la orden relevantes para el ledger.
const (
	OrderStatusOpen   = "OPEN"
	OrderStatusClosed = "CLOSED"
)

// Order cuenta de una mesa o venta directa.
type Order struct {
	ID          string
	TableID     string // vacío para venta sin mesa
	Status      string
	DiscountPct decimal.Decimal // 0..100
	TaxRate     decimal.Decimal // fracción, ej. 0.08
	Subtotal    decimal.Decimal
	Discount    decimal.Decimal
	Tax         decimal.Decimal
	Total       decimal.Decimal
	OpenedAt    time.Time
	ClosedAt    *time.Time
	ClosedBy    string
	Items       []OrderItem
}

// OrderItem línea de la cuenta.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Cancelled bool
}

// Recalculate recalcula subtotal, descuento, impuesto y total con las líneas no anuladas.
func (o *Order) Recalculate() {
	hundred := decimal.NewFromInt(100)
	subtotal := decimal.Zero
	for _, it := range o.Items {
		if it.Cancelled {
			continue
		}
		subtotal = subtotal.Add(it.Quantity.Mul(it.UnitPrice))
	}
	discount := subtotal.Mul(o.DiscountPct).Div(hundred).Round(2)
	tax := subtotal.Sub(discount).Mul(o.TaxRate).Round(2)
	o.Subtotal = subtotal.Round(2)
	o.Discount = discount
	o.Tax = tax
	o.Total = o.Subtotal.Sub(discount).Add(tax)
}

// Métodos de pago.
const (
	PaymentCash     = "CASH"
	PaymentCard     = "CARD"
	PaymentTransfer = "TRANSFER"
)

// Payment registro del pago de una orden.
type Payment struct {
	ID        string
	OrderID   string
	Method    string
	Amount    decimal.Decimal
	Tendered  decimal.Decimal
	Change    decimal.Decimal
	CreatedAt time.Time
}

// Estados de mesa.
const (
	TableStatusAvailable = "AVAILABLE"
	TableStatusOccupied  = "OCCUPIED"
)

// DiningTable recurso de mesa/sesión que se libera al cerrar la cuenta.
type DiningTable struct {
	ID     string
	Name   string
	Status string
}
