package dto

import (
	"time"

	"github.com/jhoicas/Restobar-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest abre una cuenta. UnitPrice cero toma el precio del producto.
type CreateOrderRequest struct {
	TableID     string                   `json:"table_id,omitempty"`
	DiscountPct decimal.Decimal          `json:"discount_pct"`
	TaxRate     decimal.Decimal          `json:"tax_rate"`
	Items       []CreateOrderItemRequest `json:"items"`
}

// CreateOrderItemRequest línea de la cuenta.
type CreateOrderItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Cancelled bool            `json:"cancelled,omitempty"`
}

// CloseSaleRequest body para POST /api/orders/:id/close.
type CloseSaleRequest struct {
	Method   string          `json:"method"`
	Tendered decimal.Decimal `json:"tendered"`
}

// OrderResponse salida de una cuenta.
type OrderResponse struct {
	ID          string              `json:"id"`
	TableID     string              `json:"table_id,omitempty"`
	Status      string              `json:"status"`
	DiscountPct decimal.Decimal     `json:"discount_pct"`
	TaxRate     decimal.Decimal     `json:"tax_rate"`
	Subtotal    decimal.Decimal     `json:"subtotal"`
	Discount    decimal.Decimal     `json:"discount"`
	Tax         decimal.Decimal     `json:"tax"`
	Total       decimal.Decimal     `json:"total"`
	OpenedAt    time.Time           `json:"opened_at"`
	ClosedAt    *time.Time          `json:"closed_at,omitempty"`
	Items       []OrderItemResponse `json:"items"`
}

// OrderItemResponse línea de la cuenta.
type OrderItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Cancelled bool            `json:"cancelled"`
}

// CloseSaleResponse orden cerrada, vuelto y advertencias de stock (no bloquean el cierre).
type CloseSaleResponse struct {
	Order         OrderResponse         `json:"order"`
	PaymentID     string                `json:"payment_id"`
	ChangeAmount  decimal.Decimal       `json:"change_amount"`
	StockWarnings []entity.StockWarning `json:"stock_warnings"`
}

// ToOrderResponse convierte la entidad a DTO.
func ToOrderResponse(o *entity.Order) OrderResponse {
	resp := OrderResponse{
		ID:          o.ID,
		TableID:     o.TableID,
		Status:      o.Status,
		DiscountPct: o.DiscountPct,
		TaxRate:     o.TaxRate,
		Subtotal:    o.Subtotal,
		Discount:    o.Discount,
		Tax:         o.Tax,
		Total:       o.Total,
		OpenedAt:    o.OpenedAt,
		ClosedAt:    o.ClosedAt,
		Items:       make([]OrderItemResponse, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Cancelled: it.Cancelled,
		})
	}
	return resp
}
