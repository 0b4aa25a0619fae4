package dto

import (
	"time"

	"github.com/jhoicas/Restobar-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ReceiveStockRequest body para POST /api/inventory/receipts.
// Type es PURCHASE (por defecto) u OPENING.
type ReceiveStockRequest struct {
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	SourceDoc  string          `json:"source_doc"`
	Type       string          `json:"type,omitempty"`
	Note       string          `json:"note,omitempty"`
}

// ReceiveStockResponse nueva cantidad y costo promedio tras la recepción.
type ReceiveStockResponse struct {
	MovementID  string          `json:"movement_id"`
	ProductID   string          `json:"product_id"`
	LocationID  string          `json:"location_id"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
	NewAvgCost  decimal.Decimal `json:"new_avg_cost"`
}

// ReceivePurchaseRequest recepción de una orden de compra con N líneas (N movimientos).
type ReceivePurchaseRequest struct {
	LocationID string                `json:"location_id"`
	SourceDoc  string                `json:"source_doc"`
	Note       string                `json:"note,omitempty"`
	Items      []ReceivePurchaseItem `json:"items"`
}

// ReceivePurchaseItem línea de la compra.
type ReceivePurchaseItem struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// ReceivePurchaseResponse resultado por línea.
type ReceivePurchaseResponse struct {
	SourceDoc string                 `json:"source_doc"`
	Lines     []ReceiveStockResponse `json:"lines"`
}

// SubmitCountRequest body para POST /api/inventory/counts.
type SubmitCountRequest struct {
	LocationID string             `json:"location_id"`
	Note       string             `json:"note,omitempty"`
	Lines      []CountLineRequest `json:"lines"`
}

// CountLineRequest cantidad contada físicamente.
type CountLineRequest struct {
	ProductID  string          `json:"product_id"`
	CountedQty decimal.Decimal `json:"counted_qty"`
}

// SubmitCountResponse id del ajuste y diferencias por línea.
type SubmitCountResponse struct {
	AdjustmentID string              `json:"adjustment_id"`
	LocationID   string              `json:"location_id"`
	Lines        []CountLineResponse `json:"lines"`
}

// CountLineResponse diferencia sistema vs. contado. MovementID vacío si Diff = 0.
type CountLineResponse struct {
	ProductID  string          `json:"product_id"`
	SystemQty  decimal.Decimal `json:"system_qty"`
	CountedQty decimal.Decimal `json:"counted_qty"`
	Diff       decimal.Decimal `json:"diff"`
	MovementID string          `json:"movement_id,omitempty"`
}

// TransferStockRequest body para POST /api/inventory/transfers.
type TransferStockRequest struct {
	FromLocationID string                `json:"from_location_id"`
	ToLocationID   string                `json:"to_location_id"`
	Note           string                `json:"note,omitempty"`
	Items          []TransferItemRequest `json:"items"`
}

// TransferItemRequest línea del traslado.
type TransferItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// TransferStockResponse id del traslado y líneas aplicadas.
type TransferStockResponse struct {
	TransferID string                 `json:"transfer_id"`
	ItemCount  int                    `json:"item_count"`
	Items      []TransferItemResponse `json:"items"`
}

// TransferItemResponse línea aplicada con el costo heredado del origen.
type TransferItemResponse struct {
	ProductID  string          `json:"product_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	MovementID string          `json:"movement_id"`
}

// RecordWasteRequest body para POST /api/inventory/waste.
// ProductRef acepta ID, SKU o nombre del producto.
type RecordWasteRequest struct {
	LocationID string          `json:"location_id"`
	ProductRef string          `json:"product_ref"`
	Quantity   decimal.Decimal `json:"quantity"`
	Reason     string          `json:"reason"`
}

// ReturnToSupplierRequest body para POST /api/inventory/returns.
type ReturnToSupplierRequest struct {
	LocationID string          `json:"location_id"`
	ProductID  string          `json:"product_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	SourceDoc  string          `json:"source_doc"`
	Note       string          `json:"note,omitempty"`
}

// CostOverrideRequest body para POST /api/inventory/cost-overrides.
type CostOverrideRequest struct {
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	NewCost    decimal.Decimal `json:"new_cost"`
	Note       string          `json:"note"`
}

// MovementSummary resumen de un movimiento aplicado y el stock resultante.
type MovementSummary struct {
	MovementID  string                `json:"movement_id"`
	ProductID   string                `json:"product_id"`
	LocationID  string                `json:"location_id"`
	Type        string                `json:"type"`
	Quantity    decimal.Decimal       `json:"quantity"`
	UnitCost    decimal.Decimal       `json:"unit_cost"`
	TotalCost   decimal.Decimal       `json:"total_cost"`
	NewQuantity decimal.Decimal       `json:"new_quantity"`
	Warnings    []entity.StockWarning `json:"warnings"`
}

// MovementQuery filtros de GET /api/inventory/movements.
type MovementQuery struct {
	ProductID  string     `query:"product_id"`
	LocationID string     `query:"location_id"`
	Type       string     `query:"type"`
	From       *time.Time `query:"-"`
	To         *time.Time `query:"-"`
	Reference  string     `query:"reference"`
	PageRequest
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	FromLocationID string          `json:"from_location_id,omitempty"`
	ToLocationID   string          `json:"to_location_id,omitempty"`
	Type           string          `json:"type"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	Reference      string          `json:"reference"`
	Note           string          `json:"note,omitempty"`
	CreatedBy      string          `json:"created_by,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// InventoryQuery filtros de GET /api/inventory/stock.
type InventoryQuery struct {
	LocationID   string `query:"location_id"`
	Category     string `query:"category"`
	LowStockOnly bool   `query:"low_stock_only"`
	PageRequest
}

// StockResponse fila del snapshot de inventario.
type StockResponse struct {
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	ProductName  string          `json:"product_name"`
	Category     string          `json:"category"`
	LocationID   string          `json:"location_id"`
	LocationCode string          `json:"location_code"`
	Quantity     decimal.Decimal `json:"quantity"`
	AvgCost      decimal.Decimal `json:"avg_cost"`
	MinQuantity  decimal.Decimal `json:"min_quantity"`
	LowStock     bool            `json:"low_stock"`
}

// ReconcileResponse cantidad registrada vs. suma de la bitácora para un par.
type ReconcileResponse struct {
	ProductID   string          `json:"product_id"`
	LocationID  string          `json:"location_id"`
	RecordedQty decimal.Decimal `json:"recorded_qty"`
	MovementSum decimal.Decimal `json:"movement_sum"`
	Difference  decimal.Decimal `json:"difference"`
	Balanced    bool            `json:"balanced"`
}
