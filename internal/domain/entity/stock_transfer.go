package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockTransfer agrupa las líneas movidas de una ubicación a otra en una sola acción atómica.
type StockTransfer struct {
	ID             string
	FromLocationID string
	ToLocationID   string
	Note           string
	CreatedBy      string
	CreatedAt      time.Time
	Items          []StockTransferItem
}

// StockTransferItem cantidad trasladada y costo heredado del origen.
type StockTransferItem struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
}
