package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockAdjustment agrupa las correcciones de un conteo físico en una ubicación.
type StockAdjustment struct {
	ID         string
	LocationID string
	Note       string
	CreatedBy  string
	CreatedAt  time.Time
	Lines      []StockAdjustmentLine
}

// StockAdjustmentLine cantidad del sistema vs. contada; Diff = Counted - System.
type StockAdjustmentLine struct {
	ProductID  string
	SystemQty  decimal.Decimal
	CountedQty decimal.Decimal
	Diff       decimal.Decimal
}
