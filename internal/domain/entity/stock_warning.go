package entity

import "github.com/shopspring/decimal"

// WarningLowStock código de advertencia cuando una salida excede el stock registrado.
const WarningLowStock = "LOW_STOCK"

// StockWarning advertencia no fatal: la salida se aplicó y el stock puede quedar negativo.
type StockWarning struct {
	Code       string          `json:"code"`
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	Available  decimal.Decimal `json:"available"`
	Requested  decimal.Decimal `json:"requested"`
}
