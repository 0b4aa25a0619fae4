package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento del ledger.
type MovementType string

const (
	MovementPurchase   MovementType = "PURCHASE"
	MovementSale       MovementType = "SALE"
	MovementTransfer   MovementType = "TRANSFER"
	MovementAdjustment MovementType = "ADJUSTMENT"
	MovementWaste      MovementType = "WASTE"
	MovementOpening    MovementType = "OPENING"
	MovementReturn     MovementType = "RETURN" // devolución a proveedor (salida)
)

// Valid indica si el tipo es conocido.
func (t MovementType) Valid() bool {
	switch t {
	case MovementPurchase, MovementSale, MovementTransfer, MovementAdjustment,
		MovementWaste, MovementOpening, MovementReturn:
		return true
	}
	return false
}

// RecomputesCost indica si una entrada de este tipo recalcula el costo promedio.
func (t MovementType) RecomputesCost() bool {
	return t == MovementPurchase || t == MovementOpening || t == MovementTransfer
}

// StockMovement registro inmutable de un cambio de cantidad en un par (producto, ubicación).
// Quantity es siempre magnitud (>= 0); el sentido lo dan FromLocationID / ToLocationID.
type StockMovement struct {
	ID             string
	ProductID      string
	FromLocationID string // vacío si es entrada
	ToLocationID   string // vacío si es salida
	Type           MovementType
	Quantity       decimal.Decimal
	UnitCost       decimal.Decimal
	TotalCost      decimal.Decimal // Quantity * UnitCost
	Reference      string          // documento de origen (ORDER:<id>, PO-123, COUNT:<id>...)
	Note           string
	CreatedBy      string
	CreatedAt      time.Time
}

// SignedQuantityFor devuelve el efecto del movimiento sobre la ubicación dada:
// positivo si entra, negativo si sale, cero si no la referencia.
func (m *StockMovement) SignedQuantityFor(locationID string) decimal.Decimal {
	q := decimal.Zero
	if m.ToLocationID == locationID {
		q = q.Add(m.Quantity)
	}
	if m.FromLocationID == locationID {
		q = q.Sub(m.Quantity)
	}
	return q
}
