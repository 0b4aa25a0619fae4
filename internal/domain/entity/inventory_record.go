package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRecord es la unidad de verdad del ledger: stock y costo promedio
// de un producto en una ubicación. Se crea al primer movimiento y nunca se borra.
type InventoryRecord struct {
	ProductID  string
	LocationID string
	Quantity   decimal.Decimal // con signo, puede quedar negativo
	AvgCost    decimal.Decimal // >= 0
	Version    int64           // control optimista; 0 = aún no persistido
	UpdatedAt  time.Time
}

// IsNew indica si el registro todavía no existe en almacenamiento.
func (r *InventoryRecord) IsNew() bool { return r.Version == 0 }
