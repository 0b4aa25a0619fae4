package entity

import "time"

// Tipos de ubicación de almacenamiento.
const (
	LocationKindWarehouse = "WAREHOUSE"
	LocationKindBar       = "BAR"
	LocationKindFreezer   = "FREEZER"
	LocationKindKitchen   = "KITCHEN"
	LocationKindOther     = "OTHER"
)

// Location representa un punto de almacenamiento (bodega, barra, congelador, cocina).
// Code es único e inmutable una vez referenciado por inventario.
type Location struct {
	ID        string
	Code      string
	Name      string
	Kind      string
	Lifecycle Lifecycle
	CreatedAt time.Time
	UpdatedAt time.Time
}
