package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductType clasifica el producto para el motor de descuentos.
type ProductType string

const (
	ProductTypeSaleItem    ProductType = "SALE_ITEM"
	ProductTypeRawMaterial ProductType = "RAW_MATERIAL"
	ProductTypePackaging   ProductType = "PACKAGING"
	// ProductTypeEntertain cargos de servicio/entretenimiento: venderlos nunca toca stock.
	ProductTypeEntertain ProductType = "ENTERTAIN"
)

// Valid indica si el tipo es uno de los conocidos.
func (t ProductType) Valid() bool {
	switch t {
	case ProductTypeSaleItem, ProductTypeRawMaterial, ProductTypePackaging, ProductTypeEntertain:
		return true
	}
	return false
}

// Product representa un producto vendible o materia prima (multi-ubicación).
// Cost es el costo promedio ponderado a nivel empresa; solo lo modifica el ledger
// (recepciones) o un override de costo que también deja movimiento.
type Product struct {
	ID               string
	SKU              string // código único
	Name             string
	Category         string // usado por la tabla de ubicación por defecto
	Unit             string
	SecondaryUnit    string
	ConversionFactor decimal.Decimal // unidades base por unidad secundaria (0 si no aplica)
	Cost             decimal.Decimal
	Price            decimal.Decimal
	MinQuantity      decimal.Decimal // punto de reorden
	Type             ProductType
	Lifecycle        Lifecycle
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TracksStock indica si vender el producto descuenta inventario.
func (p *Product) TracksStock() bool {
	return p.Type != ProductTypeEntertain
}
