package inventory

import "github.com/shopspring/decimal"

// DefaultCostScale decimales con que se guarda el costo promedio.
const DefaultCostScale int32 = 6

// QuantityScale decimales de toda cantidad del ledger. Debe coincidir con NUMERIC(24,6)
// de las columnas de cantidad en el esquema.
const QuantityScale int32 = 6

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
//
// Si la suma es cero, o el stock actual es negativo (no hay base con qué promediar),
// el costo se reinicia al costo de entrada.
func CostCalculator(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := stockActual.Add(cantEntrada)
	if sum.IsZero() || stockActual.IsNegative() {
		return costoEntrada
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum)
}

// RoundCost redondea un costo con redondeo bancario a la escala dada,
// para que miles de recepciones no acumulen deriva en una sola dirección.
func RoundCost(cost decimal.Decimal, scale int32) decimal.Decimal {
	if scale < 0 {
		scale = DefaultCostScale
	}
	return cost.RoundBank(scale)
}

// RoundQuantity lleva una cantidad a QuantityScale con redondeo bancario. El registro y su
// movimiento se escriben con el mismo valor ya redondeado, así la base nunca los redondea por separado.
func RoundQuantity(qty decimal.Decimal) decimal.Decimal {
	return qty.RoundBank(QuantityScale)
}
