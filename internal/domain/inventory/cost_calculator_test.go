package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Restobar-api/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCostCalculator(t *testing.T) {
	cases := []struct {
		name                     string
		stock, cost, qtyIn, costIn decimal.Decimal
		want                     decimal.Decimal
	}{
		{"registro vacío toma el costo de entrada", d("0"), d("0"), d("100"), d("1000"), d("1000")},
		{"promedio ponderado simple", d("100"), d("1000"), d("100"), d("2000"), d("1500")},
		{"pesos distintos", d("30"), d("10"), d("10"), d("30"), d("15")},
		{"suma cero reinicia al costo de entrada", d("-5"), d("10"), d("5"), d("12"), d("12")},
		{"stock negativo no promedia", d("-10"), d("10"), d("20"), d("7"), d("7")},
		// la fórmula daría (-5*10 + 10*20) / 5 = 30; con stock negativo se toma el costo de entrada
		{"stock negativo toma el costo de entrada", d("-5"), d("10"), d("10"), d("20"), d("20")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := inventory.CostCalculator(tc.stock, tc.cost, tc.qtyIn, tc.costIn)
			assert.True(t, tc.want.Equal(got), "esperado %s, obtenido %s", tc.want, got)
		})
	}
}

func TestCostCalculator_DosEntradasSobreVacio(t *testing.T) {
	q1, c1 := d("12"), d("3.37")
	q2, c2 := d("7"), d("4.11")
	after1 := inventory.CostCalculator(decimal.Zero, decimal.Zero, q1, c1)
	after2 := inventory.CostCalculator(q1, after1, q2, c2)

	want := q1.Mul(c1).Add(q2.Mul(c2)).Div(q1.Add(q2))
	assert.True(t, want.Sub(after2).Abs().LessThan(d("0.000001")))
}

func TestRoundCost_Bancario(t *testing.T) {
	assert.Equal(t, "1.000002", inventory.RoundCost(d("1.0000025"), 6).String())
	assert.Equal(t, "1.000004", inventory.RoundCost(d("1.0000035"), 6).String())
	assert.Equal(t, "2.5", inventory.RoundCost(d("2.5"), -1).String())
}
