package inventory

import (
	"fmt"
	"sort"
	"strings"
)

// FallbackTable mapea categoría de producto -> código de ubicación de la que se descuenta
// cuando el producto vendido no tiene receta. Se inyecta al arranque (config) y es la única
// fuente de esta regla.
type FallbackTable struct {
	byCategory map[string]string
	def        string
}

// NewFallbackTable construye la tabla. Las categorías se comparan sin distinguir mayúsculas.
func NewFallbackTable(byCategory map[string]string, defaultCode string) (*FallbackTable, error) {
	if strings.TrimSpace(defaultCode) == "" {
		return nil, fmt.Errorf("fallback: ubicación por defecto vacía")
	}
	m := make(map[string]string, len(byCategory))
	for cat, code := range byCategory {
		cat = normalizeCategory(cat)
		code = strings.TrimSpace(code)
		if cat == "" || code == "" {
			return nil, fmt.Errorf("fallback: entrada inválida %q=%q", cat, code)
		}
		m[cat] = code
	}
	return &FallbackTable{byCategory: m, def: strings.TrimSpace(defaultCode)}, nil
}

// ParseFallbackTable lee el formato "beverage=BAR,food=KITCHEN".
func ParseFallbackTable(raw, defaultCode string) (*FallbackTable, error) {
	m := map[string]string{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		cat, code, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("fallback: se esperaba categoria=UBICACION, llegó %q", pair)
		}
		m[cat] = code
	}
	return NewFallbackTable(m, defaultCode)
}

// LocationCodeFor devuelve el código de ubicación para la categoría (o el por defecto).
func (t *FallbackTable) LocationCodeFor(category string) string {
	if code, ok := t.byCategory[normalizeCategory(category)]; ok {
		return code
	}
	return t.def
}

// Default código de la ubicación por defecto.
func (t *FallbackTable) Default() string { return t.def }

// Entries lista ordenada de la tabla (para documentarla en logs y endpoints).
func (t *FallbackTable) Entries() []string {
	out := make([]string, 0, len(t.byCategory)+1)
	for cat, code := range t.byCategory {
		out = append(out, cat+"="+code)
	}
	sort.Strings(out)
	return append(out, "*="+t.def)
}

func normalizeCategory(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}
