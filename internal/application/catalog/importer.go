package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Restobar-api/internal/application/dto"
	"github.com/jhoicas/Restobar-api/internal/domain"
)

// Columnas esperadas del CSV de catálogo (el orden lo da la cabecera).
var importColumns = []string{"sku", "name", "category", "unit", "price", "min_quantity", "type"}

// ImportResult resumen de una importación.
type ImportResult struct {
	Created  int
	Skipped  int // SKU ya existente
	Failures []ImportFailure
}

// ImportFailure línea rechazada (número de línea del archivo, cabecera = 1).
type ImportFailure struct {
	Line   int
	SKU    string
	Reason string
}

// ProductImporter carga productos desde un CSV exportado de hoja de cálculo.
type ProductImporter struct {
	products *ProductUseCase
}

// NewProductImporter construye el importador sobre el caso de uso de productos.
func NewProductImporter(products *ProductUseCase) *ProductImporter {
	return &ProductImporter{products: products}
}

// Import lee el CSV. charset: "utf-8" (defecto), "latin1"/"iso-8859-1" o "windows-1252".
// El separador es ';' si la cabecera lo contiene, si no ','.
// Un SKU duplicado se cuenta como omitido; una línea inválida se reporta y no detiene el resto.
func (im *ProductImporter) Import(ctx context.Context, r io.Reader, charset string) (*ImportResult, error) {
	decoded, err := decodeCharset(r, charset)
	if err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(decoded)
	if err != nil {
		return nil, fmt.Errorf("leer archivo: %w", err)
	}
	text := strings.TrimPrefix(string(raw), "\ufeff")
	header, _, _ := strings.Cut(text, "\n")

	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = ','
	if strings.Contains(header, ";") {
		cr.Comma = ';'
	}
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if err != nil {
		return nil, domain.Invalid("file", "archivo vacío o sin cabecera")
	}
	idx := make(map[string]int, len(head))
	for i, h := range head {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range []string{"sku", "name", "type"} {
		if _, ok := idx[col]; !ok {
			return nil, domain.Invalid("file", "falta la columna "+col)
		}
	}

	res := &ImportResult{}
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			res.Failures = append(res.Failures, ImportFailure{Line: line, Reason: err.Error()})
			continue
		}
		field := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		in := dto.CreateProductRequest{
			SKU:      field("sku"),
			Name:     field("name"),
			Category: field("category"),
			Unit:     field("unit"),
			Type:     strings.ToUpper(field("type")),
		}
		if in.Price, err = parseAmount(field("price")); err != nil {
			res.Failures = append(res.Failures, ImportFailure{Line: line, SKU: in.SKU, Reason: "price: " + err.Error()})
			continue
		}
		if in.MinQuantity, err = parseAmount(field("min_quantity")); err != nil {
			res.Failures = append(res.Failures, ImportFailure{Line: line, SKU: in.SKU, Reason: "min_quantity: " + err.Error()})
			continue
		}

		if _, err := im.products.Create(ctx, in); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				res.Skipped++
				continue
			}
			if errors.Is(err, domain.ErrInvalidInput) {
				res.Failures = append(res.Failures, ImportFailure{Line: line, SKU: in.SKU, Reason: err.Error()})
				continue
			}
			return res, fmt.Errorf("línea %d: %w", line, err)
		}
		res.Created++
	}
	return res, nil
}

func decodeCharset(r io.Reader, charset string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8":
		return r, nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, domain.Invalid("charset", "codificación no soportada: "+charset)
	}
}

// parseAmount acepta "1234.5" y también la coma decimal de hojas en español ("1234,5").
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}
