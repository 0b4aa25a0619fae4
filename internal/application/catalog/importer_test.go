package catalog_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Restobar-api/internal/application/catalog"
	"github.com/jhoicas/Restobar-api/internal/infrastructure/memory"
)

func TestProductImporter_CSVConPuntoYComa(t *testing.T) {
	store := memory.New()
	products := catalog.NewProductUseCase(store.Repos().Products)
	im := catalog.NewProductImporter(products)

	csvData := "sku;name;category;unit;price;min_quantity;type\n" +
		"CER-001;Cerveza lager;beer;und;8000;12;SALE_ITEM\n" +
		"RON-750;Ron añejo 750ml;liquor;ml;0;1500;RAW_MATERIAL\n"

	res, err := im.Import(context.Background(), strings.NewReader(csvData), "")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Empty(t, res.Failures)

	p, err := store.Repos().Products.GetBySKU(context.Background(), "RON-750")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Ron añejo 750ml", p.Name)
	assert.True(t, p.MinQuantity.Equal(decimal.NewFromInt(1500)))
}

func TestProductImporter_Latin1(t *testing.T) {
	store := memory.New()
	im := catalog.NewProductImporter(catalog.NewProductUseCase(store.Repos().Products))

	// "Café" y "Limón" codificados en ISO-8859-1
	var buf bytes.Buffer
	buf.WriteString("sku,name,category,unit,price,min_quantity,type\n")
	buf.Write([]byte("CAF-01,Caf\xe9 tinto,food,und,\"3500,5\",0,SALE_ITEM\n"))
	buf.Write([]byte("LIM-01,Lim\xf3n,food,und,0,0,RAW_MATERIAL\n"))

	res, err := im.Import(context.Background(), &buf, "latin1")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)

	p, err := store.Repos().Products.GetBySKU(context.Background(), "CAF-01")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Café tinto", p.Name)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("3500.5")))
}

func TestProductImporter_DuplicadosYLineasInvalidas(t *testing.T) {
	store := memory.New()
	im := catalog.NewProductImporter(catalog.NewProductUseCase(store.Repos().Products))

	csvData := "sku,name,type,price\n" +
		"A-1,Agua,SALE_ITEM,2000\n" +
		"A-1,Agua repetida,SALE_ITEM,2000\n" +
		"B-1,Sin tipo,DESCONOCIDO,0\n" +
		"C-1,Precio malo,SALE_ITEM,abc\n"

	res, err := im.Import(context.Background(), strings.NewReader(csvData), "utf-8")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Failures, 2)
	assert.Equal(t, 4, res.Failures[0].Line)
	assert.Equal(t, "C-1", res.Failures[1].SKU)
}

func TestProductImporter_SinColumnaObligatoria(t *testing.T) {
	store := memory.New()
	im := catalog.NewProductImporter(catalog.NewProductUseCase(store.Repos().Products))

	_, err := im.Import(context.Background(), strings.NewReader("sku,name\nA,B\n"), "")
	assert.Error(t, err)

	_, err = im.Import(context.Background(), strings.NewReader("sku,name,type\n"), "ebcdic")
	assert.Error(t, err)
}
