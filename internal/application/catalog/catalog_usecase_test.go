package catalog_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Restobar-api/internal/application/catalog"
	"github.com/jhoicas/Restobar-api/internal/application/dto"
	"github.com/jhoicas/Restobar-api/internal/application/recipe"
	"github.com/jhoicas/Restobar-api/internal/domain"
	"github.com/jhoicas/Restobar-api/internal/domain/entity"
	costs "github.com/jhoicas/Restobar-api/internal/domain/inventory"
	"github.com/jhoicas/Restobar-api/internal/infrastructure/memory"
)

func TestProductUseCase_CrearYActualizar(t *testing.T) {
	store := memory.New()
	uc := catalog.NewProductUseCase(store.Repos().Products)
	ctx := context.Background()

	p, err := uc.Create(ctx, dto.CreateProductRequest{
		SKU: " CER-001 ", Name: "Cerveza", Category: "beer", Unit: "und",
		Price: decimal.NewFromInt(8000), Type: string(entity.ProductTypeSaleItem),
	})
	require.NoError(t, err)
	assert.Equal(t, "CER-001", p.SKU)
	assert.True(t, p.Cost.IsZero())

	_, err = uc.Create(ctx, dto.CreateProductRequest{SKU: "CER-001", Name: "Otra", Unit: "und", Type: string(entity.ProductTypeSaleItem)})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	price := decimal.NewFromInt(9000)
	name := "Cerveza lager"
	upd, err := uc.Update(ctx, p.ID, dto.UpdateProductRequest{Name: &name, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "Cerveza lager", upd.Name)
	assert.True(t, upd.Price.Equal(price))

	neg := decimal.NewFromInt(-1)
	_, err = uc.Update(ctx, p.ID, dto.UpdateProductRequest{Price: &neg})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.GetByID(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUseCase_TipoDesconocido(t *testing.T) {
	uc := catalog.NewProductUseCase(memory.New().Repos().Products)
	_, err := uc.Create(context.Background(), dto.CreateProductRequest{SKU: "X", Name: "X", Unit: "und", Type: "SERVICIO"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductUseCase_RetiradoSaleDelListado(t *testing.T) {
	store := memory.New()
	uc := catalog.NewProductUseCase(store.Repos().Products)
	ctx := context.Background()
	a, err := uc.Create(ctx, dto.CreateProductRequest{SKU: "A", Name: "A", Unit: "und", Category: "beer", Type: string(entity.ProductTypeSaleItem)})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateProductRequest{SKU: "B", Name: "B", Unit: "und", Category: "beer", Type: string(entity.ProductTypeSaleItem)})
	require.NoError(t, err)

	require.NoError(t, uc.Retire(ctx, a.ID))

	list, err := uc.List(ctx, "beer", false, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "B", list.Items[0].SKU)

	all, err := uc.List(ctx, "beer", true, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)

	got, err := uc.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.LifecycleRetired), got.Lifecycle)
}

func TestLocationUseCase_CodigoNormalizadoYDuplicado(t *testing.T) {
	store := memory.NewSeeded()
	uc := catalog.NewLocationUseCase(store.Repos().Locations)
	ctx := context.Background()

	loc, err := uc.Create(ctx, dto.CreateLocationRequest{Code: " freezer-1 ", Name: "Congelador", Kind: "freezer"})
	require.NoError(t, err)
	assert.Equal(t, "FREEZER-1", loc.Code)
	assert.Equal(t, entity.LocationKindFreezer, loc.Kind)

	_, err = uc.Create(ctx, dto.CreateLocationRequest{Code: "bar", Name: "Otra barra"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateLocationRequest{Code: "X", Name: "X", Kind: "garaje"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, uc.Retire(ctx, loc.ID))
	active, err := uc.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, active, 3)
	all, err := uc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestRecipeUseCase_GuardarReemplazaLineasYPrevisualiza(t *testing.T) {
	store := memory.NewSeeded()
	repos := store.Repos()
	ctx := context.Background()
	fallback, err := costs.ParseFallbackTable("liquor=BAR,food=KITCHEN", "MAIN")
	require.NoError(t, err)
	uc := catalog.NewRecipeUseCase(store, repos, recipe.NewResolver(fallback))
	products := catalog.NewProductUseCase(repos.Products)

	mojito, err := products.Create(ctx, dto.CreateProductRequest{SKU: "MOJ", Name: "Mojito", Unit: "und", Category: "cocktails", Type: string(entity.ProductTypeSaleItem)})
	require.NoError(t, err)
	rum, err := products.Create(ctx, dto.CreateProductRequest{SKU: "RON", Name: "Ron", Unit: "ml", Category: "liquor", Type: string(entity.ProductTypeRawMaterial)})
	require.NoError(t, err)
	mint, err := products.Create(ctx, dto.CreateProductRequest{SKU: "HIE", Name: "Hierbabuena", Unit: "g", Category: "food", Type: string(entity.ProductTypeRawMaterial)})
	require.NoError(t, err)

	first, err := uc.Save(ctx, dto.SaveRecipeRequest{
		MenuProductID: mojito.ID,
		Lines:         []dto.RecipeLineRequest{{IngredientProductID: rum.ID, QuantityPerUnit: decimal.NewFromInt(60)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Mojito", first.Name)

	second, err := uc.Save(ctx, dto.SaveRecipeRequest{
		MenuProductID: mojito.ID,
		Lines: []dto.RecipeLineRequest{
			{IngredientProductID: rum.ID, QuantityPerUnit: decimal.NewFromInt(50)},
			{IngredientProductID: mint.ID, QuantityPerUnit: decimal.NewFromInt(8)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, second.Lines, 2)

	preview, err := uc.Preview(ctx, mojito.ID, decimal.NewFromInt(2))
	require.NoError(t, err)
	require.Len(t, preview, 2)
	assert.True(t, preview[0].DeductQuantity.Equal(decimal.NewFromInt(100)))
	assert.True(t, preview[1].DeductQuantity.Equal(decimal.NewFromInt(16)))

	require.NoError(t, uc.Retire(ctx, second.ID))
	preview, err = uc.Preview(ctx, mojito.ID, decimal.NewFromInt(2))
	require.NoError(t, err)
	require.Len(t, preview, 1)
	assert.Equal(t, mojito.ID, preview[0].IngredientProductID)
}

func TestRecipeUseCase_Validaciones(t *testing.T) {
	store := memory.NewSeeded()
	fallback, err := costs.ParseFallbackTable("", "MAIN")
	require.NoError(t, err)
	uc := catalog.NewRecipeUseCase(store, store.Repos(), recipe.NewResolver(fallback))
	ctx := context.Background()

	_, err = uc.Save(ctx, dto.SaveRecipeRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Save(ctx, dto.SaveRecipeRequest{
		MenuProductID: "menu",
		Lines:         []dto.RecipeLineRequest{{IngredientProductID: "x", QuantityPerUnit: decimal.Zero}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Save(ctx, dto.SaveRecipeRequest{MenuProductID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, uc.Retire(ctx, "no-existe"), domain.ErrNotFound)
}
