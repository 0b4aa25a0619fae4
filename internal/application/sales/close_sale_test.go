package sales_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Restobar-api/internal/application/dto"
	"github.com/jhoicas/Restobar-api/internal/application/inventory"
	"github.com/jhoicas/Restobar-api/internal/application/recipe"
	"github.com/jhoicas/Restobar-api/internal/application/sales"
	"github.com/jhoicas/Restobar-api/internal/domain"
	"github.com/jhoicas/Restobar-api/internal/domain/entity"
	costs "github.com/jhoicas/Restobar-api/internal/domain/inventory"
	"github.com/jhoicas/Restobar-api/internal/domain/repository"
	"github.com/jhoicas/Restobar-api/internal/infrastructure/memory"
	"github.com/jhoicas/Restobar-api/pkg/logger"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, ev *entity.SaleEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

type salesFixture struct {
	store  *memory.Store
	ledger *inventory.Ledger
	pub    *MockPublisher
	orders *sales.OrderUseCase
	close  *sales.CloseSaleUseCase
}

func newSalesFixture(t *testing.T) *salesFixture {
	t.Helper()
	store := memory.NewSeeded()
	fallback, err := costs.ParseFallbackTable("beer=BAR,food=KITCHEN", "MAIN")
	require.NoError(t, err)
	ledger := inventory.NewLedger(6, logger.Nop())
	pub := &MockPublisher{}
	return &salesFixture{
		store:  store,
		ledger: ledger,
		pub:    pub,
		orders: sales.NewOrderUseCase(store, store.Repos(), logger.Nop()),
		close:  sales.NewCloseSaleUseCase(store, ledger, recipe.NewResolver(fallback), pub, logger.Nop()),
	}
}

func (f *salesFixture) locationID(t *testing.T, code string) string {
	t.Helper()
	loc, err := f.store.Repos().Locations.GetByCode(context.Background(), code)
	require.NoError(t, err)
	require.NotNil(t, loc)
	return loc.ID
}

func (f *salesFixture) product(t *testing.T, sku, category string, typ entity.ProductType, price string) *entity.Product {
	t.Helper()
	now := time.Now().UTC()
	p := &entity.Product{
		ID: uuid.New().String(), SKU: sku, Name: sku, Category: category, Unit: "und",
		Type: typ, Price: d(price), Lifecycle: entity.LifecycleActive, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, f.store.Repos().Products.Create(context.Background(), p))
	return p
}

func (f *salesFixture) stock(t *testing.T, productID, locationID, qty string) {
	t.Helper()
	err := f.store.Run(context.Background(), func(ctx context.Context, repos inventory.Repos) error {
		_, err := f.ledger.Credit(ctx, repos, inventory.CreditInput{
			ProductID: productID, LocationID: locationID, Quantity: d(qty), UnitCost: d("1000"),
			Type: entity.MovementPurchase, Reference: "FAC-1",
		})
		return err
	})
	require.NoError(t, err)
}

func (f *salesFixture) qty(t *testing.T, productID, locationID string) decimal.Decimal {
	t.Helper()
	rec, err := f.store.Repos().Inventory.Get(context.Background(), productID, locationID)
	require.NoError(t, err)
	return rec.Quantity
}

func (f *salesFixture) openOrder(t *testing.T, tableID string, items ...dto.CreateOrderItemRequest) *dto.OrderResponse {
	t.Helper()
	o, err := f.orders.CreateOrder(context.Background(), dto.CreateOrderRequest{TableID: tableID, Items: items})
	require.NoError(t, err)
	return o
}

func TestCloseSale_DescuentaStockYPublicaEvento(t *testing.T) {
	f := newSalesFixture(t)
	bar := f.locationID(t, "BAR")
	beer := f.product(t, "CER-001", "beer", entity.ProductTypeSaleItem, "8000")
	f.stock(t, beer.ID, bar, "100")
	order := f.openOrder(t, "", dto.CreateOrderItemRequest{ProductID: beer.ID, Quantity: d("5")})
	f.pub.On("Publish", mock.Anything, mock.MatchedBy(func(ev *entity.SaleEvent) bool {
		return ev.OrderID == order.ID
	})).Return(nil).Once()

	out, err := f.close.CloseSale(context.Background(), "cajero-1", order.ID, dto.CloseSaleRequest{Method: entity.PaymentCash})
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusClosed, out.Order.Status)
	assert.True(t, out.Order.Total.Equal(d("40000")))
	assert.True(t, out.ChangeAmount.IsZero())
	assert.Empty(t, out.StockWarnings)
	assert.True(t, f.qty(t, beer.ID, bar).Equal(d("95")))

	movs, err := f.store.Repos().Movements.List(context.Background(), repository.MovementFilter{
		Type: entity.MovementSale, Reference: inventory.Reference(inventory.RefOrder, order.ID),
	})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, bar, movs[0].FromLocationID)

	events := f.store.SaleEvents()
	require.Len(t, events, 1)
	assert.True(t, events[0].Total.Equal(d("40000")))
	assert.Len(t, f.store.Payments(), 1)
	f.pub.AssertExpectations(t)
}

func TestCloseSale_RecetaDescuentaIngredientesSinBloquear(t *testing.T) {
	f := newSalesFixture(t)
	bar := f.locationID(t, "BAR")
	kitchen := f.locationID(t, "KITCHEN")
	cocktail := f.product(t, "COC-001", "cocktails", entity.ProductTypeSaleItem, "25000")
	rum := f.product(t, "RON-750", "liquor", entity.ProductTypeRawMaterial, "0")
	lime := f.product(t, "LIMON", "food", entity.ProductTypeRawMaterial, "0")
	require.NoError(t, f.store.Repos().Recipes.Save(context.Background(), &entity.Recipe{
		ID: uuid.New().String(), MenuProductID: cocktail.ID, Name: "Mojito", Lifecycle: entity.LifecycleActive,
		Lines: []entity.RecipeLine{
			{Position: 1, IngredientProductID: rum.ID, LocationID: bar, QuantityPerUnit: d("0.05")},
			{Position: 2, IngredientProductID: lime.ID, QuantityPerUnit: d("1")},
		},
	}))
	f.stock(t, lime.ID, kitchen, "10")
	order := f.openOrder(t, "", dto.CreateOrderItemRequest{ProductID: cocktail.ID, Quantity: d("2")})
	f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil)

	out, err := f.close.CloseSale(context.Background(), "cajero-1", order.ID, dto.CloseSaleRequest{Method: entity.PaymentCard})
	require.NoError(t, err)

	require.Len(t, out.StockWarnings, 1)
	assert.Equal(t, entity.WarningLowStock, out.StockWarnings[0].Code)
	assert.Equal(t, rum.ID, out.StockWarnings[0].ProductID)
	assert.True(t, f.qty(t, rum.ID, bar).Equal(d("-0.1")))
	assert.True(t, f.qty(t, lime.ID, kitchen).Equal(d("8")))
	assert.True(t, f.qty(t, cocktail.ID, bar).IsZero())
}

func TestCloseSale_RecetaDeUnIngredienteMantieneCostoPromedio(t *testing.T) {
	f := newSalesFixture(t)
	main := f.locationID(t, "MAIN")
	menu := f.product(t, "SHOT-001", "cocktails", entity.ProductTypeSaleItem, "9000")
	ingredient := f.product(t, "AGUARDIENTE", "liquor", entity.ProductTypeRawMaterial, "0")
	require.NoError(t, f.store.Repos().Recipes.Save(context.Background(), &entity.Recipe{
		ID: uuid.New().String(), MenuProductID: menu.ID, Name: "Shot", Lifecycle: entity.LifecycleActive,
		Lines: []entity.RecipeLine{
			{Position: 1, IngredientProductID: ingredient.ID, LocationID: main, QuantityPerUnit: d("1")},
		},
	}))
	f.stock(t, ingredient.ID, main, "100")
	order := f.openOrder(t, "", dto.CreateOrderItemRequest{ProductID: menu.ID, Quantity: d("5")})
	f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()

	out, err := f.close.CloseSale(context.Background(), "cajero-1", order.ID, dto.CloseSaleRequest{Method: entity.PaymentCard})
	require.NoError(t, err)
	assert.Empty(t, out.StockWarnings)

	rec, err := f.store.Repos().Inventory.Get(context.Background(), ingredient.ID, main)
	require.NoError(t, err)
	assert.True(t, rec.Quantity.Equal(d("95")))
	assert.True(t, rec.AvgCost.Equal(d("1000")), "la venta no cambia el costo promedio, got %s", rec.AvgCost)

	movs, err := f.store.Repos().Movements.List(context.Background(), repository.MovementFilter{
		ProductID: ingredient.ID, LocationID: main,
	})
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementPurchase, movs[0].Type)
	assert.True(t, movs[0].Quantity.Equal(d("100")))
	assert.Equal(t, entity.MovementSale, movs[1].Type)
	assert.True(t, movs[1].Quantity.Equal(d("5")))
	assert.True(t, movs[1].UnitCost.Equal(d("1000")))
	f.pub.AssertExpectations(t)
}

func TestCloseSale_FallaDePersistenciaRevierteTodo(t *testing.T) {
	f := newSalesFixture(t)
	bar := f.locationID(t, "BAR")
	beer := f.product(t, "CER-001", "beer", entity.ProductTypeSaleItem, "8000")
	f.stock(t, beer.ID, bar, "100")
	order := f.openOrder(t, "", dto.CreateOrderItemRequest{ProductID: beer.ID, Quantity: d("5")})
	f.store.InjectFault("orders.close", errors.New("disco lleno"))

	_, err := f.close.CloseSale(context.Background(), "cajero-1", order.ID, dto.CloseSaleRequest{Method: entity.PaymentCash})
	require.Error(t, err)

	assert.True(t, f.qty(t, beer.ID, bar).Equal(d("100")))
	got, err := f.orders.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusOpen, got.Status)
	assert.Empty(t, f.store.SaleEvents())
	assert.Empty(t, f.store.Payments())
	f.pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestCloseSale_ErrorAlPublicarNoRevierteVenta(t *testing.T) {
	f := newSalesFixture(t)
	beer := f.product(t, "CER-001", "beer", entity.ProductTypeSaleItem, "8000")
	order := f.openOrder(t, "", dto.CreateOrderItemRequest{ProductID: beer.ID, Quantity: d("1")})
	f.pub.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker caído")).Once()

	out, err := f.close.CloseSale(context.Background(), "cajero-1", order.ID, dto.CloseSaleRequest{Method: entity.PaymentCard})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusClosed, out.Order.Status)
	assert.Len(t, f.store.SaleEvents(), 1)
	f.pub.AssertExpectations(t)
}

func TestCloseSale_PublicaConContextoPropioYAcotado(t *testing.T) {
	f := newSalesFixture(t)
	f.close.WithPublishTimeout(300 * time.Millisecond)
	beer := f.product(t, "CER-001", "beer", entity.ProductTypeSaleItem, "8000")
	order := f.openOrder(t, "", dto.CreateOrderItemRequest{ProductID: beer.ID, Quantity: d("1")})

	reqCtx, cancelReq := context.WithCancel(context.Background())
	defer cancelReq()
	f.pub.On("Publish", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		pubCtx := args.Get(0).(context.Context)
		// el request se corta mientras se publica: el envío sigue vivo
		cancelReq()
		assert.NoError(t, pubCtx.Err())
		deadline, ok := pubCtx.Deadline()
		require.True(t, ok, "la publicación debe tener plazo")
		assert.WithinDuration(t, time.Now().Add(300*time.Millisecond), deadline, 300*time.Millisecond)
	}).Return(nil).Once()

	_, err := f.close.CloseSale(reqCtx, "cajero-1", order.ID, dto.CloseSaleRequest{Method: entity.PaymentCard})
	require.NoError(t, err)
	f.pub.AssertExpectations(t)
}

func TestCloseSale_EfectivoInsuficienteEsInvalido(t *testing.T) {
	f := newSalesFixture(t)
	beer := f.product(t, "CER-001", "beer", entity.ProductTypeSaleItem, "8000")
	order := f.openOrder(t, "", dto.CreateOrderItemRequest{ProductID: beer.ID, Quantity: d("2")})

	_, err := f.close.CloseSale(context.Background(), "cajero-1", order.ID, dto.CloseSaleRequest{
		Method: entity.PaymentCash, Tendered: d("10000"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := f.orders.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusOpen, got.Status)
}

func TestCloseSale_SegundoCierreEsConflicto(t *testing.T) {
	f := newSalesFixture(t)
	beer := f.product(t, "CER-001", "beer", entity.ProductTypeSaleItem, "8000")
	order := f.openOrder(t, "", dto.CreateOrderItemRequest{ProductID: beer.ID, Quantity: d("1")})
	f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := f.close.CloseSale(context.Background(), "cajero-1", order.ID, dto.CloseSaleRequest{Method: entity.PaymentCard})
	require.NoError(t, err)
	_, err = f.close.CloseSale(context.Background(), "cajero-1", order.ID, dto.CloseSaleRequest{Method: entity.PaymentCard})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Len(t, f.store.SaleEvents(), 1)
	f.pub.AssertNumberOfCalls(t, "Publish", 1)
}

func TestCloseSale_LiberaMesaYOmiteEntretenimiento(t *testing.T) {
	f := newSalesFixture(t)
	table := f.store.AddTable("Terraza 1")
	cover := f.product(t, "COVER", "show", entity.ProductTypeEntertain, "15000")
	order := f.openOrder(t, table.ID, dto.CreateOrderItemRequest{ProductID: cover.ID, Quantity: d("3")})

	got, err := f.store.Repos().Tables.GetByID(context.Background(), table.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TableStatusOccupied, got.Status)

	f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	_, err = f.close.CloseSale(context.Background(), "cajero-1", order.ID, dto.CloseSaleRequest{Method: entity.PaymentTransfer})
	require.NoError(t, err)

	got, err = f.store.Repos().Tables.GetByID(context.Background(), table.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TableStatusAvailable, got.Status)

	n, err := f.store.Repos().Movements.Count(context.Background(), repository.MovementFilter{Type: entity.MovementSale})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCloseSale_MetodoDesconocidoYOrdenInexistente(t *testing.T) {
	f := newSalesFixture(t)

	_, err := f.close.CloseSale(context.Background(), "cajero-1", uuid.New().String(), dto.CloseSaleRequest{Method: "BITCOIN"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.close.CloseSale(context.Background(), "cajero-1", uuid.New().String(), dto.CloseSaleRequest{Method: entity.PaymentCard})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
