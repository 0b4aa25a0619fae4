package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Restobar-api/internal/application/dto"
	"github.com/jhoicas/Restobar-api/internal/application/inventory"
	"github.com/jhoicas/Restobar-api/internal/domain"
	"github.com/jhoicas/Restobar-api/internal/domain/entity"
	"github.com/jhoicas/Restobar-api/internal/domain/repository"
	"github.com/jhoicas/Restobar-api/pkg/logger"
)

func TestReceiveStock_RegistraCompraYCosto(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "CER-001", "beer", entity.ProductTypeRawMaterial)
	uc := inventory.NewReceiveStockUseCase(f.store, f.ledger, logger.Nop())

	out, err := uc.ReceiveStock(context.Background(), "u1", dto.ReceiveStockRequest{
		ProductID: p.ID, LocationID: f.main, Quantity: d("100"), UnitCost: d("1000"), SourceDoc: "FAC-77",
	})
	require.NoError(t, err)
	assert.True(t, out.NewQuantity.Equal(d("100")))
	assert.True(t, out.NewAvgCost.Equal(d("1000")))

	movs, err := f.store.Repos().Movements.List(context.Background(), repository.MovementFilter{ProductID: p.ID})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementPurchase, movs[0].Type)
	assert.Equal(t, "FAC-77", movs[0].Reference)
	assert.Equal(t, f.main, movs[0].ToLocationID)
	assert.Empty(t, movs[0].FromLocationID)
	assert.Equal(t, "u1", movs[0].CreatedBy)
}

func TestReceiveStock_Validaciones(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "CER-001", "beer", entity.ProductTypeRawMaterial)
	uc := inventory.NewReceiveStockUseCase(f.store, f.ledger, logger.Nop())
	ctx := context.Background()

	_, err := uc.ReceiveStock(ctx, "u1", dto.ReceiveStockRequest{ProductID: p.ID, LocationID: f.main, Quantity: d("0"), UnitCost: d("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.ReceiveStock(ctx, "u1", dto.ReceiveStockRequest{ProductID: p.ID, LocationID: f.main, Quantity: d("1"), UnitCost: d("1"), Type: "SALE"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.ReceiveStock(ctx, "u1", dto.ReceiveStockRequest{ProductID: "no-existe", LocationID: f.main, Quantity: d("1"), UnitCost: d("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReceiveStock_UbicacionRetiradaRechazaEntrada(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "CER-001", "beer", entity.ProductTypeRawMaterial)
	require.NoError(t, f.store.Repos().Locations.SetLifecycle(context.Background(), f.bar, entity.LifecycleRetired))
	uc := inventory.NewReceiveStockUseCase(f.store, f.ledger, logger.Nop())

	_, err := uc.ReceiveStock(context.Background(), "u1", dto.ReceiveStockRequest{
		ProductID: p.ID, LocationID: f.bar, Quantity: d("10"), UnitCost: d("100"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.True(t, f.record(t, p.ID, f.bar).Quantity.IsZero())
}

func TestSubmitCount_AjustaDiferenciaYGuardaDocumento(t *testing.T) {
	f := newFixture(t)
	beer := f.product(t, "CER-001", "beer", entity.ProductTypeRawMaterial)
	gin := f.product(t, "GIN-001", "spirits", entity.ProductTypeRawMaterial)
	f.credit(t, beer.ID, f.main, "65", "1000")
	f.credit(t, gin.ID, f.main, "10", "5000")
	uc := inventory.NewCountUseCase(f.store, f.ledger, logger.Nop())

	out, err := uc.SubmitCount(context.Background(), "u1", dto.SubmitCountRequest{
		LocationID: f.main,
		Note:       "conteo semanal",
		Lines: []dto.CountLineRequest{
			{ProductID: beer.ID, CountedQty: d("50")},
			{ProductID: gin.ID, CountedQty: d("10")},
		},
	})
	require.NoError(t, err)
	require.Len(t, out.Lines, 2)
	assert.True(t, out.Lines[0].Diff.Equal(d("-15")))
	assert.NotEmpty(t, out.Lines[0].MovementID)
	assert.True(t, out.Lines[1].Diff.IsZero())
	assert.Empty(t, out.Lines[1].MovementID)

	assert.True(t, f.record(t, beer.ID, f.main).Quantity.Equal(d("50")))

	movs, err := f.store.Repos().Movements.List(context.Background(), repository.MovementFilter{
		ProductID: beer.ID, Type: entity.MovementAdjustment,
	})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.True(t, movs[0].Quantity.Equal(d("15")))
	assert.Equal(t, f.main, movs[0].FromLocationID)
	assert.Equal(t, inventory.Reference(inventory.RefCount, out.AdjustmentID), movs[0].Reference)

	adjs := f.store.Adjustments()
	require.Len(t, adjs, 1)
	assert.Equal(t, out.AdjustmentID, adjs[0].ID)
	assert.Len(t, adjs[0].Lines, 2)
}

func TestSubmitCount_ProductoRepetidoEsInvalido(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "CER-001", "beer", entity.ProductTypeRawMaterial)
	uc := inventory.NewCountUseCase(f.store, f.ledger, logger.Nop())

	_, err := uc.SubmitCount(context.Background(), "u1", dto.SubmitCountRequest{
		LocationID: f.main,
		Lines: []dto.CountLineRequest{
			{ProductID: p.ID, CountedQty: d("1")},
			{ProductID: p.ID, CountedQty: d("2")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, f.store.Adjustments())
}

func TestTransferStock_MueveCantidadYHeredaCosto(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "CER-001", "beer", entity.ProductTypeRawMaterial)
	f.credit(t, p.ID, f.main, "95", "2000")
	uc := inventory.NewTransferUseCase(f.store, f.ledger, logger.Nop())

	out, err := uc.TransferStock(context.Background(), "u1", dto.TransferStockRequest{
		FromLocationID: f.main,
		ToLocationID:   f.bar,
		Items:          []dto.TransferItemRequest{{ProductID: p.ID, Quantity: d("30")}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, out.ItemCount)
	require.Len(t, out.Items, 1)
	assert.True(t, out.Items[0].UnitCost.Equal(d("2000")))

	assert.True(t, f.record(t, p.ID, f.main).Quantity.Equal(d("65")))
	bar := f.record(t, p.ID, f.bar)
	assert.True(t, bar.Quantity.Equal(d("30")))
	assert.True(t, bar.AvgCost.Equal(d("2000")))

	trs := f.store.Transfers()
	require.Len(t, trs, 1)
	assert.Equal(t, out.TransferID, trs[0].ID)
	assert.Equal(t, f.main, trs[0].FromLocationID)
	assert.Equal(t, f.bar, trs[0].ToLocationID)
}

func TestTransferStock_FaltanteEnUnaLineaRevierteTodo(t *testing.T) {
	f := newFixture(t)
	beer := f.product(t, "CER-001", "beer", entity.ProductTypeRawMaterial)
	gin := f.product(t, "GIN-001", "spirits", entity.ProductTypeRawMaterial)
	f.credit(t, beer.ID, f.main, "20", "1000")
	f.credit(t, gin.ID, f.main, "1", "5000")
	uc := inventory.NewTransferUseCase(f.store, f.ledger, logger.Nop())

	_, err := uc.TransferStock(context.Background(), "u1", dto.TransferStockRequest{
		FromLocationID: f.main,
		ToLocationID:   f.bar,
		Items: []dto.TransferItemRequest{
			{ProductID: beer.ID, Quantity: d("10")},
			{ProductID: gin.ID, Quantity: d("3")},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, f.record(t, beer.ID, f.main).Quantity.Equal(d("20")))
	assert.True(t, f.record(t, beer.ID, f.bar).Quantity.IsZero())
	assert.True(t, f.record(t, gin.ID, f.main).Quantity.Equal(d("1")))
	assert.Empty(t, f.store.Transfers())
}

func TestTransferStock_MismaUbicacionAntesDeAbrirTx(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "CER-001", "beer", entity.ProductTypeRawMaterial)
	f.store.InjectFault("inventory.get_for_update", assert.AnError)
	uc := inventory.NewTransferUseCase(f.store, f.ledger, logger.Nop())

	_, err := uc.TransferStock(context.Background(), "u1", dto.TransferStockRequest{
		FromLocationID: f.bar,
		ToLocationID:   f.bar,
		Items:          []dto.TransferItemRequest{{ProductID: p.ID, Quantity: d("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransfer)
}

func TestRecordWaste_PorSKUConAdvertenciaDeFaltante(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "GIN-001", "spirits", entity.ProductTypeRawMaterial)
	f.credit(t, p.ID, f.bar, "2", "5000")
	uc := inventory.NewOutboundUseCase(f.store, f.ledger, logger.Nop())

	out, err := uc.RecordWaste(context.Background(), "u1", dto.RecordWasteRequest{
		LocationID: f.bar, ProductRef: "GIN-001", Quantity: d("5"), Reason: "botella rota",
	})
	require.NoError(t, err)
	assert.Equal(t, p.ID, out.ProductID)
	assert.True(t, out.NewQuantity.Equal(d("-3")))
	require.Len(t, out.Warnings, 1)
	assert.Equal(t, entity.WarningLowStock, out.Warnings[0].Code)

	movs, err := f.store.Repos().Movements.List(context.Background(), repository.MovementFilter{
		ProductID: p.ID, Type: entity.MovementWaste,
	})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, "botella rota", movs[0].Note)
	assert.Equal(t, f.bar, movs[0].FromLocationID)
}

func TestRecordWaste_ReferenciaDesconocida(t *testing.T) {
	f := newFixture(t)
	uc := inventory.NewOutboundUseCase(f.store, f.ledger, logger.Nop())

	_, err := uc.RecordWaste(context.Background(), "u1", dto.RecordWasteRequest{
		LocationID: f.bar, ProductRef: "NO-EXISTE", Quantity: d("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReturnToSupplier_FaltanteEsError(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "CER-001", "beer", entity.ProductTypeRawMaterial)
	f.credit(t, p.ID, f.main, "2", "1000")
	uc := inventory.NewOutboundUseCase(f.store, f.ledger, logger.Nop())

	_, err := uc.ReturnToSupplier(context.Background(), "u1", dto.ReturnToSupplierRequest{
		LocationID: f.main, ProductID: p.ID, Quantity: d("5"), SourceDoc: "NC-9",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.record(t, p.ID, f.main).Quantity.Equal(d("2")))

	out, err := uc.ReturnToSupplier(context.Background(), "u1", dto.ReturnToSupplierRequest{
		LocationID: f.main, ProductID: p.ID, Quantity: d("2"), SourceDoc: "NC-9",
	})
	require.NoError(t, err)
	assert.True(t, out.NewQuantity.IsZero())
}

func TestOverrideCost_NotaObligatoria(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "CER-001", "beer", entity.ProductTypeRawMaterial)
	uc := inventory.NewCostOverrideUseCase(f.store, f.ledger, logger.Nop())

	_, err := uc.OverrideCost(context.Background(), "u1", dto.CostOverrideRequest{
		ProductID: p.ID, LocationID: f.main, NewCost: d("1200"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.OverrideCost(context.Background(), "u1", dto.CostOverrideRequest{
		ProductID: p.ID, LocationID: f.main, NewCost: d("-1"), Note: "error",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestQueryMovements_FiltrosInvalidos(t *testing.T) {
	f := newFixture(t)
	uc := inventory.NewQueryUseCase(f.store.Repos())
	ctx := context.Background()

	_, err := uc.QueryMovements(ctx, dto.MovementQuery{Type: "ROBO"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	from := time.Now()
	to := from.Add(-time.Hour)
	_, err = uc.QueryMovements(ctx, dto.MovementQuery{From: &from, To: &to})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestQueryMovements_PaginaYTotal(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "CER-001", "beer", entity.ProductTypeRawMaterial)
	for i := 0; i < 3; i++ {
		f.credit(t, p.ID, f.main, "1", "100")
	}
	uc := inventory.NewQueryUseCase(f.store.Repos())

	q := dto.MovementQuery{ProductID: p.ID, Type: string(entity.MovementPurchase)}
	q.Limit = 2
	out, err := uc.QueryMovements(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, 3, out.Page.Total)
}

func TestQueryMovements_LimitExcesivoSeRecorta(t *testing.T) {
	f := newFixture(t)
	uc := inventory.NewQueryUseCase(f.store.Repos())

	q := dto.MovementQuery{}
	q.Limit = 10000000
	out, err := uc.QueryMovements(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, dto.MaxPageLimit, out.Page.Limit)
}

func TestReconcile_CuadraTrasOperaciones(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "CER-001", "beer", entity.ProductTypeRawMaterial)
	f.credit(t, p.ID, f.main, "40", "1000")
	transfer := inventory.NewTransferUseCase(f.store, f.ledger, logger.Nop())
	_, err := transfer.TransferStock(context.Background(), "u1", dto.TransferStockRequest{
		FromLocationID: f.main, ToLocationID: f.bar,
		Items: []dto.TransferItemRequest{{ProductID: p.ID, Quantity: d("15")}},
	})
	require.NoError(t, err)
	outbound := inventory.NewOutboundUseCase(f.store, f.ledger, logger.Nop())
	_, err = outbound.RecordWaste(context.Background(), "u1", dto.RecordWasteRequest{
		LocationID: f.bar, ProductRef: p.ID, Quantity: d("20"), Reason: "derrame",
	})
	require.NoError(t, err)

	uc := inventory.NewQueryUseCase(f.store.Repos())
	for _, loc := range []string{f.main, f.bar} {
		rec, err := uc.Reconcile(context.Background(), p.ID, loc)
		require.NoError(t, err)
		assert.True(t, rec.Balanced, "ubicación %s", loc)
	}
	rec, err := uc.Reconcile(context.Background(), p.ID, f.bar)
	require.NoError(t, err)
	assert.True(t, rec.RecordedQty.Equal(d("-5")))
}
