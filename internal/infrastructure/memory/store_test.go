package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Restobar-api/internal/application/inventory"
	"github.com/jhoicas/Restobar-api/internal/domain"
	"github.com/jhoicas/Restobar-api/internal/domain/entity"
	"github.com/jhoicas/Restobar-api/internal/infrastructure/memory"
)

func newProduct(sku string) *entity.Product {
	now := time.Now().UTC()
	return &entity.Product{
		ID: uuid.New().String(), SKU: sku, Name: sku, Unit: "und",
		Type: entity.ProductTypeRawMaterial, Lifecycle: entity.LifecycleActive, CreatedAt: now, UpdatedAt: now,
	}
}

func TestStore_RunConfirmaCambios(t *testing.T) {
	s := memory.New()
	p := newProduct("A")

	err := s.Run(context.Background(), func(ctx context.Context, repos inventory.Repos) error {
		return repos.Products.Create(ctx, p)
	})
	require.NoError(t, err)

	got, err := s.Repos().Products.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "A", got.SKU)
}

func TestStore_ErrorDescartaLaCopia(t *testing.T) {
	s := memory.New()
	p := newProduct("A")

	err := s.Run(context.Background(), func(ctx context.Context, repos inventory.Repos) error {
		if err := repos.Products.Create(ctx, p); err != nil {
			return err
		}
		return errors.New("abortar")
	})
	require.Error(t, err)

	got, err := s.Repos().Products.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_FallaInyectada(t *testing.T) {
	s := memory.New()
	boom := errors.New("boom")
	s.InjectFault("products.create", boom)

	err := s.Run(context.Background(), func(ctx context.Context, repos inventory.Repos) error {
		return repos.Products.Create(ctx, newProduct("A"))
	})
	assert.ErrorIs(t, err, boom)

	s.InjectFault("products.create", nil)
	err = s.Run(context.Background(), func(ctx context.Context, repos inventory.Repos) error {
		return repos.Products.Create(ctx, newProduct("A"))
	})
	assert.NoError(t, err)
}

func TestStore_TimeoutRevierte(t *testing.T) {
	s := memory.New().WithTxTimeout(10 * time.Millisecond)
	p := newProduct("A")

	err := s.Run(context.Background(), func(ctx context.Context, repos inventory.Repos) error {
		if err := repos.Products.Create(ctx, p); err != nil {
			return err
		}
		<-ctx.Done()
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrTransactionFailure)

	got, err := s.Repos().Products.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_MovimientosSoloAgregan(t *testing.T) {
	s := memory.NewSeeded()
	ctx := context.Background()
	bar, err := s.Repos().Locations.GetByCode(ctx, "BAR")
	require.NoError(t, err)
	p := newProduct("A")
	require.NoError(t, s.Repos().Products.Create(ctx, p))

	for _, q := range []int64{5, 3} {
		require.NoError(t, s.Repos().Movements.Create(ctx, &entity.StockMovement{
			ID: uuid.New().String(), ProductID: p.ID, ToLocationID: bar.ID,
			Type: entity.MovementPurchase, Quantity: decimal.NewFromInt(q), CreatedAt: time.Now().UTC(),
		}))
	}
	require.NoError(t, s.Repos().Movements.Create(ctx, &entity.StockMovement{
		ID: uuid.New().String(), ProductID: p.ID, FromLocationID: bar.ID,
		Type: entity.MovementWaste, Quantity: decimal.NewFromInt(2), CreatedAt: time.Now().UTC(),
	}))

	sum, err := s.Repos().Movements.SumForPair(ctx, p.ID, bar.ID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(6)))
}

func TestStore_NewSeededTraeUbicacionesYMesas(t *testing.T) {
	s := memory.NewSeeded()
	locs, err := s.Repos().Locations.List(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, locs, 3)

	table := s.AddTable("Barra 1")
	got, err := s.Repos().Tables.GetByID(context.Background(), table.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.TableStatusAvailable, got.Status)
}
