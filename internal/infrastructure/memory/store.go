package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Restobar-api/internal/application/inventory"
	"github.com/jhoicas/Restobar-api/internal/domain"
	"github.com/jhoicas/Restobar-api/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

type pairKey struct {
	productID  string
	locationID string
}

// state es todo el contenido del store. Run trabaja sobre una copia y la publica en el commit.
type state struct {
	products    map[string]entity.Product
	locations   map[string]entity.Location
	inventory   map[pairKey]entity.InventoryRecord
	movements   []entity.StockMovement
	recipes     map[string]entity.Recipe
	orders      map[string]entity.Order
	payments    []entity.Payment
	tables      map[string]entity.DiningTable
	adjustments []entity.StockAdjustment
	transfers   []entity.StockTransfer
	saleEvents  []entity.SaleEvent
}

func newState() *state {
	return &state{
		products:  map[string]entity.Product{},
		locations: map[string]entity.Location{},
		inventory: map[pairKey]entity.InventoryRecord{},
		recipes:   map[string]entity.Recipe{},
		orders:    map[string]entity.Order{},
		tables:    map[string]entity.DiningTable{},
	}
}

func (s *state) clone() *state {
	c := &state{
		products:    make(map[string]entity.Product, len(s.products)),
		locations:   make(map[string]entity.Location, len(s.locations)),
		inventory:   make(map[pairKey]entity.InventoryRecord, len(s.inventory)),
		movements:   append([]entity.StockMovement(nil), s.movements...),
		recipes:     make(map[string]entity.Recipe, len(s.recipes)),
		orders:      make(map[string]entity.Order, len(s.orders)),
		payments:    append([]entity.Payment(nil), s.payments...),
		tables:      make(map[string]entity.DiningTable, len(s.tables)),
		adjustments: append([]entity.StockAdjustment(nil), s.adjustments...),
		transfers:   append([]entity.StockTransfer(nil), s.transfers...),
		saleEvents:  append([]entity.SaleEvent(nil), s.saleEvents...),
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.locations {
		c.locations[k] = v
	}
	for k, v := range s.inventory {
		c.inventory[k] = v
	}
	// Recetas y órdenes se guardan con sus slices ya copiados; nunca se mutan en sitio.
	for k, v := range s.recipes {
		c.recipes[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.tables {
		c.tables[k] = v
	}
	return c
}

// Store almacenamiento en memoria con transacciones serializadas (un escritor a la vez).
// Sirve a los tests y al modo STORE_DRIVER=memory.
type Store struct {
	mu        sync.Mutex
	cur       *state
	txTimeout time.Duration
	faults    map[string]error
}

// New crea un store vacío.
func New() *Store {
	return &Store{cur: newState(), faults: map[string]error{}}
}

// WithTxTimeout aplica un timeout por transacción, como el runner de postgres.
func (s *Store) WithTxTimeout(d time.Duration) *Store {
	s.txTimeout = d
	return s
}

// InjectFault hace que la operación op ("orders.close", "movements.create"...) falle con err.
// nil elimina la falla.
func (s *Store) InjectFault(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.faults, op)
		return
	}
	s.faults[op] = err
}

// Repos repositorios fuera de transacción: cada llamada toma el lock y ve el último commit.
func (s *Store) Repos() inventory.Repos {
	return reposFor(&binding{store: s})
}

// Run ejecuta fn sobre una copia del estado; si fn devuelve error la copia se descarta.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos inventory.Repos) error) error {
	if s.txTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.txTimeout)
		defer cancel()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransactionFailure, err)
	}

	tx := s.cur.clone()
	if err := fn(ctx, reposFor(&binding{store: s, tx: tx})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransactionFailure, err)
	}
	s.cur = tx
	return nil
}

// binding decide sobre qué estado opera un repo: la copia de la tx o el estado confirmado.
type binding struct {
	store *Store
	tx    *state
}

func (b *binding) do(op string, fn func(st *state) error) error {
	if b.tx != nil {
		if err := b.store.faults[op]; err != nil {
			return err
		}
		return fn(b.tx)
	}
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	if err := b.store.faults[op]; err != nil {
		return err
	}
	return fn(b.store.cur)
}

func reposFor(b *binding) inventory.Repos {
	return inventory.Repos{
		Movements:   &movementRepo{b},
		Inventory:   &inventoryRepo{b},
		Products:    &productRepo{b},
		Locations:   &locationRepo{b},
		Recipes:     &recipeRepo{b},
		Orders:      &orderRepo{b},
		Tables:      &tableRepo{b},
		Adjustments: &adjustmentRepo{b},
		Transfers:   &transferRepo{b},
		SaleEvents:  &saleEventRepo{b},
	}
}

// AddTable registra una mesa (no hay caso de uso de mesas; se siembran).
func (s *Store) AddTable(name string) entity.DiningTable {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := entity.DiningTable{ID: uuid.New().String(), Name: name, Status: entity.TableStatusAvailable}
	s.cur.tables[t.ID] = t
	return t
}

// NewSeeded store con las ubicaciones MAIN, BAR y KITCHEN y seis mesas, para modo desarrollo.
func NewSeeded() *Store {
	s := New()
	now := time.Now().UTC()
	for _, l := range []struct{ code, name, kind string }{
		{"MAIN", "Bodega principal", entity.LocationKindWarehouse},
		{"BAR", "Barra", entity.LocationKindBar},
		{"KITCHEN", "Cocina", entity.LocationKindKitchen},
	} {
		id := uuid.New().String()
		s.cur.locations[id] = entity.Location{
			ID: id, Code: l.code, Name: l.name, Kind: l.kind,
			Lifecycle: entity.LifecycleActive, CreatedAt: now, UpdatedAt: now,
		}
	}
	for i := 1; i <= 6; i++ {
		s.AddTable(fmt.Sprintf("Mesa %d", i))
	}
	return s
}

// Payments copia de los pagos confirmados.
func (s *Store) Payments() []entity.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Payment(nil), s.cur.payments...)
}

// SaleEvents copia de los eventos de venta confirmados.
func (s *Store) SaleEvents() []entity.SaleEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.SaleEvent(nil), s.cur.saleEvents...)
}

// Adjustments copia de los documentos de conteo confirmados.
func (s *Store) Adjustments() []entity.StockAdjustment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.StockAdjustment(nil), s.cur.adjustments...)
}

// Transfers copia de los documentos de traslado confirmados.
func (s *Store) Transfers() []entity.StockTransfer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.StockTransfer(nil), s.cur.transfers...)
}
