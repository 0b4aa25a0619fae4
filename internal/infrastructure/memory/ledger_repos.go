package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Restobar-api/internal/domain"
	"github.com/jhoicas/Restobar-api/internal/domain/entity"
	"github.com/jhoicas/Restobar-api/internal/domain/repository"
)

type inventoryRepo struct{ b *binding }

func (r *inventoryRepo) Get(ctx context.Context, productID, locationID string) (*entity.InventoryRecord, error) {
	var out *entity.InventoryRecord
	err := r.b.do("inventory.get", func(st *state) error {
		out = lookupRecord(st, productID, locationID)
		return nil
	})
	return out, err
}

// GetForUpdate no necesita bloqueo propio: Run ya serializa las transacciones.
func (r *inventoryRepo) GetForUpdate(ctx context.Context, productID, locationID string) (*entity.InventoryRecord, error) {
	var out *entity.InventoryRecord
	err := r.b.do("inventory.get_for_update", func(st *state) error {
		out = lookupRecord(st, productID, locationID)
		return nil
	})
	return out, err
}

func lookupRecord(st *state, productID, locationID string) *entity.InventoryRecord {
	if rec, ok := st.inventory[pairKey{productID, locationID}]; ok {
		return &rec
	}
	return &entity.InventoryRecord{ProductID: productID, LocationID: locationID}
}

func (r *inventoryRepo) Save(ctx context.Context, rec *entity.InventoryRecord) error {
	return r.b.do("inventory.save", func(st *state) error {
		key := pairKey{rec.ProductID, rec.LocationID}
		cur, exists := st.inventory[key]
		switch {
		case rec.Version == 0 && exists:
			return domain.ErrConcurrencyConflict
		case rec.Version != 0 && (!exists || cur.Version != rec.Version):
			return domain.ErrConcurrencyConflict
		}
		saved := *rec
		saved.Version = rec.Version + 1
		st.inventory[key] = saved
		rec.Version = saved.Version
		return nil
	})
}

func (r *inventoryRepo) SumQuantityByProduct(ctx context.Context, productID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	err := r.b.do("inventory.get", func(st *state) error {
		for k, rec := range st.inventory {
			if k.productID == productID {
				sum = sum.Add(rec.Quantity)
			}
		}
		return nil
	})
	return sum, err
}

func (r *inventoryRepo) List(ctx context.Context, f repository.InventoryFilter) ([]repository.InventoryView, error) {
	var out []repository.InventoryView
	err := r.b.do("inventory.list", func(st *state) error {
		for k, rec := range st.inventory {
			if f.LocationID != "" && k.locationID != f.LocationID {
				continue
			}
			p := st.products[k.productID]
			l := st.locations[k.locationID]
			if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
				continue
			}
			if f.LowStockOnly && rec.Quantity.GreaterThan(p.MinQuantity) {
				continue
			}
			out = append(out, repository.InventoryView{
				ProductID:    k.productID,
				SKU:          p.SKU,
				ProductName:  p.Name,
				Category:     p.Category,
				LocationID:   k.locationID,
				LocationCode: l.Code,
				Quantity:     rec.Quantity,
				AvgCost:      rec.AvgCost,
				MinQuantity:  p.MinQuantity,
			})
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].LocationCode != out[j].LocationCode {
				return out[i].LocationCode < out[j].LocationCode
			}
			return out[i].SKU < out[j].SKU
		})
		out = paginate(out, f.Limit, f.Offset)
		return nil
	})
	return out, err
}

type movementRepo struct{ b *binding }

func (r *movementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	return r.b.do("movements.create", func(st *state) error {
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r *movementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.b.do("movements.list", func(st *state) error {
		out = filterMovements(st.movements, f)
		out = paginate(out, f.Limit, f.Offset)
		return nil
	})
	return out, err
}

func (r *movementRepo) Count(ctx context.Context, f repository.MovementFilter) (int, error) {
	var n int
	err := r.b.do("movements.list", func(st *state) error {
		n = len(filterMovements(st.movements, f))
		return nil
	})
	return n, err
}

func (r *movementRepo) SumForPair(ctx context.Context, productID, locationID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	err := r.b.do("movements.list", func(st *state) error {
		for i := range st.movements {
			if st.movements[i].ProductID == productID {
				sum = sum.Add(st.movements[i].SignedQuantityFor(locationID))
			}
		}
		return nil
	})
	return sum, err
}

// filterMovements conserva el orden de inserción para movimientos con la misma marca de tiempo.
func filterMovements(all []entity.StockMovement, f repository.MovementFilter) []*entity.StockMovement {
	var out []*entity.StockMovement
	for i := range all {
		m := all[i]
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.LocationID != "" && m.FromLocationID != f.LocationID && m.ToLocationID != f.LocationID {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		if f.Reference != "" && m.Reference != f.Reference {
			continue
		}
		if f.From != nil && m.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && m.CreatedAt.After(*f.To) {
			continue
		}
		out = append(out, &m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}
