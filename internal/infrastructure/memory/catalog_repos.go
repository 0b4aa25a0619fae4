package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Restobar-api/internal/domain"
	"github.com/jhoicas/Restobar-api/internal/domain/entity"
	"github.com/jhoicas/Restobar-api/internal/domain/repository"
)

type productRepo struct{ b *binding }

func (r *productRepo) Create(ctx context.Context, p *entity.Product) error {
	return r.b.do("products.create", func(st *state) error {
		for _, existing := range st.products {
			if existing.SKU == p.SKU {
				return domain.ErrDuplicate
			}
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *productRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.b.do("products.get", func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *productRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.b.do("products.get", func(st *state) error {
		for _, p := range st.products {
			if p.SKU == sku {
				p := p
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *productRepo) FindByName(ctx context.Context, name string) (*entity.Product, error) {
	var out *entity.Product
	err := r.b.do("products.get", func(st *state) error {
		// orden por SKU para que un nombre repetido resuelva siempre igual
		var matches []entity.Product
		for _, p := range st.products {
			if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
				matches = append(matches, p)
			}
		}
		sort.Slice(matches, func(i, j int) bool { return matches[i].SKU < matches[j].SKU })
		if len(matches) > 0 {
			out = &matches[0]
		}
		return nil
	})
	return out, err
}

func (r *productRepo) Update(ctx context.Context, p *entity.Product) error {
	return r.b.do("products.update", func(st *state) error {
		cur, ok := st.products[p.ID]
		if !ok {
			return domain.NotFound("producto", p.ID)
		}
		upd := *p
		upd.Cost = cur.Cost
		upd.SKU = cur.SKU
		upd.Lifecycle = cur.Lifecycle
		st.products[p.ID] = upd
		return nil
	})
}

func (r *productRepo) UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error {
	return r.b.do("products.update_cost", func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return domain.NotFound("producto", productID)
		}
		p.Cost = cost
		p.UpdatedAt = time.Now().UTC()
		st.products[productID] = p
		return nil
	})
}

func (r *productRepo) SetLifecycle(ctx context.Context, productID string, lc entity.Lifecycle) error {
	return r.b.do("products.update", func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return domain.NotFound("producto", productID)
		}
		p.Lifecycle = lc
		p.UpdatedAt = time.Now().UTC()
		st.products[productID] = p
		return nil
	})
}

func (r *productRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.b.do("products.list", func(st *state) error {
		for _, p := range st.products {
			if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
				continue
			}
			if f.Type != "" && p.Type != f.Type {
				continue
			}
			if !f.IncludeRetired && !p.Lifecycle.IsActive() {
				continue
			}
			p := p
			out = append(out, &p)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
		out = paginate(out, f.Limit, f.Offset)
		return nil
	})
	return out, err
}

type locationRepo struct{ b *binding }

func (r *locationRepo) Create(ctx context.Context, l *entity.Location) error {
	return r.b.do("locations.create", func(st *state) error {
		for _, existing := range st.locations {
			if existing.Code == l.Code {
				return domain.ErrDuplicate
			}
		}
		st.locations[l.ID] = *l
		return nil
	})
}

func (r *locationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	var out *entity.Location
	err := r.b.do("locations.get", func(st *state) error {
		if l, ok := st.locations[id]; ok {
			out = &l
		}
		return nil
	})
	return out, err
}

func (r *locationRepo) GetByCode(ctx context.Context, code string) (*entity.Location, error) {
	var out *entity.Location
	err := r.b.do("locations.get", func(st *state) error {
		for _, l := range st.locations {
			if strings.EqualFold(l.Code, code) {
				l := l
				out = &l
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *locationRepo) List(ctx context.Context, includeRetired bool) ([]*entity.Location, error) {
	var out []*entity.Location
	err := r.b.do("locations.list", func(st *state) error {
		for _, l := range st.locations {
			if !includeRetired && !l.Lifecycle.IsActive() {
				continue
			}
			l := l
			out = append(out, &l)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
		return nil
	})
	return out, err
}

func (r *locationRepo) SetLifecycle(ctx context.Context, locationID string, lc entity.Lifecycle) error {
	return r.b.do("locations.update", func(st *state) error {
		l, ok := st.locations[locationID]
		if !ok {
			return domain.NotFound("ubicación", locationID)
		}
		l.Lifecycle = lc
		l.UpdatedAt = time.Now().UTC()
		st.locations[locationID] = l
		return nil
	})
}

type recipeRepo struct{ b *binding }

func (r *recipeRepo) GetActiveByMenuProduct(ctx context.Context, menuProductID string) (*entity.Recipe, error) {
	var out *entity.Recipe
	err := r.b.do("recipes.get", func(st *state) error {
		for _, rc := range st.recipes {
			if rc.MenuProductID == menuProductID && rc.Lifecycle.IsActive() {
				out = copyRecipe(rc)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *recipeRepo) GetByID(ctx context.Context, id string) (*entity.Recipe, error) {
	var out *entity.Recipe
	err := r.b.do("recipes.get", func(st *state) error {
		if rc, ok := st.recipes[id]; ok {
			out = copyRecipe(rc)
		}
		return nil
	})
	return out, err
}

func (r *recipeRepo) Save(ctx context.Context, rc *entity.Recipe) error {
	return r.b.do("recipes.save", func(st *state) error {
		st.recipes[rc.ID] = *copyRecipe(*rc)
		return nil
	})
}

func (r *recipeRepo) SetLifecycle(ctx context.Context, recipeID string, lc entity.Lifecycle) error {
	return r.b.do("recipes.save", func(st *state) error {
		rc, ok := st.recipes[recipeID]
		if !ok {
			return domain.NotFound("receta", recipeID)
		}
		rc.Lifecycle = lc
		rc.UpdatedAt = time.Now().UTC()
		st.recipes[recipeID] = rc
		return nil
	})
}

func copyRecipe(rc entity.Recipe) *entity.Recipe {
	rc.Lines = append([]entity.RecipeLine(nil), rc.Lines...)
	return &rc
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
