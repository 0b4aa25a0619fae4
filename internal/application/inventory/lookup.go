package inventory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/Restobar-api/internal/domain"
	"github.com/jhoicas/Restobar-api/internal/domain/entity"
)

// Prefijos de referencia hacia el documento de negocio que originó el movimiento.
const (
	RefOrder    = "ORDER"
	RefCount    = "COUNT"
	RefTransfer = "TRANSFER"
	RefWaste    = "WASTE"
	RefReturn   = "RETURN"
	RefReceipt  = "RECEIPT"
	RefCost     = "COST"
)

// Reference arma "<PREFIJO>:<id>".
func Reference(prefix, id string) string {
	return prefix + ":" + id
}

// findProduct devuelve el producto o NotFound.
func findProduct(ctx context.Context, repos Repos, id string) (*entity.Product, error) {
	p, err := repos.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("producto", id)
	}
	return p, nil
}

// activeProduct como findProduct pero rechaza productos retirados.
func activeProduct(ctx context.Context, repos Repos, id string) (*entity.Product, error) {
	p, err := findProduct(ctx, repos, id)
	if err != nil {
		return nil, err
	}
	if !p.Lifecycle.IsActive() {
		return nil, domain.Invalid("product_id", "producto retirado")
	}
	return p, nil
}

func findLocation(ctx context.Context, repos Repos, id string) (*entity.Location, error) {
	loc, err := repos.Locations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.NotFound("ubicación", id)
	}
	return loc, nil
}

// activeLocation rechaza ubicaciones retiradas: no reciben stock nuevo.
func activeLocation(ctx context.Context, repos Repos, id string) (*entity.Location, error) {
	loc, err := findLocation(ctx, repos, id)
	if err != nil {
		return nil, err
	}
	if !loc.Lifecycle.IsActive() {
		return nil, domain.Invalid("location_id", "ubicación retirada")
	}
	return loc, nil
}

// resolveProductRef busca por ID, luego SKU y por último nombre exacto (sin mayúsculas).
func resolveProductRef(ctx context.Context, repos Repos, ref string) (*entity.Product, error) {
	ref = strings.TrimSpace(ref)
	if _, err := uuid.Parse(ref); err == nil {
		p, err := repos.Products.GetByID(ctx, ref)
		if err != nil {
			return nil, err
		}
		if p != nil {
			return p, nil
		}
	}
	p, err := repos.Products.GetBySKU(ctx, ref)
	if err != nil {
		return nil, err
	}
	if p != nil {
		return p, nil
	}
	p, err = repos.Products.FindByName(ctx, ref)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("producto", ref)
	}
	return p, nil
}
