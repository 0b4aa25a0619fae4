package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Restobar-api/internal/application/dto"
	"github.com/jhoicas/Restobar-api/internal/domain"
	"github.com/jhoicas/Restobar-api/internal/domain/entity"
	"github.com/jhoicas/Restobar-api/internal/domain/repository"
)

// ProductUseCase casos de uso de configuración de productos. Cost y Stock se manejan vía ledger.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto. Cost inicia en 0.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	if in.SKU == "" {
		return nil, domain.Invalid("sku", "obligatorio")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.Invalid("name", "obligatorio")
	}
	typ := entity.ProductType(in.Type)
	if !typ.Valid() {
		return nil, domain.Invalid("type", "tipo de producto desconocido")
	}
	if in.Price.IsNegative() || in.MinQuantity.IsNegative() || in.ConversionFactor.IsNegative() {
		return nil, domain.Invalid("price", "los montos no pueden ser negativos")
	}
	existing, err := uc.repo.GetBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now().UTC()
	product := &entity.Product{
		ID:               uuid.New().String(),
		SKU:              in.SKU,
		Name:             strings.TrimSpace(in.Name),
		Category:         strings.TrimSpace(in.Category),
		Unit:             in.Unit,
		SecondaryUnit:    in.SecondaryUnit,
		ConversionFactor: in.ConversionFactor,
		Cost:             decimal.Zero,
		Price:            in.Price,
		MinQuantity:      in.MinQuantity,
		Type:             typ,
		Lifecycle:        entity.LifecycleActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto", id)
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. No permite modificar Cost (se maneja vía ledger) ni SKU.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto", id)
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Category != nil {
		product.Category = strings.TrimSpace(*in.Category)
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.Invalid("price", "no puede ser negativo")
		}
		product.Price = *in.Price
	}
	if in.MinQuantity != nil {
		product.MinQuantity = *in.MinQuantity
	}
	if in.SecondaryUnit != nil {
		product.SecondaryUnit = *in.SecondaryUnit
	}
	if in.ConversionFactor != nil {
		product.ConversionFactor = *in.ConversionFactor
	}
	product.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, category string, includeRetired bool, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, repository.ProductFilter{
		Category:       category,
		IncludeRetired: includeRetired,
		Limit:          page.Limit,
		Offset:         page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Retire retira el producto. Sus movimientos siguen visibles en reportes.
func (uc *ProductUseCase) Retire(ctx context.Context, id string) error {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.NotFound("producto", id)
	}
	return uc.repo.SetLifecycle(ctx, id, entity.LifecycleRetired)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:               p.ID,
		SKU:              p.SKU,
		Name:             p.Name,
		Category:         p.Category,
		Unit:             p.Unit,
		SecondaryUnit:    p.SecondaryUnit,
		ConversionFactor: p.ConversionFactor,
		Cost:             p.Cost,
		Price:            p.Price,
		MinQuantity:      p.MinQuantity,
		Type:             string(p.Type),
		Lifecycle:        string(p.Lifecycle),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
