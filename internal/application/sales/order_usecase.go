package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Restobar-api/internal/application/dto"
	"github.com/jhoicas/Restobar-api/internal/application/inventory"
	"github.com/jhoicas/Restobar-api/internal/domain"
	"github.com/jhoicas/Restobar-api/internal/domain/entity"
	"github.com/jhoicas/Restobar-api/pkg/logger"
)

// OrderUseCase apertura y consulta de cuentas.
type OrderUseCase struct {
	tx    inventory.TxRunner
	repos inventory.Repos
	log   *logger.Logger
}

// NewOrderUseCase construye el caso de uso. repos se usa solo para lecturas.
func NewOrderUseCase(tx inventory.TxRunner, repos inventory.Repos, log *logger.Logger) *OrderUseCase {
	return &OrderUseCase{tx: tx, repos: repos, log: log}
}

// CreateOrder abre una cuenta con sus líneas y ocupa la mesa si se indicó.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.Invalid("items", "la orden no tiene líneas")
	}
	if in.DiscountPct.IsNegative() || in.DiscountPct.GreaterThan(decimal.NewFromInt(100)) {
		return nil, domain.Invalid("discount_pct", "debe estar entre 0 y 100")
	}
	if in.TaxRate.IsNegative() {
		return nil, domain.Invalid("tax_rate", "no puede ser negativo")
	}
	for _, it := range in.Items {
		if it.ProductID == "" {
			return nil, domain.Invalid("product_id", "obligatorio")
		}
		if !it.Quantity.IsPositive() {
			return nil, domain.Invalid("quantity", "debe ser mayor que cero")
		}
		if it.UnitPrice.IsNegative() {
			return nil, domain.Invalid("unit_price", "no puede ser negativo")
		}
	}

	order := &entity.Order{
		ID:          uuid.New().String(),
		TableID:     in.TableID,
		Status:      entity.OrderStatusOpen,
		DiscountPct: in.DiscountPct,
		TaxRate:     in.TaxRate,
		OpenedAt:    time.Now().UTC(),
	}
	err := uc.tx.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		order.Items = order.Items[:0]
		if in.TableID != "" {
			table, err := repos.Tables.GetByID(ctx, in.TableID)
			if err != nil {
				return err
			}
			if table == nil {
				return domain.NotFound("mesa", in.TableID)
			}
			if err := repos.Tables.SetStatus(ctx, in.TableID, entity.TableStatusOccupied); err != nil {
				return err
			}
		}
		for _, it := range in.Items {
			p, err := repos.Products.GetByID(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return domain.NotFound("producto", it.ProductID)
			}
			if !p.Lifecycle.IsActive() {
				return domain.Invalid("product_id", "producto retirado: "+p.SKU)
			}
			price := it.UnitPrice
			if price.IsZero() {
				price = p.Price
			}
			order.Items = append(order.Items, entity.OrderItem{
				ID:        uuid.New().String(),
				OrderID:   order.ID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: price,
				Cancelled: it.Cancelled,
			})
		}
		order.Recalculate()
		return repos.Orders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", order.ID).Str("table_id", order.TableID).Int("items", len(order.Items)).Msg("orden abierta")
	resp := dto.ToOrderResponse(order)
	return &resp, nil
}

// GetOrder devuelve la orden o NotFound.
func (uc *OrderUseCase) GetOrder(ctx context.Context, id string) (*dto.OrderResponse, error) {
	order, err := uc.repos.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.NotFound("orden", id)
	}
	resp := dto.ToOrderResponse(order)
	return &resp, nil
}
