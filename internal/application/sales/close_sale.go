package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Restobar-api/internal/application/dto"
	"github.com/jhoicas/Restobar-api/internal/application/inventory"
	"github.com/jhoicas/Restobar-api/internal/application/recipe"
	"github.com/jhoicas/Restobar-api/internal/domain"
	"github.com/jhoicas/Restobar-api/internal/domain/entity"
	"github.com/jhoicas/Restobar-api/pkg/logger"
)

// DefaultPublishTimeout tiempo máximo que el cierre espera al broker después del commit.
const DefaultPublishTimeout = 2 * time.Second

// CloseSaleUseCase cierra una cuenta: totales, descuento de inventario por receta, pago,
// liberación de mesa y evento de venta, todo en una transacción.
type CloseSaleUseCase struct {
	tx        inventory.TxRunner
	ledger    *inventory.Ledger
	resolver  *recipe.Resolver
	publisher SaleEventPublisher
	log       *logger.Logger
	now       func() time.Time

	publishTimeout time.Duration
}

// NewCloseSaleUseCase construye el orquestador.
func NewCloseSaleUseCase(
	tx inventory.TxRunner,
	ledger *inventory.Ledger,
	resolver *recipe.Resolver,
	publisher SaleEventPublisher,
	log *logger.Logger,
) *CloseSaleUseCase {
	return &CloseSaleUseCase{
		tx:        tx,
		ledger:    ledger,
		resolver:  resolver,
		publisher: publisher,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },

		publishTimeout: DefaultPublishTimeout,
	}
}

// WithPublishTimeout cambia la espera máxima de la publicación. Valores <= 0 se ignoran.
func (uc *CloseSaleUseCase) WithPublishTimeout(d time.Duration) *CloseSaleUseCase {
	if d > 0 {
		uc.publishTimeout = d
	}
	return uc
}

// CloseSale pasa la orden de OPEN a CLOSED. El faltante de stock nunca bloquea el cierre:
// vuelve como advertencias. Cualquier error de persistencia revierte todo.
func (uc *CloseSaleUseCase) CloseSale(ctx context.Context, userID, orderID string, in dto.CloseSaleRequest) (*dto.CloseSaleResponse, error) {
	if orderID == "" {
		return nil, domain.Invalid("order_id", "obligatorio")
	}
	switch in.Method {
	case entity.PaymentCash, entity.PaymentCard, entity.PaymentTransfer:
	default:
		return nil, domain.Invalid("method", "método de pago desconocido")
	}
	if in.Tendered.IsNegative() {
		return nil, domain.Invalid("tendered", "no puede ser negativo")
	}

	var (
		order    *entity.Order
		payment  *entity.Payment
		event    *entity.SaleEvent
		warnings []entity.StockWarning
	)
	err := uc.tx.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		warnings = []entity.StockWarning{}
		var err error
		order, err = repos.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.NotFound("orden", orderID)
		}
		if order.Status != entity.OrderStatusOpen {
			return fmt.Errorf("%w: la orden %s está %s", domain.ErrConflict, orderID, order.Status)
		}

		// 1. Totales
		order.Recalculate()
		payment, err = buildPayment(order, in, uc.now())
		if err != nil {
			return err
		}

		// 2. Descuento de inventario
		ref := inventory.Reference(inventory.RefOrder, order.ID)
		for _, it := range order.Items {
			if it.Cancelled {
				continue
			}
			deductions, err := uc.resolver.Resolve(ctx, repos, it.ProductID, it.Quantity)
			if err != nil {
				return err
			}
			for _, d := range deductions {
				if !d.DeductQuantity.IsPositive() {
					continue
				}
				res, err := uc.ledger.Debit(ctx, repos, inventory.DebitInput{
					ProductID:  d.IngredientProductID,
					LocationID: d.LocationID,
					Quantity:   d.DeductQuantity,
					UnitCost:   d.UnitCost,
					Type:       entity.MovementSale,
					Reference:  ref,
					CreatedBy:  userID,
				})
				if err != nil {
					return err
				}
				if res.Warning != nil {
					warnings = append(warnings, *res.Warning)
				}
			}
		}

		// 3. Cierre, pago y mesa
		closedAt := payment.CreatedAt
		order.Status = entity.OrderStatusClosed
		order.ClosedAt = &closedAt
		order.ClosedBy = userID
		if err := repos.Orders.Close(ctx, order); err != nil {
			return err
		}
		if err := repos.Orders.CreatePayment(ctx, payment); err != nil {
			return err
		}
		if order.TableID != "" {
			if err := repos.Tables.SetStatus(ctx, order.TableID, entity.TableStatusAvailable); err != nil {
				return err
			}
		}

		// 4. Evento de venta (escritura única)
		event = buildSaleEvent(order, payment)
		return repos.SaleEvents.Create(ctx, event)
	})
	if err != nil {
		return nil, err
	}

	if len(warnings) > 0 {
		uc.log.Warn().Str("order_id", orderID).Int("warnings", len(warnings)).Msg("venta cerrada con faltantes de stock")
	}
	uc.log.Info().Str("order_id", orderID).Str("total", order.Total.String()).Str("method", payment.Method).Msg("venta cerrada")

	// La venta ya está confirmada: la publicación no depende de la cancelación del request
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.publishTimeout)
	err = uc.publisher.Publish(pubCtx, event)
	cancel()
	if err != nil {
		uc.log.Error().Err(err).Str("order_id", orderID).Str("event_id", event.ID).Msg("no se pudo publicar el evento de venta")
	}

	return &dto.CloseSaleResponse{
		Order:         dto.ToOrderResponse(order),
		PaymentID:     payment.ID,
		ChangeAmount:  payment.Change,
		StockWarnings: warnings,
	}, nil
}

// buildPayment en efectivo exige monto recibido >= total (0 = pago exacto); otros métodos cobran el total.
func buildPayment(order *entity.Order, in dto.CloseSaleRequest, now time.Time) (*entity.Payment, error) {
	tendered := order.Total
	if in.Method == entity.PaymentCash && !in.Tendered.IsZero() {
		if in.Tendered.LessThan(order.Total) {
			return nil, domain.Invalid("tendered", fmt.Sprintf("monto recibido %s menor que el total %s", in.Tendered, order.Total))
		}
		tendered = in.Tendered
	}
	return &entity.Payment{
		ID:        uuid.New().String(),
		OrderID:   order.ID,
		Method:    in.Method,
		Amount:    order.Total,
		Tendered:  tendered,
		Change:    tendered.Sub(order.Total),
		CreatedAt: now,
	}, nil
}

func buildSaleEvent(order *entity.Order, payment *entity.Payment) *entity.SaleEvent {
	lines := make([]entity.SaleEventLine, 0, len(order.Items))
	for _, it := range order.Items {
		if it.Cancelled {
			continue
		}
		lines = append(lines, entity.SaleEventLine{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Amount:    it.Quantity.Mul(it.UnitPrice).Round(2),
		})
	}
	closedAt := payment.CreatedAt
	if order.ClosedAt != nil {
		closedAt = *order.ClosedAt
	}
	return &entity.SaleEvent{
		ID:            uuid.New().String(),
		OrderID:       order.ID,
		Lines:         lines,
		Subtotal:      order.Subtotal,
		Discount:      order.Discount,
		Tax:           order.Tax,
		Total:         order.Total,
		PaymentMethod: payment.Method,
		OpenedAt:      order.OpenedAt,
		ClosedAt:      closedAt,
		CreatedAt:     payment.CreatedAt,
	}
}

