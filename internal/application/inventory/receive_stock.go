package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Restobar-api/internal/application/dto"
	"github.com/jhoicas/Restobar-api/internal/domain"
	"github.com/jhoicas/Restobar-api/internal/domain/entity"
	"github.com/jhoicas/Restobar-api/pkg/logger"
)

// ReceiveStockUseCase recepciones de mercancía (compras y saldos iniciales).
type ReceiveStockUseCase struct {
	tx     TxRunner
	ledger *Ledger
	log    *logger.Logger
}

// NewReceiveStockUseCase construye el caso de uso.
func NewReceiveStockUseCase(tx TxRunner, ledger *Ledger, log *logger.Logger) *ReceiveStockUseCase {
	return &ReceiveStockUseCase{tx: tx, ledger: ledger, log: log}
}

// ReceiveStock registra la entrada de una línea y devuelve la nueva cantidad y costo promedio.
func (uc *ReceiveStockUseCase) ReceiveStock(ctx context.Context, userID string, in dto.ReceiveStockRequest) (*dto.ReceiveStockResponse, error) {
	typ := entity.MovementPurchase
	if in.Type != "" {
		typ = entity.MovementType(in.Type)
	}
	if typ != entity.MovementPurchase && typ != entity.MovementOpening {
		return nil, domain.Invalid("type", "solo PURCHASE u OPENING")
	}
	if err := validateReceiptLine(in.ProductID, in.LocationID, in.Quantity, in.UnitCost); err != nil {
		return nil, err
	}
	ref := in.SourceDoc
	if ref == "" {
		ref = Reference(RefReceipt, uuid.New().String())
	}

	var out *dto.ReceiveStockResponse
	err := uc.tx.Run(ctx, func(ctx context.Context, repos Repos) error {
		if _, err := activeLocation(ctx, repos, in.LocationID); err != nil {
			return err
		}
		if _, err := activeProduct(ctx, repos, in.ProductID); err != nil {
			return err
		}
		res, err := uc.ledger.Credit(ctx, repos, CreditInput{
			ProductID:  in.ProductID,
			LocationID: in.LocationID,
			Quantity:   in.Quantity,
			UnitCost:   in.UnitCost,
			Type:       typ,
			Reference:  ref,
			Note:       in.Note,
			CreatedBy:  userID,
		})
		if err != nil {
			return err
		}
		out = toReceiveResponse(res)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("product_id", out.ProductID).
		Str("location_id", out.LocationID).
		Str("quantity", in.Quantity.String()).
		Str("avg_cost", out.NewAvgCost.String()).
		Str("reference", ref).
		Msg("recepción registrada")
	return out, nil
}

// ReceivePurchase recibe todas las líneas de una compra en una sola transacción (un movimiento por línea).
func (uc *ReceiveStockUseCase) ReceivePurchase(ctx context.Context, userID string, in dto.ReceivePurchaseRequest) (*dto.ReceivePurchaseResponse, error) {
	if in.LocationID == "" {
		return nil, domain.Invalid("location_id", "obligatorio")
	}
	if len(in.Items) == 0 {
		return nil, domain.Invalid("items", "la compra no tiene líneas")
	}
	for _, it := range in.Items {
		if err := validateReceiptLine(it.ProductID, in.LocationID, it.Quantity, it.UnitCost); err != nil {
			return nil, err
		}
	}
	ref := in.SourceDoc
	if ref == "" {
		ref = Reference(RefReceipt, uuid.New().String())
	}

	out := &dto.ReceivePurchaseResponse{SourceDoc: ref, Lines: make([]dto.ReceiveStockResponse, 0, len(in.Items))}
	err := uc.tx.Run(ctx, func(ctx context.Context, repos Repos) error {
		out.Lines = out.Lines[:0]
		if _, err := activeLocation(ctx, repos, in.LocationID); err != nil {
			return err
		}
		for _, it := range in.Items {
			if _, err := activeProduct(ctx, repos, it.ProductID); err != nil {
				return err
			}
			res, err := uc.ledger.Credit(ctx, repos, CreditInput{
				ProductID:  it.ProductID,
				LocationID: in.LocationID,
				Quantity:   it.Quantity,
				UnitCost:   it.UnitCost,
				Type:       entity.MovementPurchase,
				Reference:  ref,
				Note:       in.Note,
				CreatedBy:  userID,
			})
			if err != nil {
				return err
			}
			out.Lines = append(out.Lines, *toReceiveResponse(res))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("reference", ref).Int("lines", len(out.Lines)).Msg("compra recibida")
	return out, nil
}

func validateReceiptLine(productID, locationID string, qty, unitCost decimal.Decimal) error {
	if productID == "" {
		return domain.Invalid("product_id", "obligatorio")
	}
	if locationID == "" {
		return domain.Invalid("location_id", "obligatorio")
	}
	if !qty.IsPositive() {
		return domain.Invalid("quantity", "debe ser mayor que cero")
	}
	if unitCost.IsNegative() {
		return domain.Invalid("unit_cost", "no puede ser negativo")
	}
	return nil
}

func toReceiveResponse(res *LedgerResult) *dto.ReceiveStockResponse {
	return &dto.ReceiveStockResponse{
		MovementID:  res.Movement.ID,
		ProductID:   res.Record.ProductID,
		LocationID:  res.Record.LocationID,
		NewQuantity: res.Record.Quantity,
		NewAvgCost:  res.Record.AvgCost,
	}
}
