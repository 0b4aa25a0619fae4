package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Restobar-api/internal/application/dto"
	"github.com/jhoicas/Restobar-api/internal/domain"
	"github.com/jhoicas/Restobar-api/internal/domain/entity"
	"github.com/jhoicas/Restobar-api/pkg/logger"
)

// TransferUseCase traslados entre ubicaciones.
type TransferUseCase struct {
	tx     TxRunner
	ledger *Ledger
	log    *logger.Logger
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(tx TxRunner, ledger *Ledger, log *logger.Logger) *TransferUseCase {
	return &TransferUseCase{tx: tx, ledger: ledger, log: log}
}

// TransferStock mueve todas las líneas o ninguna: si una línea no tiene stock suficiente
// en el origen, la transacción completa se revierte con ErrInsufficientStock.
func (uc *TransferUseCase) TransferStock(ctx context.Context, userID string, in dto.TransferStockRequest) (*dto.TransferStockResponse, error) {
	if in.FromLocationID == "" {
		return nil, domain.Invalid("from_location_id", "obligatorio")
	}
	if in.ToLocationID == "" {
		return nil, domain.Invalid("to_location_id", "obligatorio")
	}
	if in.FromLocationID == in.ToLocationID {
		return nil, domain.ErrInvalidTransfer
	}
	if len(in.Items) == 0 {
		return nil, domain.Invalid("items", "el traslado no tiene líneas")
	}
	for _, it := range in.Items {
		if it.ProductID == "" {
			return nil, domain.Invalid("product_id", "obligatorio")
		}
		if !it.Quantity.IsPositive() {
			return nil, domain.Invalid("quantity", "debe ser mayor que cero")
		}
	}

	tr := &entity.StockTransfer{
		ID:             uuid.New().String(),
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Note:           in.Note,
		CreatedBy:      userID,
	}
	ref := Reference(RefTransfer, tr.ID)
	out := &dto.TransferStockResponse{TransferID: tr.ID}

	err := uc.tx.Run(ctx, func(ctx context.Context, repos Repos) error {
		tr.Items = tr.Items[:0]
		out.Items = out.Items[:0]
		if _, err := findLocation(ctx, repos, in.FromLocationID); err != nil {
			return err
		}
		if _, err := activeLocation(ctx, repos, in.ToLocationID); err != nil {
			return err
		}
		for _, it := range in.Items {
			if _, err := findProduct(ctx, repos, it.ProductID); err != nil {
				return err
			}
			res, err := uc.ledger.Transfer(ctx, repos, TransferInput{
				ProductID:      it.ProductID,
				FromLocationID: in.FromLocationID,
				ToLocationID:   in.ToLocationID,
				Quantity:       it.Quantity,
				Reference:      ref,
				Note:           in.Note,
				CreatedBy:      userID,
			})
			if err != nil {
				return err
			}
			tr.Items = append(tr.Items, entity.StockTransferItem{
				ProductID: it.ProductID,
				Quantity:  res.Movement.Quantity,
				UnitCost:  res.Movement.UnitCost,
			})
			out.Items = append(out.Items, dto.TransferItemResponse{
				ProductID:  it.ProductID,
				Quantity:   res.Movement.Quantity,
				UnitCost:   res.Movement.UnitCost,
				MovementID: res.Movement.ID,
			})
		}
		tr.CreatedAt = time.Now().UTC()
		return repos.Transfers.Create(ctx, tr)
	})
	if err != nil {
		return nil, err
	}
	out.ItemCount = len(out.Items)
	uc.log.Info().
		Str("transfer_id", tr.ID).
		Str("from", in.FromLocationID).
		Str("to", in.ToLocationID).
		Int("items", out.ItemCount).
		Msg("traslado aplicado")
	return out, nil
}
