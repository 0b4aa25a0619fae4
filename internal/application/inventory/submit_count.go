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

// CountUseCase conteos físicos: fija cada línea a lo contado y guarda el documento de ajuste.
type CountUseCase struct {
	tx     TxRunner
	ledger *Ledger
	log    *logger.Logger
}

// NewCountUseCase construye el caso de uso.
func NewCountUseCase(tx TxRunner, ledger *Ledger, log *logger.Logger) *CountUseCase {
	return &CountUseCase{tx: tx, ledger: ledger, log: log}
}

// SubmitCount aplica el conteo completo en una transacción. Cualquier línea inválida aborta todo.
// Las líneas con diferencia cero quedan en el documento pero no generan movimiento.
func (uc *CountUseCase) SubmitCount(ctx context.Context, userID string, in dto.SubmitCountRequest) (*dto.SubmitCountResponse, error) {
	if in.LocationID == "" {
		return nil, domain.Invalid("location_id", "obligatorio")
	}
	if len(in.Lines) == 0 {
		return nil, domain.Invalid("lines", "el conteo no tiene líneas")
	}
	seen := make(map[string]struct{}, len(in.Lines))
	for _, l := range in.Lines {
		if l.ProductID == "" {
			return nil, domain.Invalid("product_id", "obligatorio")
		}
		if l.CountedQty.IsNegative() {
			return nil, domain.Invalid("counted_qty", "no puede ser negativa")
		}
		if _, dup := seen[l.ProductID]; dup {
			return nil, domain.Invalid("lines", "producto repetido en el conteo: "+l.ProductID)
		}
		seen[l.ProductID] = struct{}{}
	}

	adj := &entity.StockAdjustment{
		ID:         uuid.New().String(),
		LocationID: in.LocationID,
		Note:       in.Note,
		CreatedBy:  userID,
	}
	ref := Reference(RefCount, adj.ID)
	out := &dto.SubmitCountResponse{AdjustmentID: adj.ID, LocationID: in.LocationID}

	err := uc.tx.Run(ctx, func(ctx context.Context, repos Repos) error {
		adj.Lines = adj.Lines[:0]
		out.Lines = out.Lines[:0]
		if _, err := findLocation(ctx, repos, in.LocationID); err != nil {
			return err
		}
		for _, l := range in.Lines {
			if _, err := findProduct(ctx, repos, l.ProductID); err != nil {
				return err
			}
			current, err := repos.Inventory.GetForUpdate(ctx, l.ProductID, in.LocationID)
			if err != nil {
				return err
			}
			systemQty := current.Quantity
			res, err := uc.ledger.SetAbsolute(ctx, repos, SetAbsoluteInput{
				ProductID:   l.ProductID,
				LocationID:  in.LocationID,
				NewQuantity: l.CountedQty,
				Reference:   ref,
				Note:        in.Note,
				CreatedBy:   userID,
			})
			if err != nil {
				return err
			}
			counted := res.Record.Quantity
			diff := counted.Sub(systemQty)
			adj.Lines = append(adj.Lines, entity.StockAdjustmentLine{
				ProductID:  l.ProductID,
				SystemQty:  systemQty,
				CountedQty: counted,
				Diff:       diff,
			})
			line := dto.CountLineResponse{ProductID: l.ProductID, SystemQty: systemQty, CountedQty: counted, Diff: diff}
			if res.Movement != nil {
				line.MovementID = res.Movement.ID
			}
			out.Lines = append(out.Lines, line)
		}
		adj.CreatedAt = time.Now().UTC()
		return repos.Adjustments.Create(ctx, adj)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("adjustment_id", adj.ID).Str("location_id", in.LocationID).Int("lines", len(adj.Lines)).Msg("conteo aplicado")
	return out, nil
}
