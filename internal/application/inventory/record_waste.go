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

// OutboundUseCase salidas manuales: mermas y devoluciones al proveedor.
type OutboundUseCase struct {
	tx     TxRunner
	ledger *Ledger
	log    *logger.Logger
}

// NewOutboundUseCase construye el caso de uso.
func NewOutboundUseCase(tx TxRunner, ledger *Ledger, log *logger.Logger) *OutboundUseCase {
	return &OutboundUseCase{tx: tx, ledger: ledger, log: log}
}

// RecordWaste da de baja una merma al costo actual del producto. El faltante no bloquea:
// el stock puede quedar negativo y se devuelve la advertencia.
func (uc *OutboundUseCase) RecordWaste(ctx context.Context, userID string, in dto.RecordWasteRequest) (*dto.MovementSummary, error) {
	if in.LocationID == "" {
		return nil, domain.Invalid("location_id", "obligatorio")
	}
	if in.ProductRef == "" {
		return nil, domain.Invalid("product_ref", "obligatorio")
	}
	if !in.Quantity.IsPositive() {
		return nil, domain.Invalid("quantity", "debe ser mayor que cero")
	}
	ref := Reference(RefWaste, uuid.New().String())

	var out *dto.MovementSummary
	err := uc.tx.Run(ctx, func(ctx context.Context, repos Repos) error {
		if _, err := findLocation(ctx, repos, in.LocationID); err != nil {
			return err
		}
		product, err := resolveProductRef(ctx, repos, in.ProductRef)
		if err != nil {
			return err
		}
		res, err := uc.ledger.Debit(ctx, repos, DebitInput{
			ProductID:  product.ID,
			LocationID: in.LocationID,
			Quantity:   in.Quantity,
			UnitCost:   product.Cost,
			Type:       entity.MovementWaste,
			Reference:  ref,
			Note:       in.Reason,
			CreatedBy:  userID,
		})
		if err != nil {
			return err
		}
		out = toMovementSummary(res, in.LocationID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("product_id", out.ProductID).Str("location_id", in.LocationID).Str("quantity", in.Quantity.String()).Msg("merma registrada")
	return out, nil
}

// ReturnToSupplier devuelve mercancía al proveedor. La mercancía sale físicamente, así que
// a diferencia de la merma un faltante es error.
func (uc *OutboundUseCase) ReturnToSupplier(ctx context.Context, userID string, in dto.ReturnToSupplierRequest) (*dto.MovementSummary, error) {
	if in.LocationID == "" {
		return nil, domain.Invalid("location_id", "obligatorio")
	}
	if in.ProductID == "" {
		return nil, domain.Invalid("product_id", "obligatorio")
	}
	if !in.Quantity.IsPositive() {
		return nil, domain.Invalid("quantity", "debe ser mayor que cero")
	}
	ref := in.SourceDoc
	if ref == "" {
		ref = Reference(RefReturn, uuid.New().String())
	}

	var out *dto.MovementSummary
	err := uc.tx.Run(ctx, func(ctx context.Context, repos Repos) error {
		if _, err := findLocation(ctx, repos, in.LocationID); err != nil {
			return err
		}
		product, err := findProduct(ctx, repos, in.ProductID)
		if err != nil {
			return err
		}
		rec, err := repos.Inventory.GetForUpdate(ctx, in.ProductID, in.LocationID)
		if err != nil {
			return err
		}
		if rec.Quantity.LessThan(in.Quantity) {
			return &domain.InsufficientStockError{
				ProductID:  in.ProductID,
				LocationID: in.LocationID,
				Available:  rec.Quantity.String(),
				Requested:  in.Quantity.String(),
			}
		}
		unitCost := rec.AvgCost
		if rec.IsNew() {
			unitCost = product.Cost
		}
		res, err := uc.ledger.Debit(ctx, repos, DebitInput{
			ProductID:  in.ProductID,
			LocationID: in.LocationID,
			Quantity:   in.Quantity,
			UnitCost:   unitCost,
			Type:       entity.MovementReturn,
			Reference:  ref,
			Note:       in.Note,
			CreatedBy:  userID,
		})
		if err != nil {
			return err
		}
		out = toMovementSummary(res, in.LocationID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("product_id", in.ProductID).Str("reference", ref).Msg("devolución a proveedor registrada")
	return out, nil
}

// CostOverrideUseCase corrección manual del costo promedio.
type CostOverrideUseCase struct {
	tx     TxRunner
	ledger *Ledger
	log    *logger.Logger
}

// NewCostOverrideUseCase construye el caso de uso.
func NewCostOverrideUseCase(tx TxRunner, ledger *Ledger, log *logger.Logger) *CostOverrideUseCase {
	return &CostOverrideUseCase{tx: tx, ledger: ledger, log: log}
}

// OverrideCost fija el costo y deja constancia en la bitácora. La nota es obligatoria.
func (uc *CostOverrideUseCase) OverrideCost(ctx context.Context, userID string, in dto.CostOverrideRequest) (*dto.MovementSummary, error) {
	if in.ProductID == "" {
		return nil, domain.Invalid("product_id", "obligatorio")
	}
	if in.LocationID == "" {
		return nil, domain.Invalid("location_id", "obligatorio")
	}
	if in.NewCost.IsNegative() {
		return nil, domain.Invalid("new_cost", "no puede ser negativo")
	}
	if in.Note == "" {
		return nil, domain.Invalid("note", "el motivo del ajuste de costo es obligatorio")
	}
	ref := Reference(RefCost, uuid.New().String())

	var out *dto.MovementSummary
	err := uc.tx.Run(ctx, func(ctx context.Context, repos Repos) error {
		if _, err := findLocation(ctx, repos, in.LocationID); err != nil {
			return err
		}
		if _, err := findProduct(ctx, repos, in.ProductID); err != nil {
			return err
		}
		res, err := uc.ledger.OverrideCost(ctx, repos, CostOverrideInput{
			ProductID:  in.ProductID,
			LocationID: in.LocationID,
			NewCost:    in.NewCost,
			Reference:  ref,
			Note:       in.Note,
			CreatedBy:  userID,
		})
		if err != nil {
			return err
		}
		out = toMovementSummary(res, in.LocationID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Warn().Str("product_id", in.ProductID).Str("location_id", in.LocationID).Str("new_cost", in.NewCost.String()).Str("user_id", userID).Msg("costo sobrescrito manualmente")
	return out, nil
}

func toMovementSummary(res *LedgerResult, locationID string) *dto.MovementSummary {
	s := &dto.MovementSummary{
		ProductID:   res.Record.ProductID,
		LocationID:  locationID,
		NewQuantity: res.Record.Quantity,
		Warnings:    []entity.StockWarning{},
	}
	if res.Movement != nil {
		s.MovementID = res.Movement.ID
		s.Type = string(res.Movement.Type)
		s.Quantity = res.Movement.Quantity
		s.UnitCost = res.Movement.UnitCost
		s.TotalCost = res.Movement.TotalCost
	} else {
		s.Quantity = decimal.Zero
	}
	if res.Warning != nil {
		s.Warnings = append(s.Warnings, *res.Warning)
	}
	return s
}
