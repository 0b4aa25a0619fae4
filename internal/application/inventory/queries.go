package inventory

import (
	"context"

	"github.com/jhoicas/Restobar-api/internal/application/dto"
	"github.com/jhoicas/Restobar-api/internal/domain"
	"github.com/jhoicas/Restobar-api/internal/domain/entity"
	"github.com/jhoicas/Restobar-api/internal/domain/repository"
)

// QueryUseCase lecturas para reportes: bitácora, snapshot de stock y conciliación.
// No abre transacciones; usa repos atados al pool.
type QueryUseCase struct {
	repos Repos
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(repos Repos) *QueryUseCase {
	return &QueryUseCase{repos: repos}
}

// QueryMovements lista movimientos ordenados por fecha de creación (paginado).
func (uc *QueryUseCase) QueryMovements(ctx context.Context, q dto.MovementQuery) (*dto.MovementListResponse, error) {
	q.DefaultPage()
	if q.Type != "" && !entity.MovementType(q.Type).Valid() {
		return nil, domain.Invalid("type", "tipo de movimiento desconocido")
	}
	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		return nil, domain.Invalid("to", "el rango de fechas está invertido")
	}
	f := repository.MovementFilter{
		ProductID:  q.ProductID,
		LocationID: q.LocationID,
		Type:       entity.MovementType(q.Type),
		From:       q.From,
		To:         q.To,
		Reference:  q.Reference,
		Limit:      q.Limit,
		Offset:     q.Offset,
	}
	list, err := uc.repos.Movements.List(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := uc.repos.Movements.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, ToMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// QueryInventory snapshot de stock por (producto, ubicación).
func (uc *QueryUseCase) QueryInventory(ctx context.Context, q dto.InventoryQuery) ([]dto.StockResponse, error) {
	q.DefaultPage()
	rows, err := uc.repos.Inventory.List(ctx, repository.InventoryFilter{
		LocationID:   q.LocationID,
		Category:     q.Category,
		LowStockOnly: q.LowStockOnly,
		Limit:        q.Limit,
		Offset:       q.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.StockResponse{
			ProductID:    r.ProductID,
			SKU:          r.SKU,
			ProductName:  r.ProductName,
			Category:     r.Category,
			LocationID:   r.LocationID,
			LocationCode: r.LocationCode,
			Quantity:     r.Quantity,
			AvgCost:      r.AvgCost,
			MinQuantity:  r.MinQuantity,
			LowStock:     r.Quantity.LessThanOrEqual(r.MinQuantity),
		})
	}
	return out, nil
}

// Reconcile compara la cantidad registrada con la suma con signo de la bitácora del par.
// Una diferencia distinta de cero indica una escritura fuera del ledger.
func (uc *QueryUseCase) Reconcile(ctx context.Context, productID, locationID string) (*dto.ReconcileResponse, error) {
	if err := requirePair(productID, locationID); err != nil {
		return nil, err
	}
	rec, err := uc.repos.Inventory.Get(ctx, productID, locationID)
	if err != nil {
		return nil, err
	}
	sum, err := uc.repos.Movements.SumForPair(ctx, productID, locationID)
	if err != nil {
		return nil, err
	}
	diff := rec.Quantity.Sub(sum)
	return &dto.ReconcileResponse{
		ProductID:   productID,
		LocationID:  locationID,
		RecordedQty: rec.Quantity,
		MovementSum: sum,
		Difference:  diff,
		Balanced:    diff.IsZero(),
	}, nil
}

// ToMovementResponse convierte la entidad a DTO.
func ToMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		FromLocationID: m.FromLocationID,
		ToLocationID:   m.ToLocationID,
		Type:           string(m.Type),
		Quantity:       m.Quantity,
		UnitCost:       m.UnitCost,
		TotalCost:      m.TotalCost,
		Reference:      m.Reference,
		Note:           m.Note,
		CreatedBy:      m.CreatedBy,
		CreatedAt:      m.CreatedAt,
	}
}
