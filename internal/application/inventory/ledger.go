package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Restobar-api/internal/domain"
	"github.com/jhoicas/Restobar-api/internal/domain/entity"
	costs "github.com/jhoicas/Restobar-api/internal/domain/inventory"
	"github.com/jhoicas/Restobar-api/pkg/logger"
)

// CreditInput entrada al ledger (PURCHASE u OPENING).
type CreditInput struct {
	ProductID  string
	LocationID string
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal
	Type       entity.MovementType
	Reference  string
	Note       string
	CreatedBy  string
}

// DebitInput salida del ledger (SALE, WASTE o RETURN).
type DebitInput struct {
	ProductID  string
	LocationID string
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal
	Type       entity.MovementType
	Reference  string
	Note       string
	CreatedBy  string
}

// SetAbsoluteInput fija la cantidad (conteos y ediciones manuales).
type SetAbsoluteInput struct {
	ProductID   string
	LocationID  string
	NewQuantity decimal.Decimal
	Reference   string
	Note        string
	CreatedBy   string
}

// TransferInput traslado de una línea entre ubicaciones.
type TransferInput struct {
	ProductID      string
	FromLocationID string
	ToLocationID   string
	Quantity       decimal.Decimal
	Reference      string
	Note           string
	CreatedBy      string
}

// CostOverrideInput fija manualmente el costo promedio de un par.
type CostOverrideInput struct {
	ProductID  string
	LocationID string
	NewCost    decimal.Decimal
	Reference  string
	Note       string
	CreatedBy  string
}

// LedgerResult estado del registro después de la operación.
// Movement es nil cuando no hubo cambio (ajuste con diferencia cero).
type LedgerResult struct {
	Record   *entity.InventoryRecord
	Movement *entity.StockMovement
	Warning  *entity.StockWarning
}

// TransferResult estado de ambos lados del traslado.
type TransferResult struct {
	Source      *entity.InventoryRecord
	Destination *entity.InventoryRecord
	Movement    *entity.StockMovement
}

// Ledger es el único dueño de escritura de InventoryRecord. Cada operación escribe el registro
// y su movimiento con los repos de la transacción del caller; nunca abre transacciones propias.
type Ledger struct {
	costScale int32
	log       *logger.Logger
	now       func() time.Time
}

// NewLedger construye el ledger. costScale son los decimales del costo promedio.
func NewLedger(costScale int32, log *logger.Logger) *Ledger {
	return &Ledger{costScale: costScale, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// Credit suma cantidad a (producto, ubicación) y recalcula el costo promedio ponderado.
// Si el registro no existe se crea con quantity=entrada y avgCost=costo de entrada.
// PURCHASE y OPENING también recalculan el costo del producto a nivel empresa.
func (l *Ledger) Credit(ctx context.Context, repos Repos, in CreditInput) (*LedgerResult, error) {
	if in.Type != entity.MovementPurchase && in.Type != entity.MovementOpening {
		return nil, domain.Invalid("type", "credit solo admite PURCHASE u OPENING")
	}
	if err := requirePair(in.ProductID, in.LocationID); err != nil {
		return nil, err
	}
	in.Quantity = costs.RoundQuantity(in.Quantity)
	if !in.Quantity.IsPositive() {
		return nil, domain.Invalid("quantity", "debe ser mayor que cero")
	}
	if in.UnitCost.IsNegative() {
		return nil, domain.Invalid("unit_cost", "no puede ser negativo")
	}

	product, err := repos.Products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto", in.ProductID)
	}
	companyQty, err := repos.Inventory.SumQuantityByProduct(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}

	// Bloquea la fila (SELECT FOR UPDATE) para evitar condiciones de carrera
	rec, err := repos.Inventory.GetForUpdate(ctx, in.ProductID, in.LocationID)
	if err != nil {
		return nil, err
	}
	now := l.now()
	if rec.IsNew() {
		rec.Quantity = in.Quantity
		rec.AvgCost = costs.RoundCost(in.UnitCost, l.costScale)
	} else {
		rec.AvgCost = costs.RoundCost(costs.CostCalculator(rec.Quantity, rec.AvgCost, in.Quantity, in.UnitCost), l.costScale)
		rec.Quantity = rec.Quantity.Add(in.Quantity)
	}
	rec.UpdatedAt = now
	if err := repos.Inventory.Save(ctx, rec); err != nil {
		return nil, err
	}

	newProductCost := costs.RoundCost(costs.CostCalculator(companyQty, product.Cost, in.Quantity, in.UnitCost), l.costScale)
	if !newProductCost.Equal(product.Cost) {
		if err := repos.Products.UpdateCost(ctx, in.ProductID, newProductCost); err != nil {
			return nil, err
		}
	}

	mov := l.movement(in.ProductID, "", in.LocationID, in.Type, in.Quantity, in.UnitCost, in.Reference, in.Note, in.CreatedBy, now)
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return &LedgerResult{Record: rec, Movement: mov}, nil
}

// Debit resta cantidad sin tocar el costo promedio. Permite stock negativo: en ese caso
// devuelve una advertencia LOW_STOCK, nunca un error.
func (l *Ledger) Debit(ctx context.Context, repos Repos, in DebitInput) (*LedgerResult, error) {
	switch in.Type {
	case entity.MovementSale, entity.MovementWaste, entity.MovementReturn:
	default:
		return nil, domain.Invalid("type", "debit solo admite SALE, WASTE o RETURN")
	}
	if err := requirePair(in.ProductID, in.LocationID); err != nil {
		return nil, err
	}
	in.Quantity = costs.RoundQuantity(in.Quantity)
	if !in.Quantity.IsPositive() {
		return nil, domain.Invalid("quantity", "debe ser mayor que cero")
	}
	if in.UnitCost.IsNegative() {
		return nil, domain.Invalid("unit_cost", "no puede ser negativo")
	}

	rec, err := repos.Inventory.GetForUpdate(ctx, in.ProductID, in.LocationID)
	if err != nil {
		return nil, err
	}
	if rec.IsNew() {
		// Sin historial no hay con qué promediar: el costo del caller es la semilla.
		rec.AvgCost = costs.RoundCost(in.UnitCost, l.costScale)
	}

	var warning *entity.StockWarning
	if rec.Quantity.LessThan(in.Quantity) {
		warning = &entity.StockWarning{
			Code:       entity.WarningLowStock,
			ProductID:  in.ProductID,
			LocationID: in.LocationID,
			Available:  rec.Quantity,
			Requested:  in.Quantity,
		}
		l.log.Warn().
			Str("product_id", in.ProductID).
			Str("location_id", in.LocationID).
			Str("available", rec.Quantity.String()).
			Str("requested", in.Quantity.String()).
			Str("type", string(in.Type)).
			Msg("salida deja stock negativo")
	}

	now := l.now()
	rec.Quantity = rec.Quantity.Sub(in.Quantity)
	rec.UpdatedAt = now
	if err := repos.Inventory.Save(ctx, rec); err != nil {
		return nil, err
	}
	mov := l.movement(in.ProductID, in.LocationID, "", in.Type, in.Quantity, in.UnitCost, in.Reference, in.Note, in.CreatedBy, now)
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return &LedgerResult{Record: rec, Movement: mov, Warning: warning}, nil
}

// SetAbsolute fija la cantidad y registra un ADJUSTMENT por |diferencia|.
// Diferencia cero: no escribe nada (sin ruido en el ledger).
func (l *Ledger) SetAbsolute(ctx context.Context, repos Repos, in SetAbsoluteInput) (*LedgerResult, error) {
	if err := requirePair(in.ProductID, in.LocationID); err != nil {
		return nil, err
	}
	in.NewQuantity = costs.RoundQuantity(in.NewQuantity)
	rec, err := repos.Inventory.GetForUpdate(ctx, in.ProductID, in.LocationID)
	if err != nil {
		return nil, err
	}
	diff := in.NewQuantity.Sub(rec.Quantity)
	if diff.IsZero() {
		return &LedgerResult{Record: rec}, nil
	}

	if rec.IsNew() {
		product, err := repos.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.NotFound("producto", in.ProductID)
		}
		rec.AvgCost = costs.RoundCost(product.Cost, l.costScale)
	}

	now := l.now()
	rec.Quantity = in.NewQuantity
	rec.UpdatedAt = now
	if err := repos.Inventory.Save(ctx, rec); err != nil {
		return nil, err
	}

	from, to := "", in.LocationID
	if diff.IsNegative() {
		from, to = in.LocationID, ""
	}
	mov := l.movement(in.ProductID, from, to, entity.MovementAdjustment, diff.Abs(), rec.AvgCost, in.Reference, in.Note, in.CreatedBy, now)
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return &LedgerResult{Record: rec, Movement: mov}, nil
}

// Transfer mueve cantidad entre ubicaciones con un único movimiento TRANSFER.
// Falla con ErrInsufficientStock si el origen no alcanza; el destino hereda el costo del origen.
func (l *Ledger) Transfer(ctx context.Context, repos Repos, in TransferInput) (*TransferResult, error) {
	if in.ProductID == "" || in.FromLocationID == "" || in.ToLocationID == "" {
		return nil, domain.Invalid("location_id", "origen y destino son obligatorios")
	}
	if in.FromLocationID == in.ToLocationID {
		return nil, domain.ErrInvalidTransfer
	}
	in.Quantity = costs.RoundQuantity(in.Quantity)
	if !in.Quantity.IsPositive() {
		return nil, domain.Invalid("quantity", "debe ser mayor que cero")
	}

	// Bloqueo en orden determinista para que dos traslados cruzados no se bloqueen mutuamente
	locked := map[string]*entity.InventoryRecord{}
	order := []string{in.FromLocationID, in.ToLocationID}
	sort.Strings(order)
	for _, loc := range order {
		rec, err := repos.Inventory.GetForUpdate(ctx, in.ProductID, loc)
		if err != nil {
			return nil, err
		}
		locked[loc] = rec
	}
	src, dst := locked[in.FromLocationID], locked[in.ToLocationID]

	if src.Quantity.LessThan(in.Quantity) {
		return nil, &domain.InsufficientStockError{
			ProductID:  in.ProductID,
			LocationID: in.FromLocationID,
			Available:  src.Quantity.String(),
			Requested:  in.Quantity.String(),
		}
	}

	now := l.now()
	unitCost := src.AvgCost
	src.Quantity = src.Quantity.Sub(in.Quantity)
	src.UpdatedAt = now
	if dst.IsNew() {
		dst.Quantity = in.Quantity
		dst.AvgCost = unitCost
	} else {
		dst.AvgCost = costs.RoundCost(costs.CostCalculator(dst.Quantity, dst.AvgCost, in.Quantity, unitCost), l.costScale)
		dst.Quantity = dst.Quantity.Add(in.Quantity)
	}
	dst.UpdatedAt = now

	if err := repos.Inventory.Save(ctx, src); err != nil {
		return nil, err
	}
	if err := repos.Inventory.Save(ctx, dst); err != nil {
		return nil, err
	}
	mov := l.movement(in.ProductID, in.FromLocationID, in.ToLocationID, entity.MovementTransfer, in.Quantity, unitCost, in.Reference, in.Note, in.CreatedBy, now)
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return &TransferResult{Source: src, Destination: dst, Movement: mov}, nil
}

// OverrideCost fija a mano el costo promedio del par y el del producto. Deja un ADJUSTMENT
// de cantidad cero para que el cambio de base quede en la bitácora.
func (l *Ledger) OverrideCost(ctx context.Context, repos Repos, in CostOverrideInput) (*LedgerResult, error) {
	if err := requirePair(in.ProductID, in.LocationID); err != nil {
		return nil, err
	}
	if in.NewCost.IsNegative() {
		return nil, domain.Invalid("new_cost", "no puede ser negativo")
	}
	rec, err := repos.Inventory.GetForUpdate(ctx, in.ProductID, in.LocationID)
	if err != nil {
		return nil, err
	}
	now := l.now()
	newCost := costs.RoundCost(in.NewCost, l.costScale)
	rec.AvgCost = newCost
	rec.UpdatedAt = now
	if err := repos.Inventory.Save(ctx, rec); err != nil {
		return nil, err
	}
	if err := repos.Products.UpdateCost(ctx, in.ProductID, newCost); err != nil {
		return nil, err
	}
	mov := l.movement(in.ProductID, "", in.LocationID, entity.MovementAdjustment, decimal.Zero, newCost, in.Reference, in.Note, in.CreatedBy, now)
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return &LedgerResult{Record: rec, Movement: mov}, nil
}

func (l *Ledger) movement(
	productID, from, to string,
	typ entity.MovementType,
	qty, unitCost decimal.Decimal,
	reference, note, createdBy string,
	now time.Time,
) *entity.StockMovement {
	return &entity.StockMovement{
		ID:             uuid.New().String(),
		ProductID:      productID,
		FromLocationID: from,
		ToLocationID:   to,
		Type:           typ,
		Quantity:       qty,
		UnitCost:       unitCost,
		TotalCost:      qty.Mul(unitCost),
		Reference:      reference,
		Note:           note,
		CreatedBy:      createdBy,
		CreatedAt:      now,
	}
}

func requirePair(productID, locationID string) error {
	if productID == "" {
		return domain.Invalid("product_id", "obligatorio")
	}
	if locationID == "" {
		return domain.Invalid("location_id", "obligatorio")
	}
	return nil
}
