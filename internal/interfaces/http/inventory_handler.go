package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Restobar-api/internal/application/dto"
	"github.com/jhoicas/Restobar-api/internal/application/inventory"
)

// InventoryHandler maneja las peticiones HTTP del ledger de inventario (protegido).
type InventoryHandler struct {
	receive  *inventory.ReceiveStockUseCase
	count    *inventory.CountUseCase
	transfer *inventory.TransferUseCase
	outbound *inventory.OutboundUseCase
	cost     *inventory.CostOverrideUseCase
	query    *inventory.QueryUseCase
}

// InventoryUseCases agrupa los casos de uso que expone el handler.
type InventoryUseCases struct {
	Receive  *inventory.ReceiveStockUseCase
	Count    *inventory.CountUseCase
	Transfer *inventory.TransferUseCase
	Outbound *inventory.OutboundUseCase
	Cost     *inventory.CostOverrideUseCase
	Query    *inventory.QueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc InventoryUseCases) *InventoryHandler {
	return &InventoryHandler{
		receive:  uc.Receive,
		count:    uc.Count,
		transfer: uc.Transfer,
		outbound: uc.Outbound,
		cost:     uc.Cost,
		query:    uc.Query,
	}
}

// ReceiveStock godoc
// @Summary      Recepción de mercancía (una línea)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveStockRequest  true  "product_id, location_id, quantity, unit_cost, source_doc"
// @Success      201   {object}  dto.ReceiveStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/inventory/receipts [post]
func (h *InventoryHandler) ReceiveStock(c *fiber.Ctx) error {
	var in dto.ReceiveStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.receive.ReceiveStock(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ReceivePurchase godoc
// @Summary      Recepción de una factura de compra completa
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceivePurchaseRequest  true  "location_id, source_doc, items"
// @Success      201   {object}  dto.ReceivePurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/purchases [post]
func (h *InventoryHandler) ReceivePurchase(c *fiber.Ctx) error {
	var in dto.ReceivePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.receive.ReceivePurchase(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// SubmitCount godoc
// @Summary      Conteo físico de una ubicación
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitCountRequest  true  "location_id y cantidades contadas"
// @Success      201   {object}  dto.SubmitCountResponse
// @Router       /api/inventory/counts [post]
func (h *InventoryHandler) SubmitCount(c *fiber.Ctx) error {
	var in dto.SubmitCountRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.count.SubmitCount(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// TransferStock godoc
// @Summary      Traslado entre ubicaciones (todo o nada)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferStockRequest  true  "from_location_id, to_location_id, items"
// @Success      201   {object}  dto.TransferStockResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *InventoryHandler) TransferStock(c *fiber.Ctx) error {
	var in dto.TransferStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.transfer.TransferStock(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RecordWaste godoc
// @Summary      Registrar merma
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordWasteRequest  true  "location_id, product_ref (id, sku o nombre), quantity, reason"
// @Success      201   {object}  dto.MovementSummary
// @Router       /api/inventory/waste [post]
func (h *InventoryHandler) RecordWaste(c *fiber.Ctx) error {
	var in dto.RecordWasteRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.outbound.RecordWaste(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ReturnToSupplier godoc
// @Summary      Devolución a proveedor
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReturnToSupplierRequest  true  "location_id, product_id, quantity, source_doc"
// @Success      201   {object}  dto.MovementSummary
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/returns [post]
func (h *InventoryHandler) ReturnToSupplier(c *fiber.Ctx) error {
	var in dto.ReturnToSupplierRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.outbound.ReturnToSupplier(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// OverrideCost godoc
// @Summary      Corrección manual del costo promedio
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CostOverrideRequest  true  "product_id, location_id, new_cost, note"
// @Success      201   {object}  dto.MovementSummary
// @Router       /api/inventory/cost-overrides [post]
func (h *InventoryHandler) OverrideCost(c *fiber.Ctx) error {
	var in dto.CostOverrideRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.cost.OverrideCost(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Bitácora de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "Producto"
// @Param        location_id  query  string  false  "Ubicación (origen o destino)"
// @Param        type         query  string  false  "PURCHASE, SALE, WASTE, ADJUSTMENT, TRANSFER, RETURN"
// @Param        from         query  string  false  "RFC3339"
// @Param        to           query  string  false  "RFC3339"
// @Param        reference    query  string  false  "Referencia, p. ej. ORDER:<id>"
// @Param        limit        query  int     false  "Límite (máx. 200)"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var q dto.MovementQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	from, err := parseTimeParam(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from debe ser RFC3339"})
	}
	to, err := parseTimeParam(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "to debe ser RFC3339"})
	}
	q.From, q.To = from, to

	out, err := h.query.QueryMovements(c.Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListStock godoc
// @Summary      Stock por producto y ubicación
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        location_id     query  string  false  "Ubicación"
// @Param        category        query  string  false  "Categoría"
// @Param        low_stock_only  query  bool    false  "Solo bajo mínimo"
// @Param        limit           query  int     false  "Límite (máx. 200)"
// @Param        offset          query  int     false  "Desplazamiento"
// @Success      200  {object}  map[string]interface{}  "total, items ([]dto.StockResponse)"
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) ListStock(c *fiber.Ctx) error {
	var q dto.InventoryQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	list, err := h.query.QueryInventory(c.Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total": len(list),
		"items": list,
	})
}

// Reconcile godoc
// @Summary      Compara la cantidad registrada con la suma de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  true  "Producto"
// @Param        location_id  query  string  true  "Ubicación"
// @Success      200  {object}  dto.ReconcileResponse
// @Router       /api/inventory/reconcile [get]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	out, err := h.query.Reconcile(c.Context(), c.Query("product_id"), c.Query("location_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func parseTimeParam(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
