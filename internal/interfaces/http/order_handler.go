package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Restobar-api/internal/application/dto"
	"github.com/jhoicas/Restobar-api/internal/application/sales"
)

// OrderHandler cuentas de mesa y cierre de venta (protegido).
type OrderHandler struct {
	orders *sales.OrderUseCase
	close  *sales.CloseSaleUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(orders *sales.OrderUseCase, closeSale *sales.CloseSaleUseCase) *OrderHandler {
	return &OrderHandler{orders: orders, close: closeSale}
}

// Create godoc
// @Summary      Abrir cuenta
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "table_id, items"
// @Success      201   {object}  dto.OrderResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.orders.CreateOrder(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener cuenta
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.orders.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Close godoc
// @Summary      Cerrar cuenta y descontar inventario
// @Description  El faltante de stock nunca bloquea el cierre; se devuelve como advertencia.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la orden"
// @Param        body  body  dto.CloseSaleRequest   true  "method, tendered"
// @Success      200   {object}  dto.CloseSaleResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/close [post]
func (h *OrderHandler) Close(c *fiber.Ctx) error {
	var in dto.CloseSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.close.CloseSale(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
