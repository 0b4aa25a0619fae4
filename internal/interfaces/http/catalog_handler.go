package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Restobar-api/internal/application/catalog"
	"github.com/jhoicas/Restobar-api/internal/application/dto"
)

// CatalogHandler productos, ubicaciones y recetas (protegido).
type CatalogHandler struct {
	products  *catalog.ProductUseCase
	locations *catalog.LocationUseCase
	recipes   *catalog.RecipeUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(products *catalog.ProductUseCase, locations *catalog.LocationUseCase, recipes *catalog.RecipeUseCase) *CatalogHandler {
	return &CatalogHandler{products: products, locations: locations, recipes: recipes}
}

// CreateProduct godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.products.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetProduct godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	out, err := h.products.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateProduct godoc
// @Summary      Actualizar producto (sin costo)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Router       /api/products/{id} [put]
func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.products.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListProducts godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        category         query  string  false  "Categoría"
// @Param        include_retired  query  bool    false  "Incluir retirados"
// @Param        limit            query  int     false  "Límite"
// @Param        offset           query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.products.List(c.Context(), c.Query("category"), c.QueryBool("include_retired"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RetireProduct godoc
// @Summary      Retirar producto (baja lógica)
// @Tags         products
// @Security     Bearer
// @Param        id   path  string  true  "ID del producto"
// @Success      204
// @Router       /api/products/{id}/retire [post]
func (h *CatalogHandler) RetireProduct(c *fiber.Ctx) error {
	if err := h.products.Retire(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateLocation godoc
// @Summary      Crear ubicación
// @Tags         locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLocationRequest  true  "code, name, kind"
// @Success      201   {object}  dto.LocationResponse
// @Router       /api/locations [post]
func (h *CatalogHandler) CreateLocation(c *fiber.Ctx) error {
	var in dto.CreateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.locations.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListLocations godoc
// @Summary      Listar ubicaciones
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Param        include_retired  query  bool  false  "Incluir retiradas"
// @Success      200  {array}  dto.LocationResponse
// @Router       /api/locations [get]
func (h *CatalogHandler) ListLocations(c *fiber.Ctx) error {
	list, err := h.locations.List(c.Context(), c.QueryBool("include_retired"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// RetireLocation godoc
// @Summary      Retirar ubicación
// @Tags         locations
// @Security     Bearer
// @Param        id   path  string  true  "ID de la ubicación"
// @Success      204
// @Router       /api/locations/{id}/retire [post]
func (h *CatalogHandler) RetireLocation(c *fiber.Ctx) error {
	if err := h.locations.Retire(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SaveRecipe godoc
// @Summary      Guardar receta (reemplaza la activa del producto de carta)
// @Tags         recipes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaveRecipeRequest  true  "menu_product_id, lines"
// @Success      200   {object}  dto.RecipeResponse
// @Router       /api/recipes [put]
func (h *CatalogHandler) SaveRecipe(c *fiber.Ctx) error {
	var in dto.SaveRecipeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.recipes.Save(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RetireRecipe godoc
// @Summary      Retirar receta
// @Tags         recipes
// @Security     Bearer
// @Param        id   path  string  true  "ID de la receta"
// @Success      204
// @Router       /api/recipes/{id}/retire [post]
func (h *CatalogHandler) RetireRecipe(c *fiber.Ctx) error {
	if err := h.recipes.Retire(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PreviewDeductions godoc
// @Summary      Simular el descuento de inventario de una venta
// @Tags         recipes
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true   "Producto de carta"
// @Param        qty         query  string  false  "Cantidad vendida (por defecto 1)"
// @Success      200  {array}  dto.DeductionDTO
// @Router       /api/recipes/preview [get]
func (h *CatalogHandler) PreviewDeductions(c *fiber.Ctx) error {
	qty := decimal.NewFromInt(1)
	if raw := c.Query("qty"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "qty debe ser numérico"})
		}
		qty = parsed
	}
	list, err := h.recipes.Preview(c.Context(), c.Query("product_id"), qty)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}
