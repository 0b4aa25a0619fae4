package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Restobar-api/internal/application/catalog"
	"github.com/jhoicas/Restobar-api/internal/application/sales"
	"github.com/jhoicas/Restobar-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Inventory InventoryUseCases
	Products  *catalog.ProductUseCase
	Locations *catalog.LocationUseCase
	Recipes   *catalog.RecipeUseCase
	Orders    *sales.OrderUseCase
	CloseSale *sales.CloseSaleUseCase
	JWTSecret string
	AppName   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	api := app.Group("/api")

	// Todo /api requiere Bearer Token
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	staff := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleCajero)
	warehouse := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)
	cashier := RequireRole(jwt.RoleAdmin, jwt.RoleCajero)
	admin := RequireRole(jwt.RoleAdmin)

	// Inventario
	inv := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Inventory)
	inv.Post("/receipts", warehouse, inventoryHandler.ReceiveStock)
	inv.Post("/purchases", warehouse, inventoryHandler.ReceivePurchase)
	inv.Post("/counts", warehouse, inventoryHandler.SubmitCount)
	inv.Post("/transfers", warehouse, inventoryHandler.TransferStock)
	inv.Post("/waste", staff, inventoryHandler.RecordWaste)
	inv.Post("/returns", warehouse, inventoryHandler.ReturnToSupplier)
	inv.Post("/cost-overrides", admin, inventoryHandler.OverrideCost)
	inv.Get("/movements", staff, inventoryHandler.ListMovements)
	inv.Get("/stock", staff, inventoryHandler.ListStock)
	inv.Get("/reconcile", warehouse, inventoryHandler.Reconcile)

	// Cuentas
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.Orders, deps.CloseSale)
	orders.Post("/", cashier, orderHandler.Create)
	orders.Get("/:id", cashier, orderHandler.GetByID)
	orders.Post("/:id/close", cashier, orderHandler.Close)

	// Catálogo: lectura para todo el personal, escritura solo admin
	catalogHandler := NewCatalogHandler(deps.Products, deps.Locations, deps.Recipes)

	products := protected.Group("/products")
	products.Post("/", admin, catalogHandler.CreateProduct)
	products.Get("/", staff, catalogHandler.ListProducts)
	products.Get("/:id", staff, catalogHandler.GetProduct)
	products.Put("/:id", admin, catalogHandler.UpdateProduct)
	products.Post("/:id/retire", admin, catalogHandler.RetireProduct)

	locations := protected.Group("/locations")
	locations.Post("/", admin, catalogHandler.CreateLocation)
	locations.Get("/", staff, catalogHandler.ListLocations)
	locations.Post("/:id/retire", admin, catalogHandler.RetireLocation)

	recipes := protected.Group("/recipes")
	recipes.Put("/", admin, catalogHandler.SaveRecipe)
	recipes.Get("/preview", staff, catalogHandler.PreviewDeductions)
	recipes.Post("/:id/retire", admin, catalogHandler.RetireRecipe)
}
