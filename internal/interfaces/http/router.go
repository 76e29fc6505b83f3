package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/purchase"
	"github.com/jhoicas/almacen-api/internal/application/sales"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	ProductUC   *usecase.ProductUseCase
	WarehouseUC *usecase.WarehouseUseCase
	PurchaseUC  *purchase.UseCase
	SalesUC     *sales.UseCase
	JWTSecret   string
	// PublicReads permite GET sin token; si llega un token inválido igual se rechaza.
	PublicReads bool
	Log         zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	requireAuth := AuthMiddleware(deps.JWTSecret)
	readAuth := requireAuth
	if deps.PublicReads {
		readAuth = OptionalAuth(deps.JWTSecret)
	}
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC, deps.Log)
	api.Post("/user/register", authHandler.Register)
	api.Post("/token", authHandler.Token)
	api.Post("/token/refresh", authHandler.Refresh)
	api.Get("/user/me", requireAuth, authHandler.Me)

	// Products
	productHandler := NewProductHandler(deps.ProductUC, deps.WarehouseUC, deps.Log)
	products := api.Group("/products")
	products.Get("/", readAuth, productHandler.List)
	products.Get("/:id", readAuth, productHandler.GetByID)
	products.Get("/:id/movements", readAuth, productHandler.Movements)
	products.Post("/", requireAuth, productHandler.Create)
	products.Put("/:id", requireAuth, productHandler.Update)
	products.Patch("/:id", requireAuth, productHandler.Update)
	products.Delete("/:id", requireAuth, adminOnly, productHandler.Delete)

	// Purchase orders
	poHandler := NewPurchaseOrderHandler(deps.PurchaseUC, deps.Log)
	pos := api.Group("/purchase-orders")
	pos.Get("/", readAuth, poHandler.List)
	pos.Get("/:id", readAuth, poHandler.GetByID)
	pos.Post("/", requireAuth, poHandler.Create)
	pos.Put("/:id", requireAuth, poHandler.Update)
	pos.Patch("/:id", requireAuth, poHandler.Update)
	pos.Delete("/:id", requireAuth, adminOnly, poHandler.Delete)
	pos.Post("/:id/receive", requireAuth, poHandler.Receive)

	// Warehouse (solo lectura)
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC, deps.Log)
	api.Get("/warehouse-items", readAuth, warehouseHandler.List)

	// Sales orders
	soHandler := NewSalesOrderHandler(deps.SalesUC, deps.Log)
	sos := api.Group("/sales-orders")
	sos.Get("/", readAuth, soHandler.List)
	sos.Get("/:id", readAuth, soHandler.GetByID)
	sos.Get("/:id/pdf", readAuth, soHandler.PDF)
	sos.Post("/", requireAuth, soHandler.Create)
}
