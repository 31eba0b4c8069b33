package http

import (
	"github.com/gofiber/fiber/v2"

	appinv "github.com/jhoicas/Pedidos-api/internal/application/inventory"
	appOrders "github.com/jhoicas/Pedidos-api/internal/application/orders"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ReserveUC    *appOrders.ReserveUseCase
	TransitionUC *appOrders.TransitionUseCase
	OrderQueryUC *appOrders.OrderQueryUseCase
	StockQueryUC *appinv.StockQueryUseCase
	AdjustUC     *appinv.AdjustStockUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Orders (protegido)
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.ReserveUC, deps.TransitionUC, deps.OrderQueryUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.Get)
	orders.Patch("/:id/status", orderHandler.UpdateStatus)

	// Stock y ledger (protegido)
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockQueryUC, deps.AdjustUC)
	stock.Post("/check", stockHandler.CheckAvailability)
	stock.Get("/low", stockHandler.LowStock)
	stock.Get("/out", stockHandler.OutOfStock)

	// Solo administradores: ajustes que mutan stock fuera del flujo de órdenes
	stock.Post("/adjust", RequireAdmin(), stockHandler.Adjust)
	stock.Post("/recount", RequireAdmin(), stockHandler.Recount)

	protected.Get("/ledger", stockHandler.Ledger)
}
