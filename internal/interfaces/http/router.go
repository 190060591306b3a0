package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/finca-api/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AdjustStock   *inventory.AdjustStockUseCase
	MovementQuery *inventory.MovementQueryUseCase
	Report        *inventory.MovementReportUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Inventario (motor de ajustes + auditoría)
	inv := protected.Group("/inventory")
	handler := NewInventoryHandler(deps.AdjustStock, deps.MovementQuery, deps.Report)
	inv.Post("/adjust", handler.AdjustStock)
	inv.Get("/balances", handler.GetBalances)
	inv.Get("/balances/at", handler.GetBalanceAt)
	inv.Get("/movements", handler.ListMovements)
	inv.Get("/movements/report", handler.MovementReport)
}
