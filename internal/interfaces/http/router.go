package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/recepcion-api/internal/application/receiving"
	"github.com/jhoicas/recepcion-api/pkg/jwt"
	"github.com/jhoicas/recepcion-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	GoodsReceiptUC *receiving.GoodsReceiptUseCase
	JWT            *jwt.Verifier
	Logger         *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWT))

	grn := protected.Group("/goods-receipts")
	h := NewGoodsReceiptHandler(deps.GoodsReceiptUC, deps.Logger)
	grn.Get("/", h.List)
	grn.Post("/", RequireRole(RoleAdmin, RoleBodeguero), h.Create)
	grn.Get("/:id", h.GetByID)
	grn.Get("/:id/landed-cost", h.GetLandedCost)
	grn.Post("/:id/costs", RequireRole(RoleAdmin, RoleContador), h.AddCost)
	grn.Post("/:id/cancel", RequireRole(RoleAdmin), h.Cancel)
}
