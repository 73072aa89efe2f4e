package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
)

// LocalSaleRequest body de la venta ya validado por el guard.
const LocalSaleRequest = "sale_request"

// StockGuardMiddleware valida el body de la venta y rechaza con 409 si alguna línea excede el stock
// visible en este momento. Es un filtro temprano: la venta vuelve a verificar bajo bloqueo.
func StockGuardMiddleware(guard *inventory.StockGuard) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in dto.CreateSaleRequest
		if err := bindJSON(c, &in); err != nil {
			return writeError(c, err)
		}
		items := make([]inventory.StockRequest, 0, len(in.Items))
		for _, it := range in.Items {
			items = append(items, inventory.StockRequest{ProductID: it.ProductID, Quantity: *it.Quantity})
		}
		if err := guard.CheckStock(c.Context(), items, in.WarehouseID); err != nil {
			return writeError(c, err)
		}
		c.Locals(LocalSaleRequest, &in)
		return c.Next()
	}
}
