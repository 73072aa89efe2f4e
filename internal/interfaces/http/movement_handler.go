package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// MovementHandler consulta el libro de movimientos (solo lectura).
type MovementHandler struct {
	ledger *inventory.Ledger
}

// NewMovementHandler construye el handler.
func NewMovementHandler(ledger *inventory.Ledger) *MovementHandler {
	return &MovementHandler{ledger: ledger}
}

// List godoc
// @Summary      Listar movimientos de inventario
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  false  "UUID de producto"
// @Param        warehouse_id  query  string  false  "UUID de bodega"
// @Param        type          query  string  false  "Entrada | Salida | Ajuste"
// @Param        reference_id  query  string  false  "UUID de la venta de origen"
// @Param        date_from     query  string  false  "YYYY-MM-DD o RFC3339"
// @Param        date_to       query  string  false  "YYYY-MM-DD o RFC3339"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	filter := repository.MovementFilter{Limit: page.Limit, Offset: page.Offset}
	if filter.ProductID, err = uuidQuery(c, "product_id"); err != nil {
		return writeError(c, err)
	}
	if filter.WarehouseID, err = uuidQuery(c, "warehouse_id"); err != nil {
		return writeError(c, err)
	}
	if filter.ReferenceID, err = uuidQuery(c, "reference_id"); err != nil {
		return writeError(c, err)
	}
	if filter.From, err = timeQuery(c, "date_from", false); err != nil {
		return writeError(c, err)
	}
	if filter.To, err = timeQuery(c, "date_to", true); err != nil {
		return writeError(c, err)
	}
	if t := c.Query("type"); t != "" {
		filter.Type = entity.MovementType(t)
		if !filter.Type.Valid() {
			return writeError(c, invalidField("type", "debe ser Entrada, Salida o Ajuste"))
		}
	}
	out, err := h.ledger.ListMovements(c.Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener movimiento
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.ledger.GetMovement(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
