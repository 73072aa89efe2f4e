package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// InventoryHandler maneja las peticiones HTTP de existencias (protegido).
type InventoryHandler struct {
	uc            *inventory.AdjustUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.AdjustUseCase, replenishment *inventory.ReplenishmentUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc, replenishment: replenishment}
}

// Upsert godoc
// @Summary      Fijar existencia de un producto en una bodega
// @Description  Crea el registro si no existe. La diferencia queda como movimiento (Entrada inicial o Ajuste).
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpsertInventoryRequest  true  "product_id, warehouse_id, quantity, min_stock, max_stock"
// @Success      200   {object}  dto.InventoryAdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory [post]
func (h *InventoryHandler) Upsert(c *fiber.Ctx) error {
	var in dto.UpsertInventoryRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.SetLevel(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar existencias
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "UUID de bodega"
// @Param        product_id    query  string  false  "UUID de producto"
// @Param        low_stock     query  bool    false  "Solo productos en o bajo su stock mínimo"
// @Success      200  {object}  dto.InventoryListResponse
// @Router       /api/inventory [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	warehouseID, err := uuidQuery(c, "warehouse_id")
	if err != nil {
		return writeError(c, err)
	}
	productID, err := uuidQuery(c, "product_id")
	if err != nil {
		return writeError(c, err)
	}
	lowStock, err := boolQuery(c, "low_stock")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.Context(), repository.InventoryFilter{
		ProductID:   productID,
		WarehouseID: warehouseID,
		LowStock:    lowStock,
		Limit:       page.Limit,
		Offset:      page.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Quantity godoc
// @Summary      Cantidad actual de un producto en una bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true  "UUID de producto"
// @Param        warehouse_id  query  string  true  "UUID de bodega"
// @Success      200  {object}  dto.QuantityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/quantity [get]
func (h *InventoryHandler) Quantity(c *fiber.Ctx) error {
	productID, err := uuidQuery(c, "product_id")
	if err != nil {
		return writeError(c, err)
	}
	warehouseID, err := uuidQuery(c, "warehouse_id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetQuantity(c.Context(), productID, warehouseID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Replenishment godoc
// @Summary      Lista de reposición
// @Description  Productos bajo su stock mínimo con la cantidad sugerida de pedido, mayor déficit primero.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega (UUID). Vacío = todas."
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Router       /api/inventory/replenishment [get]
func (h *InventoryHandler) Replenishment(c *fiber.Ctx) error {
	warehouseID, err := uuidQuery(c, "warehouse_id")
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.replenishment.GenerateReplenishmentList(c.Context(), warehouseID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}
