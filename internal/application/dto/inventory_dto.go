package dto

import "time"

// UpsertInventoryRequest body para POST /api/inventory: fija la cantidad de un producto en una bodega.
type UpsertInventoryRequest struct {
	ProductID   string `json:"product_id" validate:"required,uuid"`
	WarehouseID string `json:"warehouse_id" validate:"required,uuid"`
	Quantity    *int   `json:"quantity" validate:"required,gte=0"`
	MinStock    *int   `json:"min_stock" validate:"omitempty,gte=0"`
	MaxStock    *int   `json:"max_stock" validate:"omitempty,gte=0"`
	Location    string `json:"location" validate:"max=100"`
	Reason      string `json:"reason" validate:"max=255"`
}

// InventoryResponse existencia de un producto en una bodega.
type InventoryResponse struct {
	ProductID     string    `json:"product_id"`
	ProductName   string    `json:"product_name,omitempty"`
	WarehouseID   string    `json:"warehouse_id"`
	WarehouseName string    `json:"warehouse_name,omitempty"`
	Quantity      int       `json:"quantity"`
	MinStock      int       `json:"min_stock"`
	MaxStock      *int      `json:"max_stock"`
	Location      string    `json:"location,omitempty"`
	LowStock      bool      `json:"low_stock"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// InventoryListResponse lista paginada de existencias.
type InventoryListResponse struct {
	Items []InventoryResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// QuantityResponse salida de GET /api/inventory/quantity.
type QuantityResponse struct {
	ProductID   string `json:"product_id"`
	WarehouseID string `json:"warehouse_id"`
	Quantity    int    `json:"quantity"`
}

// InventoryAdjustmentResponse resultado del ajuste manual; Movement es nil si la cantidad no cambió.
type InventoryAdjustmentResponse struct {
	Inventory InventoryResponse `json:"inventory"`
	Movement  *MovementResponse `json:"movement,omitempty"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un producto bajo su stock mínimo.
type ReplenishmentSuggestionDTO struct {
	ProductID         string `json:"product_id"`
	ProductName       string `json:"product_name"`
	WarehouseID       string `json:"warehouse_id"`
	WarehouseName     string `json:"warehouse_name"`
	CurrentStock      int    `json:"current_stock"`
	MinStock          int    `json:"min_stock"`
	MaxStock          *int   `json:"max_stock"`
	TargetStock       int    `json:"target_stock"`        // max_stock, o min_stock * 1.5 si no hay máximo
	SuggestedOrderQty int    `json:"suggested_order_qty"` // TargetStock - CurrentStock
	Priority          int    `json:"priority"`            // 1 = más urgente
}
