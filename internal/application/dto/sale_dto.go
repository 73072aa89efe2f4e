package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea solicitada. Quantity es puntero: ausente debe fallar, no convertirse en 0.
type SaleItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  *int   `json:"quantity" validate:"required,gt=0"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	ClientID      *string           `json:"client_id" validate:"omitempty,uuid"`
	WarehouseID   string            `json:"warehouse_id" validate:"omitempty,uuid"`
	PaymentMethod string            `json:"payment_method" validate:"required,max=50"`
	Notes         string            `json:"notes" validate:"max=500"`
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// SaleLineItemResponse línea de venta con el precio capturado al vender.
type SaleLineItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID            string                 `json:"id"`
	ClientID      *string                `json:"client_id"`
	UserID        string                 `json:"user_id"`
	WarehouseID   string                 `json:"warehouse_id"`
	Subtotal      decimal.Decimal        `json:"subtotal"`
	Tax           decimal.Decimal        `json:"tax"`
	Total         decimal.Decimal        `json:"total"`
	PaymentMethod string                 `json:"payment_method"`
	Notes         string                 `json:"notes,omitempty"`
	Status        string                 `json:"status"`
	SaleDate      time.Time              `json:"sale_date"`
	CancelledAt   *time.Time             `json:"cancelled_at,omitempty"`
	CancelledBy   string                 `json:"cancelled_by,omitempty"`
	Items         []SaleLineItemResponse `json:"items,omitempty"`
}

// SaleListResponse lista paginada de ventas (sin líneas).
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// CancelSaleResponse confirmación de anulación.
type CancelSaleResponse struct {
	SaleID        string    `json:"sale_id"`
	Status        string    `json:"status"`
	CancelledAt   time.Time `json:"cancelled_at"`
	RestoredLines int       `json:"restored_lines"`
	SkippedLines  int       `json:"skipped_lines"`
}
