package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name                 string          `json:"name" validate:"required,min=1,max=200"`
	Description          string          `json:"description"`
	Price                decimal.Decimal `json:"price"`
	Category             string          `json:"category" validate:"max=100"`
	RequiresPrescription bool            `json:"requires_prescription"`
	Laboratory           string          `json:"laboratory" validate:"max=100"`
	Barcode              string          `json:"barcode" validate:"max=50"`
}

// UpdateProductRequest entrada para actualizar un producto. El precio nuevo solo aplica a ventas futuras.
type UpdateProductRequest struct {
	Name                 *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description          *string          `json:"description"`
	Price                *decimal.Decimal `json:"price"`
	Category             *string          `json:"category" validate:"omitempty,max=100"`
	RequiresPrescription *bool            `json:"requires_prescription"`
	Laboratory           *string          `json:"laboratory" validate:"omitempty,max=100"`
	Barcode              *string          `json:"barcode" validate:"omitempty,max=50"`
	Active               *bool            `json:"active"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	Description          string          `json:"description"`
	Price                decimal.Decimal `json:"price"`
	Category             string          `json:"category"`
	RequiresPrescription bool            `json:"requires_prescription"`
	Laboratory           string          `json:"laboratory"`
	Barcode              string          `json:"barcode"`
	Active               bool            `json:"active"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
