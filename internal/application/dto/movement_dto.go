package dto

import "time"

// MovementResponse salida de un movimiento del libro de inventario.
type MovementResponse struct {
	ID               string    `json:"id"`
	ProductID        string    `json:"product_id"`
	WarehouseID      string    `json:"warehouse_id"`
	MovementType     string    `json:"movement_type"`
	Quantity         int       `json:"quantity"`
	PreviousQuantity int       `json:"previous_quantity"`
	NewQuantity      int       `json:"new_quantity"`
	ReferenceID      string    `json:"reference_id,omitempty"`
	ReferenceType    string    `json:"reference_type,omitempty"`
	Reason           string    `json:"reason"`
	UserID           string    `json:"user_id"`
	MovementDate     time.Time `json:"movement_date"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
