package entity

import "time"

// InventoryRecord stock actual de un producto en un almacén. Uno por par (producto, almacén);
// se crea de forma perezosa en la primera entrada. Quantity nunca queda negativa tras un commit.
type InventoryRecord struct {
	ProductID   string
	WarehouseID string
	Quantity    int
	MinStock    int
	MaxStock    *int // nil = sin máximo
	Location    string
	UpdatedAt   time.Time

	// Solo lectura, rellenados en listados.
	ProductName   string
	WarehouseName string
}

// BelowMinimum indica si el registro está en o por debajo de su stock mínimo.
func (r *InventoryRecord) BelowMinimum() bool {
	return r.MinStock > 0 && r.Quantity <= r.MinStock
}
