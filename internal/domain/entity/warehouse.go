package entity

import "time"

// Warehouse representa un almacén donde se guarda inventario.
// A lo sumo un almacén puede ser principal; se valida al escribir, no en el esquema.
type Warehouse struct {
	ID          string
	Name        string
	Location    string
	Description string
	IsPrimary   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
