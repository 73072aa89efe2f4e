package entity

import (
	"time"
)

// MovementType tipo de movimiento de inventario.
type MovementType string

// Tipos de movimiento de inventario.
const (
	MovementTypeEntrada MovementType = "Entrada" // entrada
	MovementTypeSalida  MovementType = "Salida"  // salida
	MovementTypeAjuste  MovementType = "Ajuste"  // ajuste manual
)

// Valid indica si t es un tipo conocido.
func (t MovementType) Valid() bool {
	switch t {
	case MovementTypeEntrada, MovementTypeSalida, MovementTypeAjuste:
		return true
	}
	return false
}

// MovementTypeFor tabla de decisión del tipo de movimiento:
//
//	override Ajuste      → Ajuste
//	delta > 0            → Entrada
//	delta < 0            → Salida
//
// delta == 0 sin override no es un movimiento válido (ok = false).
func MovementTypeFor(delta int, override MovementType) (MovementType, bool) {
	if override == MovementTypeAjuste {
		return MovementTypeAjuste, delta != 0
	}
	switch {
	case delta > 0:
		return MovementTypeEntrada, true
	case delta < 0:
		return MovementTypeSalida, true
	}
	return "", false
}

// Tipos de referencia de un movimiento.
const (
	ReferenceTypeSale       = "sale"
	ReferenceTypeSaleCancel = "sale_cancel"
	ReferenceTypeAdjustment = "adjustment"
)

// MovementReference enlaza el movimiento con la operación que lo causó.
type MovementReference struct {
	ID   string
	Type string
}

// InventoryMovement hecho inmutable de un cambio de cantidad.
// Quantity es siempre la magnitud (>= 0); el signo se deduce de NewQuantity - PreviousQuantity.
type InventoryMovement struct {
	ID               string
	ProductID        string
	WarehouseID      string
	Type             MovementType
	Quantity         int
	PreviousQuantity int
	NewQuantity      int
	Reference        *MovementReference
	Reason           string
	UserID           string
	MovementDate     time.Time
}

// Delta cambio con signo que aplicó este movimiento.
func (m *InventoryMovement) Delta() int {
	return m.NewQuantity - m.PreviousQuantity
}
