package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de la farmacia.
// Las líneas de venta capturan el precio al momento de la venta; editar Price solo afecta ventas futuras.
type Product struct {
	ID                   string
	Name                 string
	Description          string
	Price                decimal.Decimal // precio de venta (>= 0)
	Category             string
	RequiresPrescription bool
	Laboratory           string
	Barcode              string
	Active               bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
