package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleStatus estado de una venta. Active → Cancelled es la única transición.
type SaleStatus string

// Estados de venta.
const (
	SaleStatusActive    SaleStatus = "active"
	SaleStatusCancelled SaleStatus = "cancelled"
)

// Valid indica si s es un estado conocido.
func (s SaleStatus) Valid() bool {
	return s == SaleStatusActive || s == SaleStatusCancelled
}

// Métodos de pago aceptados en caja.
const (
	PaymentCash         = "Efectivo"
	PaymentCreditCard   = "Tarjeta Crédito"
	PaymentDebitCard    = "Tarjeta Débito"
	PaymentBankTransfer = "Transferencia"
)

// ValidPaymentMethod indica si m es un método de pago aceptado.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentBankTransfer:
		return true
	}
	return false
}

// Sale cabecera de una venta. Subtotal, Tax y Total son derivados e inmutables tras crearse;
// solo Status cambia (a Cancelled, de forma terminal).
type Sale struct {
	ID            string
	ClientID      *string // nil = venta anónima
	UserID        string
	WarehouseID   string
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod string
	Notes         string
	Status        SaleStatus
	SaleDate      time.Time
	CancelledAt   *time.Time
	CancelledBy   string

	Items []SaleLineItem
}

// Cancellable indica si la venta puede cancelarse.
func (s *Sale) Cancellable() bool {
	return s.Status == SaleStatusActive
}

// SaleLineItem línea de una venta. UnitPrice es una copia del precio al momento de la venta.
type SaleLineItem struct {
	ID          string
	SaleID      string
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
}
