package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrUsernameTaken     = errors.New("el nombre de usuario ya está registrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrProductNotFound   = errors.New("producto no encontrado")
	ErrInventoryNotFound = errors.New("inventario no encontrado")
	ErrSaleNotFound      = errors.New("venta no encontrada")
	ErrAlreadyCancelled  = errors.New("la venta ya fue cancelada")
	ErrTransient         = errors.New("error transitorio, intente de nuevo")
)

// ValidationError describe un campo inválido de la entrada. Coincide con ErrInvalidInput.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidationError atajo para construir un ValidationError.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ProductNotFoundError lista TODOS los productos solicitados que no existen o están inactivos.
type ProductNotFoundError struct {
	IDs []string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("productos no encontrados: %s", strings.Join(e.IDs, ", "))
}

func (e *ProductNotFoundError) Is(target error) bool { return target == ErrProductNotFound }

// InsufficientStockError rechazo de negocio: la cantidad pedida excede la disponible.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	WarehouseID string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = e.ProductID
	}
	return fmt.Sprintf("stock insuficiente para %s. Disponible: %d, Solicitado: %d", name, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// InventoryNotFoundError no existe registro de inventario para el par producto/bodega.
type InventoryNotFoundError struct {
	ProductID   string
	WarehouseID string
}

func (e *InventoryNotFoundError) Error() string {
	return fmt.Sprintf("el producto %s no existe en el inventario de la bodega %s", e.ProductID, e.WarehouseID)
}

func (e *InventoryNotFoundError) Is(target error) bool {
	return target == ErrInventoryNotFound || target == ErrNotFound
}

// StockShortage una línea rechazada por el chequeo previo de stock.
type StockShortage struct {
	ProductID   string
	ProductName string
	Available   int
	Requested   int
	Missing     bool // sin registro de inventario en la bodega
}

// StockCheckError reporte completo del chequeo optimista de stock.
type StockCheckError struct {
	WarehouseID string
	Shortages   []StockShortage
}

func (e *StockCheckError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		name := s.ProductName
		if name == "" {
			name = s.ProductID
		}
		if s.Missing {
			parts = append(parts, fmt.Sprintf("producto %s no existe en el inventario de la bodega %s", name, e.WarehouseID))
			continue
		}
		parts = append(parts, fmt.Sprintf("stock insuficiente para %s. Disponible: %d, Solicitado: %d", name, s.Available, s.Requested))
	}
	return strings.Join(parts, "; ")
}

func (e *StockCheckError) Is(target error) bool { return target == ErrInsufficientStock }

// TransientError falla reintentable del almacenamiento (deadlock, timeout de lock, conexión).
// El llamador puede reintentar la operación completa desde cero, nunca parcialmente.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

func (e *TransientError) Is(target error) bool { return target == ErrTransient }

// IsBusinessError indica si err es un rechazo de regla de negocio (no debe reintentarse).
func IsBusinessError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrSaleNotFound) ||
		errors.Is(err, ErrAlreadyCancelled) ||
		errors.Is(err, ErrConflict)
}
