package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// SaleFilter filtros para listar ventas.
type SaleFilter struct {
	From     *time.Time
	To       *time.Time
	Status   entity.SaleStatus
	ClientID string
	Limit    int
	Offset   int
}

// SaleRepository define el puerto de persistencia para Sale y sus líneas.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateLineItems(ctx context.Context, items []entity.SaleLineItem) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// GetForUpdate bloquea la cabecera de la venta hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	GetLineItems(ctx context.Context, saleID string) ([]entity.SaleLineItem, error)
	MarkCancelled(ctx context.Context, id, userID string, at time.Time) error
	List(ctx context.Context, filter SaleFilter) ([]*entity.Sale, error)
}
