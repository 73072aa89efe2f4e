package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// MovementFilter filtros para el libro de movimientos. Campos vacíos no filtran.
type MovementFilter struct {
	ProductID   string
	WarehouseID string
	Type        entity.MovementType
	ReferenceID string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// InventoryMovementRepository puerto del libro de movimientos (solo inserciones).
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	GetByID(ctx context.Context, id string) (*entity.InventoryMovement, error)
	// List ordena por fecha descendente (y orden de inserción descendente en empates).
	List(ctx context.Context, filter MovementFilter) ([]*entity.InventoryMovement, error)
}
