package repository

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// InventoryFilter filtros para listar inventario.
type InventoryFilter struct {
	ProductID   string
	WarehouseID string
	LowStock    bool // quantity <= min_stock AND min_stock > 0
	Limit       int
	Offset      int
}

// InventoryRepository define el puerto para consultar/actualizar stock por almacén+producto.
// Las escrituras de cantidad solo deben hacerse desde el Ledger de inventario.
type InventoryRepository interface {
	// Get lectura sin bloqueo; (nil, nil) si no existe el par.
	Get(ctx context.Context, productID, warehouseID string) (*entity.InventoryRecord, error)
	// GetMany lectura sin bloqueo de varios productos en un almacén, indexado por product_id.
	GetMany(ctx context.Context, warehouseID string, productIDs []string) (map[string]*entity.InventoryRecord, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) hasta el fin de la transacción; (nil, nil) si no existe.
	GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.InventoryRecord, error)
	// CreateIfAbsent inserta el registro; devuelve false si otro ya lo creó (sin error).
	CreateIfAbsent(ctx context.Context, record *entity.InventoryRecord) (bool, error)
	UpdateQuantity(ctx context.Context, productID, warehouseID string, quantity int) error
	UpdateLimits(ctx context.Context, productID, warehouseID string, minStock int, maxStock *int, location string) error
	List(ctx context.Context, filter InventoryFilter) ([]*entity.InventoryRecord, error)
}
