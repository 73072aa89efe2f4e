package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// WarehouseResolver decide la bodega de una venta: la solicitada, la configurada por defecto
// o la bodega principal, en ese orden.
type WarehouseResolver struct {
	repo      repository.WarehouseRepository
	defaultID string
}

// NewWarehouseResolver construye el resolvedor. defaultID puede ser vacío.
func NewWarehouseResolver(repo repository.WarehouseRepository, defaultID string) *WarehouseResolver {
	return &WarehouseResolver{repo: repo, defaultID: defaultID}
}

// Resolve devuelve el ID de bodega a usar y verifica que exista.
func (r *WarehouseResolver) Resolve(ctx context.Context, requested string) (string, error) {
	id := requested
	if id == "" {
		id = r.defaultID
	}
	if id == "" {
		primary, err := r.repo.GetPrimary(ctx)
		if err != nil {
			return "", err
		}
		if primary == nil {
			return "", domain.NewValidationError("warehouse_id", "es obligatorio: no hay bodega principal configurada")
		}
		return primary.ID, nil
	}
	wh, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if wh == nil {
		return "", fmt.Errorf("bodega %s: %w", id, domain.ErrNotFound)
	}
	return wh.ID, nil
}
