package inventory

import "github.com/jhoicas/Farmacia-api/internal/domain/entity"

// Metrics puerto de métricas del libro de inventario. nil desactiva el registro.
type Metrics interface {
	MovementRecorded(movementType entity.MovementType)
}

type noopMetrics struct{}

func (noopMetrics) MovementRecorded(entity.MovementType) {}
