package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ReplenishmentUseCase genera la lista de reposición de productos en o bajo su stock mínimo.
type ReplenishmentUseCase struct {
	inventoryRepo repository.InventoryRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(inventoryRepo repository.InventoryRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{inventoryRepo: inventoryRepo}
}

// GenerateReplenishmentList devuelve los productos bajo mínimo con la cantidad sugerida de pedido.
// warehouseID puede ser vacío para considerar todas las bodegas.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, warehouseID string) ([]dto.ReplenishmentSuggestionDTO, error) {
	// 1. Registros en o bajo el mínimo (sin paginar)
	rawItems, err := uc.inventoryRepo.List(ctx, repository.InventoryFilter{
		WarehouseID: warehouseID,
		LowStock:    true,
	})
	if err != nil {
		return nil, err
	}
	if len(rawItems) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	// 2. Stock objetivo: máximo configurado o 1.5 × mínimo
	factor := decimal.NewFromFloat(1.5)
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(rawItems))
	for _, item := range rawItems {
		if !item.BelowMinimum() {
			continue
		}
		target := int(decimal.NewFromInt(int64(item.MinStock)).Mul(factor).Ceil().IntPart())
		if item.MaxStock != nil && *item.MaxStock > item.MinStock {
			target = *item.MaxStock
		}
		suggested := target - item.Quantity
		if suggested < 0 {
			suggested = 0
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:         item.ProductID,
			ProductName:       item.ProductName,
			WarehouseID:       item.WarehouseID,
			WarehouseName:     item.WarehouseName,
			CurrentStock:      item.Quantity,
			MinStock:          item.MinStock,
			MaxStock:          item.MaxStock,
			TargetStock:       target,
			SuggestedOrderQty: suggested,
		})
	}

	// 3. Ordenar: mayor déficit bajo el mínimo, luego mayor pedido sugerido
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		defA := a.MinStock - a.CurrentStock
		defB := b.MinStock - b.CurrentStock
		if defA != defB {
			return defA > defB
		}
		return a.SuggestedOrderQty > b.SuggestedOrderQty
	})

	// 4. Asignar prioridad (1 = más urgente)
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
