package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

const (
	reasonInitialStock = "Creación inicial de inventario"
	reasonManualAdjust = "Ajuste manual de inventario"
)

// AdjustUseCase ajuste manual de existencias (fijar cantidad y límites) y consultas de inventario.
// Toda variación de cantidad pasa por Ledger.Adjust.
type AdjustUseCase struct {
	txRunner      repository.TxRunner
	ledger        *Ledger
	inventoryRepo repository.InventoryRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
}

// NewAdjustUseCase construye el caso de uso.
func NewAdjustUseCase(
	txRunner repository.TxRunner,
	ledger *Ledger,
	inventoryRepo repository.InventoryRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
) *AdjustUseCase {
	return &AdjustUseCase{
		txRunner:      txRunner,
		ledger:        ledger,
		inventoryRepo: inventoryRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
	}
}

// SetLevel fija la cantidad de un producto en una bodega. Si el registro existe la diferencia
// se registra como Ajuste; si no existe y la cantidad es positiva, como Entrada inicial.
func (uc *AdjustUseCase) SetLevel(ctx context.Context, actorID string, in dto.UpsertInventoryRequest) (*dto.InventoryAdjustmentResponse, error) {
	if actorID == "" {
		return nil, domain.ErrUnauthorized
	}
	if in.Quantity == nil {
		return nil, domain.NewValidationError("quantity", "es obligatorio")
	}
	if *in.Quantity < 0 {
		return nil, domain.NewValidationError("quantity", "no puede ser negativa")
	}
	if in.MinStock != nil && *in.MinStock < 0 {
		return nil, domain.NewValidationError("min_stock", "no puede ser negativo")
	}
	if in.MaxStock != nil && in.MinStock != nil && *in.MaxStock < *in.MinStock {
		return nil, domain.NewValidationError("max_stock", "debe ser mayor o igual que min_stock")
	}

	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.ProductNotFoundError{IDs: []string{in.ProductID}}
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}

	target := *in.Quantity
	var (
		record   *entity.InventoryRecord
		movement *entity.InventoryMovement
	)
	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		// El callback puede re-ejecutarse ante errores transitorios: reasignar, nunca acumular.
		movement = nil
		current, err := repos.Inventory.GetForUpdate(ctx, in.ProductID, in.WarehouseID)
		if err != nil {
			return err
		}

		adjust := AdjustInput{
			ProductID:   in.ProductID,
			WarehouseID: in.WarehouseID,
			ActorID:     actorID,
		}
		switch {
		case current == nil && target > 0:
			adjust.Delta = target
			adjust.Reason = reasonOr(in.Reason, reasonInitialStock)
		case current == nil:
			if _, err := repos.Inventory.CreateIfAbsent(ctx, &entity.InventoryRecord{
				ProductID:   in.ProductID,
				WarehouseID: in.WarehouseID,
				UpdatedAt:   time.Now(),
			}); err != nil {
				return err
			}
		case target != current.Quantity:
			adjust.Delta = target - current.Quantity
			adjust.Override = entity.MovementTypeAjuste
			adjust.Reason = reasonOr(in.Reason, reasonManualAdjust)
		}
		if adjust.Delta != 0 {
			res, err := uc.ledger.Adjust(ctx, repos, adjust)
			if err != nil {
				return err
			}
			movement = res.Movement
		}

		minStock, maxStock, location := 0, in.MaxStock, in.Location
		if current != nil {
			minStock = current.MinStock
			if maxStock == nil {
				maxStock = current.MaxStock
			}
			if location == "" {
				location = current.Location
			}
		}
		if in.MinStock != nil {
			minStock = *in.MinStock
		}
		if maxStock != nil && *maxStock < minStock {
			return domain.NewValidationError("max_stock", "debe ser mayor o igual que min_stock")
		}
		if err := repos.Inventory.UpdateLimits(ctx, in.ProductID, in.WarehouseID, minStock, maxStock, location); err != nil {
			return err
		}
		record, err = repos.Inventory.Get(ctx, in.ProductID, in.WarehouseID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, &domain.InventoryNotFoundError{ProductID: in.ProductID, WarehouseID: in.WarehouseID}
	}
	if record.ProductName == "" {
		record.ProductName = product.Name
	}
	if record.WarehouseName == "" {
		record.WarehouseName = wh.Name
	}
	out := &dto.InventoryAdjustmentResponse{Inventory: *ToInventoryResponse(record)}
	if movement != nil {
		out.Movement = ToMovementResponse(movement)
	}
	return out, nil
}

// GetQuantity cantidad actual del par; delega en el libro.
func (uc *AdjustUseCase) GetQuantity(ctx context.Context, productID, warehouseID string) (*dto.QuantityResponse, error) {
	qty, err := uc.ledger.GetQuantity(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	return &dto.QuantityResponse{ProductID: productID, WarehouseID: warehouseID, Quantity: qty}, nil
}

// List lista existencias; filter.LowStock deja solo las que están en o bajo su mínimo.
func (uc *AdjustUseCase) List(ctx context.Context, filter repository.InventoryFilter) (*dto.InventoryListResponse, error) {
	list, err := uc.inventoryRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InventoryResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *ToInventoryResponse(r))
	}
	return &dto.InventoryListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}

// ToInventoryResponse convierte un registro de inventario a su DTO.
func ToInventoryResponse(r *entity.InventoryRecord) *dto.InventoryResponse {
	if r == nil {
		return nil
	}
	return &dto.InventoryResponse{
		ProductID:     r.ProductID,
		ProductName:   r.ProductName,
		WarehouseID:   r.WarehouseID,
		WarehouseName: r.WarehouseName,
		Quantity:      r.Quantity,
		MinStock:      r.MinStock,
		MaxStock:      r.MaxStock,
		Location:      r.Location,
		LowStock:      r.BelowMinimum(),
		UpdatedAt:     r.UpdatedAt,
	}
}

func reasonOr(reason, fallback string) string {
	if reason == "" {
		return fallback
	}
	return reason
}
