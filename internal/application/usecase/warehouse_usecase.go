package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// WarehouseUseCase casos de uso CRUD para bodegas. Como máximo una bodega puede ser principal;
// la regla se valida al escribir, dentro de una transacción.
type WarehouseUseCase struct {
	txRunner repository.TxRunner
	repo     repository.WarehouseRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(txRunner repository.TxRunner, repo repository.WarehouseRepository) *WarehouseUseCase {
	return &WarehouseUseCase{txRunner: txRunner, repo: repo}
}

// Create crea una nueva bodega. ErrConflict si se pide principal y ya existe otra.
func (uc *WarehouseUseCase) Create(ctx context.Context, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.NewValidationError("name", "es obligatorio")
	}
	now := time.Now()
	warehouse := &entity.Warehouse{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Location:    in.Location,
		Description: in.Description,
		IsPrimary:   in.IsPrimary,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		if warehouse.IsPrimary {
			if err := ensureNoOtherPrimary(ctx, repos.Warehouses, warehouse.ID); err != nil {
				return err
			}
		}
		return repos.Warehouses.Create(ctx, warehouse)
	})
	if err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// GetByID obtiene una bodega por ID.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, id string) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}
	return toWarehouseResponse(warehouse), nil
}

// Update actualiza una bodega.
func (uc *WarehouseUseCase) Update(ctx context.Context, id string, in dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	var warehouse *entity.Warehouse
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		var err error
		warehouse, err = repos.Warehouses.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if warehouse == nil {
			return domain.ErrNotFound
		}
		if in.Name != nil {
			if strings.TrimSpace(*in.Name) == "" {
				return domain.NewValidationError("name", "no puede ser vacío")
			}
			warehouse.Name = strings.TrimSpace(*in.Name)
		}
		if in.Location != nil {
			warehouse.Location = *in.Location
		}
		if in.Description != nil {
			warehouse.Description = *in.Description
		}
		if in.IsPrimary != nil {
			if *in.IsPrimary && !warehouse.IsPrimary {
				if err := ensureNoOtherPrimary(ctx, repos.Warehouses, warehouse.ID); err != nil {
					return err
				}
			}
			warehouse.IsPrimary = *in.IsPrimary
		}
		warehouse.UpdatedAt = time.Now()
		return repos.Warehouses.Update(ctx, warehouse)
	})
	if err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// List lista bodegas con paginación.
func (uc *WarehouseUseCase) List(ctx context.Context, limit, offset int) (*dto.WarehouseListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w))
	}
	return &dto.WarehouseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func ensureNoOtherPrimary(ctx context.Context, repo repository.WarehouseRepository, selfID string) error {
	primary, err := repo.GetPrimary(ctx)
	if err != nil {
		return err
	}
	if primary != nil && primary.ID != selfID {
		return fmt.Errorf("ya existe una bodega principal (%s): %w", primary.Name, domain.ErrConflict)
	}
	return nil
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	if w == nil {
		return nil
	}
	return &dto.WarehouseResponse{
		ID:          w.ID,
		Name:        w.Name,
		Location:    w.Location,
		Description: w.Description,
		IsPrimary:   w.IsPrimary,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}
