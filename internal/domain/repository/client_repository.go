package repository

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// ClientFilter filtros para listar clientes.
type ClientFilter struct {
	Search string // nombre, apellido, email o identificación
	Limit  int
	Offset int
}

// ClientRepository define el puerto de persistencia para Client. Las ventas solo leen (GetByID).
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	GetByIdentification(ctx context.Context, number string) (*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	List(ctx context.Context, filter ClientFilter) ([]*entity.Client, error)
}
