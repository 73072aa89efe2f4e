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

// ClientUseCase alta, consulta y actualización de clientes. Una venta puede referenciar
// un cliente registrado aquí.
type ClientUseCase struct {
	repo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

// Create registra un cliente. ErrDuplicate si el número de identificación ya está registrado.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	firstName := strings.TrimSpace(in.FirstName)
	if firstName == "" {
		return nil, domain.NewValidationError("first_name", "es obligatorio")
	}
	number := strings.TrimSpace(in.IdentificationNumber)
	if err := uc.ensureIdentificationFree(ctx, number, ""); err != nil {
		return nil, err
	}
	idType := strings.TrimSpace(in.IdentificationType)
	if idType == "" {
		idType = entity.DefaultIdentificationType
	}
	now := time.Now()
	client := &entity.Client{
		ID:                   uuid.New().String(),
		FirstName:            firstName,
		LastName:             strings.TrimSpace(in.LastName),
		Email:                strings.TrimSpace(in.Email),
		Phone:                strings.TrimSpace(in.Phone),
		Address:              strings.TrimSpace(in.Address),
		IdentificationType:   idType,
		IdentificationNumber: number,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := uc.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// GetByID obtiene un cliente por ID.
func (uc *ClientUseCase) GetByID(ctx context.Context, id string) (*dto.ClientResponse, error) {
	client, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return toClientResponse(client), nil
}

// Update actualiza los campos presentes en la entrada.
func (uc *ClientUseCase) Update(ctx context.Context, id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	client, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	if in.FirstName != nil {
		if strings.TrimSpace(*in.FirstName) == "" {
			return nil, domain.NewValidationError("first_name", "no puede ser vacío")
		}
		client.FirstName = strings.TrimSpace(*in.FirstName)
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&client.LastName, in.LastName)
	set(&client.Email, in.Email)
	set(&client.Phone, in.Phone)
	set(&client.Address, in.Address)
	set(&client.IdentificationType, in.IdentificationType)
	if in.IdentificationNumber != nil {
		number := strings.TrimSpace(*in.IdentificationNumber)
		if err := uc.ensureIdentificationFree(ctx, number, client.ID); err != nil {
			return nil, err
		}
		client.IdentificationNumber = number
	}
	if client.IdentificationType == "" {
		client.IdentificationType = entity.DefaultIdentificationType
	}
	client.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// List lista clientes con búsqueda y paginación.
func (uc *ClientUseCase) List(ctx context.Context, filter repository.ClientFilter) (*dto.ClientListResponse, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toClientResponse(c))
	}
	return &dto.ClientListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}

// ensureIdentificationFree el índice único también lo garantiza; aquí se da un mensaje claro.
func (uc *ClientUseCase) ensureIdentificationFree(ctx context.Context, number, selfID string) error {
	if number == "" {
		return nil
	}
	existing, err := uc.repo.GetByIdentification(ctx, number)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return fmt.Errorf("identificación %s ya registrada: %w", number, domain.ErrDuplicate)
	}
	return nil
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	if c == nil {
		return nil
	}
	return &dto.ClientResponse{
		ID:                   c.ID,
		FirstName:            c.FirstName,
		LastName:             c.LastName,
		FullName:             c.FullName(),
		Email:                c.Email,
		Phone:                c.Phone,
		Address:              c.Address,
		IdentificationType:   c.IdentificationType,
		IdentificationNumber: c.IdentificationNumber,
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
	}
}
