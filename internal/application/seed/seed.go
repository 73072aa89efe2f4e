// Package seed carga datos iniciales: el usuario administrador y un catálogo de demostración.
// Todo pasa por los casos de uso, así el inventario inicial queda registrado en el libro de movimientos.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Farmacia-api/internal/application/auth"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Seeder agrupa los casos de uso necesarios para sembrar datos.
type Seeder struct {
	txRunner   repository.TxRunner
	users      repository.UserRepository
	auth       *auth.AuthUseCase
	products   *usecase.ProductUseCase
	warehouses *usecase.WarehouseUseCase
	adjust     *inventory.AdjustUseCase
	log        zerolog.Logger
}

// NewSeeder construye el seeder.
func NewSeeder(
	txRunner repository.TxRunner,
	users repository.UserRepository,
	authUC *auth.AuthUseCase,
	products *usecase.ProductUseCase,
	warehouses *usecase.WarehouseUseCase,
	adjust *inventory.AdjustUseCase,
	log zerolog.Logger,
) *Seeder {
	return &Seeder{
		txRunner:   txRunner,
		users:      users,
		auth:       authUC,
		products:   products,
		warehouses: warehouses,
		adjust:     adjust,
		log:        log,
	}
}

// EnsureAdmin crea el administrador si no existe. Devuelve su ID.
func (s *Seeder) EnsureAdmin(ctx context.Context, username, password string) (string, error) {
	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.ID, nil
	}
	user, err := s.auth.RegisterUser(ctx, dto.RegisterRequest{
		Username: username,
		Password: password,
		Name:     "Administrador",
		Role:     entity.RoleAdmin,
	})
	if err != nil {
		return "", fmt.Errorf("crear administrador: %w", err)
	}
	s.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("administrador creado")
	return user.ID, nil
}

// Result IDs de los datos de demostración creados.
type Result struct {
	PrimaryWarehouseID   string
	SecondaryWarehouseID string
	ProductIDs           []string
	ClientID             string
	Skipped              bool
}

type demoProduct struct {
	name         string
	category     string
	laboratory   string
	price        string
	prescription bool
	stock        int
	minStock     int
	maxStock     int
}

var demoProducts = []demoProduct{
	{"Paracetamol 500mg x 20", "Analgésicos", "Genfar", "4500.00", false, 120, 30, 200},
	{"Ibuprofeno 400mg x 10", "Analgésicos", "MK", "6200.00", false, 80, 20, 150},
	{"Amoxicilina 500mg x 21", "Antibióticos", "La Santé", "18900.00", true, 40, 15, 60},
	{"Loratadina 10mg x 10", "Antialérgicos", "Genfar", "5300.00", false, 10, 25, 0},
	{"Omeprazol 20mg x 14", "Gastrointestinal", "Tecnoquímicas", "9800.00", false, 60, 10, 100},
	{"Suero oral 500ml", "Hidratación", "Pedialyte", "7400.00", false, 0, 12, 48},
}

// Demo siembra bodegas, productos, existencias iniciales y un cliente. Si ya hay bodegas no hace nada.
func (s *Seeder) Demo(ctx context.Context, actorID string) (*Result, error) {
	existing, err := s.warehouses.List(ctx, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(existing.Items) > 0 {
		s.log.Info().Msg("datos de demostración ya presentes, se omite")
		return &Result{Skipped: true}, nil
	}

	primary, err := s.warehouses.Create(ctx, dto.CreateWarehouseRequest{
		Name:      "Bodega Principal",
		Location:  "Calle 10 # 5-20",
		IsPrimary: true,
	})
	if err != nil {
		return nil, fmt.Errorf("bodega principal: %w", err)
	}
	counter, err := s.warehouses.Create(ctx, dto.CreateWarehouseRequest{
		Name:     "Mostrador",
		Location: "Local 1",
	})
	if err != nil {
		return nil, fmt.Errorf("bodega mostrador: %w", err)
	}

	res := &Result{PrimaryWarehouseID: primary.ID, SecondaryWarehouseID: counter.ID}
	for _, p := range demoProducts {
		out, err := s.products.Create(ctx, dto.CreateProductRequest{
			Name:                 p.name,
			Price:                decimal.RequireFromString(p.price),
			Category:             p.category,
			Laboratory:           p.laboratory,
			RequiresPrescription: p.prescription,
		})
		if err != nil {
			return nil, fmt.Errorf("producto %s: %w", p.name, err)
		}
		res.ProductIDs = append(res.ProductIDs, out.ID)

		req := dto.UpsertInventoryRequest{
			ProductID:   out.ID,
			WarehouseID: primary.ID,
			Quantity:    intPtr(p.stock),
			MinStock:    intPtr(p.minStock),
			Reason:      "Carga inicial",
		}
		if p.maxStock > 0 {
			req.MaxStock = intPtr(p.maxStock)
		}
		if _, err := s.adjust.SetLevel(ctx, actorID, req); err != nil {
			return nil, fmt.Errorf("inventario %s: %w", p.name, err)
		}
	}

	now := time.Now()
	client := &entity.Client{
		ID:        uuid.New().String(),
		FirstName: "María",
		LastName:  "Gómez",
		Email:     "maria.gomez@example.com",
		Phone:     "3001234567",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		return repos.Clients.Create(ctx, client)
	}); err != nil {
		return nil, fmt.Errorf("cliente: %w", err)
	}
	res.ClientID = client.ID

	s.log.Info().
		Str("warehouse_id", primary.ID).
		Int("products", len(res.ProductIDs)).
		Msg("datos de demostración cargados")
	return res, nil
}

func intPtr(v int) *int { return &v }
