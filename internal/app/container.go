// Package app arma el grafo de dependencias (almacenamiento, casos de uso) compartido por los comandos.
package app

import (
	"context"
	"fmt"

	"github.com/jhoicas/Farmacia-api/internal/application/auth"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/application/sales"
	"github.com/jhoicas/Farmacia-api/internal/application/seed"
	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/memory"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Farmacia-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Farmacia-api/internal/interfaces/http"
	"github.com/jhoicas/Farmacia-api/pkg/config"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// Backend repositorios fuera de transacción más el runner transaccional de un almacenamiento.
type Backend struct {
	TxRunner repository.TxRunner
	Repos    repository.TxRepos
	Users    repository.UserRepository
	Close    func()
}

// NewMemoryBackend almacenamiento en memoria (modo demo y pruebas).
func NewMemoryBackend() *Backend {
	store := memory.New()
	return &Backend{
		TxRunner: store,
		Repos:    store.Repos(),
		Users:    store.Users(),
		Close:    func() {},
	}
}

// NewPostgresBackend abre el pool, aplica migraciones si DB_AUTO_MIGRATE y arma el TxRunner con reintentos.
func NewPostgresBackend(ctx context.Context, cfg config.DBConfig, log *logger.Logger, m *metrics.Metrics) (*Backend, error) {
	if cfg.AutoMigrate {
		migrator, err := postgres.NewMigrator(cfg.ConnectionString(), log.Component("migrate"))
		if err != nil {
			return nil, fmt.Errorf("preparar migraciones: %w", err)
		}
		err = migrator.Up()
		_ = migrator.Close()
		if err != nil {
			return nil, fmt.Errorf("aplicar migraciones: %w", err)
		}
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	opts := []postgres.TxOption{
		postgres.WithMaxAttempts(cfg.TxMaxRetries),
		postgres.WithLockTimeout(cfg.LockTimeout()),
		postgres.WithLogger(log.Component("tx")),
	}
	if m != nil {
		opts = append(opts, postgres.WithRetryObserver(m))
	}
	return &Backend{
		TxRunner: postgres.NewTxRunner(pool, opts...),
		Repos: repository.TxRepos{
			Inventory:  postgres.NewInventoryRepository(pool),
			Movements:  postgres.NewInventoryMovementRepository(pool),
			Products:   postgres.NewProductRepository(pool),
			Sales:      postgres.NewSaleRepository(pool),
			Clients:    postgres.NewClientRepository(pool),
			Warehouses: postgres.NewWarehouseRepository(pool),
		},
		Users: postgres.NewUserRepository(pool),
		Close: pool.Close,
	}, nil
}

// Container casos de uso listos para los handlers.
type Container struct {
	Auth          *auth.AuthUseCase
	Products      *usecase.ProductUseCase
	Warehouses    *usecase.WarehouseUseCase
	Clients       *usecase.ClientUseCase
	Ledger        *inventory.Ledger
	Adjust        *inventory.AdjustUseCase
	Replenishment *inventory.ReplenishmentUseCase
	StockGuard    *inventory.StockGuard
	Sales         *sales.SaleUseCase
	Receipts      *sales.ReceiptUseCase
	Seeder        *seed.Seeder
	jwtSecret     string
}

// Build arma los casos de uso sobre el backend. m puede ser nil.
func Build(b *Backend, cfg *config.Config, log *logger.Logger, m *metrics.Metrics) *Container {
	var (
		saleMetrics   sales.Metrics
		ledgerMetrics inventory.Metrics
	)
	if m != nil {
		saleMetrics, ledgerMetrics = m, m
	}
	r := b.Repos
	resolver := inventory.NewWarehouseResolver(r.Warehouses, cfg.Sales.DefaultWarehouseID)
	ledger := inventory.NewLedger(r.Inventory, r.Movements, ledgerMetrics)
	pricing := sales.NewPriceCalculator(r.Products, cfg.Sales.TaxRate)
	saleUC := sales.NewSaleUseCase(b.TxRunner, pricing, ledger, resolver, r.Sales, r.Clients, saleMetrics, log.Component("sales"))

	c := &Container{
		Auth: auth.NewAuthUseCase(b.Users, auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		}),
		Products:      usecase.NewProductUseCase(r.Products),
		Warehouses:    usecase.NewWarehouseUseCase(b.TxRunner, r.Warehouses),
		Clients:       usecase.NewClientUseCase(r.Clients),
		Ledger:        ledger,
		Adjust:        inventory.NewAdjustUseCase(b.TxRunner, ledger, r.Inventory, r.Products, r.Warehouses),
		Replenishment: inventory.NewReplenishmentUseCase(r.Inventory),
		StockGuard:    inventory.NewStockGuard(r.Inventory, r.Products, resolver),
		Sales:         saleUC,
		Receipts:      sales.NewReceiptUseCase(saleUC, r.Clients, r.Warehouses, infrapdf.NewReceiptGenerator(cfg.App.Name)),
		jwtSecret:     cfg.JWT.Secret,
	}
	c.Seeder = seed.NewSeeder(b.TxRunner, b.Users, c.Auth, c.Products, c.Warehouses, c.Adjust, log.Component("seed"))
	return c
}

// RouterDeps dependencias del router HTTP.
func (c *Container) RouterDeps() httpRouter.RouterDeps {
	return httpRouter.RouterDeps{
		AuthUC:        c.Auth,
		ProductUC:     c.Products,
		WarehouseUC:   c.Warehouses,
		ClientUC:      c.Clients,
		AdjustUC:      c.Adjust,
		Replenishment: c.Replenishment,
		Ledger:        c.Ledger,
		SaleUC:        c.Sales,
		ReceiptUC:     c.Receipts,
		StockGuard:    c.StockGuard,
		JWTSecret:     c.jwtSecret,
	}
}
