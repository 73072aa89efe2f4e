package sales_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/application/sales"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/memory"
)

var taxRate = decimal.RequireFromString("0.16")

// fakeMetrics cuenta las llamadas del orquestador.
type fakeMetrics struct {
	mu        sync.Mutex
	created   int
	cancelled int
	rejected  map[string]int
}

func (m *fakeMetrics) SaleCreated(decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created++
}

func (m *fakeMetrics) SaleCancelled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelled++
}

func (m *fakeMetrics) SaleRejected(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rejected == nil {
		m.rejected = map[string]int{}
	}
	m.rejected[reason]++
}

// fixture almacén en memoria con una bodega principal y los casos de uso armados encima.
type fixture struct {
	ctx         context.Context
	store       *memory.Store
	repos       repository.TxRepos
	ledger      *inventory.Ledger
	pricing     *sales.PriceCalculator
	uc          *sales.SaleUseCase
	metrics     *fakeMetrics
	warehouseID string
	actorID     string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	repos := store.Repos()
	f := &fixture{
		ctx:     context.Background(),
		store:   store,
		repos:   repos,
		metrics: &fakeMetrics{},
		actorID: uuid.NewString(),
	}
	f.warehouseID = f.addWarehouse(t, "Bodega Principal", true)

	resolver := inventory.NewWarehouseResolver(repos.Warehouses, "")
	f.ledger = inventory.NewLedger(repos.Inventory, repos.Movements, nil)
	f.pricing = sales.NewPriceCalculator(repos.Products, taxRate)
	f.uc = sales.NewSaleUseCase(store, f.pricing, f.ledger, resolver, repos.Sales, repos.Clients, f.metrics, zerolog.Nop())
	return f
}

func (f *fixture) addWarehouse(t *testing.T, name string, primary bool) string {
	t.Helper()
	now := time.Now()
	w := &entity.Warehouse{ID: uuid.NewString(), Name: name, IsPrimary: primary, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.repos.Warehouses.Create(f.ctx, w))
	return w.ID
}

func (f *fixture) addProduct(t *testing.T, name, price string, active bool) string {
	t.Helper()
	return f.addProductWithID(t, uuid.NewString(), name, price, active)
}

// addProductWithID fija el ID para controlar el orden de bloqueo (ascendente por product_id).
func (f *fixture) addProductWithID(t *testing.T, id, name, price string, active bool) string {
	t.Helper()
	now := time.Now()
	p := &entity.Product{
		ID:        id,
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.repos.Products.Create(f.ctx, p))
	return p.ID
}

// stock ingresa qty unidades por el libro (Entrada) y fija el mínimo.
func (f *fixture) stock(t *testing.T, productID, warehouseID string, qty, minStock int) {
	t.Helper()
	require.NoError(t, f.store.Run(f.ctx, func(repos repository.TxRepos) error {
		if _, err := f.ledger.Adjust(f.ctx, repos, inventory.AdjustInput{
			ProductID:   productID,
			WarehouseID: warehouseID,
			Delta:       qty,
			ActorID:     f.actorID,
			Reason:      "Carga inicial",
		}); err != nil {
			return err
		}
		return repos.Inventory.UpdateLimits(f.ctx, productID, warehouseID, minStock, nil, "")
	}))
}

func (f *fixture) quantity(t *testing.T, productID, warehouseID string) int {
	t.Helper()
	q, err := f.ledger.GetQuantity(f.ctx, productID, warehouseID)
	require.NoError(t, err)
	return q
}

func (f *fixture) movements(t *testing.T, filter repository.MovementFilter) []*entity.InventoryMovement {
	t.Helper()
	list, err := f.repos.Movements.List(f.ctx, filter)
	require.NoError(t, err)
	return list
}

// replay suma los deltas con signo de todos los movimientos del par.
func (f *fixture) replay(t *testing.T, productID, warehouseID string) int {
	t.Helper()
	total := 0
	for _, m := range f.movements(t, repository.MovementFilter{ProductID: productID, WarehouseID: warehouseID}) {
		total += m.Delta()
	}
	return total
}

func qty(n int) *int { return &n }
