package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/memory"
)

type countingMetrics struct {
	byType map[entity.MovementType]int
}

func (m *countingMetrics) MovementRecorded(t entity.MovementType) {
	if m.byType == nil {
		m.byType = map[entity.MovementType]int{}
	}
	m.byType[t]++
}

type fixture struct {
	ctx         context.Context
	store       *memory.Store
	repos       repository.TxRepos
	ledger      *inventory.Ledger
	metrics     *countingMetrics
	warehouseID string
	actorID     string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	f := &fixture{
		ctx:     context.Background(),
		store:   store,
		repos:   store.Repos(),
		metrics: &countingMetrics{},
		actorID: uuid.NewString(),
	}
	f.ledger = inventory.NewLedger(f.repos.Inventory, f.repos.Movements, f.metrics)
	f.warehouseID = f.addWarehouse(t, "Bodega Principal", true)
	return f
}

func (f *fixture) addWarehouse(t *testing.T, name string, primary bool) string {
	t.Helper()
	now := time.Now()
	w := &entity.Warehouse{ID: uuid.NewString(), Name: name, IsPrimary: primary, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.repos.Warehouses.Create(f.ctx, w))
	return w.ID
}

func (f *fixture) addProduct(t *testing.T, name string) string {
	t.Helper()
	now := time.Now()
	p := &entity.Product{ID: uuid.NewString(), Name: name, Price: decimal.NewFromInt(10), Active: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.repos.Products.Create(f.ctx, p))
	return p.ID
}

// adjust ejecuta Ledger.Adjust en su propia transacción.
func (f *fixture) adjust(in inventory.AdjustInput) (inventory.AdjustResult, error) {
	if in.ActorID == "" {
		in.ActorID = f.actorID
	}
	var res inventory.AdjustResult
	err := f.store.Run(f.ctx, func(repos repository.TxRepos) error {
		var err error
		res, err = f.ledger.Adjust(f.ctx, repos, in)
		return err
	})
	return res, err
}

func (f *fixture) setLimits(t *testing.T, productID, warehouseID string, minStock int, maxStock *int) {
	t.Helper()
	require.NoError(t, f.repos.Inventory.UpdateLimits(f.ctx, productID, warehouseID, minStock, maxStock, ""))
}

func intPtr(n int) *int { return &n }
