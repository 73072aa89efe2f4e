package memory

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/application/sales"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

func newProduct(name string) *entity.Product {
	now := time.Now()
	return &entity.Product{ID: uuid.NewString(), Name: name, Price: decimal.NewFromInt(5), Active: true, CreatedAt: now, UpdatedAt: now}
}

func TestRun_RollbackAnteError(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := newProduct("Paracetamol")
	boom := errors.New("boom")

	err := s.Run(ctx, func(repos repository.TxRepos) error {
		require.NoError(t, repos.Products.Create(ctx, p))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Repos().Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "la escritura dentro de la transacción fallida no debe persistir")
}

func TestRun_RollbackAntePanic(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := newProduct("Loratadina")

	assert.PanicsWithValue(t, "boom", func() {
		_ = s.Run(ctx, func(repos repository.TxRepos) error {
			require.NoError(t, repos.Products.Create(ctx, p))
			panic("boom")
		})
	})

	// El mutex quedó liberado y el estado restaurado
	got, err := s.Repos().Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	require.NoError(t, s.Run(ctx, func(repos repository.TxRepos) error {
		return repos.Products.Create(ctx, newProduct("Cetirizina"))
	}))
}

func TestRun_Commit(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := newProduct("Ibuprofeno")

	require.NoError(t, s.Run(ctx, func(repos repository.TxRepos) error {
		return repos.Products.Create(ctx, p)
	}))
	got, err := s.Repos().Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ibuprofeno", got.Name)
}

func TestRun_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := New().Run(ctx, func(repository.TxRepos) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestUsers_UsernameSinDistinguirMayusculas(t *testing.T) {
	ctx := context.Background()
	users := New().Users()
	u := &entity.User{ID: uuid.NewString(), Username: "Admin", Role: entity.RoleAdmin, Active: true}
	require.NoError(t, users.Create(ctx, u))

	got, err := users.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)

	err = users.Create(ctx, &entity.User{ID: uuid.NewString(), Username: "ADMIN"})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	missing, err := users.GetByUsername(ctx, "nadie")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPage(t *testing.T) {
	list := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{1, 2, 3, 4, 5}, page(list, 0, 0))
	assert.Equal(t, []int{3, 4}, page(list, 2, 2))
	assert.Equal(t, []int{5}, page(list, 10, 4))
	assert.Nil(t, page(list, 1, 5))
}

// El registro de inventario no tiene borrado en los puertos; la prueba lo elimina del estado.
func TestCancelSale_OmiteLineaSinInventario(t *testing.T) {
	ctx := context.Background()
	s := New()
	repos := s.Repos()
	actor := uuid.NewString()

	now := time.Now()
	wh := &entity.Warehouse{ID: uuid.NewString(), Name: "Bodega Principal", IsPrimary: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repos.Warehouses.Create(ctx, wh))
	a, b := newProduct("Paracetamol"), newProduct("Ibuprofeno")
	require.NoError(t, repos.Products.Create(ctx, a))
	require.NoError(t, repos.Products.Create(ctx, b))

	ledger := inventory.NewLedger(repos.Inventory, repos.Movements, nil)
	for _, id := range []string{a.ID, b.ID} {
		require.NoError(t, s.Run(ctx, func(tx repository.TxRepos) error {
			_, err := ledger.Adjust(ctx, tx, inventory.AdjustInput{ProductID: id, WarehouseID: wh.ID, Delta: 10, ActorID: actor})
			return err
		}))
	}

	var logs bytes.Buffer
	uc := sales.NewSaleUseCase(
		s,
		sales.NewPriceCalculator(repos.Products, decimal.RequireFromString("0.16")),
		ledger,
		inventory.NewWarehouseResolver(repos.Warehouses, ""),
		repos.Sales,
		repos.Clients,
		nil,
		zerolog.New(&logs),
	)
	one, two := 2, 3
	sale, err := uc.CreateSale(ctx, actor, dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentCash,
		Items:         []dto.SaleItemRequest{{ProductID: a.ID, Quantity: &one}, {ProductID: b.ID, Quantity: &two}},
	})
	require.NoError(t, err)

	s.mu.Lock()
	delete(s.data.inventory, invKey{productID: b.ID, warehouseID: wh.ID})
	s.mu.Unlock()

	out, err := uc.CancelSale(ctx, sale.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, 1, out.RestoredLines)
	assert.Equal(t, 1, out.SkippedLines)
	assert.Equal(t, string(entity.SaleStatusCancelled), out.Status)

	qty, err := ledger.GetQuantity(ctx, a.ID, wh.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, qty)

	assert.Contains(t, logs.String(), `"level":"warn"`)
	assert.Contains(t, logs.String(), b.ID)
}
