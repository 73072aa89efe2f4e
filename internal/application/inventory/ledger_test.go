package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

func TestAdjust_PrimeraEntradaCreaRegistro(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Paracetamol")

	_, err := f.ledger.GetQuantity(f.ctx, p, f.warehouseID)
	require.ErrorIs(t, err, domain.ErrInventoryNotFound)

	res, err := f.adjust(inventory.AdjustInput{ProductID: p, WarehouseID: f.warehouseID, Delta: 10, Reason: "Compra"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.PreviousQuantity)
	assert.Equal(t, 10, res.NewQuantity)
	assert.Equal(t, entity.MovementTypeEntrada, res.Movement.Type)
	assert.Equal(t, 10, res.Movement.Quantity)
	assert.Equal(t, f.actorID, res.Movement.UserID)

	q, err := f.ledger.GetQuantity(f.ctx, p, f.warehouseID)
	require.NoError(t, err)
	assert.Equal(t, 10, q)
	assert.Equal(t, 1, f.metrics.byType[entity.MovementTypeEntrada])
}

func TestAdjust_SalidaYAjuste(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Ibuprofeno")
	_, err := f.adjust(inventory.AdjustInput{ProductID: p, WarehouseID: f.warehouseID, Delta: 10})
	require.NoError(t, err)

	res, err := f.adjust(inventory.AdjustInput{ProductID: p, WarehouseID: f.warehouseID, Delta: -4})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeSalida, res.Movement.Type)
	assert.Equal(t, 4, res.Movement.Quantity)
	assert.Equal(t, 6, res.NewQuantity)

	res, err = f.adjust(inventory.AdjustInput{ProductID: p, WarehouseID: f.warehouseID, Delta: 2, Override: entity.MovementTypeAjuste})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeAjuste, res.Movement.Type)
	assert.Equal(t, 6, res.Movement.PreviousQuantity)
	assert.Equal(t, 8, res.Movement.NewQuantity)
}

func TestAdjust_NoPermiteNegativo(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Amoxicilina")
	_, err := f.adjust(inventory.AdjustInput{ProductID: p, WarehouseID: f.warehouseID, Delta: 3})
	require.NoError(t, err)

	_, err = f.adjust(inventory.AdjustInput{ProductID: p, WarehouseID: f.warehouseID, Delta: -5})
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 3, stockErr.Available)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, "Amoxicilina", stockErr.ProductName)
	assert.Contains(t, stockErr.Error(), "Disponible: 3, Solicitado: 5")

	q, err := f.ledger.GetQuantity(f.ctx, p, f.warehouseID)
	require.NoError(t, err)
	assert.Equal(t, 3, q)
	list, err := f.ledger.ListMovements(f.ctx, repository.MovementFilter{ProductID: p})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1, "el rechazo no escribe movimiento")
}

func TestAdjust_SalidaSinRegistro(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Loratadina")

	_, err := f.adjust(inventory.AdjustInput{ProductID: p, WarehouseID: f.warehouseID, Delta: -1})
	require.ErrorIs(t, err, domain.ErrInventoryNotFound)

	_, err = f.adjust(inventory.AdjustInput{ProductID: p, WarehouseID: f.warehouseID, Delta: 5, MustExist: true})
	require.ErrorIs(t, err, domain.ErrInventoryNotFound, "MustExist impide el alta perezosa")
}

func TestAdjust_Validaciones(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Omeprazol")

	cases := map[string]inventory.AdjustInput{
		"delta cero":        {ProductID: p, WarehouseID: f.warehouseID, Delta: 0},
		"ajuste cero":       {ProductID: p, WarehouseID: f.warehouseID, Delta: 0, Override: entity.MovementTypeAjuste},
		"override inválido": {ProductID: p, WarehouseID: f.warehouseID, Delta: 1, Override: entity.MovementTypeSalida},
		"sin producto":      {WarehouseID: f.warehouseID, Delta: 1},
		"sin bodega":        {ProductID: p, Delta: 1},
	}
	for name, in := range cases {
		_, err := f.adjust(in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, name)
	}

	var res inventory.AdjustResult
	err := f.store.Run(f.ctx, func(repos repository.TxRepos) error {
		var err error
		res, err = f.ledger.Adjust(f.ctx, repos, inventory.AdjustInput{ProductID: p, WarehouseID: f.warehouseID, Delta: 1})
		return err
	})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Nil(t, res.Movement)
}

func TestListMovements_FiltrosYOrden(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Suero oral")
	for _, delta := range []int{10, -2, -3, 4} {
		_, err := f.adjust(inventory.AdjustInput{ProductID: p, WarehouseID: f.warehouseID, Delta: delta})
		require.NoError(t, err)
	}

	all, err := f.ledger.ListMovements(f.ctx, repository.MovementFilter{ProductID: p})
	require.NoError(t, err)
	require.Len(t, all.Items, 4)
	assert.Equal(t, 9, all.Items[0].NewQuantity, "el más reciente primero")

	salidas, err := f.ledger.ListMovements(f.ctx, repository.MovementFilter{ProductID: p, Type: entity.MovementTypeSalida})
	require.NoError(t, err)
	assert.Len(t, salidas.Items, 2)

	got, err := f.ledger.GetMovement(f.ctx, all.Items[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Salida", got.MovementType)

	_, err = f.ledger.ListMovements(f.ctx, repository.MovementFilter{Type: "Robo"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetMovement_Inexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.ledger.GetMovement(f.ctx, "00000000-0000-0000-0000-000000000000")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetQuantity_Validaciones(t *testing.T) {
	f := newFixture(t)
	_, err := f.ledger.GetQuantity(f.ctx, "", f.warehouseID)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.ledger.GetQuantity(f.ctx, "x", "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
