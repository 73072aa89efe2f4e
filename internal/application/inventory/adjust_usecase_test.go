package inventory_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

type AdjustUseCaseTestSuite struct {
	suite.Suite
	f         *fixture
	uc        *inventory.AdjustUseCase
	productID string
}

func (s *AdjustUseCaseTestSuite) SetupTest() {
	s.f = newFixture(s.T())
	s.uc = inventory.NewAdjustUseCase(s.f.store, s.f.ledger, s.f.repos.Inventory, s.f.repos.Products, s.f.repos.Warehouses)
	s.productID = s.f.addProduct(s.T(), "Paracetamol")
}

func TestAdjustUseCaseTestSuite(t *testing.T) {
	suite.Run(t, new(AdjustUseCaseTestSuite))
}

func (s *AdjustUseCaseTestSuite) set(quantity int, minStock, maxStock *int) (*dto.InventoryAdjustmentResponse, error) {
	return s.uc.SetLevel(s.f.ctx, s.f.actorID, dto.UpsertInventoryRequest{
		ProductID:   s.productID,
		WarehouseID: s.f.warehouseID,
		Quantity:    intPtr(quantity),
		MinStock:    minStock,
		MaxStock:    maxStock,
	})
}

func (s *AdjustUseCaseTestSuite) TestSetLevel_CreacionInicialEsEntrada() {
	t := s.T()
	out, err := s.set(20, intPtr(5), intPtr(40))
	require.NoError(t, err)
	assert.Equal(t, 20, out.Inventory.Quantity)
	assert.Equal(t, 5, out.Inventory.MinStock)
	require.NotNil(t, out.Inventory.MaxStock)
	assert.Equal(t, 40, *out.Inventory.MaxStock)
	assert.Equal(t, "Paracetamol", out.Inventory.ProductName)
	require.NotNil(t, out.Movement)
	assert.Equal(t, "Entrada", out.Movement.MovementType)
	assert.Equal(t, "Creación inicial de inventario", out.Movement.Reason)
}

func (s *AdjustUseCaseTestSuite) TestSetLevel_CambioEsAjuste() {
	t := s.T()
	_, err := s.set(20, nil, nil)
	require.NoError(t, err)

	out, err := s.set(12, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, out.Movement)
	assert.Equal(t, "Ajuste", out.Movement.MovementType)
	assert.Equal(t, 8, out.Movement.Quantity)
	assert.Equal(t, 20, out.Movement.PreviousQuantity)
	assert.Equal(t, 12, out.Movement.NewQuantity)
	assert.Equal(t, "Ajuste manual de inventario", out.Movement.Reason)
}

func (s *AdjustUseCaseTestSuite) TestSetLevel_MismaCantidadSoloLimites() {
	t := s.T()
	_, err := s.set(20, intPtr(2), nil)
	require.NoError(t, err)

	out, err := s.set(20, intPtr(25), nil)
	require.NoError(t, err)
	assert.Nil(t, out.Movement)
	assert.Equal(t, 25, out.Inventory.MinStock)
	assert.True(t, out.Inventory.LowStock)

	list, err := s.f.ledger.ListMovements(s.f.ctx, repository.MovementFilter{ProductID: s.productID})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}

func (s *AdjustUseCaseTestSuite) TestSetLevel_CeroSinRegistroNoCreaMovimiento() {
	t := s.T()
	out, err := s.set(0, intPtr(3), nil)
	require.NoError(t, err)
	assert.Nil(t, out.Movement)
	assert.Equal(t, 0, out.Inventory.Quantity)

	q, err := s.uc.GetQuantity(s.f.ctx, s.productID, s.f.warehouseID)
	require.NoError(t, err)
	assert.Equal(t, 0, q.Quantity)
}

func (s *AdjustUseCaseTestSuite) TestSetLevel_Validaciones() {
	t := s.T()
	_, err := s.set(-1, nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = s.set(5, intPtr(10), intPtr(3))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = s.uc.SetLevel(s.f.ctx, "", dto.UpsertInventoryRequest{ProductID: s.productID, WarehouseID: s.f.warehouseID, Quantity: intPtr(1)})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = s.uc.SetLevel(s.f.ctx, s.f.actorID, dto.UpsertInventoryRequest{ProductID: uuid.NewString(), WarehouseID: s.f.warehouseID, Quantity: intPtr(1)})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = s.uc.SetLevel(s.f.ctx, s.f.actorID, dto.UpsertInventoryRequest{ProductID: s.productID, WarehouseID: uuid.NewString(), Quantity: intPtr(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func (s *AdjustUseCaseTestSuite) TestList_LowStock() {
	t := s.T()
	other := s.f.addProduct(t, "Ibuprofeno")
	_, err := s.set(3, intPtr(5), nil)
	require.NoError(t, err)
	_, err = s.uc.SetLevel(s.f.ctx, s.f.actorID, dto.UpsertInventoryRequest{
		ProductID: other, WarehouseID: s.f.warehouseID, Quantity: intPtr(50), MinStock: intPtr(5),
	})
	require.NoError(t, err)

	low, err := s.uc.List(s.f.ctx, repository.InventoryFilter{LowStock: true})
	require.NoError(t, err)
	require.Len(t, low.Items, 1)
	assert.Equal(t, s.productID, low.Items[0].ProductID)

	all, err := s.uc.List(s.f.ctx, repository.InventoryFilter{WarehouseID: s.f.warehouseID})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
}
