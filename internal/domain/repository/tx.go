package repository

import "context"

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Inventory  InventoryRepository
	Movements  InventoryMovementRepository
	Products   ProductRepository
	Sales      SaleRepository
	Clients    ClientRepository
	Warehouses WarehouseRepository
}

// TxRunner ejecuta fn dentro de una unidad de trabajo: Commit si fn devuelve nil,
// Rollback en cualquier otro camino de salida.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
