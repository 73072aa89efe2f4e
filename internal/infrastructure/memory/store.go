// Package memory implementa los puertos de persistencia en memoria, con transacciones
// serializadas y rollback por snapshot. Se usa en modo demo (STORE_DRIVER=memory) y en pruebas.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

type invKey struct {
	productID   string
	warehouseID string
}

type state struct {
	products   map[string]entity.Product
	warehouses map[string]entity.Warehouse
	clients    map[string]entity.Client
	users      map[string]entity.User
	inventory  map[invKey]entity.InventoryRecord
	movements  []entity.InventoryMovement // orden de inserción
	sales      map[string]entity.Sale
	lineItems  map[string][]entity.SaleLineItem
}

func newState() *state {
	return &state{
		products:   map[string]entity.Product{},
		warehouses: map[string]entity.Warehouse{},
		clients:    map[string]entity.Client{},
		users:      map[string]entity.User{},
		inventory:  map[invKey]entity.InventoryRecord{},
		sales:      map[string]entity.Sale{},
		lineItems:  map[string][]entity.SaleLineItem{},
	}
}

// clone copia superficial de cada colección; los valores se guardan por valor.
func (s *state) clone() *state {
	items := make(map[string][]entity.SaleLineItem, len(s.lineItems))
	for k, v := range s.lineItems {
		items[k] = slices.Clone(v)
	}
	return &state{
		products:   maps.Clone(s.products),
		warehouses: maps.Clone(s.warehouses),
		clients:    maps.Clone(s.clients),
		users:      maps.Clone(s.users),
		inventory:  maps.Clone(s.inventory),
		movements:  slices.Clone(s.movements),
		sales:      maps.Clone(s.sales),
		lineItems:  items,
	}
}

// Store almacenamiento en memoria. Una sola transacción a la vez: Run toma el mutex
// durante todo el callback, lo que equivale a bloquear todas las filas.
type Store struct {
	mu   sync.Mutex
	data *state
}

// New crea un store vacío.
func New() *Store {
	return &Store{data: newState()}
}

// Run ejecuta fn con repos atados a la transacción. Si fn falla, el estado vuelve al snapshot inicial.
func (s *Store) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	defer func() {
		if r := recover(); r != nil {
			s.data = snapshot
			panic(r)
		}
	}()
	if err := fn(s.repos(true)); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

// Repos devuelve repositorios fuera de transacción (cada llamada toma el mutex).
func (s *Store) Repos() repository.TxRepos {
	return s.repos(false)
}

// Users repositorio de usuarios fuera de transacción.
func (s *Store) Users() repository.UserRepository {
	return &userRepo{view{s: s}}
}

func (s *Store) repos(inTx bool) repository.TxRepos {
	v := view{s: s, inTx: inTx}
	return repository.TxRepos{
		Inventory:  &inventoryRepo{v},
		Movements:  &movementRepo{v},
		Products:   &productRepo{v},
		Sales:      &saleRepo{v},
		Clients:    &clientRepo{v},
		Warehouses: &warehouseRepo{v},
	}
}

// view acceso al estado: dentro de Run el mutex ya está tomado.
type view struct {
	s    *Store
	inTx bool
}

func (v view) read(fn func(st *state)) {
	if !v.inTx {
		v.s.mu.Lock()
		defer v.s.mu.Unlock()
	}
	fn(v.s.data)
}

func (v view) write(fn func(st *state) error) error {
	if !v.inTx {
		v.s.mu.Lock()
		defer v.s.mu.Unlock()
	}
	return fn(v.s.data)
}

func page[T any](list []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(list) {
			return nil
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
