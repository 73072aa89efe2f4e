package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository           = (*productRepo)(nil)
	_ repository.WarehouseRepository         = (*warehouseRepo)(nil)
	_ repository.ClientRepository            = (*clientRepo)(nil)
	_ repository.UserRepository              = (*userRepo)(nil)
	_ repository.InventoryRepository         = (*inventoryRepo)(nil)
	_ repository.InventoryMovementRepository = (*movementRepo)(nil)
	_ repository.SaleRepository              = (*saleRepo)(nil)
)

// --- productos ---

type productRepo struct{ view }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	return r.write(func(st *state) error {
		if _, ok := st.products[p.ID]; ok {
			return domain.ErrDuplicate
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	r.read(func(st *state) {
		if p, ok := st.products[id]; ok {
			out = &p
		}
	})
	return out, nil
}

func (r *productRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Product, error) {
	out := make(map[string]*entity.Product, len(ids))
	r.read(func(st *state) {
		for _, id := range ids {
			if p, ok := st.products[id]; ok {
				out[id] = &p
			}
		}
	})
	return out, nil
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	return r.write(func(st *state) error {
		if _, ok := st.products[p.ID]; !ok {
			return domain.ErrNotFound
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *productRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var list []*entity.Product
	search := strings.ToLower(f.Search)
	r.read(func(st *state) {
		for _, p := range st.products {
			if f.OnlyActive && !p.Active {
				continue
			}
			if f.Category != "" && p.Category != f.Category {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(p.Name), search) &&
				!strings.Contains(strings.ToLower(p.Description), search) {
				continue
			}
			list = append(list, &p)
		}
	})
	slices.SortFunc(list, func(a, b *entity.Product) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return page(list, f.Limit, f.Offset), nil
}

// --- bodegas ---

type warehouseRepo struct{ view }

func (r *warehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	return r.write(func(st *state) error {
		if _, ok := st.warehouses[w.ID]; ok {
			return domain.ErrDuplicate
		}
		st.warehouses[w.ID] = *w
		return nil
	})
}

func (r *warehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	r.read(func(st *state) {
		if w, ok := st.warehouses[id]; ok {
			out = &w
		}
	})
	return out, nil
}

func (r *warehouseRepo) GetPrimary(_ context.Context) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	r.read(func(st *state) {
		for _, w := range st.warehouses {
			if !w.IsPrimary {
				continue
			}
			if out == nil || w.CreatedAt.Before(out.CreatedAt) {
				out = &w
			}
		}
	})
	return out, nil
}

func (r *warehouseRepo) Update(_ context.Context, w *entity.Warehouse) error {
	return r.write(func(st *state) error {
		if _, ok := st.warehouses[w.ID]; !ok {
			return domain.ErrNotFound
		}
		st.warehouses[w.ID] = *w
		return nil
	})
}

func (r *warehouseRepo) List(_ context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	var list []*entity.Warehouse
	r.read(func(st *state) {
		for _, w := range st.warehouses {
			list = append(list, &w)
		}
	})
	slices.SortFunc(list, func(a, b *entity.Warehouse) int {
		if a.IsPrimary != b.IsPrimary {
			if a.IsPrimary {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return page(list, limit, offset), nil
}

// --- clientes ---

type clientRepo struct{ view }

func (r *clientRepo) Create(_ context.Context, c *entity.Client) error {
	return r.write(func(st *state) error {
		if _, ok := st.clients[c.ID]; ok {
			return domain.ErrDuplicate
		}
		if identificationTaken(st, c) {
			return domain.ErrDuplicate
		}
		st.clients[c.ID] = *c
		return nil
	})
}

func (r *clientRepo) GetByIdentification(_ context.Context, number string) (*entity.Client, error) {
	var out *entity.Client
	r.read(func(st *state) {
		for _, c := range st.clients {
			if number != "" && c.IdentificationNumber == number {
				out = &c
				return
			}
		}
	})
	return out, nil
}

func (r *clientRepo) Update(_ context.Context, c *entity.Client) error {
	return r.write(func(st *state) error {
		if _, ok := st.clients[c.ID]; !ok {
			return domain.ErrNotFound
		}
		if identificationTaken(st, c) {
			return domain.ErrDuplicate
		}
		st.clients[c.ID] = *c
		return nil
	})
}

func (r *clientRepo) List(_ context.Context, f repository.ClientFilter) ([]*entity.Client, error) {
	var list []*entity.Client
	search := strings.ToLower(f.Search)
	r.read(func(st *state) {
		for _, c := range st.clients {
			if search != "" && !slices.ContainsFunc(
				[]string{c.FirstName, c.LastName, c.Email, c.IdentificationNumber},
				func(v string) bool { return strings.Contains(strings.ToLower(v), search) },
			) {
				continue
			}
			list = append(list, &c)
		}
	})
	slices.SortFunc(list, func(a, b *entity.Client) int {
		return cmp.Or(cmp.Compare(a.LastName, b.LastName), cmp.Compare(a.FirstName, b.FirstName), cmp.Compare(a.ID, b.ID))
	})
	return page(list, f.Limit, f.Offset), nil
}

// identificationTaken replica el índice único parcial de PostgreSQL.
func identificationTaken(st *state, c *entity.Client) bool {
	if c.IdentificationNumber == "" {
		return false
	}
	for id, other := range st.clients {
		if id != c.ID && other.IdentificationNumber == c.IdentificationNumber {
			return true
		}
	}
	return false
}

func (r *clientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	var out *entity.Client
	r.read(func(st *state) {
		if c, ok := st.clients[id]; ok {
			out = &c
		}
	})
	return out, nil
}

// --- usuarios ---

type userRepo struct{ view }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	return r.write(func(st *state) error {
		for _, existing := range st.users {
			if strings.EqualFold(existing.Username, u.Username) {
				return domain.ErrUsernameTaken
			}
		}
		st.users[u.ID] = *u
		return nil
	})
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	r.read(func(st *state) {
		if u, ok := st.users[id]; ok {
			out = &u
		}
	})
	return out, nil
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	var out *entity.User
	r.read(func(st *state) {
		for _, u := range st.users {
			if strings.EqualFold(u.Username, username) {
				out = &u
				return
			}
		}
	})
	return out, nil
}

// --- inventario ---

type inventoryRepo struct{ view }

// withNames completa los nombres que en PostgreSQL vienen del JOIN.
func withNames(st *state, rec entity.InventoryRecord) *entity.InventoryRecord {
	rec.ProductName = st.products[rec.ProductID].Name
	rec.WarehouseName = st.warehouses[rec.WarehouseID].Name
	return &rec
}

func (r *inventoryRepo) Get(_ context.Context, productID, warehouseID string) (*entity.InventoryRecord, error) {
	var out *entity.InventoryRecord
	r.read(func(st *state) {
		if rec, ok := st.inventory[invKey{productID, warehouseID}]; ok {
			out = withNames(st, rec)
		}
	})
	return out, nil
}

// GetForUpdate igual que Get: dentro de Run el store completo ya está bloqueado.
func (r *inventoryRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.InventoryRecord, error) {
	return r.Get(ctx, productID, warehouseID)
}

func (r *inventoryRepo) GetMany(_ context.Context, warehouseID string, productIDs []string) (map[string]*entity.InventoryRecord, error) {
	out := make(map[string]*entity.InventoryRecord, len(productIDs))
	r.read(func(st *state) {
		for _, id := range productIDs {
			if rec, ok := st.inventory[invKey{id, warehouseID}]; ok {
				out[id] = withNames(st, rec)
			}
		}
	})
	return out, nil
}

func (r *inventoryRepo) CreateIfAbsent(_ context.Context, rec *entity.InventoryRecord) (bool, error) {
	created := false
	err := r.write(func(st *state) error {
		if _, ok := st.products[rec.ProductID]; !ok {
			return domain.ErrNotFound
		}
		if _, ok := st.warehouses[rec.WarehouseID]; !ok {
			return domain.ErrNotFound
		}
		key := invKey{rec.ProductID, rec.WarehouseID}
		if _, ok := st.inventory[key]; ok {
			return nil
		}
		st.inventory[key] = *rec
		created = true
		return nil
	})
	return created, err
}

func (r *inventoryRepo) UpdateQuantity(_ context.Context, productID, warehouseID string, quantity int) error {
	return r.write(func(st *state) error {
		key := invKey{productID, warehouseID}
		rec, ok := st.inventory[key]
		if !ok {
			return &domain.InventoryNotFoundError{ProductID: productID, WarehouseID: warehouseID}
		}
		if quantity < 0 {
			return domain.NewValidationError("quantity", "no puede ser negativa")
		}
		rec.Quantity = quantity
		rec.UpdatedAt = time.Now()
		st.inventory[key] = rec
		return nil
	})
}

func (r *inventoryRepo) UpdateLimits(_ context.Context, productID, warehouseID string, minStock int, maxStock *int, location string) error {
	return r.write(func(st *state) error {
		key := invKey{productID, warehouseID}
		rec, ok := st.inventory[key]
		if !ok {
			return &domain.InventoryNotFoundError{ProductID: productID, WarehouseID: warehouseID}
		}
		rec.MinStock = minStock
		rec.MaxStock = maxStock
		rec.Location = location
		rec.UpdatedAt = time.Now()
		st.inventory[key] = rec
		return nil
	})
}

func (r *inventoryRepo) List(_ context.Context, f repository.InventoryFilter) ([]*entity.InventoryRecord, error) {
	var list []*entity.InventoryRecord
	r.read(func(st *state) {
		for _, rec := range st.inventory {
			if f.ProductID != "" && rec.ProductID != f.ProductID {
				continue
			}
			if f.WarehouseID != "" && rec.WarehouseID != f.WarehouseID {
				continue
			}
			if f.LowStock && !(rec.MinStock > 0 && rec.Quantity <= rec.MinStock) {
				continue
			}
			list = append(list, withNames(st, rec))
		}
	})
	slices.SortFunc(list, func(a, b *entity.InventoryRecord) int {
		return cmp.Or(cmp.Compare(a.ProductName, b.ProductName), cmp.Compare(a.WarehouseName, b.WarehouseName))
	})
	return page(list, f.Limit, f.Offset), nil
}

// --- movimientos ---

type movementRepo struct{ view }

func (r *movementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	return r.write(func(st *state) error {
		for _, existing := range st.movements {
			if existing.ID == m.ID {
				return domain.ErrDuplicate
			}
		}
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r *movementRepo) GetByID(_ context.Context, id string) (*entity.InventoryMovement, error) {
	var out *entity.InventoryMovement
	r.read(func(st *state) {
		for _, m := range st.movements {
			if m.ID == id {
				out = &m
				return
			}
		}
	})
	return out, nil
}

// List más recientes primero; a igual fecha, el último insertado primero.
func (r *movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	var list []*entity.InventoryMovement
	r.read(func(st *state) {
		for i := len(st.movements) - 1; i >= 0; i-- {
			m := st.movements[i]
			if f.ProductID != "" && m.ProductID != f.ProductID {
				continue
			}
			if f.WarehouseID != "" && m.WarehouseID != f.WarehouseID {
				continue
			}
			if f.Type != "" && m.Type != f.Type {
				continue
			}
			if f.ReferenceID != "" && (m.Reference == nil || m.Reference.ID != f.ReferenceID) {
				continue
			}
			if f.From != nil && m.MovementDate.Before(*f.From) {
				continue
			}
			if f.To != nil && m.MovementDate.After(*f.To) {
				continue
			}
			list = append(list, &m)
		}
	})
	slices.SortStableFunc(list, func(a, b *entity.InventoryMovement) int {
		return b.MovementDate.Compare(a.MovementDate)
	})
	return page(list, f.Limit, f.Offset), nil
}

// --- ventas ---

type saleRepo struct{ view }

func (r *saleRepo) Create(_ context.Context, s *entity.Sale) error {
	return r.write(func(st *state) error {
		if _, ok := st.sales[s.ID]; ok {
			return domain.ErrDuplicate
		}
		stored := *s
		stored.Items = nil
		st.sales[s.ID] = stored
		return nil
	})
}

func (r *saleRepo) CreateLineItems(_ context.Context, items []entity.SaleLineItem) error {
	return r.write(func(st *state) error {
		for _, it := range items {
			if _, ok := st.sales[it.SaleID]; !ok {
				return domain.ErrNotFound
			}
			st.lineItems[it.SaleID] = append(st.lineItems[it.SaleID], it)
		}
		return nil
	})
}

func (r *saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	r.read(func(st *state) {
		if s, ok := st.sales[id]; ok {
			out = &s
		}
	})
	return out, nil
}

func (r *saleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *saleRepo) GetLineItems(_ context.Context, saleID string) ([]entity.SaleLineItem, error) {
	var out []entity.SaleLineItem
	r.read(func(st *state) {
		for _, it := range st.lineItems[saleID] {
			it.ProductName = st.products[it.ProductID].Name
			out = append(out, it)
		}
	})
	return out, nil
}

func (r *saleRepo) MarkCancelled(_ context.Context, id, userID string, at time.Time) error {
	return r.write(func(st *state) error {
		s, ok := st.sales[id]
		if !ok {
			return domain.ErrSaleNotFound
		}
		if s.Status != entity.SaleStatusActive {
			return domain.ErrAlreadyCancelled
		}
		s.Status = entity.SaleStatusCancelled
		s.CancelledAt = &at
		s.CancelledBy = userID
		st.sales[id] = s
		return nil
	})
}

func (r *saleRepo) List(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	var list []*entity.Sale
	r.read(func(st *state) {
		for _, s := range st.sales {
			if f.Status != "" && s.Status != f.Status {
				continue
			}
			if f.ClientID != "" && (s.ClientID == nil || *s.ClientID != f.ClientID) {
				continue
			}
			if f.From != nil && s.SaleDate.Before(*f.From) {
				continue
			}
			if f.To != nil && s.SaleDate.After(*f.To) {
				continue
			}
			list = append(list, &s)
		}
	})
	slices.SortFunc(list, func(a, b *entity.Sale) int {
		return cmp.Or(b.SaleDate.Compare(a.SaleDate), cmp.Compare(b.ID, a.ID))
	})
	return page(list, f.Limit, f.Offset), nil
}
