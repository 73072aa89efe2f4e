package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

const inventorySelect = `
		SELECT i.product_id, i.warehouse_id, i.quantity, i.min_stock, i.max_stock, i.location, i.updated_at,
			p.name, w.name
		FROM inventory i
		JOIN products p ON p.id = i.product_id
		JOIN warehouses w ON w.id = i.warehouse_id`

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador de inventario. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

// Get obtiene el registro de un producto en una bodega sin bloquear; nil si no existe.
func (r *InventoryRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.InventoryRecord, error) {
	query := inventorySelect + ` WHERE i.product_id = $1 AND i.warehouse_id = $2`
	rec, err := scanInventory(r.q.QueryRow(ctx, query, productID, warehouseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return rec, nil
}

// GetForUpdate obtiene el registro y bloquea la fila de inventory (SELECT FOR UPDATE OF i).
func (r *InventoryRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.InventoryRecord, error) {
	query := inventorySelect + ` WHERE i.product_id = $1 AND i.warehouse_id = $2 FOR UPDATE OF i`
	rec, err := scanInventory(r.q.QueryRow(ctx, query, productID, warehouseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory for update: %w", err)
	}
	return rec, nil
}

// GetMany obtiene los registros de varios productos en una bodega, indexados por product_id.
func (r *InventoryRepo) GetMany(ctx context.Context, warehouseID string, productIDs []string) (map[string]*entity.InventoryRecord, error) {
	out := make(map[string]*entity.InventoryRecord, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	query := inventorySelect + ` WHERE i.warehouse_id = $1 AND i.product_id = ANY($2::uuid[])`
	rows, err := r.q.Query(ctx, query, warehouseID, productIDs)
	if err != nil {
		return nil, fmt.Errorf("get inventory many: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		rec, err := scanInventory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		out[rec.ProductID] = rec
	}
	return out, rows.Err()
}

// CreateIfAbsent inserta el registro; false si ya existía (ON CONFLICT DO NOTHING).
func (r *InventoryRepo) CreateIfAbsent(ctx context.Context, rec *entity.InventoryRecord) (bool, error) {
	query := `
		INSERT INTO inventory (product_id, warehouse_id, quantity, min_stock, max_stock, location, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (product_id, warehouse_id) DO NOTHING`
	tag, err := r.q.Exec(ctx, query,
		rec.ProductID, rec.WarehouseID, rec.Quantity, rec.MinStock, rec.MaxStock, rec.Location, rec.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, fmt.Errorf("producto o bodega inexistente: %w", domain.ErrNotFound)
		}
		return false, fmt.Errorf("create inventory: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateQuantity escribe la cantidad. Solo el libro de inventario debe llamarlo.
func (r *InventoryRepo) UpdateQuantity(ctx context.Context, productID, warehouseID string, quantity int) error {
	query := `
		UPDATE inventory SET quantity = $3, updated_at = $4
		WHERE product_id = $1 AND warehouse_id = $2`
	tag, err := r.q.Exec(ctx, query, productID, warehouseID, quantity, time.Now())
	if err != nil {
		return fmt.Errorf("update inventory quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.InventoryNotFoundError{ProductID: productID, WarehouseID: warehouseID}
	}
	return nil
}

// UpdateLimits actualiza stock mínimo, máximo y ubicación.
func (r *InventoryRepo) UpdateLimits(ctx context.Context, productID, warehouseID string, minStock int, maxStock *int, location string) error {
	query := `
		UPDATE inventory SET min_stock = $3, max_stock = $4, location = $5, updated_at = $6
		WHERE product_id = $1 AND warehouse_id = $2`
	tag, err := r.q.Exec(ctx, query, productID, warehouseID, minStock, maxStock, location, time.Now())
	if err != nil {
		return fmt.Errorf("update inventory limits: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.InventoryNotFoundError{ProductID: productID, WarehouseID: warehouseID}
	}
	return nil
}

// List lista existencias con filtros opcionales.
func (r *InventoryRepo) List(ctx context.Context, filter repository.InventoryFilter) ([]*entity.InventoryRecord, error) {
	qb := psql.Select(
		"i.product_id", "i.warehouse_id", "i.quantity", "i.min_stock", "i.max_stock", "i.location", "i.updated_at",
		"p.name", "w.name",
	).From("inventory i").
		Join("products p ON p.id = i.product_id").
		Join("warehouses w ON w.id = i.warehouse_id")
	if filter.ProductID != "" {
		qb = qb.Where(squirrel.Eq{"i.product_id": filter.ProductID})
	}
	if filter.WarehouseID != "" {
		qb = qb.Where(squirrel.Eq{"i.warehouse_id": filter.WarehouseID})
	}
	if filter.LowStock {
		qb = qb.Where("i.quantity <= i.min_stock AND i.min_stock > 0")
	}
	qb = paginate(qb.OrderBy("p.name ASC", "w.name ASC"), filter.Limit, filter.Offset)

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list inventory: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryRecord
	for rows.Next() {
		rec, err := scanInventory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

func scanInventory(row pgx.Row) (*entity.InventoryRecord, error) {
	var rec entity.InventoryRecord
	err := row.Scan(
		&rec.ProductID, &rec.WarehouseID, &rec.Quantity, &rec.MinStock, &rec.MaxStock, &rec.Location,
		&rec.UpdatedAt, &rec.ProductName, &rec.WarehouseName,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
