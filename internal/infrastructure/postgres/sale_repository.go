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

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, client_id, user_id, warehouse_id, subtotal, tax, total, payment_method, notes, status,
	sale_date, cancelled_at, cancelled_by`

// SaleRepo implementación de SaleRepository (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de la venta.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, client_id, user_id, warehouse_id, subtotal, tax, total, payment_method, notes, status, sale_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		sale.ID, sale.ClientID, sale.UserID, sale.WarehouseID,
		sale.Subtotal, sale.Tax, sale.Total, sale.PaymentMethod, sale.Notes,
		string(sale.Status), sale.SaleDate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateLineItems inserta todas las líneas en una sola sentencia, conservando su orden.
func (r *SaleRepo) CreateLineItems(ctx context.Context, items []entity.SaleLineItem) error {
	if len(items) == 0 {
		return nil
	}
	qb := psql.Insert("sale_line_items").
		Columns("id", "sale_id", "product_id", "line_no", "quantity", "unit_price", "total_price")
	for i, it := range items {
		qb = qb.Values(it.ID, it.SaleID, it.ProductID, i+1, it.Quantity, it.UnitPrice, it.TotalPrice)
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return fmt.Errorf("build insert sale line items: %w", err)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert sale line items: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una venta.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// GetForUpdate obtiene la cabecera y bloquea la fila (evita doble anulación concurrente).
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1 FOR UPDATE`
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale for update: %w", err)
	}
	return s, nil
}

// GetLineItems obtiene las líneas de una venta con el nombre actual del producto.
func (r *SaleRepo) GetLineItems(ctx context.Context, saleID string) ([]entity.SaleLineItem, error) {
	query := `
		SELECT li.id, li.sale_id, li.product_id, p.name, li.quantity, li.unit_price, li.total_price
		FROM sale_line_items li
		JOIN products p ON p.id = li.product_id
		WHERE li.sale_id = $1
		ORDER BY li.line_no`
	rows, err := r.q.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("get sale line items: %w", err)
	}
	defer rows.Close()
	var items []entity.SaleLineItem
	for rows.Next() {
		var it entity.SaleLineItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice, &it.TotalPrice); err != nil {
			return nil, fmt.Errorf("scan sale line item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// MarkCancelled pasa la venta a cancelled. Solo afecta ventas activas.
func (r *SaleRepo) MarkCancelled(ctx context.Context, id, userID string, at time.Time) error {
	query := `
		UPDATE sales SET status = $2, cancelled_at = $3, cancelled_by = $4
		WHERE id = $1 AND status = $5`
	tag, err := r.q.Exec(ctx, query, id, string(entity.SaleStatusCancelled), at, userID, string(entity.SaleStatusActive))
	if err != nil {
		return fmt.Errorf("cancel sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyCancelled
	}
	return nil
}

// List lista ventas con filtros opcionales, más recientes primero.
func (r *SaleRepo) List(ctx context.Context, filter repository.SaleFilter) ([]*entity.Sale, error) {
	qb := psql.Select(saleColumns).From("sales")
	if filter.Status != "" {
		qb = qb.Where(squirrel.Eq{"status": string(filter.Status)})
	}
	if filter.ClientID != "" {
		qb = qb.Where(squirrel.Eq{"client_id": filter.ClientID})
	}
	if filter.From != nil {
		qb = qb.Where(squirrel.GtOrEq{"sale_date": *filter.From})
	}
	if filter.To != nil {
		qb = qb.Where(squirrel.LtOrEq{"sale_date": *filter.To})
	}
	qb = paginate(qb.OrderBy("sale_date DESC", "id DESC"), filter.Limit, filter.Offset)

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list sales: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var (
		s           entity.Sale
		status      string
		cancelledBy *string
	)
	err := row.Scan(
		&s.ID, &s.ClientID, &s.UserID, &s.WarehouseID, &s.Subtotal, &s.Tax, &s.Total,
		&s.PaymentMethod, &s.Notes, &status, &s.SaleDate, &s.CancelledAt, &cancelledBy,
	)
	if err != nil {
		return nil, err
	}
	s.Status = entity.SaleStatus(status)
	s.CancelledBy = derefString(cancelledBy)
	return &s, nil
}
