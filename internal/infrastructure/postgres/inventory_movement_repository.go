package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

const movementColumns = `id, product_id, warehouse_id, movement_type, quantity, previous_quantity, new_quantity,
	reference_id, reference_type, reason, user_id, movement_date`

// InventoryMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create persiste un movimiento de inventario.
func (r *InventoryMovementRepo) Create(ctx context.Context, movement *entity.InventoryMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	var refID, refType *string
	if movement.Reference != nil {
		refID = nullString(movement.Reference.ID)
		refType = nullString(movement.Reference.Type)
	}
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.ProductID, movement.WarehouseID, string(movement.Type),
		movement.Quantity, movement.PreviousQuantity, movement.NewQuantity,
		refID, refType, movement.Reason, movement.UserID, movement.MovementDate,
	)
	if err != nil {
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *InventoryMovementRepo) GetByID(ctx context.Context, id string) (*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// List lista movimientos con filtros opcionales, más recientes primero (seq desempata).
func (r *InventoryMovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	qb := psql.Select(movementColumns).From("inventory_movements")
	if filter.ProductID != "" {
		qb = qb.Where(squirrel.Eq{"product_id": filter.ProductID})
	}
	if filter.WarehouseID != "" {
		qb = qb.Where(squirrel.Eq{"warehouse_id": filter.WarehouseID})
	}
	if filter.Type != "" {
		qb = qb.Where(squirrel.Eq{"movement_type": string(filter.Type)})
	}
	if filter.ReferenceID != "" {
		qb = qb.Where(squirrel.Eq{"reference_id": filter.ReferenceID})
	}
	if filter.From != nil {
		qb = qb.Where(squirrel.GtOrEq{"movement_date": *filter.From})
	}
	if filter.To != nil {
		qb = qb.Where(squirrel.LtOrEq{"movement_date": *filter.To})
	}
	qb = paginate(qb.OrderBy("movement_date DESC", "seq DESC"), filter.Limit, filter.Offset)

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list movements: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.InventoryMovement, error) {
	var (
		m       entity.InventoryMovement
		mType   string
		refID   *string
		refType *string
	)
	err := row.Scan(
		&m.ID, &m.ProductID, &m.WarehouseID, &mType, &m.Quantity, &m.PreviousQuantity, &m.NewQuantity,
		&refID, &refType, &m.Reason, &m.UserID, &m.MovementDate,
	)
	if err != nil {
		return nil, err
	}
	m.Type = entity.MovementType(mType)
	if refID != nil {
		m.Reference = &entity.MovementReference{ID: *refID, Type: derefString(refType)}
	}
	return &m, nil
}
