package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

const clientColumns = `id, first_name, last_name, email, phone, address, identification_type, identification_number, created_at, updated_at`

// ClientRepo implementación de ClientRepository (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// Create persiste un nuevo cliente. ErrDuplicate si el número de identificación ya existe.
func (r *ClientRepo) Create(ctx context.Context, client *entity.Client) error {
	query := `
		INSERT INTO clients (` + clientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		client.ID, client.FirstName, client.LastName, client.Email, client.Phone, client.Address,
		identificationType(client), nullString(client.IdentificationNumber),
		client.CreatedAt, client.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	c, err := scanClient(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// GetByIdentification obtiene un cliente por número de identificación.
func (r *ClientRepo) GetByIdentification(ctx context.Context, number string) (*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE identification_number = $1`
	c, err := scanClient(r.q.QueryRow(ctx, query, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client by identification: %w", err)
	}
	return c, nil
}

// Update actualiza los datos de contacto e identificación.
func (r *ClientRepo) Update(ctx context.Context, client *entity.Client) error {
	query := `
		UPDATE clients SET first_name = $2, last_name = $3, email = $4, phone = $5, address = $6,
			identification_type = $7, identification_number = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		client.ID, client.FirstName, client.LastName, client.Email, client.Phone, client.Address,
		identificationType(client), nullString(client.IdentificationNumber), client.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista clientes ordenados por apellido y nombre.
func (r *ClientRepo) List(ctx context.Context, filter repository.ClientFilter) ([]*entity.Client, error) {
	qb := psql.Select(clientColumns).From("clients")
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		qb = qb.Where(squirrel.Or{
			squirrel.ILike{"first_name": pattern},
			squirrel.ILike{"last_name": pattern},
			squirrel.ILike{"email": pattern},
			squirrel.ILike{"identification_number": pattern},
		})
	}
	qb = paginate(qb.OrderBy("last_name ASC", "first_name ASC", "id ASC"), filter.Limit, filter.Offset)

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list clients: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	var list []*entity.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func scanClient(row pgx.Row) (*entity.Client, error) {
	var (
		c      entity.Client
		number *string
	)
	if err := row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Address,
		&c.IdentificationType, &number, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.IdentificationNumber = derefString(number)
	return &c, nil
}

func identificationType(c *entity.Client) string {
	if c.IdentificationType == "" {
		return entity.DefaultIdentificationType
	}
	return c.IdentificationType
}
