package clientinfra

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/proconsultancy/backend/pkg/ats/client"
	"github.com/proconsultancy/backend/pkg/errx"
)

// PostgresClientRepository implementación de PostgreSQL para ClientRepository
type PostgresClientRepository struct {
	db *sqlx.DB
}

func NewPostgresClientRepository(db *sqlx.DB) client.ClientRepository {
	return &PostgresClientRepository{
		db: db,
	}
}

const clientColumns = `
	id, client_code, name, industry, contact_name, contact_email,
	contact_phone, status, notes,
	created_by, created_at, updated_at, deleted_at`

// FindByCode busca un cliente por código, excluyendo soft-deleted
func (r *PostgresClientRepository) FindByCode(ctx context.Context, code string) (*client.Client, error) {
	query := `SELECT` + clientColumns + `
		FROM clients
		WHERE client_code = $1 AND deleted_at IS NULL`

	var c client.Client
	err := r.db.GetContext(ctx, &c, query, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, client.ErrClientNotFound().WithDetail("client_code", code)
		}
		return nil, errx.Wrap(err, "failed to find client by code", errx.TypeInternal).
			WithDetail("client_code", code)
	}

	return &c, nil
}

// FindAll lista clientes con filtros y total sin paginar
func (r *PostgresClientRepository) FindAll(ctx context.Context, filter client.ClientFilter) ([]client.Client, int, error) {
	conditions := []string{"deleted_at IS NULL"}
	args := []any{}

	addCondition := func(clause string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.Status != "" {
		addCondition("status = $%d", string(filter.Status))
	}
	if filter.Search != "" {
		addCondition("(name ILIKE $%d OR industry ILIKE $%[1]d)", "%"+filter.Search+"%")
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM clients ` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, errx.Wrap(err, "failed to count clients", errx.TypeInternal)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, filter.Offset)

	query := `SELECT` + clientColumns + `
		FROM clients ` + where + `
		ORDER BY name ASC
		LIMIT $` + fmt.Sprint(len(args)-1) + ` OFFSET $` + fmt.Sprint(len(args))

	var clients []client.Client
	if err := r.db.SelectContext(ctx, &clients, query, args...); err != nil {
		return nil, 0, errx.Wrap(err, "failed to list clients", errx.TypeInternal)
	}

	return clients, total, nil
}

// Save inserta o actualiza el cliente
func (r *PostgresClientRepository) Save(ctx context.Context, c *client.Client) error {
	if c.ID == 0 {
		return r.create(ctx, c)
	}
	return r.update(ctx, c)
}

func (r *PostgresClientRepository) create(ctx context.Context, c *client.Client) error {
	query := `
		INSERT INTO clients (
			client_code, name, industry, contact_name, contact_email,
			contact_phone, status, notes,
			created_by, created_at, updated_at, deleted_at
		) VALUES (
			:client_code, :name, :industry, :contact_name, :contact_email,
			:contact_phone, :status, :notes,
			:created_by, :created_at, :updated_at, :deleted_at
		) RETURNING id`

	rows, err := sqlx.NamedQueryContext(ctx, r.db, query, c)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" && pqErr.Constraint == "clients_name_key" {
				return client.ErrClientAlreadyExists().WithDetail("name", c.Name)
			}
		}
		return errx.Wrap(err, "failed to create client", errx.TypeInternal).
			WithDetail("client_code", c.ClientCode)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&c.ID); err != nil {
			return errx.Wrap(err, "failed to scan client id", errx.TypeInternal)
		}
	}

	return nil
}

func (r *PostgresClientRepository) update(ctx context.Context, c *client.Client) error {
	query := `
		UPDATE clients SET
			name = :name,
			industry = :industry,
			contact_name = :contact_name,
			contact_email = :contact_email,
			contact_phone = :contact_phone,
			status = :status,
			notes = :notes,
			updated_at = :updated_at,
			deleted_at = :deleted_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, c)
	if err != nil {
		return errx.Wrap(err, "failed to update client", errx.TypeInternal).
			WithDetail("client_code", c.ClientCode)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}

	if rowsAffected == 0 {
		return client.ErrClientNotFound().WithDetail("client_code", c.ClientCode)
	}

	return nil
}

// ExistsByName verifica si ya existe un cliente activo con el nombre dado
func (r *PostgresClientRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM clients WHERE name = $1 AND deleted_at IS NULL)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, name)
	if err != nil {
		return false, errx.Wrap(err, "failed to check client existence", errx.TypeInternal).
			WithDetail("name", name)
	}

	return exists, nil
}
