package activityinfra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/proconsultancy/backend/pkg/ats/activity"
	"github.com/proconsultancy/backend/pkg/errx"
)

// PostgresEntryRepository implementación de PostgreSQL para EntryRepository
type PostgresEntryRepository struct {
	db *sqlx.DB
}

func NewPostgresEntryRepository(db *sqlx.DB) activity.EntryRepository {
	return &PostgresEntryRepository{
		db: db,
	}
}

// Insert agrega una entrada al audit trail
func (r *PostgresEntryRepository) Insert(ctx context.Context, entry activity.Entry) error {
	query := `
		INSERT INTO activity_log (
			module, action, entity_code, actor_id, detail, created_at
		) VALUES (
			:module, :action, :entity_code, :actor_id, :detail, :created_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, entry)
	if err != nil {
		return errx.Wrap(err, "failed to insert activity entry", errx.TypeInternal).
			WithDetail("module", entry.Module).
			WithDetail("action", entry.Action)
	}

	return nil
}

// FindAll lista entradas con filtros y total sin paginar
func (r *PostgresEntryRepository) FindAll(ctx context.Context, filter activity.Filter) ([]activity.Entry, int, error) {
	conditions := []string{"1=1"}
	args := []any{}

	addCondition := func(clause string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.Module != "" {
		addCondition("module = $%d", filter.Module)
	}
	if filter.Action != "" {
		addCondition("action = $%d", filter.Action)
	}
	if filter.EntityCode != "" {
		addCondition("entity_code = $%d", filter.EntityCode)
	}
	if filter.ActorID != "" {
		addCondition("actor_id = $%d", filter.ActorID)
	}
	if filter.Since != nil {
		addCondition("created_at >= $%d", *filter.Since)
	}
	if filter.Until != nil {
		addCondition("created_at <= $%d", *filter.Until)
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM activity_log ` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, errx.Wrap(err, "failed to count activity entries", errx.TypeInternal)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, filter.Offset)

	query := `
		SELECT id, module, action, entity_code, actor_id, detail, created_at
		FROM activity_log ` + where + `
		ORDER BY created_at DESC
		LIMIT $` + fmt.Sprint(len(args)-1) + ` OFFSET $` + fmt.Sprint(len(args))

	var entries []activity.Entry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, 0, errx.Wrap(err, "failed to list activity entries", errx.TypeInternal)
	}

	return entries, total, nil
}

// DeleteOlderThan poda entradas anteriores al corte de retención
func (r *PostgresEntryRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM activity_log WHERE created_at < $1`

	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, errx.Wrap(err, "failed to prune activity entries", errx.TypeInternal)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}

	return rowsAffected, nil
}
