package jobinfra

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/proconsultancy/backend/pkg/ats/job"
	"github.com/proconsultancy/backend/pkg/errx"
)

// PostgresJobRepository implementación de PostgreSQL para JobRepository
type PostgresJobRepository struct {
	db *sqlx.DB
}

func NewPostgresJobRepository(db *sqlx.DB) job.JobRepository {
	return &PostgresJobRepository{
		db: db,
	}
}

const jobColumns = `
	id, job_code, client_code, title, description, location,
	employment_type, salary_min, salary_max, openings, status, published,
	created_by, created_at, updated_at, deleted_at`

// FindByCode busca un puesto por código, excluyendo soft-deleted
func (r *PostgresJobRepository) FindByCode(ctx context.Context, code string) (*job.Job, error) {
	query := `SELECT` + jobColumns + `
		FROM jobs
		WHERE job_code = $1 AND deleted_at IS NULL`

	var j job.Job
	err := r.db.GetContext(ctx, &j, query, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, job.ErrJobNotFound().WithDetail("job_code", code)
		}
		return nil, errx.Wrap(err, "failed to find job by code", errx.TypeInternal).
			WithDetail("job_code", code)
	}

	return &j, nil
}

// FindAll lista puestos con filtros y total sin paginar
func (r *PostgresJobRepository) FindAll(ctx context.Context, filter job.JobFilter) ([]job.Job, int, error) {
	conditions := []string{"deleted_at IS NULL"}
	args := []any{}

	addCondition := func(clause string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.ClientCode != "" {
		addCondition("client_code = $%d", filter.ClientCode)
	}
	if filter.Status != "" {
		addCondition("status = $%d", string(filter.Status))
	}
	if filter.Published != nil {
		addCondition("published = $%d", *filter.Published)
	}
	if filter.Search != "" {
		addCondition("(title ILIKE $%d OR location ILIKE $%[1]d)", "%"+filter.Search+"%")
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM jobs ` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, errx.Wrap(err, "failed to count jobs", errx.TypeInternal)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, filter.Offset)

	query := `SELECT` + jobColumns + `
		FROM jobs ` + where + `
		ORDER BY created_at DESC
		LIMIT $` + fmt.Sprint(len(args)-1) + ` OFFSET $` + fmt.Sprint(len(args))

	var jobs []job.Job
	if err := r.db.SelectContext(ctx, &jobs, query, args...); err != nil {
		return nil, 0, errx.Wrap(err, "failed to list jobs", errx.TypeInternal)
	}

	return jobs, total, nil
}

// FindPublished lista los puestos visibles en el board público
func (r *PostgresJobRepository) FindPublished(ctx context.Context, limit, offset int) ([]job.Job, int, error) {
	var total int
	countQuery := `
		SELECT COUNT(*) FROM jobs
		WHERE published = TRUE AND status = 'open' AND deleted_at IS NULL`
	if err := r.db.GetContext(ctx, &total, countQuery); err != nil {
		return nil, 0, errx.Wrap(err, "failed to count published jobs", errx.TypeInternal)
	}

	if limit <= 0 {
		limit = 50
	}

	query := `SELECT` + jobColumns + `
		FROM jobs
		WHERE published = TRUE AND status = 'open' AND deleted_at IS NULL
		ORDER BY updated_at DESC
		LIMIT $1 OFFSET $2`

	var jobs []job.Job
	if err := r.db.SelectContext(ctx, &jobs, query, limit, offset); err != nil {
		return nil, 0, errx.Wrap(err, "failed to list published jobs", errx.TypeInternal)
	}

	return jobs, total, nil
}

// Save inserta o actualiza el puesto
func (r *PostgresJobRepository) Save(ctx context.Context, j *job.Job) error {
	if j.ID == 0 {
		return r.create(ctx, j)
	}
	return r.update(ctx, j)
}

func (r *PostgresJobRepository) create(ctx context.Context, j *job.Job) error {
	query := `
		INSERT INTO jobs (
			job_code, client_code, title, description, location,
			employment_type, salary_min, salary_max, openings, status, published,
			created_by, created_at, updated_at, deleted_at
		) VALUES (
			:job_code, :client_code, :title, :description, :location,
			:employment_type, :salary_min, :salary_max, :openings, :status, :published,
			:created_by, :created_at, :updated_at, :deleted_at
		) RETURNING id`

	rows, err := sqlx.NamedQueryContext(ctx, r.db, query, j)
	if err != nil {
		return errx.Wrap(err, "failed to create job", errx.TypeInternal).
			WithDetail("job_code", j.JobCode)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&j.ID); err != nil {
			return errx.Wrap(err, "failed to scan job id", errx.TypeInternal)
		}
	}

	return nil
}

func (r *PostgresJobRepository) update(ctx context.Context, j *job.Job) error {
	query := `
		UPDATE jobs SET
			title = :title,
			description = :description,
			location = :location,
			employment_type = :employment_type,
			salary_min = :salary_min,
			salary_max = :salary_max,
			openings = :openings,
			status = :status,
			published = :published,
			updated_at = :updated_at,
			deleted_at = :deleted_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, j)
	if err != nil {
		return errx.Wrap(err, "failed to update job", errx.TypeInternal).
			WithDetail("job_code", j.JobCode)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}

	if rowsAffected == 0 {
		return job.ErrJobNotFound().WithDetail("job_code", j.JobCode)
	}

	return nil
}
