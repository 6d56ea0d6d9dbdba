package applicationinfra

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/proconsultancy/backend/pkg/ats/application"
	"github.com/proconsultancy/backend/pkg/errx"
)

// PostgresApplicationRepository implementación de PostgreSQL para ApplicationRepository
type PostgresApplicationRepository struct {
	db *sqlx.DB
}

func NewPostgresApplicationRepository(db *sqlx.DB) application.ApplicationRepository {
	return &PostgresApplicationRepository{
		db: db,
	}
}

const applicationColumns = `
	id, application_code, job_code, applicant_name, applicant_email,
	applicant_phone, cover_note, cv_key, status, converted_to, reviewed_by,
	created_at, updated_at, deleted_at`

// FindByCode busca una postulación por código, excluyendo soft-deleted
func (r *PostgresApplicationRepository) FindByCode(ctx context.Context, code string) (*application.Application, error) {
	query := `SELECT` + applicationColumns + `
		FROM applications
		WHERE application_code = $1 AND deleted_at IS NULL`

	var a application.Application
	err := r.db.GetContext(ctx, &a, query, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, application.ErrApplicationNotFound().WithDetail("application_code", code)
		}
		return nil, errx.Wrap(err, "failed to find application by code", errx.TypeInternal).
			WithDetail("application_code", code)
	}

	return &a, nil
}

// FindAll lista postulaciones con filtros y total sin paginar
func (r *PostgresApplicationRepository) FindAll(ctx context.Context, filter application.ApplicationFilter) ([]application.Application, int, error) {
	conditions := []string{"deleted_at IS NULL"}
	args := []any{}

	addCondition := func(clause string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.JobCode != "" {
		addCondition("job_code = $%d", filter.JobCode)
	}
	if filter.Status != "" {
		addCondition("status = $%d", string(filter.Status))
	}
	if filter.Search != "" {
		addCondition("(applicant_name ILIKE $%d OR applicant_email ILIKE $%[1]d)", "%"+filter.Search+"%")
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM applications ` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, errx.Wrap(err, "failed to count applications", errx.TypeInternal)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, filter.Offset)

	query := `SELECT` + applicationColumns + `
		FROM applications ` + where + `
		ORDER BY created_at DESC
		LIMIT $` + fmt.Sprint(len(args)-1) + ` OFFSET $` + fmt.Sprint(len(args))

	var applications []application.Application
	if err := r.db.SelectContext(ctx, &applications, query, args...); err != nil {
		return nil, 0, errx.Wrap(err, "failed to list applications", errx.TypeInternal)
	}

	return applications, total, nil
}

// Save inserta o actualiza la postulación
func (r *PostgresApplicationRepository) Save(ctx context.Context, a *application.Application) error {
	if a.ID == 0 {
		return r.create(ctx, a)
	}
	return r.update(ctx, a)
}

func (r *PostgresApplicationRepository) create(ctx context.Context, a *application.Application) error {
	query := `
		INSERT INTO applications (
			application_code, job_code, applicant_name, applicant_email,
			applicant_phone, cover_note, cv_key, status, converted_to, reviewed_by,
			created_at, updated_at, deleted_at
		) VALUES (
			:application_code, :job_code, :applicant_name, :applicant_email,
			:applicant_phone, :cover_note, :cv_key, :status, :converted_to, :reviewed_by,
			:created_at, :updated_at, :deleted_at
		) RETURNING id`

	rows, err := sqlx.NamedQueryContext(ctx, r.db, query, a)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" && pqErr.Constraint == "applications_job_email_key" {
				return application.ErrDuplicateApplication().
					WithDetail("job_code", a.JobCode).
					WithDetail("applicant_email", a.ApplicantEmail)
			}
		}
		return errx.Wrap(err, "failed to create application", errx.TypeInternal).
			WithDetail("application_code", a.ApplicationCode)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&a.ID); err != nil {
			return errx.Wrap(err, "failed to scan application id", errx.TypeInternal)
		}
	}

	return nil
}

func (r *PostgresApplicationRepository) update(ctx context.Context, a *application.Application) error {
	query := `
		UPDATE applications SET
			applicant_name = :applicant_name,
			applicant_email = :applicant_email,
			applicant_phone = :applicant_phone,
			cover_note = :cover_note,
			cv_key = :cv_key,
			status = :status,
			converted_to = :converted_to,
			reviewed_by = :reviewed_by,
			updated_at = :updated_at,
			deleted_at = :deleted_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, a)
	if err != nil {
		return errx.Wrap(err, "failed to update application", errx.TypeInternal).
			WithDetail("application_code", a.ApplicationCode)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}

	if rowsAffected == 0 {
		return application.ErrApplicationNotFound().WithDetail("application_code", a.ApplicationCode)
	}

	return nil
}

// ExistsForJob verifica si el email ya postuló al puesto
func (r *PostgresApplicationRepository) ExistsForJob(ctx context.Context, jobCode, applicantEmail string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM applications
			WHERE job_code = $1 AND applicant_email = $2 AND deleted_at IS NULL
		)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, jobCode, applicantEmail)
	if err != nil {
		return false, errx.Wrap(err, "failed to check application existence", errx.TypeInternal).
			WithDetail("job_code", jobCode)
	}

	return exists, nil
}
