package candidateinfra

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/proconsultancy/backend/pkg/ats/candidate"
	"github.com/proconsultancy/backend/pkg/errx"
)

// PostgresCandidateRepository implementación de PostgreSQL para CandidateRepository
type PostgresCandidateRepository struct {
	db *sqlx.DB
}

func NewPostgresCandidateRepository(db *sqlx.DB) candidate.CandidateRepository {
	return &PostgresCandidateRepository{
		db: db,
	}
}

const candidateColumns = `
	id, candidate_code, name, email, phone, headline, skills,
	experience_years, current_salary, expected_salary, source, status, cv_key,
	created_by, created_at, updated_at, deleted_at`

// FindByCode busca un candidato por código, excluyendo soft-deleted
func (r *PostgresCandidateRepository) FindByCode(ctx context.Context, code string) (*candidate.Candidate, error) {
	query := `SELECT` + candidateColumns + `
		FROM candidates
		WHERE candidate_code = $1 AND deleted_at IS NULL`

	var c candidate.Candidate
	err := r.db.GetContext(ctx, &c, query, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, candidate.ErrCandidateNotFound().WithDetail("candidate_code", code)
		}
		return nil, errx.Wrap(err, "failed to find candidate by code", errx.TypeInternal).
			WithDetail("candidate_code", code)
	}

	return &c, nil
}

// FindByEmail busca un candidato por email
func (r *PostgresCandidateRepository) FindByEmail(ctx context.Context, email string) (*candidate.Candidate, error) {
	query := `SELECT` + candidateColumns + `
		FROM candidates
		WHERE email = $1 AND deleted_at IS NULL`

	var c candidate.Candidate
	err := r.db.GetContext(ctx, &c, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, candidate.ErrCandidateNotFound().WithDetail("email", email)
		}
		return nil, errx.Wrap(err, "failed to find candidate by email", errx.TypeInternal).
			WithDetail("email", email)
	}

	return &c, nil
}

// FindAll lista candidatos con filtros y total sin paginar
func (r *PostgresCandidateRepository) FindAll(ctx context.Context, filter candidate.CandidateFilter) ([]candidate.Candidate, int, error) {
	conditions := []string{"deleted_at IS NULL"}
	args := []any{}

	addCondition := func(clause string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.Status != "" {
		addCondition("status = $%d", string(filter.Status))
	}
	if filter.Skill != "" {
		addCondition("$%d = ANY(skills)", filter.Skill)
	}
	if filter.Search != "" {
		addCondition("(name ILIKE $%d OR email ILIKE $%[1]d OR headline ILIKE $%[1]d)", "%"+filter.Search+"%")
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM candidates ` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, errx.Wrap(err, "failed to count candidates", errx.TypeInternal)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, filter.Offset)

	query := `SELECT` + candidateColumns + `
		FROM candidates ` + where + `
		ORDER BY created_at DESC
		LIMIT $` + fmt.Sprint(len(args)-1) + ` OFFSET $` + fmt.Sprint(len(args))

	var candidates []candidate.Candidate
	if err := r.db.SelectContext(ctx, &candidates, query, args...); err != nil {
		return nil, 0, errx.Wrap(err, "failed to list candidates", errx.TypeInternal)
	}

	return candidates, total, nil
}

// Save inserta o actualiza el candidato
func (r *PostgresCandidateRepository) Save(ctx context.Context, c *candidate.Candidate) error {
	if c.ID == 0 {
		return r.create(ctx, c)
	}
	return r.update(ctx, c)
}

func (r *PostgresCandidateRepository) create(ctx context.Context, c *candidate.Candidate) error {
	query := `
		INSERT INTO candidates (
			candidate_code, name, email, phone, headline, skills,
			experience_years, current_salary, expected_salary, source, status, cv_key,
			created_by, created_at, updated_at, deleted_at
		) VALUES (
			:candidate_code, :name, :email, :phone, :headline, :skills,
			:experience_years, :current_salary, :expected_salary, :source, :status, :cv_key,
			:created_by, :created_at, :updated_at, :deleted_at
		) RETURNING id`

	rows, err := sqlx.NamedQueryContext(ctx, r.db, query, c)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" && pqErr.Constraint == "candidates_email_key" {
				return candidate.ErrCandidateAlreadyExists().WithDetail("email", c.Email)
			}
		}
		return errx.Wrap(err, "failed to create candidate", errx.TypeInternal).
			WithDetail("candidate_code", c.CandidateCode)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&c.ID); err != nil {
			return errx.Wrap(err, "failed to scan candidate id", errx.TypeInternal)
		}
	}

	return nil
}

func (r *PostgresCandidateRepository) update(ctx context.Context, c *candidate.Candidate) error {
	query := `
		UPDATE candidates SET
			name = :name,
			email = :email,
			phone = :phone,
			headline = :headline,
			skills = :skills,
			experience_years = :experience_years,
			current_salary = :current_salary,
			expected_salary = :expected_salary,
			source = :source,
			status = :status,
			cv_key = :cv_key,
			updated_at = :updated_at,
			deleted_at = :deleted_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, c)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" && pqErr.Constraint == "candidates_email_key" {
				return candidate.ErrCandidateAlreadyExists().WithDetail("email", c.Email)
			}
		}
		return errx.Wrap(err, "failed to update candidate", errx.TypeInternal).
			WithDetail("candidate_code", c.CandidateCode)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}

	if rowsAffected == 0 {
		return candidate.ErrCandidateNotFound().WithDetail("candidate_code", c.CandidateCode)
	}

	return nil
}

// ExistsByEmail verifica si existe un candidato activo con el email dado
func (r *PostgresCandidateRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM candidates WHERE email = $1 AND deleted_at IS NULL)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, email)
	if err != nil {
		return false, errx.Wrap(err, "failed to check candidate existence", errx.TypeInternal).
			WithDetail("email", email)
	}

	return exists, nil
}
