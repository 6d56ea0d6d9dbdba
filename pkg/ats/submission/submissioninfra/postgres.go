package submissioninfra

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/proconsultancy/backend/pkg/ats/submission"
	"github.com/proconsultancy/backend/pkg/errx"
)

// PostgresSubmissionRepository implementación de PostgreSQL para SubmissionRepository
type PostgresSubmissionRepository struct {
	db *sqlx.DB
}

func NewPostgresSubmissionRepository(db *sqlx.DB) submission.SubmissionRepository {
	return &PostgresSubmissionRepository{
		db: db,
	}
}

const submissionColumns = `
	id, submission_code, candidate_code, job_code,
	internal_status, client_status, expected_salary, notes,
	approved_by, rejection_reason, withdraw_reason,
	approved_at, sent_to_client_at, interview_date, offer_date,
	placement_date, withdrawn_date,
	created_by, created_at, updated_at, deleted_at`

// FindByCode busca una submission por código, excluyendo soft-deleted
func (r *PostgresSubmissionRepository) FindByCode(ctx context.Context, code string) (*submission.Submission, error) {
	query := `SELECT` + submissionColumns + `
		FROM submissions
		WHERE submission_code = $1 AND deleted_at IS NULL`

	var s submission.Submission
	err := r.db.GetContext(ctx, &s, query, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, submission.ErrSubmissionNotFound().WithDetail("submission_code", code)
		}
		return nil, errx.Wrap(err, "failed to find submission by code", errx.TypeInternal).
			WithDetail("submission_code", code)
	}

	return &s, nil
}

// FindAll lista submissions con filtros y total sin paginar
func (r *PostgresSubmissionRepository) FindAll(ctx context.Context, filter submission.SubmissionFilter) ([]submission.Submission, int, error) {
	conditions := []string{"deleted_at IS NULL"}
	args := []any{}

	addCondition := func(column, value string) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if filter.CandidateCode != "" {
		addCondition("candidate_code", filter.CandidateCode)
	}
	if filter.JobCode != "" {
		addCondition("job_code", filter.JobCode)
	}
	if filter.InternalStatus != "" {
		addCondition("internal_status", string(filter.InternalStatus))
	}
	if filter.ClientStatus != "" {
		addCondition("client_status", string(filter.ClientStatus))
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM submissions ` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, errx.Wrap(err, "failed to count submissions", errx.TypeInternal)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, filter.Offset)

	query := `SELECT` + submissionColumns + `
		FROM submissions ` + where + `
		ORDER BY created_at DESC
		LIMIT $` + fmt.Sprint(len(args)-1) + ` OFFSET $` + fmt.Sprint(len(args))

	var submissions []submission.Submission
	if err := r.db.SelectContext(ctx, &submissions, query, args...); err != nil {
		return nil, 0, errx.Wrap(err, "failed to list submissions", errx.TypeInternal)
	}

	return submissions, total, nil
}

// Save inserta o actualiza la submission
func (r *PostgresSubmissionRepository) Save(ctx context.Context, s *submission.Submission) error {
	if s.ID == 0 {
		return r.create(ctx, r.db, s)
	}
	return r.update(ctx, r.db, s)
}

func (r *PostgresSubmissionRepository) create(ctx context.Context, ext sqlx.ExtContext, s *submission.Submission) error {
	query := `
		INSERT INTO submissions (
			submission_code, candidate_code, job_code,
			internal_status, client_status, expected_salary, notes,
			approved_by, rejection_reason, withdraw_reason,
			approved_at, sent_to_client_at, interview_date, offer_date,
			placement_date, withdrawn_date,
			created_by, created_at, updated_at, deleted_at
		) VALUES (
			:submission_code, :candidate_code, :job_code,
			:internal_status, :client_status, :expected_salary, :notes,
			:approved_by, :rejection_reason, :withdraw_reason,
			:approved_at, :sent_to_client_at, :interview_date, :offer_date,
			:placement_date, :withdrawn_date,
			:created_by, :created_at, :updated_at, :deleted_at
		) RETURNING id`

	rows, err := sqlx.NamedQueryContext(ctx, ext, query, s)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			// Partial unique index sobre (candidate_code, job_code) activas
			if pqErr.Code == "23505" && pqErr.Constraint == "submissions_active_candidate_job_key" {
				return submission.ErrDuplicateSubmission().
					WithDetail("candidate_code", s.CandidateCode).
					WithDetail("job_code", s.JobCode)
			}
		}
		return errx.Wrap(err, "failed to create submission", errx.TypeInternal).
			WithDetail("submission_code", s.SubmissionCode)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&s.ID); err != nil {
			return errx.Wrap(err, "failed to scan submission id", errx.TypeInternal)
		}
	}

	return nil
}

func (r *PostgresSubmissionRepository) update(ctx context.Context, ext sqlx.ExtContext, s *submission.Submission) error {
	query := `
		UPDATE submissions SET
			internal_status = :internal_status,
			client_status = :client_status,
			expected_salary = :expected_salary,
			notes = :notes,
			approved_by = :approved_by,
			rejection_reason = :rejection_reason,
			withdraw_reason = :withdraw_reason,
			approved_at = :approved_at,
			sent_to_client_at = :sent_to_client_at,
			interview_date = :interview_date,
			offer_date = :offer_date,
			placement_date = :placement_date,
			withdrawn_date = :withdrawn_date,
			updated_at = :updated_at,
			deleted_at = :deleted_at
		WHERE id = :id`

	result, err := sqlx.NamedExecContext(ctx, ext, query, s)
	if err != nil {
		return errx.Wrap(err, "failed to update submission", errx.TypeInternal).
			WithDetail("submission_code", s.SubmissionCode)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}

	if rowsAffected == 0 {
		return submission.ErrSubmissionNotFound().WithDetail("submission_code", s.SubmissionCode)
	}

	return nil
}

// ExistsActive verifica si ya hay una submission activa para (candidato, puesto)
func (r *PostgresSubmissionRepository) ExistsActive(ctx context.Context, candidateCode, jobCode string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM submissions
			WHERE candidate_code = $1
			  AND job_code = $2
			  AND deleted_at IS NULL
			  AND internal_status NOT IN ('rejected', 'withdrawn')
			  AND client_status NOT IN ('placed', 'rejected', 'withdrawn')
		)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, candidateCode, jobCode)
	if err != nil {
		return false, errx.Wrap(err, "failed to check active submission", errx.TypeInternal).
			WithDetail("candidate_code", candidateCode).
			WithDetail("job_code", jobCode)
	}

	return exists, nil
}

// Transition carga la fila con SELECT ... FOR UPDATE dentro de una
// transacción, aplica fn y persiste. El lock serializa requests
// concurrentes sobre la misma submission: la segunda espera y relee el
// estado ya actualizado, así que no puede pasar una precondición vieja.
func (r *PostgresSubmissionRepository) Transition(ctx context.Context, code string, fn func(*submission.Submission) error) (*submission.Submission, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errx.Wrap(err, "failed to begin transaction", errx.TypeInternal)
	}
	defer tx.Rollback()

	query := `SELECT` + submissionColumns + `
		FROM submissions
		WHERE submission_code = $1 AND deleted_at IS NULL
		FOR UPDATE`

	var s submission.Submission
	if err := tx.GetContext(ctx, &s, query, code); err != nil {
		if err == sql.ErrNoRows {
			return nil, submission.ErrSubmissionNotFound().WithDetail("submission_code", code)
		}
		return nil, errx.Wrap(err, "failed to lock submission", errx.TypeInternal).
			WithDetail("submission_code", code)
	}

	if err := fn(&s); err != nil {
		return nil, err
	}

	if err := r.update(ctx, tx, &s); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, errx.Wrap(err, "failed to commit transaction", errx.TypeInternal).
			WithDetail("submission_code", code)
	}

	return &s, nil
}
