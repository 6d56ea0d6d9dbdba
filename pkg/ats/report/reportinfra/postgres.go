package reportinfra

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/proconsultancy/backend/pkg/ats/report"
	"github.com/proconsultancy/backend/pkg/errx"
)

// PostgresReportRepository ejecuta las consultas agregadas de reporting
type PostgresReportRepository struct {
	db *sqlx.DB
}

func NewPostgresReportRepository(db *sqlx.DB) report.ReportRepository {
	return &PostgresReportRepository{
		db: db,
	}
}

// SubmissionFunnel cuenta submissions vivas por etapa del pipeline
func (r *PostgresReportRepository) SubmissionFunnel(ctx context.Context) ([]report.FunnelRow, error) {
	query := `
		SELECT client_status, COUNT(*) AS count
		FROM submissions
		WHERE deleted_at IS NULL
		GROUP BY client_status
		ORDER BY count DESC`

	var rows []report.FunnelRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errx.Wrap(err, "failed to build submission funnel", errx.TypeInternal)
	}

	return rows, nil
}

// PlacementsByMonth cuenta colocaciones por mes de los últimos N meses
func (r *PostgresReportRepository) PlacementsByMonth(ctx context.Context, months int) ([]report.PlacementsByMonthRow, error) {
	if months <= 0 {
		months = 12
	}

	query := `
		SELECT to_char(date_trunc('month', placement_date), 'YYYY-MM') AS month,
		       COUNT(*) AS placements
		FROM submissions
		WHERE deleted_at IS NULL
		  AND client_status = 'placed'
		  AND placement_date >= date_trunc('month', NOW()) - ($1 || ' months')::interval
		GROUP BY 1
		ORDER BY 1`

	var rows []report.PlacementsByMonthRow
	if err := r.db.SelectContext(ctx, &rows, query, months); err != nil {
		return nil, errx.Wrap(err, "failed to build placements by month", errx.TypeInternal)
	}

	return rows, nil
}

// OpenJobsByClient cuenta puestos abiertos y vacantes pendientes por cliente
func (r *PostgresReportRepository) OpenJobsByClient(ctx context.Context) ([]report.OpenJobsByClientRow, error) {
	query := `
		SELECT j.client_code,
		       c.name AS client_name,
		       COUNT(*) AS open_jobs,
		       SUM(j.openings) AS openings
		FROM jobs j
		JOIN clients c ON c.client_code = j.client_code
		WHERE j.deleted_at IS NULL AND j.status = 'open'
		GROUP BY j.client_code, c.name
		ORDER BY open_jobs DESC`

	var rows []report.OpenJobsByClientRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errx.Wrap(err, "failed to build open jobs by client", errx.TypeInternal)
	}

	return rows, nil
}

// ApplicationIntake cuenta postulaciones por puesto y estado de revisión
func (r *PostgresReportRepository) ApplicationIntake(ctx context.Context) ([]report.ApplicationIntakeRow, error) {
	query := `
		SELECT a.job_code,
		       j.title AS job_title,
		       a.status,
		       COUNT(*) AS count
		FROM applications a
		JOIN jobs j ON j.job_code = a.job_code
		WHERE a.deleted_at IS NULL
		GROUP BY a.job_code, j.title, a.status
		ORDER BY a.job_code, a.status`

	var rows []report.ApplicationIntakeRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errx.Wrap(err, "failed to build application intake", errx.TypeInternal)
	}

	return rows, nil
}
