package report

import "context"

// ============================================================================
// Report DTOs - resultados de consultas agregadas, solo lectura
// ============================================================================

// FunnelRow cuenta submissions por estado del pipeline del cliente
type FunnelRow struct {
	ClientStatus string `db:"client_status" json:"client_status"`
	Count        int    `db:"count" json:"count"`
}

// PlacementsByMonthRow cuenta colocaciones por mes calendario
type PlacementsByMonthRow struct {
	Month      string `db:"month" json:"month"`
	Placements int    `db:"placements" json:"placements"`
}

// OpenJobsByClientRow cuenta puestos abiertos y vacantes por cliente
type OpenJobsByClientRow struct {
	ClientCode string `db:"client_code" json:"client_code"`
	ClientName string `db:"client_name" json:"client_name"`
	OpenJobs   int    `db:"open_jobs" json:"open_jobs"`
	Openings   int    `db:"openings" json:"openings"`
}

// ApplicationIntakeRow cuenta postulaciones por puesto y estado de revisión
type ApplicationIntakeRow struct {
	JobCode  string `db:"job_code" json:"job_code"`
	JobTitle string `db:"job_title" json:"job_title"`
	Status   string `db:"status" json:"status"`
	Count    int    `db:"count" json:"count"`
}

// ============================================================================
// Ports
// ============================================================================

// ReportRepository ejecuta las consultas agregadas contra la base
type ReportRepository interface {
	SubmissionFunnel(ctx context.Context) ([]FunnelRow, error)
	PlacementsByMonth(ctx context.Context, months int) ([]PlacementsByMonthRow, error)
	OpenJobsByClient(ctx context.Context) ([]OpenJobsByClientRow, error)
	ApplicationIntake(ctx context.Context) ([]ApplicationIntakeRow, error)
}
