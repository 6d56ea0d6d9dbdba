package job

import (
	"net/http"
	"time"

	"github.com/proconsultancy/backend/pkg/errx"
	"github.com/proconsultancy/backend/pkg/kernel"
)

// ============================================================================
// Job Entity
// ============================================================================

// JobStatus define los posibles estados de un puesto
type JobStatus string

const (
	JobStatusDraft     JobStatus = "draft"
	JobStatusOpen      JobStatus = "open"
	JobStatusOnHold    JobStatus = "on_hold"
	JobStatusFilled    JobStatus = "filled"
	JobStatusClosed    JobStatus = "closed"
	JobStatusCancelled JobStatus = "cancelled"
)

// EmploymentType define la modalidad de contratación
type EmploymentType string

const (
	EmploymentTypeFullTime  EmploymentType = "full_time"
	EmploymentTypePartTime  EmploymentType = "part_time"
	EmploymentTypeContract  EmploymentType = "contract"
	EmploymentTypeTemporary EmploymentType = "temporary"
)

// jobTransitions es la tabla de transiciones del ciclo de vida del puesto.
// filled, closed y cancelled son terminales.
var jobTransitions = map[JobStatus][]JobStatus{
	JobStatusDraft:     {JobStatusOpen, JobStatusCancelled},
	JobStatusOpen:      {JobStatusOnHold, JobStatusClosed, JobStatusFilled},
	JobStatusOnHold:    {JobStatusOpen, JobStatusClosed},
	JobStatusFilled:    {},
	JobStatusClosed:    {},
	JobStatusCancelled: {},
}

// Job es un puesto publicado por un cliente
type Job struct {
	ID          int64          `db:"id" json:"-"`
	JobCode     string         `db:"job_code" json:"job_code"`
	ClientCode  string         `db:"client_code" json:"client_code"`
	Title       string         `db:"title" json:"title"`
	Description string         `db:"description" json:"description"`
	Location    string         `db:"location" json:"location"`
	Employment  EmploymentType `db:"employment_type" json:"employment_type"`
	SalaryMin   *float64       `db:"salary_min" json:"salary_min,omitempty"`
	SalaryMax   *float64       `db:"salary_max" json:"salary_max,omitempty"`
	Openings    int            `db:"openings" json:"openings"`
	Status      JobStatus      `db:"status" json:"status"`
	Published   bool           `db:"published" json:"published"`

	CreatedBy kernel.UserID `db:"created_by" json:"created_by"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
	DeletedAt *time.Time    `db:"deleted_at" json:"-"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// IsOpen verifica si el puesto acepta submissions
func (j *Job) IsOpen() bool {
	return j.Status == JobStatusOpen && j.DeletedAt == nil
}

// IsDeleted verifica el soft delete
func (j *Job) IsDeleted() bool {
	return j.DeletedAt != nil
}

// IsTerminal verifica si el estado no admite más transiciones
func (j *Job) IsTerminal() bool {
	next, ok := jobTransitions[j.Status]
	return ok && len(next) == 0
}

// CanTransitionTo decide si la arista (actual → solicitado) existe
func (j *Job) CanTransitionTo(requested JobStatus) bool {
	for _, allowed := range jobTransitions[j.Status] {
		if allowed == requested {
			return true
		}
	}
	return false
}

// ChangeStatus aplica una transición validada del ciclo de vida.
// Al salir de open el puesto se despublica del board.
func (j *Job) ChangeStatus(requested JobStatus) error {
	if _, ok := jobTransitions[requested]; !ok {
		return ErrInvalidJobStatus(string(requested))
	}
	if !j.CanTransitionTo(requested) {
		return ErrJobTransitionNotAllowed(j.Status, requested)
	}

	j.Status = requested
	if requested != JobStatusOpen {
		j.Published = false
	}
	j.UpdatedAt = time.Now()
	return nil
}

// Publish expone el puesto en el job board público. Solo puestos open.
func (j *Job) Publish() error {
	if j.Status != JobStatusOpen {
		return ErrJobNotPublishable().WithDetail("status", string(j.Status))
	}

	j.Published = true
	j.UpdatedAt = time.Now()
	return nil
}

// Unpublish retira el puesto del board
func (j *Job) Unpublish() {
	j.Published = false
	j.UpdatedAt = time.Now()
}

// MarkDeleted aplica el soft delete
func (j *Job) MarkDeleted() {
	now := time.Now()
	j.DeletedAt = &now
	j.Published = false
	j.UpdatedAt = now
}

// ============================================================================
// DTOs
// ============================================================================

// JobDTO es la vista administrativa de un puesto
type JobDTO struct {
	JobCode     string         `json:"job_code"`
	ClientCode  string         `json:"client_code"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Location    string         `json:"location"`
	Employment  EmploymentType `json:"employment_type"`
	SalaryMin   *float64       `json:"salary_min,omitempty"`
	SalaryMax   *float64       `json:"salary_max,omitempty"`
	Openings    int            `json:"openings"`
	Status      JobStatus      `json:"status"`
	Published   bool           `json:"published"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (j *Job) ToDTO() JobDTO {
	return JobDTO{
		JobCode:     j.JobCode,
		ClientCode:  j.ClientCode,
		Title:       j.Title,
		Description: j.Description,
		Location:    j.Location,
		Employment:  j.Employment,
		SalaryMin:   j.SalaryMin,
		SalaryMax:   j.SalaryMax,
		Openings:    j.Openings,
		Status:      j.Status,
		Published:   j.Published,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

// PublicJobDTO es la vista del board público; omite datos internos del cliente
type PublicJobDTO struct {
	JobCode    string         `json:"job_code"`
	Title      string         `json:"title"`
	Location   string         `json:"location"`
	Employment EmploymentType `json:"employment_type"`
	Summary    string         `json:"summary"`
	PostedAt   time.Time      `json:"posted_at"`
}

// ToPublicDTO construye la vista del board; el summary trunca la descripción
func (j *Job) ToPublicDTO() PublicJobDTO {
	summary := j.Description
	if len(summary) > 280 {
		summary = summary[:280] + "…"
	}
	return PublicJobDTO{
		JobCode:    j.JobCode,
		Title:      j.Title,
		Location:   j.Location,
		Employment: j.Employment,
		Summary:    summary,
		PostedAt:   j.UpdatedAt,
	}
}

// CreateJobRequest crea un puesto en draft
type CreateJobRequest struct {
	ClientCode  string         `json:"client_code" validate:"required"`
	Title       string         `json:"title" validate:"required"`
	Description string         `json:"description" validate:"required"`
	Location    string         `json:"location" validate:"required"`
	Employment  EmploymentType `json:"employment_type" validate:"required,oneof=full_time part_time contract temporary"`
	SalaryMin   *float64       `json:"salary_min,omitempty" validate:"omitempty,gt=0"`
	SalaryMax   *float64       `json:"salary_max,omitempty" validate:"omitempty,gt=0"`
	Openings    int            `json:"openings" validate:"required,gt=0"`
}

// UpdateJobRequest actualiza campos editables de un puesto
type UpdateJobRequest struct {
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Location    *string         `json:"location,omitempty"`
	Employment  *EmploymentType `json:"employment_type,omitempty" validate:"omitempty,oneof=full_time part_time contract temporary"`
	SalaryMin   *float64        `json:"salary_min,omitempty" validate:"omitempty,gt=0"`
	SalaryMax   *float64        `json:"salary_max,omitempty" validate:"omitempty,gt=0"`
	Openings    *int            `json:"openings,omitempty" validate:"omitempty,gt=0"`
}

// ChangeJobStatusRequest mueve el puesto en su ciclo de vida
type ChangeJobStatusRequest struct {
	Status JobStatus `json:"status" validate:"required"`
}

// JobFilter filtra el listado administrativo
type JobFilter struct {
	ClientCode string
	Status     JobStatus
	Published  *bool
	Search     string
	Limit      int
	Offset     int
}

// JobListResponse pagina el listado
type JobListResponse struct {
	Jobs   []JobDTO `json:"jobs"`
	Total  int      `json:"total"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
}

// ============================================================================
// Error Registry - Errores específicos de Job
// ============================================================================

var ErrRegistry = errx.NewRegistry("JOB")

// Códigos de error
var (
	CodeJobNotFound             = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Puesto no encontrado")
	CodeJobTransitionNotAllowed = ErrRegistry.Register("TRANSITION_NOT_ALLOWED", errx.TypeBusiness, http.StatusConflict, "Transición de estado no permitida")
	CodeJobNotPublishable       = ErrRegistry.Register("NOT_PUBLISHABLE", errx.TypeBusiness, http.StatusConflict, "Solo puestos abiertos pueden publicarse")
	CodeJobNotOpen              = ErrRegistry.Register("NOT_OPEN", errx.TypeBusiness, http.StatusConflict, "El puesto no está abierto")
	CodeInvalidJobStatus        = ErrRegistry.Register("INVALID_STATUS", errx.TypeValidation, http.StatusBadRequest, "Estado de puesto desconocido")
	CodeInvalidSalaryRange      = ErrRegistry.Register("INVALID_SALARY_RANGE", errx.TypeValidation, http.StatusBadRequest, "El salario mínimo no puede superar al máximo")
)

// Helper functions para crear errores
func ErrJobNotFound() *errx.Error {
	return ErrRegistry.New(CodeJobNotFound)
}

// ErrJobTransitionNotAllowed nombra el estado actual y el solicitado
func ErrJobTransitionNotAllowed(current, requested JobStatus) *errx.Error {
	return ErrRegistry.NewWithMessage(CodeJobTransitionNotAllowed,
		"Cannot transition job from "+string(current)+" to "+string(requested)).
		WithDetail("current_status", string(current)).
		WithDetail("requested_status", string(requested))
}

func ErrJobNotPublishable() *errx.Error {
	return ErrRegistry.New(CodeJobNotPublishable)
}

func ErrJobNotOpen() *errx.Error {
	return ErrRegistry.New(CodeJobNotOpen)
}

func ErrInvalidJobStatus(status string) *errx.Error {
	return ErrRegistry.New(CodeInvalidJobStatus).WithDetail("status", status)
}

func ErrInvalidSalaryRange() *errx.Error {
	return ErrRegistry.New(CodeInvalidSalaryRange)
}
