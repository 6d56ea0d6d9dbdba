package application

import (
	"net/http"
	"time"

	"github.com/proconsultancy/backend/pkg/errx"
	"github.com/proconsultancy/backend/pkg/kernel"
)

// ============================================================================
// Application Entity
// ============================================================================

// ApplicationStatus define los estados de una postulación del board público
type ApplicationStatus string

const (
	ApplicationStatusNew         ApplicationStatus = "new"
	ApplicationStatusInReview    ApplicationStatus = "in_review"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusConverted   ApplicationStatus = "converted"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
)

// applicationTransitions es la tabla de revisión de postulaciones.
// converted y rejected son terminales.
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusNew:         {ApplicationStatusInReview, ApplicationStatusRejected},
	ApplicationStatusInReview:    {ApplicationStatusShortlisted, ApplicationStatusRejected},
	ApplicationStatusShortlisted: {ApplicationStatusConverted, ApplicationStatusRejected},
	ApplicationStatusConverted:   {},
	ApplicationStatusRejected:    {},
}

// Application es una postulación entrante del job board público
type Application struct {
	ID              int64             `db:"id" json:"-"`
	ApplicationCode string            `db:"application_code" json:"application_code"`
	JobCode         string            `db:"job_code" json:"job_code"`
	ApplicantName   string            `db:"applicant_name" json:"applicant_name"`
	ApplicantEmail  string            `db:"applicant_email" json:"applicant_email"`
	ApplicantPhone  string            `db:"applicant_phone" json:"applicant_phone,omitempty"`
	CoverNote       string            `db:"cover_note" json:"cover_note,omitempty"`
	CVKey           *string           `db:"cv_key" json:"-"`
	Status          ApplicationStatus `db:"status" json:"status"`

	// Código del candidato creado al convertir la postulación
	ConvertedTo *string        `db:"converted_to" json:"converted_to,omitempty"`
	ReviewedBy  *kernel.UserID `db:"reviewed_by" json:"reviewed_by,omitempty"`

	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at" json:"-"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// IsTerminal verifica si la postulación ya no admite transiciones
func (a *Application) IsTerminal() bool {
	next, ok := applicationTransitions[a.Status]
	return ok && len(next) == 0
}

// CanTransitionTo decide si la arista (actual → solicitado) existe
func (a *Application) CanTransitionTo(requested ApplicationStatus) bool {
	for _, allowed := range applicationTransitions[a.Status] {
		if allowed == requested {
			return true
		}
	}
	return false
}

// ChangeStatus aplica una transición validada de la revisión
func (a *Application) ChangeStatus(requested ApplicationStatus, reviewer kernel.UserID) error {
	if _, ok := applicationTransitions[requested]; !ok {
		return ErrInvalidApplicationStatus(string(requested))
	}
	if !a.CanTransitionTo(requested) {
		return ErrApplicationTransitionNotAllowed(a.Status, requested)
	}

	a.Status = requested
	a.ReviewedBy = &reviewer
	a.UpdatedAt = time.Now()
	return nil
}

// MarkConverted enlaza la postulación con el candidato creado.
// Solo una postulación shortlisted puede convertirse.
func (a *Application) MarkConverted(reviewer kernel.UserID, candidateCode string) error {
	if a.Status != ApplicationStatusShortlisted {
		return ErrNotShortlisted().WithDetail("status", string(a.Status))
	}

	a.Status = ApplicationStatusConverted
	a.ConvertedTo = &candidateCode
	a.ReviewedBy = &reviewer
	a.UpdatedAt = time.Now()
	return nil
}

// HasCV verifica si la postulación trajo un CV adjunto
func (a *Application) HasCV() bool {
	return a.CVKey != nil && *a.CVKey != ""
}

// ============================================================================
// DTOs
// ============================================================================

type ApplicationDTO struct {
	ApplicationCode string            `json:"application_code"`
	JobCode         string            `json:"job_code"`
	ApplicantName   string            `json:"applicant_name"`
	ApplicantEmail  string            `json:"applicant_email"`
	ApplicantPhone  string            `json:"applicant_phone,omitempty"`
	CoverNote       string            `json:"cover_note,omitempty"`
	Status          ApplicationStatus `json:"status"`
	ConvertedTo     *string           `json:"converted_to,omitempty"`
	HasCV           bool              `json:"has_cv"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func (a *Application) ToDTO() ApplicationDTO {
	return ApplicationDTO{
		ApplicationCode: a.ApplicationCode,
		JobCode:         a.JobCode,
		ApplicantName:   a.ApplicantName,
		ApplicantEmail:  a.ApplicantEmail,
		ApplicantPhone:  a.ApplicantPhone,
		CoverNote:       a.CoverNote,
		Status:          a.Status,
		ConvertedTo:     a.ConvertedTo,
		HasCV:           a.HasCV(),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// ApplyRequest es la postulación pública contra un puesto publicado
type ApplyRequest struct {
	ApplicantName  string `json:"applicant_name" validate:"required"`
	ApplicantEmail string `json:"applicant_email" validate:"required,email"`
	ApplicantPhone string `json:"applicant_phone,omitempty"`
	CoverNote      string `json:"cover_note,omitempty" validate:"max=4000"`
}

// ReviewApplicationRequest mueve la postulación en la revisión
type ReviewApplicationRequest struct {
	Status ApplicationStatus `json:"status" validate:"required"`
}

// ConvertApplicationRequest promueve la postulación a candidato+submission
type ConvertApplicationRequest struct {
	Skills        []string `json:"skills,omitempty"`
	ExperienceYrs int      `json:"experience_years" validate:"gte=0"`
	Headline      string   `json:"headline,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

// ConvertApplicationResponse devuelve lo creado por la conversión
type ConvertApplicationResponse struct {
	Application    ApplicationDTO `json:"application"`
	CandidateCode  string         `json:"candidate_code"`
	SubmissionCode string         `json:"submission_code"`
}

type ApplicationFilter struct {
	JobCode string
	Status  ApplicationStatus
	Search  string
	Limit   int
	Offset  int
}

type ApplicationListResponse struct {
	Applications []ApplicationDTO `json:"applications"`
	Total        int              `json:"total"`
	Limit        int              `json:"limit"`
	Offset       int              `json:"offset"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("APPLICATION")

var (
	CodeApplicationNotFound      = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Postulación no encontrada")
	CodeTransitionNotAllowed     = ErrRegistry.Register("TRANSITION_NOT_ALLOWED", errx.TypeBusiness, http.StatusConflict, "Transición de revisión no permitida")
	CodeInvalidStatus            = ErrRegistry.Register("INVALID_STATUS", errx.TypeValidation, http.StatusBadRequest, "Estado de postulación desconocido")
	CodeNotShortlisted           = ErrRegistry.Register("NOT_SHORTLISTED", errx.TypeBusiness, http.StatusConflict, "Solo postulaciones shortlisted pueden convertirse")
	CodeDuplicateApplication     = ErrRegistry.Register("DUPLICATE", errx.TypeConflict, http.StatusConflict, "Ya existe una postulación de este email para el puesto")
	CodeJobNotAcceptingApplicant = ErrRegistry.Register("JOB_NOT_ACCEPTING", errx.TypeBusiness, http.StatusConflict, "El puesto no acepta postulaciones")
)

func ErrApplicationNotFound() *errx.Error {
	return ErrRegistry.New(CodeApplicationNotFound)
}

// ErrApplicationTransitionNotAllowed nombra el estado actual y el solicitado
func ErrApplicationTransitionNotAllowed(current, requested ApplicationStatus) *errx.Error {
	return ErrRegistry.NewWithMessage(CodeTransitionNotAllowed,
		"Cannot transition application from "+string(current)+" to "+string(requested)).
		WithDetail("current_status", string(current)).
		WithDetail("requested_status", string(requested))
}

func ErrInvalidApplicationStatus(status string) *errx.Error {
	return ErrRegistry.New(CodeInvalidStatus).WithDetail("status", status)
}

func ErrNotShortlisted() *errx.Error {
	return ErrRegistry.New(CodeNotShortlisted)
}

func ErrDuplicateApplication() *errx.Error {
	return ErrRegistry.New(CodeDuplicateApplication)
}

func ErrJobNotAccepting() *errx.Error {
	return ErrRegistry.New(CodeJobNotAcceptingApplicant)
}
