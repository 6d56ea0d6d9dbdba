package candidate

import (
	"net/http"
	"time"

	"github.com/lib/pq"

	"github.com/proconsultancy/backend/pkg/errx"
	"github.com/proconsultancy/backend/pkg/kernel"
)

// ============================================================================
// Candidate Entity
// ============================================================================

// CandidateStatus define la disponibilidad del candidato
type CandidateStatus string

const (
	CandidateStatusActive       CandidateStatus = "active"
	CandidateStatusPassive      CandidateStatus = "passive"
	CandidateStatusPlaced       CandidateStatus = "placed"
	CandidateStatusDoNotContact CandidateStatus = "do_not_contact"
	CandidateStatusArchived     CandidateStatus = "archived"
)

// Candidate es una persona en la base de talento de la consultora
type Candidate struct {
	ID             int64           `db:"id" json:"-"`
	CandidateCode  string          `db:"candidate_code" json:"candidate_code"`
	Name           string          `db:"name" json:"name"`
	Email          string          `db:"email" json:"email"`
	Phone          string          `db:"phone" json:"phone,omitempty"`
	Headline       string          `db:"headline" json:"headline,omitempty"`
	Skills         pq.StringArray  `db:"skills" json:"skills"`
	ExperienceYrs  int             `db:"experience_years" json:"experience_years"`
	CurrentSalary  *float64        `db:"current_salary" json:"current_salary,omitempty"`
	ExpectedSalary *float64        `db:"expected_salary" json:"expected_salary,omitempty"`
	Source         string          `db:"source" json:"source,omitempty"`
	Status         CandidateStatus `db:"status" json:"status"`
	CVKey          *string         `db:"cv_key" json:"-"`

	CreatedBy kernel.UserID `db:"created_by" json:"created_by"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
	DeletedAt *time.Time    `db:"deleted_at" json:"-"`
}

// IsDeleted verifica el soft delete
func (c *Candidate) IsDeleted() bool {
	return c.DeletedAt != nil
}

// HasCV verifica si el candidato tiene un CV almacenado
func (c *Candidate) HasCV() bool {
	return c.CVKey != nil && *c.CVKey != ""
}

// MarkDeleted aplica el soft delete
func (c *Candidate) MarkDeleted() {
	now := time.Now()
	c.DeletedAt = &now
	c.UpdatedAt = now
}

// ValidCandidateStatuses enumera los estados conocidos
var ValidCandidateStatuses = []CandidateStatus{
	CandidateStatusActive,
	CandidateStatusPassive,
	CandidateStatusPlaced,
	CandidateStatusDoNotContact,
	CandidateStatusArchived,
}

// IsValidStatus verifica que el valor pertenezca a la enumeración
func IsValidStatus(status CandidateStatus) bool {
	for _, s := range ValidCandidateStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// ============================================================================
// DTOs
// ============================================================================

type CandidateDTO struct {
	CandidateCode  string          `json:"candidate_code"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone,omitempty"`
	Headline       string          `json:"headline,omitempty"`
	Skills         []string        `json:"skills"`
	ExperienceYrs  int             `json:"experience_years"`
	CurrentSalary  *float64        `json:"current_salary,omitempty"`
	ExpectedSalary *float64        `json:"expected_salary,omitempty"`
	Source         string          `json:"source,omitempty"`
	Status         CandidateStatus `json:"status"`
	HasCV          bool            `json:"has_cv"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (c *Candidate) ToDTO() CandidateDTO {
	return CandidateDTO{
		CandidateCode:  c.CandidateCode,
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		Headline:       c.Headline,
		Skills:         c.Skills,
		ExperienceYrs:  c.ExperienceYrs,
		CurrentSalary:  c.CurrentSalary,
		ExpectedSalary: c.ExpectedSalary,
		Source:         c.Source,
		Status:         c.Status,
		HasCV:          c.HasCV(),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

type CreateCandidateRequest struct {
	Name           string   `json:"name" validate:"required"`
	Email          string   `json:"email" validate:"required,email"`
	Phone          string   `json:"phone,omitempty"`
	Headline       string   `json:"headline,omitempty"`
	Skills         []string `json:"skills,omitempty"`
	ExperienceYrs  int      `json:"experience_years" validate:"gte=0"`
	CurrentSalary  *float64 `json:"current_salary,omitempty" validate:"omitempty,gt=0"`
	ExpectedSalary *float64 `json:"expected_salary,omitempty" validate:"omitempty,gt=0"`
	Source         string   `json:"source,omitempty"`
}

type UpdateCandidateRequest struct {
	Name           *string          `json:"name,omitempty"`
	Email          *string          `json:"email,omitempty" validate:"omitempty,email"`
	Phone          *string          `json:"phone,omitempty"`
	Headline       *string          `json:"headline,omitempty"`
	Skills         []string         `json:"skills,omitempty"`
	ExperienceYrs  *int             `json:"experience_years,omitempty" validate:"omitempty,gte=0"`
	CurrentSalary  *float64         `json:"current_salary,omitempty" validate:"omitempty,gt=0"`
	ExpectedSalary *float64         `json:"expected_salary,omitempty" validate:"omitempty,gt=0"`
	Source         *string          `json:"source,omitempty"`
	Status         *CandidateStatus `json:"status,omitempty"`
}

type CandidateFilter struct {
	Status CandidateStatus
	Skill  string
	Search string
	Limit  int
	Offset int
}

type CandidateListResponse struct {
	Candidates []CandidateDTO `json:"candidates"`
	Total      int            `json:"total"`
	Limit      int            `json:"limit"`
	Offset     int            `json:"offset"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("CANDIDATE")

var (
	CodeCandidateNotFound      = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Candidato no encontrado")
	CodeCandidateAlreadyExists = ErrRegistry.Register("ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "Ya existe un candidato con ese email")
	CodeInvalidCandidateStatus = ErrRegistry.Register("INVALID_STATUS", errx.TypeValidation, http.StatusBadRequest, "Estado de candidato desconocido")
	CodeCVNotFound             = ErrRegistry.Register("CV_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "El candidato no tiene CV almacenado")
	CodeCVTooLarge             = ErrRegistry.Register("CV_TOO_LARGE", errx.TypeValidation, http.StatusBadRequest, "El CV supera el tamaño máximo permitido")
	CodeCVInvalidType          = ErrRegistry.Register("CV_INVALID_TYPE", errx.TypeValidation, http.StatusBadRequest, "Tipo de archivo de CV no soportado")
)

func ErrCandidateNotFound() *errx.Error {
	return ErrRegistry.New(CodeCandidateNotFound)
}

func ErrCandidateAlreadyExists() *errx.Error {
	return ErrRegistry.New(CodeCandidateAlreadyExists)
}

func ErrInvalidCandidateStatus(status string) *errx.Error {
	return ErrRegistry.New(CodeInvalidCandidateStatus).WithDetail("status", status)
}

func ErrCVNotFound() *errx.Error {
	return ErrRegistry.New(CodeCVNotFound)
}

func ErrCVTooLarge() *errx.Error {
	return ErrRegistry.New(CodeCVTooLarge)
}

func ErrCVInvalidType() *errx.Error {
	return ErrRegistry.New(CodeCVInvalidType)
}
