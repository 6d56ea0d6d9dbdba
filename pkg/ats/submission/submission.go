package submission

import (
	"net/http"
	"time"

	"github.com/proconsultancy/backend/pkg/errx"
	"github.com/proconsultancy/backend/pkg/kernel"
)

// ============================================================================
// Submission Entity
// ============================================================================

// InternalStatus es el estado de aprobación interna de una submission
type InternalStatus string

const (
	InternalStatusPending   InternalStatus = "pending"
	InternalStatusApproved  InternalStatus = "approved"
	InternalStatusRejected  InternalStatus = "rejected"
	InternalStatusWithdrawn InternalStatus = "withdrawn"
)

// ClientStatus es el estado del pipeline externo frente al cliente
type ClientStatus string

const (
	ClientStatusNotSent      ClientStatus = "not_sent"
	ClientStatusSubmitted    ClientStatus = "submitted"
	ClientStatusInterviewing ClientStatus = "interviewing"
	ClientStatusOffered      ClientStatus = "offered"
	ClientStatusPlaced       ClientStatus = "placed"
	ClientStatusRejected     ClientStatus = "rejected"
	ClientStatusWithdrawn    ClientStatus = "withdrawn"
)

// Submission es la propuesta de un candidato para un puesto. Lleva dos
// estados independientes: el gate interno de aprobación y el pipeline
// del cliente. El código es inmutable una vez creado.
type Submission struct {
	ID             int64          `db:"id" json:"-"`
	SubmissionCode string         `db:"submission_code" json:"submission_code"`
	CandidateCode  string         `db:"candidate_code" json:"candidate_code"`
	JobCode        string         `db:"job_code" json:"job_code"`
	InternalStatus InternalStatus `db:"internal_status" json:"internal_status"`
	ClientStatus   ClientStatus   `db:"client_status" json:"client_status"`

	ExpectedSalary *float64 `db:"expected_salary" json:"expected_salary,omitempty"`
	Notes          string   `db:"notes" json:"notes,omitempty"`

	ApprovedBy      *kernel.UserID `db:"approved_by" json:"approved_by,omitempty"`
	RejectionReason *string        `db:"rejection_reason" json:"rejection_reason,omitempty"`
	WithdrawReason  *string        `db:"withdraw_reason" json:"withdraw_reason,omitempty"`

	// Timestamps de transición, write-once
	ApprovedAt     *time.Time `db:"approved_at" json:"approved_at,omitempty"`
	SentToClientAt *time.Time `db:"sent_to_client_at" json:"sent_to_client_at,omitempty"`
	InterviewDate  *time.Time `db:"interview_date" json:"interview_date,omitempty"`
	OfferDate      *time.Time `db:"offer_date" json:"offer_date,omitempty"`
	PlacementDate  *time.Time `db:"placement_date" json:"placement_date,omitempty"`
	WithdrawnDate  *time.Time `db:"withdrawn_date" json:"withdrawn_date,omitempty"`

	CreatedBy kernel.UserID `db:"created_by" json:"created_by"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
	DeletedAt *time.Time    `db:"deleted_at" json:"-"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// IsApproved verifica si la submission pasó el gate interno
func (s *Submission) IsApproved() bool {
	return s.InternalStatus == InternalStatusApproved
}

// IsActive verifica si la submission sigue viva dentro del pipeline
func (s *Submission) IsActive() bool {
	return s.DeletedAt == nil &&
		s.InternalStatus != InternalStatusRejected &&
		s.InternalStatus != InternalStatusWithdrawn &&
		!IsTerminalClientStatus(s.ClientStatus)
}

// IsDeleted verifica el soft delete
func (s *Submission) IsDeleted() bool {
	return s.DeletedAt != nil
}

// Approve mueve el gate interno de pending a approved. Irreversible.
func (s *Submission) Approve(approver kernel.UserID) error {
	if s.InternalStatus != InternalStatusPending {
		return ErrAlreadyDecided().
			WithMessage("Submission already " + string(s.InternalStatus)).
			WithDetail("internal_status", string(s.InternalStatus))
	}

	now := time.Now()
	s.InternalStatus = InternalStatusApproved
	s.ApprovedBy = &approver
	s.ApprovedAt = &now
	s.UpdatedAt = now
	return nil
}

// RejectInternal mueve el gate interno de pending a rejected.
// La razón es obligatoria y se guarda tal cual. Irreversible.
func (s *Submission) RejectInternal(approver kernel.UserID, reason string) error {
	if reason == "" {
		return ErrReasonRequired()
	}
	if s.InternalStatus != InternalStatusPending {
		return ErrAlreadyDecided().
			WithMessage("Submission already " + string(s.InternalStatus)).
			WithDetail("internal_status", string(s.InternalStatus))
	}

	now := time.Now()
	s.InternalStatus = InternalStatusRejected
	s.ApprovedBy = &approver
	s.RejectionReason = &reason
	s.UpdatedAt = now
	return nil
}

// SendToClient mueve el pipeline de not_sent a submitted.
// Requiere aprobación interna previa.
func (s *Submission) SendToClient() error {
	if !s.IsApproved() {
		return ErrNotApproved().WithDetail("internal_status", string(s.InternalStatus))
	}
	if s.ClientStatus != ClientStatusNotSent {
		return ErrTransitionNotAllowed(s.ClientStatus, ClientStatusSubmitted)
	}

	now := time.Now()
	s.ClientStatus = ClientStatusSubmitted
	s.SentToClientAt = &now
	s.UpdatedAt = now
	return nil
}

// AdvanceClientStatus aplica una transición del pipeline validándola
// contra la tabla autoritativa. Todos los handlers pasan por aquí;
// ninguno confía en que la UI solo muestre el siguiente paso válido.
func (s *Submission) AdvanceClientStatus(requested ClientStatus, when time.Time) error {
	if !s.IsApproved() {
		return ErrNotApproved().WithDetail("internal_status", string(s.InternalStatus))
	}
	if err := ValidateTransition(s.ClientStatus, requested); err != nil {
		return err
	}

	now := time.Now()
	s.ClientStatus = requested
	s.stampTransition(requested, when)
	s.UpdatedAt = now
	return nil
}

// stampTransition fija el timestamp write-once de la etapa alcanzada
func (s *Submission) stampTransition(status ClientStatus, when time.Time) {
	switch status {
	case ClientStatusSubmitted:
		if s.SentToClientAt == nil {
			s.SentToClientAt = &when
		}
	case ClientStatusInterviewing:
		if s.InterviewDate == nil {
			s.InterviewDate = &when
		}
	case ClientStatusOffered:
		if s.OfferDate == nil {
			s.OfferDate = &when
		}
	case ClientStatusPlaced:
		if s.PlacementDate == nil {
			s.PlacementDate = &when
		}
	}
}

// Withdraw retira la submission del proceso. No se permite sobre un
// desenlace ya terminal (placed/rejected); fija ambos estados.
func (s *Submission) Withdraw(reason string) error {
	if reason == "" {
		return ErrReasonRequired()
	}
	switch s.ClientStatus {
	case ClientStatusPlaced, ClientStatusRejected:
		return ErrAlreadyTerminal().
			WithMessage("Submission already " + string(s.ClientStatus)).
			WithDetail("client_status", string(s.ClientStatus))
	case ClientStatusWithdrawn:
		return ErrAlreadyTerminal().
			WithMessage("Submission already withdrawn").
			WithDetail("client_status", string(s.ClientStatus))
	}

	now := time.Now()
	s.InternalStatus = InternalStatusWithdrawn
	s.ClientStatus = ClientStatusWithdrawn
	s.WithdrawReason = &reason
	s.WithdrawnDate = &now
	s.UpdatedAt = now
	return nil
}

// MarkDeleted aplica el soft delete; el historial nunca se borra físicamente
func (s *Submission) MarkDeleted() {
	now := time.Now()
	s.DeletedAt = &now
	s.UpdatedAt = now
}

// ============================================================================
// DTOs
// ============================================================================

// SubmissionDTO es la vista pública de una submission
type SubmissionDTO struct {
	SubmissionCode  string         `json:"submission_code"`
	CandidateCode   string         `json:"candidate_code"`
	JobCode         string         `json:"job_code"`
	InternalStatus  InternalStatus `json:"internal_status"`
	ClientStatus    ClientStatus   `json:"client_status"`
	ExpectedSalary  *float64       `json:"expected_salary,omitempty"`
	Notes           string         `json:"notes,omitempty"`
	RejectionReason *string        `json:"rejection_reason,omitempty"`
	WithdrawReason  *string        `json:"withdraw_reason,omitempty"`
	ApprovedAt      *time.Time     `json:"approved_at,omitempty"`
	SentToClientAt  *time.Time     `json:"sent_to_client_at,omitempty"`
	InterviewDate   *time.Time     `json:"interview_date,omitempty"`
	OfferDate       *time.Time     `json:"offer_date,omitempty"`
	PlacementDate   *time.Time     `json:"placement_date,omitempty"`
	WithdrawnDate   *time.Time     `json:"withdrawn_date,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// ToDTO convierte la entidad a su DTO
func (s *Submission) ToDTO() SubmissionDTO {
	return SubmissionDTO{
		SubmissionCode:  s.SubmissionCode,
		CandidateCode:   s.CandidateCode,
		JobCode:         s.JobCode,
		InternalStatus:  s.InternalStatus,
		ClientStatus:    s.ClientStatus,
		ExpectedSalary:  s.ExpectedSalary,
		Notes:           s.Notes,
		RejectionReason: s.RejectionReason,
		WithdrawReason:  s.WithdrawReason,
		ApprovedAt:      s.ApprovedAt,
		SentToClientAt:  s.SentToClientAt,
		InterviewDate:   s.InterviewDate,
		OfferDate:       s.OfferDate,
		PlacementDate:   s.PlacementDate,
		WithdrawnDate:   s.WithdrawnDate,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// CreateSubmissionRequest crea una submission candidato→puesto
type CreateSubmissionRequest struct {
	CandidateCode  string   `json:"candidate_code" validate:"required"`
	JobCode        string   `json:"job_code" validate:"required"`
	ExpectedSalary *float64 `json:"expected_salary,omitempty" validate:"omitempty,gt=0"`
	Notes          string   `json:"notes,omitempty"`
}

// RejectSubmissionRequest rechaza en el gate interno
type RejectSubmissionRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// UpdateClientStatusRequest es la transición genérica del pipeline
type UpdateClientStatusRequest struct {
	Status ClientStatus `json:"status" validate:"required"`
	Date   *time.Time   `json:"date,omitempty"`
	Notes  string       `json:"notes,omitempty"`
}

// RecordStageRequest registra interview/offer/placement con su fecha
type RecordStageRequest struct {
	Date  time.Time `json:"date" validate:"required"`
	Notes string    `json:"notes,omitempty"`
}

// WithdrawSubmissionRequest retira la submission
type WithdrawSubmissionRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// SubmissionFilter filtra el listado
type SubmissionFilter struct {
	CandidateCode  string
	JobCode        string
	InternalStatus InternalStatus
	ClientStatus   ClientStatus
	Limit          int
	Offset         int
}

// SubmissionListResponse pagina el listado
type SubmissionListResponse struct {
	Submissions []SubmissionDTO `json:"submissions"`
	Total       int             `json:"total"`
	Limit       int             `json:"limit"`
	Offset      int             `json:"offset"`
}

// ============================================================================
// Error Registry - Errores específicos de Submission
// ============================================================================

var ErrRegistry = errx.NewRegistry("SUBMISSION")

// Códigos de error
var (
	CodeNotFound             = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Submission no encontrada")
	CodeDuplicate            = ErrRegistry.Register("DUPLICATE", errx.TypeConflict, http.StatusConflict, "Ya existe una submission activa para este candidato y puesto")
	CodeTransitionNotAllowed = ErrRegistry.Register("TRANSITION_NOT_ALLOWED", errx.TypeBusiness, http.StatusConflict, "Transición de estado no permitida")
	CodeNotApproved          = ErrRegistry.Register("NOT_APPROVED", errx.TypeBusiness, http.StatusConflict, "La submission requiere aprobación interna")
	CodeAlreadyDecided       = ErrRegistry.Register("ALREADY_DECIDED", errx.TypeBusiness, http.StatusConflict, "El gate interno ya fue decidido")
	CodeAlreadyTerminal      = ErrRegistry.Register("ALREADY_TERMINAL", errx.TypeBusiness, http.StatusConflict, "La submission ya alcanzó un estado terminal")
	CodeReasonRequired       = ErrRegistry.Register("REASON_REQUIRED", errx.TypeValidation, http.StatusBadRequest, "Se requiere una razón no vacía")
	CodeInvalidStatus        = ErrRegistry.Register("INVALID_STATUS", errx.TypeValidation, http.StatusBadRequest, "Estado de pipeline desconocido")
	CodeDateRequired         = ErrRegistry.Register("DATE_REQUIRED", errx.TypeValidation, http.StatusBadRequest, "Se requiere la fecha de la etapa")
)

// Helper functions para crear errores
func ErrSubmissionNotFound() *errx.Error {
	return ErrRegistry.New(CodeNotFound)
}

func ErrDuplicateSubmission() *errx.Error {
	return ErrRegistry.New(CodeDuplicate)
}

// ErrTransitionNotAllowed nombra el estado actual y el solicitado
func ErrTransitionNotAllowed(current, requested ClientStatus) *errx.Error {
	return ErrRegistry.NewWithMessage(CodeTransitionNotAllowed,
		"Cannot transition from "+string(current)+" to "+string(requested)).
		WithDetail("current_status", string(current)).
		WithDetail("requested_status", string(requested))
}

func ErrNotApproved() *errx.Error {
	return ErrRegistry.New(CodeNotApproved)
}

func ErrAlreadyDecided() *errx.Error {
	return ErrRegistry.New(CodeAlreadyDecided)
}

func ErrAlreadyTerminal() *errx.Error {
	return ErrRegistry.New(CodeAlreadyTerminal)
}

func ErrReasonRequired() *errx.Error {
	return ErrRegistry.New(CodeReasonRequired)
}

func ErrInvalidStatus(status string) *errx.Error {
	return ErrRegistry.New(CodeInvalidStatus).WithDetail("status", status)
}

func ErrDateRequired() *errx.Error {
	return ErrRegistry.New(CodeDateRequired)
}
