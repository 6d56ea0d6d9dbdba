package client

import (
	"net/http"
	"time"

	"github.com/proconsultancy/backend/pkg/errx"
	"github.com/proconsultancy/backend/pkg/kernel"
)

// ============================================================================
// Client Entity
// ============================================================================

// ClientStatus define la relación comercial con el cliente
type ClientStatus string

const (
	ClientStatusProspect ClientStatus = "prospect"
	ClientStatusActive   ClientStatus = "active"
	ClientStatusOnHold   ClientStatus = "on_hold"
	ClientStatusFormer   ClientStatus = "former"
)

// Client es una empresa que contrata a través de la consultora
type Client struct {
	ID           int64        `db:"id" json:"-"`
	ClientCode   string       `db:"client_code" json:"client_code"`
	Name         string       `db:"name" json:"name"`
	Industry     string       `db:"industry" json:"industry"`
	ContactName  string       `db:"contact_name" json:"contact_name"`
	ContactEmail string       `db:"contact_email" json:"contact_email"`
	ContactPhone string       `db:"contact_phone" json:"contact_phone,omitempty"`
	Status       ClientStatus `db:"status" json:"status"`
	Notes        string       `db:"notes" json:"notes,omitempty"`

	CreatedBy kernel.UserID `db:"created_by" json:"created_by"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
	DeletedAt *time.Time    `db:"deleted_at" json:"-"`
}

// IsDeleted verifica el soft delete
func (c *Client) IsDeleted() bool {
	return c.DeletedAt != nil
}

// MarkDeleted aplica el soft delete
func (c *Client) MarkDeleted() {
	now := time.Now()
	c.DeletedAt = &now
	c.UpdatedAt = now
}

// ValidClientStatuses enumera los estados conocidos
var ValidClientStatuses = []ClientStatus{
	ClientStatusProspect,
	ClientStatusActive,
	ClientStatusOnHold,
	ClientStatusFormer,
}

// IsValidStatus verifica que el valor pertenezca a la enumeración
func IsValidStatus(status ClientStatus) bool {
	for _, s := range ValidClientStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// ============================================================================
// DTOs
// ============================================================================

type ClientDTO struct {
	ClientCode   string       `json:"client_code"`
	Name         string       `json:"name"`
	Industry     string       `json:"industry"`
	ContactName  string       `json:"contact_name"`
	ContactEmail string       `json:"contact_email"`
	ContactPhone string       `json:"contact_phone,omitempty"`
	Status       ClientStatus `json:"status"`
	Notes        string       `json:"notes,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (c *Client) ToDTO() ClientDTO {
	return ClientDTO{
		ClientCode:   c.ClientCode,
		Name:         c.Name,
		Industry:     c.Industry,
		ContactName:  c.ContactName,
		ContactEmail: c.ContactEmail,
		ContactPhone: c.ContactPhone,
		Status:       c.Status,
		Notes:        c.Notes,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

type CreateClientRequest struct {
	Name         string `json:"name" validate:"required"`
	Industry     string `json:"industry" validate:"required"`
	ContactName  string `json:"contact_name" validate:"required"`
	ContactEmail string `json:"contact_email" validate:"required,email"`
	ContactPhone string `json:"contact_phone,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

type UpdateClientRequest struct {
	Name         *string       `json:"name,omitempty"`
	Industry     *string       `json:"industry,omitempty"`
	ContactName  *string       `json:"contact_name,omitempty"`
	ContactEmail *string       `json:"contact_email,omitempty" validate:"omitempty,email"`
	ContactPhone *string       `json:"contact_phone,omitempty"`
	Status       *ClientStatus `json:"status,omitempty"`
	Notes        *string       `json:"notes,omitempty"`
}

type ClientFilter struct {
	Status ClientStatus
	Search string
	Limit  int
	Offset int
}

type ClientListResponse struct {
	Clients []ClientDTO `json:"clients"`
	Total   int         `json:"total"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("CLIENT")

var (
	CodeClientNotFound      = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Cliente no encontrado")
	CodeClientAlreadyExists = ErrRegistry.Register("ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "Ya existe un cliente con ese nombre")
	CodeInvalidClientStatus = ErrRegistry.Register("INVALID_STATUS", errx.TypeValidation, http.StatusBadRequest, "Estado de cliente desconocido")
)

func ErrClientNotFound() *errx.Error {
	return ErrRegistry.New(CodeClientNotFound)
}

func ErrClientAlreadyExists() *errx.Error {
	return ErrRegistry.New(CodeClientAlreadyExists)
}

func ErrInvalidClientStatus(status string) *errx.Error {
	return ErrRegistry.New(CodeInvalidClientStatus).WithDetail("status", status)
}
