package user

import (
	"net/http"
	"time"

	"github.com/lib/pq"

	"github.com/proconsultancy/backend/pkg/errx"
	"github.com/proconsultancy/backend/pkg/kernel"
)

// ============================================================================
// User Entity
// ============================================================================

// UserStatus define los posibles estados de un usuario del panel
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusInactive  UserStatus = "INACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User es un usuario del panel de administración
type User struct {
	ID           kernel.UserID  `db:"id" json:"id"`
	Email        string         `db:"email" json:"email"`
	Name         string         `db:"name" json:"name"`
	PasswordHash string         `db:"password_hash" json:"-"` // Never expose the hash
	Status       UserStatus     `db:"status" json:"status"`
	Scopes       pq.StringArray `db:"scopes" json:"scopes"`
	LastLoginAt  *time.Time     `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// ============================================================================
// Domain Methods
// ============================================================================

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// CanLogin verifica si el usuario puede iniciar sesión
func (u *User) CanLogin() bool {
	return u.IsActive()
}

// Suspend suspende un usuario activo
func (u *User) Suspend() error {
	if !u.IsActive() {
		return ErrInvalidStatus().WithDetail("current_status", u.Status)
	}
	u.Status = UserStatusSuspended
	u.UpdatedAt = time.Now()
	return nil
}

// Reactivate vuelve a activar un usuario inactivo o suspendido
func (u *User) Reactivate() error {
	if u.IsActive() {
		return ErrInvalidStatus().WithDetail("current_status", u.Status)
	}
	u.Status = UserStatusActive
	u.UpdatedAt = time.Now()
	return nil
}

// UpdateLastLogin actualiza la fecha del último login
func (u *User) UpdateLastLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// ============================================================================
// Scope Management Methods
// ============================================================================

// HasScope verifica si el usuario tiene un scope (exacto o por wildcard)
func (u *User) HasScope(scope string) bool {
	for _, s := range u.Scopes {
		if s == scope || s == "*" {
			return true
		}
		if len(s) > 2 && s[len(s)-2:] == ":*" {
			prefix := s[:len(s)-2]
			if len(scope) > len(prefix) && scope[:len(prefix)] == prefix && scope[len(prefix)] == ':' {
				return true
			}
		}
	}
	return false
}

func (u *User) IsAdmin() bool {
	return u.HasScope("*") || u.HasScope("admin:*")
}

// SetScopes establece los scopes del usuario
func (u *User) SetScopes(scopes []string) {
	u.Scopes = scopes
	u.UpdatedAt = time.Now()
}

// AuthContext construye el contexto de request para este usuario
func (u *User) AuthContext() *kernel.AuthContext {
	return &kernel.AuthContext{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Scopes: u.Scopes,
	}
}

// ============================================================================
// DTOs
// ============================================================================

// UserDTO es la representación pública de un usuario
type UserDTO struct {
	ID          kernel.UserID `json:"id"`
	Email       string        `json:"email"`
	Name        string        `json:"name"`
	Status      UserStatus    `json:"status"`
	Scopes      []string      `json:"scopes"`
	LastLoginAt *time.Time    `json:"last_login_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

func (u *User) ToDTO() UserDTO {
	return UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Status:      u.Status,
		Scopes:      u.Scopes,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// CreateUserRequest representa la petición para crear un usuario
type CreateUserRequest struct {
	Email    string   `json:"email" validate:"required,email"`
	Name     string   `json:"name" validate:"required,min=2"`
	Password string   `json:"password" validate:"required,min=8"`
	Scopes   []string `json:"scopes,omitempty"` // Direct scopes
	Role     *string  `json:"role,omitempty"`   // Scope group name (e.g. "recruiter", "manager")
}

// UpdateUserRequest representa la petición para actualizar un usuario
type UpdateUserRequest struct {
	Name   *string     `json:"name,omitempty" validate:"omitempty,min=2"`
	Status *UserStatus `json:"status,omitempty"`
	Scopes []string    `json:"scopes,omitempty"`
	Role   *string     `json:"role,omitempty"`
}

// ChangePasswordRequest para cambiar la contraseña propia
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// UserListResponse para listas de usuarios
type UserListResponse struct {
	Users []UserDTO `json:"users"`
	Total int       `json:"total"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("USER")

var (
	CodeUserNotFound      = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "User not found")
	CodeUserAlreadyExists = ErrRegistry.Register("ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "A user with this email already exists")
	CodeUserSuspended     = ErrRegistry.Register("SUSPENDED", errx.TypeBusiness, http.StatusForbidden, "User is suspended")
	CodeInvalidStatus     = ErrRegistry.Register("INVALID_STATUS", errx.TypeBusiness, http.StatusBadRequest, "User status does not allow this operation")
	CodeInvalidScopes     = ErrRegistry.Register("INVALID_SCOPES", errx.TypeValidation, http.StatusBadRequest, "Invalid scopes")
	CodeInvalidRole       = ErrRegistry.Register("INVALID_ROLE", errx.TypeValidation, http.StatusBadRequest, "Unknown role")
)

func ErrUserNotFound() *errx.Error {
	return ErrRegistry.New(CodeUserNotFound)
}

func ErrUserAlreadyExists() *errx.Error {
	return ErrRegistry.New(CodeUserAlreadyExists)
}

func ErrUserSuspended() *errx.Error {
	return ErrRegistry.New(CodeUserSuspended)
}

func ErrInvalidStatus() *errx.Error {
	return ErrRegistry.New(CodeInvalidStatus)
}

func ErrInvalidScopes() *errx.Error {
	return ErrRegistry.New(CodeInvalidScopes)
}

func ErrInvalidRole() *errx.Error {
	return ErrRegistry.New(CodeInvalidRole)
}
