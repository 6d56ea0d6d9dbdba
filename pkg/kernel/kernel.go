package kernel

import (
	"strings"

	"github.com/google/uuid"
)

// ============================================================================
// Typed IDs
// ============================================================================

// UserID identifica a un usuario del panel
type UserID string

func NewUserID(id string) UserID { return UserID(id) }

func (id UserID) String() string { return string(id) }

func (id UserID) IsEmpty() bool { return id == "" }

// ============================================================================
// Entity codes
// ============================================================================

// Entity code prefixes. Codes are the human-facing identifiers
// (CND-9F3A2C1B); they are immutable once assigned.
const (
	CodePrefixCandidate   = "CND"
	CodePrefixClient      = "CLT"
	CodePrefixJob         = "JOB"
	CodePrefixSubmission  = "SUB"
	CodePrefixApplication = "APP"
)

// NewEntityCode genera un código único con el prefijo dado, p.ej. "SUB-9F3A2C1B"
func NewEntityCode(prefix string) string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return prefix + "-" + raw[:8]
}

// ============================================================================
// AuthContext - request-scoped identity, reemplaza cualquier estado global
// ============================================================================

// AuthContext acarrea la identidad autenticada de la request
type AuthContext struct {
	UserID UserID   `json:"user_id"`
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	Scopes []string `json:"scopes"`
}

func (ac *AuthContext) IsValid() bool {
	return ac != nil && !ac.UserID.IsEmpty()
}

// HasScope verifica un scope exacto o cubierto por wildcard ("*", "jobs:*")
func (ac *AuthContext) HasScope(scope string) bool {
	if ac == nil {
		return false
	}
	for _, s := range ac.Scopes {
		if s == scope || s == "*" {
			return true
		}
		if strings.HasSuffix(s, ":*") {
			prefix := strings.TrimSuffix(s, ":*")
			if strings.HasPrefix(scope, prefix+":") {
				return true
			}
		}
	}
	return false
}

func (ac *AuthContext) HasAnyScope(scopes ...string) bool {
	for _, scope := range scopes {
		if ac.HasScope(scope) {
			return true
		}
	}
	return false
}

func (ac *AuthContext) HasAllScopes(scopes ...string) bool {
	for _, scope := range scopes {
		if !ac.HasScope(scope) {
			return false
		}
	}
	return true
}

func (ac *AuthContext) IsAdmin() bool {
	return ac.HasAnyScope("*", "admin:*")
}
