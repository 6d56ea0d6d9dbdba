package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/proconsultancy/backend/pkg/errx"
	"github.com/proconsultancy/backend/pkg/kernel"
)

// ============================================================================
// Ports
// ============================================================================

// TokenClaims contiene los claims decodificados de un access token
type TokenClaims struct {
	UserID    kernel.UserID
	Email     string
	Name      string
	Scopes    []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService define el contrato para emisión y validación de tokens
type TokenService interface {
	GenerateAccessToken(userID kernel.UserID, claims map[string]any) (string, error)
	ValidateAccessToken(tokenString string) (*TokenClaims, error)
}

// RefreshTokenStore almacena refresh tokens opacos con TTL.
// Consume es one-shot: obtiene y elimina el token (rotación).
type RefreshTokenStore interface {
	Store(ctx context.Context, token string, userID kernel.UserID) error
	Consume(ctx context.Context, token string) (kernel.UserID, error)
	Revoke(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, userID kernel.UserID) error
}

// ============================================================================
// DTOs
// ============================================================================

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("AUTH")

var (
	CodeTokenGenerationFailed = ErrRegistry.Register("TOKEN_GENERATION_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to generate token")
	CodeTokenValidationFailed = ErrRegistry.Register("TOKEN_VALIDATION_FAILED", errx.TypeAuthorization, http.StatusUnauthorized, "Invalid or expired token")
	CodeRefreshTokenInvalid   = ErrRegistry.Register("REFRESH_TOKEN_INVALID", errx.TypeAuthorization, http.StatusUnauthorized, "Invalid or expired refresh token")
)

func ErrTokenGenerationFailed() *errx.Error {
	return ErrRegistry.New(CodeTokenGenerationFailed)
}

func ErrTokenValidationFailed() *errx.Error {
	return ErrRegistry.New(CodeTokenValidationFailed)
}

func ErrRefreshTokenInvalid() *errx.Error {
	return ErrRegistry.New(CodeRefreshTokenInvalid)
}
