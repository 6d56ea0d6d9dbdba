package auth

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/proconsultancy/backend/pkg/config"
	"github.com/proconsultancy/backend/pkg/iam"
	"github.com/proconsultancy/backend/pkg/iam/user"
	"github.com/proconsultancy/backend/pkg/logx"
)

// AuthHandlers maneja login, refresh y logout del panel
type AuthHandlers struct {
	userRepo     user.UserRepository
	passwordSvc  user.PasswordService
	tokenService *JWTService
	refreshStore RefreshTokenStore
	cfg          *config.Config
	validate     *validator.Validate
}

func NewAuthHandlers(
	userRepo user.UserRepository,
	passwordSvc user.PasswordService,
	tokenService *JWTService,
	refreshStore RefreshTokenStore,
	cfg *config.Config,
) *AuthHandlers {
	return &AuthHandlers{
		userRepo:     userRepo,
		passwordSvc:  passwordSvc,
		tokenService: tokenService,
		refreshStore: refreshStore,
		cfg:          cfg,
		validate:     validator.New(),
	}
}

func (h *AuthHandlers) RegisterRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/login", h.Login)
	authGroup.Post("/refresh", h.Refresh)
	authGroup.Post("/logout", h.Logout)

	authMiddleware := NewTokenMiddleware(h.tokenService)
	authGroup.Get("/me", authMiddleware.Authenticate(), h.Me)
}

// Login autentica con email y contraseña y emite el par de tokens
func (h *AuthHandlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	userEntity, err := h.userRepo.FindByEmail(c.Context(), req.Email)
	if err != nil {
		// No distinguir "usuario no existe" de "contraseña incorrecta"
		return iam.ErrInvalidCredentials()
	}

	if !h.passwordSvc.VerifyPassword(userEntity.PasswordHash, req.Password) {
		return iam.ErrInvalidCredentials()
	}

	if !userEntity.CanLogin() {
		return user.ErrUserSuspended().WithDetail("status", userEntity.Status)
	}

	pair, err := h.issueTokenPair(c, userEntity)
	if err != nil {
		return err
	}

	userEntity.UpdateLastLogin()
	if err := h.userRepo.Save(c.Context(), *userEntity); err != nil {
		logx.Errorf("Failed to record last login for %s: %v", userEntity.ID, err)
	}

	h.setAuthCookies(c, pair)
	return c.JSON(pair)
}

// Refresh rota el refresh token y emite un nuevo par
func (h *AuthHandlers) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	_ = c.BodyParser(&req)

	token := req.RefreshToken
	if token == "" {
		token = c.Cookies(h.cfg.Auth.Cookie.RefreshTokenName)
	}
	if token == "" {
		return ErrRefreshTokenInvalid()
	}

	userID, err := h.refreshStore.Consume(c.Context(), token)
	if err != nil {
		return err
	}

	userEntity, err := h.userRepo.FindByID(c.Context(), userID)
	if err != nil {
		return ErrRefreshTokenInvalid()
	}

	if !userEntity.CanLogin() {
		return user.ErrUserSuspended().WithDetail("status", userEntity.Status)
	}

	pair, err := h.issueTokenPair(c, userEntity)
	if err != nil {
		return err
	}

	h.setAuthCookies(c, pair)
	return c.JSON(pair)
}

// Logout revoca el refresh token y limpia cookies
func (h *AuthHandlers) Logout(c *fiber.Ctx) error {
	var req RefreshRequest
	_ = c.BodyParser(&req)

	token := req.RefreshToken
	if token == "" {
		token = c.Cookies(h.cfg.Auth.Cookie.RefreshTokenName)
	}
	if token != "" {
		if err := h.refreshStore.Revoke(c.Context(), token); err != nil {
			logx.Errorf("Failed to revoke refresh token: %v", err)
		}
	}

	h.clearAuthCookies(c)
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// Me devuelve la identidad autenticada de la request
func (h *AuthHandlers) Me(c *fiber.Ctx) error {
	authContext, ok := GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	userEntity, err := h.userRepo.FindByID(c.Context(), authContext.UserID)
	if err != nil {
		return err
	}

	return c.JSON(userEntity.ToDTO())
}

// ============================================================================
// Helpers
// ============================================================================

func (h *AuthHandlers) issueTokenPair(c *fiber.Ctx, u *user.User) (*TokenPairResponse, error) {
	accessToken, err := h.tokenService.GenerateAccessToken(u.ID, map[string]any{
		"email":  u.Email,
		"name":   u.Name,
		"scopes": []string(u.Scopes),
	})
	if err != nil {
		return nil, err
	}

	refreshToken := uuid.NewString()
	if err := h.refreshStore.Store(c.Context(), refreshToken, u.ID); err != nil {
		return nil, err
	}

	return &TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(h.tokenService.AccessTokenTTL().Seconds()),
	}, nil
}

func (h *AuthHandlers) setAuthCookies(c *fiber.Ctx, pair *TokenPairResponse) {
	cookieCfg := h.cfg.Auth.Cookie

	c.Cookie(&fiber.Cookie{
		Name:     cookieCfg.AccessTokenName,
		Value:    pair.AccessToken,
		Path:     cookieCfg.Path,
		Domain:   cookieCfg.Domain,
		Secure:   cookieCfg.Secure,
		HTTPOnly: cookieCfg.HTTPOnly,
		SameSite: cookieCfg.SameSite,
		Expires:  time.Now().Add(h.cfg.Auth.JWT.AccessTokenTTL),
	})

	c.Cookie(&fiber.Cookie{
		Name:     cookieCfg.RefreshTokenName,
		Value:    pair.RefreshToken,
		Path:     cookieCfg.Path,
		Domain:   cookieCfg.Domain,
		Secure:   cookieCfg.Secure,
		HTTPOnly: cookieCfg.HTTPOnly,
		SameSite: cookieCfg.SameSite,
		Expires:  time.Now().Add(h.cfg.Auth.JWT.RefreshTokenTTL),
	})
}

func (h *AuthHandlers) clearAuthCookies(c *fiber.Ctx) {
	cookieCfg := h.cfg.Auth.Cookie

	for _, name := range []string{cookieCfg.AccessTokenName, cookieCfg.RefreshTokenName} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     cookieCfg.Path,
			Domain:   cookieCfg.Domain,
			Secure:   cookieCfg.Secure,
			HTTPOnly: cookieCfg.HTTPOnly,
			SameSite: cookieCfg.SameSite,
			Expires:  time.Now().Add(-time.Hour),
		})
	}
}
