package userapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/proconsultancy/backend/pkg/iam"
	"github.com/proconsultancy/backend/pkg/iam/auth"
	"github.com/proconsultancy/backend/pkg/iam/scopes"
	"github.com/proconsultancy/backend/pkg/iam/user"
	"github.com/proconsultancy/backend/pkg/iam/user/usersrv"
	"github.com/proconsultancy/backend/pkg/kernel"
)

type UserHandlers struct {
	service  *usersrv.UserService
	validate *validator.Validate
}

func NewUserHandlers(service *usersrv.UserService) *UserHandlers {
	return &UserHandlers{
		service:  service,
		validate: validator.New(),
	}
}

func (h *UserHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.TokenMiddleware) {
	users := router.Group("/users", authMiddleware.Authenticate())

	users.Get("/", authMiddleware.RequireScope(scopes.ScopeUsersRead), h.ListUsers)
	users.Post("/", authMiddleware.RequireScope(scopes.ScopeUsersWrite), h.CreateUser)
	users.Get("/:id", authMiddleware.RequireScope(scopes.ScopeUsersRead), h.GetUser)
	users.Put("/:id", authMiddleware.RequireScope(scopes.ScopeUsersWrite), h.UpdateUser)
	users.Delete("/:id", authMiddleware.RequireScope(scopes.ScopeUsersDelete), h.DeleteUser)
	users.Post("/me/password", h.ChangePassword)
}

func (h *UserHandlers) ListUsers(c *fiber.Ctx) error {
	response, err := h.service.ListUsers(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(response)
}

func (h *UserHandlers) CreateUser(c *fiber.Ctx) error {
	var req user.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	created, err := h.service.CreateUser(c.Context(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created.ToDTO())
}

func (h *UserHandlers) GetUser(c *fiber.Ctx) error {
	userID := kernel.NewUserID(c.Params("id"))

	found, err := h.service.GetUserByID(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(found.ToDTO())
}

func (h *UserHandlers) UpdateUser(c *fiber.Ctx) error {
	userID := kernel.NewUserID(c.Params("id"))

	var req user.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	updated, err := h.service.UpdateUser(c.Context(), userID, req)
	if err != nil {
		return err
	}

	return c.JSON(updated.ToDTO())
}

func (h *UserHandlers) DeleteUser(c *fiber.Ctx) error {
	userID := kernel.NewUserID(c.Params("id"))

	if err := h.service.DeleteUser(c.Context(), userID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

func (h *UserHandlers) ChangePassword(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req user.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.service.ChangePassword(c.Context(), authContext.UserID, req); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}
