package clientapi

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/proconsultancy/backend/pkg/ats/client"
	"github.com/proconsultancy/backend/pkg/ats/client/clientsrv"
	"github.com/proconsultancy/backend/pkg/iam"
	"github.com/proconsultancy/backend/pkg/iam/auth"
	"github.com/proconsultancy/backend/pkg/iam/scopes"
)

type ClientHandlers struct {
	service  *clientsrv.ClientService
	validate *validator.Validate
}

func NewClientHandlers(service *clientsrv.ClientService) *ClientHandlers {
	return &ClientHandlers{
		service:  service,
		validate: validator.New(),
	}
}

func (h *ClientHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.TokenMiddleware) {
	clients := router.Group("/clients", authMiddleware.Authenticate())

	clients.Get("/", authMiddleware.RequireScope(scopes.ScopeClientsRead), h.ListClients)
	clients.Post("/", authMiddleware.RequireScope(scopes.ScopeClientsWrite), h.CreateClient)
	clients.Get("/:code", authMiddleware.RequireScope(scopes.ScopeClientsRead), h.GetClient)
	clients.Put("/:code", authMiddleware.RequireScope(scopes.ScopeClientsWrite), h.UpdateClient)
	clients.Delete("/:code", authMiddleware.RequireScope(scopes.ScopeClientsDelete), h.DeleteClient)
}

func (h *ClientHandlers) ListClients(c *fiber.Ctx) error {
	filter := client.ClientFilter{
		Status: client.ClientStatus(c.Query("status")),
		Search: c.Query("search"),
	}
	filter.Limit, _ = strconv.Atoi(c.Query("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.Query("offset", "0"))

	response, err := h.service.ListClients(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(response)
}

func (h *ClientHandlers) CreateClient(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req client.CreateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	created, err := h.service.CreateClient(c.Context(), *authContext, req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created.ToDTO())
}

func (h *ClientHandlers) GetClient(c *fiber.Ctx) error {
	found, err := h.service.GetClient(c.Context(), c.Params("code"))
	if err != nil {
		return err
	}
	return c.JSON(found.ToDTO())
}

func (h *ClientHandlers) UpdateClient(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req client.UpdateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	updated, err := h.service.UpdateClient(c.Context(), *authContext, c.Params("code"), req)
	if err != nil {
		return err
	}

	return c.JSON(updated.ToDTO())
}

func (h *ClientHandlers) DeleteClient(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	if err := h.service.DeleteClient(c.Context(), *authContext, c.Params("code")); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Client deleted successfully"})
}
