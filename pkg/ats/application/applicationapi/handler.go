package applicationapi

import (
	"io"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/proconsultancy/backend/pkg/ats/application"
	"github.com/proconsultancy/backend/pkg/ats/application/applicationsrv"
	"github.com/proconsultancy/backend/pkg/iam"
	"github.com/proconsultancy/backend/pkg/iam/auth"
	"github.com/proconsultancy/backend/pkg/iam/scopes"
)

type ApplicationHandlers struct {
	service  *applicationsrv.ApplicationService
	validate *validator.Validate
}

func NewApplicationHandlers(service *applicationsrv.ApplicationService) *ApplicationHandlers {
	return &ApplicationHandlers{
		service:  service,
		validate: validator.New(),
	}
}

func (h *ApplicationHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.TokenMiddleware) {
	applications := router.Group("/applications", authMiddleware.Authenticate())

	applications.Get("/", authMiddleware.RequireScope(scopes.ScopeApplicationsRead), h.ListApplications)
	applications.Get("/:code", authMiddleware.RequireScope(scopes.ScopeApplicationsRead), h.GetApplication)
	applications.Post("/:code/review", authMiddleware.RequireScope(scopes.ScopeApplicationsReview), h.Review)
	applications.Post("/:code/convert", authMiddleware.RequireScope(scopes.ScopeApplicationsConvert), h.Convert)
}

// RegisterPublicRoutes expone la postulación pública, protegida por rate limit
func (h *ApplicationHandlers) RegisterPublicRoutes(router fiber.Router, rateLimiter fiber.Handler) {
	board := router.Group("/public/jobs")
	if rateLimiter != nil {
		board.Use(rateLimiter)
	}

	board.Post("/:code/apply", h.Apply)
}

// Apply recibe la postulación del board. Acepta JSON puro o multipart
// con un campo "cv" opcional en PDF.
func (h *ApplicationHandlers) Apply(c *fiber.Ctx) error {
	var req application.ApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var cv io.Reader
	cvContentType := ""
	if fileHeader, err := c.FormFile("cv"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot read uploaded file"})
		}
		defer file.Close()
		cv = file
		cvContentType = fileHeader.Header.Get(fiber.HeaderContentType)
	}

	created, err := h.service.Apply(c.Context(), c.Params("code"), req, cv, cvContentType)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"application_code": created.ApplicationCode,
		"status":           created.Status,
	})
}

func (h *ApplicationHandlers) ListApplications(c *fiber.Ctx) error {
	filter := application.ApplicationFilter{
		JobCode: c.Query("job_code"),
		Status:  application.ApplicationStatus(c.Query("status")),
		Search:  c.Query("search"),
	}
	filter.Limit, _ = strconv.Atoi(c.Query("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.Query("offset", "0"))

	response, err := h.service.ListApplications(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(response)
}

func (h *ApplicationHandlers) GetApplication(c *fiber.Ctx) error {
	found, err := h.service.GetApplication(c.Context(), c.Params("code"))
	if err != nil {
		return err
	}
	return c.JSON(found.ToDTO())
}

func (h *ApplicationHandlers) Review(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req application.ReviewApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	updated, err := h.service.Review(c.Context(), *authContext, c.Params("code"), req.Status)
	if err != nil {
		return err
	}

	return c.JSON(updated.ToDTO())
}

func (h *ApplicationHandlers) Convert(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req application.ConvertApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	response, err := h.service.Convert(c.Context(), *authContext, c.Params("code"), req)
	if err != nil {
		return err
	}

	return c.JSON(response)
}
