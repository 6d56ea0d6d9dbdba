package jobapi

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/proconsultancy/backend/pkg/ats/job"
	"github.com/proconsultancy/backend/pkg/ats/job/jobsrv"
	"github.com/proconsultancy/backend/pkg/iam"
	"github.com/proconsultancy/backend/pkg/iam/auth"
	"github.com/proconsultancy/backend/pkg/iam/scopes"
)

type JobHandlers struct {
	service  *jobsrv.JobService
	validate *validator.Validate
}

func NewJobHandlers(service *jobsrv.JobService) *JobHandlers {
	return &JobHandlers{
		service:  service,
		validate: validator.New(),
	}
}

func (h *JobHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.TokenMiddleware) {
	jobs := router.Group("/jobs", authMiddleware.Authenticate())

	jobs.Get("/", authMiddleware.RequireScope(scopes.ScopeJobsRead), h.ListJobs)
	jobs.Post("/", authMiddleware.RequireScope(scopes.ScopeJobsWrite), h.CreateJob)
	jobs.Get("/:code", authMiddleware.RequireScope(scopes.ScopeJobsRead), h.GetJob)
	jobs.Put("/:code", authMiddleware.RequireScope(scopes.ScopeJobsWrite), h.UpdateJob)
	jobs.Delete("/:code", authMiddleware.RequireScope(scopes.ScopeJobsDelete), h.DeleteJob)
	jobs.Post("/:code/status", authMiddleware.RequireScope(scopes.ScopeJobsWrite), h.ChangeStatus)
	jobs.Post("/:code/publish", authMiddleware.RequireScope(scopes.ScopeJobsPublish), h.PublishJob)
	jobs.Post("/:code/unpublish", authMiddleware.RequireScope(scopes.ScopeJobsPublish), h.UnpublishJob)
}

// RegisterPublicRoutes expone el board público, protegido por rate limit
func (h *JobHandlers) RegisterPublicRoutes(router fiber.Router, rateLimiter fiber.Handler) {
	board := router.Group("/public/jobs")
	if rateLimiter != nil {
		board.Use(rateLimiter)
	}

	board.Get("/", h.ListPublishedJobs)
}

func (h *JobHandlers) ListJobs(c *fiber.Ctx) error {
	filter := job.JobFilter{
		ClientCode: c.Query("client_code"),
		Status:     job.JobStatus(c.Query("status")),
		Search:     c.Query("search"),
	}
	if published := c.Query("published"); published != "" {
		value := published == "true"
		filter.Published = &value
	}
	filter.Limit, _ = strconv.Atoi(c.Query("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.Query("offset", "0"))

	response, err := h.service.ListJobs(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(response)
}

func (h *JobHandlers) ListPublishedJobs(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	jobs, total, err := h.service.ListPublishedJobs(c.Context(), limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"jobs":  jobs,
		"total": total,
	})
}

func (h *JobHandlers) CreateJob(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req job.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	created, err := h.service.CreateJob(c.Context(), *authContext, req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created.ToDTO())
}

func (h *JobHandlers) GetJob(c *fiber.Ctx) error {
	found, err := h.service.GetJob(c.Context(), c.Params("code"))
	if err != nil {
		return err
	}
	return c.JSON(found.ToDTO())
}

func (h *JobHandlers) UpdateJob(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req job.UpdateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	updated, err := h.service.UpdateJob(c.Context(), *authContext, c.Params("code"), req)
	if err != nil {
		return err
	}

	return c.JSON(updated.ToDTO())
}

func (h *JobHandlers) ChangeStatus(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req job.ChangeJobStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	updated, err := h.service.ChangeStatus(c.Context(), *authContext, c.Params("code"), req.Status)
	if err != nil {
		return err
	}

	return c.JSON(updated.ToDTO())
}

func (h *JobHandlers) PublishJob(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	updated, err := h.service.PublishJob(c.Context(), *authContext, c.Params("code"))
	if err != nil {
		return err
	}

	return c.JSON(updated.ToDTO())
}

func (h *JobHandlers) UnpublishJob(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	updated, err := h.service.UnpublishJob(c.Context(), *authContext, c.Params("code"))
	if err != nil {
		return err
	}

	return c.JSON(updated.ToDTO())
}

func (h *JobHandlers) DeleteJob(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	if err := h.service.DeleteJob(c.Context(), *authContext, c.Params("code")); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Job deleted successfully"})
}
