package candidateapi

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/proconsultancy/backend/pkg/ats/candidate"
	"github.com/proconsultancy/backend/pkg/ats/candidate/candidatesrv"
	"github.com/proconsultancy/backend/pkg/iam"
	"github.com/proconsultancy/backend/pkg/iam/auth"
	"github.com/proconsultancy/backend/pkg/iam/scopes"
)

type CandidateHandlers struct {
	service  *candidatesrv.CandidateService
	validate *validator.Validate
}

func NewCandidateHandlers(service *candidatesrv.CandidateService) *CandidateHandlers {
	return &CandidateHandlers{
		service:  service,
		validate: validator.New(),
	}
}

func (h *CandidateHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.TokenMiddleware) {
	candidates := router.Group("/candidates", authMiddleware.Authenticate())

	candidates.Get("/", authMiddleware.RequireScope(scopes.ScopeCandidatesRead), h.ListCandidates)
	candidates.Post("/", authMiddleware.RequireScope(scopes.ScopeCandidatesWrite), h.CreateCandidate)
	candidates.Get("/:code", authMiddleware.RequireScope(scopes.ScopeCandidatesRead), h.GetCandidate)
	candidates.Put("/:code", authMiddleware.RequireScope(scopes.ScopeCandidatesWrite), h.UpdateCandidate)
	candidates.Delete("/:code", authMiddleware.RequireScope(scopes.ScopeCandidatesDelete), h.DeleteCandidate)
	candidates.Post("/:code/cv", authMiddleware.RequireScope(scopes.ScopeCandidatesUpload), h.UploadCV)
	candidates.Get("/:code/cv", authMiddleware.RequireScope(scopes.ScopeCandidatesRead), h.DownloadCV)
}

func (h *CandidateHandlers) ListCandidates(c *fiber.Ctx) error {
	filter := candidate.CandidateFilter{
		Status: candidate.CandidateStatus(c.Query("status")),
		Skill:  c.Query("skill"),
		Search: c.Query("search"),
	}
	filter.Limit, _ = strconv.Atoi(c.Query("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.Query("offset", "0"))

	response, err := h.service.ListCandidates(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(response)
}

func (h *CandidateHandlers) CreateCandidate(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req candidate.CreateCandidateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	created, err := h.service.CreateCandidate(c.Context(), *authContext, req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created.ToDTO())
}

func (h *CandidateHandlers) GetCandidate(c *fiber.Ctx) error {
	found, err := h.service.GetCandidate(c.Context(), c.Params("code"))
	if err != nil {
		return err
	}
	return c.JSON(found.ToDTO())
}

func (h *CandidateHandlers) UpdateCandidate(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req candidate.UpdateCandidateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	updated, err := h.service.UpdateCandidate(c.Context(), *authContext, c.Params("code"), req)
	if err != nil {
		return err
	}

	return c.JSON(updated.ToDTO())
}

func (h *CandidateHandlers) UploadCV(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	fileHeader, err := c.FormFile("cv")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing 'cv' file field"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot read uploaded file"})
	}
	defer file.Close()

	updated, err := h.service.UploadCV(c.Context(), *authContext, c.Params("code"), fileHeader.Filename, fileHeader.Size, file)
	if err != nil {
		return err
	}

	return c.JSON(updated.ToDTO())
}

func (h *CandidateHandlers) DownloadCV(c *fiber.Ctx) error {
	reader, contentType, err := h.service.DownloadCV(c.Context(), c.Params("code"))
	if err != nil {
		return err
	}

	if contentType != "" {
		c.Set(fiber.HeaderContentType, contentType)
	}
	return c.SendStream(reader)
}

func (h *CandidateHandlers) DeleteCandidate(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	if err := h.service.DeleteCandidate(c.Context(), *authContext, c.Params("code")); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Candidate deleted successfully"})
}
