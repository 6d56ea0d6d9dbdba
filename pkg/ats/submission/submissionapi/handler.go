package submissionapi

import (
	"context"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/proconsultancy/backend/pkg/ats/submission"
	"github.com/proconsultancy/backend/pkg/ats/submission/submissionsrv"
	"github.com/proconsultancy/backend/pkg/iam"
	"github.com/proconsultancy/backend/pkg/iam/auth"
	"github.com/proconsultancy/backend/pkg/iam/scopes"
	"github.com/proconsultancy/backend/pkg/kernel"
)

type SubmissionHandlers struct {
	service  *submissionsrv.SubmissionService
	validate *validator.Validate
}

func NewSubmissionHandlers(service *submissionsrv.SubmissionService) *SubmissionHandlers {
	return &SubmissionHandlers{
		service:  service,
		validate: validator.New(),
	}
}

func (h *SubmissionHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.TokenMiddleware) {
	submissions := router.Group("/submissions", authMiddleware.Authenticate())

	submissions.Get("/", authMiddleware.RequireScope(scopes.ScopeSubmissionsRead), h.ListSubmissions)
	submissions.Post("/", authMiddleware.RequireScope(scopes.ScopeSubmissionsWrite), h.CreateSubmission)
	submissions.Get("/:code", authMiddleware.RequireScope(scopes.ScopeSubmissionsRead), h.GetSubmission)
	submissions.Delete("/:code", authMiddleware.RequireScope(scopes.ScopeSubmissionsDelete), h.DeleteSubmission)

	// Gate interno (manager)
	submissions.Post("/:code/approve", authMiddleware.RequireScope(scopes.ScopeSubmissionsApprove), h.Approve)
	submissions.Post("/:code/reject", authMiddleware.RequireScope(scopes.ScopeSubmissionsApprove), h.Reject)

	// Pipeline del cliente
	submissions.Post("/:code/send", authMiddleware.RequireScope(scopes.ScopeSubmissionsAdvance), h.SendToClient)
	submissions.Post("/:code/status", authMiddleware.RequireScope(scopes.ScopeSubmissionsAdvance), h.UpdateClientStatus)
	submissions.Post("/:code/interview", authMiddleware.RequireScope(scopes.ScopeSubmissionsAdvance), h.RecordInterview)
	submissions.Post("/:code/offer", authMiddleware.RequireScope(scopes.ScopeSubmissionsAdvance), h.RecordOffer)
	submissions.Post("/:code/placement", authMiddleware.RequireScope(scopes.ScopeSubmissionsAdvance), h.RecordPlacement)
	submissions.Post("/:code/withdraw", authMiddleware.RequireScope(scopes.ScopeSubmissionsWithdraw), h.Withdraw)
}

func (h *SubmissionHandlers) ListSubmissions(c *fiber.Ctx) error {
	filter := submission.SubmissionFilter{
		CandidateCode:  c.Query("candidate_code"),
		JobCode:        c.Query("job_code"),
		InternalStatus: submission.InternalStatus(c.Query("internal_status")),
		ClientStatus:   submission.ClientStatus(c.Query("client_status")),
	}
	filter.Limit, _ = strconv.Atoi(c.Query("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.Query("offset", "0"))

	response, err := h.service.ListSubmissions(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(response)
}

func (h *SubmissionHandlers) CreateSubmission(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req submission.CreateSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	created, err := h.service.CreateSubmission(c.Context(), *authContext, req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created.ToDTO())
}

func (h *SubmissionHandlers) GetSubmission(c *fiber.Ctx) error {
	found, err := h.service.GetSubmission(c.Context(), c.Params("code"))
	if err != nil {
		return err
	}
	return c.JSON(found.ToDTO())
}

func (h *SubmissionHandlers) Approve(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	updated, err := h.service.Approve(c.Context(), *authContext, c.Params("code"))
	if err != nil {
		return err
	}

	return c.JSON(updated.ToDTO())
}

func (h *SubmissionHandlers) Reject(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req submission.RejectSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	updated, err := h.service.Reject(c.Context(), *authContext, c.Params("code"), req.Reason)
	if err != nil {
		return err
	}

	return c.JSON(updated.ToDTO())
}

func (h *SubmissionHandlers) SendToClient(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	updated, err := h.service.SendToClient(c.Context(), *authContext, c.Params("code"))
	if err != nil {
		return err
	}

	return c.JSON(updated.ToDTO())
}

func (h *SubmissionHandlers) UpdateClientStatus(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req submission.UpdateClientStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	updated, err := h.service.UpdateClientStatus(c.Context(), *authContext, c.Params("code"), req)
	if err != nil {
		return err
	}

	return c.JSON(updated.ToDTO())
}

func (h *SubmissionHandlers) RecordInterview(c *fiber.Ctx) error {
	return h.recordStage(c, h.service.RecordInterview)
}

func (h *SubmissionHandlers) RecordOffer(c *fiber.Ctx) error {
	return h.recordStage(c, h.service.RecordOffer)
}

func (h *SubmissionHandlers) RecordPlacement(c *fiber.Ctx) error {
	return h.recordStage(c, h.service.RecordPlacement)
}

func (h *SubmissionHandlers) Withdraw(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req submission.WithdrawSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	updated, err := h.service.Withdraw(c.Context(), *authContext, c.Params("code"), req.Reason)
	if err != nil {
		return err
	}

	return c.JSON(updated.ToDTO())
}

func (h *SubmissionHandlers) DeleteSubmission(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	if err := h.service.DeleteSubmission(c.Context(), *authContext, c.Params("code")); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Submission deleted successfully"})
}

type recordStageFn func(ctx context.Context, actor kernel.AuthContext, code string, req submission.RecordStageRequest) (*submission.Submission, error)

func (h *SubmissionHandlers) recordStage(c *fiber.Ctx, fn recordStageFn) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req submission.RecordStageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	updated, err := fn(c.Context(), *authContext, c.Params("code"), req)
	if err != nil {
		return err
	}

	return c.JSON(updated.ToDTO())
}
