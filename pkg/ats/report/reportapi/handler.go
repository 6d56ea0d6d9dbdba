package reportapi

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/proconsultancy/backend/pkg/ats/report/reportsrv"
	"github.com/proconsultancy/backend/pkg/iam/auth"
	"github.com/proconsultancy/backend/pkg/iam/scopes"
)

type ReportHandlers struct {
	service *reportsrv.ReportService
}

func NewReportHandlers(service *reportsrv.ReportService) *ReportHandlers {
	return &ReportHandlers{
		service: service,
	}
}

func (h *ReportHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.TokenMiddleware) {
	reports := router.Group("/reports",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(scopes.ScopeReportsView),
	)

	reports.Get("/funnel", h.SubmissionFunnel)
	reports.Get("/placements", h.PlacementsByMonth)
	reports.Get("/open-jobs", h.OpenJobsByClient)
	reports.Get("/intake", h.ApplicationIntake)
}

func (h *ReportHandlers) SubmissionFunnel(c *fiber.Ctx) error {
	rows, err := h.service.SubmissionFunnel(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"funnel": rows})
}

func (h *ReportHandlers) PlacementsByMonth(c *fiber.Ctx) error {
	months, _ := strconv.Atoi(c.Query("months", "12"))

	rows, err := h.service.PlacementsByMonth(c.Context(), months)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"placements": rows})
}

func (h *ReportHandlers) OpenJobsByClient(c *fiber.Ctx) error {
	rows, err := h.service.OpenJobsByClient(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"open_jobs": rows})
}

func (h *ReportHandlers) ApplicationIntake(c *fiber.Ctx) error {
	rows, err := h.service.ApplicationIntake(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"intake": rows})
}
