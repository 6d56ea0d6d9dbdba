package activityapi

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/proconsultancy/backend/pkg/ats/activity"
	"github.com/proconsultancy/backend/pkg/ats/activity/activitysrv"
	"github.com/proconsultancy/backend/pkg/iam/auth"
	"github.com/proconsultancy/backend/pkg/iam/scopes"
)

type ActivityHandlers struct {
	service *activitysrv.ActivityService
}

func NewActivityHandlers(service *activitysrv.ActivityService) *ActivityHandlers {
	return &ActivityHandlers{
		service: service,
	}
}

func (h *ActivityHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.TokenMiddleware) {
	entries := router.Group("/activity", authMiddleware.Authenticate())

	entries.Get("/", authMiddleware.RequireScope(scopes.ScopeAuditRead), h.ListEntries)
}

func (h *ActivityHandlers) ListEntries(c *fiber.Ctx) error {
	filter := activity.Filter{
		Module:     c.Query("module"),
		Action:     c.Query("action"),
		EntityCode: c.Query("entity_code"),
		ActorID:    c.Query("actor_id"),
	}

	if since := c.Query("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid 'since' timestamp"})
		}
		filter.Since = &t
	}
	if until := c.Query("until"); until != "" {
		t, err := time.Parse(time.RFC3339, until)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid 'until' timestamp"})
		}
		filter.Until = &t
	}

	filter.Limit, _ = strconv.Atoi(c.Query("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.Query("offset", "0"))

	response, err := h.service.List(c.Context(), filter)
	if err != nil {
		return err
	}

	return c.JSON(response)
}
