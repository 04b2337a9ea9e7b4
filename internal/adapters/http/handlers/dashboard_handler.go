package handlers

import (
	"pdao-carelink/internal/pkg/cache"
	"pdao-carelink/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardCacheKey is the poll-sync job key for the office summary
const DashboardCacheKey = "dashboard:summary"

// DashboardHandler serves the office summary from the poll-synced cache
type DashboardHandler struct {
	syncer *cache.Syncer
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(syncer *cache.Syncer) *DashboardHandler {
	return &DashboardHandler{syncer: syncer}
}

// Summary returns the cached office summary. The background poller keeps it
// warm; a stale value is served with its timestamp rather than an error.
// @Summary Office dashboard summary
// @Description Return cached counts for members, benefits, claims and events
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param refresh query bool false "Force a fresh fetch"
// @Success 200 {object} response.Response
// @Router /dashboard/summary [get]
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	if c.QueryBool("refresh") {
		summary, err := h.syncer.Refresh(c.Context(), DashboardCacheKey)
		if err != nil {
			return response.InternalServerError(c, "Failed to refresh dashboard")
		}
		return response.Success(c, "Dashboard refreshed", summary)
	}

	summary, fetchedAt, err := h.syncer.Value(DashboardCacheKey)
	if err != nil {
		return response.InternalServerError(c, "Dashboard is not available yet")
	}

	return response.Success(c, "Dashboard retrieved successfully", fiber.Map{
		"summary":    summary,
		"fetched_at": fetchedAt,
	})
}
