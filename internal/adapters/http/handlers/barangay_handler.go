package handlers

import (
	"strings"

	"pdao-carelink/internal/adapters/persistence/models"
	"pdao-carelink/internal/adapters/persistence/repositories"
	"pdao-carelink/internal/pkg/cache"
	"pdao-carelink/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BarangayCacheKey is the poll-sync key for the warm barangay roster
const BarangayCacheKey = "barangays:list"

// BarangayHandler serves the barangay master list
type BarangayHandler struct {
	barangayRepo repositories.BarangayRepository
	syncer       *cache.Syncer
}

// NewBarangayHandler creates a new barangay handler
func NewBarangayHandler(barangayRepo repositories.BarangayRepository, syncer *cache.Syncer) *BarangayHandler {
	return &BarangayHandler{barangayRepo: barangayRepo, syncer: syncer}
}

// BarangayRequest represents barangay creation body
type BarangayRequest struct {
	Name     string `json:"name"`
	District string `json:"district"`
}

// List returns all barangays. The roster is kept warm by a background sync
// job; a stale value still answers when the database is unreachable. The
// database is only hit directly before the first sync completes.
// @Summary List barangays
// @Tags Barangays
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /barangays [get]
func (h *BarangayHandler) List(c *fiber.Ctx) error {
	if cached, _, err := h.syncer.Value(BarangayCacheKey); err == nil {
		return response.Success(c, "Barangays retrieved successfully", cached)
	}

	barangays, err := h.barangayRepo.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list barangays")
	}

	return response.Success(c, "Barangays retrieved successfully", barangays)
}

// Create adds a barangay to the master list (admin only)
// @Summary Create barangay
// @Tags Barangays
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body BarangayRequest true "Barangay data"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /barangays [post]
func (h *BarangayHandler) Create(c *fiber.Ctx) error {
	var req BarangayRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return response.BadRequest(c, "Name is required")
	}

	exists, err := h.barangayRepo.ExistsByName(c.Context(), name)
	if err != nil {
		return response.InternalServerError(c, "Failed to create barangay")
	}
	if exists {
		return response.Conflict(c, "Barangay already exists")
	}

	barangay := &models.Barangay{
		Name:     name,
		District: strings.TrimSpace(req.District),
		IsActive: true,
	}
	if err := h.barangayRepo.Create(c.Context(), barangay); err != nil {
		return response.InternalServerError(c, "Failed to create barangay")
	}

	// Fold the new row into the warm roster ahead of the next poll tick
	_, _ = h.syncer.Refresh(c.Context(), BarangayCacheKey)

	return response.Created(c, "Barangay created successfully", barangay)
}
