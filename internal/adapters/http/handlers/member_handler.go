package handlers

import (
	"errors"

	"pdao-carelink/internal/adapters/persistence/repositories"
	"pdao-carelink/internal/core/domain"
	"pdao-carelink/internal/core/services"
	"pdao-carelink/internal/pkg/pagination"
	"pdao-carelink/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MemberHandler handles PWD member endpoints
type MemberHandler struct {
	memberService *services.MemberService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService *services.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// UpdateStatusRequest represents a status change request body
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Register handles member registration
// @Summary Register a PWD member
// @Description Register a new member; the record starts in pending status
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.RegisterMemberInput true "Member data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /members [post]
func (h *MemberHandler) Register(c *fiber.Ctx) error {
	var req services.RegisterMemberInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	member, err := h.memberService.Register(c.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingMemberFields):
			return response.BadRequest(c, "ID number, first name and last name are required")
		case errors.Is(err, services.ErrIDNumberTaken):
			return response.Conflict(c, "A member with this ID number already exists")
		default:
			return response.InternalServerError(c, "Failed to register member")
		}
	}

	return response.Created(c, "Member registered successfully", member)
}

// List handles member listing with filters
// @Summary List members
// @Description List members with optional barangay/status/search filters
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param barangay query string false "Filter by barangay"
// @Param status query string false "Filter by status"
// @Param search query string false "Search by name or ID number"
// @Success 200 {object} pagination.Response
// @Router /members [get]
func (h *MemberHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	filter := repositories.MemberFilter{
		Barangay: c.Query("barangay"),
		Status:   c.Query("status"),
		Search:   c.Query("search"),
	}

	members, total, err := h.memberService.List(c.Context(), filter, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list members")
	}

	return c.JSON(pagination.Response{
		Data: members,
		Meta: pagination.GetMeta(params, total),
	})
}

// Ranked handles the priority-ordered member listing
// @Summary Ranked members
// @Description List approved members ordered by priority score
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param barangay query string false "Filter by barangay"
// @Param sort query string false "Sort key (priority, name, barangay, income, dependants, severity)"
// @Success 200 {object} response.Response
// @Router /members/ranked [get]
func (h *MemberHandler) Ranked(c *fiber.Ctx) error {
	sortKey := c.Query("sort", services.SortByPriority)

	ranked, err := h.memberService.Ranked(c.Context(), c.Query("barangay"), sortKey)
	if err != nil {
		return response.InternalServerError(c, "Failed to rank members")
	}

	return response.Success(c, "Members ranked successfully", ranked)
}

// GetByID handles member detail
// @Summary Get member
// @Description Get a single member with their priority score
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id} [get]
func (h *MemberHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid member ID")
	}

	member, err := h.memberService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to get member")
	}

	return response.Success(c, "Member retrieved successfully", fiber.Map{
		"member": member,
		"score":  services.ScoreOf(member),
	})
}

// UpdateStatus handles member status transitions
// @Summary Update member status
// @Description Approve, reject or deactivate a member
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Param body body UpdateStatusRequest true "New status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id}/status [patch]
func (h *MemberHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid member ID")
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	member, err := h.memberService.UpdateStatus(c.Context(), uint(id), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownMemberStatus):
			return response.BadRequest(c, "Unknown member status")
		case errors.Is(err, domain.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		default:
			return response.InternalServerError(c, "Failed to update member status")
		}
	}

	return response.Success(c, "Member status updated", member)
}
