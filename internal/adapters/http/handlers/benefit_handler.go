package handlers

import (
	"errors"

	"pdao-carelink/internal/core/services"
	"pdao-carelink/internal/pkg/pagination"
	"pdao-carelink/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BenefitHandler handles benefit distribution endpoints
type BenefitHandler struct {
	benefitService *services.BenefitService
}

// NewBenefitHandler creates a new benefit handler
func NewBenefitHandler(benefitService *services.BenefitService) *BenefitHandler {
	return &BenefitHandler{benefitService: benefitService}
}

// ParticipantsRequest carries member IDs for roster add/remove
type ParticipantsRequest struct {
	MemberIDs []uint `json:"member_ids"`
}

// ClaimRequest represents a scanned claim submission
type ClaimRequest struct {
	MemberID uint `json:"member_id"`
}

// Create handles benefit creation
// @Summary Create a benefit
// @Description Create a benefit, locking the selected roster and derived budget
// @Tags Benefits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateBenefitInput true "Benefit data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /benefits [post]
func (h *BenefitHandler) Create(c *fiber.Ctx) error {
	var req services.CreateBenefitInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	benefit, err := h.benefitService.Create(c.Context(), &req, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptySelection):
			return response.BadRequest(c, "At least one member must be selected")
		case errors.Is(err, services.ErrUnknownBenefitType):
			return response.BadRequest(c, "Benefit type must be cash or relief")
		case errors.Is(err, services.ErrPerHeadRequired):
			return response.BadRequest(c, "Per-participant amount is required for cash benefits")
		case errors.Is(err, services.ErrQuantityRequired):
			return response.BadRequest(c, "Per-participant quantity and unit are required for relief benefits")
		case errors.Is(err, services.ErrMemberNotApproved):
			return response.BadRequest(c, "Selection contains members that are not approved")
		default:
			return response.InternalServerError(c, "Failed to create benefit")
		}
	}

	return response.Created(c, "Benefit created successfully", benefit)
}

// List handles benefit listing
// @Summary List benefits
// @Tags Benefits
// @Produce json
// @Security BearerAuth
// @Success 200 {object} pagination.Response
// @Router /benefits [get]
func (h *BenefitHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	benefits, total, err := h.benefitService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list benefits")
	}

	return c.JSON(pagination.Response{
		Data: benefits,
		Meta: pagination.GetMeta(params, total),
	})
}

// GetByID handles benefit detail
// @Summary Get benefit
// @Tags Benefits
// @Produce json
// @Security BearerAuth
// @Param id path int true "Benefit ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /benefits/{id} [get]
func (h *BenefitHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid benefit ID")
	}

	benefit, err := h.benefitService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrBenefitNotFound) {
			return response.NotFound(c, "Benefit not found")
		}
		return response.InternalServerError(c, "Failed to get benefit")
	}

	return response.Success(c, "Benefit retrieved successfully", benefit)
}

// Participants handles the roster listing with claim status
// @Summary List benefit participants
// @Tags Benefits
// @Produce json
// @Security BearerAuth
// @Param id path int true "Benefit ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /benefits/{id}/participants [get]
func (h *BenefitHandler) Participants(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid benefit ID")
	}

	participants, err := h.benefitService.Participants(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrBenefitNotFound) {
			return response.NotFound(c, "Benefit not found")
		}
		return response.InternalServerError(c, "Failed to list participants")
	}

	return response.Success(c, "Participants retrieved successfully", participants)
}

// Candidates returns approved members not yet on the roster, priority first
// @Summary List roster candidates
// @Tags Benefits
// @Produce json
// @Security BearerAuth
// @Param id path int true "Benefit ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /benefits/{id}/candidates [get]
func (h *BenefitHandler) Candidates(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid benefit ID")
	}

	candidates, err := h.benefitService.Candidates(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrBenefitNotFound) {
			return response.NotFound(c, "Benefit not found")
		}
		return response.InternalServerError(c, "Failed to list candidates")
	}

	return response.Success(c, "Candidates retrieved successfully", candidates)
}

// AddParticipants handles roster additions
// @Summary Add participants
// @Tags Benefits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Benefit ID"
// @Param body body ParticipantsRequest true "Member IDs"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /benefits/{id}/participants [post]
func (h *BenefitHandler) AddParticipants(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid benefit ID")
	}

	var req ParticipantsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.benefitService.AddParticipants(c.Context(), uint(id), req.MemberIDs, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrBenefitNotFound):
			return response.NotFound(c, "Benefit not found")
		case errors.Is(err, services.ErrBenefitNotActive):
			return response.BadRequest(c, "Benefit is not active")
		case errors.Is(err, services.ErrEmptySelection):
			return response.BadRequest(c, "At least one member must be selected")
		case errors.Is(err, services.ErrMemberNotApproved):
			return response.BadRequest(c, "Selection contains members that are not approved")
		case errors.Is(err, services.ErrAlreadyParticipant):
			return response.Conflict(c, "Member is already a participant of this benefit")
		default:
			return response.InternalServerError(c, "Failed to add participants")
		}
	}

	return response.Success(c, "Participants added successfully", nil)
}

// RemoveParticipants handles roster removals
// @Summary Remove participants
// @Description Remove participants who have not claimed yet
// @Tags Benefits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Benefit ID"
// @Param body body ParticipantsRequest true "Member IDs"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /benefits/{id}/participants [delete]
func (h *BenefitHandler) RemoveParticipants(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid benefit ID")
	}

	var req ParticipantsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.benefitService.RemoveParticipants(c.Context(), uint(id), req.MemberIDs); err != nil {
		switch {
		case errors.Is(err, services.ErrBenefitNotFound):
			return response.NotFound(c, "Benefit not found")
		case errors.Is(err, services.ErrBenefitNotActive):
			return response.BadRequest(c, "Benefit is not active")
		case errors.Is(err, services.ErrEmptySelection):
			return response.BadRequest(c, "At least one member must be selected")
		case errors.Is(err, services.ErrParticipantClaimed):
			return response.Conflict(c, "Cannot remove a participant who already claimed")
		default:
			return response.InternalServerError(c, "Failed to remove participants")
		}
	}

	return response.Success(c, "Participants removed successfully", nil)
}

// SubmitClaim records a scanned claim, at most once per member
// @Summary Submit a claim
// @Description Record a claim for a scanned participant
// @Tags Benefits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Benefit ID"
// @Param body body ClaimRequest true "Member ID"
// @Success 201 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /benefits/{id}/claims [post]
func (h *BenefitHandler) SubmitClaim(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid benefit ID")
	}

	var req ClaimRequest
	if err := c.BodyParser(&req); err != nil || req.MemberID == 0 {
		return response.BadRequest(c, "member_id is required")
	}

	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	claim, err := h.benefitService.SubmitClaim(c.Context(), uint(id), req.MemberID, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBenefitNotFound):
			return response.NotFound(c, "Benefit not found")
		case errors.Is(err, services.ErrBenefitNotActive):
			return response.BadRequest(c, "Benefit is not active")
		case errors.Is(err, services.ErrNotParticipant):
			return response.Forbidden(c, "Member is not a participant of this benefit")
		case errors.Is(err, services.ErrAlreadyClaimed):
			return response.Conflict(c, "Benefit already claimed by this member")
		default:
			return response.InternalServerError(c, "Failed to record claim")
		}
	}

	return response.Created(c, "Claim recorded successfully", claim.ToResponse())
}

// BenefitRecords lists claim records across all benefits, newest first
// @Summary List benefit records
// @Description Office-wide claim history across every distribution
// @Tags Benefits
// @Produce json
// @Security BearerAuth
// @Success 200 {object} pagination.Response
// @Router /benefit-records [get]
func (h *BenefitHandler) BenefitRecords(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	claims, total, err := h.benefitService.ListClaims(c.Context(), 0, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list benefit records")
	}

	responses := make([]interface{}, 0, len(claims))
	for i := range claims {
		responses = append(responses, claims[i].ToResponse())
	}

	return c.JSON(pagination.Response{
		Data: responses,
		Meta: pagination.GetMeta(params, total),
	})
}

// ListClaims handles the claim history listing
// @Summary List claims
// @Tags Benefits
// @Produce json
// @Security BearerAuth
// @Param id path int true "Benefit ID"
// @Success 200 {object} pagination.Response
// @Router /benefits/{id}/claims [get]
func (h *BenefitHandler) ListClaims(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid benefit ID")
	}

	params := pagination.GetParams(c)
	claims, total, err := h.benefitService.ListClaims(c.Context(), uint(id), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list claims")
	}

	responses := make([]interface{}, 0, len(claims))
	for i := range claims {
		responses = append(responses, claims[i].ToResponse())
	}

	return c.JSON(pagination.Response{
		Data: responses,
		Meta: pagination.GetMeta(params, total),
	})
}
