package handlers

import (
	"errors"

	"pdao-carelink/internal/core/domain"
	"pdao-carelink/internal/core/services"
	"pdao-carelink/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ScanHandler handles QR scan resolution for staff devices
type ScanHandler struct {
	memberService *services.MemberService
}

// NewScanHandler creates a new scan handler
func NewScanHandler(memberService *services.MemberService) *ScanHandler {
	return &ScanHandler{memberService: memberService}
}

// ResolveMember resolves a scanned PWD ID number to an approved member.
// Only the fields a scanning screen needs are returned.
// @Summary Resolve scanned member
// @Description Resolve a scanned ID number to an approved member
// @Tags Scan
// @Produce json
// @Security BearerAuth
// @Param id_number query string true "Scanned ID number"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /scan/member [get]
func (h *ScanHandler) ResolveMember(c *fiber.Ctx) error {
	idNumber := c.Query("id_number")
	if idNumber == "" {
		return response.BadRequest(c, "id_number is required")
	}

	member, err := h.memberService.ResolveByIDNumber(c.Context(), idNumber)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMemberNotFound):
			return response.NotFound(c, "No member found for this ID number")
		case errors.Is(err, domain.ErrMemberNotApproved):
			return response.Forbidden(c, "Member is not approved")
		default:
			return response.InternalServerError(c, "Failed to resolve member")
		}
	}

	return response.Success(c, "Member resolved", fiber.Map{
		"id":        member.ID,
		"id_number": member.IDNumber,
		"name":      member.FullName(),
		"barangay":  member.Barangay,
	})
}
