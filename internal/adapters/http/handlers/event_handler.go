package handlers

import (
	"errors"

	"pdao-carelink/internal/core/domain"
	"pdao-carelink/internal/core/services"
	"pdao-carelink/internal/pkg/pagination"
	"pdao-carelink/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// EventHandler handles event and attendance endpoints
type EventHandler struct {
	eventService  *services.EventService
	memberService *services.MemberService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *services.EventService, memberService *services.MemberService) *EventHandler {
	return &EventHandler{
		eventService:  eventService,
		memberService: memberService,
	}
}

// AttendanceRequest represents a scanned attendance submission
type AttendanceRequest struct {
	MemberID uint `json:"member_id"`
}

// Create handles event creation
// @Summary Create an event
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateEventInput true "Event data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /events [post]
func (h *EventHandler) Create(c *fiber.Ctx) error {
	var req services.CreateEventInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	event, err := h.eventService.Create(c.Context(), &req, userID)
	if err != nil {
		if errors.Is(err, services.ErrMissingEventTitle) {
			return response.BadRequest(c, "Title and event date are required")
		}
		return response.InternalServerError(c, "Failed to create event")
	}

	return response.Created(c, "Event created successfully", event)
}

// List handles event listing with derived status
// @Summary List events
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} pagination.Response
// @Router /events [get]
func (h *EventHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	events, total, err := h.eventService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list events")
	}

	return c.JSON(pagination.Response{
		Data: events,
		Meta: pagination.GetMeta(params, total),
	})
}

// Detail handles event detail with attendance count
// @Summary Get event
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /events/{id} [get]
func (h *EventHandler) Detail(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid event ID")
	}

	event, attendanceCount, err := h.eventService.Detail(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			return response.NotFound(c, "Event not found")
		}
		return response.InternalServerError(c, "Failed to get event")
	}

	return response.Success(c, "Event retrieved successfully", fiber.Map{
		"event":            event,
		"attendance_count": attendanceCount,
	})
}

// SubmitAttendance records a scanned attendance, at most once per member
// @Summary Submit attendance
// @Description Record attendance for a scanned member
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param body body AttendanceRequest true "Member ID"
// @Success 201 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /events/{id}/attendances [post]
func (h *EventHandler) SubmitAttendance(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid event ID")
	}

	var req AttendanceRequest
	if err := c.BodyParser(&req); err != nil || req.MemberID == 0 {
		return response.BadRequest(c, "member_id is required")
	}

	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	member, err := h.memberService.GetByID(c.Context(), req.MemberID)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to record attendance")
	}
	if !member.IsApproved() {
		return response.Forbidden(c, "Member is not approved")
	}

	attendance, err := h.eventService.SubmitAttendance(c.Context(), uint(id), member, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEventNotFound):
			return response.NotFound(c, "Event not found")
		case errors.Is(err, services.ErrOutsideBarangay):
			return response.Forbidden(c, "Member is not from the target barangay")
		case errors.Is(err, services.ErrAlreadyAttended):
			return response.Conflict(c, "Attendance already recorded for this member")
		default:
			return response.InternalServerError(c, "Failed to record attendance")
		}
	}

	return response.Created(c, "Attendance recorded successfully", attendance.ToResponse())
}

// ListAttendances handles the live attendance list
// @Summary List attendances
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /events/{id}/attendances [get]
func (h *EventHandler) ListAttendances(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid event ID")
	}

	attendances, err := h.eventService.ListAttendances(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			return response.NotFound(c, "Event not found")
		}
		return response.InternalServerError(c, "Failed to list attendances")
	}

	responses := make([]interface{}, 0, len(attendances))
	for i := range attendances {
		responses = append(responses, attendances[i].ToResponse())
	}

	return response.Success(c, "Attendances retrieved successfully", responses)
}
