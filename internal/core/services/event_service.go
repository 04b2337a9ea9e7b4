package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"pdao-carelink/internal/adapters/persistence/models"
	"pdao-carelink/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// Event service errors
var (
	ErrEventNotFound     = errors.New("event not found")
	ErrMissingEventTitle = errors.New("title and event_date are required")
	ErrAlreadyAttended   = errors.New("attendance already recorded for this member")
	ErrOutsideBarangay   = errors.New("member is not from the target barangay")
)

// EventService handles event and attendance business logic
type EventService struct {
	eventRepo repositories.EventRepository

	// today is swappable for tests (status derivation is date-only)
	today func() time.Time
}

// NewEventService creates a new event service
func NewEventService(eventRepo repositories.EventRepository) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		today:     time.Now,
	}
}

// CreateEventInput represents event creation input
type CreateEventInput struct {
	Title          string    `json:"title" validate:"required"`
	Description    string    `json:"description"`
	EventDate      time.Time `json:"event_date" validate:"required"`
	Location       string    `json:"location"`
	TargetBarangay string    `json:"target_barangay"`
}

// Create creates a new event
func (s *EventService) Create(ctx context.Context, input *CreateEventInput, createdBy uint) (*models.Event, error) {
	if strings.TrimSpace(input.Title) == "" || input.EventDate.IsZero() {
		return nil, ErrMissingEventTitle
	}

	event := &models.Event{
		Title:          strings.TrimSpace(input.Title),
		Description:    input.Description,
		EventDate:      input.EventDate,
		Location:       input.Location,
		TargetBarangay: input.TargetBarangay,
		CreatedBy:      createdBy,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	log.Printf("✅ Event created: %s (%s)", event.Title, event.EventDate.Format("2006-01-02"))
	return event, nil
}

// GetByID gets an event by ID
func (s *EventService) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

// List lists events with the derived status attached. Status is always
// recomputed against today, never read from storage.
func (s *EventService) List(ctx context.Context, offset, limit int) ([]models.EventResponse, int64, error) {
	events, total, err := s.eventRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	today := s.today()
	responses := make([]models.EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, *events[i].ToResponse(today))
	}
	return responses, total, nil
}

// Detail returns one event with derived status and attendance count
func (s *EventService) Detail(ctx context.Context, id uint) (*models.EventResponse, int64, error) {
	event, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	count, err := s.eventRepo.CountAttendances(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	return event.ToResponse(s.today()), count, nil
}

// SubmitAttendance records a member scanned into an event. At most one per
// (event, member); a barangay-targeted event only admits its own barangay.
func (s *EventService) SubmitAttendance(ctx context.Context, eventID uint, member *models.Member, scannedBy uint) (*models.Attendance, error) {
	event, err := s.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if event.TargetBarangay != "" && !strings.EqualFold(event.TargetBarangay, member.Barangay) {
		return nil, ErrOutsideBarangay
	}

	if _, err := s.eventRepo.GetAttendance(ctx, eventID, member.ID); err == nil {
		return nil, ErrAlreadyAttended
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	attendance := &models.Attendance{
		EventID:   eventID,
		MemberID:  member.ID,
		ScannedAt: time.Now(),
		ScannedBy: scannedBy,
	}

	if err := s.eventRepo.CreateAttendance(ctx, attendance); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyAttended
		}
		return nil, err
	}

	log.Printf("✅ Attendance recorded: event %d, member %d", eventID, member.ID)
	return s.eventRepo.GetAttendance(ctx, eventID, member.ID)
}

// ListAttendances lists attendance for an event (the live 5-second view)
func (s *EventService) ListAttendances(ctx context.Context, eventID uint) ([]models.Attendance, error) {
	if _, err := s.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.eventRepo.ListAttendances(ctx, eventID)
}
