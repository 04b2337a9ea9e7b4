package repositories

import (
	"context"

	"pdao-carelink/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// eventRepository implements EventRepository interface
type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

// Create creates a new event
func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// GetByID gets an event by ID
func (r *eventRepository) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// List lists events with pagination, soonest first
func (r *eventRepository) List(ctx context.Context, offset, limit int) ([]models.Event, int64, error) {
	var events []models.Event
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Event{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("event_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// CreateAttendance inserts an attendance record. The unique
// (event_id, member_id) index enforces at-most-once.
func (r *eventRepository) CreateAttendance(ctx context.Context, attendance *models.Attendance) error {
	return r.db.WithContext(ctx).Create(attendance).Error
}

// GetAttendance gets the attendance record for an (event, member) pair
func (r *eventRepository) GetAttendance(ctx context.Context, eventID, memberID uint) (*models.Attendance, error) {
	var attendance models.Attendance
	err := r.db.WithContext(ctx).
		Preload("Member").
		Where("event_id = ? AND member_id = ?", eventID, memberID).
		First(&attendance).Error
	if err != nil {
		return nil, err
	}
	return &attendance, nil
}

// ListAttendances lists attendance for an event with member details
func (r *eventRepository) ListAttendances(ctx context.Context, eventID uint) ([]models.Attendance, error) {
	var attendances []models.Attendance
	err := r.db.WithContext(ctx).
		Preload("Member").
		Preload("Scanner").
		Where("event_id = ?", eventID).
		Order("scanned_at DESC").
		Find(&attendances).Error
	if err != nil {
		return nil, err
	}
	return attendances, nil
}

// CountAttendances counts attendance for an event
func (r *eventRepository) CountAttendances(ctx context.Context, eventID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Attendance{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	return count, err
}
