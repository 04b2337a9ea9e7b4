package repositories

import (
	"context"

	"pdao-carelink/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// memberRepository implements MemberRepository interface
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

// Create creates a new member record
func (r *memberRepository) Create(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// GetByID gets a member by ID
func (r *memberRepository) GetByID(ctx context.Context, id uint) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetByIDNumber gets a member by the QR-encoded ID number
func (r *memberRepository) GetByIDNumber(ctx context.Context, idNumber string) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).Where("id_number = ?", idNumber).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// List lists members with filters and pagination
func (r *memberRepository) List(ctx context.Context, filter MemberFilter, offset, limit int) ([]models.Member, int64, error) {
	var members []models.Member
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Member{})
	if filter.Barangay != "" {
		query = query.Where("barangay = ?", filter.Barangay)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("id_number LIKE ? OR first_name LIKE ? OR last_name LIKE ?", search, search, search)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("last_name ASC, first_name ASC").
		Offset(offset).
		Limit(limit).
		Find(&members).Error
	if err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

// ListApproved lists approved members, optionally scoped to a barangay
func (r *memberRepository) ListApproved(ctx context.Context, barangay string) ([]models.Member, error) {
	var members []models.Member
	query := r.db.WithContext(ctx).Where("status = ?", models.MemberStatusApproved)
	if barangay != "" {
		query = query.Where("barangay = ?", barangay)
	}
	err := query.Order("id ASC").Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// ListByIDs gets members by a set of IDs
func (r *memberRepository) ListByIDs(ctx context.Context, ids []uint) ([]models.Member, error) {
	var members []models.Member
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// UpdateStatus updates a member's status
func (r *memberRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Member{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// ExistsByIDNumber checks if an ID number is already issued
func (r *memberRepository) ExistsByIDNumber(ctx context.Context, idNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Member{}).
		Where("id_number = ?", idNumber).
		Count(&count).Error
	return count > 0, err
}
