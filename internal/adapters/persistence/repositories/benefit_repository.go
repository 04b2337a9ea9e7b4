package repositories

import (
	"context"
	"errors"
	"time"

	"pdao-carelink/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// ErrParticipantHasClaim is returned when a removal would orphan an
// existing claim. Checked inside the removal transaction so a claim that
// commits first always wins the race.
var ErrParticipantHasClaim = errors.New("participant already has a claim")

// benefitRepository implements BenefitRepository interface
type benefitRepository struct {
	db *gorm.DB
}

// NewBenefitRepository creates a new benefit repository
func NewBenefitRepository(db *gorm.DB) BenefitRepository {
	return &benefitRepository{db: db}
}

// CreateWithParticipants creates the benefit and its snapshot participants
// in one transaction so the roster and locked_member_count are fixed
// atomically with creation.
func (r *benefitRepository) CreateWithParticipants(ctx context.Context, benefit *models.Benefit, memberIDs []uint, addedBy uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(benefit).Error; err != nil {
			return err
		}

		participants := make([]models.Participant, 0, len(memberIDs))
		for _, memberID := range memberIDs {
			participants = append(participants, models.Participant{
				BenefitID: benefit.ID,
				MemberID:  memberID,
				AddedBy:   addedBy,
			})
		}
		return tx.Create(&participants).Error
	})
}

// GetByID gets a benefit by ID
func (r *benefitRepository) GetByID(ctx context.Context, id uint) (*models.Benefit, error) {
	var benefit models.Benefit
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&benefit).Error
	if err != nil {
		return nil, err
	}
	return &benefit, nil
}

// List lists benefits with pagination, newest first
func (r *benefitRepository) List(ctx context.Context, offset, limit int) ([]models.Benefit, int64, error) {
	var benefits []models.Benefit
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Benefit{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&benefits).Error
	if err != nil {
		return nil, 0, err
	}
	return benefits, total, nil
}

// AddParticipants adds members to an existing benefit roster
func (r *benefitRepository) AddParticipants(ctx context.Context, benefitID uint, memberIDs []uint, addedBy uint) error {
	participants := make([]models.Participant, 0, len(memberIDs))
	for _, memberID := range memberIDs {
		participants = append(participants, models.Participant{
			BenefitID: benefitID,
			MemberID:  memberID,
			AddedBy:   addedBy,
		})
	}
	return r.db.WithContext(ctx).Create(&participants).Error
}

// RemoveParticipants removes members from a roster. The claim check runs
// inside the transaction: any member holding a claim blocks the removal.
func (r *benefitRepository) RemoveParticipants(ctx context.Context, benefitID uint, memberIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var claimed int64
		err := tx.Model(&models.Claim{}).
			Where("benefit_id = ? AND member_id IN ?", benefitID, memberIDs).
			Count(&claimed).Error
		if err != nil {
			return err
		}
		if claimed > 0 {
			return ErrParticipantHasClaim
		}

		return tx.
			Where("benefit_id = ? AND member_id IN ?", benefitID, memberIDs).
			Delete(&models.Participant{}).Error
	})
}

// GetParticipant gets one roster entry
func (r *benefitRepository) GetParticipant(ctx context.Context, benefitID, memberID uint) (*models.Participant, error) {
	var participant models.Participant
	err := r.db.WithContext(ctx).
		Where("benefit_id = ? AND member_id = ?", benefitID, memberID).
		First(&participant).Error
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

// ListParticipants lists the roster with member details
func (r *benefitRepository) ListParticipants(ctx context.Context, benefitID uint) ([]models.Participant, error) {
	var participants []models.Participant
	err := r.db.WithContext(ctx).
		Preload("Member").
		Where("benefit_id = ?", benefitID).
		Order("id ASC").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// ListParticipantMemberIDs lists member IDs already on the roster
func (r *benefitRepository) ListParticipantMemberIDs(ctx context.Context, benefitID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Participant{}).
		Where("benefit_id = ?", benefitID).
		Pluck("member_id", &ids).Error
	return ids, err
}

// CreateClaim inserts a claim. The unique (benefit_id, member_id) index is
// the authoritative at-most-once guard; a duplicate surfaces as
// gorm.ErrDuplicatedKey for the service to map to a conflict.
func (r *benefitRepository) CreateClaim(ctx context.Context, claim *models.Claim) error {
	return r.db.WithContext(ctx).Create(claim).Error
}

// GetClaim gets the claim for a (benefit, member) pair
func (r *benefitRepository) GetClaim(ctx context.Context, benefitID, memberID uint) (*models.Claim, error) {
	var claim models.Claim
	err := r.db.WithContext(ctx).
		Preload("Member").
		Where("benefit_id = ? AND member_id = ?", benefitID, memberID).
		First(&claim).Error
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

// ListClaims lists claims, optionally scoped to a benefit
func (r *benefitRepository) ListClaims(ctx context.Context, benefitID uint, offset, limit int) ([]models.Claim, int64, error) {
	var claims []models.Claim
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Claim{})
	if benefitID != 0 {
		query = query.Where("benefit_id = ?", benefitID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Benefit").
		Preload("Member").
		Preload("Scanner").
		Order("claimed_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&claims).Error
	if err != nil {
		return nil, 0, err
	}
	return claims, total, nil
}

// ListClaimedMemberIDs lists member IDs that already claimed a benefit
func (r *benefitRepository) ListClaimedMemberIDs(ctx context.Context, benefitID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Claim{}).
		Where("benefit_id = ?", benefitID).
		Pluck("member_id", &ids).Error
	return ids, err
}

// CountClaimsSince counts claims recorded since a point in time
func (r *benefitRepository) CountClaimsSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Claim{}).
		Where("claimed_at >= ?", since).
		Count(&count).Error
	return count, err
}
