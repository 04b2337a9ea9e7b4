package services

import (
	"context"
	"errors"
	"log"
	"time"

	"pdao-carelink/internal/adapters/persistence/models"
	"pdao-carelink/internal/adapters/persistence/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Benefit service errors
var (
	ErrBenefitNotFound    = errors.New("benefit not found")
	ErrUnknownBenefitType = errors.New("benefit type must be cash or relief")
	ErrEmptySelection     = errors.New("at least one member must be selected")
	ErrPerHeadRequired    = errors.New("per-participant amount is required for cash benefits")
	ErrQuantityRequired   = errors.New("per-participant quantity and unit are required for relief benefits")
	ErrMemberNotApproved  = errors.New("selection contains members that are not approved")
	ErrAlreadyParticipant = errors.New("member is already a participant of this benefit")
	ErrNotParticipant     = errors.New("member is not a participant of this benefit")
	ErrAlreadyClaimed     = errors.New("benefit already claimed by this member")
	ErrParticipantClaimed = errors.New("cannot remove a participant who already claimed")
	ErrBenefitNotActive   = errors.New("benefit is not active")
)

// BenefitService handles entitlement snapshot and claim business logic
type BenefitService struct {
	benefitRepo repositories.BenefitRepository
	memberRepo  repositories.MemberRepository
}

// NewBenefitService creates a new benefit service
func NewBenefitService(benefitRepo repositories.BenefitRepository, memberRepo repositories.MemberRepository) *BenefitService {
	return &BenefitService{
		benefitRepo: benefitRepo,
		memberRepo:  memberRepo,
	}
}

// CreateBenefitInput represents benefit creation input. Budget totals are
// derived from the per-head value and the selection size, never entered.
type CreateBenefitInput struct {
	Name                   string   `json:"name" validate:"required"`
	Type                   string   `json:"type" validate:"required"`
	PerParticipantAmount   *float64 `json:"per_participant_amount"`
	PerParticipantQuantity *int     `json:"per_participant_quantity"`
	Unit                   string   `json:"unit"`
	TargetBarangay         string   `json:"target_barangay"`
	SelectedMembers        []uint   `json:"selected_members"`
}

// Create validates the draft, locks the participant roster and per-head
// economics, and persists the snapshot atomically. Validation failures are
// reported before any write.
func (s *BenefitService) Create(ctx context.Context, input *CreateBenefitInput, createdBy uint) (*models.Benefit, error) {
	if len(input.SelectedMembers) == 0 {
		return nil, ErrEmptySelection
	}

	switch input.Type {
	case models.BenefitTypeCash:
		if input.PerParticipantAmount == nil || *input.PerParticipantAmount < 0 {
			return nil, ErrPerHeadRequired
		}
	case models.BenefitTypeRelief:
		if input.PerParticipantQuantity == nil || *input.PerParticipantQuantity <= 0 || input.Unit == "" {
			return nil, ErrQuantityRequired
		}
	default:
		return nil, ErrUnknownBenefitType
	}

	memberIDs := dedupeIDs(input.SelectedMembers)
	if err := s.requireApproved(ctx, memberIDs); err != nil {
		return nil, err
	}

	count := len(memberIDs)
	benefit := &models.Benefit{
		Name:                   input.Name,
		Type:                   input.Type,
		PerParticipantAmount:   input.PerParticipantAmount,
		PerParticipantQuantity: input.PerParticipantQuantity,
		Unit:                   input.Unit,
		LockedMemberCount:      count,
		TargetBarangay:         input.TargetBarangay,
		Status:                 models.BenefitStatusActive,
		CreatedBy:              createdBy,
	}

	// Derived totals travel with the per-head values so the backend never
	// re-derives them.
	if input.Type == models.BenefitTypeCash {
		total := *input.PerParticipantAmount * float64(count)
		benefit.BudgetAmount = &total
	} else {
		total := *input.PerParticipantQuantity * count
		benefit.BudgetQuantity = &total
	}

	if err := s.benefitRepo.CreateWithParticipants(ctx, benefit, memberIDs, createdBy); err != nil {
		return nil, err
	}

	log.Printf("✅ Benefit created: %s (%d participants locked)", benefit.Name, count)
	return benefit, nil
}

// GetByID gets a benefit by ID
func (s *BenefitService) GetByID(ctx context.Context, id uint) (*models.Benefit, error) {
	benefit, err := s.benefitRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBenefitNotFound
		}
		return nil, err
	}
	return benefit, nil
}

// List lists benefits with pagination
func (s *BenefitService) List(ctx context.Context, offset, limit int) ([]models.Benefit, int64, error) {
	return s.benefitRepo.List(ctx, offset, limit)
}

// Participants returns the roster with the claimed flag per entry
func (s *BenefitService) Participants(ctx context.Context, benefitID uint) ([]models.ParticipantResponse, error) {
	if _, err := s.GetByID(ctx, benefitID); err != nil {
		return nil, err
	}

	participants, err := s.benefitRepo.ListParticipants(ctx, benefitID)
	if err != nil {
		return nil, err
	}
	claimedIDs, err := s.benefitRepo.ListClaimedMemberIDs(ctx, benefitID)
	if err != nil {
		return nil, err
	}
	claimed := make(map[uint]bool, len(claimedIDs))
	for _, id := range claimedIDs {
		claimed[id] = true
	}

	responses := make([]models.ParticipantResponse, 0, len(participants))
	for i := range participants {
		responses = append(responses, *participants[i].ToResponse(claimed[participants[i].MemberID]))
	}
	return responses, nil
}

// Candidates returns approved members not yet on the roster, pre-sorted by
// priority score (selection screens start from this order).
func (s *BenefitService) Candidates(ctx context.Context, benefitID uint) ([]RankedMember, error) {
	benefit, err := s.GetByID(ctx, benefitID)
	if err != nil {
		return nil, err
	}

	members, err := s.memberRepo.ListApproved(ctx, benefit.TargetBarangay)
	if err != nil {
		return nil, err
	}

	existing, err := s.benefitRepo.ListParticipantMemberIDs(ctx, benefitID)
	if err != nil {
		return nil, err
	}
	onRoster := make(map[uint]bool, len(existing))
	for _, id := range existing {
		onRoster[id] = true
	}

	candidates := make([]models.Member, 0, len(members))
	for _, m := range members {
		if !onRoster[m.ID] {
			candidates = append(candidates, m)
		}
	}
	return RankMembers(candidates, SortByPriority), nil
}

// AddParticipants adds approved members to an existing roster. The locked
// per-head economics do not change. Closed benefits refuse roster edits.
func (s *BenefitService) AddParticipants(ctx context.Context, benefitID uint, memberIDs []uint, addedBy uint) error {
	if len(memberIDs) == 0 {
		return ErrEmptySelection
	}
	benefit, err := s.GetByID(ctx, benefitID)
	if err != nil {
		return err
	}
	if benefit.Status != models.BenefitStatusActive {
		return ErrBenefitNotActive
	}

	memberIDs = dedupeIDs(memberIDs)
	if err := s.requireApproved(ctx, memberIDs); err != nil {
		return err
	}

	existing, err := s.benefitRepo.ListParticipantMemberIDs(ctx, benefitID)
	if err != nil {
		return err
	}
	onRoster := make(map[uint]bool, len(existing))
	for _, id := range existing {
		onRoster[id] = true
	}
	for _, id := range memberIDs {
		if onRoster[id] {
			return ErrAlreadyParticipant
		}
	}

	if err := s.benefitRepo.AddParticipants(ctx, benefitID, memberIDs, addedBy); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyParticipant
		}
		return err
	}

	log.Printf("✅ Benefit %d: %d participants added", benefitID, len(memberIDs))
	return nil
}

// RemoveParticipants removes members from a roster; refused for any member
// who already holds a claim, and refused entirely once the benefit closes.
func (s *BenefitService) RemoveParticipants(ctx context.Context, benefitID uint, memberIDs []uint) error {
	if len(memberIDs) == 0 {
		return ErrEmptySelection
	}
	benefit, err := s.GetByID(ctx, benefitID)
	if err != nil {
		return err
	}
	if benefit.Status != models.BenefitStatusActive {
		return ErrBenefitNotActive
	}

	if err := s.benefitRepo.RemoveParticipants(ctx, benefitID, dedupeIDs(memberIDs)); err != nil {
		if errors.Is(err, repositories.ErrParticipantHasClaim) {
			return ErrParticipantClaimed
		}
		return err
	}

	log.Printf("✅ Benefit %d: participants removed", benefitID)
	return nil
}

// SubmitClaim records a redemption. At most one claim per
// (benefit, member): the pre-check gives a friendly conflict, the unique
// index stays authoritative when two scanners race.
func (s *BenefitService) SubmitClaim(ctx context.Context, benefitID, memberID, scannedBy uint) (*models.Claim, error) {
	benefit, err := s.GetByID(ctx, benefitID)
	if err != nil {
		return nil, err
	}
	if benefit.Status != models.BenefitStatusActive {
		return nil, ErrBenefitNotActive
	}

	if _, err := s.benefitRepo.GetParticipant(ctx, benefitID, memberID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotParticipant
		}
		return nil, err
	}

	if _, err := s.benefitRepo.GetClaim(ctx, benefitID, memberID); err == nil {
		return nil, ErrAlreadyClaimed
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	claim := &models.Claim{
		BenefitID: benefitID,
		MemberID:  memberID,
		Amount:    benefit.PerParticipantAmount,
		Quantity:  benefit.PerParticipantQuantity,
		Reference: uuid.NewString(),
		ClaimedAt: time.Now(),
		ScannedBy: scannedBy,
	}

	if err := s.benefitRepo.CreateClaim(ctx, claim); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyClaimed
		}
		return nil, err
	}

	log.Printf("✅ Claim recorded: benefit %d, member %d (ref %s)", benefitID, memberID, claim.Reference)
	return s.benefitRepo.GetClaim(ctx, benefitID, memberID)
}

// ListClaims lists claim records, optionally scoped to one benefit
func (s *BenefitService) ListClaims(ctx context.Context, benefitID uint, offset, limit int) ([]models.Claim, int64, error) {
	return s.benefitRepo.ListClaims(ctx, benefitID, offset, limit)
}

// requireApproved checks that every ID maps to an approved member
func (s *BenefitService) requireApproved(ctx context.Context, memberIDs []uint) error {
	members, err := s.memberRepo.ListByIDs(ctx, memberIDs)
	if err != nil {
		return err
	}
	if len(members) != len(memberIDs) {
		return ErrMemberNotApproved
	}
	for i := range members {
		if !members[i].IsApproved() {
			return ErrMemberNotApproved
		}
	}
	return nil
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
