package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"

	"pdao-carelink/internal/adapters/persistence/models"
	"pdao-carelink/internal/adapters/persistence/repositories"
	"pdao-carelink/internal/core/domain"
	"pdao-carelink/internal/core/scoring"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// Member service errors
var (
	ErrIDNumberTaken       = errors.New("id number already issued")
	ErrMissingMemberFields = errors.New("id_number, first_name and last_name are required")
	ErrUnknownMemberStatus = errors.New("unknown member status")
)

// Recognized override sort keys for ranking screens
const (
	SortByPriority   = "priority"
	SortByName       = "name"
	SortByBarangay   = "barangay"
	SortByIncome     = "income"
	SortByDependants = "dependants"
	SortBySeverity   = "severity"
)

var memberStatuses = map[string]bool{
	models.MemberStatusApproved: true,
	models.MemberStatusPending:  true,
	models.MemberStatusRejected: true,
	models.MemberStatusInactive: true,
	models.MemberStatusDeceased: true,
}

// MemberService handles membership business logic
type MemberService struct {
	memberRepo repositories.MemberRepository
}

// NewMemberService creates a new member service
func NewMemberService(memberRepo repositories.MemberRepository) *MemberService {
	return &MemberService{memberRepo: memberRepo}
}

// RegisterMemberInput represents member registration input
type RegisterMemberInput struct {
	IDNumber       string   `json:"id_number" validate:"required"`
	FirstName      string   `json:"first_name" validate:"required"`
	LastName       string   `json:"last_name" validate:"required"`
	Barangay       string   `json:"barangay"`
	DisabilityType string   `json:"disability_type"`
	Severity       string   `json:"severity"`
	MonthlyIncome  *float64 `json:"monthly_income"`
	Dependants     *int     `json:"dependants"`
	Age            int      `json:"age"`
	IsSoloParent   bool     `json:"is_solo_parent"`
}

// Register creates a new member in pending status
func (s *MemberService) Register(ctx context.Context, input *RegisterMemberInput) (*models.Member, error) {
	if strings.TrimSpace(input.IDNumber) == "" ||
		strings.TrimSpace(input.FirstName) == "" ||
		strings.TrimSpace(input.LastName) == "" {
		return nil, ErrMissingMemberFields
	}

	exists, err := s.memberRepo.ExistsByIDNumber(ctx, input.IDNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrIDNumberTaken
	}

	member := &models.Member{
		IDNumber:       strings.TrimSpace(input.IDNumber),
		FirstName:      strings.TrimSpace(input.FirstName),
		LastName:       strings.TrimSpace(input.LastName),
		Barangay:       input.Barangay,
		DisabilityType: input.DisabilityType,
		Severity:       input.Severity,
		MonthlyIncome:  input.MonthlyIncome,
		Dependants:     input.Dependants,
		Age:            input.Age,
		IsSoloParent:   input.IsSoloParent,
		Status:         models.MemberStatusPending,
	}

	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	log.Printf("✅ Member registered: %s (%s)", member.IDNumber, member.FullName())
	return member, nil
}

// GetByID gets a member by ID
func (s *MemberService) GetByID(ctx context.Context, id uint) (*models.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

// List lists members with filters and pagination
func (s *MemberService) List(ctx context.Context, filter repositories.MemberFilter, offset, limit int) ([]models.Member, int64, error) {
	return s.memberRepo.List(ctx, filter, offset, limit)
}

// UpdateStatus moves a member between lifecycle statuses
func (s *MemberService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Member, error) {
	if !memberStatuses[status] {
		return nil, ErrUnknownMemberStatus
	}

	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if err := s.memberRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	log.Printf("✅ Member %d status → %s", id, status)
	return s.memberRepo.GetByID(ctx, id)
}

// ResolveByIDNumber resolves a scanned ID number to a member.
// Only approved members resolve for claiming or attendance.
func (s *MemberService) ResolveByIDNumber(ctx context.Context, idNumber string) (*models.Member, error) {
	member, err := s.memberRepo.GetByIDNumber(ctx, idNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	if !member.IsApproved() {
		return nil, domain.ErrMemberNotApproved
	}
	return member, nil
}

// ============================================================
// Priority ranking
// ============================================================

// RankedMember pairs a member with its computed priority score
type RankedMember struct {
	Member models.Member `json:"member"`
	Score  scoring.Score `json:"score"`
}

// ScoreOf computes the priority score for one member
func ScoreOf(m *models.Member) scoring.Score {
	return scoring.Compute(scoring.Input{
		Severity:      m.Severity,
		MonthlyIncome: m.MonthlyIncome,
		Dependants:    m.Dependants,
		Age:           m.Age,
		IsSoloParent:  m.IsSoloParent,
	})
}

// Ranked returns approved members ordered for selection screens. The
// default order is priority descending; override sort keys are stable and
// locale-aware for strings.
func (s *MemberService) Ranked(ctx context.Context, barangay, sortKey string) ([]RankedMember, error) {
	members, err := s.memberRepo.ListApproved(ctx, barangay)
	if err != nil {
		return nil, err
	}
	return RankMembers(members, sortKey), nil
}

// RankMembers scores and orders a member slice by the given sort key.
func RankMembers(members []models.Member, sortKey string) []RankedMember {
	ranked := make([]RankedMember, 0, len(members))
	for _, m := range members {
		ranked = append(ranked, RankedMember{Member: m, Score: ScoreOf(&m)})
	}

	switch sortKey {
	case SortByName:
		col := collate.New(language.Filipino)
		sort.SliceStable(ranked, func(i, j int) bool {
			return col.CompareString(ranked[i].Member.FullName(), ranked[j].Member.FullName()) < 0
		})
	case SortByBarangay:
		col := collate.New(language.Filipino)
		sort.SliceStable(ranked, func(i, j int) bool {
			return col.CompareString(ranked[i].Member.Barangay, ranked[j].Member.Barangay) < 0
		})
	case SortByIncome:
		sort.SliceStable(ranked, func(i, j int) bool {
			return incomeOrZero(&ranked[i].Member) < incomeOrZero(&ranked[j].Member)
		})
	case SortByDependants:
		sort.SliceStable(ranked, func(i, j int) bool {
			return dependantsOrZero(&ranked[i].Member) > dependantsOrZero(&ranked[j].Member)
		})
	case SortBySeverity:
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Score.SeverityScore > ranked[j].Score.SeverityScore
		})
	default: // SortByPriority
		scoring.Rank(ranked, func(r RankedMember) scoring.Score { return r.Score })
	}

	return ranked
}

func incomeOrZero(m *models.Member) float64 {
	if m.MonthlyIncome == nil {
		return 0
	}
	return *m.MonthlyIncome
}

func dependantsOrZero(m *models.Member) int {
	if m.Dependants == nil {
		return 0
	}
	return *m.Dependants
}
