package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"pdao-carelink/internal/adapters/persistence/models"
	"pdao-carelink/internal/adapters/persistence/repositories"
)

// fakeMemberRepo is an in-memory MemberRepository for service tests
type fakeMemberRepo struct {
	members map[uint]*models.Member
	nextID  uint
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: make(map[uint]*models.Member), nextID: 1}
}

func (r *fakeMemberRepo) add(m models.Member) *models.Member {
	m.ID = r.nextID
	r.nextID++
	r.members[m.ID] = &m
	return &m
}

func (r *fakeMemberRepo) Create(_ context.Context, member *models.Member) error {
	member.ID = r.nextID
	r.nextID++
	r.members[member.ID] = member
	return nil
}

func (r *fakeMemberRepo) GetByID(_ context.Context, id uint) (*models.Member, error) {
	m, ok := r.members[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *fakeMemberRepo) GetByIDNumber(_ context.Context, idNumber string) (*models.Member, error) {
	for _, m := range r.members {
		if m.IDNumber == idNumber {
			return m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeMemberRepo) List(_ context.Context, _ repositories.MemberFilter, _, _ int) ([]models.Member, int64, error) {
	out := make([]models.Member, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

func (r *fakeMemberRepo) ListApproved(_ context.Context, barangay string) ([]models.Member, error) {
	out := make([]models.Member, 0)
	for _, m := range r.members {
		if m.Status == models.MemberStatusApproved && (barangay == "" || m.Barangay == barangay) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMemberRepo) ListByIDs(_ context.Context, ids []uint) ([]models.Member, error) {
	out := make([]models.Member, 0, len(ids))
	for _, id := range ids {
		if m, ok := r.members[id]; ok {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMemberRepo) UpdateStatus(_ context.Context, id uint, status string) error {
	m, ok := r.members[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	m.Status = status
	return nil
}

func (r *fakeMemberRepo) ExistsByIDNumber(_ context.Context, idNumber string) (bool, error) {
	for _, m := range r.members {
		if m.IDNumber == idNumber {
			return true, nil
		}
	}
	return false, nil
}

// fakeBenefitRepo is an in-memory BenefitRepository for service tests
type fakeBenefitRepo struct {
	benefits     map[uint]*models.Benefit
	participants map[uint]map[uint]*models.Participant // benefitID -> memberID
	claims       map[uint]map[uint]*models.Claim
	nextID       uint
}

func newFakeBenefitRepo() *fakeBenefitRepo {
	return &fakeBenefitRepo{
		benefits:     make(map[uint]*models.Benefit),
		participants: make(map[uint]map[uint]*models.Participant),
		claims:       make(map[uint]map[uint]*models.Claim),
		nextID:       1,
	}
}

func (r *fakeBenefitRepo) CreateWithParticipants(ctx context.Context, benefit *models.Benefit, memberIDs []uint, addedBy uint) error {
	benefit.ID = r.nextID
	r.nextID++
	r.benefits[benefit.ID] = benefit
	return r.AddParticipants(ctx, benefit.ID, memberIDs, addedBy)
}

func (r *fakeBenefitRepo) GetByID(_ context.Context, id uint) (*models.Benefit, error) {
	b, ok := r.benefits[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return b, nil
}

func (r *fakeBenefitRepo) List(_ context.Context, _, _ int) ([]models.Benefit, int64, error) {
	out := make([]models.Benefit, 0, len(r.benefits))
	for _, b := range r.benefits {
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBenefitRepo) AddParticipants(_ context.Context, benefitID uint, memberIDs []uint, addedBy uint) error {
	roster, ok := r.participants[benefitID]
	if !ok {
		roster = make(map[uint]*models.Participant)
		r.participants[benefitID] = roster
	}
	for _, id := range memberIDs {
		if _, dup := roster[id]; dup {
			return gorm.ErrDuplicatedKey
		}
		roster[id] = &models.Participant{BenefitID: benefitID, MemberID: id, AddedBy: addedBy}
	}
	return nil
}

func (r *fakeBenefitRepo) RemoveParticipants(_ context.Context, benefitID uint, memberIDs []uint) error {
	for _, id := range memberIDs {
		if _, claimed := r.claims[benefitID][id]; claimed {
			return repositories.ErrParticipantHasClaim
		}
	}
	for _, id := range memberIDs {
		delete(r.participants[benefitID], id)
	}
	return nil
}

func (r *fakeBenefitRepo) GetParticipant(_ context.Context, benefitID, memberID uint) (*models.Participant, error) {
	p, ok := r.participants[benefitID][memberID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *fakeBenefitRepo) ListParticipants(_ context.Context, benefitID uint) ([]models.Participant, error) {
	out := make([]models.Participant, 0)
	for _, p := range r.participants[benefitID] {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeBenefitRepo) ListParticipantMemberIDs(_ context.Context, benefitID uint) ([]uint, error) {
	out := make([]uint, 0)
	for id := range r.participants[benefitID] {
		out = append(out, id)
	}
	return out, nil
}

func (r *fakeBenefitRepo) CreateClaim(_ context.Context, claim *models.Claim) error {
	byMember, ok := r.claims[claim.BenefitID]
	if !ok {
		byMember = make(map[uint]*models.Claim)
		r.claims[claim.BenefitID] = byMember
	}
	if _, dup := byMember[claim.MemberID]; dup {
		return gorm.ErrDuplicatedKey
	}
	byMember[claim.MemberID] = claim
	return nil
}

func (r *fakeBenefitRepo) GetClaim(_ context.Context, benefitID, memberID uint) (*models.Claim, error) {
	c, ok := r.claims[benefitID][memberID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *fakeBenefitRepo) ListClaims(_ context.Context, benefitID uint, _, _ int) ([]models.Claim, int64, error) {
	out := make([]models.Claim, 0)
	for id, byMember := range r.claims {
		if benefitID != 0 && id != benefitID {
			continue
		}
		for _, c := range byMember {
			out = append(out, *c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBenefitRepo) ListClaimedMemberIDs(_ context.Context, benefitID uint) ([]uint, error) {
	out := make([]uint, 0)
	for id := range r.claims[benefitID] {
		out = append(out, id)
	}
	return out, nil
}

func (r *fakeBenefitRepo) CountClaimsSince(_ context.Context, since time.Time) (int64, error) {
	var n int64
	for _, byMember := range r.claims {
		for _, c := range byMember {
			if !c.ClaimedAt.Before(since) {
				n++
			}
		}
	}
	return n, nil
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func approvedMember(repo *fakeMemberRepo, idNumber, barangay string) *models.Member {
	return repo.add(models.Member{
		IDNumber:  idNumber,
		FirstName: "Maria",
		LastName:  "Santos",
		Barangay:  barangay,
		Severity:  "moderate",
		Status:    models.MemberStatusApproved,
	})
}

func newBenefitFixture(t *testing.T) (*BenefitService, *fakeBenefitRepo, *fakeMemberRepo) {
	t.Helper()
	benefitRepo := newFakeBenefitRepo()
	memberRepo := newFakeMemberRepo()
	return NewBenefitService(benefitRepo, memberRepo), benefitRepo, memberRepo
}

func TestCreateCashBenefitDerivesBudget(t *testing.T) {
	svc, _, memberRepo := newBenefitFixture(t)
	m1 := approvedMember(memberRepo, "PWD-0001", "Poblacion")
	m2 := approvedMember(memberRepo, "PWD-0002", "Poblacion")
	m3 := approvedMember(memberRepo, "PWD-0003", "Poblacion")

	benefit, err := svc.Create(context.Background(), &CreateBenefitInput{
		Name:                 "Christmas Cash Aid",
		Type:                 models.BenefitTypeCash,
		PerParticipantAmount: floatPtr(1500),
		SelectedMembers:      []uint{m1.ID, m2.ID, m3.ID},
	}, 1)

	require.NoError(t, err)
	assert.Equal(t, 3, benefit.LockedMemberCount)
	require.NotNil(t, benefit.BudgetAmount)
	assert.Equal(t, 4500.0, *benefit.BudgetAmount)
	assert.Nil(t, benefit.BudgetQuantity)
	assert.Equal(t, models.BenefitStatusActive, benefit.Status)
}

func TestCreateReliefBenefitDerivesQuantity(t *testing.T) {
	svc, _, memberRepo := newBenefitFixture(t)
	m1 := approvedMember(memberRepo, "PWD-0001", "Poblacion")
	m2 := approvedMember(memberRepo, "PWD-0002", "Poblacion")

	benefit, err := svc.Create(context.Background(), &CreateBenefitInput{
		Name:                   "Rice Distribution",
		Type:                   models.BenefitTypeRelief,
		PerParticipantQuantity: intPtr(2),
		Unit:                   "sack",
		SelectedMembers:        []uint{m1.ID, m2.ID},
	}, 1)

	require.NoError(t, err)
	require.NotNil(t, benefit.BudgetQuantity)
	assert.Equal(t, 4, *benefit.BudgetQuantity)
	assert.Nil(t, benefit.BudgetAmount)
}

func TestCreateBenefitValidation(t *testing.T) {
	svc, _, memberRepo := newBenefitFixture(t)
	m1 := approvedMember(memberRepo, "PWD-0001", "Poblacion")

	_, err := svc.Create(context.Background(), &CreateBenefitInput{
		Name: "No members", Type: models.BenefitTypeCash, PerParticipantAmount: floatPtr(100),
	}, 1)
	assert.ErrorIs(t, err, ErrEmptySelection)

	_, err = svc.Create(context.Background(), &CreateBenefitInput{
		Name: "Missing per-head", Type: models.BenefitTypeCash,
		SelectedMembers: []uint{m1.ID},
	}, 1)
	assert.ErrorIs(t, err, ErrPerHeadRequired)

	_, err = svc.Create(context.Background(), &CreateBenefitInput{
		Name: "Missing unit", Type: models.BenefitTypeRelief, PerParticipantQuantity: intPtr(1),
		SelectedMembers: []uint{m1.ID},
	}, 1)
	assert.ErrorIs(t, err, ErrQuantityRequired)

	_, err = svc.Create(context.Background(), &CreateBenefitInput{
		Name: "Bad type", Type: "voucher",
		SelectedMembers: []uint{m1.ID},
	}, 1)
	assert.ErrorIs(t, err, ErrUnknownBenefitType)
}

func TestCreateBenefitRejectsUnapprovedMembers(t *testing.T) {
	svc, _, memberRepo := newBenefitFixture(t)
	pending := memberRepo.add(models.Member{
		IDNumber: "PWD-0009", FirstName: "Pedro", LastName: "Reyes",
		Status: models.MemberStatusPending,
	})

	_, err := svc.Create(context.Background(), &CreateBenefitInput{
		Name: "Cash Aid", Type: models.BenefitTypeCash, PerParticipantAmount: floatPtr(500),
		SelectedMembers: []uint{pending.ID},
	}, 1)

	assert.ErrorIs(t, err, ErrMemberNotApproved)
}

func TestCreateBenefitDedupesSelection(t *testing.T) {
	svc, _, memberRepo := newBenefitFixture(t)
	m1 := approvedMember(memberRepo, "PWD-0001", "Poblacion")

	benefit, err := svc.Create(context.Background(), &CreateBenefitInput{
		Name: "Cash Aid", Type: models.BenefitTypeCash, PerParticipantAmount: floatPtr(500),
		SelectedMembers: []uint{m1.ID, m1.ID, m1.ID},
	}, 1)

	require.NoError(t, err)
	assert.Equal(t, 1, benefit.LockedMemberCount)
	require.NotNil(t, benefit.BudgetAmount)
	assert.Equal(t, 500.0, *benefit.BudgetAmount)
}

func TestSubmitClaimAtMostOnce(t *testing.T) {
	svc, _, memberRepo := newBenefitFixture(t)
	m1 := approvedMember(memberRepo, "PWD-0001", "Poblacion")

	benefit, err := svc.Create(context.Background(), &CreateBenefitInput{
		Name: "Cash Aid", Type: models.BenefitTypeCash, PerParticipantAmount: floatPtr(1000),
		SelectedMembers: []uint{m1.ID},
	}, 1)
	require.NoError(t, err)

	claim, err := svc.SubmitClaim(context.Background(), benefit.ID, m1.ID, 2)
	require.NoError(t, err)
	assert.NotEmpty(t, claim.Reference)
	require.NotNil(t, claim.Amount)
	assert.Equal(t, 1000.0, *claim.Amount)

	// Second scan of the same member is a conflict, not a new claim.
	_, err = svc.SubmitClaim(context.Background(), benefit.ID, m1.ID, 2)
	assert.ErrorIs(t, err, ErrAlreadyClaimed)

	claims, total, err := svc.ListClaims(context.Background(), benefit.ID, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, claims, 1)
}

func TestSubmitClaimRequiresParticipant(t *testing.T) {
	svc, _, memberRepo := newBenefitFixture(t)
	m1 := approvedMember(memberRepo, "PWD-0001", "Poblacion")
	outsider := approvedMember(memberRepo, "PWD-0002", "Poblacion")

	benefit, err := svc.Create(context.Background(), &CreateBenefitInput{
		Name: "Cash Aid", Type: models.BenefitTypeCash, PerParticipantAmount: floatPtr(1000),
		SelectedMembers: []uint{m1.ID},
	}, 1)
	require.NoError(t, err)

	_, err = svc.SubmitClaim(context.Background(), benefit.ID, outsider.ID, 2)
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestSubmitClaimRejectsClosedBenefit(t *testing.T) {
	svc, benefitRepo, memberRepo := newBenefitFixture(t)
	m1 := approvedMember(memberRepo, "PWD-0001", "Poblacion")

	benefit, err := svc.Create(context.Background(), &CreateBenefitInput{
		Name: "Cash Aid", Type: models.BenefitTypeCash, PerParticipantAmount: floatPtr(1000),
		SelectedMembers: []uint{m1.ID},
	}, 1)
	require.NoError(t, err)

	benefitRepo.benefits[benefit.ID].Status = models.BenefitStatusClosed

	_, err = svc.SubmitClaim(context.Background(), benefit.ID, m1.ID, 2)
	assert.ErrorIs(t, err, ErrBenefitNotActive)
}

func TestRosterEditsRejectClosedBenefit(t *testing.T) {
	svc, benefitRepo, memberRepo := newBenefitFixture(t)
	m1 := approvedMember(memberRepo, "PWD-0001", "Poblacion")
	m2 := approvedMember(memberRepo, "PWD-0002", "Poblacion")

	benefit, err := svc.Create(context.Background(), &CreateBenefitInput{
		Name: "Cash Aid", Type: models.BenefitTypeCash, PerParticipantAmount: floatPtr(1000),
		SelectedMembers: []uint{m1.ID},
	}, 1)
	require.NoError(t, err)

	benefitRepo.benefits[benefit.ID].Status = models.BenefitStatusClosed

	err = svc.AddParticipants(context.Background(), benefit.ID, []uint{m2.ID}, 1)
	assert.ErrorIs(t, err, ErrBenefitNotActive)

	err = svc.RemoveParticipants(context.Background(), benefit.ID, []uint{m1.ID})
	assert.ErrorIs(t, err, ErrBenefitNotActive)
}

func TestListClaimsAcrossAllBenefits(t *testing.T) {
	svc, _, memberRepo := newBenefitFixture(t)
	m1 := approvedMember(memberRepo, "PWD-0001", "Poblacion")
	m2 := approvedMember(memberRepo, "PWD-0002", "San Isidro")

	first, err := svc.Create(context.Background(), &CreateBenefitInput{
		Name: "Cash Aid", Type: models.BenefitTypeCash, PerParticipantAmount: floatPtr(1000),
		SelectedMembers: []uint{m1.ID},
	}, 1)
	require.NoError(t, err)

	second, err := svc.Create(context.Background(), &CreateBenefitInput{
		Name: "Rice Relief", Type: models.BenefitTypeRelief,
		PerParticipantQuantity: intPtr(2), Unit: "sack",
		SelectedMembers: []uint{m2.ID},
	}, 1)
	require.NoError(t, err)

	_, err = svc.SubmitClaim(context.Background(), first.ID, m1.ID, 2)
	require.NoError(t, err)
	_, err = svc.SubmitClaim(context.Background(), second.ID, m2.ID, 2)
	require.NoError(t, err)

	// Benefit ID zero means no scoping: records from every benefit.
	all, total, err := svc.ListClaims(context.Background(), 0, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	scoped, total, err := svc.ListClaims(context.Background(), first.ID, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, scoped, 1)
	assert.Equal(t, m1.ID, scoped[0].MemberID)
}

func TestRemoveParticipantBlockedByClaim(t *testing.T) {
	svc, _, memberRepo := newBenefitFixture(t)
	m1 := approvedMember(memberRepo, "PWD-0001", "Poblacion")
	m2 := approvedMember(memberRepo, "PWD-0002", "Poblacion")

	benefit, err := svc.Create(context.Background(), &CreateBenefitInput{
		Name: "Cash Aid", Type: models.BenefitTypeCash, PerParticipantAmount: floatPtr(1000),
		SelectedMembers: []uint{m1.ID, m2.ID},
	}, 1)
	require.NoError(t, err)

	_, err = svc.SubmitClaim(context.Background(), benefit.ID, m1.ID, 2)
	require.NoError(t, err)

	err = svc.RemoveParticipants(context.Background(), benefit.ID, []uint{m1.ID})
	assert.ErrorIs(t, err, ErrParticipantClaimed)

	// The unclaimed participant can still be removed.
	err = svc.RemoveParticipants(context.Background(), benefit.ID, []uint{m2.ID})
	assert.NoError(t, err)
}

func TestAddParticipantsRejectsDuplicates(t *testing.T) {
	svc, _, memberRepo := newBenefitFixture(t)
	m1 := approvedMember(memberRepo, "PWD-0001", "Poblacion")
	m2 := approvedMember(memberRepo, "PWD-0002", "Poblacion")

	benefit, err := svc.Create(context.Background(), &CreateBenefitInput{
		Name: "Cash Aid", Type: models.BenefitTypeCash, PerParticipantAmount: floatPtr(1000),
		SelectedMembers: []uint{m1.ID},
	}, 1)
	require.NoError(t, err)

	err = svc.AddParticipants(context.Background(), benefit.ID, []uint{m1.ID}, 1)
	assert.ErrorIs(t, err, ErrAlreadyParticipant)

	err = svc.AddParticipants(context.Background(), benefit.ID, []uint{m2.ID}, 1)
	assert.NoError(t, err)
}

func TestCandidatesExcludeRoster(t *testing.T) {
	svc, _, memberRepo := newBenefitFixture(t)
	m1 := approvedMember(memberRepo, "PWD-0001", "Poblacion")
	m2 := approvedMember(memberRepo, "PWD-0002", "Poblacion")
	memberRepo.add(models.Member{
		IDNumber: "PWD-0003", FirstName: "Jose", LastName: "Cruz",
		Barangay: "Poblacion", Status: models.MemberStatusPending,
	})

	benefit, err := svc.Create(context.Background(), &CreateBenefitInput{
		Name: "Cash Aid", Type: models.BenefitTypeCash, PerParticipantAmount: floatPtr(1000),
		SelectedMembers: []uint{m1.ID},
	}, 1)
	require.NoError(t, err)

	candidates, err := svc.Candidates(context.Background(), benefit.ID)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, m2.ID, candidates[0].Member.ID)
}

func TestParticipantsCarryClaimFlag(t *testing.T) {
	svc, _, memberRepo := newBenefitFixture(t)
	m1 := approvedMember(memberRepo, "PWD-0001", "Poblacion")
	m2 := approvedMember(memberRepo, "PWD-0002", "Poblacion")

	benefit, err := svc.Create(context.Background(), &CreateBenefitInput{
		Name: "Cash Aid", Type: models.BenefitTypeCash, PerParticipantAmount: floatPtr(1000),
		SelectedMembers: []uint{m1.ID, m2.ID},
	}, 1)
	require.NoError(t, err)

	_, err = svc.SubmitClaim(context.Background(), benefit.ID, m1.ID, 2)
	require.NoError(t, err)

	participants, err := svc.Participants(context.Background(), benefit.ID)
	require.NoError(t, err)
	require.Len(t, participants, 2)

	claimed := map[uint]bool{}
	for _, p := range participants {
		claimed[p.MemberID] = p.HasClaimed
	}
	assert.True(t, claimed[m1.ID])
	assert.False(t, claimed[m2.ID])
}
