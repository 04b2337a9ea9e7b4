package repositories

import (
	"context"
	"time"

	"pdao-carelink/internal/adapters/persistence/models"
)

// UserRepository defines staff account repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// MemberFilter narrows member list queries
type MemberFilter struct {
	Barangay string
	Status   string
	Search   string
}

// MemberRepository defines member repository interface
type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, id uint) (*models.Member, error)
	GetByIDNumber(ctx context.Context, idNumber string) (*models.Member, error)
	List(ctx context.Context, filter MemberFilter, offset, limit int) ([]models.Member, int64, error)
	ListApproved(ctx context.Context, barangay string) ([]models.Member, error)
	ListByIDs(ctx context.Context, ids []uint) ([]models.Member, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	ExistsByIDNumber(ctx context.Context, idNumber string) (bool, error)
}

// BenefitRepository defines benefit/participant/claim repository interface
type BenefitRepository interface {
	CreateWithParticipants(ctx context.Context, benefit *models.Benefit, memberIDs []uint, addedBy uint) error
	GetByID(ctx context.Context, id uint) (*models.Benefit, error)
	List(ctx context.Context, offset, limit int) ([]models.Benefit, int64, error)

	AddParticipants(ctx context.Context, benefitID uint, memberIDs []uint, addedBy uint) error
	RemoveParticipants(ctx context.Context, benefitID uint, memberIDs []uint) error
	GetParticipant(ctx context.Context, benefitID, memberID uint) (*models.Participant, error)
	ListParticipants(ctx context.Context, benefitID uint) ([]models.Participant, error)
	ListParticipantMemberIDs(ctx context.Context, benefitID uint) ([]uint, error)

	CreateClaim(ctx context.Context, claim *models.Claim) error
	GetClaim(ctx context.Context, benefitID, memberID uint) (*models.Claim, error)
	ListClaims(ctx context.Context, benefitID uint, offset, limit int) ([]models.Claim, int64, error)
	ListClaimedMemberIDs(ctx context.Context, benefitID uint) ([]uint, error)
	CountClaimsSince(ctx context.Context, since time.Time) (int64, error)
}

// EventRepository defines event/attendance repository interface
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uint) (*models.Event, error)
	List(ctx context.Context, offset, limit int) ([]models.Event, int64, error)

	CreateAttendance(ctx context.Context, attendance *models.Attendance) error
	GetAttendance(ctx context.Context, eventID, memberID uint) (*models.Attendance, error)
	ListAttendances(ctx context.Context, eventID uint) ([]models.Attendance, error)
	CountAttendances(ctx context.Context, eventID uint) (int64, error)
}

// BarangayRepository defines barangay master repository interface
type BarangayRepository interface {
	Create(ctx context.Context, barangay *models.Barangay) error
	List(ctx context.Context) ([]models.Barangay, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
}
