package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Auth & Staff Tables
// ============================================================

// User represents a staff account (office staff / admin)
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;default:'STAFF'" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Master Tables
// ============================================================

// Barangay master list (service coverage area)
type Barangay struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;uniqueIndex;not null" json:"name"`
	District  string         `gorm:"size:100" json:"district"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Barangay) TableName() string {
	return "barangays"
}

// ============================================================
// Membership Tables
// ============================================================

// Member statuses
const (
	MemberStatusApproved = "approved"
	MemberStatusPending  = "pending"
	MemberStatusRejected = "rejected"
	MemberStatusInactive = "inactive"
	MemberStatusDeceased = "deceased"
)

// Member represents a registered person with disability.
// IDNumber is the human/QR-encoded identifier printed on the PWD ID card;
// unique and immutable once issued.
type Member struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	IDNumber       string         `gorm:"uniqueIndex;size:30;not null" json:"id_number"`
	FirstName      string         `gorm:"size:100;not null" json:"first_name"`
	LastName       string         `gorm:"size:100;not null" json:"last_name"`
	Barangay       string         `gorm:"size:100;index" json:"barangay"`
	DisabilityType string         `gorm:"size:100" json:"disability_type"`
	Severity       string         `gorm:"size:20" json:"severity"`
	MonthlyIncome  *float64       `gorm:"type:decimal(12,2)" json:"monthly_income"`
	Dependants     *int           `json:"dependants"`
	Age            int            `json:"age"`
	IsSoloParent   bool           `gorm:"default:false" json:"is_solo_parent"`
	Status         string         `gorm:"size:20;index;default:'pending'" json:"status"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Member) TableName() string {
	return "members"
}

func (m *Member) FullName() string {
	return m.FirstName + " " + m.LastName
}

func (m *Member) IsApproved() bool {
	return m.Status == MemberStatusApproved
}

// ============================================================
// Benefit Tables
// ============================================================

// Benefit types
const (
	BenefitTypeCash   = "cash"
	BenefitTypeRelief = "relief"
)

// Benefit statuses
const (
	BenefitStatusActive = "active"
	BenefitStatusClosed = "closed"
)

// Benefit is an entitlement snapshot. The participant set and
// LockedMemberCount are fixed at creation time; per-head economics never
// change retroactively for already-claimed members.
type Benefit struct {
	ID                     uint           `gorm:"primaryKey" json:"id"`
	Name                   string         `gorm:"size:150;not null" json:"name"`
	Type                   string         `gorm:"size:20;not null" json:"type"`
	PerParticipantAmount   *float64       `gorm:"type:decimal(12,2)" json:"per_participant_amount"`
	PerParticipantQuantity *int           `json:"per_participant_quantity"`
	Unit                   string         `gorm:"size:30" json:"unit"`
	BudgetAmount           *float64       `gorm:"type:decimal(15,2)" json:"budget_amount"`
	BudgetQuantity         *int           `json:"budget_quantity"`
	LockedMemberCount      int            `gorm:"not null" json:"locked_member_count"`
	TargetBarangay         string         `gorm:"size:100" json:"target_barangay"`
	Status                 string         `gorm:"size:20;default:'active'" json:"status"`
	CreatedBy              uint           `gorm:"not null" json:"created_by"`
	CreatedAt              time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt              gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Creator      *User         `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Participants []Participant `gorm:"foreignKey:BenefitID" json:"participants,omitempty"`
}

func (Benefit) TableName() string {
	return "benefits"
}

// Participant binds a member to a benefit at snapshot time.
// Removable only while unclaimed.
type Participant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BenefitID uint      `gorm:"not null;uniqueIndex:idx_benefit_member" json:"benefit_id"`
	MemberID  uint      `gorm:"not null;uniqueIndex:idx_benefit_member" json:"member_id"`
	AddedBy   uint      `gorm:"not null" json:"added_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	Benefit *Benefit `gorm:"foreignKey:BenefitID" json:"benefit,omitempty"`
	Member  *Member  `gorm:"foreignKey:MemberID" json:"member,omitempty"`
}

func (Participant) TableName() string {
	return "participants"
}

// ParticipantResponse DTO
type ParticipantResponse struct {
	ID         uint      `json:"id"`
	BenefitID  uint      `json:"benefit_id"`
	MemberID   uint      `json:"member_id"`
	MemberName string    `json:"member_name,omitempty"`
	IDNumber   string    `json:"id_number,omitempty"`
	Barangay   string    `json:"barangay,omitempty"`
	HasClaimed bool      `json:"has_claimed"`
	CreatedAt  time.Time `json:"created_at"`
}

func (p *Participant) ToResponse(hasClaimed bool) *ParticipantResponse {
	resp := &ParticipantResponse{
		ID:         p.ID,
		BenefitID:  p.BenefitID,
		MemberID:   p.MemberID,
		HasClaimed: hasClaimed,
		CreatedAt:  p.CreatedAt,
	}
	if p.Member != nil {
		resp.MemberName = p.Member.FullName()
		resp.IDNumber = p.Member.IDNumber
		resp.Barangay = p.Member.Barangay
	}
	return resp
}

// Claim proves a participant redeemed a benefit. At most one claim may
// exist per (benefit_id, member_id); the unique index is the authoritative
// guard, client-side checks are advisory.
type Claim struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BenefitID uint      `gorm:"not null;uniqueIndex:idx_claim_once" json:"benefit_id"`
	MemberID  uint      `gorm:"not null;uniqueIndex:idx_claim_once" json:"member_id"`
	Amount    *float64  `gorm:"type:decimal(12,2)" json:"amount"`
	Quantity  *int      `json:"quantity"`
	Reference string    `gorm:"size:40;uniqueIndex" json:"reference"`
	ClaimedAt time.Time `gorm:"not null" json:"claimed_at"`
	ScannedBy uint      `gorm:"not null" json:"scanned_by"`

	// Relations
	Benefit *Benefit `gorm:"foreignKey:BenefitID" json:"benefit,omitempty"`
	Member  *Member  `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Scanner *User    `gorm:"foreignKey:ScannedBy" json:"scanner,omitempty"`
}

func (Claim) TableName() string {
	return "claims"
}

// ClaimResponse DTO
type ClaimResponse struct {
	ID          uint      `json:"id"`
	BenefitID   uint      `json:"benefit_id"`
	BenefitName string    `json:"benefit_name,omitempty"`
	MemberID    uint      `json:"member_id"`
	MemberName  string    `json:"member_name,omitempty"`
	IDNumber    string    `json:"id_number,omitempty"`
	Amount      *float64  `json:"amount"`
	Quantity    *int      `json:"quantity"`
	Reference   string    `json:"reference"`
	ClaimedAt   time.Time `json:"claimed_at"`
	ScannedBy   uint      `json:"scanned_by"`
	ScannerName string    `json:"scanner_name,omitempty"`
}

func (c *Claim) ToResponse() *ClaimResponse {
	resp := &ClaimResponse{
		ID:        c.ID,
		BenefitID: c.BenefitID,
		MemberID:  c.MemberID,
		Amount:    c.Amount,
		Quantity:  c.Quantity,
		Reference: c.Reference,
		ClaimedAt: c.ClaimedAt,
		ScannedBy: c.ScannedBy,
	}
	if c.Benefit != nil {
		resp.BenefitName = c.Benefit.Name
	}
	if c.Member != nil {
		resp.MemberName = c.Member.FullName()
		resp.IDNumber = c.Member.IDNumber
	}
	if c.Scanner != nil {
		resp.ScannerName = c.Scanner.Username
	}
	return resp
}

// ============================================================
// Event Tables
// ============================================================

// Event statuses (derived from EventDate, never persisted)
const (
	EventStatusUpcoming  = "upcoming"
	EventStatusOngoing   = "ongoing"
	EventStatusCompleted = "completed"
)

// Event represents a scheduled office activity with QR attendance
type Event struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Title          string         `gorm:"size:150;not null" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	EventDate      time.Time      `gorm:"type:date;not null;index" json:"event_date"`
	Location       string         `gorm:"size:200" json:"location"`
	TargetBarangay string         `gorm:"size:100" json:"target_barangay"`
	CreatedBy      uint           `gorm:"not null" json:"created_by"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Creator *User `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
}

func (Event) TableName() string {
	return "events"
}

// StatusOn derives the event status relative to today. Date-only
// comparison: time of day is ignored on both sides.
func (e *Event) StatusOn(today time.Time) string {
	ey, em, ed := e.EventDate.Date()
	ty, tm, td := today.Date()
	eventDay := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	todayDay := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)

	switch {
	case eventDay.Before(todayDay):
		return EventStatusCompleted
	case eventDay.After(todayDay):
		return EventStatusUpcoming
	default:
		return EventStatusOngoing
	}
}

// EventResponse DTO carries the derived status
type EventResponse struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	EventDate      time.Time `json:"event_date"`
	Location       string    `json:"location"`
	TargetBarangay string    `json:"target_barangay"`
	Status         string    `json:"status"`
	CreatedBy      uint      `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}

func (e *Event) ToResponse(today time.Time) *EventResponse {
	return &EventResponse{
		ID:             e.ID,
		Title:          e.Title,
		Description:    e.Description,
		EventDate:      e.EventDate,
		Location:       e.Location,
		TargetBarangay: e.TargetBarangay,
		Status:         e.StatusOn(today),
		CreatedBy:      e.CreatedBy,
		CreatedAt:      e.CreatedAt,
	}
}

// Attendance records a member scanned into an event. At most one per
// (event_id, member_id), same discipline as claims.
type Attendance struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   uint      `gorm:"not null;uniqueIndex:idx_attendance_once" json:"event_id"`
	MemberID  uint      `gorm:"not null;uniqueIndex:idx_attendance_once" json:"member_id"`
	ScannedAt time.Time `gorm:"not null" json:"scanned_at"`
	ScannedBy uint      `gorm:"not null" json:"scanned_by"`

	// Relations
	Event   *Event  `gorm:"foreignKey:EventID" json:"event,omitempty"`
	Member  *Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Scanner *User   `gorm:"foreignKey:ScannedBy" json:"scanner,omitempty"`
}

func (Attendance) TableName() string {
	return "attendances"
}

// AttendanceResponse DTO
type AttendanceResponse struct {
	ID          uint      `json:"id"`
	EventID     uint      `json:"event_id"`
	MemberID    uint      `json:"member_id"`
	MemberName  string    `json:"member_name,omitempty"`
	IDNumber    string    `json:"id_number,omitempty"`
	Barangay    string    `json:"barangay,omitempty"`
	ScannedAt   time.Time `json:"scanned_at"`
	ScannedBy   uint      `json:"scanned_by"`
	ScannerName string    `json:"scanner_name,omitempty"`
}

func (a *Attendance) ToResponse() *AttendanceResponse {
	resp := &AttendanceResponse{
		ID:        a.ID,
		EventID:   a.EventID,
		MemberID:  a.MemberID,
		ScannedAt: a.ScannedAt,
		ScannedBy: a.ScannedBy,
	}
	if a.Member != nil {
		resp.MemberName = a.Member.FullName()
		resp.IDNumber = a.Member.IDNumber
		resp.Barangay = a.Member.Barangay
	}
	if a.Scanner != nil {
		resp.ScannerName = a.Scanner.Username
	}
	return resp
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Auth
		&User{},
		&RefreshToken{},
		// Masters
		&Barangay{},
		// Membership
		&Member{},
		// Benefits
		&Benefit{},
		&Participant{},
		&Claim{},
		// Events
		&Event{},
		&Attendance{},
	)
}
