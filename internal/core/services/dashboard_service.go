package services

import (
	"context"
	"time"

	"pdao-carelink/internal/adapters/persistence/models"
	"pdao-carelink/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// DashboardService builds office-wide summaries for the admin dashboard.
// The summary is refreshed in the background (PollSync) so the endpoint
// serves cached data and survives transient database hiccups.
type DashboardService struct {
	db          *gorm.DB
	benefitRepo repositories.BenefitRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB, benefitRepo repositories.BenefitRepository) *DashboardService {
	return &DashboardService{
		db:          db,
		benefitRepo: benefitRepo,
	}
}

// Summary represents the dashboard payload
type Summary struct {
	GeneratedAt      time.Time        `json:"generated_at"`
	MembersByStatus  map[string]int64 `json:"members_by_status"`
	TotalMembers     int64            `json:"total_members"`
	ActiveBenefits   int64            `json:"active_benefits"`
	ClaimsToday      int64            `json:"claims_today"`
	AttendancesToday int64            `json:"attendances_today"`
	UpcomingEvents   int64            `json:"upcoming_events"`
}

// BuildSummary computes the dashboard snapshot
func (s *DashboardService) BuildSummary(ctx context.Context) (*Summary, error) {
	summary := &Summary{
		GeneratedAt:     time.Now(),
		MembersByStatus: make(map[string]int64),
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	err := s.db.WithContext(ctx).
		Model(&models.Member{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	for _, c := range counts {
		summary.MembersByStatus[c.Status] = c.Count
		summary.TotalMembers += c.Count
	}

	err = s.db.WithContext(ctx).
		Model(&models.Benefit{}).
		Where("status = ?", models.BenefitStatusActive).
		Count(&summary.ActiveBenefits).Error
	if err != nil {
		return nil, err
	}

	startOfDay := startOfLocalDay(time.Now())
	summary.ClaimsToday, err = s.benefitRepo.CountClaimsSince(ctx, startOfDay)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).
		Model(&models.Attendance{}).
		Where("scanned_at >= ?", startOfDay).
		Count(&summary.AttendancesToday).Error
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("event_date > ?", startOfDay).
		Count(&summary.UpcomingEvents).Error
	if err != nil {
		return nil, err
	}

	return summary, nil
}

// startOfLocalDay returns midnight of t's calendar date in t's location.
// The office day rolls over at local midnight, not at the UTC boundary.
func startOfLocalDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
