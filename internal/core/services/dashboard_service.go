package services

import (
	"context"
	"time"

	"parkgate/internal/adapters/persistence/repositories"
)

// DashboardService aggregates operational stats for the admin dashboard
type DashboardService struct {
	sessionRepo repositories.SessionRepository
	userRepo    repositories.UserRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(sessionRepo repositories.SessionRepository, userRepo repositories.UserRepository) *DashboardService {
	return &DashboardService{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
	}
}

// DashboardStats represents the dashboard summary
type DashboardStats struct {
	RegisteredUsers int64            `json:"registered_users"`
	ActiveSessions  int64            `json:"active_sessions"`
	ActiveByGate    map[string]int64 `json:"active_by_gate"`
	SettledToday    int64            `json:"settled_today"`
	RevenueToday    float64          `json:"revenue_today"`
	SettledThisWeek int64            `json:"settled_this_week"`
	RevenueThisWeek float64          `json:"revenue_this_week"`
}

// GetStats computes the dashboard summary. "Today" and "this week" are in
// server local time.
func (s *DashboardService) GetStats(ctx context.Context) (*DashboardStats, error) {
	active, err := s.sessionRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	byGate := make(map[string]int64)
	for _, session := range active {
		byGate[session.Gate]++
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfWeek := startOfDay.AddDate(0, 0, -int(now.Weekday()))

	settledToday, revenueToday, err := s.sessionRepo.SettledStatsBetween(ctx, startOfDay, now)
	if err != nil {
		return nil, err
	}
	settledWeek, revenueWeek, err := s.sessionRepo.SettledStatsBetween(ctx, startOfWeek, now)
	if err != nil {
		return nil, err
	}

	_, totalUsers, err := s.userRepo.List(ctx, 0, 1)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		RegisteredUsers: totalUsers,
		ActiveSessions:  int64(len(active)),
		ActiveByGate:    byGate,
		SettledToday:    settledToday,
		RevenueToday:    revenueToday,
		SettledThisWeek: settledWeek,
		RevenueThisWeek: revenueWeek,
	}, nil
}
