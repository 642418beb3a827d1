package repositories

import (
	"context"
	"time"

	"parkgate/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// sessionRepository implements SessionRepository interface
type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Create creates a new parking session
func (r *sessionRepository) Create(ctx context.Context, session *models.ParkingSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// GetByID gets a session by ID
func (r *sessionRepository) GetByID(ctx context.Context, id uint) (*models.ParkingSession, error) {
	var session models.ParkingSession
	err := r.db.WithContext(ctx).Preload("Owner").First(&session, id).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetActiveByPlate returns the active session for a plate, or (nil, nil) when none exists
func (r *sessionRepository) GetActiveByPlate(ctx context.Context, plate string) (*models.ParkingSession, error) {
	var session models.ParkingSession
	err := r.db.WithContext(ctx).
		Where("plate = ? AND status = ?", plate, "ACTIVE").
		First(&session).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Settle persists the settlement fields. The update is conditional on the
// session still being ACTIVE so a concurrent settle loses cleanly.
func (r *sessionRepository) Settle(ctx context.Context, session *models.ParkingSession) error {
	result := r.db.WithContext(ctx).
		Model(&models.ParkingSession{}).
		Where("id = ? AND status = ?", session.ID, "ACTIVE").
		Updates(map[string]interface{}{
			"status":                "SETTLED",
			"end_time":              session.EndTime,
			"billed_hours":          session.BilledHours,
			"billed_amount":         session.BilledAmount,
			"applied_rate_per_hour": session.AppliedRatePerHour,
			"applied_category":      session.AppliedCategory,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByUser lists sessions for a user with pagination, newest first
func (r *sessionRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*models.ParkingSession, int64, error) {
	var sessions []*models.ParkingSession
	var total int64

	query := r.db.WithContext(ctx).Model(&models.ParkingSession{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_time DESC").
		Offset(offset).
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return nil, 0, err
	}

	return sessions, total, nil
}

// ListActive lists all currently active sessions
func (r *sessionRepository) ListActive(ctx context.Context) ([]*models.ParkingSession, error) {
	var sessions []*models.ParkingSession
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("status = ?", "ACTIVE").
		Order("start_time ASC").
		Find(&sessions).Error
	return sessions, err
}

// SettledStatsBetween returns settled session count and total billed amount in [from, to)
func (r *sessionRepository) SettledStatsBetween(ctx context.Context, from, to time.Time) (int64, float64, error) {
	type result struct {
		Count   int64
		Revenue float64
	}
	var res result
	err := r.db.WithContext(ctx).
		Model(&models.ParkingSession{}).
		Select("COUNT(*) as count, COALESCE(SUM(billed_amount), 0) as revenue").
		Where("status = ? AND end_time >= ? AND end_time < ?", "SETTLED", from, to).
		Scan(&res).Error
	return res.Count, res.Revenue, err
}
