package repositories

import (
	"context"
	"time"

	"parkgate/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// topUpRepository implements TopUpRepository interface
type topUpRepository struct {
	db *gorm.DB
}

// NewTopUpRepository creates a new top-up repository
func NewTopUpRepository(db *gorm.DB) TopUpRepository {
	return &topUpRepository{db: db}
}

// Create creates a new top-up request
func (r *topUpRepository) Create(ctx context.Context, topUp *models.TopUp) error {
	return r.db.WithContext(ctx).Create(topUp).Error
}

// GetByID gets a top-up by ID
func (r *topUpRepository) GetByID(ctx context.Context, id uint) (*models.TopUp, error) {
	var topUp models.TopUp
	err := r.db.WithContext(ctx).Preload("User").First(&topUp, id).Error
	if err != nil {
		return nil, err
	}
	return &topUp, nil
}

// ExistsByVoucherCode checks if a voucher code was already submitted
func (r *topUpRepository) ExistsByVoucherCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TopUp{}).Where("voucher_code = ?", code).Count(&count).Error
	return count > 0, err
}

// ListByUser lists all top-ups for a user, newest first
func (r *topUpRepository) ListByUser(ctx context.Context, userID uint) ([]*models.TopUp, error) {
	var topUps []*models.TopUp
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&topUps).Error
	return topUps, err
}

// ListByStatus lists top-ups by status with pagination
func (r *topUpRepository) ListByStatus(ctx context.Context, status string, offset, limit int) ([]*models.TopUp, int64, error) {
	var topUps []*models.TopUp
	var total int64

	query := r.db.WithContext(ctx).Model(&models.TopUp{}).Where("status = ?", status)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ?", status).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&topUps).Error
	if err != nil {
		return nil, 0, err
	}

	return topUps, total, nil
}

// ApproveWithCredit flips the top-up to APPROVED and credits the owner's
// balance in one transaction. The status check inside the transaction keeps a
// double approve from crediting twice.
func (r *topUpRepository) ApproveWithCredit(ctx context.Context, topUp *models.TopUp, reviewerID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		result := tx.Model(&models.TopUp{}).
			Where("id = ? AND status = ?", topUp.ID, models.TopUpPending).
			Updates(map[string]interface{}{
				"status":      models.TopUpApproved,
				"reviewed_by": reviewerID,
				"reviewed_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Model(&models.User{}).
			Where("id = ?", topUp.UserID).
			Update("available_balance", gorm.Expr("available_balance + ?", topUp.Amount)).Error
	})
}

// Reject flips the top-up to REJECTED with a remark
func (r *topUpRepository) Reject(ctx context.Context, topUp *models.TopUp, reviewerID uint, remark string) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.TopUp{}).
		Where("id = ? AND status = ?", topUp.ID, models.TopUpPending).
		Updates(map[string]interface{}{
			"status":      models.TopUpRejected,
			"remark":      remark,
			"reviewed_by": reviewerID,
			"reviewed_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
