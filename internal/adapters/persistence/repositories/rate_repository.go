package repositories

import (
	"context"

	"parkgate/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// rateRepository implements RateRepository interface
type rateRepository struct {
	db *gorm.DB
}

// NewRateRepository creates a new rate repository
func NewRateRepository(db *gorm.DB) RateRepository {
	return &rateRepository{db: db}
}

// GetByCategory gets a rate entry by category
func (r *rateRepository) GetByCategory(ctx context.Context, category string) (*models.RateEntry, error) {
	var entry models.RateEntry
	err := r.db.WithContext(ctx).Where("category = ?", category).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// List lists all rate entries
func (r *rateRepository) List(ctx context.Context) ([]*models.RateEntry, error) {
	var entries []*models.RateEntry
	err := r.db.WithContext(ctx).Order("category ASC").Find(&entries).Error
	return entries, err
}

// CreateWithLog inserts a rate entry and its audit record in one transaction
func (r *rateRepository) CreateWithLog(ctx context.Context, entry *models.RateEntry, rec *models.AuditRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		return tx.Create(rec).Error
	})
}

// UpdateWithLog saves a rate entry and its audit record in one transaction
func (r *rateRepository) UpdateWithLog(ctx context.Context, entry *models.RateEntry, rec *models.AuditRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(entry).Error; err != nil {
			return err
		}
		return tx.Create(rec).Error
	})
}

// DeleteWithLog removes a rate entry and appends its audit record in one transaction
func (r *rateRepository) DeleteWithLog(ctx context.Context, category string, rec *models.AuditRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("category = ?", category).Delete(&models.RateEntry{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(rec).Error
	})
}
