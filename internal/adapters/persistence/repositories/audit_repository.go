package repositories

import (
	"context"

	"parkgate/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// auditRepository implements AuditRepository interface.
// Only Append and Query exist; the trail is never updated or deleted.
type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

// Append inserts an audit record
func (r *auditRepository) Append(ctx context.Context, rec *models.AuditRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

// Query returns audit records matching the filter, newest first
func (r *auditRepository) Query(ctx context.Context, filter AuditFilter) ([]*models.AuditRecord, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AuditRecord{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("actor_name LIKE ? OR reason LIKE ? OR details LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []*models.AuditRecord
	err := query.
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
