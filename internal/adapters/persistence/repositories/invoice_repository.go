package repositories

import (
	"context"
	"fmt"
	"time"

	"parkgate/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// invoiceRepository implements InvoiceRepository interface
type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

// Create creates a new invoice
func (r *invoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

// GetByID gets an invoice by ID
func (r *invoiceRepository) GetByID(ctx context.Context, id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).Preload("Session").Preload("User").First(&invoice, id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// NextNumber generates the next invoice number for the issue month
// Format: INV-YYYYMM-NNNN
func (r *invoiceRepository) NextNumber(ctx context.Context, issuedAt time.Time) (string, error) {
	monthStart := time.Date(issuedAt.Year(), issuedAt.Month(), 1, 0, 0, 0, 0, issuedAt.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("issued_at >= ? AND issued_at < ?", monthStart, monthEnd).
		Count(&count).Error
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("INV-%s-%04d", issuedAt.Format("200601"), count+1), nil
}

// ListByUser lists invoices for a user with pagination, newest first
func (r *invoiceRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*models.Invoice, int64, error) {
	var invoices []*models.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Invoice{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("issued_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&invoices).Error
	if err != nil {
		return nil, 0, err
	}

	return invoices, total, nil
}

// List lists all invoices with pagination, newest first
func (r *invoiceRepository) List(ctx context.Context, offset, limit int) ([]*models.Invoice, int64, error) {
	var invoices []*models.Invoice
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Invoice{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("User").
		Order("issued_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&invoices).Error
	if err != nil {
		return nil, 0, err
	}

	return invoices, total, nil
}
