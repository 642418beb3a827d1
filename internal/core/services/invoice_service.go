package services

import (
	"context"
	"errors"
	"log"
	"time"

	"parkgate/internal/adapters/persistence/models"
	"parkgate/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// Invoice errors
var (
	ErrInvoiceNotFound = errors.New("invoice not found")
)

// InvoiceService issues invoices for settled sessions
type InvoiceService struct {
	invoiceRepo repositories.InvoiceRepository
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(invoiceRepo repositories.InvoiceRepository) *InvoiceService {
	return &InvoiceService{invoiceRepo: invoiceRepo}
}

// IssueForSettlement issues an invoice for a settlement result. Numbers are
// sequential within the issue month (INV-YYYYMM-NNNN).
func (s *InvoiceService) IssueForSettlement(ctx context.Context, result *SettlementResult) (*models.Invoice, error) {
	issuedAt := time.Now()

	number, err := s.invoiceRepo.NextNumber(ctx, issuedAt)
	if err != nil {
		return nil, err
	}

	invoice := &models.Invoice{
		Number:      number,
		SessionID:   result.Session.ID,
		UserID:      result.UserID,
		Plate:       result.Plate,
		BilledHours: result.BilledHours,
		RatePerHour: result.RatePerHour,
		Amount:      result.BilledAmount,
		IssuedAt:    issuedAt,
	}
	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	log.Printf("✅ Invoice issued: %s for %.2f (session %d)", number, invoice.Amount, invoice.SessionID)
	return invoice, nil
}

// GetInvoice returns an invoice by ID
func (s *InvoiceService) GetInvoice(ctx context.Context, id uint) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return invoice, nil
}

// ListUserInvoices returns a user's invoices with pagination
func (s *InvoiceService) ListUserInvoices(ctx context.Context, userID uint, offset, limit int) ([]*models.Invoice, int64, error) {
	return s.invoiceRepo.ListByUser(ctx, userID, offset, limit)
}

// ListInvoices returns all invoices with pagination (officer/admin)
func (s *InvoiceService) ListInvoices(ctx context.Context, offset, limit int) ([]*models.Invoice, int64, error) {
	return s.invoiceRepo.List(ctx, offset, limit)
}
