package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"parkgate/internal/adapters/persistence/models"
	"parkgate/internal/adapters/persistence/repositories"
	"parkgate/internal/pkg/validation"

	"gorm.io/gorm"
)

// Top-up errors
var (
	ErrVoucherUsed     = errors.New("voucher code already submitted")
	ErrTopUpNotFound   = errors.New("top-up not found")
	ErrTopUpNotPending = errors.New("top-up already reviewed")
	ErrInvalidAmount   = errors.New("amount must be positive")
)

// TopUpService handles voucher-backed balance top-ups. A submitted voucher
// stays PENDING until an officer or admin reviews it; approval credits the
// balance in the same transaction as the status flip.
type TopUpService struct {
	topUpRepo repositories.TopUpRepository
}

// NewTopUpService creates a new top-up service
func NewTopUpService(topUpRepo repositories.TopUpRepository) *TopUpService {
	return &TopUpService{topUpRepo: topUpRepo}
}

// SubmitTopUpInput represents top-up submission input
type SubmitTopUpInput struct {
	VoucherCode string  `json:"voucher_code" validate:"required,min=4,max=64"`
	Amount      float64 `json:"amount" validate:"required"`
}

// SubmitTopUp records a voucher submission for review
func (s *TopUpService) SubmitTopUp(ctx context.Context, userID uint, input *SubmitTopUpInput) (*models.TopUp, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	code := strings.ToUpper(strings.TrimSpace(input.VoucherCode))

	exists, err := s.topUpRepo.ExistsByVoucherCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrVoucherUsed
	}

	topUp := &models.TopUp{
		UserID:      userID,
		VoucherCode: code,
		Amount:      input.Amount,
		Status:      models.TopUpPending,
	}
	if err := s.topUpRepo.Create(ctx, topUp); err != nil {
		return nil, err
	}

	log.Printf("✅ Top-up submitted: voucher %s, amount %.2f (user %d)", code, input.Amount, userID)
	return topUp, nil
}

// ApproveTopUp approves a pending top-up and credits the owner's balance
func (s *TopUpService) ApproveTopUp(ctx context.Context, id, reviewerID uint) (*models.TopUp, error) {
	topUp, err := s.topUpRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTopUpNotFound
		}
		return nil, err
	}
	if topUp.Status != models.TopUpPending {
		return nil, ErrTopUpNotPending
	}

	if err := s.topUpRepo.ApproveWithCredit(ctx, topUp, reviewerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTopUpNotPending
		}
		return nil, err
	}

	log.Printf("✅ Top-up approved: %d, credited %.2f to user %d", id, topUp.Amount, topUp.UserID)
	return topUp, nil
}

// RejectTopUp rejects a pending top-up with a remark
func (s *TopUpService) RejectTopUp(ctx context.Context, id, reviewerID uint, remark string) (*models.TopUp, error) {
	if strings.TrimSpace(remark) == "" {
		return nil, ErrReasonRequired
	}

	topUp, err := s.topUpRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTopUpNotFound
		}
		return nil, err
	}
	if topUp.Status != models.TopUpPending {
		return nil, ErrTopUpNotPending
	}

	if err := s.topUpRepo.Reject(ctx, topUp, reviewerID, remark); err != nil {
		return nil, err
	}

	log.Printf("✅ Top-up rejected: %d (%s)", id, remark)
	return topUp, nil
}

// ListUserTopUps returns a user's top-up history
func (s *TopUpService) ListUserTopUps(ctx context.Context, userID uint) ([]*models.TopUp, error) {
	return s.topUpRepo.ListByUser(ctx, userID)
}

// ListPendingTopUps returns pending top-ups for review (officer/admin)
func (s *TopUpService) ListPendingTopUps(ctx context.Context, offset, limit int) ([]*models.TopUp, int64, error) {
	return s.topUpRepo.ListByStatus(ctx, models.TopUpPending, offset, limit)
}
