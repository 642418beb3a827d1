package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"parkgate/internal/adapters/persistence/models"
	"parkgate/internal/adapters/persistence/repositories"
	"parkgate/internal/config"
	"parkgate/internal/core/domain"
	"parkgate/internal/pkg/validation"

	"gorm.io/gorm"
)

// Rate errors
var (
	ErrRateExists        = errors.New("rate category already exists")
	ErrRateNotFound      = errors.New("rate category not found")
	ErrInvalidPrice      = errors.New("price per hour must be positive")
	ErrReasonRequired    = errors.New("reason is required")
	ErrProtectedCategory = errors.New("seed rate categories cannot be deleted")
)

// RateService is the rate registry and resolver: it owns the per-category
// hourly rates and picks the applicable rate for a user at billing time.
type RateService struct {
	rateRepo repositories.RateRepository
	cfg      *config.Config
}

// NewRateService creates a new rate service
func NewRateService(rateRepo repositories.RateRepository, cfg *config.Config) *RateService {
	return &RateService{
		rateRepo: rateRepo,
		cfg:      cfg,
	}
}

// CreateRateInput represents create rate input
type CreateRateInput struct {
	Category     string  `json:"category" validate:"required,min=2,max=50"`
	PricePerHour float64 `json:"price_per_hour" validate:"required"`
	Description  string  `json:"description,omitempty"`
}

// UpdateRateInput represents update rate input
type UpdateRateInput struct {
	PricePerHour float64 `json:"price_per_hour" validate:"required"`
	Description  *string `json:"description,omitempty"`
	Reason       string  `json:"reason" validate:"required"`
}

// CreateRate creates a new rate category. The rate row and its audit record
// are written in one transaction.
func (s *RateService) CreateRate(ctx context.Context, input *CreateRateInput, actorID uint, actorName string) (*models.RateEntry, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if input.PricePerHour <= 0 {
		return nil, ErrInvalidPrice
	}

	category := strings.TrimSpace(input.Category)

	_, err := s.rateRepo.GetByCategory(ctx, category)
	if err == nil {
		return nil, ErrRateExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	entry := &models.RateEntry{
		Category:      category,
		PricePerHour:  input.PricePerHour,
		Description:   input.Description,
		LastUpdatedBy: actorID,
	}
	newPrice := input.PricePerHour
	rec := &models.AuditRecord{
		EventType: models.AuditRateCreated,
		Category:  category,
		NewPrice:  &newPrice,
		ActorID:   actorID,
		ActorName: actorName,
		Details:   input.Description,
	}

	if err := s.rateRepo.CreateWithLog(ctx, entry, rec); err != nil {
		return nil, err
	}

	log.Printf("✅ Rate created: %s = %.2f/hour (by %s)", category, input.PricePerHour, actorName)
	return entry, nil
}

// UpdateRate changes the price of an existing category. Reason is mandatory
// and recorded alongside both the previous and new price.
func (s *RateService) UpdateRate(ctx context.Context, category string, input *UpdateRateInput, actorID uint, actorName string) (*models.RateEntry, error) {
	if input.PricePerHour <= 0 {
		return nil, ErrInvalidPrice
	}
	if strings.TrimSpace(input.Reason) == "" {
		return nil, ErrReasonRequired
	}

	entry, err := s.rateRepo.GetByCategory(ctx, category)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRateNotFound
		}
		return nil, err
	}

	previousPrice := entry.PricePerHour
	newPrice := input.PricePerHour

	entry.PricePerHour = input.PricePerHour
	if input.Description != nil {
		entry.Description = *input.Description
	}
	entry.LastUpdatedBy = actorID

	rec := &models.AuditRecord{
		EventType:     models.AuditRateUpdated,
		Category:      category,
		PreviousPrice: &previousPrice,
		NewPrice:      &newPrice,
		Reason:        input.Reason,
		ActorID:       actorID,
		ActorName:     actorName,
	}

	if err := s.rateRepo.UpdateWithLog(ctx, entry, rec); err != nil {
		return nil, err
	}

	log.Printf("✅ Rate updated: %s %.2f -> %.2f (by %s)", category, previousPrice, newPrice, actorName)
	return entry, nil
}

// DeleteRate removes a non-seed category. The two seed categories are
// protected and can never be deleted.
func (s *RateService) DeleteRate(ctx context.Context, category, reason string, actorID uint, actorName string) error {
	if domain.IsProtectedCategory(category) {
		return ErrProtectedCategory
	}
	if strings.TrimSpace(reason) == "" {
		return ErrReasonRequired
	}

	entry, err := s.rateRepo.GetByCategory(ctx, category)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRateNotFound
		}
		return err
	}

	previousPrice := entry.PricePerHour
	rec := &models.AuditRecord{
		EventType:     models.AuditRateDeleted,
		Category:      category,
		PreviousPrice: &previousPrice,
		Reason:        reason,
		ActorID:       actorID,
		ActorName:     actorName,
	}

	if err := s.rateRepo.DeleteWithLog(ctx, category, rec); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRateNotFound
		}
		return err
	}

	log.Printf("✅ Rate deleted: %s (by %s)", category, actorName)
	return nil
}

// GetRate returns the current entry for a category
func (s *RateService) GetRate(ctx context.Context, category string) (*models.RateEntry, error) {
	entry, err := s.rateRepo.GetByCategory(ctx, category)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRateNotFound
		}
		return nil, err
	}
	return entry, nil
}

// ListRates returns all current rate entries
func (s *RateService) ListRates(ctx context.Context) ([]*models.RateEntry, error) {
	return s.rateRepo.List(ctx)
}

// ResolvedRate is the outcome of rate resolution
type ResolvedRate struct {
	Category     string  `json:"category"`
	PricePerHour float64 `json:"price_per_hour"`
}

// ResolveForUser picks the applicable hourly rate for a user.
// Priority chain, first match wins:
//  1. the user's assigned rate category, when set and present in the registry
//  2. the associate / non-associate category by membership flag
//  3. the boot-time defaults
//
// The chain never fails: settlement must always produce a rate, because a
// misconfigured registry must not block a vehicle exit.
func (s *RateService) ResolveForUser(ctx context.Context, user *models.User) ResolvedRate {
	if user.AssignedRate != nil && *user.AssignedRate != "" {
		if entry, err := s.rateRepo.GetByCategory(ctx, *user.AssignedRate); err == nil {
			return ResolvedRate{Category: entry.Category, PricePerHour: entry.PricePerHour}
		}
	}

	category := domain.CategoryNonAssociate
	if user.IsAssociate {
		category = domain.CategoryAssociate
	}
	if entry, err := s.rateRepo.GetByCategory(ctx, category); err == nil {
		return ResolvedRate{Category: entry.Category, PricePerHour: entry.PricePerHour}
	}

	// Seed categories should always exist; if the registry is unreachable or
	// an entry is missing, fall back to the boot-time defaults.
	price := s.cfg.Billing.DefaultNonAssociateRate
	if user.IsAssociate {
		price = s.cfg.Billing.DefaultAssociateRate
	}
	log.Printf("⚠️ Rate category %q missing, using default %.2f", category, price)
	return ResolvedRate{Category: category, PricePerHour: price}
}
