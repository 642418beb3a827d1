package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"parkgate/internal/adapters/persistence/models"
	"parkgate/internal/adapters/persistence/repositories"
)

// Audit errors
var (
	ErrCorrectionReason = errors.New("corrective entries require a reason")
)

// AuditService exposes the audit trail to viewers. The trail is append-only:
// mistakes are corrected by appending a corrective entry, never by editing
// history.
type AuditService struct {
	auditRepo repositories.AuditRepository
}

// NewAuditService creates a new audit service
func NewAuditService(auditRepo repositories.AuditRepository) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

// SearchInput narrows an audit query
type SearchInput struct {
	Category string
	From     *time.Time
	To       *time.Time
	Search   string
	Offset   int
	Limit    int
}

// Search returns matching audit records, newest first
func (s *AuditService) Search(ctx context.Context, input *SearchInput) ([]*models.AuditRecord, int64, error) {
	filter := repositories.AuditFilter{
		Category: input.Category,
		From:     input.From,
		To:       input.To,
		Search:   input.Search,
		Offset:   input.Offset,
		Limit:    input.Limit,
	}
	return s.auditRepo.Query(ctx, filter)
}

// CorrectionInput represents a corrective audit entry
type CorrectionInput struct {
	Category string `json:"category,omitempty"`
	Reason   string `json:"reason" validate:"required"`
	Details  string `json:"details,omitempty"`
}

// AppendCorrection appends a corrective entry. History itself is immutable.
func (s *AuditService) AppendCorrection(ctx context.Context, input *CorrectionInput, actorID uint, actorName string) (*models.AuditRecord, error) {
	if strings.TrimSpace(input.Reason) == "" {
		return nil, ErrCorrectionReason
	}

	rec := &models.AuditRecord{
		EventType: models.AuditCorrection,
		Category:  input.Category,
		Reason:    input.Reason,
		ActorID:   actorID,
		ActorName: actorName,
		Details:   input.Details,
	}
	if err := s.auditRepo.Append(ctx, rec); err != nil {
		return nil, err
	}

	log.Printf("✅ Corrective audit entry appended by %s", actorName)
	return rec, nil
}
