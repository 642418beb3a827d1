package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"parkgate/internal/adapters/persistence/models"
	"parkgate/internal/adapters/persistence/repositories"
	"parkgate/internal/core/domain"

	"gorm.io/gorm"
)

// Session errors
var (
	ErrVehicleNotFound  = errors.New("vehicle not registered")
	ErrVehicleInactive  = errors.New("vehicle is deactivated")
	ErrUnknownGate      = errors.New("unknown gate")
	ErrSessionActive    = errors.New("vehicle already has an active session")
	ErrNoActiveSession  = errors.New("no active session for this vehicle")
)

// plateLocks serializes session operations per plate
type plateLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newPlateLocks() *plateLocks {
	return &plateLocks{locks: make(map[string]*sync.Mutex)}
}

func (p *plateLocks) acquire(plate string) *sync.Mutex {
	p.mu.Lock()
	m, ok := p.locks[plate]
	if !ok {
		m = &sync.Mutex{}
		p.locks[plate] = m
	}
	p.mu.Unlock()
	m.Lock()
	return m
}

// SessionService is the session billing engine: it starts parking sessions
// at the gates and converts elapsed wall-clock time into a billed charge at
// settlement. It never touches the owner's balance; debiting is the caller's
// job after a successful settlement.
type SessionService struct {
	sessionRepo repositories.SessionRepository
	vehicleRepo repositories.VehicleRepository
	userRepo    repositories.UserRepository
	auditRepo   repositories.AuditRepository
	rateService *RateService
	locks       *plateLocks
}

// NewSessionService creates a new session service
func NewSessionService(
	sessionRepo repositories.SessionRepository,
	vehicleRepo repositories.VehicleRepository,
	userRepo repositories.UserRepository,
	auditRepo repositories.AuditRepository,
	rateService *RateService,
) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		vehicleRepo: vehicleRepo,
		userRepo:    userRepo,
		auditRepo:   auditRepo,
		rateService: rateService,
		locks:       newPlateLocks(),
	}
}

// StartSessionInput represents session start input
type StartSessionInput struct {
	Plate string `json:"plate" validate:"required"`
	Gate  string `json:"gate" validate:"required"`
}

// StartSession opens a parking session for a registered vehicle.
// At most one active session may exist per plate.
func (s *SessionService) StartSession(ctx context.Context, input *StartSessionInput) (*models.ParkingSession, error) {
	plate := strings.ToUpper(strings.TrimSpace(input.Plate))
	if plate == "" {
		return nil, ErrVehicleNotFound
	}
	if !domain.IsValidGate(input.Gate) {
		return nil, ErrUnknownGate
	}

	vehicle, err := s.vehicleRepo.GetByPlate(ctx, plate)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	if !vehicle.IsActive {
		return nil, ErrVehicleInactive
	}

	lock := s.locks.acquire(plate)
	defer lock.Unlock()

	active, err := s.sessionRepo.GetActiveByPlate(ctx, plate)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, ErrSessionActive
	}

	session := &models.ParkingSession{
		Plate:     plate,
		UserID:    vehicle.UserID,
		Gate:      input.Gate,
		Status:    domain.SessionActive,
		StartTime: time.Now(),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	log.Printf("✅ Session started: %s at gate %s", plate, input.Gate)
	return session, nil
}

// SettlementResult is returned to the caller, who is responsible for
// debiting the owner's balance and issuing the invoice.
type SettlementResult struct {
	Session      *models.ParkingSession `json:"session"`
	Plate        string                 `json:"plate"`
	UserID       uint                   `json:"user_id"`
	ElapsedMins  int                    `json:"elapsed_minutes"`
	BilledHours  int                    `json:"billed_hours"`
	RatePerHour  float64                `json:"rate_per_hour"`
	Category     string                 `json:"category"`
	BilledAmount float64                `json:"billed_amount"`
}

// SettleSession closes the active session for a plate and computes the
// charge. Billed hours are the elapsed time rounded up to whole hours with a
// one hour minimum; the amount is rounded half up to two decimals.
// Concurrent settles for the same plate are serialized; the loser observes
// ErrNoActiveSession.
func (s *SessionService) SettleSession(ctx context.Context, plate string) (*SettlementResult, error) {
	plate = strings.ToUpper(strings.TrimSpace(plate))

	lock := s.locks.acquire(plate)
	defer lock.Unlock()

	session, err := s.sessionRepo.GetActiveByPlate(ctx, plate)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNoActiveSession
	}

	owner, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	elapsed := now.Sub(session.StartTime)
	billedHours := BilledHours(elapsed)

	resolved := s.rateService.ResolveForUser(ctx, owner)
	billedAmount := RoundAmount(float64(billedHours) * resolved.PricePerHour)

	session.Status = domain.SessionSettled
	session.EndTime = &now
	session.BilledHours = &billedHours
	session.BilledAmount = &billedAmount
	session.AppliedRatePerHour = &resolved.PricePerHour
	session.AppliedCategory = &resolved.Category

	if err := s.sessionRepo.Settle(ctx, session); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveSession
		}
		return nil, err
	}

	rec := &models.AuditRecord{
		EventType: models.AuditSessionSettled,
		Category:  resolved.Category,
		NewPrice:  &resolved.PricePerHour,
		ActorID:   owner.ID,
		ActorName: owner.Username,
		Details: fmt.Sprintf("plate=%s hours=%d rate=%.2f amount=%.2f",
			plate, billedHours, resolved.PricePerHour, billedAmount),
	}
	if err := s.auditRepo.Append(ctx, rec); err != nil {
		log.Printf("⚠️ Failed to append settlement audit record: %v", err)
	}

	log.Printf("✅ Session settled: %s, %d hour(s) @ %.2f = %.2f",
		plate, billedHours, resolved.PricePerHour, billedAmount)

	return &SettlementResult{
		Session:      session,
		Plate:        plate,
		UserID:       owner.ID,
		ElapsedMins:  int(elapsed.Minutes()),
		BilledHours:  billedHours,
		RatePerHour:  resolved.PricePerHour,
		Category:     resolved.Category,
		BilledAmount: billedAmount,
	}, nil
}

// GetActiveSession returns the active session for a plate
func (s *SessionService) GetActiveSession(ctx context.Context, plate string) (*models.ParkingSession, error) {
	plate = strings.ToUpper(strings.TrimSpace(plate))
	session, err := s.sessionRepo.GetActiveByPlate(ctx, plate)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNoActiveSession
	}
	return session, nil
}

// ListActiveSessions returns all currently active sessions
func (s *SessionService) ListActiveSessions(ctx context.Context) ([]*models.ParkingSession, error) {
	return s.sessionRepo.ListActive(ctx)
}

// ListUserSessions returns a user's session history with pagination
func (s *SessionService) ListUserSessions(ctx context.Context, userID uint, offset, limit int) ([]*models.ParkingSession, int64, error) {
	return s.sessionRepo.ListByUser(ctx, userID, offset, limit)
}
