package repositories

import (
	"context"
	"time"

	"parkgate/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByNationalID(ctx context.Context, nationalID string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByNationalID(ctx context.Context, nationalID string) (bool, error)
	// AdjustBalance atomically adds delta (may be negative) to available_balance.
	AdjustBalance(ctx context.Context, userID uint, delta float64) error
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// VehicleRepository defines vehicle repository interface
type VehicleRepository interface {
	Create(ctx context.Context, vehicle *models.Vehicle) error
	GetByID(ctx context.Context, id uint) (*models.Vehicle, error)
	GetByPlate(ctx context.Context, plate string) (*models.Vehicle, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Vehicle, error)
	List(ctx context.Context, offset, limit int) ([]*models.Vehicle, int64, error)
	Update(ctx context.Context, vehicle *models.Vehicle) error
	Delete(ctx context.Context, id uint) error
	ExistsByPlate(ctx context.Context, plate string) (bool, error)
}

// RateRepository defines rate registry repository interface.
// Every mutation persists the rate row and its audit record in one transaction.
type RateRepository interface {
	GetByCategory(ctx context.Context, category string) (*models.RateEntry, error)
	List(ctx context.Context) ([]*models.RateEntry, error)
	CreateWithLog(ctx context.Context, entry *models.RateEntry, rec *models.AuditRecord) error
	UpdateWithLog(ctx context.Context, entry *models.RateEntry, rec *models.AuditRecord) error
	DeleteWithLog(ctx context.Context, category string, rec *models.AuditRecord) error
}

// SessionRepository defines parking session repository interface
type SessionRepository interface {
	Create(ctx context.Context, session *models.ParkingSession) error
	GetByID(ctx context.Context, id uint) (*models.ParkingSession, error)
	// GetActiveByPlate returns (nil, nil) when the plate has no active session.
	GetActiveByPlate(ctx context.Context, plate string) (*models.ParkingSession, error)
	// Settle persists the settlement fields with a conditional update on
	// status = ACTIVE; it returns gorm.ErrRecordNotFound when the session was
	// already settled by a concurrent caller.
	Settle(ctx context.Context, session *models.ParkingSession) error
	ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*models.ParkingSession, int64, error)
	ListActive(ctx context.Context) ([]*models.ParkingSession, error)
	// SettledStatsBetween returns the number of settled sessions and the total
	// billed amount in [from, to).
	SettledStatsBetween(ctx context.Context, from, to time.Time) (int64, float64, error)
}

// AuditFilter narrows audit queries
type AuditFilter struct {
	Category string
	From     *time.Time
	To       *time.Time
	Search   string
	Offset   int
	Limit    int
}

// AuditRepository defines the append-only audit trail interface.
// No update or delete is exposed; history is corrected by appending.
type AuditRepository interface {
	Append(ctx context.Context, rec *models.AuditRecord) error
	Query(ctx context.Context, filter AuditFilter) ([]*models.AuditRecord, int64, error)
}

// TopUpRepository defines top-up repository interface
type TopUpRepository interface {
	Create(ctx context.Context, topUp *models.TopUp) error
	GetByID(ctx context.Context, id uint) (*models.TopUp, error)
	ExistsByVoucherCode(ctx context.Context, code string) (bool, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.TopUp, error)
	ListByStatus(ctx context.Context, status string, offset, limit int) ([]*models.TopUp, int64, error)
	// ApproveWithCredit flips the top-up to APPROVED and credits the owner's
	// balance in one transaction.
	ApproveWithCredit(ctx context.Context, topUp *models.TopUp, reviewerID uint) error
	Reject(ctx context.Context, topUp *models.TopUp, reviewerID uint, remark string) error
}

// InvoiceRepository defines invoice repository interface
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	GetByID(ctx context.Context, id uint) (*models.Invoice, error)
	NextNumber(ctx context.Context, issuedAt time.Time) (string, error)
	ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*models.Invoice, int64, error)
	List(ctx context.Context, offset, limit int) ([]*models.Invoice, int64, error)
}
