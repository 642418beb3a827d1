package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Rate & Session Tables
// ============================================================

// RateEntry represents rate_entries table (hourly price per user category)
type RateEntry struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Category      string    `gorm:"uniqueIndex;size:50;not null" json:"category"`
	PricePerHour  float64   `gorm:"type:decimal(10,2);not null" json:"price_per_hour"`
	Description   string    `gorm:"size:255" json:"description"`
	LastUpdatedBy uint      `gorm:"not null" json:"last_updated_by"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"last_updated_at"`
	Updater       *User     `gorm:"foreignKey:LastUpdatedBy" json:"updater,omitempty"`
}

func (RateEntry) TableName() string {
	return "rate_entries"
}

// ParkingSession represents parking_sessions table
// At most one ACTIVE session may exist per plate at any time.
type ParkingSession struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	Plate              string         `gorm:"size:20;not null;index" json:"plate"`
	UserID             uint           `gorm:"not null;index" json:"user_id"`
	Gate               string         `gorm:"size:10;not null" json:"gate"`
	Status             string         `gorm:"size:10;default:'ACTIVE';index" json:"status"`
	StartTime          time.Time      `gorm:"not null" json:"start_time"`
	EndTime            *time.Time     `json:"end_time"`
	BilledHours        *int           `json:"billed_hours"`
	BilledAmount       *float64       `gorm:"type:decimal(15,2)" json:"billed_amount"`
	AppliedRatePerHour *float64       `gorm:"type:decimal(10,2)" json:"applied_rate_per_hour"`
	AppliedCategory    *string        `gorm:"size:50" json:"applied_category"`
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
	Owner              *User          `gorm:"foreignKey:UserID" json:"owner,omitempty"`
}

func (ParkingSession) TableName() string {
	return "parking_sessions"
}

func (s *ParkingSession) IsActive() bool {
	return s.Status == "ACTIVE"
}

// ============================================================
// Audit Table (append-only)
// ============================================================

// Audit event types
const (
	AuditRateCreated    = "RATE_CREATED"
	AuditRateUpdated    = "RATE_UPDATED"
	AuditRateDeleted    = "RATE_DELETED"
	AuditSessionSettled = "SESSION_SETTLED"
	AuditCorrection     = "CORRECTION"
)

// AuditRecord represents audit_records table.
// Rows are only ever inserted; corrections are new rows with an explanatory reason.
type AuditRecord struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	EventType     string    `gorm:"size:30;not null;index" json:"event_type"`
	Category      string    `gorm:"size:50;index" json:"category"`
	PreviousPrice *float64  `gorm:"type:decimal(10,2)" json:"previous_price"`
	NewPrice      *float64  `gorm:"type:decimal(10,2)" json:"new_price"`
	Reason        string    `gorm:"size:255" json:"reason"`
	ActorID       uint      `gorm:"not null" json:"actor_id"`
	ActorName     string    `gorm:"size:50" json:"actor_name"`
	Details       string    `gorm:"type:text" json:"details"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditRecord) TableName() string {
	return "audit_records"
}

// ============================================================
// Top-up & Invoice Tables
// ============================================================

// Top-up statuses
const (
	TopUpPending  = "PENDING"
	TopUpApproved = "APPROVED"
	TopUpRejected = "REJECTED"
)

// TopUp represents top_ups table (voucher-backed balance credits)
type TopUp struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	VoucherCode string     `gorm:"uniqueIndex;size:64;not null" json:"voucher_code"`
	Amount      float64    `gorm:"type:decimal(15,2);not null" json:"amount"`
	Status      string     `gorm:"size:10;default:'PENDING';index" json:"status"`
	Remark      string     `gorm:"size:255" json:"remark"`
	ReviewedBy  *uint      `json:"reviewed_by"`
	ReviewedAt  *time.Time `json:"reviewed_at"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	User        *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Reviewer    *User      `gorm:"foreignKey:ReviewedBy" json:"reviewer,omitempty"`
}

func (TopUp) TableName() string {
	return "top_ups"
}

// Invoice represents invoices table (issued at session settlement)
type Invoice struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Number       string          `gorm:"uniqueIndex;size:30;not null" json:"number"`
	SessionID    uint            `gorm:"not null;index" json:"session_id"`
	UserID       uint            `gorm:"not null;index" json:"user_id"`
	Plate        string          `gorm:"size:20;not null" json:"plate"`
	BilledHours  int             `gorm:"not null" json:"billed_hours"`
	RatePerHour  float64         `gorm:"type:decimal(10,2);not null" json:"rate_per_hour"`
	Amount       float64         `gorm:"type:decimal(15,2);not null" json:"amount"`
	IssuedAt     time.Time       `gorm:"not null" json:"issued_at"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	Session      *ParkingSession `gorm:"foreignKey:SessionID" json:"session,omitempty"`
	User         *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Invoice) TableName() string {
	return "invoices"
}
