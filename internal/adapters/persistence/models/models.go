package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents users table
type User struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	NationalID       string         `gorm:"uniqueIndex;size:20;not null" json:"national_id"`
	Username         string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email            string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password         string         `gorm:"size:255;not null" json:"-"`
	Role             string         `gorm:"size:20;default:'USER'" json:"role"`
	IsAssociate      bool           `gorm:"default:false" json:"is_associate"`
	AssignedRate     *string        `gorm:"size:50" json:"assigned_rate"`
	AvailableBalance float64        `gorm:"type:decimal(15,2);default:0" json:"available_balance"`
	IsActive         bool           `gorm:"default:true" json:"is_active"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID               uint      `json:"id"`
	NationalID       string    `json:"national_id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	Role             string    `json:"role"`
	IsAssociate      bool      `json:"is_associate"`
	AssignedRate     *string   `json:"assigned_rate"`
	AvailableBalance float64   `json:"available_balance"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:               u.ID,
		NationalID:       u.NationalID,
		Username:         u.Username,
		Email:            u.Email,
		Role:             u.Role,
		IsAssociate:      u.IsAssociate,
		AssignedRate:     u.AssignedRate,
		AvailableBalance: u.AvailableBalance,
		IsActive:         u.IsActive,
		CreatedAt:        u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Vehicle Table
// ============================================================

// Vehicle represents vehicles table
type Vehicle struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Plate     string         `gorm:"uniqueIndex;size:20;not null" json:"plate"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Brand     string         `gorm:"size:50" json:"brand"`
	Model     string         `gorm:"size:50" json:"model"`
	Color     string         `gorm:"size:30" json:"color"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Owner     *User          `gorm:"foreignKey:UserID" json:"owner,omitempty"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Vehicle{},
		&RateEntry{},
		&ParkingSession{},
		&AuditRecord{},
		&TopUp{},
		&Invoice{},
	)
}
