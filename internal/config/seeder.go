package config

import (
	"log"

	"parkgate/internal/adapters/persistence/models"
	"parkgate/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	admin, err := s.seedAdminUser()
	if err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	if err := s.seedRateCategories(admin); err != nil {
		return err
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds the default admin user.
// For development/testing; in production create the admin through a secure process.
func (s *Seeder) seedAdminUser() (*models.User, error) {
	var admin models.User
	err := s.db.Where("role = ?", "ADMIN").First(&admin).Error
	if err == nil {
		return &admin, nil // Admin already exists
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return nil, err
	}

	admin = models.User{
		NationalID: "ADMIN0001",
		Username:   "admin",
		Email:      "admin@parkgate.local",
		Password:   hashedPassword,
		Role:       "ADMIN",
		IsActive:   true,
	}
	if err := s.db.Create(&admin).Error; err != nil {
		return nil, err
	}

	log.Printf("✅ Admin user created: %s", admin.Username)
	return &admin, nil
}

// seedRateCategories ensures the two seed rate categories exist. They are
// created with the boot-time default prices and are never deletable.
func (s *Seeder) seedRateCategories(admin *models.User) error {
	var actorID uint
	if admin != nil {
		actorID = admin.ID
	}

	seeds := []models.RateEntry{
		{
			Category:      "associate",
			PricePerHour:  s.cfg.Billing.DefaultAssociateRate,
			Description:   "Hourly rate for associate members",
			LastUpdatedBy: actorID,
		},
		{
			Category:      "non_associate",
			PricePerHour:  s.cfg.Billing.DefaultNonAssociateRate,
			Description:   "Hourly rate for non-associate users",
			LastUpdatedBy: actorID,
		},
	}

	for _, seed := range seeds {
		var count int64
		s.db.Model(&models.RateEntry{}).Where("category = ?", seed.Category).Count(&count)
		if count > 0 {
			continue
		}
		if err := s.db.Create(&seed).Error; err != nil {
			return err
		}
		log.Printf("✅ Rate category seeded: %s = %.2f/hour", seed.Category, seed.PricePerHour)
	}

	return nil
}
