package services

import (
	"context"
	"log"
	"time"

	"parkgate/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CronService runs scheduled maintenance jobs
type CronService struct {
	refreshTokenRepo repositories.RefreshTokenRepository
	scheduler        *cron.Cron
}

// NewCronService creates a new cron service
func NewCronService(refreshTokenRepo repositories.RefreshTokenRepository) *CronService {
	return &CronService{
		refreshTokenRepo: refreshTokenRepo,
		scheduler:        cron.New(),
	}
}

// Start registers and launches the scheduled jobs
func (s *CronService) Start() {
	// Purge expired refresh tokens daily at 03:00
	s.scheduler.AddFunc("0 3 * * *", s.purgeExpiredTokens)

	s.scheduler.Start()
	log.Println("🚀 CronService started")
}

// Stop gracefully stops the scheduler, waiting for running jobs
func (s *CronService) Stop() {
	ctx := s.scheduler.Stop()
	<-ctx.Done()
	log.Println("🛑 CronService stopped")
}

func (s *CronService) purgeExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.refreshTokenRepo.DeleteExpired(ctx); err != nil {
		log.Printf("❌ Expired token purge error: %v", err)
		return
	}
	log.Println("🗑️ Purged expired refresh tokens")
}
