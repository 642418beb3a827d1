package services

import (
	"context"
	"testing"

	"parkgate/internal/adapters/persistence/models"
	"parkgate/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBillingConfig() *config.Config {
	return &config.Config{
		Billing: config.BillingConfig{
			DefaultAssociateRate:    250,
			DefaultNonAssociateRate: 500,
		},
	}
}

func newRateServiceForTest() (*RateService, *fakeRateRepo) {
	repo := newFakeRateRepo()
	return NewRateService(repo, testBillingConfig()), repo
}

func TestCreateRate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates category with audit record", func(t *testing.T) {
		svc, repo := newRateServiceForTest()

		entry, err := svc.CreateRate(ctx, &CreateRateInput{
			Category:     "vip",
			PricePerHour: 750,
			Description:  "Reserved covered parking",
		}, 1, "admin")
		require.NoError(t, err)
		assert.Equal(t, "vip", entry.Category)
		assert.Equal(t, 750.0, entry.PricePerHour)

		require.Len(t, repo.log, 1)
		rec := repo.log[0]
		assert.Equal(t, models.AuditRateCreated, rec.EventType)
		assert.Equal(t, "vip", rec.Category)
		assert.Nil(t, rec.PreviousPrice)
		require.NotNil(t, rec.NewPrice)
		assert.Equal(t, 750.0, *rec.NewPrice)
		assert.Equal(t, "admin", rec.ActorName)
	})

	t.Run("rejects non-positive price", func(t *testing.T) {
		svc, repo := newRateServiceForTest()

		_, err := svc.CreateRate(ctx, &CreateRateInput{
			Category:     "vip",
			PricePerHour: -5,
		}, 1, "admin")
		assert.ErrorIs(t, err, ErrInvalidPrice)
		assert.Empty(t, repo.log)
	})

	t.Run("rejects duplicate category", func(t *testing.T) {
		svc, repo := newRateServiceForTest()
		repo.seed("vip", 750)

		_, err := svc.CreateRate(ctx, &CreateRateInput{
			Category:     "vip",
			PricePerHour: 800,
		}, 1, "admin")
		assert.ErrorIs(t, err, ErrRateExists)
	})
}

func TestUpdateRate(t *testing.T) {
	ctx := context.Background()

	t.Run("records previous and new price with reason", func(t *testing.T) {
		svc, repo := newRateServiceForTest()
		repo.seed("associate", 250)

		entry, err := svc.UpdateRate(ctx, "associate", &UpdateRateInput{
			PricePerHour: 300,
			Reason:       "cost adjustment",
		}, 7, "admin")
		require.NoError(t, err)
		assert.Equal(t, 300.0, entry.PricePerHour)

		require.Len(t, repo.log, 1)
		rec := repo.log[0]
		assert.Equal(t, models.AuditRateUpdated, rec.EventType)
		assert.Equal(t, "associate", rec.Category)
		require.NotNil(t, rec.PreviousPrice)
		require.NotNil(t, rec.NewPrice)
		assert.Equal(t, 250.0, *rec.PreviousPrice)
		assert.Equal(t, 300.0, *rec.NewPrice)
		assert.Equal(t, "cost adjustment", rec.Reason)
		assert.Equal(t, uint(7), rec.ActorID)
	})

	t.Run("requires a reason", func(t *testing.T) {
		svc, repo := newRateServiceForTest()
		repo.seed("associate", 250)

		_, err := svc.UpdateRate(ctx, "associate", &UpdateRateInput{
			PricePerHour: 300,
		}, 1, "admin")
		assert.ErrorIs(t, err, ErrReasonRequired)
		assert.Empty(t, repo.log)
	})

	t.Run("rejects non-positive price", func(t *testing.T) {
		svc, repo := newRateServiceForTest()
		repo.seed("associate", 250)

		_, err := svc.UpdateRate(ctx, "associate", &UpdateRateInput{
			PricePerHour: 0,
			Reason:       "typo",
		}, 1, "admin")
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})

	t.Run("unknown category", func(t *testing.T) {
		svc, _ := newRateServiceForTest()

		_, err := svc.UpdateRate(ctx, "ghost", &UpdateRateInput{
			PricePerHour: 300,
			Reason:       "cost adjustment",
		}, 1, "admin")
		assert.ErrorIs(t, err, ErrRateNotFound)
	})
}

func TestDeleteRate(t *testing.T) {
	ctx := context.Background()

	t.Run("seed categories are protected", func(t *testing.T) {
		svc, repo := newRateServiceForTest()
		repo.seed("associate", 250)
		repo.seed("non_associate", 500)

		assert.ErrorIs(t, svc.DeleteRate(ctx, "associate", "cleanup", 1, "admin"), ErrProtectedCategory)
		assert.ErrorIs(t, svc.DeleteRate(ctx, "non_associate", "cleanup", 1, "admin"), ErrProtectedCategory)
		assert.Empty(t, repo.log)
	})

	t.Run("deletes non-seed category with audit record", func(t *testing.T) {
		svc, repo := newRateServiceForTest()
		repo.seed("vip", 750)

		require.NoError(t, svc.DeleteRate(ctx, "vip", "category retired", 1, "admin"))

		_, err := svc.GetRate(ctx, "vip")
		assert.ErrorIs(t, err, ErrRateNotFound)

		require.Len(t, repo.log, 1)
		rec := repo.log[0]
		assert.Equal(t, models.AuditRateDeleted, rec.EventType)
		require.NotNil(t, rec.PreviousPrice)
		assert.Equal(t, 750.0, *rec.PreviousPrice)
		assert.Nil(t, rec.NewPrice)
	})

	t.Run("requires a reason", func(t *testing.T) {
		svc, repo := newRateServiceForTest()
		repo.seed("vip", 750)

		assert.ErrorIs(t, svc.DeleteRate(ctx, "vip", "  ", 1, "admin"), ErrReasonRequired)
	})
}

func TestResolveForUser(t *testing.T) {
	ctx := context.Background()

	t.Run("assigned rate takes precedence", func(t *testing.T) {
		svc, repo := newRateServiceForTest()
		repo.seed("associate", 250)
		repo.seed("vip", 750)

		assigned := "vip"
		user := &models.User{IsAssociate: true, AssignedRate: &assigned}

		resolved := svc.ResolveForUser(ctx, user)
		assert.Equal(t, "vip", resolved.Category)
		assert.Equal(t, 750.0, resolved.PricePerHour)
	})

	t.Run("missing assigned rate falls back to membership category", func(t *testing.T) {
		svc, repo := newRateServiceForTest()
		repo.seed("associate", 250)

		assigned := "ghost"
		user := &models.User{IsAssociate: true, AssignedRate: &assigned}

		resolved := svc.ResolveForUser(ctx, user)
		assert.Equal(t, "associate", resolved.Category)
		assert.Equal(t, 250.0, resolved.PricePerHour)
	})

	t.Run("membership flag picks category", func(t *testing.T) {
		svc, repo := newRateServiceForTest()
		repo.seed("associate", 260)
		repo.seed("non_associate", 510)

		resolved := svc.ResolveForUser(ctx, &models.User{IsAssociate: false})
		assert.Equal(t, "non_associate", resolved.Category)
		assert.Equal(t, 510.0, resolved.PricePerHour)
	})

	t.Run("empty registry falls back to defaults", func(t *testing.T) {
		svc, _ := newRateServiceForTest()

		associate := svc.ResolveForUser(ctx, &models.User{IsAssociate: true})
		assert.Equal(t, "associate", associate.Category)
		assert.Equal(t, 250.0, associate.PricePerHour)

		nonAssociate := svc.ResolveForUser(ctx, &models.User{IsAssociate: false})
		assert.Equal(t, "non_associate", nonAssociate.Category)
		assert.Equal(t, 500.0, nonAssociate.PricePerHour)
	})
}
