package services

import (
	"context"
	"testing"
	"time"

	"parkgate/internal/adapters/persistence/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendCorrection(t *testing.T) {
	ctx := context.Background()

	t.Run("appends corrective entry", func(t *testing.T) {
		repo := newFakeAuditRepo()
		svc := NewAuditService(repo)

		rec, err := svc.AppendCorrection(ctx, &CorrectionInput{
			Category: "associate",
			Reason:   "previous update used the wrong price",
			Details:  "see ticket PG-142",
		}, 1, "admin")
		require.NoError(t, err)
		assert.Equal(t, models.AuditCorrection, rec.EventType)
		assert.Equal(t, "associate", rec.Category)
		require.Len(t, repo.records, 1)
	})

	t.Run("requires a reason", func(t *testing.T) {
		repo := newFakeAuditRepo()
		svc := NewAuditService(repo)

		_, err := svc.AppendCorrection(ctx, &CorrectionInput{Reason: "   "}, 1, "admin")
		assert.ErrorIs(t, err, ErrCorrectionReason)
		assert.Empty(t, repo.records)
	})
}

func TestAuditSearch(t *testing.T) {
	ctx := context.Background()

	repo := newFakeAuditRepo()
	svc := NewAuditService(repo)

	price := 300.0
	require.NoError(t, repo.Append(ctx, &models.AuditRecord{
		EventType: models.AuditRateUpdated,
		Category:  "associate",
		NewPrice:  &price,
		Reason:    "cost adjustment",
		ActorName: "admin",
	}))
	require.NoError(t, repo.Append(ctx, &models.AuditRecord{
		EventType: models.AuditRateDeleted,
		Category:  "vip",
		Reason:    "category retired",
		ActorName: "admin",
	}))

	t.Run("filters by category", func(t *testing.T) {
		records, total, err := svc.Search(ctx, &SearchInput{Category: "associate", Limit: 20})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, records, 1)
		assert.Equal(t, models.AuditRateUpdated, records[0].EventType)
	})

	t.Run("filters by free text", func(t *testing.T) {
		records, _, err := svc.Search(ctx, &SearchInput{Search: "retired", Limit: 20})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "vip", records[0].Category)
	})

	t.Run("filters by date range", func(t *testing.T) {
		future := time.Now().Add(time.Hour)
		records, _, err := svc.Search(ctx, &SearchInput{From: &future, Limit: 20})
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}
