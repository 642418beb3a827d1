package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"parkgate/internal/adapters/persistence/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeTopUpRepo struct {
	mu      sync.Mutex
	topUps  map[uint]*models.TopUp
	nextID  uint
	credits map[uint]float64
}

func newFakeTopUpRepo() *fakeTopUpRepo {
	return &fakeTopUpRepo{topUps: make(map[uint]*models.TopUp), credits: make(map[uint]float64)}
}

func (r *fakeTopUpRepo) Create(_ context.Context, topUp *models.TopUp) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	topUp.ID = r.nextID
	cp := *topUp
	r.topUps[topUp.ID] = &cp
	return nil
}

func (r *fakeTopUpRepo) GetByID(_ context.Context, id uint) (*models.TopUp, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.topUps[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTopUpRepo) ExistsByVoucherCode(_ context.Context, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.topUps {
		if t.VoucherCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeTopUpRepo) ListByUser(_ context.Context, userID uint) ([]*models.TopUp, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.TopUp
	for _, t := range r.topUps {
		if t.UserID == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeTopUpRepo) ListByStatus(_ context.Context, status string, offset, limit int) ([]*models.TopUp, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.TopUp
	for _, t := range r.topUps {
		if t.Status == status {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeTopUpRepo) ApproveWithCredit(_ context.Context, topUp *models.TopUp, reviewerID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.topUps[topUp.ID]
	if !ok || stored.Status != models.TopUpPending {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	stored.Status = models.TopUpApproved
	stored.ReviewedBy = &reviewerID
	stored.ReviewedAt = &now
	r.credits[stored.UserID] += stored.Amount
	*topUp = *stored
	return nil
}

func (r *fakeTopUpRepo) Reject(_ context.Context, topUp *models.TopUp, reviewerID uint, remark string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.topUps[topUp.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	stored.Status = models.TopUpRejected
	stored.Remark = remark
	stored.ReviewedBy = &reviewerID
	stored.ReviewedAt = &now
	*topUp = *stored
	return nil
}

func TestSubmitTopUp(t *testing.T) {
	ctx := context.Background()

	t.Run("submits a voucher as pending", func(t *testing.T) {
		repo := newFakeTopUpRepo()
		svc := NewTopUpService(repo)

		topUp, err := svc.SubmitTopUp(ctx, 1, &SubmitTopUpInput{VoucherCode: "vch-1001", Amount: 500})
		require.NoError(t, err)
		assert.Equal(t, models.TopUpPending, topUp.Status)
		assert.Equal(t, "VCH-1001", topUp.VoucherCode)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		repo := newFakeTopUpRepo()
		svc := NewTopUpService(repo)

		_, err := svc.SubmitTopUp(ctx, 1, &SubmitTopUpInput{VoucherCode: "VCH-1001", Amount: -10})
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("rejects reused voucher code", func(t *testing.T) {
		repo := newFakeTopUpRepo()
		svc := NewTopUpService(repo)

		_, err := svc.SubmitTopUp(ctx, 1, &SubmitTopUpInput{VoucherCode: "VCH-1001", Amount: 500})
		require.NoError(t, err)

		_, err = svc.SubmitTopUp(ctx, 2, &SubmitTopUpInput{VoucherCode: "vch-1001", Amount: 300})
		assert.ErrorIs(t, err, ErrVoucherUsed)
	})
}

func TestReviewTopUp(t *testing.T) {
	ctx := context.Background()

	t.Run("approval credits the balance once", func(t *testing.T) {
		repo := newFakeTopUpRepo()
		svc := NewTopUpService(repo)

		topUp, err := svc.SubmitTopUp(ctx, 1, &SubmitTopUpInput{VoucherCode: "VCH-1001", Amount: 500})
		require.NoError(t, err)

		approved, err := svc.ApproveTopUp(ctx, topUp.ID, 9)
		require.NoError(t, err)
		assert.Equal(t, models.TopUpApproved, approved.Status)
		assert.Equal(t, 500.0, repo.credits[1])

		_, err = svc.ApproveTopUp(ctx, topUp.ID, 9)
		assert.ErrorIs(t, err, ErrTopUpNotPending)
		assert.Equal(t, 500.0, repo.credits[1])
	})

	t.Run("rejection requires a remark", func(t *testing.T) {
		repo := newFakeTopUpRepo()
		svc := NewTopUpService(repo)

		topUp, err := svc.SubmitTopUp(ctx, 1, &SubmitTopUpInput{VoucherCode: "VCH-1001", Amount: 500})
		require.NoError(t, err)

		_, err = svc.RejectTopUp(ctx, topUp.ID, 9, "")
		assert.ErrorIs(t, err, ErrReasonRequired)

		rejected, err := svc.RejectTopUp(ctx, topUp.ID, 9, "voucher not found in ledger")
		require.NoError(t, err)
		assert.Equal(t, models.TopUpRejected, rejected.Status)
		assert.Zero(t, repo.credits[1])
	})

	t.Run("missing top-up", func(t *testing.T) {
		svc := NewTopUpService(newFakeTopUpRepo())

		_, err := svc.ApproveTopUp(ctx, 42, 9)
		assert.ErrorIs(t, err, ErrTopUpNotFound)
	})
}
