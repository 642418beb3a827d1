package services

import (
	"context"
	"testing"

	"parkgate/internal/adapters/persistence/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAssignedRate(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns an existing category", func(t *testing.T) {
		users := newFakeUserRepo()
		rates := newFakeRateRepo()
		rates.seed("vip", 750)
		svc := NewUserService(users, rates)

		user := &models.User{Username: "driver", IsActive: true}
		require.NoError(t, users.Create(ctx, user))

		updated, err := svc.SetAssignedRate(ctx, user.ID, "vip")
		require.NoError(t, err)
		require.NotNil(t, updated.AssignedRate)
		assert.Equal(t, "vip", *updated.AssignedRate)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		users := newFakeUserRepo()
		rates := newFakeRateRepo()
		svc := NewUserService(users, rates)

		user := &models.User{Username: "driver", IsActive: true}
		require.NoError(t, users.Create(ctx, user))

		_, err := svc.SetAssignedRate(ctx, user.ID, "ghost")
		assert.ErrorIs(t, err, ErrRateNotFound)
	})

	t.Run("empty category clears the assignment", func(t *testing.T) {
		users := newFakeUserRepo()
		rates := newFakeRateRepo()
		rates.seed("vip", 750)
		svc := NewUserService(users, rates)

		assigned := "vip"
		user := &models.User{Username: "driver", IsActive: true, AssignedRate: &assigned}
		require.NoError(t, users.Create(ctx, user))

		updated, err := svc.SetAssignedRate(ctx, user.ID, "")
		require.NoError(t, err)
		assert.Nil(t, updated.AssignedRate)
	})
}

func TestSetRole(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns a valid role", func(t *testing.T) {
		users := newFakeUserRepo()
		svc := NewUserService(users, newFakeRateRepo())

		admin := &models.User{Username: "admin", Role: "ADMIN", IsActive: true}
		require.NoError(t, users.Create(ctx, admin))
		user := &models.User{Username: "driver", Role: "USER", IsActive: true}
		require.NoError(t, users.Create(ctx, user))

		updated, err := svc.SetRole(ctx, admin.ID, user.ID, &SetRoleInput{Role: "officer"})
		require.NoError(t, err)
		assert.Equal(t, "OFFICER", updated.Role)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		users := newFakeUserRepo()
		svc := NewUserService(users, newFakeRateRepo())

		_, err := svc.SetRole(ctx, 1, 2, &SetRoleInput{Role: "SUPERVISOR"})
		assert.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("rejects changing own role", func(t *testing.T) {
		users := newFakeUserRepo()
		svc := NewUserService(users, newFakeRateRepo())

		_, err := svc.SetRole(ctx, 1, 1, &SetRoleInput{Role: "USER"})
		assert.ErrorIs(t, err, ErrSelfDemotion)
	})
}

func TestDebitBalance(t *testing.T) {
	ctx := context.Background()

	users := newFakeUserRepo()
	svc := NewUserService(users, newFakeRateRepo())

	user := &models.User{Username: "driver", IsActive: true, AvailableBalance: 1000}
	require.NoError(t, users.Create(ctx, user))

	require.NoError(t, svc.DebitBalance(ctx, user.ID, 1500))

	// The balance may go negative; exits are never blocked at the gate.
	after, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, -500.0, after.AvailableBalance)
}
