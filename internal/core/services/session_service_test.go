package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"parkgate/internal/adapters/persistence/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionTestEnv struct {
	svc      *SessionService
	sessions *fakeSessionRepo
	vehicles *fakeVehicleRepo
	users    *fakeUserRepo
	audit    *fakeAuditRepo
	rates    *fakeRateRepo
}

func newSessionTestEnv(t *testing.T) *sessionTestEnv {
	t.Helper()

	sessions := newFakeSessionRepo()
	vehicles := newFakeVehicleRepo()
	users := newFakeUserRepo()
	audit := newFakeAuditRepo()
	rates := newFakeRateRepo()
	rates.seed("associate", 250)
	rates.seed("non_associate", 500)

	rateService := NewRateService(rates, testBillingConfig())
	svc := NewSessionService(sessions, vehicles, users, audit, rateService)

	return &sessionTestEnv{
		svc:      svc,
		sessions: sessions,
		vehicles: vehicles,
		users:    users,
		audit:    audit,
		rates:    rates,
	}
}

func (e *sessionTestEnv) addUser(t *testing.T, isAssociate bool) *models.User {
	t.Helper()
	user := &models.User{Username: "driver", IsAssociate: isAssociate, IsActive: true}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func TestStartSession(t *testing.T) {
	ctx := context.Background()

	t.Run("starts session for registered vehicle", func(t *testing.T) {
		env := newSessionTestEnv(t)
		user := env.addUser(t, false)
		env.vehicles.seed("AB1234", user.ID, true)

		session, err := env.svc.StartSession(ctx, &StartSessionInput{Plate: "ab1234", Gate: "MAIN"})
		require.NoError(t, err)
		assert.Equal(t, "AB1234", session.Plate)
		assert.Equal(t, user.ID, session.UserID)
		assert.Equal(t, "ACTIVE", session.Status)
	})

	t.Run("rejects unknown gate", func(t *testing.T) {
		env := newSessionTestEnv(t)
		user := env.addUser(t, false)
		env.vehicles.seed("AB1234", user.ID, true)

		_, err := env.svc.StartSession(ctx, &StartSessionInput{Plate: "AB1234", Gate: "EAST"})
		assert.ErrorIs(t, err, ErrUnknownGate)
	})

	t.Run("rejects unregistered vehicle", func(t *testing.T) {
		env := newSessionTestEnv(t)

		_, err := env.svc.StartSession(ctx, &StartSessionInput{Plate: "ZZ9999", Gate: "MAIN"})
		assert.ErrorIs(t, err, ErrVehicleNotFound)
	})

	t.Run("rejects deactivated vehicle", func(t *testing.T) {
		env := newSessionTestEnv(t)
		user := env.addUser(t, false)
		env.vehicles.seed("AB1234", user.ID, false)

		_, err := env.svc.StartSession(ctx, &StartSessionInput{Plate: "AB1234", Gate: "MAIN"})
		assert.ErrorIs(t, err, ErrVehicleInactive)
	})

	t.Run("second start for same plate conflicts", func(t *testing.T) {
		env := newSessionTestEnv(t)
		user := env.addUser(t, false)
		env.vehicles.seed("AB1234", user.ID, true)

		_, err := env.svc.StartSession(ctx, &StartSessionInput{Plate: "AB1234", Gate: "MAIN"})
		require.NoError(t, err)

		_, err = env.svc.StartSession(ctx, &StartSessionInput{Plate: "AB1234", Gate: "NORTH"})
		assert.ErrorIs(t, err, ErrSessionActive)
	})
}

func TestSettleSession(t *testing.T) {
	ctx := context.Background()

	t.Run("2h15m at non-associate rate bills three hours", func(t *testing.T) {
		env := newSessionTestEnv(t)
		user := env.addUser(t, false)
		env.sessions.seedActive("AB1234", user.ID, time.Now().Add(-(2*time.Hour + 15*time.Minute)))

		result, err := env.svc.SettleSession(ctx, "AB1234")
		require.NoError(t, err)
		assert.Equal(t, 3, result.BilledHours)
		assert.Equal(t, 500.0, result.RatePerHour)
		assert.Equal(t, "non_associate", result.Category)
		assert.Equal(t, 1500.0, result.BilledAmount)
		assert.Equal(t, "SETTLED", result.Session.Status)
	})

	t.Run("61 minutes bills two hours", func(t *testing.T) {
		env := newSessionTestEnv(t)
		user := env.addUser(t, true)
		env.sessions.seedActive("AB1234", user.ID, time.Now().Add(-61*time.Minute))

		result, err := env.svc.SettleSession(ctx, "AB1234")
		require.NoError(t, err)
		assert.Equal(t, 2, result.BilledHours)
		assert.Equal(t, 250.0, result.RatePerHour)
		assert.Equal(t, 500.0, result.BilledAmount)
	})

	t.Run("immediate settle bills minimum hour", func(t *testing.T) {
		env := newSessionTestEnv(t)
		user := env.addUser(t, true)
		env.sessions.seedActive("AB1234", user.ID, time.Now())

		result, err := env.svc.SettleSession(ctx, "AB1234")
		require.NoError(t, err)
		assert.Equal(t, 1, result.BilledHours)
		assert.Equal(t, 250.0, result.BilledAmount)
	})

	t.Run("no active session", func(t *testing.T) {
		env := newSessionTestEnv(t)
		env.addUser(t, false)

		_, err := env.svc.SettleSession(ctx, "AB1234")
		assert.ErrorIs(t, err, ErrNoActiveSession)
	})

	t.Run("second settle fails", func(t *testing.T) {
		env := newSessionTestEnv(t)
		user := env.addUser(t, false)
		env.sessions.seedActive("AB1234", user.ID, time.Now().Add(-30*time.Minute))

		_, err := env.svc.SettleSession(ctx, "AB1234")
		require.NoError(t, err)

		_, err = env.svc.SettleSession(ctx, "AB1234")
		assert.ErrorIs(t, err, ErrNoActiveSession)
	})

	t.Run("concurrent settles produce one settlement", func(t *testing.T) {
		env := newSessionTestEnv(t)
		user := env.addUser(t, false)
		env.sessions.seedActive("AB1234", user.ID, time.Now().Add(-90*time.Minute))

		const workers = 8
		var wg sync.WaitGroup
		errs := make([]error, workers)

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = env.svc.SettleSession(ctx, "AB1234")
			}(i)
		}
		wg.Wait()

		var succeeded int
		for _, err := range errs {
			if err == nil {
				succeeded++
			} else {
				assert.ErrorIs(t, err, ErrNoActiveSession)
			}
		}
		assert.Equal(t, 1, succeeded)
	})

	t.Run("appends settlement audit record", func(t *testing.T) {
		env := newSessionTestEnv(t)
		user := env.addUser(t, false)
		env.sessions.seedActive("AB1234", user.ID, time.Now().Add(-30*time.Minute))

		_, err := env.svc.SettleSession(ctx, "AB1234")
		require.NoError(t, err)

		require.Len(t, env.audit.records, 1)
		rec := env.audit.records[0]
		assert.Equal(t, models.AuditSessionSettled, rec.EventType)
		assert.Equal(t, "non_associate", rec.Category)
		assert.Contains(t, rec.Details, "plate=AB1234")
	})

	t.Run("uses assigned rate when set", func(t *testing.T) {
		env := newSessionTestEnv(t)
		env.rates.seed("vip", 750)

		assigned := "vip"
		user := &models.User{Username: "driver", IsAssociate: false, IsActive: true, AssignedRate: &assigned}
		require.NoError(t, env.users.Create(ctx, user))
		env.sessions.seedActive("AB1234", user.ID, time.Now().Add(-30*time.Minute))

		result, err := env.svc.SettleSession(ctx, "AB1234")
		require.NoError(t, err)
		assert.Equal(t, "vip", result.Category)
		assert.Equal(t, 750.0, result.BilledAmount)
	})
}

func TestGetActiveSession(t *testing.T) {
	ctx := context.Background()

	env := newSessionTestEnv(t)
	user := env.addUser(t, false)
	env.sessions.seedActive("AB1234", user.ID, time.Now())

	session, err := env.svc.GetActiveSession(ctx, "ab1234")
	require.NoError(t, err)
	assert.Equal(t, "AB1234", session.Plate)

	_, err = env.svc.GetActiveSession(ctx, "ZZ9999")
	assert.ErrorIs(t, err, ErrNoActiveSession)
}
