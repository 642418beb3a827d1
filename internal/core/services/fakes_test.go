package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"parkgate/internal/adapters/persistence/models"
	"parkgate/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// In-memory repository fakes for service tests.

type fakeRateRepo struct {
	mu      sync.Mutex
	entries map[string]*models.RateEntry
	log     []*models.AuditRecord
	nextID  uint
}

func newFakeRateRepo() *fakeRateRepo {
	return &fakeRateRepo{entries: make(map[string]*models.RateEntry)}
}

func (r *fakeRateRepo) GetByCategory(_ context.Context, category string) (*models.RateEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[category]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *entry
	return &cp, nil
}

func (r *fakeRateRepo) List(_ context.Context) ([]*models.RateEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.RateEntry, 0, len(r.entries))
	for _, e := range r.entries {
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeRateRepo) CreateWithLog(_ context.Context, entry *models.RateEntry, rec *models.AuditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	entry.ID = r.nextID
	cp := *entry
	r.entries[entry.Category] = &cp
	r.log = append(r.log, rec)
	return nil
}

func (r *fakeRateRepo) UpdateWithLog(_ context.Context, entry *models.RateEntry, rec *models.AuditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *entry
	r.entries[entry.Category] = &cp
	r.log = append(r.log, rec)
	return nil
}

func (r *fakeRateRepo) DeleteWithLog(_ context.Context, category string, rec *models.AuditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[category]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.entries, category)
	r.log = append(r.log, rec)
	return nil
}

func (r *fakeRateRepo) seed(category string, price float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.entries[category] = &models.RateEntry{ID: r.nextID, Category: category, PricePerHour: price}
}

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = r.nextID
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			cp := *user
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByNationalID(_ context.Context, nationalID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.NationalID == nationalID {
			cp := *user
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, offset, limit int) ([]*models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *fakeUserRepo) ExistsByNationalID(ctx context.Context, nationalID string) (bool, error) {
	_, err := r.GetByNationalID(ctx, nationalID)
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *fakeUserRepo) AdjustBalance(_ context.Context, userID uint, delta float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.AvailableBalance += delta
	return nil
}

type fakeVehicleRepo struct {
	mu       sync.Mutex
	vehicles map[string]*models.Vehicle
	nextID   uint
}

func newFakeVehicleRepo() *fakeVehicleRepo {
	return &fakeVehicleRepo{vehicles: make(map[string]*models.Vehicle)}
}

func (r *fakeVehicleRepo) Create(_ context.Context, vehicle *models.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	vehicle.ID = r.nextID
	cp := *vehicle
	r.vehicles[vehicle.Plate] = &cp
	return nil
}

func (r *fakeVehicleRepo) GetByID(_ context.Context, id uint) (*models.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.vehicles {
		if v.ID == id {
			cp := *v
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeVehicleRepo) GetByPlate(_ context.Context, plate string) (*models.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vehicles[strings.ToUpper(plate)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *fakeVehicleRepo) ListByUser(_ context.Context, userID uint) ([]*models.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Vehicle
	for _, v := range r.vehicles {
		if v.UserID == userID {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeVehicleRepo) List(_ context.Context, offset, limit int) ([]*models.Vehicle, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Vehicle, 0, len(r.vehicles))
	for _, v := range r.vehicles {
		cp := *v
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (r *fakeVehicleRepo) Update(_ context.Context, vehicle *models.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *vehicle
	r.vehicles[vehicle.Plate] = &cp
	return nil
}

func (r *fakeVehicleRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for plate, v := range r.vehicles {
		if v.ID == id {
			delete(r.vehicles, plate)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeVehicleRepo) ExistsByPlate(ctx context.Context, plate string) (bool, error) {
	_, err := r.GetByPlate(ctx, plate)
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *fakeVehicleRepo) seed(plate string, userID uint, active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.vehicles[plate] = &models.Vehicle{ID: r.nextID, Plate: plate, UserID: userID, IsActive: active}
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uint]*models.ParkingSession
	nextID   uint
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uint]*models.ParkingSession)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *models.ParkingSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	session.ID = r.nextID
	cp := *session
	r.sessions[session.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id uint) (*models.ParkingSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) GetActiveByPlate(_ context.Context, plate string) (*models.ParkingSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.Plate == plate && s.Status == "ACTIVE" {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) Settle(_ context.Context, session *models.ParkingSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.sessions[session.ID]
	if !ok || stored.Status != "ACTIVE" {
		return gorm.ErrRecordNotFound
	}
	cp := *session
	r.sessions[session.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) ListByUser(_ context.Context, userID uint, offset, limit int) ([]*models.ParkingSession, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.ParkingSession
	for _, s := range r.sessions {
		if s.UserID == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeSessionRepo) ListActive(_ context.Context) ([]*models.ParkingSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.ParkingSession
	for _, s := range r.sessions {
		if s.Status == "ACTIVE" {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) SettledStatsBetween(_ context.Context, from, to time.Time) (int64, float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	var total float64
	for _, s := range r.sessions {
		if s.Status != "SETTLED" || s.EndTime == nil {
			continue
		}
		if s.EndTime.Before(from) || !s.EndTime.Before(to) {
			continue
		}
		count++
		if s.BilledAmount != nil {
			total += *s.BilledAmount
		}
	}
	return count, total, nil
}

func (r *fakeSessionRepo) seedActive(plate string, userID uint, startedAt time.Time) *models.ParkingSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	s := &models.ParkingSession{
		ID:        r.nextID,
		Plate:     plate,
		UserID:    userID,
		Gate:      "MAIN",
		Status:    "ACTIVE",
		StartTime: startedAt,
	}
	r.sessions[s.ID] = s
	return s
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	records []*models.AuditRecord
}

func newFakeAuditRepo() *fakeAuditRepo {
	return &fakeAuditRepo{}
}

func (r *fakeAuditRepo) Append(_ context.Context, rec *models.AuditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec.ID = uint(len(r.records) + 1)
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	r.records = append(r.records, rec)
	return nil
}

func (r *fakeAuditRepo) Query(_ context.Context, filter repositories.AuditFilter) ([]*models.AuditRecord, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.AuditRecord
	for _, rec := range r.records {
		if filter.Category != "" && rec.Category != filter.Category {
			continue
		}
		if filter.From != nil && rec.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !rec.CreatedAt.Before(*filter.To) {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(rec.Reason, filter.Search) &&
			!strings.Contains(rec.Details, filter.Search) &&
			!strings.Contains(rec.ActorName, filter.Search) {
			continue
		}
		out = append(out, rec)
	}
	return out, int64(len(out)), nil
}
