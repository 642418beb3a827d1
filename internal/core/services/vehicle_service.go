package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"parkgate/internal/adapters/persistence/models"
	"parkgate/internal/adapters/persistence/repositories"
	"parkgate/internal/pkg/validation"

	"gorm.io/gorm"
)

// Vehicle errors
var (
	ErrPlateExists     = errors.New("plate already registered")
	ErrNotVehicleOwner = errors.New("vehicle belongs to another user")
)

// VehicleService handles vehicle registration business logic
type VehicleService struct {
	vehicleRepo repositories.VehicleRepository
	sessionRepo repositories.SessionRepository
}

// NewVehicleService creates a new vehicle service
func NewVehicleService(vehicleRepo repositories.VehicleRepository, sessionRepo repositories.SessionRepository) *VehicleService {
	return &VehicleService{
		vehicleRepo: vehicleRepo,
		sessionRepo: sessionRepo,
	}
}

// RegisterVehicleInput represents vehicle registration input
type RegisterVehicleInput struct {
	Plate string `json:"plate" validate:"required,min=2,max=20"`
	Brand string `json:"brand,omitempty"`
	Model string `json:"model,omitempty"`
	Color string `json:"color,omitempty"`
}

// RegisterVehicle registers a vehicle under the given owner. Plates are
// stored uppercased so gate lookups are case-insensitive.
func (s *VehicleService) RegisterVehicle(ctx context.Context, userID uint, input *RegisterVehicleInput) (*models.Vehicle, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	plate := strings.ToUpper(strings.TrimSpace(input.Plate))

	exists, err := s.vehicleRepo.ExistsByPlate(ctx, plate)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrPlateExists
	}

	vehicle := &models.Vehicle{
		Plate:    plate,
		UserID:   userID,
		Brand:    input.Brand,
		Model:    input.Model,
		Color:    input.Color,
		IsActive: true,
	}
	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		return nil, err
	}

	log.Printf("✅ Vehicle registered: %s (owner %d)", plate, userID)
	return vehicle, nil
}

// GetVehicle returns a vehicle by ID
func (s *VehicleService) GetVehicle(ctx context.Context, id uint) (*models.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return vehicle, nil
}

// ListUserVehicles returns all vehicles of a user
func (s *VehicleService) ListUserVehicles(ctx context.Context, userID uint) ([]*models.Vehicle, error) {
	return s.vehicleRepo.ListByUser(ctx, userID)
}

// ListVehicles returns all vehicles with pagination (officer/admin)
func (s *VehicleService) ListVehicles(ctx context.Context, offset, limit int) ([]*models.Vehicle, int64, error) {
	return s.vehicleRepo.List(ctx, offset, limit)
}

// UpdateVehicleInput represents vehicle update input
type UpdateVehicleInput struct {
	Brand *string `json:"brand,omitempty"`
	Model *string `json:"model,omitempty"`
	Color *string `json:"color,omitempty"`
}

// UpdateVehicle updates cosmetic vehicle fields. The plate is immutable;
// a re-plated vehicle is registered anew.
func (s *VehicleService) UpdateVehicle(ctx context.Context, userID, vehicleID uint, input *UpdateVehicleInput) (*models.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	if vehicle.UserID != userID {
		return nil, ErrNotVehicleOwner
	}

	if input.Brand != nil {
		vehicle.Brand = *input.Brand
	}
	if input.Model != nil {
		vehicle.Model = *input.Model
	}
	if input.Color != nil {
		vehicle.Color = *input.Color
	}

	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

// DeactivateVehicle disables a vehicle. A deactivated vehicle cannot start
// new sessions, but an already active session can still be settled.
func (s *VehicleService) DeactivateVehicle(ctx context.Context, userID, vehicleID uint) (*models.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	if vehicle.UserID != userID {
		return nil, ErrNotVehicleOwner
	}

	vehicle.IsActive = false
	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		return nil, err
	}

	log.Printf("✅ Vehicle deactivated: %s", vehicle.Plate)
	return vehicle, nil
}

// DeleteVehicle removes a vehicle. Removal is refused while the plate has
// an active session.
func (s *VehicleService) DeleteVehicle(ctx context.Context, userID, vehicleID uint) error {
	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVehicleNotFound
		}
		return err
	}
	if vehicle.UserID != userID {
		return ErrNotVehicleOwner
	}

	active, err := s.sessionRepo.GetActiveByPlate(ctx, vehicle.Plate)
	if err != nil {
		return err
	}
	if active != nil {
		return ErrSessionActive
	}

	return s.vehicleRepo.Delete(ctx, vehicleID)
}
