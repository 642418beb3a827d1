package repositories

import (
	"context"

	"parkgate/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// vehicleRepository implements VehicleRepository interface
type vehicleRepository struct {
	db *gorm.DB
}

// NewVehicleRepository creates a new vehicle repository
func NewVehicleRepository(db *gorm.DB) VehicleRepository {
	return &vehicleRepository{db: db}
}

// Create creates a new vehicle
func (r *vehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	return r.db.WithContext(ctx).Create(vehicle).Error
}

// GetByID gets a vehicle by ID
func (r *vehicleRepository) GetByID(ctx context.Context, id uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.db.WithContext(ctx).Preload("Owner").First(&vehicle, id).Error
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// GetByPlate gets a vehicle by plate
func (r *vehicleRepository) GetByPlate(ctx context.Context, plate string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.db.WithContext(ctx).Preload("Owner").Where("plate = ?", plate).First(&vehicle).Error
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// ListByUser lists all vehicles owned by a user
func (r *vehicleRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Vehicle, error) {
	var vehicles []*models.Vehicle
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&vehicles).Error
	return vehicles, err
}

// List lists vehicles with pagination
func (r *vehicleRepository) List(ctx context.Context, offset, limit int) ([]*models.Vehicle, int64, error) {
	var vehicles []*models.Vehicle
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Vehicle{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("Owner").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&vehicles).Error
	if err != nil {
		return nil, 0, err
	}

	return vehicles, total, nil
}

// Update updates a vehicle
func (r *vehicleRepository) Update(ctx context.Context, vehicle *models.Vehicle) error {
	return r.db.WithContext(ctx).Save(vehicle).Error
}

// Delete soft deletes a vehicle
func (r *vehicleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Vehicle{}, id).Error
}

// ExistsByPlate checks if a plate is already registered
func (r *vehicleRepository) ExistsByPlate(ctx context.Context, plate string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Vehicle{}).Where("plate = ?", plate).Count(&count).Error
	return count > 0, err
}
