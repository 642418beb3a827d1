package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"parkgate/internal/adapters/persistence/models"
	"parkgate/internal/adapters/persistence/repositories"
	"parkgate/internal/pkg/password"
	"parkgate/internal/pkg/validation"

	"gorm.io/gorm"
)

// User management errors
var (
	ErrInvalidRole         = errors.New("invalid role")
	ErrWrongPassword       = errors.New("current password is incorrect")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrSelfDemotion        = errors.New("cannot change your own role")
)

// UserService handles user management business logic
type UserService struct {
	userRepo repositories.UserRepository
	rateRepo repositories.RateRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository, rateRepo repositories.RateRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		rateRepo: rateRepo,
	}
}

// GetProfile returns a user's own profile
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfileInput represents profile update input
type UpdateProfileInput struct {
	Email string `json:"email" validate:"omitempty,email"`
}

// UpdateProfile updates a user's own profile fields
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input *UpdateProfileInput) (*models.User, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if input.Email != "" && input.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrUserAlreadyExists
		}
		user.Email = input.Email
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePasswordInput represents password change input
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// ChangePassword changes a user's password after verifying the current one
func (s *UserService) ChangePassword(ctx context.Context, userID uint, input *ChangePasswordInput) error {
	if err := validation.Struct(input); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !password.Verify(input.CurrentPassword, user.Password) {
		return ErrWrongPassword
	}

	hashed, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}
	user.Password = hashed

	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	log.Printf("✅ Password changed for user ID: %d", userID)
	return nil
}

// ListUsers returns users with pagination (admin)
func (s *UserService) ListUsers(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	return s.userRepo.List(ctx, offset, limit)
}

// GetUser returns a user by ID (admin)
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// SetRoleInput represents role assignment input
type SetRoleInput struct {
	Role string `json:"role" validate:"required"`
}

// SetRole assigns a role to a user (admin). Admins cannot change their own role.
func (s *UserService) SetRole(ctx context.Context, actorID, userID uint, input *SetRoleInput) (*models.User, error) {
	role := strings.ToUpper(strings.TrimSpace(input.Role))
	if role != "USER" && role != "OFFICER" && role != "ADMIN" {
		return nil, ErrInvalidRole
	}
	if actorID == userID {
		return nil, ErrSelfDemotion
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.Role = role
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ Role of user %d set to %s (by %d)", userID, role, actorID)
	return user, nil
}

// SetAssociate flips the associate membership flag (admin)
func (s *UserService) SetAssociate(ctx context.Context, userID uint, isAssociate bool) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.IsAssociate = isAssociate
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ Associate flag of user %d set to %v", userID, isAssociate)
	return user, nil
}

// SetAssignedRate pins a user to a specific rate category (admin). An empty
// category clears the assignment, falling back to the membership flag.
func (s *UserService) SetAssignedRate(ctx context.Context, userID uint, category string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	category = strings.TrimSpace(category)
	if category == "" {
		user.AssignedRate = nil
	} else {
		if _, err := s.rateRepo.GetByCategory(ctx, category); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrRateNotFound
			}
			return nil, err
		}
		user.AssignedRate = &category
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ Assigned rate of user %d set to %q", userID, category)
	return user, nil
}

// SetActive activates or deactivates a user account (admin)
func (s *UserService) SetActive(ctx context.Context, userID uint, isActive bool) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.IsActive = isActive
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser soft deletes a user (admin)
func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return s.userRepo.Delete(ctx, id)
}

// DebitBalance subtracts amount from a user's balance. The account may go
// negative: the owed amount is collected through top-ups later, and an exit
// must never be blocked at the gate.
func (s *UserService) DebitBalance(ctx context.Context, userID uint, amount float64) error {
	if err := s.userRepo.AdjustBalance(ctx, userID, -amount); err != nil {
		return err
	}
	log.Printf("✅ Debited %.2f from user %d", amount, userID)
	return nil
}
