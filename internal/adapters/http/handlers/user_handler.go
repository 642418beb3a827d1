package handlers

import (
	"errors"
	"strconv"

	"parkgate/internal/core/services"
	"parkgate/internal/pkg/pagination"
	"parkgate/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user profile and admin user management endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateProfileRequest represents profile update request body
type UpdateProfileRequest struct {
	Email string `json:"email"`
}

// ChangePasswordRequest represents password change request body
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// SetRoleRequest represents role assignment request body
type SetRoleRequest struct {
	Role string `json:"role"`
}

// SetAssociateRequest represents associate flag request body
type SetAssociateRequest struct {
	IsAssociate bool `json:"is_associate"`
}

// SetAssignedRateRequest represents assigned rate request body
type SetAssignedRateRequest struct {
	Category string `json:"category"`
}

// SetActiveRequest represents account activation request body
type SetActiveRequest struct {
	IsActive bool `json:"is_active"`
}

// GetProfile returns the current user's profile
// @Summary Get profile
// @Description Get the authenticated user's profile
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /users/me [get]
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	user, err := h.userService.GetProfile(c.Context(), userID)
	if err != nil {
		return response.NotFound(c, "User not found")
	}

	return response.Success(c, "Profile retrieved successfully", fiber.Map{
		"user": user.ToResponse(),
	})
}

// UpdateProfile updates the current user's profile
// @Summary Update profile
// @Description Update the authenticated user's profile
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateProfileRequest true "Profile data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /users/me [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.UpdateProfileInput{Email: req.Email}

	user, err := h.userService.UpdateProfile(c.Context(), userID, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserAlreadyExists):
			return response.Conflict(c, "Email already in use")
		default:
			return response.BadRequest(c, err.Error())
		}
	}

	return response.Success(c, "Profile updated successfully", fiber.Map{
		"user": user.ToResponse(),
	})
}

// ChangePassword changes the current user's password
// @Summary Change password
// @Description Change the authenticated user's password
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ChangePasswordRequest true "Password data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /users/me/password [put]
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}

	if err := h.userService.ChangePassword(c.Context(), userID, input); err != nil {
		switch {
		case errors.Is(err, services.ErrWrongPassword):
			return response.BadRequest(c, "Current password is incorrect")
		default:
			return response.BadRequest(c, err.Error())
		}
	}

	return response.Success(c, "Password changed successfully", nil)
}

// ListUsers returns all users
// @Summary List users
// @Description List all users (admin only)
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /admin/users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	users, total, err := h.userService.ListUsers(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list users")
	}

	responses := make([]interface{}, 0, len(users))
	for _, u := range users {
		responses = append(responses, u.ToResponse())
	}

	return response.Success(c, "Users retrieved successfully",
		pagination.NewResponse(responses, params, total))
}

// GetUser returns a user by ID
// @Summary Get user
// @Description Get a user by ID (admin only)
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/users/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	user, err := h.userService.GetUser(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to get user")
	}

	return response.Success(c, "User retrieved successfully", fiber.Map{
		"user": user.ToResponse(),
	})
}

// SetRole assigns a role to a user
// @Summary Set user role
// @Description Assign a role to a user (admin only)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body SetRoleRequest true "Role data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/users/{id}/role [put]
func (h *UserHandler) SetRole(c *fiber.Ctx) error {
	actorID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req SetRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.SetRole(c.Context(), actorID, uint(id), &services.SetRoleInput{Role: req.Role})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRole):
			return response.BadRequest(c, "Invalid role")
		case errors.Is(err, services.ErrSelfDemotion):
			return response.BadRequest(c, "Cannot change your own role")
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to set role")
		}
	}

	return response.Success(c, "Role updated successfully", fiber.Map{
		"user": user.ToResponse(),
	})
}

// SetAssociate flips a user's associate membership flag
// @Summary Set associate flag
// @Description Mark a user as associate or non-associate (admin only)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body SetAssociateRequest true "Associate flag"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/users/{id}/associate [put]
func (h *UserHandler) SetAssociate(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req SetAssociateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.SetAssociate(c.Context(), uint(id), req.IsAssociate)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to set associate flag")
	}

	return response.Success(c, "Associate flag updated successfully", fiber.Map{
		"user": user.ToResponse(),
	})
}

// SetAssignedRate pins a user to a rate category
// @Summary Set assigned rate
// @Description Pin a user to a rate category; empty category clears the assignment (admin only)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body SetAssignedRateRequest true "Rate category"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/users/{id}/rate [put]
func (h *UserHandler) SetAssignedRate(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req SetAssignedRateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.SetAssignedRate(c.Context(), uint(id), req.Category)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, services.ErrRateNotFound):
			return response.NotFound(c, "Rate category not found")
		default:
			return response.InternalServerError(c, "Failed to set assigned rate")
		}
	}

	return response.Success(c, "Assigned rate updated successfully", fiber.Map{
		"user": user.ToResponse(),
	})
}

// SetActive activates or deactivates a user account
// @Summary Set account active
// @Description Activate or deactivate a user account (admin only)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body SetActiveRequest true "Active flag"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/users/{id}/active [put]
func (h *UserHandler) SetActive(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req SetActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.SetActive(c.Context(), uint(id), req.IsActive)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to update account")
	}

	return response.Success(c, "Account updated successfully", fiber.Map{
		"user": user.ToResponse(),
	})
}

// DeleteUser soft deletes a user
// @Summary Delete user
// @Description Soft delete a user (admin only)
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	if err := h.userService.DeleteUser(c.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to delete user")
	}

	return response.Success(c, "User deleted successfully", nil)
}
