package handlers

import (
	"errors"
	"strconv"

	"parkgate/internal/core/services"
	"parkgate/internal/pkg/pagination"
	"parkgate/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// VehicleHandler handles vehicle endpoints
type VehicleHandler struct {
	vehicleService *services.VehicleService
}

// NewVehicleHandler creates a new vehicle handler
func NewVehicleHandler(vehicleService *services.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleService: vehicleService}
}

// RegisterVehicleRequest represents vehicle registration request body
type RegisterVehicleRequest struct {
	Plate string `json:"plate"`
	Brand string `json:"brand"`
	Model string `json:"model"`
	Color string `json:"color"`
}

// UpdateVehicleRequest represents vehicle update request body
type UpdateVehicleRequest struct {
	Brand *string `json:"brand"`
	Model *string `json:"model"`
	Color *string `json:"color"`
}

// RegisterVehicle registers a vehicle for the current user
// @Summary Register vehicle
// @Description Register a vehicle under the authenticated user
// @Tags Vehicles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RegisterVehicleRequest true "Vehicle data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /vehicles [post]
func (h *VehicleHandler) RegisterVehicle(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req RegisterVehicleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Plate == "" {
		return response.BadRequest(c, "Plate is required")
	}

	input := &services.RegisterVehicleInput{
		Plate: req.Plate,
		Brand: req.Brand,
		Model: req.Model,
		Color: req.Color,
	}

	vehicle, err := h.vehicleService.RegisterVehicle(c.Context(), userID, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPlateExists):
			return response.Conflict(c, "Plate already registered")
		default:
			return response.BadRequest(c, err.Error())
		}
	}

	return response.Created(c, "Vehicle registered successfully", fiber.Map{
		"vehicle": vehicle,
	})
}

// MyVehicles returns the current user's vehicles
// @Summary My vehicles
// @Description List the authenticated user's vehicles
// @Tags Vehicles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /vehicles/me [get]
func (h *VehicleHandler) MyVehicles(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	vehicles, err := h.vehicleService.ListUserVehicles(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list vehicles")
	}

	return response.Success(c, "Vehicles retrieved successfully", fiber.Map{
		"vehicles": vehicles,
	})
}

// ListVehicles returns all vehicles
// @Summary List vehicles
// @Description List all registered vehicles (officer/admin)
// @Tags Vehicles
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /vehicles [get]
func (h *VehicleHandler) ListVehicles(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	vehicles, total, err := h.vehicleService.ListVehicles(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list vehicles")
	}

	return response.Success(c, "Vehicles retrieved successfully",
		pagination.NewResponse(vehicles, params, total))
}

// GetVehicle returns a single vehicle
// @Summary Get vehicle
// @Description Get a vehicle by ID (owner or officer/admin)
// @Tags Vehicles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Vehicle ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /vehicles/{id} [get]
func (h *VehicleHandler) GetVehicle(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	role, _ := c.Locals("role").(string)

	vehicleID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid vehicle ID")
	}

	vehicle, err := h.vehicleService.GetVehicle(c.Context(), uint(vehicleID))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrVehicleNotFound):
			return response.NotFound(c, "Vehicle not found")
		default:
			return response.InternalServerError(c, "Failed to get vehicle")
		}
	}

	if vehicle.UserID != userID && role != "OFFICER" && role != "ADMIN" {
		return response.Forbidden(c, "Vehicle belongs to another user")
	}

	return response.Success(c, "Vehicle retrieved successfully", fiber.Map{
		"vehicle": vehicle,
	})
}

// UpdateVehicle updates a vehicle's details
// @Summary Update vehicle
// @Description Update brand, model or color of an owned vehicle
// @Tags Vehicles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Vehicle ID"
// @Param body body UpdateVehicleRequest true "Update data"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /vehicles/{id} [put]
func (h *VehicleHandler) UpdateVehicle(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	vehicleID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid vehicle ID")
	}

	var req UpdateVehicleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.UpdateVehicleInput{
		Brand: req.Brand,
		Model: req.Model,
		Color: req.Color,
	}

	vehicle, err := h.vehicleService.UpdateVehicle(c.Context(), userID, uint(vehicleID), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrVehicleNotFound):
			return response.NotFound(c, "Vehicle not found")
		case errors.Is(err, services.ErrNotVehicleOwner):
			return response.Forbidden(c, "Vehicle belongs to another user")
		default:
			return response.InternalServerError(c, "Failed to update vehicle")
		}
	}

	return response.Success(c, "Vehicle updated successfully", fiber.Map{
		"vehicle": vehicle,
	})
}

// DeactivateVehicle disables a vehicle
// @Summary Deactivate vehicle
// @Description Deactivate an owned vehicle so it cannot start new sessions
// @Tags Vehicles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Vehicle ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /vehicles/{id}/deactivate [post]
func (h *VehicleHandler) DeactivateVehicle(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	vehicleID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid vehicle ID")
	}

	vehicle, err := h.vehicleService.DeactivateVehicle(c.Context(), userID, uint(vehicleID))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrVehicleNotFound):
			return response.NotFound(c, "Vehicle not found")
		case errors.Is(err, services.ErrNotVehicleOwner):
			return response.Forbidden(c, "Vehicle belongs to another user")
		default:
			return response.InternalServerError(c, "Failed to deactivate vehicle")
		}
	}

	return response.Success(c, "Vehicle deactivated successfully", fiber.Map{
		"vehicle": vehicle,
	})
}

// DeleteVehicle removes a vehicle
// @Summary Delete vehicle
// @Description Delete an owned vehicle; refused while it has an active session
// @Tags Vehicles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Vehicle ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /vehicles/{id} [delete]
func (h *VehicleHandler) DeleteVehicle(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	vehicleID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid vehicle ID")
	}

	if err := h.vehicleService.DeleteVehicle(c.Context(), userID, uint(vehicleID)); err != nil {
		switch {
		case errors.Is(err, services.ErrVehicleNotFound):
			return response.NotFound(c, "Vehicle not found")
		case errors.Is(err, services.ErrNotVehicleOwner):
			return response.Forbidden(c, "Vehicle belongs to another user")
		case errors.Is(err, services.ErrSessionActive):
			return response.Conflict(c, "Vehicle has an active session")
		default:
			return response.InternalServerError(c, "Failed to delete vehicle")
		}
	}

	return response.Success(c, "Vehicle deleted successfully", nil)
}
