package handlers

import (
	"errors"

	"parkgate/internal/core/services"
	"parkgate/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RateHandler handles rate registry endpoints
type RateHandler struct {
	rateService *services.RateService
}

// NewRateHandler creates a new rate handler
func NewRateHandler(rateService *services.RateService) *RateHandler {
	return &RateHandler{rateService: rateService}
}

// CreateRateRequest represents create rate request body
type CreateRateRequest struct {
	Category     string  `json:"category"`
	PricePerHour float64 `json:"price_per_hour"`
	Description  string  `json:"description"`
}

// UpdateRateRequest represents update rate request body
type UpdateRateRequest struct {
	PricePerHour float64 `json:"price_per_hour"`
	Description  *string `json:"description"`
	Reason       string  `json:"reason"`
}

// DeleteRateRequest represents delete rate request body
type DeleteRateRequest struct {
	Reason string `json:"reason"`
}

// ListRates returns all rate categories
// @Summary List rates
// @Description List all rate categories with current prices
// @Tags Rates
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /rates [get]
func (h *RateHandler) ListRates(c *fiber.Ctx) error {
	rates, err := h.rateService.ListRates(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list rates")
	}

	return response.Success(c, "Rates retrieved successfully", fiber.Map{
		"rates": rates,
	})
}

// GetRate returns a single rate category
// @Summary Get rate
// @Description Get a rate category by name
// @Tags Rates
// @Produce json
// @Security BearerAuth
// @Param category path string true "Rate category"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /rates/{category} [get]
func (h *RateHandler) GetRate(c *fiber.Ctx) error {
	category := c.Params("category")

	rate, err := h.rateService.GetRate(c.Context(), category)
	if err != nil {
		if errors.Is(err, services.ErrRateNotFound) {
			return response.NotFound(c, "Rate category not found")
		}
		return response.InternalServerError(c, "Failed to get rate")
	}

	return response.Success(c, "Rate retrieved successfully", fiber.Map{
		"rate": rate,
	})
}

// CreateRate creates a new rate category
// @Summary Create rate
// @Description Create a new rate category (admin only)
// @Tags Rates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateRateRequest true "Rate data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/rates [post]
func (h *RateHandler) CreateRate(c *fiber.Ctx) error {
	var req CreateRateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actorID, _ := c.Locals("userID").(uint)
	actorName, _ := c.Locals("username").(string)

	input := &services.CreateRateInput{
		Category:     req.Category,
		PricePerHour: req.PricePerHour,
		Description:  req.Description,
	}

	rate, err := h.rateService.CreateRate(c.Context(), input, actorID, actorName)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPrice):
			return response.BadRequest(c, "Price per hour must be positive")
		case errors.Is(err, services.ErrRateExists):
			return response.Conflict(c, "Rate category already exists")
		default:
			return response.BadRequest(c, err.Error())
		}
	}

	return response.Created(c, "Rate created successfully", fiber.Map{
		"rate": rate,
	})
}

// UpdateRate changes the price of a rate category
// @Summary Update rate
// @Description Update a rate category's price, reason required (admin only)
// @Tags Rates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category path string true "Rate category"
// @Param body body UpdateRateRequest true "Update data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/rates/{category} [put]
func (h *RateHandler) UpdateRate(c *fiber.Ctx) error {
	category := c.Params("category")

	var req UpdateRateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actorID, _ := c.Locals("userID").(uint)
	actorName, _ := c.Locals("username").(string)

	input := &services.UpdateRateInput{
		PricePerHour: req.PricePerHour,
		Description:  req.Description,
		Reason:       req.Reason,
	}

	rate, err := h.rateService.UpdateRate(c.Context(), category, input, actorID, actorName)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPrice):
			return response.BadRequest(c, "Price per hour must be positive")
		case errors.Is(err, services.ErrReasonRequired):
			return response.BadRequest(c, "Reason is required")
		case errors.Is(err, services.ErrRateNotFound):
			return response.NotFound(c, "Rate category not found")
		default:
			return response.InternalServerError(c, "Failed to update rate")
		}
	}

	return response.Success(c, "Rate updated successfully", fiber.Map{
		"rate": rate,
	})
}

// DeleteRate removes a rate category
// @Summary Delete rate
// @Description Delete a non-seed rate category, reason required (admin only)
// @Tags Rates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category path string true "Rate category"
// @Param body body DeleteRateRequest true "Deletion reason"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/rates/{category} [delete]
func (h *RateHandler) DeleteRate(c *fiber.Ctx) error {
	category := c.Params("category")

	var req DeleteRateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actorID, _ := c.Locals("userID").(uint)
	actorName, _ := c.Locals("username").(string)

	err := h.rateService.DeleteRate(c.Context(), category, req.Reason, actorID, actorName)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProtectedCategory):
			return response.Forbidden(c, "Seed rate categories cannot be deleted")
		case errors.Is(err, services.ErrReasonRequired):
			return response.BadRequest(c, "Reason is required")
		case errors.Is(err, services.ErrRateNotFound):
			return response.NotFound(c, "Rate category not found")
		default:
			return response.InternalServerError(c, "Failed to delete rate")
		}
	}

	return response.Success(c, "Rate deleted successfully", nil)
}
