package handlers

import (
	"errors"
	"strconv"

	"parkgate/internal/core/services"
	"parkgate/internal/pkg/pagination"
	"parkgate/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// TopUpHandler handles balance top-up endpoints
type TopUpHandler struct {
	topUpService *services.TopUpService
}

// NewTopUpHandler creates a new top-up handler
func NewTopUpHandler(topUpService *services.TopUpService) *TopUpHandler {
	return &TopUpHandler{topUpService: topUpService}
}

// SubmitTopUpRequest represents top-up submission request body
type SubmitTopUpRequest struct {
	VoucherCode string  `json:"voucher_code"`
	Amount      float64 `json:"amount"`
}

// RejectTopUpRequest represents top-up rejection request body
type RejectTopUpRequest struct {
	Remark string `json:"remark"`
}

// SubmitTopUp submits a voucher for review
// @Summary Submit top-up
// @Description Submit a voucher-backed top-up for review
// @Tags TopUps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SubmitTopUpRequest true "Top-up data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /topups [post]
func (h *TopUpHandler) SubmitTopUp(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req SubmitTopUpRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.SubmitTopUpInput{
		VoucherCode: req.VoucherCode,
		Amount:      req.Amount,
	}

	topUp, err := h.topUpService.SubmitTopUp(c.Context(), userID, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAmount):
			return response.BadRequest(c, "Amount must be positive")
		case errors.Is(err, services.ErrVoucherUsed):
			return response.Conflict(c, "Voucher code already submitted")
		default:
			return response.BadRequest(c, err.Error())
		}
	}

	return response.Created(c, "Top-up submitted successfully", fiber.Map{
		"topup": topUp,
	})
}

// MyTopUps returns the current user's top-up history
// @Summary My top-ups
// @Description List the authenticated user's top-up history
// @Tags TopUps
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /topups/me [get]
func (h *TopUpHandler) MyTopUps(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	topUps, err := h.topUpService.ListUserTopUps(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list top-ups")
	}

	return response.Success(c, "Top-ups retrieved successfully", fiber.Map{
		"topups": topUps,
	})
}

// ListPendingTopUps returns pending top-ups for review
// @Summary List pending top-ups
// @Description List top-ups awaiting review (officer/admin)
// @Tags TopUps
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /topups/pending [get]
func (h *TopUpHandler) ListPendingTopUps(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	topUps, total, err := h.topUpService.ListPendingTopUps(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list top-ups")
	}

	return response.Success(c, "Top-ups retrieved successfully",
		pagination.NewResponse(topUps, params, total))
}

// ApproveTopUp approves a pending top-up
// @Summary Approve top-up
// @Description Approve a pending top-up and credit the balance (officer/admin)
// @Tags TopUps
// @Produce json
// @Security BearerAuth
// @Param id path int true "Top-up ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /topups/{id}/approve [post]
func (h *TopUpHandler) ApproveTopUp(c *fiber.Ctx) error {
	reviewerID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid top-up ID")
	}

	topUp, err := h.topUpService.ApproveTopUp(c.Context(), uint(id), reviewerID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTopUpNotFound):
			return response.NotFound(c, "Top-up not found")
		case errors.Is(err, services.ErrTopUpNotPending):
			return response.Conflict(c, "Top-up already reviewed")
		default:
			return response.InternalServerError(c, "Failed to approve top-up")
		}
	}

	return response.Success(c, "Top-up approved successfully", fiber.Map{
		"topup": topUp,
	})
}

// RejectTopUp rejects a pending top-up
// @Summary Reject top-up
// @Description Reject a pending top-up with a remark (officer/admin)
// @Tags TopUps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Top-up ID"
// @Param body body RejectTopUpRequest true "Rejection remark"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /topups/{id}/reject [post]
func (h *TopUpHandler) RejectTopUp(c *fiber.Ctx) error {
	reviewerID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid top-up ID")
	}

	var req RejectTopUpRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	topUp, err := h.topUpService.RejectTopUp(c.Context(), uint(id), reviewerID, req.Remark)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReasonRequired):
			return response.BadRequest(c, "Remark is required")
		case errors.Is(err, services.ErrTopUpNotFound):
			return response.NotFound(c, "Top-up not found")
		case errors.Is(err, services.ErrTopUpNotPending):
			return response.Conflict(c, "Top-up already reviewed")
		default:
			return response.InternalServerError(c, "Failed to reject top-up")
		}
	}

	return response.Success(c, "Top-up rejected successfully", fiber.Map{
		"topup": topUp,
	})
}
