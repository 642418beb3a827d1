package handlers

import (
	"errors"
	"log"

	"parkgate/internal/core/services"
	"parkgate/internal/pkg/pagination"
	"parkgate/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SessionHandler handles parking session endpoints
type SessionHandler struct {
	sessionService *services.SessionService
	invoiceService *services.InvoiceService
	userService    *services.UserService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(
	sessionService *services.SessionService,
	invoiceService *services.InvoiceService,
	userService *services.UserService,
) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		invoiceService: invoiceService,
		userService:    userService,
	}
}

// StartSessionRequest represents session start request body
type StartSessionRequest struct {
	Plate string `json:"plate"`
	Gate  string `json:"gate"`
}

// SettleSessionRequest represents session settle request body
type SettleSessionRequest struct {
	Plate string `json:"plate"`
}

// StartSession opens a parking session at a gate
// @Summary Start parking session
// @Description Open a parking session for a registered vehicle (officer/admin)
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body StartSessionRequest true "Session data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /sessions/start [post]
func (h *SessionHandler) StartSession(c *fiber.Ctx) error {
	var req StartSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Plate == "" {
		return response.BadRequest(c, "Plate is required")
	}
	if req.Gate == "" {
		return response.BadRequest(c, "Gate is required")
	}

	input := &services.StartSessionInput{
		Plate: req.Plate,
		Gate:  req.Gate,
	}

	session, err := h.sessionService.StartSession(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownGate):
			return response.BadRequest(c, "Unknown gate")
		case errors.Is(err, services.ErrVehicleNotFound):
			return response.NotFound(c, "Vehicle not registered")
		case errors.Is(err, services.ErrVehicleInactive):
			return response.Forbidden(c, "Vehicle is deactivated")
		case errors.Is(err, services.ErrSessionActive):
			return response.Conflict(c, "Vehicle already has an active session")
		default:
			return response.InternalServerError(c, "Failed to start session")
		}
	}

	return response.Created(c, "Session started successfully", fiber.Map{
		"session": session,
	})
}

// SettleSession settles the active session for a plate: the session is
// closed and billed, an invoice is issued, and the owner's balance is
// debited. The balance may go negative; an exit is never blocked.
// @Summary Settle parking session
// @Description Close the active session for a plate and bill the owner (officer/admin)
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SettleSessionRequest true "Settle data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /sessions/settle [post]
func (h *SessionHandler) SettleSession(c *fiber.Ctx) error {
	var req SettleSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Plate == "" {
		return response.BadRequest(c, "Plate is required")
	}

	result, err := h.sessionService.SettleSession(c.Context(), req.Plate)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoActiveSession):
			return response.NotFound(c, "No active session for this vehicle")
		default:
			return response.InternalServerError(c, "Failed to settle session")
		}
	}

	invoice, err := h.invoiceService.IssueForSettlement(c.Context(), result)
	if err != nil {
		// Settlement is already recorded; surface it even if invoicing failed.
		log.Printf("⚠️ Invoice issue failed for session %d: %v", result.Session.ID, err)
	}

	if err := h.userService.DebitBalance(c.Context(), result.UserID, result.BilledAmount); err != nil {
		log.Printf("⚠️ Balance debit failed for user %d: %v", result.UserID, err)
	}

	return response.Success(c, "Session settled successfully", fiber.Map{
		"settlement": result,
		"invoice":    invoice,
	})
}

// GetActiveSession returns the active session for a plate
// @Summary Get active session
// @Description Get the currently active session for a plate
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param plate path string true "Vehicle plate"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /sessions/active/{plate} [get]
func (h *SessionHandler) GetActiveSession(c *fiber.Ctx) error {
	plate := c.Params("plate")

	session, err := h.sessionService.GetActiveSession(c.Context(), plate)
	if err != nil {
		if errors.Is(err, services.ErrNoActiveSession) {
			return response.NotFound(c, "No active session for this vehicle")
		}
		return response.InternalServerError(c, "Failed to get session")
	}

	return response.Success(c, "Session retrieved successfully", fiber.Map{
		"session": session,
	})
}

// ListActiveSessions returns all active sessions
// @Summary List active sessions
// @Description List all currently active sessions (officer/admin)
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /sessions/active [get]
func (h *SessionHandler) ListActiveSessions(c *fiber.Ctx) error {
	sessions, err := h.sessionService.ListActiveSessions(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list sessions")
	}

	return response.Success(c, "Sessions retrieved successfully", fiber.Map{
		"sessions": sessions,
	})
}

// MySessions returns the current user's session history
// @Summary My session history
// @Description Get the authenticated user's session history
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /sessions/me [get]
func (h *SessionHandler) MySessions(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)

	sessions, total, err := h.sessionService.ListUserSessions(c.Context(), userID, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list sessions")
	}

	return response.Success(c, "Sessions retrieved successfully",
		pagination.NewResponse(sessions, params, total))
}
