package handlers

import (
	"errors"
	"time"

	"parkgate/internal/core/services"
	"parkgate/internal/pkg/pagination"
	"parkgate/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuditHandler handles audit trail endpoints
type AuditHandler struct {
	auditService *services.AuditService
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// CorrectionRequest represents a corrective entry request body
type CorrectionRequest struct {
	Category string `json:"category"`
	Reason   string `json:"reason"`
	Details  string `json:"details"`
}

// Search queries the audit trail
// @Summary Search audit trail
// @Description Query audit records by category, date range and free text (admin only)
// @Tags Audit
// @Produce json
// @Security BearerAuth
// @Param category query string false "Rate category"
// @Param from query string false "Start date (RFC3339)"
// @Param to query string false "End date (RFC3339)"
// @Param q query string false "Free-text search"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /admin/audit [get]
func (h *AuditHandler) Search(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	input := &services.SearchInput{
		Category: c.Query("category"),
		Search:   c.Query("q"),
		Offset:   params.Offset,
		Limit:    params.Limit,
	}

	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return response.BadRequest(c, "Invalid from date, expected RFC3339")
		}
		input.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return response.BadRequest(c, "Invalid to date, expected RFC3339")
		}
		input.To = &t
	}

	records, total, err := h.auditService.Search(c.Context(), input)
	if err != nil {
		return response.InternalServerError(c, "Failed to search audit trail")
	}

	return response.Success(c, "Audit records retrieved successfully",
		pagination.NewResponse(records, params, total))
}

// AppendCorrection appends a corrective audit entry
// @Summary Append corrective entry
// @Description Append a corrective entry to the audit trail (admin only)
// @Tags Audit
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CorrectionRequest true "Correction data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/audit/corrections [post]
func (h *AuditHandler) AppendCorrection(c *fiber.Ctx) error {
	var req CorrectionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actorID, _ := c.Locals("userID").(uint)
	actorName, _ := c.Locals("username").(string)

	input := &services.CorrectionInput{
		Category: req.Category,
		Reason:   req.Reason,
		Details:  req.Details,
	}

	rec, err := h.auditService.AppendCorrection(c.Context(), input, actorID, actorName)
	if err != nil {
		if errors.Is(err, services.ErrCorrectionReason) {
			return response.BadRequest(c, "Reason is required")
		}
		return response.InternalServerError(c, "Failed to append corrective entry")
	}

	return response.Created(c, "Corrective entry appended successfully", fiber.Map{
		"record": rec,
	})
}
