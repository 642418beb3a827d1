package handlers

import (
	"errors"
	"strconv"

	"parkgate/internal/core/services"
	"parkgate/internal/pkg/pagination"
	"parkgate/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// InvoiceHandler handles invoice endpoints
type InvoiceHandler struct {
	invoiceService *services.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// MyInvoices returns the current user's invoices
// @Summary My invoices
// @Description List the authenticated user's invoices
// @Tags Invoices
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /invoices/me [get]
func (h *InvoiceHandler) MyInvoices(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)

	invoices, total, err := h.invoiceService.ListUserInvoices(c.Context(), userID, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list invoices")
	}

	return response.Success(c, "Invoices retrieved successfully",
		pagination.NewResponse(invoices, params, total))
}

// GetInvoice returns an invoice by ID
// @Summary Get invoice
// @Description Get an invoice by ID; users may only view their own
// @Tags Invoices
// @Produce json
// @Security BearerAuth
// @Param id path int true "Invoice ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	role, _ := c.Locals("role").(string)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid invoice ID")
	}

	invoice, err := h.invoiceService.GetInvoice(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrInvoiceNotFound) {
			return response.NotFound(c, "Invoice not found")
		}
		return response.InternalServerError(c, "Failed to get invoice")
	}

	if invoice.UserID != userID && role != "OFFICER" && role != "ADMIN" {
		return response.Forbidden(c, "Invoice belongs to another user")
	}

	return response.Success(c, "Invoice retrieved successfully", fiber.Map{
		"invoice": invoice,
	})
}

// ListInvoices returns all invoices
// @Summary List invoices
// @Description List all invoices (officer/admin)
// @Tags Invoices
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /invoices [get]
func (h *InvoiceHandler) ListInvoices(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	invoices, total, err := h.invoiceService.ListInvoices(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list invoices")
	}

	return response.Success(c, "Invoices retrieved successfully",
		pagination.NewResponse(invoices, params, total))
}
