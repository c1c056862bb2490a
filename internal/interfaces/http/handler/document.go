package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rahulmuralitechnology/cartzilla-orders/internal/interfaces/http/middleware"
)

// DocumentService renders order documents
type DocumentService interface {
	InvoiceHTML(ctx context.Context, orderID uuid.UUID) (string, error)
	InvoicePDF(ctx context.Context, storeID, orderID uuid.UUID) ([]byte, string, error)
	ShippingLabelPDF(ctx context.Context, storeID, orderID uuid.UUID) ([]byte, string, error)
}

// DocumentHandler serves invoice and shipping label downloads
type DocumentHandler struct {
	BaseHandler
	documents DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documents DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// generateInvoiceRequest asks for the invoice HTML of one order
type generateInvoiceRequest struct {
	OrderID uuid.UUID `json:"orderId" binding:"required"`
}

// GenerateInvoice renders the invoice as HTML for in-browser preview
// POST /order/generate-invoice
func (h *DocumentHandler) GenerateInvoice(c *gin.Context) {
	var req generateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, middleware.ValidationMessage(err))
		return
	}

	html, err := h.documents.InvoiceHTML(c.Request.Context(), req.OrderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// DownloadInvoice streams the invoice PDF
// GET /order/download/order-invoice/:storeId/:orderId
func (h *DocumentHandler) DownloadInvoice(c *gin.Context) {
	h.downloadPDF(c, h.documents.InvoicePDF)
}

// DownloadShippingLabel streams the shipping label PDF
// GET /order/download/shipping-label/:storeId/:orderId
func (h *DocumentHandler) DownloadShippingLabel(c *gin.Context) {
	h.downloadPDF(c, h.documents.ShippingLabelPDF)
}

func (h *DocumentHandler) downloadPDF(c *gin.Context, render func(ctx context.Context, storeID, orderID uuid.UUID) ([]byte, string, error)) {
	storeID, err := parseUUIDParam(c, "storeId")
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}
	orderID, err := parseUUIDParam(c, "orderId")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	pdf, filename, err := render(c.Request.Context(), storeID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
