package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apporder "github.com/rahulmuralitechnology/cartzilla-orders/internal/application/order"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/shared"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/interfaces/http/dto"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/interfaces/http/middleware"
)

// CheckoutService is the write side of order creation
type CheckoutService interface {
	Create(ctx context.Context, req apporder.CreateOrderRequest) (*apporder.CheckoutResult, error)
}

// StatusService moves orders through the status machine
type StatusService interface {
	ChangeStatus(ctx context.Context, req apporder.ChangeStatusRequest) (*apporder.ChangeStatusResult, error)
}

// QueryService is the read side of the order API
type QueryService interface {
	GetByID(ctx context.Context, orderID uuid.UUID) (*apporder.OrderResponse, error)
	GetItems(ctx context.Context, orderID uuid.UUID) ([]apporder.OrderItemResponse, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[apporder.OrderResponse], error)
	ListByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (*shared.Paginated[apporder.OrderResponse], error)
	ListPendingPayments(ctx context.Context, storeID uuid.UUID) ([]apporder.OrderResponse, error)
	Track(ctx context.Context, orderID uuid.UUID) (*apporder.TrackResponse, error)
}

// OrderHandler handles order lifecycle endpoints
type OrderHandler struct {
	BaseHandler
	checkout CheckoutService
	status   StatusService
	query    QueryService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(checkout CheckoutService, status StatusService, query QueryService) *OrderHandler {
	return &OrderHandler{
		checkout: checkout,
		status:   status,
		query:    query,
	}
}

// pendingIntentResponse is the wire shape for a checkout waiting on gateway
// payment. Success carries the literal string "PENDING" rather than a bool;
// storefront clients branch on it.
type pendingIntentResponse struct {
	Success string `json:"success"`
	apporder.PendingIntent
}

// Create converts the caller's active cart into an order
// POST /order/create
func (h *OrderHandler) Create(c *gin.Context) {
	var req apporder.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, middleware.ValidationMessage(err))
		return
	}

	result, err := h.checkout.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if result.Pending != nil {
		c.JSON(http.StatusOK, pendingIntentResponse{
			Success:       "PENDING",
			PendingIntent: *result.Pending,
		})
		return
	}
	h.Created(c, result)
}

// ChangeStatus moves an order to a new status
// POST /order/status/change
func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	var req apporder.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, middleware.ValidationMessage(err))
		return
	}

	result, err := h.status.ChangeStatus(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListByUser lists a user's orders newest first
// GET /order/:userId
func (h *OrderHandler) ListByUser(c *gin.Context) {
	userID, err := parseUUIDParam(c, "userId")
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}
	filter, err := h.listFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.query.ListByUser(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListByStore lists a store's orders newest first
// GET /order/store/:storeId
func (h *OrderHandler) ListByStore(c *gin.Context) {
	storeID, err := parseUUIDParam(c, "storeId")
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}
	filter, err := h.listFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.query.ListByStore(c.Request.Context(), storeID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListPendingPayments lists gateway orders still awaiting confirmation
// GET /order/store/:storeId/pending-payments
func (h *OrderHandler) ListPendingPayments(c *gin.Context) {
	storeID, err := parseUUIDParam(c, "storeId")
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	orders, err := h.query.ListPendingPayments(c.Request.Context(), storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// Track returns an order with its full status history
// GET /order/track/:orderId
func (h *OrderHandler) Track(c *gin.Context) {
	orderID, err := parseUUIDParam(c, "orderId")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	track, err := h.query.Track(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, track)
}

// GetItems returns the line items of an order
// GET /order/get/order-item/:orderId
func (h *OrderHandler) GetItems(c *gin.Context) {
	orderID, err := parseUUIDParam(c, "orderId")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	items, err := h.query.GetItems(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// GetByID returns a single order
// GET /order/get/:orderId
func (h *OrderHandler) GetByID(c *gin.Context) {
	orderID, err := parseUUIDParam(c, "orderId")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	ord, err := h.query.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ord)
}

// listFilter builds the repository filter from query parameters
func (h *OrderHandler) listFilter(c *gin.Context) (shared.Filter, error) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return shared.Filter{}, err
	}

	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 && req.PageSize <= 100 {
		filter.PageSize = req.PageSize
	}
	if req.Status != "" {
		filter.Filters["status"] = req.Status
	}
	if req.PaymentStatus != "" {
		filter.Filters["payment_status"] = req.PaymentStatus
	}
	return filter, nil
}
