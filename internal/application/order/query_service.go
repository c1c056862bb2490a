package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/order"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/shared"
)

// QueryService serves the read side of the order API
type QueryService struct {
	orders order.Repository
}

// NewQueryService creates a new QueryService
func NewQueryService(orders order.Repository) *QueryService {
	return &QueryService{orders: orders}
}

// GetByID retrieves a single order with its items
func (s *QueryService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	ord, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(ord)
	return &resp, nil
}

// GetItems retrieves the line items of an order
func (s *QueryService) GetItems(ctx context.Context, orderID uuid.UUID) ([]OrderItemResponse, error) {
	ord, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	items := make([]OrderItemResponse, len(ord.Items))
	for i := range ord.Items {
		items[i] = ToOrderItemResponse(ord.Items[i])
	}
	return items, nil
}

// ListByUser retrieves a user's orders newest first, paginated
func (s *QueryService) ListByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[OrderResponse], error) {
	orders, total, err := s.orders.FindByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToOrderResponses(orders), total, filter.Page, filter.PageSize)
	return &page, nil
}

// ListByStore retrieves a store's orders newest first, paginated
func (s *QueryService) ListByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (*shared.Paginated[OrderResponse], error) {
	orders, total, err := s.orders.FindByStore(ctx, storeID, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToOrderResponses(orders), total, filter.Page, filter.PageSize)
	return &page, nil
}

// ListPendingPayments retrieves a store's gateway orders still awaiting
// payment confirmation
func (s *QueryService) ListPendingPayments(ctx context.Context, storeID uuid.UUID) ([]OrderResponse, error) {
	orders, err := s.orders.FindPendingPayments(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(orders), nil
}

// Track retrieves an order together with its full status history
func (s *QueryService) Track(ctx context.Context, orderID uuid.UUID) (*TrackResponse, error) {
	ord, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	log, err := s.orders.FindLog(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &TrackResponse{
		Order:   ToOrderResponse(ord),
		History: ToHistoryResponses(log.StatusHistory),
	}, nil
}
