package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	apporder "github.com/rahulmuralitechnology/cartzilla-orders/internal/application/order"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/shared"
)

type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Create(ctx context.Context, req apporder.CreateOrderRequest) (*apporder.CheckoutResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apporder.CheckoutResult), args.Error(1)
}

type MockStatusService struct {
	mock.Mock
}

func (m *MockStatusService) ChangeStatus(ctx context.Context, req apporder.ChangeStatusRequest) (*apporder.ChangeStatusResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apporder.ChangeStatusResult), args.Error(1)
}

type MockQueryService struct {
	mock.Mock
}

func (m *MockQueryService) GetByID(ctx context.Context, orderID uuid.UUID) (*apporder.OrderResponse, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apporder.OrderResponse), args.Error(1)
}

func (m *MockQueryService) GetItems(ctx context.Context, orderID uuid.UUID) ([]apporder.OrderItemResponse, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]apporder.OrderItemResponse), args.Error(1)
}

func (m *MockQueryService) ListByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[apporder.OrderResponse], error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[apporder.OrderResponse]), args.Error(1)
}

func (m *MockQueryService) ListByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (*shared.Paginated[apporder.OrderResponse], error) {
	args := m.Called(ctx, storeID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[apporder.OrderResponse]), args.Error(1)
}

func (m *MockQueryService) ListPendingPayments(ctx context.Context, storeID uuid.UUID) ([]apporder.OrderResponse, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]apporder.OrderResponse), args.Error(1)
}

func (m *MockQueryService) Track(ctx context.Context, orderID uuid.UUID) (*apporder.TrackResponse, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apporder.TrackResponse), args.Error(1)
}

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) InvoiceHTML(ctx context.Context, orderID uuid.UUID) (string, error) {
	args := m.Called(ctx, orderID)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentService) InvoicePDF(ctx context.Context, storeID, orderID uuid.UUID) ([]byte, string, error) {
	args := m.Called(ctx, storeID, orderID)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

func (m *MockDocumentService) ShippingLabelPDF(ctx context.Context, storeID, orderID uuid.UUID) ([]byte, string, error) {
	args := m.Called(ctx, storeID, orderID)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}
