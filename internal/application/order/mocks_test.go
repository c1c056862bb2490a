package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/cart"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/catalog"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/customer"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/integration"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/order"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/shared"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/store"
)

// MockOrderRepository is a mock implementation of order.Repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]order.Order, int64, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]order.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) FindByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]order.Order, int64, error) {
	args := m.Called(ctx, storeID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]order.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) FindPendingPayments(ctx context.Context, storeID uuid.UUID) ([]order.Order, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) CreateWithLog(ctx context.Context, o *order.Order, log *order.Log) error {
	args := m.Called(ctx, o, log)
	return args.Error(0)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLog(ctx context.Context, o *order.Order, log *order.Log) error {
	args := m.Called(ctx, o, log)
	return args.Error(0)
}

func (m *MockOrderRepository) FindLog(ctx context.Context, orderID uuid.UUID) (*order.Log, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Log), args.Error(1)
}

func (m *MockOrderRepository) GenerateOrderNumber(ctx context.Context, storeID uuid.UUID) (string, error) {
	args := m.Called(ctx, storeID)
	return args.String(0), args.Error(1)
}

// MockPaymentRepository is a mock implementation of order.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*order.Payment, error) {
	args := m.Called(ctx, gatewayPaymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Save(ctx context.Context, p *order.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) AppendLog(ctx context.Context, l *order.PaymentLog) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

// MockCartRepository is a mock implementation of cart.Repository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindActiveByUser(ctx context.Context, storeID, userID uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, storeID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of catalog.Repository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, adjustments []catalog.StockAdjustment) error {
	args := m.Called(ctx, adjustments)
	return args.Error(0)
}

func (m *MockProductRepository) IncrementStock(ctx context.Context, adjustments []catalog.StockAdjustment) error {
	args := m.Called(ctx, adjustments)
	return args.Error(0)
}

// MockCustomerRepository is a mock implementation of customer.Repository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAddress(ctx context.Context, id uuid.UUID) (*customer.Address, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Address), args.Error(1)
}

// MockSettingsRepository is a mock implementation of store.Repository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) FindByStore(ctx context.Context, storeID uuid.UUID) (*store.Settings, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Settings), args.Error(1)
}

func (m *MockSettingsRepository) Save(ctx context.Context, s *store.Settings) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

// MockPaymentGateway is a mock implementation of PaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreateIntent(ctx context.Context, creds GatewayCredentials, amount decimal.Decimal, currency, receipt string) (*GatewayIntent, error) {
	args := m.Called(ctx, creds, amount, currency, receipt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*GatewayIntent), args.Error(1)
}

func (m *MockPaymentGateway) VerifySignature(secret, gatewayOrderID, gatewayPaymentID, signature string) bool {
	args := m.Called(secret, gatewayOrderID, gatewayPaymentID, signature)
	return args.Bool(0)
}

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) OrderPlaced(ctx context.Context, n Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotifier) OrderStatusChanged(ctx context.Context, n Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// MockERPSync is a mock implementation of integration.ERPSyncPort
type MockERPSync struct {
	mock.Mock
}

func (m *MockERPSync) SyncOrderCreated(ctx context.Context, storeID uuid.UUID, mirror integration.OrderMirror, payment *integration.PaymentMirror) integration.SyncReport {
	args := m.Called(ctx, storeID, mirror, payment)
	return args.Get(0).(integration.SyncReport)
}

func (m *MockERPSync) SyncOrderStatus(ctx context.Context, storeID uuid.UUID, orderNumber, status string) integration.SyncReport {
	args := m.Called(ctx, storeID, orderNumber, status)
	return args.Get(0).(integration.SyncReport)
}
