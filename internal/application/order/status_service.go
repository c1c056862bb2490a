package order

import (
	"context"

	"go.uber.org/zap"

	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/catalog"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/customer"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/integration"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/order"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/store"
)

// StatusService moves orders through the status machine, keeping the audit
// log, inventory reversal, notifications, and the ERP mirror in step with
// every committed transition
type StatusService struct {
	orders    order.Repository
	products  catalog.Repository
	customers customer.Repository
	settings  store.Repository
	notifier  Notifier
	erp       integration.ERPSyncPort
	policy    order.TransitionPolicy
	logger    *zap.Logger
}

// NewStatusService creates a new StatusService
func NewStatusService(
	orders order.Repository,
	products catalog.Repository,
	customers customer.Repository,
	settings store.Repository,
	notifier Notifier,
	erp integration.ERPSyncPort,
	policy order.TransitionPolicy,
	logger *zap.Logger,
) *StatusService {
	return &StatusService{
		orders:    orders,
		products:  products,
		customers: customers,
		settings:  settings,
		notifier:  notifier,
		erp:       erp,
		policy:    policy,
		logger:    logger,
	}
}

// ChangeStatus applies one transition. A request for the status the order
// already holds returns the current state untouched: no log entry, no
// inventory reversal, no notification. Entering CANCELLED restores stock;
// reinstating out of CANCELLED takes it again (and fails the whole change if
// stock has since run out).
func (s *StatusService) ChangeStatus(ctx context.Context, req ChangeStatusRequest) (*ChangeStatusResult, error) {
	ord, err := s.orders.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	result, err := ord.Transition(order.Status(req.NewStatus), order.PaymentStatus(req.PaymentStatus), s.policy)
	if err != nil {
		return nil, err
	}
	if !result.StatusChanged {
		return &ChangeStatusResult{
			OrderID:       ord.ID,
			Status:        ord.Status.String(),
			PaymentStatus: ord.PaymentStatus.String(),
		}, nil
	}

	ord.SetTracking(req.TrackingNo, req.DeliveryPartner)

	// Reverse inventory before persisting: if the reversal cannot be applied
	// (reinstating an order whose stock has been sold), the transition must
	// not commit either.
	if result.EnteredCancelled {
		if err := s.products.IncrementStock(ctx, toCatalogAdjustments(ord.StockAdjustments())); err != nil {
			return nil, err
		}
	}
	if result.LeftCancelled {
		if err := s.products.DecrementStock(ctx, toCatalogAdjustments(ord.StockAdjustments())); err != nil {
			return nil, err
		}
	}

	log, err := s.orders.FindLog(ctx, ord.ID)
	if err != nil {
		return nil, err
	}
	log.Append(ord.Status, ord.PaymentStatus)
	if err := s.orders.SaveWithLog(ctx, ord, log); err != nil {
		return nil, err
	}

	s.logger.Info("order status changed",
		zap.String("order_id", ord.ID.String()),
		zap.String("status", ord.Status.String()),
		zap.String("payment_status", ord.PaymentStatus.String()))

	settings := s.loadSettings(ctx, ord)
	report := s.mirrorStatus(ctx, ord, settings)
	s.notifyStatusChanged(ctx, ord, settings)

	return &ChangeStatusResult{
		OrderID:       ord.ID,
		Status:        ord.Status.String(),
		PaymentStatus: ord.PaymentStatus.String(),
		Changed:       true,
		ERPSync:       &report,
	}, nil
}

func (s *StatusService) loadSettings(ctx context.Context, ord *order.Order) *store.Settings {
	settings, err := s.settings.FindByStore(ctx, ord.StoreID)
	if err != nil {
		s.logger.Warn("store settings unavailable",
			zap.String("store_id", ord.StoreID.String()), zap.Error(err))
		return nil
	}
	return settings
}

func (s *StatusService) mirrorStatus(ctx context.Context, ord *order.Order, settings *store.Settings) integration.SyncReport {
	if settings == nil || !settings.HasERPCredentials() {
		return integration.ReportSkipped("store has no ERP credentials")
	}
	report := s.erp.SyncOrderStatus(ctx, ord.StoreID, ord.OrderNumber, ord.Status.String())
	if !report.Success {
		s.logger.Warn("erp status sync incomplete",
			zap.String("order_id", ord.ID.String()),
			zap.String("step", string(report.Step)),
			zap.String("message", report.Message))
	}
	return report
}

func (s *StatusService) notifyStatusChanged(ctx context.Context, ord *order.Order, settings *store.Settings) {
	cust, err := s.customers.FindByID(ctx, ord.UserID)
	if err != nil {
		s.logger.Error("notification skipped: customer lookup failed",
			zap.String("order_id", ord.ID.String()), zap.Error(err))
		return
	}
	n := Notification{
		CustomerName:  cust.Name,
		CustomerEmail: cust.Email,
		OrderNumber:   ord.OrderNumber,
		Status:        ord.Status.String(),
		PaymentMode:   ord.PaymentMode.String(),
		TotalAmount:   ord.TotalAmount,
	}
	if settings != nil {
		n.OwnerEmail = settings.OwnerEmail
		n.StoreName = settings.StoreName
	}
	if err := s.notifier.OrderStatusChanged(ctx, n); err != nil {
		s.logger.Error("status change notification failed",
			zap.String("order_id", ord.ID.String()), zap.Error(err))
	}
}
