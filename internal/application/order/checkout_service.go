// Package order contains the application services that orchestrate the order
// lifecycle: checkout (cart to committed order, via the payment gateway when
// required), status machine changes, queries, and document generation.
//
// The checkout flow keeps a hard boundary between the critical path (cart
// validation, order persistence, payment verification, inventory commit) and
// the best-effort path (ERP mirroring, email). Critical-path failures abort
// the request; best-effort failures degrade to a log line and an advisory
// field on the response.
package order

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/cart"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/catalog"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/customer"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/integration"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/order"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/shared"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/store"
)

// CheckoutService converts a customer's active cart into a committed order
type CheckoutService struct {
	orders    order.Repository
	payments  order.PaymentRepository
	carts     cart.Repository
	products  catalog.Repository
	customers customer.Repository
	settings  store.Repository
	gateway   PaymentGateway
	notifier  Notifier
	erp       integration.ERPSyncPort
	logger    *zap.Logger
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	orders order.Repository,
	payments order.PaymentRepository,
	carts cart.Repository,
	products catalog.Repository,
	customers customer.Repository,
	settings store.Repository,
	gateway PaymentGateway,
	notifier Notifier,
	erp integration.ERPSyncPort,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		orders:    orders,
		payments:  payments,
		carts:     carts,
		products:  products,
		customers: customers,
		settings:  settings,
		gateway:   gateway,
		notifier:  notifier,
		erp:       erp,
		logger:    logger,
	}
}

// Create runs one checkout pass. Depending on the payment mode and the
// presence of gateway confirmation fields it either commits the order
// directly (COD, pickup, pre-verified UPI), creates a gateway payment intent
// and returns it with the local order id as the retry key, or verifies a
// gateway confirmation signature and then commits.
func (s *CheckoutService) Create(ctx context.Context, req CreateOrderRequest) (*CheckoutResult, error) {
	mode := order.PaymentMode(req.PaymentMode)
	if !mode.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_MODE", "Unknown payment mode "+req.PaymentMode)
	}

	settings, err := s.settings.FindByStore(ctx, req.StoreID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		// A store without settings can still take non-gateway orders; it just
		// has no credentials for Razorpay, ERP, or owner notifications.
		settings = nil
	}

	ord, err := s.createOrGet(ctx, mode, req)
	if err != nil {
		return nil, err
	}

	if mode.RequiresGateway() && !req.HasConfirmation() {
		return s.createIntent(ctx, ord, settings)
	}

	if mode.RequiresGateway() {
		committed, result, err := s.verifyConfirmation(ctx, ord, settings, req)
		if err != nil {
			return nil, err
		}
		if !committed {
			// Settlement already recorded by an earlier call; nothing else to do.
			return result, nil
		}
	}

	return s.commit(ctx, ord, settings)
}

// createOrGet resumes the pending order when the client echoes dbOrderId,
// otherwise snapshots the active cart and persists a fresh PROCESSING order
// with its initial log entry
func (s *CheckoutService) createOrGet(ctx context.Context, mode order.PaymentMode, req CreateOrderRequest) (*order.Order, error) {
	if req.DBOrderID != nil {
		ord, err := s.orders.FindByID(ctx, *req.DBOrderID)
		if err != nil {
			return nil, err
		}
		return ord, nil
	}

	crt, err := s.carts.FindActiveByUser(ctx, req.StoreID, req.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, order.ErrCartNotFound
		}
		return nil, err
	}
	if crt.IsProcessed() {
		return nil, order.ErrCartAlreadyProcessed
	}
	if crt.IsEmpty() {
		return nil, order.ErrCartNotFound
	}

	if err := s.checkAvailability(ctx, crt.Items); err != nil {
		return nil, err
	}

	orderNumber, err := s.orders.GenerateOrderNumber(ctx, req.StoreID)
	if err != nil {
		return nil, err
	}

	shippingCost := decimal.Zero
	if req.ShippingCost != nil {
		shippingCost = *req.ShippingCost
	}

	ord, err := order.NewFromCart(crt, orderNumber, mode, req.BillingAddressID, req.ShippingAddressID, shippingCost)
	if err != nil {
		return nil, err
	}

	log, err := order.NewLog(ord.ID, ord.Status, ord.PaymentStatus)
	if err != nil {
		return nil, err
	}
	if err := s.orders.CreateWithLog(ctx, ord, log); err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("order_number", ord.OrderNumber),
		zap.String("order_id", ord.ID.String()),
		zap.String("payment_mode", mode.String()))
	return ord, nil
}

// checkAvailability validates every cart line against current stock before
// any order row is written. The decrement itself is re-checked atomically at
// commit time.
func (s *CheckoutService) checkAvailability(ctx context.Context, items []cart.Item) error {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			return order.ErrProductNotFound
		}
		if !product.HasStock(item.Quantity) {
			return order.NewInsufficientStockError(product.Name, product.Stock, item.Quantity)
		}
	}
	return nil
}

// createIntent registers a gateway payment intent for the order total and
// hands the client everything it needs to complete checkout. The order stays
// PAYMENT_PENDING; inventory and notifications are untouched.
func (s *CheckoutService) createIntent(ctx context.Context, ord *order.Order, settings *store.Settings) (*CheckoutResult, error) {
	if settings == nil || !settings.HasGatewayCredentials() {
		return nil, shared.NewDomainError("GATEWAY_NOT_CONFIGURED", "Store has no payment gateway credentials")
	}

	creds := GatewayCredentials{KeyID: settings.RazorpayKeyID, Secret: settings.RazorpaySecret}
	intent, err := s.gateway.CreateIntent(ctx, creds, ord.TotalAmount, "INR", ord.OrderNumber)
	if err != nil {
		s.logger.Error("gateway intent creation failed",
			zap.String("order_id", ord.ID.String()),
			zap.Error(err))
		return nil, order.ErrGatewayUnavailable
	}

	if err := ord.AttachGatewayOrder(intent.GatewayOrderID); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, ord); err != nil {
		return nil, err
	}

	return &CheckoutResult{Pending: &PendingIntent{
		GatewayOrderID: intent.GatewayOrderID,
		LocalOrderID:   ord.ID,
		GatewayKeyID:   settings.RazorpayKeyID,
		TotalAmount:    ord.TotalAmount,
	}}, nil
}

// verifyConfirmation checks the gateway confirmation signature. A mismatch
// aborts before any inventory or status mutation and leaves an audit trail.
// Returns committed=false when the payment was already settled by an earlier
// call, in which case the second result is the final response.
func (s *CheckoutService) verifyConfirmation(ctx context.Context, ord *order.Order, settings *store.Settings, req CreateOrderRequest) (bool, *CheckoutResult, error) {
	if settings == nil || !settings.HasGatewayCredentials() {
		return false, nil, shared.NewDomainError("GATEWAY_NOT_CONFIGURED", "Store has no payment gateway credentials")
	}

	if !s.gateway.VerifySignature(settings.RazorpaySecret, req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		audit := order.NewPaymentLog(ord.ID, req.RazorpayOrderID, req.RazorpayPaymentID,
			order.VerificationFailed, "signature mismatch")
		if logErr := s.payments.AppendLog(ctx, audit); logErr != nil {
			s.logger.Error("failed to record signature mismatch", zap.Error(logErr))
		}
		s.logger.Warn("payment signature mismatch",
			zap.String("order_id", ord.ID.String()),
			zap.String("gateway_payment_id", req.RazorpayPaymentID))
		return false, nil, order.ErrInvalidPaymentSignature
	}

	// A retried confirmation for an already-settled payment must not decrement
	// stock or write a second settlement row.
	if existing, err := s.payments.FindByGatewayPaymentID(ctx, req.RazorpayPaymentID); err == nil && existing != nil {
		resp := ToOrderResponse(ord)
		return false, &CheckoutResult{Order: &resp}, nil
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return false, nil, err
	}

	if err := ord.MarkPaid(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature); err != nil {
		return false, nil, err
	}

	payment, err := order.NewPayment(ord.StoreID, ord.ID, req.RazorpayOrderID, req.RazorpayPaymentID, ord.TotalAmount, "INR")
	if err != nil {
		return false, nil, err
	}
	if err := s.payments.Save(ctx, payment); err != nil {
		return false, nil, err
	}
	audit := order.NewPaymentLog(ord.ID, req.RazorpayOrderID, req.RazorpayPaymentID, order.VerificationOK, "")
	if err := s.payments.AppendLog(ctx, audit); err != nil {
		s.logger.Error("failed to record payment verification", zap.Error(err))
	}

	return true, nil, nil
}

// commit finishes the critical path (persist status, decrement stock, close
// the cart) and then runs the best-effort side channel (ERP mirror, email)
func (s *CheckoutService) commit(ctx context.Context, ord *order.Order, settings *store.Settings) (*CheckoutResult, error) {
	log, err := s.orders.FindLog(ctx, ord.ID)
	if err != nil {
		return nil, err
	}
	if log.LatestStatus != ord.Status {
		log.Append(ord.Status, ord.PaymentStatus)
	}
	if err := s.orders.SaveWithLog(ctx, ord, log); err != nil {
		return nil, err
	}

	if err := s.products.DecrementStock(ctx, toCatalogAdjustments(ord.StockAdjustments())); err != nil {
		return nil, err
	}

	s.completeCart(ctx, ord.CartID)

	report := s.mirrorCreated(ctx, ord, settings)
	s.notifyPlaced(ctx, ord, settings)

	resp := ToOrderResponse(ord)
	return &CheckoutResult{Order: &resp, ERPSync: &report}, nil
}

// completeCart closes the source cart. An already-completed cart (a second
// order was committed from it first) is not an error at this point.
func (s *CheckoutService) completeCart(ctx context.Context, cartID uuid.UUID) {
	crt, err := s.carts.FindByID(ctx, cartID)
	if err != nil {
		s.logger.Error("failed to load cart for completion",
			zap.String("cart_id", cartID.String()), zap.Error(err))
		return
	}
	if crt.IsProcessed() {
		return
	}
	if err := crt.MarkCompleted(); err != nil {
		s.logger.Warn("cart completion rejected",
			zap.String("cart_id", cartID.String()), zap.Error(err))
		return
	}
	if err := s.carts.Save(ctx, crt); err != nil {
		s.logger.Error("failed to save completed cart",
			zap.String("cart_id", cartID.String()), zap.Error(err))
	}
}

// mirrorCreated assembles the ERP mirror payload and invokes the sync port.
// Every failure collapses into the advisory report.
func (s *CheckoutService) mirrorCreated(ctx context.Context, ord *order.Order, settings *store.Settings) integration.SyncReport {
	if settings == nil || !settings.HasERPCredentials() {
		return integration.ReportSkipped("store has no ERP credentials")
	}

	cust, err := s.customers.FindByID(ctx, ord.UserID)
	if err != nil {
		s.logger.Error("erp sync: customer lookup failed",
			zap.String("order_id", ord.ID.String()), zap.Error(err))
		return integration.ReportFailed(integration.StepCustomer, err)
	}
	billing, err := s.customers.FindAddress(ctx, ord.BillingAddressID)
	if err != nil {
		s.logger.Error("erp sync: billing address lookup failed",
			zap.String("order_id", ord.ID.String()), zap.Error(err))
		return integration.ReportFailed(integration.StepAddress, err)
	}
	shipping := billing
	if ord.ShippingAddressID != ord.BillingAddressID {
		shipping, err = s.customers.FindAddress(ctx, ord.ShippingAddressID)
		if err != nil {
			s.logger.Error("erp sync: shipping address lookup failed",
				zap.String("order_id", ord.ID.String()), zap.Error(err))
			return integration.ReportFailed(integration.StepAddress, err)
		}
	}

	mirror := buildOrderMirror(ord, cust, billing, shipping)

	var paymentMirror *integration.PaymentMirror
	if ord.IsPaid() && ord.RazorpayPaymentID != "" {
		paymentMirror = &integration.PaymentMirror{
			OrderNumber:      ord.OrderNumber,
			GatewayPaymentID: ord.RazorpayPaymentID,
			Amount:           ord.TotalAmount,
			Currency:         "INR",
		}
	}

	report := s.erp.SyncOrderCreated(ctx, ord.StoreID, mirror, paymentMirror)
	if !report.Success {
		s.logger.Warn("erp sync incomplete",
			zap.String("order_id", ord.ID.String()),
			zap.String("step", string(report.Step)),
			zap.String("message", report.Message))
	}
	return report
}

// notifyPlaced sends the order-placed mails. Failures are logged, never
// propagated.
func (s *CheckoutService) notifyPlaced(ctx context.Context, ord *order.Order, settings *store.Settings) {
	n, err := s.buildNotification(ctx, ord, settings)
	if err != nil {
		s.logger.Error("notification skipped: customer lookup failed",
			zap.String("order_id", ord.ID.String()), zap.Error(err))
		return
	}
	if err := s.notifier.OrderPlaced(ctx, n); err != nil {
		s.logger.Error("order placed notification failed",
			zap.String("order_id", ord.ID.String()), zap.Error(err))
	}
}

func (s *CheckoutService) buildNotification(ctx context.Context, ord *order.Order, settings *store.Settings) (Notification, error) {
	cust, err := s.customers.FindByID(ctx, ord.UserID)
	if err != nil {
		return Notification{}, err
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
	return n, nil
}

func buildOrderMirror(ord *order.Order, cust *customer.Customer, billing, shipping *customer.Address) integration.OrderMirror {
	items := make([]integration.OrderItemMirror, len(ord.Items))
	for i, item := range ord.Items {
		items[i] = integration.OrderItemMirror{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.TotalWithGST,
		}
	}
	return integration.OrderMirror{
		LocalOrderID:  ord.ID,
		OrderNumber:   ord.OrderNumber,
		Customer:      toCustomerMirror(cust),
		Billing:       toAddressMirror(billing, true, ord.BillingAddressID == ord.ShippingAddressID),
		Shipping:      toAddressMirror(shipping, ord.BillingAddressID == ord.ShippingAddressID, true),
		Items:         items,
		TotalAmount:   ord.TotalAmount,
		Currency:      "INR",
		Status:        ord.Status.String(),
		PaymentStatus: ord.PaymentStatus.String(),
		PaymentMode:   ord.PaymentMode.String(),
	}
}

func toCustomerMirror(cust *customer.Customer) integration.CustomerMirror {
	return integration.CustomerMirror{
		LocalUserID: cust.ID,
		Name:        cust.Name,
		Email:       cust.Email,
		Phone:       cust.Phone,
	}
}

func toAddressMirror(addr *customer.Address, isBilling, isShipping bool) integration.AddressMirror {
	return integration.AddressMirror{
		LocalAddressID: addr.ID,
		Title:          addr.Line1,
		Line1:          addr.Line1,
		Line2:          addr.Line2,
		City:           addr.City,
		State:          addr.State,
		PostalCode:     addr.PostalCode,
		Country:        addr.Country,
		Phone:          addr.Phone,
		IsBilling:      isBilling,
		IsShipping:     isShipping,
	}
}

func toCatalogAdjustments(adjustments []order.StockAdjustment) []catalog.StockAdjustment {
	out := make([]catalog.StockAdjustment, len(adjustments))
	for i, a := range adjustments {
		out[i] = catalog.StockAdjustment{ProductID: a.ProductID, Quantity: a.Quantity}
	}
	return out
}
