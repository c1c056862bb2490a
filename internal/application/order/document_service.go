package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/customer"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/order"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/store"
)

// InvoiceLine is one rendered invoice row
type InvoiceLine struct {
	ProductName  string
	Quantity     int64
	UnitPrice    decimal.Decimal
	GSTRate      decimal.Decimal
	GSTAmount    decimal.Decimal
	TotalWithGST decimal.Decimal
}

// InvoiceData is everything the invoice templates need
type InvoiceData struct {
	StoreName       string
	OrderNumber     string
	OrderDate       time.Time
	CustomerName    string
	CustomerEmail   string
	BillingAddress  string
	ShippingAddress string
	Items           []InvoiceLine
	ShippingCost    decimal.Decimal
	TotalAmount     decimal.Decimal
	PaymentMode     string
	PaymentStatus   string
}

// ShippingLabelData is everything the shipping label template needs
type ShippingLabelData struct {
	StoreName       string
	OrderNumber     string
	CustomerName    string
	CustomerPhone   string
	ShippingAddress string
	TrackingNumber  string
	DeliveryPartner string
	ItemCount       int64
}

// DocumentRenderer renders order documents from templates. The HTML variant
// serves the storefront preview; the PDF variants serve downloads.
type DocumentRenderer interface {
	InvoiceHTML(data InvoiceData) (string, error)
	InvoicePDF(ctx context.Context, data InvoiceData) ([]byte, error)
	ShippingLabelPDF(ctx context.Context, data ShippingLabelData) ([]byte, error)
}

// DocumentService is the read-only document path: it assembles invoice and
// shipping label data from a finalized order and renders it. No state is
// mutated.
type DocumentService struct {
	orders    order.Repository
	customers customer.Repository
	settings  store.Repository
	renderer  DocumentRenderer
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	orders order.Repository,
	customers customer.Repository,
	settings store.Repository,
	renderer DocumentRenderer,
) *DocumentService {
	return &DocumentService{
		orders:    orders,
		customers: customers,
		settings:  settings,
		renderer:  renderer,
	}
}

// InvoiceHTML renders the invoice as a standalone HTML document
func (s *DocumentService) InvoiceHTML(ctx context.Context, orderID uuid.UUID) (string, error) {
	data, err := s.invoiceData(ctx, orderID, uuid.Nil)
	if err != nil {
		return "", err
	}
	return s.renderer.InvoiceHTML(*data)
}

// InvoicePDF renders the invoice as a PDF attachment. The store scope must
// match the order.
func (s *DocumentService) InvoicePDF(ctx context.Context, storeID, orderID uuid.UUID) ([]byte, string, error) {
	data, err := s.invoiceData(ctx, orderID, storeID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := s.renderer.InvoicePDF(ctx, *data)
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("invoice-%s.pdf", data.OrderNumber), nil
}

// ShippingLabelPDF renders the shipping label as a PDF attachment
func (s *DocumentService) ShippingLabelPDF(ctx context.Context, storeID, orderID uuid.UUID) ([]byte, string, error) {
	ord, err := s.loadScoped(ctx, orderID, storeID)
	if err != nil {
		return nil, "", err
	}
	cust, err := s.customers.FindByID(ctx, ord.UserID)
	if err != nil {
		return nil, "", err
	}
	shipping, err := s.customers.FindAddress(ctx, ord.ShippingAddressID)
	if err != nil {
		return nil, "", err
	}

	var itemCount int64
	for _, item := range ord.Items {
		itemCount += item.Quantity
	}

	data := ShippingLabelData{
		StoreName:       s.storeName(ctx, ord.StoreID),
		OrderNumber:     ord.OrderNumber,
		CustomerName:    cust.Name,
		CustomerPhone:   shipping.Phone,
		ShippingAddress: shipping.Format(),
		TrackingNumber:  ord.TrackingNumber,
		DeliveryPartner: ord.DeliveryPartner,
		ItemCount:       itemCount,
	}
	pdf, err := s.renderer.ShippingLabelPDF(ctx, data)
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("shipping-label-%s.pdf", ord.OrderNumber), nil
}

func (s *DocumentService) invoiceData(ctx context.Context, orderID, storeID uuid.UUID) (*InvoiceData, error) {
	ord, err := s.loadScoped(ctx, orderID, storeID)
	if err != nil {
		return nil, err
	}
	cust, err := s.customers.FindByID(ctx, ord.UserID)
	if err != nil {
		return nil, err
	}
	billing, err := s.customers.FindAddress(ctx, ord.BillingAddressID)
	if err != nil {
		return nil, err
	}
	shipping := billing
	if ord.ShippingAddressID != ord.BillingAddressID {
		if shipping, err = s.customers.FindAddress(ctx, ord.ShippingAddressID); err != nil {
			return nil, err
		}
	}

	lines := make([]InvoiceLine, len(ord.Items))
	for i, item := range ord.Items {
		lines[i] = InvoiceLine{
			ProductName:  item.ProductName,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			GSTRate:      item.GSTRate,
			GSTAmount:    item.GSTAmount,
			TotalWithGST: item.TotalWithGST,
		}
	}

	return &InvoiceData{
		StoreName:       s.storeName(ctx, ord.StoreID),
		OrderNumber:     ord.OrderNumber,
		OrderDate:       ord.CreatedAt,
		CustomerName:    cust.Name,
		CustomerEmail:   cust.Email,
		BillingAddress:  billing.Format(),
		ShippingAddress: shipping.Format(),
		Items:           lines,
		ShippingCost:    ord.ShippingCost,
		TotalAmount:     ord.TotalAmount,
		PaymentMode:     ord.PaymentMode.String(),
		PaymentStatus:   ord.PaymentStatus.String(),
	}, nil
}

// loadScoped loads an order, hiding it behind ORDER_NOT_FOUND when the
// caller's store scope does not match
func (s *DocumentService) loadScoped(ctx context.Context, orderID, storeID uuid.UUID) (*order.Order, error) {
	ord, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if storeID != uuid.Nil && ord.StoreID != storeID {
		return nil, order.ErrOrderNotFound
	}
	return ord, nil
}

func (s *DocumentService) storeName(ctx context.Context, storeID uuid.UUID) string {
	settings, err := s.settings.FindByStore(ctx, storeID)
	if err != nil {
		return ""
	}
	return settings.StoreName
}
