// Package erpnext mirrors committed orders into a per-store ERPNext instance
// through its REST resource API.
//
// The adapter is strictly best-effort: every failure is captured into the
// returned SyncReport and logged, nothing propagates, and the local order is
// never touched. Upserts are keyed by stable local identifiers (customer
// email, address title, order number in po_no) so retries stay idempotent.
package erpnext

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/integration"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/shared"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/store"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/infrastructure/config"
)

const maxResponseSize = 4 * 1024 * 1024

// Adapter implements integration.ERPSyncPort against ERPNext
type Adapter struct {
	settings   store.Repository
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAdapter creates a new ERPNext sync adapter
func NewAdapter(settings store.Repository, cfg config.ERPConfig, logger *zap.Logger) *Adapter {
	return &Adapter{
		settings: settings,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// credentials bundles one store's ERP endpoint for a single sync pass
type credentials struct {
	baseURL string
	key     string
	secret  string
}

// SyncOrderCreated mirrors customer, addresses, the sales order, and the
// settled payment (when present) after an order commits
func (a *Adapter) SyncOrderCreated(ctx context.Context, storeID uuid.UUID, mirror integration.OrderMirror, payment *integration.PaymentMirror) integration.SyncReport {
	creds, report := a.credentialsFor(ctx, storeID)
	if creds == nil {
		return report
	}

	customerName, err := a.ensureCustomer(ctx, creds, mirror.Customer)
	if err != nil {
		a.logSyncFailure(storeID, integration.StepCustomer, err)
		return integration.ReportFailed(integration.StepCustomer, err)
	}

	if err := a.ensureAddress(ctx, creds, customerName, mirror.Billing); err != nil {
		a.logSyncFailure(storeID, integration.StepAddress, err)
		return integration.ReportFailed(integration.StepAddress, err)
	}
	if mirror.Shipping.LocalAddressID != mirror.Billing.LocalAddressID {
		if err := a.ensureAddress(ctx, creds, customerName, mirror.Shipping); err != nil {
			a.logSyncFailure(storeID, integration.StepAddress, err)
			return integration.ReportFailed(integration.StepAddress, err)
		}
	}

	if err := a.ensureSalesOrder(ctx, creds, customerName, mirror); err != nil {
		a.logSyncFailure(storeID, integration.StepSalesOrder, err)
		return integration.ReportFailed(integration.StepSalesOrder, err)
	}

	if payment != nil {
		if err := a.recordPayment(ctx, creds, customerName, *payment); err != nil {
			a.logSyncFailure(storeID, integration.StepPayment, err)
			return integration.ReportFailed(integration.StepPayment, err)
		}
	}

	return integration.ReportOK()
}

// SyncOrderStatus updates the mirrored sales order's status after a committed
// local transition, correlating through the order number stored in po_no
func (a *Adapter) SyncOrderStatus(ctx context.Context, storeID uuid.UUID, orderNumber, status string) integration.SyncReport {
	creds, report := a.credentialsFor(ctx, storeID)
	if creds == nil {
		return report
	}

	name, err := a.findSalesOrder(ctx, creds, orderNumber)
	if err != nil {
		a.logSyncFailure(storeID, integration.StepStatusUpdate, err)
		return integration.ReportFailed(integration.StepStatusUpdate, err)
	}
	if name == "" {
		err := fmt.Errorf("erpnext: no sales order mirrors %s", orderNumber)
		a.logSyncFailure(storeID, integration.StepStatusUpdate, err)
		return integration.ReportFailed(integration.StepStatusUpdate, err)
	}

	body := map[string]any{"custom_fulfilment_status": status}
	if err := a.doJSON(ctx, creds, http.MethodPut, "/api/resource/Sales Order/"+name, body, nil); err != nil {
		a.logSyncFailure(storeID, integration.StepStatusUpdate, err)
		return integration.ReportFailed(integration.StepStatusUpdate, err)
	}
	return integration.ReportOK()
}

func (a *Adapter) credentialsFor(ctx context.Context, storeID uuid.UUID) (*credentials, integration.SyncReport) {
	settings, err := a.settings.FindByStore(ctx, storeID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, integration.ReportSkipped("store has no settings")
		}
		return nil, integration.ReportFailed(integration.StepNotConfigured, err)
	}
	if !settings.HasERPCredentials() {
		return nil, integration.ReportSkipped("store has no ERP credentials")
	}
	return &credentials{
		baseURL: strings.TrimRight(settings.ERPBaseURL, "/"),
		key:     settings.ERPAPIKey,
		secret:  settings.ERPAPISecret,
	}, integration.SyncReport{}
}

// ensureCustomer finds a customer by email or creates one, returning the
// ERPNext document name
func (a *Adapter) ensureCustomer(ctx context.Context, creds *credentials, c integration.CustomerMirror) (string, error) {
	name, err := a.findFirst(ctx, creds, "Customer", [][]string{{"email_id", "=", c.Email}})
	if err != nil {
		return "", err
	}
	if name != "" {
		return name, nil
	}

	var created struct {
		Data struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	body := map[string]any{
		"customer_name": c.Name,
		"customer_type": "Individual",
		"email_id":      c.Email,
		"mobile_no":     c.Phone,
	}
	if err := a.doJSON(ctx, creds, http.MethodPost, "/api/resource/Customer", body, &created); err != nil {
		return "", err
	}
	return created.Data.Name, nil
}

// ensureAddress mirrors one address linked to the customer. The local
// address id becomes the address title, which keeps re-syncs idempotent.
func (a *Adapter) ensureAddress(ctx context.Context, creds *credentials, customerName string, addr integration.AddressMirror) error {
	title := addr.LocalAddressID.String()
	name, err := a.findFirst(ctx, creds, "Address", [][]string{{"address_title", "=", title}})
	if err != nil {
		return err
	}
	if name != "" {
		return nil
	}

	addressType := "Shipping"
	if addr.IsBilling {
		addressType = "Billing"
	}
	body := map[string]any{
		"address_title": title,
		"address_type":  addressType,
		"address_line1": addr.Line1,
		"address_line2": addr.Line2,
		"city":          addr.City,
		"state":         addr.State,
		"pincode":       addr.PostalCode,
		"country":       addr.Country,
		"phone":         addr.Phone,
		"links": []map[string]any{
			{"link_doctype": "Customer", "link_name": customerName},
		},
	}
	return a.doJSON(ctx, creds, http.MethodPost, "/api/resource/Address", body, nil)
}

// ensureSalesOrder mirrors the order unless a document already carries its
// order number
func (a *Adapter) ensureSalesOrder(ctx context.Context, creds *credentials, customerName string, mirror integration.OrderMirror) error {
	existing, err := a.findSalesOrder(ctx, creds, mirror.OrderNumber)
	if err != nil {
		return err
	}
	if existing != "" {
		return nil
	}

	items := make([]map[string]any, len(mirror.Items))
	for i, item := range mirror.Items {
		items[i] = map[string]any{
			"item_name": item.ProductName,
			"item_code": item.ProductName,
			"qty":       item.Quantity,
			"rate":      item.UnitPrice,
			"amount":    item.Amount,
		}
	}
	body := map[string]any{
		"customer":                 customerName,
		"po_no":                    mirror.OrderNumber,
		"currency":                 mirror.Currency,
		"items":                    items,
		"grand_total":              mirror.TotalAmount,
		"custom_fulfilment_status": mirror.Status,
		"custom_payment_mode":      mirror.PaymentMode,
	}
	return a.doJSON(ctx, creds, http.MethodPost, "/api/resource/Sales Order", body, nil)
}

// recordPayment mirrors a settled gateway payment as a Payment Entry
func (a *Adapter) recordPayment(ctx context.Context, creds *credentials, customerName string, p integration.PaymentMirror) error {
	body := map[string]any{
		"payment_type":      "Receive",
		"party_type":        "Customer",
		"party":             customerName,
		"paid_amount":       p.Amount,
		"received_amount":   p.Amount,
		"reference_no":      p.GatewayPaymentID,
		"remarks":           "Gateway payment for " + p.OrderNumber,
		"custom_order_ref":  p.OrderNumber,
		"custom_gateway_id": p.GatewayPaymentID,
	}
	return a.doJSON(ctx, creds, http.MethodPost, "/api/resource/Payment Entry", body, nil)
}

func (a *Adapter) findSalesOrder(ctx context.Context, creds *credentials, orderNumber string) (string, error) {
	return a.findFirst(ctx, creds, "Sales Order", [][]string{{"po_no", "=", orderNumber}})
}

// findFirst queries a doctype with filters and returns the first document
// name, or "" when nothing matches
func (a *Adapter) findFirst(ctx context.Context, creds *credentials, doctype string, filters [][]string) (string, error) {
	encoded, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	path := "/api/resource/" + doctype + "?filters=" + url.QueryEscape(string(encoded))

	var result struct {
		Data []struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	if err := a.doJSON(ctx, creds, http.MethodGet, path, nil, &result); err != nil {
		return "", err
	}
	if len(result.Data) == 0 {
		return "", nil
	}
	return result.Data[0].Name, nil
}

// doJSON performs one authenticated request against the ERPNext resource API
func (a *Adapter) doJSON(ctx context.Context, creds *credentials, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("erpnext: marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	// Document names can contain spaces (e.g. "Sales Order")
	escaped := strings.ReplaceAll(path, " ", "%20")
	req, err := http.NewRequestWithContext(ctx, method, creds.baseURL+escaped, reader)
	if err != nil {
		return fmt.Errorf("erpnext: build request: %w", err)
	}
	req.Header.Set("Authorization", "token "+creds.key+":"+creds.secret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("erpnext: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("erpnext: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("erpnext: %s %s: status %d: %s", method, path, resp.StatusCode, truncate(data, 200))
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("erpnext: decode response: %w", err)
		}
	}
	return nil
}

func (a *Adapter) logSyncFailure(storeID uuid.UUID, step integration.SyncStep, err error) {
	a.logger.Warn("erpnext sync step failed",
		zap.String("store_id", storeID.String()),
		zap.String("step", string(step)),
		zap.Error(err))
}

func truncate(data []byte, n int) string {
	if len(data) <= n {
		return string(data)
	}
	return string(data[:n]) + "..."
}
