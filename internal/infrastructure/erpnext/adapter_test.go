package erpnext

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/integration"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/shared"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/store"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/infrastructure/config"
)

// settingsStub serves one store's settings without a database
type settingsStub struct {
	settings *store.Settings
}

func (s *settingsStub) FindByStore(_ context.Context, _ uuid.UUID) (*store.Settings, error) {
	if s.settings == nil {
		return nil, shared.ErrNotFound
	}
	return s.settings, nil
}

func (s *settingsStub) Save(_ context.Context, _ *store.Settings) error { return nil }

// erpServer fakes the ERPNext resource API in memory. Created documents are
// findable by the filters the adapter uses, so idempotency paths can be
// exercised too.
type erpServer struct {
	mu       sync.Mutex
	requests []string // "METHOD path"
	docs     map[string][]map[string]any
	failOn   string // substring of path that returns 500
	srv      *httptest.Server
}

func newERPServer() *erpServer {
	e := &erpServer{docs: map[string][]map[string]any{}}
	e.srv = httptest.NewServer(http.HandlerFunc(e.handle))
	return e
}

func (e *erpServer) handle(w http.ResponseWriter, r *http.Request) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.requests = append(e.requests, r.Method+" "+r.URL.Path)

	if e.failOn != "" && strings.Contains(r.URL.Path, e.failOn) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"exc_type":"ValidationError"}`))
		return
	}

	doctype := strings.TrimPrefix(r.URL.Path, "/api/resource/")
	switch r.Method {
	case http.MethodGet:
		var filters [][]string
		json.Unmarshal([]byte(r.URL.Query().Get("filters")), &filters)
		matches := []map[string]any{}
		for _, doc := range e.docs[doctype] {
			if matchesFilters(doc, filters) {
				matches = append(matches, doc)
			}
		}
		json.NewEncoder(w).Encode(map[string]any{"data": matches})
	case http.MethodPost:
		var doc map[string]any
		json.NewDecoder(r.Body).Decode(&doc)
		doc["name"] = strings.ToUpper(strings.ReplaceAll(doctype, " ", "-")) + "-001"
		e.docs[doctype] = append(e.docs[doctype], doc)
		json.NewEncoder(w).Encode(map[string]any{"data": doc})
	case http.MethodPut:
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{}})
	}
}

func matchesFilters(doc map[string]any, filters [][]string) bool {
	for _, f := range filters {
		if len(f) != 3 {
			return false
		}
		if v, _ := doc[f[0]].(string); v != f[2] {
			return false
		}
	}
	return true
}

func (e *erpServer) requestCount(prefix string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, r := range e.requests {
		if strings.HasPrefix(r, prefix) {
			n++
		}
	}
	return n
}

func testAdapter(baseURL string) *Adapter {
	settings := &settingsStub{}
	if baseURL != "" {
		settings.settings = &store.Settings{
			StoreID:      uuid.New(),
			StoreName:    "Chai Point",
			ERPBaseURL:   baseURL,
			ERPAPIKey:    "erp_key",
			ERPAPISecret: "erp_secret",
		}
	}
	return NewAdapter(settings, config.ERPConfig{Timeout: 5 * time.Second}, zap.NewNop())
}

func testMirror() integration.OrderMirror {
	billing := integration.AddressMirror{
		LocalAddressID: uuid.New(),
		Line1:          "12 MG Road",
		City:           "Bengaluru",
		State:          "KA",
		PostalCode:     "560001",
		Country:        "India",
		IsBilling:      true,
	}
	return integration.OrderMirror{
		LocalOrderID: uuid.New(),
		OrderNumber:  "ORD-2026-00001",
		Customer: integration.CustomerMirror{
			LocalUserID: uuid.New(),
			Name:        "Asha",
			Email:       "asha@example.com",
			Phone:       "9876543210",
		},
		Billing:  billing,
		Shipping: billing,
		Items: []integration.OrderItemMirror{
			{ProductName: "Masala Tea", Quantity: 2, UnitPrice: decimal.RequireFromString("100"), Amount: decimal.RequireFromString("236")},
		},
		TotalAmount:   decimal.RequireFromString("236"),
		Currency:      "INR",
		Status:        "PROCESSING",
		PaymentStatus: "PAYMENT_PENDING",
		PaymentMode:   "COD",
	}
}

func TestSyncOrderCreatedHappyPath(t *testing.T) {
	erp := newERPServer()
	defer erp.srv.Close()

	adapter := testAdapter(erp.srv.URL)
	report := adapter.SyncOrderCreated(context.Background(), uuid.New(), testMirror(), nil)

	assert.True(t, report.Success)
	assert.Equal(t, integration.StepCompleted, report.Step)
	assert.Equal(t, 1, erp.requestCount("POST /api/resource/Customer"))
	assert.Equal(t, 1, erp.requestCount("POST /api/resource/Address"))
	assert.Equal(t, 1, erp.requestCount("POST /api/resource/Sales Order"))
	assert.Equal(t, 0, erp.requestCount("POST /api/resource/Payment Entry"))
}

func TestSyncOrderCreatedMirrorsSettledPayment(t *testing.T) {
	erp := newERPServer()
	defer erp.srv.Close()

	mirror := testMirror()
	payment := &integration.PaymentMirror{
		OrderNumber:      mirror.OrderNumber,
		GatewayPaymentID: "pay_abc123",
		Amount:           mirror.TotalAmount,
		Currency:         "INR",
	}
	report := testAdapter(erp.srv.URL).SyncOrderCreated(context.Background(), uuid.New(), mirror, payment)

	assert.True(t, report.Success)
	assert.Equal(t, 1, erp.requestCount("POST /api/resource/Payment Entry"))
}

func TestSyncOrderCreatedReusesExistingDocuments(t *testing.T) {
	erp := newERPServer()
	defer erp.srv.Close()

	adapter := testAdapter(erp.srv.URL)
	mirror := testMirror()

	first := adapter.SyncOrderCreated(context.Background(), uuid.New(), mirror, nil)
	require.True(t, first.Success)
	second := adapter.SyncOrderCreated(context.Background(), uuid.New(), mirror, nil)
	require.True(t, second.Success)

	// The retry finds everything by its stable key and creates nothing
	assert.Equal(t, 1, erp.requestCount("POST /api/resource/Customer"))
	assert.Equal(t, 1, erp.requestCount("POST /api/resource/Address"))
	assert.Equal(t, 1, erp.requestCount("POST /api/resource/Sales Order"))
}

func TestSyncOrderCreatedSkipsWithoutCredentials(t *testing.T) {
	adapter := testAdapter("")
	report := adapter.SyncOrderCreated(context.Background(), uuid.New(), testMirror(), nil)

	assert.False(t, report.Success)
	assert.Equal(t, integration.StepNotConfigured, report.Step)
}

func TestSyncOrderCreatedCollapsesFailureIntoReport(t *testing.T) {
	erp := newERPServer()
	defer erp.srv.Close()
	erp.failOn = "Sales Order"

	report := testAdapter(erp.srv.URL).SyncOrderCreated(context.Background(), uuid.New(), testMirror(), nil)

	assert.False(t, report.Success)
	assert.Equal(t, integration.StepSalesOrder, report.Step)
	assert.Contains(t, report.Message, "status 500")
}

func TestSyncOrderCreatedFailsAtCustomerStep(t *testing.T) {
	erp := newERPServer()
	defer erp.srv.Close()
	erp.failOn = "Customer"

	report := testAdapter(erp.srv.URL).SyncOrderCreated(context.Background(), uuid.New(), testMirror(), nil)

	assert.False(t, report.Success)
	assert.Equal(t, integration.StepCustomer, report.Step)
}

func TestSyncOrderStatusUpdatesMirroredOrder(t *testing.T) {
	erp := newERPServer()
	defer erp.srv.Close()

	adapter := testAdapter(erp.srv.URL)
	mirror := testMirror()
	require.True(t, adapter.SyncOrderCreated(context.Background(), uuid.New(), mirror, nil).Success)

	report := adapter.SyncOrderStatus(context.Background(), uuid.New(), mirror.OrderNumber, "SHIPPED")

	assert.True(t, report.Success)
	assert.Equal(t, 1, erp.requestCount("PUT /api/resource/Sales Order/SALES-ORDER-001"))
}

func TestSyncOrderStatusFailsWhenMirrorMissing(t *testing.T) {
	erp := newERPServer()
	defer erp.srv.Close()

	report := testAdapter(erp.srv.URL).SyncOrderStatus(context.Background(), uuid.New(), "ORD-2026-09999", "SHIPPED")

	assert.False(t, report.Success)
	assert.Equal(t, integration.StepStatusUpdate, report.Step)
	assert.Contains(t, report.Message, "ORD-2026-09999")
}
