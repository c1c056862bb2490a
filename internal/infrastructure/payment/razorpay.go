// Package payment implements the payment gateway port against the Razorpay
// Orders API.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/shopspring/decimal"

	apporder "github.com/rahulmuralitechnology/cartzilla-orders/internal/application/order"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/shared/valueobject"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/infrastructure/config"
)

// maxResponseSize caps gateway responses (1MB is far beyond any order payload)
const maxResponseSize = 1 * 1024 * 1024

// RazorpayGateway implements the PaymentGateway port over the Razorpay REST
// API. Credentials are per-store and supplied per call; only the endpoint and
// timeout are process-wide.
type RazorpayGateway struct {
	baseURL    string
	httpClient *http.Client
}

// NewRazorpayGateway creates a new RazorpayGateway
func NewRazorpayGateway(cfg config.RazorpayConfig) *RazorpayGateway {
	return &RazorpayGateway{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"` // minor units (paise)
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type errorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateIntent registers a Razorpay order for the given amount. Razorpay
// takes amounts in paise.
func (g *RazorpayGateway) CreateIntent(ctx context.Context, creds apporder.GatewayCredentials, amount decimal.Decimal, currency, receipt string) (*apporder.GatewayIntent, error) {
	money, err := valueobject.NewMoney(amount, valueobject.Currency(currency))
	if err != nil {
		return nil, fmt.Errorf("razorpay: %w", err)
	}
	payload := createOrderRequest{
		Amount:   money.Paise(),
		Currency: string(money.Currency()),
		Receipt:  receipt,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("razorpay: marshal order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("razorpay: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(creds.KeyID, creds.Secret)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("razorpay: create order: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("razorpay: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var gwErr errorResponse
		if json.Unmarshal(data, &gwErr) == nil && gwErr.Error.Description != "" {
			return nil, fmt.Errorf("razorpay: %s (%s)", gwErr.Error.Description, gwErr.Error.Code)
		}
		return nil, fmt.Errorf("razorpay: unexpected status %d", resp.StatusCode)
	}

	var created createOrderResponse
	if err := json.Unmarshal(data, &created); err != nil {
		return nil, fmt.Errorf("razorpay: decode response: %w", err)
	}
	if created.ID == "" {
		return nil, fmt.Errorf("razorpay: response missing order id")
	}

	confirmed := valueobject.FromPaise(created.Amount, valueobject.Currency(created.Currency))
	return &apporder.GatewayIntent{
		GatewayOrderID: created.ID,
		Amount:         confirmed.Amount(),
		Currency:       string(confirmed.Currency()),
	}, nil
}

// VerifySignature recomputes HMAC-SHA256 over "gatewayOrderID|gatewayPaymentID"
// with the store secret and compares against the client-supplied hex
// signature in constant time
func (g *RazorpayGateway) VerifySignature(secret, gatewayOrderID, gatewayPaymentID, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
