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
)

// DefaultRazorpayURL is the Razorpay REST API root
const DefaultRazorpayURL = "https://api.razorpay.com/v1"

// RazorpayGateway creates orders and checks checkout signatures
type RazorpayGateway struct {
	baseURL   string
	keyID     string
	keySecret string
	client    *http.Client
}

// NewRazorpayGateway creates a gateway. A nil httpClient uses http.DefaultClient.
func NewRazorpayGateway(baseURL, keyID, keySecret string, httpClient *http.Client) *RazorpayGateway {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &RazorpayGateway{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		client:    httpClient,
	}
}

// KeyID is the public key handed to the checkout overlay
func (g *RazorpayGateway) KeyID() string {
	return g.keyID
}

type orderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type razorpayError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder registers an order the overlay will collect payment for
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt, email string) (*Order, error) {
	body, err := json.Marshal(orderRequest{
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Notes:    map[string]string{"email": email},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(g.keyID, g.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read order response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr razorpayError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Description != "" {
			return nil, fmt.Errorf("razorpay error %s: %s", apiErr.Error.Code, apiErr.Error.Description)
		}
		return nil, fmt.Errorf("razorpay error (status %d): %s", resp.StatusCode, string(data))
	}

	var order Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("failed to decode order: %w", err)
	}
	return &order, nil
}

// VerifySignature checks the signature the overlay returns on success
func (g *RazorpayGateway) VerifySignature(cb Callback) bool {
	expected := Sign(g.keySecret, cb.OrderID, cb.PaymentID)
	return hmac.Equal([]byte(expected), []byte(cb.Signature))
}

// Sign computes the checkout signature for an order and payment
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
