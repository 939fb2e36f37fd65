// Package payment runs the Premium upgrade: it opens a checkout and, on
// the provider's success callback, writes the entitlement record.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/model"
	"github.com/google/uuid"
)

var (
	// ErrSignatureMismatch is returned for a callback the provider did not sign
	ErrSignatureMismatch = errors.New("payment signature mismatch")

	// ErrOrderMismatch is returned for a callback about another order
	ErrOrderMismatch = errors.New("payment is for a different order")

	// ErrWriteFailed is returned when the paid entitlement could not be stored
	ErrWriteFailed = errors.New("failed to record entitlement")
)

// Order is a provider order awaiting payment
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Callback is what the overlay reports on a successful payment
type Callback struct {
	OrderID   string
	PaymentID string
	Signature string
}

// CheckoutOptions configure the browser overlay
type CheckoutOptions struct {
	Key          string
	Amount       int64
	Currency     string
	Name         string
	Description  string
	OrderID      string
	PrefillEmail string
	ThemeColor   string
}

// Product is the fixed offer shown in the overlay
type Product struct {
	Amount      int64 // smallest currency unit
	Currency    string
	Name        string
	Description string
	ThemeColor  string
}

// DefaultProduct is one month of Premium
var DefaultProduct = Product{
	Amount:      9900,
	Currency:    "INR",
	Name:        "AImagine Board",
	Description: "Premium - 1 month",
	ThemeColor:  "#2563eb",
}

// Gateway is the payment provider
type Gateway interface {
	KeyID() string
	CreateOrder(ctx context.Context, amount int64, currency, receipt, email string) (*Order, error)
	VerifySignature(cb Callback) bool
}

// EntitlementWriter is the write side of the entitlement store
type EntitlementWriter interface {
	Upsert(ctx context.Context, record *model.EntitlementRecord) error
}

// Initiator opens checkouts and records successful payments
type Initiator struct {
	gateway Gateway
	store   EntitlementWriter
	product Product
	now     func() time.Time
	logger  *slog.Logger
}

// NewInitiator creates an Initiator. A nil now uses time.Now.
func NewInitiator(gateway Gateway, store EntitlementWriter, product Product, now func() time.Time, logger *slog.Logger) *Initiator {
	if now == nil {
		now = time.Now
	}
	return &Initiator{gateway: gateway, store: store, product: product, now: now, logger: logger}
}

// Open creates an order and returns the overlay configuration
func (i *Initiator) Open(ctx context.Context, email string) (*CheckoutOptions, error) {
	order, err := i.gateway.CreateOrder(ctx, i.product.Amount, i.product.Currency, uuid.NewString(), model.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("failed to open checkout: %w", err)
	}

	i.logger.Info("checkout opened", "order_id", order.ID, "email", model.NormalizeEmail(email))

	return &CheckoutOptions{
		Key:          i.gateway.KeyID(),
		Amount:       i.product.Amount,
		Currency:     i.product.Currency,
		Name:         i.product.Name,
		Description:  i.product.Description,
		OrderID:      order.ID,
		PrefillEmail: email,
		ThemeColor:   i.product.ThemeColor,
	}, nil
}

// Complete handles the success callback for orderID: it checks the
// signature and upserts a record expiring one month from now.
func (i *Initiator) Complete(ctx context.Context, email, orderID string, cb Callback) (*model.EntitlementRecord, error) {
	if cb.OrderID != orderID {
		return nil, ErrOrderMismatch
	}
	if !i.gateway.VerifySignature(cb) {
		return nil, ErrSignatureMismatch
	}

	now := i.now()
	record := &model.EntitlementRecord{
		Email:     model.NormalizeEmail(email),
		Expiry:    now.AddDate(0, 1, 0),
		UpdatedAt: now,
	}

	if err := i.store.Upsert(ctx, record); err != nil {
		i.logger.Error("entitlement write failed", "order_id", orderID, "payment_id", cb.PaymentID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	i.logger.Info("entitlement recorded", "email", record.Email, "expiry", record.Expiry, "payment_id", cb.PaymentID)
	return record, nil
}
