package board

import (
	"context"
	"errors"
	"fmt"

	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/model"
	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/payment"
)

// StartCheckout creates an order and returns the overlay options. Only one
// overlay per tab can be open at a time.
func (c *Controller) StartCheckout(ctx context.Context) (*payment.CheckoutOptions, error) {
	t, _ := c.enter(ctx)

	t.mu.Lock()
	if err := checkoutAllowed(t); err != nil {
		t.mu.Unlock()
		return nil, err
	}
	t.checkoutBusy = true
	email := t.email
	generation := t.generation
	t.mu.Unlock()

	opts, err := c.checkout.Open(ctx, email)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.generation != generation {
		return nil, ErrNotAuthenticated
	}
	if err != nil {
		t.checkoutBusy = false
		c.metrics.Checkouts.WithLabelValues("open", "failure").Inc()
		c.logger.Error("failed to open checkout", "tab", t.id, "error", err)
		return nil, fmt.Errorf("failed to open checkout: %w", err)
	}

	t.checkoutOrder = opts.OrderID
	c.metrics.Checkouts.WithLabelValues("open", "success").Inc()
	return opts, nil
}

func checkoutAllowed(t *tab) error {
	switch {
	case t.auth != model.AuthAuthenticated || t.email == "":
		return ErrNotAuthenticated
	case t.checkoutBusy:
		return ErrBusy
	case t.plan == model.PlanPremium:
		return ErrAlreadyPremium
	case t.plan != model.PlanFree:
		return fmt.Errorf("%w: plan check in progress", ErrBusy)
	}
	return nil
}

// CompleteCheckout settles the open order with the gateway's success
// callback. The overlay is released whatever the outcome.
func (c *Controller) CompleteCheckout(ctx context.Context, cb payment.Callback) (State, error) {
	t, _ := c.enter(ctx)

	t.mu.Lock()
	if !t.checkoutBusy || t.checkoutOrder == "" {
		defer t.mu.Unlock()
		return t.snapshot(), ErrNoCheckout
	}
	orderID := t.checkoutOrder
	email := t.email
	generation := t.generation
	// Claim the order so a repeated callback cannot write twice.
	t.checkoutOrder = ""
	t.mu.Unlock()

	record, err := c.checkout.Complete(ctx, email, orderID, cb)

	t.mu.Lock()
	defer t.mu.Unlock()
	current := t.generation == generation
	if current {
		t.checkoutBusy = false
	}

	if err != nil {
		c.metrics.Checkouts.WithLabelValues("complete", "failure").Inc()
		if errors.Is(err, payment.ErrWriteFailed) {
			c.logger.Error("payment recorded but entitlement not saved", "tab", t.id, "order", orderID, "error", err)
			return t.snapshot(), &PaymentWriteError{Err: err}
		}
		c.logger.Warn("payment callback rejected", "tab", t.id, "order", orderID, "error", err)
		return t.snapshot(), fmt.Errorf("failed to complete checkout: %w", err)
	}

	c.metrics.Checkouts.WithLabelValues("complete", "success").Inc()
	if current && t.email == email {
		t.plan = model.PlanAt(record.Expiry, c.now())
		t.planEmail = email
	}
	return t.snapshot(), nil
}

// CancelCheckout releases the overlay after the user dismissed it
func (c *Controller) CancelCheckout(ctx context.Context) State {
	t, _ := c.enter(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()
	// An order still being created or settled keeps the overlay.
	if t.checkoutBusy && t.checkoutOrder != "" {
		t.checkoutBusy = false
		t.checkoutOrder = ""
		c.metrics.Checkouts.WithLabelValues("cancel", "success").Inc()
	}
	return t.snapshot()
}
