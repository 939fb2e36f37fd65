// Package entitlement derives a user's Plan from the entitlement store.
package entitlement

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/model"
	"github.com/jackc/pgx/v5"
)

// Store is the read side of the entitlement store
type Store interface {
	GetByEmail(ctx context.Context, email string) (*model.EntitlementRecord, error)
}

// Observer receives the result of every check
type Observer func(plan model.Plan, queryFailed bool)

// Checker resolves Plans
type Checker struct {
	store    Store
	now      func() time.Time
	logger   *slog.Logger
	observer Observer
}

// NewChecker creates a Checker. A nil now uses time.Now.
func NewChecker(store Store, now func() time.Time, logger *slog.Logger) *Checker {
	if now == nil {
		now = time.Now
	}
	return &Checker{store: store, now: now, logger: logger}
}

// WithObserver sets a callback invoked after every check
func (c *Checker) WithObserver(o Observer) *Checker {
	c.observer = o
	return c
}

// Plan resolves the plan for an email. It never fails: a missing email,
// a missing record and a failed query all resolve to Free.
func (c *Checker) Plan(ctx context.Context, email string) model.Plan {
	key := model.NormalizeEmail(email)
	if key == "" {
		return c.observe(model.PlanFree, false)
	}

	record, err := c.store.GetByEmail(ctx, key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.observe(model.PlanFree, false)
		}
		// Degrade to the free tier; the caller never sees the error.
		c.logger.Warn("entitlement query failed", "email", key, "error", err)
		return c.observe(model.PlanFree, true)
	}

	return c.observe(model.PlanAt(record.Expiry, c.now()), false)
}

func (c *Checker) observe(plan model.Plan, queryFailed bool) model.Plan {
	if c.observer != nil {
		c.observer(plan, queryFailed)
	}
	return plan
}
