package board

import (
	"context"
	"fmt"

	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/canvas"
	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/model"
	"github.com/prometheus/client_golang/prometheus"
)

// AddStroke appends a stroke to the tab's drawing
func (c *Controller) AddStroke(ctx context.Context, stroke canvas.Stroke) (State, error) {
	t, _ := c.enter(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.auth != model.AuthAuthenticated {
		return t.snapshot(), ErrNotAuthenticated
	}
	if err := t.canvas.Add(stroke); err != nil {
		return t.snapshot(), fmt.Errorf("failed to add stroke: %w", err)
	}
	return t.snapshot(), nil
}

// Undo removes the most recent stroke, if any
func (c *Controller) Undo(ctx context.Context) (State, error) {
	t, _ := c.enter(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.auth != model.AuthAuthenticated {
		return t.snapshot(), ErrNotAuthenticated
	}
	t.canvas.Undo()
	return t.snapshot(), nil
}

// ResetCanvas clears the drawing and the response text
func (c *Controller) ResetCanvas(ctx context.Context) (State, error) {
	t, _ := c.enter(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.auth != model.AuthAuthenticated {
		return t.snapshot(), ErrNotAuthenticated
	}
	t.canvas.Clear()
	t.response = ""
	return t.snapshot(), nil
}

// Solve sends the drawing to the generative model and stores its answer
// as the response text. Gated and empty requests never leave the process.
func (c *Controller) Solve(ctx context.Context) (State, error) {
	t, _ := c.enter(ctx)

	t.mu.Lock()
	if t.auth != model.AuthAuthenticated {
		defer t.mu.Unlock()
		return t.snapshot(), ErrNotAuthenticated
	}
	if t.solveBusy {
		defer t.mu.Unlock()
		return t.snapshot(), ErrBusy
	}
	if c.requirePremium && t.plan != model.PlanPremium {
		defer t.mu.Unlock()
		t.response = MsgUpgradeRequired
		c.metrics.Solves.WithLabelValues("gated").Inc()
		return t.snapshot(), ErrUpgradeRequired
	}
	if t.canvas.Empty() {
		defer t.mu.Unlock()
		t.response = MsgNoProblem
		c.metrics.Solves.WithLabelValues("empty").Inc()
		return t.snapshot(), ErrEmptyCanvas
	}
	payload, err := t.canvas.Render()
	if err != nil {
		defer t.mu.Unlock()
		t.response = MsgSolveFailed
		c.metrics.Solves.WithLabelValues("failure").Inc()
		return t.snapshot(), &SolveError{Err: err}
	}
	t.solveBusy = true
	generation := t.generation
	t.mu.Unlock()

	timer := prometheus.NewTimer(c.metrics.SolveDuration)
	answer, err := c.solver.Solve(ctx, payload)
	timer.ObserveDuration()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.solveBusy = false

	// Signed out while the model was thinking.
	if t.generation != generation {
		return t.snapshot(), ErrNotAuthenticated
	}

	if err != nil {
		c.logger.Warn("solve failed", "tab", t.id, "error", err)
		t.response = MsgSolveFailed
		c.metrics.Solves.WithLabelValues("failure").Inc()
		return t.snapshot(), &SolveError{Err: err}
	}

	t.response = answer
	c.metrics.Solves.WithLabelValues("success").Inc()
	return t.snapshot(), nil
}
