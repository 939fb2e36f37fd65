package board

import (
	"context"
	"log/slog"
	"time"
)

// JanitorConfig holds the configuration for the tab janitor
type JanitorConfig struct {
	// Interval is the time between sweeps
	Interval time.Duration

	// IdleTimeout is how long a tab may go without a request before it is evicted
	IdleTimeout time.Duration
}

// Janitor evicts idle tabs in the background
type Janitor struct {
	config     JanitorConfig
	controller *Controller
	logger     *slog.Logger
	stopCh     chan struct{}
	doneCh     chan struct{}
}

// NewJanitor creates a new janitor for controller
func NewJanitor(config JanitorConfig, controller *Controller) *Janitor {
	return &Janitor{
		config:     config,
		controller: controller,
		logger:     controller.logger.With("component", "janitor"),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Start starts the sweep goroutine
func (j *Janitor) Start(ctx context.Context) {
	go j.sweepLoop(ctx)
}

// Stop gracefully stops the janitor
func (j *Janitor) Stop() {
	close(j.stopCh)
	<-j.doneCh
	j.logger.Info("janitor stopped")
}

// sweepLoop runs the sweep loop
func (j *Janitor) sweepLoop(ctx context.Context) {
	defer close(j.doneCh)

	ticker := time.NewTicker(j.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.sweep()
		case <-j.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (j *Janitor) sweep() {
	tabs, tokens := j.controller.Sweep(j.config.IdleTimeout)
	if tabs > 0 || tokens > 0 {
		j.logger.Info("swept idle state", "tabs", tabs, "revocations", tokens)
	}
}
