// Package board is the per-tab view controller. It owns the session
// lifecycle, the cached plan, the drawing and the busy flags of every tab,
// and coordinates the identity, entitlement, payment and solver clients.
package board

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/canvas"
	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/identity"
	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/logging"
	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/metrics"
	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/model"
	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/payment"
	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/sessionstore"
	"github.com/prometheus/client_golang/prometheus"
)

// Identity is the managed identity provider
type Identity interface {
	SignInWithPassword(ctx context.Context, email, password string) (*model.Session, error)
	SignUp(ctx context.Context, email, password string) (*model.User, error)
	AuthorizeURL(provider, redirectTo, verifier string) string
	ExchangeCode(ctx context.Context, code, verifier string) (*model.Session, error)
	GetUser(ctx context.Context, accessToken string) (*model.User, error)
	SignOut(ctx context.Context, accessToken string) error
	Subscribe(fn func(identity.Event)) (unsubscribe func())
}

// Sessions is the tab-lifetime session storage
type Sessions interface {
	Save(ctx context.Context, session *model.Session) error
	Load(ctx context.Context) (*model.Session, error)
	Clear(ctx context.Context)
	TabID(ctx context.Context) string
	PutVerifier(ctx context.Context, verifier string)
	PopVerifier(ctx context.Context) string
}

// PlanChecker derives the plan for an email
type PlanChecker interface {
	Plan(ctx context.Context, email string) model.Plan
}

// Checkout opens and settles payments
type Checkout interface {
	Open(ctx context.Context, email string) (*payment.CheckoutOptions, error)
	Complete(ctx context.Context, email, orderID string, cb payment.Callback) (*model.EntitlementRecord, error)
}

// Solver sends a canvas payload to the generative model
type Solver interface {
	Solve(ctx context.Context, payload canvas.Payload) (string, error)
}

// Options tunes a Controller
type Options struct {
	// RequirePremium gates the solver behind the Premium plan
	RequirePremium bool

	// OAuthProvider is the provider name passed to the authorize endpoint (e.g. "google")
	OAuthProvider string

	// OAuthRedirectURL is where the provider sends the browser back to
	OAuthRedirectURL string

	CanvasWidth  int
	CanvasHeight int

	// RevocationTTL bounds how long a revoked token without a readable expiry is remembered
	RevocationTTL time.Duration

	Now     func() time.Time
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// Controller serves every tab of the board
type Controller struct {
	identity Identity
	sessions Sessions
	plans    PlanChecker
	checkout Checkout
	solver   Solver

	tabs    *registry
	revoked *revocations

	requirePremium bool
	oauthProvider  string
	redirectURL    string
	revocationTTL  time.Duration

	now         func() time.Time
	logger      *slog.Logger
	metrics     *metrics.Metrics
	unsubscribe func()
}

// NewController creates a Controller and subscribes it to identity events.
// Call Close to unsubscribe.
func NewController(id Identity, sessions Sessions, plans PlanChecker, checkout Checkout, solver Solver, opts Options) *Controller {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New(prometheus.NewRegistry())
	}
	if opts.OAuthProvider == "" {
		opts.OAuthProvider = "google"
	}
	if opts.CanvasWidth <= 0 || opts.CanvasHeight <= 0 {
		opts.CanvasWidth, opts.CanvasHeight = 1280, 720
	}
	if opts.RevocationTTL <= 0 {
		opts.RevocationTTL = 24 * time.Hour
	}
	width, height := opts.CanvasWidth, opts.CanvasHeight

	c := &Controller{
		identity:       id,
		sessions:       sessions,
		plans:          plans,
		checkout:       checkout,
		solver:         solver,
		tabs:           newRegistry(func() *canvas.Canvas { return canvas.New(width, height) }),
		revoked:        newRevocations(),
		requirePremium: opts.RequirePremium,
		oauthProvider:  opts.OAuthProvider,
		redirectURL:    opts.OAuthRedirectURL,
		revocationTTL:  opts.RevocationTTL,
		now:            opts.Now,
		logger:         opts.Logger.With("component", "board"),
		metrics:        opts.Metrics,
	}
	c.unsubscribe = id.Subscribe(c.onIdentityEvent)
	return c
}

// Close detaches the controller from identity events
func (c *Controller) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

// GetState is the view mount: it restores a stored session on first use,
// re-derives the plan and returns the tab snapshot.
func (c *Controller) GetState(ctx context.Context) State {
	t, _ := c.enter(ctx)

	// The page was reloaded instead of coming back through the callback.
	t.mu.Lock()
	if t.auth == model.AuthAuthenticating && t.oauthPending {
		t.oauthPending = false
		_ = t.transition(model.AuthAnonymous)
	}
	t.mu.Unlock()

	c.refreshPlan(ctx, t)
	return c.state(t)
}

// enter resolves the calling tab and its stored session.
// Revoked sessions are purged and unrestored ones are restored.
func (c *Controller) enter(ctx context.Context) (*tab, *model.Session) {
	t := c.tabs.get(c.sessions.TabID(ctx), c.now())
	c.metrics.ActiveTabs.Set(float64(c.tabs.len()))

	stored, err := c.sessions.Load(ctx)
	if err != nil {
		if errors.Is(err, sessionstore.ErrCorruptUser) {
			c.logger.Warn("discarding unreadable stored session", "tab", t.id)
			c.sessions.Clear(ctx)
		}
		stored = nil
	}

	if stored != nil && c.revoked.has(stored.AccessToken) {
		c.purge(ctx, t, "revoked")
		return t, nil
	}

	t.mu.Lock()
	if stored == nil && t.auth == model.AuthAuthenticated {
		t.purge()
	}
	needsRestore := stored != nil && t.auth == model.AuthAnonymous
	t.mu.Unlock()

	if needsRestore {
		stored = c.restore(ctx, t, stored)
	}
	return t, stored
}

// restore brings a stored session back. The provider's answer wins; when
// the provider cannot be reached the stored user is trusted until its
// token expires.
func (c *Controller) restore(ctx context.Context, t *tab, stored *model.Session) *model.Session {
	user, err := c.identity.GetUser(ctx, stored.AccessToken)
	switch {
	case err == nil:
		stored.User = *user
		if err := c.sessions.Save(ctx, stored); err != nil {
			c.logger.Warn("failed to re-save restored session", "tab", t.id, "error", err)
		}
	case errors.Is(err, identity.ErrSessionRevoked):
		c.purge(ctx, t, "revoked")
		return nil
	default:
		if c.tokenExpired(stored.AccessToken) {
			c.logger.Info("stored session expired", "tab", t.id)
			c.purge(ctx, t, "expired")
			return nil
		}
		c.logger.Warn("identity provider unreachable, using stored session", "tab", t.id, "error", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.signedIn(stored.User.Email); err != nil {
		// Another request of the same tab got there first.
		c.logger.Debug("restore skipped", "tab", t.id, "error", err)
	}
	return stored
}

// tokenExpired reports whether the token carries an expiry that has passed.
// Tokens without a readable expiry are not considered expired.
func (c *Controller) tokenExpired(accessToken string) bool {
	exp, err := identity.TokenExpiry(accessToken)
	if err != nil {
		return false
	}
	return !exp.After(c.now())
}

// purge clears the stored session and the tab's local state
func (c *Controller) purge(ctx context.Context, t *tab, cause string) {
	t.mu.Lock()
	t.purge()
	t.mu.Unlock()

	c.sessions.Clear(ctx)

	c.metrics.SignOuts.WithLabelValues(cause).Inc()
}

func (c *Controller) onIdentityEvent(e identity.Event) {
	if e.AccessToken == "" {
		return
	}

	switch e.Type {
	case identity.EventSignedOut:
		until := c.now().Add(c.revocationTTL)
		if exp, err := identity.TokenExpiry(e.AccessToken); err == nil {
			until = exp
		}
		c.revoked.add(e.AccessToken, until)
	case identity.EventSignedIn:
		c.revoked.remove(e.AccessToken)
	}
}

// refreshPlan re-derives the plan of a signed-in tab
func (c *Controller) refreshPlan(ctx context.Context, t *tab) {
	t.mu.Lock()
	if t.auth != model.AuthAuthenticated || t.email == "" {
		t.plan = model.PlanFree
		t.planEmail = ""
		t.mu.Unlock()
		return
	}
	email := t.email
	t.plan = model.PlanChecking
	t.mu.Unlock()

	plan := c.plans.Plan(ctx, email)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.email == email {
		t.plan = plan
		t.planEmail = email
	}
}

func (c *Controller) state(t *tab) State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot()
}

// Sweep evicts tabs idle for longer than idle and forgets expired revocations
func (c *Controller) Sweep(idle time.Duration) (tabs, tokens int) {
	now := c.now()
	tabs = c.tabs.evictIdle(now.Add(-idle))
	tokens = c.revoked.prune(now)
	c.metrics.ActiveTabs.Set(float64(c.tabs.len()))
	return tabs, tokens
}
