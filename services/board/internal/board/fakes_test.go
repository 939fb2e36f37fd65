package board

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/canvas"
	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/identity"
	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/model"
	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/payment"
	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/sessionstore"
	"github.com/alexedwards/scs/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var (
	errUnreachable = errors.New("dial tcp: connection refused")
	testStart      = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeIdentity mimics the provider client, including its events
type fakeIdentity struct {
	mu sync.Mutex

	signInErr   error
	signUpErr   error
	exchangeErr error
	getUserErr  error
	signOutErr  error
	users       map[string]model.User

	// signInStarted and signInGate let a test hold a sign-in in flight
	signInStarted chan struct{}
	signInGate    chan struct{}

	signInCalls  int
	signUpCalls  int
	getUserCalls int
	signOutCalls []string
	verifiers    []string
	exchanged    []string

	subs []func(identity.Event)
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{users: make(map[string]model.User)}
}

func (f *fakeIdentity) session(email string) *model.Session {
	token := "token-" + email
	user := model.User{ID: "id-" + email, Email: email}
	f.users[token] = user
	return &model.Session{AccessToken: token, User: user}
}

func (f *fakeIdentity) SignInWithPassword(ctx context.Context, email, password string) (*model.Session, error) {
	f.mu.Lock()
	f.signInCalls++
	started, gate := f.signInStarted, f.signInGate
	f.mu.Unlock()

	if started != nil {
		close(started)
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.session(email), nil
}

func (f *fakeIdentity) SignUp(ctx context.Context, email, password string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signUpCalls++
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return &model.User{ID: "id-" + email, Email: email}, nil
}

func (f *fakeIdentity) AuthorizeURL(provider, redirectTo, verifier string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifiers = append(f.verifiers, verifier)
	return fmt.Sprintf("https://idp.test/authorize?provider=%s&redirect_to=%s", provider, redirectTo)
}

func (f *fakeIdentity) ExchangeCode(ctx context.Context, code, verifier string) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exchanged = append(f.exchanged, verifier)
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return f.session("oauth@test.com"), nil
}

func (f *fakeIdentity) GetUser(ctx context.Context, accessToken string) (*model.User, error) {
	f.mu.Lock()
	f.getUserCalls++
	err := f.getUserErr
	user, ok := f.users[accessToken]
	f.mu.Unlock()

	if err == nil && !ok {
		err = &identity.Error{Status: http.StatusUnauthorized, Message: "invalid JWT"}
	}
	if err != nil {
		var apiErr *identity.Error
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			f.publish(identity.Event{Type: identity.EventSignedOut, AccessToken: accessToken})
			return nil, fmt.Errorf("%w: %s", identity.ErrSessionRevoked, apiErr.Message)
		}
		return nil, err
	}
	return &user, nil
}

func (f *fakeIdentity) SignOut(ctx context.Context, accessToken string) error {
	f.mu.Lock()
	f.signOutCalls = append(f.signOutCalls, accessToken)
	err := f.signOutErr
	f.mu.Unlock()

	f.publish(identity.Event{Type: identity.EventSignedOut, AccessToken: accessToken})
	return err
}

func (f *fakeIdentity) Subscribe(fn func(identity.Event)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, fn)
	return func() {}
}

func (f *fakeIdentity) publish(e identity.Event) {
	f.mu.Lock()
	subs := append([]func(identity.Event){}, f.subs...)
	f.mu.Unlock()

	for _, fn := range subs {
		fn(e)
	}
}

type fakePlans struct {
	mu    sync.Mutex
	plans map[string]model.Plan
	calls int
}

func (f *fakePlans) Plan(ctx context.Context, email string) model.Plan {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if plan, ok := f.plans[email]; ok {
		return plan
	}
	return model.PlanFree
}

func (f *fakePlans) set(email string, plan model.Plan) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plans[email] = plan
}

type fakeCheckout struct {
	mu          sync.Mutex
	now         func() time.Time
	openErr     error
	completeErr error
	opens       int
	completes   int
	lastCB      payment.Callback
}

func (f *fakeCheckout) Open(ctx context.Context, email string) (*payment.CheckoutOptions, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opens++
	if f.openErr != nil {
		return nil, f.openErr
	}
	return &payment.CheckoutOptions{
		Key:          "rzp_test",
		Amount:       payment.DefaultProduct.Amount,
		Currency:     payment.DefaultProduct.Currency,
		OrderID:      fmt.Sprintf("order_%d", f.opens),
		PrefillEmail: email,
	}, nil
}

func (f *fakeCheckout) Complete(ctx context.Context, email, orderID string, cb payment.Callback) (*model.EntitlementRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completes++
	f.lastCB = cb
	if f.completeErr != nil {
		return nil, f.completeErr
	}
	now := f.now()
	return &model.EntitlementRecord{Email: email, Expiry: now.AddDate(0, 1, 0), UpdatedAt: now}, nil
}

type fakeSolver struct {
	mu     sync.Mutex
	answer string
	err    error
	calls  int

	started chan struct{}
	gate    chan struct{}
}

func (f *fakeSolver) Solve(ctx context.Context, payload canvas.Payload) (string, error) {
	f.mu.Lock()
	f.calls++
	started, gate := f.started, f.gate
	f.mu.Unlock()

	if started != nil {
		close(started)
		<-gate
	}

	if payload.MIMEType != "image/png" || len(payload.Data) == 0 {
		return "", errors.New("bad payload")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.answer, f.err
}

type fixture struct {
	controller *Controller
	identity   *fakeIdentity
	plans      *fakePlans
	checkout   *fakeCheckout
	solver     *fakeSolver
	clock      *clock
	sm         *scs.SessionManager
	store      *sessionstore.Store
}

func newFixture(t *testing.T, requirePremium bool) *fixture {
	t.Helper()

	clk := &clock{now: testStart}
	sm := sessionstore.NewSessionManager(time.Hour)
	f := &fixture{
		identity: newFakeIdentity(),
		plans:    &fakePlans{plans: make(map[string]model.Plan)},
		checkout: &fakeCheckout{now: clk.Now},
		solver:   &fakeSolver{answer: "x = 4"},
		clock:    clk,
		sm:       sm,
		store:    sessionstore.New(sm),
	}
	f.controller = NewController(f.identity, f.store, f.plans, f.checkout, f.solver, Options{
		RequirePremium:   requirePremium,
		OAuthRedirectURL: "http://localhost:50053/",
		CanvasWidth:      64,
		CanvasHeight:     64,
		Now:              clk.Now,
	})
	t.Cleanup(f.controller.Close)
	return f
}

// newTab returns a request context bound to a fresh browser tab
func (f *fixture) newTab(t *testing.T) context.Context {
	t.Helper()

	ctx, err := f.sm.Load(context.Background(), "")
	require.NoError(t, err)
	return ctx
}

// peek reads a tab's state without running the view mount
func (f *fixture) peek(ctx context.Context) State {
	return f.controller.state(f.controller.tabs.get(f.store.TabID(ctx), f.clock.Now()))
}

func (f *fixture) signIn(t *testing.T, ctx context.Context, email string) State {
	t.Helper()

	state, err := f.controller.SignIn(ctx, email, "password")
	require.NoError(t, err)
	require.Equal(t, model.AuthAuthenticated, state.Auth)
	return state
}

func testStroke() canvas.Stroke {
	return canvas.Stroke{
		Color:  canvas.Pen,
		Radius: 3,
		Points: []canvas.Point{{X: 10, Y: 10}, {X: 40, Y: 30}},
	}
}

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}
