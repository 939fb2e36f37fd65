package board

import (
	"sync"
	"time"

	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/canvas"
	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/model"
)

// State is a snapshot of one tab, safe to hand out
type State struct {
	TabID        string
	Auth         model.AuthState
	Email        string
	Plan         model.Plan
	Response     string
	Strokes      int
	SolveBusy    bool
	CheckoutBusy bool
}

// tab holds everything the page would keep in memory.
// All fields are guarded by mu, which is never held across outbound calls.
type tab struct {
	mu sync.Mutex

	id        string
	auth      model.AuthState
	email     string
	plan      model.Plan
	planEmail string
	canvas    *canvas.Canvas
	response  string

	// oauthPending is set while the page is away at the identity provider
	oauthPending bool

	solveBusy     bool
	checkoutBusy  bool
	checkoutOrder string

	// generation changes on every purge so late replies can be discarded
	generation uint64

	lastSeen time.Time
}

func (t *tab) transition(next model.AuthState) error {
	if !t.auth.CanTransition(next) {
		return transitionError(t.auth, next)
	}
	t.auth = next
	return nil
}

// signedIn moves the tab to AUTHENTICATED for email.
// A different email invalidates the cached plan.
func (t *tab) signedIn(email string) error {
	if err := t.transition(model.AuthAuthenticated); err != nil {
		return err
	}
	t.oauthPending = false
	if t.email != email {
		t.plan = model.PlanChecking
		t.planEmail = ""
	}
	t.email = email
	return nil
}

// purge drops the session side of the tab together with the drawing
func (t *tab) purge() {
	t.auth = model.AuthAnonymous
	t.email = ""
	t.plan = model.PlanFree
	t.planEmail = ""
	t.oauthPending = false
	t.canvas.Clear()
	t.response = ""
	t.checkoutBusy = false
	t.checkoutOrder = ""
	t.generation++
}

func (t *tab) snapshot() State {
	return State{
		TabID:        t.id,
		Auth:         t.auth,
		Email:        t.email,
		Plan:         t.plan,
		Response:     t.response,
		Strokes:      t.canvas.Len(),
		SolveBusy:    t.solveBusy,
		CheckoutBusy: t.checkoutBusy,
	}
}

// registry maps tab IDs to their in-memory state
type registry struct {
	mu        sync.Mutex
	tabs      map[string]*tab
	newCanvas func() *canvas.Canvas
}

func newRegistry(newCanvas func() *canvas.Canvas) *registry {
	return &registry{
		tabs:      make(map[string]*tab),
		newCanvas: newCanvas,
	}
}

// get returns the tab for id, creating an anonymous one on first use
func (r *registry) get(id string, now time.Time) *tab {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tabs[id]
	if !ok {
		t = &tab{
			id:     id,
			auth:   model.AuthAnonymous,
			plan:   model.PlanFree,
			canvas: r.newCanvas(),
		}
		r.tabs[id] = t
	}

	t.mu.Lock()
	t.lastSeen = now
	t.mu.Unlock()
	return t
}

// evictIdle removes tabs not seen since cutoff and returns how many it removed
func (r *registry) evictIdle(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, t := range r.tabs {
		t.mu.Lock()
		idle := t.lastSeen.Before(cutoff) && !t.solveBusy && !t.checkoutBusy
		t.mu.Unlock()
		if idle {
			delete(r.tabs, id)
			removed++
		}
	}
	return removed
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tabs)
}

// revocations remembers access tokens the provider has signed out
type revocations struct {
	mu     sync.Mutex
	tokens map[string]time.Time
}

func newRevocations() *revocations {
	return &revocations{tokens: make(map[string]time.Time)}
}

// add records token as revoked until forgetAfter
func (r *revocations) add(token string, forgetAfter time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = forgetAfter
}

func (r *revocations) remove(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
}

func (r *revocations) has(token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.tokens[token]
	return ok
}

// prune forgets revocations whose token has expired anyway
func (r *revocations) prune(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for token, until := range r.tokens {
		if !until.After(now) {
			delete(r.tokens, token)
			removed++
		}
	}
	return removed
}

func (r *revocations) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}
