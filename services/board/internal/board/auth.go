package board

import (
	"context"
	"errors"

	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/identity"
	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/model"
)

var errMissingVerifier = errors.New("no pending OAuth sign-in")

// SignIn authenticates with email and password
func (c *Controller) SignIn(ctx context.Context, email, password string) (State, error) {
	t, _ := c.enter(ctx)

	generation, err := c.beginAuth(t, false)
	if err != nil {
		return c.state(t), err
	}

	session, err := c.identity.SignInWithPassword(ctx, email, password)
	if err != nil {
		return c.failAuth(t, generation, "password", err)
	}

	return c.finishAuth(ctx, t, generation, session, email, "password")
}

// SignUp registers an account. It does not sign the tab in; the provider
// confirms the address first.
func (c *Controller) SignUp(ctx context.Context, email, password, confirm string) (string, error) {
	c.enter(ctx)

	if password != confirm {
		return "", &AuthError{Message: MsgPasswordMismatch, Err: ErrPasswordMismatch}
	}

	if _, err := c.identity.SignUp(ctx, email, password); err != nil {
		return "", authError(err)
	}
	return MsgSignUpComplete, nil
}

// StartOAuth begins a provider redirect and returns the URL to send the
// browser to. The PKCE verifier stays in the tab session.
func (c *Controller) StartOAuth(ctx context.Context) (string, error) {
	t, _ := c.enter(ctx)

	if _, err := c.beginAuth(t, true); err != nil {
		return "", err
	}

	verifier := identity.NewVerifier()
	c.sessions.PutVerifier(ctx, verifier)
	return c.identity.AuthorizeURL(c.oauthProvider, c.redirectURL, verifier), nil
}

// CompleteOAuth finishes a provider redirect. providerErr is the error
// description the provider sent back instead of a code, if any.
func (c *Controller) CompleteOAuth(ctx context.Context, code, providerErr string) (State, error) {
	t, _ := c.enter(ctx)
	verifier := c.sessions.PopVerifier(ctx)

	t.mu.Lock()
	t.oauthPending = false
	if t.auth == model.AuthAnonymous {
		_ = t.transition(model.AuthAuthenticating)
	}
	if t.auth != model.AuthAuthenticating {
		err := transitionError(t.auth, model.AuthAuthenticated)
		t.mu.Unlock()
		return c.state(t), err
	}
	generation := t.generation
	t.mu.Unlock()

	if providerErr != "" {
		return c.failAuth(t, generation, "oauth", &AuthError{Message: providerErr})
	}
	if verifier == "" {
		return c.failAuth(t, generation, "oauth", errMissingVerifier)
	}

	session, err := c.identity.ExchangeCode(ctx, code, verifier)
	if err != nil {
		return c.failAuth(t, generation, "oauth", err)
	}

	return c.finishAuth(ctx, t, generation, session, "", "oauth")
}

// SignOut ends the session. The provider call is best effort; the stored
// session, the drawing and the response are always cleared.
func (c *Controller) SignOut(ctx context.Context) State {
	t, stored := c.enter(ctx)

	t.mu.Lock()
	if t.auth == model.AuthAuthenticated {
		_ = t.transition(model.AuthLoggingOut)
	}
	t.mu.Unlock()

	if stored != nil {
		if err := c.identity.SignOut(ctx, stored.AccessToken); err != nil {
			c.logger.Warn("provider sign-out failed", "tab", t.id, "error", err)
		}
	}

	c.purge(ctx, t, "user")
	return c.state(t)
}

// beginAuth moves the tab to AUTHENTICATING, rejecting a second attempt
// while one is in flight. A page back from an abandoned redirect may start over.
// It returns the tab generation the attempt belongs to.
func (c *Controller) beginAuth(t *tab, oauth bool) (uint64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.auth == model.AuthAuthenticating {
		if !t.oauthPending {
			return 0, ErrBusy
		}
		t.auth = model.AuthAnonymous
	}
	if err := t.transition(model.AuthAuthenticating); err != nil {
		return 0, err
	}
	t.oauthPending = oauth
	return t.generation, nil
}

func (c *Controller) failAuth(t *tab, generation uint64, method string, err error) (State, error) {
	t.mu.Lock()
	if t.generation == generation && t.auth == model.AuthAuthenticating {
		_ = t.transition(model.AuthAnonymous)
	}
	t.mu.Unlock()

	c.metrics.SignIns.WithLabelValues(method, "failure").Inc()
	c.logger.Info("sign-in failed", "tab", t.id, "method", method, "error", err)
	return c.state(t), authError(err)
}

// finishAuth stores the provider session and signs the tab in, unless the
// tab was signed out while the provider answered. A discarded session is
// ended at the provider.
func (c *Controller) finishAuth(ctx context.Context, t *tab, generation uint64, session *model.Session, fallbackEmail, method string) (State, error) {
	email := session.Email()
	if email == "" {
		email = fallbackEmail
	}

	t.mu.Lock()
	if t.generation != generation {
		t.mu.Unlock()
		c.discardSession(ctx, t, session, method)
		return c.state(t), ErrNotAuthenticated
	}
	if err := c.sessions.Save(ctx, session); err != nil {
		t.mu.Unlock()
		return c.failAuth(t, generation, method, err)
	}
	err := t.signedIn(email)
	t.mu.Unlock()
	if err != nil {
		return c.state(t), err
	}

	c.metrics.SignIns.WithLabelValues(method, "success").Inc()
	c.logger.Info("signed in", "tab", t.id, "method", method)

	c.refreshPlan(ctx, t)
	return c.state(t), nil
}

func (c *Controller) discardSession(ctx context.Context, t *tab, session *model.Session, method string) {
	c.metrics.SignIns.WithLabelValues(method, "discarded").Inc()
	c.logger.Info("sign-in answered after sign-out, discarding", "tab", t.id, "method", method)

	if err := c.identity.SignOut(ctx, session.AccessToken); err != nil {
		c.logger.Warn("failed to end discarded session", "tab", t.id, "error", err)
	}
}

// authError keeps the provider's message and hides transport details
func authError(err error) error {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr
	}

	msg := MsgAuthFailed
	var apiErr *identity.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		msg = apiErr.Message
	}
	return &AuthError{Message: msg, Err: err}
}
