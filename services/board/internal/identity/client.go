// Package identity talks to the managed auth service (Supabase GoTrue).
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/model"
	"golang.org/x/oauth2"
)

// ErrSessionRevoked is returned when the provider rejects an access token
var ErrSessionRevoked = errors.New("session revoked by identity provider")

// Error is an error answer from the provider, e.g. bad credentials
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Client is a GoTrue REST client
type Client struct {
	baseURL string
	anonKey string
	client  *http.Client
	logger  *slog.Logger
	events  *hub
}

// NewClient creates a client for the project at baseURL (e.g.
// "https://xyz.supabase.co"). A nil httpClient uses http.DefaultClient.
func NewClient(baseURL, anonKey string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: baseURL + "/auth/v1",
		anonKey: anonKey,
		client:  httpClient,
		logger:  logger,
		events:  newHub(),
	}
}

type tokenResponse struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	ExpiresIn    int64      `json:"expires_in"`
	ExpiresAt    int64      `json:"expires_at"`
	User         gotrueUser `json:"user"`
}

type gotrueUser struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	AppMetadata struct {
		Provider string `json:"provider"`
	} `json:"app_metadata"`
}

type errorResponse struct {
	Code             any    `json:"code"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorName        string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (u gotrueUser) toModel() model.User {
	return model.User{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		Provider:  u.AppMetadata.Provider,
		CreatedAt: u.CreatedAt,
	}
}

func (t *tokenResponse) toSession() *model.Session {
	s := &model.Session{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		User:         t.User.toModel(),
	}
	switch {
	case t.ExpiresAt > 0:
		s.ExpiresAt = time.Unix(t.ExpiresAt, 0)
	case t.ExpiresIn > 0:
		s.ExpiresAt = time.Now().Add(time.Duration(t.ExpiresIn) * time.Second)
	}
	return s
}

// SignInWithPassword verifies credentials and returns a new session
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*model.Session, error) {
	var resp tokenResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=password", "", body, &resp); err != nil {
		return nil, err
	}

	session := resp.toSession()
	c.events.publish(Event{Type: EventSignedIn, AccessToken: session.AccessToken, User: session.User})
	return session, nil
}

// SignUp registers a new account. The provider usually sends a
// confirmation email before the account can sign in.
func (c *Client) SignUp(ctx context.Context, email, password string) (*model.User, error) {
	var resp struct {
		gotrueUser
		User *gotrueUser `json:"user"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/signup", "", body, &resp); err != nil {
		return nil, err
	}

	// Autoconfirm projects answer with a session wrapping the user.
	user := resp.gotrueUser
	if resp.User != nil {
		user = *resp.User
	}
	u := user.toModel()
	return &u, nil
}

// AuthorizeURL returns the OAuth redirect for provider (e.g. "google").
// The verifier must be kept until the callback calls ExchangeCode.
func (c *Client) AuthorizeURL(provider, redirectTo, verifier string) string {
	q := url.Values{}
	q.Set("provider", provider)
	q.Set("redirect_to", redirectTo)
	q.Set("code_challenge", oauth2.S256ChallengeFromVerifier(verifier))
	q.Set("code_challenge_method", "s256")
	return c.baseURL + "/authorize?" + q.Encode()
}

// NewVerifier returns a fresh PKCE code verifier
func NewVerifier() string {
	return oauth2.GenerateVerifier()
}

// ExchangeCode completes an OAuth redirect
func (c *Client) ExchangeCode(ctx context.Context, code, verifier string) (*model.Session, error) {
	var resp tokenResponse
	body := map[string]string{"auth_code": code, "code_verifier": verifier}
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=pkce", "", body, &resp); err != nil {
		return nil, err
	}

	session := resp.toSession()
	c.events.publish(Event{Type: EventSignedIn, AccessToken: session.AccessToken, User: session.User})
	return session, nil
}

// GetUser asks the provider for the live user behind an access token.
// A rejected token is reported as ErrSessionRevoked and announced to
// subscribers as a sign-out.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*model.User, error) {
	var resp gotrueUser
	err := c.do(ctx, http.MethodGet, "/user", accessToken, nil, &resp)
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden) {
			c.events.publish(Event{Type: EventSignedOut, AccessToken: accessToken})
			return nil, fmt.Errorf("%w: %s", ErrSessionRevoked, apiErr.Message)
		}
		return nil, err
	}

	u := resp.toModel()
	return &u, nil
}

// SignOut revokes the token at the provider. Subscribers are told about
// the sign-out even when the provider call fails.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	err := c.do(ctx, http.MethodPost, "/logout", accessToken, nil, nil)
	c.events.publish(Event{Type: EventSignedOut, AccessToken: accessToken})
	return err
}

// Subscribe registers fn for sign-in and sign-out events
func (c *Client) Subscribe(fn func(Event)) (unsubscribe func()) {
	return c.events.subscribe(fn)
}

func (c *Client) do(ctx context.Context, method, path, bearer string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach identity provider: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read identity response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode identity response: %w", err)
	}
	return nil
}

func decodeError(status int, data []byte) error {
	apiErr := &Error{Status: status}

	var resp errorResponse
	if err := json.Unmarshal(data, &resp); err == nil {
		apiErr.Code = resp.ErrorCode
		if apiErr.Code == "" {
			apiErr.Code = resp.ErrorName
		}
		for _, msg := range []string{resp.Msg, resp.Message, resp.ErrorDescription, resp.ErrorName} {
			if msg != "" {
				apiErr.Message = msg
				break
			}
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("identity provider error (status %d)", status)
	}
	return apiErr
}
