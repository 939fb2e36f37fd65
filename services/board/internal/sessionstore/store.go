// Package sessionstore keeps a tab's session in tab scoped storage: an scs
// session named by a token the page holds in sessionStorage, so it lives
// as long as the tab and is never shared with another tab.
package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/model"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/google/uuid"
)

// Well-known keys inside the tab session
const (
	TokenKey    = "board_token"
	UserKey     = "board_user"
	tabKey      = "board_tab"
	verifierKey = "board_pkce_verifier"
)

var (
	// ErrNoSession is returned when the tab holds no session
	ErrNoSession = errors.New("no session stored")

	// ErrCorruptUser is returned when the stored user cannot be decoded
	ErrCorruptUser = errors.New("stored user is not valid")
)

// NewSessionManager creates the scs manager backing tab storage.
// Sessions are loaded by token, never from a cookie.
func NewSessionManager(idleTimeout time.Duration) *scs.SessionManager {
	sm := scs.New()
	sm.Store = memstore.New()
	sm.IdleTimeout = idleTimeout
	sm.Lifetime = 24 * time.Hour
	return sm
}

// Store reads and writes the session values of the tab bound to a context.
// Contexts must come from the manager's Load.
type Store struct {
	sm *scs.SessionManager
}

// New creates a Store over a session manager
func New(sm *scs.SessionManager) *Store {
	return &Store{sm: sm}
}

// Save persists the access token and the serialized user
func (s *Store) Save(ctx context.Context, session *model.Session) error {
	if session == nil || session.AccessToken == "" {
		return fmt.Errorf("failed to save session: %w", ErrNoSession)
	}

	user, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	// New privilege level, new session token.
	if err := s.sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("failed to renew session token: %w", err)
	}

	s.sm.Put(ctx, TokenKey, session.AccessToken)
	s.sm.Put(ctx, UserKey, string(user))
	return nil
}

// Load returns the stored session.
// A stored user may be a JSON object or a JSON string holding only the email.
func (s *Store) Load(ctx context.Context) (*model.Session, error) {
	token := s.sm.GetString(ctx, TokenKey)
	rawUser := s.sm.GetString(ctx, UserKey)
	if token == "" || rawUser == "" {
		return nil, ErrNoSession
	}

	user, err := decodeUser(rawUser)
	if err != nil {
		return nil, err
	}

	return &model.Session{AccessToken: token, User: user}, nil
}

func decodeUser(raw string) (model.User, error) {
	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err == nil && user.Email != "" {
		return user, nil
	}

	var email string
	if err := json.Unmarshal([]byte(raw), &email); err == nil && email != "" {
		return model.User{Email: email}, nil
	}

	return model.User{}, ErrCorruptUser
}

// Clear removes both session values and any pending OAuth verifier
func (s *Store) Clear(ctx context.Context) {
	s.sm.Remove(ctx, TokenKey)
	s.sm.Remove(ctx, UserKey)
	s.sm.Remove(ctx, verifierKey)
}

// TabID returns the tab's stable identifier, creating it on first use
func (s *Store) TabID(ctx context.Context) string {
	if id := s.sm.GetString(ctx, tabKey); id != "" {
		return id
	}
	id := uuid.NewString()
	s.sm.Put(ctx, tabKey, id)
	return id
}

// PutVerifier stores the PKCE verifier of a pending OAuth redirect
func (s *Store) PutVerifier(ctx context.Context, verifier string) {
	s.sm.Put(ctx, verifierKey, verifier)
}

// PopVerifier returns and removes the pending PKCE verifier
func (s *Store) PopVerifier(ctx context.Context) string {
	return s.sm.PopString(ctx, verifierKey)
}
