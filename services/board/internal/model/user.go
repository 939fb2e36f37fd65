package model

import "time"

// User represents the identity returned by the auth provider
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role,omitempty"`
	Provider  string    `json:"provider,omitempty"` // email, google
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Session is the authenticated identity and access token of a tab
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         User
}

// Email returns the session's email, or "" for a nil session
func (s *Session) Email() string {
	if s == nil {
		return ""
	}
	return s.User.Email
}
