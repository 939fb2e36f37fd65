package model

// AuthState is a tab's position in the session lifecycle
type AuthState string

const (
	AuthAnonymous      AuthState = "ANONYMOUS"
	AuthAuthenticating AuthState = "AUTHENTICATING"
	AuthAuthenticated  AuthState = "AUTHENTICATED"
	AuthLoggingOut     AuthState = "LOGGING_OUT"
)

var authTransitions = map[AuthState][]AuthState{
	AuthAnonymous:      {AuthAuthenticating, AuthAuthenticated},
	AuthAuthenticating: {AuthAuthenticated, AuthAnonymous},
	AuthAuthenticated:  {AuthLoggingOut},
	AuthLoggingOut:     {AuthAnonymous},
}

// CanTransition reports whether the lifecycle allows moving from s to next.
// ANONYMOUS -> AUTHENTICATED is the restore path taken at start.
func (s AuthState) CanTransition(next AuthState) bool {
	for _, allowed := range authTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
