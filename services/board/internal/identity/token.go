package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry reads the exp claim of an access token without verifying
// its signature. Only the provider can vouch for a token; this is used to
// decide whether a stored session is worth trusting while the provider
// is unreachable.
func TokenExpiry(accessToken string) (time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}, fmt.Errorf("failed to parse access token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("access token has no expiry")
	}
	return claims.ExpiresAt.Time, nil
}
