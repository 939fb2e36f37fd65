package model

import (
	"strings"
	"time"
)

// Plan is the derived paid-feature status of a user
type Plan string

const (
	PlanChecking Plan = "Checking"
	PlanFree     Plan = "Free"
	PlanPremium  Plan = "Premium"
)

// EntitlementRecord grants Premium until Expiry
type EntitlementRecord struct {
	Email     string
	Expiry    time.Time
	UpdatedAt time.Time
}

// PlanAt derives the plan for an expiry at the given instant.
// An expiry equal to now is already expired.
func PlanAt(expiry, now time.Time) Plan {
	if expiry.After(now) {
		return PlanPremium
	}
	return PlanFree
}

// NormalizeEmail returns the lookup key for an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
