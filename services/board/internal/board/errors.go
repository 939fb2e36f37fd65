package board

import (
	"errors"
	"fmt"

	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/model"
)

// Fixed user-facing texts
const (
	MsgUpgradeRequired    = "Upgrade to Premium to use AImagine Board's solver."
	MsgNoProblem          = "No Problem Provided!"
	MsgSolveFailed        = "Something went wrong. Please try again."
	MsgPaymentWriteFailed = "Payment recorded but upgrade failed. Please try again."
	MsgPasswordMismatch   = "Passwords do not match"
	MsgSignUpComplete     = "Signup successful! Please check your email to verify your account."
	MsgAuthFailed         = "An error occurred"
)

var (
	// ErrBusy is returned when the same kind of operation is already in flight for the tab
	ErrBusy = errors.New("operation already in progress")

	// ErrNotAuthenticated is returned by operations that need a signed-in tab
	ErrNotAuthenticated = errors.New("not signed in")

	// ErrUpgradeRequired is returned when a Free or Checking plan tries to solve
	ErrUpgradeRequired = errors.New(MsgUpgradeRequired)

	// ErrEmptyCanvas is returned when there is nothing to solve
	ErrEmptyCanvas = errors.New(MsgNoProblem)

	// ErrAlreadyPremium is returned when checkout is opened on a Premium plan
	ErrAlreadyPremium = errors.New("plan is already Premium")

	// ErrNoCheckout is returned when a payment callback has no open checkout
	ErrNoCheckout = errors.New("no checkout in progress")

	// ErrPasswordMismatch is returned when sign-up's two passwords differ
	ErrPasswordMismatch = errors.New(MsgPasswordMismatch)

	// ErrInvalidTransition is returned for a lifecycle move the state machine forbids
	ErrInvalidTransition = errors.New("invalid auth state transition")
)

// AuthError carries the provider's message for inline display
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// PaymentWriteError means the payment went through but the entitlement was not saved
type PaymentWriteError struct {
	Err error
}

func (e *PaymentWriteError) Error() string {
	return MsgPaymentWriteFailed
}

func (e *PaymentWriteError) Unwrap() error {
	return e.Err
}

// SolveError wraps any failure of the generative model call
type SolveError struct {
	Err error
}

func (e *SolveError) Error() string {
	return MsgSolveFailed
}

func (e *SolveError) Unwrap() error {
	return e.Err
}

func transitionError(from, to model.AuthState) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
