// Package boardv1 holds the messages of the board.v1.BoardService API.
// Messages travel as JSON; see Codec. Their schema and validation rules
// are declared in board.textproto; see Schema.
package boardv1

// State is the tab snapshot every mutating call answers with
type State struct {
	TabID        string `json:"tabId"`
	Auth         string `json:"auth"`
	Email        string `json:"email,omitempty"`
	Plan         string `json:"plan"`
	Response     string `json:"response"`
	Strokes      int32  `json:"strokes"`
	SolveBusy    bool   `json:"solveBusy"`
	CheckoutBusy bool   `json:"checkoutBusy"`
}

type GetStateRequest struct{}

type GetStateResponse struct {
	State *State `json:"state"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInResponse struct {
	State *State `json:"state"`
}

type SignUpRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type SignUpResponse struct {
	Message string `json:"message"`
}

type StartOAuthRequest struct{}

type StartOAuthResponse struct {
	URL string `json:"url"`
}

// CompleteOAuthRequest carries the query of the provider's redirect back
// to the page: a code, or the error the provider reported instead.
type CompleteOAuthRequest struct {
	Code             string `json:"code"`
	ErrorDescription string `json:"error_description"`
}

type CompleteOAuthResponse struct {
	State *State `json:"state"`
}

type SignOutRequest struct{}

type SignOutResponse struct {
	State *State `json:"state"`
}

// Point is a position in canvas pixels
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is one continuous brush movement
type Stroke struct {
	Color  string  `json:"color"`
	Radius float64 `json:"radius"`
	Points []Point `json:"points"`
}

type AddStrokeRequest struct {
	Stroke *Stroke `json:"stroke"`
}

type AddStrokeResponse struct {
	State *State `json:"state"`
}

type UndoRequest struct{}

type UndoResponse struct {
	State *State `json:"state"`
}

type ResetCanvasRequest struct{}

type ResetCanvasResponse struct {
	State *State `json:"state"`
}

type SolveRequest struct{}

type SolveResponse struct {
	State *State `json:"state"`
}

type StartCheckoutRequest struct{}

// CheckoutOptions is handed verbatim to the payment overlay
type CheckoutOptions struct {
	Key         string  `json:"key"`
	Amount      int64   `json:"amount"`
	Currency    string  `json:"currency"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	OrderID     string  `json:"order_id"`
	Prefill     Prefill `json:"prefill"`
	Theme       Theme   `json:"theme"`
}

type Prefill struct {
	Email string `json:"email"`
}

type Theme struct {
	Color string `json:"color"`
}

type StartCheckoutResponse struct {
	Options *CheckoutOptions `json:"options"`
}

// CompleteCheckoutRequest carries the overlay's success handler arguments
type CompleteCheckoutRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

type CompleteCheckoutResponse struct {
	State *State `json:"state"`
}

type CancelCheckoutRequest struct{}

type CancelCheckoutResponse struct {
	State *State `json:"state"`
}
