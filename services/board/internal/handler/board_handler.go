package handler

import (
	"context"
	"errors"

	"connectrpc.com/connect"
	boardv1 "github.com/KrishPatel1605/AI-magine-Board-Web/pkg/board/v1"
	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/board"
	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/canvas"
	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/payment"
)

// Controller is the per-tab view controller
type Controller interface {
	GetState(ctx context.Context) board.State
	SignIn(ctx context.Context, email, password string) (board.State, error)
	SignUp(ctx context.Context, email, password, confirm string) (string, error)
	StartOAuth(ctx context.Context) (string, error)
	CompleteOAuth(ctx context.Context, code, providerErr string) (board.State, error)
	SignOut(ctx context.Context) board.State
	AddStroke(ctx context.Context, stroke canvas.Stroke) (board.State, error)
	Undo(ctx context.Context) (board.State, error)
	ResetCanvas(ctx context.Context) (board.State, error)
	Solve(ctx context.Context) (board.State, error)
	StartCheckout(ctx context.Context) (*payment.CheckoutOptions, error)
	CompleteCheckout(ctx context.Context, cb payment.Callback) (board.State, error)
	CancelCheckout(ctx context.Context) board.State
}

// BoardHandler implements the BoardService
type BoardHandler struct {
	controller Controller
}

// NewBoardHandler creates a new BoardHandler
func NewBoardHandler(controller Controller) *BoardHandler {
	return &BoardHandler{controller: controller}
}

// GetState returns the tab state after a view mount
func (h *BoardHandler) GetState(
	ctx context.Context,
	req *connect.Request[boardv1.GetStateRequest],
) (*connect.Response[boardv1.GetStateResponse], error) {
	state := h.controller.GetState(ctx)
	return connect.NewResponse(&boardv1.GetStateResponse{State: toProtoState(state)}), nil
}

// SignIn signs the tab in with email and password
func (h *BoardHandler) SignIn(
	ctx context.Context,
	req *connect.Request[boardv1.SignInRequest],
) (*connect.Response[boardv1.SignInResponse], error) {
	state, err := h.controller.SignIn(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&boardv1.SignInResponse{State: toProtoState(state)}), nil
}

// SignUp registers a new account
func (h *BoardHandler) SignUp(
	ctx context.Context,
	req *connect.Request[boardv1.SignUpRequest],
) (*connect.Response[boardv1.SignUpResponse], error) {
	msg, err := h.controller.SignUp(ctx, req.Msg.Email, req.Msg.Password, req.Msg.ConfirmPassword)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&boardv1.SignUpResponse{Message: msg}), nil
}

// StartOAuth returns the provider URL the page should navigate to
func (h *BoardHandler) StartOAuth(
	ctx context.Context,
	req *connect.Request[boardv1.StartOAuthRequest],
) (*connect.Response[boardv1.StartOAuthResponse], error) {
	url, err := h.controller.StartOAuth(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&boardv1.StartOAuthResponse{URL: url}), nil
}

// CompleteOAuth finishes a provider redirect. The page calls it with the
// query the provider sent it back with.
func (h *BoardHandler) CompleteOAuth(
	ctx context.Context,
	req *connect.Request[boardv1.CompleteOAuthRequest],
) (*connect.Response[boardv1.CompleteOAuthResponse], error) {
	state, err := h.controller.CompleteOAuth(ctx, req.Msg.Code, req.Msg.ErrorDescription)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&boardv1.CompleteOAuthResponse{State: toProtoState(state)}), nil
}

// SignOut ends the session and clears the drawing
func (h *BoardHandler) SignOut(
	ctx context.Context,
	req *connect.Request[boardv1.SignOutRequest],
) (*connect.Response[boardv1.SignOutResponse], error) {
	state := h.controller.SignOut(ctx)
	return connect.NewResponse(&boardv1.SignOutResponse{State: toProtoState(state)}), nil
}

// AddStroke appends a brush stroke
func (h *BoardHandler) AddStroke(
	ctx context.Context,
	req *connect.Request[boardv1.AddStrokeRequest],
) (*connect.Response[boardv1.AddStrokeResponse], error) {
	state, err := h.controller.AddStroke(ctx, fromProtoStroke(req.Msg.Stroke))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&boardv1.AddStrokeResponse{State: toProtoState(state)}), nil
}

// Undo removes the last stroke
func (h *BoardHandler) Undo(
	ctx context.Context,
	req *connect.Request[boardv1.UndoRequest],
) (*connect.Response[boardv1.UndoResponse], error) {
	state, err := h.controller.Undo(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&boardv1.UndoResponse{State: toProtoState(state)}), nil
}

// ResetCanvas clears the drawing and the response
func (h *BoardHandler) ResetCanvas(
	ctx context.Context,
	req *connect.Request[boardv1.ResetCanvasRequest],
) (*connect.Response[boardv1.ResetCanvasResponse], error) {
	state, err := h.controller.ResetCanvas(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&boardv1.ResetCanvasResponse{State: toProtoState(state)}), nil
}

// Solve sends the drawing to the model
func (h *BoardHandler) Solve(
	ctx context.Context,
	req *connect.Request[boardv1.SolveRequest],
) (*connect.Response[boardv1.SolveResponse], error) {
	state, err := h.controller.Solve(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&boardv1.SolveResponse{State: toProtoState(state)}), nil
}

// StartCheckout opens the payment overlay
func (h *BoardHandler) StartCheckout(
	ctx context.Context,
	req *connect.Request[boardv1.StartCheckoutRequest],
) (*connect.Response[boardv1.StartCheckoutResponse], error) {
	opts, err := h.controller.StartCheckout(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&boardv1.StartCheckoutResponse{Options: toProtoCheckoutOptions(opts)}), nil
}

// CompleteCheckout settles a successful payment
func (h *BoardHandler) CompleteCheckout(
	ctx context.Context,
	req *connect.Request[boardv1.CompleteCheckoutRequest],
) (*connect.Response[boardv1.CompleteCheckoutResponse], error) {
	state, err := h.controller.CompleteCheckout(ctx, payment.Callback{
		OrderID:   req.Msg.OrderID,
		PaymentID: req.Msg.PaymentID,
		Signature: req.Msg.Signature,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&boardv1.CompleteCheckoutResponse{State: toProtoState(state)}), nil
}

// CancelCheckout releases a dismissed overlay
func (h *BoardHandler) CancelCheckout(
	ctx context.Context,
	req *connect.Request[boardv1.CancelCheckoutRequest],
) (*connect.Response[boardv1.CancelCheckoutResponse], error) {
	state := h.controller.CancelCheckout(ctx)
	return connect.NewResponse(&boardv1.CancelCheckoutResponse{State: toProtoState(state)}), nil
}

// toConnectError maps controller errors onto Connect codes
func toConnectError(err error) error {
	var (
		authErr  *board.AuthError
		writeErr *board.PaymentWriteError
		solveErr *board.SolveError
	)

	switch {
	case errors.Is(err, board.ErrPasswordMismatch),
		errors.Is(err, canvas.ErrInvalidStroke),
		errors.Is(err, payment.ErrSignatureMismatch),
		errors.Is(err, payment.ErrOrderMismatch):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.As(err, &authErr), errors.Is(err, board.ErrNotAuthenticated):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, board.ErrUpgradeRequired):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, board.ErrBusy),
		errors.Is(err, board.ErrInvalidTransition),
		errors.Is(err, board.ErrEmptyCanvas),
		errors.Is(err, board.ErrAlreadyPremium),
		errors.Is(err, board.ErrNoCheckout):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.As(err, &writeErr):
		return connect.NewError(connect.CodeInternal, errors.New(writeErr.Error()))
	case errors.As(err, &solveErr):
		return connect.NewError(connect.CodeUnavailable, errors.New(solveErr.Error()))
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// Helper function to convert a tab snapshot to its wire form
func toProtoState(s board.State) *boardv1.State {
	return &boardv1.State{
		TabID:        s.TabID,
		Auth:         string(s.Auth),
		Email:        s.Email,
		Plan:         string(s.Plan),
		Response:     s.Response,
		Strokes:      int32(s.Strokes),
		SolveBusy:    s.SolveBusy,
		CheckoutBusy: s.CheckoutBusy,
	}
}

// Helper function to convert a wire stroke to the canvas type
func fromProtoStroke(s *boardv1.Stroke) canvas.Stroke {
	if s == nil {
		return canvas.Stroke{}
	}
	points := make([]canvas.Point, 0, len(s.Points))
	for _, p := range s.Points {
		points = append(points, canvas.Point{X: p.X, Y: p.Y})
	}
	return canvas.Stroke{Color: s.Color, Radius: s.Radius, Points: points}
}

// Helper function to convert checkout options to the overlay's shape
func toProtoCheckoutOptions(o *payment.CheckoutOptions) *boardv1.CheckoutOptions {
	return &boardv1.CheckoutOptions{
		Key:         o.Key,
		Amount:      o.Amount,
		Currency:    o.Currency,
		Name:        o.Name,
		Description: o.Description,
		OrderID:     o.OrderID,
		Prefill:     boardv1.Prefill{Email: o.PrefillEmail},
		Theme:       boardv1.Theme{Color: o.ThemeColor},
	}
}
