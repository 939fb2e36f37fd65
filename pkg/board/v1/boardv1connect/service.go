// Package boardv1connect wires board.v1.BoardService onto Connect.
package boardv1connect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	v1 "github.com/KrishPatel1605/AI-magine-Board-Web/pkg/board/v1"
)

// BoardServiceName is the fully-qualified name of the BoardService service.
const BoardServiceName = "board.v1.BoardService"

// Procedure paths of the BoardService RPCs.
const (
	BoardServiceGetStateProcedure         = "/board.v1.BoardService/GetState"
	BoardServiceSignInProcedure           = "/board.v1.BoardService/SignIn"
	BoardServiceSignUpProcedure           = "/board.v1.BoardService/SignUp"
	BoardServiceStartOAuthProcedure       = "/board.v1.BoardService/StartOAuth"
	BoardServiceCompleteOAuthProcedure    = "/board.v1.BoardService/CompleteOAuth"
	BoardServiceSignOutProcedure          = "/board.v1.BoardService/SignOut"
	BoardServiceAddStrokeProcedure        = "/board.v1.BoardService/AddStroke"
	BoardServiceUndoProcedure             = "/board.v1.BoardService/Undo"
	BoardServiceResetCanvasProcedure      = "/board.v1.BoardService/ResetCanvas"
	BoardServiceSolveProcedure            = "/board.v1.BoardService/Solve"
	BoardServiceStartCheckoutProcedure    = "/board.v1.BoardService/StartCheckout"
	BoardServiceCompleteCheckoutProcedure = "/board.v1.BoardService/CompleteCheckout"
	BoardServiceCancelCheckoutProcedure   = "/board.v1.BoardService/CancelCheckout"
)

// Procedures returns every procedure path of the BoardService.
func Procedures() []string {
	return []string{
		BoardServiceGetStateProcedure,
		BoardServiceSignInProcedure,
		BoardServiceSignUpProcedure,
		BoardServiceStartOAuthProcedure,
		BoardServiceCompleteOAuthProcedure,
		BoardServiceSignOutProcedure,
		BoardServiceAddStrokeProcedure,
		BoardServiceUndoProcedure,
		BoardServiceResetCanvasProcedure,
		BoardServiceSolveProcedure,
		BoardServiceStartCheckoutProcedure,
		BoardServiceCompleteCheckoutProcedure,
		BoardServiceCancelCheckoutProcedure,
	}
}

// BoardServiceHandler is implemented by the server.
type BoardServiceHandler interface {
	GetState(context.Context, *connect.Request[v1.GetStateRequest]) (*connect.Response[v1.GetStateResponse], error)
	SignIn(context.Context, *connect.Request[v1.SignInRequest]) (*connect.Response[v1.SignInResponse], error)
	SignUp(context.Context, *connect.Request[v1.SignUpRequest]) (*connect.Response[v1.SignUpResponse], error)
	StartOAuth(context.Context, *connect.Request[v1.StartOAuthRequest]) (*connect.Response[v1.StartOAuthResponse], error)
	CompleteOAuth(context.Context, *connect.Request[v1.CompleteOAuthRequest]) (*connect.Response[v1.CompleteOAuthResponse], error)
	SignOut(context.Context, *connect.Request[v1.SignOutRequest]) (*connect.Response[v1.SignOutResponse], error)
	AddStroke(context.Context, *connect.Request[v1.AddStrokeRequest]) (*connect.Response[v1.AddStrokeResponse], error)
	Undo(context.Context, *connect.Request[v1.UndoRequest]) (*connect.Response[v1.UndoResponse], error)
	ResetCanvas(context.Context, *connect.Request[v1.ResetCanvasRequest]) (*connect.Response[v1.ResetCanvasResponse], error)
	Solve(context.Context, *connect.Request[v1.SolveRequest]) (*connect.Response[v1.SolveResponse], error)
	StartCheckout(context.Context, *connect.Request[v1.StartCheckoutRequest]) (*connect.Response[v1.StartCheckoutResponse], error)
	CompleteCheckout(context.Context, *connect.Request[v1.CompleteCheckoutRequest]) (*connect.Response[v1.CompleteCheckoutResponse], error)
	CancelCheckout(context.Context, *connect.Request[v1.CancelCheckoutRequest]) (*connect.Response[v1.CancelCheckoutResponse], error)
}

// NewBoardServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself. The JSON codec is always registered.
func NewBoardServiceHandler(svc BoardServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(v1.Codec{})}, opts...)

	getStateHandler := connect.NewUnaryHandler(
		BoardServiceGetStateProcedure,
		svc.GetState,
		opts...,
	)
	signInHandler := connect.NewUnaryHandler(
		BoardServiceSignInProcedure,
		svc.SignIn,
		opts...,
	)
	signUpHandler := connect.NewUnaryHandler(
		BoardServiceSignUpProcedure,
		svc.SignUp,
		opts...,
	)
	startOAuthHandler := connect.NewUnaryHandler(
		BoardServiceStartOAuthProcedure,
		svc.StartOAuth,
		opts...,
	)
	completeOAuthHandler := connect.NewUnaryHandler(
		BoardServiceCompleteOAuthProcedure,
		svc.CompleteOAuth,
		opts...,
	)
	signOutHandler := connect.NewUnaryHandler(
		BoardServiceSignOutProcedure,
		svc.SignOut,
		opts...,
	)
	addStrokeHandler := connect.NewUnaryHandler(
		BoardServiceAddStrokeProcedure,
		svc.AddStroke,
		opts...,
	)
	undoHandler := connect.NewUnaryHandler(
		BoardServiceUndoProcedure,
		svc.Undo,
		opts...,
	)
	resetCanvasHandler := connect.NewUnaryHandler(
		BoardServiceResetCanvasProcedure,
		svc.ResetCanvas,
		opts...,
	)
	solveHandler := connect.NewUnaryHandler(
		BoardServiceSolveProcedure,
		svc.Solve,
		opts...,
	)
	startCheckoutHandler := connect.NewUnaryHandler(
		BoardServiceStartCheckoutProcedure,
		svc.StartCheckout,
		opts...,
	)
	completeCheckoutHandler := connect.NewUnaryHandler(
		BoardServiceCompleteCheckoutProcedure,
		svc.CompleteCheckout,
		opts...,
	)
	cancelCheckoutHandler := connect.NewUnaryHandler(
		BoardServiceCancelCheckoutProcedure,
		svc.CancelCheckout,
		opts...,
	)

	return "/" + BoardServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case BoardServiceGetStateProcedure:
			getStateHandler.ServeHTTP(w, r)
		case BoardServiceSignInProcedure:
			signInHandler.ServeHTTP(w, r)
		case BoardServiceSignUpProcedure:
			signUpHandler.ServeHTTP(w, r)
		case BoardServiceStartOAuthProcedure:
			startOAuthHandler.ServeHTTP(w, r)
		case BoardServiceCompleteOAuthProcedure:
			completeOAuthHandler.ServeHTTP(w, r)
		case BoardServiceSignOutProcedure:
			signOutHandler.ServeHTTP(w, r)
		case BoardServiceAddStrokeProcedure:
			addStrokeHandler.ServeHTTP(w, r)
		case BoardServiceUndoProcedure:
			undoHandler.ServeHTTP(w, r)
		case BoardServiceResetCanvasProcedure:
			resetCanvasHandler.ServeHTTP(w, r)
		case BoardServiceSolveProcedure:
			solveHandler.ServeHTTP(w, r)
		case BoardServiceStartCheckoutProcedure:
			startCheckoutHandler.ServeHTTP(w, r)
		case BoardServiceCompleteCheckoutProcedure:
			completeCheckoutHandler.ServeHTTP(w, r)
		case BoardServiceCancelCheckoutProcedure:
			cancelCheckoutHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// BoardServiceClient is a client for board.v1.BoardService.
type BoardServiceClient interface {
	GetState(context.Context, *connect.Request[v1.GetStateRequest]) (*connect.Response[v1.GetStateResponse], error)
	SignIn(context.Context, *connect.Request[v1.SignInRequest]) (*connect.Response[v1.SignInResponse], error)
	SignUp(context.Context, *connect.Request[v1.SignUpRequest]) (*connect.Response[v1.SignUpResponse], error)
	StartOAuth(context.Context, *connect.Request[v1.StartOAuthRequest]) (*connect.Response[v1.StartOAuthResponse], error)
	CompleteOAuth(context.Context, *connect.Request[v1.CompleteOAuthRequest]) (*connect.Response[v1.CompleteOAuthResponse], error)
	SignOut(context.Context, *connect.Request[v1.SignOutRequest]) (*connect.Response[v1.SignOutResponse], error)
	AddStroke(context.Context, *connect.Request[v1.AddStrokeRequest]) (*connect.Response[v1.AddStrokeResponse], error)
	Undo(context.Context, *connect.Request[v1.UndoRequest]) (*connect.Response[v1.UndoResponse], error)
	ResetCanvas(context.Context, *connect.Request[v1.ResetCanvasRequest]) (*connect.Response[v1.ResetCanvasResponse], error)
	Solve(context.Context, *connect.Request[v1.SolveRequest]) (*connect.Response[v1.SolveResponse], error)
	StartCheckout(context.Context, *connect.Request[v1.StartCheckoutRequest]) (*connect.Response[v1.StartCheckoutResponse], error)
	CompleteCheckout(context.Context, *connect.Request[v1.CompleteCheckoutRequest]) (*connect.Response[v1.CompleteCheckoutResponse], error)
	CancelCheckout(context.Context, *connect.Request[v1.CancelCheckoutRequest]) (*connect.Response[v1.CancelCheckoutResponse], error)
}

// NewBoardServiceClient constructs a client for board.v1.BoardService.
// The server keys tab state on the v1.TabHeader token; wrap the transport
// of httpClient in a v1.TabTransport to act as one tab.
func NewBoardServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BoardServiceClient {
	opts = append([]connect.ClientOption{connect.WithCodec(v1.Codec{})}, opts...)
	return &boardServiceClient{
		getState: connect.NewClient[v1.GetStateRequest, v1.GetStateResponse](
			httpClient,
			baseURL+BoardServiceGetStateProcedure,
			opts...,
		),
		signIn: connect.NewClient[v1.SignInRequest, v1.SignInResponse](
			httpClient,
			baseURL+BoardServiceSignInProcedure,
			opts...,
		),
		signUp: connect.NewClient[v1.SignUpRequest, v1.SignUpResponse](
			httpClient,
			baseURL+BoardServiceSignUpProcedure,
			opts...,
		),
		startOAuth: connect.NewClient[v1.StartOAuthRequest, v1.StartOAuthResponse](
			httpClient,
			baseURL+BoardServiceStartOAuthProcedure,
			opts...,
		),
		completeOAuth: connect.NewClient[v1.CompleteOAuthRequest, v1.CompleteOAuthResponse](
			httpClient,
			baseURL+BoardServiceCompleteOAuthProcedure,
			opts...,
		),
		signOut: connect.NewClient[v1.SignOutRequest, v1.SignOutResponse](
			httpClient,
			baseURL+BoardServiceSignOutProcedure,
			opts...,
		),
		addStroke: connect.NewClient[v1.AddStrokeRequest, v1.AddStrokeResponse](
			httpClient,
			baseURL+BoardServiceAddStrokeProcedure,
			opts...,
		),
		undo: connect.NewClient[v1.UndoRequest, v1.UndoResponse](
			httpClient,
			baseURL+BoardServiceUndoProcedure,
			opts...,
		),
		resetCanvas: connect.NewClient[v1.ResetCanvasRequest, v1.ResetCanvasResponse](
			httpClient,
			baseURL+BoardServiceResetCanvasProcedure,
			opts...,
		),
		solve: connect.NewClient[v1.SolveRequest, v1.SolveResponse](
			httpClient,
			baseURL+BoardServiceSolveProcedure,
			opts...,
		),
		startCheckout: connect.NewClient[v1.StartCheckoutRequest, v1.StartCheckoutResponse](
			httpClient,
			baseURL+BoardServiceStartCheckoutProcedure,
			opts...,
		),
		completeCheckout: connect.NewClient[v1.CompleteCheckoutRequest, v1.CompleteCheckoutResponse](
			httpClient,
			baseURL+BoardServiceCompleteCheckoutProcedure,
			opts...,
		),
		cancelCheckout: connect.NewClient[v1.CancelCheckoutRequest, v1.CancelCheckoutResponse](
			httpClient,
			baseURL+BoardServiceCancelCheckoutProcedure,
			opts...,
		),
	}
}

type boardServiceClient struct {
	getState         *connect.Client[v1.GetStateRequest, v1.GetStateResponse]
	signIn           *connect.Client[v1.SignInRequest, v1.SignInResponse]
	signUp           *connect.Client[v1.SignUpRequest, v1.SignUpResponse]
	startOAuth       *connect.Client[v1.StartOAuthRequest, v1.StartOAuthResponse]
	completeOAuth    *connect.Client[v1.CompleteOAuthRequest, v1.CompleteOAuthResponse]
	signOut          *connect.Client[v1.SignOutRequest, v1.SignOutResponse]
	addStroke        *connect.Client[v1.AddStrokeRequest, v1.AddStrokeResponse]
	undo             *connect.Client[v1.UndoRequest, v1.UndoResponse]
	resetCanvas      *connect.Client[v1.ResetCanvasRequest, v1.ResetCanvasResponse]
	solve            *connect.Client[v1.SolveRequest, v1.SolveResponse]
	startCheckout    *connect.Client[v1.StartCheckoutRequest, v1.StartCheckoutResponse]
	completeCheckout *connect.Client[v1.CompleteCheckoutRequest, v1.CompleteCheckoutResponse]
	cancelCheckout   *connect.Client[v1.CancelCheckoutRequest, v1.CancelCheckoutResponse]
}

func (c *boardServiceClient) GetState(ctx context.Context, req *connect.Request[v1.GetStateRequest]) (*connect.Response[v1.GetStateResponse], error) {
	return c.getState.CallUnary(ctx, req)
}

func (c *boardServiceClient) SignIn(ctx context.Context, req *connect.Request[v1.SignInRequest]) (*connect.Response[v1.SignInResponse], error) {
	return c.signIn.CallUnary(ctx, req)
}

func (c *boardServiceClient) SignUp(ctx context.Context, req *connect.Request[v1.SignUpRequest]) (*connect.Response[v1.SignUpResponse], error) {
	return c.signUp.CallUnary(ctx, req)
}

func (c *boardServiceClient) StartOAuth(ctx context.Context, req *connect.Request[v1.StartOAuthRequest]) (*connect.Response[v1.StartOAuthResponse], error) {
	return c.startOAuth.CallUnary(ctx, req)
}

func (c *boardServiceClient) CompleteOAuth(ctx context.Context, req *connect.Request[v1.CompleteOAuthRequest]) (*connect.Response[v1.CompleteOAuthResponse], error) {
	return c.completeOAuth.CallUnary(ctx, req)
}

func (c *boardServiceClient) SignOut(ctx context.Context, req *connect.Request[v1.SignOutRequest]) (*connect.Response[v1.SignOutResponse], error) {
	return c.signOut.CallUnary(ctx, req)
}

func (c *boardServiceClient) AddStroke(ctx context.Context, req *connect.Request[v1.AddStrokeRequest]) (*connect.Response[v1.AddStrokeResponse], error) {
	return c.addStroke.CallUnary(ctx, req)
}

func (c *boardServiceClient) Undo(ctx context.Context, req *connect.Request[v1.UndoRequest]) (*connect.Response[v1.UndoResponse], error) {
	return c.undo.CallUnary(ctx, req)
}

func (c *boardServiceClient) ResetCanvas(ctx context.Context, req *connect.Request[v1.ResetCanvasRequest]) (*connect.Response[v1.ResetCanvasResponse], error) {
	return c.resetCanvas.CallUnary(ctx, req)
}

func (c *boardServiceClient) Solve(ctx context.Context, req *connect.Request[v1.SolveRequest]) (*connect.Response[v1.SolveResponse], error) {
	return c.solve.CallUnary(ctx, req)
}

func (c *boardServiceClient) StartCheckout(ctx context.Context, req *connect.Request[v1.StartCheckoutRequest]) (*connect.Response[v1.StartCheckoutResponse], error) {
	return c.startCheckout.CallUnary(ctx, req)
}

func (c *boardServiceClient) CompleteCheckout(ctx context.Context, req *connect.Request[v1.CompleteCheckoutRequest]) (*connect.Response[v1.CompleteCheckoutResponse], error) {
	return c.completeCheckout.CallUnary(ctx, req)
}

func (c *boardServiceClient) CancelCheckout(ctx context.Context, req *connect.Request[v1.CancelCheckoutRequest]) (*connect.Response[v1.CancelCheckoutResponse], error) {
	return c.cancelCheckout.CallUnary(ctx, req)
}
