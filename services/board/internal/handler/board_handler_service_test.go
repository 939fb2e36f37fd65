package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	boardv1 "github.com/KrishPatel1605/AI-magine-Board-Web/pkg/board/v1"
	"github.com/KrishPatel1605/AI-magine-Board-Web/pkg/board/v1/boardv1connect"
	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/board"
	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/logging"
	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/payment"
	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/sessionstore"
	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/validator"
)

// newTestServer mounts the service with the interceptors main installs
func newTestServer(t *testing.T, controller *mockController) *httptest.Server {
	t.Helper()

	sm := sessionstore.NewSessionManager(time.Hour)
	controller.sessions = sessionstore.New(sm)

	descriptorBytes, err := boardv1.SchemaSet()
	if err != nil {
		t.Fatalf("SchemaSet() error = %v", err)
	}
	requestValidator, err := validator.NewSchemaValidator(descriptorBytes, boardv1.SchemaPath)
	if err != nil {
		t.Fatalf("NewSchemaValidator() error = %v", err)
	}

	mux := http.NewServeMux()
	interceptors := connect.WithInterceptors(
		NewLoggingInterceptor(logging.Discard()),
		NewTabInterceptor(sm),
		NewValidationInterceptor(requestValidator),
	)
	path, connectHandler := boardv1connect.NewBoardServiceHandler(NewBoardHandler(controller), interceptors)
	mux.Handle(path, connectHandler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// newTestClient creates a Connect client acting as one browser tab
func newTestClient(t *testing.T, server *httptest.Server) boardv1connect.BoardServiceClient {
	t.Helper()

	return newTabClient(server, &http.Client{})
}

// newTabClient gives a tab its own token on top of a browser's client
func newTabClient(server *httptest.Server, browser *http.Client) boardv1connect.BoardServiceClient {
	tab := *browser
	tab.Transport = &boardv1.TabTransport{Base: browser.Transport}
	return boardv1connect.NewBoardServiceClient(&tab, server.URL)
}

func TestSignIn_ValidationError_InvalidEmail(t *testing.T) {
	controller := &mockController{}
	client := newTestClient(t, newTestServer(t, controller))

	_, err := client.SignIn(context.Background(), connect.NewRequest(&boardv1.SignInRequest{
		Email:    "invalid-email",
		Password: "secret",
	}))
	if err == nil {
		t.Fatal("SignIn() with invalid email should fail, but got nil error")
	}

	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("error type = %T, want *connect.Error", err)
	}
	if connectErr.Code() != connect.CodeInvalidArgument {
		t.Errorf("error code = %v, want %v (InvalidArgument)", connectErr.Code(), connect.CodeInvalidArgument)
	}
	if !strings.Contains(connectErr.Message(), "email") {
		t.Errorf("error message = %q, want to name the email field", connectErr.Message())
	}
	if len(connectErr.Details()) == 0 {
		t.Error("expected the violations as an error detail")
	}
	if len(controller.calls) != 0 {
		t.Errorf("controller calls = %v, want none", controller.calls)
	}
}

func TestCompleteCheckout_ValidationError_MissingSignature(t *testing.T) {
	controller := &mockController{}
	client := newTestClient(t, newTestServer(t, controller))

	_, err := client.CompleteCheckout(context.Background(), connect.NewRequest(&boardv1.CompleteCheckoutRequest{
		OrderID:   "order_1",
		PaymentID: "pay_1",
	}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Fatalf("error code = %v, want InvalidArgument", connect.CodeOf(err))
	}
	if len(controller.calls) != 0 {
		t.Errorf("controller calls = %v, want none", controller.calls)
	}
}

func TestSignIn_AuthErrorOverTheWire(t *testing.T) {
	controller := &mockController{err: &board.AuthError{Message: "Invalid login credentials"}}
	client := newTestClient(t, newTestServer(t, controller))

	_, err := client.SignIn(context.Background(), connect.NewRequest(&boardv1.SignInRequest{
		Email:    "user@test.com",
		Password: "wrong",
	}))

	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("error type = %T, want *connect.Error", err)
	}
	if connectErr.Code() != connect.CodeUnauthenticated {
		t.Errorf("error code = %v, want Unauthenticated", connectErr.Code())
	}
	if connectErr.Message() != "Invalid login credentials" {
		t.Errorf("error message = %q, want provider message", connectErr.Message())
	}
	if controller.lastEmail != "user@test.com" {
		t.Errorf("controller got email %q", controller.lastEmail)
	}
}

func TestSolve_GatedOverTheWire(t *testing.T) {
	controller := &mockController{err: board.ErrUpgradeRequired}
	client := newTestClient(t, newTestServer(t, controller))

	_, err := client.Solve(context.Background(), connect.NewRequest(&boardv1.SolveRequest{}))

	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("error type = %T, want *connect.Error", err)
	}
	if connectErr.Code() != connect.CodePermissionDenied {
		t.Errorf("error code = %v, want PermissionDenied", connectErr.Code())
	}
	if connectErr.Message() != board.MsgUpgradeRequired {
		t.Errorf("error message = %q, want %q", connectErr.Message(), board.MsgUpgradeRequired)
	}
}

func TestTabTokenKeepsTab(t *testing.T) {
	controller := &mockController{}
	server := newTestServer(t, controller)
	ctx := context.Background()

	// Two tabs of one browser share its cookie jar but not their tokens.
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New() error = %v", err)
	}
	browser := &http.Client{Jar: jar}
	first := newTabClient(server, browser)
	second := newTabClient(server, browser)

	a, err := first.GetState(ctx, connect.NewRequest(&boardv1.GetStateRequest{}))
	if err != nil {
		t.Fatalf("GetState failed: %v", err)
	}
	b, err := first.GetState(ctx, connect.NewRequest(&boardv1.GetStateRequest{}))
	if err != nil {
		t.Fatalf("GetState failed: %v", err)
	}
	c, err := second.GetState(ctx, connect.NewRequest(&boardv1.GetStateRequest{}))
	if err != nil {
		t.Fatalf("GetState failed: %v", err)
	}

	if a.Msg.State.TabID == "" {
		t.Fatal("Expected non-empty tab ID")
	}
	if a.Header().Get(boardv1.TabHeader) == "" {
		t.Error("Expected a tab token on the first response")
	}
	if a.Msg.State.TabID != b.Msg.State.TabID {
		t.Errorf("same tab got tab IDs %q and %q", a.Msg.State.TabID, b.Msg.State.TabID)
	}
	if a.Msg.State.TabID == c.Msg.State.TabID {
		t.Errorf("tabs of one browser share tab ID %q", a.Msg.State.TabID)
	}
}

func TestTabToken_UnknownTokenStartsNewTab(t *testing.T) {
	controller := &mockController{}
	server := newTestServer(t, controller)
	client := boardv1connect.NewBoardServiceClient(&http.Client{}, server.URL)

	req := connect.NewRequest(&boardv1.GetStateRequest{})
	req.Header().Set(boardv1.TabHeader, "expired-token")
	resp, err := client.GetState(context.Background(), req)
	if err != nil {
		t.Fatalf("GetState failed: %v", err)
	}

	token := resp.Header().Get(boardv1.TabHeader)
	if token == "" || token == "expired-token" {
		t.Errorf("tab token = %q, want a newly issued token", token)
	}
	if resp.Msg.State.TabID == "" {
		t.Error("Expected non-empty tab ID")
	}
}

func TestTabToken_ReturnedOnError(t *testing.T) {
	controller := &mockController{err: board.ErrUpgradeRequired}
	server := newTestServer(t, controller)
	client := boardv1connect.NewBoardServiceClient(&http.Client{}, server.URL)

	_, err := client.Solve(context.Background(), connect.NewRequest(&boardv1.SolveRequest{}))

	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("error type = %T, want *connect.Error", err)
	}
	if connectErr.Meta().Get(boardv1.TabHeader) == "" {
		t.Error("Expected the new tab token on the error response")
	}
}

func TestCompleteOAuth_OverTheWire(t *testing.T) {
	controller := &mockController{err: &board.AuthError{Message: "User cancelled"}}
	client := newTestClient(t, newTestServer(t, controller))

	_, err := client.CompleteOAuth(context.Background(), connect.NewRequest(&boardv1.CompleteOAuthRequest{
		ErrorDescription: "User cancelled",
	}))

	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Fatalf("error code = %v, want Unauthenticated", connect.CodeOf(err))
	}
	if controller.lastOAuth != "User cancelled" || controller.lastCode != "" {
		t.Errorf("controller got code %q, provider error %q", controller.lastCode, controller.lastOAuth)
	}
}

func TestCompleteOAuth_ValidationError_Empty(t *testing.T) {
	controller := &mockController{}
	client := newTestClient(t, newTestServer(t, controller))

	_, err := client.CompleteOAuth(context.Background(), connect.NewRequest(&boardv1.CompleteOAuthRequest{}))

	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Fatalf("error code = %v, want InvalidArgument", connect.CodeOf(err))
	}
	if len(controller.calls) != 0 {
		t.Errorf("controller calls = %v, want none", controller.calls)
	}
}

func TestStartCheckout_OverlayJSON(t *testing.T) {
	controller := &mockController{options: &payment.CheckoutOptions{
		Key:          "rzp_test_key",
		Amount:       9900,
		Currency:     "INR",
		Name:         "AImagine Board",
		Description:  "Premium - 1 month",
		OrderID:      "order_1",
		PrefillEmail: "user@test.com",
		ThemeColor:   "#2563eb",
	}}
	server := newTestServer(t, controller)

	resp, err := http.Post(
		server.URL+boardv1connect.BoardServiceStartCheckoutProcedure,
		"application/json",
		strings.NewReader("{}"),
	)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Options map[string]any `json:"options"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if body.Options["order_id"] != "order_1" {
		t.Errorf("order_id = %v, want order_1", body.Options["order_id"])
	}
	if body.Options["amount"] != float64(9900) {
		t.Errorf("amount = %v, want 9900", body.Options["amount"])
	}
	prefill, _ := body.Options["prefill"].(map[string]any)
	if prefill["email"] != "user@test.com" {
		t.Errorf("prefill.email = %v, want user@test.com", prefill["email"])
	}
	theme, _ := body.Options["theme"].(map[string]any)
	if theme["color"] != "#2563eb" {
		t.Errorf("theme.color = %v, want #2563eb", theme["color"])
	}
}
