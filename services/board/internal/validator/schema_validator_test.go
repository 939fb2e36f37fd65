package validator

import (
	"errors"
	"strings"
	"testing"

	"buf.build/go/protovalidate"
	boardv1 "github.com/KrishPatel1605/AI-magine-Board-Web/pkg/board/v1"
	"github.com/KrishPatel1605/AI-magine-Board-Web/pkg/board/v1/boardv1connect"
)

func newTestValidator(t *testing.T) *SchemaValidator {
	t.Helper()

	descriptorBytes, err := boardv1.SchemaSet()
	if err != nil {
		t.Fatalf("SchemaSet() error = %v", err)
	}
	v, err := NewSchemaValidator(descriptorBytes, boardv1.SchemaPath)
	if err != nil {
		t.Fatalf("NewSchemaValidator() error = %v", err)
	}
	return v
}

func TestNewSchemaValidator_InvalidDescriptor(t *testing.T) {
	_, err := NewSchemaValidator([]byte("invalid descriptor data"), boardv1.SchemaPath)
	if err == nil {
		t.Fatal("expected error for invalid descriptor, got nil")
	}
}

func TestNewSchemaValidator_MissingSchemaPath(t *testing.T) {
	descriptorBytes, err := boardv1.SchemaSet()
	if err != nil {
		t.Fatalf("SchemaSet() error = %v", err)
	}
	if _, err := NewSchemaValidator(descriptorBytes, "other/v1/other.proto"); err == nil {
		t.Fatal("expected error for a path outside the descriptor set, got nil")
	}
}

func TestSchemaValidator_Validate(t *testing.T) {
	v := newTestValidator(t)
	points := []boardv1.Point{{X: 1, Y: 1}}

	tests := []struct {
		name      string
		procedure string
		msg       any
		wantErr   bool
		wantField string
	}{
		{
			name:      "valid SignInRequest",
			procedure: boardv1connect.BoardServiceSignInProcedure,
			msg:       &boardv1.SignInRequest{Email: "user@test.com", Password: "secret"},
		},
		{
			name:      "invalid SignInRequest - empty email",
			procedure: boardv1connect.BoardServiceSignInProcedure,
			msg:       &boardv1.SignInRequest{Password: "secret"},
			wantErr:   true,
			wantField: "email",
		},
		{
			name:      "invalid SignInRequest - invalid email",
			procedure: boardv1connect.BoardServiceSignInProcedure,
			msg:       &boardv1.SignInRequest{Email: "not-an-email", Password: "secret"},
			wantErr:   true,
			wantField: "email",
		},
		{
			name:      "invalid SignInRequest - empty password",
			procedure: boardv1connect.BoardServiceSignInProcedure,
			msg:       &boardv1.SignInRequest{Email: "user@test.com"},
			wantErr:   true,
			wantField: "password",
		},
		{
			name:      "valid SignUpRequest - confirmation is checked by the board",
			procedure: boardv1connect.BoardServiceSignUpProcedure,
			msg:       &boardv1.SignUpRequest{Email: "new@test.com", Password: "secret1", ConfirmPassword: "secret2"},
		},
		{
			name:      "valid AddStrokeRequest",
			procedure: boardv1connect.BoardServiceAddStrokeProcedure,
			msg:       &boardv1.AddStrokeRequest{Stroke: &boardv1.Stroke{Color: "#FFF", Radius: 5, Points: points}},
		},
		{
			name:      "valid AddStrokeRequest - six digit color at max radius",
			procedure: boardv1connect.BoardServiceAddStrokeProcedure,
			msg:       &boardv1.AddStrokeRequest{Stroke: &boardv1.Stroke{Color: "#ff0000", Radius: 15, Points: points}},
		},
		{
			name:      "invalid AddStrokeRequest - missing stroke",
			procedure: boardv1connect.BoardServiceAddStrokeProcedure,
			msg:       &boardv1.AddStrokeRequest{},
			wantErr:   true,
			wantField: "stroke",
		},
		{
			name:      "invalid AddStrokeRequest - radius too small",
			procedure: boardv1connect.BoardServiceAddStrokeProcedure,
			msg:       &boardv1.AddStrokeRequest{Stroke: &boardv1.Stroke{Color: "#FFF", Radius: 0.5, Points: points}},
			wantErr:   true,
			wantField: "radius",
		},
		{
			name:      "invalid AddStrokeRequest - radius too large",
			procedure: boardv1connect.BoardServiceAddStrokeProcedure,
			msg:       &boardv1.AddStrokeRequest{Stroke: &boardv1.Stroke{Color: "#FFF", Radius: 16, Points: points}},
			wantErr:   true,
			wantField: "radius",
		},
		{
			name:      "invalid AddStrokeRequest - named color",
			procedure: boardv1connect.BoardServiceAddStrokeProcedure,
			msg:       &boardv1.AddStrokeRequest{Stroke: &boardv1.Stroke{Color: "white", Radius: 5, Points: points}},
			wantErr:   true,
			wantField: "color",
		},
		{
			name:      "invalid AddStrokeRequest - no points",
			procedure: boardv1connect.BoardServiceAddStrokeProcedure,
			msg:       &boardv1.AddStrokeRequest{Stroke: &boardv1.Stroke{Color: "#FFF", Radius: 5}},
			wantErr:   true,
			wantField: "points",
		},
		{
			name:      "valid CompleteCheckoutRequest",
			procedure: boardv1connect.BoardServiceCompleteCheckoutProcedure,
			msg:       &boardv1.CompleteCheckoutRequest{OrderID: "order_1", PaymentID: "pay_1", Signature: "sig"},
		},
		{
			name:      "invalid CompleteCheckoutRequest - missing signature",
			procedure: boardv1connect.BoardServiceCompleteCheckoutProcedure,
			msg:       &boardv1.CompleteCheckoutRequest{OrderID: "order_1", PaymentID: "pay_1"},
			wantErr:   true,
			wantField: "razorpay_signature",
		},
		{
			name:      "valid CompleteOAuthRequest - code",
			procedure: boardv1connect.BoardServiceCompleteOAuthProcedure,
			msg:       &boardv1.CompleteOAuthRequest{Code: "auth-code"},
		},
		{
			name:      "valid CompleteOAuthRequest - provider error",
			procedure: boardv1connect.BoardServiceCompleteOAuthProcedure,
			msg:       &boardv1.CompleteOAuthRequest{ErrorDescription: "access_denied"},
		},
		{
			name:      "invalid CompleteOAuthRequest - neither",
			procedure: boardv1connect.BoardServiceCompleteOAuthProcedure,
			msg:       &boardv1.CompleteOAuthRequest{},
			wantErr:   true,
			wantField: "code_or_error",
		},
		{
			name:      "valid empty request",
			procedure: boardv1connect.BoardServiceSolveProcedure,
			msg:       &boardv1.SolveRequest{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.procedure, tt.msg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}

			var validationErr *protovalidate.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("Validate() error = %v, want *protovalidate.ValidationError", err)
			}
			if !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("Validate() error = %q, want it to name %q", err.Error(), tt.wantField)
			}
		})
	}
}

func TestSchemaValidator_UnknownProcedure(t *testing.T) {
	v := newTestValidator(t)

	err := v.Validate("/board.v1.BoardService/Delete", &boardv1.SolveRequest{})
	if !errors.Is(err, ErrUnknownProcedure) {
		t.Errorf("Validate() error = %v, want ErrUnknownProcedure", err)
	}
}

func TestSchemaValidator_MessageMustMatchSchema(t *testing.T) {
	v := newTestValidator(t)

	// A stroke request sent to SignIn carries a field SignInRequest lacks.
	err := v.Validate(boardv1connect.BoardServiceSignInProcedure, &boardv1.AddStrokeRequest{})
	if err == nil {
		t.Fatal("expected error for a message of another procedure, got nil")
	}
	var validationErr *protovalidate.ValidationError
	if errors.As(err, &validationErr) {
		t.Errorf("Validate() error = %v, want a schema mismatch, not a rule violation", err)
	}
}

func TestSchemaValidator_CoversEveryProcedure(t *testing.T) {
	v := newTestValidator(t)

	procedures := make(map[string]bool)
	for _, p := range v.Procedures() {
		procedures[p] = true
	}

	for _, p := range boardv1connect.Procedures() {
		if !procedures[p] {
			t.Errorf("procedure %s is not declared in the schema", p)
		}
	}
	if len(procedures) != len(boardv1connect.Procedures()) {
		t.Errorf("schema declares %d procedures, service serves %d", len(procedures), len(boardv1connect.Procedures()))
	}
}
