package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"buf.build/go/protovalidate"
	"connectrpc.com/connect"
	boardv1 "github.com/KrishPatel1605/AI-magine-Board-Web/pkg/board/v1"
	"github.com/alexedwards/scs/v2"
)

// RequestValidator checks a request message against the rules of its procedure
type RequestValidator interface {
	Validate(procedure string, msg any) error
}

// NewValidationInterceptor rejects requests that break their schema rules
// with CodeInvalidArgument before they reach the handler. The violations
// travel as an error detail.
func NewValidationInterceptor(v RequestValidator) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			err := v.Validate(req.Spec().Procedure, req.Any())

			var validationErr *protovalidate.ValidationError
			switch {
			case err == nil:
				return next(ctx, req)
			case errors.As(err, &validationErr):
				connectErr := connect.NewError(connect.CodeInvalidArgument, err)
				if detail, detailErr := connect.NewErrorDetail(validationErr.ToProto()); detailErr == nil {
					connectErr.AddDetail(detail)
				}
				return nil, connectErr
			default:
				return nil, connect.NewError(connect.CodeInternal, err)
			}
		}
	}
}

// NewLoggingInterceptor logs every call with its outcome
func NewLoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := []any{
				"procedure", req.Spec().Procedure,
				"duration", time.Since(start),
			}
			var connectErr *connect.Error
			switch {
			case err == nil:
				logger.Debug("rpc completed", attrs...)
			case errors.As(err, &connectErr) && connectErr.Code() == connect.CodeInternal:
				logger.Error("rpc failed", append(attrs, "code", connectErr.Code().String(), "error", err)...)
			default:
				logger.Info("rpc rejected", append(attrs, "code", connect.CodeOf(err).String(), "error", err)...)
			}
			return resp, err
		}
	}
}

// NewTabInterceptor binds every call to the tab session named by the
// boardv1.TabHeader token. A call without a known token starts a new tab.
// New and rotated tokens are returned in the same header, on errors too.
func NewTabInterceptor(sm *scs.SessionManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			sent := req.Header().Get(boardv1.TabHeader)
			ctx, err := sm.Load(ctx, sent)
			if err != nil {
				return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("failed to load tab session: %w", err))
			}

			resp, callErr := next(ctx, req)

			token, err := commitTab(ctx, sm, sent)
			if err != nil {
				return nil, connect.NewError(connect.CodeInternal, err)
			}
			if token == "" {
				return resp, callErr
			}

			var connectErr *connect.Error
			switch {
			case callErr == nil:
				resp.Header().Set(boardv1.TabHeader, token)
			case errors.As(callErr, &connectErr):
				connectErr.Meta().Set(boardv1.TabHeader, token)
			}
			return resp, callErr
		}
	}
}

// commitTab saves a modified tab session and returns its token when it
// differs from the one the caller sent.
func commitTab(ctx context.Context, sm *scs.SessionManager, sent string) (string, error) {
	if sm.Status(ctx) != scs.Modified {
		return "", nil
	}

	token, _, err := sm.Commit(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to save tab session: %w", err)
	}
	if token == sent {
		return "", nil
	}
	return token, nil
}
