// Package middleware holds the Connect interceptors shared by every service.
package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// SessionIDKey is the context key for the authenticated session ID.
const SessionIDKey contextKey = "session_id"

// sessionSlotKey carries a *sessionSlot from an outer interceptor so it can see
// the session RequireAuth resolves further in.
const sessionSlotKey contextKey = "session_slot"

type sessionSlot struct {
	id string
}

// GetSessionID extracts the session ID from the context.
// Returns empty string if not found.
func GetSessionID(ctx context.Context) string {
	sessionID, _ := ctx.Value(SessionIDKey).(string)
	return sessionID
}

// RequireAuth returns an interceptor that validates the bearer token on every call
// and adds the session ID to the request context.
func RequireAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}

			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || tokenString == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			claims, err := jwtManager.Validate(tokenString)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			if slot, ok := ctx.Value(sessionSlotKey).(*sessionSlot); ok {
				slot.id = claims.SessionID
			}
			ctx = context.WithValue(ctx, SessionIDKey, claims.SessionID)
			return next(ctx, req)
		}
	}
}
