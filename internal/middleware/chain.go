package middleware

import (
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/metrics"
)

// Chain returns the interceptors for one service, outermost first: metrics,
// logging, then RequireAuth when jwtManager is non-nil. Rejected calls are
// therefore still counted and logged. m may be nil.
func Chain(logger *slog.Logger, m *metrics.Metrics, jwtManager *auth.JWTManager) []connect.Interceptor {
	interceptors := []connect.Interceptor{m.Interceptor(), LoggingInterceptor(logger)}
	if jwtManager != nil {
		interceptors = append(interceptors, RequireAuth(jwtManager))
	}
	return interceptors
}
