package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

var _ apiconnect.AuthServiceHandler = (*AuthService)(nil)

// errAuthDisabled is returned by Login when no passcode is configured.
var errAuthDisabled = errors.New("authentication is disabled")

// AuthService exchanges the shared passcode for a session token.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service. A nil authenticator
// means the server runs without a passcode.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// Login checks the passcode and returns a JWT.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	s.logger.Info("Login request received", "peer", req.Peer().Addr)

	if s.authenticator == nil {
		return nil, connect.NewError(connect.CodeFailedPrecondition, errAuthDisabled)
	}
	if req.Msg.Passcode == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	if err := s.authenticator.Authenticate(ctx, req.Msg.Passcode); err != nil {
		s.logger.Warn("Login failed", "peer", req.Peer().Addr, "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	token, expiresAt, err := s.jwtManager.Generate()
	if err != nil {
		s.logger.Error("Failed to generate token", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("Login successful", "expires_at", expiresAt)
	return connect.NewResponse(&api.LoginResponse{Token: token, ExpiresAt: expiresAt.Unix()}), nil
}

// GetAuthStatus tells clients whether they need to log in.
func (s *AuthService) GetAuthStatus(ctx context.Context, req *connect.Request[api.GetAuthStatusRequest]) (*connect.Response[api.GetAuthStatusResponse], error) {
	return connect.NewResponse(&api.GetAuthStatusResponse{Enabled: s.authenticator != nil}), nil
}
