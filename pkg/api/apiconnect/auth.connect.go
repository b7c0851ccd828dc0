package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

// AuthServiceName is the fully-qualified name of the AuthService service.
const AuthServiceName = "splitledger.v1.AuthService"

// Procedure names of AuthService, used as HTTP paths and in interceptors.
const (
	AuthServiceLoginProcedure         = "/splitledger.v1.AuthService/Login"
	AuthServiceGetAuthStatusProcedure = "/splitledger.v1.AuthService/GetAuthStatus"
)

// AuthServiceHandler is implemented by the server side of AuthService.
type AuthServiceHandler interface {
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	GetAuthStatus(context.Context, *connect.Request[api.GetAuthStatusRequest]) (*connect.Response[api.GetAuthStatusResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler for every AuthService procedure. It returns
// the path prefix to mount the handler on.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withHandlerCodec(opts)
	mux := http.NewServeMux()
	mux.Handle(AuthServiceLoginProcedure, connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...))
	mux.Handle(AuthServiceGetAuthStatusProcedure, connect.NewUnaryHandler(AuthServiceGetAuthStatusProcedure, svc.GetAuthStatus, opts...))
	return "/" + AuthServiceName + "/", mux
}

// AuthServiceClient is a client for AuthService.
type AuthServiceClient interface {
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	GetAuthStatus(context.Context, *connect.Request[api.GetAuthStatusRequest]) (*connect.Response[api.GetAuthStatusResponse], error)
}

// NewAuthServiceClient returns a client for the AuthService served at baseURL,
// e.g. "http://localhost:8080".
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = withClientCodec(opts)
	return &authServiceClient{
		login:         connect.NewClient[api.LoginRequest, api.LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		getAuthStatus: connect.NewClient[api.GetAuthStatusRequest, api.GetAuthStatusResponse](httpClient, baseURL+AuthServiceGetAuthStatusProcedure, opts...),
	}
}

type authServiceClient struct {
	login         *connect.Client[api.LoginRequest, api.LoginResponse]
	getAuthStatus *connect.Client[api.GetAuthStatusRequest, api.GetAuthStatusResponse]
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *authServiceClient) GetAuthStatus(ctx context.Context, req *connect.Request[api.GetAuthStatusRequest]) (*connect.Response[api.GetAuthStatusResponse], error) {
	return c.getAuthStatus.CallUnary(ctx, req)
}
