package tripapiconnect

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/tripplanner/pkg/tripapi"
)

// AuthServiceClient is a client for the tripplanner.v1.AuthService service.
type AuthServiceClient interface {
	Register(context.Context, *connect.Request[tripapi.RegisterRequest]) (*connect.Response[tripapi.RegisterResponse], error)
	Login(context.Context, *connect.Request[tripapi.LoginRequest]) (*connect.Response[tripapi.LoginResponse], error)
	GetCurrentUser(context.Context, *connect.Request[tripapi.GetCurrentUserRequest]) (*connect.Response[tripapi.GetCurrentUserResponse], error)
}

// NewAuthServiceClient constructs a client for the AuthService at baseURL
// (for example, http://localhost:8080).
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = trimBaseURL(baseURL)
	opts = clientOptions(opts)
	return &authServiceClient{
		register:       connect.NewClient[tripapi.RegisterRequest, tripapi.RegisterResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		login:          connect.NewClient[tripapi.LoginRequest, tripapi.LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		getCurrentUser: connect.NewClient[tripapi.GetCurrentUserRequest, tripapi.GetCurrentUserResponse](httpClient, baseURL+AuthServiceGetCurrentUserProcedure, opts...),
	}
}

type authServiceClient struct {
	register       *connect.Client[tripapi.RegisterRequest, tripapi.RegisterResponse]
	login          *connect.Client[tripapi.LoginRequest, tripapi.LoginResponse]
	getCurrentUser *connect.Client[tripapi.GetCurrentUserRequest, tripapi.GetCurrentUserResponse]
}

func (c *authServiceClient) Register(ctx context.Context, req *connect.Request[tripapi.RegisterRequest]) (*connect.Response[tripapi.RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[tripapi.LoginRequest]) (*connect.Response[tripapi.LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *authServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[tripapi.GetCurrentUserRequest]) (*connect.Response[tripapi.GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}

// AuthServiceHandler is implemented by the AuthService server.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[tripapi.RegisterRequest]) (*connect.Response[tripapi.RegisterResponse], error)
	Login(context.Context, *connect.Request[tripapi.LoginRequest]) (*connect.Response[tripapi.LoginResponse], error)
	GetCurrentUser(context.Context, *connect.Request[tripapi.GetCurrentUserRequest]) (*connect.Response[tripapi.GetCurrentUserResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	register := connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...)
	login := connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...)
	getCurrentUser := connect.NewUnaryHandler(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...)
	return "/" + AuthServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case AuthServiceRegisterProcedure:
			register.ServeHTTP(w, r)
		case AuthServiceLoginProcedure:
			login.ServeHTTP(w, r)
		case AuthServiceGetCurrentUserProcedure:
			getCurrentUser.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedAuthServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedAuthServiceHandler struct{}

func (UnimplementedAuthServiceHandler) Register(context.Context, *connect.Request[tripapi.RegisterRequest]) (*connect.Response[tripapi.RegisterResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripplanner.v1.AuthService.Register is not implemented"))
}

func (UnimplementedAuthServiceHandler) Login(context.Context, *connect.Request[tripapi.LoginRequest]) (*connect.Response[tripapi.LoginResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripplanner.v1.AuthService.Login is not implemented"))
}

func (UnimplementedAuthServiceHandler) GetCurrentUser(context.Context, *connect.Request[tripapi.GetCurrentUserRequest]) (*connect.Response[tripapi.GetCurrentUserResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripplanner.v1.AuthService.GetCurrentUser is not implemented"))
}
