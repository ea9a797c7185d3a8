// Package session holds the per-request authentication state.
package session

import (
	"context"
	"errors"

	"github.com/mcoot/cs2coach/internal/model"
	"github.com/mcoot/cs2coach/internal/services/auth"
)

// Client is the subset of the auth provider a session needs
type Client interface {
	SignIn(ctx context.Context, email, password string) (token string, user *model.User, err error)
	SignUp(ctx context.Context, email, password, playerName string) error
	SignOut(ctx context.Context, token string) error
	RecoverSession(ctx context.Context, token string) (*model.User, error)
}

// Context is the authentication state of one request. It starts loading and
// becomes ready after Init.
type Context struct {
	client  Client
	loading bool
	token   string
	user    *model.User
}

// New creates a Context in the loading state
func New(client Client) *Context {
	return &Context{client: client, loading: true}
}

// Init recovers an existing session for token with a single provider call.
// An invalid or expired token leaves the context signed out without error.
func (c *Context) Init(ctx context.Context, token string) error {
	defer func() { c.loading = false }()

	if token == "" {
		return nil
	}

	user, err := c.client.RecoverSession(ctx, token)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidSession) {
			return nil
		}
		return err
	}

	c.token = token
	c.user = user
	return nil
}

// Loading is true until Init has completed
func (c *Context) Loading() bool {
	return c.loading
}

// User returns the signed-in user, or nil
func (c *Context) User() *model.User {
	return c.user
}

// Token returns the current session token, or empty when signed out
func (c *Context) Token() string {
	return c.token
}

// SignIn authenticates and adopts the new session. Provider errors are
// returned unchanged.
func (c *Context) SignIn(ctx context.Context, email, password string) error {
	token, user, err := c.client.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	c.token = token
	c.user = user
	return nil
}

// SignUp creates an account. It does not sign in.
func (c *Context) SignUp(ctx context.Context, email, password, playerName string) error {
	return c.client.SignUp(ctx, email, password, playerName)
}

// SignOut clears local state and ends the provider session
func (c *Context) SignOut(ctx context.Context) error {
	token := c.token
	c.token = ""
	c.user = nil
	if token == "" {
		return nil
	}
	return c.client.SignOut(ctx, token)
}

// AuthClient adapts the auth service to Client
type AuthClient struct {
	auth *auth.Service
}

// Ensure AuthClient implements Client
var _ Client = (*AuthClient)(nil)

// NewAuthClient creates a Client backed by the auth service
func NewAuthClient(authService *auth.Service) *AuthClient {
	return &AuthClient{auth: authService}
}

func (a *AuthClient) SignIn(ctx context.Context, email, password string) (string, *model.User, error) {
	sess, err := a.auth.SignIn(ctx, email, password)
	if err != nil {
		return "", nil, err
	}
	user, err := a.auth.RecoverSession(ctx, sess.Token)
	if err != nil {
		return "", nil, err
	}
	return sess.Token, user, nil
}

func (a *AuthClient) SignUp(ctx context.Context, email, password, playerName string) error {
	_, err := a.auth.SignUp(ctx, email, password, playerName)
	return err
}

func (a *AuthClient) SignOut(_ context.Context, token string) error {
	a.auth.InvalidateSession(token)
	return nil
}

func (a *AuthClient) RecoverSession(ctx context.Context, token string) (*model.User, error) {
	return a.auth.RecoverSession(ctx, token)
}
