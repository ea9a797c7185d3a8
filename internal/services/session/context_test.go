package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/cs2coach/internal/dependencies/mocks"
	"github.com/mcoot/cs2coach/internal/model"
	"github.com/mcoot/cs2coach/internal/services/auth"
	"github.com/mcoot/cs2coach/internal/services/tokens"
	"github.com/mcoot/cs2coach/internal/storage/memory"
)

// fakeClient counts calls so tests can assert how many provider requests were made
type fakeClient struct {
	recoverCalls int
	signOutCalls int
	recoverUser  *model.User
	recoverErr   error
	signInErr    error
}

func (f *fakeClient) SignIn(_ context.Context, email, _ string) (string, *model.User, error) {
	if f.signInErr != nil {
		return "", nil, f.signInErr
	}
	return "tok", &model.User{ID: "u1", Email: email}, nil
}

func (f *fakeClient) SignUp(context.Context, string, string, string) error { return nil }

func (f *fakeClient) SignOut(context.Context, string) error {
	f.signOutCalls++
	return nil
}

func (f *fakeClient) RecoverSession(context.Context, string) (*model.User, error) {
	f.recoverCalls++
	return f.recoverUser, f.recoverErr
}

type ContextSuite struct {
	suite.Suite
	client *fakeClient
	ctx    context.Context
}

func TestContextSuite(t *testing.T) {
	suite.Run(t, new(ContextSuite))
}

func (s *ContextSuite) SetupTest() {
	s.client = &fakeClient{}
	s.ctx = context.Background()
}

func (s *ContextSuite) TestLoadingUntilInit() {
	c := New(s.client)
	s.True(c.Loading())

	s.Require().NoError(c.Init(s.ctx, ""))
	s.False(c.Loading())
	s.Nil(c.User())
	s.Equal(0, s.client.recoverCalls)
}

func (s *ContextSuite) TestInitRecoversWithOneCall() {
	s.client.recoverUser = &model.User{ID: "u1"}
	c := New(s.client)

	s.Require().NoError(c.Init(s.ctx, "tok"))
	s.Equal(1, s.client.recoverCalls)
	s.Equal(model.UserID("u1"), c.User().ID)
	s.Equal("tok", c.Token())
}

func (s *ContextSuite) TestInitInvalidSessionIsSignedOut() {
	s.client.recoverErr = auth.ErrInvalidSession
	c := New(s.client)

	s.Require().NoError(c.Init(s.ctx, "expired"))
	s.False(c.Loading())
	s.Nil(c.User())
	s.Empty(c.Token())
}

func (s *ContextSuite) TestInitProviderFailure() {
	s.client.recoverErr = errors.New("provider down")
	c := New(s.client)

	s.EqualError(c.Init(s.ctx, "tok"), "provider down")
	s.False(c.Loading())
}

func (s *ContextSuite) TestSignInErrorIsVerbatim() {
	s.client.signInErr = auth.ErrInvalidCredentials
	c := New(s.client)

	err := c.SignIn(s.ctx, "a@example.com", "x")
	s.Equal(auth.ErrInvalidCredentials, err)
	s.Nil(c.User())
}

func (s *ContextSuite) TestSignOutClearsState() {
	c := New(s.client)
	s.Require().NoError(c.SignIn(s.ctx, "a@example.com", "x"))
	s.NotNil(c.User())

	s.Require().NoError(c.SignOut(s.ctx))
	s.Nil(c.User())
	s.Empty(c.Token())
	s.Equal(1, s.client.signOutCalls)
}

func (s *ContextSuite) TestAuthClientRoundTrip() {
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	svc := auth.New(memory.NewWithClock(clk), clk, mocks.NewMockRandom(),
		tokens.New(clk, tokens.Config{Secret: "s"}), mocks.NewMockMailer(), auth.DefaultConfig())
	client := NewAuthClient(svc)

	c := New(client)
	s.Require().NoError(c.SignUp(s.ctx, "a@example.com", "password123", "Alice"))
	s.Nil(c.User())

	s.Require().NoError(c.SignIn(s.ctx, "a@example.com", "password123"))
	s.Equal("Alice", c.User().UserMetadata.PlayerName)
	token := c.Token()

	recovered := New(client)
	s.Require().NoError(recovered.Init(s.ctx, token))
	s.Equal(c.User().ID, recovered.User().ID)

	s.Require().NoError(c.SignOut(s.ctx))
	after := New(client)
	s.Require().NoError(after.Init(s.ctx, token))
	s.Nil(after.User())
}
