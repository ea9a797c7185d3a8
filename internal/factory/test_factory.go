package factory

import (
	"context"
	"time"

	"github.com/mcoot/cs2coach/internal/dependencies/mocks"
	"github.com/mcoot/cs2coach/internal/model"
	"github.com/mcoot/cs2coach/internal/services/auth"
	"github.com/mcoot/cs2coach/internal/services/tokens"
	"github.com/mcoot/cs2coach/internal/storage/memory"
	"github.com/mcoot/cs2coach/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	MockMailer *mocks.MockMailer
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	store := memory.NewWithClock(mockClock)
	mockRandom := mocks.NewMockRandom()
	mockMailer := mocks.NewMockMailer()

	authCfg := auth.DefaultConfig()
	authCfg.PublicURL = "http://coach.test"

	app := newWithDependencies(
		store,
		mockClock,
		mockRandom,
		mockMailer,
		tokens.Config{Secret: "test-secret"},
		authCfg,
		testutil.NopLogger(),
	)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		MockMailer: mockMailer,
	}
}

// SignUpUser registers an account with a first player of the same name and signs it in
func (t *TestApp) SignUpUser(ctx context.Context, email, playerName string) (*model.User, string, error) {
	user, err := t.AuthService.SignUp(ctx, email, "password123", playerName)
	if err != nil {
		return nil, "", err
	}
	session, err := t.AuthService.SignIn(ctx, email, "password123")
	if err != nil {
		return nil, "", err
	}
	return user, session.Token, nil
}

// GrantRole stamps a role onto an existing user
func (t *TestApp) GrantRole(ctx context.Context, userID model.UserID, role model.Role) (*model.User, error) {
	return t.AuthService.UpdateAppMetadata(ctx, userID, role)
}
