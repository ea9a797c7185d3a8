package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/cs2coach/internal/model"
	"github.com/mcoot/cs2coach/internal/services/chart"
	"github.com/mcoot/cs2coach/internal/services/training"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

// Sign up, record sessions, then read the dashboard and chart
func (s *IntegrationSuite) TestTrainingFlow() {
	user, _, err := s.app.SignUpUser(s.ctx, "alice@example.com", "Alice")
	s.Require().NoError(err)

	// Sign-up created the first player
	view, err := s.app.DashboardController.Load(s.ctx, user, "")
	s.Require().NoError(err)
	s.Require().NotNil(view.Selected)
	s.Equal("Alice", view.Selected.PlayerName)
	s.Empty(view.Sessions)

	for i, kd := range [][2]int{{20, 10}, {12, 4}, {9, 0}} {
		_, err := s.app.TrainingController.AddSession(s.ctx, user.ID, training.SessionInput{
			PlayerID:    view.Selected.ID,
			SessionDate: time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC),
			HSRate:      float64(40 + i),
			Kills:       kd[0],
			Deaths:      kd[1],
			MapName:     "de_ancient",
		})
		s.Require().NoError(err)
	}

	view, err = s.app.DashboardController.Load(s.ctx, user, view.Selected.ID)
	s.Require().NoError(err)
	s.Equal(3, view.Summary.SessionCount)
	s.InDelta(41.0, view.Summary.AvgHSRate, 1e-9)
	s.InDelta(41.0/14.0, view.Summary.KDRatio, 1e-9)

	c := chart.Build(view.Sessions, model.MetricKD, 0)
	s.Require().Len(c.Points, 3)
	s.Equal(2.0, c.Points[0].Value)
	s.Equal(3.0, c.Points[1].Value)
	s.Equal(9.0, c.Points[2].Value)
}

// A second player added later becomes the default selection
func (s *IntegrationSuite) TestNewPlayerBecomesDefaultSelection() {
	user, _, err := s.app.SignUpUser(s.ctx, "alice@example.com", "Alice")
	s.Require().NoError(err)

	s.app.MockClock.Advance(time.Minute)
	second, err := s.app.TrainingController.CreatePlayer(s.ctx, user.ID, "Alt account")
	s.Require().NoError(err)

	view, err := s.app.DashboardController.Load(s.ctx, user, "")
	s.Require().NoError(err)
	s.Equal(second.ID, view.Selected.ID)
}

// Bootstrap an admin, who can then see every player
func (s *IntegrationSuite) TestBootstrapAdminSeesAllPlayers() {
	_, _, err := s.app.SignUpUser(s.ctx, "alice@example.com", "Alice")
	s.Require().NoError(err)
	_, _, err = s.app.SignUpUser(s.ctx, "bob@example.com", "Bob")
	s.Require().NoError(err)

	admin, err := s.app.AuthService.Bootstrap(s.ctx, "root@example.com", "password123")
	s.Require().NoError(err)

	players, err := s.app.TrainingController.ListAllPlayers(s.ctx, admin)
	s.Require().NoError(err)
	s.Len(players, 2)
}

// A password reset link mailed to the user sets a new password
func (s *IntegrationSuite) TestPasswordResetByEmail() {
	_, _, err := s.app.SignUpUser(s.ctx, "alice@example.com", "Alice")
	s.Require().NoError(err)

	s.Require().NoError(s.app.AuthService.RequestPasswordReset(s.ctx, "alice@example.com"))
	sent := s.app.MockMailer.Sent()
	s.Require().Len(sent, 1)
	s.Contains(sent[0].HTML, "http://coach.test/reset-password?token=")
}

func (s *IntegrationSuite) TestStorageType() {
	tests := map[string]string{
		"":                         StorageTypeMemory,
		"memory://":                StorageTypeMemory,
		"redis://localhost:6379/0": StorageTypeRedis,
		"rediss://cache:6380":      StorageTypeRedis,
		"postgres://u:p@db/app":    StorageTypePostgres,
		"postgresql://u:p@db/app":  StorageTypePostgres,
	}
	for in, want := range tests {
		got, err := StorageType(in)
		s.Require().NoError(err, in)
		s.Equal(want, got, in)
	}

	_, err := StorageType("mysql://db")
	s.Error(err)
}

func (s *IntegrationSuite) TestNewWithMemoryProvider() {
	app, err := New(s.ctx, Config{ProviderURL: "memory://"})
	s.Require().NoError(err)
	defer func() { _ = app.Close() }()

	now, err := app.TimeSource.ServerTime(s.ctx)
	s.Require().NoError(err)
	s.False(now.IsZero())
}
