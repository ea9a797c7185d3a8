package training

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/cs2coach/internal/dependencies/mocks"
	"github.com/mcoot/cs2coach/internal/model"
	"github.com/mcoot/cs2coach/internal/storage/memory"
	"github.com/mcoot/cs2coach/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	controller *Controller
	ctx        context.Context

	owner *model.User
	other *model.User
	coach *model.User
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC))
	s.storage = memory.NewWithClock(s.clock)
	s.controller = NewController(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()

	s.owner = &model.User{ID: "owner"}
	s.other = &model.User{ID: "other"}
	s.coach = &model.User{ID: "coach", AppMetadata: model.AppMetadata{Role: model.RoleCoach}}
}

func (s *ControllerSuite) createPlayer(owner *model.User, name string) *model.Player {
	player, err := s.controller.CreatePlayer(s.ctx, owner.ID, name)
	s.Require().NoError(err)
	return player
}

func (s *ControllerSuite) input(playerID model.PlayerID) SessionInput {
	return SessionInput{
		PlayerID:        playerID,
		HSRate:          45,
		Accuracy:        22,
		Kills:           20,
		Deaths:          10,
		MapName:         "de_dust2",
		DurationMinutes: 40,
	}
}

// Player tests

func (s *ControllerSuite) TestCreatePlayer() {
	player := s.createPlayer(s.owner, "  s1mple ")

	s.Equal("s1mple", player.PlayerName)
	s.Equal(s.owner.ID, player.UserID)
	s.Equal(s.clock.Now(), player.CreatedAt)
}

func (s *ControllerSuite) TestCreatePlayerRequiresName() {
	_, err := s.controller.CreatePlayer(s.ctx, s.owner.ID, "   ")
	s.ErrorIs(err, model.ErrPlayerNameEmpty)
}

func (s *ControllerSuite) TestListPlayersNewestFirst() {
	s.createPlayer(s.owner, "First")
	s.clock.Advance(time.Minute)
	s.createPlayer(s.owner, "Second")
	s.createPlayer(s.other, "Not mine")

	players, err := s.controller.ListPlayers(s.ctx, s.owner.ID)
	s.Require().NoError(err)
	s.Require().Len(players, 2)
	s.Equal("Second", players[0].PlayerName)
	s.Equal("First", players[1].PlayerName)
}

func (s *ControllerSuite) TestListAllPlayersRequiresCoach() {
	s.createPlayer(s.owner, "A")
	s.createPlayer(s.other, "B")

	_, err := s.controller.ListAllPlayers(s.ctx, s.owner)
	s.ErrorIs(err, model.ErrForbidden)

	players, err := s.controller.ListAllPlayers(s.ctx, s.coach)
	s.Require().NoError(err)
	s.Len(players, 2)
}

func (s *ControllerSuite) TestGetPlayerVisibility() {
	player := s.createPlayer(s.owner, "Mine")

	_, err := s.controller.GetPlayer(s.ctx, s.owner, player.ID)
	s.NoError(err)

	_, err = s.controller.GetPlayer(s.ctx, s.other, player.ID)
	s.ErrorIs(err, model.ErrPlayerNotFound)

	_, err = s.controller.GetPlayer(s.ctx, s.coach, player.ID)
	s.NoError(err)
}

func (s *ControllerSuite) TestGetPlayerUnknown() {
	_, err := s.controller.GetPlayer(s.ctx, s.owner, "missing")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Session tests

func (s *ControllerSuite) TestAddSessionDefaultsDateToToday() {
	player := s.createPlayer(s.owner, "Mine")

	session, err := s.controller.AddSession(s.ctx, s.owner.ID, s.input(player.ID))
	s.Require().NoError(err)
	s.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), session.SessionDate)
	s.Equal("de_dust2", session.MapName)
	s.Equal(20, session.Kills)
}

func (s *ControllerSuite) TestAddSessionVerifiesOwnership() {
	player := s.createPlayer(s.owner, "Mine")

	_, err := s.controller.AddSession(s.ctx, s.other.ID, s.input(player.ID))
	s.ErrorIs(err, model.ErrNotPlayerOwner)

	sessions, _ := s.storage.ListTrainingSessions(s.ctx, player.ID)
	s.Empty(sessions)
}

func (s *ControllerSuite) TestAddSessionUnknownPlayer() {
	_, err := s.controller.AddSession(s.ctx, s.owner.ID, s.input("missing"))
	s.ErrorIs(err, model.ErrPlayerNotFound)
	s.True(IsNotVisible(err))
}

func (s *ControllerSuite) TestAddSessionValidation() {
	player := s.createPlayer(s.owner, "Mine")

	tests := []struct {
		name   string
		mutate func(*SessionInput)
	}{
		{"missing map", func(in *SessionInput) { in.MapName = " " }},
		{"negative kills", func(in *SessionInput) { in.Kills = -1 }},
		{"negative deaths", func(in *SessionInput) { in.Deaths = -1 }},
		{"negative duration", func(in *SessionInput) { in.DurationMinutes = -5 }},
		{"missing player", func(in *SessionInput) { in.PlayerID = "" }},
		{"NaN headshot rate", func(in *SessionInput) { in.HSRate = math.NaN() }},
		{"infinite accuracy", func(in *SessionInput) { in.Accuracy = math.Inf(1) }},
		{"infinite duration", func(in *SessionInput) { in.DurationMinutes = math.Inf(-1) }},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			in := s.input(player.ID)
			tt.mutate(&in)
			_, err := s.controller.AddSession(s.ctx, s.owner.ID, in)
			s.ErrorIs(err, model.ErrInvalidSession)
		})
	}
}

func (s *ControllerSuite) TestListSessionsLatestFirst() {
	player := s.createPlayer(s.owner, "Mine")
	for i, kills := range []int{10, 30, 20} {
		in := s.input(player.ID)
		in.Kills = kills
		in.SessionDate = time.Date(2024, 1, 1+[]int{0, 2, 1}[i], 0, 0, 0, 0, time.UTC)
		_, err := s.controller.AddSession(s.ctx, s.owner.ID, in)
		s.Require().NoError(err)
	}

	sessions, err := s.controller.ListSessions(s.ctx, s.owner, player.ID)
	s.Require().NoError(err)
	s.Require().Len(sessions, 3)
	s.Equal(30, sessions[0].Kills)
	s.Equal(20, sessions[1].Kills)
	s.Equal(10, sessions[2].Kills)
}

func (s *ControllerSuite) TestListSessionsHiddenFromOthers() {
	player := s.createPlayer(s.owner, "Mine")

	_, err := s.controller.ListSessions(s.ctx, s.other, player.ID)
	s.ErrorIs(err, model.ErrPlayerNotFound)

	_, err = s.controller.ListOwnSessions(s.ctx, s.other.ID, player.ID)
	s.ErrorIs(err, model.ErrNotPlayerOwner)
}
