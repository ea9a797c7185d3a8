// Package storagetest holds a conformance suite shared by every storage backend.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/cs2coach/internal/model"
	"github.com/mcoot/cs2coach/internal/storage"
)

// Suite exercises the storage.Storage contract. Embed it and set Storage in SetupTest.
type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

var base = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// User tests

func (s *Suite) TestSaveAndGetUser() {
	user := &model.User{
		ID:           "user-1",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		UserMetadata: model.UserMetadata{PlayerName: "Alice"},
		CreatedAt:    base,
		UpdatedAt:    base,
	}
	s.Require().NoError(s.Storage.SaveUser(s.Ctx, user))

	got, err := s.Storage.GetUser(s.Ctx, "user-1")
	s.Require().NoError(err)
	s.Equal("alice@example.com", got.Email)
	s.Equal("Alice", got.UserMetadata.PlayerName)
}

func (s *Suite) TestGetUserNotFound() {
	_, err := s.Storage.GetUser(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *Suite) TestGetUserByEmailIsCaseInsensitive() {
	s.Require().NoError(s.Storage.SaveUser(s.Ctx, &model.User{ID: "user-1", Email: "Alice@Example.com", CreatedAt: base}))

	got, err := s.Storage.GetUserByEmail(s.Ctx, "alice@example.COM")
	s.Require().NoError(err)
	s.Equal(model.UserID("user-1"), got.ID)
}

func (s *Suite) TestGetUserByEmailNotFound() {
	_, err := s.Storage.GetUserByEmail(s.Ctx, "nobody@example.com")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *Suite) TestSaveUserUpdatesMetadata() {
	user := &model.User{ID: "user-1", Email: "alice@example.com", CreatedAt: base}
	s.Require().NoError(s.Storage.SaveUser(s.Ctx, user))

	user.AppMetadata.Role = model.RoleAdmin
	s.Require().NoError(s.Storage.SaveUser(s.Ctx, user))

	got, err := s.Storage.GetUser(s.Ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(model.RoleAdmin, got.AppMetadata.Role)
}

func (s *Suite) TestSaveUserRejectsTakenEmail() {
	s.Require().NoError(s.Storage.SaveUser(s.Ctx, &model.User{ID: "user-1", Email: "alice@example.com", CreatedAt: base}))

	err := s.Storage.SaveUser(s.Ctx, &model.User{ID: "user-2", Email: "Alice@Example.com", CreatedAt: base})
	s.ErrorIs(err, model.ErrEmailTaken)

	got, err := s.Storage.GetUserByEmail(s.Ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(model.UserID("user-1"), got.ID)
	_, err = s.Storage.GetUser(s.Ctx, "user-2")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *Suite) TestListUsersOldestFirst() {
	s.Require().NoError(s.Storage.SaveUser(s.Ctx, &model.User{ID: "u2", Email: "b@example.com", CreatedAt: base.Add(time.Hour)}))
	s.Require().NoError(s.Storage.SaveUser(s.Ctx, &model.User{ID: "u1", Email: "a@example.com", CreatedAt: base}))

	users, err := s.Storage.ListUsers(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 2)
	s.Equal(model.UserID("u1"), users[0].ID)
	s.Equal(model.UserID("u2"), users[1].ID)
}

// Player tests

func (s *Suite) TestSaveAndGetPlayer() {
	player := &model.Player{ID: "player-1", UserID: "user-1", PlayerName: "s1mple", CreatedAt: base, UpdatedAt: base}
	s.Require().NoError(s.Storage.SavePlayer(s.Ctx, player))

	got, err := s.Storage.GetPlayer(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.Equal("s1mple", got.PlayerName)
	s.Equal(model.UserID("user-1"), got.UserID)
}

func (s *Suite) TestGetPlayerNotFound() {
	_, err := s.Storage.GetPlayer(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestListPlayersByOwnerNewestFirst() {
	s.Require().NoError(s.Storage.SavePlayer(s.Ctx, &model.Player{ID: "p-old", UserID: "u1", PlayerName: "Old", CreatedAt: base}))
	s.Require().NoError(s.Storage.SavePlayer(s.Ctx, &model.Player{ID: "p-new", UserID: "u1", PlayerName: "New", CreatedAt: base.Add(time.Hour)}))
	s.Require().NoError(s.Storage.SavePlayer(s.Ctx, &model.Player{ID: "p-other", UserID: "u2", PlayerName: "Other", CreatedAt: base}))

	players, err := s.Storage.ListPlayersByOwner(s.Ctx, "u1")
	s.Require().NoError(err)
	s.Require().Len(players, 2)
	s.Equal(model.PlayerID("p-new"), players[0].ID)
	s.Equal(model.PlayerID("p-old"), players[1].ID)
}

func (s *Suite) TestListPlayersByOwnerEmpty() {
	players, err := s.Storage.ListPlayersByOwner(s.Ctx, "nobody")
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *Suite) TestListPlayersIncludesEveryOwner() {
	s.Require().NoError(s.Storage.SavePlayer(s.Ctx, &model.Player{ID: "p1", UserID: "u1", PlayerName: "One", CreatedAt: base}))
	s.Require().NoError(s.Storage.SavePlayer(s.Ctx, &model.Player{ID: "p2", UserID: "u2", PlayerName: "Two", CreatedAt: base.Add(time.Minute)}))

	players, err := s.Storage.ListPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 2)
	s.Equal(model.PlayerID("p2"), players[0].ID)
}

// Training session tests

func (s *Suite) TestListTrainingSessionsLatestFirst() {
	s.Require().NoError(s.Storage.SavePlayer(s.Ctx, &model.Player{ID: "p1", UserID: "u1", PlayerName: "One", CreatedAt: base}))
	for i, day := range []int{3, 1, 2} {
		s.Require().NoError(s.Storage.SaveTrainingSession(s.Ctx, &model.TrainingSession{
			ID:          model.TrainingSessionID("s" + string(rune('a'+i))),
			PlayerID:    "p1",
			SessionDate: base.AddDate(0, 0, day),
			Kills:       day * 10,
			Deaths:      day,
			HSRate:      45.5,
			MapName:     "de_mirage",
			CreatedAt:   base,
		}))
	}

	sessions, err := s.Storage.ListTrainingSessions(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Require().Len(sessions, 3)
	s.Equal(30, sessions[0].Kills)
	s.Equal(20, sessions[1].Kills)
	s.Equal(10, sessions[2].Kills)
	s.InDelta(45.5, sessions[0].HSRate, 0.0001)
	s.Equal("de_mirage", sessions[0].MapName)
}

func (s *Suite) TestListTrainingSessionsScopedToPlayer() {
	s.Require().NoError(s.Storage.SaveTrainingSession(s.Ctx, &model.TrainingSession{ID: "s1", PlayerID: "p1", SessionDate: base}))
	s.Require().NoError(s.Storage.SaveTrainingSession(s.Ctx, &model.TrainingSession{ID: "s2", PlayerID: "p2", SessionDate: base}))

	sessions, err := s.Storage.ListTrainingSessions(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Require().Len(sessions, 1)
	s.Equal(model.TrainingSessionID("s1"), sessions[0].ID)
}

func (s *Suite) TestListTrainingSessionsEmpty() {
	sessions, err := s.Storage.ListTrainingSessions(s.Ctx, "nobody")
	s.Require().NoError(err)
	s.Empty(sessions)
}

// Server time

func (s *Suite) TestServerTime() {
	now, err := s.Storage.ServerTime(s.Ctx)
	s.Require().NoError(err)
	s.False(now.IsZero())
}
