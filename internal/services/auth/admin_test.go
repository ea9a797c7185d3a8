package auth

import (
	"github.com/mcoot/cs2coach/internal/model"
)

func (s *ServiceSuite) TestCreateUserIsConfirmedWhenRequested() {
	user, err := s.service.CreateUser(s.ctx, "bob@example.com", "password123", true)
	s.Require().NoError(err)
	s.True(user.EmailConfirmed)

	players, _ := s.storage.ListPlayersByOwner(s.ctx, user.ID)
	s.Empty(players)
}

func (s *ServiceSuite) TestListUsersOldestFirst() {
	_, _ = s.service.CreateUser(s.ctx, "first@example.com", "password123", true)
	s.clock.Advance(1)
	_, _ = s.service.CreateUser(s.ctx, "second@example.com", "password123", true)

	users, err := s.service.ListUsers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 2)
	s.Equal("first@example.com", users[0].Email)
}

func (s *ServiceSuite) TestUpdateAppMetadataUnknownUser() {
	_, err := s.service.UpdateAppMetadata(s.ctx, "missing", model.RoleAdmin)
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *ServiceSuite) TestBootstrapCreatesAdmin() {
	user, err := s.service.Bootstrap(s.ctx, "root@example.com", "password123")
	s.Require().NoError(err)
	s.True(user.IsAdmin())
	s.True(user.EmailConfirmed)
}

func (s *ServiceSuite) TestBootstrapPromotesExistingUserCaseInsensitive() {
	existing := s.signUp("root@example.com")

	user, err := s.service.Bootstrap(s.ctx, "ROOT@example.com", "ignored-password")
	s.Require().NoError(err)
	s.Equal(existing.ID, user.ID)
	s.True(user.IsAdmin())

	// Existing password is kept
	_, err = s.service.SignIn(s.ctx, "root@example.com", "password123")
	s.NoError(err)
}

func (s *ServiceSuite) TestInviteAndAccept() {
	link, err := s.service.Invite(s.ctx, "Coach@Example.com", model.RoleCoach)
	s.Require().NoError(err)
	s.Contains(link, "http://coach.test/invite/")
	s.Require().Len(s.mailer.Sent(), 1)

	token := link[len("http://coach.test/invite/"):]
	email, role, err := s.service.InviteDetails(token)
	s.Require().NoError(err)
	s.Equal("coach@example.com", email)
	s.Equal(model.RoleCoach, role)

	user, err := s.service.AcceptInvite(s.ctx, token, "password123", "Coach Carter")
	s.Require().NoError(err)
	s.Equal(model.RoleCoach, user.AppMetadata.Role)
	s.Equal("coach@example.com", user.Email)
}

func (s *ServiceSuite) TestInviteExistingEmailFails() {
	s.signUp("alice@example.com")

	_, err := s.service.Invite(s.ctx, "alice@example.com", model.RoleCoach)
	s.ErrorIs(err, ErrEmailExists)
}
