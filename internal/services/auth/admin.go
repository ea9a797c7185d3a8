package auth

import (
	"context"
	"errors"
	"net/url"

	"github.com/mcoot/cs2coach/internal/model"
	"github.com/mcoot/cs2coach/internal/services/mailer"
)

// CreateUser creates an account directly, bypassing sign-up
func (s *Service) CreateUser(ctx context.Context, email, password string, emailConfirmed bool) (*model.User, error) {
	return s.createUser(ctx, email, password, emailConfirmed)
}

// ListUsers returns every account, oldest first
func (s *Service) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.storage.ListUsers(ctx)
}

// UpdateAppMetadata sets the server-controlled role of a user
func (s *Service) UpdateAppMetadata(ctx context.Context, userID model.UserID, role model.Role) (*model.User, error) {
	user, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.AppMetadata.Role = role
	user.UpdatedAt = s.clock.Now()
	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Bootstrap creates the account if it does not exist, otherwise locates it by
// email, then grants it the admin role
func (s *Service) Bootstrap(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.storage.GetUserByEmail(ctx, email)
	if errors.Is(err, model.ErrUserNotFound) {
		user, err = s.createUser(ctx, email, password, true)
	}
	if err != nil {
		return nil, err
	}

	return s.UpdateAppMetadata(ctx, user.ID, model.RoleAdmin)
}

// Invite mails a sign-up link that assigns role on acceptance and returns the link
func (s *Service) Invite(ctx context.Context, email string, role model.Role) (string, error) {
	if email == "" {
		return "", ErrEmailRequired
	}
	if _, err := s.storage.GetUserByEmail(ctx, email); err == nil {
		return "", ErrEmailExists
	} else if !errors.Is(err, model.ErrUserNotFound) {
		return "", err
	}

	token, err := s.tokens.IssueInvite(email, role)
	if err != nil {
		return "", err
	}

	link := s.publicURL + "/invite/" + url.PathEscape(token)
	if err := s.mailer.Send(ctx, mailer.InviteMessage(model.NormalizeEmail(email), link)); err != nil {
		return "", err
	}
	return link, nil
}

// InviteDetails returns the email and role an invitation was issued for
func (s *Service) InviteDetails(token string) (string, model.Role, error) {
	claims, err := s.tokens.VerifyInvite(token)
	if err != nil {
		return "", model.RoleNone, err
	}
	return claims.Email, claims.Role, nil
}

// AcceptInvite registers the invited email with the role from the invitation
func (s *Service) AcceptInvite(ctx context.Context, token, password, playerName string) (*model.User, error) {
	email, role, err := s.InviteDetails(token)
	if err != nil {
		return nil, err
	}
	return s.register(ctx, email, password, playerName, role)
}
