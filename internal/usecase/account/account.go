package account

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/auth"
	"github.com/BruksfildServices01/barber-booking/internal/domain/access"
	"github.com/BruksfildServices01/barber-booking/internal/domain/user"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

const minPasswordLen = 8

type Accounts struct {
	users  user.Repository
	tokens *auth.Tokens
	audit  *audit.Dispatcher
}

func New(users user.Repository, tokens *auth.Tokens, audit *audit.Dispatcher) *Accounts {
	return &Accounts{users: users, tokens: tokens, audit: audit}
}

func invalidCredentials() error {
	return httperr.Unauthenticated("invalid_credentials", "invalid username or password")
}

// Login returns a bearer token for valid credentials.
func (a *Accounts) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", nil, httperr.Validation("missing_credentials", "username", "username and password are required")
	}

	u, err := a.users.GetByUsername(ctx, username)
	if httperr.IsKind(err, httperr.KindNotFound) {
		return "", nil, invalidCredentials()
	}
	if err != nil {
		return "", nil, err
	}

	if !auth.CheckPassword(u.PasswordHash, password) {
		return "", nil, invalidCredentials()
	}

	token, err := a.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return "", nil, err
	}

	a.audit.Dispatch(audit.Event{
		UserID:   &u.ID,
		Action:   "login",
		Entity:   "user",
		EntityID: &u.ID,
	})
	return token, u, nil
}

// Authenticate resolves a bearer token to a live administrator.
func (a *Accounts) Authenticate(ctx context.Context, raw string) (*models.User, error) {
	claims, err := a.tokens.Parse(raw)
	if err != nil {
		return nil, httperr.Unauthenticated("invalid_token", "token is invalid or expired")
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, httperr.Unauthenticated("invalid_token", "token subject is invalid")
	}

	u, err := a.users.Get(ctx, id)
	if httperr.IsKind(err, httperr.KindNotFound) {
		return nil, httperr.Unauthenticated("unknown_user", "token user no longer exists")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (a *Accounts) Me(ctx context.Context, actor access.Actor) (*models.User, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	return a.users.Get(ctx, actor.UserID)
}

func (a *Accounts) ChangePassword(ctx context.Context, actor access.Actor, current, next string) error {
	if err := actor.RequireAdmin(); err != nil {
		return err
	}
	if current == "" || next == "" {
		return httperr.Validation("missing_password", "new_password", "current and new password are required")
	}
	if len(next) < minPasswordLen {
		return httperr.Validation("weak_password", "new_password", "new password must be at least 8 characters")
	}

	u, err := a.users.Get(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(u.PasswordHash, current) {
		return httperr.Unauthenticated("wrong_password", "current password is incorrect")
	}

	if u.PasswordHash, err = auth.HashPassword(next); err != nil {
		return err
	}
	if err := a.users.Update(ctx, u); err != nil {
		return err
	}

	a.audit.Dispatch(audit.Event{
		UserID:   &u.ID,
		Action:   "password_changed",
		Entity:   "user",
		EntityID: &u.ID,
	})
	return nil
}

// EnsureAdmin creates the bootstrap administrator when it does not exist.
func (a *Accounts) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return false, nil
	}

	_, err := a.users.GetByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !httperr.IsKind(err, httperr.KindNotFound) {
		return false, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}
	if err := a.users.Create(ctx, &models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         auth.RoleAdmin,
	}); err != nil {
		return false, err
	}
	return true, nil
}
