// Package service implements the business operations on users and
// objects. Services validate and convert boundary values, enforce role
// checks, and translate store errors into the API error taxonomy.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/openfieldlab/fieldlab/internal/boundary"
	"github.com/openfieldlab/fieldlab/internal/domain"
	"github.com/openfieldlab/fieldlab/internal/store"
	"github.com/openfieldlab/fieldlab/pkg/cryptox"
	"github.com/openfieldlab/fieldlab/pkg/jwtx"
	"github.com/openfieldlab/fieldlab/pkg/slogx"
)

// UserServiceConfig carries the token-issuing knobs; everything the
// service needs is passed in explicitly.
type UserServiceConfig struct {
	Signer   jwtx.Signer
	Issuer   string
	TokenTTL time.Duration
}

// UserService owns login, user updates and the admin-only bulk
// operations.
type UserService struct {
	store    store.Store
	signer   jwtx.Signer
	issuer   string
	tokenTTL time.Duration
}

func NewUserService(st store.Store, cfg UserServiceConfig) *UserService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultTokenTTL
	}
	return &UserService{
		store:    st,
		signer:   cfg.Signer,
		issuer:   cfg.Issuer,
		tokenTTL: ttl,
	}
}

// Login resolves the user behind the inbound identity. Admins and
// researchers authenticate with the password carried in the inbound
// user details and receive a signed token; participants are merely
// identified and are signed up implicitly on first contact.
func (s *UserService) Login(ctx context.Context, b boundary.User) (boundary.LoginResult, error) {
	key := domain.UserKey{Email: b.UserID.Email, Platform: b.UserID.Platform}
	if key.Email == "" || key.Platform == "" {
		return boundary.LoginResult{}, errBadCredentials("email and platform are required")
	}

	u, err := s.store.Users().GetUser(ctx, key)
	switch {
	case errors.Is(err, store.ErrNotFound):
		if domain.Role(b.Role) != domain.RoleParticipant {
			return boundary.LoginResult{}, errNotFound("user does not exist")
		}
		return s.signupParticipant(ctx, b)
	case err != nil:
		return boundary.LoginResult{}, wrapInternal(err, "look up user")
	}

	// The stored role governs, whatever the request claims.
	if !u.Role.Authenticated() {
		return boundary.LoginResult{User: userToBoundary(u)}, nil
	}

	password, ok := passwordFromDetails(b.UserDetails)
	if !ok {
		return boundary.LoginResult{}, errBadCredentials("invalid credentials")
	}
	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			return boundary.LoginResult{}, errBadCredentials("invalid credentials")
		}
		return boundary.LoginResult{}, wrapInternal(err, "verify password")
	}

	claims := jwtx.NewIdentityClaims(
		u.Key.Email, u.Key.Platform, u.Role.String(), u.Username,
		s.tokenTTL, s.issuer, time.Now(),
	)
	token, err := s.signer.Sign(claims)
	if err != nil {
		return boundary.LoginResult{}, wrapInternal(err, "sign token")
	}

	slogx.FromContext(ctx).Info("user logged in",
		slog.String("email", u.Key.Email),
		slog.String("platform", u.Key.Platform),
		slog.String("role", u.Role.String()),
	)
	return boundary.LoginResult{Token: token, User: userToBoundary(u)}, nil
}

// signupParticipant persists a first-contact participant. A concurrent
// signup for the same identity loses the insert race and falls back to
// reading whichever row won.
func (s *UserService) signupParticipant(ctx context.Context, b boundary.User) (boundary.LoginResult, error) {
	u, err := userToModel(b)
	if err != nil {
		return boundary.LoginResult{}, err
	}

	err = s.store.Users().CreateUser(ctx, u)
	switch {
	case errors.Is(err, store.ErrAlreadyExists):
		existing, err := s.store.Users().GetUser(ctx, u.Key)
		if err != nil {
			return boundary.LoginResult{}, wrapInternal(err, "look up user")
		}
		return boundary.LoginResult{User: userToBoundary(existing)}, nil
	case errors.Is(err, store.ErrInvalidDocument):
		return boundary.LoginResult{}, errInvalidDocument("invalid input, some required fields are missing")
	case err != nil:
		return boundary.LoginResult{}, wrapInternal(err, "create user")
	}

	slogx.FromContext(ctx).Info("participant signed up",
		slog.String("email", u.Key.Email),
		slog.String("platform", u.Key.Platform),
	)

	created, err := s.store.Users().GetUser(ctx, u.Key)
	if err != nil {
		return boundary.LoginResult{}, wrapInternal(err, "look up user")
	}
	return boundary.LoginResult{User: userToBoundary(created)}, nil
}

// UpdateUser applies a partial update to the identified user and returns
// the updated external representation.
func (s *UserService) UpdateUser(ctx context.Context, key domain.UserKey, patch boundary.UserPatch) (boundary.User, error) {
	u, err := s.store.Users().GetUser(ctx, key)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return boundary.User{}, errNotFound("user does not exist")
	case err != nil:
		return boundary.User{}, wrapInternal(err, "look up user")
	}

	updated, err := applyUserPatch(u, patch)
	if err != nil {
		return boundary.User{}, err
	}

	if err := s.store.Users().UpdateUser(ctx, updated); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return boundary.User{}, errNotFound("user does not exist")
		}
		return boundary.User{}, wrapInternal(err, "update user")
	}
	return userToBoundary(updated), nil
}

// GetAllUsers lists every user. Admin only.
func (s *UserService) GetAllUsers(ctx context.Context, caller domain.UserKey) ([]boundary.User, error) {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return nil, err
	}

	users, err := s.store.Users().ListUsers(ctx)
	if err != nil {
		return nil, wrapInternal(err, "list users")
	}

	out := make([]boundary.User, 0, len(users))
	for _, u := range users {
		out = append(out, userToBoundary(u))
	}
	return out, nil
}

// DeleteAllUsers wipes the user collection and reports how many rows
// went. Admin only; the caller goes with the rest.
func (s *UserService) DeleteAllUsers(ctx context.Context, caller domain.UserKey) (store.DeleteResult, error) {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return store.DeleteResult{}, err
	}

	res, err := s.store.Users().DeleteAllUsers(ctx)
	if err != nil {
		return store.DeleteResult{}, wrapInternal(err, "delete users")
	}

	slogx.FromContext(ctx).Warn("all users deleted",
		slog.String("by_email", caller.Email),
		slog.String("by_platform", caller.Platform),
		slog.Int64("deleted", res.Deleted),
	)
	return res, nil
}

// requireAdmin distinguishes an unknown caller from a known caller with
// the wrong role: the former does not exist, the latter is refused.
func (s *UserService) requireAdmin(ctx context.Context, caller domain.UserKey) error {
	u, err := s.store.Users().GetUser(ctx, caller)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return errNotFound("user does not exist")
	case err != nil:
		return wrapInternal(err, "look up user")
	}

	if u.Role != domain.RoleAdmin {
		return errForbidden("you are not allowed to make this request")
	}
	return nil
}
