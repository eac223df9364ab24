package service

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/require"

	"github.com/openfieldlab/fieldlab/internal/boundary"
	"github.com/openfieldlab/fieldlab/internal/domain"
	"github.com/openfieldlab/fieldlab/internal/store"
	"github.com/openfieldlab/fieldlab/internal/store/drivers/sqlite"
	"github.com/openfieldlab/fieldlab/pkg/cryptox"
	"github.com/openfieldlab/fieldlab/pkg/jwtx"
)

const testSecret = "unit-test-secret"

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newUserService(t *testing.T, st store.Store) *UserService {
	t.Helper()

	signer, err := jwtx.NewHS256Signer([]byte(testSecret))
	require.NoError(t, err)

	return NewUserService(st, UserServiceConfig{
		Signer: signer,
		Issuer: "fieldlab-test",
	})
}

func seedUser(t *testing.T, st store.Store, email string, role domain.Role, password string) domain.User {
	t.Helper()

	u := domain.User{
		Key:      domain.UserKey{Email: email, Platform: "moveo"},
		Username: "user-" + email,
		Role:     role,
		Details:  map[string]any{"lab": "north"},
	}
	if password != "" {
		hash, err := cryptox.HashPassword(password)
		require.NoError(t, err)
		u.PasswordHash = hash
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func requireCategory(t *testing.T, err error, cat goerrors.Category, textCode string) {
	t.Helper()

	var rich *goerrors.Error
	require.True(t, goerrors.As(err, &rich), "expected rich error, got %T: %v", err, err)
	require.Equal(t, cat, rich.Category)
	require.Equal(t, textCode, rich.TextCode)
}

func TestLoginAdminIssuesToken(t *testing.T) {
	st := newTestStore(t)
	svc := newUserService(t, st)
	seedUser(t, st, "admin@example.org", domain.RoleAdmin, "hunter2")

	res, err := svc.Login(context.Background(), boundary.User{
		UserID:      boundary.UserID{Email: "admin@example.org", Platform: "moveo"},
		Role:        "ADMIN",
		UserDetails: map[string]any{"password": "hunter2"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	require.Equal(t, "ADMIN", res.User.Role)
	require.NotContains(t, res.User.UserDetails, "password")

	verifier, err := jwtx.NewHS256Verifier([]byte(testSecret), "fieldlab-test")
	require.NoError(t, err)
	claims, err := verifier.Verify(res.Token)
	require.NoError(t, err)
	require.Equal(t, "admin@example.org", claims.Subject)
	require.Equal(t, "moveo", claims.Platform)
	require.Equal(t, "ADMIN", claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	st := newTestStore(t)
	svc := newUserService(t, st)
	seedUser(t, st, "admin@example.org", domain.RoleAdmin, "hunter2")

	_, err := svc.Login(context.Background(), boundary.User{
		UserID:      boundary.UserID{Email: "admin@example.org", Platform: "moveo"},
		Role:        "ADMIN",
		UserDetails: map[string]any{"password": "wrong"},
	})
	requireCategory(t, err, goerrors.CategoryBadInput, ErrCodeBadCredentials)
}

func TestLoginMissingPassword(t *testing.T) {
	st := newTestStore(t)
	svc := newUserService(t, st)
	seedUser(t, st, "res@example.org", domain.RoleResearcher, "hunter2")

	_, err := svc.Login(context.Background(), boundary.User{
		UserID: boundary.UserID{Email: "res@example.org", Platform: "moveo"},
		Role:   "RESEARCHER",
	})
	requireCategory(t, err, goerrors.CategoryBadInput, ErrCodeBadCredentials)
}

func TestLoginUnknownResearcher(t *testing.T) {
	st := newTestStore(t)
	svc := newUserService(t, st)

	_, err := svc.Login(context.Background(), boundary.User{
		UserID:      boundary.UserID{Email: "ghost@example.org", Platform: "moveo"},
		Role:        "RESEARCHER",
		UserDetails: map[string]any{"password": "whatever"},
	})
	requireCategory(t, err, goerrors.CategoryNotFound, ErrCodeUserNotFound)
}

func TestLoginParticipantImplicitSignup(t *testing.T) {
	st := newTestStore(t)
	svc := newUserService(t, st)
	ctx := context.Background()

	res, err := svc.Login(ctx, boundary.User{
		UserID:      boundary.UserID{Email: "part@example.org", Platform: "moveo"},
		Role:        "PARTICIPANT",
		Username:    "parti",
		UserDetails: map[string]any{"cohort": "2026-spring"},
	})
	require.NoError(t, err)
	require.Empty(t, res.Token)
	require.Equal(t, "PARTICIPANT", res.User.Role)
	require.Equal(t, "2026-spring", res.User.UserDetails["cohort"])

	// Persisted: the second login resolves the same record without
	// creating another.
	again, err := svc.Login(ctx, boundary.User{
		UserID: boundary.UserID{Email: "part@example.org", Platform: "moveo"},
		Role:   "PARTICIPANT",
	})
	require.NoError(t, err)
	require.Empty(t, again.Token)
	require.Equal(t, "parti", again.User.Username)
}

func TestLoginExistingParticipantSkipsCredentials(t *testing.T) {
	st := newTestStore(t)
	svc := newUserService(t, st)
	seedUser(t, st, "part@example.org", domain.RoleParticipant, "")

	// Whatever role the request claims, the stored participant gets no
	// token and no credential check.
	res, err := svc.Login(context.Background(), boundary.User{
		UserID: boundary.UserID{Email: "part@example.org", Platform: "moveo"},
		Role:   "ADMIN",
	})
	require.NoError(t, err)
	require.Empty(t, res.Token)
	require.Equal(t, "PARTICIPANT", res.User.Role)
}

func TestLoginMissingIdentity(t *testing.T) {
	st := newTestStore(t)
	svc := newUserService(t, st)

	_, err := svc.Login(context.Background(), boundary.User{
		UserID: boundary.UserID{Email: "x@example.org"},
		Role:   "PARTICIPANT",
	})
	requireCategory(t, err, goerrors.CategoryBadInput, ErrCodeBadCredentials)
}

func TestUpdateUserPatchesFields(t *testing.T) {
	st := newTestStore(t)
	svc := newUserService(t, st)
	seedUser(t, st, "res@example.org", domain.RoleResearcher, "old-password")
	ctx := context.Background()

	username := "renamed"
	password := "new-password"
	got, err := svc.UpdateUser(ctx,
		domain.UserKey{Email: "res@example.org", Platform: "moveo"},
		boundary.UserPatch{
			Username: &username,
			Password: &password,
			Details:  map[string]any{"lab": "south", "floor": "2"},
		},
	)
	require.NoError(t, err)
	require.Equal(t, "renamed", got.Username)
	require.Equal(t, "south", got.UserDetails["lab"])
	require.Equal(t, "2", got.UserDetails["floor"])
	require.NotContains(t, got.UserDetails, "password")

	stored, err := st.Users().GetUser(ctx, domain.UserKey{Email: "res@example.org", Platform: "moveo"})
	require.NoError(t, err)
	require.NoError(t, cryptox.VerifyPassword("new-password", stored.PasswordHash))
	require.ErrorIs(t, cryptox.VerifyPassword("old-password", stored.PasswordHash), cryptox.ErrMismatch)
}

func TestUpdateUserAbsent(t *testing.T) {
	st := newTestStore(t)
	svc := newUserService(t, st)

	username := "ghost"
	_, err := svc.UpdateUser(context.Background(),
		domain.UserKey{Email: "ghost@example.org", Platform: "moveo"},
		boundary.UserPatch{Username: &username},
	)
	requireCategory(t, err, goerrors.CategoryNotFound, ErrCodeUserNotFound)
}

func TestGetAllUsersRequiresAdmin(t *testing.T) {
	st := newTestStore(t)
	svc := newUserService(t, st)
	admin := seedUser(t, st, "admin@example.org", domain.RoleAdmin, "hunter2")
	researcher := seedUser(t, st, "res@example.org", domain.RoleResearcher, "hunter2")
	ctx := context.Background()

	users, err := svc.GetAllUsers(ctx, admin.Key)
	require.NoError(t, err)
	require.Len(t, users, 2)

	_, err = svc.GetAllUsers(ctx, researcher.Key)
	requireCategory(t, err, goerrors.CategoryAuthz, ErrCodeForbidden)

	_, err = svc.GetAllUsers(ctx, domain.UserKey{Email: "ghost@example.org", Platform: "moveo"})
	requireCategory(t, err, goerrors.CategoryNotFound, ErrCodeUserNotFound)
}

func TestDeleteAllUsers(t *testing.T) {
	st := newTestStore(t)
	svc := newUserService(t, st)
	admin := seedUser(t, st, "admin@example.org", domain.RoleAdmin, "hunter2")
	seedUser(t, st, "a@example.org", domain.RoleParticipant, "")
	seedUser(t, st, "b@example.org", domain.RoleParticipant, "")
	ctx := context.Background()

	res, err := svc.DeleteAllUsers(ctx, admin.Key)
	require.NoError(t, err)
	require.EqualValues(t, 3, res.Matched)
	require.EqualValues(t, 3, res.Deleted)

	// The caller was deleted with everyone else; a repeat call no longer
	// resolves them.
	_, err = svc.DeleteAllUsers(ctx, admin.Key)
	requireCategory(t, err, goerrors.CategoryNotFound, ErrCodeUserNotFound)
}

func TestDeleteAllUsersForbiddenForParticipant(t *testing.T) {
	st := newTestStore(t)
	svc := newUserService(t, st)
	part := seedUser(t, st, "part@example.org", domain.RoleParticipant, "")

	_, err := svc.DeleteAllUsers(context.Background(), part.Key)
	requireCategory(t, err, goerrors.CategoryAuthz, ErrCodeForbidden)
}
