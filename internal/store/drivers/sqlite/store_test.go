package sqlite_test

import (
	"context"
	"testing"

	"github.com/openfieldlab/fieldlab/internal/domain"
	"github.com/openfieldlab/fieldlab/internal/store"
	"github.com/openfieldlab/fieldlab/internal/store/drivers/sqlite"
	"github.com/openfieldlab/fieldlab/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func testUser(email string, role domain.Role) domain.User {
	return domain.User{
		Key:          domain.UserKey{Email: email, Platform: "moveo"},
		Username:     "user-" + email,
		Role:         role,
		PasswordHash: "$2a$10$fakefakefakefakefakefakefakefakefakefakefakefakefakef",
		Details:      map[string]any{"team": "blue"},
	}
}

func TestUsersRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := testUser("alice@example.org", domain.RoleResearcher)
	require.NoError(t, st.Users().CreateUser(ctx, u))

	got, err := st.Users().GetUser(ctx, u.Key)
	require.NoError(t, err)
	require.Equal(t, u.Key, got.Key)
	require.Equal(t, u.Username, got.Username)
	require.Equal(t, domain.RoleResearcher, got.Role)
	require.Equal(t, u.PasswordHash, got.PasswordHash)
	require.Equal(t, "blue", got.Details["team"])
	require.False(t, got.CreatedAt.IsZero())
}

func TestGetUserAbsent(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	_, err := st.Users().GetUser(ctx, domain.UserKey{Email: "nobody@example.org", Platform: "moveo"})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateUserDuplicateKeyConflicts(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := testUser("alice@example.org", domain.RoleParticipant)
	require.NoError(t, st.Users().CreateUser(ctx, u))

	err := st.Users().CreateUser(ctx, u)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestCreateUserSamePlatformDifferentEmail(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	require.NoError(t, st.Users().CreateUser(ctx, testUser("alice@example.org", domain.RoleAdmin)))
	require.NoError(t, st.Users().CreateUser(ctx, testUser("bob@example.org", domain.RoleAdmin)))

	users, err := st.Users().ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
}

func TestCreateUserInvalidRoleRejected(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := testUser("alice@example.org", "SUPERVISOR")
	err := st.Users().CreateUser(ctx, u)
	require.ErrorIs(t, err, store.ErrInvalidDocument)
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := testUser("alice@example.org", domain.RoleResearcher)
	require.NoError(t, st.Users().CreateUser(ctx, u))

	u.Username = "renamed"
	u.Details = map[string]any{"team": "red", "lab": "basement"}
	require.NoError(t, st.Users().UpdateUser(ctx, u))

	got, err := st.Users().GetUser(ctx, u.Key)
	require.NoError(t, err)
	require.Equal(t, "renamed", got.Username)
	require.Equal(t, "red", got.Details["team"])
	require.Equal(t, "basement", got.Details["lab"])
}

func TestUpdateUserAbsent(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	err := st.Users().UpdateUser(ctx, testUser("ghost@example.org", domain.RoleAdmin))
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteAllUsers(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	require.NoError(t, st.Users().CreateUser(ctx, testUser("a@example.org", domain.RoleAdmin)))
	require.NoError(t, st.Users().CreateUser(ctx, testUser("b@example.org", domain.RoleParticipant)))
	require.NoError(t, st.Users().CreateUser(ctx, testUser("c@example.org", domain.RoleResearcher)))

	res, err := st.Users().DeleteAllUsers(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, res.Matched)
	require.EqualValues(t, 3, res.Deleted)

	users, err := st.Users().ListUsers(ctx)
	require.NoError(t, err)
	require.Empty(t, users)
}

func testObject() domain.Object {
	return domain.Object{
		ID:        idx.New(),
		Type:      "sensor",
		Alias:     "hallway-sensor",
		Active:    true,
		CreatedBy: domain.UserKey{Email: "alice@example.org", Platform: "moveo"},
		Details:   map[string]any{"model": "sht31"},
	}
}

func TestObjectsRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	o := testObject()
	require.NoError(t, st.Objects().CreateObject(ctx, o))

	got, err := st.Objects().GetObjectByID(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, o.ID, got.ID)
	require.Equal(t, "sensor", got.Type)
	require.Equal(t, "hallway-sensor", got.Alias)
	require.True(t, got.Active)
	require.Equal(t, o.CreatedBy, got.CreatedBy)
	require.Equal(t, "sht31", got.Details["model"])
	require.True(t, got.ParentID.IsZero())
}

func TestCreateObjectMissingRequiredField(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	o := testObject()
	o.Type = ""
	require.ErrorIs(t, st.Objects().CreateObject(ctx, o), store.ErrInvalidDocument)

	o = testObject()
	o.Alias = ""
	require.ErrorIs(t, st.Objects().CreateObject(ctx, o), store.ErrInvalidDocument)

	o = testObject()
	o.CreatedBy = domain.UserKey{}
	require.ErrorIs(t, st.Objects().CreateObject(ctx, o), store.ErrInvalidDocument)
}

func TestCreateObjectAttachment(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	parent := testObject()
	require.NoError(t, st.Objects().CreateObject(ctx, parent))

	child := testObject()
	child.Alias = "child-sensor"
	child.ParentID = parent.ID
	require.NoError(t, st.Objects().CreateObject(ctx, child))

	got, err := st.Objects().GetObjectByID(ctx, child.ID)
	require.NoError(t, err)
	require.Equal(t, parent.ID, got.ParentID)
}

func TestCreateObjectDanglingAttachment(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	o := testObject()
	o.ParentID = idx.New() // never persisted
	require.ErrorIs(t, st.Objects().CreateObject(ctx, o), store.ErrInvalidDocument)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	sentinel := store.ErrInvalidDocument
	err := st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, testUser("tx@example.org", domain.RoleAdmin)); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	_, err = st.Users().GetUser(ctx, domain.UserKey{Email: "tx@example.org", Platform: "moveo"})
	require.ErrorIs(t, err, store.ErrNotFound)
}
