package store

import (
	"context"
	"errors"

	"github.com/openfieldlab/fieldlab/internal/domain"
	"github.com/openfieldlab/fieldlab/pkg/idx"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrInvalidDocument reports that a record failed schema validation
	// before commit. It is deliberately distinct from infrastructure
	// failures: the services map it to a client-facing bad request while
	// everything else stays an internal error.
	ErrInvalidDocument = errors.New("store: document failed schema validation")
)

// Store is the root data access interface. Concrete drivers implement
// this; it exposes sub-repositories to keep concerns tidy and testable.
type Store interface {
	Users() Users
	Objects() Objects

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn
	// returns nil and rolling back otherwise. Prefer this over Tx.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// DeleteResult reports the outcome of a bulk delete.
type DeleteResult struct {
	Matched int64 `json:"matchedCount"`
	Deleted int64 `json:"deletedCount"`
}

type Users interface {
	// GetUser returns the user with the given compound key, or
	// ErrNotFound. Callers must branch on the error before touching the
	// returned record.
	GetUser(ctx context.Context, key domain.UserKey) (domain.User, error)

	// ListUsers returns every user record.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// CreateUser inserts a new user. The compound key is unique at the
	// schema level, so a concurrent duplicate insert surfaces as
	// ErrAlreadyExists rather than a silent duplicate.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUser rewrites the mutable fields (username, password hash,
	// details) of an existing user and bumps updated_at.
	UpdateUser(ctx context.Context, u domain.User) error

	// DeleteAllUsers removes every user record and reports the counts.
	DeleteAllUsers(ctx context.Context) (DeleteResult, error)
}

type Objects interface {
	// CreateObject inserts a new object after schema validation.
	// Missing required fields or a dangling attachment reference return
	// ErrInvalidDocument.
	CreateObject(ctx context.Context, o domain.Object) error

	// GetObjectByID returns an object by its identifier, or ErrNotFound.
	GetObjectByID(ctx context.Context, id idx.ID) (domain.Object, error)
}
