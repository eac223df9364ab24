package sqlite

import (
	"context"
	"time"

	"github.com/openfieldlab/fieldlab/internal/domain"
	"github.com/openfieldlab/fieldlab/internal/store"
)

type usersRepo struct {
	q queryer
}

const userColumns = `email, platform, username, role, password_hash, details, created_at, updated_at`

func (r *usersRepo) GetUser(ctx context.Context, key domain.UserKey) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ? AND platform = ?`,
		key.Email, key.Platform,
	)
	return scanUser(row)
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at, email`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	details, err := marshalDetails(u.Details)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = r.q.ExecContext(ctx,
		`INSERT INTO users (email, platform, username, role, password_hash, details, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Key.Email, u.Key.Platform, u.Username, string(u.Role), u.PasswordHash, details, now, now,
	)
	return mapConstraint(err)
}

func (r *usersRepo) UpdateUser(ctx context.Context, u domain.User) error {
	details, err := marshalDetails(u.Details)
	if err != nil {
		return err
	}

	res, err := r.q.ExecContext(ctx,
		`UPDATE users
		 SET username = ?, password_hash = ?, details = ?, updated_at = ?
		 WHERE email = ? AND platform = ?`,
		u.Username, u.PasswordHash, details, time.Now().UTC(), u.Key.Email, u.Key.Platform,
	)
	if err != nil {
		return mapConstraint(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) DeleteAllUsers(ctx context.Context) (store.DeleteResult, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM users`)
	if err != nil {
		return store.DeleteResult{}, err
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return store.DeleteResult{}, err
	}

	// A filter-less delete matches exactly what it removes
	return store.DeleteResult{Matched: deleted, Deleted: deleted}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u          domain.User
		role       string
		rawDetails string
	)
	err := row.Scan(
		&u.Key.Email, &u.Key.Platform, &u.Username, &role,
		&u.PasswordHash, &rawDetails, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.Role = domain.Role(role)
	u.Details, err = unmarshalDetails(rawDetails)
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}
