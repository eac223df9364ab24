package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/openfieldlab/fieldlab/internal/domain"
	"github.com/openfieldlab/fieldlab/pkg/idx"
)

type objectsRepo struct {
	q queryer
}

const objectColumns = `id, type, alias, active, parent_id, created_by_email, created_by_platform, details, created_at, updated_at`

func (r *objectsRepo) CreateObject(ctx context.Context, o domain.Object) error {
	details, err := marshalDetails(o.Details)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = r.q.ExecContext(ctx,
		`INSERT INTO objects (id, type, alias, active, parent_id, created_by_email, created_by_platform, details, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID.String(), nullIfEmpty(o.Type), nullIfEmpty(o.Alias), o.Active,
		nullIfEmpty(o.ParentID.String()),
		nullIfEmpty(o.CreatedBy.Email), nullIfEmpty(o.CreatedBy.Platform),
		details, now, now,
	)
	return mapConstraint(err)
}

func (r *objectsRepo) GetObjectByID(ctx context.Context, id idx.ID) (domain.Object, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+objectColumns+` FROM objects WHERE id = ?`,
		id.String(),
	)

	var (
		o          domain.Object
		rawID      string
		parentID   sql.NullString
		rawDetails string
	)
	err := row.Scan(
		&rawID, &o.Type, &o.Alias, &o.Active, &parentID,
		&o.CreatedBy.Email, &o.CreatedBy.Platform,
		&rawDetails, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return domain.Object{}, mapNotFound(err)
	}

	o.ID = idx.ID(rawID)
	if parentID.Valid {
		o.ParentID = idx.ID(parentID.String)
	}
	o.Details, err = unmarshalDetails(rawDetails)
	if err != nil {
		return domain.Object{}, err
	}
	return o, nil
}

// nullIfEmpty maps "" to NULL so the schema's NOT NULL constraints catch
// missing required fields instead of silently storing empty strings.
func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
