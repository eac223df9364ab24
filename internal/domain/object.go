package domain

import (
	"time"

	"github.com/openfieldlab/fieldlab/pkg/idx"
)

// Object is a generic attachable entity. Type and Alias are required by
// the store schema; ParentID, when set, attaches the object to another
// object and must reference an existing record.
type Object struct {
	ID        idx.ID
	Type      string
	Alias     string
	Active    bool
	ParentID  idx.ID // zero when the object is not attached
	CreatedBy UserKey
	Details   map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}
