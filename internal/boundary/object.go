package boundary

import "time"

// Object is the external object representation. ID is assigned by the
// service on creation; AttachedTo optionally references the identifier
// of an existing object.
type Object struct {
	ID            string         `json:"id,omitempty"`
	Type          string         `json:"type"`
	Alias         string         `json:"alias"`
	Active        bool           `json:"active"`
	AttachedTo    string         `json:"attachedTo,omitempty"`
	CreatedBy     UserID         `json:"createdBy"`
	ObjectDetails map[string]any `json:"objectDetails,omitempty"`
	CreatedAt     time.Time      `json:"creationTimestamp,omitzero"`
}
