package service

import (
	"github.com/openfieldlab/fieldlab/internal/boundary"
	"github.com/openfieldlab/fieldlab/internal/domain"
	"github.com/openfieldlab/fieldlab/pkg/cryptox"
	"github.com/openfieldlab/fieldlab/pkg/idx"
)

// detailsPasswordKey is the key under which an inbound user may carry
// its plaintext password. It is lifted out before anything touches the
// store and never written back on the way out.
const detailsPasswordKey = "password"

// passwordFromDetails lifts the plaintext password out of an inbound
// details map.
func passwordFromDetails(details map[string]any) (string, bool) {
	raw, ok := details[detailsPasswordKey]
	if !ok {
		return "", false
	}
	password, ok := raw.(string)
	return password, ok && password != ""
}

// userToModel converts an inbound user into its stored form: the role is
// validated, the password (if present) is hashed, and the remaining
// details are copied without it.
func userToModel(b boundary.User) (domain.User, error) {
	role, err := domain.ParseRole(b.Role)
	if err != nil {
		return domain.User{}, errInvalidDocument(err.Error())
	}

	u := domain.User{
		Key:      domain.UserKey{Email: b.UserID.Email, Platform: b.UserID.Platform},
		Username: b.Username,
		Role:     role,
		Details:  make(map[string]any, len(b.UserDetails)),
	}

	for k, v := range b.UserDetails {
		if k == detailsPasswordKey {
			continue
		}
		u.Details[k] = v
	}

	if password, ok := passwordFromDetails(b.UserDetails); ok {
		hash, err := cryptox.HashPassword(password)
		if err != nil {
			return domain.User{}, wrapInternal(err, "hash password")
		}
		u.PasswordHash = hash
	}

	return u, nil
}

// userToBoundary converts a stored user into its external form. The
// password hash never crosses this boundary.
func userToBoundary(u domain.User) boundary.User {
	details := make(map[string]any, len(u.Details))
	for k, v := range u.Details {
		details[k] = v
	}

	return boundary.User{
		UserID:      boundary.UserID{Email: u.Key.Email, Platform: u.Key.Platform},
		Role:        u.Role.String(),
		Username:    u.Username,
		UserDetails: details,
	}
}

// applyUserPatch merges a partial update onto a stored user, returning
// the updated copy. A patched password is hashed before it replaces the
// previous hash; all other detail keys are merged as-is.
func applyUserPatch(u domain.User, p boundary.UserPatch) (domain.User, error) {
	if p.Username != nil {
		u.Username = *p.Username
	}

	if p.Password != nil {
		hash, err := cryptox.HashPassword(*p.Password)
		if err != nil {
			return domain.User{}, wrapInternal(err, "hash password")
		}
		u.PasswordHash = hash
	}

	if len(p.Details) > 0 {
		merged := make(map[string]any, len(u.Details)+len(p.Details))
		for k, v := range u.Details {
			merged[k] = v
		}
		for k, v := range p.Details {
			if k == detailsPasswordKey {
				continue
			}
			merged[k] = v
		}
		u.Details = merged
	}

	return u, nil
}

// objectToModel converts an inbound object into its stored form with a
// freshly generated identifier. AttachedTo, when present, must be a
// well-formed identifier; whether it references a live object is the
// store's call.
func objectToModel(b boundary.Object) (domain.Object, error) {
	o := domain.Object{
		ID:        idx.New(),
		Type:      b.Type,
		Alias:     b.Alias,
		Active:    b.Active,
		CreatedBy: domain.UserKey{Email: b.CreatedBy.Email, Platform: b.CreatedBy.Platform},
		Details:   make(map[string]any, len(b.ObjectDetails)),
	}

	for k, v := range b.ObjectDetails {
		o.Details[k] = v
	}

	if b.AttachedTo != "" {
		parent, err := idx.Parse(b.AttachedTo)
		if err != nil {
			return domain.Object{}, errInvalidDocument("attachedTo is not a valid object id")
		}
		o.ParentID = parent
	}

	return o, nil
}

func objectToBoundary(o domain.Object) boundary.Object {
	details := make(map[string]any, len(o.Details))
	for k, v := range o.Details {
		details[k] = v
	}

	return boundary.Object{
		ID:            o.ID.String(),
		Type:          o.Type,
		Alias:         o.Alias,
		Active:        o.Active,
		AttachedTo:    o.ParentID.String(),
		CreatedBy:     boundary.UserID{Email: o.CreatedBy.Email, Platform: o.CreatedBy.Platform},
		ObjectDetails: details,
		CreatedAt:     o.CreatedAt,
	}
}
