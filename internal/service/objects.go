package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/openfieldlab/fieldlab/internal/boundary"
	"github.com/openfieldlab/fieldlab/internal/store"
	"github.com/openfieldlab/fieldlab/pkg/slogx"
)

// ObjectService owns object creation. Schema validation happens in the
// store; this layer assigns identifiers and translates outcomes.
type ObjectService struct {
	store store.Store
}

func NewObjectService(st store.Store) *ObjectService {
	return &ObjectService{store: st}
}

// CreateObject persists a new object and returns it with its assigned
// identifier. A document the schema rejects is the caller's fault;
// anything else is ours.
func (s *ObjectService) CreateObject(ctx context.Context, b boundary.Object) (boundary.Object, error) {
	o, err := objectToModel(b)
	if err != nil {
		return boundary.Object{}, err
	}

	err = s.store.Objects().CreateObject(ctx, o)
	switch {
	case errors.Is(err, store.ErrInvalidDocument):
		return boundary.Object{}, errInvalidDocument("invalid input, some required fields are missing")
	case errors.Is(err, store.ErrAlreadyExists):
		return boundary.Object{}, wrapInternal(err, "object id collision")
	case err != nil:
		return boundary.Object{}, wrapInternal(err, "create object")
	}

	created, err := s.store.Objects().GetObjectByID(ctx, o.ID)
	if err != nil {
		return boundary.Object{}, wrapInternal(err, "read back object")
	}

	slogx.FromContext(ctx).Info("object created",
		slog.String("id", created.ID.String()),
		slog.String("type", created.Type),
	)
	return objectToBoundary(created), nil
}
