package service

import (
	goerrors "github.com/goliatone/go-errors"
)

// Text codes carried on service errors so API clients can branch without
// parsing messages.
const (
	ErrCodeUserNotFound    = "USER_NOT_FOUND"
	ErrCodeBadCredentials  = "BAD_CREDENTIALS"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeInvalidDocument = "INVALID_DOCUMENT"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

func errNotFound(message string) error {
	return goerrors.New(message, goerrors.CategoryNotFound).
		WithTextCode(ErrCodeUserNotFound)
}

func errBadCredentials(message string) error {
	return goerrors.New(message, goerrors.CategoryBadInput).
		WithTextCode(ErrCodeBadCredentials)
}

func errInvalidDocument(message string) error {
	return goerrors.New(message, goerrors.CategoryBadInput).
		WithTextCode(ErrCodeInvalidDocument)
}

func errForbidden(message string) error {
	return goerrors.New(message, goerrors.CategoryAuthz).
		WithTextCode(ErrCodeForbidden)
}

func wrapInternal(err error, message string) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, message).
		WithTextCode(ErrCodeInternal)
}
