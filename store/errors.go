package store

import (
	"database/sql"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// ErrNotFound is returned by loaders when an identity does not exist.
var ErrNotFound = goerrors.New("identity not found", goerrors.CategoryNotFound).
	WithTextCode("NOT_FOUND")

// IsNotFound reports whether err means the identity does not exist in the
// backing store.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, sql.ErrNoRows) {
		return true
	}
	return goerrors.IsCategory(err, goerrors.CategoryNotFound)
}

func loadFailed(err error, d Descriptor) error {
	msg := "backing load failed"
	if d.Condition != "" {
		msg += " for condition " + d.Condition
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, msg).
		WithTextCode("BACKING_LOAD_FAILED")
}

func refreshFailed(err error, id string) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, "refresh failed for "+id).
		WithTextCode("BACKING_REFRESH_FAILED")
}

func unsupported(msg string) error {
	return goerrors.New(msg, goerrors.CategoryValidation).
		WithTextCode("UNSUPPORTED_DESCRIPTOR")
}
