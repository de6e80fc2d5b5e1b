// Package store implements the data-access layer: account management and
// the per-user entry ledger, both backed by gorm.
package store

import "errors"

var (
	// ErrNotFound is returned when no record matches under the given
	// username scope.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateUsername is returned when registration hits the unique
	// index on users.username.
	ErrDuplicateUsername = errors.New("username already registered")

	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password; callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidSortField is returned for sort fields outside the
	// whitelist (date, amount).
	ErrInvalidSortField = errors.New("invalid sort field")
)
