// Package domain holds the sentinel errors shared by the domain packages and
// their repository implementations.
package domain

import "errors"

var (
	// ErrNotFound is returned by repositories when a lookup matches no row.
	ErrNotFound = errors.New("record not found")

	// ErrTransient marks infrastructure failures worth one more attempt
	// (serialization failures, deadlocks, dropped connections).
	ErrTransient = errors.New("transient storage failure")
)

// ErrConflict is returned when a write hits a unique constraint that has no
// more specific meaning (duplicate zip area, duplicate discount code).
var ErrConflict = errors.New("record already exists")
