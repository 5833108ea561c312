// Package service implements the lifecycle and scheduling engine: group
// hierarchy maintenance under cascading soft-delete, trash retention, and the
// polling alarm sweep. Every public operation opens one short-lived
// transaction against the store and commits before returning; nothing is held
// across calls except what is persisted.
package service

import "errors"

var (
	// ErrNotFound means a referenced group or note does not exist or is not
	// active.
	ErrNotFound = errors.New("not found")

	// ErrConflict means a permanent delete hit a subtree that still has
	// active members.
	ErrConflict = errors.New("subtree has active items")

	// ErrInvalidSnooze means the requested snooze duration is unsupported.
	ErrInvalidSnooze = errors.New("snooze duration must be 5, 10, or 30 minutes")

	// ErrInvalidKind means a trash operation named something other than a
	// group or a note.
	ErrInvalidKind = errors.New("kind must be group or note")
)
