package services

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a referenced record does not resolve.
var ErrNotFound = errors.New("not found")

// ErrInvalidID is returned for malformed object ids.
var ErrInvalidID = errors.New("invalid id")

// ConflictError is a business-rule rejection caused by another record:
// duplicate slug, duplicate registration, duplicate taxonomy name.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// PublishGateError rejects a transition to published while required fields
// are missing. Missing holds the field names so the caller can fix and
// resubmit.
type PublishGateError struct {
	Missing []string
}

func (e *PublishGateError) Error() string {
	return fmt.Sprintf("cannot publish: missing required fields: %s", strings.Join(e.Missing, ", "))
}

// RenameInUseError rejects renaming a taxonomy entry that vehicles already
// reference.
type RenameInUseError struct {
	Label string
	Count int64
}

func (e *RenameInUseError) Error() string {
	return fmt.Sprintf("%s is referenced by %d record(s) and cannot be renamed; create a new %s instead", e.Label, e.Count, e.Label)
}
