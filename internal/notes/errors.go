package notes

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNoteNotFound = errors.New("note not found")
	ErrUnknownEvent = errors.New("unknown event")
)

// ValidationError reports user input that was rejected before any mutation.
// Fields maps a field name to its user-facing message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, len(keys))
	for i, k := range keys {
		msgs[i] = e.Fields[k]
	}
	return "invalid note: " + strings.Join(msgs, "; ")
}

// NotFoundError is returned when an operation names an id the store does not hold.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("note %s not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNoteNotFound
}

// PersistenceError wraps a durable store failure. The in-memory collection
// stays authoritative until the next successful write.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s notes: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// FetchError reports a failed remote fetch. Status is zero when no response arrived.
type FetchError struct {
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("Failed to fetch notes: status %d", e.Status)
	}
	return fmt.Sprintf("Failed to fetch notes: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
