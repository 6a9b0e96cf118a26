package notes

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"notebox/internal/kv"
)

// StorageKey is the durable store key holding the serialized collection.
const StorageKey = "notes"

// Store owns the note collection. Every mutation is written through to the
// durable store before the call returns. All methods are safe for concurrent
// use; operations are serialized so each one runs to completion.
//
// When a write fails the in-memory change is kept and the method returns its
// result together with a *PersistenceError.
type Store struct {
	mu    sync.Mutex
	kv    kv.Store
	ids   *IDGenerator
	notes []Note
}

func NewStore(durable kv.Store, ids *IDGenerator) *Store {
	if ids == nil {
		ids = NewIDGenerator(nil)
	}
	return &Store{kv: durable, ids: ids}
}

// Add validates the input and appends a new note.
func (s *Store) Add(ctx context.Context, title, body, category string) (Note, error) {
	n, err := validate(title, body, category)
	if err != nil {
		return Note{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n.ID = s.ids.Next(func(id string) bool { return s.indexOf(id) >= 0 })
	s.notes = append(s.notes, n)

	return n, s.persistLocked(ctx)
}

// Update replaces the editable fields of a note in place. The archived flag is
// cleared on every edit.
func (s *Store) Update(ctx context.Context, id, title, body, category string) (Note, error) {
	n, err := validate(title, body, category)
	if err != nil {
		return Note{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Note{}, &NotFoundError{ID: id}
	}
	n.ID = id
	s.notes[i] = n

	return n, s.persistLocked(ctx)
}

// Remove deletes the note with id. Removing an absent id is not an error.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	s.notes = append(s.notes[:i], s.notes[i+1:]...)

	return s.persistLocked(ctx)
}

// SetArchived sets the archived flag. Absent ids are ignored.
func (s *Store) SetArchived(ctx context.Context, id string, archived bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	s.notes[i].Archived = archived

	return s.persistLocked(ctx)
}

// Load replaces the collection with the persisted one. A missing or malformed
// payload yields an empty collection; only a failing durable read is an error,
// and then the current collection is left as it was. The read happens under
// the store lock so no mutation can land between read and swap.
func (s *Store) Load(ctx context.Context) ([]Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.kv.Get(ctx, StorageKey)
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		return nil, &PersistenceError{Op: "load", Err: err}
	}

	var loaded []Note
	if err == nil {
		loaded, _ = DecodeNotes(data)
	}

	s.notes = loaded
	return s.snapshotLocked(), nil
}

// Persist writes the whole collection, overwriting what was stored before.
func (s *Store) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.persistLocked(ctx)
}

// Replace swaps in a new collection wholesale and persists it. Records that
// break the note invariants are dropped; the rest are stored normalized.
func (s *Store) Replace(ctx context.Context, notes []Note) error {
	clean := make([]Note, 0, len(notes))
	seen := make(map[string]bool, len(notes))
	for _, n := range notes {
		if n.ID == "" || seen[n.ID] {
			continue
		}
		v, err := validate(n.Title, n.Body, string(n.Category))
		if err != nil {
			continue
		}
		v.ID = n.ID
		v.Archived = n.Archived
		seen[n.ID] = true
		clean = append(clean, v)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes = clean
	return s.persistLocked(ctx)
}

// Notes returns a copy of the collection in insertion order.
func (s *Store) Notes() []Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotLocked()
}

func (s *Store) Get(id string) (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Note{}, &NotFoundError{ID: id}
	}
	return s.notes[i], nil
}

func (s *Store) persistLocked(ctx context.Context) error {
	data, err := EncodeNotes(s.notes)
	if err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	if err := s.kv.Set(ctx, StorageKey, data); err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	return nil
}

func (s *Store) snapshotLocked() []Note {
	out := make([]Note, len(s.notes))
	copy(out, s.notes)
	return out
}

func (s *Store) indexOf(id string) int {
	for i, n := range s.notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func validate(title, body, category string) (Note, error) {
	n := Note{
		Title: strings.TrimSpace(title),
		Body:  strings.TrimSpace(body),
	}

	fields := make(map[string]string)
	switch {
	case n.Title == "":
		fields["title"] = "Title cannot be empty"
	case !utf8.ValidString(n.Title):
		fields["title"] = "Title must be valid UTF-8 text"
	}
	switch {
	case n.Body == "":
		fields["body"] = "Content cannot be empty"
	case !utf8.ValidString(n.Body):
		fields["body"] = "Content must be valid UTF-8 text"
	}
	cat, ok := ParseCategory(category)
	if !ok {
		fields["category"] = "Category must be one of project, business, personal"
	}
	if len(fields) > 0 {
		return Note{}, &ValidationError{Fields: fields}
	}

	n.Category = cat
	return n, nil
}
