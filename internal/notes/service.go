package notes

import (
	"bytes"
	"context"
	"errors"
	"html"
	"log/slog"

	"github.com/yuin/goldmark"
)

var errNoRemote = errors.New("no remote endpoint configured")

// Fetcher retrieves a note collection from a remote source.
type Fetcher interface {
	FetchNotes(ctx context.Context) ([]Note, error)
}

type Service struct {
	store   *Store
	fetcher Fetcher
	md      goldmark.Markdown
	log     *slog.Logger
}

// NewService wires the store to an optional fetcher. fetcher may be nil.
func NewService(store *Store, fetcher Fetcher, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store:   store,
		fetcher: fetcher,
		md:      goldmark.New(),
		log:     log,
	}
}

// Load reads the persisted collection into memory.
func (s *Service) Load(ctx context.Context) ([]Note, error) {
	notes, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.log.Debug("notes loaded", "count", len(notes))
	return notes, nil
}

// List returns the notes selected by filter.
func (s *Service) List(filter Filter) []Note {
	return Project(s.store.Notes(), filter)
}

func (s *Service) GetByID(id string) (Note, error) {
	return s.store.Get(id)
}

// Create adds a new note
func (s *Service) Create(ctx context.Context, in NoteInput) (Note, error) {
	n, err := s.store.Add(ctx, in.Title, in.Body, in.Category)
	s.logPersistFailure("create", err)
	return n, err
}

// Update edits a note; the archived flag is cleared.
func (s *Service) Update(ctx context.Context, id string, in NoteInput) (Note, error) {
	n, err := s.store.Update(ctx, id, in.Title, in.Body, in.Category)
	s.logPersistFailure("update", err)
	return n, err
}

// Delete removes a note by ID
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.store.Remove(ctx, id)
	s.logPersistFailure("delete", err)
	return err
}

func (s *Service) SetArchived(ctx context.Context, id string, archived bool) error {
	err := s.store.SetArchived(ctx, id, archived)
	s.logPersistFailure("archive", err)
	return err
}

// Categories returns per-category note counts.
func (s *Service) Categories() []CategoryCount {
	return CountByCategory(s.store.Notes())
}

// Sync replaces the collection with the remote one. Local edits made while the
// fetch was in flight are overwritten. On failure the store is untouched and
// the error is a *FetchError.
func (s *Service) Sync(ctx context.Context) (int, error) {
	if s.fetcher == nil {
		return 0, &FetchError{Err: errNoRemote}
	}

	fetched, err := s.fetcher.FetchNotes(ctx)
	if err != nil {
		var fe *FetchError
		if !errors.As(err, &fe) {
			err = &FetchError{Err: err}
		}
		s.log.Warn("fetch notes failed", "error", err)
		return 0, err
	}

	if err := s.store.Replace(ctx, fetched); err != nil {
		s.logPersistFailure("sync", err)
		return len(s.store.Notes()), err
	}

	n := len(s.store.Notes())
	s.log.Info("notes synced from remote", "count", n)
	return n, nil
}

// RenderMarkdown converts markdown content to HTML
func (s *Service) RenderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(content), &buf); err != nil {
		return html.EscapeString(content)
	}
	return buf.String()
}

func (s *Service) logPersistFailure(op string, err error) {
	var pe *PersistenceError
	if errors.As(err, &pe) {
		s.log.Error("notes not persisted; keeping in-memory state", "op", op, "error", pe)
	}
}
