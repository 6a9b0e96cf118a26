package notes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// EventType names a UI event.
type EventType string

const (
	EventAddNote      EventType = "add-note"
	EventEdit         EventType = "edit"
	EventCancelEdit   EventType = "cancel-edit"
	EventDelete       EventType = "delete"
	EventArchive      EventType = "archive"
	EventUnarchive    EventType = "unarchive"
	EventFilterSelect EventType = "filter-select"
	EventFetch        EventType = "fetch"
)

// Event is a discrete UI action. Only the fields relevant to Type are read.
type Event struct {
	Type     EventType `json:"type"`
	ID       string    `json:"id,omitempty"`
	Title    string    `json:"title,omitempty"`
	Body     string    `json:"body,omitempty"`
	Category string    `json:"category,omitempty"`
	Filter   string    `json:"filter,omitempty"`
}

// State is what the UI renders after an event.
type State struct {
	Filter    Filter `json:"filter"`
	EditingID string `json:"editingId,omitempty"`
	Editing   *Note  `json:"editing,omitempty"`
	Notes     []Note `json:"notes"`
}

// Controller turns UI events into store operations. It remembers the selected
// filter and the note being edited; while editing, add-note commits the edit.
type Controller struct {
	mu      sync.Mutex
	svc     *Service
	log     *slog.Logger
	filter  Filter
	editing string
}

func NewController(svc *Service, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{svc: svc, log: log, filter: FilterAll}
}

// Dispatch applies ev and returns the re-projected state. The state is
// returned even when err is non-nil.
func (c *Controller) Dispatch(ctx context.Context, ev Event) (State, error) {
	// The fetch runs unlocked so other events proceed while it is in flight.
	if ev.Type == EventFetch {
		_, err := c.svc.Sync(ctx)
		return c.State(), err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.applyLocked(ctx, ev)
	return c.stateLocked(), err
}

// State returns the current view without applying an event.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.stateLocked()
}

func (c *Controller) applyLocked(ctx context.Context, ev Event) error {
	switch ev.Type {
	case EventAddNote:
		in := NoteInput{Title: ev.Title, Body: ev.Body, Category: ev.Category}
		if c.editing == "" {
			_, err := c.svc.Create(ctx, in)
			return err
		}

		_, err := c.svc.Update(ctx, c.editing, in)
		var ve *ValidationError
		if errors.As(err, &ve) {
			return err
		}
		if errors.Is(err, ErrNoteNotFound) {
			c.log.Debug("edited note no longer exists", "id", c.editing)
			err = nil
		}
		c.editing = ""
		return err

	case EventEdit:
		if _, err := c.svc.GetByID(ev.ID); err != nil {
			return err
		}
		c.editing = ev.ID
		return nil

	case EventCancelEdit:
		c.editing = ""
		return nil

	case EventDelete:
		if ev.ID == c.editing {
			c.editing = ""
		}
		return c.svc.Delete(ctx, ev.ID)

	case EventArchive:
		return c.svc.SetArchived(ctx, ev.ID, true)

	case EventUnarchive:
		return c.svc.SetArchived(ctx, ev.ID, false)

	case EventFilterSelect:
		c.filter = ParseFilter(ev.Filter)
		return nil

	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
}

func (c *Controller) stateLocked() State {
	st := State{
		Filter:    c.filter,
		EditingID: c.editing,
		Notes:     c.svc.List(c.filter),
	}
	if c.editing != "" {
		if n, err := c.svc.GetByID(c.editing); err == nil {
			st.Editing = &n
		}
	}
	return st
}
