package notes

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"notebox/views/components"
	"notebox/views/models"
	"notebox/views/pages"
)

type Handler struct {
	svc  *Service
	ctrl *Controller
	log  *slog.Logger
}

func NewHandler(svc *Service, ctrl *Controller, log *slog.Logger) *Handler {
	return &Handler{svc: svc, ctrl: ctrl, log: log}
}

// Register mounts the REST API, the UI event endpoint and the HTML views.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/notes", h.ListNotes)
	mux.HandleFunc("POST /api/notes", h.CreateNote)
	mux.HandleFunc("GET /api/notes/{id}", h.GetNote)
	mux.HandleFunc("PUT /api/notes/{id}", h.UpdateNote)
	mux.HandleFunc("DELETE /api/notes/{id}", h.DeleteNote)
	mux.HandleFunc("POST /api/notes/{id}/archive", h.ArchiveNote)
	mux.HandleFunc("POST /api/notes/{id}/unarchive", h.UnarchiveNote)
	mux.HandleFunc("GET /api/categories", h.ListCategories)
	mux.HandleFunc("GET /api/state", h.GetState)
	mux.HandleFunc("POST /api/events", h.DispatchEvent)
	mux.HandleFunc("POST /api/sync", h.SyncNotes)

	mux.HandleFunc("GET /", h.HomePage)
	mux.HandleFunc("GET /fragments/notes", h.NotesFragment)
}

// --- REST API Handlers ---

// ListNotes handles GET /api/notes?filter=
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	filter := ParseFilter(r.URL.Query().Get("filter"))
	h.jsonResponse(w, h.svc.List(filter), http.StatusOK)
}

// CreateNote handles POST /api/notes
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var input NoteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	note, err := h.svc.Create(r.Context(), input)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.jsonResponse(w, note, http.StatusCreated)
}

// GetNote handles GET /api/notes/{id}
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.GetByID(r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.jsonResponse(w, note, http.StatusOK)
}

// UpdateNote handles PUT /api/notes/{id}
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var input NoteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	note, err := h.svc.Update(r.Context(), r.PathValue("id"), input)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.jsonResponse(w, note, http.StatusOK)
}

// DeleteNote handles DELETE /api/notes/{id}. Unknown ids succeed.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ArchiveNote handles POST /api/notes/{id}/archive
func (h *Handler) ArchiveNote(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, true)
}

// UnarchiveNote handles POST /api/notes/{id}/unarchive
func (h *Handler) UnarchiveNote(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, false)
}

func (h *Handler) setArchived(w http.ResponseWriter, r *http.Request, archived bool) {
	if err := h.svc.SetArchived(r.Context(), r.PathValue("id"), archived); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCategories handles GET /api/categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, h.svc.Categories(), http.StatusOK)
}

// GetState handles GET /api/state
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, h.ctrl.State(), http.StatusOK)
}

// DispatchEvent handles POST /api/events
func (h *Handler) DispatchEvent(w http.ResponseWriter, r *http.Request) {
	var ev Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		h.jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	state, err := h.ctrl.Dispatch(r.Context(), ev)
	if err != nil {
		status, body := h.errorBody(err)
		body["state"] = state
		h.jsonResponse(w, body, status)
		return
	}
	h.jsonResponse(w, state, http.StatusOK)
}

// SyncNotes handles POST /api/sync
func (h *Handler) SyncNotes(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Sync(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.jsonResponse(w, map[string]int{"count": n}, http.StatusOK)
}

// --- Helper methods ---

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status, body := h.errorBody(err)
	h.jsonResponse(w, body, status)
}

// errorBody maps a service error to a status code and JSON error body.
func (h *Handler) errorBody(err error) (int, map[string]any) {
	var (
		ve *ValidationError
		pe *PersistenceError
		fe *FetchError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, map[string]any{"error": ve.Error(), "fields": ve.Fields}
	case errors.Is(err, ErrNoteNotFound):
		return http.StatusNotFound, map[string]any{"error": "note not found"}
	case errors.Is(err, ErrUnknownEvent):
		return http.StatusBadRequest, map[string]any{"error": err.Error()}
	case errors.As(err, &pe):
		return http.StatusServiceUnavailable, map[string]any{"error": "changes kept in memory but could not be saved"}
	case errors.As(err, &fe):
		return http.StatusBadGateway, map[string]any{"error": fe.Error()}
	default:
		h.log.Error("request failed", "error", err)
		return http.StatusInternalServerError, map[string]any{"error": "internal error"}
	}
}

func (h *Handler) jsonResponse(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// --- View model converters ---

func (h *Handler) notesToViews(notes []Note) []models.NoteView {
	views := make([]models.NoteView, len(notes))
	for i, note := range notes {
		views[i] = models.NoteView{
			ID:       note.ID,
			Title:    note.Title,
			Category: string(note.Category),
			Archived: note.Archived,
			BodyHTML: h.svc.RenderMarkdown(note.Body),
		}
	}
	return views
}

func (h *Handler) filterViews(active Filter) []models.FilterView {
	filters := Filters()
	views := make([]models.FilterView, len(filters))
	for i, f := range filters {
		views[i] = models.FilterView{Name: string(f), Active: f == active}
	}
	return views
}

func (h *Handler) categoryViews() []models.CategoryView {
	counts := h.svc.Categories()
	views := make([]models.CategoryView, len(counts))
	for i, c := range counts {
		views[i] = models.CategoryView{Name: string(c.Name), Count: c.Count}
	}
	return views
}

// --- HTMX Web Handlers ---

// HomePage handles GET /
func (h *Handler) HomePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	filter := ParseFilter(r.URL.Query().Get("filter"))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := pages.HomePage(h.filterViews(filter), h.categoryViews(), h.notesToViews(h.svc.List(filter))).Render(r.Context(), w)
	if err != nil {
		h.log.Error("failed to render home page", "error", err)
	}
}

// NotesFragment handles GET /fragments/notes (HTMX partial)
func (h *Handler) NotesFragment(w http.ResponseWriter, r *http.Request) {
	filter := ParseFilter(r.URL.Query().Get("filter"))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := components.NoteCardList(h.notesToViews(h.svc.List(filter))).Render(r.Context(), w); err != nil {
		h.log.Error("failed to render notes fragment", "error", err)
	}
}
