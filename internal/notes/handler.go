package notes

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"thinkvault/internal/board"
)

// RequestIDHeader correlates a request with the client operation that sent it.
const RequestIDHeader = "X-Request-ID"

type Handler struct {
	svc *Service
	log *slog.Logger
}

func NewHandler(svc *Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Register mounts the REST API on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/notes", h.CreateNote)
	mux.HandleFunc("GET /api/notes", h.ListNotes)
	mux.HandleFunc("GET /api/notes/search", h.SearchNotes)
	mux.HandleFunc("POST /api/notes/reorder", h.ReorderNotes)
	mux.HandleFunc("GET /api/notes/{id}", h.GetNote)
	mux.HandleFunc("GET /api/notes/{id}/preview", h.PreviewNote)
	mux.HandleFunc("PUT /api/notes/{id}", h.UpdateNote)
	mux.HandleFunc("DELETE /api/notes/{id}", h.DeleteNote)
}

// --- REST API Handlers ---

// CreateNote handles POST /api/notes
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var input CreateNoteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	note, err := h.svc.Create(r.Context(), input)
	if err != nil {
		h.serviceError(w, r, "failed to create note", err)
		return
	}

	h.jsonResponse(w, note, http.StatusCreated)
}

// GetNote handles GET /api/notes/{id}
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.serviceError(w, r, "failed to get note", err)
		return
	}

	h.jsonResponse(w, note, http.StatusOK)
}

// PreviewNote handles GET /api/notes/{id}/preview
func (h *Handler) PreviewNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.serviceError(w, r, "failed to get note", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(h.svc.RenderMarkdown(note.Content)))
}

// ListNotes handles GET /api/notes
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	q := ListQuery{
		Status: board.Status(r.URL.Query().Get("status")),
		Limit:  h.parseInt(r.URL.Query().Get("limit"), 0),
		Offset: h.parseInt(r.URL.Query().Get("offset"), 0),
	}

	notes, err := h.svc.List(r.Context(), q)
	if err != nil {
		h.serviceError(w, r, "failed to list notes", err)
		return
	}

	h.jsonResponse(w, notes, http.StatusOK)
}

// SearchNotes handles GET /api/notes/search
func (h *Handler) SearchNotes(w http.ResponseWriter, r *http.Request) {
	q := SearchQuery{
		Query:  r.URL.Query().Get("q"),
		Status: board.Status(r.URL.Query().Get("status")),
		Limit:  h.parseInt(r.URL.Query().Get("limit"), 50),
		Offset: h.parseInt(r.URL.Query().Get("offset"), 0),
	}

	notes, err := h.svc.Search(r.Context(), q)
	if err != nil {
		h.serviceError(w, r, "failed to search notes", err)
		return
	}

	h.jsonResponse(w, notes, http.StatusOK)
}

// UpdateNote handles PUT /api/notes/{id}
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var input UpdateNoteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	note, err := h.svc.Update(r.Context(), r.PathValue("id"), input)
	if err != nil {
		h.serviceError(w, r, "failed to update note", err)
		return
	}

	h.jsonResponse(w, note, http.StatusOK)
}

// ReorderNotes handles POST /api/notes/reorder
func (h *Handler) ReorderNotes(w http.ResponseWriter, r *http.Request) {
	var input ReorderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	if err := h.svc.Reorder(r.Context(), input.Notes); err != nil {
		h.serviceError(w, r, "failed to reorder notes", err)
		return
	}

	h.log.Info("notes reordered", "count", len(input.Notes), "op", r.Header.Get(RequestIDHeader))
	h.jsonResponse(w, map[string]string{"message": "Notes reordered successfully"}, http.StatusOK)
}

// DeleteNote handles DELETE /api/notes/{id}
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.serviceError(w, r, "failed to delete note", err)
		return
	}

	h.jsonResponse(w, map[string]string{"message": "Note deleted successfully"}, http.StatusOK)
}

// --- Helper methods ---

// serviceError maps service errors onto status codes. Only unexpected
// failures are logged.
func (h *Handler) serviceError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch {
	case errors.Is(err, ErrNoteNotFound):
		h.jsonError(w, "note not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidInput):
		h.jsonError(w, err.Error(), http.StatusBadRequest)
	default:
		h.log.Error(msg, "error", err, "path", r.URL.Path, "op", r.Header.Get(RequestIDHeader))
		h.jsonError(w, "internal error", http.StatusInternalServerError)
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

func (h *Handler) parseInt(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
