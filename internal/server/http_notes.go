package server

import (
	"encoding/json"
	"net/http"

	"github.com/groblegark/knotes/internal/events"
	"github.com/groblegark/knotes/internal/model"
)

// handleListNotes handles GET /v1/notes.
func (s *NotesServer) handleListNotes(w http.ResponseWriter, r *http.Request) {
	tenantID := tenantFrom(r.Context())

	list, err := s.notes.List(r.Context(), tenantID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"notes": list})
}

// handleCreateNote handles POST /v1/notes. Title and content are optional
// and default to empty.
func (s *NotesServer) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	tenantID := tenantFrom(r.Context())

	var in struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	note, err := s.notes.Create(r.Context(), tenantID, in.Title, in.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.publish(r.Context(), events.TopicNoteCreated, events.NoteCreated{TenantID: tenantID, Note: note})

	writeJSON(w, http.StatusOK, map[string]any{"note": note})
}

// handleUpdateNote handles PUT /v1/notes/{id}.
func (s *NotesServer) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	tenantID := tenantFrom(r.Context())

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	var patch model.NotePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	note, err := s.notes.Update(r.Context(), tenantID, id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.publish(r.Context(), events.TopicNoteUpdated, events.NoteUpdated{TenantID: tenantID, Note: note})

	writeJSON(w, http.StatusOK, map[string]any{"note": note})
}

// handleDeleteNote handles DELETE /v1/notes/{id}. Deletion is idempotent:
// deleting an absent note answers success.
func (s *NotesServer) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	tenantID := tenantFrom(r.Context())

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := s.notes.Delete(r.Context(), tenantID, id); err != nil {
		writeServiceError(w, err)
		return
	}

	s.publish(r.Context(), events.TopicNoteDeleted, events.NoteDeleted{TenantID: tenantID, NoteID: id})

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleDeleteAllNotes handles DELETE /v1/notes (bulk clear for the caller's
// tenant).
func (s *NotesServer) handleDeleteAllNotes(w http.ResponseWriter, r *http.Request) {
	tenantID := tenantFrom(r.Context())

	count, err := s.notes.DeleteAll(r.Context(), tenantID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.publish(r.Context(), events.TopicNotesCleared, events.NotesCleared{TenantID: tenantID, DeletedCount: count})

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "deletedCount": count})
}
