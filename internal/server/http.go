package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/groblegark/knotes/internal/auth"
	"github.com/groblegark/knotes/internal/notes"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// Every route except GET /v1/health requires a bearer credential the
// verifier accepts; verification happens before any handler runs, so a
// rejected request never touches storage.
func (s *NotesServer) NewHTTPHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/notes", s.handleListNotes)
	mux.HandleFunc("POST /v1/notes", s.handleCreateNote)
	mux.HandleFunc("PUT /v1/notes/{id}", s.handleUpdateNote)
	mux.HandleFunc("DELETE /v1/notes/{id}", s.handleDeleteNote)
	mux.HandleFunc("DELETE /v1/notes", s.handleDeleteAllNotes)
	mux.HandleFunc("POST /v1/images/upload", s.handleUploadImage)
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	return s.authMiddleware(mux)
}

// handleHealth handles GET /v1/health.
func (s *NotesServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// authMiddleware resolves the Authorization header to a tenant id and stores
// it on the request context. GET /v1/health is always exempt.
func (s *NotesServer) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/v1/health" {
			next.ServeHTTP(w, r)
			return
		}

		credential, err := auth.ParseBearer(r.Header.Get("Authorization"))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}

		tenantID, err := s.verifier.Verify(r.Context(), credential)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}

		next.ServeHTTP(w, r.WithContext(withTenant(r.Context(), tenantID)))
	})
}

// writeServiceError maps a service-layer error to its HTTP shape.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "unauthenticated")
	case errors.Is(err, notes.ErrNotFound):
		writeError(w, http.StatusNotFound, "note not found")
	default:
		writeError(w, http.StatusInternalServerError, "storage error")
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
