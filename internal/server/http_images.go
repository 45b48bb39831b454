package server

import (
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/groblegark/knotes/internal/model"
)

// maxUploadBytes caps image uploads at 5 MiB.
const maxUploadBytes = 5 << 20

// handleUploadImage handles POST /v1/images/upload. The image lands in the
// external blob store under a per-tenant key; the response carries the URL
// the client embeds in note content.
func (s *NotesServer) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	if s.blobs == nil {
		writeError(w, http.StatusInternalServerError, "image store not configured")
		return
	}

	tenantID := tenantFrom(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// path.Base strips any directory components a hostile client sends.
	key := fmt.Sprintf("%s/%d-%s", tenantID, model.NowMillis(), path.Base(header.Filename))

	url, err := s.blobs.Upload(r.Context(), key, contentType, data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to upload image")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url, "path": key})
}
