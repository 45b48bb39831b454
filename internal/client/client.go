// Package client provides a transport-agnostic interface for the knotes
// service and an HTTP/JSON implementation that talks to the knotes REST API.
package client

import (
	"context"

	"github.com/groblegark/knotes/internal/model"
)

// NotesClient is the interface that the kn CLI and the syncer use to
// communicate with the notes server. It is implemented by HTTPClient.
type NotesClient interface {
	// Note CRUD
	ListNotes(ctx context.Context) ([]*model.Note, error)
	CreateNote(ctx context.Context, req *CreateNoteRequest) (*model.Note, error)
	UpdateNote(ctx context.Context, id string, patch *model.NotePatch) (*model.Note, error)
	DeleteNote(ctx context.Context, id string) error
	DeleteAllNotes(ctx context.Context) (int, error)

	// Images
	UploadImage(ctx context.Context, filename, contentType string, data []byte) (*UploadResponse, error)

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// CreateNoteRequest holds parameters for creating a note. Both fields are
// optional; the server fills in the id and timestamps.
type CreateNoteRequest struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

// UploadResponse is the response from UploadImage.
type UploadResponse struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}
