// Package server exposes the note service over HTTP/JSON.
package server

import (
	"context"
	"log/slog"

	"github.com/groblegark/knotes/internal/auth"
	"github.com/groblegark/knotes/internal/blob"
	"github.com/groblegark/knotes/internal/events"
	"github.com/groblegark/knotes/internal/notes"
)

// NotesServer holds the request-handling dependencies. It is constructed
// once at process start and passed explicitly; nothing in this package
// reaches for ambient globals.
type NotesServer struct {
	notes     *notes.Service
	verifier  auth.Verifier
	publisher events.Publisher
	blobs     blob.Store // nil disables the upload endpoint
}

// NewNotesServer returns a server backed by the given service, verifier and
// publisher. blobs may be nil when no image store is configured.
func NewNotesServer(svc *notes.Service, verifier auth.Verifier, publisher events.Publisher, blobs blob.Store) *NotesServer {
	return &NotesServer{
		notes:     svc,
		verifier:  verifier,
		publisher: publisher,
		blobs:     blobs,
	}
}

// publish emits an integration event. Best-effort: failures are logged and
// never block the caller.
func (s *NotesServer) publish(ctx context.Context, topic string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "error", err)
	}
}

// tenantKey is the context key for the authenticated tenant id.
type tenantKey struct{}

// withTenant stores the tenant id on the request context.
func withTenant(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantKey{}, tenantID)
}

// tenantFrom returns the authenticated tenant id set by AuthMiddleware.
func tenantFrom(ctx context.Context) string {
	tenant, _ := ctx.Value(tenantKey{}).(string)
	return tenant
}
