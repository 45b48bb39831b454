// Package events defines the integration event bus for note mutations.
// Publishing is best-effort everywhere; no request ever fails because the
// bus is down.
package events

import (
	"context"

	"github.com/groblegark/knotes/internal/model"
)

// Event topic constants
const (
	TopicNoteCreated  = "notes.note.created"
	TopicNoteUpdated  = "notes.note.updated"
	TopicNoteDeleted  = "notes.note.deleted"
	TopicNotesCleared = "notes.notes.cleared"
)

// Event types

type NoteCreated struct {
	TenantID string      `json:"tenant_id"`
	Note     *model.Note `json:"note"`
}

type NoteUpdated struct {
	TenantID string      `json:"tenant_id"`
	Note     *model.Note `json:"note"`
}

type NoteDeleted struct {
	TenantID string `json:"tenant_id"`
	NoteID   string `json:"note_id"`
}

type NotesCleared struct {
	TenantID     string `json:"tenant_id"`
	DeletedCount int    `json:"deleted_count"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
