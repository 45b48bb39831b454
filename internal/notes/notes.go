// Package notes implements tenant-scoped CRUD over notes on top of a kv.Store.
//
// Every note lives under the key "tenant:{tenantID}:note:{noteID}". That key
// construction is the whole tenant-isolation mechanism: the storage layer
// enforces nothing, so this package is the sole enforcement point, and no
// operation can address a note by id alone across tenants.
package notes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/groblegark/knotes/internal/idgen"
	"github.com/groblegark/knotes/internal/kv"
	"github.com/groblegark/knotes/internal/model"
)

// ErrNotFound is returned when a note does not exist under the caller's
// tenant prefix. A note owned by a different tenant produces a different key
// and therefore the same error; callers cannot probe other tenants' ids.
var ErrNotFound = errors.New("note not found")

// Service provides note CRUD for the HTTP layer.
type Service struct {
	kv kv.Store
}

// NewService returns a Service backed by the given store.
func NewService(store kv.Store) *Service {
	return &Service{kv: store}
}

// NoteKey builds the storage key for a tenant's note.
func NoteKey(tenantID, noteID string) string {
	return "tenant:" + tenantID + ":note:" + noteID
}

// NotePrefix builds the scan prefix covering all of a tenant's notes.
func NotePrefix(tenantID string) string {
	return "tenant:" + tenantID + ":note:"
}

// List returns all of the tenant's notes sorted by updatedAt descending,
// ties broken by id ascending so the order is stable across calls.
// The result is never nil.
func (s *Service) List(ctx context.Context, tenantID string) ([]*model.Note, error) {
	values, err := s.kv.ScanPrefix(ctx, NotePrefix(tenantID))
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	notes := make([]*model.Note, 0, len(values))
	for _, value := range values {
		var n model.Note
		if err := json.Unmarshal(value, &n); err != nil {
			return nil, fmt.Errorf("decode stored note: %w", err)
		}
		notes = append(notes, &n)
	}

	sort.Slice(notes, func(i, j int) bool {
		if notes[i].UpdatedAt != notes[j].UpdatedAt {
			return notes[i].UpdatedAt > notes[j].UpdatedAt
		}
		return notes[i].ID < notes[j].ID
	})
	return notes, nil
}

// Create stores a new note with a fresh server-generated id and
// createdAt == updatedAt == now.
func (s *Service) Create(ctx context.Context, tenantID, title, content string) (*model.Note, error) {
	id, err := idgen.NewNoteID()
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	now := model.NowMillis()
	note := &model.Note{
		ID:        id,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.put(ctx, tenantID, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return note, nil
}

// Update merges the patch over the stored note and persists the result.
// The note's id and createdAt are preserved no matter what the caller sends;
// updatedAt always moves strictly forward, even for a no-op patch, so a
// successful Update is observable by timestamp alone.
func (s *Service) Update(ctx context.Context, tenantID, noteID string, patch model.NotePatch) (*model.Note, error) {
	value, err := s.kv.Get(ctx, NoteKey(tenantID, noteID))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}

	var note model.Note
	if err := json.Unmarshal(value, &note); err != nil {
		return nil, fmt.Errorf("decode stored note: %w", err)
	}

	patch.Apply(&note)
	note.ID = noteID // immutable
	now := model.NowMillis()
	if now <= note.UpdatedAt {
		// Millisecond clocks tie under rapid successive updates.
		now = note.UpdatedAt + 1
	}
	note.UpdatedAt = now

	if err := s.put(ctx, tenantID, &note); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return &note, nil
}

// Delete removes the tenant's note. Deleting an absent note succeeds; the
// operation is idempotent by contract.
func (s *Service) Delete(ctx context.Context, tenantID, noteID string) error {
	if err := s.kv.Delete(ctx, NoteKey(tenantID, noteID)); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

// DeleteAll removes every note under the tenant's prefix and returns the
// number of notes that existed at scan time. The batch is best-effort, not
// atomic: a concurrent Create may or may not be included, and a partial
// batch failure leaves the remaining notes untouched.
func (s *Service) DeleteAll(ctx context.Context, tenantID string) (int, error) {
	values, err := s.kv.ScanPrefix(ctx, NotePrefix(tenantID))
	if err != nil {
		return 0, fmt.Errorf("delete all notes: %w", err)
	}

	keys := make([]string, 0, len(values))
	for _, value := range values {
		var n model.Note
		if err := json.Unmarshal(value, &n); err != nil {
			return 0, fmt.Errorf("decode stored note: %w", err)
		}
		keys = append(keys, NoteKey(tenantID, n.ID))
	}

	if len(keys) > 0 {
		if err := s.kv.DeleteMany(ctx, keys); err != nil {
			return 0, fmt.Errorf("delete all notes: %w", err)
		}
	}
	return len(keys), nil
}

func (s *Service) put(ctx context.Context, tenantID string, note *model.Note) error {
	value, err := json.Marshal(note)
	if err != nil {
		return fmt.Errorf("encode note: %w", err)
	}
	return s.kv.Set(ctx, NoteKey(tenantID, note.ID), value)
}
