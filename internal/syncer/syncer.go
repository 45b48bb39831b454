// Package syncer maintains a local mirror of one tenant's notes with
// optimistic edits and periodic background polling. Writes apply to the
// mirror immediately and flush to the server asynchronously; the server's
// copy always wins when a flush or poll completes (last write wins).
package syncer

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/groblegark/knotes/internal/client"
	"github.com/groblegark/knotes/internal/model"
)

// ErrNotFound is returned when an id is not present in the local mirror.
var ErrNotFound = errors.New("syncer: note not found")

// DefaultPollInterval is the background fetch cadence.
const DefaultPollInterval = 5 * time.Second

// State tracks a note's position in the flush lifecycle.
type State int

const (
	// Clean means the local copy matches the last server response.
	Clean State = iota
	// Dirty means a local edit has not been flushed yet.
	Dirty
	// Syncing means a flush for this note is in flight.
	Syncing
	// SyncError means the last flush failed; the local edit is kept.
	SyncError
)

func (s State) String() string {
	switch s {
	case Clean:
		return "clean"
	case Dirty:
		return "dirty"
	case Syncing:
		return "syncing"
	case SyncError:
		return "error"
	default:
		return "unknown"
	}
}

// Collection is a mutex-guarded local mirror of the tenant's notes.
//
// Known limitations, carried deliberately: a background poll can overwrite
// a newer unflushed local edit, and an update response landing after a
// local delete re-inserts the note. There are no sequence numbers.
type Collection struct {
	client   client.NotesClient
	interval time.Duration
	logger   *slog.Logger

	// OnChange, when set, is called after every mirror mutation. OnError,
	// when set, is called with the note id and error of a failed flush.
	// Both must be set before Start and may be called from any goroutine.
	OnChange func()
	OnError  func(id string, err error)

	mu     sync.Mutex
	notes  []*model.Note
	states map[string]State

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	flushes sync.WaitGroup
}

// NewCollection creates an empty mirror backed by the given client. A zero
// interval selects DefaultPollInterval; a nil logger selects slog.Default.
func NewCollection(c client.NotesClient, interval time.Duration, logger *slog.Logger) *Collection {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Collection{
		client:   c,
		interval: interval,
		logger:   logger,
		states:   map[string]State{},
	}
}

// Notes returns a snapshot of the mirror, newest updatedAt first.
func (c *Collection) Notes() []*model.Note {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*model.Note, len(c.notes))
	for i, n := range c.notes {
		out[i] = n.Clone()
	}
	return out
}

// StateOf reports the flush state of the given note id.
func (c *Collection) StateOf(id string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.states[id]
}

// Refresh fetches the server's collection and replaces the mirror
// wholesale. Unlike the background poll, the error is surfaced.
func (c *Collection) Refresh(ctx context.Context) error {
	notes, err := c.client.ListNotes(ctx)
	if err != nil {
		return err
	}
	c.replaceAll(notes)
	return nil
}

// Create creates the note on the server and inserts the server record at
// the head of the mirror. Unlike Edit and Delete it is synchronous: the id
// is server-generated, so there is nothing to show until the server answers.
func (c *Collection) Create(ctx context.Context, title, content string) (*model.Note, error) {
	note, err := c.client.CreateNote(ctx, &client.CreateNoteRequest{Title: title, Content: content})
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.notes = append([]*model.Note{note.Clone()}, c.notes...)
	c.states[note.ID] = Clean
	c.mu.Unlock()

	c.changed()
	return note, nil
}

// Edit applies the patch to the local copy immediately and flushes it to
// the server in the background. A successful flush replaces the local copy
// with the server's canonical record; a failed flush keeps the local edit,
// marks the note SyncError, and reports through OnError. There is no retry
// queue; the next Edit or poll supersedes.
func (c *Collection) Edit(id string, patch *model.NotePatch) error {
	c.mu.Lock()
	note := c.findLocked(id)
	if note == nil {
		c.mu.Unlock()
		return ErrNotFound
	}
	patch.Apply(note)
	note.UpdatedAt = model.NowMillis()
	c.states[id] = Syncing
	c.sortLocked()
	c.mu.Unlock()

	c.changed()

	c.flushes.Add(1)
	go func() {
		defer c.flushes.Done()
		updated, err := c.client.UpdateNote(context.Background(), id, patch)
		if err != nil {
			c.mu.Lock()
			if c.findLocked(id) != nil {
				c.states[id] = SyncError
			}
			c.mu.Unlock()
			c.logger.Warn("note flush failed", "id", id, "err", err)
			if c.OnError != nil {
				c.OnError(id, err)
			}
			c.changed()
			return
		}
		c.upsert(updated)
	}()
	return nil
}

// Delete removes the note from the mirror immediately and deletes it on
// the server in the background. A failed server delete is reported but the
// local removal stands; the next poll restores the note if it survived.
func (c *Collection) Delete(id string) error {
	c.mu.Lock()
	if c.findLocked(id) == nil {
		c.mu.Unlock()
		return ErrNotFound
	}
	c.removeLocked(id)
	c.mu.Unlock()

	c.changed()

	c.flushes.Add(1)
	go func() {
		defer c.flushes.Done()
		if err := c.client.DeleteNote(context.Background(), id); err != nil {
			c.logger.Warn("note delete failed", "id", id, "err", err)
			if c.OnError != nil {
				c.OnError(id, err)
			}
		}
	}()
	return nil
}

// DeleteAll clears the mirror immediately and deletes every note on the
// server, returning the server's count. The server call is synchronous;
// bulk destruction is not worth doing fire-and-forget.
func (c *Collection) DeleteAll(ctx context.Context) (int, error) {
	c.mu.Lock()
	c.notes = nil
	c.states = map[string]State{}
	c.mu.Unlock()
	c.changed()

	return c.client.DeleteAllNotes(ctx)
}

// Start begins the background poll loop. It fetches once immediately,
// then on each tick. Poll failures are logged and never surfaced.
func (c *Collection) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.run(ctx)
	}()
}

// Stop cancels the poll loop and waits for it and any in-flight flushes.
func (c *Collection) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	c.flushes.Wait()
}

// Wait blocks until all in-flight flushes have completed.
func (c *Collection) Wait() {
	c.flushes.Wait()
}

func (c *Collection) run(ctx context.Context) {
	c.pollOnce(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.pollOnce(ctx)
		}
	}
}

// pollOnce is the silent variant of Refresh.
func (c *Collection) pollOnce(ctx context.Context) {
	notes, err := c.client.ListNotes(ctx)
	if err != nil {
		if ctx.Err() == nil {
			c.logger.Warn("background fetch failed", "err", err)
		}
		return
	}
	c.replaceAll(notes)
}

// replaceAll swaps in the server's collection wholesale. Any unflushed
// local edit is lost; the server copy wins.
func (c *Collection) replaceAll(notes []*model.Note) {
	c.mu.Lock()
	c.notes = make([]*model.Note, len(notes))
	c.states = make(map[string]State, len(notes))
	for i, n := range notes {
		c.notes[i] = n.Clone()
		c.states[n.ID] = Clean
	}
	c.sortLocked()
	c.mu.Unlock()
	c.changed()
}

// upsert installs a server record, replacing the local copy or inserting
// if absent.
func (c *Collection) upsert(note *model.Note) {
	c.mu.Lock()
	if existing := c.findLocked(note.ID); existing != nil {
		*existing = *note.Clone()
	} else {
		c.notes = append(c.notes, note.Clone())
	}
	c.states[note.ID] = Clean
	c.sortLocked()
	c.mu.Unlock()
	c.changed()
}

func (c *Collection) findLocked(id string) *model.Note {
	for _, n := range c.notes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func (c *Collection) removeLocked(id string) {
	for i, n := range c.notes {
		if n.ID == id {
			c.notes = append(c.notes[:i], c.notes[i+1:]...)
			break
		}
	}
	delete(c.states, id)
}

func (c *Collection) sortLocked() {
	sort.SliceStable(c.notes, func(i, j int) bool {
		if c.notes[i].UpdatedAt != c.notes[j].UpdatedAt {
			return c.notes[i].UpdatedAt > c.notes[j].UpdatedAt
		}
		return c.notes[i].ID < c.notes[j].ID
	})
}

func (c *Collection) changed() {
	if c.OnChange != nil {
		c.OnChange()
	}
}
