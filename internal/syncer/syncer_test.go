package syncer

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/groblegark/knotes/internal/client"
	"github.com/groblegark/knotes/internal/model"
)

// fakeClient is a scripted NotesClient. Responses are configured per
// method; unconfigured methods succeed with zero values.
type fakeClient struct {
	mu sync.Mutex

	listNotes []*model.Note
	listErr   error
	listCalls int

	createErr error

	updateNote *model.Note
	updateErr  error
	// updateGate, when non-nil, blocks UpdateNote until closed.
	updateGate chan struct{}

	deleteErr   error
	deletedIDs  []string
	deleteCalls int

	deleteAllCount int
	deleteAllErr   error
}

func (f *fakeClient) ListNotes(_ context.Context) ([]*model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*model.Note, len(f.listNotes))
	for i, n := range f.listNotes {
		out[i] = n.Clone()
	}
	return out, nil
}

func (f *fakeClient) CreateNote(_ context.Context, req *client.CreateNoteRequest) (*model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	now := model.NowMillis()
	return &model.Note{ID: "srv-created", Title: req.Title, Content: req.Content, CreatedAt: now, UpdatedAt: now}, nil
}

func (f *fakeClient) UpdateNote(_ context.Context, id string, _ *model.NotePatch) (*model.Note, error) {
	f.mu.Lock()
	gate := f.updateGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.updateNote != nil {
		return f.updateNote.Clone(), nil
	}
	return &model.Note{ID: id, UpdatedAt: model.NowMillis()}, nil
}

func (f *fakeClient) DeleteNote(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	f.deletedIDs = append(f.deletedIDs, id)
	return f.deleteErr
}

func (f *fakeClient) DeleteAllNotes(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deleteAllCount, f.deleteAllErr
}

func (f *fakeClient) UploadImage(_ context.Context, _, _ string, _ []byte) (*client.UploadResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeClient) Health(_ context.Context) (string, error) { return "ok", nil }
func (f *fakeClient) Close() error                             { return nil }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func serverNote(id string, updatedAt int64) *model.Note {
	return &model.Note{ID: id, Title: "t-" + id, CreatedAt: updatedAt, UpdatedAt: updatedAt}
}

func TestRefresh_ReplacesMirror(t *testing.T) {
	f := &fakeClient{listNotes: []*model.Note{serverNote("a", 100), serverNote("b", 200)}}
	c := NewCollection(f, time.Minute, quietLogger())

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	notes := c.Notes()
	if len(notes) != 2 {
		t.Fatalf("got %d notes", len(notes))
	}
	if notes[0].ID != "b" || notes[1].ID != "a" {
		t.Errorf("order = %s, %s; want b, a", notes[0].ID, notes[1].ID)
	}
	if c.StateOf("a") != Clean {
		t.Errorf("state = %v", c.StateOf("a"))
	}
}

func TestRefresh_SurfacesError(t *testing.T) {
	f := &fakeClient{listErr: errors.New("server down")}
	c := NewCollection(f, time.Minute, quietLogger())

	if err := c.Refresh(context.Background()); err == nil {
		t.Error("expected error from Refresh")
	}
}

func TestCreate_InsertsAtHead(t *testing.T) {
	f := &fakeClient{listNotes: []*model.Note{serverNote("a", 100)}}
	c := NewCollection(f, time.Minute, quietLogger())
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	note, err := c.Create(context.Background(), "new", "body")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if note.ID != "srv-created" {
		t.Errorf("id = %q, want server-generated", note.ID)
	}
	notes := c.Notes()
	if notes[0].ID != "srv-created" {
		t.Errorf("head = %q, want srv-created", notes[0].ID)
	}
}

func TestEdit_AppliesLocallyBeforeFlushCompletes(t *testing.T) {
	gate := make(chan struct{})
	f := &fakeClient{
		listNotes:  []*model.Note{serverNote("a", 100)},
		updateGate: gate,
		updateNote: &model.Note{ID: "a", Title: "server title", CreatedAt: 100, UpdatedAt: 300},
	}
	c := NewCollection(f, time.Minute, quietLogger())
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	title := "local title"
	if err := c.Edit("a", &model.NotePatch{Title: &title}); err != nil {
		t.Fatalf("Edit: %v", err)
	}

	// Flush is gated; the local copy must already show the edit.
	notes := c.Notes()
	if notes[0].Title != "local title" {
		t.Errorf("title = %q before flush, want local edit visible", notes[0].Title)
	}
	if c.StateOf("a") != Syncing {
		t.Errorf("state = %v, want Syncing", c.StateOf("a"))
	}

	close(gate)
	c.Wait()

	// Success replaces the record wholesale with the server copy.
	notes = c.Notes()
	if notes[0].Title != "server title" || notes[0].UpdatedAt != 300 {
		t.Errorf("note = %+v, want server copy", notes[0])
	}
	if c.StateOf("a") != Clean {
		t.Errorf("state = %v, want Clean", c.StateOf("a"))
	}
}

func TestEdit_FailureKeepsLocalEdit(t *testing.T) {
	f := &fakeClient{
		listNotes: []*model.Note{serverNote("a", 100)},
		updateErr: errors.New("flush refused"),
	}
	c := NewCollection(f, time.Minute, quietLogger())
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var reported []string
	c.OnError = func(id string, err error) {
		mu.Lock()
		reported = append(reported, id)
		mu.Unlock()
	}

	title := "local title"
	if err := c.Edit("a", &model.NotePatch{Title: &title}); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	c.Wait()

	if got := c.Notes()[0].Title; got != "local title" {
		t.Errorf("title = %q, want local edit kept", got)
	}
	if c.StateOf("a") != SyncError {
		t.Errorf("state = %v, want SyncError", c.StateOf("a"))
	}
	mu.Lock()
	defer mu.Unlock()
	if len(reported) != 1 || reported[0] != "a" {
		t.Errorf("OnError reports = %v", reported)
	}
}

func TestEdit_UnknownID(t *testing.T) {
	c := NewCollection(&fakeClient{}, time.Minute, quietLogger())
	title := "x"
	if err := c.Edit("ghost", &model.NotePatch{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDelete_RemovesLocallyWithoutRollback(t *testing.T) {
	f := &fakeClient{
		listNotes: []*model.Note{serverNote("a", 100)},
		deleteErr: errors.New("delete refused"),
	}
	c := NewCollection(f, time.Minute, quietLogger())
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	reported := 0
	c.OnError = func(string, error) {
		mu.Lock()
		reported++
		mu.Unlock()
	}

	if err := c.Delete("a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	c.Wait()

	if len(c.Notes()) != 0 {
		t.Error("note restored after failed server delete")
	}
	mu.Lock()
	defer mu.Unlock()
	if reported != 1 {
		t.Errorf("OnError calls = %d", reported)
	}
}

func TestDeleteAll_ClearsMirror(t *testing.T) {
	f := &fakeClient{
		listNotes:      []*model.Note{serverNote("a", 100), serverNote("b", 200)},
		deleteAllCount: 2,
	}
	c := NewCollection(f, time.Minute, quietLogger())
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	count, err := c.DeleteAll(context.Background())
	if err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d", count)
	}
	if len(c.Notes()) != 0 {
		t.Error("mirror not cleared")
	}
}

func TestPollLoop_FetchesAndReplaces(t *testing.T) {
	f := &fakeClient{listNotes: []*model.Note{serverNote("a", 100)}}
	c := NewCollection(f, 10*time.Millisecond, quietLogger())

	changed := make(chan struct{}, 16)
	c.OnChange = func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}

	c.Start()
	defer c.Stop()

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("poll never fetched")
	}
	if len(c.Notes()) != 1 {
		t.Errorf("mirror = %d notes", len(c.Notes()))
	}

	// A later poll picks up server-side changes.
	f.mu.Lock()
	f.listNotes = append(f.listNotes, serverNote("b", 200))
	f.mu.Unlock()

	deadline := time.After(2 * time.Second)
	for len(c.Notes()) != 2 {
		select {
		case <-changed:
		case <-deadline:
			t.Fatal("poll never picked up server change")
		}
	}
}

func TestPollLoop_FailuresAreSilent(t *testing.T) {
	f := &fakeClient{listErr: errors.New("flaky")}
	c := NewCollection(f, 5*time.Millisecond, quietLogger())
	c.Start()
	time.Sleep(30 * time.Millisecond)
	c.Stop()

	f.mu.Lock()
	calls := f.listCalls
	f.mu.Unlock()
	if calls < 2 {
		t.Errorf("listCalls = %d, want the loop to keep polling through failures", calls)
	}
}

func TestPoll_ServerCopyWins(t *testing.T) {
	f := &fakeClient{
		listNotes: []*model.Note{serverNote("a", 100)},
		updateErr: errors.New("flush refused"),
	}
	c := NewCollection(f, time.Minute, quietLogger())
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	title := "unflushed"
	if err := c.Edit("a", &model.NotePatch{Title: &title}); err != nil {
		t.Fatal(err)
	}
	c.Wait()

	// The next fetch overwrites the unflushed local edit.
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := c.Notes()[0].Title; got != "t-a" {
		t.Errorf("title = %q, want server copy after fetch", got)
	}
	if c.StateOf("a") != Clean {
		t.Errorf("state = %v, want Clean", c.StateOf("a"))
	}
}
