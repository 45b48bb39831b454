// Package model defines the core note record shared by the server, the
// storage layer, and the sync client.
package model

import "time"

// Note is the central record. Timestamps are epoch milliseconds on the wire.
// The owning tenant is deliberately not a field; ownership is encoded in the
// storage key, which is the isolation mechanism.
type Note struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// Clone returns a copy of the note.
func (n *Note) Clone() *Note {
	c := *n
	return &c
}

// NotePatch holds optional note mutations. Nil pointer fields mean
// "don't change".
type NotePatch struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// IsZero reports whether the patch changes nothing.
func (p NotePatch) IsZero() bool {
	return p.Title == nil && p.Content == nil
}

// Apply merges the patch's set fields into the note.
func (p NotePatch) Apply(n *Note) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
}

// NowMillis returns the current time as epoch milliseconds.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
