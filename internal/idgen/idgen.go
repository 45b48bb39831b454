// Package idgen generates note IDs backed by nanoid.
package idgen

import (
	"fmt"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Alphabet defines the character set used for the random portion of the ID.
var Alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Length is the number of random characters generated.
var Length = 9

// NewNoteID returns a new note ID of the form "<epoch-ms>-<entropy>".
// The time component keeps IDs roughly sortable by creation; the random
// suffix keeps them unique under concurrent same-instant creation, which a
// counter alone cannot guarantee across uncoordinated creators.
func NewNoteID() (string, error) {
	suffix, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), suffix), nil
}
