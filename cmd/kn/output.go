package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"github.com/groblegark/knotes/internal/model"
)

func stdoutIsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// dim wraps s in a faint ANSI style when stdout is a terminal.
func dim(s string) string {
	if !stdoutIsTTY() {
		return s
	}
	return "\x1b[2m" + s + "\x1b[0m"
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04:05")
}

func printNoteJSON(note *model.Note) {
	data, err := json.MarshalIndent(note, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printNoteTable(note *model.Note) {
	fmt.Printf("ID:         %s\n", note.ID)
	fmt.Printf("Title:      %s\n", note.Title)
	if note.Content != "" {
		fmt.Printf("Content:    %s\n", note.Content)
	}
	fmt.Printf("Created At: %s\n", formatMillis(note.CreatedAt))
	fmt.Printf("Updated At: %s\n", formatMillis(note.UpdatedAt))
}

func printNoteListJSON(notes []*model.Note) {
	data, err := json.MarshalIndent(notes, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printNoteListTable(notes []*model.Note) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tUPDATED")
	for _, n := range notes {
		title := strings.ReplaceAll(n.Title, "\n", " ")
		if title == "" {
			title = firstLine(n.Content)
		}
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", n.ID, title, dim(formatMillis(n.UpdatedAt)))
	}
	w.Flush()
	fmt.Printf("\n%d notes\n", len(notes))
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
