package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/groblegark/knotes/internal/client"
)

var createCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a note",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, _ := cmd.Flags().GetString("content")
		fromStdin, _ := cmd.Flags().GetBool("stdin")

		title := ""
		if len(args) > 0 {
			title = args[0]
		}
		if fromStdin {
			data, err := os.ReadFile("/dev/stdin")
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			content = strings.TrimRight(string(data), "\n")
		}

		note, err := notesClient.CreateNote(context.Background(), &client.CreateNoteRequest{
			Title:   title,
			Content: content,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printNoteJSON(note)
		} else {
			printNoteTable(note)
		}
		return nil
	},
}

func init() {
	createCmd.Flags().StringP("content", "c", "", "note content")
	createCmd.Flags().Bool("stdin", false, "read content from stdin")
}
