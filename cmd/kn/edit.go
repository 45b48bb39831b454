package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/groblegark/knotes/internal/model"
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Update a note's title or content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch model.NotePatch
		if cmd.Flags().Changed("title") {
			title, _ := cmd.Flags().GetString("title")
			patch.Title = &title
		}
		if cmd.Flags().Changed("content") {
			content, _ := cmd.Flags().GetString("content")
			patch.Content = &content
		}
		if patch.IsZero() {
			return fmt.Errorf("nothing to update, pass --title or --content")
		}

		note, err := notesClient.UpdateNote(context.Background(), args[0], &patch)
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
	editCmd.Flags().StringP("title", "t", "", "new title")
	editCmd.Flags().StringP("content", "c", "", "new content")
}
