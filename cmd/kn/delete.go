package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note, or every note with --all",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		switch {
		case all && len(args) > 0:
			return fmt.Errorf("--all takes no id argument")
		case all:
			count, err := notesClient.DeleteAllNotes(context.Background())
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Deleted %d notes\n", count)
		case len(args) == 1:
			if err := notesClient.DeleteNote(context.Background(), args[0]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Deleted %s\n", args[0])
		default:
			return fmt.Errorf("pass a note id or --all")
		}
		return nil
	},
}

func init() {
	deleteCmd.Flags().Bool("all", false, "delete every note")
}
