package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"

	"github.com/spf13/cobra"

	"github.com/groblegark/knotes/internal/syncer"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Mirror the collection locally and reprint it as it changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		coll := syncer.NewCollection(notesClient, interval, logger)

		var printMu sync.Mutex
		reprint := func() {
			printMu.Lock()
			defer printMu.Unlock()
			if stdoutIsTTY() {
				// Clear screen and home the cursor between reprints.
				fmt.Print("\x1b[2J\x1b[H")
			}
			printNoteListTable(coll.Notes())
		}

		coll.OnChange = reprint
		coll.OnError = func(id string, err error) {
			fmt.Fprintf(os.Stderr, "sync failed for %s: %v\n", id, err)
		}

		// Surface the first fetch so a bad server or token fails fast.
		if err := coll.Refresh(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		coll.Start()
		defer coll.Stop()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		<-ctx.Done()
		return nil
	},
}

func init() {
	watchCmd.Flags().Duration("interval", syncer.DefaultPollInterval, "poll interval")
}
