package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/groblegark/knotes/internal/auth"
	"github.com/groblegark/knotes/internal/blob"
	"github.com/groblegark/knotes/internal/config"
	"github.com/groblegark/knotes/internal/events"
	"github.com/groblegark/knotes/internal/kv"
	"github.com/groblegark/knotes/internal/kv/postgres"
	"github.com/groblegark/knotes/internal/notes"
	"github.com/groblegark/knotes/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the knotes server",
	// Override PersistentPreRunE so we don't create a client.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, _ := cmd.Flags().GetBool("dev")
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		// Load configuration. Dev mode runs in-memory with a fixed token
		// and skips the environment requirements.
		var cfg *config.Config
		if dev {
			cfg = &config.Config{
				HTTPAddr:   ":8080",
				AuthTokens: map[string]string{"dev-token": "dev"},
			}
			logger.Info("dev mode: in-memory storage, token \"dev-token\"")
		} else {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded
		}

		// Open the key-value store.
		var store kv.Store
		if dev {
			store = kv.NewMemory()
		} else {
			pg, err := postgres.New(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			store = pg
		}

		// Build the credential verifier.
		var verifier auth.Verifier
		if len(cfg.AuthTokens) > 0 {
			verifier = auth.NewStaticVerifier(cfg.AuthTokens)
		} else {
			httpVerifier := auth.NewHTTPVerifier(cfg.AuthURL)
			verifier = httpVerifier
			if cfg.RedisURL != "" {
				cache, err := auth.NewRedisCache(cfg.RedisURL)
				if err != nil {
					store.Close()
					return err
				}
				verifier = auth.NewCachedVerifier(httpVerifier, cache, 5*time.Minute)
				logger.Info("token cache enabled", "redis_url", cfg.RedisURL)
			}
		}

		// Create event publisher.
		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				store.Close()
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("events disabled (KNOTES_NATS_URL not set)")
		}

		// Create the image store if a bucket is configured.
		var blobs blob.Store
		if cfg.S3Bucket != "" {
			s3, err := blob.NewS3Store(context.Background(), cfg.S3Bucket, cfg.S3Region, cfg.S3Endpoint, cfg.UploadTTL)
			if err != nil {
				publisher.Close()
				store.Close()
				return err
			}
			blobs = s3
			logger.Info("image uploads enabled", "bucket", cfg.S3Bucket)
		} else {
			logger.Info("image uploads disabled (KNOTES_S3_BUCKET not set)")
		}

		// Create server components.
		notesServer := server.NewNotesServer(notes.NewService(store), verifier, publisher, blobs)
		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: notesServer.NewHTTPHandler(),
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		// Wait for shutdown signal.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP shutdown error", "err", err)
		}
		publisher.Close()
		store.Close()
		return nil
	},
}

func init() {
	serveCmd.Flags().Bool("dev", false, "in-memory storage with a fixed dev token")
}
