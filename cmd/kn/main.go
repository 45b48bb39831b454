package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/groblegark/knotes/internal/client"
)

var (
	serverURL  string
	authToken  string
	jsonOutput bool

	notesClient client.NotesClient
)

func defaultServer() string {
	if s := os.Getenv("KNOTES_SERVER"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

func defaultToken() string {
	return os.Getenv("KNOTES_TOKEN")
}

var rootCmd = &cobra.Command{
	Use:   "kn",
	Short: "CLI client for the knotes service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Fall back to the config file for values not set by flag or env.
		if serverURL == "" || authToken == "" {
			cfg, err := loadCLIConfig()
			if err != nil {
				return err
			}
			if serverURL == "" {
				serverURL = cfg.Server
			}
			if authToken == "" {
				authToken = cfg.Token
			}
		}
		if serverURL == "" {
			serverURL = "http://localhost:8080"
		}
		notesClient = client.NewHTTPClient(serverURL, authToken)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if notesClient != nil {
			notesClient.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer(), "server base URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", defaultToken(), "bearer token")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
