// ABOUTME: Root command for lettre CLI
// ABOUTME: Handles global flags, environment loading, and session setup

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/plumecompta/lettre-cli/internal/client"
	"github.com/plumecompta/lettre-cli/internal/gate"
	"github.com/plumecompta/lettre-cli/internal/session"
)

var (
	apiURL     string
	jsonOutput bool
)

const defaultAPIURL = "http://localhost:8000"

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "lettre",
	Short: "CLI for generating lettres de mission",
	Long: `lettre is a command-line interface for the mission-letter generator.

It manages the client roster, cabinet and CGV profiles, and produces
lettre de mission documents from the firm's template.

Environment Variables:
  LETTRE_API_URL  Backend API URL (default: http://localhost:8000)`,
}

// Execute runs the root command
func Execute() error {
	// A .env next to the binary can supply LETTRE_API_URL; absence is fine.
	godotenv.Load()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides LETTRE_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// GetAPIURL returns the API URL from flag, env, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	if envURL := os.Getenv("LETTRE_API_URL"); envURL != "" {
		return envURL
	}
	return defaultAPIURL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// newSession builds the gateway client and the store bound to the
// durable session cache. Nothing is verified until Initialize runs.
func newSession() (*client.Client, *session.Store) {
	api := client.New(GetAPIURL())
	cache := session.NewCache(session.DefaultConfigDir())
	store := session.NewStore(api, cache)
	return api, store
}

// requireSession restores the saved session and verifies it against the
// backend. Commands that need an authenticated gateway call this first.
func requireSession(ctx context.Context, w io.Writer) (*client.Client, *session.Store, bool) {
	api, store := newSession()
	store.Initialize(ctx)
	if gate.Protected(store.State()) != gate.Allow {
		fmt.Fprintln(w, "Non connecté. Exécutez `lettre login` d'abord.")
		return nil, nil, false
	}
	return api, store, true
}
