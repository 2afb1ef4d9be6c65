// ABOUTME: Status command for lettre CLI
// ABOUTME: Shows whether a stored session is still accepted by the backend

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/plumecompta/lettre-cli/internal/session"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session status",
	Long:  `Verify the stored session against the backend and display the account it belongs to.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runStatus(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// runStatus verifies the session and returns exit code:
// 0 when authenticated, 1 when not.
func runStatus(ctx context.Context, w io.Writer) int {
	_, store := newSession()
	store.Initialize(ctx)

	u, ok := store.CurrentUser()
	if IsJSONOutput() {
		fmt.Fprintln(w, formatStatusJSON(GetAPIURL(), u, ok, store.Remember()))
	} else {
		fmt.Fprintln(w, formatStatusHuman(GetAPIURL(), u, ok, store.Remember()))
	}

	if !ok {
		return 1
	}
	return 0
}

// formatStatusHuman formats the session status for human readability
func formatStatusHuman(url string, u session.User, ok, remember bool) string {
	if !ok {
		return fmt.Sprintf(`Backend:  %s
Session:  non connecté`, url)
	}

	account := "standard"
	if u.IsPremium {
		account = "premium"
	}
	persistent := "non"
	if remember {
		persistent = "oui"
	}
	return fmt.Sprintf(`Backend:    %s
Session:    connecté
Compte:     %s (%s)
Persistant: %s`, url, u.Username, account, persistent)
}

// formatStatusJSON formats the session status as JSON
func formatStatusJSON(url string, u session.User, ok, remember bool) string {
	output := map[string]interface{}{
		"backend":       url,
		"authenticated": ok,
	}
	if ok {
		output["username"] = u.Username
		output["is_premium"] = u.IsPremium
		output["remember"] = remember
	}
	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
