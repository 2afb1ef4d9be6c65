// ABOUTME: Upgrade command for lettre CLI
// ABOUTME: Starts a premium checkout session

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Subscribe to the premium offer",
	Long:  `Create a payment checkout session for the premium offer. The payment itself is completed in a browser.`,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int { return runUpgrade(ctx, os.Stdout) })
	},
}

func init() {
	rootCmd.AddCommand(upgradeCmd)
}

// runUpgrade creates a checkout session and returns exit code
func runUpgrade(ctx context.Context, w io.Writer) int {
	api, store, ok := requireSession(ctx, w)
	if !ok {
		return 1
	}

	if store.IsPremium() {
		fmt.Fprintln(w, "Ce compte est déjà premium.")
		return 0
	}

	s, err := api.CreateCheckoutSession(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(map[string]string{"session_id": s.SessionID}, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}

	fmt.Fprintf(w, "Session de paiement créée : %s\n", s.SessionID)
	fmt.Fprintln(w, "Finalisez le paiement dans votre navigateur puis reconnectez-vous.")
	return 0
}
