// ABOUTME: CGV command group for lettre CLI
// ABOUTME: Shows and updates the general-terms profile for letters

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/plumecompta/lettre-cli/internal/client"
)

var cgvFile string

var cgvCmd = &cobra.Command{
	Use:   "cgv",
	Short: "Manage the general terms",
	Long:  `Show or update the conditions générales de vente that fill the terms section of generated letters.`,
}

var cgvShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the general terms",
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int { return runCGVShow(ctx, os.Stdout) })
	},
}

var cgvSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update the general terms from a JSON file",
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int { return runCGVSet(ctx, os.Stdout) })
	},
}

func init() {
	cgvSetCmd.Flags().StringVarP(&cgvFile, "file", "f", "", "JSON file with the general terms")
	cgvCmd.AddCommand(cgvShowCmd)
	cgvCmd.AddCommand(cgvSetCmd)
	rootCmd.AddCommand(cgvCmd)
}

// runCGVShow prints the general terms and returns exit code
func runCGVShow(ctx context.Context, w io.Writer) int {
	api, _, ok := requireSession(ctx, w)
	if !ok {
		return 1
	}

	rec, err := api.GetCGV(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(rec, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}

	fmt.Fprintln(w, formatCGVHuman(rec))
	return 0
}

// runCGVSet updates the general terms and returns exit code
func runCGVSet(ctx context.Context, w io.Writer) int {
	if cgvFile == "" {
		fmt.Fprintln(w, "Error: --file is required")
		return 2
	}

	data, err := os.ReadFile(cgvFile)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	var rec client.CGVRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		fmt.Fprintf(w, "Error: invalid JSON in %s: %v\n", cgvFile, err)
		return 2
	}

	api, _, ok := requireSession(ctx, w)
	if !ok {
		return 1
	}

	if _, err := api.SaveCGV(ctx, &rec); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	fmt.Fprintln(w, "Conditions générales enregistrées.")
	return 0
}

// formatCGVHuman formats the general terms for human readability
func formatCGVHuman(rec *client.CGVRecord) string {
	return fmt.Sprintf(`Délai de paiement:    %d jours
Pénalités de retard:  %.2f%%
Acompte:              %.2f%%
Mode de paiement:     %s
Tribunal compétent:   %s`,
		rec.PaymentDelayDays,
		rec.LatePenaltyPercent,
		rec.DepositPercent,
		orDash(rec.PaymentMode),
		orDash(rec.CourtCity))
}
