// ABOUTME: Cabinet command group for lettre CLI
// ABOUTME: Shows and updates the firm profile used in generated letters

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

var cabinetFile string

var cabinetCmd = &cobra.Command{
	Use:   "cabinet",
	Short: "Manage the firm profile",
	Long:  `Show or update the cabinet profile that fills the firm section of generated letters.`,
}

var cabinetShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the firm profile",
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int { return runCabinetShow(ctx, os.Stdout) })
	},
}

var cabinetSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update the firm profile from a JSON file",
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int { return runCabinetSet(ctx, os.Stdout) })
	},
}

func init() {
	cabinetSetCmd.Flags().StringVarP(&cabinetFile, "file", "f", "", "JSON file with the firm profile")
	cabinetCmd.AddCommand(cabinetShowCmd)
	cabinetCmd.AddCommand(cabinetSetCmd)
	rootCmd.AddCommand(cabinetCmd)
}

// runCabinetShow prints the firm profile and returns exit code
func runCabinetShow(ctx context.Context, w io.Writer) int {
	api, _, ok := requireSession(ctx, w)
	if !ok {
		return 1
	}

	rec, err := api.GetCabinet(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(rec, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}

	fmt.Fprintln(w, formatCabinetHuman(rec))
	return 0
}

// runCabinetSet updates the firm profile and returns exit code
func runCabinetSet(ctx context.Context, w io.Writer) int {
	if cabinetFile == "" {
		fmt.Fprintln(w, "Error: --file is required")
		return 2
	}

	data, err := os.ReadFile(cabinetFile)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	var rec client.CabinetRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		fmt.Fprintf(w, "Error: invalid JSON in %s: %v\n", cabinetFile, err)
		return 2
	}

	api, _, ok := requireSession(ctx, w)
	if !ok {
		return 1
	}

	saved, err := api.SaveCabinet(ctx, &rec)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	fmt.Fprintf(w, "Profil cabinet enregistré : %s\n", saved.Name)
	return 0
}

// formatCabinetHuman formats the firm profile for human readability
func formatCabinetHuman(rec *client.CabinetRecord) string {
	return fmt.Sprintf(`Cabinet:       %s
Adresse:       %s, %s %s
Téléphone:     %s
Email:         %s
SIREN:         %s
Inscription:   %s`,
		rec.Name,
		orDash(rec.Address), rec.PostalCode, rec.City,
		orDash(rec.Phone),
		orDash(rec.Email),
		orDash(rec.SIREN),
		orDash(rec.RegistrationNumber))
}
