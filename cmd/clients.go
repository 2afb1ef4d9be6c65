// ABOUTME: Clients command group for lettre CLI
// ABOUTME: Lists, shows, creates, updates, and deletes roster entries

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/plumecompta/lettre-cli/internal/client"
	"github.com/plumecompta/lettre-cli/internal/draft"
)

var (
	clientFile  string
	clientForce bool
	clientYes   bool
)

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Manage the client roster",
	Long:  `List, inspect, and edit the firm's client roster stored on the backend.`,
}

var clientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all clients",
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int { return runClientsList(ctx, os.Stdout) })
	},
}

var clientsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one client record",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int { return runClientsShow(ctx, os.Stdout, args[0]) })
	},
}

var clientsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a client from a JSON file",
	Long: `Create a client record from a JSON file.

The record must pass validation (denomination required, SIREN of nine
digits when subject to VAT, coherent fiscal-year dates). Missing
optional fields are reported; pass --force to create anyway.`,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int { return runClientsCreate(ctx, os.Stdout) })
	},
}

var clientsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a client from a JSON file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int { return runClientsUpdate(ctx, os.Stdout, args[0]) })
	},
}

var clientsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a client record",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int { return runClientsDelete(ctx, os.Stdout, args[0]) })
	},
}

func init() {
	clientsCreateCmd.Flags().StringVarP(&clientFile, "file", "f", "", "JSON file with the client record")
	clientsCreateCmd.Flags().BoolVar(&clientForce, "force", false, "Create even when optional fields are missing")
	clientsUpdateCmd.Flags().StringVarP(&clientFile, "file", "f", "", "JSON file with the client record")
	clientsDeleteCmd.Flags().BoolVarP(&clientYes, "yes", "y", false, "Skip the confirmation prompt")

	clientsCmd.AddCommand(clientsListCmd)
	clientsCmd.AddCommand(clientsShowCmd)
	clientsCmd.AddCommand(clientsCreateCmd)
	clientsCmd.AddCommand(clientsUpdateCmd)
	clientsCmd.AddCommand(clientsDeleteCmd)
	rootCmd.AddCommand(clientsCmd)
}

// runWithSignals wraps a command body with signal-aware context handling
func runWithSignals(fn func(ctx context.Context) int) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if exitCode := fn(ctx); exitCode != 0 {
		os.Exit(exitCode)
	}
}

// runClientsList prints the roster and returns exit code
func runClientsList(ctx context.Context, w io.Writer) int {
	api, _, ok := requireSession(ctx, w)
	if !ok {
		return 1
	}

	records, err := api.ListClients(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(records, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "Aucun client enregistré.")
		return 0
	}

	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	for _, r := range records {
		city := r.City
		if city == "" {
			city = "—"
		}
		fmt.Fprintf(w, "%4d  %-40s %s\n", r.ID, r.Denomination, city)
	}
	return 0
}

// runClientsShow prints one record and returns exit code
func runClientsShow(ctx context.Context, w io.Writer, idArg string) int {
	id, err := strconv.Atoi(idArg)
	if err != nil {
		fmt.Fprintf(w, "Error: invalid client id %q\n", idArg)
		return 2
	}

	api, _, ok := requireSession(ctx, w)
	if !ok {
		return 1
	}

	rec, err := api.GetClient(ctx, id)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(rec, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}

	fmt.Fprintln(w, formatClientHuman(rec))
	return 0
}

// runClientsCreate validates and creates a record, returning exit code
func runClientsCreate(ctx context.Context, w io.Writer) int {
	rec, errCode := loadClientFile(w)
	if errCode != 0 {
		return errCode
	}

	if errs := draft.ValidateClient(*rec); len(errs) > 0 {
		fmt.Fprintln(w, "Enregistrement invalide :")
		for _, field := range sortedKeys(errs) {
			fmt.Fprintf(w, "  %s: %s\n", field, errs[field])
		}
		return 1
	}

	if missing := draft.MissingOptionalFields(*rec); len(missing) > 0 && !clientForce {
		fmt.Fprintf(w, "Champs optionnels manquants : %s\n", strings.Join(missing, ", "))
		fmt.Fprintln(w, "Utilisez --force pour créer malgré tout.")
		return 1
	}

	api, _, ok := requireSession(ctx, w)
	if !ok {
		return 1
	}

	created, err := api.CreateClient(ctx, rec)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	fmt.Fprintf(w, "Client %d créé : %s\n", created.ID, created.Denomination)
	return 0
}

// runClientsUpdate validates and updates a record, returning exit code
func runClientsUpdate(ctx context.Context, w io.Writer, idArg string) int {
	id, err := strconv.Atoi(idArg)
	if err != nil {
		fmt.Fprintf(w, "Error: invalid client id %q\n", idArg)
		return 2
	}

	rec, errCode := loadClientFile(w)
	if errCode != 0 {
		return errCode
	}

	if errs := draft.ValidateClient(*rec); len(errs) > 0 {
		fmt.Fprintln(w, "Enregistrement invalide :")
		for _, field := range sortedKeys(errs) {
			fmt.Fprintf(w, "  %s: %s\n", field, errs[field])
		}
		return 1
	}

	api, _, ok := requireSession(ctx, w)
	if !ok {
		return 1
	}

	updated, err := api.UpdateClient(ctx, id, rec)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	fmt.Fprintf(w, "Client %d mis à jour : %s\n", updated.ID, updated.Denomination)
	return 0
}

// runClientsDelete removes a record and returns exit code
func runClientsDelete(ctx context.Context, w io.Writer, idArg string) int {
	id, err := strconv.Atoi(idArg)
	if err != nil {
		fmt.Fprintf(w, "Error: invalid client id %q\n", idArg)
		return 2
	}

	if !clientYes {
		fmt.Fprintln(w, "Suppression définitive. Confirmez avec --yes.")
		return 1
	}

	api, _, ok := requireSession(ctx, w)
	if !ok {
		return 1
	}

	if err := api.DeleteClient(ctx, id); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	fmt.Fprintf(w, "Client %d supprimé.\n", id)
	return 0
}

// loadClientFile reads the --file JSON into a ClientRecord
func loadClientFile(w io.Writer) (*client.ClientRecord, int) {
	if clientFile == "" {
		fmt.Fprintln(w, "Error: --file is required")
		return nil, 2
	}

	data, err := os.ReadFile(clientFile)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return nil, 2
	}

	var rec client.ClientRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		fmt.Fprintf(w, "Error: invalid JSON in %s: %v\n", clientFile, err)
		return nil, 2
	}
	return &rec, 0
}

// formatClientHuman formats a record for human readability
func formatClientHuman(rec *client.ClientRecord) string {
	vat := "non"
	if rec.VATSubject {
		vat = "oui"
	}
	return fmt.Sprintf(`Dénomination:    %s
Forme juridique: %s
Représentant:    %s
Régime fiscal:   %s
Assujetti TVA:   %s
SIREN:           %s
Adresse:         %s, %s %s
Exercice:        %s → %s
Expert:          %s`,
		rec.Denomination,
		orDash(rec.LegalForm),
		orDash(rec.Representative),
		orDash(rec.TaxRegime),
		vat,
		orDash(rec.SIREN),
		orDash(rec.Address), rec.PostalCode, rec.City,
		orDash(draft.NormalizeDate(rec.FiscalYearStart)), orDash(draft.NormalizeDate(rec.FiscalYearEnd)),
		orDash(rec.ExpertName))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
