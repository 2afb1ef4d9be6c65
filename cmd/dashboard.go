// ABOUTME: Dashboard command for lettre CLI
// ABOUTME: Launches the interactive TUI application

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plumecompta/lettre-cli/internal/session"
	"github.com/plumecompta/lettre-cli/internal/tui"
	"github.com/plumecompta/lettre-cli/internal/tui/debuglog"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Launch the interactive interface",
	Long:  `Launch the full-screen interactive interface for browsing the client roster and generating lettres de mission.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard()
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	// Bare `lettre` opens the dashboard too.
	rootCmd.RunE = dashboardCmd.RunE
}

func runDashboard() error {
	api, store := newSession()

	if err := debuglog.Init(session.DefaultConfigDir()); err == nil {
		defer debuglog.Close()
	}

	if err := tui.Run(api, store); err != nil {
		return fmt.Errorf("interface error: %w", err)
	}
	return nil
}
