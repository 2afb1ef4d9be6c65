// ABOUTME: Login and logout commands for lettre CLI
// ABOUTME: Establishes or tears down the durable backend session

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginPassword string
	loginRemember bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the backend",
	Long: `Authenticate against the backend and store the session locally.

With --remember the session cookie is persisted so later commands and
dashboard sessions stay logged in.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogin(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear the stored session",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogout(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Account username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Account password (prompted when omitted)")
	loginCmd.Flags().BoolVar(&loginRemember, "remember", false, "Persist the session for later invocations")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

// runLogin authenticates and stores the session, returning exit code
func runLogin(ctx context.Context, w io.Writer) int {
	username := loginUsername
	password := loginPassword

	if username == "" || password == "" {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Identifiant").
					Value(&username),
				huh.NewInput().
					Title("Mot de passe").
					EchoMode(huh.EchoModePassword).
					Value(&password),
			),
		)
		if err := form.Run(); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
	}

	_, store := newSession()
	if err := store.Login(ctx, username, password, loginRemember); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}

	u, _ := store.CurrentUser()
	status := "standard"
	if u.IsPremium {
		status = "premium"
	}
	fmt.Fprintf(w, "Connecté en tant que %s (compte %s)\n", u.Username, status)
	return 0
}

// runLogout clears the stored session, returning exit code
func runLogout(ctx context.Context, w io.Writer) int {
	_, store := newSession()
	store.Initialize(ctx)
	store.Logout(ctx)
	fmt.Fprintln(w, "Déconnecté.")
	return 0
}
