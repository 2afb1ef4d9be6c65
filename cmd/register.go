// ABOUTME: Register command for lettre CLI
// ABOUTME: Creates a new account against the backend

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/plumecompta/lettre-cli/internal/client"
)

var (
	registerUsername string
	registerEmail    string
	registerPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runRegister(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	registerCmd.Flags().StringVarP(&registerUsername, "username", "u", "", "Account username")
	registerCmd.Flags().StringVarP(&registerEmail, "email", "e", "", "Account email")
	registerCmd.Flags().StringVarP(&registerPassword, "password", "p", "", "Account password")
	rootCmd.AddCommand(registerCmd)
}

// runRegister creates an account and returns exit code
func runRegister(ctx context.Context, w io.Writer) int {
	var missing []string
	if registerUsername == "" {
		missing = append(missing, "--username")
	}
	if registerEmail == "" {
		missing = append(missing, "--email")
	}
	if registerPassword == "" {
		missing = append(missing, "--password")
	}
	if len(missing) > 0 {
		fmt.Fprintf(w, "Error: missing required flags: %s\n", strings.Join(missing, ", "))
		return 2
	}

	api, _ := newSession()
	err := api.Register(ctx, client.RegisterInput{
		Username: registerUsername,
		Email:    registerEmail,
		Password: registerPassword,
	})
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintf(w, "Compte %s créé. Connectez-vous avec `lettre login`.\n", registerUsername)
	return 0
}
