// ABOUTME: Password command group for lettre CLI
// ABOUTME: Requests and completes password resets

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var resetPassword string

var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Manage the account password",
}

var passwordForgotCmd = &cobra.Command{
	Use:   "forgot <email>",
	Short: "Request a password-reset email",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runPasswordForgot(ctx, os.Stdout, args[0])
		})
	},
}

var passwordResetCmd = &cobra.Command{
	Use:   "reset <token>",
	Short: "Set a new password with a reset token",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runPasswordReset(ctx, os.Stdout, args[0])
		})
	},
}

func init() {
	passwordResetCmd.Flags().StringVarP(&resetPassword, "password", "p", "", "New password (prompted when omitted)")
	passwordCmd.AddCommand(passwordForgotCmd)
	passwordCmd.AddCommand(passwordResetCmd)
	rootCmd.AddCommand(passwordCmd)
}

// runPasswordForgot requests a reset email, returning exit code
func runPasswordForgot(ctx context.Context, w io.Writer, email string) int {
	api, _ := newSession()
	if err := api.ForgotPassword(ctx, email); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintf(w, "Si un compte existe pour %s, un email de réinitialisation a été envoyé.\n", email)
	return 0
}

// runPasswordReset completes a reset with the emailed token, returning
// exit code
func runPasswordReset(ctx context.Context, w io.Writer, token string) int {
	password := resetPassword
	if password == "" {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Nouveau mot de passe").
					EchoMode(huh.EchoModePassword).
					Value(&password),
			),
		)
		if err := form.Run(); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
	}

	api, _ := newSession()
	if err := api.ResetPassword(ctx, token, password); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintln(w, "Mot de passe mis à jour. Connectez-vous avec `lettre login`.")
	return 0
}
