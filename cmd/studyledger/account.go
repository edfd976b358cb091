package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"studyledger/internal/bootstrap"
)

func newAccountCmd(dataDir *string) *cobra.Command {
	account := &cobra.Command{Use: "account", Short: "Register and switch users"}

	var email, name, password, confirm string
	register := &cobra.Command{
		Use:   "register --email <email>",
		Short: "Create a user and seed the default subjects",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if password, err = promptSecret(cmd, password, "password: "); err != nil {
				return err
			}
			if confirm, err = promptSecret(cmd, confirm, "confirm password: "); err != nil {
				return err
			}
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				user, err := app.AccountCLI.Register(ctx, email, name, password, confirm)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "registered %s (%s)\n", user.Email, user.ID)
				return nil
			})
		},
	}
	register.Flags().StringVar(&email, "email", "", "email address")
	register.Flags().StringVar(&name, "name", "", "display name (defaults to the email user part)")
	register.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	register.Flags().StringVar(&confirm, "confirm", "", "password confirmation (prompted when omitted)")

	var loginEmail, loginPassword string
	login := &cobra.Command{
		Use:   "login --email <email>",
		Short: "Log in as an existing user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if loginPassword, err = promptSecret(cmd, loginPassword, "password: "); err != nil {
				return err
			}
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				user, err := app.AccountCLI.Login(ctx, loginEmail, loginPassword)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", user.Name)
				return nil
			})
		},
	}
	login.Flags().StringVar(&loginEmail, "email", "", "email address")
	login.Flags().StringVar(&loginPassword, "password", "", "password (prompted when omitted)")

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Forget the current user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				if err := app.AccountCLI.Logout(ctx); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "logged out")
				return nil
			})
		},
	}

	whoami := &cobra.Command{
		Use:   "whoami",
		Short: "Show the current user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				user, err := app.AccountCLI.WhoAmI(ctx)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> id=%s\n", user.Name, user.Email, user.ID)
				return nil
			})
		},
	}

	account.AddCommand(register, login, logout, whoami)
	return account
}

// promptSecret returns value when set, otherwise reads it from the terminal
// without echo.
func promptSecret(cmd *cobra.Command, value, prompt string) (string, error) {
	if value != "" {
		return value, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("%s is required when stdin is not a terminal", strings.TrimSuffix(prompt, ": "))
	}
	_, _ = fmt.Fprint(cmd.ErrOrStderr(), prompt)
	raw, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}
