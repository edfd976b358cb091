package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"studyledger/internal/bootstrap"
	"studyledger/internal/platform/clock"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "studyledger",
		Short:         "Study tracker with coins, streaks and a mood diary",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data", ".", "data directory")

	root.AddCommand(newAccountCmd(&dataDir))
	root.AddCommand(newTodayCmd(&dataDir))
	root.AddCommand(newGoalCmd(&dataDir))
	root.AddCommand(newSubjectCmd(&dataDir))
	root.AddCommand(newSessionCmd(&dataDir))
	root.AddCommand(newTimerCmd(&dataDir))
	root.AddCommand(newPomodoroCmd(&dataDir))
	root.AddCommand(newCoinsCmd(&dataDir))
	root.AddCommand(newStreakCmd(&dataDir))
	root.AddCommand(newShopCmd(&dataDir))
	root.AddCommand(newDiaryCmd(&dataDir))
	root.AddCommand(newBackupCmd(&dataDir))
	root.AddCommand(newTUICmd(&dataDir))
	return root
}

// withApp opens the app for one command and closes it afterwards.
func withApp(dataDir string, fn func(ctx context.Context, app *bootstrap.App) error) error {
	ctx := context.Background()
	app, err := bootstrap.New(ctx, dataDir)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(ctx, app)
}

// withUser is withApp for commands that act on the logged-in user.
func withUser(dataDir string, fn func(ctx context.Context, app *bootstrap.App, userID string) error) error {
	return withApp(dataDir, func(ctx context.Context, app *bootstrap.App) error {
		userID, err := app.UserID(ctx)
		if err != nil {
			return fmt.Errorf("%w (run `studyledger account login`)", err)
		}
		return fn(ctx, app, userID)
	})
}

// parseDay accepts YYYY-MM-DD; empty means today.
func parseDay(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}
	day, err := clock.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", value)
	}
	return day, nil
}

func newTUICmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal dashboard",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				return bootstrap.RunTUI(ctx, app)
			})
		},
	}
}

func newBackupCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "backup <path>",
		Short: "Write a consistent copy of the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				if err := app.Backup(ctx, args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "backup written to %s\n", args[0])
				return nil
			})
		},
	}
}
