package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"studyledger/internal/bootstrap"
	ledgerdto "studyledger/internal/modules/ledger/dto"
	sessiondto "studyledger/internal/modules/session/dto"
)

func newTodayCmd(dataDir *string) *cobra.Command {
	var date string
	var days int
	today := &cobra.Command{
		Use:   "today",
		Short: "Show goal progress, coins and streak",
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			return withUser(*dataDir, func(ctx context.Context, app *bootstrap.App, userID string) error {
				snap, err := app.LedgerCLI.Snapshot(ctx, userID, day)
				if err != nil {
					return err
				}
				printSnapshot(cmd.OutOrStdout(), snap)
				if days <= 0 {
					return nil
				}
				week, err := app.LedgerCLI.Week(ctx, userID, day, days)
				if err != nil {
					return err
				}
				for _, d := range week {
					mark := " "
					if d.Minutes >= d.GoalMin {
						mark = "*"
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s %4d/%d min\n", mark, d.Date.Format("Mon 2006-01-02"), d.Minutes, d.GoalMin)
				}
				return nil
			})
		},
	}
	today.Flags().StringVar(&date, "date", "", "day to show (YYYY-MM-DD, default today)")
	today.Flags().IntVar(&days, "days", 7, "also list totals for this many days (0 to skip)")
	return today
}

func printSnapshot(w io.Writer, snap ledgerdto.SnapshotOutput) {
	s := snap.State
	_, _ = fmt.Fprintf(w, "date: %s\nstudied: %d / %d min (%.0f%%)\ncoins: %d\nstreak: %d\nbonus claimed: %t\nequipped: theme=%s sound=%s mascot=%s\n",
		s.Date.Format("2006-01-02"), snap.MinutesToday, s.GoalMin, snap.Progress*100, s.Coins, snap.Streak, snap.BonusClaimed,
		s.EquippedTheme, s.EquippedSound, s.EquippedMascot)
}

func newGoalCmd(dataDir *string) *cobra.Command {
	goal := &cobra.Command{Use: "goal", Short: "Daily goal"}

	var date string
	set := &cobra.Command{
		Use:   "set <minutes>",
		Short: "Set the study goal for a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("minutes must be a number: %q", args[0])
			}
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			return withUser(*dataDir, func(ctx context.Context, app *bootstrap.App, userID string) error {
				state, err := app.LedgerCLI.SetGoal(ctx, userID, day, minutes)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "goal for %s: %d min\n", state.Date.Format("2006-01-02"), state.GoalMin)
				return nil
			})
		},
	}
	set.Flags().StringVar(&date, "date", "", "day (YYYY-MM-DD, default today)")
	goal.AddCommand(set)
	return goal
}

func newSubjectCmd(dataDir *string) *cobra.Command {
	subject := &cobra.Command{Use: "subject", Short: "Study subjects"}

	subject.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Add a subject",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(*dataDir, func(ctx context.Context, app *bootstrap.App, userID string) error {
				out, err := app.SessionCLI.AddSubject(ctx, userID, strings.Join(args, " "))
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added subject %s\n", out.Name)
				return nil
			})
		},
	})

	subject.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List subjects",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withUser(*dataDir, func(ctx context.Context, app *bootstrap.App, userID string) error {
				subjects, err := app.SessionCLI.ListSubjects(ctx, userID)
				if err != nil {
					return err
				}
				if len(subjects) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no subjects")
					return nil
				}
				for _, s := range subjects {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), s.Name)
				}
				return nil
			})
		},
	})
	return subject
}

// assessment holds the self-rating flags shared by session log and timer stop.
type assessment struct {
	distractions int
	mood         string
	energy       int
	difficulty   int
	note         string
}

func (a *assessment) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&a.distractions, "distractions", 0, "number of distractions")
	cmd.Flags().StringVar(&a.mood, "mood", "", "mood after studying")
	cmd.Flags().IntVar(&a.energy, "energy", 3, "energy 1-5")
	cmd.Flags().IntVar(&a.difficulty, "difficulty", 3, "difficulty 1-5")
	cmd.Flags().StringVar(&a.note, "note", "", "free text note")
}

func printRecord(w io.Writer, out sessiondto.RecordOutput) {
	s := out.Session
	_, _ = fmt.Fprintf(w, "recorded %d min of %s on %s (+%d coins)\n", s.DurationMin, s.Subject, s.Date.Format("2006-01-02"), out.CoinsEarned)
	if out.Bonus.Granted {
		_, _ = fmt.Fprintf(w, "goal reached: bonus +%d\n", out.Bonus.Amount)
	}
	_, _ = fmt.Fprintf(w, "today: %d / %d min, coins %d, streak %d\n",
		out.Snapshot.MinutesToday, out.Snapshot.State.GoalMin, out.Snapshot.State.Coins, out.Snapshot.Streak)
}

func newSessionCmd(dataDir *string) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Study sessions"}

	var (
		subject, date string
		minutes       int
		seconds       int64
		rate          assessment
	)
	logCmd := &cobra.Command{
		Use:   "log --subject <name> --minutes <n>",
		Short: "Record a finished study session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			elapsed := seconds
			if elapsed == 0 {
				elapsed = int64(minutes) * 60
			}
			return withUser(*dataDir, func(ctx context.Context, app *bootstrap.App, userID string) error {
				out, err := app.SessionCLI.Log(ctx, sessiondto.RecordInput{
					UserID:       userID,
					Date:         day,
					Subject:      subject,
					ElapsedSec:   elapsed,
					Distractions: rate.distractions,
					Mood:         rate.mood,
					Energy:       rate.energy,
					Difficulty:   rate.difficulty,
					Note:         rate.note,
				})
				if err != nil {
					return err
				}
				printRecord(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	logCmd.Flags().StringVar(&subject, "subject", "", "subject name")
	logCmd.Flags().IntVar(&minutes, "minutes", 0, "duration in minutes")
	logCmd.Flags().Int64Var(&seconds, "seconds", 0, "duration in seconds (overrides --minutes)")
	logCmd.Flags().StringVar(&date, "date", "", "day (YYYY-MM-DD, default today)")
	rate.bind(logCmd)

	var from, to string
	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List recorded sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, end, err := parseRange(from, to)
			if err != nil {
				return err
			}
			return withUser(*dataDir, func(ctx context.Context, app *bootstrap.App, userID string) error {
				sessions, err := app.SessionCLI.List(ctx, userID, start, end, limit)
				if err != nil {
					return err
				}
				if len(sessions) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
					return nil
				}
				for _, s := range sessions {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d min\t%s\tdistractions=%d energy=%d difficulty=%d\n",
						s.Date.Format("2006-01-02"), s.Subject, s.DurationMin, s.Source, s.Distractions, s.Energy, s.Difficulty)
				}
				return nil
			})
		},
	}
	list.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD)")
	list.Flags().StringVar(&to, "to", "", "last day (YYYY-MM-DD)")
	list.Flags().IntVar(&limit, "limit", 50, "maximum rows")

	var statsFrom, statsTo string
	stats := &cobra.Command{
		Use:   "stats",
		Short: "Totals per day and per subject",
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, end, err := parseRange(statsFrom, statsTo)
			if err != nil {
				return err
			}
			return withUser(*dataDir, func(ctx context.Context, app *bootstrap.App, userID string) error {
				days, err := app.SessionCLI.DailyTotals(ctx, userID, start, end)
				if err != nil {
					return err
				}
				subjects, err := app.SessionCLI.SubjectTotals(ctx, userID, start, end)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintln(w, "by day:")
				for _, d := range days {
					_, _ = fmt.Fprintf(w, "  %s\t%d min\t%d session(s)\n", d.Date.Format("2006-01-02"), d.Minutes, d.Sessions)
				}
				_, _ = fmt.Fprintln(w, "by subject:")
				for _, s := range subjects {
					_, _ = fmt.Fprintf(w, "  %s\t%d min\t%d session(s)\tavg energy %.1f\tavg difficulty %.1f\n",
						s.Subject, s.Minutes, s.Sessions, s.AvgEnergy, s.AvgDifficulty)
				}
				return nil
			})
		},
	}
	stats.Flags().StringVar(&statsFrom, "from", "", "first day (YYYY-MM-DD)")
	stats.Flags().StringVar(&statsTo, "to", "", "last day (YYYY-MM-DD)")

	session.AddCommand(logCmd, list, stats)
	return session
}

func parseRange(from, to string) (time.Time, time.Time, error) {
	start, err := parseDay(from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDay(to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func printTimer(w io.Writer, t sessiondto.TimerOutput) {
	state := "running"
	if !t.Running {
		state = "paused"
	}
	if t.Mode == "pomodoro" {
		_, _ = fmt.Fprintf(w, "pomodoro %s: %s phase, %s left (focus blocks: %d)\n", t.Subject, t.Phase, t.Remaining.Round(time.Second), t.CompletedFocus)
		return
	}
	_, _ = fmt.Fprintf(w, "stopwatch %s: %s, %s elapsed\n", t.Subject, state, t.Elapsed.Round(time.Second))
}

func newTimerCmd(dataDir *string) *cobra.Command {
	timer := &cobra.Command{Use: "timer", Short: "Stopwatch that records a session when stopped"}

	timer.AddCommand(&cobra.Command{
		Use:   "start [subject]",
		Short: "Start a stopwatch, or resume the paused one",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(*dataDir, func(ctx context.Context, app *bootstrap.App, userID string) error {
				out, err := app.SessionCLI.TimerStart(ctx, userID, strings.Join(args, " "))
				if err != nil {
					return err
				}
				printTimer(cmd.OutOrStdout(), out)
				return nil
			})
		},
	})

	timer.AddCommand(&cobra.Command{
		Use:   "pause",
		Short: "Pause the stopwatch",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SessionCLI.TimerPause(ctx)
				if err != nil {
					return err
				}
				printTimer(cmd.OutOrStdout(), out)
				return nil
			})
		},
	})

	var rate assessment
	stop := &cobra.Command{
		Use:   "stop",
		Short: "Stop the stopwatch and record the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SessionCLI.TimerStop(ctx, sessiondto.StopInput{
					Distractions: rate.distractions,
					Mood:         rate.mood,
					Energy:       rate.energy,
					Difficulty:   rate.difficulty,
					Note:         rate.note,
				})
				if err != nil {
					return err
				}
				printRecord(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	rate.bind(stop)

	timer.AddCommand(stop, &cobra.Command{
		Use:   "status",
		Short: "Show the running timer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SessionCLI.TimerStatus(ctx)
				if err != nil {
					return err
				}
				printTimer(cmd.OutOrStdout(), out)
				return nil
			})
		},
	})
	return timer
}

func newPomodoroCmd(dataDir *string) *cobra.Command {
	pomodoro := &cobra.Command{Use: "pomodoro", Short: "Focus/break cycles; finished focus blocks are recorded"}

	pomodoro.AddCommand(&cobra.Command{
		Use:   "start <subject>",
		Short: "Start a pomodoro cycle",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(*dataDir, func(ctx context.Context, app *bootstrap.App, userID string) error {
				out, err := app.SessionCLI.PomodoroStart(ctx, userID, strings.Join(args, " "))
				if err != nil {
					return err
				}
				printTimer(cmd.OutOrStdout(), out)
				return nil
			})
		},
	})

	pomodoro.AddCommand(&cobra.Command{
		Use:   "tick",
		Short: "Advance the cycle if the current phase has ended",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SessionCLI.PomodoroTick(ctx)
				if err != nil {
					return err
				}
				if out.Recorded != nil {
					printRecord(cmd.OutOrStdout(), *out.Recorded)
				}
				printTimer(cmd.OutOrStdout(), out.Timer)
				return nil
			})
		},
	})

	pomodoro.AddCommand(&cobra.Command{
		Use:   "stop",
		Short: "Abandon the cycle without recording the current block",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SessionCLI.PomodoroStop(ctx)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "pomodoro stopped after %d focus block(s)\n", out.CompletedFocus)
				return nil
			})
		},
	})
	return pomodoro
}

func newCoinsCmd(dataDir *string) *cobra.Command {
	coins := &cobra.Command{Use: "coins", Short: "Coin ledger"}

	var limit int
	history := &cobra.Command{
		Use:   "history",
		Short: "Recent coin movements",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withUser(*dataDir, func(ctx context.Context, app *bootstrap.App, userID string) error {
				entries, err := app.LedgerCLI.History(ctx, userID, limit)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no coin history")
					return nil
				}
				for _, e := range entries {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%+d\t%s\t%s\n", e.Date.Format("2006-01-02"), e.CoinsChange, e.Type, e.Name)
				}
				return nil
			})
		},
	}
	history.Flags().IntVar(&limit, "limit", 20, "maximum rows")

	var date string
	bonus := &cobra.Command{
		Use:   "bonus",
		Short: "Claim the daily goal bonus",
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			return withUser(*dataDir, func(ctx context.Context, app *bootstrap.App, userID string) error {
				out, err := app.LedgerCLI.ClaimBonus(ctx, userID, day)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				switch {
				case out.Granted:
					_, _ = fmt.Fprintf(w, "bonus +%d, balance %d\n", out.Amount, out.Balance)
				case out.AlreadyClaimed:
					_, _ = fmt.Fprintln(w, "bonus already claimed")
				default:
					_, _ = fmt.Fprintf(w, "goal not reached: %d / %d min\n", out.MinutesToday, out.GoalMin)
				}
				return nil
			})
		},
	}
	bonus.Flags().StringVar(&date, "date", "", "day (YYYY-MM-DD, default today)")

	coins.AddCommand(history, bonus)
	return coins
}

func newStreakCmd(dataDir *string) *cobra.Command {
	var date string
	streak := &cobra.Command{
		Use:   "streak",
		Short: "Consecutive days that met their goal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			return withUser(*dataDir, func(ctx context.Context, app *bootstrap.App, userID string) error {
				n, err := app.LedgerCLI.Streak(ctx, userID, day)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "streak: %d day(s)\n", n)
				return nil
			})
		},
	}
	streak.Flags().StringVar(&date, "date", "", "as of day (YYYY-MM-DD, default today)")
	return streak
}
