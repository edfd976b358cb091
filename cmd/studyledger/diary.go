package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"studyledger/internal/bootstrap"
	diarydto "studyledger/internal/modules/diary/dto"
)

func newDiaryCmd(dataDir *string) *cobra.Command {
	diary := &cobra.Command{Use: "diary", Short: "Mood diary with photo and audio attachments"}

	var (
		mood, tags, date, content string
		score                     int
		attach                    []string
	)
	add := &cobra.Command{
		Use:   "add [text]",
		Short: "Write a diary entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			text := content
			if text == "" {
				text = strings.Join(args, " ")
			}
			return withUser(*dataDir, func(ctx context.Context, app *bootstrap.App, userID string) error {
				out, err := app.DiaryCLI.Add(ctx, diarydto.CreateInput{
					UserID:      userID,
					Date:        day,
					Mood:        mood,
					MoodScore:   score,
					Tags:        tags,
					Content:     text,
					Attachments: attachments(attach),
				})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "saved entry %s (%d attachment(s))\n", out.ID, len(out.Files))
				return nil
			})
		},
	}
	add.Flags().StringVar(&mood, "mood", "", "happy, calm, neutral, sad, anxious or motivated")
	add.Flags().IntVar(&score, "score", 0, "mood score 1-5 (default 3)")
	add.Flags().StringVar(&tags, "tags", "", "comma separated tags")
	add.Flags().StringVar(&date, "date", "", "day (YYYY-MM-DD, default today)")
	add.Flags().StringVar(&content, "content", "", "entry text (defaults to the arguments)")
	add.Flags().StringSliceVar(&attach, "attach", nil, "image or audio file to attach (repeatable)")

	var (
		query, filterMood, tag string
		limit                  int
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List entries, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withUser(*dataDir, func(ctx context.Context, app *bootstrap.App, userID string) error {
				entries, err := app.DiaryCLI.List(ctx, userID, query, filterMood, tag, limit)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no entries")
					return nil
				}
				for _, e := range entries {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %-9s %d  %s\n", e.ID, e.Date.Format("2006-01-02"), e.Mood, e.MoodScore, headline(e.Content))
				}
				return nil
			})
		},
	}
	list.Flags().StringVar(&query, "q", "", "search text in content and tags")
	list.Flags().StringVar(&filterMood, "mood", "", "only this mood")
	list.Flags().StringVar(&tag, "tag", "", "only entries with this tag")
	list.Flags().IntVar(&limit, "limit", 0, "maximum rows")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Print one entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(*dataDir, func(ctx context.Context, app *bootstrap.App, userID string) error {
				e, err := app.DiaryCLI.Show(ctx, userID, args[0])
				if err != nil {
					return err
				}
				printEntry(cmd.OutOrStdout(), e)
				return nil
			})
		},
	}

	var (
		editMood, editTags, editDate, editContent string
		editScore                                 int
		editAttach                                []string
	)
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change an entry; only the given flags are applied",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := diarydto.UpdateInput{ID: args[0], AddAttachments: attachments(editAttach)}
			flags := cmd.Flags()
			if flags.Changed("date") {
				day, err := parseDay(editDate)
				if err != nil {
					return err
				}
				input.Date = &day
			}
			if flags.Changed("mood") {
				input.Mood = &editMood
			}
			if flags.Changed("score") {
				input.MoodScore = &editScore
			}
			if flags.Changed("tags") {
				input.Tags = &editTags
			}
			if flags.Changed("content") {
				input.Content = &editContent
			}
			return withUser(*dataDir, func(ctx context.Context, app *bootstrap.App, userID string) error {
				input.UserID = userID
				e, err := app.DiaryCLI.Edit(ctx, input)
				if err != nil {
					return err
				}
				printEntry(cmd.OutOrStdout(), e)
				return nil
			})
		},
	}
	edit.Flags().StringVar(&editMood, "mood", "", "new mood")
	edit.Flags().IntVar(&editScore, "score", 3, "new mood score 1-5")
	edit.Flags().StringVar(&editTags, "tags", "", "replacement tags, comma separated")
	edit.Flags().StringVar(&editDate, "date", "", "new day (YYYY-MM-DD)")
	edit.Flags().StringVar(&editContent, "content", "", "replacement text")
	edit.Flags().StringSliceVar(&editAttach, "attach", nil, "file to add (repeatable)")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entry and its files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(*dataDir, func(ctx context.Context, app *bootstrap.App, userID string) error {
				if err := app.DiaryCLI.Delete(ctx, userID, args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Entry counts by mood and month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withUser(*dataDir, func(ctx context.Context, app *bootstrap.App, userID string) error {
				s, err := app.DiaryCLI.Stats(ctx, userID)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "entries: %d\naverage score: %.2f\nby mood:\n", s.Total, s.AvgScore)
				for _, m := range s.ByMood {
					_, _ = fmt.Fprintf(w, "  %-9s %d\n", m.Mood, m.Count)
				}
				_, _ = fmt.Fprintln(w, "by month:")
				for _, m := range s.ByMonth {
					_, _ = fmt.Fprintf(w, "  %s  %d\n", m.Month, m.Count)
				}
				return nil
			})
		},
	}

	export := &cobra.Command{
		Use:   "export <dir>",
		Short: "Write every entry as a markdown note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(*dataDir, func(ctx context.Context, app *bootstrap.App, userID string) error {
				out, err := app.DiaryCLI.Export(ctx, userID, args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %d note(s) to %s\nindex: %s\n", len(out.Written), out.Dir, out.Index)
				return nil
			})
		},
	}

	diary.AddCommand(add, list, show, edit, del, stats, export)
	return diary
}

func attachments(paths []string) []diarydto.AttachmentInput {
	if len(paths) == 0 {
		return nil
	}
	out := make([]diarydto.AttachmentInput, 0, len(paths))
	for _, p := range paths {
		out = append(out, diarydto.AttachmentInput{Path: p})
	}
	return out
}

func headline(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "# "))
		if line == "" {
			continue
		}
		if r := []rune(line); len(r) > 50 {
			return string(r[:50]) + "…"
		}
		return line
	}
	return ""
}

func printEntry(w io.Writer, e diarydto.EntryOutput) {
	_, _ = fmt.Fprintf(w, "id: %s\ndate: %s\nmood: %s (%d)\n", e.ID, e.Date.Format("2006-01-02"), e.Mood, e.MoodScore)
	if len(e.Tags) > 0 {
		_, _ = fmt.Fprintf(w, "tags: %s\n", strings.Join(e.Tags, ", "))
	}
	for _, f := range e.Files {
		_, _ = fmt.Fprintf(w, "%s: %s (%s)\n", f.Kind, f.Path, f.OriginalName)
	}
	_, _ = fmt.Fprintf(w, "\n%s\n", strings.TrimRight(e.Content, "\n"))
}
