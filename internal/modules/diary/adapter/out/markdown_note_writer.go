package out

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"studyledger/internal/modules/diary/domain"
	diaryout "studyledger/internal/modules/diary/port/out"
	"studyledger/internal/platform/clock"
	"studyledger/internal/platform/markdown"
	"studyledger/internal/platform/slug"
)

const indexName = "index.md"

type noteMeta struct {
	ID          string   `yaml:"id"`
	Date        string   `yaml:"date"`
	Mood        string   `yaml:"mood"`
	MoodScore   int      `yaml:"mood_score"`
	Tags        []string `yaml:"tags,omitempty"`
	Created     string   `yaml:"created_at"`
	Updated     string   `yaml:"updated_at"`
	Attachments []string `yaml:"attachments,omitempty"`
}

// MarkdownNoteWriter exports entries as frontmatter notes plus an index.md
// whose generated block is refreshed on every export.
type MarkdownNoteWriter struct{}

func NewMarkdownNoteWriter() diaryout.NoteWriter {
	return MarkdownNoteWriter{}
}

func (MarkdownNoteWriter) Write(dir string, entries []domain.Entry) ([]string, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("create export dir: %w", err)
	}
	used := map[string]int{}
	written := make([]string, 0, len(entries))
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		name := noteName(e, used)
		note, err := renderEntry(e)
		if err != nil {
			return written, "", err
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(note), 0o644); err != nil {
			return written, "", fmt.Errorf("write note %s: %w", name, err)
		}
		written = append(written, path)
		lines = append(lines, fmt.Sprintf("- [%s %s](%s) %s", clock.Format(e.Date), e.Title(), name, e.Mood))
	}

	indexPath := filepath.Join(dir, indexName)
	existing, err := os.ReadFile(indexPath)
	if err != nil && !os.IsNotExist(err) {
		return written, "", fmt.Errorf("read index: %w", err)
	}
	doc := string(existing)
	if strings.TrimSpace(doc) == "" {
		doc = "# Diary\n"
	}
	doc = markdown.UpsertBlock(doc, "entries", strings.Join(lines, "\n"))
	if err := os.WriteFile(indexPath, []byte(doc), 0o644); err != nil {
		return written, "", fmt.Errorf("write index: %w", err)
	}
	return written, indexPath, nil
}

func noteName(e domain.Entry, used map[string]int) string {
	base := clock.Format(e.Date) + "-" + slug.Make(e.Title())
	used[base]++
	if n := used[base]; n > 1 {
		return fmt.Sprintf("%s-%d.md", base, n)
	}
	return base + ".md"
}

func renderEntry(e domain.Entry) (string, error) {
	meta := noteMeta{
		ID:        e.ID,
		Date:      clock.Format(e.Date),
		Mood:      string(e.Mood),
		MoodScore: e.MoodScore,
		Tags:      e.Tags,
		Created:   e.CreatedAt.Format(time.RFC3339),
		Updated:   e.UpdatedAt.Format(time.RFC3339),
	}
	var body strings.Builder
	body.WriteString(e.Content)
	body.WriteString("\n")
	for _, f := range e.Files {
		meta.Attachments = append(meta.Attachments, f.Path)
		target := filepath.ToSlash(f.Path)
		if f.Kind == domain.KindImage {
			fmt.Fprintf(&body, "\n![%s](%s)\n", f.OriginalName, target)
		} else {
			fmt.Fprintf(&body, "\n[%s](%s)\n", f.OriginalName, target)
		}
	}
	return markdown.RenderNote(meta, body.String())
}
