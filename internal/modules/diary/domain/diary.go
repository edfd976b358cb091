package domain

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	apperrors "studyledger/internal/platform/errors"
)

type Mood string

const (
	MoodHappy     Mood = "happy"
	MoodCalm      Mood = "calm"
	MoodNeutral   Mood = "neutral"
	MoodSad       Mood = "sad"
	MoodAnxious   Mood = "anxious"
	MoodMotivated Mood = "motivated"
)

var Moods = []Mood{MoodHappy, MoodCalm, MoodNeutral, MoodSad, MoodAnxious, MoodMotivated}

func ParseMood(value string) (Mood, error) {
	m := Mood(strings.ToLower(strings.TrimSpace(value)))
	if m == "" {
		return MoodNeutral, nil
	}
	for _, known := range Moods {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: unknown mood %q", apperrors.ErrInvalidInput, value)
}

type FileKind string

const (
	KindImage FileKind = "image"
	KindAudio FileKind = "audio"
)

var (
	imageExts = map[string]struct{}{".png": {}, ".jpg": {}, ".jpeg": {}, ".webp": {}}
	audioExts = map[string]struct{}{".mp3": {}, ".wav": {}, ".m4a": {}, ".ogg": {}, ".flac": {}}
)

// KindOf classifies an attachment by its extension.
func KindOf(name string) (FileKind, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := imageExts[ext]; ok {
		return KindImage, nil
	}
	if _, ok := audioExts[ext]; ok {
		return KindAudio, nil
	}
	return "", fmt.Errorf("%w: unsupported attachment %q", apperrors.ErrInvalidInput, filepath.Base(name))
}

type Attachment struct {
	ID           string
	EntryID      string
	Kind         FileKind
	Path         string
	OriginalName string
	CreatedAt    time.Time
}

type Entry struct {
	ID        string
	UserID    string
	Date      time.Time
	Mood      Mood
	MoodScore int
	Tags      []string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
	Files     []Attachment
}

func (e Entry) Validate() error {
	if strings.TrimSpace(e.UserID) == "" {
		return fmt.Errorf("%w: user id is required", apperrors.ErrInvalidInput)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("%w: date is required", apperrors.ErrInvalidInput)
	}
	if e.MoodScore < 1 || e.MoodScore > 5 {
		return fmt.Errorf("%w: mood score must be between 1 and 5", apperrors.ErrInvalidInput)
	}
	if _, err := ParseMood(string(e.Mood)); err != nil {
		return err
	}
	return nil
}

// Title is the first non-empty content line, used for export file names.
func (e Entry) Title() string {
	for _, line := range strings.Split(e.Content, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "# "))
		if line != "" {
			return line
		}
	}
	return string(e.Mood)
}

// MatchesTag reports whether any tag contains tag, ignoring case, so "exa"
// finds entries tagged "exam".
func (e Entry) MatchesTag(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, t := range e.Tags {
		if strings.Contains(strings.ToLower(t), tag) {
			return true
		}
	}
	return false
}

// ParseTags splits a comma separated list, dropping blanks and duplicates.
func ParseTags(raw string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}

type Filter struct {
	Query string
	Mood  Mood
	Tag   string
}

type Stats struct {
	Total    int
	ByMood   map[Mood]int
	ByMonth  map[string]int
	AvgScore float64
}

func ComputeStats(entries []Entry) Stats {
	st := Stats{ByMood: map[Mood]int{}, ByMonth: map[string]int{}}
	sum := 0
	for _, e := range entries {
		st.Total++
		st.ByMood[e.Mood]++
		st.ByMonth[e.Date.Format("2006-01")]++
		sum += e.MoodScore
	}
	if st.Total > 0 {
		st.AvgScore = float64(sum) / float64(st.Total)
	}
	return st
}

// Months returns the month keys of ByMonth, newest first.
func (s Stats) Months() []string {
	out := make([]string, 0, len(s.ByMonth))
	for k := range s.ByMonth {
		out = append(out, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out
}
