package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"studyledger/internal/modules/diary/domain"
	diaryout "studyledger/internal/modules/diary/port/out"
	"studyledger/internal/platform/clock"
	apperrors "studyledger/internal/platform/errors"
	"studyledger/internal/platform/id"
)

const defaultListLimit = 100

type DiaryService struct {
	clock   clock.Clock
	idGen   id.Generator
	entries diaryout.EntryStore
	media   diaryout.MediaStore
	notes   diaryout.NoteWriter
}

func NewDiaryService(clock clock.Clock, idGen id.Generator, entries diaryout.EntryStore, media diaryout.MediaStore, notes diaryout.NoteWriter) *DiaryService {
	return &DiaryService{clock: clock, idGen: idGen, entries: entries, media: media, notes: notes}
}

// NewEntry builds a validated entry. A zero date means today.
func (s *DiaryService) NewEntry(userID string, date time.Time, mood string, score int, tags, content string) (domain.Entry, error) {
	m, err := domain.ParseMood(mood)
	if err != nil {
		return domain.Entry{}, err
	}
	now := s.clock.Now()
	if date.IsZero() {
		date = now
	}
	if score == 0 {
		score = 3
	}
	entry := domain.Entry{
		ID:        s.idGen.New(),
		UserID:    strings.TrimSpace(userID),
		Date:      clock.DateOf(date),
		Mood:      m,
		MoodScore: score,
		Tags:      domain.ParseTags(tags),
		Content:   strings.TrimSpace(content),
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	if err := entry.Validate(); err != nil {
		return domain.Entry{}, err
	}
	return entry, nil
}

// SaveAttachments stores every source file for entryID. On failure the files
// already written are removed again.
func (s *DiaryService) SaveAttachments(ctx context.Context, entryID string, paths []string) ([]domain.Attachment, error) {
	out := make([]domain.Attachment, 0, len(paths))
	for _, p := range paths {
		kind, err := domain.KindOf(p)
		if err != nil {
			s.Discard(out)
			return nil, err
		}
		stored, err := s.media.Save(ctx, kind, p)
		if err != nil {
			s.Discard(out)
			return nil, err
		}
		out = append(out, domain.Attachment{
			ID:           s.idGen.New(),
			EntryID:      entryID,
			Kind:         kind,
			Path:         stored,
			OriginalName: filepath.Base(p),
			CreatedAt:    s.clock.Now().UTC(),
		})
	}
	return out, nil
}

// Discard removes stored attachment files, ignoring ones already gone.
func (s *DiaryService) Discard(files []domain.Attachment) {
	for _, f := range files {
		_ = s.media.Remove(f.Path)
	}
}

func (s *DiaryService) Insert(ctx context.Context, entry domain.Entry) error {
	if err := s.entries.Insert(ctx, entry); err != nil {
		return err
	}
	if len(entry.Files) == 0 {
		return nil
	}
	return s.entries.AddFiles(ctx, entry.Files)
}

// Apply merges the non-nil fields of a patch into entry.
func (s *DiaryService) Apply(entry domain.Entry, date *time.Time, mood *string, score *int, tags, content *string) (domain.Entry, error) {
	if date != nil && !date.IsZero() {
		entry.Date = clock.DateOf(*date)
	}
	if mood != nil {
		m, err := domain.ParseMood(*mood)
		if err != nil {
			return domain.Entry{}, err
		}
		entry.Mood = m
	}
	if score != nil {
		entry.MoodScore = *score
	}
	if tags != nil {
		entry.Tags = domain.ParseTags(*tags)
	}
	if content != nil {
		entry.Content = strings.TrimSpace(*content)
	}
	entry.UpdatedAt = s.clock.Now().UTC()
	if err := entry.Validate(); err != nil {
		return domain.Entry{}, err
	}
	return entry, nil
}

func (s *DiaryService) Update(ctx context.Context, entry domain.Entry, added []domain.Attachment) error {
	if err := s.entries.Update(ctx, entry); err != nil {
		return err
	}
	if len(added) == 0 {
		return nil
	}
	return s.entries.AddFiles(ctx, added)
}

func (s *DiaryService) Get(ctx context.Context, userID, id string) (domain.Entry, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Entry{}, fmt.Errorf("%w: entry id is required", apperrors.ErrInvalidInput)
	}
	return s.entries.Get(ctx, userID, id)
}

func (s *DiaryService) Delete(ctx context.Context, userID, id string) error {
	return s.entries.Delete(ctx, userID, id)
}

// List returns entries newest first, filtered by query, mood and tag.
func (s *DiaryService) List(ctx context.Context, userID, query, mood, tag string, limit int) ([]domain.Entry, error) {
	filter := domain.Filter{Query: strings.TrimSpace(query), Tag: strings.TrimSpace(tag)}
	if strings.TrimSpace(mood) != "" {
		m, err := domain.ParseMood(mood)
		if err != nil {
			return nil, err
		}
		filter.Mood = m
	}
	entries, err := s.entries.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	out := make([]domain.Entry, 0, len(entries))
	for _, e := range entries {
		if filter.Tag != "" && !e.MatchesTag(filter.Tag) {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *DiaryService) Stats(ctx context.Context, userID string) (domain.Stats, error) {
	entries, err := s.entries.List(ctx, userID, domain.Filter{})
	if err != nil {
		return domain.Stats{}, err
	}
	return domain.ComputeStats(entries), nil
}

func (s *DiaryService) Export(ctx context.Context, userID, dir string) ([]string, string, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, "", fmt.Errorf("%w: export directory is required", apperrors.ErrInvalidInput)
	}
	entries, err := s.entries.List(ctx, userID, domain.Filter{})
	if err != nil {
		return nil, "", err
	}
	return s.notes.Write(dir, entries)
}
