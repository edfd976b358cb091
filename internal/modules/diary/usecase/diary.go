package usecase

import (
	"context"
	"fmt"
	"strings"

	"studyledger/internal/modules/diary/domain"
	"studyledger/internal/modules/diary/dto"
	diaryin "studyledger/internal/modules/diary/port/in"
	"studyledger/internal/modules/diary/service"
	apperrors "studyledger/internal/platform/errors"
	"studyledger/internal/platform/logger"
	"studyledger/internal/platform/tx"
)

type Interactor struct {
	svc *service.DiaryService
	tx  tx.Manager
	log *logger.Logger
}

func NewInteractor(svc *service.DiaryService, txm tx.Manager, log *logger.Logger) diaryin.Usecase {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Interactor{svc: svc, tx: txm, log: log.With("module", "diary")}
}

// Create stores attachments first and the rows second. Files written for a
// failed insert are removed again.
func (i *Interactor) Create(ctx context.Context, input dto.CreateInput) (dto.EntryOutput, error) {
	if strings.TrimSpace(input.Content) == "" && len(input.Attachments) == 0 {
		return dto.EntryOutput{}, fmt.Errorf("%w: content or an attachment is required", apperrors.ErrInvalidInput)
	}
	entry, err := i.svc.NewEntry(input.UserID, input.Date, input.Mood, input.MoodScore, input.Tags, input.Content)
	if err != nil {
		return dto.EntryOutput{}, err
	}
	files, err := i.svc.SaveAttachments(ctx, entry.ID, attachmentPaths(input.Attachments))
	if err != nil {
		return dto.EntryOutput{}, err
	}
	entry.Files = files
	if err := i.tx.Within(ctx, func(ctx context.Context) error {
		return i.svc.Insert(ctx, entry)
	}); err != nil {
		i.svc.Discard(files)
		i.log.Error("diary_create_failed", "user_id", input.UserID, "error", err)
		return dto.EntryOutput{}, err
	}
	i.log.Info("diary_created", "user_id", entry.UserID, "entry_id", entry.ID, "mood", entry.Mood, "files", len(files))
	return toOutput(entry), nil
}

func (i *Interactor) Update(ctx context.Context, input dto.UpdateInput) (dto.EntryOutput, error) {
	current, err := i.svc.Get(ctx, input.UserID, input.ID)
	if err != nil {
		return dto.EntryOutput{}, err
	}
	next, err := i.svc.Apply(current, input.Date, input.Mood, input.MoodScore, input.Tags, input.Content)
	if err != nil {
		return dto.EntryOutput{}, err
	}
	if next.Content == "" && len(next.Files) == 0 && len(input.AddAttachments) == 0 {
		return dto.EntryOutput{}, fmt.Errorf("%w: content or an attachment is required", apperrors.ErrInvalidInput)
	}
	added, err := i.svc.SaveAttachments(ctx, next.ID, attachmentPaths(input.AddAttachments))
	if err != nil {
		return dto.EntryOutput{}, err
	}
	if err := i.tx.Within(ctx, func(ctx context.Context) error {
		return i.svc.Update(ctx, next, added)
	}); err != nil {
		i.svc.Discard(added)
		return dto.EntryOutput{}, err
	}
	next.Files = append(next.Files, added...)
	i.log.Info("diary_updated", "user_id", next.UserID, "entry_id", next.ID, "files_added", len(added))
	return toOutput(next), nil
}

// Delete removes attachment files before the rows.
func (i *Interactor) Delete(ctx context.Context, userID, id string) error {
	entry, err := i.svc.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	i.svc.Discard(entry.Files)
	if err := i.tx.Within(ctx, func(ctx context.Context) error {
		return i.svc.Delete(ctx, userID, id)
	}); err != nil {
		return err
	}
	i.log.Info("diary_deleted", "user_id", userID, "entry_id", id, "files", len(entry.Files))
	return nil
}

func (i *Interactor) Get(ctx context.Context, userID, id string) (dto.EntryOutput, error) {
	entry, err := i.svc.Get(ctx, userID, id)
	if err != nil {
		return dto.EntryOutput{}, err
	}
	return toOutput(entry), nil
}

func (i *Interactor) List(ctx context.Context, input dto.ListInput) ([]dto.EntryOutput, error) {
	entries, err := i.svc.List(ctx, input.UserID, input.Query, input.Mood, input.Tag, input.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EntryOutput, 0, len(entries))
	for _, e := range entries {
		out = append(out, toOutput(e))
	}
	return out, nil
}

func (i *Interactor) Stats(ctx context.Context, userID string) (dto.StatsOutput, error) {
	st, err := i.svc.Stats(ctx, userID)
	if err != nil {
		return dto.StatsOutput{}, err
	}
	out := dto.StatsOutput{Total: st.Total, AvgScore: st.AvgScore}
	for _, m := range domain.Moods {
		if n := st.ByMood[m]; n > 0 {
			out.ByMood = append(out.ByMood, dto.MoodCount{Mood: string(m), Count: n})
		}
	}
	for _, month := range st.Months() {
		out.ByMonth = append(out.ByMonth, dto.MonthCount{Month: month, Count: st.ByMonth[month]})
	}
	return out, nil
}

func (i *Interactor) Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	written, index, err := i.svc.Export(ctx, input.UserID, input.Dir)
	if err != nil {
		i.log.Error("diary_export_failed", "user_id", input.UserID, "dir", input.Dir, "error", err)
		return dto.ExportOutput{}, err
	}
	i.log.Info("diary_exported", "user_id", input.UserID, "dir", input.Dir, "notes", len(written))
	return dto.ExportOutput{Dir: input.Dir, Written: written, Index: index}, nil
}

func attachmentPaths(in []dto.AttachmentInput) []string {
	out := make([]string, 0, len(in))
	for _, a := range in {
		if p := strings.TrimSpace(a.Path); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func toOutput(e domain.Entry) dto.EntryOutput {
	out := dto.EntryOutput{
		ID:        e.ID,
		Date:      e.Date,
		Mood:      string(e.Mood),
		MoodScore: e.MoodScore,
		Tags:      append([]string(nil), e.Tags...),
		Content:   e.Content,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
	for _, f := range e.Files {
		out.Files = append(out.Files, dto.AttachmentOutput{ID: f.ID, Kind: string(f.Kind), Path: f.Path, OriginalName: f.OriginalName})
	}
	return out
}
