package in

import (
	"context"

	"studyledger/internal/modules/diary/dto"
	diaryin "studyledger/internal/modules/diary/port/in"
)

type CLIHandler struct {
	usecase diaryin.Usecase
}

func NewCLIHandler(usecase diaryin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Add(ctx context.Context, input dto.CreateInput) (dto.EntryOutput, error) {
	return h.usecase.Create(ctx, input)
}

func (h CLIHandler) Edit(ctx context.Context, input dto.UpdateInput) (dto.EntryOutput, error) {
	return h.usecase.Update(ctx, input)
}

func (h CLIHandler) Delete(ctx context.Context, userID, id string) error {
	return h.usecase.Delete(ctx, userID, id)
}

func (h CLIHandler) Show(ctx context.Context, userID, id string) (dto.EntryOutput, error) {
	return h.usecase.Get(ctx, userID, id)
}

func (h CLIHandler) List(ctx context.Context, userID, query, mood, tag string, limit int) ([]dto.EntryOutput, error) {
	return h.usecase.List(ctx, dto.ListInput{UserID: userID, Query: query, Mood: mood, Tag: tag, Limit: limit})
}

func (h CLIHandler) Stats(ctx context.Context, userID string) (dto.StatsOutput, error) {
	return h.usecase.Stats(ctx, userID)
}

func (h CLIHandler) Export(ctx context.Context, userID, dir string) (dto.ExportOutput, error) {
	return h.usecase.Export(ctx, dto.ExportInput{UserID: userID, Dir: dir})
}
