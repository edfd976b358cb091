package in

import (
	"context"

	"studyledger/internal/modules/diary/dto"
)

type Usecase interface {
	Create(ctx context.Context, input dto.CreateInput) (dto.EntryOutput, error)
	Update(ctx context.Context, input dto.UpdateInput) (dto.EntryOutput, error)
	Delete(ctx context.Context, userID, id string) error
	Get(ctx context.Context, userID, id string) (dto.EntryOutput, error)
	List(ctx context.Context, input dto.ListInput) ([]dto.EntryOutput, error)
	Stats(ctx context.Context, userID string) (dto.StatsOutput, error)
	Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
}
