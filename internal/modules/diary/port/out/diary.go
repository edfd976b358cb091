package out

import (
	"context"

	"studyledger/internal/modules/diary/domain"
)

// EntryStore persists entries together with their attachment rows.
type EntryStore interface {
	Insert(ctx context.Context, entry domain.Entry) error
	Update(ctx context.Context, entry domain.Entry) error
	AddFiles(ctx context.Context, files []domain.Attachment) error
	Delete(ctx context.Context, userID, id string) error
	Get(ctx context.Context, userID, id string) (domain.Entry, error)
	// List applies Query and Mood; tag matching is left to the caller.
	List(ctx context.Context, userID string, filter domain.Filter) ([]domain.Entry, error)
}

// MediaStore owns attachment bytes on disk.
type MediaStore interface {
	Save(ctx context.Context, kind domain.FileKind, srcPath string) (string, error)
	Remove(path string) error
}

// NoteWriter renders entries as markdown notes.
type NoteWriter interface {
	Write(dir string, entries []domain.Entry) (written []string, index string, err error)
}
