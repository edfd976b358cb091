package out

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/webp"

	"studyledger/internal/modules/diary/domain"
	diaryout "studyledger/internal/modules/diary/port/out"
	apperrors "studyledger/internal/platform/errors"
	"studyledger/internal/platform/id"
)

const jpegQuality = 90

// FileMediaStore keeps attachments under <root>/images and <root>/audio.
// Images are normalized to JPEG; audio is copied byte for byte.
type FileMediaStore struct {
	root  string
	idGen id.Generator
}

func NewFileMediaStore(root string, idGen id.Generator) diaryout.MediaStore {
	return &FileMediaStore{root: root, idGen: idGen}
}

func (s *FileMediaStore) Save(ctx context.Context, kind domain.FileKind, srcPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	src, err := os.Open(srcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: attachment %s does not exist", apperrors.ErrInvalidInput, srcPath)
		}
		return "", fmt.Errorf("open attachment: %w", err)
	}
	defer src.Close()

	switch kind {
	case domain.KindImage:
		return s.saveImage(src)
	case domain.KindAudio:
		return s.saveAudio(src, strings.ToLower(filepath.Ext(srcPath)))
	default:
		return "", fmt.Errorf("%w: unsupported attachment kind %q", apperrors.ErrInvalidInput, kind)
	}
}

func (s *FileMediaStore) saveImage(src io.Reader) (string, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return "", fmt.Errorf("%w: decode image: %v", apperrors.ErrInvalidInput, err)
	}
	dest, err := s.create("images", ".jpg")
	if err != nil {
		return "", err
	}
	if err := jpeg.Encode(dest, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		_ = dest.Close()
		_ = os.Remove(dest.Name())
		return "", fmt.Errorf("encode image: %w", err)
	}
	if err := dest.Close(); err != nil {
		_ = os.Remove(dest.Name())
		return "", fmt.Errorf("close image: %w", err)
	}
	return dest.Name(), nil
}

func (s *FileMediaStore) saveAudio(src io.Reader, ext string) (string, error) {
	dest, err := s.create("audio", ext)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dest, src); err != nil {
		_ = dest.Close()
		_ = os.Remove(dest.Name())
		return "", fmt.Errorf("copy audio: %w", err)
	}
	if err := dest.Close(); err != nil {
		_ = os.Remove(dest.Name())
		return "", fmt.Errorf("close audio: %w", err)
	}
	return dest.Name(), nil
}

func (s *FileMediaStore) create(sub, ext string) (*os.File, error) {
	dir := filepath.Join(s.root, sub)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, s.idGen.New()+ext), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create media file: %w", err)
	}
	return f, nil
}

// Remove deletes a stored file. Missing files are not an error.
func (s *FileMediaStore) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove media file: %w", err)
	}
	return nil
}
