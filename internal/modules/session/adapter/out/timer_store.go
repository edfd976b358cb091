package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"studyledger/internal/modules/session/domain"
	sessionout "studyledger/internal/modules/session/port/out"
	apperrors "studyledger/internal/platform/errors"
)

type FileTimerStore struct {
	path string
}

func NewFileTimerStore(stateDir string) sessionout.TimerStore {
	return &FileTimerStore{path: filepath.Join(stateDir, "timer.json")}
}

func (s *FileTimerStore) Save(_ context.Context, state domain.TimerState) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create timer dir: %w", err)
	}
	payload, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal timer: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write timer: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace timer: %w", err)
	}
	return nil
}

func (s *FileTimerStore) Load(_ context.Context) (domain.TimerState, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.TimerState{}, apperrors.ErrNoActiveTimer
		}
		return domain.TimerState{}, fmt.Errorf("read timer: %w", err)
	}
	state := domain.TimerState{}
	if err := json.Unmarshal(payload, &state); err != nil {
		return domain.TimerState{}, fmt.Errorf("decode timer: %w", err)
	}
	if state.Mode == "" {
		return domain.TimerState{}, apperrors.ErrNoActiveTimer
	}
	return state, nil
}

func (s *FileTimerStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("clear timer: %w", err)
	}
	return nil
}
