package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const FileName = "studyledger.yaml"

type CatalogItem struct {
	Type  string `yaml:"type"`
	Name  string `yaml:"name"`
	Price int    `yaml:"price"`
}

// Ledger holds the tunable accounting rules.
type Ledger struct {
	DefaultGoalMin int `yaml:"default_goal_min"`
	MinGoalMin     int `yaml:"min_goal_min"`
	MaxGoalMin     int `yaml:"max_goal_min"`
	CoinsPerMinute int `yaml:"coins_per_minute"`
	GoalBonus      int `yaml:"goal_bonus"`
}

type Pomodoro struct {
	FocusMin int `yaml:"focus_min"`
	BreakMin int `yaml:"break_min"`
}

type Config struct {
	DataDir  string        `yaml:"-"`
	StateDir string        `yaml:"-"`
	DBPath   string        `yaml:"-"`
	MediaDir string        `yaml:"-"`
	LogPath  string        `yaml:"-"`
	LogLevel string        `yaml:"log_level"`
	Subjects []string      `yaml:"default_subjects"`
	Ledger   Ledger        `yaml:"ledger"`
	Pomodoro Pomodoro      `yaml:"pomodoro"`
	Catalog  []CatalogItem `yaml:"catalog"`
}

// Default returns the built-in rules without touching the filesystem.
func Default() Config {
	return Config{
		LogLevel: "info",
		Subjects: []string{"Korean", "Math", "English"},
		Ledger: Ledger{
			DefaultGoalMin: 120,
			MinGoalMin:     30,
			MaxGoalMin:     600,
			CoinsPerMinute: 1,
			GoalBonus:      50,
		},
		Pomodoro: Pomodoro{FocusMin: 25, BreakMin: 5},
		Catalog: []CatalogItem{
			{Type: "theme", Name: "ocean", Price: 100},
			{Type: "theme", Name: "sakura", Price: 150},
			{Type: "theme", Name: "forest", Price: 150},
			{Type: "sound", Name: "rain", Price: 80},
			{Type: "sound", Name: "cafe", Price: 80},
			{Type: "mascot", Name: "cat", Price: 200},
			{Type: "mascot", Name: "owl", Price: 250},
		},
	}
}

// New resolves paths under dataDir and overlays dataDir/studyledger.yaml
// when it exists.
func New(dataDir string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	cfg := Default()
	raw, err := os.ReadFile(filepath.Join(dataDir, FileName))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode %s: %w", FileName, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return Config{}, fmt.Errorf("read %s: %w", FileName, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	cfg.DataDir = dataDir
	cfg.StateDir = filepath.Join(dataDir, ".studyledger")
	cfg.DBPath = filepath.Join(cfg.StateDir, "studyledger.db")
	cfg.MediaDir = filepath.Join(dataDir, "media")
	cfg.LogPath = filepath.Join(cfg.StateDir, "logs", "app.log")
	return cfg, nil
}

func (c Config) validate() error {
	l := c.Ledger
	if l.MinGoalMin <= 0 || l.MaxGoalMin < l.MinGoalMin {
		return fmt.Errorf("ledger goal bounds must satisfy 0 < min <= max")
	}
	if l.DefaultGoalMin < l.MinGoalMin || l.DefaultGoalMin > l.MaxGoalMin {
		return fmt.Errorf("ledger default goal must be within bounds")
	}
	if l.CoinsPerMinute < 0 || l.GoalBonus < 0 {
		return fmt.Errorf("ledger rewards must be non-negative")
	}
	if c.Pomodoro.FocusMin <= 0 || c.Pomodoro.BreakMin <= 0 {
		return fmt.Errorf("pomodoro phases must be positive")
	}
	for _, item := range c.Catalog {
		if item.Name == "" || item.Price <= 0 {
			return fmt.Errorf("catalog item %q needs a name and a positive price", item.Name)
		}
	}
	return nil
}
