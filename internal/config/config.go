// Package config loads the study editor configuration.
//
// Priority is env > file > defaults. Files are YAML, with JSON accepted as a
// fallback.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/luisrivasnoriega/pawn-appetit-sub001/internal/domain"
)

type Config struct {
	Storage  StorageConfig  `yaml:"storage" json:"storage"`
	Log      LogConfig      `yaml:"log" json:"log"`
	Analysis AnalysisConfig `yaml:"analysis" json:"analysis"`
	UI       UIConfig       `yaml:"ui" json:"ui"`
}

type StorageConfig struct {
	// Path is the Badger directory. Ignored when InMemory is set.
	Path       string `yaml:"path" json:"path" validate:"required_if=InMemory false"`
	InMemory   bool   `yaml:"in_memory" json:"in_memory"`
	SyncWrites bool   `yaml:"sync_writes" json:"sync_writes"`
	// GCInterval of zero disables value log GC.
	GCInterval time.Duration `yaml:"gc_interval" json:"gc_interval" validate:"gte=0"`
	// FlushInterval is how often open tabs are snapshotted.
	FlushInterval time.Duration `yaml:"flush_interval" json:"flush_interval" validate:"gt=0"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" json:"format" validate:"oneof=text json"`
	// File receives the log; the terminal belongs to the UI. Empty discards logs.
	File string `yaml:"file" json:"file"`
}

// AnalysisConfig holds the annotation thresholds, in win-chance percentage points.
type AnalysisConfig struct {
	BlunderDrop      float64 `yaml:"blunder_drop" json:"blunder_drop" validate:"gt=0,lte=100"`
	MistakeDrop      float64 `yaml:"mistake_drop" json:"mistake_drop" validate:"gt=0,ltefield=BlunderDrop"`
	DubiousDrop      float64 `yaml:"dubious_drop" json:"dubious_drop" validate:"gt=0,ltefield=MistakeDrop"`
	OnlyMoveGap      float64 `yaml:"only_move_gap" json:"only_move_gap" validate:"gt=0,lte=100"`
	BrilliantCeiling float64 `yaml:"brilliant_ceiling" json:"brilliant_ceiling" validate:"gt=0,lte=100"`
	SuggestionPlies  int     `yaml:"suggestion_plies" json:"suggestion_plies" validate:"gte=1,lte=40"`
}

type UIConfig struct {
	Sounds      bool   `yaml:"sounds" json:"sounds"`
	Orientation string `yaml:"orientation" json:"orientation" validate:"oneof=white black"`
	// ShowHints lists legal destinations under the board.
	ShowHints bool `yaml:"show_hints" json:"show_hints"`
}

func DefaultConfig() Config {
	p := domain.DefaultPolicy()
	return Config{
		Storage: StorageConfig{
			Path:          filepath.Join(defaultDataDir(), "tabs"),
			SyncWrites:    true,
			GCInterval:    5 * time.Minute,
			FlushInterval: 2 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Analysis: AnalysisConfig{
			BlunderDrop:      p.BlunderDrop,
			MistakeDrop:      p.MistakeDrop,
			DubiousDrop:      p.DubiousDrop,
			OnlyMoveGap:      p.OnlyMoveGap,
			BrilliantCeiling: p.BrilliantCeiling,
			SuggestionPlies:  5,
		},
		UI: UIConfig{
			Sounds:      true,
			Orientation: "white",
			ShowHints:   true,
		},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".study"
	}
	return filepath.Join(home, ".study")
}

// Load merges defaults, the file at path (optional, may be empty or missing)
// and STUDY_* environment variables, then validates the result.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	loadEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	// Try YAML first, then JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): YAML error: %v, JSON error: %w", err, jsonErr)
		}
	}
	return nil
}

func loadEnv(cfg *Config) {
	if v := os.Getenv("STUDY_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("STUDY_STORAGE_IN_MEMORY"); v != "" {
		cfg.Storage.InMemory = truthy(v)
	}
	if v := os.Getenv("STUDY_LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("STUDY_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("STUDY_SUGGESTION_PLIES"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.SuggestionPlies = i
		}
	}
	if v := os.Getenv("STUDY_SOUNDS"); v != "" {
		cfg.UI.Sounds = truthy(v)
	}
}

func truthy(v string) bool {
	return v == "true" || v == "1"
}

var validate = validator.New()

func (c Config) Validate() error {
	return validate.Struct(c)
}

// Policy returns the annotation policy described by the analysis section.
func (a AnalysisConfig) Policy() domain.Policy {
	return domain.Policy{
		BlunderDrop:      a.BlunderDrop,
		MistakeDrop:      a.MistakeDrop,
		DubiousDrop:      a.DubiousDrop,
		OnlyMoveGap:      a.OnlyMoveGap,
		BrilliantCeiling: a.BrilliantCeiling,
	}
}

func (l LogConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (u UIConfig) BoardOrientation() domain.Color {
	if u.Orientation == "black" {
		return domain.Black
	}
	return domain.White
}
