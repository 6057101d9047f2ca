package config

import (
	"fmt"
	"log/slog"

	"github.com/kelseyhightower/envconfig"
)

// Editor holds the tunables of an editor session.
type Editor struct {
	HistoryLimit   int     `envconfig:"HISTORY_LIMIT" default:"200"`
	PasteOffset    float64 `envconfig:"PASTE_OFFSET" default:"40"`
	HitTolerance   float64 `envconfig:"HIT_TOLERANCE" default:"4"`
	MinCursorDelta float64 `envconfig:"MIN_CURSOR_DELTA" default:"1"`
	CloseDistance  float64 `envconfig:"CLOSE_DISTANCE" default:"8"`
	StageWidth     float64 `envconfig:"STAGE_WIDTH" default:"1920"`
	StageHeight    float64 `envconfig:"STAGE_HEIGHT" default:"1080"`
	OpsPerSecond   float64 `envconfig:"OPS_PER_SECOND" default:"120"`
	OpsBurst       int     `envconfig:"OPS_BURST" default:"240"`
}

type Config struct {
	Port           int    `envconfig:"PORT" default:"8080"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	SceneDir       string `envconfig:"SCENE_DIR" default:"./data/scenes"`
	Editor
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultEditor returns the built-in tunables, matching the env defaults.
func DefaultEditor() Editor {
	return Editor{
		HistoryLimit:   200,
		PasteOffset:    40,
		HitTolerance:   4,
		MinCursorDelta: 1,
		CloseDistance:  8,
		StageWidth:     1920,
		StageHeight:    1080,
		OpsPerSecond:   120,
		OpsBurst:       240,
	}
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("parse log level: %w", err)
	}
	return level, nil
}
