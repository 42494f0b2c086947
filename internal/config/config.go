package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/park285/cheese-engine/internal/chess"
	"github.com/park285/cheese-engine/internal/chess/timecontrol"
)

type AppConfig struct {
	Preset      string
	TimeControl timecontrol.Control
	// MaxDepth overrides the preset's depth cap when > 0.
	MaxDepth int

	BookPath          string
	PolyglotPath      string
	PolyglotMaxPly    int
	PolyglotMinWeight int

	RedisURL    string
	DatabaseURL string
	GameTTL     time.Duration

	SelfPlayMoves int
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		Preset:            "level5",
		PolyglotMaxPly:    12,
		PolyglotMinWeight: 1,
		GameTTL:           24 * time.Hour,
	}

	if v := strings.TrimSpace(os.Getenv("CHEESE_PRESET")); v != "" {
		cfg.Preset = v
	}
	if _, err := chess.GetPreset(cfg.Preset); err != nil {
		return nil, err
	}

	tc := strings.TrimSpace(os.Getenv("TIME_CONTROL"))
	if tc == "" {
		tc = "permove:2s"
	}
	control, err := timecontrol.Parse(tc)
	if err != nil {
		return nil, fmt.Errorf("TIME_CONTROL: %w", err)
	}
	cfg.TimeControl = control

	cfg.BookPath = strings.TrimSpace(os.Getenv("CHEESE_BOOK_PATH"))
	cfg.PolyglotPath = strings.TrimSpace(os.Getenv("CHEESE_POLYGLOT_PATH"))
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	if cfg.PolyglotMaxPly, err = intEnv("CHEESE_POLYGLOT_MAX_PLY", cfg.PolyglotMaxPly); err != nil {
		return nil, err
	}
	if cfg.PolyglotMinWeight, err = intEnv("CHEESE_POLYGLOT_MIN_WEIGHT", cfg.PolyglotMinWeight); err != nil {
		return nil, err
	}
	if cfg.MaxDepth, err = intEnv("CHEESE_MAX_DEPTH", 0); err != nil {
		return nil, err
	}
	if cfg.SelfPlayMoves, err = intEnv("CHEESE_SELFPLAY_MOVES", 0); err != nil {
		return nil, err
	}
	ttlSec, err := intEnv("CHEESE_GAME_TTL", int(cfg.GameTTL/time.Second))
	if err != nil {
		return nil, err
	}
	cfg.GameTTL = time.Duration(ttlSec) * time.Second

	switch {
	case cfg.PolyglotMaxPly <= 0:
		return nil, fmt.Errorf("CHEESE_POLYGLOT_MAX_PLY must be > 0: %d", cfg.PolyglotMaxPly)
	case cfg.PolyglotMinWeight < 0 || cfg.PolyglotMinWeight > 0xFFFF:
		return nil, fmt.Errorf("CHEESE_POLYGLOT_MIN_WEIGHT out of range: %d", cfg.PolyglotMinWeight)
	case cfg.MaxDepth < 0:
		return nil, fmt.Errorf("CHEESE_MAX_DEPTH must be >= 0: %d", cfg.MaxDepth)
	case cfg.SelfPlayMoves < 0:
		return nil, fmt.Errorf("CHEESE_SELFPLAY_MOVES must be >= 0: %d", cfg.SelfPlayMoves)
	case cfg.GameTTL <= 0:
		return nil, fmt.Errorf("CHEESE_GAME_TTL must be > 0: %d", ttlSec)
	}
	return cfg, nil
}

func intEnv(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
