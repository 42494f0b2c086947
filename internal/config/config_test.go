package config

import (
	"testing"
	"time"

	"github.com/park285/cheese-engine/internal/chess/timecontrol"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CHEESE_PRESET", "TIME_CONTROL", "CHEESE_BOOK_PATH", "CHEESE_POLYGLOT_PATH",
		"CHEESE_POLYGLOT_MAX_PLY", "CHEESE_POLYGLOT_MIN_WEIGHT", "REDIS_URL", "DATABASE_URL",
		"CHEESE_GAME_TTL", "CHEESE_MAX_DEPTH", "CHEESE_SELFPLAY_MOVES",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Preset != "level5" || cfg.PolyglotMaxPly != 12 || cfg.PolyglotMinWeight != 1 {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.TimeControl != timecontrol.NewSecondsPerMove(2*time.Second) {
		t.Fatalf("time control = %+v", cfg.TimeControl)
	}
	if cfg.GameTTL != 24*time.Hour || cfg.MaxDepth != 0 || cfg.SelfPlayMoves != 0 {
		t.Fatalf("defaults = %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("CHEESE_PRESET", "master")
	t.Setenv("TIME_CONTROL", "incremental:3m+2s")
	t.Setenv("CHEESE_BOOK_PATH", " book.yaml ")
	t.Setenv("CHEESE_POLYGLOT_MAX_PLY", "8")
	t.Setenv("CHEESE_GAME_TTL", "60")
	t.Setenv("CHEESE_MAX_DEPTH", "6")
	t.Setenv("CHEESE_SELFPLAY_MOVES", "20")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Preset != "master" || cfg.BookPath != "book.yaml" || cfg.RedisURL != "redis://localhost:6379/1" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.TimeControl != timecontrol.NewIncremental(3*time.Minute, 2*time.Second) {
		t.Fatalf("time control = %+v", cfg.TimeControl)
	}
	if cfg.PolyglotMaxPly != 8 || cfg.GameTTL != time.Minute || cfg.MaxDepth != 6 || cfg.SelfPlayMoves != 20 {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]string{
		"CHEESE_PRESET":              "level99",
		"TIME_CONTROL":               "sudden",
		"CHEESE_POLYGLOT_MAX_PLY":    "0",
		"CHEESE_POLYGLOT_MIN_WEIGHT": "70000",
		"CHEESE_MAX_DEPTH":           "-1",
		"CHEESE_SELFPLAY_MOVES":      "many",
		"CHEESE_GAME_TTL":            "0",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("%s=%q: expected error", key, value)
			}
		})
	}
}
