package chessbuilder

import (
	"context"
	"fmt"
	"strings"
	"time"

	corechess "github.com/park285/cheese-engine/internal/chess"
	"github.com/park285/cheese-engine/internal/chess/openingbook"
	"github.com/park285/cheese-engine/internal/config"
	"github.com/park285/cheese-engine/internal/game"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Deps struct {
	Engine  *corechess.Engine
	Book    *openingbook.Book
	Manager *game.Manager
	Store   game.Store

	closers []func() error
}

// Close releases the Redis client and database pool, if any.
func (d *Deps) Close() error {
	if d == nil {
		return nil
	}
	var first error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	d.closers = nil
	return first
}

func New(cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	preset, err := corechess.GetPreset(cfg.Preset)
	if err != nil {
		return nil, err
	}
	if cfg.MaxDepth > 0 {
		preset = preset.WithDepthCap(cfg.MaxDepth)
	}

	book, err := loadBook(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init book: %w", err)
	}

	engine, err := corechess.NewEngine(preset, corechess.WithBook(book), corechess.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("init engine: %w", err)
	}

	deps := &Deps{Engine: engine, Book: book}

	// Store: Redis when configured, otherwise process memory.
	if strings.TrimSpace(cfg.RedisURL) != "" {
		opts, perr := game.ParseRedisURL(cfg.RedisURL)
		if perr != nil {
			return nil, perr
		}
		rdb := redis.NewClient(opts)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		deps.closers = append(deps.closers, rdb.Close)
		deps.Store = game.NewRedisStore(rdb, cfg.GameTTL)
	} else {
		deps.Store = game.NewMemoryStore()
	}

	managerOpts := []game.Option{
		game.WithStore(deps.Store),
		game.WithBook(book),
		game.WithLogger(logger),
	}
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		archive, aerr := game.NewPostgresArchive(cfg.DatabaseURL)
		if aerr != nil {
			_ = deps.Close()
			return nil, fmt.Errorf("init archive: %w", aerr)
		}
		deps.closers = append(deps.closers, archive.Close)
		managerOpts = append(managerOpts, game.WithArchive(archive))
	}

	deps.Manager, err = game.NewManager(engine, managerOpts...)
	if err != nil {
		_ = deps.Close()
		return nil, err
	}

	logger.Info("engine_ready",
		zap.String("preset", preset.Name),
		zap.Int("depth_cap", preset.DepthCap),
		zap.Int("book_positions", book.Len()),
		zap.Bool("redis", strings.TrimSpace(cfg.RedisURL) != ""),
		zap.Bool("archive", strings.TrimSpace(cfg.DatabaseURL) != ""),
	)
	return deps, nil
}

// loadBook merges the YAML book and the polyglot import into one book. It
// returns nil when neither source is present.
func loadBook(cfg *config.AppConfig, logger *zap.Logger) (*openingbook.Book, error) {
	bookPath := cfg.BookPath
	if bookPath == "" {
		resolved, err := openingbook.ResolveBookPath()
		if err != nil {
			return nil, err
		}
		bookPath = resolved
	}

	var entries []openingbook.Entry
	sources := []string{bookPath, cfg.PolyglotPath}
	for _, path := range sources {
		if path == "" {
			continue
		}
		loaded, err := openingbook.ReadEntries(path, openingbook.ImportOptions{
			MaxPly:    cfg.PolyglotMaxPly,
			MinWeight: uint16(cfg.PolyglotMinWeight),
		})
		if err != nil {
			return nil, err
		}
		logger.Info("book_loaded", zap.String("path", path), zap.Int("entries", len(loaded)))
		entries = append(entries, loaded...)
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return openingbook.New(entries)
}
