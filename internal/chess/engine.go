package chess

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/park285/cheese-engine/internal/chess/openingbook"
	"github.com/park285/cheese-engine/internal/chess/position"
	"github.com/park285/cheese-engine/internal/chess/timecontrol"
	"go.uber.org/zap"
)

// Result describes the move chosen by one search.
type Result struct {
	Move     position.Move
	Score    int
	Depth    int
	Nodes    uint64
	PV       []position.Move
	Elapsed  time.Duration
	FromBook bool
	// Varied is set when a weaker preset chose a move other than the best.
	Varied bool
}

// Engine picks moves. Searches may run concurrently: each one takes its own
// searcher (move buffers and hash table) from a pool.
type Engine struct {
	preset DifficultyPreset
	book   *openingbook.Book
	logger *zap.Logger

	searchers sync.Pool

	randMu sync.Mutex
	rand   *rand.Rand
}

type Option func(*Engine)

func WithBook(b *openingbook.Book) Option {
	return func(e *Engine) { e.book = b }
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func NewEngine(preset DifficultyPreset, opts ...Option) (*Engine, error) {
	if err := ValidatePreset(preset); err != nil {
		return nil, err
	}
	e := &Engine{
		preset: preset,
		logger: zap.NewNop(),
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}
	hashMB := preset.HashMB
	e.searchers.New = func() any { return newSearcher(hashMB) }
	return e, nil
}

func (e *Engine) Preset() DifficultyPreset { return e.preset }

func (e *Engine) HasBook() bool { return e.book.Len() > 0 }

func (e *Engine) random() *rand.Rand {
	e.randMu.Lock()
	seed := e.rand.Int63()
	e.randMu.Unlock()
	return rand.New(rand.NewSource(seed))
}

func (e *Engine) SetRandomSeed(seed int64) {
	e.randMu.Lock()
	e.rand = rand.New(rand.NewSource(seed))
	e.randMu.Unlock()
}

// Search returns the move to play in pos with the given clock. It reports
// false only when pos has no legal move; the caller classifies that as mate
// or stalemate.
func (e *Engine) Search(ctx context.Context, pos position.Position, control timecontrol.Control, data timecontrol.TimeData) (Result, bool) {
	start := time.Now()

	s := e.searchers.Get().(*searcher)
	defer func() {
		s.release()
		e.searchers.Put(s)
	}()

	n := s.gen.Generate(pos, 0)
	if n == 0 {
		e.logger.Debug("search_no_moves", zap.String("fen", pos.FEN()), zap.Bool("in_check", pos.InCheck()))
		return Result{}, false
	}
	legal := s.gen.Moves(0)

	if m, ok := e.bookMove(pos, legal); ok {
		res := Result{Move: m, FromBook: true, Elapsed: time.Since(start)}
		e.logger.Info("book_move",
			zap.String("fen", pos.FEN()),
			zap.String("move", m.String()),
		)
		return res, true
	}

	if n == 1 {
		return Result{Move: legal[0], Elapsed: time.Since(start)}, true
	}

	limits, err := BuildLimits(ctx, e.preset, control, data, start)
	if err != nil {
		// The preset was validated in NewEngine; fall back to a single ply.
		e.logger.Warn("search_limits_invalid", zap.Error(err))
		limits = Limits{Depth: 1, Deadline: start}
	}

	root := make([]rootMove, n)
	for i, m := range legal {
		root[i] = rootMove{move: m}
	}

	s.begin(ctx, limits, e.preset.QuiescenceDepth)
	var pv []position.Move
	depth := s.iterate(pos, root, e.preset.PrimaryChoices > 1, func(depth int) {
		pv = s.principalVariation()
		e.logger.Debug("search_depth",
			zap.Int("depth", depth),
			zap.Int("score", root[0].score),
			zap.String("best", root[0].move.String()),
			zap.Uint64("nodes", s.nodes),
			zap.Duration("elapsed", time.Since(start)),
		)
	})

	candidates := make([]Candidate, len(root))
	for i, rm := range root {
		candidates[i] = Candidate{Move: rm.move, Score: rm.score}
	}
	chosen, varied, err := SelectCandidate(e.preset, candidates, e.random())
	if err != nil {
		chosen, varied = candidates[0], false
	}
	if varied {
		pv = []position.Move{chosen.Move}
	}

	res := Result{
		Move:    chosen.Move,
		Score:   chosen.Score,
		Depth:   depth,
		Nodes:   s.nodes,
		PV:      pv,
		Elapsed: time.Since(start),
		Varied:  varied,
	}
	e.logger.Info("search_done",
		zap.String("preset", e.preset.Name),
		zap.String("limits", limits.String()),
		zap.String("move", res.Move.String()),
		zap.Int("score", res.Score),
		zap.Int("depth", res.Depth),
		zap.Uint64("nodes", res.Nodes),
		zap.Bool("varied", res.Varied),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res, true
}

// bookMove consults the opening book. A book move that is not legal in pos
// is logged and ignored.
func (e *Engine) bookMove(pos position.Position, legal []position.Move) (position.Move, bool) {
	if e.book == nil || !e.preset.UseBook || gamePly(pos) >= e.preset.BookMaxPly {
		return position.NoMove, false
	}
	m, ok := e.book.BestMove(pos)
	if !ok {
		return position.NoMove, false
	}
	for _, l := range legal {
		if l == m {
			return m, true
		}
	}
	e.logger.Warn("book_move_illegal", zap.String("fen", pos.FEN()), zap.String("move", m.String()))
	return position.NoMove, false
}

// gamePly is the number of half-moves played before pos.
func gamePly(pos position.Position) int {
	ply := (pos.FullMoveNumber() - 1) * 2
	if pos.Turn() == position.Black {
		ply++
	}
	return ply
}
