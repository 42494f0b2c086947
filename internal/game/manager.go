package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/park285/cheese-engine/internal/chess"
	"github.com/park285/cheese-engine/internal/chess/movegen"
	"github.com/park285/cheese-engine/internal/chess/openingbook"
	"github.com/park285/cheese-engine/internal/chess/position"
	"github.com/park285/cheese-engine/internal/chess/timecontrol"
	"github.com/park285/cheese-engine/internal/obslog"
	"go.uber.org/zap"
)

// Manager runs games between the engine and an opponent. Moves within one
// game are serialised; different games proceed in parallel.
type Manager struct {
	engine  *chess.Engine
	store   Store
	archive Archive
	book    *openingbook.Book
	logger  *zap.Logger
	now     func() time.Time

	locksMu sync.Mutex
	locks   map[string]*gameLock
}

// gameLock is dropped from the map once nobody holds or waits on it.
type gameLock struct {
	mu   sync.Mutex
	refs int
}

type Option func(*Manager)

func WithStore(s Store) Option {
	return func(m *Manager) {
		if s != nil {
			m.store = s
		}
	}
}

// WithArchive records every finished game in a.
func WithArchive(a Archive) Option {
	return func(m *Manager) { m.archive = a }
}

// WithBook names openings in snapshots.
func WithBook(b *openingbook.Book) Option {
	return func(m *Manager) { m.book = b }
}

func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock replaces the wall clock used to charge the engine's think time.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

func NewManager(engine *chess.Engine, opts ...Option) (*Manager, error) {
	if engine == nil {
		return nil, fmt.Errorf("game manager requires an engine")
	}
	m := &Manager{
		engine: engine,
		store:  NewMemoryStore(),
		logger: obslog.L(),
		now:    time.Now,
		locks:  make(map[string]*gameLock),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// lock은 게임 단위 직렬화. 반환된 함수로 해제.
func (m *Manager) lock(id string) func() {
	m.locksMu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &gameLock{}
		m.locks[id] = l
	}
	l.refs++
	m.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		m.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, id)
		}
		m.locksMu.Unlock()
	}
}

// NewGame starts a game and stores its first snapshot.
func (m *Manager) NewGame(ctx context.Context, opts NewGameOptions) (Snapshot, error) {
	if err := opts.TimeControl.Validate(); err != nil {
		return Snapshot{}, err
	}
	fen := opts.FEN
	if fen == "" || fen == "startpos" {
		fen = startFEN
	}
	pos, err := position.ParseFEN(fen)
	if err != nil {
		return Snapshot{}, err
	}

	now := m.now()
	status, winner := Classify(pos)
	snap := Snapshot{
		ID:          uuid.NewString(),
		StartFEN:    pos.FEN(),
		FEN:         pos.FEN(),
		TimeControl: opts.TimeControl.String(),
		EngineSide:  sideName(opts.EngineSide),
		Preset:      m.engine.Preset().Name,
		Clock:       clockFrom(timecontrol.NewTimeData(opts.TimeControl)),
		MovesUCI:    []string{},
		MovesSAN:    []string{},
		Status:      status,
		Winner:      winner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if name, ok := m.book.Opening(pos); ok {
		snap.Opening = name
	}
	if err := m.store.Save(ctx, snap); err != nil {
		return Snapshot{}, fmt.Errorf("save game: %w", err)
	}
	m.logger.Info("game_create",
		zap.String("game_id", snap.ID),
		zap.String("fen", snap.FEN),
		zap.String("time_control", snap.TimeControl),
		zap.String("engine_side", snap.EngineSide),
		zap.String("preset", snap.Preset),
	)
	return snap, nil
}

// Get returns the latest snapshot of a game.
func (m *Manager) Get(ctx context.Context, id string) (Snapshot, error) {
	snap, err := m.store.Load(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	if snap == nil {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return *snap, nil
}

// Delete forgets a game.
func (m *Manager) Delete(ctx context.Context, id string) error {
	unlock := m.lock(id)
	defer unlock()
	return m.store.Delete(ctx, id)
}

func (m *Manager) load(ctx context.Context, id string) (Snapshot, position.Position, error) {
	snap, err := m.Get(ctx, id)
	if err != nil {
		return Snapshot{}, position.Position{}, err
	}
	if snap.Status.Finished() {
		return Snapshot{}, position.Position{}, fmt.Errorf("%w: %s", ErrGameOver, snap.Status)
	}
	pos, err := position.ParseFEN(snap.FEN)
	if err != nil {
		return Snapshot{}, position.Position{}, fmt.Errorf("stored game %s: %w", id, err)
	}
	return snap, pos, nil
}

// PlayMove applies the opponent's move given in UCI notation.
func (m *Manager) PlayMove(ctx context.Context, id, uci string) (Snapshot, error) {
	defer m.lock(id)()

	snap, pos, err := m.load(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	engineSide, err := parseSide(snap.EngineSide)
	if err != nil {
		return Snapshot{}, err
	}
	if pos.Turn() == engineSide {
		return Snapshot{}, ErrEngineToMove
	}
	mv, err := movegen.FindMove(pos, uci)
	if err != nil {
		return Snapshot{}, err
	}

	next := m.record(snap, pos, mv)
	if err := m.commit(ctx, next); err != nil {
		return Snapshot{}, err
	}
	m.logger.Info("game_move",
		zap.String("game_id", id),
		zap.String("side", "opponent"),
		zap.String("move", mv.String()),
		zap.String("status", string(next.Status)),
	)
	return next, nil
}

// Think lets the engine move and charges the measured think time against
// its clock. Running over the remaining time forfeits the game.
func (m *Manager) Think(ctx context.Context, id string) (Snapshot, chess.Result, error) {
	defer m.lock(id)()

	snap, pos, err := m.load(ctx, id)
	if err != nil {
		return Snapshot{}, chess.Result{}, err
	}
	engineSide, err := parseSide(snap.EngineSide)
	if err != nil {
		return Snapshot{}, chess.Result{}, err
	}
	if pos.Turn() != engineSide {
		return Snapshot{}, chess.Result{}, ErrOpponentToMove
	}
	control, err := timecontrol.Parse(snap.TimeControl)
	if err != nil {
		return Snapshot{}, chess.Result{}, fmt.Errorf("stored game %s: %w", id, err)
	}
	clock := snap.Clock.timeData()

	start := m.now()
	res, ok := m.engine.Search(ctx, pos, control, clock)
	used := m.now().Sub(start)
	if !ok {
		return Snapshot{}, chess.Result{}, fmt.Errorf("no legal move in %s", pos.FEN())
	}

	var next Snapshot
	if used > clock.Remaining {
		next = snap.clone()
		next.Clock = clockFrom(clock.WithRemaining(clock.Remaining - used))
		next.Status = StatusTimeForfeit
		next.Winner = sideName(engineSide.Other())
		next.UpdatedAt = m.now()
	} else {
		next = m.record(snap, pos, res.Move)
		next.Clock = clockFrom(timecontrol.Advance(control, clock, used))
	}
	if err := m.commit(ctx, next); err != nil {
		return Snapshot{}, chess.Result{}, err
	}
	m.logger.Info("game_move",
		zap.String("game_id", id),
		zap.String("side", "engine"),
		zap.String("move", res.Move.String()),
		zap.Bool("book", res.FromBook),
		zap.Int("score", res.Score),
		zap.Duration("used", used),
		zap.Duration("remaining", next.Clock.Remaining),
		zap.String("status", string(next.Status)),
	)
	return next, res, nil
}

// Resign ends the game in the engine's favour.
func (m *Manager) Resign(ctx context.Context, id string) (Snapshot, error) {
	defer m.lock(id)()

	snap, _, err := m.load(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	next := snap.clone()
	next.Status = StatusResigned
	next.Winner = next.EngineSide
	next.UpdatedAt = m.now()
	if err := m.commit(ctx, next); err != nil {
		return Snapshot{}, err
	}
	return next, nil
}

// record derives the snapshot after mv is played in pos.
func (m *Manager) record(snap Snapshot, pos position.Position, mv position.Move) Snapshot {
	next := snap.clone()
	uci := mv.String()
	after := pos.Apply(mv)

	next.FEN = after.FEN()
	next.MovesUCI = append(next.MovesUCI, uci)
	next.MovesSAN = append(next.MovesSAN, sanFor(pos.FEN(), uci))
	next.Status, next.Winner = Classify(after)
	if name, ok := m.book.Opening(after); ok {
		next.Opening = name
	}
	next.UpdatedAt = m.now()
	return next
}

// commit stores next and archives it once the game is over. Archive errors
// are logged; the stored snapshot stays authoritative.
func (m *Manager) commit(ctx context.Context, next Snapshot) error {
	if err := m.store.Save(ctx, next); err != nil {
		return fmt.Errorf("save game: %w", err)
	}
	if !next.Status.Finished() {
		return nil
	}
	m.logger.Info("game_over",
		zap.String("game_id", next.ID),
		zap.String("status", string(next.Status)),
		zap.String("winner", next.Winner),
		zap.Int("plies", len(next.MovesUCI)),
	)
	if m.archive != nil {
		if err := m.archive.SaveResult(ctx, next); err != nil {
			m.logger.Warn("game_archive_failed", zap.String("game_id", next.ID), zap.Error(err))
		}
	}
	return nil
}

// Classify reports the status of pos and the winning side, if any.
func Classify(pos position.Position) (Status, string) {
	switch movegen.Classify(pos) {
	case movegen.Checkmate:
		return StatusCheckmate, sideName(pos.Turn().Other())
	case movegen.Stalemate:
		return StatusStalemate, SideDraw
	}
	if pos.HalfMoveClock() >= 100 {
		return StatusFiftyMoveDraw, SideDraw
	}
	if chess.InsufficientMaterial(pos) {
		return StatusInsufficientMaterial, SideDraw
	}
	return StatusOngoing, ""
}
