package chess

import (
	"context"
	"testing"
	"time"

	"github.com/park285/cheese-engine/internal/chess/movegen"
	"github.com/park285/cheese-engine/internal/chess/openingbook"
	"github.com/park285/cheese-engine/internal/chess/position"
	"github.com/park285/cheese-engine/internal/chess/timecontrol"
	"golang.org/x/sync/errgroup"
)

func mustFEN(t *testing.T, fen string) position.Position {
	t.Helper()
	p, err := position.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return p
}

func testPreset(depth int) DifficultyPreset {
	p, _ := GetPreset("level8")
	p.DepthCap = depth
	p.HashMB = 1
	return p
}

func newTestEngine(t *testing.T, p DifficultyPreset, opts ...Option) *Engine {
	t.Helper()
	e, err := NewEngine(p, opts...)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	e.SetRandomSeed(1)
	return e
}

var relaxed = timecontrol.NewSecondsPerMove(10 * time.Second)

func search(t *testing.T, e *Engine, pos position.Position, c timecontrol.Control) (Result, bool) {
	t.Helper()
	return e.Search(context.Background(), pos, c, timecontrol.NewTimeData(c))
}

func assertLegal(t *testing.T, pos position.Position, m position.Move) {
	t.Helper()
	for _, l := range movegen.LegalMoves(pos) {
		if l == m {
			return
		}
	}
	t.Fatalf("%s is not legal in %s", m, pos.FEN())
}

func TestSearchSingleLegalMove(t *testing.T) {
	pos := mustFEN(t, "k7/8/8/8/8/8/1q6/K7 w - - 0 1")
	e := newTestEngine(t, testPreset(6))
	for _, c := range []timecontrol.Control{relaxed, timecontrol.NewSecondsPerMove(time.Millisecond)} {
		res, ok := search(t, e, pos, c)
		if !ok || res.Move.String() != "a1b2" {
			t.Fatalf("Search = %v, %v; want a1b2", res.Move, ok)
		}
	}
}

func TestSearchNoLegalMoves(t *testing.T) {
	e := newTestEngine(t, testPreset(3))
	cases := map[string]movegen.Outcome{
		"rnb1kbnr/pppp1ppp/4p3/8/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3": movegen.Checkmate,
		"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1":                                movegen.Stalemate,
	}
	for fen, want := range cases {
		pos := mustFEN(t, fen)
		if res, ok := search(t, e, pos, relaxed); ok {
			t.Fatalf("%s: Search returned %s", fen, res.Move)
		}
		if got := movegen.Classify(pos); got != want {
			t.Fatalf("%s: Classify = %s, want %s", fen, got, want)
		}
	}
}

func TestSearchNearZeroBudgetStillMoves(t *testing.T) {
	e := newTestEngine(t, testPreset(0))
	fens := []string{
		position.StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	}
	for _, fen := range fens {
		pos := mustFEN(t, fen)
		c := timecontrol.NewClassic(40, 5*time.Minute)
		data := timecontrol.TimeData{Remaining: time.Millisecond, MovesRemaining: 10}
		res, ok := e.Search(context.Background(), pos, c, data)
		if !ok {
			t.Fatalf("%s: no move under a tiny budget", fen)
		}
		if res.Depth < 1 {
			t.Fatalf("%s: depth %d, want at least 1", fen, res.Depth)
		}
		assertLegal(t, pos, res.Move)
	}
}

func TestSearchCancelledContextStillMoves(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := newTestEngine(t, testPreset(8))
	pos := position.StartPosition()
	res, ok := e.Search(ctx, pos, relaxed, timecontrol.NewTimeData(relaxed))
	if !ok || res.Depth != 1 {
		t.Fatalf("Search = %+v, %v; want a depth-1 move", res, ok)
	}
	assertLegal(t, pos, res.Move)
}

func TestSearchFindsMateInOne(t *testing.T) {
	e := newTestEngine(t, testPreset(4))
	pos := mustFEN(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	res, ok := search(t, e, pos, relaxed)
	if !ok || res.Move.String() != "a1a8" {
		t.Fatalf("Search = %s, %v; want a1a8", res.Move, ok)
	}
	if !isMateScore(res.Score) || res.Score < 0 {
		t.Fatalf("score %d is not a winning mate score", res.Score)
	}
}

func TestSearchWinsHangingQueen(t *testing.T) {
	e := newTestEngine(t, testPreset(3))
	pos := mustFEN(t, "4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1")
	res, ok := search(t, e, pos, relaxed)
	if !ok || res.Move.String() != "d2d5" {
		t.Fatalf("Search = %s, %v; want d2d5", res.Move, ok)
	}
	if len(res.PV) == 0 || res.PV[0] != res.Move {
		t.Fatalf("PV %v does not start with the chosen move", res.PV)
	}
}

func TestSearchUsesBook(t *testing.T) {
	start := position.StartPosition()
	e4, err := movegen.FindMove(start, "e2e4")
	if err != nil {
		t.Fatalf("FindMove: %v", err)
	}
	book, err := openingbook.New([]openingbook.Entry{{Position: start, Move: e4, Weight: 1}}, openingbook.WithSeed(5))
	if err != nil {
		t.Fatalf("openingbook.New: %v", err)
	}

	e := newTestEngine(t, testPreset(2), WithBook(book))
	if !e.HasBook() {
		t.Fatalf("engine reports no book")
	}
	res, ok := search(t, e, start, relaxed)
	if !ok || !res.FromBook || res.Move != e4 {
		t.Fatalf("Search = %+v, %v; want book move e2e4", res, ok)
	}

	noBook := testPreset(2)
	noBook.UseBook = false
	res, ok = search(t, newTestEngine(t, noBook, WithBook(book)), start, relaxed)
	if !ok || res.FromBook {
		t.Fatalf("book used although the preset disables it: %+v", res)
	}
	assertLegal(t, start, res.Move)

	shallow := testPreset(2)
	shallow.BookMaxPly = 0
	if res, _ := search(t, newTestEngine(t, shallow, WithBook(book)), start, relaxed); res.FromBook {
		t.Fatalf("book used past its ply limit")
	}
}

func TestConcurrentSearches(t *testing.T) {
	e := newTestEngine(t, testPreset(3))
	fens := []string{
		position.StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1",
	}
	results := make([]Result, len(fens))
	var eg errgroup.Group
	for i, fen := range fens {
		pos := mustFEN(t, fen)
		eg.Go(func() error {
			res, _ := e.Search(context.Background(), pos, relaxed, timecontrol.NewTimeData(relaxed))
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	for i, fen := range fens {
		assertLegal(t, mustFEN(t, fen), results[i].Move)
	}
}

func TestWeakPresetStaysLegal(t *testing.T) {
	p, err := GetPreset("level1")
	if err != nil {
		t.Fatalf("GetPreset: %v", err)
	}
	e := newTestEngine(t, p)
	pos := position.StartPosition()
	for i := 0; i < 6; i++ {
		res, ok := search(t, e, pos, relaxed)
		if !ok {
			t.Fatalf("no move at ply %d", i)
		}
		assertLegal(t, pos, res.Move)
		pos = pos.Apply(res.Move)
	}
}

func TestSearchFindsMateOnHundredthHalfMove(t *testing.T) {
	pos := mustFEN(t, "k7/8/1K6/8/8/8/8/7R w - - 99 80")
	e := newTestEngine(t, testPreset(3))
	res, ok := search(t, e, pos, relaxed)
	if !ok || res.Move.String() != "h1h8" {
		t.Fatalf("Search = %v, %v; want h1h8", res.Move, ok)
	}
	if res.Score < mateBound {
		t.Fatalf("score = %d, want a mate score", res.Score)
	}
}

func TestInterruptedDepthKeepsPreviousResult(t *testing.T) {
	pos := mustFEN(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	newRoot := func() []rootMove {
		legal := movegen.LegalMoves(pos)
		root := make([]rootMove, len(legal))
		for i, m := range legal {
			root[i] = rootMove{move: m}
		}
		return root
	}
	deadline := time.Now().Add(time.Minute)

	full := newSearcher(1)
	full.begin(context.Background(), Limits{Depth: 2, Deadline: deadline}, 4)
	want := newRoot()
	if got := full.iterate(pos, want, true, nil); got != 2 {
		t.Fatalf("completed depth = %d, want 2", got)
	}

	// The same nodes again, then a cap that lands inside depth 3.
	capped := newSearcher(1)
	limit := (full.nodes/checkInterval + 1) * checkInterval
	capped.begin(context.Background(), Limits{Depth: 3, Nodes: limit, Deadline: deadline}, 4)
	got := newRoot()
	if depth := capped.iterate(pos, got, true, nil); depth != 2 {
		t.Fatalf("completed depth = %d, want 2", depth)
	}
	if !capped.stopped {
		t.Fatalf("depth 3 was not interrupted (nodes=%d, limit=%d)", capped.nodes, limit)
	}
	for i := range want {
		if got[i].move != want[i].move || got[i].score != want[i].score {
			t.Fatalf("root[%d] = %s/%d, want %s/%d", i, got[i].move, got[i].score, want[i].move, want[i].score)
		}
	}
}
