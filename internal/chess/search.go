package chess

import (
	"context"
	"sort"
	"time"

	"github.com/park285/cheese-engine/internal/chess/movegen"
	"github.com/park285/cheese-engine/internal/chess/position"
)

const (
	maxSearchDepth = 64
	maxPly         = 128

	infinity  = 32000
	mateScore = 30000
	mateBound = mateScore - maxPly

	// The deadline is polled once per this many nodes.
	checkInterval = 1024
)

func isMateScore(score int) bool {
	return score >= mateBound || score <= -mateBound
}

type rootMove struct {
	move      position.Move
	score     int
	iterScore int
}

// searcher is the private state of one search. It is pooled by the Engine
// and owned by exactly one goroutine between acquire and release.
type searcher struct {
	gen *movegen.Generator
	tt  *transTable

	ctx    context.Context
	limits Limits
	qDepth int

	nodes   uint64
	stopped bool
	// interruptible is false while depth 1 runs so a move is always found.
	interruptible bool

	killers [maxPly][2]position.Move
	history [2][64][64]int
	scores  [maxPly][movegen.MaxMoves]int
	pv      [maxPly + 1][maxPly + 1]position.Move
	pvLen   [maxPly + 1]int
}

func newSearcher(hashMB int) *searcher {
	return &searcher{
		gen: movegen.NewGenerator(maxPly),
		tt:  newTransTable(hashMB),
	}
}

func (s *searcher) begin(ctx context.Context, limits Limits, qDepth int) {
	s.ctx = ctx
	s.limits = limits
	s.qDepth = qDepth
	s.nodes = 0
	s.stopped = false
	s.interruptible = false
	s.killers = [maxPly][2]position.Move{}
	s.history = [2][64][64]int{}
}

// release drops references that must not outlive the search.
func (s *searcher) release() {
	s.ctx = nil
}

func (s *searcher) outOfTime() bool {
	if s.limits.Nodes > 0 && s.nodes >= s.limits.Nodes {
		return true
	}
	if s.ctx.Err() != nil {
		return true
	}
	return !time.Now().Before(s.limits.Deadline)
}

// visit counts a node and reports whether the search must unwind.
func (s *searcher) visit() bool {
	if s.stopped {
		return true
	}
	s.nodes++
	if s.interruptible && s.nodes%checkInterval == 0 && s.outOfTime() {
		s.stopped = true
	}
	return s.stopped
}

// iterate runs iterative deepening over root and returns the last completed
// depth. root is left sorted best first by that depth's scores; an
// interrupted depth changes nothing.
func (s *searcher) iterate(pos position.Position, root []rootMove, fullWindow bool, onDepth func(depth int)) int {
	completed := 0
	for depth := 1; depth <= s.limits.Depth; depth++ {
		if depth > 1 && s.outOfTime() {
			break
		}
		s.interruptible = depth > 1
		if !s.searchRoot(pos, root, depth, fullWindow) {
			break
		}
		completed = depth
		if onDepth != nil {
			onDepth(depth)
		}
		if root[0].score >= mateBound {
			break
		}
	}
	return completed
}

// searchRoot searches every root move to depth. With fullWindow each move
// gets an exact score instead of a bound, so alternatives can be ranked.
func (s *searcher) searchRoot(pos position.Position, root []rootMove, depth int, fullWindow bool) bool {
	alpha := -infinity
	s.pvLen[0] = 0
	for i := range root {
		lower := alpha
		if fullWindow {
			lower = -infinity
		}
		score := -s.negamax(pos.Apply(root[i].move), depth-1, 1, -infinity, -lower)
		if s.stopped {
			return false
		}
		root[i].iterScore = score
		if score > alpha {
			alpha = score
			s.updatePV(0, root[i].move)
		}
	}

	for i := range root {
		root[i].score = root[i].iterScore
	}
	sort.SliceStable(root, func(i, j int) bool { return root[i].score > root[j].score })
	return true
}

func (s *searcher) negamax(pos position.Position, depth, ply, alpha, beta int) int {
	s.pvLen[ply] = ply
	if s.visit() {
		return 0
	}
	if ply >= maxPly-1 {
		return relativeEval(pos)
	}
	if InsufficientMaterial(pos) {
		return 0
	}

	inCheck := pos.InCheck()
	// A mate delivered on the hundredth half-move still wins.
	if pos.HalfMoveClock() >= 100 {
		if inCheck && !s.gen.HasLegalMove(pos, ply) {
			return -mateScore + ply
		}
		return 0
	}
	if inCheck {
		depth++
	}
	if depth <= 0 {
		return s.quiesce(pos, ply, alpha, beta, s.qDepth)
	}

	key := pos.Hash()
	hashMove := position.NoMove
	if e, ok := s.tt.probe(key); ok {
		hashMove = e.move
		if int(e.depth) >= depth {
			score := scoreFromTT(int(e.score), ply)
			switch {
			case e.bound == boundExact:
				return score
			case e.bound == boundLower && score >= beta:
				return score
			case e.bound == boundUpper && score <= alpha:
				return score
			}
		}
	}

	n := s.gen.Generate(pos, ply)
	if n == 0 {
		if inCheck {
			return -mateScore + ply
		}
		return 0
	}
	moves := s.gen.Moves(ply)
	scores := s.scores[ply][:n]
	s.scoreMoves(pos, moves, scores, hashMove, ply)

	origAlpha := alpha
	best, bestMove := -infinity, position.NoMove
	for i := range moves {
		pickMove(moves, scores, i)
		m := moves[i]
		score := -s.negamax(pos.Apply(m), depth-1, ply+1, -beta, -alpha)
		if s.stopped {
			return 0
		}
		if score <= best {
			continue
		}
		best, bestMove = score, m
		if score > alpha {
			alpha = score
			s.updatePV(ply, m)
			if alpha >= beta {
				s.recordQuietCutoff(pos, m, depth, ply)
				break
			}
		}
	}

	b := boundExact
	switch {
	case best <= origAlpha:
		b = boundUpper
	case best >= beta:
		b = boundLower
	}
	s.tt.store(key, bestMove, best, depth, ply, b)
	return best
}

// quiesce extends a leaf through captures and promotions until the position
// is quiet or qDepth runs out. In check every evasion is searched.
func (s *searcher) quiesce(pos position.Position, ply, alpha, beta, qDepth int) int {
	s.pvLen[ply] = ply
	if s.visit() {
		return 0
	}
	if ply >= maxPly-1 {
		return relativeEval(pos)
	}

	inCheck := pos.InCheck()
	best := -infinity
	if !inCheck {
		best = relativeEval(pos)
		if best >= beta || qDepth <= 0 {
			return best
		}
		if best > alpha {
			alpha = best
		}
	} else if qDepth <= 0 {
		return relativeEval(pos)
	}

	n := s.gen.Generate(pos, ply)
	if n == 0 {
		if inCheck {
			return -mateScore + ply
		}
		return 0
	}
	moves := s.gen.Moves(ply)
	scores := s.scores[ply][:n]
	s.scoreMoves(pos, moves, scores, position.NoMove, ply)

	for i := range moves {
		pickMove(moves, scores, i)
		if !inCheck && scores[i] < scorePromotion {
			break
		}
		m := moves[i]
		score := -s.quiesce(pos.Apply(m), ply+1, -beta, -alpha, qDepth-1)
		if s.stopped {
			return 0
		}
		if score <= best {
			continue
		}
		best = score
		if score > alpha {
			alpha = score
			s.updatePV(ply, m)
			if alpha >= beta {
				break
			}
		}
	}
	return best
}

func (s *searcher) updatePV(ply int, m position.Move) {
	s.pv[ply][ply] = m
	end := s.pvLen[ply+1]
	if end < ply+1 {
		end = ply + 1
	}
	copy(s.pv[ply][ply+1:end], s.pv[ply+1][ply+1:end])
	s.pvLen[ply] = end
}

func (s *searcher) principalVariation() []position.Move {
	return append([]position.Move(nil), s.pv[0][:s.pvLen[0]]...)
}
