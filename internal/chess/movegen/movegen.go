// Package movegen enumerates legal moves into per-depth reusable buffers.
package movegen

import "github.com/park285/cheese-engine/internal/chess/position"

// MaxMoves bounds the number of legal moves in any reachable position (218)
// with headroom for the pseudo-legal superset written before filtering.
const MaxMoves = 256

// DefaultDepth is the number of buffers a Generator starts with.
const DefaultDepth = 64

// MoveList is one depth's buffer.
type MoveList [MaxMoves]position.Move

// Generator owns one MoveList per recursion depth. Buffers are allocated once
// and reused on every call, so generating at a node never allocates. A
// Generator is not safe for concurrent use; each search owns its own.
type Generator struct {
	lists  []*MoveList
	counts []int
}

func NewGenerator(depth int) *Generator {
	if depth <= 0 {
		depth = DefaultDepth
	}
	g := &Generator{}
	g.grow(depth)
	return g
}

func (g *Generator) grow(depth int) {
	for len(g.lists) < depth {
		g.lists = append(g.lists, new(MoveList))
		g.counts = append(g.counts, 0)
	}
}

// Generate writes the legal moves of pos into the buffer for depth and
// returns how many were written. A depth beyond the current capacity grows
// the buffer set once.
func (g *Generator) Generate(pos position.Position, depth int) int {
	if depth >= len(g.lists) {
		g.grow(depth + 1)
	}
	list := g.lists[depth]
	n := generatePseudo(pos, list)

	us := pos.Turn()
	legal := 0
	for i := 0; i < n; i++ {
		m := list[i]
		if pos.Apply(m).IsCheck(us) {
			continue
		}
		list[legal] = m
		legal++
	}
	g.counts[depth] = legal
	return legal
}

// Moves returns the moves produced by the last Generate call at depth. The
// slice aliases the buffer and is overwritten by the next call at that depth.
func (g *Generator) Moves(depth int) []position.Move {
	if depth >= len(g.lists) {
		return nil
	}
	return g.lists[depth][:g.counts[depth]]
}

// Depth reports the number of buffers currently held.
func (g *Generator) Depth() int { return len(g.lists) }

// HasLegalMove reports whether the side to move has any legal move.
func (g *Generator) HasLegalMove(pos position.Position, depth int) bool {
	return g.Generate(pos, depth) > 0
}
