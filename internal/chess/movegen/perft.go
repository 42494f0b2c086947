package movegen

import (
	"context"

	"github.com/park285/cheese-engine/internal/chess/position"
	"golang.org/x/sync/errgroup"
)

// Perft counts the leaf nodes of the legal move tree of pos to depth.
func (g *Generator) Perft(pos position.Position, depth int) uint64 {
	return g.perft(pos, depth, 0)
}

func (g *Generator) perft(pos position.Position, depth, ply int) uint64 {
	if depth == 0 {
		return 1
	}
	n := g.Generate(pos, ply)
	if depth == 1 {
		return uint64(n)
	}
	var nodes uint64
	for _, m := range g.Moves(ply) {
		nodes += g.perft(pos.Apply(m), depth-1, ply+1)
	}
	return nodes
}

// Perft is a convenience wrapper that allocates its own Generator.
func Perft(pos position.Position, depth int) uint64 {
	return NewGenerator(depth + 1).Perft(pos, depth)
}

// PerftDivide returns the subtree size under each root move.
func PerftDivide(pos position.Position, depth int) map[string]uint64 {
	out := make(map[string]uint64)
	if depth <= 0 {
		return out
	}
	g := NewGenerator(depth + 1)
	for _, m := range LegalMoves(pos) {
		out[m.String()] = g.Perft(pos.Apply(m), depth-1)
	}
	return out
}

// PerftParallel splits the root moves across goroutines, one Generator per
// root move. It stops early when ctx is cancelled.
func PerftParallel(ctx context.Context, pos position.Position, depth int) (uint64, error) {
	if depth <= 1 {
		return Perft(pos, depth), nil
	}
	roots := LegalMoves(pos)
	counts := make([]uint64, len(roots))

	eg, ctx := errgroup.WithContext(ctx)
	for i, m := range roots {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			counts[i] = NewGenerator(depth).Perft(pos.Apply(m), depth-1)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return 0, err
	}
	var total uint64
	for _, c := range counts {
		total += c
	}
	return total, nil
}
