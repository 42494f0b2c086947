package openingbook

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/park285/cheese-engine/internal/chess/movegen"
	"github.com/park285/cheese-engine/internal/chess/position"
)

var (
	ErrNegativeWeight = errors.New("negative book weight")
	ErrIllegalEntry   = errors.New("book move is not legal in its position")
)

// BookMove is one candidate at a book position. Weight is a percentage once
// the book has been built.
type BookMove struct {
	Move   position.Move
	Weight int
}

// WithWeight returns a copy of b carrying weight w.
func (b BookMove) WithWeight(w int) BookMove {
	b.Weight = w
	return b
}

// Entry is one raw (position, move, weight) row fed to New. Rows for the same
// position are merged in the order they are given.
type Entry struct {
	Position position.Position
	Move     position.Move
	Weight   int
	// Opening optionally names the line, e.g. "C65 Ruy Lopez: Berlin Defense".
	Opening string
}

type node struct {
	moves   []BookMove
	opening string
}

// Book is an immutable weighted move table keyed by position hash. Only the
// random source is guarded; lookups need no locking.
type Book struct {
	table map[uint64]*node

	randMu sync.Mutex
	rand   *rand.Rand
}

type Option func(*Book)

// WithSeed fixes the random source, making BestMove reproducible.
func WithSeed(seed int64) Option {
	return func(b *Book) {
		b.rand = rand.New(rand.NewSource(seed))
	}
}

// New builds a book from raw entries. Every move must be legal in its
// position and weights must be non-negative; each position's weights are
// normalised to percentages.
func New(entries []Entry, opts ...Option) (*Book, error) {
	b := &Book{
		table: make(map[uint64]*node),
		rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(b)
	}

	for i, e := range entries {
		if e.Weight < 0 {
			return nil, fmt.Errorf("entry %d (%s in %s): %w", i, e.Move, e.Position.FEN(), ErrNegativeWeight)
		}
		if !isLegal(e.Position, e.Move) {
			return nil, fmt.Errorf("entry %d (%s in %s): %w", i, e.Move, e.Position.FEN(), ErrIllegalEntry)
		}
		key := e.Position.Hash()
		n, ok := b.table[key]
		if !ok {
			n = &node{}
			b.table[key] = n
		}
		if n.opening == "" {
			n.opening = e.Opening
		}
		if idx := indexOf(n.moves, e.Move); idx >= 0 {
			n.moves[idx].Weight += e.Weight
			continue
		}
		n.moves = append(n.moves, BookMove{Move: e.Move, Weight: e.Weight})
	}

	for _, n := range b.table {
		raw := make([]int, len(n.moves))
		for i, m := range n.moves {
			raw[i] = m.Weight
		}
		for i, w := range Normalize(raw) {
			n.moves[i] = n.moves[i].WithWeight(w)
		}
	}
	return b, nil
}

func isLegal(pos position.Position, m position.Move) bool {
	for _, legal := range movegen.LegalMoves(pos) {
		if legal == m {
			return true
		}
	}
	return false
}

func indexOf(moves []BookMove, m position.Move) int {
	for i, bm := range moves {
		if bm.Move == m {
			return i
		}
	}
	return -1
}

// Len reports the number of distinct book positions.
func (b *Book) Len() int {
	if b == nil {
		return 0
	}
	return len(b.table)
}

// BestMove draws one candidate for pos by weighted roulette.
func (b *Book) BestMove(pos position.Position) (position.Move, bool) {
	if b == nil {
		return position.NoMove, false
	}
	n, ok := b.table[pos.Hash()]
	if !ok || len(n.moves) == 0 {
		return position.NoMove, false
	}
	chosen, ok := Select(n.moves, b.draw())
	if !ok {
		return position.NoMove, false
	}
	return chosen.Move, true
}

// AllMoves returns a copy of the candidates stored for pos.
func (b *Book) AllMoves(pos position.Position) ([]BookMove, bool) {
	if b == nil {
		return nil, false
	}
	n, ok := b.table[pos.Hash()]
	if !ok {
		return nil, false
	}
	return append([]BookMove(nil), n.moves...), true
}

// Opening returns the line name recorded for pos, if any.
func (b *Book) Opening(pos position.Position) (string, bool) {
	if b == nil {
		return "", false
	}
	n, ok := b.table[pos.Hash()]
	if !ok || n.opening == "" {
		return "", false
	}
	return n.opening, true
}

func (b *Book) draw() int {
	b.randMu.Lock()
	defer b.randMu.Unlock()
	return b.rand.Intn(PercentScale)
}
