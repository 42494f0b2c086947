package movegen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/park285/cheese-engine/internal/chess/position"
)

var (
	ErrMalformedMove = errors.New("malformed move")
	ErrIllegalMove   = errors.New("illegal move")
)

// LegalMoves returns a freshly allocated copy of the legal moves of pos.
// Hot paths should use a Generator instead.
func LegalMoves(pos position.Position) []position.Move {
	var list MoveList
	n := generatePseudo(pos, &list)
	us := pos.Turn()
	out := make([]position.Move, 0, n)
	for _, m := range list[:n] {
		if !pos.Apply(m).IsCheck(us) {
			out = append(out, m)
		}
	}
	return out
}

// FindMove resolves a UCI string ("e2e4", "e7e8q") to the matching legal move
// of pos.
func FindMove(pos position.Position, uci string) (position.Move, error) {
	uci = strings.ToLower(strings.TrimSpace(uci))
	if len(uci) != 4 && len(uci) != 5 {
		return position.NoMove, fmt.Errorf("%w: %q", ErrMalformedMove, uci)
	}
	from, err := position.ParseSquare(uci[0:2])
	if err != nil {
		return position.NoMove, fmt.Errorf("%w: %q", ErrMalformedMove, uci)
	}
	to, err := position.ParseSquare(uci[2:4])
	if err != nil {
		return position.NoMove, fmt.Errorf("%w: %q", ErrMalformedMove, uci)
	}
	promo := position.NoPiece
	if len(uci) == 5 {
		switch uci[4] {
		case 'q':
			promo = position.Queen
		case 'r':
			promo = position.Rook
		case 'b':
			promo = position.Bishop
		case 'n':
			promo = position.Knight
		default:
			return position.NoMove, fmt.Errorf("%w: %q", ErrMalformedMove, uci)
		}
	}

	for _, m := range LegalMoves(pos) {
		if m.From == from && m.To == to && m.Promotion == promo {
			return m, nil
		}
	}
	return position.NoMove, fmt.Errorf("%w: %s in %s", ErrIllegalMove, uci, pos.FEN())
}

// Outcome classifies a position with no legal moves.
type Outcome int

const (
	NotOver Outcome = iota
	Checkmate
	Stalemate
)

func (o Outcome) String() string {
	switch o {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	default:
		return "ongoing"
	}
}

// Classify reports whether the side to move is mated or stalemated.
func Classify(pos position.Position) Outcome {
	if len(LegalMoves(pos)) > 0 {
		return NotOver
	}
	if pos.InCheck() {
		return Checkmate
	}
	return Stalemate
}
