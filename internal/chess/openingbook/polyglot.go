package openingbook

import (
	"errors"
	"fmt"
	"io"

	chesslib "github.com/corentings/chess/v2"
	"github.com/corentings/chess/v2/opening"
	"github.com/park285/cheese-engine/internal/chess/movegen"
	"github.com/park285/cheese-engine/internal/chess/position"
)

const (
	defaultImportMaxPly    = 12
	defaultImportMinWeight = 1
)

type ImportOptions struct {
	MaxPly    int
	MinWeight uint16
}

// ImportPolyglot reads a polyglot .bin book and flattens it into entries by
// walking the book tree from the initial position up to MaxPly plies. Each
// position is expanded once even when reached by transposition; entries below
// MinWeight are dropped. Positions are tagged with their ECO name when one is
// known.
func ImportPolyglot(r io.Reader, opts ImportOptions) ([]Entry, error) {
	book, err := chesslib.LoadFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("load polyglot book: %w", err)
	}
	return importPolyglot(book, opts)
}

func importPolyglot(book *chesslib.PolyglotBook, opts ImportOptions) ([]Entry, error) {
	if book == nil {
		return nil, errors.New("polyglot book is nil")
	}
	maxPly := opts.MaxPly
	if maxPly <= 0 {
		maxPly = defaultImportMaxPly
	}
	minWeight := opts.MinWeight
	if minWeight == 0 {
		minWeight = defaultImportMinWeight
	}

	hasher := chesslib.NewZobristHasher()
	ecoBook := opening.NewBookECO()
	uciNotation := chesslib.UCINotation{}

	var entries []Entry
	visited := make(map[uint64]struct{})

	var walk func(game *chesslib.Game, pos position.Position, ply int) error
	walk = func(game *chesslib.Game, pos position.Position, ply int) error {
		if ply >= maxPly {
			return nil
		}
		key := pos.Hash()
		if _, seen := visited[key]; seen {
			return nil
		}
		visited[key] = struct{}{}

		hashStr, err := hasher.HashPosition(game.FEN())
		if err != nil {
			return fmt.Errorf("compute polyglot hash: %w", err)
		}
		found := book.FindMoves(chesslib.ZobristHashToUint64(hashStr))
		if len(found) == 0 {
			return nil
		}

		var name string
		if eco := ecoBook.Find(game.Moves()); eco != nil {
			name = eco.Code() + " " + eco.Title()
		}

		for _, pe := range found {
			if pe.Weight < minWeight {
				continue
			}
			decoded := chesslib.DecodeMove(pe.Move).ToMove()
			m, ok := resolvePolyglotMove(pos, decoded.String())
			if !ok {
				continue
			}
			entries = append(entries, Entry{
				Position: pos,
				Move:     m,
				Weight:   int(pe.Weight),
				Opening:  name,
			})

			child := game.Clone()
			if err := child.PushNotationMove(m.String(), uciNotation, nil); err != nil {
				return fmt.Errorf("apply move %q: %w", m, err)
			}
			if err := walk(child, pos.Apply(m), ply+1); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(chesslib.NewGame(), position.StartPosition(), 0); err != nil {
		return nil, err
	}
	return entries, nil
}

// resolvePolyglotMove maps a polyglot move to a legal move of pos. Polyglot
// encodes castling as the king capturing its own rook (e1h1), which is
// translated to the king's destination square.
func resolvePolyglotMove(pos position.Position, uci string) (position.Move, bool) {
	if m, err := movegen.FindMove(pos, uci); err == nil {
		return m, true
	}
	if castle, ok := polyglotCastles[uci]; ok {
		if m, err := movegen.FindMove(pos, castle); err == nil && m.IsCastle() {
			return m, true
		}
	}
	return position.NoMove, false
}

var polyglotCastles = map[string]string{
	"e1h1": "e1g1",
	"e1a1": "e1c1",
	"e8h8": "e8g8",
	"e8a8": "e8c8",
}
