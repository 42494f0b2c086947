package game

import (
	nchess "github.com/corentings/chess/v2"
	"github.com/park285/cheese-engine/internal/chess/position"
)

const startFEN = position.StartFEN

// sanFor renders uci in standard algebraic notation for the position fen.
// It falls back to the UCI text when the notation library cannot decode it.
func sanFor(fen, uci string) string {
	opt, err := nchess.FEN(fen)
	if err != nil {
		return uci
	}
	pos := nchess.NewGame(opt).Position()
	mv, err := nchess.UCINotation{}.Decode(pos, uci)
	if err != nil {
		return uci
	}
	return nchess.AlgebraicNotation{}.Encode(pos, mv)
}

// fullMoveOf reports the move number of fen and whether Black moves first.
func fullMoveOf(fen string) (int, bool) {
	if fen == "" {
		return 1, false
	}
	pos, err := position.ParseFEN(fen)
	if err != nil {
		return 1, false
	}
	return pos.FullMoveNumber(), pos.Turn() == position.Black
}
