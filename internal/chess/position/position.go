// Package position implements an immutable bitboard chess position.
//
// A Position is a plain value: every field is an array or a scalar, so
// assigning or passing it copies the whole snapshot. Apply returns a new
// Position and never touches its receiver, which lets the search branch over
// many continuations from one node without undo bookkeeping.
package position

import "fmt"

type Position struct {
	pieces   [numPieceKinds]Bitboard
	colors   [2]Bitboard
	turn     Color
	castling CastlingRights
	epSquare Square
	halfMove int
	fullMove int
}

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var startPosition Position

func init() {
	p, err := ParseFEN(StartFEN)
	if err != nil {
		panic(fmt.Sprintf("position: start fen: %v", err))
	}
	startPosition = p
}

// StartPosition returns the standard initial layout.
func StartPosition() Position { return startPosition }

func (p Position) Turn() Color { return p.turn }
func (p Position) Castling() CastlingRights { return p.castling }
func (p Position) EnPassant() Square { return p.epSquare }
func (p Position) HalfMoveClock() int { return p.halfMove }
func (p Position) FullMoveNumber() int { return p.fullMove }
func (p Position) Occupied() Bitboard { return p.colors[White] | p.colors[Black] }
func (p Position) ColorBB(c Color) Bitboard { return p.colors[c] }
func (p Position) KindBB(k PieceKind) Bitboard { return p.pieces[k] }

// Pieces returns the bitboard of the given colour and kind.
func (p Position) Pieces(c Color, k PieceKind) Bitboard {
	return p.pieces[k] & p.colors[c]
}

// PieceAt reports the piece on sq, if any.
func (p Position) PieceAt(sq Square) (Color, PieceKind, bool) {
	b := SquareBB(sq)
	if p.Occupied()&b == 0 {
		return White, NoPiece, false
	}
	c := White
	if p.colors[Black]&b != 0 {
		c = Black
	}
	for k := Pawn; k <= King; k++ {
		if p.pieces[k]&b != 0 {
			return c, k, true
		}
	}
	return c, NoPiece, false
}

// KindAt returns the kind of the piece on sq or NoPiece.
func (p Position) KindAt(sq Square) PieceKind {
	b := SquareBB(sq)
	for k := Pawn; k <= King; k++ {
		if p.pieces[k]&b != 0 {
			return k
		}
	}
	return NoPiece
}

// KingSquare returns the square of c's king. A position without that king
// breaks the core invariant and panics.
func (p Position) KingSquare(c Color) Square {
	k := p.Pieces(c, King)
	if k == 0 {
		panic(fmt.Sprintf("position: no %s king in %s", c, p.FEN()))
	}
	return k.LSB()
}

// IsLegal reports whether each side has exactly one king.
func (p Position) IsLegal() bool {
	return PopCount(p.Pieces(White, King)) == 1 && PopCount(p.Pieces(Black, King)) == 1
}

// Mirror returns the colour-swapped position: every piece changes colour and
// moves to the vertically mirrored square, castling rights and the side to
// move are swapped accordingly.
func (p Position) Mirror() Position {
	var m Position
	for k := Pawn; k <= King; k++ {
		m.pieces[k] = flipBB(p.pieces[k])
	}
	m.colors[White] = flipBB(p.colors[Black])
	m.colors[Black] = flipBB(p.colors[White])
	m.turn = p.turn.Other()
	m.castling = (p.castling&(WhiteKingside|WhiteQueenside))<<2 | (p.castling&(BlackKingside|BlackQueenside))>>2
	m.epSquare = NoSquare
	if p.epSquare != NoSquare {
		m.epSquare = p.epSquare.Flip()
	}
	m.halfMove = p.halfMove
	m.fullMove = p.fullMove
	return m
}

func flipBB(b Bitboard) Bitboard {
	var out Bitboard
	for b != 0 {
		var sq Square
		sq, b = b.PopLSB()
		out |= SquareBB(sq.Flip())
	}
	return out
}

func (p Position) String() string { return p.FEN() }
