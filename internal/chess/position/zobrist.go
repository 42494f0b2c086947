package position

import "math/rand"

type zobristTables struct {
	pieces    [2][numPieceKinds][64]uint64
	castling  [16]uint64
	enPassant [8]uint64
	black     uint64
}

// The seed is fixed: hashes are used as book keys and must be identical
// across processes.
var zobrist = newZobristTables(0x2545F4914F6CDD1D)

func newZobristTables(seed int64) *zobristTables {
	rng := rand.New(rand.NewSource(seed))
	t := &zobristTables{}
	for c := 0; c < 2; c++ {
		for k := 0; k < numPieceKinds; k++ {
			for sq := 0; sq < 64; sq++ {
				t.pieces[c][k][sq] = rng.Uint64()
			}
		}
	}
	for i := range t.castling {
		t.castling[i] = rng.Uint64()
	}
	for i := range t.enPassant {
		t.enPassant[i] = rng.Uint64()
	}
	t.black = rng.Uint64()
	return t
}

// Hash returns the Zobrist key of the position. The en passant file only
// contributes when a pawn of the side to move could actually capture there,
// so positions reached by different move orders or read from different FEN
// writers hash identically.
func (p Position) Hash() uint64 {
	var h uint64
	for c := White; c <= Black; c++ {
		for k := Pawn; k <= King; k++ {
			for b := p.Pieces(c, k); b != 0; {
				var sq Square
				sq, b = b.PopLSB()
				h ^= zobrist.pieces[c][k][sq]
			}
		}
	}
	h ^= zobrist.castling[p.castling]
	if p.epSquare != NoSquare && pawnAttacks[p.turn.Other()][p.epSquare]&p.Pieces(p.turn, Pawn) != 0 {
		h ^= zobrist.enPassant[p.epSquare.File()]
	}
	if p.turn == Black {
		h ^= zobrist.black
	}
	return h
}
