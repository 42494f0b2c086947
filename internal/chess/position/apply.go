package position

// castlingMask[sq] holds the rights that survive a move touching sq.
var castlingMask [64]CastlingRights

func init() {
	for sq := range castlingMask {
		castlingMask[sq] = AllCastling
	}
	castlingMask[E1] &^= WhiteKingside | WhiteQueenside
	castlingMask[H1] &^= WhiteKingside
	castlingMask[A1] &^= WhiteQueenside
	castlingMask[E8] &^= BlackKingside | BlackQueenside
	castlingMask[H8] &^= BlackKingside
	castlingMask[A8] &^= BlackQueenside
}

// Apply returns the position after m. The receiver is a copy, so the caller's
// Position is never modified. m is assumed to be pseudo-legal for p; moves
// come from the generator or from movegen.FindMove.
func (p Position) Apply(m Move) Position {
	us, them := p.turn, p.turn.Other()
	from, to := SquareBB(m.From), SquareBB(m.To)

	captured := false
	if m.Flags.Has(FlagEnPassant) {
		victim := SquareBB(epVictim(m.To, us))
		p.pieces[Pawn] &^= victim
		p.colors[them] &^= victim
		captured = true
	} else if p.colors[them]&to != 0 {
		for k := Pawn; k <= King; k++ {
			p.pieces[k] &^= to
		}
		p.colors[them] &^= to
		captured = true
	}

	p.pieces[m.Piece] ^= from | to
	p.colors[us] ^= from | to

	if m.IsPromotion() {
		p.pieces[Pawn] &^= to
		p.pieces[m.Promotion] |= to
	}

	switch {
	case m.Flags.Has(FlagKingsideCastle):
		p.moveRook(us, NewSquare(7, m.From.Rank()), NewSquare(5, m.From.Rank()))
	case m.Flags.Has(FlagQueensideCastle):
		p.moveRook(us, NewSquare(0, m.From.Rank()), NewSquare(3, m.From.Rank()))
	}

	p.castling &= castlingMask[m.From] & castlingMask[m.To]

	p.epSquare = NoSquare
	if m.Piece == Pawn && (m.To-m.From == 16 || m.From-m.To == 16) {
		p.epSquare = (m.From + m.To) / 2
	}

	if m.Piece == Pawn || captured {
		p.halfMove = 0
	} else {
		p.halfMove++
	}
	if us == Black {
		p.fullMove++
	}
	p.turn = them
	return p
}

func (p *Position) moveRook(c Color, from, to Square) {
	b := SquareBB(from) | SquareBB(to)
	p.pieces[Rook] ^= b
	p.colors[c] ^= b
}

// epVictim is the square of the pawn removed by an en passant capture
// landing on target.
func epVictim(target Square, mover Color) Square {
	if mover == White {
		return target - 8
	}
	return target + 8
}
