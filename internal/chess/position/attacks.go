package position

// IsSquareAttacked reports whether any piece of color by attacks sq under the
// current occupancy. Only pseudo-attacks are considered: pins and checks
// against the attacker do not matter.
func (p Position) IsSquareAttacked(sq Square, by Color) bool {
	return p.isAttackedWith(sq, by, p.Occupied())
}

func (p Position) isAttackedWith(sq Square, by Color, occupied Bitboard) bool {
	them := p.colors[by]
	if pawnAttacks[by.Other()][sq]&p.pieces[Pawn]&them != 0 {
		return true
	}
	if knightAttacks[sq]&p.pieces[Knight]&them != 0 {
		return true
	}
	if kingAttacks[sq]&p.pieces[King]&them != 0 {
		return true
	}
	diagonal := (p.pieces[Bishop] | p.pieces[Queen]) & them
	if diagonal != 0 && BishopAttacks(sq, occupied)&diagonal != 0 {
		return true
	}
	straight := (p.pieces[Rook] | p.pieces[Queen]) & them
	return straight != 0 && RookAttacks(sq, occupied)&straight != 0
}

// AttackersTo returns all pieces of color by attacking sq.
func (p Position) AttackersTo(sq Square, by Color) Bitboard {
	occupied := p.Occupied()
	them := p.colors[by]
	attackers := pawnAttacks[by.Other()][sq] & p.pieces[Pawn]
	attackers |= knightAttacks[sq] & p.pieces[Knight]
	attackers |= kingAttacks[sq] & p.pieces[King]
	attackers |= BishopAttacks(sq, occupied) & (p.pieces[Bishop] | p.pieces[Queen])
	attackers |= RookAttacks(sq, occupied) & (p.pieces[Rook] | p.pieces[Queen])
	return attackers & them
}

// IsCheck reports whether c's king is attacked.
func (p Position) IsCheck(c Color) bool {
	return p.IsSquareAttacked(p.KingSquare(c), c.Other())
}

// InCheck reports whether the side to move is in check.
func (p Position) InCheck() bool { return p.IsCheck(p.turn) }
