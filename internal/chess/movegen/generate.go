package movegen

import "github.com/park285/cheese-engine/internal/chess/position"

var promotionKinds = [...]position.PieceKind{position.Queen, position.Rook, position.Bishop, position.Knight}

// generatePseudo writes every pseudo-legal move of pos into list and returns
// the count. Castling is fully checked here (empty path, king not in or
// through check); everything else is filtered by the caller.
func generatePseudo(pos position.Position, list *MoveList) int {
	us, them := pos.Turn(), pos.Turn().Other()
	own, enemy := pos.ColorBB(us), pos.ColorBB(them)
	occupied := own | enemy
	n := 0

	n = pawnMoves(pos, list, n, us, enemy, occupied)

	for b := pos.Pieces(us, position.Knight); b != 0; {
		var from position.Square
		from, b = b.PopLSB()
		n = addTargets(list, n, position.Knight, from, position.KnightAttacks(from)&^own, enemy)
	}
	for b := pos.Pieces(us, position.Bishop); b != 0; {
		var from position.Square
		from, b = b.PopLSB()
		n = addTargets(list, n, position.Bishop, from, position.BishopAttacks(from, occupied)&^own, enemy)
	}
	for b := pos.Pieces(us, position.Rook); b != 0; {
		var from position.Square
		from, b = b.PopLSB()
		n = addTargets(list, n, position.Rook, from, position.RookAttacks(from, occupied)&^own, enemy)
	}
	for b := pos.Pieces(us, position.Queen); b != 0; {
		var from position.Square
		from, b = b.PopLSB()
		n = addTargets(list, n, position.Queen, from, position.QueenAttacks(from, occupied)&^own, enemy)
	}

	king := pos.KingSquare(us)
	n = addTargets(list, n, position.King, king, position.KingAttacks(king)&^own, enemy)
	n = castlingMoves(pos, list, n, us, king, occupied)
	return n
}

func addTargets(list *MoveList, n int, piece position.PieceKind, from position.Square, targets, enemy position.Bitboard) int {
	for targets != 0 {
		var to position.Square
		to, targets = targets.PopLSB()
		flags := position.FlagNormal
		if enemy.Occupied(to) {
			flags = position.FlagCapture
		}
		list[n] = position.Move{Piece: piece, From: from, To: to, Promotion: position.NoPiece, Flags: flags}
		n++
	}
	return n
}

func pawnMoves(pos position.Position, list *MoveList, n int, us position.Color, enemy, occupied position.Bitboard) int {
	forward, startRank, lastRank := 8, 1, 7
	if us == position.Black {
		forward, startRank, lastRank = -8, 6, 0
	}
	ep := pos.EnPassant()

	for b := pos.Pieces(us, position.Pawn); b != 0; {
		var from position.Square
		from, b = b.PopLSB()

		one := from + position.Square(forward)
		if one.Valid() && !occupied.Occupied(one) {
			n = addPawnMove(list, n, from, one, position.FlagNormal, lastRank)
			two := one + position.Square(forward)
			if from.Rank() == startRank && !occupied.Occupied(two) {
				list[n] = position.Move{Piece: position.Pawn, From: from, To: two, Promotion: position.NoPiece}
				n++
			}
		}

		attacks := position.PawnAttacks(us, from)
		for captures := attacks & enemy; captures != 0; {
			var to position.Square
			to, captures = captures.PopLSB()
			n = addPawnMove(list, n, from, to, position.FlagCapture, lastRank)
		}
		if ep != position.NoSquare && attacks.Occupied(ep) {
			list[n] = position.Move{Piece: position.Pawn, From: from, To: ep, Promotion: position.NoPiece, Flags: position.FlagCapture | position.FlagEnPassant}
			n++
		}
	}
	return n
}

func addPawnMove(list *MoveList, n int, from, to position.Square, flags position.MoveFlag, lastRank int) int {
	if to.Rank() != lastRank {
		list[n] = position.Move{Piece: position.Pawn, From: from, To: to, Promotion: position.NoPiece, Flags: flags}
		return n + 1
	}
	for _, k := range promotionKinds {
		list[n] = position.Move{Piece: position.Pawn, From: from, To: to, Promotion: k, Flags: flags}
		n++
	}
	return n
}

func castlingMoves(pos position.Position, list *MoveList, n int, us position.Color, king position.Square, occupied position.Bitboard) int {
	rights := pos.Castling()
	kingside, queenside := position.WhiteKingside, position.WhiteQueenside
	home := position.E1
	if us == position.Black {
		kingside, queenside = position.BlackKingside, position.BlackQueenside
		home = position.E8
	}
	if king != home || !rights.Has(kingside|queenside) {
		return n
	}
	them := us.Other()
	if pos.IsSquareAttacked(king, them) {
		return n
	}

	if rights.Has(kingside) {
		f, g := home+1, home+2
		if !occupied.Occupied(f) && !occupied.Occupied(g) &&
			!pos.IsSquareAttacked(f, them) && !pos.IsSquareAttacked(g, them) {
			list[n] = position.Move{Piece: position.King, From: home, To: g, Promotion: position.NoPiece, Flags: position.FlagKingsideCastle}
			n++
		}
	}
	if rights.Has(queenside) {
		d, c, b := home-1, home-2, home-3
		if !occupied.Occupied(d) && !occupied.Occupied(c) && !occupied.Occupied(b) &&
			!pos.IsSquareAttacked(d, them) && !pos.IsSquareAttacked(c, them) {
			list[n] = position.Move{Piece: position.King, From: home, To: c, Promotion: position.NoPiece, Flags: position.FlagQueensideCastle}
			n++
		}
	}
	return n
}
