package chess

import "github.com/park285/cheese-engine/internal/chess/position"

var pieceValues = [...]int{
	position.Pawn:   100,
	position.Knight: 320,
	position.Bishop: 330,
	position.Rook:   500,
	position.Queen:  900,
	position.King:   0,
}

// Phase weight of each piece kind; a full board sums to maxPhase.
var phaseWeights = [...]int{0, 1, 1, 2, 4, 0}

const (
	maxPhase        = 24
	bishopPairMg    = 25
	bishopPairEg    = 50
	passedPawnScale = 2
)

// Passed pawn bonus by relative rank (rank 2 = index 1).
var passedPawnBonus = [8]int{0, 10, 20, 40, 70, 120, 200, 0}

// Piece-square tables are written from White's side with rank 8 on the first
// row, so White reads sq^56 and Black reads sq.
var pawnPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

var queenPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var kingMidgamePST = [64]int{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

var kingEndgamePST = [64]int{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

var psts = [...]*[64]int{
	position.Pawn:   &pawnPST,
	position.Knight: &knightPST,
	position.Bishop: &bishopPST,
	position.Rook:   &rookPST,
	position.Queen:  &queenPST,
}

// passedMasks[c][sq] covers the squares in front of a c pawn on sq, on its
// own and both adjacent files.
var passedMasks [2][64]position.Bitboard

func init() {
	for sq := position.A1; sq <= position.H8; sq++ {
		for f := sq.File() - 1; f <= sq.File()+1; f++ {
			if f < 0 || f > 7 {
				continue
			}
			for r := 0; r < 8; r++ {
				b := position.SquareBB(position.NewSquare(f, r))
				if r > sq.Rank() {
					passedMasks[position.White][sq] |= b
				}
				if r < sq.Rank() {
					passedMasks[position.Black][sq] |= b
				}
			}
		}
	}
}

// Evaluate scores pos in centipawns from White's point of view. It is
// antisymmetric: Evaluate(pos.Mirror()) == -Evaluate(pos).
func Evaluate(pos position.Position) int {
	var mg, eg, phase int
	for c := position.White; c <= position.Black; c++ {
		sign := 1
		if c == position.Black {
			sign = -1
		}
		for k := position.Pawn; k <= position.King; k++ {
			for b := pos.Pieces(c, k); b != 0; {
				var sq position.Square
				sq, b = b.PopLSB()
				idx := sq
				if c == position.White {
					idx = sq.Flip()
				}
				mg += sign * pieceValues[k]
				eg += sign * pieceValues[k]
				if k == position.King {
					mg += sign * kingMidgamePST[idx]
					eg += sign * kingEndgamePST[idx]
				} else {
					mg += sign * psts[k][idx]
					eg += sign * psts[k][idx]
				}
				phase += phaseWeights[k]
			}
		}

		if position.PopCount(pos.Pieces(c, position.Bishop)) >= 2 {
			mg += sign * bishopPairMg
			eg += sign * bishopPairEg
		}

		pm, pe := passedPawns(pos, c)
		mg += sign * pm
		eg += sign * pe
	}

	if phase > maxPhase {
		phase = maxPhase
	}
	return (mg*phase + eg*(maxPhase-phase)) / maxPhase
}

func passedPawns(pos position.Position, c position.Color) (mg, eg int) {
	enemyPawns := pos.Pieces(c.Other(), position.Pawn)
	for b := pos.Pieces(c, position.Pawn); b != 0; {
		var sq position.Square
		sq, b = b.PopLSB()
		if passedMasks[c][sq]&enemyPawns != 0 {
			continue
		}
		rank := sq.Rank()
		if c == position.Black {
			rank = 7 - rank
		}
		mg += passedPawnBonus[rank]
		eg += passedPawnBonus[rank] * passedPawnScale
	}
	return mg, eg
}

// relativeEval scores pos for the side to move.
func relativeEval(pos position.Position) int {
	if pos.Turn() == position.White {
		return Evaluate(pos)
	}
	return -Evaluate(pos)
}

// InsufficientMaterial reports positions where neither side can mate: bare
// kings, or a single minor piece against a bare king.
func InsufficientMaterial(pos position.Position) bool {
	heavy := pos.KindBB(position.Pawn) | pos.KindBB(position.Rook) | pos.KindBB(position.Queen)
	if heavy != 0 {
		return false
	}
	minors := pos.KindBB(position.Knight) | pos.KindBB(position.Bishop)
	return position.PopCount(minors) <= 1
}
