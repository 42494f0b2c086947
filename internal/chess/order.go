package chess

import "github.com/park285/cheese-engine/internal/chess/position"

const (
	scoreHashMove  = 1 << 20
	scoreCapture   = 1 << 16
	scorePromotion = 1 << 15
	scoreKiller1   = 1 << 14
	scoreKiller2   = scoreKiller1 - 1
)

// mvvLva ranks captures by most valuable victim, then least valuable attacker.
func mvvLva(pos position.Position, m position.Move) int {
	victim := position.Pawn
	if !m.Flags.Has(position.FlagEnPassant) {
		victim = pos.KindAt(m.To)
	}
	return pieceValues[victim]*8 - int(m.Piece)
}

// scoreMoves fills scores for moves: hash move first, then captures and
// promotions, then killers, then quiet moves by history.
func (s *searcher) scoreMoves(pos position.Position, moves []position.Move, scores []int, hashMove position.Move, ply int) {
	for i, m := range moves {
		switch {
		case m == hashMove:
			scores[i] = scoreHashMove
		case m.IsCapture():
			scores[i] = scoreCapture + mvvLva(pos, m)
			if m.IsPromotion() {
				scores[i] += pieceValues[m.Promotion]
			}
		case m.IsPromotion():
			scores[i] = scorePromotion + pieceValues[m.Promotion]
		case ply < len(s.killers) && m == s.killers[ply][0]:
			scores[i] = scoreKiller1
		case ply < len(s.killers) && m == s.killers[ply][1]:
			scores[i] = scoreKiller2
		default:
			scores[i] = s.history[pos.Turn()][m.From][m.To]
		}
	}
}

// pickMove moves the best-scored remaining move to index i. Selection is
// incremental so a cutoff early in the list skips sorting the rest.
func pickMove(moves []position.Move, scores []int, i int) {
	best := i
	for j := i + 1; j < len(moves); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != i {
		moves[i], moves[best] = moves[best], moves[i]
		scores[i], scores[best] = scores[best], scores[i]
	}
}

func (s *searcher) recordQuietCutoff(pos position.Position, m position.Move, depth, ply int) {
	if m.IsCapture() || m.IsPromotion() {
		return
	}
	if ply < len(s.killers) && s.killers[ply][0] != m {
		s.killers[ply][1] = s.killers[ply][0]
		s.killers[ply][0] = m
	}
	h := &s.history[pos.Turn()][m.From][m.To]
	*h += depth * depth
	if *h >= scoreKiller2 {
		for c := range s.history {
			for from := range s.history[c] {
				for to := range s.history[c][from] {
					s.history[c][from][to] /= 2
				}
			}
		}
	}
}
