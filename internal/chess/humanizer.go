package chess

import (
	"errors"
	"math/rand"

	"github.com/park285/cheese-engine/internal/chess/position"
)

// Candidate is a root move with its score from the last completed iteration.
type Candidate struct {
	Move  position.Move
	Score int
}

// SelectCandidate picks among the first PrimaryChoices candidates (sorted
// best first) by roulette over the preset's CandidateWeights. Candidates that
// lose more than EvalNoise centipawns against the best are never chosen, and
// mate scores always keep the best move. The bool reports whether a move other
// than the best was chosen.
func SelectCandidate(p DifficultyPreset, candidates []Candidate, r *rand.Rand) (Candidate, bool, error) {
	if len(candidates) == 0 {
		return Candidate{}, false, errors.New("no candidates to choose from")
	}
	if err := ValidatePreset(p); err != nil {
		return Candidate{}, false, err
	}

	best := candidates[0]
	if p.PrimaryChoices == 1 || r == nil || isMateScore(best.Score) {
		return best, false, nil
	}

	limit := p.PrimaryChoices
	if limit > len(candidates) {
		limit = len(candidates)
	}
	eligible := 1
	for eligible < limit {
		c := candidates[eligible]
		if isMateScore(c.Score) || best.Score-c.Score > p.EvalNoise {
			break
		}
		eligible++
	}

	totalWeight := 0.0
	for i := 0; i < eligible; i++ {
		totalWeight += p.CandidateWeights[i]
	}
	if totalWeight == 0 {
		return best, false, nil
	}

	threshold := r.Float64() * totalWeight
	index := 0
	for i := 0; i < eligible; i++ {
		threshold -= p.CandidateWeights[i]
		if threshold <= 0 {
			index = i
			break
		}
	}
	return candidates[index], index != 0, nil
}
