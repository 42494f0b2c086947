package openingbook

import "math"

// PercentScale is the total every normalised candidate list sums to.
const PercentScale = 100

// Normalize rescales raw weights so they sum to exactly PercentScale.
//
// A list already summing to 100, or one whose total is not positive, is
// returned unchanged (as a copy). Otherwise each weight becomes
// round(100*w/total) and the rounding difference is folded into the first
// candidate, in list order, with a nonzero weight. Zero weights mean "known but
// never played" and are never touched.
func Normalize(weights []int) []int {
	out := append([]int(nil), weights...)
	total := 0
	for _, w := range weights {
		total += w
	}
	if total == PercentScale || total <= 0 {
		return out
	}

	sum := 0
	for i, w := range weights {
		out[i] = int(math.Round(float64(PercentScale) * float64(w) / float64(total)))
		sum += out[i]
	}
	diff := PercentScale - sum
	if diff == 0 {
		return out
	}

	// A negative correction larger than the first candidate's scaled weight
	// floors it at zero and carries the rest to the next nonzero candidate.
	for i, w := range weights {
		if w == 0 {
			continue
		}
		if out[i]+diff >= 0 {
			out[i] += diff
			return out
		}
		diff += out[i]
		out[i] = 0
	}
	return out
}

// Select walks candidates in list order, subtracting each weight from draw,
// and returns the first candidate whose weight exceeds what is left. draw is
// expected in [0, PercentScale).
func Select(candidates []BookMove, draw int) (BookMove, bool) {
	for _, c := range candidates {
		if draw < c.Weight {
			return c, true
		}
		draw -= c.Weight
	}
	return BookMove{}, false
}
