package chess

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
)

// DifficultyPreset bounds how hard the engine tries and how much it varies
// its play.
type DifficultyPreset struct {
	Name string
	// DepthCap is the deepest iteration searched; 0 means maxSearchDepth.
	DepthCap int
	// MoveTimeMillis caps the time budget per move; 0 leaves it to the clock.
	MoveTimeMillis int
	// NodeCap stops the search after this many nodes; 0 means unlimited.
	NodeCap int
	// QuiescenceDepth bounds the capture-only extension at the leaves.
	QuiescenceDepth int
	// HashMB sizes the transposition table.
	HashMB int
	// UseBook enables opening book moves up to BookMaxPly plies into the game.
	UseBook    bool
	BookMaxPly int
	// PrimaryChoices root moves are eligible for selection, weighted by
	// CandidateWeights, as long as they lose at most EvalNoise centipawns
	// against the best move.
	PrimaryChoices   int
	CandidateWeights []float64
	EvalNoise        int
}

var presetMu sync.RWMutex

const (
	defaultBookMaxPly = 12
	maxHashMB         = 1024
)

var DefaultPresets = map[string]DifficultyPreset{
	"level1": {
		Name:             "level1",
		DepthCap:         2,
		MoveTimeMillis:   20,
		QuiescenceDepth:  2,
		HashMB:           4,
		UseBook:          true,
		BookMaxPly:       6,
		PrimaryChoices:   3,
		CandidateWeights: []float64{0.5, 0.3, 0.2},
		EvalNoise:        80,
	},
	"level2": {
		Name:             "level2",
		DepthCap:         3,
		MoveTimeMillis:   60,
		QuiescenceDepth:  3,
		HashMB:           4,
		UseBook:          true,
		BookMaxPly:       8,
		PrimaryChoices:   3,
		CandidateWeights: []float64{0.6, 0.3, 0.1},
		EvalNoise:        60,
	},
	"level3": {
		Name:             "level3",
		DepthCap:         3,
		MoveTimeMillis:   80,
		QuiescenceDepth:  4,
		HashMB:           8,
		UseBook:          true,
		BookMaxPly:       10,
		PrimaryChoices:   3,
		CandidateWeights: []float64{0.7, 0.2, 0.1},
		EvalNoise:        45,
	},
	"level4": {
		Name:             "level4",
		DepthCap:         4,
		MoveTimeMillis:   140,
		QuiescenceDepth:  6,
		HashMB:           16,
		UseBook:          true,
		BookMaxPly:       defaultBookMaxPly,
		PrimaryChoices:   3,
		CandidateWeights: []float64{0.65, 0.25, 0.1},
		EvalNoise:        30,
	},
	"level5": {
		Name:             "level5",
		DepthCap:         5,
		MoveTimeMillis:   200,
		QuiescenceDepth:  8,
		HashMB:           16,
		UseBook:          true,
		BookMaxPly:       defaultBookMaxPly,
		PrimaryChoices:   3,
		CandidateWeights: []float64{0.7, 0.2, 0.1},
		EvalNoise:        25,
	},
	"level6": {
		Name:             "level6",
		DepthCap:         7,
		MoveTimeMillis:   300,
		QuiescenceDepth:  8,
		HashMB:           32,
		UseBook:          true,
		BookMaxPly:       defaultBookMaxPly,
		PrimaryChoices:   2,
		CandidateWeights: []float64{0.8, 0.2},
		EvalNoise:        10,
	},
	"level7": {
		Name:             "level7",
		DepthCap:         10,
		MoveTimeMillis:   500,
		QuiescenceDepth:  10,
		HashMB:           64,
		UseBook:          true,
		BookMaxPly:       defaultBookMaxPly,
		PrimaryChoices:   2,
		CandidateWeights: []float64{0.85, 0.15},
		EvalNoise:        5,
	},
	"level8": {
		Name:             "level8",
		DepthCap:         0,
		MoveTimeMillis:   0,
		QuiescenceDepth:  12,
		HashMB:           64,
		UseBook:          true,
		BookMaxPly:       defaultBookMaxPly,
		PrimaryChoices:   1,
		CandidateWeights: []float64{1.0},
		EvalNoise:        0,
	},
}

func GetPreset(name string) (DifficultyPreset, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "beginner":
		name = "level1"
	case "intermediate":
		name = "level5"
	case "advanced":
		name = "level7"
	case "master":
		name = "level8"
	}
	presetMu.RLock()
	p, ok := DefaultPresets[name]
	presetMu.RUnlock()
	if ok {
		p.CandidateWeights = append([]float64(nil), p.CandidateWeights...)
		return p, nil
	}
	return DifficultyPreset{}, fmt.Errorf("unknown chess preset: %s", name)
}

// PresetNames lists the registered presets in sorted order.
func PresetNames() []string {
	presetMu.RLock()
	defer presetMu.RUnlock()
	names := make([]string, 0, len(DefaultPresets))
	for name := range DefaultPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetPreset registers or replaces a preset after validating it.
func SetPreset(p DifficultyPreset) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("preset name required")
	}
	if err := ValidatePreset(p); err != nil {
		return err
	}
	presetMu.Lock()
	defer presetMu.Unlock()
	p.CandidateWeights = append([]float64(nil), p.CandidateWeights...)
	DefaultPresets[p.Name] = p
	return nil
}

// WithDepthCap returns a copy of p searching at most depth plies.
func (p DifficultyPreset) WithDepthCap(depth int) DifficultyPreset {
	p.DepthCap = depth
	return p
}

func ValidatePreset(p DifficultyPreset) error {
	switch {
	case p.DepthCap < 0 || p.DepthCap > maxSearchDepth:
		return fmt.Errorf("depth cap %d out of range 0-%d", p.DepthCap, maxSearchDepth)
	case p.MoveTimeMillis < 0:
		return fmt.Errorf("move time must be >= 0: %d", p.MoveTimeMillis)
	case p.NodeCap < 0:
		return fmt.Errorf("node cap must be >= 0: %d", p.NodeCap)
	case p.QuiescenceDepth < 0:
		return fmt.Errorf("quiescence depth must be >= 0: %d", p.QuiescenceDepth)
	case p.HashMB < 0 || p.HashMB > maxHashMB:
		return fmt.Errorf("hash size %d out of range 0-%d", p.HashMB, maxHashMB)
	case p.BookMaxPly < 0:
		return fmt.Errorf("book max ply must be >= 0: %d", p.BookMaxPly)
	case p.PrimaryChoices <= 0:
		return fmt.Errorf("primary choices must be > 0: %d", p.PrimaryChoices)
	case len(p.CandidateWeights) < p.PrimaryChoices:
		return fmt.Errorf("candidate weights (%d) must cover primary choices (%d)", len(p.CandidateWeights), p.PrimaryChoices)
	case p.EvalNoise < 0:
		return fmt.Errorf("eval noise must be >= 0: %d", p.EvalNoise)
	}

	sum := 0.0
	for i := 0; i < p.PrimaryChoices; i++ {
		w := p.CandidateWeights[i]
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("candidate weight at index %d is invalid: %f", i, w)
		}
		sum += w
	}
	if sum == 0 {
		return fmt.Errorf("candidate weights sum to zero")
	}
	return nil
}
