package chess

import (
	"context"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/park285/cheese-engine/internal/chess/position"
	"github.com/park285/cheese-engine/internal/chess/timecontrol"
)

func TestGetPresetAliases(t *testing.T) {
	aliases := map[string]string{
		"beginner":     "level1",
		"Intermediate": "level5",
		" advanced ":   "level7",
		"master":       "level8",
		"level3":       "level3",
	}
	for alias, want := range aliases {
		p, err := GetPreset(alias)
		if err != nil {
			t.Fatalf("GetPreset(%q): %v", alias, err)
		}
		if p.Name != want {
			t.Fatalf("GetPreset(%q) = %s, want %s", alias, p.Name, want)
		}
	}
	if _, err := GetPreset("grandmaster"); err == nil {
		t.Fatalf("expected error for unknown preset")
	}
}

func TestDefaultPresetsAreValid(t *testing.T) {
	for _, name := range PresetNames() {
		p, err := GetPreset(name)
		if err != nil {
			t.Fatalf("GetPreset(%s): %v", name, err)
		}
		if err := ValidatePreset(p); err != nil {
			t.Fatalf("preset %s invalid: %v", name, err)
		}
	}
}

func TestGetPresetReturnsCopy(t *testing.T) {
	p, _ := GetPreset("level1")
	p.CandidateWeights[0] = 99
	again, _ := GetPreset("level1")
	if again.CandidateWeights[0] == 99 {
		t.Fatalf("GetPreset shares its weights slice")
	}
}

func TestValidatePresetRejects(t *testing.T) {
	base, _ := GetPreset("level3")
	cases := map[string]func(*DifficultyPreset){
		"depth":    func(p *DifficultyPreset) { p.DepthCap = maxSearchDepth + 1 },
		"movetime": func(p *DifficultyPreset) { p.MoveTimeMillis = -1 },
		"nodes":    func(p *DifficultyPreset) { p.NodeCap = -1 },
		"hash":     func(p *DifficultyPreset) { p.HashMB = maxHashMB + 1 },
		"choices":  func(p *DifficultyPreset) { p.PrimaryChoices = 0 },
		"weights":  func(p *DifficultyPreset) { p.CandidateWeights = p.CandidateWeights[:1] },
		"negative": func(p *DifficultyPreset) { p.CandidateWeights = []float64{0.5, -0.1, 0.6} },
		"zero":     func(p *DifficultyPreset) { p.CandidateWeights = []float64{0, 0, 0} },
		"noise":    func(p *DifficultyPreset) { p.EvalNoise = -5 },
	}
	for name, mutate := range cases {
		p := base
		p.CandidateWeights = append([]float64(nil), base.CandidateWeights...)
		mutate(&p)
		if err := ValidatePreset(p); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestSetPreset(t *testing.T) {
	p, _ := GetPreset("level2")
	p.Name = "custom-test"
	p.DepthCap = 4
	if err := SetPreset(p); err != nil {
		t.Fatalf("SetPreset: %v", err)
	}
	t.Cleanup(func() {
		presetMu.Lock()
		delete(DefaultPresets, "custom-test")
		presetMu.Unlock()
	})
	got, err := GetPreset("custom-test")
	if err != nil || got.DepthCap != 4 {
		t.Fatalf("GetPreset(custom-test) = %+v, %v", got, err)
	}
	if err := SetPreset(DifficultyPreset{Name: " "}); err == nil {
		t.Fatalf("expected error for blank name")
	}
}

func candidatesFor(scores ...int) []Candidate {
	out := make([]Candidate, len(scores))
	for i, s := range scores {
		out[i] = Candidate{Move: position.Move{From: position.Square(i), To: position.Square(i + 8)}, Score: s}
	}
	return out
}

func TestSelectCandidateStrongestAlwaysBest(t *testing.T) {
	p, _ := GetPreset("level8")
	r := rand.New(rand.NewSource(3))
	cands := candidatesFor(50, 49, 48)
	for i := 0; i < 100; i++ {
		got, varied, err := SelectCandidate(p, cands, r)
		if err != nil || varied || got != cands[0] {
			t.Fatalf("SelectCandidate = %+v, %v, %v", got, varied, err)
		}
	}
}

func TestSelectCandidateVariesWithinNoise(t *testing.T) {
	p, _ := GetPreset("level1")
	r := rand.New(rand.NewSource(7))
	cands := candidatesFor(100, 90, 80)
	seen := map[int]int{}
	for i := 0; i < 2000; i++ {
		got, varied, err := SelectCandidate(p, cands, r)
		if err != nil {
			t.Fatalf("SelectCandidate: %v", err)
		}
		seen[got.Score]++
		if varied != (got != cands[0]) {
			t.Fatalf("varied flag %v for %+v", varied, got)
		}
	}
	for _, s := range []int{100, 90, 80} {
		if seen[s] == 0 {
			t.Fatalf("candidate with score %d never chosen: %v", s, seen)
		}
	}
	if seen[100] < seen[90] || seen[90] < seen[80] {
		t.Fatalf("distribution does not follow weights: %v", seen)
	}
}

func TestSelectCandidateRespectsEvalNoise(t *testing.T) {
	p, _ := GetPreset("level1")
	r := rand.New(rand.NewSource(9))
	// The second move loses more than EvalNoise, so only the best qualifies.
	cands := candidatesFor(300, 300-p.EvalNoise-1, 0)
	for i := 0; i < 200; i++ {
		got, varied, _ := SelectCandidate(p, cands, r)
		if varied || got != cands[0] {
			t.Fatalf("chose %+v outside the noise window", got)
		}
	}
}

func TestSelectCandidateKeepsMate(t *testing.T) {
	p, _ := GetPreset("level1")
	r := rand.New(rand.NewSource(1))
	cands := candidatesFor(mateScore-3, mateScore-5, 0)
	for i := 0; i < 200; i++ {
		got, varied, _ := SelectCandidate(p, cands, r)
		if varied || got != cands[0] {
			t.Fatalf("mating move replaced by %+v", got)
		}
	}
	// A mated alternative is never eligible either.
	cands = candidatesFor(10, -mateScore+4, 5)
	for i := 0; i < 200; i++ {
		if got, _, _ := SelectCandidate(p, cands, r); got.Score < -mateBound {
			t.Fatalf("chose a losing mate line")
		}
	}
}

func TestSelectCandidateErrors(t *testing.T) {
	p, _ := GetPreset("level1")
	if _, _, err := SelectCandidate(p, nil, nil); err == nil {
		t.Fatalf("expected error with no candidates")
	}
	p.PrimaryChoices = 0
	if _, _, err := SelectCandidate(p, candidatesFor(1), nil); err == nil {
		t.Fatalf("expected error for invalid preset")
	}
}

func TestBuildLimits(t *testing.T) {
	start := time.Now()
	spm := timecontrol.NewSecondsPerMove(5 * time.Second)

	level8, _ := GetPreset("level8")
	l, err := BuildLimits(context.Background(), level8, spm, timecontrol.NewTimeData(spm), start)
	if err != nil {
		t.Fatalf("BuildLimits: %v", err)
	}
	if l.Depth != maxSearchDepth {
		t.Fatalf("depth = %d, want %d", l.Depth, maxSearchDepth)
	}
	if l.Budget <= 4*time.Second || l.Budget > 5*time.Second {
		t.Fatalf("budget = %v, want just under 5s", l.Budget)
	}
	if !l.Deadline.Equal(start.Add(l.Budget)) {
		t.Fatalf("deadline does not match budget")
	}

	level1, _ := GetPreset("level1")
	l, _ = BuildLimits(context.Background(), level1, spm, timecontrol.NewTimeData(spm), start)
	if l.Depth != 2 || l.Budget != 20*time.Millisecond {
		t.Fatalf("level1 limits = %+v", l)
	}
	if got := l.String(); got != "go depth 2 movetime 20" {
		t.Fatalf("String() = %q", got)
	}

	ctx, cancel := context.WithDeadline(context.Background(), start.Add(time.Second))
	defer cancel()
	l, _ = BuildLimits(ctx, level8, spm, timecontrol.NewTimeData(spm), start)
	if l.Budget != time.Second || !l.Deadline.Equal(start.Add(time.Second)) {
		t.Fatalf("context deadline not applied: %+v", l)
	}

	withNodes := level8
	withNodes.NodeCap = 5000
	l, _ = BuildLimits(context.Background(), withNodes, spm, timecontrol.NewTimeData(spm), start)
	if !strings.HasSuffix(l.String(), "nodes 5000") {
		t.Fatalf("String() = %q", l.String())
	}

	bad := level8
	bad.PrimaryChoices = 0
	if _, err := BuildLimits(context.Background(), bad, spm, timecontrol.NewTimeData(spm), start); err == nil {
		t.Fatalf("expected error for invalid preset")
	}
}
