package chess

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/park285/cheese-engine/internal/chess/timecontrol"
)

// Limits bound one search.
type Limits struct {
	Depth    int
	Nodes    uint64
	Budget   time.Duration
	Deadline time.Time
}

// BuildLimits combines the preset caps, the clock budget and any context
// deadline into the limits of a search started at start.
func BuildLimits(ctx context.Context, p DifficultyPreset, control timecontrol.Control, data timecontrol.TimeData, start time.Time) (Limits, error) {
	if err := ValidatePreset(p); err != nil {
		return Limits{}, err
	}

	l := Limits{Depth: p.DepthCap, Nodes: uint64(p.NodeCap)}
	if l.Depth == 0 {
		l.Depth = maxSearchDepth
	}

	l.Budget = timecontrol.Allocate(control, data)
	if p.MoveTimeMillis > 0 {
		if ceiling := time.Duration(p.MoveTimeMillis) * time.Millisecond; ceiling < l.Budget {
			l.Budget = ceiling
		}
	}
	l.Deadline = start.Add(l.Budget)
	if d, ok := ctx.Deadline(); ok && d.Before(l.Deadline) {
		l.Deadline = d
		l.Budget = d.Sub(start)
	}
	return l, nil
}

// String renders the limits the way a UCI "go" command would.
func (l Limits) String() string {
	args := []string{"go"}
	if l.Depth > 0 {
		args = append(args, "depth", fmt.Sprint(l.Depth))
	}
	args = append(args, "movetime", fmt.Sprint(l.Budget.Milliseconds()))
	if l.Nodes > 0 {
		args = append(args, "nodes", fmt.Sprint(l.Nodes))
	}
	return strings.Join(args, " ")
}
