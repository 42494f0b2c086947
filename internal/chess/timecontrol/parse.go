package timecontrol

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Parse reads a control written as
//
//	classic:40/5m
//	incremental:3m+2s
//	permove:1500ms
//
// Durations use time.ParseDuration syntax.
func Parse(s string) (Control, error) {
	mode, rest, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), ":")
	if !ok || rest == "" {
		return Control{}, fmt.Errorf("parse time control %q: expected mode:value", s)
	}

	var c Control
	switch mode {
	case "classic":
		movesText, periodText, ok := strings.Cut(rest, "/")
		if !ok {
			return Control{}, fmt.Errorf("parse time control %q: expected moves/period", s)
		}
		moves, err := strconv.Atoi(movesText)
		if err != nil {
			return Control{}, fmt.Errorf("parse time control %q: moves: %w", s, err)
		}
		period, err := time.ParseDuration(periodText)
		if err != nil {
			return Control{}, fmt.Errorf("parse time control %q: period: %w", s, err)
		}
		c = NewClassic(moves, period)
	case "incremental", "fischer":
		baseText, incText, ok := strings.Cut(rest, "+")
		if !ok {
			return Control{}, fmt.Errorf("parse time control %q: expected base+increment", s)
		}
		base, err := time.ParseDuration(baseText)
		if err != nil {
			return Control{}, fmt.Errorf("parse time control %q: base: %w", s, err)
		}
		inc, err := time.ParseDuration(incText)
		if err != nil {
			return Control{}, fmt.Errorf("parse time control %q: increment: %w", s, err)
		}
		c = NewIncremental(base, inc)
	case "permove", "movetime":
		allotment, err := time.ParseDuration(rest)
		if err != nil {
			return Control{}, fmt.Errorf("parse time control %q: %w", s, err)
		}
		c = NewSecondsPerMove(allotment)
	default:
		return Control{}, fmt.Errorf("parse time control %q: unknown mode %q", s, mode)
	}

	if err := c.Validate(); err != nil {
		return Control{}, err
	}
	return c, nil
}

// String is the inverse of Parse.
func (c Control) String() string {
	switch c.Mode {
	case Classic:
		return fmt.Sprintf("classic:%d/%s", c.Moves, c.Base)
	case Incremental:
		return fmt.Sprintf("incremental:%s+%s", c.Base, c.Increment)
	case SecondsPerMove:
		return fmt.Sprintf("permove:%s", c.Base)
	default:
		return c.Mode.String()
	}
}
