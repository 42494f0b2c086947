// Package timecontrol budgets think time per move and keeps the clock.
//
// Control describes the rules of the game clock; TimeData is the state of one
// side's clock. Both are plain values: Advance returns a new TimeData and
// never modifies its argument.
package timecontrol

import (
	"fmt"
	"time"
)

type Mode int

const (
	// Classic gives Base for every Moves moves.
	Classic Mode = iota
	// Incremental gives Base for the game plus Increment after each move.
	Incremental
	// SecondsPerMove gives a fixed Base for every move.
	SecondsPerMove
)

func (m Mode) String() string {
	switch m {
	case Classic:
		return "classic"
	case Incremental:
		return "incremental"
	case SecondsPerMove:
		return "permove"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

const (
	// expectedMovesLeft is the assumed remaining game length under an
	// incremental control.
	expectedMovesLeft = 30

	safetyMargin  = 50 * time.Millisecond
	minimumBudget = 10 * time.Millisecond
)

type Control struct {
	Mode      Mode
	Base      time.Duration
	Moves     int
	Increment time.Duration
}

func NewClassic(moves int, period time.Duration) Control {
	return Control{Mode: Classic, Base: period, Moves: moves}
}

func NewIncremental(base, increment time.Duration) Control {
	return Control{Mode: Incremental, Base: base, Increment: increment}
}

func NewSecondsPerMove(allotment time.Duration) Control {
	return Control{Mode: SecondsPerMove, Base: allotment}
}

// Validate rejects controls that cannot produce a budget.
func (c Control) Validate() error {
	if c.Base <= 0 {
		return fmt.Errorf("time control %s: base time must be > 0: %s", c.Mode, c.Base)
	}
	switch c.Mode {
	case Classic:
		if c.Moves <= 0 {
			return fmt.Errorf("time control classic: moves per period must be > 0: %d", c.Moves)
		}
	case Incremental:
		if c.Increment < 0 {
			return fmt.Errorf("time control incremental: increment must be >= 0: %s", c.Increment)
		}
	case SecondsPerMove:
	default:
		return fmt.Errorf("unknown time control mode %d", int(c.Mode))
	}
	return nil
}

// TimeData is one side's clock.
type TimeData struct {
	Remaining      time.Duration
	MovesRemaining int
}

// NewTimeData returns a full clock at the start of a game under c.
func NewTimeData(c Control) TimeData {
	d := TimeData{Remaining: c.Base}
	if c.Mode == Classic {
		d.MovesRemaining = c.Moves
	}
	return d
}

func (d TimeData) WithRemaining(r time.Duration) TimeData {
	d.Remaining = r
	return d
}

func (d TimeData) WithMovesRemaining(n int) TimeData {
	d.MovesRemaining = n
	return d
}

// Expired reports a flag fall.
func (d TimeData) Expired() bool { return d.Remaining < 0 }

// Allocate returns the think-time budget for the next move. Under Classic
// and Incremental the budget never exceeds the remaining time; it is never
// negative.
func Allocate(c Control, d TimeData) time.Duration {
	if d.Remaining <= 0 {
		return 0
	}
	switch c.Mode {
	case Classic:
		moves := d.MovesRemaining
		if moves <= 0 {
			moves = 1
		}
		return clamp(d.Remaining/time.Duration(moves)-safetyMargin, d.Remaining)
	case Incremental:
		return clamp(d.Remaining/expectedMovesLeft+c.Increment-safetyMargin, d.Remaining)
	case SecondsPerMove:
		margin := c.Base / 10
		if margin > safetyMargin {
			margin = safetyMargin
		}
		if budget := c.Base - margin; budget > 0 {
			return budget
		}
		return 0
	default:
		return 0
	}
}

func clamp(budget, remaining time.Duration) time.Duration {
	if budget < minimumBudget {
		budget = minimumBudget
	}
	if budget > remaining {
		budget = remaining
	}
	return budget
}

// Advance charges used against d and applies the control's bookkeeping for
// the completed move.
func Advance(c Control, d TimeData, used time.Duration) TimeData {
	next := d.WithRemaining(d.Remaining - used)
	switch c.Mode {
	case Incremental:
		next.Remaining += c.Increment
	case Classic:
		next.MovesRemaining--
		if next.MovesRemaining <= 0 {
			next.MovesRemaining = c.Moves
			next.Remaining += c.Base
		}
	case SecondsPerMove:
		// Unused time does not carry over. A move that overran the
		// allotment still leaves the clock expired.
		if !next.Expired() {
			next.Remaining = c.Base
		}
	}
	return next
}
