package game

import (
	"errors"
	"time"

	"github.com/park285/cheese-engine/internal/chess/position"
	"github.com/park285/cheese-engine/internal/chess/timecontrol"
)

// Status is the lifecycle state of a game.
type Status string

const (
	StatusOngoing              Status = "ONGOING"
	StatusCheckmate            Status = "CHECKMATE"
	StatusStalemate            Status = "STALEMATE"
	StatusFiftyMoveDraw        Status = "FIFTY_MOVE_DRAW"
	StatusInsufficientMaterial Status = "INSUFFICIENT_MATERIAL"
	StatusTimeForfeit          Status = "TIME_FORFEIT"
	StatusResigned             Status = "RESIGNED"
)

// Finished reports whether no more moves may be played.
func (s Status) Finished() bool { return s != StatusOngoing }

// Side names as stored in snapshots.
const (
	SideWhite = "white"
	SideBlack = "black"
	SideDraw  = "draw"
)

func sideName(c position.Color) string {
	if c == position.White {
		return SideWhite
	}
	return SideBlack
}

func parseSide(s string) (position.Color, error) {
	switch s {
	case SideWhite, "w":
		return position.White, nil
	case SideBlack, "b":
		return position.Black, nil
	}
	return position.White, ErrInvalidSide
}

// Clock is the engine's clock in a snapshot.
type Clock struct {
	Remaining      time.Duration `json:"remaining"`
	MovesRemaining int           `json:"moves_remaining,omitempty"`
}

func clockFrom(d timecontrol.TimeData) Clock {
	return Clock{Remaining: d.Remaining, MovesRemaining: d.MovesRemaining}
}

func (c Clock) timeData() timecontrol.TimeData {
	return timecontrol.TimeData{Remaining: c.Remaining, MovesRemaining: c.MovesRemaining}
}

// Snapshot is the persisted state of one game. A move produces a new
// snapshot; stored snapshots are never edited in place.
type Snapshot struct {
	ID          string    `json:"id"`
	StartFEN    string    `json:"start_fen"`
	FEN         string    `json:"fen"`
	TimeControl string    `json:"time_control"`
	EngineSide  string    `json:"engine_side"`
	Preset      string    `json:"preset"`
	Clock       Clock     `json:"clock"`
	MovesUCI    []string  `json:"moves_uci"`
	MovesSAN    []string  `json:"moves_san"`
	Status      Status    `json:"status"`
	Winner      string    `json:"winner,omitempty"`
	Opening     string    `json:"opening,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// clone returns a copy that shares no slices with s.
func (s Snapshot) clone() Snapshot {
	s.MovesUCI = append([]string(nil), s.MovesUCI...)
	s.MovesSAN = append([]string(nil), s.MovesSAN...)
	return s
}

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrGameOver       = errors.New("game is over")
	ErrEngineToMove   = errors.New("it is the engine's turn")
	ErrOpponentToMove = errors.New("it is the opponent's turn")
	ErrInvalidSide    = errors.New("side must be white or black")
)

// NewGameOptions configures a game. An empty FEN means the standard start
// position.
type NewGameOptions struct {
	FEN         string
	TimeControl timecontrol.Control
	EngineSide  position.Color
}
