package game

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// Archive records finished games.
type Archive interface {
	SaveResult(ctx context.Context, s Snapshot) error
}

// PostgresArchive upserts finished games, with their PGN, into engine_games.
type PostgresArchive struct {
	db *sql.DB
}

func NewPostgresArchive(databaseURL string) (*PostgresArchive, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresArchive{db: db}, nil
}

func (a *PostgresArchive) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *PostgresArchive) SaveResult(ctx context.Context, s Snapshot) error {
	if a == nil || a.db == nil {
		return nil
	}
	movesUCI, err := json.Marshal(s.MovesUCI)
	if err != nil {
		return err
	}
	duration := s.UpdatedAt.Sub(s.CreatedAt).Milliseconds()
	if duration < 0 {
		duration = 0
	}

	q := `INSERT INTO engine_games (
        game_id, start_fen, final_fen, engine_side, preset, time_control,
        status, result, opening, moves_uci, pgn,
        started_at, ended_at, duration_ms
      ) VALUES (
        $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14
      ) ON CONFLICT (game_id) DO UPDATE SET
        final_fen=EXCLUDED.final_fen,
        status=EXCLUDED.status,
        result=EXCLUDED.result,
        opening=EXCLUDED.opening,
        moves_uci=EXCLUDED.moves_uci,
        pgn=EXCLUDED.pgn,
        ended_at=EXCLUDED.ended_at,
        duration_ms=EXCLUDED.duration_ms`

	_, err = a.db.ExecContext(ctx, q,
		s.ID, s.StartFEN, s.FEN, s.EngineSide, s.Preset, s.TimeControl,
		string(s.Status), pgnResult(s.Winner), s.Opening, string(movesUCI), BuildPGN(s),
		s.CreatedAt, s.UpdatedAt, duration,
	)
	if err != nil {
		return fmt.Errorf("archive game %s: %w", s.ID, err)
	}
	return nil
}

func pgnResult(winner string) string {
	switch winner {
	case SideWhite:
		return "1-0"
	case SideBlack:
		return "0-1"
	case SideDraw:
		return "1/2-1/2"
	default:
		return "*"
	}
}

// BuildPGN renders s as PGN from its SAN move list.
func BuildPGN(s Snapshot) string {
	date := s.UpdatedAt
	if date.IsZero() {
		date = time.Now()
	}
	result := pgnResult(s.Winner)

	white, black := "Opponent", "Engine"
	if s.EngineSide == SideWhite {
		white, black = "Engine", "Opponent"
	}

	var b strings.Builder
	b.WriteString("[Event \"Engine game\"]\n")
	b.WriteString(fmt.Sprintf("[Date \"%04d.%02d.%02d\"]\n", date.Year(), int(date.Month()), date.Day()))
	b.WriteString(fmt.Sprintf("[White \"%s\"]\n", white))
	b.WriteString(fmt.Sprintf("[Black \"%s\"]\n", black))
	if s.TimeControl != "" {
		b.WriteString(fmt.Sprintf("[TimeControl \"%s\"]\n", sanitizePGN(s.TimeControl)))
	}
	if s.Opening != "" {
		b.WriteString(fmt.Sprintf("[Opening \"%s\"]\n", sanitizePGN(s.Opening)))
	}
	if s.Status.Finished() {
		b.WriteString(fmt.Sprintf("[Termination \"%s\"]\n", strings.ToLower(string(s.Status))))
	}
	if s.StartFEN != "" && s.StartFEN != startFEN {
		b.WriteString("[SetUp \"1\"]\n")
		b.WriteString(fmt.Sprintf("[FEN \"%s\"]\n", s.StartFEN))
	}
	b.WriteString(fmt.Sprintf("[Result \"%s\"]\n\n", result))

	moveNo, blackFirst := fullMoveOf(s.StartFEN)
	i := 0
	if blackFirst && len(s.MovesSAN) > 0 {
		b.WriteString(fmt.Sprintf("%d... %s ", moveNo, s.MovesSAN[0]))
		moveNo++
		i = 1
	}
	for ; i < len(s.MovesSAN); i += 2 {
		b.WriteString(fmt.Sprintf("%d. %s", moveNo, s.MovesSAN[i]))
		if i+1 < len(s.MovesSAN) {
			b.WriteString(" ")
			b.WriteString(s.MovesSAN[i+1])
		}
		b.WriteString(" ")
		moveNo++
	}
	b.WriteString(result)
	return b.String()
}

func sanitizePGN(s string) string {
	s = strings.ReplaceAll(s, "\\", " ")
	s = strings.ReplaceAll(s, "\"", "'")
	return strings.TrimSpace(s)
}
