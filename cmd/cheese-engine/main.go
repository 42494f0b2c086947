package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/park285/cheese-engine/internal/chess/position"
	"github.com/park285/cheese-engine/internal/chess/timecontrol"
	"github.com/park285/cheese-engine/internal/chessbuilder"
	appcfg "github.com/park285/cheese-engine/internal/config"
	"github.com/park285/cheese-engine/internal/game"
	"github.com/park285/cheese-engine/internal/obslog"
	"go.uber.org/zap"
)

// Usage:
//
//	cheese-engine [FEN]
//
// Without CHEESE_SELFPLAY_MOVES the engine prints its move for FEN (default:
// the start position). With it, the engine plays both sides of a game from
// FEN for that many plies and prints the PGN.
func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	deps, err := chessbuilder.New(cfg, logger)
	if err != nil {
		log.Fatalf("engine init error: %v", err)
	}
	defer func() { _ = deps.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fen := strings.TrimSpace(strings.Join(os.Args[1:], " "))
	if cfg.SelfPlayMoves > 0 {
		err = selfPlay(ctx, deps, cfg, fen, logger)
	} else {
		err = bestMove(ctx, deps, cfg.TimeControl, fen)
	}
	if err != nil {
		logger.Error("run_failed", zap.Error(err))
		os.Exit(1)
	}
}

func bestMove(ctx context.Context, deps *chessbuilder.Deps, control timecontrol.Control, fen string) error {
	pos := position.StartPosition()
	if fen != "" {
		p, err := position.ParseFEN(fen)
		if err != nil {
			return err
		}
		pos = p
	}
	res, ok := deps.Engine.Search(ctx, pos, control, timecontrol.NewTimeData(control))
	if !ok {
		status, winner := game.Classify(pos)
		fmt.Printf("bestmove (none) status %s winner %s\n", strings.ToLower(string(status)), winner)
		return nil
	}
	pv := make([]string, len(res.PV))
	for i, m := range res.PV {
		pv[i] = m.String()
	}
	fmt.Printf("info depth %d score cp %d nodes %d time %d pv %s\n",
		res.Depth, res.Score, res.Nodes, res.Elapsed.Milliseconds(), strings.Join(pv, " "))
	fmt.Printf("bestmove %s\n", res.Move)
	return nil
}

// selfPlay lets the engine answer its own moves: it thinks for the side it
// owns in the game and plays the other side's reply through PlayMove.
func selfPlay(ctx context.Context, deps *chessbuilder.Deps, cfg *appcfg.AppConfig, fen string, logger *zap.Logger) error {
	pos := position.StartPosition()
	if fen != "" {
		p, err := position.ParseFEN(fen)
		if err != nil {
			return err
		}
		pos = p
	}
	snap, err := deps.Manager.NewGame(ctx, game.NewGameOptions{
		FEN:         pos.FEN(),
		TimeControl: cfg.TimeControl,
		EngineSide:  pos.Turn(),
	})
	if err != nil {
		return err
	}
	opponentClock := timecontrol.NewTimeData(cfg.TimeControl)

	for ply := 0; ply < cfg.SelfPlayMoves && !snap.Status.Finished(); ply++ {
		if ctx.Err() != nil {
			break
		}
		if ply%2 == 0 {
			snap, _, err = deps.Manager.Think(ctx, snap.ID)
		} else {
			var cur position.Position
			if cur, err = position.ParseFEN(snap.FEN); err != nil {
				return err
			}
			res, ok := deps.Engine.Search(ctx, cur, cfg.TimeControl, opponentClock)
			if !ok {
				return errors.New("opponent has no legal move in an ongoing game")
			}
			opponentClock = timecontrol.Advance(cfg.TimeControl, opponentClock, res.Elapsed)
			snap, err = deps.Manager.PlayMove(ctx, snap.ID, res.Move.String())
		}
		if err != nil {
			return err
		}
		if n := len(snap.MovesSAN); n > 0 && snap.Status != game.StatusTimeForfeit {
			fmt.Printf("%d. %s\n", ply+1, snap.MovesSAN[n-1])
		}
	}

	logger.Info("selfplay_done",
		zap.String("game_id", snap.ID),
		zap.String("status", string(snap.Status)),
		zap.Int("plies", len(snap.MovesUCI)),
	)
	fmt.Println()
	fmt.Println(game.BuildPGN(snap))
	return nil
}
