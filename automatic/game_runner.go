// Package automatic plays games with no human at the keyboard: one game
// at a time through a GameRunner, or many at once through PlayGames.
package automatic

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/twentyfortyeight/board"
	"github.com/domino14/twentyfortyeight/config"
	"github.com/domino14/twentyfortyeight/expectimax"
	"github.com/domino14/twentyfortyeight/game"
)

// Result is the outcome of one automatic game.
type Result struct {
	Game    int
	Seed    int64
	State   game.State
	MaxTile int
	Score   int
	Moves   int
	Final   board.Grid
	Elapsed time.Duration
}

func (r Result) Won() bool { return r.State == game.Won }

// GameRunner plays full games with the expectimax solver.
type GameRunner struct {
	solver      *expectimax.Solver
	spawnOnNoop bool
}

// NewGameRunner builds a runner from config. The solver's own root
// threads come from the "threads" setting.
func NewGameRunner(cfg *config.Config) *GameRunner {
	s := expectimax.NewSolver(nil)
	s.SetThreads(cfg.GetInt(config.ConfigThreads))
	s.SetMemoize(cfg.GetBool(config.ConfigMemoize))
	return &GameRunner{
		solver:      s,
		spawnOnNoop: cfg.GetBool(config.ConfigSpawnOnNoop),
	}
}

// Solver returns the runner's solver.
func (r *GameRunner) Solver() *expectimax.Solver {
	return r.solver
}

// PlayGame plays a fresh game from the given seed until it is won or
// lost. It stops early, with the context's error, if ctx is cancelled.
func (r *GameRunner) PlayGame(ctx context.Context, seed int64) (Result, error) {
	g := game.NewGame(game.NewRand(seed))
	g.SetSpawnOnNoop(r.spawnOnNoop)
	return r.PlayToEnd(ctx, g, seed)
}

// PlayToEnd lets the solver finish an existing game.
func (r *GameRunner) PlayToEnd(ctx context.Context, g *game.Game, seed int64) (Result, error) {
	start := time.Now()
	moves := 0
	for g.Playing() {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		dir := r.solver.Decide(g.Grid())
		if dir == board.NoDirection {
			// Nothing legal; the classifier would call this lost.
			g.Resign()
			break
		}
		if changed, _ := g.Play(dir); changed {
			moves++
		}
	}
	res := Result{
		Seed:    seed,
		State:   g.State(),
		MaxTile: g.Grid().MaxTile(),
		Score:   g.Score(),
		Moves:   moves,
		Final:   g.Grid(),
		Elapsed: time.Since(start),
	}
	log.Debug().Int64("seed", seed).Str("result", res.State.String()).
		Int("max-tile", res.MaxTile).Int("moves", moves).Msg("game-over")
	return res, nil
}
