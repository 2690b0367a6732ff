// Package game drives a single session of the puzzle: it owns the
// current grid, applies moves, spawns tiles and decides when the
// session is over.
package game

import (
	"github.com/rs/zerolog/log"

	"github.com/domino14/twentyfortyeight/board"
)

// Game is one session. It is not safe for concurrent use.
type Game struct {
	grid  board.Grid
	rng   Rand
	state State
	score int
	turn  int

	// spawnOnNoop keeps spawning tiles after a move that changed nothing,
	// as long as the grid had room before the move.
	spawnOnNoop bool
}

// NewGame starts a session from a fresh grid with two seeded tiles.
func NewGame(rng Rand) *Game {
	g := &Game{rng: rng, grid: StartGrid(rng)}
	g.state = Classify(g.grid)
	return g
}

// NewGameFromGrid starts a session from a given position.
func NewGameFromGrid(grid board.Grid, rng Rand) (*Game, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	g := &Game{rng: rng, grid: grid}
	g.state = Classify(grid)
	return g, nil
}

// SetSpawnOnNoop toggles spawning after a no-op move.
func (g *Game) SetSpawnOnNoop(b bool) {
	g.spawnOnNoop = b
}

func (g *Game) Grid() board.Grid { return g.grid }
func (g *Game) State() State     { return g.state }
func (g *Game) Score() int       { return g.score }
func (g *Game) Turn() int        { return g.turn }

// Playing returns true while the game is neither won nor lost.
func (g *Game) Playing() bool {
	return g.state == Ongoing
}

// Play applies a move, spawns a tile if the move did anything, and
// reclassifies the grid. The grid is reclassified even after a no-op,
// so the returned state always reflects the board.
func (g *Game) Play(d board.Direction) (bool, State) {
	if !g.Playing() {
		return false, g.state
	}
	before := g.grid
	next, gained, changed := g.grid.Shift(d)
	if changed || (g.spawnOnNoop && before.NumEmpty() > 0) {
		next = Spawn(next, g.rng)
	}
	g.grid = next
	if changed {
		g.score += gained
		g.turn++
	}
	g.state = Classify(g.grid)
	log.Debug().Str("dir", d.String()).Bool("changed", changed).
		Int("score", g.score).Str("state", g.state.String()).Msg("played")
	return changed, g.state
}

// Resign marks the game lost, used when a driver has no move to make.
func (g *Game) Resign() {
	if g.state == Ongoing {
		g.state = Lost
	}
}
