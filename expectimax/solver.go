// Package expectimax picks moves by searching the game tree. Player
// turns are MAX nodes; tile spawns are CHANCE nodes, averaged exactly
// over every empty cell and spawn value. No sampling is done, so a
// decision is a pure function of the grid.
package expectimax

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/twentyfortyeight/board"
	"github.com/domino14/twentyfortyeight/equity"
)

// The search assumes a spawned tile is a 2 nine times out of ten and a 4
// otherwise, even though the game itself only ever spawns 2s.
var spawnModel = [...]struct {
	tile int
	prob float64
}{
	{2, 0.9},
	{4, 0.1},
}

// DepthFor returns the search depth for a grid with the given number of
// empty cells. Fuller boards branch less, so they can be searched deeper.
func DepthFor(empty int) int {
	switch {
	case empty > 8:
		return 3
	case empty > 4:
		return 4
	default:
		return 5
	}
}

// Decision is the outcome of one search.
type Decision struct {
	Direction board.Direction
	Value     float64
	Depth     int
	// Values holds the expected value of each legal root move. Illegal
	// moves are absent.
	Values  map[board.Direction]float64
	Nodes   uint64
	Elapsed time.Duration
}

type Solver struct {
	eval    equity.Evaluator
	threads int
	memoize bool

	nodes atomic.Uint64
}

// NewSolver creates a solver around an evaluator. A nil evaluator means
// the standard heuristic.
func NewSolver(eval equity.Evaluator) *Solver {
	if eval == nil {
		eval = equity.Heuristic{}
	}
	return &Solver{eval: eval, threads: 1, memoize: true}
}

// SetThreads sets how many root moves may be searched at once.
func (s *Solver) SetThreads(threads int) {
	if threads < 1 {
		threads = 1
	}
	s.threads = threads
}

// SetMemoize turns the per-decision value cache on or off. The cache
// only saves work; it never changes a value.
func (s *Solver) SetMemoize(m bool) {
	s.memoize = m
}

// Nodes returns the number of nodes visited over the solver's lifetime.
func (s *Solver) Nodes() uint64 {
	return s.nodes.Load()
}

// Decide returns the best move for g, or board.NoDirection if no move
// changes the grid. It panics if g holds a tile that is not a power of
// two.
func (s *Solver) Decide(g board.Grid) board.Direction {
	return s.DecideWithStats(g).Direction
}

// DecideWithStats is Decide but also reports the value of every root
// move and some search statistics.
func (s *Solver) DecideWithStats(g board.Grid) Decision {
	g.MustValid()
	return s.decideAtDepth(g, DepthFor(g.NumEmpty()))
}

type rootBranch struct {
	dir  board.Direction
	next board.Grid
}

func (s *Solver) decideAtDepth(g board.Grid, depth int) Decision {
	start := time.Now()
	startNodes := s.nodes.Load()
	s.nodes.Add(1)

	branches := make([]rootBranch, 0, len(board.Directions))
	for _, d := range board.Directions {
		if next, changed := g.Move(d); changed {
			branches = append(branches, rootBranch{d, next})
		}
	}
	dec := Decision{
		Direction: board.NoDirection,
		Depth:     depth,
		Values:    make(map[board.Direction]float64, len(branches)),
	}
	if len(branches) == 0 {
		return dec
	}

	values := make([]float64, len(branches))
	if s.threads > 1 && len(branches) > 1 {
		// Each goroutine has its own search (and cache); the grids are
		// values, so branches share nothing.
		var eg errgroup.Group
		eg.SetLimit(s.threads)
		for i, b := range branches {
			eg.Go(func() error {
				values[i] = s.newSearch().value(b.next, depth-1, chanceNode)
				return nil
			})
		}
		eg.Wait()
	} else {
		sr := s.newSearch()
		for i, b := range branches {
			values[i] = sr.value(b.next, depth-1, chanceNode)
		}
	}

	// Strictly greater keeps the first maximum in Directions order.
	for i, b := range branches {
		dec.Values[b.dir] = values[i]
		if dec.Direction == board.NoDirection || values[i] > dec.Value {
			dec.Direction = b.dir
			dec.Value = values[i]
		}
	}
	dec.Nodes = s.nodes.Load() - startNodes
	dec.Elapsed = time.Since(start)

	log.Debug().
		Str("move", dec.Direction.String()).
		Float64("value", dec.Value).
		Int("depth", depth).
		Uint64("nodes", dec.Nodes).
		Dur("elapsed", dec.Elapsed).
		Msg("decided")
	return dec
}
