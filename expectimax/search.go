package expectimax

import (
	"github.com/domino14/twentyfortyeight/board"
	"github.com/domino14/twentyfortyeight/equity"
)

type nodeKind uint8

const (
	maxNode nodeKind = iota
	chanceNode
)

type nodeKey struct {
	grid  board.Grid
	depth int
	kind  nodeKind
}

// search holds the state of one decision: the evaluator and an optional
// cache of node values. It is thrown away once the decision is made.
type search struct {
	solver *Solver
	eval   equity.Evaluator
	memo   map[nodeKey]float64
}

func (s *Solver) newSearch() *search {
	sr := &search{solver: s, eval: s.eval}
	if s.memoize {
		sr.memo = make(map[nodeKey]float64)
	}
	return sr
}

func (sr *search) value(g board.Grid, depth int, kind nodeKind) float64 {
	if depth == 0 {
		sr.solver.nodes.Add(1)
		return sr.eval.Score(g)
	}
	key := nodeKey{g, depth, kind}
	if sr.memo != nil {
		if v, ok := sr.memo[key]; ok {
			return v
		}
	}
	sr.solver.nodes.Add(1)
	var v float64
	if kind == chanceNode {
		v = sr.chanceValue(g, depth)
	} else {
		v = sr.maxValue(g, depth)
	}
	if sr.memo != nil {
		sr.memo[key] = v
	}
	return v
}

// chanceValue averages over every empty cell and every spawn value.
func (sr *search) chanceValue(g board.Grid, depth int) float64 {
	empty := g.EmptyCells()
	if len(empty) == 0 {
		return sr.eval.Score(g)
	}
	pCell := 1.0 / float64(len(empty))
	expected := 0.0
	for _, c := range empty {
		for _, sp := range spawnModel {
			child := g.Set(c.Row, c.Col, sp.tile)
			expected += pCell * sp.prob * sr.value(child, depth-1, maxNode)
		}
	}
	return expected
}

// maxValue takes the best legal move. A grid with no legal move is scored
// as-is so the enclosing chance node still has a number to average.
func (sr *search) maxValue(g board.Grid, depth int) float64 {
	best := 0.0
	moved := false
	for _, d := range board.Directions {
		next, changed := g.Move(d)
		if !changed {
			continue
		}
		v := sr.value(next, depth-1, chanceNode)
		if !moved || v > best {
			best = v
			moved = true
		}
	}
	if !moved {
		return sr.eval.Score(g)
	}
	return best
}
