package board

import (
	"errors"
	"fmt"
	"strings"
)

// Direction is one of the four ways the tiles can be pushed.
type Direction int8

const (
	NoDirection Direction = iota - 1
	Up
	Left
	Down
	Right
)

var ErrBadDirection = errors.New("unrecognized direction")

// Directions is the fixed order in which moves are tried everywhere a
// tie has to be broken.
var Directions = [4]Direction{Up, Left, Down, Right}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Left:
		return "left"
	case Down:
		return "down"
	case Right:
		return "right"
	}
	return "none"
}

// Key returns the WASD key for the direction.
func (d Direction) Key() string {
	switch d {
	case Up:
		return "w"
	case Left:
		return "a"
	case Down:
		return "s"
	case Right:
		return "d"
	}
	return ""
}

// ParseDirection accepts the WASD keys or the full direction names.
// Single-letter u/l/d/r is not supported since "d" would be ambiguous.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "w", "up":
		return Up, nil
	case "a", "left":
		return Left, nil
	case "s", "down":
		return Down, nil
	case "d", "right":
		return Right, nil
	}
	return NoDirection, fmt.Errorf("%w: %q", ErrBadDirection, s)
}

type line [Size]int

// compress moves every non-zero tile to the front, keeping order, and
// pads with zeros.
func compress(l line) line {
	var out line
	j := 0
	for _, v := range l {
		if v != 0 {
			out[j] = v
			j++
		}
	}
	return out
}

// merge combines equal neighbours of an already-compressed line from
// left to right. A tile produced by a merge is never merged again in the
// same pass, so [2 2 2 0] gives [4 0 2 0]. Returns the sum of the new
// tiles.
func merge(l line) (line, int) {
	gained := 0
	for i := 0; i < Size-1; i++ {
		if l[i] != 0 && l[i] == l[i+1] {
			l[i] *= 2
			l[i+1] = 0
			gained += l[i]
			i++
		}
	}
	return l, gained
}

// slide pushes a line toward index 0.
func slide(l line) (line, int) {
	merged, gained := merge(compress(l))
	return compress(merged), gained
}

// readLine pulls line i out of the grid, oriented so that the direction
// of travel is toward index 0.
func (g *Grid) readLine(d Direction, i int) line {
	var l line
	for k := 0; k < Size; k++ {
		switch d {
		case Left:
			l[k] = g[i][k]
		case Right:
			l[k] = g[i][Size-1-k]
		case Up:
			l[k] = g[k][i]
		case Down:
			l[k] = g[Size-1-k][i]
		}
	}
	return l
}

func (g *Grid) writeLine(d Direction, i int, l line) {
	for k := 0; k < Size; k++ {
		switch d {
		case Left:
			g[i][k] = l[k]
		case Right:
			g[i][Size-1-k] = l[k]
		case Up:
			g[k][i] = l[k]
		case Down:
			g[Size-1-k][i] = l[k]
		}
	}
}

// Shift applies a move and also reports the total value of the tiles
// created by merges, which is what the game score counts.
func (g Grid) Shift(d Direction) (next Grid, gained int, changed bool) {
	if d < Up || d > Right {
		return g, 0, false
	}
	next = g
	for i := 0; i < Size; i++ {
		before := g.readLine(d, i)
		after, pts := slide(before)
		if after != before {
			changed = true
		}
		gained += pts
		next.writeLine(d, i, after)
	}
	return next, gained, changed
}

// Move pushes every tile in direction d. changed is false iff the
// result equals g, which is the only notion of an illegal move.
func (g Grid) Move(d Direction) (Grid, bool) {
	next, _, changed := g.Shift(d)
	return next, changed
}

// Move is the free-function form of Grid.Move.
func Move(g Grid, d Direction) (Grid, bool) {
	return g.Move(d)
}

// CanMove returns true if at least one direction changes the grid.
func (g Grid) CanMove() bool {
	for _, d := range Directions {
		if _, changed := g.Move(d); changed {
			return true
		}
	}
	return false
}
