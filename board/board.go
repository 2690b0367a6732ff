// Package board holds the 4x4 grid for the tile-doubling puzzle and the
// four directional slide/merge transforms. Everything here is a pure
// function of a Grid value; nothing is mutated in place.
package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Size is the side length of the grid.
const Size = 4

// NumCells is the total number of cells on the grid.
const NumCells = Size * Size

var (
	ErrInvalidTile   = errors.New("tile is not a power of two")
	ErrBadGridFormat = errors.New("grid must contain exactly 16 integers")
)

// Grid is a 4x4 matrix of tiles. A zero is an empty cell. Grids are
// values: assigning one copies it.
type Grid [Size][Size]int

// Cell is a (row, column) coordinate on the grid.
type Cell struct {
	Row int
	Col int
}

var corners = [4]Cell{{0, 0}, {0, Size - 1}, {Size - 1, 0}, {Size - 1, Size - 1}}

// Corners returns the four corner coordinates.
func Corners() [4]Cell {
	return corners
}

// IsCorner returns true if the cell is one of the four grid corners.
func (c Cell) IsCorner() bool {
	return (c.Row == 0 || c.Row == Size-1) && (c.Col == 0 || c.Col == Size-1)
}

// Set returns a copy of the grid with the given cell set to v.
func (g Grid) Set(row, col, v int) Grid {
	g[row][col] = v
	return g
}

// EmptyCells returns the coordinates of every empty cell in row-major
// order.
func (g Grid) EmptyCells() []Cell {
	return g.CellsOf(0)
}

// CellsOf returns the coordinates of every cell holding exactly v, in
// row-major order.
func (g Grid) CellsOf(v int) []Cell {
	cells := make([]Cell, 0, NumCells)
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if g[r][c] == v {
				cells = append(cells, Cell{r, c})
			}
		}
	}
	return cells
}

// NumEmpty counts the empty cells.
func (g Grid) NumEmpty() int {
	n := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if g[r][c] == 0 {
				n++
			}
		}
	}
	return n
}

// MaxTile returns the largest tile on the grid, or 0 for an empty grid.
func (g Grid) MaxTile() int {
	m := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if g[r][c] > m {
				m = g[r][c]
			}
		}
	}
	return m
}

// Sum returns the total of all tile values.
func (g Grid) Sum() int {
	s := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			s += g[r][c]
		}
	}
	return s
}

// Contains returns true if any cell holds exactly v.
func (g Grid) Contains(v int) bool {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if g[r][c] == v {
				return true
			}
		}
	}
	return false
}

// Validate checks that every cell is either empty or a power of two no
// smaller than 2. Every evaluation downstream takes log2 of tiles, so
// callers that accept grids from outside should reject bad ones here.
func (g Grid) Validate() error {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			v := g[r][c]
			if v == 0 {
				continue
			}
			if v < 2 || v&(v-1) != 0 {
				return fmt.Errorf("%w: %d at row %d, col %d", ErrInvalidTile, v, r, c)
			}
		}
	}
	return nil
}

// MustValid panics if the grid fails Validate.
func (g Grid) MustValid() Grid {
	if err := g.Validate(); err != nil {
		panic(err)
	}
	return g
}

// String renders the grid as one line of tab-separated integers per row.
func (g Grid) String() string {
	var sb strings.Builder
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if c > 0 {
				sb.WriteByte('\t')
			}
			sb.WriteString(strconv.Itoa(g[r][c]))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseGrid reads 16 integers in row-major order. Whitespace, commas,
// slashes and square brackets all count as separators, so both the
// String() output and "[[2,2,0,0],[0,0,0,0],...]" parse.
func ParseGrid(s string) (Grid, error) {
	var g Grid
	fields := strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', '\r', ',', '/', '[', ']':
			return true
		}
		return false
	})
	if len(fields) != NumCells {
		return g, fmt.Errorf("%w: got %d", ErrBadGridFormat, len(fields))
	}
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return g, fmt.Errorf("%w: %v", ErrBadGridFormat, err)
		}
		g[i/Size][i%Size] = v
	}
	if err := g.Validate(); err != nil {
		return g, err
	}
	return g, nil
}
