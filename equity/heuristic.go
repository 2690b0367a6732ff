// Package equity scores a grid for the search. Higher is better for the
// player.
package equity

import (
	"fmt"
	"math/bits"

	"github.com/samber/lo"

	"github.com/domino14/twentyfortyeight/board"
)

// Term weights. These are fixed; they are not read from config.
const (
	EmptyWeight        = 10.0
	LogMaxWeight       = 3.0
	MonotonicityWeight = 2.5
	SmoothnessWeight   = 0.5
	CornerWeight       = 12.0
)

// Evaluator assigns a static value to a grid.
type Evaluator interface {
	Score(g board.Grid) float64
}

// Heuristic is the standard five-term evaluator.
type Heuristic struct{}

var _ Evaluator = Heuristic{}

func (Heuristic) Score(g board.Grid) float64 {
	return Score(g)
}

// log2 of a tile; empty cells count as zero. Panics on a tile that is
// not a power of two, since every term would silently be wrong.
func tileLog(v int) float64 {
	if v == 0 {
		return 0
	}
	if v < 2 || v&(v-1) != 0 {
		panic(fmt.Errorf("%w: %d", board.ErrInvalidTile, v))
	}
	return float64(bits.TrailingZeros(uint(v)))
}

// Empties counts empty cells.
func Empties(g board.Grid) float64 {
	return float64(g.NumEmpty())
}

// LogMax is log2 of the largest tile, or 0 on an empty grid.
func LogMax(g board.Grid) float64 {
	return tileLog(g.MaxTile())
}

func lineMonotonicity(l [board.Size]int) float64 {
	var inc, dec float64
	for i := 0; i < board.Size-1; i++ {
		a, b := tileLog(l[i]), tileLog(l[i+1])
		if a > b {
			dec += a - b
		} else {
			inc += b - a
		}
	}
	return -min(inc, dec)
}

// Monotonicity penalizes every row and column by how far it is from
// being sorted in its better direction. A sorted line costs nothing.
func Monotonicity(g board.Grid) float64 {
	total := 0.0
	for i := 0; i < board.Size; i++ {
		var col [board.Size]int
		for r := 0; r < board.Size; r++ {
			col[r] = g[r][i]
		}
		total += lineMonotonicity(g[i]) + lineMonotonicity(col)
	}
	return total
}

// Smoothness is the negated sum of log2 gaps between horizontally and
// vertically adjacent tiles, divided by 16. Empty cells are skipped.
func Smoothness(g board.Grid) float64 {
	penalty := 0.0
	for r := 0; r < board.Size; r++ {
		for c := 0; c < board.Size; c++ {
			if g[r][c] == 0 {
				continue
			}
			v := tileLog(g[r][c])
			if c+1 < board.Size && g[r][c+1] != 0 {
				penalty += abs(v - tileLog(g[r][c+1]))
			}
			if r+1 < board.Size && g[r+1][c] != 0 {
				penalty += abs(v - tileLog(g[r+1][c]))
			}
		}
	}
	return -penalty / board.NumCells
}

// CornerBonus is 1 when a largest tile sits in a corner. An empty grid
// has no largest tile and gets 0.
func CornerBonus(g board.Grid) float64 {
	m := g.MaxTile()
	if m == 0 {
		return 0
	}
	if lo.SomeBy(g.CellsOf(m), board.Cell.IsCorner) {
		return 1
	}
	return 0
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// Score is the weighted sum of all five terms. The grid must pass
// board.Grid.Validate; a tile that is not a power of two panics.
func Score(g board.Grid) float64 {
	return EmptyWeight*Empties(g) +
		LogMaxWeight*LogMax(g) +
		MonotonicityWeight*Monotonicity(g) +
		SmoothnessWeight*Smoothness(g) +
		CornerWeight*CornerBonus(g)
}

// Breakdown holds each unweighted term alongside the total.
type Breakdown struct {
	Empties      float64
	LogMax       float64
	Monotonicity float64
	Smoothness   float64
	CornerBonus  float64
	Total        float64
}

// Explain computes every term of Score separately.
func Explain(g board.Grid) Breakdown {
	return Breakdown{
		Empties:      Empties(g),
		LogMax:       LogMax(g),
		Monotonicity: Monotonicity(g),
		Smoothness:   Smoothness(g),
		CornerBonus:  CornerBonus(g),
		Total:        Score(g),
	}
}

func (b Breakdown) String() string {
	return fmt.Sprintf(
		"empties      %6.2f x %5.2f\n"+
			"log max      %6.2f x %5.2f\n"+
			"monotonicity %6.2f x %5.2f\n"+
			"smoothness   %6.2f x %5.2f\n"+
			"corner       %6.2f x %5.2f\n"+
			"total        %6.3f\n",
		b.Empties, EmptyWeight,
		b.LogMax, LogMaxWeight,
		b.Monotonicity, MonotonicityWeight,
		b.Smoothness, SmoothnessWeight,
		b.CornerBonus, CornerWeight,
		b.Total)
}
