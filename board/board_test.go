package board

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestEmptyCellsRowMajor(t *testing.T) {
	is := is.New(t)
	g := Grid{
		{2, 0, 2, 2},
		{2, 2, 2, 2},
		{2, 2, 2, 0},
		{2, 2, 2, 2},
	}
	is.Equal(g.EmptyCells(), []Cell{{0, 1}, {2, 3}})
	is.Equal(g.NumEmpty(), 2)
	is.Equal(Grid{}.NumEmpty(), NumCells)
}

func TestMaxTileSumContains(t *testing.T) {
	is := is.New(t)
	g := Grid{{2, 4}, {0, 64}, {8}}
	is.Equal(g.MaxTile(), 64)
	is.Equal(g.Sum(), 78)
	is.True(g.Contains(64))
	is.True(!g.Contains(2048))
	is.Equal(Grid{}.MaxTile(), 0)
}

func TestSetCopies(t *testing.T) {
	is := is.New(t)
	g := Grid{}
	h := g.Set(1, 2, 4)
	is.Equal(g[1][2], 0)
	is.Equal(h[1][2], 4)
}

func TestCorners(t *testing.T) {
	is := is.New(t)
	for _, c := range Corners() {
		is.True(c.IsCorner())
	}
	is.True(!Cell{0, 1}.IsCorner())
	is.True(!Cell{1, 1}.IsCorner())
}

func TestCellsOf(t *testing.T) {
	is := is.New(t)
	g := Grid{
		{8, 0, 0, 2},
		{0, 8, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 8},
	}
	is.Equal(g.CellsOf(8), []Cell{{0, 0}, {1, 1}, {3, 3}})
	is.Equal(g.CellsOf(2), []Cell{{0, 3}})
	is.Equal(len(g.CellsOf(4)), 0)
}

func TestValidate(t *testing.T) {
	is := is.New(t)
	is.NoErr(Grid{{2, 4, 8, 2048}}.Validate())
	for _, bad := range []int{1, 3, 6, -2, 100} {
		err := Grid{{0, 0}, {0, bad}}.Validate()
		is.True(errors.Is(err, ErrInvalidTile))
	}
}

func TestMustValidPanics(t *testing.T) {
	is := is.New(t)
	defer func() {
		is.True(recover() != nil)
	}()
	Grid{{3}}.MustValid()
}

func TestStringAndParse(t *testing.T) {
	is := is.New(t)
	g := Grid{
		{2, 2, 0, 0},
		{0, 4, 0, 0},
		{0, 0, 8, 0},
		{0, 0, 0, 2048},
	}
	s := g.String()
	is.Equal(s, "2\t2\t0\t0\n0\t4\t0\t0\n0\t0\t8\t0\n0\t0\t0\t2048\n")
	back, err := ParseGrid(s)
	is.NoErr(err)
	is.Equal(back, g)

	nested, err := ParseGrid("[[2,2,0,0],[0,4,0,0],[0,0,8,0],[0,0,0,2048]]")
	is.NoErr(err)
	is.Equal(nested, g)

	slashed, err := ParseGrid("2 2 0 0/0 4 0 0/0 0 8 0/0 0 0 2048")
	is.NoErr(err)
	is.Equal(slashed, g)
}

func TestParseErrors(t *testing.T) {
	is := is.New(t)
	_, err := ParseGrid("2 2 2")
	is.True(errors.Is(err, ErrBadGridFormat))
	_, err = ParseGrid("2 2 2 2 2 2 2 2 2 2 2 2 2 2 2 x")
	is.True(errors.Is(err, ErrBadGridFormat))
	_, err = ParseGrid("2 2 2 2 2 2 2 2 2 2 2 2 2 2 2 5")
	is.True(errors.Is(err, ErrInvalidTile))
}
