package game

import (
	"encoding/binary"

	"lukechampine.com/frand"

	"github.com/domino14/twentyfortyeight/board"
)

// SpawnValue is the only tile the spawner ever places.
const SpawnValue = 2

// Rand is the randomness a game needs. *frand.RNG and *rand.Rand both
// satisfy it, and tests can hand in something fixed.
type Rand interface {
	Intn(n int) int
}

// NewRand returns a fast RNG. A seed of 0 asks for a fresh random one;
// any other seed always produces the same sequence.
func NewRand(seed int64) *frand.RNG {
	if seed == 0 {
		return frand.New()
	}
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], uint64(seed))
	return frand.NewCustom(key[:], 1024, 12)
}

// Spawn puts a new tile into an empty cell picked uniformly at random.
// A full grid is returned unchanged.
func Spawn(g board.Grid, rng Rand) board.Grid {
	empty := g.EmptyCells()
	if len(empty) == 0 {
		return g
	}
	c := empty[rng.Intn(len(empty))]
	return g.Set(c.Row, c.Col, SpawnValue)
}

// StartGrid is an empty grid with two spawned tiles.
func StartGrid(rng Rand) board.Grid {
	return Spawn(Spawn(board.Grid{}, rng), rng)
}
