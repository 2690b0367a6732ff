package game

import "github.com/domino14/twentyfortyeight/board"

// WinningTile ends the game as soon as it appears.
const WinningTile = 2048

// State is the terminal status of a grid.
type State int

const (
	Ongoing State = iota
	Won
	Lost
)

func (s State) String() string {
	switch s {
	case Won:
		return "WON"
	case Lost:
		return "LOST"
	}
	return "ONGOING"
}

// Classify reports whether the grid is won, lost or still in play. Won
// takes priority. A grid is lost only when it is full and none of the
// four moves would change it.
func Classify(g board.Grid) State {
	if g.Contains(WinningTile) {
		return Won
	}
	if g.NumEmpty() == 0 && !g.CanMove() {
		return Lost
	}
	return Ongoing
}
