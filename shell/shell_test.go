package shell

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/twentyfortyeight/automatic"
	"github.com/domino14/twentyfortyeight/config"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func testController() (*ShellController, *bytes.Buffer) {
	var buf bytes.Buffer
	return newController(config.DefaultConfig(), &buf), &buf
}

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	cmd, err := extractFields(`load "2 2 0 0 0 0 0 0 0 0 0 0 0 0 0 0"`)
	is.NoErr(err)
	is.Equal(cmd, &shellcmd{cmd: "load", args: []string{"2 2 0 0 0 0 0 0 0 0 0 0 0 0 0 0"}})

	cmd, err = extractFields("MOVE Left")
	is.NoErr(err)
	is.Equal(cmd, &shellcmd{cmd: "move", args: []string{"Left"}})

	_, err = extractFields("   ")
	is.True(err != nil)
	_, err = extractFields(`load "2 2`)
	is.True(err != nil)
}

func TestNoGameYet(t *testing.T) {
	is := is.New(t)
	sc, _ := testController()
	for _, line := range []string{"show", "w", "hint", "ai", "eval", "autoplay"} {
		_, err := sc.standardModeSwitch(line, nil)
		is.Equal(err, errNoGame)
	}
}

func TestSeededNewGameRepeats(t *testing.T) {
	is := is.New(t)
	sc, _ := testController()
	_, err := sc.standardModeSwitch("new 99", nil)
	is.NoErr(err)
	first := sc.game.Grid()
	is.Equal(first.NumEmpty(), 14)
	_, err = sc.standardModeSwitch("new 99", nil)
	is.NoErr(err)
	is.Equal(sc.game.Grid(), first)
	is.Equal(sc.seed, int64(99))
}

func TestLoadAndMove(t *testing.T) {
	is := is.New(t)
	sc, buf := testController()
	sc.Execute(nil, `load "2 2 0 0 0 0 0 0 0 0 0 0 0 0 0 0"; a`)
	is.Equal(sc.game.Grid()[0][0], 4)
	is.Equal(sc.game.Score(), 4)
	is.Equal(sc.game.Turn(), 1)
	// one merged tile plus one spawn
	is.Equal(sc.game.Grid().NumEmpty(), 14)
	assert.Contains(t, buf.String(), "score: 4  turn: 1  state: ONGOING")

}

func TestNoopMove(t *testing.T) {
	is := is.New(t)
	sc, _ := testController()
	_, err := sc.standardModeSwitch(`load "2 4 8 16/0 0 0 0/0 0 0 0/0 0 0 0"`, nil)
	is.NoErr(err)
	resp, err := sc.standardModeSwitch("w", nil)
	is.NoErr(err)
	assert.Contains(t, resp.message, "Nothing moved.")
	is.Equal(sc.game.Turn(), 0)
	is.Equal(sc.game.Grid().NumEmpty(), 12)
}

func TestLoadRejectsBadGrids(t *testing.T) {
	sc, buf := testController()
	sc.Execute(nil, `load "2 2 2"`)
	assert.Contains(t, buf.String(), "Error: grid must contain exactly 16 integers")
	buf.Reset()
	sc.Execute(nil, `load "3 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0"`)
	assert.Contains(t, buf.String(), "Error: tile is not a power of two")
	assert.Nil(t, sc.game)
}

func TestBadDirection(t *testing.T) {
	is := is.New(t)
	sc, _ := testController()
	_, err := sc.standardModeSwitch("new 1", nil)
	is.NoErr(err)
	_, err = sc.standardModeSwitch("move sideways", nil)
	is.True(err != nil)
	_, err = sc.standardModeSwitch("move", nil)
	is.True(err != nil)
}

func TestDeadGridHint(t *testing.T) {
	is := is.New(t)
	sc, _ := testController()
	resp, err := sc.standardModeSwitch(`load "2 4 2 4/4 2 4 2/2 4 2 4/4 2 4 2"`, nil)
	is.NoErr(err)
	assert.Contains(t, resp.message, "state: LOST")
	resp, err = sc.standardModeSwitch("hint", nil)
	is.NoErr(err)
	is.Equal(resp.message, "No legal moves.")
}

func TestHintListsLegalDirections(t *testing.T) {
	sc, _ := testController()
	_, err := sc.standardModeSwitch(`load "2 4 8 16/0 0 0 0/0 0 0 0/0 0 0 0"`, nil)
	assert.NoError(t, err)
	resp, err := sc.standardModeSwitch("hint", nil)
	assert.NoError(t, err)
	assert.Contains(t, resp.message, "down")
	assert.Contains(t, resp.message, "<- best")
	// up and left change nothing on this grid
	assert.NotContains(t, resp.message, "up ")
	assert.NotContains(t, resp.message, "left")
}

func TestAIWinsFromNearWin(t *testing.T) {
	is := is.New(t)
	sc, _ := testController()
	_, err := sc.standardModeSwitch(`load "1024 1024 0 0 0 0 0 0 0 0 0 0 0 0 0 0"`, nil)
	is.NoErr(err)
	resp, err := sc.standardModeSwitch("ai 5", nil)
	is.NoErr(err)
	assert.Contains(t, resp.message, "You won!")
	is.True(!sc.game.Playing())
}

func TestEval(t *testing.T) {
	is := is.New(t)
	sc, _ := testController()
	_, err := sc.standardModeSwitch(`load "2 2 0 0 0 0 0 0 0 0 0 0 0 0 0 0"`, nil)
	is.NoErr(err)
	resp, err := sc.standardModeSwitch("eval", nil)
	is.NoErr(err)
	assert.Contains(t, resp.message, "155")
}

func TestSet(t *testing.T) {
	is := is.New(t)
	sc, _ := testController()
	_, err := sc.standardModeSwitch("set threads 3", nil)
	is.NoErr(err)
	is.Equal(sc.config.GetInt(config.ConfigThreads), 3)
	resp, err := sc.standardModeSwitch("set", nil)
	is.NoErr(err)
	assert.Contains(t, resp.message, "threads: 3")
	_, err = sc.standardModeSwitch("set debug true", nil)
	is.True(err != nil)
	_, err = sc.standardModeSwitch("set threads", nil)
	is.True(err != nil)
}

func TestHelpAndUnknown(t *testing.T) {
	is := is.New(t)
	sc, _ := testController()
	resp, err := sc.standardModeSwitch("help", nil)
	is.NoErr(err)
	assert.Contains(t, resp.message, "Usage:")
	resp, err = sc.standardModeSwitch("help batch", nil)
	is.NoErr(err)
	assert.Contains(t, resp.message, "results-file")
	_, err = sc.standardModeSwitch("help nosuchtopic", nil)
	is.True(err != nil)
	_, err = sc.standardModeSwitch("frobnicate", nil)
	is.True(err != nil)
	_, err = sc.standardModeSwitch("exit", nil)
	is.Equal(err, errQuit)
}

func TestAutocomplete(t *testing.T) {
	is := is.New(t)
	c := NewShellCompleter(nil)

	m, n := c.Do([]rune("hi"), 2)
	is.Equal(m, [][]rune{[]rune("nt")})
	is.Equal(n, 2)

	m, _ = c.Do([]rune("move l"), 6)
	is.Equal(m, [][]rune{[]rune("eft")})

	m, n = c.Do([]rune("set memoize "), 12)
	is.Equal(m, [][]rune{[]rune("true"), []rune("false")})
	is.Equal(n, 0)

	m, _ = c.Do([]rune("set sp"), 6)
	is.Equal(m, [][]rune{[]rune("awn-on-noop")})
}

func TestBatchRejectsNegativeCount(t *testing.T) {
	is := is.New(t)
	sc, buf := testController()
	fn := filepath.Join(t.TempDir(), "results.csv")
	sc.config.Set(config.ConfigResultsFile, fn)

	_, err := sc.standardModeSwitch("batch -1", nil)
	is.True(errors.Is(err, automatic.ErrBadGameCount))
	_, statErr := os.Stat(fn)
	is.True(os.IsNotExist(statErr))

	// the shell keeps going after the error
	sc.Execute(nil, "batch -5; new 3")
	assert.Contains(t, buf.String(), "Error: number of games must not be negative")
	is.True(sc.game != nil)
}
