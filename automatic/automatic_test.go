package automatic

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/twentyfortyeight/board"
	"github.com/domino14/twentyfortyeight/config"
	"github.com/domino14/twentyfortyeight/game"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func TestPlayToEndWins(t *testing.T) {
	is := is.New(t)
	r := NewGameRunner(config.DefaultConfig())
	g, err := game.NewGameFromGrid(board.Grid{{1024, 1024}}, game.NewRand(1))
	is.NoErr(err)
	res, err := r.PlayToEnd(context.Background(), g, 1)
	is.NoErr(err)
	is.True(res.Won())
	is.Equal(res.MaxTile, 2048)
	is.Equal(res.Moves, 1)
	is.Equal(res.Score, 2048)
}

func TestPlayToEndDeadGrid(t *testing.T) {
	is := is.New(t)
	r := NewGameRunner(config.DefaultConfig())
	dead := board.Grid{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	}
	g, err := game.NewGameFromGrid(dead, game.NewRand(1))
	is.NoErr(err)
	res, err := r.PlayToEnd(context.Background(), g, 1)
	is.NoErr(err)
	is.Equal(res.State, game.Lost)
	is.Equal(res.Moves, 0)
	is.Equal(res.Final, dead)
}

func TestPlayGameCancelled(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewGameRunner(config.DefaultConfig()).PlayGame(ctx, 3)
	is.True(errors.Is(err, context.Canceled))
}

func TestSummarize(t *testing.T) {
	is := is.New(t)
	results := []Result{
		{Game: 1, State: game.Won, MaxTile: 2048, Score: 20000, Moves: 1000},
		{Game: 2, State: game.Lost, MaxTile: 1024, Score: 10000, Moves: 600},
		{Game: 3, State: game.Lost, MaxTile: 1024, Score: 12000, Moves: 800},
		{Game: 4, State: game.Won, MaxTile: 2048, Score: 22000, Moves: 1000},
	}
	s := Summarize(results)
	is.Equal(s.Games, 4)
	is.Equal(s.Wins, 2)
	is.Equal(s.Losses, 2)
	is.Equal(s.WinRate, 0.5)
	is.Equal(s.MeanScore, 16000.0)
	is.Equal(s.MeanMoves, 850.0)
	is.Equal(s.BestTile, 2048)
	is.Equal(s.MaxTileCounts, map[int]int{1024: 2, 2048: 2})
	is.True(s.StdDevScore > 0)

	var buf bytes.Buffer
	is.NoErr(s.WriteYAML(&buf))
	is.True(strings.Contains(buf.String(), "win_rate: 0.5"))
	is.True(strings.Contains(buf.String(), "max_tile_counts:"))
	is.True(strings.Contains(s.String(), "win rate: 50.0%"))

	buf.Reset()
	is.NoErr(FprintHistogram(&buf, results, 4))
	is.True(strings.Contains(buf.String(), "log2(max tile)"))
}

func TestSummarizeEmpty(t *testing.T) {
	is := is.New(t)
	s := Summarize(nil)
	is.Equal(s.Games, 0)
	is.Equal(s.WinRate, 0.0)
}

func TestGameSeed(t *testing.T) {
	is := is.New(t)
	is.Equal(gameSeed(100, 0), int64(100))
	is.Equal(gameSeed(100, 4), int64(104))
	is.True(gameSeed(0, 4) > 0)
}

func TestPlayGamesWritesCSV(t *testing.T) {
	if testing.Short() {
		t.Skip("plays full games")
	}
	is := is.New(t)
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigSeed, 12345)

	var buf bytes.Buffer
	results, err := PlayGames(context.Background(), cfg, 2, 2, &buf)
	is.NoErr(err)
	is.Equal(len(results), 2)
	for i, r := range results {
		is.Equal(r.Game, i+1)
		is.Equal(r.Seed, int64(12345+i))
		is.True(r.State != game.Ongoing)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	is.NoErr(err)
	is.Equal(len(rows), 3)
	is.Equal(rows[0], csvHeader)

	// same seed, same games
	again, err := PlayGames(context.Background(), cfg, 2, 1, &bytes.Buffer{})
	is.NoErr(err)
	for i := range results {
		is.Equal(again[i].Final, results[i].Final)
		is.Equal(again[i].Score, results[i].Score)
	}
}

func TestPlayGamesRejectsNegativeCount(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	results, err := PlayGames(context.Background(), config.DefaultConfig(), -1, 2, &buf)
	is.True(errors.Is(err, ErrBadGameCount))
	is.Equal(len(results), 0)
	is.Equal(buf.Len(), 0)

	// the guard does not leave a batch marked as running
	results, err = PlayGames(context.Background(), config.DefaultConfig(), 0, 1, &buf)
	is.NoErr(err)
	is.Equal(len(results), 0)
}
