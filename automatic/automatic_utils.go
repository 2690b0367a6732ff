package automatic

// Batch play: many computer games at once, one CSV row per game.

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"github.com/domino14/twentyfortyeight/config"
)

var (
	ErrAlreadyPlaying = errors.New("games are already being played, please wait till complete")
	ErrBadGameCount   = errors.New("number of games must not be negative")
)

var (
	isPlaying   atomic.Bool
	gamesPlayed atomic.Int64
)

// GamesPlayed returns how many batch games have finished since the
// process started.
func GamesPlayed() int64 {
	return gamesPlayed.Load()
}

var csvHeader = []string{"game", "seed", "result", "max_tile", "score", "moves", "elapsed_ms"}

func csvRow(r Result) []string {
	return []string{
		strconv.Itoa(r.Game),
		strconv.FormatInt(r.Seed, 10),
		r.State.String(),
		strconv.Itoa(r.MaxTile),
		strconv.Itoa(r.Score),
		strconv.Itoa(r.Moves),
		strconv.FormatInt(r.Elapsed.Milliseconds(), 10),
	}
}

// gameSeed gives game i its seed. A non-zero base seed makes the whole
// batch reproducible.
func gameSeed(base int64, i int) int64 {
	if base != 0 {
		return base + int64(i)
	}
	// never 0, which would mean "random" again downstream
	return int64(frand.Uint64n(1<<62)) + 1
}

// PlayGames plays numGames games on up to threads goroutines and writes
// one CSV row per game to w, in the order games finish. The returned
// results are ordered by game number. Only one batch may run at a time.
func PlayGames(ctx context.Context, cfg *config.Config, numGames, threads int,
	w io.Writer) ([]Result, error) {

	if numGames < 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadGameCount, numGames)
	}
	if !isPlaying.CompareAndSwap(false, true) {
		return nil, ErrAlreadyPlaying
	}
	defer isPlaying.Store(false)
	if threads < 1 {
		threads = 1
	}
	log.Info().Int("games", numGames).Int("threads", threads).Msg("starting-batch")

	results := make([]Result, numGames)
	logChan := make(chan Result, 100)
	baseSeed := cfg.GetInt64(config.ConfigSeed)

	writer := errgroup.Group{}
	writer.Go(func() error {
		cw := csv.NewWriter(w)
		err := cw.Write(csvHeader)
		// keep draining after an error so the players never block
		for r := range logChan {
			if err == nil {
				err = cw.Write(csvRow(r))
				cw.Flush()
			}
		}
		if err != nil {
			return err
		}
		cw.Flush()
		return cw.Error()
	})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)
	for i := 0; i < numGames; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			// Each game gets its own runner: solvers are not shared.
			runner := NewGameRunner(cfg)
			res, err := runner.PlayGame(gctx, gameSeed(baseSeed, i))
			if err != nil {
				return err
			}
			res.Game = i + 1
			results[i] = res
			logChan <- res
			if n := gamesPlayed.Add(1); n%10 == 0 {
				log.Info().Int64("played", n).Msg("batch-progress")
			}
			return nil
		})
	}
	err := g.Wait()
	close(logChan)
	if werr := writer.Wait(); werr != nil && err == nil {
		err = werr
	}
	if err != nil {
		return nil, err
	}
	log.Info().Int("games", numGames).Msg("batch-finished")
	return results, nil
}
