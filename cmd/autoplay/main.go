// autoplay runs a batch of computer games and reports how the AI did.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/twentyfortyeight/automatic"
	"github.com/domino14/twentyfortyeight/config"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fn := cfg.GetString(config.ConfigResultsFile)
	f, err := os.Create(fn)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create results file")
	}
	defer f.Close()

	results, err := automatic.PlayGames(ctx, cfg, cfg.GetInt(config.ConfigGames),
		cfg.GetInt(config.ConfigBatchThreads), f)
	if err != nil {
		log.Fatal().Err(err).Msg("batch failed")
	}

	summary := automatic.Summarize(results)
	if sfn := cfg.GetString(config.ConfigSummaryFile); sfn != "" {
		sf, err := os.Create(sfn)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create summary file")
		}
		defer sf.Close()
		if err := summary.WriteYAML(sf); err != nil {
			log.Fatal().Err(err).Msg("could not write summary")
		}
	}

	fmt.Print(summary)
	if err := automatic.FprintHistogram(os.Stdout, results,
		cfg.GetInt(config.ConfigHistogramBins)); err != nil {
		log.Error().Err(err).Msg("histogram")
	}
	log.Info().Str("results", fn).Int64("games-played", automatic.GamesPlayed()).Msg("done")
}
