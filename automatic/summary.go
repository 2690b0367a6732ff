package automatic

import (
	"fmt"
	"io"
	"math/bits"
	"sort"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/domino14/twentyfortyeight/game"
)

// Summary aggregates a batch of results.
type Summary struct {
	Games         int         `yaml:"games"`
	Wins          int         `yaml:"wins"`
	Losses        int         `yaml:"losses"`
	WinRate       float64     `yaml:"win_rate"`
	MeanScore     float64     `yaml:"mean_score"`
	StdDevScore   float64     `yaml:"stddev_score"`
	MeanMoves     float64     `yaml:"mean_moves"`
	StdDevMoves   float64     `yaml:"stddev_moves"`
	BestTile      int         `yaml:"best_tile"`
	MaxTileCounts map[int]int `yaml:"max_tile_counts"`
}

// Summarize computes win/loss counts and score statistics.
func Summarize(results []Result) Summary {
	s := Summary{Games: len(results)}
	if len(results) == 0 {
		return s
	}
	s.Wins = lo.CountBy(results, func(r Result) bool { return r.State == game.Won })
	s.Losses = lo.CountBy(results, func(r Result) bool { return r.State == game.Lost })
	s.WinRate = float64(s.Wins) / float64(s.Games)

	scores := lo.Map(results, func(r Result, _ int) float64 { return float64(r.Score) })
	moves := lo.Map(results, func(r Result, _ int) float64 { return float64(r.Moves) })
	s.MeanScore, s.StdDevScore = stat.MeanStdDev(scores, nil)
	s.MeanMoves, s.StdDevMoves = stat.MeanStdDev(moves, nil)

	s.MaxTileCounts = lo.CountValuesBy(results, func(r Result) int { return r.MaxTile })
	s.BestTile = lo.MaxBy(results, func(a, b Result) bool { return a.MaxTile > b.MaxTile }).MaxTile
	return s
}

// WriteYAML writes the summary as a YAML document.
func (s Summary) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

func (s Summary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "games: %d  wins: %d  losses: %d  win rate: %.1f%%\n",
		s.Games, s.Wins, s.Losses, 100*s.WinRate)
	fmt.Fprintf(&sb, "score: %.1f ± %.1f  moves: %.1f ± %.1f\n",
		s.MeanScore, s.StdDevScore, s.MeanMoves, s.StdDevMoves)
	tiles := lo.Keys(s.MaxTileCounts)
	sort.Ints(tiles)
	for _, t := range tiles {
		fmt.Fprintf(&sb, "%6d: %d\n", t, s.MaxTileCounts[t])
	}
	return sb.String()
}

// FprintHistogram draws a histogram of log2(max tile) over the batch.
func FprintHistogram(w io.Writer, results []Result, bins int) error {
	if len(results) == 0 {
		return nil
	}
	exps := lo.Map(results, func(r Result, _ int) float64 {
		return float64(bits.TrailingZeros(uint(r.MaxTile)))
	})
	h := histogram.Hist(bins, exps)
	io.WriteString(w, "log2(max tile)\n")
	return histogram.Fprint(w, h, histogram.Linear(40))
}
