package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/twentyfortyeight/automatic"
	"github.com/domino14/twentyfortyeight/board"
	"github.com/domino14/twentyfortyeight/config"
	"github.com/domino14/twentyfortyeight/equity"
	"github.com/domino14/twentyfortyeight/game"
)

var errNoGame = errors.New("please start a game first with the `new` or `load` command")

func (sc *ShellController) gameRand(seed int64) game.Rand {
	if seed == 0 {
		seed = int64(frand.Uint64n(1<<62)) + 1
	}
	sc.seed = seed
	return game.NewRand(seed)
}

func (sc *ShellController) display() string {
	g := sc.game
	return fmt.Sprintf("%s\nscore: %d  turn: %d  state: %s",
		g.Grid().String(), g.Score(), g.Turn(), g.State())
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	seed := sc.config.GetInt64(config.ConfigSeed)
	if len(cmd.args) > 0 {
		var err error
		seed, err = strconv.ParseInt(cmd.args[0], 10, 64)
		if err != nil {
			return nil, err
		}
	}
	sc.game = game.NewGame(sc.gameRand(seed))
	sc.game.SetSpawnOnNoop(sc.config.GetBool(config.ConfigSpawnOnNoop))
	log.Info().Int64("seed", sc.seed).Msg("new-game")
	return msg(sc.display()), nil
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("load needs a grid of 16 numbers")
	}
	grid, err := board.ParseGrid(strings.Join(cmd.args, " "))
	if err != nil {
		return nil, err
	}
	g, err := game.NewGameFromGrid(grid, sc.gameRand(sc.config.GetInt64(config.ConfigSeed)))
	if err != nil {
		return nil, err
	}
	g.SetSpawnOnNoop(sc.config.GetBool(config.ConfigSpawnOnNoop))
	sc.game = g
	return msg(sc.display()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	return msg(sc.display()), nil
}

func (sc *ShellController) move(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("move takes one direction: w/a/s/d or up/left/down/right")
	}
	d, err := board.ParseDirection(cmd.args[0])
	if err != nil {
		return nil, err
	}
	changed, st := sc.game.Play(d)
	out := sc.display()
	if !changed {
		out = "Nothing moved.\n" + out
	}
	return msg(out + stateBanner(st)), nil
}

func stateBanner(st game.State) string {
	switch st {
	case game.Won:
		return "\nYou reached 2048! You won!"
	case game.Lost:
		return "\nNo more moves left. Game Over!"
	}
	return ""
}

func (sc *ShellController) hint(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	dec := sc.runner.Solver().DecideWithStats(sc.game.Grid())
	if dec.Direction == board.NoDirection {
		return msg("No legal moves."), nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "depth %d, %d nodes, %v\n", dec.Depth, dec.Nodes, dec.Elapsed)
	for _, d := range board.Directions {
		v, ok := dec.Values[d]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "  %-5s (%s) %10.3f", d, d.Key(), v)
		if d == dec.Direction {
			sb.WriteString("  <- best")
		}
		sb.WriteString("\n")
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) aiplay(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	n := 1
	if len(cmd.args) > 0 {
		var err error
		n, err = strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
	}
	var sb strings.Builder
	for i := 0; i < n && sc.game.Playing(); i++ {
		d := sc.runner.Solver().Decide(sc.game.Grid())
		if d == board.NoDirection {
			sc.game.Resign()
			break
		}
		sc.game.Play(d)
		fmt.Fprintf(&sb, "AI plays %s\n", d)
	}
	sb.WriteString(sc.display())
	sb.WriteString(stateBanner(sc.game.State()))
	return msg(sb.String()), nil
}

func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	res, err := sc.runner.PlayToEnd(context.Background(), sc.game, sc.seed)
	if err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("%s\nAI made %d moves in %v%s",
		sc.display(), res.Moves, res.Elapsed, stateBanner(res.State))), nil
}

func (sc *ShellController) eval(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	return msg(equity.Explain(sc.game.Grid()).String()), nil
}

func (sc *ShellController) batch(cmd *shellcmd) (*Response, error) {
	games := sc.config.GetInt(config.ConfigGames)
	threads := sc.config.GetInt(config.ConfigBatchThreads)
	var err error
	if len(cmd.args) > 0 {
		if games, err = strconv.Atoi(cmd.args[0]); err != nil {
			return nil, err
		}
	}
	if len(cmd.args) > 1 {
		if threads, err = strconv.Atoi(cmd.args[1]); err != nil {
			return nil, err
		}
	}
	if games < 0 {
		return nil, fmt.Errorf("%w: %d", automatic.ErrBadGameCount, games)
	}
	fn := sc.config.GetString(config.ConfigResultsFile)
	f, err := os.Create(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	results, err := automatic.PlayGames(context.Background(), sc.config, games, threads, f)
	if err != nil {
		return nil, err
	}
	summary := automatic.Summarize(results)
	if sfn := sc.config.GetString(config.ConfigSummaryFile); sfn != "" {
		sf, err := os.Create(sfn)
		if err != nil {
			return nil, err
		}
		defer sf.Close()
		if err := summary.WriteYAML(sf); err != nil {
			return nil, err
		}
	}
	var sb strings.Builder
	sb.WriteString(summary.String())
	if err := automatic.FprintHistogram(&sb, results,
		sc.config.GetInt(config.ConfigHistogramBins)); err != nil {
		return nil, err
	}
	sb.WriteString("results written to " + fn)
	return msg(sb.String()), nil
}

var settable = map[string]bool{
	config.ConfigThreads:     true,
	config.ConfigMemoize:     true,
	config.ConfigSeed:        true,
	config.ConfigGames:       true,
	config.ConfigSpawnOnNoop: true,
	config.ConfigResultsFile: true,
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		var sb strings.Builder
		for _, k := range []string{config.ConfigThreads, config.ConfigMemoize,
			config.ConfigSeed, config.ConfigGames, config.ConfigSpawnOnNoop,
			config.ConfigResultsFile} {
			fmt.Fprintf(&sb, "%s: %v\n", k, sc.config.Get(k))
		}
		return msg(strings.TrimRight(sb.String(), "\n")), nil
	}
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: set <option> <value>")
	}
	key, val := cmd.args[0], cmd.args[1]
	if !settable[key] {
		return nil, fmt.Errorf("%s is not a settable option", key)
	}
	sc.config.Set(key, val)
	// the runner captures solver options when built
	sc.runner = automatic.NewGameRunner(sc.config)
	if sc.game != nil && key == config.ConfigSpawnOnNoop {
		sc.game.SetSpawnOnNoop(sc.config.GetBool(key))
	}
	return msg(fmt.Sprintf("set %s to %v", key, sc.config.Get(key))), nil
}
