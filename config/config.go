package config

import (
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug         = "debug"
	ConfigThreads       = "threads"
	ConfigMemoize       = "memoize"
	ConfigSeed          = "seed"
	ConfigGames         = "games"
	ConfigBatchThreads  = "batch-threads"
	ConfigResultsFile   = "results-file"
	ConfigSummaryFile   = "summary-file"
	ConfigHistogramBins = "histogram-bins"
	ConfigSpawnOnNoop   = "spawn-on-noop"
	ConfigCPUProfile    = "cpu-profile"
	ConfigHistoryFile   = "history-file"
)

const envPrefix = "TWENTYFORTYEIGHT"

type Config struct {
	*viper.Viper

	args []string
}

func defaultBatchThreads() int {
	return max(1, runtime.NumCPU()-1)
}

func (c *Config) setDefaults() {
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigThreads, 1)
	c.SetDefault(ConfigMemoize, true)
	c.SetDefault(ConfigSeed, 0)
	c.SetDefault(ConfigGames, 50)
	c.SetDefault(ConfigBatchThreads, defaultBatchThreads())
	c.SetDefault(ConfigResultsFile, "ai_test_results.csv")
	c.SetDefault(ConfigSummaryFile, "")
	c.SetDefault(ConfigHistogramBins, 8)
	c.SetDefault(ConfigSpawnOnNoop, false)
	c.SetDefault(ConfigCPUProfile, "")
	c.SetDefault(ConfigHistoryFile, "/tmp/twentyfortyeight_readline.tmp")
}

func newConfig() *Config {
	c := &Config{Viper: viper.New()}
	c.setDefaults()
	c.SetEnvPrefix(envPrefix)
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	return c
}

// DefaultConfig returns a config with defaults and environment
// overrides, without parsing any command-line flags.
func DefaultConfig() *Config {
	return newConfig()
}

// Load parses command-line flags on top of the defaults and the
// environment. Flags win over environment variables.
func (c *Config) Load(args []string) error {
	if c.Viper == nil {
		*c = *newConfig()
	}
	fs := pflag.NewFlagSet("twentyfortyeight", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.Int(ConfigThreads, 1, "threads for the root of each search")
	fs.Bool(ConfigMemoize, true, "cache node values within one search")
	fs.Int64(ConfigSeed, 0, "random seed for tile spawns; 0 picks a random one")
	fs.Int(ConfigGames, 50, "number of games for a batch run")
	fs.Int(ConfigBatchThreads, defaultBatchThreads(), "games played at once in a batch run")
	fs.String(ConfigResultsFile, "ai_test_results.csv", "CSV file with one row per batch game")
	fs.String(ConfigSummaryFile, "", "YAML file for the batch summary; empty to skip")
	fs.Int(ConfigHistogramBins, 8, "bins in the max-tile histogram")
	fs.Bool(ConfigSpawnOnNoop, false, "spawn a tile even after a move that changed nothing")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	fs.String(ConfigHistoryFile, "/tmp/twentyfortyeight_readline.tmp", "shell history file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()
	return c.BindPFlags(fs)
}

// Args returns the positional arguments left over after Load.
func (c *Config) Args() []string {
	return c.args
}

// SanitizedSettings returns all settings for logging.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}
