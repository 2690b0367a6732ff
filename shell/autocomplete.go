package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/domino14/twentyfortyeight/config"
)

// ShellCompleter completes command names and their arguments.
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

var commandNames = []string{
	"new", "load", "show", "move", "w", "a", "s", "d", "hint", "ai",
	"autoplay", "eval", "batch", "set", "help", "exit",
}

var commandArgs = map[string][]string{
	"move": {"up", "left", "down", "right"},
	"help": {"move", "ai", "batch", "set", "load"},
	"set": {config.ConfigThreads, config.ConfigMemoize, config.ConfigSeed,
		config.ConfigGames, config.ConfigSpawnOnNoop, config.ConfigResultsFile},
}

var boolValues = []string{"true", "false"}

// Do implements readline.AutoCompleter.
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])
	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string
	switch {
	case len(fields) == 0 || (len(fields) == 1 && !endsWithSpace):
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	default:
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		argIdx := len(fields) - 1
		if !endsWithSpace {
			argIdx--
		}
		cmdName := strings.ToLower(fields[0])
		if cmdName == "set" && argIdx == 1 {
			switch fields[1] {
			case config.ConfigMemoize, config.ConfigSpawnOnNoop:
				completions = boolValues
			}
		} else if argIdx == 0 {
			completions = commandArgs[cmdName]
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len([]rune(prefix))
}
