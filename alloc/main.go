package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/allocation/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes the command line for shell completion
// (COMP_INSTALL=1 alloc installs it).
func completion() *complete.Command {
	files := predict.Files("*.json")
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"db": predict.Files("*.db"),
		},
		Sub: map[string]*complete.Command{
			"tree": {Flags: map[string]complete.Predictor{"hierarchy": files, "plan": files}},
			"chart": {Flags: map[string]complete.Predictor{
				"hierarchy": files, "plan": files, "snapshot": files, "clicks": predict.Nothing,
			}},
			"validate": {Flags: map[string]complete.Predictor{"hierarchy": files, "plan": files, "snapshot": files}},
			"import": {Flags: map[string]complete.Predictor{
				"hierarchy": files, "plan": files, "snapshot": files, "name": predict.Nothing,
			}},
			"plans": {},
			"serve": {Flags: map[string]complete.Predictor{"port": predict.Nothing}},
			"topic": {Args: predict.Set{"readme", "hierarchy", "drilldown", "server", "*"}},
		},
	}
}

func main() {
	completion().Complete("alloc")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
