// Command bread manages the personal-finance ledger store: schema
// initialization, validation and integrity checks.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/bread-finance/bread/internal/commands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commands.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
