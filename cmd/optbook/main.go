// Command optbook prints a brokerage portfolio as per-underlying option tables.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"

	"github.com/google/subcommands"
)

// VersionFile holds the release version, read when present.
const VersionFile = "version.latest"

// Global flags, shared by every subcommand.
var (
	configPath = flag.String("config", "", "TOML configuration file. Defaults to option_book.toml when present.")
	source     = flag.String("source", "", "Portfolio source: alpaca or file. Overrides the configuration.")
	snapshot   = flag.String("snapshot", "", "JSON snapshot read by the file source. Implies -source=file.")
	logLevel   = flag.String("log-level", "", "Log level: debug, info, warn or error.")
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	for _, c := range commands {
		commander.Register(c, "")
	}

	flag.Parse()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	status := commander.Execute(ctx)
	stop()
	os.Exit(int(status))
}

var commands = []subcommands.Command{
	&optionsCmd{},
	&stocksCmd{},
	&netCmd{},
	&versionCmd{},
}

type versionCmd struct{}

func (*versionCmd) Name() string             { return "version" }
func (*versionCmd) Synopsis() string         { return "print the optbook version" }
func (*versionCmd) Usage() string            { return "optbook version\n" }
func (*versionCmd) SetFlags(_ *flag.FlagSet) {}

func (*versionCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	os.Stdout.WriteString(readVersion() + "\n")
	return subcommands.ExitSuccess
}

func readVersion() string {
	version, err := os.ReadFile(VersionFile)
	if err != nil {
		return "v0.0.0-dev"
	}
	return strings.TrimSpace(string(version))
}
