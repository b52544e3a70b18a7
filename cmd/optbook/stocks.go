package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"option_book/internal/report"

	"github.com/google/subcommands"
)

// stocksCmd holds the flags for the 'stocks' subcommand.
type stocksCmd struct {
	format  string
	glamour bool
}

func (*stocksCmd) Name() string     { return "stocks" }
func (*stocksCmd) Synopsis() string { return "print stock positions, one row per ticker" }
func (*stocksCmd) Usage() string {
	return `optbook stocks [-format text|markdown|json] [-glamour]

  Prints the stock positions. A ticker reported more than once by the broker keeps
  its last position and a warning is logged.
`
}

func (c *stocksCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "", "Output format: text, markdown or json. Defaults to the configuration.")
	f.BoolVar(&c.glamour, "glamour", false, "Style markdown output for the terminal.")
}

func (c *stocksCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	opts, err := a.reportOptions(c.format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	res, err := a.run(ctx, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building option book: %v\n", err)
		return subcommands.ExitFailure
	}

	var b strings.Builder
	if err := report.WriteStocks(&b, res.Book, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering stocks: %v\n", err)
		return subcommands.ExitFailure
	}
	a.print(b.String(), opts, c.glamour)
	return subcommands.ExitSuccess
}
