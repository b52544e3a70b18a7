package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"option_book/internal/models"
	"option_book/internal/report"

	"github.com/google/subcommands"
)

// optionsCmd holds the flags for the 'options' subcommand.
type optionsCmd struct {
	ticker      string
	expiry      string
	format      string
	glamour     bool
	underlying  bool
	notify      bool
	interactive bool
}

func (*optionsCmd) Name() string { return "options" }
func (*optionsCmd) Synopsis() string {
	return "print option tables grouped by expiry, with net calls and puts"
}
func (*optionsCmd) Usage() string {
	return `optbook [-source alpaca|file] [-snapshot <file>] options [-ticker <T>] [-expiry <YYYY-MM-DD>|nearest] [-format text|markdown|json] [-glamour] [-underlying] [-notify] [-i]

  Prints one table per underlying holding options. Rows are grouped by expiry, oldest
  first, and each table is followed by its net calls and net puts. With -expiry the
  net line and the unrealized P&L are restricted to that expiry.
`
}

func (c *optionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "ticker", "", "Underlying to print, case insensitive. All underlyings when empty.")
	f.StringVar(&c.expiry, "expiry", "", "Expiry of the net line: a date (YYYY-MM-DD) or 'nearest' for the first expiry from today.")
	f.StringVar(&c.format, "format", "", "Output format: text, markdown or json. Defaults to the configuration.")
	f.BoolVar(&c.glamour, "glamour", false, "Style markdown output for the terminal.")
	f.BoolVar(&c.underlying, "underlying", false, "Show the last traded price of each underlying.")
	f.BoolVar(&c.notify, "notify", false, "Also send the report to the configured Telegram chat.")
	f.BoolVar(&c.interactive, "i", false, "After printing, read lookup commands from stdin.")
}

func (c *optionsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	q := report.Query{Ticker: c.ticker}
	switch strings.ToLower(c.expiry) {
	case "":
	case "nearest":
		q.Nearest, q.On = true, models.Today()
	default:
		d, err := models.ParseDate(c.expiry)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing expiry: %v\n", err)
			return subcommands.ExitUsageError
		}
		q.Expiry = &d
	}

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

	res, err := a.run(ctx, c.underlying)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building option book: %v\n", err)
		return subcommands.ExitFailure
	}
	q.Underlying = res.Underlying
	if q.Expiry != nil {
		warnUnheldExpiry(res.Book, q.Ticker, *q.Expiry)
	}

	var b strings.Builder
	if err := report.WriteOptions(&b, res.Book, q, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering report: %v\n", err)
		return subcommands.ExitFailure
	}
	a.print(b.String(), opts, c.glamour)

	// Post-report work runs in order and stops at the first failure.
	var hooks []report.Hook
	if c.notify || a.cfg.Telegram.Enabled {
		title := "Option book " + models.DateOf(res.FetchedAt).String()
		hooks = append(hooks, a.notifyHook(title, b.String()))
	}
	if c.interactive {
		shellOpts := opts
		if shellOpts.Format == report.JSON {
			shellOpts.Format = report.Text
		}
		hooks = append(hooks, report.Shell(os.Stdin, os.Stdout, shellOpts))
	}
	if err := report.Chain(hooks...)(ctx, res.Book); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
