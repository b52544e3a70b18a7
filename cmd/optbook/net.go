package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"option_book/internal/book"
	"option_book/internal/models"
	"option_book/internal/report"

	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

// netCmd holds the flags for the 'net' subcommand.
type netCmd struct {
	expiry string
	format string
}

func (*netCmd) Name() string     { return "net" }
func (*netCmd) Synopsis() string { return "print net calls, net puts and P&L per underlying" }
func (*netCmd) Usage() string {
	return `optbook net [-expiry <YYYY-MM-DD>|nearest] [-format text|markdown|json]

  Prints one line per underlying. With -expiry only positions of that expiry are
  counted; 'nearest' picks, for each underlying, its first expiry from today.
`
}

func (c *netCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.expiry, "expiry", "", "Restrict to one expiry: a date (YYYY-MM-DD) or 'nearest'.")
	f.StringVar(&c.format, "format", "", "Output format: text, markdown or json. Defaults to the configuration.")
}

func (c *netCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var (
		expiry  *models.Date
		nearest = strings.EqualFold(c.expiry, "nearest")
	)
	if c.expiry != "" && !nearest {
		d, err := models.ParseDate(c.expiry)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing expiry: %v\n", err)
			return subcommands.ExitUsageError
		}
		expiry = &d
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
	res, err := a.run(ctx, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building option book: %v\n", err)
		return subcommands.ExitFailure
	}

	if expiry != nil {
		warnUnheldExpiry(res.Book, "", *expiry)
	}
	sums := netSummaries(res.Book, expiry, nearest, models.Today())

	var b strings.Builder
	if err := report.RenderNet(&b, sums, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering net positions: %v\n", err)
		return subcommands.ExitFailure
	}
	a.print(b.String(), opts, false)
	return subcommands.ExitSuccess
}

// netSummaries summarizes every underlying. With nearest, each one is restricted to its
// first expiry on or after today; one with no such expiry is summarized over all of them,
// as the options command does.
func netSummaries(b *book.Book, expiry *models.Date, nearest bool, today models.Date) []book.NetSummary {
	sums := make([]book.NetSummary, 0, len(b.Tickers()))
	for _, ticker := range b.Tickers() {
		t, _ := b.Table(ticker)
		e := expiry
		if nearest {
			e = nil
			if d, ok := book.NearestExpiry(t, today); ok {
				e = &d
			} else {
				log.Debug().Str("ticker", ticker).Msg("no expiry from today, summarizing all expiries")
			}
		}
		sums = append(sums, book.Summarize(t, e))
	}
	return sums
}
