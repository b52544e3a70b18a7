package report

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"option_book/internal/book"
	"option_book/internal/models"
)

const shellHelp = `commands:
  <ticker> [YYYY-MM-DD]  option table of an underlying, with the net line of one expiry
  stocks                 stock table
  net                    net calls and puts of every underlying
  tickers                underlyings holding options
  help                   this text
  quit                   leave
`

// Shell returns a Hook reading lookup commands from in until EOF, quit or ctx is done.
// Errors of a single command are printed and do not end the session.
func Shell(in io.Reader, out io.Writer, opts Options) Hook {
	return func(ctx context.Context, b *book.Book) error {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		// The read blocks until a line arrives, so it runs apart from the loop
		// to let a cancelled ctx end the session at once.
		lines := make(chan string)
		scanErr := make(chan error, 1)
		go func() {
			defer close(lines)
			sc := bufio.NewScanner(in)
			for sc.Scan() {
				select {
				case lines <- sc.Text():
				case <-ctx.Done():
					return
				}
			}
			scanErr <- sc.Err()
		}()

		fmt.Fprint(out, "> ")
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			var (
				line string
				ok   bool
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case line, ok = <-lines:
			}
			if !ok {
				if err := ctx.Err(); err != nil {
					return err
				}
				return <-scanErr
			}
			fields := strings.Fields(line)
			if len(fields) > 0 {
				switch fields[0] {
				case "quit", "exit", "q":
					return nil
				}
				if err := runShellCommand(out, b, fields, opts); err != nil {
					fmt.Fprintf(out, "error: %v\n", err)
				}
			}
			fmt.Fprint(out, "> ")
		}
	}
}

func runShellCommand(out io.Writer, b *book.Book, fields []string, opts Options) error {
	switch fields[0] {
	case "help", "?":
		_, err := io.WriteString(out, shellHelp)
		return err
	case "tickers":
		_, err := fmt.Fprintln(out, strings.Join(b.Tickers(), " "))
		return err
	case "stocks":
		return WriteStocks(out, b, opts)
	case "net":
		sums := make([]book.NetSummary, 0, len(b.Tickers()))
		for _, ticker := range b.Tickers() {
			t, _ := b.Table(ticker)
			sums = append(sums, book.Summarize(t, nil))
		}
		return RenderNet(out, sums, opts)
	}

	q := Query{Ticker: fields[0]}
	if len(fields) > 1 {
		d, err := models.ParseDate(fields[1])
		if err != nil {
			return err
		}
		q.Expiry = &d
	}
	return WriteOptions(out, b, q, opts)
}
