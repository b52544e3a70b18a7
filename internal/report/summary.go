package report

import (
	"encoding/json"
	"fmt"
	"io"

	"option_book/internal/book"
)

var netHeader = []string{"TICKER", "EXPIRY", "NET CALLS", "NET PUTS", "MKT VALUE", "UNRLZD P&L"}

// WriteSummary prints the net line that follows an option table:
//
//	net calls: 2  net puts: -1
//	unrealized P&L 2025-07-18: +$150.00
//
// The P&L line is only printed when the summary is restricted to one expiry.
func WriteSummary(w io.Writer, s book.NetSummary, opts Options) error {
	if opts.Format == JSON {
		return json.NewEncoder(w).Encode(s)
	}
	lineBreak := "\n"
	if opts.Format == Markdown {
		lineBreak = "  \n"
	}
	out := fmt.Sprintf("net calls: %d  net puts: %d%s", s.NetCalls, s.NetPuts, lineBreak)
	if s.Expiry != nil {
		out += fmt.Sprintf("unrealized P&L %s: %s%s", s.Expiry, formatSigned(s.UnrealizedPnL, opts.currency()), lineBreak)
	}
	_, err := io.WriteString(w, out)
	return err
}

// RenderNet prints one line per summary.
func RenderNet(w io.Writer, sums []book.NetSummary, opts Options) error {
	if opts.Format == JSON {
		if sums == nil {
			sums = []book.NetSummary{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sums)
	}

	cur := opts.currency()
	g := grid{header: netHeader, right: []bool{false, false, true, true, true, true}}
	for _, s := range sums {
		expiry := "all"
		if s.Expiry != nil {
			expiry = s.Expiry.String()
		}
		g.rows = append(g.rows, []string{
			s.Ticker,
			expiry,
			formatQty(s.NetCalls),
			formatQty(s.NetPuts),
			formatMoney(s.MarketValue, cur),
			formatSigned(s.UnrealizedPnL, cur),
		})
	}
	if opts.Format == Markdown {
		return renderMarkdown(w, g)
	}
	return renderText(w, g)
}
