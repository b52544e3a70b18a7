package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"option_book/internal/book"
	"option_book/internal/models"

	"github.com/shopspring/decimal"
)

// Query selects what WriteOptions prints.
type Query struct {
	// Ticker restricts the report to one underlying, looked up case-insensitively.
	Ticker string
	// Expiry restricts the net summary to one expiry.
	Expiry *models.Date
	// Nearest picks, per ticker, the first expiry on or after On. Ignored when Expiry is set.
	Nearest bool
	On      models.Date
	// Underlying holds last traded prices shown next to each ticker.
	Underlying map[string]decimal.Decimal
}

// Section is the report of one underlying.
type Section struct {
	Ticker     string              `json:"ticker"`
	Underlying *decimal.Decimal    `json:"underlying,omitempty"`
	Table      *book.PositionTable `json:"table"`
	Summary    book.NetSummary     `json:"summary"`
}

// Sections resolves a query against a book, in ticker order.
func Sections(b *book.Book, q Query) ([]Section, error) {
	tickers := b.Tickers()
	if q.Ticker != "" {
		t, ok := b.Lookup(q.Ticker)
		if !ok {
			return nil, fmt.Errorf("no option positions for %q", q.Ticker)
		}
		tickers = []string{t.Ticker()}
	}

	sections := make([]Section, 0, len(tickers))
	for _, ticker := range tickers {
		t, _ := b.Table(ticker)
		expiry := q.Expiry
		if expiry == nil && q.Nearest {
			if d, ok := book.NearestExpiry(t, q.On); ok {
				expiry = &d
			}
		}
		s := Section{Ticker: ticker, Table: t, Summary: book.Summarize(t, expiry)}
		if p, ok := q.Underlying[ticker]; ok {
			s.Underlying = &p
		}
		sections = append(sections, s)
	}
	return sections, nil
}

// WriteOptions prints every selected option table followed by its net summary.
func WriteOptions(w io.Writer, b *book.Book, q Query, opts Options) error {
	sections, err := Sections(b, q)
	if err != nil {
		return err
	}
	if opts.Format == JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sections)
	}

	for i, s := range sections {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, heading(s, opts)); err != nil {
			return err
		}
		if err := Render(w, s.Table, opts); err != nil {
			return fmt.Errorf("rendering %s: %w", s.Ticker, err)
		}
		if opts.Format == Markdown {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := WriteSummary(w, s.Summary, opts); err != nil {
			return err
		}
	}
	return nil
}

// WriteStocks prints the stock table.
func WriteStocks(w io.Writer, b *book.Book, opts Options) error {
	if opts.Format == Markdown {
		if _, err := io.WriteString(w, "## Stocks\n\n"); err != nil {
			return err
		}
	}
	return Render(w, b.Stocks(), opts)
}

func heading(s Section, opts Options) string {
	title := s.Ticker
	if s.Underlying != nil {
		title += " (last " + formatMoney(*s.Underlying, opts.currency()) + ")"
	}
	if opts.Format == Markdown {
		return "## " + title + "\n\n"
	}
	return title + "\n" + strings.Repeat("=", utf8.RuneCountInString(title)) + "\n"
}
