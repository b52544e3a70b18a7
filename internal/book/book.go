package book

import (
	"fmt"
	"slices"
	"strings"

	"option_book/internal/models"
)

// Book is the full set of tables built from one snapshot.
//
// Option tables can be found by their exact ticker or case-insensitively: the exact key and its
// lowercase alias resolve to the same *PositionTable. The lookup index is built once and never
// changes afterwards.
type Book struct {
	options map[string]*PositionTable
	index   map[string]*PositionTable
	tickers []string
	stocks  *PositionTable
}

// NewBook classifies the snapshot and builds one option table per underlying plus the stock table.
// The first malformed option position aborts the build.
func NewBook(positions []models.Position) (*Book, error) {
	groups := ClassifyOptions(positions)
	b := &Book{
		options: make(map[string]*PositionTable, len(groups)),
		index:   make(map[string]*PositionTable, 2*len(groups)),
		tickers: make([]string, 0, len(groups)),
	}
	for ticker := range groups {
		b.tickers = append(b.tickers, ticker)
	}
	slices.Sort(b.tickers)

	for _, ticker := range b.tickers {
		t, err := BuildOptionTable(groups[ticker])
		if err != nil {
			return nil, fmt.Errorf("building %s option table: %w", ticker, err)
		}
		b.options[ticker] = t
		b.index[ticker] = t
	}
	// Aliases come second so that an exact ticker is never shadowed.
	for _, ticker := range b.tickers {
		alias := strings.ToLower(ticker)
		if _, taken := b.index[alias]; !taken {
			b.index[alias] = b.options[ticker]
		}
	}

	stocks, err := BuildStockTable(Filter(positions, models.Stock))
	if err != nil {
		return nil, err
	}
	b.stocks = stocks
	return b, nil
}

// Tickers returns the underlyings holding options, sorted.
func (b *Book) Tickers() []string { return slices.Clone(b.tickers) }

// Table returns the option table of a ticker, matched exactly.
func (b *Book) Table(ticker string) (*PositionTable, bool) {
	t, ok := b.options[ticker]
	return t, ok
}

// Lookup returns the option table of a ticker, ignoring case.
func (b *Book) Lookup(ticker string) (*PositionTable, bool) {
	if t, ok := b.index[ticker]; ok {
		return t, true
	}
	t, ok := b.index[strings.ToLower(ticker)]
	return t, ok
}

// Stocks returns the collapsed stock table.
func (b *Book) Stocks() *PositionTable { return b.stocks }
