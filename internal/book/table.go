package book

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"

	"option_book/internal/models"

	"github.com/shopspring/decimal"
)

// Option quantities are held in a signed 16-bit column. Anything outside is rejected
// instead of wrapping around.
const (
	MinOptionQuantity = math.MinInt16
	MaxOptionQuantity = math.MaxInt16
)

// Kind tells how a table is keyed.
type Kind int

const (
	OptionTable Kind = iota // one underlying, rows indexed by expiry
	StockTable              // one row per ticker
)

func (k Kind) String() string {
	if k == StockTable {
		return "stock"
	}
	return "option"
}

// Row is one position inside a table.
type Row struct {
	Ticker        string          `json:"ticker"`
	Symbol        string          `json:"symbol,omitempty"`
	Strike        decimal.Decimal `json:"strike"`
	Quantity      int64           `json:"quantity"`
	Right         models.Right    `json:"right,omitempty"`
	Expiry        string          `json:"expiry,omitempty"`     // raw YYYYMMDD
	ExpiryISO     string          `json:"expiry_iso,omitempty"` // normalized 2025-07-18
	ExpiryDate    models.Date     `json:"-"`
	AvgCost       decimal.Decimal `json:"avg_cost"`
	MarketPrice   decimal.Decimal `json:"market_price"`
	MarketValue   decimal.Decimal `json:"market_value"`
	UnrealizedPnL decimal.Decimal `json:"unrealized_pnl"`
}

// PositionTable holds one row per position.
//
// Option tables belong to a single underlying and index their rows by expiry date.
// Stock tables are keyed by ticker instead. A table is never modified once built.
type PositionTable struct {
	ticker    string
	kind      Kind
	rows      []Row
	byExpiry  map[models.Date][]int
	expiries  []models.Date // ascending
	byTicker  map[string]int
	collapsed []string
}

// BuildOptionTable builds the option table of one underlying.
//
// Every position must share the same ticker. Raw expiries must be YYYYMMDD dates and
// quantities must fit in the signed 16-bit range, otherwise a *MalformedExpiryError or a
// *QuantityOverflowError is returned and no table is built.
func BuildOptionTable(positions []models.Position) (*PositionTable, error) {
	t := &PositionTable{
		kind:     OptionTable,
		rows:     make([]Row, 0, len(positions)),
		byExpiry: make(map[models.Date][]int),
	}
	if len(positions) > 0 {
		t.ticker = positions[0].Ticker
	}

	for _, p := range positions {
		if p.Ticker != t.ticker {
			return nil, fmt.Errorf("%w: %q in table of %q", ErrTickerMismatch, p.Ticker, t.ticker)
		}
		expiry, err := models.ParseExpiry(p.Expiry)
		if err != nil {
			return nil, &MalformedExpiryError{Ticker: p.Ticker, Symbol: p.Symbol, Expiry: p.Expiry, Err: err}
		}
		if p.Quantity < MinOptionQuantity || p.Quantity > MaxOptionQuantity {
			return nil, &QuantityOverflowError{
				Ticker:   p.Ticker,
				Symbol:   p.Symbol,
				Quantity: p.Quantity,
				Min:      MinOptionQuantity,
				Max:      MaxOptionQuantity,
			}
		}

		if _, seen := t.byExpiry[expiry]; !seen {
			t.expiries = append(t.expiries, expiry)
		}
		t.byExpiry[expiry] = append(t.byExpiry[expiry], len(t.rows))
		t.rows = append(t.rows, Row{
			Ticker:        p.Ticker,
			Symbol:        p.Symbol,
			Strike:        p.Strike,
			Quantity:      int64(int16(p.Quantity)),
			Right:         p.Right,
			Expiry:        p.Expiry,
			ExpiryISO:     expiry.String(),
			ExpiryDate:    expiry,
			AvgCost:       p.AvgCost,
			MarketPrice:   p.MarketPrice,
			MarketValue:   p.MarketValue,
			UnrealizedPnL: p.UnrealizedPnL,
		})
	}
	slices.SortFunc(t.expiries, models.Date.Compare)
	return t, nil
}

// BuildStockTable collapses stock positions into one row per ticker.
//
// The broker is not supposed to report the same ticker twice for an account, but nothing
// guarantees it. When it happens the last position wins: its quantity, cost, price, value and
// P&L overwrite the earlier ones, the row keeps the slot of the first occurrence, and the ticker
// is listed by Collapsed. Quantities are not summed.
func BuildStockTable(positions []models.Position) (*PositionTable, error) {
	t := &PositionTable{
		kind:     StockTable,
		rows:     make([]Row, 0, len(positions)),
		byTicker: make(map[string]int),
	}
	for _, p := range positions {
		row := Row{
			Ticker:        p.Ticker,
			Symbol:        p.Symbol,
			Quantity:      p.Quantity,
			AvgCost:       p.AvgCost,
			MarketPrice:   p.MarketPrice,
			MarketValue:   p.MarketValue,
			UnrealizedPnL: p.UnrealizedPnL,
		}
		if i, ok := t.byTicker[p.Ticker]; ok {
			t.rows[i] = row
			if !slices.Contains(t.collapsed, p.Ticker) {
				t.collapsed = append(t.collapsed, p.Ticker)
			}
			continue
		}
		t.byTicker[p.Ticker] = len(t.rows)
		t.rows = append(t.rows, row)
	}
	return t, nil
}

// Ticker returns the underlying of an option table, "" for stock tables.
func (t *PositionTable) Ticker() string { return t.ticker }

// Kind returns how the table is keyed.
func (t *PositionTable) Kind() Kind { return t.kind }

// Len returns the number of rows.
func (t *PositionTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Rows returns a copy of all rows, in input order.
func (t *PositionTable) Rows() []Row {
	if t == nil {
		return nil
	}
	return slices.Clone(t.rows)
}

// RowsFor returns the rows expiring on the given date, in input order.
func (t *PositionTable) RowsFor(expiry models.Date) []Row {
	if t == nil {
		return nil
	}
	idx := t.byExpiry[expiry]
	rows := make([]Row, len(idx))
	for i, j := range idx {
		rows[i] = t.rows[j]
	}
	return rows
}

// Expiries returns the distinct expiry dates in ascending order.
func (t *PositionTable) Expiries() []models.Date {
	if t == nil {
		return nil
	}
	return slices.Clone(t.expiries)
}

// Stock returns the row of a ticker in a stock table.
func (t *PositionTable) Stock(ticker string) (Row, bool) {
	if t == nil {
		return Row{}, false
	}
	i, ok := t.byTicker[ticker]
	if !ok {
		return Row{}, false
	}
	return t.rows[i], true
}

// Collapsed lists the tickers of a stock table that were reported more than once.
func (t *PositionTable) Collapsed() []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.collapsed)
}

// MarshalJSON exposes the table as a plain record.
func (t *PositionTable) MarshalJSON() ([]byte, error) {
	rows := t.rows
	if rows == nil {
		rows = []Row{}
	}
	return json.Marshal(struct {
		Ticker string `json:"ticker,omitempty"`
		Kind   string `json:"kind"`
		Rows   []Row  `json:"rows"`
	}{t.ticker, t.kind.String(), rows})
}
