package book

import (
	"option_book/internal/models"

	"github.com/shopspring/decimal"
)

// NetSummary is the per-underlying aggregate printed after each table.
type NetSummary struct {
	Ticker        string          `json:"ticker"`
	Expiry        *models.Date    `json:"expiry,omitempty"`
	NetCalls      int64           `json:"net_calls"`
	NetPuts       int64           `json:"net_puts"`
	MarketValue   decimal.Decimal `json:"market_value"`
	UnrealizedPnL decimal.Decimal `json:"unrealized_pnl"`
}

// rowsOf returns the rows restricted to an optional expiry.
func rowsOf(t *PositionTable, expiry *models.Date) []Row {
	if t == nil {
		return nil
	}
	if expiry != nil {
		return t.RowsFor(*expiry)
	}
	return t.rows
}

// NetPosition sums the signed quantity of the rows with the given right,
// restricted to one expiry when expiry is not nil. No match sums to 0.
func NetPosition(t *PositionTable, right models.Right, expiry *models.Date) int64 {
	var net int64
	for _, r := range rowsOf(t, expiry) {
		if r.Right == right {
			net += r.Quantity
		}
	}
	return net
}

// UnrealizedPnL sums the unrealized profit and loss, optionally for one expiry.
func UnrealizedPnL(t *PositionTable, expiry *models.Date) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rowsOf(t, expiry) {
		total = total.Add(r.UnrealizedPnL)
	}
	return total
}

// MarketValue sums the market value, optionally for one expiry.
func MarketValue(t *PositionTable, expiry *models.Date) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rowsOf(t, expiry) {
		total = total.Add(r.MarketValue)
	}
	return total
}

// Summarize computes the net calls, net puts and totals of a table.
func Summarize(t *PositionTable, expiry *models.Date) NetSummary {
	s := NetSummary{
		NetCalls:      NetPosition(t, models.Call, expiry),
		NetPuts:       NetPosition(t, models.Put, expiry),
		MarketValue:   MarketValue(t, expiry),
		UnrealizedPnL: UnrealizedPnL(t, expiry),
	}
	if t != nil {
		s.Ticker = t.ticker
	}
	if expiry != nil {
		e := *expiry
		s.Expiry = &e
	}
	return s
}

// NearestExpiry returns the first expiry of the table falling on or after on.
func NearestExpiry(t *PositionTable, on models.Date) (models.Date, bool) {
	if t == nil {
		return models.Date{}, false
	}
	for _, e := range t.expiries {
		if !e.Before(on) {
			return e, true
		}
	}
	return models.Date{}, false
}

// HasExpiry reports whether at least one row expires on the given date.
func HasExpiry(t *PositionTable, expiry models.Date) bool {
	if t == nil {
		return false
	}
	_, ok := t.byExpiry[expiry]
	return ok
}
