package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SecType is the broker's security type of a holding.
type SecType string

const (
	Option SecType = "OPT"
	Stock  SecType = "STK"
)

// Right tells whether an option is a call or a put.
// Non-option holdings carry NoRight.
type Right string

const (
	NoRight Right = ""
	Call    Right = "C"
	Put     Right = "P"
)

// ParseRight accepts "C", "P", "CALL", "PUT" in any case.
func ParseRight(s string) (Right, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "C", "CALL":
		return Call, true
	case "P", "PUT":
		return Put, true
	}
	return NoRight, false
}

func (r Right) String() string {
	switch r {
	case Call:
		return "C"
	case Put:
		return "P"
	}
	return "-"
}

// Position is one broker holding, as fetched from the broker.
//
// Positions are snapshots: nothing downstream modifies them.
// Option-only fields (Strike, Right, Expiry) are zero for other security types.
type Position struct {
	Ticker        string          `json:"ticker"`             // Underlying symbol, case preserved (e.g. "AAPL")
	Symbol        string          `json:"symbol,omitempty"`   // Broker contract symbol (e.g. "AAPL250718C00200000")
	SecType       SecType         `json:"sec_type"`           // OPT, STK, ...
	Strike        decimal.Decimal `json:"strike"`             // Option strike price
	Right         Right           `json:"right,omitempty"`    // C or P
	Expiry        string          `json:"expiry,omitempty"`   // Raw expiry as delivered, YYYYMMDD
	Quantity      int64           `json:"quantity"`           // Signed: positive long, negative short
	AvgCost       decimal.Decimal `json:"avg_cost"`           // Average cost basis
	MarketPrice   decimal.Decimal `json:"market_price"`       // Current market price
	MarketValue   decimal.Decimal `json:"market_value"`       // Current market value
	UnrealizedPnL decimal.Decimal `json:"unrealized_pnl"`     // Unrealized profit/loss
	Currency      string          `json:"currency,omitempty"` // Quote currency, USD when empty
}

// IsOption reports whether p is an option holding.
func (p Position) IsOption() bool { return p.SecType == Option }
