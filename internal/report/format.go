// Package report renders position tables for people: grouped plain text,
// markdown (optionally styled for the terminal) and JSON.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Format selects the output of Render.
type Format string

const (
	Text     Format = "text"
	Markdown Format = "markdown"
	JSON     Format = "json"
)

// ParseFormat accepts text, markdown (md) and json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return Text, nil
	case "markdown", "md":
		return Markdown, nil
	case "json":
		return JSON, nil
	}
	return "", fmt.Errorf("unknown format %q, want text, markdown or json", s)
}

// GroupBy selects the merged column of a rendered option table.
type GroupBy string

// ByExpiry is the only grouping option tables support.
const ByExpiry GroupBy = "expiry"

// Options configures Render.
type Options struct {
	Format   Format
	GroupBy  GroupBy
	Currency string // currency of the money columns, USD when empty
}

func (o Options) currency() string {
	if o.Currency == "" {
		return money.USD
	}
	return o.Currency
}

// formatMoney prints an amount with its currency symbol and grouping, e.g. -$1,234.50.
// Unknown currencies fall back to two decimals.
func formatMoney(d decimal.Decimal, code string) string {
	cur := money.GetCurrency(code)
	if cur == nil {
		return d.StringFixed(2)
	}
	minor := d.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, code).Display()
}

// formatSigned is formatMoney with an explicit sign for gains. Zero prints as "-".
func formatSigned(d decimal.Decimal, code string) string {
	switch {
	case d.IsZero():
		return "-"
	case d.IsPositive():
		return "+" + formatMoney(d, code)
	}
	return formatMoney(d, code)
}

func formatQty(q int64) string { return strconv.FormatInt(q, 10) }
