package report

import (
	"testing"

	"option_book/internal/book"
	"option_book/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func opt(ticker string, strike float64, right models.Right, expiry string, qty int64) models.Position {
	return models.Position{
		Ticker:        ticker,
		SecType:       models.Option,
		Strike:        decimal.NewFromFloat(strike),
		Right:         right,
		Expiry:        expiry,
		Quantity:      qty,
		AvgCost:       decimal.NewFromFloat(1.5),
		MarketPrice:   decimal.NewFromInt(2),
		MarketValue:   decimal.NewFromInt(200 * qty),
		UnrealizedPnL: decimal.NewFromInt(50 * qty),
	}
}

// twoExpiries is listed out of date order on purpose.
func twoExpiries() []models.Position {
	return []models.Position{
		opt("AAPL", 210, models.Call, "20250815", 3),
		opt("AAPL", 200, models.Call, "20250718", 2),
		opt("AAPL", 195, models.Put, "20250718", -1),
	}
}

func mustTable(t *testing.T, positions []models.Position) *book.PositionTable {
	t.Helper()
	tbl, err := book.BuildOptionTable(positions)
	require.NoError(t, err)
	return tbl
}

func mustBook(t *testing.T, positions []models.Position) *book.Book {
	t.Helper()
	b, err := book.NewBook(positions)
	require.NoError(t, err)
	return b
}
