package report

import (
	"encoding/json"
	"strings"
	"testing"

	"option_book/internal/book"
	"option_book/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const textHeader = "EXPIRY      STRIKE  RIGHT  QTY  AVG COST  MKT PRICE  MKT VALUE  UNRLZD P&L\n"

func TestRender_Text(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Render(&b, mustTable(t, twoExpiries()), Options{}))

	want := textHeader +
		"2025-07-18     200  C        2     $1.50      $2.00    $400.00    +$100.00\n" +
		"               195  P       -1     $1.50      $2.00   -$200.00     -$50.00\n" +
		"----------  ------  -----  ---  --------  ---------  ---------  ----------\n" +
		"2025-08-15     210  C        3     $1.50      $2.00    $600.00    +$150.00\n"
	assert.Equal(t, want, b.String())
}

func TestRender_EmptyTableIsHeaderOnly(t *testing.T) {
	empty, err := book.BuildOptionTable(nil)
	require.NoError(t, err)

	for _, tbl := range []*book.PositionTable{empty, nil} {
		var b strings.Builder
		require.NoError(t, Render(&b, tbl, Options{Format: Text}))
		assert.Equal(t, textHeader, b.String())
	}
}

func TestRender_Markdown(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Render(&b, mustTable(t, twoExpiries()), Options{Format: Markdown}))

	lines := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "| EXPIRY | STRIKE | RIGHT | QTY | AVG COST | MKT PRICE | MKT VALUE | UNRLZD P&L |", lines[0])
	assert.Equal(t, "|:---|---:|:---|---:|---:|---:|---:|---:|", lines[1])
	assert.Equal(t, "| 2025-07-18 | 200 | C | 2 | $1.50 | $2.00 | $400.00 | +$100.00 |", lines[2])
	assert.Equal(t, "|  | 195 | P | -1 | $1.50 | $2.00 | -$200.00 | -$50.00 |", lines[3])
	assert.Equal(t, "| | | | | | | | |", lines[4])
	assert.True(t, strings.HasPrefix(lines[5], "| 2025-08-15 | 210 |"))
}

func TestRender_JSON(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Render(&b, mustTable(t, twoExpiries()), Options{Format: JSON}))

	var got struct {
		Ticker string `json:"ticker"`
		Kind   string `json:"kind"`
		Groups []struct {
			Key  string `json:"key"`
			Rows []struct {
				Strike   decimal.Decimal `json:"strike"`
				Quantity int64           `json:"quantity"`
			} `json:"rows"`
		} `json:"groups"`
	}
	require.NoError(t, json.Unmarshal([]byte(b.String()), &got))
	assert.Equal(t, "AAPL", got.Ticker)
	assert.Equal(t, "option", got.Kind)
	require.Len(t, got.Groups, 2)
	assert.Equal(t, "2025-07-18", got.Groups[0].Key)
	require.Len(t, got.Groups[0].Rows, 2)
	assert.Equal(t, int64(-1), got.Groups[0].Rows[1].Quantity)
	assert.Equal(t, "2025-08-15", got.Groups[1].Key)
}

func TestRender_StockTable(t *testing.T) {
	stocks, err := book.BuildStockTable([]models.Position{
		{Ticker: "MSFT", SecType: models.Stock, Quantity: 10, MarketPrice: decimal.NewFromInt(400), MarketValue: decimal.NewFromInt(4000)},
		{Ticker: "AAPL", SecType: models.Stock, Quantity: 1500, MarketPrice: decimal.NewFromInt(200), MarketValue: decimal.NewFromInt(300000)},
	})
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, Render(&b, stocks, Options{}))
	lines := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "TICKER"))
	assert.True(t, strings.HasPrefix(lines[1], "MSFT"))
	assert.True(t, strings.HasPrefix(lines[2], "AAPL"))
	assert.Contains(t, lines[2], "$300,000.00")
}

func TestRender_UnsupportedOptions(t *testing.T) {
	tbl := mustTable(t, twoExpiries())
	var b strings.Builder
	assert.Error(t, Render(&b, tbl, Options{GroupBy: "strike"}))
	assert.Error(t, Render(&b, tbl, Options{Format: "html"}))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": Text, "txt": Text, "MD": Markdown, "markdown": Markdown, " json ": JSON} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("csv")
	assert.Error(t, err)
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount string
		code   string
		want   string
	}{
		{"1234.5", "USD", "$1,234.50"},
		{"-1", "USD", "-$1.00"},
		{"0.005", "USD", "$0.01"},
		{"1500", "JPY", "¥1,500"},
		{"12.3", "XYZ", "12.30"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatMoney(decimal.RequireFromString(tt.amount), tt.code), tt.amount+" "+tt.code)
	}
	assert.Equal(t, "-", formatSigned(decimal.Zero, "USD"))
	assert.Equal(t, "+$2.00", formatSigned(decimal.NewFromInt(2), "USD"))
}
