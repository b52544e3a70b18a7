package market

import (
	"testing"

	"option_book/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOCC(t *testing.T) {
	tests := []struct {
		symbol string
		want   OCCSymbol
	}{
		{"AAPL250718C00200000", OCCSymbol{"AAPL", "20250718", models.Call, decimal.NewFromInt(200)}},
		{"SPY251219P00545500", OCCSymbol{"SPY", "20251219", models.Put, decimal.RequireFromString("545.5")}},
		{"BRKB  260116C00480000", OCCSymbol{"BRKB", "20260116", models.Call, decimal.NewFromInt(480)}},
		{"F250620P00012125", OCCSymbol{"F", "20250620", models.Put, decimal.RequireFromString("12.125")}},
	}
	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			got, err := ParseOCC(tt.symbol)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Root, got.Root)
			assert.Equal(t, tt.want.Expiry, got.Expiry)
			assert.Equal(t, tt.want.Right, got.Right)
			assert.True(t, tt.want.Strike.Equal(got.Strike), "strike %s", got.Strike)
		})
	}
}

func TestParseOCC_Invalid(t *testing.T) {
	for _, symbol := range []string{
		"",
		"AAPL",
		"250718C00200000",     // no root
		"AAPL250718X00200000", // right
		"AAPL251318C00200000", // month 13
		"AAPL2507l8C00200000", // letter in date
		"AAPL250718C0020000O", // letter in strike
		"TOOLONGROOT250718C00200000",
	} {
		_, err := ParseOCC(symbol)
		assert.Error(t, err, symbol)
	}
}
