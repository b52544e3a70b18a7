package book

import (
	"math/rand"
	"testing"
	"time"

	"option_book/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetPosition_LongCallShortPut(t *testing.T) {
	table, err := BuildOptionTable([]models.Position{
		opt("AAPL", 200, models.Call, "20250718", 2),
		opt("AAPL", 195, models.Put, "20250718", -1),
	})
	require.NoError(t, err)

	jul := models.NewDate(2025, time.July, 18)
	assert.Equal(t, int64(2), NetPosition(table, models.Call, &jul))
	assert.Equal(t, int64(-1), NetPosition(table, models.Put, &jul))

	aug := models.NewDate(2025, time.August, 15)
	assert.Equal(t, int64(0), NetPosition(table, models.Call, &aug))
}

func TestNetPosition_Empty(t *testing.T) {
	table, err := BuildOptionTable(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), NetPosition(table, models.Call, nil))
	assert.Equal(t, int64(0), NetPosition(nil, models.Put, nil))
	assert.True(t, UnrealizedPnL(table, nil).IsZero())
}

func TestNetPosition_CallsPlusPutsIsSignedSum(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 30; i++ {
		for _, group := range ClassifyOptions(randomPositions(r, 40)) {
			table, err := BuildOptionTable(group)
			require.NoError(t, err)

			var want int64
			for _, row := range table.Rows() {
				if row.Right == models.Call || row.Right == models.Put {
					want += row.Quantity
				}
			}
			got := NetPosition(table, models.Call, nil) + NetPosition(table, models.Put, nil)
			assert.Equal(t, want, got)

			var perExpiry int64
			for _, e := range table.Expiries() {
				perExpiry += NetPosition(table, models.Call, &e) + NetPosition(table, models.Put, &e)
			}
			assert.Equal(t, want, perExpiry)
		}
	}
}

func TestSummarize(t *testing.T) {
	table, err := BuildOptionTable([]models.Position{
		opt("SPY", 500, models.Call, "20250718", 3),
		opt("SPY", 480, models.Put, "20250718", -2),
		opt("SPY", 520, models.Call, "20250815", -1),
	})
	require.NoError(t, err)

	all := Summarize(table, nil)
	assert.Equal(t, "SPY", all.Ticker)
	assert.Nil(t, all.Expiry)
	assert.Equal(t, int64(2), all.NetCalls)
	assert.Equal(t, int64(-2), all.NetPuts)
	assert.True(t, decimal.NewFromInt(0).Equal(all.UnrealizedPnL), all.UnrealizedPnL.String())

	jul := models.NewDate(2025, time.July, 18)
	s := Summarize(table, &jul)
	require.NotNil(t, s.Expiry)
	assert.Equal(t, jul, *s.Expiry)
	assert.Equal(t, int64(3), s.NetCalls)
	assert.Equal(t, int64(-2), s.NetPuts)
	assert.True(t, decimal.NewFromInt(50).Equal(s.UnrealizedPnL), s.UnrealizedPnL.String())
	assert.True(t, decimal.NewFromInt(200).Equal(s.MarketValue), s.MarketValue.String())
}

func TestNearestExpiry(t *testing.T) {
	table, err := BuildOptionTable([]models.Position{
		opt("SPY", 500, models.Call, "20250815", 1),
		opt("SPY", 500, models.Call, "20250620", 1),
		opt("SPY", 500, models.Call, "20250718", 1),
	})
	require.NoError(t, err)

	tests := []struct {
		on     models.Date
		want   models.Date
		wantOK bool
	}{
		{models.NewDate(2025, time.January, 1), models.NewDate(2025, time.June, 20), true},
		{models.NewDate(2025, time.June, 20), models.NewDate(2025, time.June, 20), true},
		{models.NewDate(2025, time.June, 21), models.NewDate(2025, time.July, 18), true},
		{models.NewDate(2025, time.August, 16), models.Date{}, false},
	}
	for _, tt := range tests {
		got, ok := NearestExpiry(table, tt.on)
		assert.Equal(t, tt.wantOK, ok, tt.on.String())
		assert.Equal(t, tt.want, got, tt.on.String())
	}

	assert.True(t, HasExpiry(table, models.NewDate(2025, time.July, 18)))
	assert.False(t, HasExpiry(table, models.NewDate(2025, time.July, 19)))
}
