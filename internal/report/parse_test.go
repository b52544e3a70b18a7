package report

import (
	"math/rand"
	"strings"
	"testing"

	"option_book/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGroups_RoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	expiries := []string{"20251219", "20250718", "20250815", "20250620"}
	for n := 0; n < 20; n++ {
		var positions []models.Position
		for i := 0; i < r.Intn(12); i++ {
			right := models.Call
			if r.Intn(2) == 0 {
				right = models.Put
			}
			positions = append(positions, opt("SPY", float64(400+5*r.Intn(30)), right, expiries[r.Intn(len(expiries))], int64(r.Intn(61)-30)))
		}
		tbl := mustTable(t, positions)

		var b strings.Builder
		require.NoError(t, Render(&b, tbl, Options{}))
		parsed, err := ParseGroups(strings.NewReader(b.String()))
		require.NoError(t, err)

		var want []ParsedRow
		for _, e := range tbl.Expiries() {
			for _, row := range tbl.RowsFor(e) {
				want = append(want, ParsedRow{Expiry: e, Strike: row.Strike.String(), Right: row.Right, Quantity: row.Quantity})
			}
		}
		require.Len(t, parsed, len(want))
		for i := range want {
			assert.Equal(t, want[i].Expiry, parsed[i].Expiry, "row %d", i)
			assert.Equal(t, want[i].Strike, parsed[i].Strike, "row %d", i)
			assert.Equal(t, want[i].Right, parsed[i].Right, "row %d", i)
			assert.Equal(t, want[i].Quantity, parsed[i].Quantity, "row %d", i)
			assert.Len(t, parsed[i].Rest, 4, "row %d", i)
		}
	}
}

func TestParseGroups_OrderIsChronological(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Render(&b, mustTable(t, twoExpiries()), Options{}))
	parsed, err := ParseGroups(strings.NewReader(b.String()))
	require.NoError(t, err)
	require.Len(t, parsed, 3)

	for i := 1; i < len(parsed); i++ {
		assert.False(t, parsed[i].Expiry.Before(parsed[i-1].Expiry))
	}
	assert.Equal(t, models.NewDate(2025, 7, 18), parsed[1].Expiry)
	assert.Equal(t, []string{"$1.50", "$2.00", "-$200.00", "-$50.00"}, parsed[1].Rest)
}

func TestParseGroups_Errors(t *testing.T) {
	rows, err := ParseGroups(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = ParseGroups(strings.NewReader(textHeader))
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = ParseGroups(strings.NewReader("TICKER  QTY\n"))
	assert.Error(t, err)

	_, err = ParseGroups(strings.NewReader(textHeader + "               195  P       -1\n"))
	assert.ErrorContains(t, err, "without a group key")

	_, err = ParseGroups(strings.NewReader(textHeader + "2025-07-18     195  X       -1\n"))
	assert.ErrorContains(t, err, "invalid right")
}
