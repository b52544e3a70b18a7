package book

import (
	"fmt"
	"math/rand"

	"option_book/internal/models"

	"github.com/shopspring/decimal"
)

func opt(ticker string, strike float64, right models.Right, expiry string, qty int64) models.Position {
	return models.Position{
		Ticker:        ticker,
		Symbol:        fmt.Sprintf("%s %s %s %v", ticker, expiry, right, strike),
		SecType:       models.Option,
		Strike:        decimal.NewFromFloat(strike),
		Right:         right,
		Expiry:        expiry,
		Quantity:      qty,
		AvgCost:       decimal.NewFromFloat(1.5),
		MarketPrice:   decimal.NewFromFloat(2),
		MarketValue:   decimal.NewFromInt(200 * qty),
		UnrealizedPnL: decimal.NewFromInt(50 * qty),
	}
}

func stk(ticker string, qty int64, price float64) models.Position {
	return models.Position{
		Ticker:        ticker,
		Symbol:        ticker,
		SecType:       models.Stock,
		Quantity:      qty,
		AvgCost:       decimal.NewFromFloat(price - 1),
		MarketPrice:   decimal.NewFromFloat(price),
		MarketValue:   decimal.NewFromFloat(price).Mul(decimal.NewFromInt(qty)),
		UnrealizedPnL: decimal.NewFromInt(qty),
	}
}

var (
	randTickers  = []string{"AAPL", "MSFT", "SPY", "aapl", "TSLA"}
	randExpiries = []string{"20250718", "20250815", "20250620", "20251219"}
)

// randomPositions returns a reproducible mix of option, stock and other holdings.
func randomPositions(r *rand.Rand, n int) []models.Position {
	out := make([]models.Position, 0, n)
	for i := 0; i < n; i++ {
		ticker := randTickers[r.Intn(len(randTickers))]
		switch r.Intn(5) {
		case 0:
			out = append(out, stk(ticker, int64(r.Intn(500)+1), 100))
		case 1:
			out = append(out, models.Position{Ticker: ticker, SecType: "CRYPTO", Quantity: 1})
		default:
			right := models.Call
			if r.Intn(2) == 0 {
				right = models.Put
			}
			qty := int64(r.Intn(41) - 20)
			out = append(out, opt(ticker, float64(100+5*r.Intn(20)), right, randExpiries[r.Intn(len(randExpiries))], qty))
		}
	}
	return out
}
