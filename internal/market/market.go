// Package market defines what the rest of the program needs from a broker.
package market

import (
	"context"
	"errors"
	"fmt"

	"option_book/internal/models"

	"github.com/shopspring/decimal"
)

// PortfolioProvider returns a snapshot of the account holdings.
// Implementations decode broker specific symbols and validate records, so every
// returned Position is complete.
type PortfolioProvider interface {
	FetchPortfolio(ctx context.Context) ([]models.Position, error)
}

// PriceProvider returns the last traded price of an underlying.
type PriceProvider interface {
	LastPrice(ctx context.Context, ticker string) (decimal.Decimal, error)
}

// ErrNoPrice is returned when the broker has no recent trade for a ticker.
var ErrNoPrice = errors.New("no trade found")

// LastPrices looks up the last price of every ticker. Tickers whose lookup failed are
// left out of the map and their errors joined.
func LastPrices(ctx context.Context, p PriceProvider, tickers []string) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal, len(tickers))
	var errs []error
	for _, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			return prices, err
		}
		price, err := p.LastPrice(ctx, ticker)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ticker, err))
			continue
		}
		prices[ticker] = price
	}
	return prices, errors.Join(errs...)
}
