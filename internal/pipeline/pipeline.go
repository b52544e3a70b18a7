// Package pipeline fetches one portfolio snapshot and builds its book.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"option_book/internal/book"
	"option_book/internal/market"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// DefaultPriceTimeout bounds the underlying price lookups.
const DefaultPriceTimeout = 5 * time.Second

// Pipeline runs fetch, classify, build for one invocation. Nothing is kept between runs.
type Pipeline struct {
	Portfolio market.PortfolioProvider
	// Prices is optional. When set, the last price of every underlying holding options
	// is looked up after the book is built.
	Prices       market.PriceProvider
	PriceTimeout time.Duration
}

// Result is the outcome of one run.
type Result struct {
	Book       *book.Book
	Underlying map[string]decimal.Decimal
	FetchedAt  time.Time
}

// Run fetches the portfolio and builds the book. Price lookup failures are logged and
// leave the ticker out of Result.Underlying; they do not fail the run.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	if p.Portfolio == nil {
		return nil, errors.New("pipeline has no portfolio provider")
	}
	start := time.Now()
	positions, err := p.Portfolio.FetchPortfolio(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching portfolio: %w", err)
	}
	log.Debug().Int("positions", len(positions)).Dur("took", time.Since(start)).Msg("portfolio fetched")

	b, err := book.NewBook(positions)
	if err != nil {
		return nil, err
	}
	if dup := b.Stocks().Collapsed(); len(dup) > 0 {
		log.Warn().Strs("tickers", dup).Msg("stock reported more than once, keeping the last position")
	}

	res := &Result{Book: b, FetchedAt: start}
	if p.Prices != nil && len(b.Tickers()) > 0 {
		timeout := p.PriceTimeout
		if timeout <= 0 {
			timeout = DefaultPriceTimeout
		}
		pctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		prices, err := market.LastPrices(pctx, p.Prices, b.Tickers())
		if err != nil {
			log.Warn().Err(err).Msg("underlying prices incomplete")
		}
		res.Underlying = prices
	}
	return res, nil
}
