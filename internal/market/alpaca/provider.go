// Package alpaca adapts the Alpaca trading and market data APIs to the market interfaces.
package alpaca

import (
	"context"
	"fmt"
	"strings"

	"option_book/internal/market"
	"option_book/internal/models"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Asset classes reported by Alpaca on positions.
const (
	classOption = "us_option"
	classEquity = "us_equity"
)

// tradeAPI is the part of *alpaca.Client the provider uses.
type tradeAPI interface {
	GetPositions() ([]alpaca.Position, error)
}

// dataAPI is the part of *marketdata.Client the provider uses.
type dataAPI interface {
	GetLatestTrade(symbol string, req marketdata.GetLatestTradeRequest) (*marketdata.Trade, error)
}

// Provider implements market.PortfolioProvider and market.PriceProvider for Alpaca.
type Provider struct {
	mdClient    dataAPI
	tradeClient tradeAPI
}

var (
	_ market.PortfolioProvider = (*Provider)(nil)
	_ market.PriceProvider     = (*Provider)(nil)
)

// NewProvider returns a provider whose clients read their credentials from the
// APCA_API_KEY_ID, APCA_API_SECRET_KEY and APCA_API_BASE_URL environment variables.
func NewProvider() *Provider {
	return &Provider{
		mdClient:    marketdata.NewClient(marketdata.ClientOpts{}),
		tradeClient: alpaca.NewClient(alpaca.ClientOpts{}),
	}
}

// FetchPortfolio lists the open positions of the account.
//
// The SDK calls do not take a context, so ctx only bounds how long we wait for them.
func (p *Provider) FetchPortfolio(ctx context.Context) ([]models.Position, error) {
	raw, err := wait(ctx, p.tradeClient.GetPositions)
	if err != nil {
		return nil, fmt.Errorf("listing alpaca positions: %w", err)
	}

	positions := make([]models.Position, 0, len(raw))
	for _, x := range raw {
		pos, err := mapPosition(x)
		if err != nil {
			return nil, err
		}
		positions = append(positions, pos)
	}
	log.Debug().Int("positions", len(positions)).Msg("fetched alpaca portfolio")
	return positions, nil
}

// LastPrice returns the price of the latest trade of ticker.
func (p *Provider) LastPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	trade, err := wait(ctx, func() (*marketdata.Trade, error) {
		return p.mdClient.GetLatestTrade(ticker, marketdata.GetLatestTradeRequest{})
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("latest trade of %s: %w", ticker, err)
	}
	if trade == nil {
		return decimal.Zero, fmt.Errorf("latest trade of %s: %w", ticker, market.ErrNoPrice)
	}
	return decimal.NewFromFloat(trade.Price), nil
}

// mapPosition converts an Alpaca position. Option symbols are decoded here once, so
// the rest of the program never sees OCC strings.
func mapPosition(x alpaca.Position) (models.Position, error) {
	if !x.Qty.IsInteger() {
		return models.Position{}, fmt.Errorf("position %s: fractional quantity %s is not supported", x.Symbol, x.Qty)
	}
	qty := x.Qty
	// Alpaca reports short quantities as negative already; older payloads only set the side.
	if strings.EqualFold(string(x.Side), "short") && qty.IsPositive() {
		qty = qty.Neg()
	}

	pos := models.Position{
		Ticker:        x.Symbol,
		Symbol:        x.Symbol,
		Quantity:      qty.IntPart(),
		AvgCost:       x.AvgEntryPrice,
		MarketPrice:   deref(x.CurrentPrice),
		MarketValue:   deref(x.MarketValue),
		UnrealizedPnL: deref(x.UnrealizedPL),
		Currency:      "USD",
	}
	switch class := string(x.AssetClass); class {
	case classOption:
		occ, err := market.ParseOCC(x.Symbol)
		if err != nil {
			return models.Position{}, fmt.Errorf("position %s: %w", x.Symbol, err)
		}
		pos.Ticker = occ.Root
		pos.SecType = models.Option
		pos.Strike = occ.Strike
		pos.Right = occ.Right
		pos.Expiry = occ.Expiry
	case classEquity:
		pos.SecType = models.Stock
	default:
		pos.SecType = models.SecType(strings.ToUpper(class))
	}
	return pos, nil
}

func deref(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

type result[T any] struct {
	v   T
	err error
}

// wait runs fn and returns its result, or ctx.Err() if ctx is done first.
func wait[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}
	done := make(chan result[T], 1)
	go func() {
		v, err := fn()
		done <- result[T]{v, err}
	}()
	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
