package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"option_book/internal/book"
	"option_book/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockPortfolio struct {
	positions []models.Position
	err       error
	calls     int
}

func (m *MockPortfolio) FetchPortfolio(context.Context) ([]models.Position, error) {
	m.calls++
	return m.positions, m.err
}

type MockPrices struct {
	prices map[string]decimal.Decimal
	block  bool
}

func (m *MockPrices) LastPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	if m.block {
		<-ctx.Done()
		return decimal.Zero, ctx.Err()
	}
	p, ok := m.prices[ticker]
	if !ok {
		return decimal.Zero, errors.New("no trade")
	}
	return p, nil
}

func positions() []models.Position {
	return []models.Position{
		{Ticker: "AAPL", SecType: models.Option, Strike: decimal.NewFromInt(200), Right: models.Call, Expiry: "20250718", Quantity: 2},
		{Ticker: "AAPL", SecType: models.Option, Strike: decimal.NewFromInt(195), Right: models.Put, Expiry: "20250718", Quantity: -1},
		{Ticker: "MSFT", SecType: models.Stock, Quantity: 10},
		{Ticker: "MSFT", SecType: models.Stock, Quantity: 12},
	}
}

func TestRun(t *testing.T) {
	portfolio := &MockPortfolio{positions: positions()}
	p := &Pipeline{
		Portfolio: portfolio,
		Prices:    &MockPrices{prices: map[string]decimal.Decimal{"AAPL": decimal.NewFromInt(201)}},
	}

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, portfolio.calls)
	assert.Equal(t, []string{"AAPL"}, res.Book.Tickers())
	assert.Equal(t, []string{"MSFT"}, res.Book.Stocks().Collapsed())
	assert.True(t, decimal.NewFromInt(201).Equal(res.Underlying["AAPL"]))

	tbl, ok := res.Book.Lookup("aapl")
	require.True(t, ok)
	expiry := models.MustParseDate("2025-07-18")
	assert.Equal(t, int64(2), book.NetPosition(tbl, models.Call, &expiry))
	assert.Equal(t, int64(-1), book.NetPosition(tbl, models.Put, &expiry))
}

func TestRun_RebuildsEachTime(t *testing.T) {
	portfolio := &MockPortfolio{positions: positions()}
	p := &Pipeline{Portfolio: portfolio}

	first, err := p.Run(context.Background())
	require.NoError(t, err)
	portfolio.positions = portfolio.positions[2:]
	second, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, first.Book.Tickers(), 1)
	assert.Empty(t, second.Book.Tickers())
	assert.Nil(t, second.Underlying)
}

func TestRun_Errors(t *testing.T) {
	boom := errors.New("gateway down")
	_, err := (&Pipeline{Portfolio: &MockPortfolio{err: boom}}).Run(context.Background())
	assert.ErrorIs(t, err, boom)

	bad := positions()
	bad[0].Quantity = 40000
	_, err = (&Pipeline{Portfolio: &MockPortfolio{positions: bad}}).Run(context.Background())
	assert.ErrorIs(t, err, book.ErrQuantityOverflow)

	_, err = (&Pipeline{}).Run(context.Background())
	assert.Error(t, err)
}

func TestRun_PriceTimeoutIsNotFatal(t *testing.T) {
	p := &Pipeline{
		Portfolio:    &MockPortfolio{positions: positions()},
		Prices:       &MockPrices{block: true},
		PriceTimeout: 10 * time.Millisecond,
	}
	res, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Underlying)
}
