package market

import (
	"fmt"
	"strconv"
	"strings"

	"option_book/internal/models"

	"github.com/shopspring/decimal"
)

// occTail is the fixed part of an OCC option symbol: YYMMDD, C or P, and the strike
// in thousandths over 8 digits.
const occTail = 6 + 1 + 8

// OCCSymbol is a decoded OCC option symbol such as AAPL250718C00200000.
type OCCSymbol struct {
	Root   string          // underlying, AAPL
	Expiry string          // YYYYMMDD, 20250718
	Right  models.Right    // C
	Strike decimal.Decimal // 200
}

// ParseOCC decodes an option symbol in the OCC format, with or without the
// space padding of the root.
func ParseOCC(symbol string) (OCCSymbol, error) {
	s := strings.TrimSpace(symbol)
	if len(s) <= occTail {
		return OCCSymbol{}, fmt.Errorf("invalid OCC symbol %q: too short", symbol)
	}
	root := strings.TrimSpace(s[:len(s)-occTail])
	tail := s[len(s)-occTail:]
	if root == "" || len(root) > 6 {
		return OCCSymbol{}, fmt.Errorf("invalid OCC symbol %q: bad root", symbol)
	}

	yymmdd, right, strike := tail[:6], tail[6:7], tail[7:]
	if !digits(yymmdd) || !digits(strike) {
		return OCCSymbol{}, fmt.Errorf("invalid OCC symbol %q: non digit date or strike", symbol)
	}
	r, ok := models.ParseRight(right)
	if !ok {
		return OCCSymbol{}, fmt.Errorf("invalid OCC symbol %q: right %q", symbol, right)
	}
	expiry := "20" + yymmdd
	if _, err := models.ParseExpiry(expiry); err != nil {
		return OCCSymbol{}, fmt.Errorf("invalid OCC symbol %q: %w", symbol, err)
	}
	thousandths, err := strconv.ParseInt(strike, 10, 64)
	if err != nil {
		return OCCSymbol{}, fmt.Errorf("invalid OCC symbol %q: %w", symbol, err)
	}

	return OCCSymbol{
		Root:   root,
		Expiry: expiry,
		Right:  r,
		Strike: decimal.New(thousandths, -3),
	}, nil
}

func digits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}
