package book

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedExpiry matches every *MalformedExpiryError.
	ErrMalformedExpiry = errors.New("malformed expiry")
	// ErrQuantityOverflow matches every *QuantityOverflowError.
	ErrQuantityOverflow = errors.New("quantity overflow")
	// ErrTickerMismatch is returned when a table is built from positions of more than one underlying.
	ErrTickerMismatch = errors.New("ticker mismatch")
)

// MalformedExpiryError reports an option position whose raw expiry is not a YYYYMMDD date.
type MalformedExpiryError struct {
	Ticker string
	Symbol string
	Expiry string
	Err    error
}

func (e *MalformedExpiryError) Error() string {
	return fmt.Sprintf("%s: malformed expiry %q for %s: %v", e.Ticker, e.Expiry, e.Symbol, e.Err)
}

func (e *MalformedExpiryError) Is(target error) bool { return target == ErrMalformedExpiry }
func (e *MalformedExpiryError) Unwrap() error        { return e.Err }

// QuantityOverflowError reports a quantity outside the bounded range of option rows.
type QuantityOverflowError struct {
	Ticker   string
	Symbol   string
	Quantity int64
	Min, Max int64
}

func (e *QuantityOverflowError) Error() string {
	return fmt.Sprintf("%s: quantity %d of %s outside [%d, %d]", e.Ticker, e.Quantity, e.Symbol, e.Min, e.Max)
}

func (e *QuantityOverflowError) Is(target error) bool { return target == ErrQuantityOverflow }
