package report

import (
	"context"

	"option_book/internal/book"
)

// Hook runs after a book is built, before the program exits. It is the place for
// interactive inspection of the tables.
type Hook func(ctx context.Context, b *book.Book) error

// Chain runs hooks in order and stops at the first error.
func Chain(hooks ...Hook) Hook {
	return func(ctx context.Context, b *book.Book) error {
		for _, h := range hooks {
			if h == nil {
				continue
			}
			if err := h(ctx, b); err != nil {
				return err
			}
		}
		return nil
	}
}
