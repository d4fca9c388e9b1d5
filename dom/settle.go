package dom

import (
	"context"
	"time"
)

// Settler waits for pending rendering to finish before the extractor reads
// derived state.
type Settler interface {
	Settle(ctx context.Context) error
}

// SettlerFunc adapts a function to the Settler interface.
type SettlerFunc func(ctx context.Context) error

func (f SettlerFunc) Settle(ctx context.Context) error { return f(ctx) }

// Timer settles by sleeping for d.
func Timer(d time.Duration) Settler {
	return SettlerFunc(func(ctx context.Context) error {
		if d <= 0 {
			return ctx.Err()
		}
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

// None returns immediately. Used for static documents, which never change.
func None() Settler {
	return SettlerFunc(func(ctx context.Context) error { return ctx.Err() })
}
