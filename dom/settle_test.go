package dom

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTimer_Waits(t *testing.T) {
	start := time.Now()
	if err := Timer(20 * time.Millisecond).Settle(context.Background()); err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("returned after %s, want at least 20ms", elapsed)
	}
}

func TestTimer_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := Timer(time.Minute).Settle(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("cancellation did not interrupt the wait")
	}
}

func TestTimer_ZeroDelay(t *testing.T) {
	if err := Timer(0).Settle(context.Background()); err != nil {
		t.Errorf("Settle: %v", err)
	}
}

func TestNone(t *testing.T) {
	if err := None().Settle(context.Background()); err != nil {
		t.Errorf("Settle: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := None().Settle(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled on a done context, got %v", err)
	}
}

func TestSettlerFunc(t *testing.T) {
	calls := 0
	s := SettlerFunc(func(context.Context) error {
		calls++
		return nil
	})
	_ = s.Settle(context.Background())
	_ = s.Settle(context.Background())
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}
