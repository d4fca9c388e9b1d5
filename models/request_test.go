package models

import (
	"errors"
	"testing"
	"time"
)

func TestScrapeRequest_Defaults(t *testing.T) {
	r := &ScrapeRequest{URL: "https://pdr-online.com.ua/tests/1"}
	r.Defaults()

	if r.Timeout != 5*time.Minute {
		t.Errorf("Timeout = %s", r.Timeout)
	}
	if r.Settle != SettleFrames {
		t.Errorf("Settle = %q", r.Settle)
	}
	if r.SettleDelay != 100*time.Millisecond || r.MaxSettle != 2*time.Second {
		t.Errorf("settle durations = %s/%s", r.SettleDelay, r.MaxSettle)
	}

	r = &ScrapeRequest{Timeout: time.Second, Settle: SettleTimer}
	r.Defaults()
	if r.Timeout != time.Second || r.Settle != SettleTimer {
		t.Errorf("Defaults overwrote set fields: %+v", r)
	}
}

func TestScrapeRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     ScrapeRequest
		wantErr bool
	}{
		{"url", ScrapeRequest{URL: "https://x"}, false},
		{"no url", ScrapeRequest{}, true},
		{"attach without url", ScrapeRequest{Attach: true, CDPURL: "ws://127.0.0.1:9222"}, false},
		{"attach without cdp", ScrapeRequest{URL: "https://x", Attach: true}, true},
		{"cdp without attach needs url", ScrapeRequest{CDPURL: "ws://127.0.0.1:9222"}, true},
		{"timer settle", ScrapeRequest{URL: "https://x", Settle: SettleTimer}, false},
		{"dom-stable settle", ScrapeRequest{URL: "https://x", Settle: SettleDOMStable}, false},
		{"unknown settle", ScrapeRequest{URL: "https://x", Settle: "sleep"}, true},
		{"none settle is static only", ScrapeRequest{URL: "https://x", Settle: SettleNone}, true},
		{"negative delay", ScrapeRequest{URL: "https://x", SettleDelay: -time.Second}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.req
			r.Defaults()
			err := r.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			var se *ScrapeError
			if !errors.As(err, &se) || se.Code != ErrCodeInvalidInput {
				t.Errorf("expected %s, got %v", ErrCodeInvalidInput, err)
			}
		})
	}
}

func TestScrapeError(t *testing.T) {
	cause := errors.New("boom")
	err := NewScrapeError(ErrCodeNavigation, "navigate", cause)

	if got := err.Error(); got != "NAVIGATION_FAILED: navigate: boom" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, cause) {
		t.Error("Unwrap should expose the cause")
	}
	if got := NewScrapeError(ErrCodeTemplateMismatch, "bad heading", nil).Error(); got != "TEMPLATE_MISMATCH: bad heading" {
		t.Errorf("Error() = %q", got)
	}
}

func TestStringPtr(t *testing.T) {
	if StringPtr("x", false) != nil {
		t.Error("expected nil when ok is false")
	}
	if p := StringPtr("", true); p == nil || *p != "" {
		t.Error("an empty present value must not become nil")
	}
}
