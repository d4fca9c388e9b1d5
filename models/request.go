package models

import "time"

// Settle strategy names accepted by ScrapeRequest.Settle.
const (
	SettleFrames    = "frames"
	SettleTimer     = "timer"
	SettleDOMStable = "dom-stable"
	SettleNone      = "none"
)

// ScrapeRequest describes one live extraction run.
type ScrapeRequest struct {
	// URL is the test page. Optional only when Attach is set.
	URL string

	// Timeout bounds the entire run (navigation + every question).
	// Default: 5m.
	Timeout time.Duration

	// Settle selects how the extractor waits for the page to render
	// between interactions. Allowed: "frames" (default), "timer",
	// "dom-stable".
	Settle string

	// SettleDelay is the fixed delay for "timer" and the stability window
	// for "dom-stable". Default: 100ms.
	SettleDelay time.Duration

	// MaxSettle caps a single "frames" or "dom-stable" wait. Default: 2s.
	MaxSettle time.Duration

	// Stealth enables anti-bot-detection evasions (navigator.webdriver masking).
	Stealth bool

	// BlockAds drops requests to known ad and tracking domains.
	BlockAds bool

	// CDPURL connects to a running Chrome instead of launching one.
	CDPURL string

	// Attach reuses an already-open tab on the CDPURL browser instead of
	// navigating a fresh one.
	Attach bool

	// ShiftExplanations applies the explanation realignment to the
	// extracted questions before they are returned.
	ShiftExplanations bool

	// Markdown adds a markdown rendering of each legal excerpt.
	Markdown bool
}

// Defaults applies default values to unset fields.
func (r *ScrapeRequest) Defaults() {
	if r.Timeout == 0 {
		r.Timeout = 5 * time.Minute
	}
	if r.Settle == "" {
		r.Settle = SettleFrames
	}
	if r.SettleDelay == 0 {
		r.SettleDelay = 100 * time.Millisecond
	}
	if r.MaxSettle == 0 {
		r.MaxSettle = 2 * time.Second
	}
}

// Validate checks the request after Defaults has been applied.
func (r *ScrapeRequest) Validate() error {
	if r.URL == "" && !(r.Attach && r.CDPURL != "") {
		return NewScrapeError(ErrCodeInvalidInput, "a URL is required unless attaching to an open tab", nil)
	}
	if r.Attach && r.CDPURL == "" {
		return NewScrapeError(ErrCodeInvalidInput, "attach requires a CDP URL", nil)
	}
	switch r.Settle {
	case SettleFrames, SettleTimer, SettleDOMStable:
	default:
		return NewScrapeError(ErrCodeInvalidInput, "unknown settle strategy: "+r.Settle, nil)
	}
	if r.SettleDelay < 0 || r.MaxSettle < 0 {
		return NewScrapeError(ErrCodeInvalidInput, "settle durations must not be negative", nil)
	}
	return nil
}
