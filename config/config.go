package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Browser BrowserConfig
	Scraper ScraperConfig
	Log     LogConfig

	// TemplatePath points at an optional YAML file overriding the page template.
	TemplatePath string
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// DefaultProxy is the proxy URL passed to the launched browser.
	DefaultProxy string

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// CDPURL connects to an already running browser instead of launching one.
	CDPURL string
}

// ScraperConfig controls extraction behavior.
type ScraperConfig struct {
	// Timeout bounds a whole extraction run.
	Timeout time.Duration // default: 5m

	// NavigationTimeout is the max time for page.Navigate alone.
	NavigationTimeout time.Duration // default: 30s

	// Settle is the settle strategy: "frames", "timer" or "dom-stable".
	Settle string // default: "frames"

	// SettleDelay is the fixed delay of the timer strategy.
	SettleDelay time.Duration // default: 100ms

	// MaxSettle caps one frames/dom-stable wait.
	MaxSettle time.Duration // default: 2s

	// StaleThreshold is the simhash distance at or below which two
	// consecutive comment panels are reported as the same panel.
	StaleThreshold int // default: 0

	// BlockedResourceTypes lists resource types to block.
	// default: ["Stylesheet", "Font", "Media"]
	BlockedResourceTypes []string
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "text"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Browser: BrowserConfig{
			Headless:     envBoolOr("PDR_HEADLESS", true),
			DefaultProxy: os.Getenv("PDR_PROXY"),
			NoSandbox:    envBoolOr("PDR_NO_SANDBOX", false),
			BrowserBin:   os.Getenv("PDR_BROWSER_BIN"),
			CDPURL:       os.Getenv("PDR_CDP_URL"),
		},
		Scraper: ScraperConfig{
			Timeout:           envDurationOr("PDR_TIMEOUT", 5*time.Minute),
			NavigationTimeout: envDurationOr("PDR_NAV_TIMEOUT", 30*time.Second),
			Settle:            envOr("PDR_SETTLE", "frames"),
			SettleDelay:       envDurationOr("PDR_SETTLE_DELAY", 100*time.Millisecond),
			MaxSettle:         envDurationOr("PDR_MAX_SETTLE", 2*time.Second),
			StaleThreshold:    envIntOr("PDR_STALE_THRESHOLD", 0),
			BlockedResourceTypes: envSliceOr("PDR_BLOCKED_RESOURCES", []string{
				"Stylesheet", "Font", "Media",
			}),
		},
		Log: LogConfig{
			Level:  envOr("PDR_LOG_LEVEL", "info"),
			Format: envOr("PDR_LOG_FORMAT", "text"),
		},
		TemplatePath: os.Getenv("PDR_TEMPLATE"),
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
