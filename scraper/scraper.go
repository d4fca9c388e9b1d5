// Package scraper drives a Chrome tab through one test page and hands it
// to the extractor.
package scraper

import (
	"context"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/use-agent/pdrscrape/cleaner"
	"github.com/use-agent/pdrscrape/config"
	"github.com/use-agent/pdrscrape/models"
)

// Scraper owns the browser settings and the page template. A browser is
// launched per Scrape call and killed when it returns; attached browsers
// (CDP URL) are disconnected, never killed.
type Scraper struct {
	browserCfg config.BrowserConfig
	scraperCfg config.ScraperConfig
	tmpl       *config.Template
	cleaner    *cleaner.Cleaner
}

// NewScraper creates a Scraper for the given template.
func NewScraper(browserCfg config.BrowserConfig, scraperCfg config.ScraperConfig, tmpl *config.Template) *Scraper {
	return &Scraper{
		browserCfg: browserCfg,
		scraperCfg: scraperCfg,
		tmpl:       tmpl,
		cleaner:    cleaner.NewCleaner(tmpl.Origin, tmpl.DecorativeClasses),
	}
}

// launch starts a headless browser and connects to it. The returned
// cleanup kills the process and removes its profile directory.
func (s *Scraper) launch() (*rod.Browser, func(), error) {
	l := launcher.New().
		Headless(s.browserCfg.Headless).
		NoSandbox(s.browserCfg.NoSandbox)

	if s.browserCfg.BrowserBin != "" {
		l = l.Bin(s.browserCfg.BrowserBin)
	}
	if s.browserCfg.DefaultProxy != "" {
		l = l.Proxy(s.browserCfg.DefaultProxy)
	}

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-features"), "TranslateUI")
	l.Set(flags.Flag("disable-renderer-backgrounding"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-backgrounding-occluded-windows"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to launch browser",
			err,
		)
	}
	slog.Debug("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to connect to browser",
			err,
		)
	}

	cleanup := func() {
		if err := browser.Close(); err != nil {
			slog.Warn("browser close failed, killing process", "error", err)
			l.Kill()
		}
		l.Cleanup()
		slog.Debug("browser closed")
	}
	return browser, cleanup, nil
}

// connect attaches to a running browser over CDP. The returned disconnect
// drops the connection and leaves the browser running.
func connect(ctx context.Context, cdpURL string) (*rod.Browser, func(), error) {
	u, err := launcher.ResolveURL(cdpURL)
	if err != nil {
		return nil, nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to resolve CDP URL",
			err,
		)
	}
	ws, err := dialCDP(ctx, u)
	if err != nil {
		return nil, nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to connect to CDP URL",
			err,
		)
	}
	browser := rod.New().Client(cdp.New().Start(ws))
	if err := browser.Connect(); err != nil {
		_ = ws.Close()
		return nil, nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to attach to browser",
			err,
		)
	}
	slog.Info("attached to browser", "controlURL", u)

	disconnect := func() {
		if err := ws.Close(); err != nil {
			slog.Debug("CDP connection close failed", "error", err)
		}
		slog.Debug("detached from browser", "controlURL", u)
	}
	return browser, disconnect, nil
}

// dialCDP opens the DevTools websocket. Holding the socket ourselves lets
// the caller close the connection without sending Browser.close.
func dialCDP(ctx context.Context, wsURL string) (*cdp.WebSocket, error) {
	ws := &cdp.WebSocket{}
	if err := ws.Connect(ctx, wsURL, nil); err != nil {
		return nil, err
	}
	return ws, nil
}
