package scraper

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/pdrscrape/dom"
	"github.com/use-agent/pdrscrape/extractor"
	"github.com/use-agent/pdrscrape/models"
	"github.com/ysmood/gson"
)

// Scrape extracts one test page.
//
// Lifecycle (numbered steps match the inline comments):
//
//  1. Timeout guard     – hard deadline on the entire run
//  2. Browser           – launch a private one, or attach over CDP
//  3. Page              – new tab, or an open tab when attaching
//  4. Stealth + hijack  – installed before navigation so they apply to it
//  5. Navigate + wait   – DOM stable, non-convergence is not fatal
//  6. Extract           – sequential reveal/read over every question
//
// Steps 4-5 are skipped for an attached tab that already shows the page:
// it is read exactly as the operator left it.
func (s *Scraper) Scrape(ctx context.Context, req *models.ScrapeRequest) (*extractor.Result, error) {
	req.Defaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// ── 1. Timeout guard ──────────────────────────────────────────────
	ctx, cancel := context.WithTimeout(ctx, req.Timeout)
	defer cancel()

	// ── 2. Browser ────────────────────────────────────────────────────
	if req.CDPURL != "" {
		return s.scrapeAttached(ctx, req)
	}

	browser, cleanup, err := s.launch()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	// ── 3. Page ───────────────────────────────────────────────────────
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to create page",
			err,
		)
	}
	return s.scrapePage(ctx, page, req, true)
}

// scrapeAttached runs against a browser the operator already has open. The
// browser is left running; only the CDP connection is closed.
func (s *Scraper) scrapeAttached(ctx context.Context, req *models.ScrapeRequest) (*extractor.Result, error) {
	browser, disconnect, err := connect(ctx, req.CDPURL)
	if err != nil {
		return nil, err
	}
	defer disconnect()
	browser = browser.Context(ctx)

	if req.Attach {
		if page := s.findTab(browser, req.URL); page != nil {
			return s.scrapePage(ctx, page, req, false)
		}
		if req.URL == "" {
			return nil, models.NewScrapeError(
				models.ErrCodeInvalidInput,
				"no open tab shows a page on "+s.tmpl.Origin,
				nil,
			)
		}
		slog.Info("no open tab shows the target, opening a new one", "url", req.URL)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to create page on CDP browser",
			err,
		)
	}
	defer func() {
		_ = page.Close()
	}()
	return s.scrapePage(ctx, page, req, true)
}

// findTab returns the open tab showing target, or, when target is empty,
// the first tab on the template origin.
func (s *Scraper) findTab(browser *rod.Browser, target string) *rod.Page {
	pages, err := browser.Pages()
	if err != nil {
		slog.Warn("failed to list open tabs", "error", err)
		return nil
	}
	for _, page := range pages {
		info, err := page.Info()
		if err != nil {
			continue
		}
		if matchesTab(info.URL, target, s.tmpl.Origin) {
			slog.Info("attaching to open tab", "url", info.URL)
			return page
		}
	}
	return nil
}

func matchesTab(tabURL, target, origin string) bool {
	if target == "" {
		return strings.HasPrefix(tabURL, origin)
	}
	return strings.TrimRight(tabURL, "/") == strings.TrimRight(target, "/")
}

func (s *Scraper) scrapePage(ctx context.Context, page *rod.Page, req *models.ScrapeRequest, navigate bool) (*extractor.Result, error) {
	if navigate {
		// ── 4. Stealth injection + hijack ─────────────────────────────
		if req.Stealth {
			if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
				slog.Warn("stealth injection failed, proceeding without stealth",
					"error", err,
				)
			}
		}
		_ = proto.NetworkSetExtraHTTPHeaders{
			Headers: proto.NetworkHeaders{"Accept-Language": gson.New("uk-UA,uk;q=0.9")},
		}.Call(page)

		router := setupHijack(page, s.scraperCfg.BlockedResourceTypes, req.BlockAds)
		if router != nil {
			defer func() { _ = router.Stop() }()
		}
	}

	p := page.Context(ctx)

	if navigate {
		// ── 5. Navigate + wait ────────────────────────────────────────
		navCtx, navCancel := context.WithTimeout(ctx, s.scraperCfg.NavigationTimeout)
		err := p.Context(navCtx).Navigate(req.URL)
		if err == nil {
			err = p.Context(navCtx).WaitLoad()
		}
		navCancel()
		if err != nil {
			return nil, categorizeError(ctx, err, "navigation to test page failed")
		}
		if err := p.WaitDOMStable(300*time.Millisecond, 0.1); err != nil {
			slog.Debug("WaitDOMStable did not converge, proceeding with current DOM",
				"error", err,
			)
		}
		slog.Info("test page loaded", "url", req.URL)
	}

	// ── 6. Extract ────────────────────────────────────────────────────
	settler, err := dom.NewRodSettler(req.Settle, p, req.SettleDelay, req.MaxSettle)
	if err != nil {
		return nil, err
	}
	ex := extractor.New(s.tmpl, s.cleaner, settler, extractor.Options{
		Markdown:          req.Markdown,
		ShiftExplanations: req.ShiftExplanations,
		StaleThreshold:    s.scraperCfg.StaleThreshold,
	})
	return ex.Extract(ctx, dom.NewRodDocument(p))
}

// categorizeError wraps navigation errors into typed ScrapeErrors. ctx is
// the run context: its deadline is a timeout, the navigation bound alone is
// a navigation failure.
func categorizeError(ctx context.Context, err error, msg string) *models.ScrapeError {
	switch {
	case ctx.Err() != nil:
		return models.NewScrapeError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeTimeout, "scrape canceled", err)
	default:
		return models.NewScrapeError(models.ErrCodeNavigation, msg, err)
	}
}
