package commands

import (
	"github.com/spf13/cobra"
	"github.com/use-agent/pdrscrape/models"
	"github.com/use-agent/pdrscrape/scraper"
	"github.com/use-agent/pdrscrape/transform"
)

var scrapeReq models.ScrapeRequest

func init() {
	f := scrapeCmd.Flags()
	f.StringVar(&scrapeReq.Settle, "settle", "", `settle strategy: "frames", "timer" or "dom-stable" (env PDR_SETTLE)`)
	f.DurationVar(&scrapeReq.SettleDelay, "settle-delay", 0, "timer delay / dom-stable window (env PDR_SETTLE_DELAY)")
	f.DurationVar(&scrapeReq.MaxSettle, "max-settle", 0, "upper bound of one frames/dom-stable wait (env PDR_MAX_SETTLE)")
	f.DurationVar(&scrapeReq.Timeout, "timeout", 0, "deadline for the whole run (env PDR_TIMEOUT)")
	f.BoolVar(&scrapeReq.Stealth, "stealth", false, "mask automation fingerprints")
	f.BoolVar(&scrapeReq.BlockAds, "block-ads", false, "drop ad and tracking requests")
	f.StringVar(&scrapeReq.CDPURL, "cdp-url", "", "attach to a running Chrome (env PDR_CDP_URL)")
	f.BoolVar(&scrapeReq.Attach, "attach", false, "read an already open tab instead of navigating (needs --cdp-url)")
	f.BoolVar(&scrapeReq.ShiftExplanations, "shift-explanations", false, "realign explanations read one question late")
	f.BoolVar(&scrapeReq.Markdown, "markdown", false, "add a markdown rendering of each legal excerpt")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [URL]",
	Short: "Reveals and extracts every question of a live test page.",
	Long: `Opens the test page in Chrome and walks the questions in page order:
wait for the page to settle, reveal the answer and comment, wait again, read.

Explanations are read from a panel shared by all questions. If a reveal has
not settled, a question gets its neighbour's explanation; such questions are
logged as suspect. Re-run the scrape, raise --max-settle, or pass
--shift-explanations when the whole test is off by one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := scrapeReq
		if len(args) == 1 {
			req.URL = args[0]
		}
		applyScrapeDefaults(&req)

		sc := scraper.NewScraper(cfg.Browser, cfg.Scraper, tmpl)
		res, err := sc.Scrape(cmd.Context(), &req)
		if err != nil {
			return err
		}
		if err := transform.WriteJSON(cmd.OutOrStdout(), res.Test); err != nil {
			return err
		}
		return writeSuspects(cmd, res.Suspect)
	},
}

// applyScrapeDefaults fills flags left unset from the environment config.
func applyScrapeDefaults(req *models.ScrapeRequest) {
	if req.Settle == "" {
		req.Settle = cfg.Scraper.Settle
	}
	if req.SettleDelay == 0 {
		req.SettleDelay = cfg.Scraper.SettleDelay
	}
	if req.MaxSettle == 0 {
		req.MaxSettle = cfg.Scraper.MaxSettle
	}
	if req.Timeout == 0 {
		req.Timeout = cfg.Scraper.Timeout
	}
	if req.CDPURL == "" {
		req.CDPURL = cfg.Browser.CDPURL
	}
}
