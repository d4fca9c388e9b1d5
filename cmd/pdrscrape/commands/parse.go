package commands

import (
	"github.com/spf13/cobra"
	"github.com/use-agent/pdrscrape/cleaner"
	"github.com/use-agent/pdrscrape/dom"
	"github.com/use-agent/pdrscrape/extractor"
	"github.com/use-agent/pdrscrape/models"
	"github.com/use-agent/pdrscrape/transform"
)

var (
	parseBaseURL string
	parseOpts    extractor.Options
)

func init() {
	f := parseCmd.Flags()
	f.StringVar(&parseBaseURL, "base-url", "", "URL the snapshot was saved from (default: template origin)")
	f.BoolVar(&parseOpts.ShiftExplanations, "shift-explanations", false, "realign explanations read one question late")
	f.BoolVar(&parseOpts.Markdown, "markdown", false, "add a markdown rendering of each legal excerpt")
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Extracts a test from a saved HTML snapshot.",
	Long: `Reads a page saved after the answers and comments were revealed. Nothing
is clicked, so answers only count as correct if the snapshot carries the
marker class. "-" reads stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := openInput(cmd, args[0])
		if err != nil {
			return err
		}
		defer in.Close()

		base := parseBaseURL
		if base == "" {
			base = tmpl.Origin + "/"
		}
		doc, err := dom.NewStaticDocument(in, base)
		if err != nil {
			return models.NewScrapeError(models.ErrCodeInvalidInput, "cannot parse snapshot", err)
		}

		opts := parseOpts
		opts.StaleThreshold = cfg.Scraper.StaleThreshold
		ex := extractor.New(tmpl, cleaner.NewCleaner(tmpl.Origin, tmpl.DecorativeClasses), dom.None(), opts)
		res, err := ex.Extract(cmd.Context(), doc)
		if err != nil {
			return err
		}
		if err := transform.WriteJSON(cmd.OutOrStdout(), res.Test); err != nil {
			return err
		}
		return writeSuspects(cmd, res.Suspect)
	},
}
