package commands

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/use-agent/pdrscrape/config"
	"github.com/use-agent/pdrscrape/extractor"
	"github.com/use-agent/pdrscrape/models"
	"github.com/use-agent/pdrscrape/transform"
)

var (
	cfg          = config.Load()
	tmpl         *config.Template
	templatePath string
)

var rootCmd = &cobra.Command{
	Use:   "pdrscrape",
	Short: "pdrscrape extracts driving-test questions from pdr-online test pages.",
	Long: `pdrscrape reveals every answer and comment on a test page, one question
at a time, and prints the test as JSON. The reshape and fix-explanations
commands post-process that JSON.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := templatePath
		if path == "" {
			path = cfg.TemplatePath
		}
		t, err := config.LoadTemplate(path)
		if err != nil {
			return models.NewScrapeError(models.ErrCodeInvalidInput, "invalid page template", err)
		}
		tmpl = t
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&templatePath, "template", "", "YAML file overriding the page template (env PDR_TEMPLATE)")
}

// ExecuteContext runs the CLI with c as the base configuration.
func ExecuteContext(ctx context.Context, c *config.Config) error {
	cfg = c
	return rootCmd.ExecuteContext(ctx)
}

// openInput opens a file argument; "-" is stdin.
func openInput(cmd *cobra.Command, name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput, "cannot open input", err)
	}
	return f, nil
}

// writeSuspects reports questions whose explanation may belong to a
// neighbour. It goes to stderr so stdout stays a plain Test.
func writeSuspects(cmd *cobra.Command, suspects []extractor.Suspect) error {
	if len(suspects) == 0 {
		return nil
	}
	return transform.WriteJSON(cmd.ErrOrStderr(), struct {
		Suspect []extractor.Suspect `json:"suspect"`
	}{suspects})
}
