package commands

import (
	"github.com/spf13/cobra"
	"github.com/use-agent/pdrscrape/models"
	"github.com/use-agent/pdrscrape/transform"
)

func init() {
	rootCmd.AddCommand(reshapeCmd)
}

var reshapeCmd = &cobra.Command{
	Use:   "reshape FILE...",
	Short: "Merges scraped tests into one object keyed by test name.",
	Long: `Each FILE holds one test or an array of tests. The output maps every
test name to its questions, in the order the names were first seen.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var tests []models.Test
		for _, name := range args {
			in, err := openInput(cmd, name)
			if err != nil {
				return err
			}
			ts, err := transform.DecodeTests(in)
			in.Close()
			if err != nil {
				return models.NewScrapeError(models.ErrCodeInvalidInput, name, err)
			}
			tests = append(tests, ts...)
		}
		return transform.WriteJSON(cmd.OutOrStdout(), transform.Reshape(tests))
	},
}
