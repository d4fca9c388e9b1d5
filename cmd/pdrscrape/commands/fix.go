package commands

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/use-agent/pdrscrape/models"
	"github.com/use-agent/pdrscrape/transform"
)

func init() {
	rootCmd.AddCommand(fixCmd)
}

var fixCmd = &cobra.Command{
	Use:   "fix-explanations FILE",
	Short: "Shifts every explanation to the following question.",
	Long: `Repairs a scrape whose explanations were read one question late: each
question takes the explanation stored on the question before it, and the
first question takes the last one's. FILE holds an array of questions or a
whole test.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := openInput(cmd, args[0])
		if err != nil {
			return err
		}
		defer in.Close()

		questions, test, err := transform.DecodeQuestions(in)
		if err != nil {
			return models.NewScrapeError(models.ErrCodeInvalidInput, args[0], err)
		}
		transform.FixExplanations(questions)
		slog.Info("explanations shifted", "questions", len(questions))

		if test != nil {
			test.Questions = questions
			return transform.WriteJSON(cmd.OutOrStdout(), test)
		}
		return transform.WriteJSON(cmd.OutOrStdout(), questions)
	},
}
