package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your documents",
	Long: `Answers a natural-language question from the indexed documents.

Passages are retrieved from the vector index and judged for
sufficiency. When they do not answer the question, the agent runs one
web search and answers from the results instead. Every answer carries
citations for the evidence used.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if askService == nil {
		return errors.New("ask service not configured")
	}

	answer, err := askService.Ask(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputAnswerJSON(cmd, answer)
	}

	return outputAnswerText(cmd, answer)
}

func outputAnswerJSON(cmd *cobra.Command, answer *domain.Answer) error {
	data, err := json.MarshalIndent(answer, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAnswerText(cmd *cobra.Command, answer *domain.Answer) error {
	cmd.Println(answer.Text)

	if answer.WebSearchUsed {
		cmd.Println()
		cmd.Println("Answered from web search.")
		if answer.Justification != "" {
			cmd.Printf("Reason: %s\n", answer.Justification)
		}
	}

	if len(answer.Citations) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for i, c := range answer.Citations {
			if c.URL != "" {
				cmd.Printf("  [%d] %s (%s)\n", i+1, c.Source, c.URL)
			} else {
				cmd.Printf("  [%d] %s, page %d\n", i+1, c.Source, c.Page)
			}
			if c.Preview != "" {
				cmd.Printf("      %s\n", c.Preview)
			}
		}
	}

	return nil
}
