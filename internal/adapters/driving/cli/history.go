package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent questions and answers",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "maximum number of entries")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	records, err := historyService.List(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if len(records) == 0 {
		cmd.Println("No questions asked yet.")
		return nil
	}

	for i := range records {
		r := &records[i]
		cmd.Printf("[%s] %s\n", r.CreatedAt.Format("2006-01-02 15:04"), r.Question)
		cmd.Printf("  %s\n", r.Answer)
		if r.WebSearchUsed {
			cmd.Println("  (answered from web search)")
		}
		cmd.Println()
	}

	return nil
}
