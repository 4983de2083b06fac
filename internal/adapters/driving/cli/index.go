package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index new PDFs from the docs directory",
	Long: `Scans the configured docs directory for PDFs not yet in the corpus,
extracts their text, chunks it into passages, embeds them, and adds
them to the vector index. Already indexed documents are skipped.`,
	RunE: runIndex,
}

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the index from the cataloged documents",
	Long: `Rebuilds the whole vector index from the stored documents. The
rebuilt index replaces the active one atomically; questions already
in flight finish against the previous snapshot.`,
	RunE: runReindex,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index status",
	RunE:  runStatus,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the docs directory and reindex on changes",
	Long: `Watches the configured docs directory and rebuilds the index
whenever PDFs are added, changed, or removed. Runs until interrupted.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(reindexCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(watchCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	cmd.Println("Indexing documents...")

	report, err := indexService.Index(cmd.Context())
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	cmd.Printf("Indexed %d documents (%d passages), skipped %d.\n",
		report.DocumentsAdded, report.Passages, report.DocumentsSkipped)
	return nil
}

func runReindex(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	cmd.Println("Rebuilding index...")

	report, err := indexService.Reindex(cmd.Context())
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}

	cmd.Printf("Rebuilt index with %d documents (%d passages).\n",
		report.DocumentsAdded, report.Passages)
	return nil
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	status, err := indexService.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	cmd.Println("Index Status")
	cmd.Println("============")
	cmd.Printf("  Documents:  %d\n", status.Documents)
	cmd.Printf("  Passages:   %d\n", status.Passages)
	if status.Dimensions > 0 {
		cmd.Printf("  Dimensions: %d\n", status.Dimensions)
	}
	if status.Ready {
		cmd.Println("  Ready:      yes")
	} else {
		cmd.Println("  Ready:      no (run 'askdocs index' first)")
	}
	return nil
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	cmd.Println("Watching docs directory for changes. Press Ctrl+C to stop.")

	if err := indexService.Watch(cmd.Context()); err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}
