package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Manage cataloged documents",
	Long:  `List, inspect, or remove documents from the corpus catalog.`,
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cataloged documents",
	RunE:  runDocumentsList,
}

var documentsShowCmd = &cobra.Command{
	Use:   "show [doc-id]",
	Short: "Show a document's extracted text",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsShow,
}

var documentsRemoveCmd = &cobra.Command{
	Use:   "remove [doc-id]",
	Short: "Remove a document and rebuild the index",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsRemove,
}

func init() {
	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsShowCmd)
	documentsCmd.AddCommand(documentsRemoveCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docs, err := documentService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents in the catalog. Run 'askdocs index' to add some.")
		return nil
	}

	cmd.Println("Cataloged documents:")
	cmd.Println()
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Title:   %s\n", docs[i].Title)
		cmd.Printf("    Pages:   %d\n", docs[i].PageCount)
		if !docs[i].IndexedAt.IsZero() {
			cmd.Printf("    Indexed: %s\n", docs[i].IndexedAt.Format("2006-01-02 15:04:05"))
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentsShow(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc, err := documentService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  Title: %s\n", doc.Title)
	cmd.Printf("  Path:  %s\n", doc.Path)
	cmd.Printf("  Pages: %d\n", doc.PageCount)

	for _, page := range doc.Pages {
		cmd.Printf("\n--- Page %d ---\n", page.Number)
		cmd.Println(strings.TrimSpace(page.Text))
	}

	return nil
}

func runDocumentsRemove(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	id := args[0]
	cmd.Printf("Removing %s and rebuilding index...\n", id)

	if err := documentService.Remove(cmd.Context(), id); err != nil {
		return fmt.Errorf("failed to remove document: %w", err)
	}

	cmd.Printf("Document %s removed.\n", id)
	return nil
}
