// Package cli implements the askdocs command-line interface using cobra.
// Services are injected by the composition root before Execute runs.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdocs-cli/internal/logger"
)

// version is the build version, overridden at link time.
var version = "dev"

// Injected driving services. Commands check for nil and fail with a
// clear message when the composition root has not wired them.
var (
	askService      driving.AskService
	indexService    driving.IndexService
	documentService driving.DocumentService
	historyService  driving.HistoryService
	settingsService driving.SettingsService
)

// verbose enables debug logging across all commands.
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "askdocs",
	Short: "Ask questions about your PDF documents",
	Long: `AskDocs answers natural-language questions about a folder of PDFs.

Documents are extracted, chunked, and embedded into a local vector
index. Questions are answered from retrieved passages with citations,
escalating to web search when the documents do not suffice.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

// Services bundles the driving ports the CLI depends on.
type Services struct {
	Ask      driving.AskService
	Index    driving.IndexService
	Document driving.DocumentService
	History  driving.HistoryService
	Settings driving.SettingsService
}

// SetServices injects the driving services used by the commands.
func SetServices(s Services) {
	askService = s.Ask
	indexService = s.Index
	documentService = s.Document
	historyService = s.History
	settingsService = s.Settings
}

// SetVersion overrides the reported version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
