package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

func TestHistoryCmd_Use(t *testing.T) {
	assert.Equal(t, "history", historyCmd.Use)
}

func TestHistoryCmd_ErrorsWithoutService(t *testing.T) {
	prev := historyService
	historyService = nil
	defer func() { historyService = prev }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"history"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "history service not configured")
}

func TestHistoryCmd_PrintsRecords(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"history"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "[2025-03-02 09:30] What is the capital of France?")
	assert.Contains(t, buf.String(), "Paris is the capital of France.")
	assert.NotContains(t, buf.String(), "answered from web search")
}

func TestHistoryCmd_MarksWebSearch(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	historyService = &mockHistoryService{
		records: []domain.AskRecord{
			{
				ID:            "rec-2",
				Question:      "Latest release?",
				Answer:        "Version 3.1 shipped last week.",
				WebSearchUsed: true,
				CreatedAt:     time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC),
			},
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"history"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "(answered from web search)")
}

func TestHistoryCmd_Empty(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	historyService = &mockHistoryService{}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"history"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No questions asked yet.")
}

func TestHistoryCmd_LimitFlag(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	historyService = &mockHistoryService{
		records: []domain.AskRecord{
			{ID: "rec-1", Question: "first?", Answer: "one", CreatedAt: time.Now()},
			{ID: "rec-2", Question: "second?", Answer: "two", CreatedAt: time.Now()},
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"history", "--limit", "1"})
	defer func() {
		rootCmd.SetArgs(nil)
		historyLimit = 10
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "first?")
	assert.NotContains(t, buf.String(), "second?")
}
