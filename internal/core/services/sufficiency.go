package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

// SufficiencyStrategy is the pluggable EVALUATE policy: it judges
// whether retrieved evidence suffices to answer the question without
// web escalation. The two implementations (score threshold, LLM
// judgment) are interchangeable behind this interface.
type SufficiencyStrategy interface {
	// Evaluate returns the judgment and, when insufficient, a short
	// justification for the escalation.
	Evaluate(ctx context.Context, question string, evidence domain.RetrievedEvidence) (sufficient bool, justification string, err error)
}

// Ensure strategies implement the interface.
var (
	_ SufficiencyStrategy = (*ThresholdStrategy)(nil)
	_ SufficiencyStrategy = (*LLMStrategy)(nil)
)

// ThresholdStrategy judges by comparing the top similarity score
// against a fixed cutoff. Cheap: no extra model call per question.
type ThresholdStrategy struct {
	threshold float64
}

// NewThresholdStrategy creates a threshold strategy.
// A non-positive threshold falls back to the default.
func NewThresholdStrategy(threshold float64) *ThresholdStrategy {
	if threshold <= 0 {
		threshold = domain.DefaultScoreThreshold
	}
	return &ThresholdStrategy{threshold: threshold}
}

// Evaluate judges the evidence sufficient when the top score meets
// the threshold.
func (s *ThresholdStrategy) Evaluate(_ context.Context, _ string, evidence domain.RetrievedEvidence) (bool, string, error) {
	top := evidence.TopScore()
	if len(evidence) == 0 || top < s.threshold {
		return false, fmt.Sprintf("top similarity %.3f below threshold %.3f", top, s.threshold), nil
	}
	return true, "", nil
}

// defaultSufficiencyPrompt asks the model for a one-word verdict with
// a reason. Expects question then passages.
const defaultSufficiencyPrompt = `You decide whether the provided document passages contain enough information to answer a question.

Question: %s

Passages:
%s

Reply with a single line: either "SUFFICIENT" or "INSUFFICIENT: <one short reason>".`

// LLMStrategy asks the language model whether the passages answer
// the question.
type LLMStrategy struct {
	llm         driven.LLMService
	promptStore driven.PromptStore
}

// NewLLMStrategy creates an LLM judgment strategy.
func NewLLMStrategy(llm driven.LLMService) *LLMStrategy {
	return &LLMStrategy{llm: llm}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (s *LLMStrategy) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Evaluate asks the model for a verdict. A failed model call is a
// collaborator failure, not a silent "insufficient".
func (s *LLMStrategy) Evaluate(ctx context.Context, question string, evidence domain.RetrievedEvidence) (bool, string, error) {
	if s.llm == nil {
		return false, "", domain.ErrLLMUnavailable
	}
	if len(evidence) == 0 {
		return false, "no passages retrieved", nil
	}

	prompt := defaultSufficiencyPrompt
	if s.promptStore != nil {
		if custom, err := s.promptStore.Load(driven.PromptSufficiency); err == nil && custom != "" {
			prompt = custom
		}
	}

	reply, err := s.llm.Generate(ctx,
		fmt.Sprintf(prompt, question, formatPassages(evidence)),
		driven.GenerateOptions{MaxTokens: 100, Temperature: 0})
	if err != nil {
		return false, "", fmt.Errorf("%w: sufficiency judgment: %s", domain.ErrCollaborator, err)
	}

	verdict := strings.TrimSpace(reply)
	upper := strings.ToUpper(verdict)
	if strings.HasPrefix(upper, "SUFFICIENT") {
		return true, "", nil
	}

	justification := verdict
	if idx := strings.Index(verdict, ":"); idx >= 0 {
		justification = strings.TrimSpace(verdict[idx+1:])
	}
	if justification == "" {
		justification = "model judged passages insufficient"
	}
	return false, justification, nil
}

// formatPassages renders evidence passages for a prompt, one block
// per passage with its provenance.
func formatPassages(evidence domain.RetrievedEvidence) string {
	var b strings.Builder
	for i, e := range evidence {
		if e.Passage == nil {
			continue
		}
		fmt.Fprintf(&b, "[%d] (%s, page %d)\n%s\n\n",
			i+1, e.Passage.DocumentID, e.Passage.Page, e.Passage.Text)
	}
	return strings.TrimRight(b.String(), "\n")
}
