package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

func TestThresholdStrategy(t *testing.T) {
	tests := []struct {
		name           string
		threshold      float64
		evidence       domain.RetrievedEvidence
		wantSufficient bool
	}{
		{
			name:           "top score above threshold",
			threshold:      0.7,
			evidence:       domain.RetrievedEvidence{passageEvidence("a.pdf:1:0", 0.85)},
			wantSufficient: true,
		},
		{
			name:           "top score exactly at threshold",
			threshold:      0.7,
			evidence:       domain.RetrievedEvidence{passageEvidence("a.pdf:1:0", 0.7)},
			wantSufficient: true,
		},
		{
			name:           "top score below threshold",
			threshold:      0.7,
			evidence:       domain.RetrievedEvidence{passageEvidence("a.pdf:1:0", 0.3)},
			wantSufficient: false,
		},
		{
			name:           "no evidence",
			threshold:      0.7,
			evidence:       nil,
			wantSufficient: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy := NewThresholdStrategy(tt.threshold)

			sufficient, justification, err := strategy.Evaluate(context.Background(), "q", tt.evidence)
			require.NoError(t, err)

			assert.Equal(t, tt.wantSufficient, sufficient)
			if !tt.wantSufficient {
				assert.NotEmpty(t, justification)
			}
		})
	}
}

func TestThresholdStrategy_DefaultThreshold(t *testing.T) {
	strategy := NewThresholdStrategy(0)

	sufficient, _, err := strategy.Evaluate(context.Background(), "q",
		domain.RetrievedEvidence{passageEvidence("a.pdf:1:0", domain.DefaultScoreThreshold)})
	require.NoError(t, err)
	assert.True(t, sufficient)
}

func TestLLMStrategy_VerdictParsing(t *testing.T) {
	evidence := domain.RetrievedEvidence{passageEvidence("a.pdf:1:0", 0.5)}

	tests := []struct {
		name              string
		reply             string
		wantSufficient    bool
		wantJustification string
	}{
		{
			name:           "sufficient",
			reply:          "SUFFICIENT",
			wantSufficient: true,
		},
		{
			name:           "sufficient with trailing text",
			reply:          "SUFFICIENT - the passages cover it",
			wantSufficient: true,
		},
		{
			name:              "insufficient with reason",
			reply:             "INSUFFICIENT: passages discuss setup, not pricing",
			wantSufficient:    false,
			wantJustification: "passages discuss setup, not pricing",
		},
		{
			name:              "insufficient without reason",
			reply:             "INSUFFICIENT:",
			wantSufficient:    false,
			wantJustification: "model judged passages insufficient",
		},
		{
			name:              "unexpected reply treated as insufficient",
			reply:             "maybe",
			wantSufficient:    false,
			wantJustification: "maybe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy := NewLLMStrategy(&mockLLMService{reply: tt.reply})

			sufficient, justification, err := strategy.Evaluate(context.Background(), "q", evidence)
			require.NoError(t, err)

			assert.Equal(t, tt.wantSufficient, sufficient)
			if tt.wantJustification != "" {
				assert.Equal(t, tt.wantJustification, justification)
			}
		})
	}
}

func TestLLMStrategy_PromptContainsQuestionAndPassages(t *testing.T) {
	llm := &mockLLMService{reply: "SUFFICIENT"}
	strategy := NewLLMStrategy(llm)

	_, _, err := strategy.Evaluate(context.Background(), "what is the warranty period?",
		domain.RetrievedEvidence{passageEvidence("manual.pdf:3:1", 0.6)})
	require.NoError(t, err)

	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "what is the warranty period?")
	assert.Contains(t, llm.prompts[0], "passage text for manual.pdf:3:1")
	assert.Contains(t, llm.prompts[0], "manual.pdf, page 1")
}

func TestLLMStrategy_EmptyEvidenceSkipsModel(t *testing.T) {
	llm := &mockLLMService{reply: "should not be called"}
	strategy := NewLLMStrategy(llm)

	sufficient, justification, err := strategy.Evaluate(context.Background(), "q", nil)
	require.NoError(t, err)

	assert.False(t, sufficient)
	assert.NotEmpty(t, justification)
	assert.Empty(t, llm.prompts)
}

func TestLLMStrategy_ModelFailure(t *testing.T) {
	llm := &mockLLMService{generateErr: errors.New("timeout")}
	strategy := NewLLMStrategy(llm)

	_, _, err := strategy.Evaluate(context.Background(), "q",
		domain.RetrievedEvidence{passageEvidence("a.pdf:1:0", 0.5)})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCollaborator)
}

func TestLLMStrategy_NilModel(t *testing.T) {
	strategy := NewLLMStrategy(nil)

	_, _, err := strategy.Evaluate(context.Background(), "q",
		domain.RetrievedEvidence{passageEvidence("a.pdf:1:0", 0.5)})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}
