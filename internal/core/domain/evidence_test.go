package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvidence_IsWeb(t *testing.T) {
	passage := Evidence{Passage: &Passage{ID: "doc.pdf:1:0"}, Score: 0.9}
	web := Evidence{Web: &WebResult{Title: "Result", URL: "https://example.com"}}

	assert.False(t, passage.IsWeb())
	assert.True(t, web.IsWeb())
}

func TestRetrievedEvidence_TopScore(t *testing.T) {
	assert.Zero(t, RetrievedEvidence(nil).TopScore())

	ev := RetrievedEvidence{
		{Passage: &Passage{ID: "a:1:0"}, Score: 0.82},
		{Passage: &Passage{ID: "a:1:1"}, Score: 0.41},
	}
	assert.InDelta(t, 0.82, ev.TopScore(), 1e-9)
}
