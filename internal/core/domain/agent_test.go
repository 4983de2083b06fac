package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextAgentState_HappyPathFromDocs(t *testing.T) {
	s := StateStart
	s = NextAgentState(s, OutcomeOK)
	assert.Equal(t, StateRetrieve, s)
	s = NextAgentState(s, OutcomeOK)
	assert.Equal(t, StateEvaluate, s)
	s = NextAgentState(s, OutcomeSufficient)
	assert.Equal(t, StateAnswerFromDocs, s)
	s = NextAgentState(s, OutcomeOK)
	assert.Equal(t, StateSynthesize, s)
	s = NextAgentState(s, OutcomeOK)
	assert.Equal(t, StateDone, s)
	assert.True(t, s.Terminal())
}

func TestNextAgentState_EscalationPath(t *testing.T) {
	s := NextAgentState(StateEvaluate, OutcomeInsufficient)
	assert.Equal(t, StateWebSearch, s)
	s = NextAgentState(s, OutcomeOK)
	assert.Equal(t, StateSynthesize, s)
	s = NextAgentState(s, OutcomeOK)
	assert.Equal(t, StateDone, s)
}

// Web search is reachable only from EVALUATE; no (state, outcome)
// pair other than (EVALUATE, insufficient) may enter it. This is
// what makes the single-escalation invariant structural.
func TestNextAgentState_WebSearchOnlyFromEvaluate(t *testing.T) {
	states := []AgentState{
		StateStart, StateRetrieve, StateAnswerFromDocs,
		StateWebSearch, StateSynthesize, StateDone, StateFailed,
	}
	outcomes := []StepOutcome{
		OutcomeOK, OutcomeSufficient, OutcomeInsufficient,
		OutcomeNotReady, OutcomeError,
	}

	for _, s := range states {
		for _, o := range outcomes {
			next := NextAgentState(s, o)
			assert.NotEqual(t, StateWebSearch, next,
				"state %s outcome %d must not enter WEB_SEARCH", s, o)
		}
	}
}

func TestNextAgentState_NotReadyShortCircuits(t *testing.T) {
	s := NextAgentState(StateRetrieve, OutcomeNotReady)
	assert.Equal(t, StateDone, s)
}

func TestNextAgentState_ErrorAlwaysFails(t *testing.T) {
	for _, s := range []AgentState{
		StateStart, StateRetrieve, StateEvaluate,
		StateAnswerFromDocs, StateWebSearch, StateSynthesize,
	} {
		assert.Equal(t, StateFailed, NextAgentState(s, OutcomeError), "state %s", s)
	}
}

func TestAgentState_String(t *testing.T) {
	assert.Equal(t, "START", StateStart.String())
	assert.Equal(t, "WEB_SEARCH", StateWebSearch.String())
	assert.Equal(t, "DONE", StateDone.String())
	assert.Equal(t, "UNKNOWN", AgentState(99).String())
}

func TestAgentTrace_Record(t *testing.T) {
	trace := AgentTrace{ID: "run-1", Question: "what is x?"}
	trace.Record(StateRetrieve, "5 passages")
	trace.Record(StateEvaluate, "sufficient")

	assert.Len(t, trace.Steps, 2)
	assert.Equal(t, StateRetrieve, trace.Steps[0].State)
	assert.Equal(t, "sufficient", trace.Steps[1].Note)
	assert.False(t, trace.Steps[0].At.IsZero())
}
