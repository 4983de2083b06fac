package domain

import "time"

// AgentState enumerates the states of the question-answering agent.
// The agent walks a fixed graph:
//
//	START → RETRIEVE → EVALUATE → {ANSWER_FROM_DOCS | WEB_SEARCH} → SYNTHESIZE → DONE
//
// with FAILED reachable from any state on collaborator failure.
// EVALUATE is entered exactly once per run and is the only branch
// point, so web search can never happen more than once per question.
type AgentState int

// Agent states.
const (
	StateStart AgentState = iota
	StateRetrieve
	StateEvaluate
	StateAnswerFromDocs
	StateWebSearch
	StateSynthesize
	StateDone
	StateFailed
)

// String returns the state name.
func (s AgentState) String() string {
	switch s {
	case StateStart:
		return "START"
	case StateRetrieve:
		return "RETRIEVE"
	case StateEvaluate:
		return "EVALUATE"
	case StateAnswerFromDocs:
		return "ANSWER_FROM_DOCS"
	case StateWebSearch:
		return "WEB_SEARCH"
	case StateSynthesize:
		return "SYNTHESIZE"
	case StateDone:
		return "DONE"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether the state ends the run.
func (s AgentState) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// StepOutcome is the result of executing one agent state, fed to the
// transition function to pick the next state.
type StepOutcome int

// Step outcomes.
const (
	// OutcomeOK means the state's action completed normally.
	OutcomeOK StepOutcome = iota

	// OutcomeSufficient means EVALUATE judged the evidence sufficient.
	OutcomeSufficient

	// OutcomeInsufficient means EVALUATE judged the evidence insufficient.
	OutcomeInsufficient

	// OutcomeNotReady means retrieval found no indexed documents.
	OutcomeNotReady

	// OutcomeError means a collaborator call failed.
	OutcomeError
)

// NextAgentState is the pure transition function of the agent FSM.
// It maps (state, outcome) to the next state and encodes the whole
// control-flow policy, including the single-escalation rule:
// WEB_SEARCH is reachable only from EVALUATE, and every path out of
// EVALUATE leads forward, never back.
func NextAgentState(s AgentState, o StepOutcome) AgentState {
	if o == OutcomeError {
		return StateFailed
	}

	switch s {
	case StateStart:
		return StateRetrieve
	case StateRetrieve:
		if o == OutcomeNotReady {
			// No index yet: short-circuit to a terminal
			// "no documents" answer, skipping evaluation.
			return StateDone
		}
		return StateEvaluate
	case StateEvaluate:
		if o == OutcomeInsufficient {
			return StateWebSearch
		}
		return StateAnswerFromDocs
	case StateAnswerFromDocs, StateWebSearch:
		return StateSynthesize
	case StateSynthesize:
		return StateDone
	default:
		return StateFailed
	}
}

// AgentStep records one state the agent passed through.
type AgentStep struct {
	// State is the state that was executed.
	State AgentState

	// Note is a short human-readable description of what happened.
	Note string

	// At is when the state was entered.
	At time.Time
}

// AgentTrace is the full record of one agent run. It is ephemeral,
// scoped to a single question, and discarded once the answer is
// composed; only a summary row goes to ask history.
type AgentTrace struct {
	// ID uniquely identifies the run.
	ID string

	// Question is the question being answered.
	Question string

	// Steps are the states executed, in order.
	Steps []AgentStep

	// WebSearchUsed reports whether the run escalated to web search.
	WebSearchUsed bool
}

// Record appends a step to the trace.
func (t *AgentTrace) Record(state AgentState, note string) {
	t.Steps = append(t.Steps, AgentStep{State: state, Note: note, At: time.Now()})
}
