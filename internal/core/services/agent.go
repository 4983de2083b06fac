package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdocs-cli/internal/logger"
)

// noDocumentsAnswer is returned when a question arrives before any
// document has been indexed.
const noDocumentsAnswer = "No documents have been indexed yet. Add PDFs to your docs directory and run 'askdocs index' first."

// defaultAnswerFromDocsPrompt grounds the answer in retrieved
// passages only. Expects passages then question.
const defaultAnswerFromDocsPrompt = `Answer the question using ONLY the document passages below. If the passages do not contain the information needed, say you cannot answer from the available documents. Do not use outside knowledge.

Passages:
%s

Question: %s

Answer:`

// defaultAnswerFromWebPrompt grounds the answer in web results only.
// Expects results then question.
const defaultAnswerFromWebPrompt = `Answer the question using ONLY the web search results below. If they do not contain the information needed, say so. Do not use outside knowledge.

Results:
%s

Question: %s

Answer:`

// EvidenceRetriever is the slice of Retriever the agent depends on.
type EvidenceRetriever interface {
	Retrieve(ctx context.Context, question string) (domain.RetrievedEvidence, error)
}

// AgentResult is the output of one agent run: the synthesized answer
// text and exactly the evidence that was passed to synthesis, so
// citations can never reference un-retrieved material.
type AgentResult struct {
	// Text is the synthesized answer.
	Text string

	// Evidence is the evidence set actually used for synthesis, in
	// the order it was presented to the model.
	Evidence domain.RetrievedEvidence

	// WebSearchUsed reports whether the run escalated to web search.
	WebSearchUsed bool

	// Justification is the EVALUATE reasoning when escalation happened.
	Justification string

	// Trace is the per-run step record.
	Trace domain.AgentTrace
}

// Agent answers one question by walking the fixed state machine
// defined in domain: retrieve, evaluate sufficiency, answer from
// documents or escalate to web search at most once, synthesize.
//
// The agent never retries a failed collaborator call; the first
// failure ends the run with ErrCollaborator.
type Agent struct {
	retriever     EvidenceRetriever
	strategy      SufficiencyStrategy
	llm           driven.LLMService
	webSearch     driven.WebSearchService
	webMaxResults int
	promptStore   driven.PromptStore
}

// NewAgent creates an agent. webSearch may be nil, in which case the
// agent answers from documents even when evidence is judged thin.
func NewAgent(
	retriever EvidenceRetriever,
	strategy SufficiencyStrategy,
	llm driven.LLMService,
	webSearch driven.WebSearchService,
	webMaxResults int,
) *Agent {
	if webMaxResults <= 0 {
		webMaxResults = domain.DefaultWebMaxResults
	}
	return &Agent{
		retriever:     retriever,
		strategy:      strategy,
		llm:           llm,
		webSearch:     webSearch,
		webMaxResults: webMaxResults,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (a *Agent) SetPromptStore(store driven.PromptStore) {
	a.promptStore = store
}

// run holds the mutable state of one agent run.
type run struct {
	question      string
	evidence      domain.RetrievedEvidence
	text          string
	justification string
	webUsed       bool
	err           error
	trace         domain.AgentTrace
}

// Run answers one question. The returned error is non-nil only for
// collaborator failures or cancellation; "no documents indexed" is a
// normal terminal answer, not an error.
func (a *Agent) Run(ctx context.Context, question string) (*AgentResult, error) {
	logger.Section("Agent Run")
	logger.Debug("Question: %q", question)

	r := &run{
		question: question,
		trace:    domain.AgentTrace{ID: uuid.New().String(), Question: question},
	}

	state := domain.StateStart
	for !state.Terminal() {
		// Cancellation is honoured at state boundaries: an abandoned
		// run stops after its in-flight collaborator call completes.
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		outcome := a.step(ctx, state, r)
		next := domain.NextAgentState(state, outcome)
		logger.Debug("Transition %s -> %s", state, next)
		state = next
	}

	r.trace.WebSearchUsed = r.webUsed
	r.trace.Record(state, "")

	if state == domain.StateFailed {
		if errors.Is(r.err, domain.ErrCollaborator) {
			return nil, r.err
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrCollaborator, r.err)
	}

	return &AgentResult{
		Text:          r.text,
		Evidence:      r.evidence,
		WebSearchUsed: r.webUsed,
		Justification: r.justification,
		Trace:         r.trace,
	}, nil
}

// step executes one state's side effect and reports its outcome.
func (a *Agent) step(ctx context.Context, state domain.AgentState, r *run) domain.StepOutcome {
	switch state {
	case domain.StateStart:
		r.trace.Record(state, "")
		return domain.OutcomeOK

	case domain.StateRetrieve:
		return a.retrieve(ctx, r)

	case domain.StateEvaluate:
		return a.evaluate(ctx, r)

	case domain.StateAnswerFromDocs:
		// Document passages stay the active evidence set for synthesis.
		r.trace.Record(state, fmt.Sprintf("answering from %d passages", len(r.evidence)))
		return domain.OutcomeOK

	case domain.StateWebSearch:
		return a.webEscalate(ctx, r)

	case domain.StateSynthesize:
		return a.synthesize(ctx, r)

	default:
		r.err = fmt.Errorf("unexpected state %s", state)
		return domain.OutcomeError
	}
}

// retrieve executes RETRIEVE.
func (a *Agent) retrieve(ctx context.Context, r *run) domain.StepOutcome {
	evidence, err := a.retriever.Retrieve(ctx, r.question)
	switch {
	case errors.Is(err, domain.ErrIndexNotReady):
		// Terminal "no documents" answer, zero citations.
		r.text = noDocumentsAnswer
		r.evidence = nil
		r.trace.Record(domain.StateRetrieve, "index not ready")
		return domain.OutcomeNotReady
	case err != nil:
		r.err = err
		r.trace.Record(domain.StateRetrieve, err.Error())
		return domain.OutcomeError
	}

	r.evidence = evidence
	r.trace.Record(domain.StateRetrieve,
		fmt.Sprintf("%d passages, top score %.3f", len(evidence), evidence.TopScore()))
	return domain.OutcomeOK
}

// evaluate executes EVALUATE, the only branch point.
func (a *Agent) evaluate(ctx context.Context, r *run) domain.StepOutcome {
	sufficient, justification, err := a.strategy.Evaluate(ctx, r.question, r.evidence)
	if err != nil {
		r.err = err
		r.trace.Record(domain.StateEvaluate, err.Error())
		return domain.OutcomeError
	}

	if sufficient {
		logger.Info("Evidence sufficient, answering from documents")
		r.trace.Record(domain.StateEvaluate, "sufficient")
		return domain.OutcomeSufficient
	}

	r.justification = justification
	if a.webSearch == nil {
		// No web-search collaborator configured: answer from the
		// documents we have rather than failing the run.
		logger.Warn("Evidence insufficient (%s) but web search is not configured", justification)
		r.trace.Record(domain.StateEvaluate, "insufficient, no web search configured")
		return domain.OutcomeSufficient
	}

	logger.Info("Evidence insufficient: %s", justification)
	r.trace.Record(domain.StateEvaluate, "insufficient: "+justification)
	return domain.OutcomeInsufficient
}

// webEscalate executes WEB_SEARCH: the results replace the document
// passages as the active evidence set.
func (a *Agent) webEscalate(ctx context.Context, r *run) domain.StepOutcome {
	results, err := a.webSearch.Search(ctx, r.question, a.webMaxResults)
	if err != nil {
		r.err = fmt.Errorf("%w: web search: %s", domain.ErrCollaborator, err)
		r.trace.Record(domain.StateWebSearch, err.Error())
		return domain.OutcomeError
	}

	evidence := make(domain.RetrievedEvidence, len(results))
	for i := range results {
		res := results[i]
		evidence[i] = domain.Evidence{Web: &res}
	}
	r.evidence = evidence
	r.webUsed = true
	r.trace.Record(domain.StateWebSearch, fmt.Sprintf("%d results", len(results)))
	return domain.OutcomeOK
}

// synthesize executes SYNTHESIZE over the active evidence set. The
// evidence rendered into the prompt is exactly r.evidence; the same
// slice is what the composer cites.
func (a *Agent) synthesize(ctx context.Context, r *run) domain.StepOutcome {
	if a.llm == nil {
		r.err = domain.ErrLLMUnavailable
		return domain.OutcomeError
	}

	var prompt string
	if r.webUsed {
		prompt = fmt.Sprintf(a.loadPrompt(driven.PromptAnswerFromWeb, defaultAnswerFromWebPrompt),
			formatWebResults(r.evidence), r.question)
	} else {
		prompt = fmt.Sprintf(a.loadPrompt(driven.PromptAnswerFromDocs, defaultAnswerFromDocsPrompt),
			formatPassages(r.evidence), r.question)
	}

	text, err := a.llm.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: 1024, Temperature: 0.2})
	if err != nil {
		r.err = fmt.Errorf("%w: synthesis: %s", domain.ErrCollaborator, err)
		r.trace.Record(domain.StateSynthesize, err.Error())
		return domain.OutcomeError
	}

	r.text = strings.TrimSpace(text)
	r.trace.Record(domain.StateSynthesize, fmt.Sprintf("%d chars", len(r.text)))
	return domain.OutcomeOK
}

// loadPrompt returns the custom template for name when the prompt
// store has one, falling back to the embedded default.
func (a *Agent) loadPrompt(name, fallback string) string {
	if a.promptStore == nil {
		return fallback
	}
	custom, err := a.promptStore.Load(name)
	if err != nil || custom == "" {
		return fallback
	}
	return custom
}

// formatWebResults renders web evidence for a prompt.
func formatWebResults(evidence domain.RetrievedEvidence) string {
	var b strings.Builder
	for i, e := range evidence {
		if e.Web == nil {
			continue
		}
		fmt.Fprintf(&b, "[%d] %s (%s)\n%s\n\n", i+1, e.Web.Title, e.Web.URL, e.Web.Snippet)
	}
	return strings.TrimRight(b.String(), "\n")
}
