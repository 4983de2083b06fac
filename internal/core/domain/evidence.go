package domain

// Evidence is one item backing an answer: either a scored document
// passage from the vector index or a web search result. Exactly one
// of Passage and Web is set.
type Evidence struct {
	// Passage is the matched document passage (nil for web evidence).
	Passage *Passage

	// Score is the similarity score for passage evidence.
	// Higher is more similar; web evidence carries no score.
	Score float64

	// Web is the web search result (nil for passage evidence).
	Web *WebResult
}

// IsWeb reports whether this evidence came from web search.
func (e Evidence) IsWeb() bool {
	return e.Web != nil
}

// RetrievedEvidence is an ordered evidence set from a single
// retrieval or web search, ranked best-first. Ephemeral, never persisted.
type RetrievedEvidence []Evidence

// TopScore returns the highest similarity score in the set,
// or 0 when the set is empty or web-based.
func (r RetrievedEvidence) TopScore() float64 {
	if len(r) == 0 {
		return 0
	}
	return r[0].Score
}

// WebResult is a single ranked result from the web-search collaborator.
type WebResult struct {
	// Title is the result page title.
	Title string

	// URL is the result location.
	URL string

	// Snippet is the short content excerpt returned by the provider.
	Snippet string
}
