package domain

import "time"

// AskRecord is one row of ask history: a summary of a completed agent
// run. The full trace is ephemeral; only this summary is persisted.
type AskRecord struct {
	// ID uniquely identifies the record.
	ID string

	// Question is the question asked.
	Question string

	// Answer is the final answer text.
	Answer string

	// WebSearchUsed reports whether the run escalated to web search.
	WebSearchUsed bool

	// Duration is how long the run took.
	Duration time.Duration

	// CreatedAt is when the question was answered.
	CreatedAt time.Time
}
