package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible
	// default or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptSufficiency asks the model whether the retrieved passages
	// answer the question. Expects %s (question) and %s (passages).
	PromptSufficiency = "sufficiency"

	// PromptAnswerFromDocs synthesizes an answer grounded only in the
	// retrieved passages. Expects %s (passages) and %s (question).
	PromptAnswerFromDocs = "answer_from_docs"

	// PromptAnswerFromWeb synthesizes an answer grounded only in web
	// search results. Expects %s (results) and %s (question).
	PromptAnswerFromWeb = "answer_from_web"
)

// PromptStoreAware is an optional interface for services that can use custom
// prompts. Services implementing it can have their templates customised by
// injecting a PromptStore after construction.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service should use hardcoded default prompts.
	SetPromptStore(store PromptStore)
}
