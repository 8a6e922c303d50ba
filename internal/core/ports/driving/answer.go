package driving

import "context"

// ComparedAnswers holds the two generations produced for one question:
// one with retrieved context and one without. Comparing them shows how
// much the indexed corpus actually contributed.
type ComparedAnswers struct {
	// Contextual is the answer grounded in retrieved chunks.
	Contextual string

	// Bare is the answer generated without any retrieved context.
	Bare string
}

// Answerer answers natural-language questions from the indexed corpus.
type Answerer interface {
	// Ask retrieves up to topK chunks for the question under the
	// authenticated user's namespace and generates an answer from them.
	// Zero retrieved chunks is not an error: the completion service is
	// still asked, with an empty context.
	Ask(ctx context.Context, question string, topK int) (string, error)

	// AskCompared returns both the contextual and the bare answer.
	AskCompared(ctx context.Context, question string, topK int) (ComparedAnswers, error)
}
