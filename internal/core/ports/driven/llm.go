package driven

import "context"

// CompletionService provides one-shot text generation for answering
// questions over retrieved context.
//
// Implementations may include:
//   - OpenAI (GPT-4o, GPT-4o-mini)
//   - Azure OpenAI or any chat-completions compatible API
type CompletionService interface {
	// Chat sends a conversation and returns the assistant's reply.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Used at startup before committing to a query loop.
	Ping(ctx context.Context) error
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures generation behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
