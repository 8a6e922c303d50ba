package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/veldt-labs/boxrag-cli/internal/core/domain"
	"github.com/veldt-labs/boxrag-cli/internal/core/ports/driven"
	"github.com/veldt-labs/boxrag-cli/internal/core/ports/driving"
	"github.com/veldt-labs/boxrag-cli/internal/logger"
)

// Ensure Answerer implements the interface.
var _ driving.Answerer = (*Answerer)(nil)

// DefaultTopK is the default number of chunks retrieved per question.
const DefaultTopK = 5

// answerMaxTokens caps the generated answer length.
const answerMaxTokens = 150

// systemPrompt is the fixed instruction for every generation. The
// current date is interpolated so temporal questions resolve sensibly.
const systemPrompt = `You are a helpful assistant.
Use the provided context to answer the question. Focus on answering the question based on the context provided.
Consider synonymous or related terms when identifying entities.
The current date is %s.
Keep your answer concise and to the point.
Keep your tone professional and avoid using emojis.
Format the answer in markdown so it is easy to read and follow.`

// Answerer retrieves relevant chunks for a question and forwards them,
// together with the question, to the completion service.
type Answerer struct {
	storage    driven.StorageProvider
	index      driven.VectorIndex
	completion driven.CompletionService

	// now is swappable for tests.
	now func() time.Time
}

// NewAnswerer creates a new answer service.
func NewAnswerer(storage driven.StorageProvider, index driven.VectorIndex, completion driven.CompletionService) *Answerer {
	return &Answerer{
		storage:    storage,
		index:      index,
		completion: completion,
		now:        time.Now,
	}
}

// Ask answers a question from chunks retrieved under the authenticated
// user's namespace.
func (s *Answerer) Ask(ctx context.Context, question string, topK int) (string, error) {
	contextText, err := s.retrieveContext(ctx, question, topK)
	if err != nil {
		return "", err
	}
	return s.generate(ctx, question, contextText)
}

// AskCompared returns both the contextual answer and a bare one
// generated without retrieved context.
func (s *Answerer) AskCompared(ctx context.Context, question string, topK int) (driving.ComparedAnswers, error) {
	contextText, err := s.retrieveContext(ctx, question, topK)
	if err != nil {
		return driving.ComparedAnswers{}, err
	}

	bare, err := s.generate(ctx, question, "")
	if err != nil {
		return driving.ComparedAnswers{}, err
	}

	contextual, err := s.generate(ctx, question, contextText)
	if err != nil {
		return driving.ComparedAnswers{}, err
	}

	return driving.ComparedAnswers{Contextual: contextual, Bare: bare}, nil
}

// retrieveContext queries the index and joins the returned chunk texts,
// in rank order, with single spaces. No hits degrade to an empty
// context string: the completion service is still asked and produces a
// generic answer instead of the call failing.
func (s *Answerer) retrieveContext(ctx context.Context, question string, topK int) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	account, err := s.storage.CurrentUser(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve user: %w", err)
	}

	logger.Section("Retrieval")
	logger.Debug("Query: %q (top %d, namespace %s)", question, topK, account.ID)

	hits, err := s.index.Query(ctx, account.ID, question, topK)
	if errors.Is(err, domain.ErrNoResults) {
		logger.Debug("No hits; answering without context")
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query index: %w", err)
	}

	texts := make([]string, len(hits))
	for i, hit := range hits {
		texts[i] = hit.ChunkText
	}
	return strings.Join(texts, " "), nil
}

// generate runs one completion call for the question over the context.
func (s *Answerer) generate(ctx context.Context, question, contextText string) (string, error) {
	messages := []driven.ChatMessage{
		{Role: "system", Content: fmt.Sprintf(systemPrompt, s.now().Format("2006-01-02"))},
		{Role: "user", Content: "Context: " + contextText},
		{Role: "user", Content: "Question: " + question + "\nPlease use only the above context to answer."},
	}

	answer, err := s.completion.Chat(ctx, messages, driven.ChatOptions{MaxTokens: answerMaxTokens})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrCompletionFailed, err)
	}
	return strings.TrimSpace(answer), nil
}
