package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldt-labs/boxrag-cli/internal/core/domain"
	"github.com/veldt-labs/boxrag-cli/internal/core/ports/driven"
)

// mockCompletion implements driven.CompletionService for testing.
type mockCompletion struct {
	reply string
	err   error

	// calls records the messages of each Chat invocation.
	calls [][]driven.ChatMessage
}

func (m *mockCompletion) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.calls = append(m.calls, messages)
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockCompletion) ModelName() string            { return "mock-model" }
func (m *mockCompletion) Ping(_ context.Context) error { return nil }

// contextOf extracts the context message content of one recorded call.
func contextOf(t *testing.T, messages []driven.ChatMessage) string {
	t.Helper()
	for _, msg := range messages {
		if strings.HasPrefix(msg.Content, "Context: ") {
			return strings.TrimPrefix(msg.Content, "Context: ")
		}
	}
	t.Fatal("no context message found")
	return ""
}

func TestAsk(t *testing.T) {
	index := newMockIndex()
	index.hits = []domain.QueryHit{
		{ChunkText: "first chunk", Score: 0.92},
		{ChunkText: "second chunk", Score: 0.81},
	}
	completion := &mockCompletion{reply: "  The answer.  "}
	svc := NewAnswerer(&mockStorage{}, index, completion)

	answer, err := svc.Ask(context.Background(), "What is X?", 5)

	require.NoError(t, err)
	assert.Equal(t, "The answer.", answer)

	require.Len(t, completion.calls, 1)
	// Hit texts joined by a single space, rank order preserved.
	assert.Equal(t, "first chunk second chunk", contextOf(t, completion.calls[0]))

	messages := completion.calls[0]
	require.Len(t, messages, 3)
	assert.Equal(t, "system", messages[0].Role)
	assert.Contains(t, messages[0].Content, "concise")
	assert.Contains(t, messages[2].Content, "What is X?")
}

func TestAsk_NoHitsStillAnswers(t *testing.T) {
	index := newMockIndex()
	index.queryErr = domain.ErrNoResults
	completion := &mockCompletion{reply: "generic answer"}
	svc := NewAnswerer(&mockStorage{}, index, completion)

	answer, err := svc.Ask(context.Background(), "What is X?", 5)

	require.NoError(t, err)
	assert.Equal(t, "generic answer", answer)
	require.Len(t, completion.calls, 1)
	assert.Equal(t, "", contextOf(t, completion.calls[0]))
}

func TestAsk_EmptyQuestion(t *testing.T) {
	svc := NewAnswerer(&mockStorage{}, newMockIndex(), &mockCompletion{})

	_, err := svc.Ask(context.Background(), "   ", 5)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAsk_QueryFailure(t *testing.T) {
	index := newMockIndex()
	index.queryErr = errors.New("index down")
	svc := NewAnswerer(&mockStorage{}, index, &mockCompletion{})

	_, err := svc.Ask(context.Background(), "What is X?", 5)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "query index")
}

func TestAsk_CompletionFailure(t *testing.T) {
	completion := &mockCompletion{err: errors.New("quota exceeded")}
	svc := NewAnswerer(&mockStorage{}, newMockIndex(), completion)

	_, err := svc.Ask(context.Background(), "What is X?", 5)

	assert.ErrorIs(t, err, domain.ErrCompletionFailed)
}

func TestAskCompared(t *testing.T) {
	index := newMockIndex()
	index.hits = []domain.QueryHit{{ChunkText: "the corpus says Y", Score: 0.9}}
	completion := &mockCompletion{reply: "answer"}
	svc := NewAnswerer(&mockStorage{}, index, completion)

	answers, err := svc.AskCompared(context.Background(), "What is Y?", 5)

	require.NoError(t, err)
	assert.Equal(t, "answer", answers.Bare)
	assert.Equal(t, "answer", answers.Contextual)

	// Two generations: one without context, one with.
	require.Len(t, completion.calls, 2)
	assert.Equal(t, "", contextOf(t, completion.calls[0]))
	assert.Equal(t, "the corpus says Y", contextOf(t, completion.calls[1]))
}

func TestAsk_DefaultTopK(t *testing.T) {
	index := newMockIndex()
	completion := &mockCompletion{reply: "ok"}
	svc := NewAnswerer(&mockStorage{}, index, completion)

	_, err := svc.Ask(context.Background(), "question", 0)

	require.NoError(t, err)
}
