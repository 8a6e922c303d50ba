package cli

import (
	"context"

	"github.com/veldt-labs/boxrag-cli/internal/core/domain"
	"github.com/veldt-labs/boxrag-cli/internal/core/ports/driving"
)

// mockIngestor returns a canned report.
type mockIngestor struct {
	report  *domain.IngestReport
	paths   []string
	err     error
	folders []string
}

func (m *mockIngestor) IngestFolder(_ context.Context, folderID string) (*domain.IngestReport, error) {
	m.folders = append(m.folders, folderID)
	if m.err != nil {
		return nil, m.err
	}
	if m.report != nil {
		return m.report, nil
	}
	return &domain.IngestReport{FolderID: folderID}, nil
}

func (m *mockIngestor) DownloadFolder(_ context.Context, folderID, _ string) ([]string, error) {
	m.folders = append(m.folders, folderID)
	return m.paths, m.err
}

// mockAnswerer returns a canned answer.
type mockAnswerer struct {
	answer    string
	bare      string
	err       error
	questions []string
	topKs     []int
}

func (m *mockAnswerer) Ask(_ context.Context, question string, topK int) (string, error) {
	m.questions = append(m.questions, question)
	m.topKs = append(m.topKs, topK)
	return m.answer, m.err
}

func (m *mockAnswerer) AskCompared(_ context.Context, question string, topK int) (driving.ComparedAnswers, error) {
	m.questions = append(m.questions, question)
	m.topKs = append(m.topKs, topK)
	if m.err != nil {
		return driving.ComparedAnswers{}, m.err
	}
	return driving.ComparedAnswers{Contextual: m.answer, Bare: m.bare}, nil
}

// mockVectorIndex records index lifecycle calls.
type mockVectorIndex struct {
	ensureCalls int
	ensureErr   error
}

func (m *mockVectorIndex) EnsureIndex(_ context.Context) error {
	m.ensureCalls++
	return m.ensureErr
}

func (m *mockVectorIndex) UpsertRecords(_ context.Context, _ string, _ []domain.Record) error {
	return nil
}

func (m *mockVectorIndex) Query(_ context.Context, _, _ string, _ int) ([]domain.QueryHit, error) {
	return nil, nil
}

// mockCredentialsStore keeps credentials in memory.
type mockCredentialsStore struct {
	creds *domain.Credentials
}

func (m *mockCredentialsStore) Load(_ context.Context) (*domain.Credentials, error) {
	if m.creds == nil {
		return nil, domain.ErrNotFound
	}
	return m.creds, nil
}

func (m *mockCredentialsStore) Save(_ context.Context, creds *domain.Credentials) error {
	m.creds = creds
	return nil
}

func (m *mockCredentialsStore) Clear(_ context.Context) error {
	m.creds = nil
	return nil
}

func (m *mockCredentialsStore) Close() error { return nil }

// setupTestServices installs mocks and returns a cleanup restoring the
// previous wiring.
func setupTestServices() func() {
	oldIngest := ingestService
	oldAnswer := answerService
	oldCreds := credentialsStore
	oldConfig := configStore
	oldIndex := vectorIndex

	ingestService = &mockIngestor{report: &domain.IngestReport{
		FolderID:       "123",
		Processed:      2,
		RecordsWritten: 7,
	}}
	answerService = &mockAnswerer{answer: "mock answer", bare: "bare answer"}
	credentialsStore = &mockCredentialsStore{}
	configStore = nil
	vectorIndex = nil

	return func() {
		ingestService = oldIngest
		answerService = oldAnswer
		credentialsStore = oldCreds
		configStore = oldConfig
		vectorIndex = oldIndex
	}
}
