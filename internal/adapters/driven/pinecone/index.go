// Package pinecone provides a VectorIndex adapter for a hosted Pinecone
// index with integrated embedding: record text and query text are
// embedded server-side, so no vectors cross this boundary.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/veldt-labs/boxrag-cli/internal/core/domain"
	"github.com/veldt-labs/boxrag-cli/internal/core/ports/driven"
	"github.com/veldt-labs/boxrag-cli/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultControlPlaneURL = "https://api.pinecone.io"
	DefaultIndexName       = "boxrag"
	DefaultTimeout         = 30 * time.Second

	// embedModel is the integrated embedding model for new indexes.
	embedModel = "multilingual-e5-large"

	// rerankModel reorders the initial hits server-side.
	rerankModel = "bge-reranker-v2-m3"
)

// Config holds configuration for the Pinecone index adapter.
type Config struct {
	// APIKey authenticates every request (required).
	APIKey string

	// IndexName is the index to use or create (default: boxrag).
	IndexName string

	// IndexHost is the data-plane host for the index. When empty it is
	// resolved from the control plane by EnsureIndex.
	IndexHost string

	// ControlPlaneURL overrides the control plane endpoint (tests).
	ControlPlaneURL string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Index talks to one Pinecone index over HTTP.
type Index struct {
	http         *http.Client
	apiKey       string
	name         string
	host         string
	controlPlane string
}

// NewIndex creates a new Pinecone index adapter.
func NewIndex(cfg Config) (*Index, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("pinecone: API key is required")
	}
	if cfg.IndexName == "" {
		cfg.IndexName = DefaultIndexName
	}
	if cfg.ControlPlaneURL == "" {
		cfg.ControlPlaneURL = DefaultControlPlaneURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Index{
		http:         &http.Client{Timeout: cfg.Timeout},
		apiKey:       cfg.APIKey,
		name:         cfg.IndexName,
		host:         cfg.IndexHost,
		controlPlane: cfg.ControlPlaneURL,
	}, nil
}

// describeIndexResponse is the control-plane index description subset.
type describeIndexResponse struct {
	Name string `json:"name"`
	Host string `json:"host"`
}

// EnsureIndex resolves the index host, creating the index with
// integrated embedding when it does not exist yet. Idempotent.
func (x *Index) EnsureIndex(ctx context.Context) error {
	desc, status, err := x.describeIndex(ctx)
	if err != nil {
		return err
	}

	if status == http.StatusNotFound {
		logger.Info("Index %s does not exist, creating it", x.name)
		if desc, err = x.createIndex(ctx); err != nil {
			return err
		}
	}

	if x.host == "" {
		x.host = hostURL(desc.Host)
	}
	return nil
}

func (x *Index) describeIndex(ctx context.Context) (*describeIndexResponse, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		x.controlPlane+"/indexes/"+url.PathEscape(x.name), http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	x.setHeaders(req, "")

	resp, err := x.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("describe index: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, http.StatusNotFound, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, apiError("describe index", resp)
	}

	var desc describeIndexResponse
	if err := json.NewDecoder(resp.Body).Decode(&desc); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("decode index description: %w", err)
	}
	return &desc, resp.StatusCode, nil
}

// createIndexRequest is the create-for-model request format.
type createIndexRequest struct {
	Name   string `json:"name"`
	Cloud  string `json:"cloud"`
	Region string `json:"region"`
	Embed  struct {
		Model    string            `json:"model"`
		FieldMap map[string]string `json:"field_map"`
		Metric   string            `json:"metric"`
	} `json:"embed"`
}

func (x *Index) createIndex(ctx context.Context) (*describeIndexResponse, error) {
	reqBody := createIndexRequest{
		Name:   x.name,
		Cloud:  "aws",
		Region: "us-east-1",
	}
	reqBody.Embed.Model = embedModel
	reqBody.Embed.FieldMap = map[string]string{"text": "chunk_text"}
	reqBody.Embed.Metric = "cosine"

	var desc describeIndexResponse
	if err := x.postJSON(ctx, x.controlPlane+"/indexes/create-for-model", reqBody, &desc); err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &desc, nil
}

// UpsertRecords writes one batch of records under the namespace as
// newline-delimited JSON. Records with an existing ID are overwritten.
func (x *Index) UpsertRecords(ctx context.Context, namespace string, records []domain.Record) error {
	if x.host == "" {
		return fmt.Errorf("pinecone: index host not resolved; call EnsureIndex first")
	}
	if len(records) == 0 {
		return nil
	}

	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode record %s: %w", rec.ID, err)
		}
	}

	u := fmt.Sprintf("%s/records/namespaces/%s/upsert", x.host, url.PathEscape(namespace))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, &body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	x.setHeaders(req, "application/x-ndjson")

	resp, err := x.http.Do(req)
	if err != nil {
		return fmt.Errorf("upsert records: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return apiError("upsert records", resp)
	}
	return nil
}

// searchRequest is the namespaced search request format.
type searchRequest struct {
	Query struct {
		Inputs struct {
			Text string `json:"text"`
		} `json:"inputs"`
		TopK int `json:"top_k"`
	} `json:"query"`
	Fields []string      `json:"fields"`
	Rerank *rerankClause `json:"rerank,omitempty"`
}

type rerankClause struct {
	Model      string   `json:"model"`
	TopN       int      `json:"top_n"`
	RankFields []string `json:"rank_fields"`
}

// searchResponse is the namespaced search response format.
type searchResponse struct {
	Result struct {
		Hits []struct {
			ID     string  `json:"_id"`
			Score  float64 `json:"_score"`
			Fields struct {
				ChunkText string `json:"chunk_text"`
			} `json:"fields"`
		} `json:"hits"`
	} `json:"result"`
}

// Query runs a namespaced similarity search with server-side embedding
// and a rerank pass narrowing results to half of topK. Returns
// domain.ErrNoResults when nothing matches.
func (x *Index) Query(ctx context.Context, namespace, text string, topK int) ([]domain.QueryHit, error) {
	if x.host == "" {
		return nil, fmt.Errorf("pinecone: index host not resolved; call EnsureIndex first")
	}

	var reqBody searchRequest
	reqBody.Query.Inputs.Text = text
	reqBody.Query.TopK = topK
	reqBody.Fields = []string{"chunk_text"}
	if topN := topK / 2; topN >= 1 {
		reqBody.Rerank = &rerankClause{
			Model:      rerankModel,
			TopN:       topN,
			RankFields: []string{"chunk_text"},
		}
	}

	u := fmt.Sprintf("%s/records/namespaces/%s/search", x.host, url.PathEscape(namespace))
	var result searchResponse
	if err := x.postJSON(ctx, u, reqBody, &result); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	if len(result.Result.Hits) == 0 {
		return nil, domain.ErrNoResults
	}

	hits := make([]domain.QueryHit, len(result.Result.Hits))
	for i, h := range result.Result.Hits {
		hits[i] = domain.QueryHit{ChunkText: h.Fields.ChunkText, Score: h.Score}
	}
	return hits, nil
}

// postJSON issues a JSON POST and decodes the JSON response into out.
func (x *Index) postJSON(ctx context.Context, u string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	x.setHeaders(req, "application/json")

	resp, err := x.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return apiError("request", resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (x *Index) setHeaders(req *http.Request, contentType string) {
	req.Header.Set("Api-Key", x.apiKey)
	req.Header.Set("X-Pinecone-Api-Version", "2025-01")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
}

// hostURL normalises the control plane's bare host into a URL.
func hostURL(host string) string {
	if host == "" {
		return ""
	}
	if len(host) >= 4 && host[:4] == "http" {
		return host
	}
	return "https://" + host
}

// apiError turns a non-2xx Pinecone response into an error.
func apiError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var pcErr struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &pcErr) == nil && pcErr.Error.Message != "" {
		return fmt.Errorf("pinecone: %s failed (status %d): %s", op, resp.StatusCode, pcErr.Error.Message)
	}
	return fmt.Errorf("pinecone: %s failed (status %d)", op, resp.StatusCode)
}
