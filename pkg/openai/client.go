// Package openai provides an HTTP client for the embedding and vector
// store endpoints of an OpenAI-compatible API.
//
// The client covers exactly the surface the vectorstore adapter needs:
// batch embedding generation, vector store create/list/delete, and vector
// upsert/search/delete. It performs no retries and no backoff; any failed
// remote call surfaces immediately as an ErrProvider-wrapped error.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

var (
	// ErrInvalidConfig indicates invalid client configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrProvider indicates a failed remote call. Network errors, auth
	// failures, rate limits, and malformed responses are all surfaced
	// under this single sentinel.
	ErrProvider = errors.New("provider request failed")
)

// DefaultBaseURL is the default API base URL.
const DefaultBaseURL = "https://api.openai.com/v1"

// maxErrorBody caps how much of an error response body is carried into
// the returned error.
const maxErrorBody = 2048

// Config holds configuration for the API client.
type Config struct {
	// APIKey is the bearer token for the provider. Required.
	APIKey string

	// BaseURL overrides the API base URL. Defaults to DefaultBaseURL.
	BaseURL string

	// HTTPClient overrides the HTTP transport. Defaults to
	// http.DefaultClient. No timeout is applied beyond what this client
	// provides; use context deadlines for per-call cancellation.
	HTTPClient *http.Client
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("%w: API key required", ErrInvalidConfig)
	}
	return nil
}

// Client calls the remote provider. It is safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a client with the given configuration.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL: strings.TrimSuffix(base, "/"),
		apiKey:  cfg.APIKey,
		client:  httpClient,
		logger:  logger,
	}, nil
}

// do executes one JSON request against the provider and decodes the
// response into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: %s %s: status %d: %s", ErrProvider, method, path, resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decoding response: %v", ErrProvider, err)
		}
	}

	return nil
}

// CreateEmbeddings generates embeddings for input texts in one batch
// request. The returned slice pairs with input by position; hits are
// reordered by the response index field so the positional contract holds
// even if the provider returns them out of order.
func (c *Client) CreateEmbeddings(ctx context.Context, model string, input []string) ([][]float32, error) {
	req := embeddingsRequest{Model: model, Input: input}

	var resp embeddingsResponse
	if err := c.do(ctx, http.MethodPost, "/embeddings", req, &resp); err != nil {
		return nil, err
	}

	if len(resp.Data) != len(input) {
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d", ErrProvider, len(input), len(resp.Data))
	}

	vectors := make([][]float32, len(input))
	for i, d := range resp.Data {
		idx := d.Index
		if idx < 0 || idx >= len(vectors) {
			idx = i
		}
		vectors[idx] = d.Embedding
	}

	c.logger.Debug("created embeddings",
		zap.String("model", model),
		zap.Int("count", len(vectors)),
	)

	return vectors, nil
}

// CreateVectorStore creates a remote vector store and returns it.
func (c *Client) CreateVectorStore(ctx context.Context, name, description string) (*VectorStore, error) {
	req := createVectorStoreRequest{Name: name, Description: description}

	var vs VectorStore
	if err := c.do(ctx, http.MethodPost, "/vector_stores", req, &vs); err != nil {
		return nil, err
	}
	if vs.ID == "" {
		return nil, fmt.Errorf("%w: vector store created without id", ErrProvider)
	}

	return &vs, nil
}

// ListVectorStores lists all vector stores owned by the credentials.
func (c *Client) ListVectorStores(ctx context.Context) ([]VectorStore, error) {
	var resp listVectorStoresResponse
	if err := c.do(ctx, http.MethodGet, "/vector_stores", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// DeleteVectorStore deletes the vector store resource and everything in it.
func (c *Client) DeleteVectorStore(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/vector_stores/"+url.PathEscape(id), nil, nil)
}

// UpsertVectors inserts or updates vectors by id in the given store.
func (c *Client) UpsertVectors(ctx context.Context, storeID string, vectors []Vector) error {
	req := upsertVectorsRequest{Vectors: vectors}
	return c.do(ctx, http.MethodPost, "/vector_stores/"+url.PathEscape(storeID)+"/vectors/upsert", req, nil)
}

// SearchVectors runs a nearest-neighbor search over the given store and
// returns up to topK matches with metadata. Scores are passed through
// from the provider without normalization. When includeValues is set the
// stored vectors are returned as well.
func (c *Client) SearchVectors(ctx context.Context, storeID string, vector []float32, topK int, includeValues bool) ([]Match, error) {
	include := []string{"metadata"}
	if includeValues {
		include = []string{"values", "metadata"}
	}
	req := searchVectorsRequest{Vector: vector, TopK: topK, Include: include}

	var resp searchVectorsResponse
	if err := c.do(ctx, http.MethodPost, "/vector_stores/"+url.PathEscape(storeID)+"/vectors/search", req, &resp); err != nil {
		return nil, err
	}

	return resp.Data, nil
}

// DeleteVectors deletes vectors by id from the given store.
func (c *Client) DeleteVectors(ctx context.Context, storeID string, ids []string) error {
	req := deleteVectorsRequest{IDs: ids}
	return c.do(ctx, http.MethodPost, "/vector_stores/"+url.PathEscape(storeID)+"/vectors/delete", req, nil)
}
