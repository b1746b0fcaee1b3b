package openai

// Wire types for the embeddings and vector store endpoints.

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingData struct {
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

type embeddingsResponse struct {
	Data []embeddingData `json:"data"`
}

type createVectorStoreRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// VectorStore is a remote vector store resource as returned by the
// provider. The ID is provider-assigned; Name is caller-supplied.
type VectorStore struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type listVectorStoresResponse struct {
	Data []VectorStore `json:"data"`
}

// Vector is an id/values/metadata triple for upsert.
type Vector struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type upsertVectorsRequest struct {
	Vectors []Vector `json:"vectors"`
}

type searchVectorsRequest struct {
	Vector  []float32 `json:"vector"`
	TopK    int       `json:"top_k"`
	Include []string  `json:"include,omitempty"`
}

// Match is a single search hit. Values is populated only when the search
// requested vector values.
type Match struct {
	ID       string         `json:"id"`
	Score    float32        `json:"score"`
	Values   []float32      `json:"values,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type searchVectorsResponse struct {
	Data []Match `json:"data"`
}

type deleteVectorsRequest struct {
	IDs []string `json:"ids"`
}
