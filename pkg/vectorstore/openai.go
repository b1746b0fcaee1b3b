package vectorstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/remotevec/pkg/openai"
)

// Defaults for the OpenAI-backed store.
const (
	// DefaultModel is the default embedding model.
	DefaultModel = "text-embedding-3-small"

	// DefaultDimension is the embedding dimensionality of DefaultModel.
	// It is used only to build the placeholder zero vector for emulated
	// listing.
	DefaultDimension = 1536

	// DefaultPageSize bounds emulated listing.
	DefaultPageSize = 1000
)

// Config holds configuration for the OpenAI-backed store.
type Config struct {
	// Model is the embedding model name. Defaults to DefaultModel.
	Model string

	// Dimension is the embedding dimensionality, used only for the zero
	// vector that emulated listing searches with. Defaults to
	// DefaultDimension.
	Dimension int

	// PageSize bounds how many items emulated listing can return.
	// Defaults to DefaultPageSize.
	PageSize int
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.Dimension < 0 {
		return fmt.Errorf("%w: dimension must not be negative", ErrInvalidConfig)
	}
	if c.PageSize < 0 {
		return fmt.Errorf("%w: page size must not be negative", ErrInvalidConfig)
	}
	return nil
}

// OpenAIStore implements Store against the OpenAI vector store API.
//
// Each collection maps 1:1 to a remote vector store; the provider-assigned
// id is resolved by listing and cached after the first lookup or creation.
// The cache is guarded by a mutex, so one store value is safe for
// concurrent use. Remote calls run outside the lock.
//
// The store holds no other local state. Embedding generation, indexing,
// and persistence all live at the provider, and no retries are performed:
// any failed remote call propagates to the caller wrapped in
// openai.ErrProvider.
type OpenAIStore struct {
	client  *openai.Client
	config  Config
	logger  *zap.Logger
	metrics *Metrics

	mu    sync.Mutex
	index map[string]string // collection name -> remote store id
}

var _ Store = (*OpenAIStore)(nil)

// NewOpenAIStore creates a store backed by the given API client.
func NewOpenAIStore(client *openai.Client, config Config, logger *zap.Logger) (*OpenAIStore, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid store config: %w", err)
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Dimension == 0 {
		config.Dimension = DefaultDimension
	}
	if config.PageSize == 0 {
		config.PageSize = DefaultPageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	logger.Info("openai vector store initialized",
		zap.String("model", config.Model),
		zap.Int("dimension", config.Dimension),
		zap.Int("page_size", config.PageSize),
	)

	return &OpenAIStore{
		client:  client,
		config:  config,
		logger:  logger,
		metrics: NewMetrics(logger),
		index:   make(map[string]string),
	}, nil
}

// cachedIndex returns the cached remote store id for a collection.
func (s *OpenAIStore) cachedIndex(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.index[name]
	return id, ok
}

func (s *OpenAIStore) cacheIndex(name, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index[name] = id
}

func (s *OpenAIStore) dropIndex(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.index, name)
}

// resolveIndex finds the remote store id for a collection, consulting the
// cache first and otherwise scanning the provider's store listing. The
// provider exposes no name-based addressing, so lookup-by-listing is the
// only way to resolve a name. Found ids are cached; a miss leaves the
// cache untouched.
func (s *OpenAIStore) resolveIndex(ctx context.Context, name string) (string, bool, error) {
	if id, ok := s.cachedIndex(name); ok {
		return id, true, nil
	}

	stores, err := s.client.ListVectorStores(ctx)
	if err != nil {
		return "", false, fmt.Errorf("listing vector stores: %w", err)
	}
	for _, vs := range stores {
		if vs.Name == name {
			s.cacheIndex(name, vs.ID)
			return vs.ID, true, nil
		}
	}
	return "", false, nil
}

// HasCollection reports whether the named collection exists, caching the
// resolved id on a hit.
func (s *OpenAIStore) HasCollection(ctx context.Context, collectionName string) (bool, error) {
	_, ok, err := s.resolveIndex(ctx, collectionName)
	return ok, err
}

// CreateCollection creates the remote store backing the collection.
func (s *OpenAIStore) CreateCollection(ctx context.Context, collectionName string) error {
	vs, err := s.client.CreateVectorStore(ctx, collectionName, fmt.Sprintf("vector store for collection %q", collectionName))
	if err != nil {
		return fmt.Errorf("creating vector store: %w", err)
	}
	s.cacheIndex(collectionName, vs.ID)

	s.logger.Info("created collection",
		zap.String("collection", collectionName),
		zap.String("store_id", vs.ID),
	)
	return nil
}

// ensureCollection resolves the collection, creating it when absent.
func (s *OpenAIStore) ensureCollection(ctx context.Context, name string) (string, error) {
	id, ok, err := s.resolveIndex(ctx, name)
	if err != nil {
		return "", err
	}
	if ok {
		return id, nil
	}
	if err := s.CreateCollection(ctx, name); err != nil {
		return "", err
	}
	id, _ = s.cachedIndex(name)
	return id, nil
}

// Insert adds items to the collection, creating it if absent.
func (s *OpenAIStore) Insert(ctx context.Context, collectionName string, items []VectorItem) error {
	return s.addItems(ctx, "insert", collectionName, items)
}

// Upsert inserts or updates items by id.
func (s *OpenAIStore) Upsert(ctx context.Context, collectionName string, items []VectorItem) error {
	return s.addItems(ctx, "upsert", collectionName, items)
}

// addItems is the shared add path: ensure the collection, embed all texts
// in one batch request (response order pairs with input by position), and
// upsert id/vector/metadata triples with the original text preserved under
// TextKey. A failure in either remote call aborts the whole batch; a
// collection created lazily on the way is not rolled back. operation
// labels the metrics with the public entry point that was called.
func (s *OpenAIStore) addItems(ctx context.Context, operation, collectionName string, items []VectorItem) (err error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordOperation(ctx, operation, time.Since(start), len(items), err)
	}()

	if len(items) == 0 {
		return ErrEmptyItems
	}
	for _, it := range items {
		if it.Text == "" {
			return fmt.Errorf("%w: item %q", ErrEmptyText, it.ID)
		}
	}

	storeID, err := s.ensureCollection(ctx, collectionName)
	if err != nil {
		return err
	}

	texts := make([]string, len(items))
	for i, it := range items {
		texts[i] = it.Text
	}

	embeddings, err := s.client.CreateEmbeddings(ctx, s.config.Model, texts)
	if err != nil {
		return fmt.Errorf("embedding %d items: %w", len(items), err)
	}

	vectors := make([]openai.Vector, len(items))
	for i, it := range items {
		md := make(map[string]any, len(it.Metadata)+1)
		for k, v := range it.Metadata {
			md[k] = v
		}
		md[TextKey] = it.Text
		vectors[i] = openai.Vector{
			ID:       it.ID,
			Values:   embeddings[i],
			Metadata: md,
		}
	}

	if err = s.client.UpsertVectors(ctx, storeID, vectors); err != nil {
		return fmt.Errorf("upserting %d vectors: %w", len(vectors), err)
	}

	s.logger.Debug("added items",
		zap.String("op_id", uuid.NewString()),
		zap.String("collection", collectionName),
		zap.Int("count", len(items)),
	)
	return nil
}

// Search runs a nearest-neighbor search with the first query vector.
// Returns (nil, nil) when the collection does not exist. Scores are
// provider values, passed through without normalization.
func (s *OpenAIStore) Search(ctx context.Context, collectionName string, vectors [][]float32, limit int) (result *SearchResult, err error) {
	start := time.Now()
	defer func() {
		count := 0
		if result != nil {
			count = len(result.IDs)
		}
		s.metrics.RecordOperation(ctx, "search", time.Since(start), count, err)
	}()

	if len(vectors) == 0 {
		return nil, ErrEmptyQuery
	}

	storeID, ok, err := s.resolveIndex(ctx, collectionName)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	// only vectors[0] is searched; the provider has no multi-query call
	matches, err := s.client.SearchVectors(ctx, storeID, vectors[0], limit, false)
	if err != nil {
		return nil, fmt.Errorf("searching collection %q: %w", collectionName, err)
	}

	result = &SearchResult{
		IDs:       make([]string, len(matches)),
		Distances: make([]float32, len(matches)),
		Documents: make([]string, len(matches)),
		Metadatas: make([]map[string]any, len(matches)),
	}
	for i, m := range matches {
		result.IDs[i] = m.ID
		result.Distances[i] = m.Score
		result.Documents[i], result.Metadatas[i] = splitText(m.Metadata)
	}

	s.logger.Debug("searched collection",
		zap.String("collection", collectionName),
		zap.Int("limit", limit),
		zap.Int("results", len(matches)),
	)
	return result, nil
}

// ListItems returns items from the collection via emulated listing: a
// search with an all-zero placeholder vector, bounded by the configured
// page size. The provider has no native list-all endpoint, so this is a
// workaround with known limitations: collections larger than the page
// size are truncated silently, and result order depends on how the
// provider scores the zero vector. Returns a nil slice and nil error when
// the collection does not exist.
func (s *OpenAIStore) ListItems(ctx context.Context, collectionName string) (items []VectorItem, err error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordOperation(ctx, "list", time.Since(start), len(items), err)
	}()

	storeID, ok, err := s.resolveIndex(ctx, collectionName)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	zero := make([]float32, s.config.Dimension)
	matches, err := s.client.SearchVectors(ctx, storeID, zero, s.config.PageSize, true)
	if err != nil {
		return nil, fmt.Errorf("listing collection %q: %w", collectionName, err)
	}

	items = make([]VectorItem, len(matches))
	for i, m := range matches {
		text, md := splitText(m.Metadata)
		items[i] = VectorItem{
			ID:       m.ID,
			Text:     text,
			Vector:   m.Values,
			Metadata: md,
		}
	}
	return items, nil
}

// Query returns items matching every key/value pair of the filter,
// truncated to limit when limit > 0. Built on ListItems and therefore
// bounded by the page size. Returns (nil, nil) when the collection is
// absent or nothing matches.
func (s *OpenAIStore) Query(ctx context.Context, collectionName string, filter map[string]any, limit int) (*GetResult, error) {
	items, err := s.ListItems(ctx, collectionName)
	if err != nil {
		return nil, err
	}

	matched := FilterItems(items, filter)
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	if len(matched) == 0 {
		return nil, nil
	}
	return toGetResult(matched), nil
}

// Get returns all listable items of the collection, unfiltered. Returns
// (nil, nil) when the collection is absent or empty.
func (s *OpenAIStore) Get(ctx context.Context, collectionName string) (*GetResult, error) {
	items, err := s.ListItems(ctx, collectionName)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return toGetResult(items), nil
}

// Delete removes items by id, or by metadata filter when no ids are
// given. Id deletes map directly to the provider's bulk delete. Filter
// deletes are emulated client-side with the same predicate Query uses:
// list (bounded by page size), match locally, then bulk delete by id.
// Absent collection and empty ids+filter are both no-ops.
func (s *OpenAIStore) Delete(ctx context.Context, collectionName string, ids []string, filter map[string]any) (err error) {
	start := time.Now()
	deleted := 0
	defer func() {
		s.metrics.RecordOperation(ctx, "delete", time.Since(start), deleted, err)
	}()

	storeID, ok, err := s.resolveIndex(ctx, collectionName)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if len(ids) > 0 {
		if err = s.client.DeleteVectors(ctx, storeID, ids); err != nil {
			return fmt.Errorf("deleting %d items: %w", len(ids), err)
		}
		deleted = len(ids)

		s.logger.Debug("deleted items by id",
			zap.String("collection", collectionName),
			zap.Int("count", len(ids)),
		)
		return nil
	}

	if len(filter) == 0 {
		return nil
	}

	items, err := s.ListItems(ctx, collectionName)
	if err != nil {
		return err
	}
	var matchedIDs []string
	for _, it := range FilterItems(items, filter) {
		matchedIDs = append(matchedIDs, it.ID)
	}
	if len(matchedIDs) == 0 {
		return nil
	}
	if err = s.client.DeleteVectors(ctx, storeID, matchedIDs); err != nil {
		return fmt.Errorf("deleting %d filtered items: %w", len(matchedIDs), err)
	}
	deleted = len(matchedIDs)

	s.logger.Debug("deleted items by filter",
		zap.String("collection", collectionName),
		zap.Int("count", len(matchedIDs)),
	)
	return nil
}

// DeleteCollection deletes the remote store backing the collection and
// everything in it. No-op when the collection does not exist.
func (s *OpenAIStore) DeleteCollection(ctx context.Context, collectionName string) (err error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordOperation(ctx, "delete_collection", time.Since(start), 0, err)
	}()

	storeID, ok, err := s.resolveIndex(ctx, collectionName)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if err = s.client.DeleteVectorStore(ctx, storeID); err != nil {
		return fmt.Errorf("deleting vector store for collection %q: %w", collectionName, err)
	}
	s.dropIndex(collectionName)

	s.logger.Info("deleted collection",
		zap.String("collection", collectionName),
		zap.String("store_id", storeID),
	)
	return nil
}

// Reset deletes every remote vector store reachable with the configured
// credentials.
//
// This is destructive, global, and irreversible: it discards ALL
// collections owned by the credentials, not just the ones this store
// value has touched. There is no confirmation step. It stops at the first
// deletion failure, so a partial reset is possible.
func (s *OpenAIStore) Reset(ctx context.Context) (err error) {
	start := time.Now()
	deleted := 0
	defer func() {
		s.metrics.RecordOperation(ctx, "reset", time.Since(start), deleted, err)
	}()

	stores, err := s.client.ListVectorStores(ctx)
	if err != nil {
		return fmt.Errorf("listing vector stores: %w", err)
	}

	// drop every cached id up front so a partial failure cannot leave
	// stale ids behind
	s.mu.Lock()
	s.index = make(map[string]string)
	s.mu.Unlock()

	opID := uuid.NewString()
	for _, vs := range stores {
		if vs.ID == "" {
			continue
		}
		if err = s.client.DeleteVectorStore(ctx, vs.ID); err != nil {
			return fmt.Errorf("deleting vector store %q: %w", vs.ID, err)
		}
		deleted++

		s.logger.Debug("reset deleted vector store",
			zap.String("op_id", opID),
			zap.String("store_id", vs.ID),
			zap.String("name", vs.Name),
		)
	}

	s.logger.Info("reset all vector stores", zap.Int("count", deleted))
	return nil
}

// splitText pulls the reserved text key out of raw provider metadata,
// returning the text and a copy of the metadata without it.
func splitText(raw map[string]any) (string, map[string]any) {
	text, _ := raw[TextKey].(string)
	md := make(map[string]any, len(raw))
	for k, v := range raw {
		if k == TextKey {
			continue
		}
		md[k] = v
	}
	return text, md
}

func toGetResult(items []VectorItem) *GetResult {
	res := &GetResult{
		IDs:       make([]string, len(items)),
		Documents: make([]string, len(items)),
		Metadatas: make([]map[string]any, len(items)),
	}
	for i, it := range items {
		res.IDs[i] = it.ID
		res.Documents[i] = it.Text
		res.Metadatas[i] = it.Metadata
	}
	return res
}
