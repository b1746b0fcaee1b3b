package vectorstore

import (
	"context"
	"errors"
)

// Sentinel errors for vector store operations.
var (
	// ErrCollectionNotFound is returned when a collection does not exist.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmptyItems indicates empty or nil items.
	ErrEmptyItems = errors.New("empty or nil items")

	// ErrEmptyText indicates an item without text, which cannot be
	// embedded.
	ErrEmptyText = errors.New("item text must not be empty")

	// ErrEmptyQuery indicates a search without a query vector.
	ErrEmptyQuery = errors.New("query vector required")
)

// Store is the interface for collection-scoped vector storage backed by a
// remote provider.
//
// Result conventions: Search returns (nil, nil) when the collection does
// not exist; Query and Get return (nil, nil) both when the collection does
// not exist and when nothing matches. ListItems returns a nil slice and
// nil error for an absent collection. No read operation errors on an
// absent collection; callers that need to distinguish absence from
// emptiness call HasCollection first.
type Store interface {
	// HasCollection reports whether a collection with the given name
	// exists at the provider. On a hit the resolved remote store id is
	// cached for subsequent calls.
	HasCollection(ctx context.Context, collectionName string) (bool, error)

	// CreateCollection creates the remote store backing a collection and
	// caches its id.
	CreateCollection(ctx context.Context, collectionName string) error

	// Insert adds items to a collection, creating it if absent. Texts are
	// embedded in one batch request; the original text is preserved in
	// metadata under TextKey.
	Insert(ctx context.Context, collectionName string, items []VectorItem) error

	// Upsert inserts or updates items by id. Same path as Insert; the
	// provider upserts by id.
	Upsert(ctx context.Context, collectionName string, items []VectorItem) error

	// Search runs a nearest-neighbor search. Only vectors[0] is used;
	// multi-query search is not supported despite the plural parameter.
	Search(ctx context.Context, collectionName string, vectors [][]float32, limit int) (*SearchResult, error)

	// ListItems returns items from a collection via bounded emulated
	// listing. Collections larger than the configured page size are
	// truncated silently.
	ListItems(ctx context.Context, collectionName string) ([]VectorItem, error)

	// Query returns items whose metadata matches every key/value pair in
	// filter, truncated to limit when limit > 0.
	Query(ctx context.Context, collectionName string, filter map[string]any, limit int) (*GetResult, error)

	// Get returns all listable items of a collection.
	Get(ctx context.Context, collectionName string) (*GetResult, error)

	// Delete removes items by id, or by metadata filter when no ids are
	// given. Ids take precedence; passing neither is a no-op.
	Delete(ctx context.Context, collectionName string, ids []string, filter map[string]any) error

	// DeleteCollection deletes the remote store backing a collection and
	// all its items.
	DeleteCollection(ctx context.Context, collectionName string) error

	// Reset deletes every remote store reachable with the configured
	// credentials. Destructive, global, and irreversible.
	Reset(ctx context.Context) error
}
