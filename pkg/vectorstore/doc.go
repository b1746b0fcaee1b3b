// Package vectorstore adapts a generic vector database contract onto the
// OpenAI vector store API.
//
// The package contains no index, ranking, or persistence logic of its
// own. Every operation delegates to the remote provider: embedding
// generation, nearest-neighbor search, upsert, and delete. What the
// adapter adds is the emulation the provider lacks natively:
//
//   - Existence checks resolve collection names by listing all remote
//     stores, since the provider only addresses stores by id. Resolved
//     ids are cached per store value, guarded by a mutex.
//   - Listing is emulated with an all-zero placeholder vector search
//     bounded by Config.PageSize (default 1000). Larger collections are
//     truncated silently. Query, Get, and filter-based Delete inherit
//     this bound.
//   - Metadata filtering is conjunctive exact-match applied client-side;
//     a missing key excludes the item.
//   - Original text is carried in metadata under TextKey and split back
//     out on reads.
//
// # Errors
//
// Configuration problems surface as ErrInvalidConfig (or
// openai.ErrInvalidConfig from the client). Every failed remote call
// surfaces as an error wrapping openai.ErrProvider, undifferentiated by
// cause, with no retries. An absent collection is not an error: read
// operations return absent results (see Store), mutating operations
// no-op. ErrCollectionNotFound exists for callers that need to turn that
// absence into an error at their own boundary.
//
// # Usage
//
//	client, err := openai.NewClient(openai.Config{APIKey: key}, logger)
//	if err != nil {
//	    return err
//	}
//	store, err := vectorstore.NewOpenAIStore(client, vectorstore.Config{}, logger)
//	if err != nil {
//	    return err
//	}
//
//	err = store.Upsert(ctx, "notes", []vectorstore.VectorItem{
//	    {ID: "n1", Text: "dark mode preferred", Metadata: map[string]any{"kind": "preference"}},
//	})
//
// Reset deletes every vector store the credentials can see, not just the
// collections touched through this value. Treat it as a development and
// test facility.
package vectorstore
