package vectorstore

// TextKey is the reserved metadata key under which the adapter stores the
// original document text. The provider indexes vectors and metadata but
// not raw text as a first-class field, so text rides along in metadata on
// write and is split back out on every read path.
const TextKey = "text"

// VectorItem is a unit of content stored in a collection.
type VectorItem struct {
	// ID is the caller-assigned identifier, unique within a collection.
	ID string

	// Text is the original content. Required on insert; it is the source
	// for embedding generation.
	Text string

	// Vector is the embedding. Populated by the adapter on insert and on
	// listing; callers never supply it.
	Vector []float32

	// Metadata contains additional key-value pairs for filtering. Opaque
	// to the adapter except for the reserved TextKey.
	Metadata map[string]any
}

// SearchResult holds nearest-neighbor search results as parallel slices
// indexed by position. All four slices always have equal length.
type SearchResult struct {
	// IDs are the matched item identifiers.
	IDs []string

	// Distances are provider scores, passed through verbatim. Whether
	// lower or higher means closer is provider-defined.
	Distances []float32

	// Documents are the original texts recovered from metadata.
	Documents []string

	// Metadatas are the item metadata maps with the reserved text key
	// removed.
	Metadatas []map[string]any
}

// GetResult holds listing/query results as parallel slices indexed by
// position. All three slices always have equal length.
type GetResult struct {
	IDs       []string
	Documents []string
	Metadatas []map[string]any
}
