package vakya

import (
	"context"

	"go.uber.org/zap"
)

// Backend is the adapter contract every engine implements. One adapter
// instance is bound to one corpus and owns its connection or session
// exclusively; the facade never reaches past this interface.
//
// Records handed to Replace are already segmented and numbered; the
// adapter only persists them. ReadSents receives a query with at most
// range and keyword filters -- similarity queries go through the
// SemanticSearcher capability instead.
type Backend interface {
	// Replace creates or fully replaces the named collection and returns
	// the backend-native IDs of the inserted records.
	Replace(ctx context.Context, name string, recs []Record) ([]string, error)

	// Remove deletes the named collection. Removing an absent collection
	// is not an error; the returned bool confirms the collection is gone.
	Remove(ctx context.Context, name string) (bool, error)

	// List returns the collection names currently present, in no
	// particular order.
	List(ctx context.Context) ([]string, error)

	// ReadSents returns matching records as batches; a plain read yields
	// one batch sorted ascending by position.
	ReadSents(ctx context.Context, name string, q Query) ([][]Record, error)

	// ReadBlob returns all sentences joined with the blob separator in
	// ascending position order.
	ReadBlob(ctx context.Context, name string) (string, error)

	// Close releases the adapter's connection or session.
	Close()
}

// SemanticSearcher is the optional similarity-search capability. The
// facade type-asserts for it before issuing a semantic query and fails
// with ErrNotImplemented when the bound backend does not provide it.
type SemanticSearcher interface {
	// SearchSemantic ranks records by similarity to q.Semantic(),
	// descending, truncated to q.Limit(). Range and keyword filters in q
	// constrain the candidate set; rank order is preserved, never
	// re-sorted by position.
	SearchSemantic(ctx context.Context, name string, q Query) ([][]Record, error)
}

// Params carries the binding inputs a backend factory receives: the
// corpus name, the connection target (address or persistence path,
// backend-specific), the open argument map, and shared collaborators.
type Params struct {
	Corpus   string
	Target   string
	Args     map[string]string
	Embedder Embedder
	Logger   *zap.Logger
}

// Factory constructs an adapter bound to one corpus.
type Factory func(p Params) (Backend, error)

// Embedder computes a vector representation for one text. It is an
// external collaborator: the corpus layer never computes embeddings
// itself.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// Segmenter splits raw file content into sentences. Like Embedder it is
// an external collaborator; the default is a regexp splitter.
type Segmenter interface {
	Segment(text string) []string
}
