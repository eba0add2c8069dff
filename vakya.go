// Package vakya is a corpus serving library with a uniform interface
// over pluggable database backends. Each ingested file becomes a named
// collection of ordered sentence records that can be listed, removed,
// read back whole, or queried through a composition of range, keyword,
// and (on capable backends) semantic similarity filters.
package vakya

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/vakya-corpus/vakya/internal/segment"
)

// BlobSeparator joins sentences in ReadBlob output. Callers may rely on
// it to round-trip segmentation, though original whitespace is not
// reconstructed exactly.
const BlobSeparator = "  "

// Corpus is the single public surface over a bound backend adapter.
// The backend binding is resolved once at construction and immutable
// afterwards. Calls are synchronous and stateless between one another;
// concurrent use of one Corpus must be serialized by the caller, since
// the underlying sessions make no thread-safety promises.
type Corpus struct {
	name      string
	backend   Backend
	segmenter Segmenter
	log       *zap.Logger
}

// New opens a corpus against the backend registered under backendID.
// The target is backend-specific: a server address for networked
// engines, a persistence directory for embedded ones. An unknown
// backendID fails with ErrPluginNotFound; an unreachable backend fails
// with ErrServiceUnavailable.
func New(name, target, backendID string, opts ...Option) (*Corpus, error) {
	cfg := &corpusConfig{}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	if cfg.segmenter == nil {
		cfg.segmenter = segment.NewSplitter()
	}

	factory, err := lookup(backendID)
	if err != nil {
		return nil, err
	}

	b, err := factory(Params{
		Corpus:   name,
		Target:   target,
		Args:     cfg.args,
		Embedder: cfg.embedder,
		Logger:   cfg.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("open corpus %q via %s: %w", name, backendID, err)
	}

	cfg.logger.Info("corpus opened",
		zap.String("corpus", name),
		zap.String("backend", backendID),
		zap.String("target", target),
	)

	return &Corpus{
		name:      name,
		backend:   b,
		segmenter: cfg.segmenter,
		log:       cfg.logger,
	}, nil
}

// Add reads the file, segments it into sentences numbered 1..count, and
// creates or fully replaces the collection named by the file's base
// name. Re-adding a name discards all prior records; collections never
// merge. File I/O errors propagate unchanged.
func (c *Corpus) Add(ctx context.Context, path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	sents := c.segmenter.Segment(string(data))
	recs := make([]Record, len(sents))
	for i, s := range sents {
		recs[i] = Record{N: i + 1, Sent: s}
	}

	name := filepath.Base(path)
	ids, err := c.backend.Replace(ctx, name, recs)
	if err != nil {
		return nil, fmt.Errorf("add %q: %w", name, err)
	}

	c.log.Info("file added",
		zap.String("collection", name),
		zap.Int("sentences", len(recs)),
	)
	return ids, nil
}

// Remove deletes the named collection. Removing an absent collection is
// not an error: the result confirms the collection is gone afterwards.
func (c *Corpus) Remove(ctx context.Context, name string) (bool, error) {
	gone, err := c.backend.Remove(ctx, name)
	if err != nil {
		return false, fmt.Errorf("remove %q: %w", name, err)
	}
	return gone, nil
}

// List returns the collection names currently present. Order is
// unspecified; callers must not depend on it.
func (c *Corpus) List(ctx context.Context) ([]string, error) {
	names, err := c.backend.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return names, nil
}

// ReadSents reads records from the named collection under the composed
// filters.
//
// Ordering contract: whenever a semantic term is present the records
// come in similarity rank order, descending, truncated to the result
// cap -- never re-sorted by position. All other reads are sorted
// ascending by position. Requesting a semantic filter on a backend
// without the capability fails with ErrNotImplemented.
func (c *Corpus) ReadSents(ctx context.Context, name string, opts ...ReadOption) (iter.Seq[Record], error) {
	q, err := buildQuery(opts)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", name, err)
	}

	var batches [][]Record
	if q.HasSemantic() {
		ss, ok := c.backend.(SemanticSearcher)
		if !ok {
			return nil, fmt.Errorf("semantic filter on %q: %w", name, ErrNotImplemented)
		}
		batches, err = ss.SearchSemantic(ctx, name, q)
	} else {
		batches, err = c.backend.ReadSents(ctx, name, q)
	}
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", name, err)
	}

	return flatten(batches), nil
}

// ReadBlob returns the whole collection as one string: all sentences in
// ascending position order joined with BlobSeparator.
func (c *Corpus) ReadBlob(ctx context.Context, name string) (string, error) {
	blob, err := c.backend.ReadBlob(ctx, name)
	if err != nil {
		return "", fmt.Errorf("read blob %q: %w", name, err)
	}
	return blob, nil
}

// Name returns the corpus name given at construction.
func (c *Corpus) Name() string { return c.name }

// Close releases the bound adapter's connection.
func (c *Corpus) Close() { c.backend.Close() }
