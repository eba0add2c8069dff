package vakya

import "go.uber.org/zap"

type corpusConfig struct {
	logger    *zap.Logger
	embedder  Embedder
	segmenter Segmenter
	args      map[string]string
}

// Option configures a Corpus at construction time.
type Option func(*corpusConfig)

// WithLogger sets the logger shared with the bound adapter. Defaults to
// a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *corpusConfig) { c.logger = l }
}

// WithEmbedder sets the embedding collaborator handed to the adapter.
// Backends without a semantic capability ignore it.
func WithEmbedder(e Embedder) Option {
	return func(c *corpusConfig) { c.embedder = e }
}

// WithSegmenter overrides the sentence segmenter used by Add.
func WithSegmenter(s Segmenter) Option {
	return func(c *corpusConfig) { c.segmenter = s }
}

// WithBackendArgs passes backend-specific arguments to the factory.
// Unrecognized keys are ignored by adapters.
func WithBackendArgs(args map[string]string) Option {
	return func(c *corpusConfig) { c.args = args }
}
