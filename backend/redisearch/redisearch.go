// Package redisearch is the document-store backend adapter, speaking to
// Redis 8+ through rueidis. Each collection is one FT index over one
// hash per sentence; keyword filters run server-side as wildcard
// containment queries and reads are sorted by the indexed position
// field.
//
// Wildcard containment operates per TEXT token, so a keyword must fall
// inside a single word: "week" matches "weekend", but a multi-word
// keyword like "the weekend" never matches, even when the phrase occurs
// verbatim. Callers needing phrase matching should use the vector-store
// backend, whose keyword filter is a plain substring test.
//
// The adapter has no semantic capability: similarity filters against it
// fail with ErrNotImplemented at the facade.
package redisearch

import (
	"fmt"
	"strings"

	"github.com/redis/rueidis"
	"go.uber.org/zap"

	"github.com/vakya-corpus/vakya"
)

// ID is the identifier this backend registers under.
const ID = "redisearch"

func init() {
	vakya.Register(ID, New)
}

// Compile-time check: Adapter satisfies the backend contract.
var _ vakya.Backend = (*Adapter)(nil)

// Adapter is a document-store backend bound to one corpus. It owns a
// single rueidis client used for every call.
type Adapter struct {
	client rueidis.Client
	corpus string
	prefix string
	log    *zap.Logger
}

// New creates the adapter. The target is the server address
// ("host:port", comma-separated for clusters). Recognized args:
// "username", "password", "prefix" (key namespace, default "vakya:").
// An unreachable server fails with ErrServiceUnavailable.
func New(p vakya.Params) (vakya.Backend, error) {
	if p.Target == "" {
		return nil, fmt.Errorf("redisearch: server address is required")
	}

	prefix := p.Args["prefix"]
	if prefix == "" {
		prefix = "vakya:"
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  strings.Split(p.Target, ","),
		Username:     p.Args["username"],
		Password:     p.Args["password"],
		DisableCache: true,
		AlwaysRESP2:  true, // FT.SEARCH result parsing expects RESP2 array format
	})
	if err != nil {
		return nil, fmt.Errorf("redisearch: connect %s: %w: %w", p.Target, vakya.ErrServiceUnavailable, err)
	}

	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Adapter{
		client: client,
		corpus: p.Corpus,
		prefix: prefix,
		log:    log,
	}, nil
}

// Close shuts down the client.
func (a *Adapter) Close() {
	a.client.Close()
}

// catalogKey holds the set of collection names for this corpus.
func (a *Adapter) catalogKey() string {
	return a.prefix + a.corpus + ":files"
}

// keyPrefix namespaces one collection's sentence hashes.
func (a *Adapter) keyPrefix(name string) string {
	return a.prefix + a.corpus + ":" + name + ":"
}

// recordKey addresses one sentence hash.
func (a *Adapter) recordKey(name string, n int) string {
	return fmt.Sprintf("%s%d", a.keyPrefix(name), n)
}

// indexName names the FT index of one collection.
func (a *Adapter) indexName(name string) string {
	return a.prefix + a.corpus + ":" + name + ":idx"
}

// OpError wraps an engine failure with the command name for diagnostics.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *OpError) Unwrap() error { return e.Err }

// wrapErr classifies a command failure. Server-reported errors keep the
// operation context; anything else means the backend could not be
// reached and maps to ErrServiceUnavailable.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := rueidis.IsRedisErr(err); ok {
		return &OpError{Op: op, Err: err}
	}
	return fmt.Errorf("%s: %w: %w", op, vakya.ErrServiceUnavailable, err)
}

// isRedisErr checks if err is a server error containing substr
// (case-insensitive).
func isRedisErr(err error, substr string) bool {
	re, ok := rueidis.IsRedisErr(err)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(re.Error()), strings.ToLower(substr))
}
