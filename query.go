package vakya

import (
	"fmt"
	"strconv"
)

// DefaultSemanticResults caps similarity results when no explicit count
// is requested.
const DefaultSemanticResults = 3

// Recognized passthrough-arg keys. Anything else in the arg map flows to
// the adapter untouched; unknown keys are ignored, never rejected.
const (
	ArgSemanticKeyword = "semantic_kw"
	ArgResultCount     = "n_results"
)

// Range is an inclusive [Lo, Hi] filter over record positions. It is
// normalized at construction: the caller may supply the bounds in either
// order.
type Range struct {
	Lo int
	Hi int
}

// NewRange builds a normalized inclusive range from an unordered pair.
func NewRange(a, b int) Range {
	if a > b {
		a, b = b, a
	}
	return Range{Lo: a, Hi: b}
}

// Contains reports whether n falls inside the range.
func (r Range) Contains(n int) bool { return n >= r.Lo && n <= r.Hi }

// Query is the normalized filter specification for one ReadSents call.
// It is built by the facade from ReadOption values and owned for the
// duration of that single call.
type Query struct {
	rng      *Range
	keyword  string
	semantic string
	limit    int
	args     map[string]string
}

// ReadOption configures a single ReadSents call.
type ReadOption func(*Query)

// WithRange restricts results to positions between lo and hi inclusive,
// in either order.
func WithRange(lo, hi int) ReadOption {
	return func(q *Query) {
		r := NewRange(lo, hi)
		q.rng = &r
	}
}

// WithKeyword restricts results to sentences containing kw.
func WithKeyword(kw string) ReadOption {
	return func(q *Query) { q.keyword = kw }
}

// WithSemantic ranks results by similarity to the given query text.
// Only capability-bearing backends accept it; others fail with
// ErrNotImplemented.
func WithSemantic(query string) ReadOption {
	return func(q *Query) { q.semantic = query }
}

// WithLimit caps the number of similarity results. The cap applies
// before any range or keyword post-filter, so a cap smaller than the
// expected match count silently drops matches.
func WithLimit(n int) ReadOption {
	return func(q *Query) { q.limit = n }
}

// WithArgs passes an open string-keyed map through to the adapter.
// The keys "semantic_kw" and "n_results" are recognized here and promoted
// into the structured query; everything else is backend-specific.
func WithArgs(args map[string]string) ReadOption {
	return func(q *Query) {
		if q.args == nil {
			q.args = make(map[string]string, len(args))
		}
		for k, v := range args {
			q.args[k] = v
		}
	}
}

// buildQuery applies the options and promotes recognized arg keys.
func buildQuery(opts []ReadOption) (Query, error) {
	var q Query
	for _, o := range opts {
		o(&q)
	}

	if v := q.args[ArgSemanticKeyword]; v != "" && q.semantic == "" {
		q.semantic = v
	}
	if v := q.args[ArgResultCount]; v != "" && q.limit == 0 {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Query{}, fmt.Errorf("invalid %s %q: %w", ArgResultCount, v, err)
		}
		q.limit = n
	}

	if q.limit <= 0 {
		q.limit = DefaultSemanticResults
	}
	return q, nil
}

// Range returns the positional filter, or nil when absent.
func (q Query) Range() *Range { return q.rng }

// Keyword returns the containment filter, empty when absent.
func (q Query) Keyword() string { return q.keyword }

// Semantic returns the similarity query text, empty when absent.
func (q Query) Semantic() string { return q.semantic }

// Limit returns the similarity result cap.
func (q Query) Limit() int { return q.limit }

// Arg returns a passthrough argument by key.
func (q Query) Arg(key string) string { return q.args[key] }

// HasSemantic reports whether a similarity term was supplied.
func (q Query) HasSemantic() bool { return q.semantic != "" }

// IsEmpty reports whether no filter of any kind was supplied.
func (q Query) IsEmpty() bool {
	return q.rng == nil && q.keyword == "" && q.semantic == ""
}
