// Package hashing provides a dependency-free Embedder using the hashing
// trick: tokens are hashed into a fixed number of buckets and counted.
// The vectors are deterministic and cheap, which makes the embedder
// suitable for offline corpora and tests; semantic quality is limited
// to lexical overlap.
package hashing

import (
	"context"
	"hash/fnv"
	"regexp"
	"strings"

	"github.com/vakya-corpus/vakya"
)

// DefaultDimensions is the bucket count used when none is given.
const DefaultDimensions = 256

// Compile-time check.
var _ vakya.Embedder = (*Embedder)(nil)

// Embedder hashes word tokens into count buckets.
type Embedder struct {
	dimensions   int
	tokenPattern *regexp.Regexp
}

// New creates a hashing embedder with dimensions buckets; non-positive
// values fall back to DefaultDimensions.
func New(dimensions int) *Embedder {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &Embedder{
		dimensions:   dimensions,
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
	}
}

// Embed returns the bucket-count vector for one text. It never fails;
// the error return only satisfies the Embedder contract.
func (e *Embedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dimensions)
	for _, tok := range e.tokenPattern.FindAllString(strings.ToLower(text), -1) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		vec[h.Sum32()%uint32(e.dimensions)]++
	}
	return vec, nil
}

// Dimensions returns the bucket count.
func (e *Embedder) Dimensions() int { return e.dimensions }
