package sqlitevec

import (
	"context"
	"fmt"
	"strings"

	"github.com/vakya-corpus/vakya"
)

// SearchSemantic ranks the collection's sentences by similarity to the
// query text, descending, truncated to the result cap. Range and
// keyword filters narrow the already-capped candidate set, so they can
// only shrink the result; rank order is preserved throughout and never
// re-sorted by position.
func (a *Adapter) SearchSemantic(ctx context.Context, name string, q vakya.Query) ([][]vakya.Record, error) {
	if err := a.requireCollection(ctx, name); err != nil {
		return nil, err
	}

	a.mu.RLock()
	g := a.graphs[name]
	a.mu.RUnlock()
	if g == nil || g.Len() == 0 {
		return [][]vakya.Record{nil}, nil
	}

	vec, err := a.embedder.Embed(ctx, q.Semantic())
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	nodes := g.Search(normalize(vec), q.Limit())

	recs := make([]vakya.Record, 0, len(nodes))
	for _, node := range nodes {
		rec, err := a.sentence(ctx, name, node.Key)
		if err != nil {
			return nil, err
		}
		if r := q.Range(); r != nil && !r.Contains(rec.N) {
			continue
		}
		// Case-insensitive, matching the LIKE predicate on the plain path.
		if kw := q.Keyword(); kw != "" &&
			!strings.Contains(strings.ToLower(rec.Sent), strings.ToLower(kw)) {
			continue
		}
		recs = append(recs, rec)
	}

	return [][]vakya.Record{recs}, nil
}

func (a *Adapter) sentence(ctx context.Context, name string, n int) (vakya.Record, error) {
	rec := vakya.Record{N: n}
	err := a.db.QueryRowContext(ctx,
		`SELECT sent FROM sentences WHERE collection = ? AND n = ?`, name, n,
	).Scan(&rec.Sent)
	if err != nil {
		return vakya.Record{}, fmt.Errorf("load sentence %d: %w", n, err)
	}
	return rec, nil
}
