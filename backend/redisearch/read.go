package redisearch

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/vakya-corpus/vakya"
)

// ReadSents returns the collection's records under the range and
// keyword filters, sorted ascending by position server-side. Both
// filters are pushed down into a single FT.SEARCH predicate.
func (a *Adapter) ReadSents(ctx context.Context, name string, q vakya.Query) ([][]vakya.Record, error) {
	if err := a.requireCollection(ctx, name); err != nil {
		return nil, err
	}

	recs, err := a.search(ctx, name, buildQuery(q))
	if err != nil {
		return nil, err
	}
	return [][]vakya.Record{recs}, nil
}

// ReadBlob joins every sentence in position order with the blob
// separator.
func (a *Adapter) ReadBlob(ctx context.Context, name string) (string, error) {
	if err := a.requireCollection(ctx, name); err != nil {
		return "", err
	}

	recs, err := a.search(ctx, name, "*")
	if err != nil {
		return "", err
	}

	sents := make([]string, len(recs))
	for i, rec := range recs {
		sents[i] = rec.Sent
	}
	return strings.Join(sents, vakya.BlobSeparator), nil
}

// requireCollection maps an absent catalog entry to the neutral
// not-found error.
func (a *Adapter) requireCollection(ctx context.Context, name string) error {
	cmd := a.client.B().Sismember().Key(a.catalogKey()).Member(name).Build()
	present, err := a.client.Do(ctx, cmd).AsBool()
	if err != nil {
		return wrapErr("SISMEMBER", err)
	}
	if !present {
		return fmt.Errorf("%s: %w", name, vakya.ErrCollectionNotFound)
	}
	return nil
}

// search runs one FT.SEARCH for query, fetching the exact match count
// first since FT.SEARCH pages at 10 results by default.
func (a *Adapter) search(ctx context.Context, name, query string) ([]vakya.Record, error) {
	idx := a.indexName(name)

	count := a.client.B().Arbitrary("FT.SEARCH").Args(
		idx, query, "LIMIT", "0", "0", "DIALECT", "2",
	).Build()
	raw, err := a.client.Do(ctx, count).ToArray()
	if err != nil {
		return nil, a.searchErr(name, err)
	}
	total, err := parseTotal(raw)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, nil
	}

	fetch := a.client.B().Arbitrary("FT.SEARCH").Args(
		idx, query,
		"RETURN", "2", "n", "sent",
		"SORTBY", "n", "ASC",
		"LIMIT", "0", strconv.Itoa(total),
		"DIALECT", "2",
	).Build()
	raw, err = a.client.Do(ctx, fetch).ToArray()
	if err != nil {
		return nil, a.searchErr(name, err)
	}

	return parseRecords(raw)
}

func (a *Adapter) searchErr(name string, err error) error {
	if isRedisErr(err, "unknown index name") || isRedisErr(err, "no such index") {
		return fmt.Errorf("%s: %w", name, vakya.ErrCollectionNotFound)
	}
	return wrapErr("FT.SEARCH", err)
}

// buildQuery translates the filter spec into an FT.SEARCH predicate.
// Keyword text is escaped and embedded as a wildcard containment term,
// never interpolated raw into query syntax.
func buildQuery(q vakya.Query) string {
	var parts []string

	if r := q.Range(); r != nil {
		parts = append(parts, fmt.Sprintf("@n:[%d %d]", r.Lo, r.Hi))
	}
	if kw := q.Keyword(); kw != "" {
		parts = append(parts, fmt.Sprintf("@sent:(w'*%s*')", escapeWildcard(kw)))
	}

	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, " ")
}

// escapeWildcard escapes the characters with meaning inside a dialect-2
// wildcard term.
var wildcardEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`*`, `\*`,
	`?`, `\?`,
)

func escapeWildcard(s string) string {
	return wildcardEscaper.Replace(s)
}

// --- Result parsing ---

func parseTotal(raw []rueidis.RedisMessage) (int, error) {
	if len(raw) == 0 {
		return 0, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return 0, fmt.Errorf("parse total: %w", err)
	}
	return int(total), nil
}

// parseRecords walks the RESP2 2-stride shape
// [total, key1, fields1, key2, fields2, ...].
func parseRecords(raw []rueidis.RedisMessage) ([]vakya.Record, error) {
	total, err := parseTotal(raw)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, nil
	}

	recs := make([]vakya.Record, 0, total)
	for i := 1; i+1 < len(raw); i += 2 {
		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}
		m := parseFieldPairs(fields)

		n, err := strconv.Atoi(m["n"])
		if err != nil {
			continue
		}
		recs = append(recs, vakya.Record{N: n, Sent: m["sent"]})
	}

	return recs, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}
