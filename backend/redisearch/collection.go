package redisearch

import (
	"context"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/vakya-corpus/vakya"
)

// Replace creates or fully replaces the named collection: any previous
// index and records under the same name are dropped first, never merged.
// Returns the hash keys written, in position order.
func (a *Adapter) Replace(ctx context.Context, name string, recs []vakya.Record) ([]string, error) {
	if err := a.dropCollection(ctx, name); err != nil {
		return nil, err
	}

	if err := a.createIndex(ctx, name); err != nil {
		return nil, err
	}

	keys := make([]string, len(recs))
	cmds := make([]rueidis.Completed, len(recs))
	for i, rec := range recs {
		keys[i] = a.recordKey(name, rec.N)
		cmds[i] = a.client.B().Hset().Key(keys[i]).FieldValue().
			FieldValue("n", strconv.Itoa(rec.N)).
			FieldValue("sent", rec.Sent).
			Build()
	}

	for _, res := range a.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return nil, wrapErr("HSET", err)
		}
	}

	addCmd := a.client.B().Sadd().Key(a.catalogKey()).Member(name).Build()
	if err := a.client.Do(ctx, addCmd).Error(); err != nil {
		return nil, wrapErr("SADD", err)
	}

	return keys, nil
}

// Remove deletes the named collection. Absent collections are fine: the
// call is idempotent and still confirms absence.
func (a *Adapter) Remove(ctx context.Context, name string) (bool, error) {
	if err := a.dropCollection(ctx, name); err != nil {
		return false, err
	}

	cmd := a.client.B().Sismember().Key(a.catalogKey()).Member(name).Build()
	present, err := a.client.Do(ctx, cmd).AsBool()
	if err != nil {
		return false, wrapErr("SISMEMBER", err)
	}
	return !present, nil
}

// List returns the collection names in the corpus catalog. Set order,
// so effectively unordered.
func (a *Adapter) List(ctx context.Context) ([]string, error) {
	cmd := a.client.B().Smembers().Key(a.catalogKey()).Build()
	names, err := a.client.Do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, wrapErr("SMEMBERS", err)
	}
	return names, nil
}

// dropCollection removes the FT index, every record key, and the
// catalog entry for name. Missing pieces are skipped, not errors.
func (a *Adapter) dropCollection(ctx context.Context, name string) error {
	drop := a.client.B().Arbitrary("FT.DROPINDEX").Args(a.indexName(name)).Build()
	if err := a.client.Do(ctx, drop).Error(); err != nil && !isRedisErr(err, "unknown index name") {
		return wrapErr("FT.DROPINDEX", err)
	}

	keys, err := a.scanKeys(ctx, a.keyPrefix(name)+"*")
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		del := a.client.B().Del().Key(keys...).Build()
		if err := a.client.Do(ctx, del).Error(); err != nil {
			return wrapErr("DEL", err)
		}
	}

	rem := a.client.B().Srem().Key(a.catalogKey()).Member(name).Build()
	if err := a.client.Do(ctx, rem).Error(); err != nil {
		return wrapErr("SREM", err)
	}
	return nil
}

// createIndex builds the per-collection FT index: sortable numeric
// position plus a text field used for keyword acceleration.
func (a *Adapter) createIndex(ctx context.Context, name string) error {
	cmd := a.client.B().Arbitrary("FT.CREATE").Args(
		a.indexName(name),
		"ON", "HASH",
		"PREFIX", "1", a.keyPrefix(name),
		"SCHEMA",
		"n", "NUMERIC", "SORTABLE",
		"sent", "TEXT",
	).Build()
	if err := a.client.Do(ctx, cmd).Error(); err != nil && !isRedisErr(err, "index already exists") {
		return wrapErr("FT.CREATE", err)
	}
	return nil
}

// scanKeys iterates keys matching a pattern.
func (a *Adapter) scanKeys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	var cursor uint64

	for {
		cmd := a.client.B().Scan().Cursor(cursor).Match(pattern).Count(100).Build()
		res, err := a.client.Do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, wrapErr("SCAN", err)
		}
		keys = append(keys, res.Elements...)
		cursor = res.Cursor
		if cursor == 0 {
			break
		}
	}

	return keys, nil
}
