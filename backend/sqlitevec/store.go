package sqlitevec

import (
	"context"
	"fmt"
	"strings"

	"github.com/coder/hnsw"
	"github.com/google/uuid"

	"github.com/vakya-corpus/vakya"
)

// Replace creates or fully replaces the named collection. Every
// sentence is embedded through the bound embedder before being stored;
// prior records under the same name are discarded, never merged.
// Returns one generated ID per record, in position order.
func (a *Adapter) Replace(ctx context.Context, name string, recs []vakya.Record) ([]string, error) {
	vectors := make([][]float32, len(recs))
	for i, rec := range recs {
		vec, err := a.embedder.Embed(ctx, rec.Sent)
		if err != nil {
			return nil, fmt.Errorf("embed sentence %d: %w", rec.N, err)
		}
		vectors[i] = normalize(vec)
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sentences WHERE collection = ?`, name); err != nil {
		return nil, fmt.Errorf("clear collection: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO collections (name) VALUES (?) ON CONFLICT (name) DO NOTHING`, name); err != nil {
		return nil, fmt.Errorf("register collection: %w", err)
	}

	ids := make([]string, len(recs))
	for i, rec := range recs {
		ids[i] = uuid.NewString()
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sentences (id, collection, n, sent, vector) VALUES (?, ?, ?, ?, ?)`,
			ids[i], name, rec.N, rec.Sent, vectorToBytes(vectors[i]),
		); err != nil {
			return nil, fmt.Errorf("insert sentence %d: %w", rec.N, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	g := newGraph()
	for i, rec := range recs {
		g.Add(hnsw.MakeNode(rec.N, vectors[i]))
	}
	a.mu.Lock()
	a.graphs[name] = g
	a.mu.Unlock()

	return ids, nil
}

// Remove deletes the named collection; removing an absent one is fine.
func (a *Adapter) Remove(ctx context.Context, name string) (bool, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sentences WHERE collection = ?`, name); err != nil {
		return false, fmt.Errorf("delete sentences: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM collections WHERE name = ?`, name); err != nil {
		return false, fmt.Errorf("delete collection: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}

	a.mu.Lock()
	delete(a.graphs, name)
	a.mu.Unlock()

	var count int
	if err := a.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM collections WHERE name = ?`, name).Scan(&count); err != nil {
		return false, fmt.Errorf("confirm removal: %w", err)
	}
	return count == 0, nil
}

// List returns every collection name in the corpus database.
func (a *Adapter) List(ctx context.Context) ([]string, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT name FROM collections`)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ReadSents serves non-semantic reads straight from SQL, so range and
// keyword filters are exact and results come back ascending by
// position.
func (a *Adapter) ReadSents(ctx context.Context, name string, q vakya.Query) ([][]vakya.Record, error) {
	if err := a.requireCollection(ctx, name); err != nil {
		return nil, err
	}

	query := `SELECT n, sent FROM sentences WHERE collection = ?`
	args := []any{name}

	if r := q.Range(); r != nil {
		query += ` AND n BETWEEN ? AND ?`
		args = append(args, r.Lo, r.Hi)
	}
	if kw := q.Keyword(); kw != "" {
		query += ` AND sent LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(kw)+"%")
	}
	query += ` ORDER BY n ASC`

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("read sentences: %w", err)
	}
	defer rows.Close()

	var recs []vakya.Record
	for rows.Next() {
		var rec vakya.Record
		if err := rows.Scan(&rec.N, &rec.Sent); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return [][]vakya.Record{recs}, nil
}

// ReadBlob joins every sentence in position order with the blob
// separator.
func (a *Adapter) ReadBlob(ctx context.Context, name string) (string, error) {
	batches, err := a.ReadSents(ctx, name, vakya.Query{})
	if err != nil {
		return "", err
	}

	var sents []string
	for _, batch := range batches {
		for _, rec := range batch {
			sents = append(sents, rec.Sent)
		}
	}
	return strings.Join(sents, vakya.BlobSeparator), nil
}

func (a *Adapter) requireCollection(ctx context.Context, name string) error {
	var count int
	if err := a.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM collections WHERE name = ?`, name).Scan(&count); err != nil {
		return fmt.Errorf("check collection: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%s: %w", name, vakya.ErrCollectionNotFound)
	}
	return nil
}

// escapeLike escapes the LIKE metacharacters so the keyword matches as
// a literal substring.
var likeEscaper = strings.NewReplacer(
	`\`, `\\`,
	`%`, `\%`,
	`_`, `\_`,
)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
