// Package sqlitevec is the vector-store backend adapter: sentence
// records and their embeddings persist in a SQLite file under the
// target directory, and similarity search runs over in-memory HNSW
// graphs rebuilt from the stored vectors on open.
//
// Non-semantic reads are served directly by SQL, so range and keyword
// filters without a similarity term are exact. Keyword containment is
// case-insensitive for ASCII on both paths: the plain path inherits
// that from SQLite's LIKE, and the semantic post-filter folds case to
// match. With a similarity term
// the nearest-neighbor cap applies first and range/keyword act as
// post-filters: a result cap smaller than the expected match count
// silently drops matches. That truncation is part of the contract, not
// a bug; callers combining a range with a semantic term must request a
// cap covering the span.
package sqlitevec

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/coder/hnsw"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // pure Go SQLite driver

	"github.com/vakya-corpus/vakya"
)

// ID is the identifier this backend registers under.
const ID = "sqlitevec"

func init() {
	vakya.Register(ID, New)
}

// Compile-time checks: Adapter carries the semantic capability.
var (
	_ vakya.Backend          = (*Adapter)(nil)
	_ vakya.SemanticSearcher = (*Adapter)(nil)
)

// Adapter is a vector-store backend bound to one corpus. One sql.DB
// and one HNSW graph per collection serve every call.
type Adapter struct {
	db       *sql.DB
	embedder vakya.Embedder
	corpus   string
	log      *zap.Logger

	mu     sync.RWMutex
	graphs map[string]*hnsw.Graph[int]
}

// New creates the adapter. The target is a persistence directory; the
// database file is <target>/<corpus>.db. An embedder is mandatory
// since every sentence is embedded at add time.
func New(p vakya.Params) (vakya.Backend, error) {
	if p.Target == "" {
		return nil, fmt.Errorf("sqlitevec: persistence directory is required")
	}
	if p.Embedder == nil {
		return nil, fmt.Errorf("sqlitevec: embedder is required")
	}

	if err := os.MkdirAll(p.Target, 0o755); err != nil {
		return nil, fmt.Errorf("sqlitevec: create %s: %w: %w", p.Target, vakya.ErrServiceUnavailable, err)
	}

	path := filepath.Join(p.Target, p.Corpus+".db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlitevec: open %s: %w: %w", path, vakya.ErrServiceUnavailable, err)
	}

	// WAL must be set via PRAGMA; modernc.org/sqlite ignores DSN params.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitevec: enable WAL: %w: %w", vakya.ErrServiceUnavailable, err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitevec: migrate %s: %w", path, err)
	}

	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}

	a := &Adapter{
		db:       db,
		embedder: p.Embedder,
		corpus:   p.Corpus,
		log:      log,
		graphs:   make(map[string]*hnsw.Graph[int]),
	}

	if err := a.rebuildGraphs(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitevec: rebuild indexes: %w", err)
	}

	return a, nil
}

// Close releases the database handle. The graphs are memory-only.
func (a *Adapter) Close() {
	_ = a.db.Close()
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS collections (
			name TEXT PRIMARY KEY
		);
		CREATE TABLE IF NOT EXISTS sentences (
			id         TEXT PRIMARY KEY,
			collection TEXT NOT NULL,
			n          INTEGER NOT NULL,
			sent       TEXT NOT NULL,
			vector     BLOB NOT NULL,
			UNIQUE (collection, n)
		);
		CREATE INDEX IF NOT EXISTS sentences_coll_n ON sentences (collection, n);
	`)
	return err
}

// rebuildGraphs loads every stored collection into a fresh HNSW graph.
func (a *Adapter) rebuildGraphs() error {
	rows, err := a.db.Query(`SELECT collection, n, vector FROM sentences ORDER BY collection, n`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var coll string
		var n int
		var blob []byte
		if err := rows.Scan(&coll, &n, &blob); err != nil {
			return err
		}
		g := a.graphs[coll]
		if g == nil {
			g = newGraph()
			a.graphs[coll] = g
		}
		g.Add(hnsw.MakeNode(n, bytesToVector(blob)))
	}
	return rows.Err()
}

// newGraph creates an HNSW graph with cosine distance; vectors are
// normalized before insertion so distance ranking matches similarity.
func newGraph() *hnsw.Graph[int] {
	g := hnsw.NewGraph[int]()
	g.Distance = hnsw.CosineDistance
	g.M = 16
	g.EfSearch = 20
	g.Ml = 0.25
	return g
}
