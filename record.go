package vakya

import "iter"

// Record is the canonical sentence record: a 1-based position and the
// sentence text. N is assigned contiguously at ingest time and never
// changes afterwards; it is the sort key for positional reads and the
// field range filters address.
type Record struct {
	N    int
	Sent string
}

// flatten normalizes adapter payloads into one lazy sequence of records.
// Adapters hand back a list of batches: a plain read is a single batch,
// while batched similarity queries produce one batch per query text.
// Exactly one level of nesting is removed; batch-internal order is kept.
func flatten(batches [][]Record) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, batch := range batches {
			for _, rec := range batch {
				if !yield(rec) {
					return
				}
			}
		}
	}
}
