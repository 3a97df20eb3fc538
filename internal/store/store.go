// Package store builds and owns the indexed representation of loaded
// interval sets and answers range queries during the query phase.
//
// Every store follows a two-phase discipline: it starts in StateLoading,
// accepts Append calls, and becomes queryable only after Finalize. Querying
// a loading store or appending to a finalized one fails fast. Once
// finalized the content and indices are immutable, so concurrent read-only
// queries need no locking.
package store

import "github.com/inodb/vibe-bedtools/internal/interval"

// State is the lifecycle phase of a store.
type State int

const (
	StateLoading State = iota
	StateQueryable
)

func (s State) String() string {
	if s == StateLoading {
		return "loading"
	}
	return "queryable"
}

// Store answers indexed range queries over named interval sets.
//
// QueryOverlaps returns all intervals of the named set on chrom whose span
// intersects [start, end), sorted by (start, end, input order). Zero-length
// intervals match by closed-span containment. QueryNearest returns the
// interval minimizing absolute distance to [start, end), with ties broken
// by smaller start, then smaller end, then input order; maxDistance < 0
// means unbounded, and nil is returned when no interval is in range.
type Store interface {
	// Append adds a normalized interval to its set's partition.
	// Valid only in StateLoading.
	Append(iv *interval.GenomicInterval) error

	// Finalize sorts and indexes all partitions and transitions the
	// store to StateQueryable.
	Finalize() error

	State() State

	QueryOverlaps(setID, chrom string, start, end int64) ([]*interval.GenomicInterval, error)
	QueryNearest(setID, chrom string, start, end, maxDistance int64) (*interval.GenomicInterval, error)

	// Partition returns the full sorted partition for one chromosome.
	Partition(setID, chrom string) ([]*interval.GenomicInterval, error)

	// Chromosomes returns the chromosomes of a set in lexicographic order.
	Chromosomes(setID string) ([]string, error)

	// Count returns the number of intervals loaded into a set.
	Count(setID string) (int64, error)

	// SetIDs returns the identifiers of all loaded sets.
	SetIDs() ([]string, error)

	Close() error
}
