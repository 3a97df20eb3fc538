package ops

import "github.com/inodb/vibe-bedtools/internal/interval"

// OutputRecord is a single result of a set operation. Interval is the
// primary span and defines the record's position in the global
// (chromosome, start, end) result order. The remaining fields are filled
// per operation kind:
//
//   - intersect: Interval is the overlap region; A and B reference the
//     source intervals.
//   - merge: Interval is the merged span; Count is the number of source
//     records it absorbed.
//   - subtract: Interval is a residual sub-interval carrying A's
//     name/score/strand; A references the source.
//   - closest: Interval is the A interval; B is the nearest neighbor (nil
//     with NoNeighbor set when none is in range); Distance is signed,
//     negative when B precedes A, zero on overlap, and gap+1 otherwise, so
//     adjacent intervals are at distance 1.
//   - complement: Interval is the gap.
//   - coverage: Interval is the A interval; Count is the overlapping B
//     depth, CoveredBases and Fraction describe how much of A is covered.
type OutputRecord struct {
	Kind     Kind
	Interval interval.GenomicInterval

	A *interval.GenomicInterval
	B *interval.GenomicInterval

	Count        int64
	CoveredBases int64
	Fraction     float64
	Distance     int64
	NoNeighbor   bool
}
