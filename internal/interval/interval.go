// Package interval defines the genomic interval data model shared by all
// set operations: half-open coordinates, strand, chromosome ordering, and
// record normalization.
package interval

import "fmt"

// MaxCoord is the largest coordinate the store accepts. Coordinates are
// kept in int64 fields but must fit the unsigned 32-bit domain used by
// common genome assemblies and BED tooling.
const MaxCoord = int64(1)<<32 - 1

// Strand is the three-valued strand of a feature.
type Strand int8

const (
	StrandNone    Strand = 0 // unspecified
	StrandForward Strand = 1
	StrandReverse Strand = -1
)

// ParseStrand maps a strand token to a Strand. Unknown tokens map to
// StrandNone rather than failing; BED uses "." for unstranded features.
func ParseStrand(tok string) Strand {
	switch tok {
	case "+":
		return StrandForward
	case "-":
		return StrandReverse
	default:
		return StrandNone
	}
}

// String returns the BED representation of the strand.
func (s Strand) String() string {
	switch s {
	case StrandForward:
		return "+"
	case StrandReverse:
		return "-"
	default:
		return "."
	}
}

// GenomicInterval is a single normalized feature. Coordinates are 0-based
// half-open: [Start, End). Start == End is a zero-length point feature.
type GenomicInterval struct {
	Chrom    string
	Start    int64
	End      int64
	Strand   Strand
	Name     string
	Score    float64
	HasScore bool

	// Provenance.
	SetID string // identifier of the set this interval was loaded into
	Order int64  // original input order within the set
}

// Length returns End - Start. Zero for point features.
func (g *GenomicInterval) Length() int64 {
	return g.End - g.Start
}

// IsPoint reports whether the interval is zero-length.
func (g *GenomicInterval) IsPoint() bool {
	return g.Start == g.End
}

// Overlaps reports whether g and o share at least one base, or, when either
// is a zero-length point, whether the point lies within the other's closed
// span [Start, End]. Two points overlap only at the same coordinate.
func (g *GenomicInterval) Overlaps(o *GenomicInterval) bool {
	if g.Chrom != o.Chrom {
		return false
	}
	if g.IsPoint() || o.IsPoint() {
		return max64(g.Start, o.Start) <= min64(g.End, o.End)
	}
	return g.Start < o.End && o.Start < g.End
}

// OverlapSpan returns the overlap region [start, end) of g and o.
// For point matches the span is empty (start == end at the point).
func (g *GenomicInterval) OverlapSpan(o *GenomicInterval) (start, end int64) {
	start = max64(g.Start, o.Start)
	end = min64(g.End, o.End)
	if end < start {
		end = start
	}
	return start, end
}

// Distance returns the signed distance from g to o on the same chromosome:
// negative if o precedes g, positive if o follows, zero on overlap.
func (g *GenomicInterval) Distance(o *GenomicInterval) int64 {
	if g.Overlaps(o) {
		return 0
	}
	if o.End <= g.Start {
		return -(g.Start - o.End + 1)
	}
	return o.Start - g.End + 1
}

func (g *GenomicInterval) String() string {
	return fmt.Sprintf("%s:%d-%d", g.Chrom, g.Start, g.End)
}

// Less orders intervals by (Start, End, Order). Chromosome partitioning
// happens before sorting, so Chrom is not part of the comparison.
func Less(a, b *GenomicInterval) bool {
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	if a.End != b.End {
		return a.End < b.End
	}
	return a.Order < b.Order
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
