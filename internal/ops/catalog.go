// Package ops implements the set-operation catalog, the operation compiler
// that turns requests into indexed store queries, and the streaming result
// executor.
package ops

import (
	"fmt"

	"github.com/inodb/vibe-bedtools/internal/interval"
)

// Kind enumerates the supported set operations. Dispatch is tagged on Kind;
// each kind carries its own parameter struct (the *Request types).
type Kind int

const (
	KindIntersect Kind = iota
	KindMerge
	KindSubtract
	KindClosest
	KindComplement
	KindCoverage
)

func (k Kind) String() string {
	if spec, ok := Catalog[k]; ok {
		return spec.Name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps an operation name to its Kind.
func ParseKind(name string) (Kind, error) {
	for k, spec := range Catalog {
		if spec.Name == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown operation %q", name)
}

// Spec describes a catalog entry: the operation name, whether it takes a
// second set, and a one-line contract summary.
type Spec struct {
	Name        string
	Binary      bool
	Description string
}

// Catalog is the enumerated set of supported operations.
var Catalog = map[Kind]Spec{
	KindIntersect:  {Name: "intersect", Binary: true, Description: "per-pair overlap regions of A and B"},
	KindMerge:      {Name: "merge", Binary: false, Description: "merge A intervals within a maximum gap"},
	KindSubtract:   {Name: "subtract", Binary: true, Description: "A minus the union of overlapping B regions"},
	KindClosest:    {Name: "closest", Binary: true, Description: "per-A nearest B with signed distance"},
	KindComplement: {Name: "complement", Binary: false, Description: "gaps between sorted A intervals"},
	KindCoverage:   {Name: "coverage", Binary: true, Description: "per-A-interval depth of B"},
}

// Request is a validated operation request. Concrete types carry the
// per-operation parameters.
type Request interface {
	Kind() Kind
	// Validate checks the parameters against the catalog contract. It
	// runs before any store query; a request that fails validation never
	// executes partially.
	Validate() error
}

// IntersectRequest computes overlap regions between sets A and B.
//
// MinOverlapFraction is measured against A's length; with Reciprocal it
// must also hold against B's length. A zero-length A interval that matches
// counts as fraction 1.0 (a contained point is fully covered); a
// zero-length B interval contributes fraction 0.0 to a non-point A and so
// only passes when MinOverlapFraction is 0.
type IntersectRequest struct {
	SetA, SetB         string
	MinOverlapFraction float64
	Reciprocal         bool
	SameStrand         bool
}

func (r *IntersectRequest) Kind() Kind { return KindIntersect }

func (r *IntersectRequest) Validate() error {
	if err := requireSets(KindIntersect, r.SetA, r.SetB); err != nil {
		return err
	}
	if r.MinOverlapFraction < 0 || r.MinOverlapFraction > 1 {
		return &InvalidParameterError{Op: KindIntersect, Param: "min-overlap-fraction",
			Reason: fmt.Sprintf("must be in [0, 1], got %g", r.MinOverlapFraction)}
	}
	return nil
}

// MergeRequest merges A intervals whose gap is at most MaxGap. With
// SameStrand, intervals are partitioned by strand before merging and the
// merged spans keep the group strand.
type MergeRequest struct {
	SetA       string
	MaxGap     int64
	SameStrand bool
}

func (r *MergeRequest) Kind() Kind { return KindMerge }

func (r *MergeRequest) Validate() error {
	if err := requireSets(KindMerge, r.SetA, ""); err != nil {
		return err
	}
	if r.MaxGap < 0 {
		return &InvalidParameterError{Op: KindMerge, Param: "max-gap-distance",
			Reason: fmt.Sprintf("must be >= 0, got %d", r.MaxGap)}
	}
	return nil
}

// SubtractRequest removes the union of overlapping B regions from each A
// interval.
type SubtractRequest struct {
	SetA, SetB string
}

func (r *SubtractRequest) Kind() Kind { return KindSubtract }

func (r *SubtractRequest) Validate() error {
	return requireSets(KindSubtract, r.SetA, r.SetB)
}

// ClosestRequest finds the nearest B interval for each A interval.
// MaxDistance bounds the absolute distance; a negative value means
// unbounded. When no B interval is in range the A record is still emitted,
// with OutputRecord.NoNeighbor set, so output cardinality always equals the
// size of A.
type ClosestRequest struct {
	SetA, SetB  string
	MaxDistance int64
}

func (r *ClosestRequest) Kind() Kind { return KindClosest }

func (r *ClosestRequest) Validate() error {
	return requireSets(KindClosest, r.SetA, r.SetB)
}

// ComplementRequest emits the gaps between merged A intervals. With a
// Genome the leading and trailing gaps of each chromosome are included,
// and chromosomes absent from A are emitted whole.
type ComplementRequest struct {
	SetA   string
	Genome *interval.Genome
}

func (r *ComplementRequest) Kind() Kind { return KindComplement }

func (r *ComplementRequest) Validate() error {
	return requireSets(KindComplement, r.SetA, "")
}

// CoverageRequest reports, for each A interval, the number of overlapping B
// intervals, the count of A bases covered by at least one B interval, and
// the covered fraction of A. For a zero-length A interval the depth is the
// number of B intervals containing the point, covered bases are 0 by
// convention, and the fraction is 1.0 when the depth is positive.
type CoverageRequest struct {
	SetA, SetB string
}

func (r *CoverageRequest) Kind() Kind { return KindCoverage }

func (r *CoverageRequest) Validate() error {
	return requireSets(KindCoverage, r.SetA, r.SetB)
}

func requireSets(op Kind, setA, setB string) error {
	if setA == "" {
		return &InvalidParameterError{Op: op, Param: "set A", Reason: "empty set reference"}
	}
	if Catalog[op].Binary && setB == "" {
		return &InvalidParameterError{Op: op, Param: "set B", Reason: "empty set reference"}
	}
	return nil
}
