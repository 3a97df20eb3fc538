package interval

import (
	"fmt"
	"strings"
)

// Record is a raw decoded feature as produced by a format parser (BED,
// VCF-derived, etc.) before normalization. Start/End follow the 0-based
// half-open convention; parsers for 1-based formats convert first.
type Record struct {
	Chrom    string
	Start    int64
	End      int64
	Strand   string
	Name     string
	Score    float64
	HasScore bool
}

// CanonMode selects how chromosome names are canonicalized during
// normalization. The default is CanonNone: names are used exactly as given,
// and sets loaded with mismatched naming conventions ("chr1" vs "1") will
// not overlap. Case is never altered.
type CanonMode int

const (
	CanonNone     CanonMode = iota // use names as given
	CanonStripChr                  // "chr1" -> "1"
	CanonAddChr                    // "1" -> "chr1"
)

// ParseCanonMode parses a canonicalization mode name as used in config
// files and CLI flags.
func ParseCanonMode(s string) (CanonMode, error) {
	switch s {
	case "", "none":
		return CanonNone, nil
	case "strip-chr":
		return CanonStripChr, nil
	case "add-chr":
		return CanonAddChr, nil
	default:
		return CanonNone, fmt.Errorf("unknown canonicalization mode %q", s)
	}
}

// Normalizer validates and canonicalizes raw records into GenomicInterval
// values. It holds no mutable state and is safe for concurrent use.
type Normalizer struct {
	canon CanonMode
}

// NewNormalizer creates a normalizer with the given canonicalization mode.
func NewNormalizer(canon CanonMode) *Normalizer {
	return &Normalizer{canon: canon}
}

// Canonicalize applies the configured chromosome-name rule.
func (n *Normalizer) Canonicalize(chrom string) string {
	switch n.canon {
	case CanonStripChr:
		return strings.TrimPrefix(chrom, "chr")
	case CanonAddChr:
		if !strings.HasPrefix(chrom, "chr") {
			return "chr" + chrom
		}
	}
	return chrom
}

// Normalize validates rec and produces a GenomicInterval carrying the given
// provenance. Returns *InvalidRecordError when the record violates the
// interval invariants.
func (n *Normalizer) Normalize(setID string, order int64, rec Record) (*GenomicInterval, error) {
	if rec.Chrom == "" {
		return nil, &InvalidRecordError{SetID: setID, Order: order, Reason: "empty chromosome name"}
	}
	if rec.Start < 0 || rec.End < 0 {
		return nil, &InvalidRecordError{
			SetID: setID, Order: order, Chrom: rec.Chrom,
			Reason: fmt.Sprintf("negative coordinate %d-%d", rec.Start, rec.End),
		}
	}
	if rec.Start > rec.End {
		return nil, &InvalidRecordError{
			SetID: setID, Order: order, Chrom: rec.Chrom,
			Reason: fmt.Sprintf("start %d > end %d", rec.Start, rec.End),
		}
	}
	if rec.End > MaxCoord {
		return nil, &InvalidRecordError{
			SetID: setID, Order: order, Chrom: rec.Chrom,
			Reason: fmt.Sprintf("end %d exceeds coordinate range", rec.End),
		}
	}

	return &GenomicInterval{
		Chrom:    n.Canonicalize(rec.Chrom),
		Start:    rec.Start,
		End:      rec.End,
		Strand:   ParseStrand(rec.Strand),
		Name:     rec.Name,
		Score:    rec.Score,
		HasScore: rec.HasScore,
		SetID:    setID,
		Order:    order,
	}, nil
}
