package interval

import (
	"errors"
	"testing"
)

func TestNormalizeValid(t *testing.T) {
	n := NewNormalizer(CanonNone)
	got, err := n.Normalize("A", 3, Record{Chrom: "chr1", Start: 10, End: 20, Strand: "-", Name: "exon1", Score: 4.5, HasScore: true})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got.Chrom != "chr1" || got.Start != 10 || got.End != 20 {
		t.Errorf("coordinates = %v, want chr1:10-20", got)
	}
	if got.Strand != StrandReverse {
		t.Errorf("Strand = %v, want reverse", got.Strand)
	}
	if got.SetID != "A" || got.Order != 3 {
		t.Errorf("provenance = (%q, %d), want (A, 3)", got.SetID, got.Order)
	}
}

func TestNormalizeInvalid(t *testing.T) {
	n := NewNormalizer(CanonNone)
	tests := []struct {
		name string
		rec  Record
	}{
		{"empty chromosome", Record{Chrom: "", Start: 0, End: 10}},
		{"start after end", Record{Chrom: "chr1", Start: 20, End: 10}},
		{"negative start", Record{Chrom: "chr1", Start: -1, End: 10}},
		{"coordinate overflow", Record{Chrom: "chr1", Start: 0, End: MaxCoord + 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Normalize("A", 0, tt.rec)
			var invalid *InvalidRecordError
			if !errors.As(err, &invalid) {
				t.Fatalf("Normalize = %v, want InvalidRecordError", err)
			}
			if invalid.SetID != "A" {
				t.Errorf("SetID = %q, want A", invalid.SetID)
			}
		})
	}
}

func TestNormalizeZeroLength(t *testing.T) {
	n := NewNormalizer(CanonNone)
	got, err := n.Normalize("A", 0, Record{Chrom: "chr1", Start: 10, End: 10})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !got.IsPoint() {
		t.Error("zero-length interval should be a point feature")
	}
}

func TestNormalizeUnknownStrand(t *testing.T) {
	n := NewNormalizer(CanonNone)
	got, err := n.Normalize("A", 0, Record{Chrom: "chr1", Start: 0, End: 1, Strand: "?"})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got.Strand != StrandNone {
		t.Errorf("unknown strand token should map to unspecified, got %v", got.Strand)
	}
}

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		mode  CanonMode
		chrom string
		want  string
	}{
		{CanonNone, "chr1", "chr1"},
		{CanonNone, "1", "1"},
		{CanonStripChr, "chr1", "1"},
		{CanonStripChr, "1", "1"},
		{CanonAddChr, "1", "chr1"},
		{CanonAddChr, "chr1", "chr1"},
	}
	for _, tt := range tests {
		n := NewNormalizer(tt.mode)
		if got := n.Canonicalize(tt.chrom); got != tt.want {
			t.Errorf("Canonicalize(%q) mode %d = %q, want %q", tt.chrom, tt.mode, got, tt.want)
		}
	}
}

func TestParseCanonMode(t *testing.T) {
	if _, err := ParseCanonMode("bogus"); err == nil {
		t.Error("ParseCanonMode should reject unknown modes")
	}
	mode, err := ParseCanonMode("strip-chr")
	if err != nil || mode != CanonStripChr {
		t.Errorf("ParseCanonMode(strip-chr) = (%v, %v)", mode, err)
	}
}
