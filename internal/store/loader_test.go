package store

import (
	"errors"
	"strings"
	"testing"

	"github.com/inodb/vibe-bedtools/internal/bed"
	"github.com/inodb/vibe-bedtools/internal/interval"
)

// sliceSource yields records from a slice, implementing RecordSource.
type sliceSource struct {
	recs []interval.Record
	pos  int
}

func (s *sliceSource) Next() (*interval.Record, error) {
	if s.pos >= len(s.recs) {
		return nil, nil
	}
	rec := s.recs[s.pos]
	s.pos++
	return &rec, nil
}

func TestLoaderAbortsOnInvalid(t *testing.T) {
	st := NewMemoryStore()
	loader := NewLoader(st, interval.NewNormalizer(interval.CanonNone))

	src := &sliceSource{recs: []interval.Record{
		{Chrom: "chr1", Start: 0, End: 10},
		{Chrom: "chr1", Start: 20, End: 5}, // invalid
		{Chrom: "chr1", Start: 30, End: 40},
	}}
	loaded, skipped, err := loader.LoadSet("A", src)
	var invalid *interval.InvalidRecordError
	if !errors.As(err, &invalid) {
		t.Fatalf("LoadSet = %v, want InvalidRecordError", err)
	}
	if loaded != 1 || skipped != 0 {
		t.Errorf("loaded = %d, skipped = %d, want 1, 0", loaded, skipped)
	}
}

func TestLoaderSkipInvalid(t *testing.T) {
	st := NewMemoryStore()
	loader := NewLoader(st, interval.NewNormalizer(interval.CanonNone))
	loader.SetSkipInvalid(true)

	src := &sliceSource{recs: []interval.Record{
		{Chrom: "chr1", Start: 0, End: 10},
		{Chrom: "chr1", Start: 20, End: 5}, // invalid, dropped
		{Chrom: "", Start: 0, End: 1},      // invalid, dropped
		{Chrom: "chr1", Start: 30, End: 40},
	}}
	loaded, skipped, err := loader.LoadSet("A", src)
	if err != nil {
		t.Fatalf("LoadSet: %v", err)
	}
	if loaded != 2 || skipped != 2 {
		t.Errorf("loaded = %d, skipped = %d, want 2, 2", loaded, skipped)
	}

	if err := st.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	count, err := st.Count("A")
	if err != nil || count != 2 {
		t.Errorf("Count = (%d, %v), want 2", count, err)
	}
}

func TestLoaderSkipMalformedLines(t *testing.T) {
	st := NewMemoryStore()
	loader := NewLoader(st, interval.NewNormalizer(interval.CanonNone))
	loader.SetSkipInvalid(true)

	in := "chr1\t0\t10\nchr1\tnotanumber\t20\nchr1\t30\t40\n"
	loaded, skipped, err := loader.LoadSet("A", bed.NewParserFromReader(strings.NewReader(in)))
	if err != nil {
		t.Fatalf("LoadSet: %v", err)
	}
	if loaded != 2 || skipped != 1 {
		t.Errorf("loaded = %d, skipped = %d, want 2, 1", loaded, skipped)
	}
}

func TestLoaderAbortsOnMalformedLine(t *testing.T) {
	loader := NewLoader(NewMemoryStore(), interval.NewNormalizer(interval.CanonNone))

	in := "chr1\t0\t10\nchr1\tnotanumber\t20\n"
	loaded, _, err := loader.LoadSet("A", bed.NewParserFromReader(strings.NewReader(in)))
	var parseErr *bed.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("LoadSet = %v, want ParseError", err)
	}
	if loaded != 1 {
		t.Errorf("loaded = %d, want 1", loaded)
	}
}

// failingSource simulates an I/O failure mid-load.
type failingSource struct{}

func (failingSource) Next() (*interval.Record, error) {
	return nil, errors.New("read: device gone")
}

func TestLoaderSkipDoesNotMaskIOErrors(t *testing.T) {
	loader := NewLoader(NewMemoryStore(), interval.NewNormalizer(interval.CanonNone))
	loader.SetSkipInvalid(true)

	if _, _, err := loader.LoadSet("A", failingSource{}); err == nil {
		t.Error("LoadSet should abort on a source I/O failure even in skip mode")
	}
}

func TestLoaderCanonicalizes(t *testing.T) {
	st := NewMemoryStore()
	loader := NewLoader(st, interval.NewNormalizer(interval.CanonStripChr))

	src := &sliceSource{recs: []interval.Record{
		{Chrom: "chr1", Start: 0, End: 10},
		{Chrom: "1", Start: 20, End: 30},
	}}
	if _, _, err := loader.LoadSet("A", src); err != nil {
		t.Fatalf("LoadSet: %v", err)
	}
	if err := st.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	chroms, err := st.Chromosomes("A")
	if err != nil {
		t.Fatalf("Chromosomes: %v", err)
	}
	if len(chroms) != 1 || chroms[0] != "1" {
		t.Errorf("Chromosomes = %v, want [1]", chroms)
	}
}

func TestLoaderEmptySetID(t *testing.T) {
	loader := NewLoader(NewMemoryStore(), interval.NewNormalizer(interval.CanonNone))
	if _, _, err := loader.LoadSet("", &sliceSource{}); err == nil {
		t.Error("LoadSet with empty set identifier should fail")
	}
}
