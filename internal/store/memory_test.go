package store

import (
	"errors"
	"testing"

	"github.com/inodb/vibe-bedtools/internal/interval"
)

func buildMemory(t *testing.T, ivs ...*interval.GenomicInterval) *MemoryStore {
	t.Helper()
	m := NewMemoryStore()
	for _, iv := range ivs {
		if err := m.Append(iv); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := m.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return m
}

func giv(set, chrom string, start, end, order int64) *interval.GenomicInterval {
	return &interval.GenomicInterval{SetID: set, Chrom: chrom, Start: start, End: end, Order: order}
}

func TestTwoPhaseDiscipline(t *testing.T) {
	m := NewMemoryStore()
	if err := m.Append(giv("A", "chr1", 0, 10, 0)); err != nil {
		t.Fatalf("Append: %v", err)
	}

	// Queries and inspection before Finalize fail fast.
	if _, err := m.QueryOverlaps("A", "chr1", 0, 10); err == nil {
		t.Error("QueryOverlaps in loading state should fail")
	}
	if _, err := m.Count("A"); err == nil {
		t.Error("Count in loading state should fail")
	}
	if _, err := m.SetIDs(); err == nil {
		t.Error("SetIDs in loading state should fail")
	}

	if err := m.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	// Append after Finalize fails fast.
	var storeErr *StoreError
	if err := m.Append(giv("A", "chr1", 0, 10, 1)); !errors.As(err, &storeErr) {
		t.Errorf("Append after Finalize = %v, want StoreError", err)
	}
	if err := m.Finalize(); err == nil {
		t.Error("double Finalize should fail")
	}
	if m.State() != StateQueryable {
		t.Errorf("State = %v, want queryable", m.State())
	}
}

func TestQueryOverlaps(t *testing.T) {
	m := buildMemory(t,
		giv("A", "chr1", 0, 10, 0),
		giv("A", "chr1", 5, 100, 1), // long interval shadowing later starts
		giv("A", "chr1", 20, 30, 2),
		giv("A", "chr1", 50, 60, 3),
		giv("A", "chr2", 20, 30, 4),
	)

	hits, err := m.QueryOverlaps("A", "chr1", 25, 55)
	if err != nil {
		t.Fatalf("QueryOverlaps: %v", err)
	}
	if len(hits) != 3 {
		t.Fatalf("got %d hits, want 3", len(hits))
	}
	// Sorted order, including the long early-start interval.
	if hits[0].Start != 5 || hits[1].Start != 20 || hits[2].Start != 50 {
		t.Errorf("hits = %v, %v, %v", hits[0], hits[1], hits[2])
	}

	hits, err = m.QueryOverlaps("A", "chr1", 200, 300)
	if err != nil {
		t.Fatalf("QueryOverlaps: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("got %d hits past all intervals, want 0", len(hits))
	}

	if _, err := m.QueryOverlaps("missing", "chr1", 0, 10); err == nil {
		t.Error("unknown set should fail")
	}
}

func TestQueryOverlapsAdjacency(t *testing.T) {
	m := buildMemory(t, giv("A", "chr1", 10, 20, 0))

	// Adjacent query region does not overlap a half-open interval.
	hits, err := m.QueryOverlaps("A", "chr1", 20, 30)
	if err != nil {
		t.Fatalf("QueryOverlaps: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("adjacent region should not match, got %d hits", len(hits))
	}
}

func TestQueryOverlapsPoints(t *testing.T) {
	m := buildMemory(t,
		giv("A", "chr1", 10, 10, 0), // point feature
		giv("A", "chr1", 30, 40, 1),
	)

	// A stored point matches a region whose closed span contains it.
	hits, err := m.QueryOverlaps("A", "chr1", 5, 10)
	if err != nil {
		t.Fatalf("QueryOverlaps: %v", err)
	}
	if len(hits) != 1 || !hits[0].IsPoint() {
		t.Errorf("point at region end should match, got %v", hits)
	}

	// A point query matches intervals containing the point.
	hits, err = m.QueryOverlaps("A", "chr1", 35, 35)
	if err != nil {
		t.Fatalf("QueryOverlaps: %v", err)
	}
	if len(hits) != 1 || hits[0].Start != 30 {
		t.Errorf("point query inside interval should match, got %v", hits)
	}
}

func TestQueryNearest(t *testing.T) {
	m := buildMemory(t,
		giv("B", "chr1", 0, 10, 0),
		giv("B", "chr1", 40, 50, 1),
		giv("B", "chr1", 100, 110, 2),
	)

	// Overlap wins with distance zero.
	n, err := m.QueryNearest("B", "chr1", 45, 60, -1)
	if err != nil {
		t.Fatalf("QueryNearest: %v", err)
	}
	if n == nil || n.Start != 40 {
		t.Errorf("nearest = %v, want overlap at 40", n)
	}

	// Gap on both sides: [40,50) is 11 away, [100,110) is 21 away.
	n, err = m.QueryNearest("B", "chr1", 60, 80, -1)
	if err != nil {
		t.Fatalf("QueryNearest: %v", err)
	}
	if n == nil || n.Start != 40 {
		t.Errorf("nearest = %v, want [40,50)", n)
	}

	// maxDistance bound excludes everything.
	n, err = m.QueryNearest("B", "chr1", 60, 80, 5)
	if err != nil {
		t.Fatalf("QueryNearest: %v", err)
	}
	if n != nil {
		t.Errorf("nearest within 5 = %v, want none", n)
	}

	// Empty chromosome.
	n, err = m.QueryNearest("B", "chr9", 0, 10, -1)
	if err != nil {
		t.Fatalf("QueryNearest: %v", err)
	}
	if n != nil {
		t.Errorf("nearest on empty chromosome = %v, want none", n)
	}
}

func TestQueryNearestTieBreak(t *testing.T) {
	// Equidistant left and right neighbors: left wins (smaller start).
	m := buildMemory(t,
		giv("B", "chr1", 0, 10, 0),
		giv("B", "chr1", 30, 40, 1),
	)
	n, err := m.QueryNearest("B", "chr1", 15, 25, -1)
	if err != nil {
		t.Fatalf("QueryNearest: %v", err)
	}
	if n == nil || n.Start != 0 {
		t.Errorf("nearest = %v, want left neighbor [0,10)", n)
	}

	// Overlapping ties break by (start, end, order).
	m2 := buildMemory(t,
		giv("B", "chr1", 5, 30, 1),
		giv("B", "chr1", 5, 20, 0),
	)
	n, err = m2.QueryNearest("B", "chr1", 10, 15, -1)
	if err != nil {
		t.Fatalf("QueryNearest: %v", err)
	}
	if n == nil || n.End != 20 {
		t.Errorf("nearest = %v, want the smaller-end overlap", n)
	}
}

func TestPartitionOrder(t *testing.T) {
	// Same (start, end) pairs keep input order.
	m := buildMemory(t,
		giv("A", "chr1", 10, 20, 0),
		giv("A", "chr1", 5, 8, 1),
		giv("A", "chr1", 10, 20, 2),
		giv("A", "chr1", 10, 15, 3),
	)
	ivs, err := m.Partition("A", "chr1")
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	wantOrders := []int64{1, 3, 0, 2}
	if len(ivs) != len(wantOrders) {
		t.Fatalf("got %d intervals, want %d", len(ivs), len(wantOrders))
	}
	for i, want := range wantOrders {
		if ivs[i].Order != want {
			t.Errorf("ivs[%d].Order = %d, want %d", i, ivs[i].Order, want)
		}
	}
}

func TestChromosomesAndCounts(t *testing.T) {
	m := buildMemory(t,
		giv("A", "chr2", 0, 10, 0),
		giv("A", "chr1", 0, 10, 1),
		giv("B", "chr3", 0, 10, 0),
	)
	chroms, err := m.Chromosomes("A")
	if err != nil {
		t.Fatalf("Chromosomes: %v", err)
	}
	if len(chroms) != 2 || chroms[0] != "chr1" || chroms[1] != "chr2" {
		t.Errorf("Chromosomes = %v", chroms)
	}
	count, err := m.Count("A")
	if err != nil || count != 2 {
		t.Errorf("Count = (%d, %v), want 2", count, err)
	}
	ids, err := m.SetIDs()
	if err != nil || len(ids) != 2 {
		t.Errorf("SetIDs = (%v, %v)", ids, err)
	}
}
