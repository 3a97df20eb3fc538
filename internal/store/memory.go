package store

import (
	"fmt"
	"sort"

	"github.com/inodb/vibe-bedtools/internal/interval"
)

// partition is the sorted per-chromosome index: intervals ordered by
// (start, end, input order) plus suffix- and prefix-max end arrays for
// overlap pruning and nearest-left lookup.
type partition struct {
	ivs       []*interval.GenomicInterval
	sufMaxEnd []int64 // sufMaxEnd[i] = max(End) over ivs[i:]
	preMaxEnd []int64 // preMaxEnd[i] = max(End) over ivs[:i+1]
}

func (p *partition) finalize() {
	sort.Slice(p.ivs, func(i, j int) bool { return interval.Less(p.ivs[i], p.ivs[j]) })

	n := len(p.ivs)
	p.sufMaxEnd = make([]int64, n)
	p.preMaxEnd = make([]int64, n)
	p.sufMaxEnd[n-1] = p.ivs[n-1].End
	for i := n - 2; i >= 0; i-- {
		p.sufMaxEnd[i] = p.ivs[i].End
		if p.sufMaxEnd[i+1] > p.sufMaxEnd[i] {
			p.sufMaxEnd[i] = p.sufMaxEnd[i+1]
		}
	}
	p.preMaxEnd[0] = p.ivs[0].End
	for i := 1; i < n; i++ {
		p.preMaxEnd[i] = p.ivs[i].End
		if p.preMaxEnd[i-1] > p.preMaxEnd[i] {
			p.preMaxEnd[i] = p.preMaxEnd[i-1]
		}
	}
}

// MemoryStore holds interval sets in per-(set, chromosome) sorted slices.
// The zero value is not usable; use NewMemoryStore.
type MemoryStore struct {
	state State
	sets  map[string]map[string]*partition
	order []string // set IDs in load order
}

// NewMemoryStore creates an empty in-memory store in StateLoading.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sets: make(map[string]map[string]*partition)}
}

// State returns the current lifecycle phase.
func (m *MemoryStore) State() State {
	return m.state
}

// Append adds an interval to its set's chromosome partition.
func (m *MemoryStore) Append(iv *interval.GenomicInterval) error {
	if m.state != StateLoading {
		return phaseError("append", "", m.state)
	}
	chroms, ok := m.sets[iv.SetID]
	if !ok {
		chroms = make(map[string]*partition)
		m.sets[iv.SetID] = chroms
		m.order = append(m.order, iv.SetID)
	}
	p, ok := chroms[iv.Chrom]
	if !ok {
		p = &partition{}
		chroms[iv.Chrom] = p
	}
	p.ivs = append(p.ivs, iv)
	return nil
}

// Finalize sorts every partition and transitions to StateQueryable.
func (m *MemoryStore) Finalize() error {
	if m.state != StateLoading {
		return phaseError("finalize", "", m.state)
	}
	for _, chroms := range m.sets {
		for _, p := range chroms {
			if len(p.ivs) > 0 {
				p.finalize()
			}
		}
	}
	m.state = StateQueryable
	return nil
}

func (m *MemoryStore) partition(op, setID, chrom string) (*partition, error) {
	if m.state != StateQueryable {
		return nil, phaseError(op, "", m.state)
	}
	chroms, ok := m.sets[setID]
	if !ok {
		return nil, &StoreError{Op: op, Err: fmt.Errorf("unknown set %q", setID)}
	}
	return chroms[chrom], nil // nil partition means no intervals on chrom
}

// QueryOverlaps returns intervals of the set on chrom intersecting
// [start, end), in (start, end, input order) order. Candidates are located
// by binary search on start and a bounded backward scan pruned by the
// suffix-max-end array, never a full partition scan.
func (m *MemoryStore) QueryOverlaps(setID, chrom string, start, end int64) ([]*interval.GenomicInterval, error) {
	p, err := m.partition("query overlaps", setID, chrom)
	if err != nil {
		return nil, err
	}
	if p == nil || len(p.ivs) == 0 {
		return nil, nil
	}

	query := &interval.GenomicInterval{Chrom: chrom, Start: start, End: end}

	// First index with start > end; everything at or beyond it starts
	// past the query's closed span and cannot match.
	hi := sort.Search(len(p.ivs), func(i int) bool { return p.ivs[i].Start > end })

	var hits []*interval.GenomicInterval
	for i := hi - 1; i >= 0; i-- {
		if p.sufMaxEnd[i] < start {
			break
		}
		if p.ivs[i].Overlaps(query) {
			hits = append(hits, p.ivs[i])
		}
	}
	// The backward scan produced descending index order; reverse to
	// restore sort order.
	for i, j := 0, len(hits)-1; i < j; i, j = i+1, j-1 {
		hits[i], hits[j] = hits[j], hits[i]
	}
	return hits, nil
}

// QueryNearest returns the interval of the set minimizing absolute distance
// to [start, end), or nil if none is within maxDistance (maxDistance < 0
// means unbounded). Overlap counts as distance zero; non-overlapping
// distance is the gap plus one, so adjacent intervals are at distance 1.
func (m *MemoryStore) QueryNearest(setID, chrom string, start, end, maxDistance int64) (*interval.GenomicInterval, error) {
	p, err := m.partition("query nearest", setID, chrom)
	if err != nil {
		return nil, err
	}
	if p == nil || len(p.ivs) == 0 {
		return nil, nil
	}

	// Any overlap wins: distance zero. The first hit in sort order is the
	// tie-break winner (smaller start, then end, then input order).
	hits, err := m.QueryOverlaps(setID, chrom, start, end)
	if err != nil {
		return nil, err
	}
	if len(hits) > 0 {
		return hits[0], nil
	}

	query := &interval.GenomicInterval{Chrom: chrom, Start: start, End: end}

	// Right candidate: smallest start at or past the query end. Sorted
	// order makes the first such interval the tie-break winner.
	r := sort.Search(len(p.ivs), func(i int) bool { return p.ivs[i].Start >= end })
	var right *interval.GenomicInterval
	if r < len(p.ivs) {
		right = p.ivs[r]
	}

	// Left candidate: largest end among ivs[:r]. With no overlapping
	// interval, everything before r ends at or before the query start.
	// preMaxEnd is non-decreasing, so the first index reaching the
	// maximum identifies the winner with the smallest (start, order).
	var left *interval.GenomicInterval
	if r > 0 {
		bestEnd := p.preMaxEnd[r-1]
		l := sort.Search(r, func(i int) bool { return p.preMaxEnd[i] >= bestEnd })
		left = p.ivs[l]
	}

	best := pickNearer(query, left, right)
	if best == nil {
		return nil, nil
	}
	if d := query.Distance(best); maxDistance >= 0 && abs64(d) > maxDistance {
		return nil, nil
	}
	return best, nil
}

// Partition returns the sorted partition for one chromosome.
func (m *MemoryStore) Partition(setID, chrom string) ([]*interval.GenomicInterval, error) {
	p, err := m.partition("partition", setID, chrom)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	return p.ivs, nil
}

// Chromosomes returns the set's chromosomes in lexicographic order.
func (m *MemoryStore) Chromosomes(setID string) ([]string, error) {
	if m.state != StateQueryable {
		return nil, phaseError("chromosomes", "", m.state)
	}
	chroms, ok := m.sets[setID]
	if !ok {
		return nil, &StoreError{Op: "chromosomes", Err: fmt.Errorf("unknown set %q", setID)}
	}
	names := make([]string, 0, len(chroms))
	for c := range chroms {
		names = append(names, c)
	}
	sort.Strings(names)
	return names, nil
}

// Count returns the number of intervals in a set.
func (m *MemoryStore) Count(setID string) (int64, error) {
	if m.state != StateQueryable {
		return 0, phaseError("count", "", m.state)
	}
	chroms, ok := m.sets[setID]
	if !ok {
		return 0, &StoreError{Op: "count", Err: fmt.Errorf("unknown set %q", setID)}
	}
	var n int64
	for _, p := range chroms {
		n += int64(len(p.ivs))
	}
	return n, nil
}

// SetIDs returns loaded set identifiers in load order.
func (m *MemoryStore) SetIDs() ([]string, error) {
	if m.state != StateQueryable {
		return nil, phaseError("set ids", "", m.state)
	}
	ids := make([]string, len(m.order))
	copy(ids, m.order)
	return ids, nil
}

// Close releases nothing for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}

// pickNearer chooses between the left and right non-overlapping candidates.
// On equal absolute distance the left one wins: it has the smaller start.
func pickNearer(query, left, right *interval.GenomicInterval) *interval.GenomicInterval {
	switch {
	case left == nil:
		return right
	case right == nil:
		return left
	}
	dl := abs64(query.Distance(left))
	dr := abs64(query.Distance(right))
	if dr < dl {
		return right
	}
	return left
}

func abs64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}
