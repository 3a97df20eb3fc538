package interval

import "sort"

// ChromosomeOrder is the total order over chromosome names used for the
// global result sort. Without an override the order is lexicographic over
// canonicalized names; callers that need assembly order (chr1, chr2, ...,
// chrX) supply one from a genome file.
type ChromosomeOrder struct {
	rank map[string]int
}

// LexicographicOrder returns the default order: plain string comparison.
func LexicographicOrder() *ChromosomeOrder {
	return &ChromosomeOrder{}
}

// OrderFromList returns an order following the given chromosome list.
// Names not in the list sort lexicographically after all listed names.
func OrderFromList(chroms []string) *ChromosomeOrder {
	rank := make(map[string]int, len(chroms))
	for i, c := range chroms {
		if _, ok := rank[c]; !ok {
			rank[c] = i
		}
	}
	return &ChromosomeOrder{rank: rank}
}

// Less reports whether chromosome a sorts before b.
func (o *ChromosomeOrder) Less(a, b string) bool {
	if o.rank != nil {
		ra, aok := o.rank[a]
		rb, bok := o.rank[b]
		switch {
		case aok && bok:
			return ra < rb
		case aok:
			return true
		case bok:
			return false
		}
	}
	return a < b
}

// Sort sorts chroms in place according to the order.
func (o *ChromosomeOrder) Sort(chroms []string) {
	sort.Slice(chroms, func(i, j int) bool { return o.Less(chroms[i], chroms[j]) })
}
