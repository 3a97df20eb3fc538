package ops

import "github.com/inodb/vibe-bedtools/internal/interval"

// runIntersect emits one overlap region per qualifying (a, b) pair.
func (c *Compiler) runIntersect(r *IntersectRequest, chrom string) ([]*OutputRecord, error) {
	as, err := c.store.Partition(r.SetA, chrom)
	if err != nil {
		return nil, err
	}

	var out []*OutputRecord
	for _, a := range as {
		bs, err := c.store.QueryOverlaps(r.SetB, chrom, a.Start, a.End)
		if err != nil {
			return nil, err
		}
		for _, b := range bs {
			if r.SameStrand && a.Strand != b.Strand {
				continue
			}
			start, end := a.OverlapSpan(b)
			if !fractionOK(a, start, end, r.MinOverlapFraction) {
				continue
			}
			if r.Reciprocal && !fractionOK(b, start, end, r.MinOverlapFraction) {
				continue
			}
			out = append(out, &OutputRecord{
				Kind: KindIntersect,
				Interval: interval.GenomicInterval{
					Chrom:  chrom,
					Start:  start,
					End:    end,
					Strand: a.Strand,
					Name:   a.Name,
				},
				A: a,
				B: b,
			})
		}
	}
	return out, nil
}

// fractionOK checks the overlap fraction of [start, end) against iv's
// length. A zero-length iv that matched counts as fully covered.
func fractionOK(iv *interval.GenomicInterval, start, end int64, minFraction float64) bool {
	if iv.IsPoint() {
		return true
	}
	frac := float64(end-start) / float64(iv.Length())
	return frac >= minFraction
}
