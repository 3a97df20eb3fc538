package ops

import "github.com/inodb/vibe-bedtools/internal/interval"

// runSubtract removes the union of overlapping B regions from each A
// interval, producing zero or more residual sub-intervals carrying A's
// attributes. An A interval fully covered by B emits nothing. A zero-length
// A interval survives untouched unless some B interval overlaps it, in
// which case it is treated as fully covered. Zero-length B intervals remove
// no bases.
func (c *Compiler) runSubtract(r *SubtractRequest, chrom string) ([]*OutputRecord, error) {
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
		if len(bs) == 0 {
			out = append(out, residual(a, a.Start, a.End))
			continue
		}
		if a.IsPoint() {
			continue
		}

		// Sweep the sorted clipped B spans over a. QueryOverlaps returns
		// ascending starts, so the cursor only moves forward.
		cursor := a.Start
		for _, b := range bs {
			bStart, bEnd := a.OverlapSpan(b)
			if bEnd <= bStart {
				continue // zero-length or point match, nothing removed
			}
			if bStart > cursor {
				out = append(out, residual(a, cursor, bStart))
			}
			if bEnd > cursor {
				cursor = bEnd
			}
		}
		if cursor < a.End {
			out = append(out, residual(a, cursor, a.End))
		}
	}
	return out, nil
}

func residual(a *interval.GenomicInterval, start, end int64) *OutputRecord {
	return &OutputRecord{
		Kind: KindSubtract,
		Interval: interval.GenomicInterval{
			Chrom:    a.Chrom,
			Start:    start,
			End:      end,
			Strand:   a.Strand,
			Name:     a.Name,
			Score:    a.Score,
			HasScore: a.HasScore,
		},
		A: a,
	}
}
