package ops

// runCoverage reports the B depth over each A interval: the count of
// overlapping B intervals, the number of A bases covered by at least one
// B interval, and the covered fraction of A. For a zero-length A interval
// the depth counts the B intervals containing the point, covered bases are
// 0, and the fraction is 1.0 when the depth is positive (the point itself
// is covered) and 0.0 otherwise.
func (c *Compiler) runCoverage(r *CoverageRequest, chrom string) ([]*OutputRecord, error) {
	as, err := c.store.Partition(r.SetA, chrom)
	if err != nil {
		return nil, err
	}

	out := make([]*OutputRecord, 0, len(as))
	for _, a := range as {
		bs, err := c.store.QueryOverlaps(r.SetB, chrom, a.Start, a.End)
		if err != nil {
			return nil, err
		}

		rec := &OutputRecord{Kind: KindCoverage, Interval: *a, A: a, Count: int64(len(bs))}

		if a.IsPoint() {
			if len(bs) > 0 {
				rec.Fraction = 1.0
			}
			out = append(out, rec)
			continue
		}

		// Union length of the clipped B spans; starts arrive ascending.
		var covered int64
		cursor := a.Start
		for _, b := range bs {
			bStart, bEnd := a.OverlapSpan(b)
			if bEnd <= bStart {
				continue
			}
			if bStart > cursor {
				cursor = bStart
			}
			if bEnd > cursor {
				covered += bEnd - cursor
				cursor = bEnd
			}
		}
		rec.CoveredBases = covered
		rec.Fraction = float64(covered) / float64(a.Length())
		out = append(out, rec)
	}
	return out, nil
}
