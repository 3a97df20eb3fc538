package ops

// runClosest finds the nearest B interval for each A interval. Every A
// interval produces exactly one record; when no B interval is within
// MaxDistance (or B has no intervals on the chromosome) the record carries
// NoNeighbor instead of being dropped, so results can be joined back to the
// input positionally.
func (c *Compiler) runClosest(r *ClosestRequest, chrom string) ([]*OutputRecord, error) {
	as, err := c.store.Partition(r.SetA, chrom)
	if err != nil {
		return nil, err
	}

	out := make([]*OutputRecord, 0, len(as))
	for _, a := range as {
		rec := &OutputRecord{Kind: KindClosest, Interval: *a, A: a}

		b, err := c.store.QueryNearest(r.SetB, chrom, a.Start, a.End, r.MaxDistance)
		if err != nil {
			return nil, err
		}
		if b == nil {
			rec.NoNeighbor = true
		} else {
			rec.B = b
			rec.Distance = a.Distance(b)
		}
		out = append(out, rec)
	}
	return out, nil
}
