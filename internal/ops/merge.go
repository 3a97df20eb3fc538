package ops

import "github.com/inodb/vibe-bedtools/internal/interval"

// runMerge merges sorted A intervals whose gap is at most MaxGap. With
// SameStrand the partition is split by strand first and each group merged
// independently; the batch sort restores positional order afterwards.
func (c *Compiler) runMerge(r *MergeRequest, chrom string) ([]*OutputRecord, error) {
	ivs, err := c.store.Partition(r.SetA, chrom)
	if err != nil {
		return nil, err
	}
	if !r.SameStrand {
		return mergeRun(chrom, ivs, r.MaxGap, false), nil
	}

	groups := make(map[interval.Strand][]*interval.GenomicInterval)
	for _, iv := range ivs {
		groups[iv.Strand] = append(groups[iv.Strand], iv)
	}
	var out []*OutputRecord
	for _, strand := range []interval.Strand{interval.StrandForward, interval.StrandReverse, interval.StrandNone} {
		out = append(out, mergeRun(chrom, groups[strand], r.MaxGap, true)...)
	}
	return out, nil
}

// mergeRun merges one sorted run of intervals. Consecutive intervals are
// absorbed while next.Start - current.End <= maxGap; adjacent intervals
// (gap 0) always merge. Each output records how many source intervals it
// absorbed.
func mergeRun(chrom string, ivs []*interval.GenomicInterval, maxGap int64, keepStrand bool) []*OutputRecord {
	if len(ivs) == 0 {
		return nil
	}

	var out []*OutputRecord
	cur := &OutputRecord{
		Kind: KindMerge,
		Interval: interval.GenomicInterval{
			Chrom: chrom,
			Start: ivs[0].Start,
			End:   ivs[0].End,
		},
		Count: 1,
	}
	if keepStrand {
		cur.Interval.Strand = ivs[0].Strand
	}

	for _, iv := range ivs[1:] {
		if iv.Start-cur.Interval.End <= maxGap {
			if iv.End > cur.Interval.End {
				cur.Interval.End = iv.End
			}
			cur.Count++
			continue
		}
		out = append(out, cur)
		cur = &OutputRecord{
			Kind: KindMerge,
			Interval: interval.GenomicInterval{
				Chrom: chrom,
				Start: iv.Start,
				End:   iv.End,
			},
			Count: 1,
		}
		if keepStrand {
			cur.Interval.Strand = iv.Strand
		}
	}
	return append(out, cur)
}
