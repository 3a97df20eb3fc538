package ops

import "github.com/inodb/vibe-bedtools/internal/interval"

// runComplement emits the gaps left uncovered by A on one chromosome.
// Intervals are merged (gap 0, adjacency absorbed) first so gaps are the
// spaces between disjoint covered spans. Zero-length intervals cover
// nothing and are ignored. With a genome extent the gap before the first
// and after the last interval are included; without one only interior gaps
// are emitted.
func (c *Compiler) runComplement(r *ComplementRequest, chrom string) ([]*OutputRecord, error) {
	ivs, err := c.store.Partition(r.SetA, chrom)
	if err != nil {
		return nil, err
	}

	spans := ivs[:0:0]
	for _, iv := range ivs {
		if !iv.IsPoint() {
			spans = append(spans, iv)
		}
	}
	merged := mergeRun(chrom, spans, 0, false)

	var extent int64 = -1
	if r.Genome != nil {
		if l, ok := r.Genome.Lengths[chrom]; ok {
			extent = l
		}
	}

	var out []*OutputRecord
	gap := func(start, end int64) {
		if end > start {
			out = append(out, &OutputRecord{
				Kind:     KindComplement,
				Interval: interval.GenomicInterval{Chrom: chrom, Start: start, End: end},
			})
		}
	}

	if len(merged) == 0 {
		if extent >= 0 {
			gap(0, extent)
		}
		return out, nil
	}

	if extent >= 0 {
		gap(0, merged[0].Interval.Start)
	}
	for i := 1; i < len(merged); i++ {
		gap(merged[i-1].Interval.End, merged[i].Interval.Start)
	}
	if extent >= 0 {
		gap(merged[len(merged)-1].Interval.End, extent)
	}
	return out, nil
}
