// Package output formats operation results as BED-style tab-delimited
// records, one output shape per operation kind.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vibe-bedtools/internal/interval"
	"github.com/inodb/vibe-bedtools/internal/ops"
)

// Writer writes output records in tab-delimited BED style. Columns past
// chrom/start/end depend on the operation kind; see Write.
type Writer struct {
	w *bufio.Writer
}

// NewWriter creates a writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write writes a single record. Per-kind columns:
//
//	intersect:  chrom start end nameA nameB
//	merge:      chrom start end count [strand]
//	subtract:   chrom start end name score strand
//	closest:    chromA startA endA nameA chromB startB endB nameB distance
//	complement: chrom start end
//	coverage:   chrom start end name depth covered fraction
//
// Missing names and scores are written as ".". A closest record without a
// neighbor writes "." and -1 placeholders for the B columns.
func (w *Writer) Write(rec *ops.OutputRecord) error {
	iv := &rec.Interval

	var fields []string
	switch rec.Kind {
	case ops.KindIntersect:
		fields = []string{iv.Chrom, itoa(iv.Start), itoa(iv.End),
			name(rec.A), name(rec.B)}
	case ops.KindMerge:
		fields = []string{iv.Chrom, itoa(iv.Start), itoa(iv.End),
			strconv.FormatInt(rec.Count, 10)}
		if iv.Strand != interval.StrandNone {
			fields = append(fields, iv.Strand.String())
		}
	case ops.KindSubtract:
		fields = []string{iv.Chrom, itoa(iv.Start), itoa(iv.End),
			dot(iv.Name), score(iv), iv.Strand.String()}
	case ops.KindClosest:
		fields = []string{iv.Chrom, itoa(iv.Start), itoa(iv.End), name(rec.A)}
		if rec.NoNeighbor {
			fields = append(fields, ".", "-1", "-1", ".", ".")
		} else {
			b := rec.B
			fields = append(fields, b.Chrom, itoa(b.Start), itoa(b.End), name(rec.B),
				strconv.FormatInt(rec.Distance, 10))
		}
	case ops.KindComplement:
		fields = []string{iv.Chrom, itoa(iv.Start), itoa(iv.End)}
	case ops.KindCoverage:
		fields = []string{iv.Chrom, itoa(iv.Start), itoa(iv.End), dot(iv.Name),
			strconv.FormatInt(rec.Count, 10),
			strconv.FormatInt(rec.CoveredBases, 10),
			strconv.FormatFloat(rec.Fraction, 'f', 7, 64)}
	default:
		return fmt.Errorf("unknown record kind %v", rec.Kind)
	}

	_, err := w.w.WriteString(strings.Join(fields, "\t") + "\n")
	return err
}

// WriteAll drains a result stream into the writer and flushes. The stream
// is closed on error so executor resources are released.
func (w *Writer) WriteAll(s *ops.ResultStream) error {
	defer s.Close()
	for {
		rec, err := s.Next()
		if err != nil {
			return err
		}
		if rec == nil {
			break
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Flush flushes buffered output.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// BEDWriter writes plain intervals as six-column BED.
type BEDWriter struct {
	w *bufio.Writer
}

// NewBEDWriter creates a plain-interval writer on w.
func NewBEDWriter(w io.Writer) *BEDWriter {
	return &BEDWriter{w: bufio.NewWriter(w)}
}

// Write writes one interval as chrom, start, end, name, score, strand.
func (bw *BEDWriter) Write(iv *interval.GenomicInterval) error {
	fields := []string{iv.Chrom, itoa(iv.Start), itoa(iv.End),
		dot(iv.Name), score(iv), iv.Strand.String()}
	_, err := bw.w.WriteString(strings.Join(fields, "\t") + "\n")
	return err
}

// Flush flushes buffered output.
func (bw *BEDWriter) Flush() error {
	return bw.w.Flush()
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

func dot(s string) string {
	if s == "" {
		return "."
	}
	return s
}

func name(iv *interval.GenomicInterval) string {
	if iv == nil {
		return "."
	}
	return dot(iv.Name)
}

func score(iv *interval.GenomicInterval) string {
	if !iv.HasScore {
		return "."
	}
	return strconv.FormatFloat(iv.Score, 'g', -1, 64)
}
