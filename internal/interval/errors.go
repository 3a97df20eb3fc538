package interval

import "fmt"

// InvalidRecordError reports a raw record that failed normalization.
// Position context (set identifier and input order) is included so a bad
// record can be located without re-running with extra instrumentation.
type InvalidRecordError struct {
	SetID  string
	Order  int64
	Chrom  string
	Reason string
}

func (e *InvalidRecordError) Error() string {
	if e.Chrom == "" {
		return fmt.Sprintf("invalid record %d in set %q: %s", e.Order, e.SetID, e.Reason)
	}
	return fmt.Sprintf("invalid record %d in set %q (%s): %s", e.Order, e.SetID, e.Chrom, e.Reason)
}

// InvalidRecord marks the error as describing a single bad input record
// rather than an I/O failure, so loaders can drop the record and continue.
func (e *InvalidRecordError) InvalidRecord() {}
