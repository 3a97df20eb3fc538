package store

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/vibe-bedtools/internal/interval"
)

// RecordSource yields raw records from a format parser. Next returns nil at
// end of input. The bed package's Parser implements this.
type RecordSource interface {
	Next() (*interval.Record, error)
}

// recordError marks errors that describe a single bad input record, as
// opposed to I/O failures. The bed parser's ParseError and the normalizer's
// InvalidRecordError both implement it.
type recordError interface {
	error
	InvalidRecord()
}

// Loader runs the load phase: it pulls raw records from a source, pushes
// them through the normalizer, and appends them to a store. By default the
// first malformed or invalid record aborts the load for that set; in skip
// mode such records are dropped with a warning and a running count.
// Genuine I/O failures abort either way.
type Loader struct {
	store       Store
	norm        *interval.Normalizer
	skipInvalid bool
	logger      *zap.Logger
}

// NewLoader creates a loader writing into st with the given normalizer.
func NewLoader(st Store, norm *interval.Normalizer) *Loader {
	return &Loader{store: st, norm: norm, logger: zap.NewNop()}
}

// SetSkipInvalid configures whether invalid records are dropped instead of
// aborting the load.
func (l *Loader) SetSkipInvalid(skip bool) {
	l.skipInvalid = skip
}

// SetLogger sets the logger for dropped-record warnings.
func (l *Loader) SetLogger(logger *zap.Logger) {
	l.logger = logger
}

// LoadSet loads all records from src into the named set. Returns the number
// of intervals appended and the number skipped. The store stays in
// StateLoading; call Finalize once all sets are loaded.
func (l *Loader) LoadSet(setID string, src RecordSource) (loaded, skipped int64, err error) {
	if setID == "" {
		return 0, 0, fmt.Errorf("load: empty set identifier")
	}

	var order int64
	for {
		rec, err := src.Next()
		if err != nil {
			var bad recordError
			if l.skipInvalid && errors.As(err, &bad) {
				skipped++
				l.logger.Warn("skipping invalid record",
					zap.String("set", setID), zap.Error(err))
				continue
			}
			return loaded, skipped, fmt.Errorf("load set %q: %w", setID, err)
		}
		if rec == nil {
			break
		}

		iv, err := l.norm.Normalize(setID, order, *rec)
		order++
		if err != nil {
			if l.skipInvalid {
				skipped++
				l.logger.Warn("skipping invalid record",
					zap.String("set", setID), zap.Error(err))
				continue
			}
			return loaded, skipped, err
		}

		if err := l.store.Append(iv); err != nil {
			return loaded, skipped, err
		}
		loaded++
	}

	if skipped > 0 {
		l.logger.Info("load finished with skipped records",
			zap.String("set", setID),
			zap.Int64("loaded", loaded),
			zap.Int64("skipped", skipped))
	}
	return loaded, skipped, nil
}
