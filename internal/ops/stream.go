package ops

import "sync"

// ResultStream is a lazy, finite, non-restartable sequence of output
// records, globally ordered by (chromosome, start, end). Records are
// produced per chromosome on demand; the stream never materializes the full
// result. Closing the stream early stops all producing goroutines and
// releases their resources deterministically.
type ResultStream struct {
	recs chan *OutputRecord
	done chan struct{}
	once sync.Once

	// err is written by the producer before recs is closed; the channel
	// close provides the happens-before edge for readers.
	err error
}

func newResultStream(buffer int) *ResultStream {
	if buffer <= 0 {
		buffer = 64
	}
	return &ResultStream{
		recs: make(chan *OutputRecord, buffer),
		done: make(chan struct{}),
	}
}

// Next returns the next record, or nil when the stream is exhausted. After
// a nil record the error, if any, is returned alongside it.
func (s *ResultStream) Next() (*OutputRecord, error) {
	rec, ok := <-s.recs
	if !ok {
		return nil, s.err
	}
	return rec, nil
}

// Close stops the stream. Producing goroutines observe the close and exit;
// Close is idempotent and safe to call while Next is blocked.
func (s *ResultStream) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}

// Collect drains the stream into a slice. Intended for tests and small
// results; genome-scale callers should iterate with Next.
func (s *ResultStream) Collect() ([]*OutputRecord, error) {
	var out []*OutputRecord
	for {
		rec, err := s.Next()
		if err != nil {
			return out, err
		}
		if rec == nil {
			return out, nil
		}
		out = append(out, rec)
	}
}
