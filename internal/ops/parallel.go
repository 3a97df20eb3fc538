package ops

import (
	"runtime"
	"sync"
)

// chromTask is one chromosome's worth of work for the executor pool.
type chromTask struct {
	Seq   int
	Chrom string
}

// chromResult holds one chromosome's sorted output batch.
type chromResult struct {
	Seq  int
	Recs []*OutputRecord
	Err  error
}

// produce executes run for every chromosome using a pool of workers and
// feeds the stream in chromosome order. Chromosomes are independent (no
// interval operation spans a chromosome boundary), so workers share nothing
// but the immutable store. Results arrive out of order and are re-sequenced
// before emission. Runs in its own goroutine; returns when all records are
// emitted, an executor fails, or the stream is closed.
func (s *ResultStream) produce(chroms []string, workers int, run func(chrom string) ([]*OutputRecord, error)) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(chroms) {
		workers = len(chroms)
	}
	if workers < 1 {
		workers = 1
	}

	tasks := make(chan chromTask)
	results := make(chan chromResult, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for t := range tasks {
				recs, err := run(t.Chrom)
				select {
				case results <- chromResult{Seq: t.Seq, Recs: recs, Err: err}:
				case <-s.done:
					return
				}
			}
		}()
	}

	go func() {
		defer close(tasks)
		for i, chrom := range chroms {
			select {
			case tasks <- chromTask{Seq: i, Chrom: chrom}:
			case <-s.done:
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Re-sequence batches and emit record by record. Out-of-order batches
	// wait in pending until the next expected sequence number arrives.
	pending := make(map[int]chromResult)
	nextSeq := 0
	emitted := true

	finish := func(err error) {
		s.once.Do(func() { close(s.done) })
		for range results {
			// Drain so workers blocked on send can exit.
		}
		s.err = err
		close(s.recs)
	}

	for r := range results {
		pending[r.Seq] = r
		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++

			if rr.Err != nil {
				finish(rr.Err)
				return
			}
			for _, rec := range rr.Recs {
				select {
				case s.recs <- rec:
				case <-s.done:
					emitted = false
				}
				if !emitted {
					finish(nil)
					return
				}
			}
		}
	}
	s.err = nil
	close(s.recs)
}
