package ops

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/inodb/vibe-bedtools/internal/interval"
	"github.com/inodb/vibe-bedtools/internal/store"
)

// Compiler turns operation requests into per-chromosome query plans against
// a queryable store and executes them as a result stream. The store must be
// finalized before Perform is called; the compiler never mutates it, so one
// compiler may serve concurrent requests.
type Compiler struct {
	store   store.Store
	order   *interval.ChromosomeOrder
	workers int
	logger  *zap.Logger
}

// NewCompiler creates a compiler over st. The default chromosome order is
// lexicographic; override it with SetChromosomeOrder for assembly order.
func NewCompiler(st store.Store) *Compiler {
	return &Compiler{
		store:  st,
		order:  interval.LexicographicOrder(),
		logger: zap.NewNop(),
	}
}

// SetChromosomeOrder overrides the result chromosome order.
func (c *Compiler) SetChromosomeOrder(order *interval.ChromosomeOrder) {
	c.order = order
}

// SetWorkers sets the number of per-chromosome executor goroutines.
// Zero means one per CPU.
func (c *Compiler) SetWorkers(n int) {
	c.workers = n
}

// SetLogger sets the logger for plan diagnostics.
func (c *Compiler) SetLogger(logger *zap.Logger) {
	c.logger = logger
}

// Perform validates req, compiles it into per-chromosome plans, and returns
// a stream producing the results in (chromosome, start, end) order.
// Validation failures surface before any record is produced.
func (c *Compiler) Perform(req Request) (*ResultStream, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := c.checkSets(req); err != nil {
		return nil, err
	}

	chroms, err := c.planChromosomes(req)
	if err != nil {
		return nil, err
	}

	run, err := c.executorFor(req)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("compiled operation",
		zap.Stringer("kind", req.Kind()),
		zap.Int("chromosomes", len(chroms)))

	s := newResultStream(0)
	go s.produce(chroms, c.workers, func(chrom string) ([]*OutputRecord, error) {
		recs, err := run(chrom)
		if err != nil {
			return nil, err
		}
		sortRecords(recs)
		return recs, nil
	})
	return s, nil
}

// checkSets verifies that every referenced set is loaded.
func (c *Compiler) checkSets(req Request) error {
	ids, err := c.store.SetIDs()
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}

	check := func(param, id string) error {
		if id != "" && !known[id] {
			return &InvalidParameterError{Op: req.Kind(), Param: param,
				Reason: fmt.Sprintf("set %q is not loaded", id)}
		}
		return nil
	}

	switch r := req.(type) {
	case *IntersectRequest:
		return firstErr(check("set A", r.SetA), check("set B", r.SetB))
	case *MergeRequest:
		return check("set A", r.SetA)
	case *SubtractRequest:
		return firstErr(check("set A", r.SetA), check("set B", r.SetB))
	case *ClosestRequest:
		return firstErr(check("set A", r.SetA), check("set B", r.SetB))
	case *ComplementRequest:
		return check("set A", r.SetA)
	case *CoverageRequest:
		return firstErr(check("set A", r.SetA), check("set B", r.SetB))
	default:
		return &InvalidParameterError{Op: req.Kind(), Param: "request",
			Reason: "unknown request type"}
	}
}

// planChromosomes returns the chromosomes the operation visits, in the
// compiler's chromosome order. All operations are driven by set A;
// complement with a genome also visits chromosomes absent from A.
func (c *Compiler) planChromosomes(req Request) ([]string, error) {
	setA := drivingSet(req)
	chroms, err := c.store.Chromosomes(setA)
	if err != nil {
		return nil, err
	}

	if r, ok := req.(*ComplementRequest); ok && r.Genome != nil {
		seen := make(map[string]bool, len(chroms))
		for _, ch := range chroms {
			seen[ch] = true
		}
		for _, ch := range r.Genome.Chroms {
			if !seen[ch] {
				chroms = append(chroms, ch)
				seen[ch] = true
			}
		}
	}

	c.order.Sort(chroms)
	return chroms, nil
}

func drivingSet(req Request) string {
	switch r := req.(type) {
	case *IntersectRequest:
		return r.SetA
	case *MergeRequest:
		return r.SetA
	case *SubtractRequest:
		return r.SetA
	case *ClosestRequest:
		return r.SetA
	case *ComplementRequest:
		return r.SetA
	case *CoverageRequest:
		return r.SetA
	default:
		return ""
	}
}

// executorFor returns the per-chromosome plan for the request kind.
func (c *Compiler) executorFor(req Request) (func(chrom string) ([]*OutputRecord, error), error) {
	switch r := req.(type) {
	case *IntersectRequest:
		return func(chrom string) ([]*OutputRecord, error) { return c.runIntersect(r, chrom) }, nil
	case *MergeRequest:
		return func(chrom string) ([]*OutputRecord, error) { return c.runMerge(r, chrom) }, nil
	case *SubtractRequest:
		return func(chrom string) ([]*OutputRecord, error) { return c.runSubtract(r, chrom) }, nil
	case *ClosestRequest:
		return func(chrom string) ([]*OutputRecord, error) { return c.runClosest(r, chrom) }, nil
	case *ComplementRequest:
		return func(chrom string) ([]*OutputRecord, error) { return c.runComplement(r, chrom) }, nil
	case *CoverageRequest:
		return func(chrom string) ([]*OutputRecord, error) { return c.runCoverage(r, chrom) }, nil
	default:
		return nil, &InvalidParameterError{Op: req.Kind(), Param: "request",
			Reason: "unknown request type"}
	}
}

// sortRecords restores the (start, end) order within a chromosome batch.
// Executors driven by A emit in A order, which overlapping A intervals can
// break for derived spans. The sort is stable so records at the same span
// keep their emission order.
func sortRecords(recs []*OutputRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := &recs[i].Interval, &recs[j].Interval
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.End < b.End
	})
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
