package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-bedtools/internal/bed"
	"github.com/inodb/vibe-bedtools/internal/interval"
	"github.com/inodb/vibe-bedtools/internal/ops"
	"github.com/inodb/vibe-bedtools/internal/output"
	"github.com/inodb/vibe-bedtools/internal/store"
)

// Set identifiers used when loading BED inputs from the command line.
const (
	setA = "A"
	setB = "B"
)

// runEnv carries the per-invocation pieces shared by every operation
// command: logger, normalizer, genome, and output destination.
type runEnv struct {
	logger *zap.Logger
	norm   *interval.Normalizer
	genome *interval.Genome
	out    io.Writer
	closer io.Closer
}

func newRunEnv(cmd *cobra.Command) (*runEnv, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	env := &runEnv{logger: newLogger(verbose), out: os.Stdout}

	canon, err := interval.ParseCanonMode(viper.GetString("canonicalize"))
	if err != nil {
		return nil, err
	}
	env.norm = interval.NewNormalizer(canon)

	if genomePath, _ := cmd.Flags().GetString("genome"); genomePath != "" {
		env.genome, err = interval.LoadGenome(genomePath)
		if err != nil {
			return nil, err
		}
	}

	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return nil, fmt.Errorf("create output file: %w", err)
		}
		env.out = f
		env.closer = f
	}
	return env, nil
}

func (env *runEnv) close() {
	if env.closer != nil {
		env.closer.Close()
	}
	env.logger.Sync()
}

// loadBED loads one BED file into st under the given set identifier.
func (env *runEnv) loadBED(st store.Store, setID, path string) error {
	parser, err := bed.NewParser(path)
	if err != nil {
		return err
	}
	defer parser.Close()

	loader := store.NewLoader(st, env.norm)
	loader.SetSkipInvalid(viper.GetBool("skip_invalid"))
	loader.SetLogger(env.logger)

	loaded, skipped, err := loader.LoadSet(setID, parser)
	if err != nil {
		return err
	}
	env.logger.Debug("loaded set",
		zap.String("set", setID), zap.String("path", path),
		zap.Int64("intervals", loaded), zap.Int64("skipped", skipped))
	return nil
}

// buildStore loads the BED file arguments into a fresh in-memory store and
// finalizes it for querying.
func (env *runEnv) buildStore(paths map[string]string) (store.Store, error) {
	st := store.NewMemoryStore()
	for setID, path := range paths {
		if err := env.loadBED(st, setID, path); err != nil {
			return nil, err
		}
	}
	if err := st.Finalize(); err != nil {
		return nil, err
	}
	return st, nil
}

// perform runs a compiled operation against st and writes the result stream.
func (env *runEnv) perform(st store.Store, req ops.Request) error {
	compiler := ops.NewCompiler(st)
	compiler.SetLogger(env.logger)
	if workers := viper.GetInt("workers"); workers > 0 {
		compiler.SetWorkers(workers)
	}
	if env.genome != nil {
		compiler.SetChromosomeOrder(env.genome.Order())
	}

	stream, err := compiler.Perform(req)
	if err != nil {
		return err
	}
	return output.NewWriter(env.out).WriteAll(stream)
}

// runBinaryOp is the shared skeleton of the two-set operations: load A and
// B, then perform the request built by makeReq.
func runBinaryOp(cmd *cobra.Command, args []string, makeReq func() ops.Request) error {
	env, err := newRunEnv(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	st, err := env.buildStore(map[string]string{setA: args[0], setB: args[1]})
	if err != nil {
		return err
	}
	defer st.Close()

	return env.perform(st, makeReq())
}

func newIntersectCmd() *cobra.Command {
	var (
		minFraction float64
		reciprocal  bool
		sameStrand  bool
	)
	cmd := &cobra.Command{
		Use:   "intersect <a.bed> <b.bed>",
		Short: "Report overlap regions between A and B",
		Example: `  vibe-bedtools intersect a.bed b.bed
  vibe-bedtools intersect -f 0.5 -r a.bed b.bed
  vibe-bedtools intersect -s a.bed b.bed.gz`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBinaryOp(cmd, args, func() ops.Request {
				return &ops.IntersectRequest{
					SetA: setA, SetB: setB,
					MinOverlapFraction: minFraction,
					Reciprocal:         reciprocal,
					SameStrand:         sameStrand,
				}
			})
		},
	}
	cmd.Flags().Float64VarP(&minFraction, "fraction", "f", 0, "Minimum overlap as a fraction of A's length")
	cmd.Flags().BoolVarP(&reciprocal, "reciprocal", "r", false, "Require the fraction of B as well")
	cmd.Flags().BoolVarP(&sameStrand, "same-strand", "s", false, "Only report overlaps on the same strand")
	return cmd
}

func newMergeCmd() *cobra.Command {
	var (
		maxGap     int64
		sameStrand bool
	)
	cmd := &cobra.Command{
		Use:   "merge <a.bed>",
		Short: "Merge overlapping or nearby intervals",
		Example: `  vibe-bedtools merge a.bed
  vibe-bedtools merge -d 100 a.bed
  vibe-bedtools merge -s a.bed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newRunEnv(cmd)
			if err != nil {
				return err
			}
			defer env.close()

			st, err := env.buildStore(map[string]string{setA: args[0]})
			if err != nil {
				return err
			}
			defer st.Close()

			return env.perform(st, &ops.MergeRequest{
				SetA: setA, MaxGap: maxGap, SameStrand: sameStrand,
			})
		},
	}
	cmd.Flags().Int64VarP(&maxGap, "distance", "d", 0, "Maximum gap between intervals to merge")
	cmd.Flags().BoolVarP(&sameStrand, "same-strand", "s", false, "Only merge intervals on the same strand")
	return cmd
}

func newSubtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "subtract <a.bed> <b.bed>",
		Short:   "Remove B regions from A intervals",
		Example: `  vibe-bedtools subtract a.bed b.bed`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBinaryOp(cmd, args, func() ops.Request {
				return &ops.SubtractRequest{SetA: setA, SetB: setB}
			})
		},
	}
}

func newClosestCmd() *cobra.Command {
	var maxDistance int64
	cmd := &cobra.Command{
		Use:   "closest <a.bed> <b.bed>",
		Short: "Find the nearest B interval for each A interval",
		Example: `  vibe-bedtools closest a.bed b.bed
  vibe-bedtools closest --max-distance 5000 a.bed b.bed`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBinaryOp(cmd, args, func() ops.Request {
				return &ops.ClosestRequest{SetA: setA, SetB: setB, MaxDistance: maxDistance}
			})
		},
	}
	cmd.Flags().Int64Var(&maxDistance, "max-distance", -1, "Maximum distance to search (-1 = unbounded)")
	return cmd
}

func newComplementCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complement <a.bed>",
		Short: "Report the gaps not covered by A",
		Example: `  vibe-bedtools complement a.bed
  vibe-bedtools complement -g genome.txt a.bed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newRunEnv(cmd)
			if err != nil {
				return err
			}
			defer env.close()

			st, err := env.buildStore(map[string]string{setA: args[0]})
			if err != nil {
				return err
			}
			defer st.Close()

			return env.perform(st, &ops.ComplementRequest{SetA: setA, Genome: env.genome})
		},
	}
}

func newCoverageCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "coverage <a.bed> <b.bed>",
		Short:   "Report B depth over each A interval",
		Example: `  vibe-bedtools coverage a.bed b.bed`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBinaryOp(cmd, args, func() ops.Request {
				return &ops.CoverageRequest{SetA: setA, SetB: setB}
			})
		},
	}
}
