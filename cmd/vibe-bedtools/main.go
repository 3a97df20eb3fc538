// Package main provides the vibe-bedtools command-line tool: genomic
// interval set operations executed over an indexed interval store.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "vibe-bedtools",
		Short: "Genomic interval set operations",
		Long: `vibe-bedtools computes set operations over genomic intervals
(intersect, merge, subtract, closest, complement, coverage) using an
indexed, per-chromosome-sorted interval store.

Coordinates are 0-based half-open BED coordinates. Without a genome file
the result chromosome order is lexicographic.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd)
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	pf.String("canon-chrom", "none", "Chromosome name canonicalization: none, strip-chr, add-chr")
	pf.Bool("skip-invalid", false, "Drop invalid records with a warning instead of aborting the load")
	pf.Int("workers", 0, "Per-chromosome executor goroutines (0 = one per CPU)")
	pf.StringP("genome", "g", "", "Genome file (chrom<TAB>length) for chromosome order and complement extents")
	pf.StringP("output", "o", "", "Output file (default: stdout)")

	viper.BindPFlag("canonicalize", pf.Lookup("canon-chrom"))
	viper.BindPFlag("skip_invalid", pf.Lookup("skip-invalid"))
	viper.BindPFlag("workers", pf.Lookup("workers"))

	cmd.AddCommand(newIntersectCmd())
	cmd.AddCommand(newMergeCmd())
	cmd.AddCommand(newSubtractCmd())
	cmd.AddCommand(newClosestCmd())
	cmd.AddCommand(newComplementCmd())
	cmd.AddCommand(newCoverageCmd())
	cmd.AddCommand(newDBCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("vibe-bedtools version %s (%s) built %s\n", version, commit, date)
		},
	}
}

// initConfig reads ~/.vibe-bedtools.yaml if present.
func initConfig(cmd *cobra.Command) error {
	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".vibe-bedtools")
		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return fmt.Errorf("reading config: %w", err)
			}
		}
	}
	return nil
}

// newLogger builds the CLI logger: warnings by default, debug with -v.
func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
